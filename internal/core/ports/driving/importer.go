package driving

import (
	"context"

	"github.com/custodia-labs/trove/internal/core/domain"
)

// Importer runs one record import: load, resolve, then display handoff.
type Importer interface {
	// Import runs the whole import. It returns once the display consumer has
	// signalled ready and the progress surface is hidden, or on the first error.
	// An importer runs at most once.
	Import(ctx context.Context, records []domain.Record) error

	// Phase returns the current state machine phase.
	Phase() domain.Phase

	// Progress returns the latest progress state.
	Progress() domain.Progress
}
