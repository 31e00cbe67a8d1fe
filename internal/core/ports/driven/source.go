package driven

import (
	"context"

	"github.com/custodia-labs/trove/internal/core/domain"
)

// RecordSource supplies the records for one import.
// The sequence is finite and fully materialized so its length is known
// before loading starts.
type RecordSource interface {
	// Records returns all records in source order.
	Records(ctx context.Context) ([]domain.Record, error)

	// Describe returns a short human-readable name for the source.
	Describe() string
}

// RecordDecoder deserializes records into entities.
type RecordDecoder interface {
	// Decode returns the entity carried by the record.
	// A record that cannot be decoded returns an error; the loader aborts on it.
	Decode(record domain.Record) (*domain.Entity, error)
}
