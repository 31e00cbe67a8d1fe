package driven

import (
	"context"

	"github.com/custodia-labs/trove/internal/core/domain"
)

// BuildOptions is passed to DisplayConsumer.Build.
type BuildOptions struct {
	// Progress forwards consumer status text to the importer's progress surface.
	Progress func(status string)

	// HelpURL points at user documentation.
	HelpURL string

	// FeedbackURL points at the issue tracker.
	FeedbackURL string
}

// DisplayConsumer presents the finished collection.
//
// The importer subscribes to Ready before calling Build. The channel is
// closed exactly once, when the consumer's view is ready to be shown.
type DisplayConsumer interface {
	// Ready returns the one-shot readiness signal.
	Ready() <-chan struct{}

	// Build constructs the consumer's view over the collection.
	// The collection must not be modified after Build is called.
	Build(ctx context.Context, collection *domain.Collection, opts BuildOptions) error

	// Reveal makes the consumer's view visible.
	Reveal()
}
