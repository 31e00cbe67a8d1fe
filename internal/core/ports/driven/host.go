package driven

import "context"

// Yielder gives control back to the host between loader turns.
// Yield returns at the host's next rendering opportunity.
type Yielder interface {
	Yield(ctx context.Context) error
}

// YielderFunc adapts a function to the Yielder interface.
type YielderFunc func(ctx context.Context) error

// Yield calls f(ctx).
func (f YielderFunc) Yield(ctx context.Context) error {
	return f(ctx)
}

// ProgressSurface displays import status while the display is not yet shown.
type ProgressSurface interface {
	// SetStatus replaces the status text.
	SetStatus(status string)

	// Hide removes the progress surface once the display is revealed.
	Hide()
}
