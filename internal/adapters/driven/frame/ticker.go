// Package frame paces the importer against the display's render cadence.
package frame

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/trove/internal/core/ports/driven"
)

// Ensure Ticker implements the interface.
var _ driven.Yielder = (*Ticker)(nil)

// Ticker is a driven.Yielder that hands control back until the next frame.
//
// Frames are at least one interval apart. A Yield that arrives mid-frame
// waits out the rest of the frame, and every Yield waits for a frame of its
// own, so the display always gets a rendering opportunity in between.
type Ticker struct {
	limiter *rate.Limiter
	onFrame func()

	mu     sync.Mutex
	frames int
}

// Option configures a Ticker.
type Option func(*Ticker)

// OnFrame registers a callback run at each frame, after the wait and before
// Yield returns. The TUI uses it to request a redraw.
func OnFrame(fn func()) Option {
	return func(t *Ticker) {
		t.onFrame = fn
	}
}

// NewTicker creates a ticker with the given frame interval.
func NewTicker(interval time.Duration, opts ...Option) *Ticker {
	t := &Ticker{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
	// The current frame is in progress; the first Yield waits for the next one.
	t.limiter.Allow()
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Yield blocks until the next frame or until ctx is done.
func (t *Ticker) Yield(ctx context.Context) error {
	if err := t.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}

	t.mu.Lock()
	t.frames++
	t.mu.Unlock()

	if t.onFrame != nil {
		t.onFrame()
	}
	return nil
}

// Frames returns the number of completed yields.
func (t *Ticker) Frames() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frames
}
