package tui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/trove/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/trove/internal/core/domain"
	"github.com/custodia-labs/trove/internal/core/ports/driven"
)

// Ensure Display implements the interfaces.
var (
	_ driven.DisplayConsumer = (*Display)(nil)
	_ driven.ProgressSurface = (*Display)(nil)
)

// Sender delivers messages into a running Bubbletea program.
// *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Display bridges the importer and the Bubbletea program. Every call made
// by the importer becomes a message; the App answers CollectionBuilt with
// DisplayReady once its views are built, which closes the ready channel.
type Display struct {
	mu     sync.Mutex
	sender Sender

	ready     chan struct{}
	readyOnce sync.Once
}

// NewDisplay creates a display with no program attached.
func NewDisplay() *Display {
	return &Display{
		ready: make(chan struct{}),
	}
}

// Attach sets the program messages are sent to.
func (d *Display) Attach(s Sender) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sender = s
}

func (d *Display) send(msg tea.Msg) bool {
	d.mu.Lock()
	s := d.sender
	d.mu.Unlock()
	if s == nil {
		return false
	}
	s.Send(msg)
	return true
}

// Ready returns the channel closed once the views are built.
func (d *Display) Ready() <-chan struct{} {
	return d.ready
}

// Build hands the collection to the App.
func (d *Display) Build(ctx context.Context, collection *domain.Collection, opts driven.BuildOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if collection == nil {
		return ErrNilCollection
	}
	if opts.Progress != nil {
		opts.Progress(fmt.Sprintf("Indexing %d entities", collection.Len()))
	}
	if !d.send(messages.CollectionBuilt{
		Collection:  collection,
		HelpURL:     opts.HelpURL,
		FeedbackURL: opts.FeedbackURL,
	}) {
		return ErrMissingSender
	}
	return nil
}

// Reveal switches the App from the progress view to the entity list.
func (d *Display) Reveal() {
	d.send(messages.Revealed{})
}

// SetStatus updates the progress view's status line.
func (d *Display) SetStatus(status string) {
	d.send(messages.StatusChanged{Status: status})
}

// Hide tells the App the progress surface is gone.
func (d *Display) Hide() {
	d.send(messages.ProgressHidden{})
}

// Tick asks the App to redraw. It is called on every loader yield.
func (d *Display) Tick() {
	d.send(messages.FrameTick{})
}

// markReady closes the ready channel. Later calls are no-ops.
func (d *Display) markReady() {
	d.readyOnce.Do(func() { close(d.ready) })
}
