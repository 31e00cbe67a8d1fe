// Package progress provides the import progress view for the TUI.
// It is shown from program start until the importer reveals the display.
package progress

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/trove/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/trove/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/trove/internal/core/domain"
)

// maxBarWidth caps the progress bar.
const maxBarWidth = 40

// View is the import progress view.
type View struct {
	styles   *styles.Styles
	spinner  spinner.Model
	progress func() domain.Progress
	status   string
	err      error
	width    int
	height   int
}

// NewView creates a progress view. progress is polled on every render for
// the record counter and may be nil.
func NewView(s *styles.Styles, progress func() domain.Progress) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:   s,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Spinner)),
		progress: progress,
		status:   "Starting import",
		width:    80,
	}
}

// Init starts the spinner.
func (v *View) Init() tea.Cmd {
	return v.spinner.Tick
}

// Update handles progress messages.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	case messages.StatusChanged:
		v.status = msg.Status
	case messages.ImportFinished:
		v.err = msg.Err
	case messages.ErrorOccurred:
		v.err = msg.Err
	}
	return v, nil
}

// View renders the progress screen.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("trove"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Import failed: %s", v.err.Error())))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[q] quit"))
		return b.String()
	}

	b.WriteString(v.spinner.View())
	b.WriteString(" ")
	b.WriteString(v.styles.Normal.Render(v.status))

	if v.progress != nil {
		if p := v.progress(); p.Total > 0 {
			b.WriteString("\n\n")
			b.WriteString(v.renderBar(p))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[ctrl+c] quit"))
	return b.String()
}

// renderBar draws a bar and a processed/total counter.
func (v *View) renderBar(p domain.Progress) string {
	width := min(max(v.width-20, 10), maxBarWidth)
	filled := int(p.Fraction() * float64(width))
	bar := v.styles.BarFilled.Render(strings.Repeat("█", filled)) +
		v.styles.BarEmpty.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %s", bar, v.styles.Muted.Render(fmt.Sprintf("%d/%d", p.Processed, p.Total)))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Status returns the last status line.
func (v *View) Status() string {
	return v.status
}

// Err returns the import error, if any.
func (v *View) Err() error {
	return v.err
}
