// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/trove/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/trove/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateLoading   State = "loading"
	StateReady     State = "ready"
	StateFiltering State = "filtering"
	StateDetail    State = "detail"
	StateError     State = "error"
	StateHelp      State = "help"
)

// Bar displays collection counts and keybinding hints.
type Bar struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	state      State
	message    string
	shown      int
	total      int
	unresolved int
	width      int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateLoading,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update is a no-op; the bar is driven through its setters.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	// Width includes the style's padding, so the gap is taken from the inner width.
	// Hints are dropped before the counts when both do not fit on one line.
	inner := max(s.width-s.styles.StatusBar.GetHorizontalFrameSize(), 1)
	if lipgloss.Width(left)+lipgloss.Width(right)+1 > inner {
		right = ""
		left = lipgloss.NewStyle().MaxWidth(inner).Render(left)
	}
	padding := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 0)

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the state and counts.
func (s *Bar) renderLeft() string {
	switch s.state {
	case StateLoading:
		return s.styles.Muted.Render("Loading...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateHelp:
		return s.styles.Normal.Render("Help")
	case StateFiltering:
		return s.styles.Normal.Render(fmt.Sprintf("%d of %d entities", s.shown, s.total))
	case StateReady, StateDetail:
		text := fmt.Sprintf("%d entities", s.total)
		if s.shown != s.total {
			text = fmt.Sprintf("%d of %d entities", s.shown, s.total)
		}
		left := s.styles.Normal.Render(text)
		if s.unresolved > 0 {
			left += s.styles.Unresolved.Render(fmt.Sprintf("  %d unresolved", s.unresolved))
		}
		return left
	}
	return s.styles.Muted.Render("Ready")
}

// renderRight renders keybinding hints for the state.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch s.state {
	case StateReady, StateFiltering:
		bindings = s.keymap.ListHelp()
	case StateDetail:
		bindings = s.keymap.DetailHelp()
	case StateLoading, StateError, StateHelp:
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets the error message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetCounts sets the number of shown and total entities and unresolved relations.
func (s *Bar) SetCounts(shown, total, unresolved int) {
	s.shown = shown
	s.total = total
	s.unresolved = unresolved
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}
