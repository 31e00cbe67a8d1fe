// Package help provides the keybinding and links view for the TUI.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/trove/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/trove/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/trove/internal/adapters/driving/tui/styles"
)

// View shows every keybinding plus the help and feedback links handed
// over with the collection.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	helpURL     string
	feedbackURL string
	back        messages.ViewType
	width       int
}

// NewView creates a help view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	h := help.New()
	h.ShowAll = true
	return &View{
		styles: s,
		keymap: km,
		help:   h,
		back:   messages.ViewEntities,
		width:  80,
	}
}

// SetLinks sets the help and feedback URLs. Empty URLs are not shown.
func (v *View) SetLinks(helpURL, feedbackURL string) {
	v.helpURL = helpURL
	v.feedbackURL = feedbackURL
}

// SetBack sets the view esc returns to.
func (v *View) SetBack(view messages.ViewType) {
	v.back = view
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		k := msg.String()
		if keymap.Matches(k, v.keymap.Back) || keymap.Matches(k, v.keymap.Help) {
			back := v.back
			return v, func() tea.Msg { return messages.ViewChanged{View: back} }
		}
	}
	return v, nil
}

// View renders the help view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	b.WriteString(v.help.View(v.keymap))
	b.WriteString("\n")

	if v.helpURL != "" || v.feedbackURL != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Subtitle.Render("Links"))
		b.WriteString("\n")
		if v.helpURL != "" {
			b.WriteString(v.styles.Muted.Render("  Documentation: "))
			b.WriteString(v.styles.Link.Render(v.helpURL))
			b.WriteString("\n")
		}
		if v.feedbackURL != "" {
			b.WriteString(v.styles.Muted.Render("  Feedback:      "))
			b.WriteString(v.styles.Link.Render(v.feedbackURL))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[esc] back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, _ int) {
	v.width = width
	v.help.Width = width
}
