// Package entities provides the entity list view for the TUI.
package entities

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/trove/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/trove/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/trove/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/trove/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/trove/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/trove/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/trove/internal/core/domain"
)

// View is the entity list view.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	list   *list.EntityList
	filter *input.FilterInput
	bar    *status.Bar

	unresolved int
	width      int
	height     int
}

// NewView creates an entity list view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	v := &View{
		styles: s,
		keymap: km,
		list:   list.NewEntityList(s, km),
		filter: input.NewFilterInput(s),
		bar:    status.NewBar(s, km),
	}
	v.SetDimensions(80, 24)
	return v
}

// SetCollection loads the collection into the list.
func (v *View) SetCollection(c *domain.Collection) {
	v.unresolved = 0
	c.Each(func(e *domain.Entity) bool {
		for _, r := range e.Relations {
			if !r.Ref.Resolved() {
				v.unresolved++
			}
		}
		return true
	})
	v.list.SetEntities(c.Entities())
	v.bar.SetState(status.StateReady)
	v.refreshCounts()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the entity list.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil
	case tea.KeyMsg:
		if v.filter.Focused() {
			return v.handleFilterKey(msg)
		}
		return v.handleKey(msg)
	case messages.ErrorOccurred:
		v.bar.SetState(status.StateError)
		v.bar.SetMessage(msg.Err.Error())
		return v, nil
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Filter):
		v.bar.SetState(status.StateFiltering)
		return v, v.filter.Focus()
	case keymap.Matches(k, v.keymap.Select):
		e := v.list.SelectedEntity()
		if e == nil {
			return v, nil
		}
		return v, func() tea.Msg { return messages.EntitySelected{Entity: e} }
	case keymap.Matches(k, v.keymap.Help):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }
	case keymap.Matches(k, v.keymap.Back):
		if v.list.Filter() != "" {
			v.clearFilter()
		}
		return v, nil
	case keymap.Matches(k, v.keymap.Quit):
		return v, func() tea.Msg { return messages.Quit{} }
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// handleFilterKey edits the filter. Enter keeps it, esc clears it.
func (v *View) handleFilterKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type { //nolint:exhaustive // only keys that leave the filter
	case tea.KeyEnter:
		v.filter.Blur()
		v.bar.SetState(status.StateReady)
		return v, nil
	case tea.KeyEsc:
		v.clearFilter()
		return v, nil
	}

	var cmd tea.Cmd
	v.filter, cmd = v.filter.Update(msg)
	v.list.SetFilter(v.filter.Value())
	v.refreshCounts()
	return v, cmd
}

func (v *View) clearFilter() {
	v.filter.Blur()
	v.filter.Reset()
	v.list.SetFilter("")
	v.bar.SetState(status.StateReady)
	v.refreshCounts()
}

func (v *View) refreshCounts() {
	v.bar.SetCounts(v.list.Count(), v.list.Total(), v.unresolved)
}

// View renders the entity list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Entities"))
	b.WriteString("\n\n")

	if v.filter.Focused() || v.list.Filter() != "" {
		b.WriteString(v.filter.View())
		b.WriteString("\n")
	}

	b.WriteString(v.list.View())
	b.WriteString("\n\n")
	b.WriteString(v.bar.View())
	return b.String()
}

// SetDimensions sets the view dimensions and sizes the list to fit.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	// Title, blank line, filter box (3 rows), blank line, status bar
	v.list.SetDimensions(width, max(height-7, 1))
	v.filter.SetWidth(width)
	v.bar.SetWidth(width)
}

// SelectGUID moves the selection to the entity with the given GUID.
func (v *View) SelectGUID(guid string) bool {
	return v.list.SelectGUID(guid)
}

// Selected returns the selected entity, or nil.
func (v *View) Selected() *domain.Entity {
	return v.list.SelectedEntity()
}

// Filtering reports whether the filter input has focus.
func (v *View) Filtering() bool {
	return v.filter.Focused()
}
