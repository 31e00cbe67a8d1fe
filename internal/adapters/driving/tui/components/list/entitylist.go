// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/trove/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/trove/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/trove/internal/core/domain"
)

// EntityList displays entities in a navigable, filterable list.
// One line per entity: title, kind and relation counts.
type EntityList struct {
	entities []*domain.Entity
	visible  []int // indices into entities matching the filter
	filter   string
	selected int // index into visible
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	width    int
	height   int
}

// NewEntityList creates a new entity list component.
func NewEntityList(s *styles.Styles, km *keymap.KeyMap) *EntityList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &EntityList{
		styles: s,
		keymap: km,
		width:  80,
		height: 10,
	}
}

// Init initialises the entity list.
func (l *EntityList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation keys.
func (l *EntityList) Update(msg tea.Msg) (*EntityList, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	k := keyMsg.String()
	switch {
	case keymap.Matches(k, l.keymap.Up):
		l.MoveUp()
	case keymap.Matches(k, l.keymap.Down):
		l.MoveDown()
	case keymap.Matches(k, l.keymap.PageUp):
		l.move(-l.pageSize())
	case keymap.Matches(k, l.keymap.PageDown):
		l.move(l.pageSize())
	case keymap.Matches(k, l.keymap.Top):
		l.selected = 0
	case keymap.Matches(k, l.keymap.Bottom):
		l.selected = max(len(l.visible)-1, 0)
	}
	return l, nil
}

// View renders the visible window of the list.
func (l *EntityList) View() string {
	if len(l.entities) == 0 {
		return l.styles.Muted.Render("No entities")
	}
	if len(l.visible) == 0 {
		return l.styles.Muted.Render(fmt.Sprintf("No entities match %q", l.filter))
	}

	start, end := l.window()
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, l.renderEntity(i == l.selected, l.entities[l.visible[i]]))
	}
	return strings.Join(lines, "\n")
}

// window returns the range of visible rows that fits the height and
// contains the selection.
func (l *EntityList) window() (int, int) {
	size := l.pageSize()
	start := 0
	if l.selected >= size {
		start = l.selected - size + 1
	}
	end := min(start+size, len(l.visible))
	return start, end
}

func (l *EntityList) pageSize() int {
	return max(l.height, 1)
}

// renderEntity formats one entity row.
func (l *EntityList) renderEntity(selected bool, e *domain.Entity) string {
	indicator := "  "
	if selected {
		indicator = "> "
	}

	title := e.Label()
	maxTitleLen := max(l.width-32, 10)
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen-3] + "..."
	}

	unresolved := 0
	for _, r := range e.Relations {
		if !r.Ref.Resolved() {
			unresolved++
		}
	}
	counts := fmt.Sprintf("%d rel", len(e.Relations))
	if unresolved > 0 {
		counts += fmt.Sprintf(", %d missing", unresolved)
	}

	if selected {
		return l.styles.Selected.Render(fmt.Sprintf("%s%-*s  %-12s %s", indicator, maxTitleLen, title, e.Kind, counts))
	}
	return l.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxTitleLen, title)) +
		l.styles.Kind.Render(fmt.Sprintf("%-12s ", e.Kind)) +
		l.styles.Muted.Render(counts)
}

// SetEntities replaces the list contents and reapplies the filter.
func (l *EntityList) SetEntities(entities []*domain.Entity) {
	l.entities = entities
	l.applyFilter()
}

// SetFilter keeps only entities whose GUID, title or kind contains the
// filter text, case-insensitively. An empty filter shows everything.
func (l *EntityList) SetFilter(filter string) {
	l.filter = filter
	l.applyFilter()
}

// Filter returns the current filter text.
func (l *EntityList) Filter() string {
	return l.filter
}

func (l *EntityList) applyFilter() {
	needle := strings.ToLower(strings.TrimSpace(l.filter))
	l.visible = l.visible[:0]
	for i, e := range l.entities {
		if needle == "" ||
			strings.Contains(strings.ToLower(e.GUID), needle) ||
			strings.Contains(strings.ToLower(e.Title), needle) ||
			strings.Contains(strings.ToLower(e.Kind), needle) {
			l.visible = append(l.visible, i)
		}
	}
	l.selected = 0
}

// SelectedEntity returns the currently selected entity, or nil if none.
func (l *EntityList) SelectedEntity() *domain.Entity {
	if l.selected < 0 || l.selected >= len(l.visible) {
		return nil
	}
	return l.entities[l.visible[l.selected]]
}

// Selected returns the index of the selected row.
func (l *EntityList) Selected() int {
	return l.selected
}

// SelectGUID moves the selection to the entity with the given GUID.
// It reports false if the entity is not visible.
func (l *EntityList) SelectGUID(guid string) bool {
	for i, idx := range l.visible {
		if l.entities[idx].GUID == guid {
			l.selected = i
			return true
		}
	}
	return false
}

// MoveUp moves selection up.
func (l *EntityList) MoveUp() {
	l.move(-1)
}

// MoveDown moves selection down.
func (l *EntityList) MoveDown() {
	l.move(1)
}

func (l *EntityList) move(delta int) {
	if len(l.visible) == 0 {
		return
	}
	l.selected = min(max(l.selected+delta, 0), len(l.visible)-1)
}

// SetDimensions sets the component dimensions. Height is in rows.
func (l *EntityList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of entities matching the filter.
func (l *EntityList) Count() int {
	return len(l.visible)
}

// Total returns the number of entities in the list.
func (l *EntityList) Total() int {
	return len(l.entities)
}
