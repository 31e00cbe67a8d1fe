// Package entitydetail provides the entity detail view for the TUI.
package entitydetail

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/trove/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/trove/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/trove/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/trove/internal/core/domain"
)

const maxValueLen = 50

// line is one rendered row. relation is the index into the entity's
// relations, or -1 for a plain row.
type line struct {
	text     string
	style    lineStyle
	relation int
}

type lineStyle int

const (
	styleField lineStyle = iota
	styleHeading
	styleAttribute
	styleRelation
	styleBlank
)

// View is the entity detail view.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	entity       *domain.Entity
	cursor       int
	scrollOffset int
	notice       string
	width        int
	height       int
}

// NewView creates an entity detail view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles: s,
		keymap: km,
		width:  80,
		height: 24,
	}
}

// SetEntity sets the entity to display and resets the cursor.
func (v *View) SetEntity(e *domain.Entity) {
	v.entity = e
	v.cursor = 0
	v.scrollOffset = 0
	v.notice = ""
}

// Entity returns the displayed entity.
func (v *View) Entity() *domain.Entity {
	return v.entity
}

// Cursor returns the index of the selected relation.
func (v *View) Cursor() int {
	return v.cursor
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the entity detail view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil
	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewEntities}
		}
	case keymap.Matches(k, v.keymap.Up):
		v.move(-1)
	case keymap.Matches(k, v.keymap.Down):
		v.move(1)
	case keymap.Matches(k, v.keymap.Follow):
		return v, v.follow()
	case keymap.Matches(k, v.keymap.Help):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }
	}
	return v, nil
}

// move moves the relation cursor. Without relations it scrolls instead.
func (v *View) move(delta int) {
	v.notice = ""
	if v.entity == nil {
		return
	}
	if len(v.entity.Relations) == 0 {
		v.scrollOffset = clamp(v.scrollOffset+delta, 0, v.maxScrollOffset())
		return
	}
	v.cursor = clamp(v.cursor+delta, 0, len(v.entity.Relations)-1)
	v.keepCursorVisible()
}

// follow opens the target of the selected relation.
func (v *View) follow() tea.Cmd {
	if v.entity == nil || len(v.entity.Relations) == 0 {
		return nil
	}
	rel := v.entity.Relations[v.cursor]
	if !rel.Ref.Resolved() {
		v.notice = fmt.Sprintf("%s is not in the collection", rel.Ref.GUID)
		return nil
	}
	target := rel.Ref.Target
	return func() tea.Msg { return messages.EntitySelected{Entity: target} }
}

func (v *View) keepCursorVisible() {
	lines := v.buildContent()
	row := 0
	for i, l := range lines {
		if l.relation == v.cursor {
			row = i
			break
		}
	}
	visible := v.visibleLines()
	if row < v.scrollOffset {
		v.scrollOffset = row
	}
	if row >= v.scrollOffset+visible {
		v.scrollOffset = row - visible + 1
	}
}

// visibleLines returns the number of content rows that fit.
func (v *View) visibleLines() int {
	// Title, separator, blank, scroll indicator, help
	return max(v.height-7, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.buildContent())-v.visibleLines(), 0)
}

// buildContent lays out fields, attributes and relations.
func (v *View) buildContent() []line {
	if v.entity == nil {
		return nil
	}
	e := v.entity

	lines := []line{
		v.field("GUID", e.GUID),
		v.field("Kind", e.Kind),
		v.field("Title", e.Title),
	}

	if len(e.Attributes) > 0 {
		lines = append(lines,
			line{style: styleBlank, relation: -1},
			line{text: "Attributes:", style: styleHeading, relation: -1})

		keys := make([]string, 0, len(e.Attributes))
		for k := range e.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			value := fmt.Sprint(e.Attributes[k])
			if len(value) > maxValueLen {
				value = value[:maxValueLen-3] + "..."
			}
			lines = append(lines, line{text: fmt.Sprintf("  %s: %s", k, value), style: styleAttribute, relation: -1})
		}
	}

	lines = append(lines,
		line{style: styleBlank, relation: -1},
		line{text: fmt.Sprintf("Relations (%d):", len(e.Relations)), style: styleHeading, relation: -1})
	for i, r := range e.Relations {
		lines = append(lines, line{text: formatRelation(r), style: styleRelation, relation: i})
	}

	return lines
}

func (v *View) field(label, value string) line {
	return line{text: fmt.Sprintf("%-8s %s", label+":", value), style: styleField, relation: -1}
}

func formatRelation(r domain.Relation) string {
	if r.Ref.Resolved() {
		return fmt.Sprintf("%s → %s (%s)", r.Name, r.Ref.GUID, r.Ref.Target.Label())
	}
	return fmt.Sprintf("%s → %s (unresolved)", r.Name, r.Ref.GUID)
}

// View renders the entity detail view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Entity"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", max(min(v.width-4, 60), 0)))
	b.WriteString("\n\n")

	if v.entity == nil {
		b.WriteString(v.styles.Muted.Render("No entity selected"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	lines := v.buildContent()
	visible := v.visibleLines()
	end := min(v.scrollOffset+visible, len(lines))
	for _, l := range lines[v.scrollOffset:end] {
		b.WriteString(v.renderLine(l))
		b.WriteString("\n")
	}

	if len(lines) > visible {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [Line %d-%d of %d]", v.scrollOffset+1, end, len(lines))))
		b.WriteString("\n")
	}

	if v.notice != "" {
		b.WriteString(v.styles.Unresolved.Render(v.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderLine(l line) string {
	switch l.style {
	case styleHeading:
		return v.styles.Subtitle.Render(l.text)
	case styleAttribute:
		return v.styles.Muted.Render(l.text)
	case styleRelation:
		indicator := "  "
		if l.relation == v.cursor {
			indicator = "> "
		}
		rel := v.entity.Relations[l.relation]
		style := v.styles.Resolved
		if !rel.Ref.Resolved() {
			style = v.styles.Unresolved
		}
		if l.relation == v.cursor {
			style = v.styles.Selected
		}
		return style.Render(indicator + l.text)
	case styleBlank:
		return ""
	case styleField:
		parts := strings.SplitN(l.text, ":", 2)
		return v.styles.Subtitle.Render(parts[0]+":") + v.styles.Normal.Render(parts[1])
	}
	return l.text
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] select  [enter] follow  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

func clamp(n, lo, hi int) int {
	return max(lo, min(n, hi))
}
