package status

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/trove/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/trove/internal/adapters/driving/tui/styles"
)

func newWideBar() *Bar {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())
	bar.SetWidth(200)
	return bar
}

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateLoading, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 80, bar.Width())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_InitAndUpdate(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Nil(t, bar.Init())
	updated, cmd := bar.Update(tea.WindowSizeMsg{})
	assert.Same(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_View(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*Bar)
		contains []string
	}{
		{
			name:     "loading",
			setup:    func(*Bar) {},
			contains: []string{"Loading...", "q: quit"},
		},
		{
			name: "ready with counts",
			setup: func(b *Bar) {
				b.SetState(StateReady)
				b.SetCounts(3, 3, 2)
			},
			contains: []string{"3 entities", "2 unresolved", "/: filter"},
		},
		{
			name: "filtered",
			setup: func(b *Bar) {
				b.SetState(StateFiltering)
				b.SetCounts(1, 3, 0)
			},
			contains: []string{"1 of 3 entities"},
		},
		{
			name: "detail",
			setup: func(b *Bar) {
				b.SetState(StateDetail)
				b.SetCounts(3, 3, 0)
			},
			contains: []string{"3 entities", "enter: follow relation"},
		},
		{
			name: "error with message",
			setup: func(b *Bar) {
				b.SetState(StateError)
				b.SetMessage("display build failed")
			},
			contains: []string{"Error: display build failed"},
		},
		{
			name:     "error without message",
			setup:    func(b *Bar) { b.SetState(StateError) },
			contains: []string{"Error"},
		},
		{
			name:     "help",
			setup:    func(b *Bar) { b.SetState(StateHelp) },
			contains: []string{"Help", "?: help"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := newWideBar()
			tt.setup(bar)

			view := bar.View()

			for _, s := range tt.contains {
				assert.Contains(t, view, s)
			}
		})
	}
}

func TestStatusBar_View_NoUnresolved(t *testing.T) {
	bar := newWideBar()
	bar.SetState(StateReady)
	bar.SetCounts(5, 5, 0)

	assert.NotContains(t, bar.View(), "unresolved")
}

func TestStatusBar_View_SingleLine(t *testing.T) {
	states := []State{StateLoading, StateReady, StateFiltering, StateDetail, StateError, StateHelp}

	for _, width := range []int{80, 120, 200} {
		for _, state := range states {
			bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())
			bar.SetWidth(width)
			bar.SetState(state)
			bar.SetCounts(2, 3, 1)

			view := bar.View()

			assert.NotContains(t, view, "\n", "state %s at width %d", state, width)
			assert.Equal(t, width, lipgloss.Width(view), "state %s at width %d", state, width)
		}
	}
}

func TestStatusBar_View_HintsIntact(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())
	bar.SetState(StateHelp)

	view := bar.View()

	assert.Contains(t, view, "?: help")
	assert.Equal(t, 1, len(strings.Split(view, "\n")))
}

func TestStatusBar_View_NarrowDropsHints(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())
	bar.SetWidth(40)
	bar.SetState(StateReady)
	bar.SetCounts(3, 3, 2)

	view := bar.View()

	assert.Contains(t, view, "3 entities")
	assert.NotContains(t, view, "q: quit")
	assert.NotContains(t, view, "\n")
}
