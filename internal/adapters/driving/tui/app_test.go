package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/trove/internal/adapters/driven/decoder/jsonrecord"
	"github.com/custodia-labs/trove/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/trove/internal/core/domain"
	"github.com/custodia-labs/trove/internal/core/ports/driven"
	"github.com/custodia-labs/trove/internal/core/services"
)

func newTestApp(t *testing.T) (*App, *Display) {
	t.Helper()
	display := NewDisplay()
	app, err := NewApp(&Ports{Importer: &MockImporter{}}, display)
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	return app, display
}

func testCollection() *domain.Collection {
	c := domain.NewCollection()
	thread := &domain.Entity{GUID: "t1", Kind: "thread", Title: "Main thread"}
	slice := &domain.Entity{
		GUID:      "s1",
		Kind:      "slice",
		Title:     "Layout",
		Relations: []domain.Relation{{Name: "thread", Ref: domain.Ref{GUID: "t1", Target: thread}}},
	}
	c.Merge(thread)
	c.Merge(slice)
	return c
}

// build delivers the collection and answers with DisplayReady, the way the
// running program would.
func build(t *testing.T, app *App, c *domain.Collection) {
	t.Helper()
	_, cmd := app.Update(messages.CollectionBuilt{
		Collection:  c,
		HelpURL:     "https://example.com/help",
		FeedbackURL: "https://example.com/feedback",
	})
	require.NotNil(t, cmd)
	msg := cmd()
	require.Equal(t, messages.DisplayReady{}, msg)
	app.Update(msg)
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(&Ports{Importer: &MockImporter{}}, NewDisplay())

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewProgress, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{}, NewDisplay())

	assert.ErrorIs(t, err, ErrMissingImporter)
	assert.Nil(t, app)
}

func TestNewApp_MissingDisplay(t *testing.T) {
	app, err := NewApp(&Ports{Importer: &MockImporter{}}, nil)

	assert.ErrorIs(t, err, ErrMissingDisplay)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app, _ := newTestApp(t)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Same(t, app, app.WithContext(ctx))
}

func TestApp_Init(t *testing.T) {
	app, _ := newTestApp(t)

	assert.NotNil(t, app.Init())
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, err := NewApp(&Ports{Importer: &MockImporter{}}, NewDisplay())
	require.NoError(t, err)

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Same(t, app, model)
	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
}

func TestApp_ProgressView(t *testing.T) {
	display := NewDisplay()
	importer := &MockImporter{progress: domain.Progress{Processed: 100, Total: 400}}
	app, err := NewApp(&Ports{Importer: importer}, display)
	require.NoError(t, err)
	app.SetDimensions(100, 30)

	app.Update(messages.StatusChanged{Status: "Loading record 100 of 400"})
	out := app.View()

	assert.Contains(t, out, "Loading record 100 of 400")
	assert.Contains(t, out, "100/400")
}

func TestApp_Handoff(t *testing.T) {
	app, display := newTestApp(t)
	c := testCollection()

	build(t, app, c)

	select {
	case <-display.Ready():
	default:
		t.Fatal("display not ready after DisplayReady")
	}
	assert.Same(t, c, app.Collection())
	// Still on progress until the importer reveals.
	assert.Equal(t, messages.ViewProgress, app.CurrentView())

	app.Update(messages.ProgressHidden{})
	app.Update(messages.Revealed{})

	assert.True(t, app.ProgressHidden())
	assert.True(t, app.Revealed())
	assert.Equal(t, messages.ViewEntities, app.CurrentView())
	assert.Contains(t, app.View(), "Main thread")
}

func TestApp_Navigation(t *testing.T) {
	app, _ := newTestApp(t)
	c := testCollection()
	build(t, app, c)
	app.Update(messages.Revealed{})

	// Open the slice, then follow its thread relation.
	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, messages.ViewEntityDetail, app.CurrentView())
	assert.Contains(t, app.View(), "thread → t1 (Main thread)")

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, messages.ViewEntityDetail, app.CurrentView())
	assert.Contains(t, app.View(), "Relations (0):")

	// Help returns to where it was opened from.
	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "https://example.com/feedback")

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, messages.ViewEntityDetail, app.CurrentView())

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, messages.ViewEntities, app.CurrentView())
}

func TestApp_Update_CtrlC(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_Update_QuitMessage(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_ImportFinished_Error(t *testing.T) {
	app, _ := newTestApp(t)
	importErr := errors.New("load records: malformed record")

	app.Update(messages.ImportFinished{Err: importErr})

	assert.True(t, app.Finished())
	assert.Equal(t, importErr, app.Err())
	assert.Contains(t, app.View(), "Import failed: load records: malformed record")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_ImportFinished_ErrorAfterReveal(t *testing.T) {
	app, _ := newTestApp(t)
	build(t, app, testCollection())
	app.Update(messages.Revealed{})

	app.Update(messages.ImportFinished{Err: errors.New("yield after reveal: boom")})

	assert.Equal(t, messages.ViewEntities, app.CurrentView())
	assert.Contains(t, app.View(), "yield after reveal")
}

func TestApp_ImportFinished_Success(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(messages.ImportFinished{})

	assert.True(t, app.Finished())
	assert.NoError(t, app.Err())
}

func TestApp_EntitySelected_Nil(t *testing.T) {
	app, _ := newTestApp(t)
	app.Update(messages.Revealed{})

	app.Update(messages.EntitySelected{})

	assert.Equal(t, messages.ViewEntities, app.CurrentView())
}

// chanSender hands messages to the test goroutine, which plays the
// Bubbletea event loop.
type chanSender chan tea.Msg

func (c chanSender) Send(msg tea.Msg) { c <- msg }

func TestApp_WithImporter(t *testing.T) {
	display := NewDisplay()
	sent := make(chanSender)
	display.Attach(sent)

	settings := domain.DefaultImportSettings()
	importer, err := services.NewImporter(
		jsonrecord.NewDecoder(),
		driven.YielderFunc(func(context.Context) error { return nil }),
		display,
		display,
		nil,
		settings,
	)
	require.NoError(t, err)

	app, err := NewApp(NewPorts(importer, nil), display)
	require.NoError(t, err)
	app.SetDimensions(100, 30)

	records := []domain.Record{
		{Payload: []byte(`{"guid":"t1","kind":"thread","title":"Main thread"}`)},
		{Payload: []byte(`{"guid":"s1","kind":"slice","title":"Layout","refs":{"thread":"t1","parent":"gone"}}`)},
	}
	done := make(chan error, 1)
	go func() { done <- importer.Import(context.Background(), records) }()

	for running := true; running; {
		select {
		case msg := <-sent:
			_, cmd := app.Update(msg)
			if _, ok := msg.(messages.CollectionBuilt); ok {
				require.NotNil(t, cmd)
				app.Update(cmd())
			}
		case err := <-done:
			require.NoError(t, err)
			app.Update(messages.ImportFinished{Err: err})
			running = false
		}
	}

	assert.Equal(t, domain.PhaseDone, importer.Phase())
	assert.True(t, app.Revealed())
	assert.True(t, app.ProgressHidden())
	assert.Equal(t, messages.ViewEntities, app.CurrentView())
	assert.Equal(t, 2, app.Collection().Len())
	out := app.View()
	assert.Contains(t, out, "Layout")
	assert.Contains(t, out, "1 unresolved")
}
