package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/trove/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/trove/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/trove/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/trove/internal/adapters/driving/tui/views/entities"
	"github.com/custodia-labs/trove/internal/adapters/driving/tui/views/entitydetail"
	"github.com/custodia-labs/trove/internal/adapters/driving/tui/views/help"
	"github.com/custodia-labs/trove/internal/adapters/driving/tui/views/progress"
	"github.com/custodia-labs/trove/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// display receives importer calls and is answered with DisplayReady.
	display *Display

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	progressView *progress.View
	entitiesView *entities.View
	detailView   *entitydetail.View
	helpView     *help.View

	// collection is set once the importer hands it over.
	collection *domain.Collection

	// currentView tracks which view is active.
	currentView messages.ViewType

	// revealed and progressHidden mirror the importer's final calls.
	revealed       bool
	progressHidden bool

	// finished is set when the import returns.
	finished bool

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has received its first window size.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports, display *Display) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if display == nil {
		return nil, fmt.Errorf("creating app: %w", ErrMissingDisplay)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		display:      display,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		progressView: progress.NewView(s, ports.Importer.Progress),
		entitiesView: entities.NewView(s, km),
		detailView:   entitydetail.NewView(s, km),
		helpView:     help.NewView(s, km),
		currentView:  messages.ViewProgress,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Program creates the Bubbletea program for the app and attaches it to the
// display, so importer calls reach the app as messages.
func (a *App) Program(opts ...tea.ProgramOption) *tea.Program {
	opts = append([]tea.ProgramOption{tea.WithContext(a.ctx)}, opts...)
	p := tea.NewProgram(a, opts...)
	a.display.Attach(p)
	return p
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("trove"),
		a.progressView.Init(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		// A failed import leaves only the progress view, which offers q.
		if a.currentView == messages.ViewProgress && a.err != nil && keymap.Matches(msg.String(), a.keymap.Quit) {
			return a, tea.Quit
		}
		return a, a.updateCurrent(msg)

	case messages.CollectionBuilt:
		a.collection = msg.Collection
		a.entitiesView.SetCollection(msg.Collection)
		a.helpView.SetLinks(msg.HelpURL, msg.FeedbackURL)
		return a, func() tea.Msg { return messages.DisplayReady{} }

	case messages.DisplayReady:
		a.display.markReady()
		return a, nil

	case messages.Revealed:
		a.revealed = true
		a.currentView = messages.ViewEntities
		return a, nil

	case messages.ProgressHidden:
		a.progressHidden = true
		return a, nil

	case messages.ImportFinished:
		a.finished = true
		if msg.Err == nil {
			return a, nil
		}
		a.err = msg.Err
		if a.currentView == messages.ViewProgress {
			a.progressView, cmd = a.progressView.Update(msg)
			return a, cmd
		}
		a.entitiesView, cmd = a.entitiesView.Update(messages.ErrorOccurred{Err: msg.Err})
		return a, cmd

	case messages.EntitySelected:
		if msg.Entity == nil {
			return a, nil
		}
		a.detailView.SetEntity(msg.Entity)
		a.entitiesView.SelectGUID(msg.Entity.GUID)
		a.currentView = messages.ViewEntityDetail
		return a, nil

	case messages.ViewChanged:
		if msg.View == messages.ViewHelp {
			a.helpView.SetBack(a.currentView)
		}
		a.currentView = msg.View
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, a.updateCurrent(msg)

	case messages.Quit:
		return a, tea.Quit
	}

	// Spinner ticks, status changes and frame ticks belong to the progress view
	// even after it is hidden, so the spinner stops cleanly.
	a.progressView, cmd = a.progressView.Update(msg)
	return a, cmd
}

// updateCurrent forwards msg to the active view.
func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewProgress:
		a.progressView, cmd = a.progressView.Update(msg)
	case messages.ViewEntities:
		a.entitiesView, cmd = a.entitiesView.Update(msg)
	case messages.ViewEntityDetail:
		a.detailView, cmd = a.detailView.Update(msg)
	case messages.ViewHelp:
		a.helpView, cmd = a.helpView.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewProgress:
		return a.progressView.View()
	case messages.ViewEntities:
		return a.entitiesView.View()
	case messages.ViewEntityDetail:
		return a.detailView.View()
	case messages.ViewHelp:
		return a.helpView.View()
	default:
		return a.progressView.View()
	}
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Collection returns the collection handed over by the importer, or nil.
func (a *App) Collection() *domain.Collection {
	return a.collection
}

// Revealed reports whether the importer has revealed the display.
func (a *App) Revealed() bool {
	return a.revealed
}

// ProgressHidden reports whether the importer has hidden the progress view.
func (a *App) ProgressHidden() bool {
	return a.progressHidden
}

// Finished reports whether the import has returned.
func (a *App) Finished() bool {
	return a.finished
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.progressView.SetDimensions(width, height)
	a.entitiesView.SetDimensions(width, height)
	a.detailView.SetDimensions(width, height)
	a.helpView.SetDimensions(width, height)
}
