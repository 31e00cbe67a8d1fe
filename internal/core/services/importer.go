package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/trove/internal/core/domain"
	"github.com/custodia-labs/trove/internal/core/ports/driven"
	"github.com/custodia-labs/trove/internal/core/ports/driving"
	"github.com/custodia-labs/trove/internal/logger"
)

// Ensure Importer implements the interface.
var _ driving.Importer = (*Importer)(nil)

// Fixed status lines shown at phase transitions.
const (
	statusResolving = "Resolving relationships"
	statusBuilding  = "Building display"
)

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithClock replaces time.Now for the loader's turn accounting.
func WithClock(now func() time.Time) ImporterOption {
	return func(imp *Importer) {
		imp.now = now
	}
}

// WithID sets the import ID instead of generating one.
func WithID(id string) ImporterOption {
	return func(imp *Importer) {
		imp.id = id
	}
}

// Importer owns one import: the collection, the progress state and the
// phase. Phases run strictly in sequence and the collection is only touched
// by the running phase until it is handed to the display consumer.
type Importer struct {
	id        string
	loader    *Loader
	resolver  *Resolver
	yielder   driven.Yielder
	progress  driven.ProgressSurface
	display   driven.DisplayConsumer
	telemetry driven.Telemetry
	links     domain.DisplaySettings
	now       func() time.Time

	collection *domain.Collection
	stats      LoadStats
	report     ResolveReport

	// Phase and progress are read by other goroutines (the TUI, status polling).
	mu    sync.RWMutex
	phase domain.Phase
	state domain.Progress
}

// NewImporter creates an importer and opens the first-meaningful-content span.
// The telemetry may be nil.
func NewImporter(
	decoder driven.RecordDecoder,
	yielder driven.Yielder,
	progress driven.ProgressSurface,
	display driven.DisplayConsumer,
	telemetry driven.Telemetry,
	settings domain.ImportSettings,
	opts ...ImporterOption,
) (*Importer, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("import settings: %w", err)
	}
	if decoder == nil || yielder == nil || progress == nil || display == nil {
		return nil, errors.New("importer: decoder, yielder, progress surface and display are required")
	}
	if telemetry == nil {
		telemetry = driven.NopTelemetry{}
	}

	imp := &Importer{
		resolver:   NewResolver(),
		yielder:    yielder,
		progress:   progress,
		display:    display,
		telemetry:  telemetry,
		links:      settings.Display,
		now:        time.Now,
		collection: domain.NewCollection(),
		phase:      domain.PhaseIdle,
	}
	for _, opt := range opts {
		opt(imp)
	}
	if imp.id == "" {
		imp.id = uuid.NewString()
	}
	imp.loader = NewLoader(decoder, yielder, settings.Loader, imp.now)

	telemetry.StartFirstContent()
	return imp, nil
}

// Import runs load, resolve and display handoff in order.
//
// Any failure is returned as is and leaves the importer in the phase where
// it happened; there is no recovery or retry. A build failure is wrapped in
// domain.ErrDisplayBuild.
func (imp *Importer) Import(ctx context.Context, records []domain.Record) error {
	if !imp.start() {
		return domain.ErrImportStarted
	}

	total := len(records)
	logger.Section("Import " + imp.id)
	imp.mu.Lock()
	imp.state.Total = total
	imp.mu.Unlock()
	imp.setStatus(fmt.Sprintf("Importing %d records", total))
	imp.telemetry.RecordCount(ctx, total)

	stats, err := imp.loader.Load(ctx, records, imp.collection, imp.reportLoad)
	imp.stats = stats
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}
	imp.telemetry.LoadPhase(ctx, stats.Duration, stats.Records)
	imp.mu.Lock()
	imp.state.Processed = total
	imp.mu.Unlock()
	logger.Info("Loaded %d records into %d entities in %d turns (%s, %s per record)",
		stats.Records, imp.collection.Len(), stats.Turns, stats.Duration, stats.PerRecord())

	imp.enter(domain.PhaseResolvingRelationships)
	imp.setStatus(statusResolving)
	end := imp.telemetry.StartResolve(ctx)
	imp.report = imp.resolver.Resolve(imp.collection)
	end()
	logger.Info("Resolved %d of %d relations, %d unresolved",
		imp.report.Resolved, imp.report.Relations, len(imp.report.Unresolved))

	imp.enter(domain.PhaseAwaitingDisplayReady)
	imp.setStatus(statusBuilding)
	ready := imp.display.Ready()
	opts := driven.BuildOptions{
		Progress:    imp.setStatus,
		HelpURL:     imp.links.HelpURL,
		FeedbackURL: imp.links.FeedbackURL,
	}
	if err := imp.display.Build(ctx, imp.collection, opts); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDisplayBuild, err)
	}

	select {
	case <-ready:
	case <-ctx.Done():
		return fmt.Errorf("waiting for display: %w", ctx.Err())
	}

	imp.enter(domain.PhaseDone)
	imp.progress.Hide()
	imp.display.Reveal()
	if err := imp.yielder.Yield(ctx); err != nil {
		return fmt.Errorf("yield after reveal: %w", err)
	}
	imp.telemetry.EndFirstContent()
	logger.Info("Import %s done", imp.id)
	return nil
}

// ID returns the import identifier.
func (imp *Importer) ID() string {
	return imp.id
}

// Phase returns the current phase.
func (imp *Importer) Phase() domain.Phase {
	imp.mu.RLock()
	defer imp.mu.RUnlock()
	return imp.phase
}

// Progress returns a copy of the progress state.
func (imp *Importer) Progress() domain.Progress {
	imp.mu.RLock()
	defer imp.mu.RUnlock()
	return imp.state
}

// Collection returns the importer's collection.
// It must not be modified while Import is running.
func (imp *Importer) Collection() *domain.Collection {
	return imp.collection
}

// Stats returns the load statistics of the last run.
func (imp *Importer) Stats() LoadStats {
	return imp.stats
}

// Report returns the resolution report of the last run.
func (imp *Importer) Report() ResolveReport {
	return imp.report
}

// start moves Idle to LoadingRecords. It reports false if Import already ran.
func (imp *Importer) start() bool {
	imp.mu.Lock()
	defer imp.mu.Unlock()
	if imp.phase != domain.PhaseIdle {
		return false
	}
	imp.phase = domain.PhaseLoadingRecords
	return true
}

// enter moves to the given phase.
func (imp *Importer) enter(phase domain.Phase) {
	imp.mu.Lock()
	imp.phase = phase
	imp.mu.Unlock()
	logger.Debug("Phase: %s", phase)
}

// setStatus records and forwards a status line.
func (imp *Importer) setStatus(status string) {
	imp.mu.Lock()
	imp.state.Status = status
	imp.mu.Unlock()
	imp.progress.SetStatus(status)
}

// reportLoad is the loader's per-turn progress callback.
func (imp *Importer) reportLoad(processed, total int) {
	imp.mu.Lock()
	if processed > imp.state.Processed {
		imp.state.Processed = processed
	}
	imp.mu.Unlock()
	imp.setStatus(fmt.Sprintf("Loading record %d of %d", processed, total))
}
