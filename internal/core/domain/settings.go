package domain

import (
	"fmt"
	"time"
)

// Default import settings.
const (
	// DefaultTurnBudget caps one uninterrupted loader turn.
	DefaultTurnBudget = 50 * time.Millisecond

	// DefaultBatchSize is the number of records processed between clock samples.
	DefaultBatchSize = 100

	// DefaultFrameInterval is the cadence of rendering opportunities.
	DefaultFrameInterval = 16 * time.Millisecond

	// DefaultHelpURL is shown in the display's help view.
	DefaultHelpURL = "https://github.com/custodia-labs/trove#readme"

	// DefaultFeedbackURL is shown in the display's help view.
	DefaultFeedbackURL = "https://github.com/custodia-labs/trove/issues/new"

	// DefaultServiceName names the process in exported traces.
	DefaultServiceName = "trove"
)

// LoaderSettings controls time slicing of the load phase.
type LoaderSettings struct {
	// TurnBudget is the wall-clock bound of one turn.
	TurnBudget time.Duration

	// BatchSize is the number of records per sub-batch.
	BatchSize int
}

// DisplaySettings controls the display handoff.
type DisplaySettings struct {
	// FrameInterval is the minimum gap between rendering opportunities.
	FrameInterval time.Duration

	// HelpURL is passed to the display consumer.
	HelpURL string

	// FeedbackURL is passed to the display consumer.
	FeedbackURL string
}

// TelemetrySettings controls trace export.
type TelemetrySettings struct {
	// OTLPEndpoint is the collector address. Empty disables export.
	OTLPEndpoint string

	// ServiceName is reported as the service.name resource attribute.
	ServiceName string
}

// Enabled reports whether traces should be exported.
func (t TelemetrySettings) Enabled() bool {
	return t.OTLPEndpoint != ""
}

// ImportSettings aggregates all importer configuration.
type ImportSettings struct {
	Loader    LoaderSettings
	Display   DisplaySettings
	Telemetry TelemetrySettings
}

// DefaultImportSettings returns the built-in configuration.
func DefaultImportSettings() ImportSettings {
	return ImportSettings{
		Loader: LoaderSettings{
			TurnBudget: DefaultTurnBudget,
			BatchSize:  DefaultBatchSize,
		},
		Display: DisplaySettings{
			FrameInterval: DefaultFrameInterval,
			HelpURL:       DefaultHelpURL,
			FeedbackURL:   DefaultFeedbackURL,
		},
		Telemetry: TelemetrySettings{
			ServiceName: DefaultServiceName,
		},
	}
}

// Validate checks that the settings can drive an import.
func (s ImportSettings) Validate() error {
	if s.Loader.TurnBudget <= 0 {
		return fmt.Errorf("%w: turn budget must be positive, got %s", ErrInvalidInput, s.Loader.TurnBudget)
	}
	if s.Loader.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidInput, s.Loader.BatchSize)
	}
	if s.Display.FrameInterval <= 0 {
		return fmt.Errorf("%w: frame interval must be positive, got %s", ErrInvalidInput, s.Display.FrameInterval)
	}
	return nil
}
