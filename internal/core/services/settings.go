package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/trove/internal/core/domain"
	"github.com/custodia-labs/trove/internal/core/ports/driven"
	"github.com/custodia-labs/trove/internal/core/ports/driving"
	"github.com/custodia-labs/trove/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyTurnBudgetMS    = "loader.turn_budget_ms"
	keyBatchSize       = "loader.batch_size"
	keyFrameIntervalMS = "display.frame_interval_ms"
	keyHelpURL         = "links.help"
	keyFeedbackURL     = "links.feedback"
	keyOTLPEndpoint    = "telemetry.otlp_endpoint"
	keyServiceName     = "telemetry.service_name"
)

// SettingsService manages import settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current import settings.
// Missing keys and non-positive numbers fall back to defaults.
func (s *SettingsService) Get() (*domain.ImportSettings, error) {
	defaults := domain.DefaultImportSettings()

	settings := &domain.ImportSettings{
		Loader: domain.LoaderSettings{
			TurnBudget: s.getMillis(keyTurnBudgetMS, defaults.Loader.TurnBudget),
			BatchSize:  s.getPositiveInt(keyBatchSize, defaults.Loader.BatchSize),
		},
		Display: domain.DisplaySettings{
			FrameInterval: s.getMillis(keyFrameIntervalMS, defaults.Display.FrameInterval),
			HelpURL:       s.getString(keyHelpURL, defaults.Display.HelpURL),
			FeedbackURL:   s.getString(keyFeedbackURL, defaults.Display.FeedbackURL),
		},
		Telemetry: domain.TelemetrySettings{
			OTLPEndpoint: s.configStore.GetString(keyOTLPEndpoint), // No default - empty disables export
			ServiceName:  s.getString(keyServiceName, defaults.Telemetry.ServiceName),
		},
	}

	return settings, nil
}

// Save persists import settings.
func (s *SettingsService) Save(settings *domain.ImportSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{keyTurnBudgetMS, settings.Loader.TurnBudget.Milliseconds()},
		{keyBatchSize, int64(settings.Loader.BatchSize)},
		{keyFrameIntervalMS, settings.Display.FrameInterval.Milliseconds()},
		{keyHelpURL, settings.Display.HelpURL},
		{keyFeedbackURL, settings.Display.FeedbackURL},
		{keyOTLPEndpoint, settings.Telemetry.OTLPEndpoint},
		{keyServiceName, settings.Telemetry.ServiceName},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.ImportSettings {
	return domain.DefaultImportSettings()
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	val := s.configStore.GetInt(key)
	if val <= 0 {
		logger.Warn("%v: %s must be a positive integer, using %d", domain.ErrInvalidInput, key, defaultVal)
		return defaultVal
	}
	return val
}

func (s *SettingsService) getMillis(key string, defaultVal time.Duration) time.Duration {
	ms := s.getPositiveInt(key, int(defaultVal.Milliseconds()))
	return time.Duration(ms) * time.Millisecond
}
