package driving

import "github.com/custodia-labs/trove/internal/core/domain"

// SettingsService manages import settings.
type SettingsService interface {
	// Get retrieves the effective settings, falling back to defaults for
	// missing or invalid values.
	Get() (*domain.ImportSettings, error)

	// Save persists import settings.
	Save(settings *domain.ImportSettings) error

	// GetDefaults returns default settings.
	GetDefaults() domain.ImportSettings
}
