// Package tui provides an interactive terminal user interface for trove.
// It implements a driving adapter following hexagonal architecture principles,
// and also serves as the importer's display consumer and progress surface.
package tui

import (
	"github.com/custodia-labs/trove/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Importer reports phase and progress while the import runs.
	Importer driving.Importer

	// Settings exposes the effective import settings. Optional.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate.
func NewPorts(importer driving.Importer, settings driving.SettingsService) *Ports {
	return &Ports{
		Importer: importer,
		Settings: settings,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Importer == nil {
		return ErrMissingImporter
	}
	return nil
}
