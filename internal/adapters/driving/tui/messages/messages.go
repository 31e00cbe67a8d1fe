// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/trove/internal/core/domain"
)

// StatusChanged carries a new progress status line from the importer.
type StatusChanged struct {
	Status string
}

// CollectionBuilt is sent when the importer hands over the resolved collection.
type CollectionBuilt struct {
	Collection  *domain.Collection
	HelpURL     string
	FeedbackURL string
}

// DisplayReady is sent by the app once every view has been built from the
// collection. The display closes its ready signal when it sees it.
type DisplayReady struct{}

// Revealed is sent when the importer reveals the display.
type Revealed struct{}

// ProgressHidden is sent when the importer hides the progress surface.
type ProgressHidden struct{}

// FrameTick is sent on every loader yield so the progress view redraws.
type FrameTick struct{}

// ImportFinished is sent when the import returns, with its error if any.
type ImportFinished struct {
	Err error
}

// EntitySelected is sent when an entity is chosen for the detail view.
type EntitySelected struct {
	Entity *domain.Entity
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewProgress shows import progress until the display is revealed.
	ViewProgress ViewType = iota
	// ViewEntities lists the imported entities.
	ViewEntities
	// ViewEntityDetail shows one entity and its relations.
	ViewEntityDetail
	// ViewHelp shows keybindings and links.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewProgress:
		return "progress"
	case ViewEntities:
		return "entities"
	case ViewEntityDetail:
		return "entity_detail"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
