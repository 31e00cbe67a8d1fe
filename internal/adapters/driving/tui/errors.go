package tui

import "errors"

// ErrMissingImporter is returned when the importer is not provided.
var ErrMissingImporter = errors.New("tui: importer is required")

// ErrMissingDisplay is returned when the app is created without a display.
var ErrMissingDisplay = errors.New("tui: display is required")

// ErrMissingSender is returned when the display is built before a program
// has been attached.
var ErrMissingSender = errors.New("tui: display has no program attached")

// ErrNilCollection is returned when the display is built without a collection.
var ErrNilCollection = errors.New("tui: collection is required")
