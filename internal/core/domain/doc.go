// Package domain defines the core business entities for trove.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record: Opaque serialized bytes from a record source
//   - Entity: A decoded record identified by GUID, with relations
//   - Collection: The GUID-keyed set that entities are merged into
//   - Phase, Progress: Import state reported to the progress surface
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
