// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for an import to run:
//
//   - RecordSource: Supplies the materialized record sequence
//   - RecordDecoder: Turns one record into an entity
//   - Yielder: Waits for the host's next rendering opportunity
//   - ProgressSurface: Shows status text during the import
//   - DisplayConsumer: Receives the finished collection
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the importer substitutes a no-op:
//
//   - Telemetry: Timing spans and counters for the import phases
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
