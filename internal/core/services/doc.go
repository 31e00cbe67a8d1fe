// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The import pipeline lives here: Loader decodes records into a
// collection in bounded turns, Resolver links relations, and Importer
// drives both and hands the result to the display consumer.
package services
