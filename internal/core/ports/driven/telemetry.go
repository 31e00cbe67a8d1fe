package driven

import (
	"context"
	"time"
)

// Telemetry receives timing and count events for an import.
type Telemetry interface {
	// StartFirstContent opens the first-meaningful-content span.
	// It is called when the importer is constructed.
	StartFirstContent()

	// EndFirstContent closes the first-meaningful-content span after the
	// display is revealed.
	EndFirstContent()

	// RecordCount reports the number of records at import start.
	RecordCount(ctx context.Context, n int)

	// LoadPhase reports the load phase duration and record count.
	// Implementations derive the per-record cost.
	LoadPhase(ctx context.Context, d time.Duration, records int)

	// StartResolve opens the resolve-phase span. The returned function ends it.
	StartResolve(ctx context.Context) func()
}

// NopTelemetry discards all events.
type NopTelemetry struct{}

// StartFirstContent implements Telemetry.
func (NopTelemetry) StartFirstContent() {}

// EndFirstContent implements Telemetry.
func (NopTelemetry) EndFirstContent() {}

// RecordCount implements Telemetry.
func (NopTelemetry) RecordCount(context.Context, int) {}

// LoadPhase implements Telemetry.
func (NopTelemetry) LoadPhase(context.Context, time.Duration, int) {}

// StartResolve implements Telemetry.
func (NopTelemetry) StartResolve(context.Context) func() {
	return func() {}
}
