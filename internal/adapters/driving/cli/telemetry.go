package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/trove/internal/adapters/driven/telemetry/otel"
	"github.com/custodia-labs/trove/internal/core/domain"
	"github.com/custodia-labs/trove/internal/core/ports/driven"
	"github.com/custodia-labs/trove/internal/logger"
)

// shutdownTimeout bounds the final span flush.
const shutdownTimeout = 5 * time.Second

// startTelemetry builds the tracer provider and the importer's telemetry
// sink. The returned function flushes and stops the provider.
func startTelemetry(ctx context.Context, settings domain.TelemetrySettings) (driven.Telemetry, func(), error) {
	tp, err := otel.NewTracerProvider(ctx, settings, version)
	if err != nil {
		return nil, nil, fmt.Errorf("starting telemetry: %w", err)
	}
	if settings.Enabled() {
		logger.Debug("Exporting traces to %s", settings.OTLPEndpoint)
	}

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("Telemetry shutdown: %v", err)
		}
	}
	return otel.New(tp), stop, nil
}
