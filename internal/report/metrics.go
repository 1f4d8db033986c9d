package report

import (
	"context"

	"github.com/nikolay-makurin/pgprobe/internal/config"
	"github.com/nikolay-makurin/pgprobe/internal/telemetry"
	"github.com/nikolay-makurin/pgprobe/pkg/types"
)

// Metrics records a result and exports it to the configured destinations.
type Metrics struct {
	metrics *telemetry.Metrics
	cfg     config.TelemetryConfig
}

func NewMetrics(m *telemetry.Metrics, cfg config.TelemetryConfig) *Metrics {
	return &Metrics{metrics: m, cfg: cfg}
}

func (r *Metrics) Report(ctx context.Context, res types.Result) error {
	r.metrics.Observe(res)
	return r.metrics.Export(ctx, r.cfg)
}

func (r *Metrics) Close() error {
	return nil
}
