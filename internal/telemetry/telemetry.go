package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/nikolay-makurin/pgprobe/internal/config"
	"github.com/nikolay-makurin/pgprobe/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// DefaultPushTimeout bounds a Pushgateway push when none is configured.
const DefaultPushTimeout = 10 * time.Second

// InitLogger installs the default slog logger. Output must not be stdout,
// which carries the probe result.
func InitLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch cfg.Format {
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		h = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger, nil
}

type Metrics struct {
	Registry    *prometheus.Registry
	Runs        *prometheus.CounterVec
	Duration    prometheus.Histogram
	LastSuccess prometheus.Gauge
	Up          prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pgprobe_runs_total",
				Help: "The total number of probe runs",
			},
			[]string{"outcome"},
		),
		Duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pgprobe_duration_seconds",
				Help:    "Time to connect and run the version query",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
		LastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "pgprobe_last_success_timestamp_seconds",
				Help: "Unix time of the last successful probe",
			},
		),
		Up: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "pgprobe_up",
				Help: "Whether the last probe reached the database (1) or not (0)",
			},
		),
	}
	m.Registry.MustRegister(m.Runs, m.Duration, m.LastSuccess, m.Up)
	return m
}

func (m *Metrics) Observe(res types.Result) {
	m.Runs.WithLabelValues(res.Outcome()).Inc()
	m.Duration.Observe(res.Duration.Seconds())
	if res.OK() {
		m.Up.Set(1)
		m.LastSuccess.Set(float64(res.FinishedAt.Unix()))
	} else {
		m.Up.Set(0)
	}
}

// Export sends the current metrics to every configured destination.
// Nothing is done when no destination is configured.
func (m *Metrics) Export(ctx context.Context, cfg config.TelemetryConfig) error {
	var errs []error

	if cfg.PushgatewayURL != "" {
		timeout := cfg.PushTimeout
		if timeout <= 0 {
			timeout = DefaultPushTimeout
		}
		pushCtx, cancel := context.WithTimeout(ctx, timeout)
		err := push.New(cfg.PushgatewayURL, cfg.Job).
			Gatherer(m.Registry).
			PushContext(pushCtx)
		cancel()
		if err != nil {
			errs = append(errs, fmt.Errorf("push to %s failed: %w", cfg.PushgatewayURL, err))
		} else {
			slog.Debug("Pushed metrics", "url", cfg.PushgatewayURL, "job", cfg.Job)
		}
	}

	if cfg.TextfilePath != "" {
		if err := prometheus.WriteToTextfile(cfg.TextfilePath, m.Registry); err != nil {
			errs = append(errs, fmt.Errorf("write textfile %s failed: %w", cfg.TextfilePath, err))
		} else {
			slog.Debug("Wrote metrics textfile", "path", cfg.TextfilePath)
		}
	}

	return errors.Join(errs...)
}
