package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nikolay-makurin/pgprobe/internal/config"
	"github.com/nikolay-makurin/pgprobe/internal/probe"
	"github.com/nikolay-makurin/pgprobe/internal/report"
	"github.com/nikolay-makurin/pgprobe/internal/telemetry"
)

const missingURLMessage = "DATABASE_URL environment variable not set."

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run returns 1 only for configuration problems. A failed probe is
// reported on stdout and still returns 0.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("pgprobe", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to config file")
	envFile := fs.String("env-file", ".env", "Path to KEY=VALUE file loaded into the environment")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	// Until the configured logger exists, log to stderr with defaults.
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, nil)))

	// 1. Environment file
	if err := config.LoadEnvFiles(*envFile); err != nil {
		slog.Error("Failed to load env file", "error", err)
		return 1
	}

	// 2. Config
	cfg, err := config.Load(*configPath)
	if errors.Is(err, config.ErrDatabaseURLMissing) {
		fmt.Fprintln(stdout, missingURLMessage)
		return 1
	}
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		return 1
	}

	// 3. Telemetry
	if _, err := telemetry.InitLogger(cfg.Log, stderr); err != nil {
		slog.Error("Failed to init logger", "error", err)
		return 1
	}
	metrics := telemetry.NewMetrics()

	reporters := report.NewBroadcast(
		report.NewWriter(stdout),
		report.NewMetrics(metrics, cfg.Telemetry),
	)
	defer reporters.Close()

	// 4. Probe
	res := probe.New(nil).Run(ctx, cfg.Database.URL)

	// 5. Report
	if err := reporters.Report(ctx, res); err != nil {
		slog.Warn("Failed to report probe result", "error", err)
	}

	return 0
}
