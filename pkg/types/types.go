package types

import (
	"fmt"
	"time"
)

// Stage identifies where a probe failed.
type Stage string

const (
	StageConnect Stage = "connect"
	StageQuery   Stage = "query"
)

// Result is the outcome of a single probe run.
type Result struct {
	Version       string // first column of SELECT version()
	ServerVersion string // server_version reported during startup
	Stage         Stage  // empty on success
	Err           error
	Duration      time.Duration
	FinishedAt    time.Time
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Outcome is a low-cardinality label for metrics.
func (r Result) Outcome() string {
	if r.OK() {
		return "success"
	}
	return fmt.Sprintf("%s_error", r.Stage)
}

// Message renders the single line printed to stdout.
func (r Result) Message() string {
	if r.OK() {
		return "Database connection successful! PostgreSQL version: " + r.Version
	}
	return fmt.Sprintf("Database connection failed: %v", r.Err)
}
