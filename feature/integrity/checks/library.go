package checks

import (
	"context"
	"time"
)

// Pinger is a library that can be probed for reachability.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// LibraryReport is the outcome of one library ping.
type LibraryReport struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

// OK reports whether the library answered.
func (r LibraryReport) OK() bool {
	return r.Status == StatusOK
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// CheckLibrary pings a library and records how long it took.
func CheckLibrary(ctx context.Context, lib Pinger) LibraryReport {
	start := time.Now()
	err := lib.Ping(ctx)

	report := LibraryReport{
		Name:      lib.Name(),
		Status:    StatusOK,
		LatencyMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		report.Status = StatusError
		report.Error = err.Error()
	}
	return report
}
