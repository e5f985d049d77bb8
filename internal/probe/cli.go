package probe

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/tastebase/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging initializes the global logger, teeing to logFile when set.
func SetupLogging(logFile string, verbose bool) error {
	var out io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, file)
	}

	if err := logger.Init(logger.WithOutput(out)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the probe tool.
func ShowHelp() {
	os.Stdout.WriteString(`Tastebase Probe
===============

Exercises every catalog endpoint of a running server concurrently and
verifies sort orders, detail round trips, not-found messages and
byte-identical repeated responses.

Usage:
  go run ./cmd/probe [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:3000")
  -rounds int
        Times each endpoint is requested during the load phase (default 50)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -cuisine string
        Cuisine used for /restaurants/cuisine/{cuisine} (default "Indian")
  -timeout duration
        HTTP request timeout (default 10s)
  -report string
        Write a JSON report to this file
  -log string
        Also write logs to this file
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  go run ./cmd/probe
  go run ./cmd/probe -rounds 500 -workers 32 -url http://localhost:8080
  go run ./cmd/probe -report out/probe.json
`)
}
