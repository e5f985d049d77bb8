package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/okian/tastebase/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	reportPermission    = 0600
)

// Run executes the complete probe: health check, concurrent load over every
// catalog endpoint, then the verification checks.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	if err := validate(config); err != nil {
		return nil, err
	}

	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("probe")

	log.Info(ctx, "starting catalog probe",
		logger.String("baseURL", config.BaseURL),
		logger.Int("rounds", config.Rounds),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.Bool("verbose", config.Verbose))

	client := newHTTPClient(config.BaseURL, config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return nil, err
	}

	// Step 2: Concurrent load over every endpoint
	load(ctx, client, config, stats, log)

	// Step 3: Verify ordering, round trips and idempotence
	verify(ctx, client, config, stats)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)

	if config.ReportFile != "" {
		if err := saveReport(config.ReportFile, stats); err != nil {
			log.Warn(ctx, "failed to save report", logger.Error(err))
		}
	}

	if stats.ChecksFailed > 0 || stats.Unexpected > 0 || stats.Transport > 0 || stats.ServerErrors > 0 {
		for _, detail := range stats.FailureDetails {
			log.Error(ctx, "check failed", logger.String("detail", detail))
		}
		return stats, fmt.Errorf("%w: %d checks failed, %d unexpected responses, %d server errors, %d transport errors",
			ErrVerificationFailed, stats.ChecksFailed, stats.Unexpected, stats.ServerErrors, stats.Transport)
	}

	log.Info(ctx, "probe completed successfully")
	return stats, nil
}

func validate(config *Config) error {
	switch {
	case config == nil:
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	case config.BaseURL == "":
		return fmt.Errorf("%w: empty base URL", ErrInvalidConfig)
	case config.Rounds <= 0:
		return fmt.Errorf("%w: rounds must be positive", ErrInvalidConfig)
	case config.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return nil
}

// checkServiceHealth verifies the service and its store are up.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	resp, err := client.Get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if resp.Status != StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.Status)
	}
	return nil
}

// load requests every endpoint config.Rounds times using a worker pool.
func load(ctx context.Context, client *HTTPClient, config *Config, stats *Stats, log logger.Logger) {
	endpoints := Endpoints(config.Cuisine)
	total := len(endpoints) * config.Rounds

	var (
		mu         sync.Mutex
		wg         sync.WaitGroup
		lastReport = time.Now()
	)
	paths := make(chan string, config.Workers*WorkerChannelMultiplier)

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range paths {
				resp, err := client.Get(ctx, path)

				mu.Lock()
				record(stats, path, resp, err)
				if config.Verbose && time.Since(lastReport) >= reportInterval {
					lastReport = time.Now()
					log.Info(ctx, "progress", logger.Int("done", stats.Requests), logger.Int("total", total))
				}
				mu.Unlock()
			}
		}()
	}

	go func() {
		defer close(paths)
		for round := 0; round < config.Rounds; round++ {
			for _, path := range endpoints {
				select {
				case <-ctx.Done():
					return
				case paths <- path:
				}
			}
		}
	}()

	wg.Wait()
}

// record classifies one response. Caller holds the stats lock.
func record(stats *Stats, path string, resp response, err error) {
	stats.Requests++
	if err != nil {
		stats.Transport++
		stats.FailureDetails = append(stats.FailureDetails, err.Error())
		return
	}

	stats.TotalLatency += resp.Latency
	if resp.Latency > stats.MaxLatency {
		stats.MaxLatency = resp.Latency
	}

	switch resp.Status {
	case StatusOK:
		stats.Found++
	case StatusNotFound:
		stats.NotFound++
	case StatusInternalError:
		stats.ServerErrors++
		stats.FailureDetails = append(stats.FailureDetails, fmt.Sprintf("GET %s: 500 (request %s)", path, resp.RequestID))
	case StatusServiceUnavailable:
		stats.Unavailable++
	default:
		stats.Unexpected++
		stats.FailureDetails = append(stats.FailureDetails, fmt.Sprintf("GET %s: unexpected status %d", path, resp.Status))
	}
}

// saveReport writes stats as indented JSON.
func saveReport(filename string, stats *Stats) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), reportPermission); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var foundRate float64
	var avgLatency time.Duration
	answered := stats.Requests - stats.Transport

	if stats.Requests > 0 {
		foundRate = float64(stats.Found) / float64(stats.Requests) * PercentageMultiplier
	}
	if answered > 0 {
		avgLatency = stats.TotalLatency / time.Duration(answered)
	}

	log.Info(ctx, "final statistics",
		logger.Int("requests", stats.Requests),
		logger.Int("found", stats.Found),
		logger.Int("notFound", stats.NotFound),
		logger.Int("serverErrors", stats.ServerErrors),
		logger.Int("unavailable", stats.Unavailable),
		logger.Int("unexpected", stats.Unexpected),
		logger.Int("transportErrors", stats.Transport),
		logger.Int("checksPassed", stats.ChecksPassed),
		logger.Int("checksFailed", stats.ChecksFailed),
		logger.Float64("foundRate", foundRate),
		logger.Duration("avgLatency", avgLatency),
		logger.Duration("maxLatency", stats.MaxLatency),
		logger.Duration("duration", stats.Duration))
}
