package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/tastebase/internal/adapters/http/api"
	"github.com/okian/tastebase/internal/adapters/http/swagger"
	"github.com/okian/tastebase/internal/adapters/repository"
	app "github.com/okian/tastebase/internal/app"
	"github.com/okian/tastebase/internal/config"
	"github.com/okian/tastebase/pkg/logger"
	"github.com/okian/tastebase/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	startupTimeout            = 10 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	rateLimiterTTL            = 10 * time.Minute
	nanosecondsPerMillisecond = 1e6
)

func main() {
	os.Exit(serve())
}

// serve boots the process and returns its exit code.
func serve() int {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, loggerInstance); err != nil {
		loggerInstance.Error(ctx, "server exited", logger.Error(err))
		return 1
	}
	return 0
}

// run serves until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	a, err := newApplication(startCtx, cfg, log)
	cancel()
	if err != nil {
		return err
	}
	defer a.close()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, a.svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           a.handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for shutdown signal or a listener failure
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}

	log.Info(ctx, "server stopped")
	return nil
}

// application bundles what run starts and stops.
type application struct {
	store   *repository.SQLiteStore
	svc     *app.Service
	handler http.Handler
	log     logger.Logger
}

// newApplication opens the store, starts the service and wires the routes.
// The store is open before any request can be accepted.
func newApplication(ctx context.Context, cfg *config.Config, log logger.Logger) (*application, error) {
	store, err := repository.Open(ctx, cfg.DatabasePath,
		repository.WithReadOnly(cfg.ReadOnly),
		repository.WithBusyTimeout(cfg.BusyTimeout()),
	)
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "store opened",
		logger.String("path", cfg.DatabasePath),
		logger.Bool("readOnly", cfg.ReadOnly),
	)

	catalog := repository.NewCatalog(store, repository.WithLegacyDishFilter(cfg.LegacyDishFilter))
	if catalog.LegacyDishFilter() {
		log.Warn(ctx, "legacy dish filter enabled; /dishes/filter reads the restaurants table")
	}

	svc := app.New(
		app.WithCatalog(catalog),
		app.WithPinger(store),
		app.WithLogger(log.Named("service")),
		app.WithMaxConcurrentQueries(cfg.MaxConcurrentQueries),
		app.WithQueryTimeout(cfg.QueryTimeout()),
	)
	if err := svc.Start(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	opts := []api.Option{
		api.WithLogger(log.Named("http")),
		api.WithCORSOrigin(cfg.CORSAllowedOrigin),
	}
	if cfg.RateLimitRPS > 0 {
		opts = append(opts, api.WithRateLimiter(api.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, rateLimiterTTL)))
	}

	// HTTP mux and routes.
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	apiServer := api.NewServer(svc, svc, opts...)
	apiServer.Register(ctx, mux)

	return &application{
		store:   store,
		svc:     svc,
		handler: apiServer.Handler(mux),
		log:     log,
	}, nil
}

func (a *application) close() {
	a.svc.Stop()
	if err := a.store.Close(); err != nil {
		a.log.Error(context.Background(), "store close failed", logger.Error(err))
	}
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(ctx, svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics refreshes the store and in-flight gauges.
func updateServiceMetrics(ctx context.Context, svc *app.Service) {
	// Ping updates the store_up gauge itself
	_ = svc.Ping(ctx)

	if inFlight, ok := svc.GetStats()["queriesInFlight"].(int64); ok {
		metrics.UpdateQueriesInFlight(int(inFlight))
	}
}
