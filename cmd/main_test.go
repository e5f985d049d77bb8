package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/tastebase/internal/adapters/repository"
	app "github.com/okian/tastebase/internal/app"
	"github.com/okian/tastebase/internal/config"
	"github.com/okian/tastebase/pkg/logger"
)

// seededDatabase writes the default fixture to a fresh database file.
func seededDatabase(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "database.sqlite")

	store, err := repository.Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()

	f, err := repository.DefaultFixture()
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
	if _, err := store.Seed(ctx, f, true); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return path
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	_ = l.Close()
	return addr
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("TASTEBASE_ADDR", ":8080")
			_ = os.Setenv("TASTEBASE_MAX_CONCURRENT_QUERIES", "4")
			defer func() {
				_ = os.Unsetenv("TASTEBASE_ADDR")
				_ = os.Unsetenv("TASTEBASE_MAX_CONCURRENT_QUERIES")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MaxConcurrentQueries, convey.ShouldEqual, 4)
			})
		})
	})
}

func TestNewApplication(t *testing.T) {
	convey.Convey("Given a seeded database and a read-only configuration", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.DatabasePath = seededDatabase(t)
		cfg.RateLimitRPS = 100

		a, err := newApplication(ctx, cfg, logger.Nop())
		convey.So(err, convey.ShouldBeNil)
		defer a.close()

		convey.Convey("Then catalog routes are served", func() {
			w := httptest.NewRecorder()
			a.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/restaurants/details/1", http.NoBody))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "Spice Kitchen")
		})

		convey.Convey("And the docs are served", func() {
			w := httptest.NewRecorder()
			a.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.yaml", http.NoBody))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("And the service metrics updater runs", func() {
			convey.So(func() { updateServiceMetrics(ctx, a.svc) }, convey.ShouldNotPanic)
		})
	})

	convey.Convey("Given a database path that does not exist", t, func() {
		cfg := config.New()
		cfg.DatabasePath = filepath.Join(t.TempDir(), "missing.sqlite")

		convey.Convey("Then startup fails before serving", func() {
			_, err := newApplication(context.Background(), cfg, logger.Nop())
			convey.So(errors.Is(err, repository.ErrOpenStore), convey.ShouldBeTrue)
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a running server", t, func() {
		cfg := config.New()
		cfg.DatabasePath = seededDatabase(t)
		cfg.Addr = freeAddr(t)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- run(ctx, cfg, logger.Nop()) }()

		var resp *http.Response
		var err error
		for i := 0; i < 50; i++ {
			resp, err = http.Get("http://" + cfg.Addr + "/healthz")
			if err == nil {
				break
			}
			time.Sleep(20 * time.Millisecond)
		}

		convey.Convey("Then it answers and shuts down on cancel", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			_ = resp.Body.Close()

			cancel()
			convey.So(<-done, convey.ShouldBeNil)
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it should return when the context ends", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing service metrics updater", func() {
			svc := app.New()

			convey.Convey("Then it should return when the context ends", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startServiceMetricsUpdater(ctx, svc)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.So(func() {
				updateSystemMetrics()
			}, convey.ShouldNotPanic)
		})
	})
}
