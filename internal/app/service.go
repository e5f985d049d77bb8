// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/tastebase/internal/domain/model"
	"github.com/okian/tastebase/internal/domain/types"
	"github.com/okian/tastebase/pkg/logger"
	"github.com/okian/tastebase/pkg/metrics"
)

// Query names used in logs and metric labels.
const (
	QueryAllRestaurants            = "all_restaurants"
	QueryRestaurantByID            = "restaurant_by_id"
	QueryRestaurantsByCuisine      = "restaurants_by_cuisine"
	QueryRestaurantsByFilter       = "restaurants_by_filter"
	QueryRestaurantsSortedByRating = "restaurants_sorted_by_rating"
	QueryAllDishes                 = "all_dishes"
	QueryDishByID                  = "dish_by_id"
	QueryDishesByFilter            = "dishes_by_filter"
	QueryDishesSortedByPrice       = "dishes_sorted_by_price"
)

// Catalog is the set of fetch functions the service guards.
type Catalog interface {
	AllRestaurants(ctx context.Context) (model.RestaurantList, error)
	RestaurantByID(ctx context.Context, id types.ID) (model.RestaurantList, error)
	RestaurantsByCuisine(ctx context.Context, cuisine string) (model.RestaurantList, error)
	RestaurantsByFilter(ctx context.Context, isVeg, hasOutdoorSeating, isLuxury types.Flag) (model.RestaurantList, error)
	RestaurantsSortedByRating(ctx context.Context) (model.RestaurantList, error)
	AllDishes(ctx context.Context) (model.DishList, error)
	DishByID(ctx context.Context, id types.ID) (model.DishList, error)
	DishesByFilter(ctx context.Context, isVeg types.Flag) (model.DishList, error)
	DishesSortedByPrice(ctx context.Context) (model.DishList, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Service implements the API dependencies for the catalog.
type Service struct {
	mu sync.RWMutex

	// Core components
	catalog Catalog
	pinger  Pinger
	slots   chan struct{}

	// Configuration
	maxConcurrent int
	queryTimeout  time.Duration
	slotWait      time.Duration

	// State
	started   bool
	startedAt time.Time
	inFlight  atomic.Int64
	queries   atomic.Uint64
	failures  atomic.Uint64
	empty     atomic.Uint64
	overload  atomic.Uint64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCatalog sets the fetch functions the service runs.
func WithCatalog(c Catalog) Option {
	return func(s *Service) {
		s.catalog = c
	}
}

// WithPinger sets the health probe for the backing store.
func WithPinger(p Pinger) Option {
	return func(s *Service) {
		s.pinger = p
	}
}

// WithMaxConcurrentQueries bounds how many queries share the connection at once.
func WithMaxConcurrentQueries(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxConcurrent = n
		}
	}
}

// WithQueryTimeout bounds each query's execution time.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.queryTimeout = d
		}
	}
}

// WithSlotWait bounds how long a query waits for a free slot before
// the service reports itself overloaded. Defaults to the query timeout.
func WithSlotWait(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.slotWait = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		maxConcurrent: 16,
		queryTimeout:  5 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.slotWait == 0 {
		s.slotWait = s.queryTimeout
	}
	s.slots = make(chan struct{}, s.maxConcurrent)

	return s
}

// Start checks the store is reachable and opens the service for queries.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.catalog == nil {
		return ErrNoCatalog
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.pinger != nil {
		if err := s.pinger.Ping(ctx); err != nil {
			metrics.UpdateStoreUp(false)
			return fmt.Errorf("ping store: %w", err)
		}
		metrics.UpdateStoreUp(true)
	}

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "catalog service started",
		logger.Int("maxConcurrentQueries", s.maxConcurrent),
		logger.Duration("queryTimeout", s.queryTimeout),
		logger.Duration("slotWait", s.slotWait),
	)

	return nil
}

// Stop closes the service for queries. In-flight queries finish normally.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.started = false
	s.logger.Info(context.Background(), "catalog service stopped",
		logger.Int64("inFlight", s.inFlight.Load()),
	)
}

func (s *Service) isStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// acquire takes a query slot, waiting at most slotWait.
func (s *Service) acquire(ctx context.Context) (func(), error) {
	start := time.Now()
	waitCtx, cancel := context.WithTimeout(ctx, s.slotWait)
	defer cancel()

	select {
	case s.slots <- struct{}{}:
	case <-waitCtx.Done():
		s.overload.Add(1)
		metrics.RecordQueryOverloaded()
		return nil, fmt.Errorf("%w: %w", ErrOverloaded, waitCtx.Err())
	}

	metrics.RecordQueryWait(float64(time.Since(start).Microseconds()) / 1000)
	metrics.UpdateQueriesInFlight(int(s.inFlight.Add(1)))

	return func() {
		metrics.UpdateQueriesInFlight(int(s.inFlight.Add(-1)))
		<-s.slots
	}, nil
}

// run executes one fetch under the concurrency guard and the query timeout.
func run[T any](ctx context.Context, s *Service, name string, size func(T) int, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	if !s.isStarted() {
		return zero, ErrNotStarted
	}

	release, err := s.acquire(ctx)
	if err != nil {
		s.logger.Warn(ctx, "query rejected", logger.String("query", name), logger.Error(err))
		return zero, err
	}
	defer release()

	qctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	s.queries.Add(1)
	start := time.Now()
	res, err := fetch(qctx)
	latency := time.Since(start)

	if err != nil {
		s.failures.Add(1)
		metrics.RecordQuery(name, float64(latency.Microseconds())/1000, 0, err)
		if errors.Is(err, context.DeadlineExceeded) {
			metrics.RecordErrorByType("query_timeout", "error")
		}
		s.logger.Error(ctx, "query failed",
			logger.String("query", name),
			logger.Duration("latency", latency),
			logger.Error(err),
		)
		return zero, err
	}

	n := size(res)
	metrics.RecordQuery(name, float64(latency.Microseconds())/1000, n, nil)
	if n == 0 {
		s.empty.Add(1)
	}
	s.logger.Debug(ctx, "query completed",
		logger.String("query", name),
		logger.Int("rows", n),
		logger.Duration("latency", latency),
	)
	return res, nil
}

func restaurantCount(l model.RestaurantList) int { return l.Len() }
func dishCount(l model.DishList) int             { return l.Len() }

// AllRestaurants returns every restaurant.
func (s *Service) AllRestaurants(ctx context.Context) (model.RestaurantList, error) {
	return run(ctx, s, QueryAllRestaurants, restaurantCount, func(ctx context.Context) (model.RestaurantList, error) {
		return s.catalog.AllRestaurants(ctx)
	})
}

// RestaurantByID returns the restaurant with the given id.
func (s *Service) RestaurantByID(ctx context.Context, id types.ID) (model.RestaurantList, error) {
	return run(ctx, s, QueryRestaurantByID, restaurantCount, func(ctx context.Context) (model.RestaurantList, error) {
		return s.catalog.RestaurantByID(ctx, id)
	})
}

// RestaurantsByCuisine returns restaurants serving cuisine.
func (s *Service) RestaurantsByCuisine(ctx context.Context, cuisine string) (model.RestaurantList, error) {
	return run(ctx, s, QueryRestaurantsByCuisine, restaurantCount, func(ctx context.Context) (model.RestaurantList, error) {
		return s.catalog.RestaurantsByCuisine(ctx, cuisine)
	})
}

// RestaurantsByFilter returns restaurants matching all three flags.
func (s *Service) RestaurantsByFilter(ctx context.Context, isVeg, hasOutdoorSeating, isLuxury types.Flag) (model.RestaurantList, error) {
	return run(ctx, s, QueryRestaurantsByFilter, restaurantCount, func(ctx context.Context) (model.RestaurantList, error) {
		return s.catalog.RestaurantsByFilter(ctx, isVeg, hasOutdoorSeating, isLuxury)
	})
}

// RestaurantsSortedByRating returns restaurants by rating, highest first.
func (s *Service) RestaurantsSortedByRating(ctx context.Context) (model.RestaurantList, error) {
	return run(ctx, s, QueryRestaurantsSortedByRating, restaurantCount, func(ctx context.Context) (model.RestaurantList, error) {
		return s.catalog.RestaurantsSortedByRating(ctx)
	})
}

// AllDishes returns every dish.
func (s *Service) AllDishes(ctx context.Context) (model.DishList, error) {
	return run(ctx, s, QueryAllDishes, dishCount, func(ctx context.Context) (model.DishList, error) {
		return s.catalog.AllDishes(ctx)
	})
}

// DishByID returns the dish with the given id.
func (s *Service) DishByID(ctx context.Context, id types.ID) (model.DishList, error) {
	return run(ctx, s, QueryDishByID, dishCount, func(ctx context.Context) (model.DishList, error) {
		return s.catalog.DishByID(ctx, id)
	})
}

// DishesByFilter returns dishes matching the vegetarian flag.
func (s *Service) DishesByFilter(ctx context.Context, isVeg types.Flag) (model.DishList, error) {
	return run(ctx, s, QueryDishesByFilter, dishCount, func(ctx context.Context) (model.DishList, error) {
		return s.catalog.DishesByFilter(ctx, isVeg)
	})
}

// DishesSortedByPrice returns dishes by price, cheapest first.
func (s *Service) DishesSortedByPrice(ctx context.Context) (model.DishList, error) {
	return run(ctx, s, QueryDishesSortedByPrice, dishCount, func(ctx context.Context) (model.DishList, error) {
		return s.catalog.DishesSortedByPrice(ctx)
	})
}

// Ping checks the backing store and updates the store_up gauge.
func (s *Service) Ping(ctx context.Context) error {
	if !s.isStarted() {
		return ErrNotStarted
	}
	if s.pinger == nil {
		return nil
	}
	err := s.pinger.Ping(ctx)
	metrics.UpdateStoreUp(err == nil)
	return err
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":              s.started,
		"maxConcurrentQueries": s.maxConcurrent,
		"queryTimeoutMs":       s.queryTimeout.Milliseconds(),
		"queriesInFlight":      s.inFlight.Load(),
		"queriesTotal":         s.queries.Load(),
		"queryFailures":        s.failures.Load(),
		"emptyResults":         s.empty.Load(),
		"overloaded":           s.overload.Load(),
	}
	if s.started {
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
	}

	return stats
}
