// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/tastebase/internal/app"
	"github.com/okian/tastebase/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	RestaurantDependencies
	DishDependencies
	HealthDependencies
}

// Server wires HTTP routes for the catalog API.
type Server struct {
	restaurantHandler *RestaurantHandler
	dishHandler       *DishHandler
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler

	logger      logger.Logger
	corsOrigin  string
	rateLimiter *RateLimiter
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets the logger used by request logging and panic recovery.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCORSOrigin sets the Access-Control-Allow-Origin value.
func WithCORSOrigin(origin string) Option {
	return func(s *Server) {
		if origin != "" {
			s.corsOrigin = origin
		}
	}
}

// WithRateLimiter enables per-client rate limiting.
func WithRateLimiter(rl *RateLimiter) Option {
	return func(s *Server) {
		s.rateLimiter = rl
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		restaurantHandler: NewRestaurantHandler(deps),
		dishHandler:       NewDishHandler(deps),
		healthHandler:     NewHealthHandler(deps),
		statsHandler:      NewStatsHandler(statsProvider),
		corsOrigin:        "*",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /restaurants", MetricsMiddleware(s.restaurantHandler.HandleList, "restaurants"))
	mux.HandleFunc("GET /restaurants/details/{id}", MetricsMiddleware(s.restaurantHandler.HandleDetails, "restaurants_details"))
	mux.HandleFunc("GET /restaurants/cuisine/{cuisine}", MetricsMiddleware(s.restaurantHandler.HandleByCuisine, "restaurants_cuisine"))
	mux.HandleFunc("GET /restaurants/filter", MetricsMiddleware(s.restaurantHandler.HandleFilter, "restaurants_filter"))
	mux.HandleFunc("GET /restaurants/sort-by-rating", MetricsMiddleware(s.restaurantHandler.HandleSortByRating, "restaurants_sort_by_rating"))

	mux.HandleFunc("GET /dishes", MetricsMiddleware(s.dishHandler.HandleList, "dishes"))
	mux.HandleFunc("GET /dishes/details/{id}", MetricsMiddleware(s.dishHandler.HandleDetails, "dishes_details"))
	mux.HandleFunc("GET /dishes/filter", MetricsMiddleware(s.dishHandler.HandleFilter, "dishes_filter"))
	mux.HandleFunc("GET /dishes/sort-by-price", MetricsMiddleware(s.dishHandler.HandleSortByPrice, "dishes_sort_by_price"))

	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
}

// Handler wraps next with the cross-cutting middleware chain.
// Order, outermost first: recovery, request id, logging, CORS, rate limit.
func (s *Server) Handler(next http.Handler) http.Handler {
	h := next
	if s.rateLimiter != nil {
		h = RateLimitMiddleware(s.rateLimiter)(h)
	}
	h = CORSMiddleware(s.corsOrigin)(h)
	h = LoggingMiddleware(s.logger)(h)
	h = RequestIDMiddleware()(h)
	h = RecoveryMiddleware(s.logger)(h)
	return h
}

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// envelope is satisfied by the restaurant and dish lists.
type envelope interface {
	Len() int
}

// serveEnvelope runs fetch and classifies the outcome:
// a failure is a 500 with the error text, an empty envelope is a 404 with
// notFound, anything else is a 200 with the envelope.
func serveEnvelope[T envelope](w http.ResponseWriter, r *http.Request, fetch func(context.Context) (T, error), notFound string) {
	res, err := fetch(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	if res.Len() == 0 {
		writeJSON(w, http.StatusNotFound, messageResponse{Message: notFound})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		recordWriteError(w, err)
	}
}

// writeFailure maps a fetch error to its status. Only the guard errors get
// their own tier; everything else is an execution failure.
func writeFailure(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, service.ErrOverloaded) || errors.Is(err, service.ErrNotStarted) {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
