package api

import (
	"context"
	"net/http"

	"github.com/okian/tastebase/internal/domain/model"
	"github.com/okian/tastebase/internal/domain/types"
)

// RestaurantDependencies defines the interface for restaurant reads.
type RestaurantDependencies interface {
	AllRestaurants(ctx context.Context) (model.RestaurantList, error)
	RestaurantByID(ctx context.Context, id types.ID) (model.RestaurantList, error)
	RestaurantsByCuisine(ctx context.Context, cuisine string) (model.RestaurantList, error)
	RestaurantsByFilter(ctx context.Context, isVeg, hasOutdoorSeating, isLuxury types.Flag) (model.RestaurantList, error)
	RestaurantsSortedByRating(ctx context.Context) (model.RestaurantList, error)
}

// RestaurantHandler handles restaurant requests.
type RestaurantHandler struct {
	deps RestaurantDependencies
}

// NewRestaurantHandler creates a new restaurant handler.
func NewRestaurantHandler(deps RestaurantDependencies) *RestaurantHandler {
	return &RestaurantHandler{deps: deps}
}

// HandleList handles GET /restaurants.
func (h *RestaurantHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	serveEnvelope(w, r, h.deps.AllRestaurants, "No restaurants found.")
}

// HandleDetails handles GET /restaurants/details/{id}.
func (h *RestaurantHandler) HandleDetails(w http.ResponseWriter, r *http.Request) {
	id := types.ParseID(r.PathValue("id"))
	serveEnvelope(w, r, func(ctx context.Context) (model.RestaurantList, error) {
		return h.deps.RestaurantByID(ctx, id)
	}, "No restaurants found for id: "+id.String())
}

// HandleByCuisine handles GET /restaurants/cuisine/{cuisine}.
func (h *RestaurantHandler) HandleByCuisine(w http.ResponseWriter, r *http.Request) {
	cuisine := r.PathValue("cuisine")
	serveEnvelope(w, r, func(ctx context.Context) (model.RestaurantList, error) {
		return h.deps.RestaurantsByCuisine(ctx, cuisine)
	}, "No restaurants found for cuisine: "+cuisine)
}

// HandleFilter handles GET /restaurants/filter?isVeg=&hasOutdoorSeating=&isLuxury=.
func (h *RestaurantHandler) HandleFilter(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	isVeg := types.ParseFlag(q.Get("isVeg"))
	outdoor := types.ParseFlag(q.Get("hasOutdoorSeating"))
	luxury := types.ParseFlag(q.Get("isLuxury"))
	serveEnvelope(w, r, func(ctx context.Context) (model.RestaurantList, error) {
		return h.deps.RestaurantsByFilter(ctx, isVeg, outdoor, luxury)
	}, "No restaurants found")
}

// HandleSortByRating handles GET /restaurants/sort-by-rating.
func (h *RestaurantHandler) HandleSortByRating(w http.ResponseWriter, r *http.Request) {
	serveEnvelope(w, r, h.deps.RestaurantsSortedByRating, "No restaurants found")
}
