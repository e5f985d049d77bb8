package api

import (
	"context"
	"net/http"

	"github.com/okian/tastebase/internal/domain/model"
	"github.com/okian/tastebase/internal/domain/types"
)

// DishDependencies defines the interface for dish reads.
type DishDependencies interface {
	AllDishes(ctx context.Context) (model.DishList, error)
	DishByID(ctx context.Context, id types.ID) (model.DishList, error)
	DishesByFilter(ctx context.Context, isVeg types.Flag) (model.DishList, error)
	DishesSortedByPrice(ctx context.Context) (model.DishList, error)
}

// DishHandler handles dish requests.
type DishHandler struct {
	deps DishDependencies
}

// NewDishHandler creates a new dish handler.
func NewDishHandler(deps DishDependencies) *DishHandler {
	return &DishHandler{deps: deps}
}

// HandleList handles GET /dishes.
func (h *DishHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	serveEnvelope(w, r, h.deps.AllDishes, "No dishes found.")
}

// HandleDetails handles GET /dishes/details/{id}.
func (h *DishHandler) HandleDetails(w http.ResponseWriter, r *http.Request) {
	id := types.ParseID(r.PathValue("id"))
	serveEnvelope(w, r, func(ctx context.Context) (model.DishList, error) {
		return h.deps.DishByID(ctx, id)
	}, "No dishes found for id: "+id.String())
}

// HandleFilter handles GET /dishes/filter?isVeg=.
func (h *DishHandler) HandleFilter(w http.ResponseWriter, r *http.Request) {
	isVeg := types.ParseFlag(r.URL.Query().Get("isVeg"))
	serveEnvelope(w, r, func(ctx context.Context) (model.DishList, error) {
		return h.deps.DishesByFilter(ctx, isVeg)
	}, "No dishes found")
}

// HandleSortByPrice handles GET /dishes/sort-by-price.
func (h *DishHandler) HandleSortByPrice(w http.ResponseWriter, r *http.Request) {
	serveEnvelope(w, r, h.deps.DishesSortedByPrice, "No dishes found")
}
