package repository

import (
	"context"

	"github.com/okian/tastebase/internal/domain/model"
	"github.com/okian/tastebase/internal/domain/types"
)

const (
	queryAllRestaurants       = "SELECT * FROM restaurants"
	queryRestaurantByID       = "SELECT * FROM restaurants WHERE id = ?"
	queryRestaurantsByCuisine = "SELECT * FROM restaurants WHERE cuisine = ?"
	queryRestaurantsByFilter  = "SELECT * FROM restaurants WHERE isVeg = ? AND hasOutdoorSeating = ? AND isLuxury = ?"
	queryRestaurantsByRating  = "SELECT * FROM restaurants ORDER BY rating DESC"
	queryAllDishes            = "SELECT * FROM dishes"
	queryDishByID             = "SELECT * FROM dishes WHERE id = ?"
	queryDishesByFilter       = "SELECT * FROM dishes WHERE isVeg = ?"
	queryDishesByFilterLegacy = "SELECT * FROM restaurants WHERE isVeg = ?"
	queryDishesSortedByPrice  = "SELECT * FROM dishes ORDER BY price"
)

// Catalog runs the fetch functions over an Executor.
// Every method issues exactly one statement and serves its rows as returned.
type Catalog struct {
	exec             Executor
	legacyDishFilter bool
}

// NewCatalog returns a Catalog reading through exec.
func NewCatalog(exec Executor, opts ...CatalogOption) *Catalog {
	c := &Catalog{exec: exec}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LegacyDishFilter reports whether DishesByFilter reads the restaurants table.
func (c *Catalog) LegacyDishFilter() bool { return c.legacyDishFilter }

// AllRestaurants returns every restaurant in store order.
func (c *Catalog) AllRestaurants(ctx context.Context) (model.RestaurantList, error) {
	return c.restaurants(ctx, queryAllRestaurants)
}

// RestaurantByID returns the restaurant with the given id, if any.
func (c *Catalog) RestaurantByID(ctx context.Context, id types.ID) (model.RestaurantList, error) {
	return c.restaurants(ctx, queryRestaurantByID, id.Bind())
}

// RestaurantsByCuisine matches cuisine exactly.
func (c *Catalog) RestaurantsByCuisine(ctx context.Context, cuisine string) (model.RestaurantList, error) {
	return c.restaurants(ctx, queryRestaurantsByCuisine, cuisine)
}

// RestaurantsByFilter matches all three flags.
func (c *Catalog) RestaurantsByFilter(ctx context.Context, isVeg, hasOutdoorSeating, isLuxury types.Flag) (model.RestaurantList, error) {
	return c.restaurants(ctx, queryRestaurantsByFilter, isVeg.Bind(), hasOutdoorSeating.Bind(), isLuxury.Bind())
}

// RestaurantsSortedByRating returns every restaurant, highest rating first.
func (c *Catalog) RestaurantsSortedByRating(ctx context.Context) (model.RestaurantList, error) {
	return c.restaurants(ctx, queryRestaurantsByRating)
}

// AllDishes returns every dish in store order.
func (c *Catalog) AllDishes(ctx context.Context) (model.DishList, error) {
	return c.dishes(ctx, queryAllDishes)
}

// DishByID returns the dish with the given id, if any.
func (c *Catalog) DishByID(ctx context.Context, id types.ID) (model.DishList, error) {
	return c.dishes(ctx, queryDishByID, id.Bind())
}

// DishesByFilter matches the vegetarian flag.
//
// In legacy mode the statement targets the restaurants table and the
// matching restaurant rows are returned unchanged under the dishes key.
func (c *Catalog) DishesByFilter(ctx context.Context, isVeg types.Flag) (model.DishList, error) {
	if c.legacyDishFilter {
		return c.dishes(ctx, queryDishesByFilterLegacy, isVeg.Bind())
	}
	return c.dishes(ctx, queryDishesByFilter, isVeg.Bind())
}

// DishesSortedByPrice returns every dish, cheapest first.
func (c *Catalog) DishesSortedByPrice(ctx context.Context) (model.DishList, error) {
	return c.dishes(ctx, queryDishesSortedByPrice)
}

func (c *Catalog) restaurants(ctx context.Context, statement string, params ...any) (model.RestaurantList, error) {
	rows, err := c.exec.ExecuteQuery(ctx, statement, params...)
	if err != nil {
		return model.RestaurantList{}, err
	}
	return model.RestaurantList{Restaurants: nonNil(rows)}, nil
}

func (c *Catalog) dishes(ctx context.Context, statement string, params ...any) (model.DishList, error) {
	rows, err := c.exec.ExecuteQuery(ctx, statement, params...)
	if err != nil {
		return model.DishList{}, err
	}
	return model.DishList{Dishes: nonNil(rows)}, nil
}

// nonNil keeps empty results encoding as [] rather than null.
func nonNil(rows []Row) []Row {
	if rows == nil {
		return []Row{}
	}
	return rows
}
