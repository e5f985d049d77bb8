package probe

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
)

// check is one verification step. It returns nil when the server behaves.
type check struct {
	name string
	run  func(ctx context.Context, c *HTTPClient, cfg *Config) error
}

func checks() []check {
	return []check{
		{"restaurants sorted by rating", checkRatingOrder},
		{"dishes sorted by price", checkPriceOrder},
		{"restaurant details round trip", checkRestaurantDetails},
		{"dish details round trip", checkDishDetails},
		{"unknown ids are not found", checkUnknownIDs},
		{"cuisine filter matches exactly", checkCuisine},
		{"repeated requests are byte-identical", checkIdempotent},
	}
}

// getEnvelope fetches path and decodes the envelope on 200.
// A 404 yields the zero envelope; any other status is an error.
func getEnvelope[T any](ctx context.Context, c *HTTPClient, path string) (T, bool, error) {
	var zero T
	resp, err := c.Get(ctx, path)
	if err != nil {
		return zero, false, err
	}
	switch resp.Status {
	case StatusOK:
		v, err := decode[T](resp)
		return v, true, err
	case StatusNotFound:
		if _, err := decode[messageBody](resp); err != nil {
			return zero, false, err
		}
		return zero, false, nil
	default:
		return zero, false, fmt.Errorf("GET %s: unexpected status %d: %s", path, resp.Status, bytes.TrimSpace(resp.Body))
	}
}

func checkRatingOrder(ctx context.Context, c *HTTPClient, _ *Config) error {
	env, _, err := getEnvelope[restaurantsEnvelope](ctx, c, "/restaurants/sort-by-rating")
	if err != nil {
		return err
	}
	for i := 1; i < len(env.Restaurants); i++ {
		if env.Restaurants[i-1].Rating < env.Restaurants[i].Rating {
			return fmt.Errorf("rating increases at position %d: %v < %v", i, env.Restaurants[i-1].Rating, env.Restaurants[i].Rating)
		}
	}
	return nil
}

func checkPriceOrder(ctx context.Context, c *HTTPClient, _ *Config) error {
	env, _, err := getEnvelope[dishesEnvelope](ctx, c, "/dishes/sort-by-price")
	if err != nil {
		return err
	}
	for i := 1; i < len(env.Dishes); i++ {
		if env.Dishes[i-1].Price > env.Dishes[i].Price {
			return fmt.Errorf("price decreases at position %d: %v > %v", i, env.Dishes[i-1].Price, env.Dishes[i].Price)
		}
	}
	return nil
}

func checkRestaurantDetails(ctx context.Context, c *HTTPClient, _ *Config) error {
	all, _, err := getEnvelope[restaurantsEnvelope](ctx, c, "/restaurants")
	if err != nil {
		return err
	}
	for _, want := range all.Restaurants {
		got, found, err := getEnvelope[restaurantsEnvelope](ctx, c, "/restaurants/details/"+strconv.FormatInt(want.ID, 10))
		if err != nil {
			return err
		}
		if !found || len(got.Restaurants) != 1 || got.Restaurants[0] != want {
			return fmt.Errorf("restaurant %d: details do not match the listing", want.ID)
		}
	}
	return nil
}

func checkDishDetails(ctx context.Context, c *HTTPClient, _ *Config) error {
	all, _, err := getEnvelope[dishesEnvelope](ctx, c, "/dishes")
	if err != nil {
		return err
	}
	for _, want := range all.Dishes {
		got, found, err := getEnvelope[dishesEnvelope](ctx, c, "/dishes/details/"+strconv.FormatInt(want.ID, 10))
		if err != nil {
			return err
		}
		if !found || len(got.Dishes) != 1 || got.Dishes[0] != want {
			return fmt.Errorf("dish %d: details do not match the listing", want.ID)
		}
	}
	return nil
}

func checkUnknownIDs(ctx context.Context, c *HTTPClient, _ *Config) error {
	expect := map[string]string{
		"/restaurants/details/" + unknownID: "No restaurants found for id: " + unknownID,
		"/dishes/details/" + unknownID:      "No dishes found for id: " + unknownID,
	}
	for path, message := range expect {
		resp, err := c.Get(ctx, path)
		if err != nil {
			return err
		}
		if resp.Status != StatusNotFound {
			return fmt.Errorf("GET %s: expected 404, got %d", path, resp.Status)
		}
		body, err := decode[messageBody](resp)
		if err != nil {
			return err
		}
		if body.Message != message {
			return fmt.Errorf("GET %s: expected message %q, got %q", path, message, body.Message)
		}
	}
	return nil
}

func checkCuisine(ctx context.Context, c *HTTPClient, cfg *Config) error {
	env, found, err := getEnvelope[restaurantsEnvelope](ctx, c, Endpoints(cfg.Cuisine)[2])
	if err != nil || !found {
		return err
	}
	for _, r := range env.Restaurants {
		if r.Cuisine != cfg.Cuisine {
			return fmt.Errorf("restaurant %d has cuisine %q, want %q", r.ID, r.Cuisine, cfg.Cuisine)
		}
	}
	return nil
}

func checkIdempotent(ctx context.Context, c *HTTPClient, cfg *Config) error {
	for _, path := range Endpoints(cfg.Cuisine) {
		first, err := c.Get(ctx, path)
		if err != nil {
			return err
		}
		second, err := c.Get(ctx, path)
		if err != nil {
			return err
		}
		if first.Status != second.Status || !bytes.Equal(first.Body, second.Body) {
			return fmt.Errorf("GET %s: responses differ between identical requests", path)
		}
	}
	return nil
}

// verify runs every check and records the outcome in stats.
func verify(ctx context.Context, c *HTTPClient, cfg *Config, stats *Stats) {
	for _, chk := range checks() {
		if err := chk.run(ctx, c, cfg); err != nil {
			stats.ChecksFailed++
			stats.FailureDetails = append(stats.FailureDetails, chk.name+": "+err.Error())
			continue
		}
		stats.ChecksPassed++
	}
}
