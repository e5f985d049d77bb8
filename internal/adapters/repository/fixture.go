package repository

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/okian/tastebase/internal/domain/model"
)

//go:embed fixtures/default.yaml
var defaultFixture []byte

// Fixture is a dataset that can be loaded into an empty store.
type Fixture struct {
	Restaurants []model.Restaurant `yaml:"restaurants"`
	Dishes      []model.Dish       `yaml:"dishes"`
}

// DefaultFixture returns the dataset bundled with the binary.
func DefaultFixture() (Fixture, error) {
	return ParseFixture(defaultFixture)
}

// LoadFixture reads a YAML fixture from path.
func LoadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("%w: read %s: %w", ErrFixture, path, err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes and validates a YAML fixture.
func ParseFixture(data []byte) (Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Fixture{}, fmt.Errorf("%w: %w", ErrFixture, err)
	}
	if err := f.Validate(); err != nil {
		return Fixture{}, err
	}
	return f, nil
}

// Validate rejects duplicate ids, unnamed rows and flags other than 0 or 1.
func (f Fixture) Validate() error {
	seen := make(map[int64]struct{}, len(f.Restaurants))
	for _, r := range f.Restaurants {
		if _, ok := seen[r.ID]; ok {
			return fmt.Errorf("%w: duplicate restaurant id %d", ErrFixture, r.ID)
		}
		seen[r.ID] = struct{}{}
		if r.Name == "" {
			return fmt.Errorf("%w: restaurant %d has no name", ErrFixture, r.ID)
		}
		for _, flag := range []int64{r.IsVeg, r.HasOutdoorSeating, r.IsLuxury} {
			if flag != 0 && flag != 1 {
				return fmt.Errorf("%w: restaurant %d has flag %d", ErrFixture, r.ID, flag)
			}
		}
	}

	seen = make(map[int64]struct{}, len(f.Dishes))
	for _, d := range f.Dishes {
		if _, ok := seen[d.ID]; ok {
			return fmt.Errorf("%w: duplicate dish id %d", ErrFixture, d.ID)
		}
		seen[d.ID] = struct{}{}
		if d.Name == "" {
			return fmt.Errorf("%w: dish %d has no name", ErrFixture, d.ID)
		}
		if d.IsVeg != 0 && d.IsVeg != 1 {
			return fmt.Errorf("%w: dish %d has flag %d", ErrFixture, d.ID, d.IsVeg)
		}
	}
	return nil
}

// Export reads both tables back into a Fixture, ordered by id.
// The result is validated so it can be loaded again with Seed.
func Export(ctx context.Context, exec Executor) (Fixture, error) {
	restaurantRows, err := exec.ExecuteQuery(ctx, "SELECT * FROM restaurants ORDER BY id")
	if err != nil {
		return Fixture{}, err
	}
	dishRows, err := exec.ExecuteQuery(ctx, "SELECT * FROM dishes ORDER BY id")
	if err != nil {
		return Fixture{}, err
	}

	var f Fixture
	if f.Restaurants, err = DecodeRows[model.Restaurant](restaurantRows); err != nil {
		return Fixture{}, err
	}
	if f.Dishes, err = DecodeRows[model.Dish](dishRows); err != nil {
		return Fixture{}, err
	}
	if err := f.Validate(); err != nil {
		return Fixture{}, err
	}
	return f, nil
}
