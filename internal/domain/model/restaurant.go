// Package model holds the records served by the catalog.
package model

// Restaurant is the typed shape of a restaurants row, used for fixtures
// and exports. Flags keep the store's integer representation (0 or 1).
type Restaurant struct {
	ID                int64   `json:"id" mapstructure:"id" yaml:"id"`
	Name              string  `json:"name" mapstructure:"name" yaml:"name"`
	Cuisine           string  `json:"cuisine" mapstructure:"cuisine" yaml:"cuisine"`
	Rating            float64 `json:"rating" mapstructure:"rating" yaml:"rating"`
	IsVeg             int64   `json:"isVeg" mapstructure:"isVeg" yaml:"isVeg"`
	HasOutdoorSeating int64   `json:"hasOutdoorSeating" mapstructure:"hasOutdoorSeating" yaml:"hasOutdoorSeating"`
	IsLuxury          int64   `json:"isLuxury" mapstructure:"isLuxury" yaml:"isLuxury"`
}

// RestaurantColumns is the restaurants table in schema order.
var RestaurantColumns = []string{"id", "name", "cuisine", "rating", "isVeg", "hasOutdoorSeating", "isLuxury"}

// Record returns r as a stored row.
func (r Restaurant) Record() Record {
	return NewRecord(RestaurantColumns, r.ID, r.Name, r.Cuisine, r.Rating, r.IsVeg, r.HasOutdoorSeating, r.IsLuxury)
}

// RestaurantList is the envelope returned by restaurant fetches.
type RestaurantList struct {
	Restaurants []Record `json:"restaurants"`
}

// Len reports the number of wrapped rows.
func (l RestaurantList) Len() int { return len(l.Restaurants) }
