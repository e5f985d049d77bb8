package model

// Dish is the typed shape of a dishes row, used for fixtures and exports.
type Dish struct {
	ID    int64   `json:"id" mapstructure:"id" yaml:"id"`
	Name  string  `json:"name" mapstructure:"name" yaml:"name"`
	Price float64 `json:"price" mapstructure:"price" yaml:"price"`
	IsVeg int64   `json:"isVeg" mapstructure:"isVeg" yaml:"isVeg"`
}

// DishColumns is the dishes table in schema order.
var DishColumns = []string{"id", "name", "price", "isVeg"}

// Record returns d as a stored row.
func (d Dish) Record() Record {
	return NewRecord(DishColumns, d.ID, d.Name, d.Price, d.IsVeg)
}

// DishList is the envelope returned by dish fetches.
type DishList struct {
	Dishes []Record `json:"dishes"`
}

// Len reports the number of wrapped rows.
func (l DishList) Len() int { return len(l.Dishes) }
