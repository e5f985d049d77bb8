package probe

import (
	"net/url"
	"time"
)

// HTTP status code constants.
const (
	StatusOK                 = 200
	StatusNotFound           = 404
	StatusInternalError      = 500
	StatusServiceUnavailable = 503
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	DefaultTimeout       = 10 * time.Second
	PercentageMultiplier = 100
	reportInterval       = time.Second
	unknownID            = "999999999"
)

// Endpoints lists the catalog routes, in the order the probe issues them.
func Endpoints(cuisine string) []string {
	return []string{
		"/restaurants",
		"/restaurants/details/1",
		"/restaurants/cuisine/" + url.PathEscape(cuisine),
		"/restaurants/filter?isVeg=1&hasOutdoorSeating=0&isLuxury=0",
		"/restaurants/sort-by-rating",
		"/dishes",
		"/dishes/details/1",
		"/dishes/filter?isVeg=1",
		"/dishes/sort-by-price",
	}
}
