// Package probe exercises a running catalog server and verifies its responses.
package probe

import "time"

// Config holds configuration for a probe run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Rounds     int           // How many times each endpoint is requested
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	ReportFile string        // Optional JSON report path
	Cuisine    string        // Cuisine probed on /restaurants/cuisine/{cuisine}
	Verbose    bool          // Enable verbose logging
}

// Restaurant mirrors one element of the restaurants envelope.
type Restaurant struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Cuisine           string  `json:"cuisine"`
	Rating            float64 `json:"rating"`
	IsVeg             int64   `json:"isVeg"`
	HasOutdoorSeating int64   `json:"hasOutdoorSeating"`
	IsLuxury          int64   `json:"isLuxury"`
}

// Dish mirrors one element of the dishes envelope.
type Dish struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	IsVeg int64   `json:"isVeg"`
}

type restaurantsEnvelope struct {
	Restaurants []Restaurant `json:"restaurants"`
}

type dishesEnvelope struct {
	Dishes []Dish `json:"dishes"`
}

type messageBody struct {
	Message string `json:"message"`
}

// Stats holds run statistics.
type Stats struct {
	Requests       int           `json:"requests"`
	Found          int           `json:"found"`
	NotFound       int           `json:"notFound"`
	ServerErrors   int           `json:"serverErrors"`
	Unavailable    int           `json:"unavailable"`
	Unexpected     int           `json:"unexpected"`
	Transport      int           `json:"transportErrors"`
	ChecksPassed   int           `json:"checksPassed"`
	ChecksFailed   int           `json:"checksFailed"`
	StartTime      time.Time     `json:"startTime"`
	EndTime        time.Time     `json:"endTime"`
	Duration       time.Duration `json:"duration"`
	MaxLatency     time.Duration `json:"maxLatency"`
	TotalLatency   time.Duration `json:"totalLatency"`
	FailureDetails []string      `json:"failures,omitempty"`
}
