package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrRateLimited = errors.New("rate limit exceeded")
	ErrPanic       = errors.New("internal server error")
)
