package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrOverloaded = errors.New("service overloaded")
	ErrNotStarted = errors.New("service not started")
	ErrNoCatalog  = errors.New("no catalog configured")
)
