package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrOpenStore = errors.New("open store")
	ErrQuery     = errors.New("query failed")
	ErrDecodeRow = errors.New("decode row")
	ErrFixture   = errors.New("invalid fixture")
	ErrReadOnly  = errors.New("store is read-only")
)

// QueryError carries the failing statement next to the driver error.
// Its message is the driver's text unchanged so it can be surfaced to clients as-is.
type QueryError struct {
	Statement string
	Err       error
}

func (e *QueryError) Error() string { return e.Err.Error() }

// Unwrap lets errors.Is match both ErrQuery and the driver error.
func (e *QueryError) Unwrap() []error { return []error{ErrQuery, e.Err} }
