package probe

import "errors"

// Sentinel kinds for probe errors.
var (
	ErrUnhealthy          = errors.New("service unhealthy")
	ErrVerificationFailed = errors.New("verification failed")
	ErrInvalidConfig      = errors.New("invalid probe config")
)
