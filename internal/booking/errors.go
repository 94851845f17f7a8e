package booking

import "errors"

// Sentinel errors for the engine's failure kinds. Every error returned
// by Submit and Delete wraps exactly one of these so callers can map
// them with errors.Is instead of matching message text.
var (
	ErrValidation  = errors.New("invalid request")
	ErrNotFound    = errors.New("space not found")
	ErrPermission  = errors.New("permission denied")
	ErrConflict    = errors.New("time block conflict")
	ErrPolicyLimit = errors.New("booking policy violated")
	ErrPersistence = errors.New("storage failure")
)
