package gate

import "errors"

// Sentinel errors returned by Gate.Authorize.
var (
	// ErrForbidden is returned when the user lacks the permission or does not
	// own the resource. Surfaced to callers as a permission error, never as a
	// silently empty result.
	ErrForbidden = errors.New("forbidden")
)
