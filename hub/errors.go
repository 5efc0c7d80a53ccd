package hub

import "errors"

var (
	// ErrScopeMismatch is reported when the scope on top of the stack was not
	// pushed from the expected parent, so it was left in place.
	ErrScopeMismatch = errors.New("scope stack mismatch")

	// ErrNoClient is returned by operations that need a bound client.
	ErrNoClient = errors.New("no client bound to hub")
)
