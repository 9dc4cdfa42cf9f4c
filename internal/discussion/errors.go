package discussion

import "errors"

// Sentinel errors returned by the stores. Handlers map them onto HTTP status
// codes; callers compare with errors.Is.
var (
	// ErrNotFound - a referenced pub, thread, reply or parent does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrConflict - a pub already exists for the given paper.
	ErrConflict = errors.New("already exists")

	// ErrMismatch - a parent reply belongs to a different thread than the one
	// being replied to.
	ErrMismatch = errors.New("parent reply belongs to a different thread")
)
