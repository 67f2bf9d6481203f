package store

import "errors"

var (
	// ErrConflict surfaces the database-level overlap rejection. The advisory
	// lock makes it unreachable in normal operation; the exclusion constraint
	// keeps double-booking impossible even for code paths that skip the lock.
	ErrConflict = errors.New("scheduling conflict")
	ErrNotFound = errors.New("not found")
)
