package repository

import "errors"

// Common repository errors
var (
	// ErrDefaultUserConflict is returned when the default user cannot be
	// created even though the preceding lookup reported it absent. Under
	// single-writer access this is unreachable and signals datastore or
	// logic corruption, so it is surfaced as a hard error rather than a
	// soft nil result.
	ErrDefaultUserConflict = errors.New("default user missing after existence check")
)
