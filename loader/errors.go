package loader

import "errors"

var (
	// ErrCacheRequired is returned when a document cache is not provided.
	ErrCacheRequired = errors.New("document cache required")
)
