package cache

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a facet was never cached for a URI, or
	// when caching is disabled.
	ErrNotFound = errors.New("cache entry not found")

	// ErrMalformedURI is returned when a URI cannot be mapped to a cache path.
	ErrMalformedURI = errors.New("malformed cache uri")
)

// StorageError reports a filesystem failure other than a missing entry.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("cache %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func notFound(reason string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, reason)
}
