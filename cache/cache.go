// Package cache provides an on-disk cache for conditional HTTP requests.
//
// A cache entry is identified by a request URI and has three facets that are
// stored independently: the response body, the ETag that validates it, and an
// optional pagination continuation link. Entries are laid out on disk as
//
//	<root>/v1/<scheme>/<authority>/<path>[/<query hash>].<ext>
//
// where ext is one of "json", "etag" or "next_link".
package cache

// File extensions used for the facets of an entry.
const (
	ExtBody     = "json"
	ExtETag     = "etag"
	ExtNextLink = "next_link"
)

// Backend is implemented by every cache store. Callers hold a Backend rather
// than a concrete type so caching can be switched off or relocated without
// touching call sites.
type Backend interface {
	// Store writes body and etag for uri, and nextLink when it is non-empty.
	// An empty nextLink leaves any previously stored link in place.
	Store(uri string, body []byte, etag, nextLink string) error

	// ETag returns the stored validator, or an error wrapping ErrNotFound.
	ETag(uri string) (string, error)

	// Body returns the stored payload, or an error wrapping ErrNotFound.
	Body(uri string) ([]byte, error)

	// NextLink returns the stored continuation link. ok is false when none
	// was ever stored; err is reserved for storage failures.
	NextLink(uri string) (link string, ok bool, err error)

	// Clone returns a new handle over the same storage.
	Clone() Backend
}
