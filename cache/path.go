package cache

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// layoutVersion prefixes every path so the on-disk layout can change without
// colliding with entries written by older versions.
const layoutVersion = "v1"

// Path maps uri to the file holding its ext facet under root.
//
// The raw query string, when present, is hashed with XXH64 and added as a
// 16 hex digit path segment. Queries are not canonicalized: "a=1&b=2" and
// "b=2&a=1" are different entries. Distinct URIs collide only if their query
// hashes do, which is bounded by the 64-bit hash width and is not
// cryptographically resistant. A single trailing slash is dropped, so
// "/users/" and "/users" share an entry. Paths with "." or ".." segments or
// empty "//" segments are rejected rather than cleaned.
func Path(root, uri, ext string) (string, error) {
	u, err := url.Parse(strings.ReplaceAll(uri, " ", "%20"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedURI, err)
	}
	if u.Scheme == "" {
		return "", fmt.Errorf("%w: %q has no scheme", ErrMalformedURI, uri)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: %q has no authority", ErrMalformedURI, uri)
	}

	authority := u.Host
	if u.User != nil {
		authority = u.User.String() + "@" + u.Host
	}
	if authority == "." || authority == ".." {
		return "", fmt.Errorf("%w: %q has a dot authority", ErrMalformedURI, uri)
	}

	rel := strings.TrimPrefix(u.EscapedPath(), "/")
	if rel != "" {
		segs := strings.Split(rel, "/")
		for i, seg := range segs {
			if (seg == "" && i < len(segs)-1) || seg == "." || seg == ".." {
				return "", fmt.Errorf("%w: %q has an empty or dot path segment", ErrMalformedURI, uri)
			}
		}
		rel = strings.TrimSuffix(rel, "/")
	}

	p := filepath.Join(root, layoutVersion, u.Scheme, authority, filepath.FromSlash(rel))
	if u.RawQuery != "" {
		p = filepath.Join(p, fmt.Sprintf("%016x", xxhash.Sum64String(u.RawQuery)))
	}
	return p + "." + ext, nil
}
