package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopBackendAlwaysMisses(t *testing.T) {
	uris := []string{
		reposURI,
		reposURI + "?page=2",
		"not a uri",
	}

	for _, uri := range uris {
		b := NewNoop()
		assert.NoError(t, b.Store(uri, []byte("body"), "etag", "next"))

		_, err := b.ETag(uri)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.EqualError(t, err, "cache entry not found: no etag cached")

		_, err = b.Body(uri)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.EqualError(t, err, "cache entry not found: no body cached")

		_, ok, err := b.NextLink(uri)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.EqualError(t, err, "cache entry not found: no next link cached")
	}
}

func TestNoopBackendClone(t *testing.T) {
	b := NewNoop()
	assert.Equal(t, b, b.Clone())
}
