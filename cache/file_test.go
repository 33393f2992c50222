package cache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reposURI = "https://api.github.com/users/dwijnand/repos"

func newTestBackend(t *testing.T) *FileBackend {
	t.Helper()
	fb, err := NewDir(t.TempDir())
	require.NoError(t, err)
	return fb
}

func TestFileBackendRoundTrip(t *testing.T) {
	fb := newTestBackend(t)

	require.NoError(t, fb.Store(reposURI, []byte(`[{"id":1}]`), `W/"abc"`, ""))

	body, err := fb.Body(reposURI)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(body))

	etag, err := fb.ETag(reposURI)
	require.NoError(t, err)
	assert.Equal(t, `W/"abc"`, etag)

	// facets are sibling files of the derived body path
	for _, ext := range []string{"json", "etag"} {
		p := filepath.Join(fb.Root(), "v1", "https", "api.github.com", "users", "dwijnand", "repos."+ext)
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
}

func TestFileBackendNextLink(t *testing.T) {
	fb := newTestBackend(t)
	page1 := reposURI + "?page=1"
	page2 := reposURI + "?page=2"

	require.NoError(t, fb.Store(page1, []byte("[]"), "e1", reposURI+"?page=2"))
	require.NoError(t, fb.Store(page2, []byte("[]"), "e2", ""))

	link, ok, err := fb.NextLink(page1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, reposURI+"?page=2", link)

	link, ok, err = fb.NextLink(page2)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, link)
}

func TestFileBackendStoreWithoutLinkKeepsOldLink(t *testing.T) {
	fb := newTestBackend(t)

	require.NoError(t, fb.Store(reposURI, []byte("[1]"), "e1", reposURI+"?page=2"))
	require.NoError(t, fb.Store(reposURI, []byte("[2]"), "e2", ""))

	// a link-less store does not remove the previous link
	link, ok, err := fb.NextLink(reposURI)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, reposURI+"?page=2", link)
}

func TestFileBackendOverwrite(t *testing.T) {
	fb := newTestBackend(t)

	require.NoError(t, fb.Store(reposURI, []byte("first"), "e1", ""))
	require.NoError(t, fb.Store(reposURI, []byte("second"), "e2", ""))

	body, err := fb.Body(reposURI)
	require.NoError(t, err)
	assert.Equal(t, "second", string(body))

	etag, err := fb.ETag(reposURI)
	require.NoError(t, err)
	assert.Equal(t, "e2", etag)

	// no temp files are left next to the entry
	dir := filepath.Join(fb.Root(), "v1", "https", "api.github.com", "users", "dwijnand")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"repos.json", "repos.etag"}, names)
}

func TestFileBackendQueryIsolation(t *testing.T) {
	fb := newTestBackend(t)

	require.NoError(t, fb.Store(reposURI, []byte("all"), "e0", ""))
	require.NoError(t, fb.Store(reposURI+"?page=2", []byte("page two"), "e2", ""))

	body, err := fb.Body(reposURI)
	require.NoError(t, err)
	assert.Equal(t, "all", string(body))

	body, err = fb.Body(reposURI + "?page=2")
	require.NoError(t, err)
	assert.Equal(t, "page two", string(body))

	_, err = fb.Body(reposURI + "?page=3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileBackendMiss(t *testing.T) {
	fb := newTestBackend(t)

	_, err := fb.ETag(reposURI)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "no etag cached")

	_, err = fb.Body(reposURI)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "no body cached")

	link, ok, err := fb.NextLink(reposURI)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, link)
}

func TestFileBackendStorageError(t *testing.T) {
	fb := newTestBackend(t)

	// a directory where the body file should be
	p, err := fb.Path(reposURI, ExtBody)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(p, 0o700))

	_, err = fb.Body(reposURI)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	var se *StorageError
	require.True(t, errors.As(err, &se), "%T: %v", err, err)
	assert.Equal(t, "read", se.Op)
	assert.Equal(t, p, se.Path)

	err = fb.Store(reposURI, []byte("x"), "e", "")
	require.Error(t, err)
	assert.True(t, errors.As(err, &se))
}

func TestFileBackendMalformedURI(t *testing.T) {
	fb := newTestBackend(t)

	err := fb.Store("not a uri", []byte("x"), "e", "")
	assert.ErrorIs(t, err, ErrMalformedURI)

	_, err = fb.ETag("/relative")
	assert.ErrorIs(t, err, ErrMalformedURI)

	_, err = fb.Body("/relative")
	assert.ErrorIs(t, err, ErrMalformedURI)

	_, _, err = fb.NextLink("/relative")
	assert.ErrorIs(t, err, ErrMalformedURI)
}

func TestFileBackendClone(t *testing.T) {
	fb := newTestBackend(t)
	clone := fb.Clone()

	require.NoError(t, clone.Store(reposURI, []byte("shared"), "e1", ""))

	body, err := fb.Body(reposURI)
	require.NoError(t, err)
	assert.Equal(t, "shared", string(body))

	c, ok := clone.(*FileBackend)
	require.True(t, ok)
	assert.NotSame(t, fb, c)
	assert.Equal(t, fb.Root(), c.Root())
}

func TestFileBackendBinaryBody(t *testing.T) {
	fb := newTestBackend(t)
	body := []byte{0x00, 0xff, 0xfe, '\n', 0x80}

	require.NoError(t, fb.Store(reposURI, body, "bin", ""))

	got, err := fb.Body(reposURI)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestFileBackendDotSegmentsDoNotAlias(t *testing.T) {
	fb := newTestBackend(t)
	plain := "https://api.example.com/b"

	require.NoError(t, fb.Store(plain, []byte("B"), "e1", ""))

	for _, uri := range []string{
		"https://api.example.com/a/../b",
		"https://api.example.com/./b",
		"https://api.example.com//b",
	} {
		err := fb.Store(uri, []byte("aliased"), "e2", "")
		assert.ErrorIs(t, err, ErrMalformedURI, uri)
	}

	body, err := fb.Body(plain)
	require.NoError(t, err)
	assert.Equal(t, "B", string(body))
}
