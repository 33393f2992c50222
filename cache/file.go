package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FileBackend stores each facet of an entry as a sibling file under root.
//
// Each file is replaced atomically, but the body, etag and next link files
// are written one after another. A crash or a concurrent Store for the same
// URI can leave a body paired with another response's etag. No locking is
// done; handles sharing a root are independent writers.
type FileBackend struct {
	root string
	log  zerolog.Logger
}

// Option configures a FileBackend.
type Option func(*FileBackend)

// WithLogger sets the logger used for store and lookup events.
func WithLogger(l zerolog.Logger) Option {
	return func(fb *FileBackend) { fb.log = l }
}

func newFileBackend(root string, opts ...Option) *FileBackend {
	fb := &FileBackend{root: root, log: zerolog.Nop()}
	for _, o := range opts {
		o(fb)
	}
	fb.log = fb.log.With().Str("component", "cache").Str("root", root).Logger()
	return fb
}

// Root returns the directory entries are stored under.
func (fb *FileBackend) Root() string { return fb.root }

// Path returns the file holding the ext facet of uri.
func (fb *FileBackend) Path(uri, ext string) (string, error) {
	return Path(fb.root, uri, ext)
}

func (fb *FileBackend) Store(uri string, body []byte, etag, nextLink string) error {
	bodyPath, err := fb.Path(uri, ExtBody)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(bodyPath), 0o700); err != nil {
		return &StorageError{Op: "mkdir", Path: filepath.Dir(bodyPath), Err: err}
	}

	if err := writeFile(bodyPath, body); err != nil {
		return err
	}
	if err := writeFile(sibling(bodyPath, ExtETag), []byte(etag)); err != nil {
		return err
	}
	if nextLink != "" {
		if err := writeFile(sibling(bodyPath, ExtNextLink), []byte(nextLink)); err != nil {
			return err
		}
	}

	fb.log.Debug().
		Str("uri", uri).
		Str("etag", etag).
		Bool("next_link", nextLink != "").
		Int("bytes", len(body)).
		Msg("cache store")
	return nil
}

func (fb *FileBackend) ETag(uri string) (string, error) {
	b, err := fb.read(uri, ExtETag)
	if errors.Is(err, fs.ErrNotExist) {
		fb.log.Debug().Str("uri", uri).Msg("cache miss: etag")
		return "", notFound("no etag cached")
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (fb *FileBackend) Body(uri string) ([]byte, error) {
	b, err := fb.read(uri, ExtBody)
	if errors.Is(err, fs.ErrNotExist) {
		fb.log.Debug().Str("uri", uri).Msg("cache miss: body")
		return nil, notFound("no body cached")
	}
	if err != nil {
		return nil, err
	}
	fb.log.Trace().Str("uri", uri).Int("bytes", len(b)).Msg("cache hit")
	return b, nil
}

func (fb *FileBackend) NextLink(uri string) (string, bool, error) {
	b, err := fb.read(uri, ExtNextLink)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(b), true, nil
}

func (fb *FileBackend) Clone() Backend {
	c := *fb
	return &c
}

// read returns the raw ext facet of uri. A missing file is returned as an
// error matching fs.ErrNotExist; other failures are wrapped in StorageError.
func (fb *FileBackend) read(uri, ext string) ([]byte, error) {
	p, err := fb.Path(uri, ext)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if err != nil {
		return nil, &StorageError{Op: "read", Path: p, Err: err}
	}
	return b, nil
}

func sibling(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + ext
}

// writeFile replaces path with data by writing a temporary sibling and
// renaming it into place.
func writeFile(path string, data []byte) error {
	tmp := path + ".tmp." + uuid.NewString()
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return &StorageError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &StorageError{Op: "rename", Path: path, Err: err}
	}
	return nil
}
