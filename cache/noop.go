package cache

// NoopBackend is the Backend used when caching is disabled. Stores are
// dropped and every lookup misses.
type NoopBackend struct{}

// NewNoop returns a Backend that never retains anything.
func NewNoop() Backend {
	return NoopBackend{}
}

func (NoopBackend) Store(uri string, body []byte, etag, nextLink string) error {
	return nil
}

func (NoopBackend) ETag(uri string) (string, error) {
	return "", notFound("no etag cached")
}

func (NoopBackend) Body(uri string) ([]byte, error) {
	return nil, notFound("no body cached")
}

func (NoopBackend) NextLink(uri string) (string, bool, error) {
	return "", false, notFound("no next link cached")
}

func (n NoopBackend) Clone() Backend { return n }
