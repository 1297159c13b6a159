package objecturl

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// Lease is a scoped acquisition of one object URL. Release revokes the URL
// the first time it is called; later calls are no-ops.
type Lease struct {
	broker *Broker
	handle string
	url    string

	once sync.Once
	err  error
}

// URL returns the minted URL.
func (l *Lease) URL() string {
	return l.url
}

// Handle returns the path segment identifying the blob.
func (l *Lease) Handle() string {
	return l.handle
}

// Release revokes the URL exactly once. A broker that was already closed has
// revoked it, so that case is not an error.
func (l *Lease) Release() error {
	l.once.Do(func() {
		err := l.broker.Revoke(l.url)
		if errors.Is(err, ErrClosed) {
			err = nil
		}
		l.err = err
	})
	return l.err
}
