// Package objecturl mints and revokes ephemeral URLs that expose an in-memory
// blob as a playable HTTP resource.
package objecturl

import (
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/vidshelf/internal/domain/video"
	"github.com/osa030/vidshelf/internal/infra/metrics"
)

// MediaPath is the URL path prefix served by the media handler.
const MediaPath = "/media/"

// Errors
var (
	ErrNotLive = errors.New("object url is not live")
	ErrClosed  = errors.New("broker is closed")
)

// Stats reports broker counters.
type Stats struct {
	Minted        int
	Revoked       int
	Live          int
	DoubleRevokes int // revokes of unknown or already revoked URLs
}

// Broker owns the handle table. Every minted URL must be revoked exactly once.
type Broker struct {
	mu      sync.RWMutex
	baseURL string
	live    map[string]video.Blob // handle -> blob
	stats   Stats
	closed  bool
}

// NewBroker creates a broker minting URLs under baseURL (no trailing slash).
func NewBroker(baseURL string) *Broker {
	return &Broker{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		live:    make(map[string]video.Blob),
	}
}

// Mint allocates a new URL for the blob.
func (b *Broker) Mint(blob video.Blob) (*Lease, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	handle := uuid.NewString()
	b.live[handle] = blob
	b.stats.Minted++
	metrics.ObserveMint()

	zlog.Debug().Msgf("objecturl: minted: handle=%s name=%s size=%d", handle, blob.Name, len(blob.Data))
	return &Lease{broker: b, handle: handle, url: b.baseURL + MediaPath + handle}, nil
}

// Revoke releases the URL. Revoking an unknown or already revoked URL returns
// ErrNotLive.
func (b *Broker) Revoke(url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	return b.revokeLocked(b.handleOf(url))
}

func (b *Broker) revokeLocked(handle string) error {
	if _, ok := b.live[handle]; !ok {
		b.stats.DoubleRevokes++
		zlog.Warn().Msgf("objecturl: revoke of non-live handle: handle=%s", handle)
		return errors.Wrapf(ErrNotLive, "handle %s", handle)
	}
	delete(b.live, handle)
	b.stats.Revoked++
	metrics.ObserveRevoke()
	zlog.Debug().Msgf("objecturl: revoked: handle=%s", handle)
	return nil
}

// Resolve returns the blob behind a live handle.
func (b *Broker) Resolve(handle string) (video.Blob, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	blob, ok := b.live[handle]
	return blob, ok
}

// Stats returns a snapshot of the broker counters.
func (b *Broker) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := b.stats
	s.Live = len(b.live)
	return s
}

// Close revokes every URL still live. Later mints fail with ErrClosed.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	for handle := range b.live {
		_ = b.revokeLocked(handle)
	}
	b.closed = true
	return nil
}

// handleOf accepts either a full URL minted by this broker or a bare handle.
func (b *Broker) handleOf(url string) string {
	if h, ok := strings.CutPrefix(url, b.baseURL+MediaPath); ok {
		return h
	}
	return url
}
