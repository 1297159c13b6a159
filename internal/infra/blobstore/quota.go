package blobstore

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"

	"github.com/osa030/vidshelf/internal/domain/video"
)

// QuotaStore limits the total content bytes held by the wrapped store.
type QuotaStore struct {
	mu       sync.Mutex
	inner    Store
	maxBytes int64
	used     int64
	sizes    map[string]int64
}

// WithQuota wraps a store with a byte quota. Current usage is computed from
// the records already in the store.
func WithQuota(ctx context.Context, inner Store, maxBytes int64) (*QuotaStore, error) {
	records, err := inner.GetAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute storage usage")
	}

	q := &QuotaStore{
		inner:    inner,
		maxBytes: maxBytes,
		sizes:    make(map[string]int64, len(records)),
	}
	for _, r := range records {
		q.sizes[r.ID] = r.Content.Size()
		q.used += r.Content.Size()
	}
	return q, nil
}

// Save stores the record if it fits in the quota.
func (q *QuotaStore) Save(ctx context.Context, rec video.Record) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	size := rec.Content.Size()
	next := q.used - q.sizes[rec.ID] + size
	if next > q.maxBytes {
		return errors.Wrapf(ErrQuotaExceeded, "saving %s needs %s, quota is %s",
			rec.ID, humanize.IBytes(uint64(next)), humanize.IBytes(uint64(q.maxBytes)))
	}

	if err := q.inner.Save(ctx, rec); err != nil {
		return err
	}
	q.used = next
	q.sizes[rec.ID] = size
	return nil
}

// GetAll passes through to the wrapped store.
func (q *QuotaStore) GetAll(ctx context.Context) ([]video.Record, error) {
	return q.inner.GetAll(ctx)
}

// Delete removes the record and releases its bytes from the quota.
func (q *QuotaStore) Delete(ctx context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.inner.Delete(ctx, id); err != nil {
		return err
	}
	q.used -= q.sizes[id]
	delete(q.sizes, id)
	return nil
}

// Used returns the bytes currently accounted.
func (q *QuotaStore) Used() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.used
}

// Close closes the wrapped store.
func (q *QuotaStore) Close() error {
	return q.inner.Close()
}
