// Package library manages the in-memory mirror of the persisted video
// collection.
package library

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gabriel-vasile/mimetype"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/vidshelf/internal/app/filter"
	"github.com/osa030/vidshelf/internal/domain/video"
	"github.com/osa030/vidshelf/internal/infra/blobstore"
	"github.com/osa030/vidshelf/internal/infra/metrics"
)

// Manager owns the list of video records and keeps it in step with the
// blob store. Store calls run outside the lock.
type Manager struct {
	mu      sync.RWMutex
	records []video.Record

	store blobstore.Store
	chain *filter.Chain
	ids   *IDGenerator
	now   func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the clock used for IDs and creation times.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
		m.ids = NewIDGenerator(now)
	}
}

// NewManager creates a manager over the store. A nil chain checks duplicates
// only.
func NewManager(store blobstore.Store, chain *filter.Chain, opts ...Option) *Manager {
	if chain == nil {
		chain = filter.NewChain()
		chain.Add(filter.NewDuplicateFilter())
	}
	m := &Manager{
		records: make([]video.Record, 0),
		store:   store,
		chain:   chain,
		ids:     NewIDGenerator(time.Now),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load replaces the in-memory list with the store contents.
func (m *Manager) Load(ctx context.Context) error {
	records, err := m.store.GetAll(ctx)
	if err != nil {
		metrics.IncLibraryOp("load", "error")
		return errors.Wrap(err, "failed to load library")
	}

	for _, r := range records {
		m.ids.Observe(r.ID)
	}

	m.mu.Lock()
	m.records = append(make([]video.Record, 0, len(records)), records...)
	n := len(m.records)
	m.mu.Unlock()

	metrics.IncLibraryOp("load", "ok")
	metrics.SetLibrarySize(n)
	zlog.Info().Msgf("library: loaded %d videos", n)
	return nil
}

// List returns a copy of the records.
func (m *Manager) List() []video.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]video.Record, len(m.records))
	copy(result, m.records)
	return result
}

// Get returns the record with the given ID.
func (m *Manager) Get(id string) (video.Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i := m.indexLocked(id); i >= 0 {
		return m.records[i], true
	}
	return video.Record{}, false
}

// Count returns the number of records.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Add imports a file. The record is appended before it is persisted and
// removed again if the store rejects it.
func (m *Manager) Add(ctx context.Context, fileName string, data []byte) (video.Record, error) {
	content := video.Content{
		FileName: fileName,
		MIMEType: mimetype.Detect(data).String(),
		Data:     data,
	}

	m.mu.Lock()
	result := m.chain.Execute(ctx, content, m.records)
	if !result.Accepted {
		m.mu.Unlock()
		metrics.IncLibraryOp("add", result.Code)
		if result.Code == filter.CodeDuplicate {
			zlog.Debug().Msgf("library: duplicate rejected: file=%s size=%d", fileName, content.Size())
			return video.Record{}, &DuplicateError{FileName: fileName, Size: content.Size()}
		}
		return video.Record{}, &RejectedError{FileName: fileName, Code: result.Code}
	}

	rec := video.Record{
		ID:        m.ids.Next(),
		Name:      video.DisplayNameFromFile(fileName),
		Content:   content,
		CreatedAt: m.now(),
	}
	m.records = append(m.records, rec)
	m.mu.Unlock()

	if err := m.store.Save(ctx, rec); err != nil {
		m.mu.Lock()
		if i := m.indexLocked(rec.ID); i >= 0 {
			m.records = append(m.records[:i], m.records[i+1:]...)
		}
		m.mu.Unlock()

		metrics.IncLibraryOp("add", "persistence_failed")
		zlog.Error().Msgf("library: failed to save %s (%s): %v", rec.ID, fileName, err)
		return video.Record{}, &PersistenceError{Op: "add", ID: rec.ID, Err: err}
	}

	metrics.IncLibraryOp("add", "ok")
	metrics.SetLibrarySize(m.Count())
	zlog.Info().Msgf("library: added: id=%s name=%s mime=%s size=%d", rec.ID, rec.Name, content.MIMEType, content.Size())
	return rec, nil
}

// Rename persists a copy of the record with a new display name. The blob is
// untouched. Memory is updated only after the store accepts the change.
func (m *Manager) Rename(ctx context.Context, id, name string) (video.Record, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		metrics.IncLibraryOp("rename", "invalid")
		return video.Record{}, ErrInvalidName
	}

	current, ok := m.Get(id)
	if !ok {
		metrics.IncLibraryOp("rename", "not_found")
		return video.Record{}, errors.Wrapf(ErrNotFound, "rename %s", id)
	}

	renamed := current.WithName(name)
	if err := m.store.Save(ctx, renamed); err != nil {
		metrics.IncLibraryOp("rename", "persistence_failed")
		zlog.Error().Msgf("library: failed to rename %s: %v", id, err)
		return video.Record{}, &PersistenceError{Op: "rename", ID: id, Err: err}
	}

	m.mu.Lock()
	if i := m.indexLocked(id); i >= 0 {
		m.records[i].Name = name
	}
	m.mu.Unlock()

	metrics.IncLibraryOp("rename", "ok")
	zlog.Info().Msgf("library: renamed: id=%s name=%s", id, name)
	return renamed, nil
}

// Remove deletes the record from the store, then from memory.
func (m *Manager) Remove(ctx context.Context, id string) error {
	if _, ok := m.Get(id); !ok {
		metrics.IncLibraryOp("remove", "not_found")
		return errors.Wrapf(ErrNotFound, "remove %s", id)
	}

	if err := m.store.Delete(ctx, id); err != nil {
		metrics.IncLibraryOp("remove", "persistence_failed")
		zlog.Error().Msgf("library: failed to delete %s: %v", id, err)
		return &PersistenceError{Op: "remove", ID: id, Err: err}
	}

	m.mu.Lock()
	if i := m.indexLocked(id); i >= 0 {
		m.records = append(m.records[:i], m.records[i+1:]...)
	}
	n := len(m.records)
	m.mu.Unlock()

	metrics.IncLibraryOp("remove", "ok")
	metrics.SetLibrarySize(n)
	zlog.Info().Msgf("library: removed: id=%s", id)
	return nil
}

func (m *Manager) indexLocked(id string) int {
	for i := range m.records {
		if m.records[i].ID == id {
			return i
		}
	}
	return -1
}
