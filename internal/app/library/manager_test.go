package library

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/vidshelf/internal/app/filter"
	"github.com/osa030/vidshelf/internal/domain/video"
	"github.com/osa030/vidshelf/internal/infra/blobstore"
)

var errDisk = errors.New("disk full")

// flakyStore wraps a memory store and fails the configured operations.
type flakyStore struct {
	*blobstore.MemoryStore
	mu         sync.Mutex
	failSave   bool
	failDelete bool
	saves      int
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: blobstore.NewMemoryStore()}
}

func (s *flakyStore) Save(ctx context.Context, rec video.Record) error {
	s.mu.Lock()
	s.saves++
	fail := s.failSave
	s.mu.Unlock()
	if fail {
		return errDisk
	}
	return s.MemoryStore.Save(ctx, rec)
}

func (s *flakyStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	fail := s.failDelete
	s.mu.Unlock()
	if fail {
		return errDisk
	}
	return s.MemoryStore.Delete(ctx, id)
}

func (s *flakyStore) setFailSave(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSave = v
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestManager(t *testing.T) (*Manager, *flakyStore) {
	t.Helper()
	store := newFlakyStore()
	m := NewManager(store, nil, WithClock(fixedClock(time.UnixMilli(1_700_000_000_000))))
	require.NoError(t, m.Load(context.Background()))
	return m, store
}

func TestManager_Add(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t)

	rec, err := m.Add(ctx, "holiday.mp4", []byte("0123456789"))
	require.NoError(t, err)
	assert.Equal(t, "video-1700000000000", rec.ID)
	assert.Equal(t, "holiday", rec.Name)
	assert.Equal(t, int64(10), rec.Content.Size())
	assert.NotEmpty(t, rec.Content.MIMEType)

	persisted, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, rec.ID, persisted[0].ID)

	got, ok := m.Get(rec.ID)
	require.True(t, ok)
	assert.Equal(t, rec, got)
}

func TestManager_AddDuplicate(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t)

	_, err := m.Add(ctx, "a.mp4", make([]byte, 100))
	require.NoError(t, err)
	savesBefore := store.saves

	_, err = m.Add(ctx, "a.mp4", make([]byte, 100))
	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "a.mp4", dup.FileName)
	assert.Equal(t, int64(100), dup.Size)
	assert.Equal(t, 1, m.Count())
	assert.Equal(t, savesBefore, store.saves)

	// Same name, different size is a different video
	_, err = m.Add(ctx, "a.mp4", make([]byte, 101))
	require.NoError(t, err)
	assert.Equal(t, 2, m.Count())
}

func TestManager_AddRejected(t *testing.T) {
	chain := filter.NewChain()
	chain.Add(filter.NewDuplicateFilter())
	chain.Add(filter.NewMediaTypeFilter())

	m := NewManager(newFlakyStore(), chain)
	_, err := m.Add(context.Background(), "notes.mp4", []byte("plain text"))

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, filter.CodeUnsupportedMediaType, rejected.Code)
	assert.Equal(t, 0, m.Count())
}

func TestManager_AddRollback(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t)

	existing, err := m.Add(ctx, "keep.mp4", []byte("keep"))
	require.NoError(t, err)

	store.setFailSave(true)
	_, err = m.Add(ctx, "lost.mp4", []byte("lost"))

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "add", perr.Op)
	assert.ErrorIs(t, err, errDisk)
	assert.Equal(t, []video.Record{existing}, m.List())

	// The rolled back file can be imported once storage recovers
	store.setFailSave(false)
	_, err = m.Add(ctx, "lost.mp4", []byte("lost"))
	assert.NoError(t, err)
}

func TestManager_DedupInvariantUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.Add(ctx, "same.mp4", make([]byte, 42))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, m.Count())

	seen := make(map[video.Key]bool)
	ids := make(map[string]bool)
	for _, r := range m.List() {
		assert.False(t, seen[r.Key()])
		assert.False(t, ids[r.ID])
		seen[r.Key()] = true
		ids[r.ID] = true
	}
}

func TestManager_Rename(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t)

	data := []byte("binary payload")
	rec, err := m.Add(ctx, "clip.mp4", data)
	require.NoError(t, err)

	renamed, err := m.Rename(ctx, rec.ID, "  Summer  ")
	require.NoError(t, err)
	assert.Equal(t, "Summer", renamed.Name)

	got, _ := m.Get(rec.ID)
	assert.Equal(t, "Summer", got.Name)
	assert.Equal(t, rec.Content, got.Content)
	assert.Equal(t, rec.CreatedAt, got.CreatedAt)
	assert.Same(t, &data[0], &got.Content.Data[0])

	persisted, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Summer", persisted[0].Name)
	assert.Equal(t, "clip.mp4", persisted[0].Content.FileName)
}

func TestManager_RenameErrors(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t)
	rec, err := m.Add(ctx, "clip.mp4", []byte("x"))
	require.NoError(t, err)

	_, err = m.Rename(ctx, rec.ID, "   ")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = m.Rename(ctx, "video-0", "name")
	assert.ErrorIs(t, err, ErrNotFound)

	store.setFailSave(true)
	_, err = m.Rename(ctx, rec.ID, "new")
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "rename", perr.Op)

	got, _ := m.Get(rec.ID)
	assert.Equal(t, "clip", got.Name)
}

func TestManager_Remove(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t)
	a, err := m.Add(ctx, "a.mp4", []byte("a"))
	require.NoError(t, err)
	b, err := m.Add(ctx, "b.mp4", []byte("b"))
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	require.NoError(t, m.Remove(ctx, a.ID))
	assert.Equal(t, []video.Record{b}, m.List())

	assert.ErrorIs(t, m.Remove(ctx, a.ID), ErrNotFound)

	store.failDelete = true
	err = m.Remove(ctx, b.ID)
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, m.Count())
}

func TestManager_Load(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Save(ctx, video.Record{
		ID:      "video-1800000000000",
		Name:    "future",
		Content: video.Content{FileName: "future.mp4", Data: []byte("f")},
	}))

	m := NewManager(store, nil, WithClock(fixedClock(time.UnixMilli(1_700_000_000_000))))
	require.NoError(t, m.Load(ctx))
	require.Equal(t, 1, m.Count())

	// IDs never collide with loaded ones even when the clock is behind
	rec, err := m.Add(ctx, "now.mp4", []byte("n"))
	require.NoError(t, err)
	assert.Equal(t, "video-1800000000001", rec.ID)

	_, err = m.Add(ctx, "future.mp4", []byte("f"))
	var dup *DuplicateError
	assert.ErrorAs(t, err, &dup)
}

func TestIDGenerator(t *testing.T) {
	clock := time.UnixMilli(1000)
	g := NewIDGenerator(func() time.Time { return clock })

	assert.Equal(t, "video-1000", g.Next())
	assert.Equal(t, "video-1001", g.Next())

	clock = time.UnixMilli(500)
	assert.Equal(t, "video-1002", g.Next())

	clock = time.UnixMilli(5000)
	assert.Equal(t, "video-5000", g.Next())

	g.Observe("video-9000")
	g.Observe("not-an-id")
	g.Observe("video-abc")
	assert.Equal(t, "video-9001", g.Next())
}
