package blobstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/vidshelf/internal/domain/video"
	"github.com/osa030/vidshelf/internal/infra/config"
)

func newRecord(id, fileName string, size int) video.Record {
	return video.Record{
		ID:   id,
		Name: video.DisplayNameFromFile(fileName),
		Content: video.Content{
			FileName: fileName,
			MIMEType: "video/mp4",
			Data:     make([]byte, size),
		},
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func recordIDs(records []video.Record) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids
}

func testStores(t *testing.T) map[string]func() Store {
	t.Helper()
	return map[string]func() Store{
		"memory": func() Store { return NewMemoryStore() },
		"badger": func() Store {
			s, err := OpenBadgerStore(BadgerConfig{InMemory: true})
			require.NoError(t, err)
			return s
		},
		"sqlite": func() Store {
			s, err := OpenSQLiteStore(SQLiteConfig{
				Path:          filepath.Join(t.TempDir(), "videos.db"),
				BusyTimeoutMs: 1000,
			})
			require.NoError(t, err)
			return s
		},
	}
}

func TestStore_Behavior(t *testing.T) {
	for name, open := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := open()
			defer func() { _ = store.Close() }()

			all, err := store.GetAll(ctx)
			require.NoError(t, err)
			assert.NotNil(t, all)
			assert.Empty(t, all)

			a := newRecord("video-1", "a.mp4", 10)
			b := newRecord("video-2", "b.mp4", 20)
			require.NoError(t, store.Save(ctx, a))
			require.NoError(t, store.Save(ctx, b))

			all, err = store.GetAll(ctx)
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"video-1", "video-2"}, recordIDs(all))

			// Overwrite by ID keeps content and changes name
			require.NoError(t, store.Save(ctx, a.WithName("renamed")))
			all, err = store.GetAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			for _, r := range all {
				if r.ID == "video-1" {
					assert.Equal(t, "renamed", r.Name)
					assert.Equal(t, "a.mp4", r.Content.FileName)
					assert.Equal(t, int64(10), r.Content.Size())
					assert.Equal(t, "video/mp4", r.Content.MIMEType)
					assert.True(t, a.CreatedAt.Equal(r.CreatedAt))
				}
			}

			require.NoError(t, store.Delete(ctx, "video-1"))
			all, err = store.GetAll(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"video-2"}, recordIDs(all))

			// Unknown IDs are not an error
			assert.NoError(t, store.Delete(ctx, "missing"))
		})
	}
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for name, open := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			store := open()
			defer func() { _ = store.Close() }()

			assert.Error(t, store.Save(ctx, newRecord("video-1", "a.mp4", 1)))
			_, err := store.GetAll(ctx)
			assert.Error(t, err)
		})
	}
}

func TestMemoryStore_Order(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Save(ctx, newRecord("z", "z.mp4", 1)))
	require.NoError(t, store.Save(ctx, newRecord("a", "a.mp4", 1)))
	require.NoError(t, store.Save(ctx, newRecord("m", "m.mp4", 1)))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "m"}, recordIDs(all))
}

func TestMemoryStore_Closed(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Close())

	assert.ErrorIs(t, store.Save(ctx, newRecord("a", "a.mp4", 1)), ErrClosed)
	_, err := store.GetAll(ctx)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, store.Delete(ctx, "a"), ErrClosed)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "videos.db")

	store, err := NewSQLiteStore(map[string]any{"path": path})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, newRecord("video-1", "a.mp4", 5)))
	require.NoError(t, store.Close())

	store, err = NewSQLiteStore(map[string]any{"path": path})
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "a", all[0].Name)
	assert.Equal(t, int64(5), all[0].Content.Size())
}

func TestBadgerStore_Reopen(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "badger")

	store, err := NewBadgerStore(map[string]any{"path": dir, "sync_writes": "true"})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, newRecord("video-1", "a.mp4", 7)))
	require.NoError(t, store.Close())

	store, err = NewBadgerStore(map[string]any{"path": dir})
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, int64(7), all[0].Content.Size())
}

func TestQuotaStore(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	require.NoError(t, inner.Save(ctx, newRecord("existing", "e.mp4", 40)))

	quota, err := WithQuota(ctx, inner, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(40), quota.Used())

	require.NoError(t, quota.Save(ctx, newRecord("a", "a.mp4", 50)))
	assert.Equal(t, int64(90), quota.Used())

	err = quota.Save(ctx, newRecord("b", "b.mp4", 20))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, int64(90), quota.Used())

	// Overwriting the same ID only accounts for the difference
	require.NoError(t, quota.Save(ctx, newRecord("a", "a.mp4", 60)))
	assert.Equal(t, int64(100), quota.Used())

	require.NoError(t, quota.Delete(ctx, "existing"))
	assert.Equal(t, int64(60), quota.Used())
	require.NoError(t, quota.Save(ctx, newRecord("b", "b.mp4", 20)))

	all, err := quota.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, recordIDs(all))
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.StorageConfig
		wantErr string
		isQuota bool
	}{
		{
			name: "memory",
			cfg:  config.StorageConfig{Type: "memory"},
		},
		{
			name:    "memory with quota",
			cfg:     config.StorageConfig{Type: "memory", QuotaMB: 1},
			isQuota: true,
		},
		{
			name: "badger in memory",
			cfg:  config.StorageConfig{Type: "badger", Settings: map[string]any{"in_memory": true}},
		},
		{
			name:    "unsupported",
			cfg:     config.StorageConfig{Type: "indexeddb"},
			wantErr: "unsupported storage type",
		},
		{
			name:    "invalid sqlite settings",
			cfg:     config.StorageConfig{Type: "sqlite", Settings: map[string]any{"busy_timeout_ms": -1}},
			wantErr: "invalid sqlite settings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(context.Background(), tt.cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer func() { _ = store.Close() }()

			_, ok := store.(*QuotaStore)
			assert.Equal(t, tt.isQuota, ok)
		})
	}
}
