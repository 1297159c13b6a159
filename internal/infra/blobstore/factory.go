package blobstore

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/vidshelf/internal/infra/config"
)

// Open creates the store selected by the storage configuration, wrapped with
// a quota when one is configured.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	var store Store
	var err error

	zlog.Debug().Msgf("creating blob store: type=%s settings=%+v", cfg.Type, cfg.Settings)
	switch cfg.Type {
	case "badger":
		store, err = NewBadgerStore(cfg.Settings)
	case "sqlite":
		store, err = NewSQLiteStore(cfg.Settings)
	case "memory":
		store = NewMemoryStore()
	default:
		return nil, errors.Newf("unsupported storage type: %s", cfg.Type)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s store", cfg.Type)
	}

	if cfg.QuotaMB > 0 {
		quota, err := WithQuota(ctx, store, int64(cfg.QuotaMB)<<20)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		zlog.Info().Msgf("blobstore: quota enabled: quota_mb=%d", cfg.QuotaMB)
		return quota, nil
	}
	return store, nil
}
