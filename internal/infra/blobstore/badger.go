package blobstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dgraph-io/badger/v4"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/vidshelf/internal/domain/video"
)

const (
	badgerMetaPrefix = "video:meta:"
	badgerDataPrefix = "video:data:"
)

// BadgerConfig holds settings for the Badger backend.
type BadgerConfig struct {
	Path       string `yaml:"path" mapstructure:"path" default:"data/badger"`
	InMemory   bool   `yaml:"in_memory" mapstructure:"in_memory"`
	SyncWrites bool   `yaml:"sync_writes" mapstructure:"sync_writes"`
}

// badgerMeta is the JSON value stored under the meta key.
// The content bytes live under a separate data key.
type badgerMeta struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FileName  string    `json:"file_name"`
	MIMEType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// BadgerStore stores records in a Badger key-value database:
//   - metadata: key = "video:meta:<id>" (JSON)
//   - content:  key = "video:data:<id>" (raw bytes)
//
// Both keys are written and deleted in one transaction.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens a Badger store from backend settings.
func NewBadgerStore(settings map[string]any) (*BadgerStore, error) {
	var cfg BadgerConfig
	if err := decodeSettings(settings, &cfg); err != nil {
		return nil, errors.Wrap(err, "invalid badger settings")
	}
	return OpenBadgerStore(cfg)
}

// OpenBadgerStore opens a Badger store.
func OpenBadgerStore(cfg BadgerConfig) (*BadgerStore, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("badger path is required")
		}
		opts = badger.DefaultOptions(cfg.Path).WithSyncWrites(cfg.SyncWrites)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open badger")
	}
	zlog.Info().Msgf("blobstore: badger opened: path=%s in_memory=%t", cfg.Path, cfg.InMemory)
	return &BadgerStore{db: db}, nil
}

// Save inserts or overwrites a record.
func (s *BadgerStore) Save(ctx context.Context, rec video.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	meta, err := json.Marshal(badgerMeta{
		ID:        rec.ID,
		Name:      rec.Name,
		FileName:  rec.Content.FileName,
		MIMEType:  rec.Content.MIMEType,
		Size:      rec.Content.Size(),
		CreatedAt: rec.CreatedAt,
	})
	if err != nil {
		return errors.Wrap(err, "failed to encode metadata")
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(badgerMetaPrefix+rec.ID), meta); err != nil {
			return err
		}
		return txn.Set([]byte(badgerDataPrefix+rec.ID), rec.Content.Data)
	})
	if err != nil {
		return errors.Wrapf(err, "failed to save record %s", rec.ID)
	}
	return nil
}

// GetAll returns all records in key order.
func (s *BadgerStore) GetAll(ctx context.Context) ([]video.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var result []video.Record
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(badgerMetaPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var meta badgerMeta
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &meta)
			}); err != nil {
				return errors.Wrapf(err, "failed to decode metadata %s", it.Item().Key())
			}

			item, err := txn.Get([]byte(badgerDataPrefix + meta.ID))
			if err != nil {
				return errors.Wrapf(err, "failed to read content %s", meta.ID)
			}
			data, err := item.ValueCopy(nil)
			if err != nil {
				return errors.Wrapf(err, "failed to copy content %s", meta.ID)
			}

			result = append(result, video.Record{
				ID:   meta.ID,
				Name: meta.Name,
				Content: video.Content{
					FileName: meta.FileName,
					MIMEType: meta.MIMEType,
					Data:     data,
				},
				CreatedAt: meta.CreatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = []video.Record{}
	}
	return result, nil
}

// Delete removes a record. Deleting an unknown ID writes tombstones only.
func (s *BadgerStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(badgerMetaPrefix + id)); err != nil {
			return err
		}
		return txn.Delete([]byte(badgerDataPrefix + id))
	})
	if err != nil {
		return errors.Wrapf(err, "failed to delete record %s", id)
	}
	return nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
