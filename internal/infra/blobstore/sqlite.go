package blobstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/vidshelf/internal/domain/video"
	"github.com/osa030/vidshelf/internal/infra/sqlitedb"
)

// SQLiteConfig holds settings for the SQLite backend.
type SQLiteConfig struct {
	Path          string `yaml:"path" mapstructure:"path" default:"data/vidshelf.db" validate:"required"`
	BusyTimeoutMs int    `yaml:"busy_timeout_ms" mapstructure:"busy_timeout_ms" default:"5000" validate:"gte=0"`
}

// SQLiteStore stores records in a single SQLite table with a BLOB column.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens a SQLite store from backend settings.
func NewSQLiteStore(settings map[string]any) (*SQLiteStore, error) {
	var cfg SQLiteConfig
	if err := decodeSettings(settings, &cfg); err != nil {
		return nil, errors.Wrap(err, "invalid sqlite settings")
	}
	return OpenSQLiteStore(cfg)
}

// OpenSQLiteStore opens the database, applies pragmas and runs migrations.
func OpenSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	db, err := sqlitedb.Open(cfg.Path, sqlitedb.Config{
		BusyTimeout:  time.Duration(cfg.BusyTimeoutMs) * time.Millisecond,
		MaxOpenConns: 4,
	})
	if err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "run migrations")
	}

	zlog.Info().Msgf("blobstore: sqlite opened: path=%s", cfg.Path)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS videos (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		file_name TEXT NOT NULL,
		mime_type TEXT NOT NULL DEFAULT '',
		size_bytes INTEGER NOT NULL,
		content BLOB NOT NULL,
		created_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save inserts or overwrites a record.
func (s *SQLiteStore) Save(ctx context.Context, rec video.Record) error {
	query := `
	INSERT INTO videos (id, name, file_name, mime_type, size_bytes, content, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		file_name = excluded.file_name,
		mime_type = excluded.mime_type,
		size_bytes = excluded.size_bytes,
		content = excluded.content
	`
	data := rec.Content.Data
	if data == nil {
		data = []byte{}
	}
	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.Name, rec.Content.FileName, rec.Content.MIMEType,
		rec.Content.Size(), data, rec.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return errors.Wrapf(err, "failed to save record %s", rec.ID)
	}
	return nil
}

// GetAll returns all records ordered by creation time.
func (s *SQLiteStore) GetAll(ctx context.Context) ([]video.Record, error) {
	query := `
	SELECT id, name, file_name, mime_type, content, created_at
	FROM videos
	ORDER BY created_at, id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query records")
	}
	defer func() { _ = rows.Close() }()

	result := make([]video.Record, 0)
	for rows.Next() {
		var rec video.Record
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Content.FileName, &rec.Content.MIMEType,
			&rec.Content.Data, &createdAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan record")
		}
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			rec.CreatedAt = t
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

// Delete removes a record.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM videos WHERE id = ?`, id); err != nil {
		return errors.Wrapf(err, "failed to delete record %s", id)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
