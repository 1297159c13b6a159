// Package exporter writes the library to a directory: one file per video
// plus a manifest.json describing them.
package exporter

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/renameio/v2"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/vidshelf/internal/domain/video"
)

// ManifestName is the manifest file name inside the export directory.
const ManifestName = "manifest.json"

// Manifest describes an export.
type Manifest struct {
	ExportedAt time.Time `json:"exportedAt"`
	TotalBytes int64     `json:"totalBytes"`
	Videos     []Entry   `json:"videos"`
}

// Entry describes one exported video.
type Entry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FileName  string    `json:"fileName"`
	MimeType  string    `json:"mimeType"`
	SizeBytes int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
	Path      string    `json:"path"` // Relative to the export directory
}

// Export writes every record and the manifest into dir. Each file is
// replaced atomically; files of records no longer in the library are left
// alone.
func Export(ctx context.Context, dir string, records []video.Record) (*Manifest, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create export dir %s", dir)
	}

	manifest := &Manifest{
		ExportedAt: time.Now().UTC(),
		Videos:     make([]Entry, 0, len(records)),
	}
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rel := contentFileName(rec)
		if err := renameio.WriteFile(filepath.Join(dir, rel), rec.Content.Data, 0o644); err != nil {
			return nil, errors.Wrapf(err, "failed to write %s", rel)
		}
		manifest.Videos = append(manifest.Videos, Entry{
			ID:        rec.ID,
			Name:      rec.Name,
			FileName:  rec.Content.FileName,
			MimeType:  rec.Content.MIMEType,
			SizeBytes: rec.Content.Size(),
			CreatedAt: rec.CreatedAt,
			Path:      rel,
		})
		manifest.TotalBytes += rec.Content.Size()
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode manifest")
	}
	if err := writeManifest(filepath.Join(dir, ManifestName), data); err != nil {
		return nil, err
	}

	zlog.Info().Msgf("exporter: exported: dir=%s videos=%d size=%s",
		dir, len(manifest.Videos), humanize.IBytes(uint64(manifest.TotalBytes)))
	return manifest, nil
}

// ReadManifest reads the manifest of an export directory.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName)) // #nosec G304
	if err != nil {
		return nil, errors.Wrap(err, "failed to read manifest")
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "failed to parse manifest")
	}
	return &m, nil
}

func writeManifest(path string, data []byte) error {
	pendingFile, err := renameio.NewPendingFile(path)
	if err != nil {
		return errors.Wrap(err, "create pending manifest")
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			zlog.Debug().Msgf("exporter: cleanup pending manifest: %v", err)
		}
	}()

	if _, err := pendingFile.Write(data); err != nil {
		return errors.Wrap(err, "write manifest")
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return errors.Wrap(err, "atomically replace manifest")
	}
	return nil
}

// contentFileName names an exported file after the record ID, keeping the
// original extension or deriving one from the MIME type.
func contentFileName(rec video.Record) string {
	ext := filepath.Ext(rec.Content.FileName)
	if ext == "" {
		if m := mimetype.Lookup(rec.Content.MIMEType); m != nil {
			ext = m.Extension()
		}
	}
	return rec.ID + ext
}
