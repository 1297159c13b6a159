// Package importer adds video files dropped into a watch folder to the
// library.
package importer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/fsnotify/fsnotify"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/vidshelf/internal/app/library"
	"github.com/osa030/vidshelf/internal/domain/video"
	"github.com/osa030/vidshelf/internal/infra/metrics"
)

// Sink receives imported files.
type Sink interface {
	ImportVideo(ctx context.Context, fileName string, data []byte) (video.Record, error)
}

// Config holds importer configuration.
type Config struct {
	Dir      string        // Watched directory, created if missing
	Debounce time.Duration // Quiet period after the last write before a file is read
}

// Importer watches a directory and imports new or rewritten files once they
// stop changing.
type Importer struct {
	config Config
	sink   Sink

	// Files waiting for their quiet period to end
	pending map[string]time.Time
	now     func() time.Time
}

// New creates an importer.
func New(config Config, sink Sink) *Importer {
	if config.Debounce <= 0 {
		config.Debounce = 500 * time.Millisecond
	}
	return &Importer{
		config:  config,
		sink:    sink,
		pending: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Run imports the files already in the directory, then watches it until ctx
// is cancelled.
func (im *Importer) Run(ctx context.Context) error {
	if err := os.MkdirAll(im.config.Dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create watch dir %s", im.config.Dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create watcher")
	}
	defer func() {
		_ = watcher.Close()
	}()

	if err := watcher.Add(im.config.Dir); err != nil {
		return errors.Wrapf(err, "failed to watch %s", im.config.Dir)
	}
	zlog.Info().Msgf("importer: watching: dir=%s debounce=%v", im.config.Dir, im.config.Debounce)

	// Files present before the watch started
	if err := im.Scan(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(max(im.config.Debounce/4, 10*time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("watcher event channel closed")
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 && isCandidate(event.Name) {
				im.pending[event.Name] = im.now().Add(im.config.Debounce)
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				delete(im.pending, event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("watcher error channel closed")
			}
			zlog.Warn().Msgf("importer: watcher error: %v", err)
		case <-ticker.C:
			im.flushDue(ctx)
		}
	}
}

// Scan imports every candidate file currently in the directory.
func (im *Importer) Scan(ctx context.Context) error {
	entries, err := os.ReadDir(im.config.Dir)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", im.config.Dir)
	}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil
		}
		if !entry.Type().IsRegular() || !isCandidate(entry.Name()) {
			continue
		}
		im.importFile(ctx, filepath.Join(im.config.Dir, entry.Name()))
	}
	return nil
}

func (im *Importer) flushDue(ctx context.Context) {
	now := im.now()
	for path, due := range im.pending {
		if now.Before(due) {
			continue
		}
		delete(im.pending, path)
		im.importFile(ctx, path)
	}
}

func (im *Importer) importFile(ctx context.Context, path string) {
	name := filepath.Base(path)
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			zlog.Warn().Msgf("importer: failed to read %s: %v", path, err)
			metrics.IncImport("error")
		}
		return
	}
	if len(data) == 0 {
		return
	}

	rec, err := im.sink.ImportVideo(ctx, name, data)
	var dup *library.DuplicateError
	var rejected *library.RejectedError
	switch {
	case err == nil:
		metrics.IncImport("ok")
		zlog.Info().Msgf("importer: imported: file=%s id=%s size=%s", name, rec.ID, humanize.IBytes(uint64(len(data))))
	case errors.As(err, &dup):
		metrics.IncImport("duplicate")
		zlog.Debug().Msgf("importer: already in library: file=%s", name)
	case errors.As(err, &rejected):
		metrics.IncImport(rejected.Code)
		zlog.Info().Msgf("importer: rejected: file=%s code=%s", name, rejected.Code)
	default:
		metrics.IncImport("error")
		zlog.Error().Msgf("importer: failed to import %s: %v", name, err)
	}
}

// isCandidate skips hidden files and partial downloads.
func isCandidate(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".part", ".tmp", ".crdownload", ".download":
		return false
	}
	return true
}
