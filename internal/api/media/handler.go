// Package media serves object URLs: the blob behind a live handle, with
// range support.
package media

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/vidshelf/internal/domain/video"
)

// Resolver looks up the blob behind a live handle.
type Resolver interface {
	Resolve(handle string) (video.Blob, bool)
}

// Config holds media handler configuration.
type Config struct {
	// RateLimitPerMinute limits requests per client IP; 0 disables the limit
	RateLimitPerMinute int
}

// NewHandler returns a router serving GET /{handle}. Mount it under the
// object URL prefix.
func NewHandler(resolver Resolver, cfg Config) http.Handler {
	r := chi.NewRouter()
	if cfg.RateLimitPerMinute > 0 {
		r.Use(httprate.Limit(
			cfg.RateLimitPerMinute,
			time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Retry-After", strconv.Itoa(int(time.Minute.Seconds())))
				http.Error(w, "too many requests", http.StatusTooManyRequests)
			}),
		))
	}
	r.Get("/{handle}", serveBlob(resolver))
	r.Head("/{handle}", serveBlob(resolver))
	return r
}

func serveBlob(resolver Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handle := chi.URLParam(r, "handle")
		blob, ok := resolver.Resolve(handle)
		if !ok {
			zlog.Debug().Msgf("media: unknown or revoked handle: %s", handle)
			http.NotFound(w, r)
			return
		}

		if blob.MIMEType != "" {
			w.Header().Set("Content-Type", blob.MIMEType)
		}
		// Handles are single use; never let a revoked URL be served from cache
		w.Header().Set("Cache-Control", "no-store")
		http.ServeContent(w, r, blob.Name, time.Time{}, bytes.NewReader(blob.Data))
	}
}
