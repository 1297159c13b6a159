// Package blobstore provides durable storage for video records on top of an
// embedded local database.
package blobstore

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/osa030/vidshelf/internal/domain/video"
)

// Errors
var (
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	ErrClosed        = errors.New("store is closed")
)

// Store is durable key-value storage for video records keyed by ID.
// Implementations do not serialize calls; callers must not assume atomicity
// across multiple calls.
type Store interface {
	// Save inserts the record or overwrites the one with the same ID.
	Save(ctx context.Context, rec video.Record) error
	// GetAll returns the full collection. Order is unspecified.
	GetAll(ctx context.Context) ([]video.Record, error)
	// Delete removes the record. Unknown IDs are not an error.
	Delete(ctx context.Context, id string) error
	// Close releases the underlying database.
	Close() error
}

// decodeSettings decodes backend settings into out, applies defaults and
// validates the result.
func decodeSettings(settings map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create decoder")
	}
	if err := decoder.Decode(settings); err != nil {
		return errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(out); err != nil {
		return errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(out); err != nil {
		return errors.Wrap(err, "validation failed")
	}
	return nil
}
