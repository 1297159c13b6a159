package filter

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/vidshelf/internal/domain/video"
)

// CodeSizeLimitExceeded is returned for content outside the size limits.
const CodeSizeLimitExceeded = "size_limit_exceeded"

// SizeLimitConfig represents the configuration for SizeLimitFilter.
type SizeLimitConfig struct {
	MinBytes int64   `yaml:"min_bytes" mapstructure:"min_bytes" default:"1" validate:"gte=1"`
	MaxMB    float64 `yaml:"max_mb" mapstructure:"max_mb" validate:"gte=0"`
}

// SizeLimitFilter checks if content size is within allowed limits.
type SizeLimitFilter struct {
	config *SizeLimitConfig
}

// NewSizeLimitFilter creates a new size limit filter.
func NewSizeLimitFilter() *SizeLimitFilter {
	return &SizeLimitFilter{}
}

func (f *SizeLimitFilter) Name() string {
	return "size_limit_filter"
}

func (f *SizeLimitFilter) Description() string {
	return "Checks if the file size is within allowed limits (max_mb 0 means no upper limit)"
}

func (f *SizeLimitFilter) ReturnCodes() []string {
	return []string{CodeSizeLimitExceeded}
}

func (f *SizeLimitFilter) ValidateConfig(settings map[string]any) error {
	var config SizeLimitConfig
	if err := decodeConfig(settings, &config); err != nil {
		return err
	}

	// max_mb must leave room for min_bytes
	if config.MaxMB > 0 && float64(config.MinBytes) > config.MaxMB*(1<<20) {
		return errors.New("min_bytes cannot be greater than max_mb")
	}
	f.config = &config
	zlog.Info().Msgf("size limit filter config: min=%s max_mb=%g",
		humanize.IBytes(uint64(config.MinBytes)), config.MaxMB)
	return nil
}

func (f *SizeLimitFilter) Check(ctx context.Context, candidate video.Content, existing []video.Record) Result {
	// If config is not set, accept all content
	if f.config == nil {
		return Accept()
	}

	size := candidate.Size()
	if size < f.config.MinBytes {
		return Reject(CodeSizeLimitExceeded)
	}
	if f.config.MaxMB > 0 && float64(size) > f.config.MaxMB*(1<<20) {
		zlog.Debug().Msgf("size limit filter: %s is %s, limit %g MB",
			candidate.FileName, humanize.IBytes(uint64(size)), f.config.MaxMB)
		return Reject(CodeSizeLimitExceeded)
	}
	return Accept()
}

func init() {
	Register("size_limit_filter", func() Filter {
		return NewSizeLimitFilter()
	})
}
