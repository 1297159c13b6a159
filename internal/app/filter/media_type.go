package filter

import (
	"context"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/vidshelf/internal/domain/video"
)

// CodeUnsupportedMediaType is returned for content that is not a playable video.
const CodeUnsupportedMediaType = "unsupported_media_type"

// MediaTypeConfig represents the configuration for MediaTypeFilter.
type MediaTypeConfig struct {
	AllowedPrefixes []string `yaml:"allowed_prefixes" mapstructure:"allowed_prefixes" default:"[\"video/\"]" validate:"min=1,dive,required"`
}

// MediaTypeFilter rejects content whose sniffed MIME type is not allowed.
type MediaTypeFilter struct {
	config *MediaTypeConfig
}

// NewMediaTypeFilter creates a new media type filter.
func NewMediaTypeFilter() *MediaTypeFilter {
	return &MediaTypeFilter{}
}

func (f *MediaTypeFilter) Name() string {
	return "media_type_filter"
}

func (f *MediaTypeFilter) Description() string {
	return "Rejects files whose detected MIME type does not match an allowed prefix (video/ by default)"
}

func (f *MediaTypeFilter) ReturnCodes() []string {
	return []string{CodeUnsupportedMediaType}
}

func (f *MediaTypeFilter) ValidateConfig(settings map[string]any) error {
	var config MediaTypeConfig
	if err := decodeConfig(settings, &config); err != nil {
		return err
	}
	f.config = &config
	zlog.Info().Msgf("media type filter config: %+v", config)
	return nil
}

func (f *MediaTypeFilter) Check(ctx context.Context, candidate video.Content, existing []video.Record) Result {
	prefixes := []string{"video/"}
	if f.config != nil {
		prefixes = f.config.AllowedPrefixes
	}

	mime := candidate.MIMEType
	if mime == "" {
		mime = mimetype.Detect(candidate.Data).String()
	}

	for _, p := range prefixes {
		if strings.HasPrefix(mime, p) {
			return Accept()
		}
	}
	return Reject(CodeUnsupportedMediaType)
}

func init() {
	Register("media_type_filter", func() Filter {
		return NewMediaTypeFilter()
	})
}
