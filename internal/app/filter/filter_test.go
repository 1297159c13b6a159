package filter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/vidshelf/internal/domain/video"
)

// mp4Header is the start of an ISO base media file with an isom brand.
var mp4Header = []byte("\x00\x00\x00\x18ftypisom\x00\x00\x02\x00isomiso2avc1mp41")

func existingRecord(fileName string, size int) video.Record {
	return video.Record{
		ID:      "video-1",
		Name:    video.DisplayNameFromFile(fileName),
		Content: video.Content{FileName: fileName, Data: make([]byte, size)},
	}
}

func TestDuplicateFilter_Check(t *testing.T) {
	existing := []video.Record{existingRecord("clip.mp4", 100)}

	tests := []struct {
		name         string
		fileName     string
		size         int
		wantAccepted bool
	}{
		{name: "same name and size", fileName: "clip.mp4", size: 100, wantAccepted: false},
		{name: "same name different size", fileName: "clip.mp4", size: 101, wantAccepted: true},
		{name: "different name same size", fileName: "other.mp4", size: 100, wantAccepted: true},
		{name: "case differs", fileName: "Clip.mp4", size: 100, wantAccepted: true},
	}

	f := NewDuplicateFilter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := f.Check(context.Background(),
				video.Content{FileName: tt.fileName, Data: make([]byte, tt.size)}, existing)
			assert.Equal(t, tt.wantAccepted, result.Accepted)
			if !tt.wantAccepted {
				assert.Equal(t, CodeDuplicate, result.Code)
			}
		})
	}
}

func TestMediaTypeFilter_Check(t *testing.T) {
	tests := []struct {
		name         string
		settings     map[string]any
		content      video.Content
		wantAccepted bool
	}{
		{
			name:         "sniffed mp4",
			content:      video.Content{FileName: "a.mp4", Data: mp4Header},
			wantAccepted: true,
		},
		{
			name:         "plain text",
			content:      video.Content{FileName: "a.mp4", Data: []byte("hello world")},
			wantAccepted: false,
		},
		{
			name:         "declared mime wins over sniffing",
			content:      video.Content{FileName: "a.webm", MIMEType: "video/webm", Data: []byte("x")},
			wantAccepted: true,
		},
		{
			name:         "custom prefixes",
			settings:     map[string]any{"allowed_prefixes": []any{"text/"}},
			content:      video.Content{FileName: "a.txt", Data: []byte("hello world")},
			wantAccepted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewMediaTypeFilter()
			require.NoError(t, f.ValidateConfig(tt.settings))

			result := f.Check(context.Background(), tt.content, nil)
			assert.Equal(t, tt.wantAccepted, result.Accepted)
			if !tt.wantAccepted {
				assert.Equal(t, CodeUnsupportedMediaType, result.Code)
			}
		})
	}
}

func TestSizeLimitFilter_Check(t *testing.T) {
	tests := []struct {
		name         string
		config       *SizeLimitConfig
		size         int
		wantAccepted bool
	}{
		{name: "no config", config: nil, size: 0, wantAccepted: true},
		{name: "within limit", config: &SizeLimitConfig{MinBytes: 1, MaxMB: 1}, size: 1024, wantAccepted: true},
		{name: "exact max", config: &SizeLimitConfig{MinBytes: 1, MaxMB: 1}, size: 1 << 20, wantAccepted: true},
		{name: "over max", config: &SizeLimitConfig{MinBytes: 1, MaxMB: 1}, size: 1<<20 + 1, wantAccepted: false},
		{name: "empty file", config: &SizeLimitConfig{MinBytes: 1}, size: 0, wantAccepted: false},
		{name: "no upper limit", config: &SizeLimitConfig{MinBytes: 1, MaxMB: 0}, size: 5 << 20, wantAccepted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewSizeLimitFilter()
			f.config = tt.config

			result := f.Check(context.Background(), video.Content{FileName: "a.mp4", Data: make([]byte, tt.size)}, nil)
			assert.Equal(t, tt.wantAccepted, result.Accepted)
			if !tt.wantAccepted {
				assert.Equal(t, CodeSizeLimitExceeded, result.Code)
			}
		})
	}
}

func TestSizeLimitFilter_ValidateConfig(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]any
		wantErr  bool
		wantMax  float64
	}{
		{name: "empty uses defaults", settings: nil, wantMax: 0},
		{name: "int max", settings: map[string]any{"max_mb": 200}, wantMax: 200},
		{name: "string max", settings: map[string]any{"max_mb": "1.5"}, wantMax: 1.5},
		{name: "negative max", settings: map[string]any{"max_mb": -1}, wantErr: true},
		{name: "min above max", settings: map[string]any{"min_bytes": 2 << 20, "max_mb": 1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewSizeLimitFilter()
			err := f.ValidateConfig(tt.settings)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMax, f.config.MaxMB)
			assert.Equal(t, int64(1), f.config.MinBytes)
		})
	}
}

type staticSettings map[string]map[string]any

func (s staticSettings) IsFilterEnabled(name string) bool {
	_, ok := s[name]
	return ok
}

func (s staticSettings) FilterSettings(name string) map[string]any {
	return s[name]
}

func TestBuildChain(t *testing.T) {
	chain, err := BuildChain(staticSettings{
		"size_limit_filter": {"max_mb": 1},
		"media_type_filter": nil,
	})
	require.NoError(t, err)

	names := make([]string, 0)
	for _, f := range chain.Filters() {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{"duplicate_filter", "media_type_filter", "size_limit_filter"}, names)

	ctx := context.Background()
	existing := []video.Record{{ID: "video-1", Content: video.Content{FileName: "a.mp4", Data: mp4Header}}}

	// Duplicate is reported before any other rejection
	result := chain.Execute(ctx, video.Content{FileName: "a.mp4", Data: mp4Header}, existing)
	assert.Equal(t, Reject(CodeDuplicate), result)

	result = chain.Execute(ctx, video.Content{FileName: "b.txt", Data: []byte("text")}, existing)
	assert.Equal(t, Reject(CodeUnsupportedMediaType), result)

	result = chain.Execute(ctx, video.Content{FileName: "b.mp4", Data: mp4Header}, existing)
	assert.True(t, result.Accepted)
}

func TestBuildChain_InvalidSettings(t *testing.T) {
	_, err := BuildChain(staticSettings{"size_limit_filter": {"max_mb": -5}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "size_limit_filter")
}

func TestBuildChain_DuplicateOnly(t *testing.T) {
	chain, err := BuildChain(staticSettings{})
	require.NoError(t, err)
	require.Len(t, chain.Filters(), 1)
	assert.Equal(t, "duplicate_filter", chain.Filters()[0].Name())
}
