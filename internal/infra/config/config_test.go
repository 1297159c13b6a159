package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "http://localhost:8080", cfg.Server.PublicBaseURL)
	assert.Equal(t, "badger", cfg.Storage.Type)
	assert.Equal(t, 1.0, cfg.Playback.InitialVolume)
	assert.Equal(t, 32, cfg.Playback.EventBufferSize)
	assert.Equal(t, 0, cfg.Playback.LoadTimeoutMs)
	assert.False(t, cfg.Playback.KeepSelection)
	assert.Equal(t, 500, cfg.Importer.DebounceMs)
	assert.Equal(t, "data/planner.db", cfg.Planner.Path)
	assert.Equal(t, "en", cfg.I18n.DefaultLocale)
	assert.Equal(t, 600, cfg.Media.RateLimitPerMinute)
	assert.False(t, cfg.Metrics.Disabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestParse_Values(t *testing.T) {
	yaml := `
server:
  addr: ":9090"
  public_base_url: "http://media.local:9090"
auth:
  token: "secret"
storage:
  type: sqlite
  quota_mb: 512
  settings:
    path: /tmp/videos.db
playback:
  initial_volume: 0.5
  load_timeout_ms: 15000
filters:
  size_limit_filter:
    enabled: true
    settings:
      max_mb: 200
importer:
  enabled: true
  dir: /srv/inbox
i18n:
  default_locale: ja
`
	cfg, err := Parse([]byte(yaml))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "secret", cfg.Auth.Token)
	assert.Equal(t, "sqlite", cfg.Storage.Type)
	assert.Equal(t, 512, cfg.Storage.QuotaMB)
	assert.Equal(t, "/tmp/videos.db", cfg.Storage.Settings["path"])
	assert.Equal(t, 0.5, cfg.Playback.InitialVolume)
	assert.Equal(t, 15000, cfg.Playback.LoadTimeoutMs)
	assert.True(t, cfg.IsFilterEnabled("size_limit_filter"))
	assert.False(t, cfg.IsFilterEnabled("media_type_filter"))
	assert.Equal(t, 200, cfg.FilterSettings("size_limit_filter")["max_mb"])
	assert.Nil(t, cfg.FilterSettings("unknown"))
	assert.True(t, cfg.Importer.Enabled)
	assert.Equal(t, "/srv/inbox", cfg.Importer.Dir)
	assert.Equal(t, "ja", cfg.I18n.DefaultLocale)
}

func TestParse_ExplicitZeroKept(t *testing.T) {
	yaml := `
playback:
  initial_volume: 0
importer:
  debounce_ms: 0
media:
  rate_limit_per_minute: 0
`
	cfg, err := Parse([]byte(yaml))
	require.NoError(t, err)

	assert.Zero(t, cfg.Playback.InitialVolume)
	assert.Zero(t, cfg.Importer.DebounceMs)
	assert.Zero(t, cfg.Media.RateLimitPerMinute)

	// Untouched keys in the same sections still get defaults
	assert.Equal(t, 32, cfg.Playback.EventBufferSize)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		errMsg string
	}{
		{
			name:   "unknown storage type",
			yaml:   "storage:\n  type: indexeddb\n",
			errMsg: "Type",
		},
		{
			name:   "volume out of range",
			yaml:   "playback:\n  initial_volume: 1.5\n",
			errMsg: "InitialVolume",
		},
		{
			name:   "zero event buffer",
			yaml:   "playback:\n  event_buffer_size: 0\n",
			errMsg: "EventBufferSize",
		},
		{
			name:   "importer without dir",
			yaml:   "importer:\n  enabled: true\n",
			errMsg: "Dir",
		},
		{
			name:   "unsupported locale",
			yaml:   "i18n:\n  default_locale: fr\n",
			errMsg: "DefaultLocale",
		},
		{
			name:   "trailing slash in base url",
			yaml:   "server:\n  public_base_url: \"http://localhost:8080/\"\n",
			errMsg: "must not end with a slash",
		},
		{
			name:   "broken yaml",
			yaml:   "server: [",
			errMsg: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestParse_EnvOverride(t *testing.T) {
	t.Setenv("VIDSHELF_TOKEN", "from-env")
	t.Setenv("VIDSHELF_STORAGE_TYPE", "memory")

	cfg, err := Parse([]byte("auth:\n  token: from-file\n"))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.Token)
	assert.Equal(t, "memory", cfg.Storage.Type)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":7070\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
