package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, env.Parse(cfg))

	assert.Equal(t, "http://127.0.0.1:8000", cfg.APIURL)
	assert.Equal(t, 3, cfg.TopK)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.Equal(t, "file", cfg.HistoryBackend)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ATLAS_API_URL", "http://atlas.internal:9000")
	t.Setenv("ATLAS_TOP_K", "5")
	t.Setenv("ATLAS_HISTORY_BACKEND", "sqlite")

	cfg := &Config{}
	require.NoError(t, env.Parse(cfg))

	assert.Equal(t, "http://atlas.internal:9000", cfg.APIURL)
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, "sqlite", cfg.HistoryBackend)
}

func TestFileConfigTakesPrecedence(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, env.Parse(cfg))

	cfg.apply(&FileConfig{APIURL: "http://saved.example:8000", TopK: 7})

	assert.Equal(t, "http://saved.example:8000", cfg.APIURL)
	assert.Equal(t, 7, cfg.TopK)
	// Unset file values leave env values alone.
	assert.Equal(t, "file", cfg.HistoryBackend)
}

func TestManagerRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "atlasq")
	m := NewManagerAt(dir)

	assert.False(t, m.Exists())

	// Load before any save returns an empty config.
	got, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, &FileConfig{}, got)

	want := &FileConfig{APIURL: "http://atlas.internal:9000", HistoryBackend: "sqlite"}
	require.NoError(t, m.Save(want))
	assert.True(t, m.Exists())

	got, err = m.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDefaultHistoryPathFollowsBackend(t *testing.T) {
	m := NewManagerAt("/tmp/atlasq-test")

	assert.Equal(t, "/tmp/atlasq-test/history.json", defaultHistoryPath(m, "file"))
	assert.Equal(t, "/tmp/atlasq-test/history.db", defaultHistoryPath(m, "sqlite"))
}
