package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 64, cfg.Cache.Capacity)
	assert.True(t, cfg.Navigation.IncludeTagsWithAttributes)
	assert.Equal(t, "tagnav.db", cfg.Store.Path)
	assert.Equal(t, 256, cfg.Store.MaxRows)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("file overlays defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `cache:
  capacity: 8
navigation:
  include_tags_with_attributes: false
log:
  level: debug
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 8, cfg.Cache.Capacity)
		assert.False(t, cfg.Navigation.IncludeTagsWithAttributes)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "tagnav.db", cfg.Store.Path, "unset fields keep defaults")
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("TAGNAV_LOG_LEVEL", "error")
		t.Setenv("TAGNAV_STORE_PATH", "/tmp/other.db")
		t.Setenv("TAGNAV_CACHE_CAPACITY", "3")

		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.Log.Level)
		assert.Equal(t, "/tmp/other.db", cfg.Store.Path)
		assert.Equal(t, 3, cfg.Cache.Capacity)
	})

	t.Run("invalid capacity override fails", func(t *testing.T) {
		t.Setenv("TAGNAV_CACHE_CAPACITY", "lots")
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("cache: ["), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}
