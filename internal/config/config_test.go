package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusline/campusfeed/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
cache_path: /var/lib/campusfeed/articles.db
refresh_cron: "0 */2 * * *"
feeds:
  news: https://blog.example.com/feeds/posts?key=abc
  schedules: https://calendar.example.com/events?key=abc
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/var/lib/campusfeed/articles.db", cfg.CachePath)
	assert.Equal(t, "0 */2 * * *", cfg.RefreshCron)
	assert.Len(t, cfg.Feeds, 2)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "feeds:\n  news: https://blog.example.com\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "data/articles.db", cfg.CachePath)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestSourcesExpandsEnvAndParsesCategories(t *testing.T) {
	t.Setenv("FEED_KEY", "abc123")

	cfg := &Config{Feeds: map[string]string{
		"news":  "https://blog.example.com/posts?key=${FEED_KEY}",
		"lunch": "https://calendar.example.com/lunch?key=${FEED_KEY}",
	}}

	sources, err := cfg.Sources()
	require.NoError(t, err)
	assert.Equal(t, "https://blog.example.com/posts?key=abc123", sources[domain.CategoryNews])
	assert.Equal(t, "https://calendar.example.com/lunch?key=abc123", sources[domain.CategoryLunch])
}

func TestSourcesRejectsUnknownCategory(t *testing.T) {
	cfg := &Config{Feeds: map[string]string{"homework": "https://x"}}

	_, err := cfg.Sources()
	assert.Error(t, err)
}

func TestSourcesRejectsEmpty(t *testing.T) {
	cfg := &Config{}
	_, err := cfg.Sources()
	assert.Error(t, err)

	cfg = &Config{Feeds: map[string]string{"news": "   "}}
	_, err = cfg.Sources()
	assert.Error(t, err)
}
