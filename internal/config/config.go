package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/campusline/campusfeed/internal/domain"
)

// Config holds the deployment settings. Feed endpoints carry per-deployment
// API keys, so they live in config and environment, never in source.
type Config struct {
	LogLevel       string            `mapstructure:"log_level"`
	CachePath      string            `mapstructure:"cache_path"`
	RefreshCron    string            `mapstructure:"refresh_cron"`
	PublishersFile string            `mapstructure:"publishers_file"`
	Feeds          map[string]string `mapstructure:"feeds"`
}

// Load reads the YAML config at path (or ./config.yaml when empty) and
// applies CAMPUSFEED_* environment overrides. A missing default file is fine
// as long as the environment supplies the feeds.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("log_level", "info")
	v.SetDefault("cache_path", "data/articles.db")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("CAMPUSFEED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Sources resolves the configured feed map into category-keyed endpoint
// URLs, expanding environment references so API keys can stay out of the
// file itself.
func (c *Config) Sources() (map[domain.Category]string, error) {
	if len(c.Feeds) == 0 {
		return nil, errors.New("no feeds configured")
	}

	sources := make(map[domain.Category]string, len(c.Feeds))
	for name, rawURL := range c.Feeds {
		category, err := domain.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("feeds config: %w", err)
		}

		u := strings.TrimSpace(os.ExpandEnv(rawURL))
		if u == "" {
			return nil, fmt.Errorf("feeds config: category %q has an empty url", name)
		}
		sources[category] = u
	}
	return sources, nil
}
