package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	kYaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const EnvPrefix = "HUFFPACK_"

// Config holds the application configuration
type Config struct {
	App         AppConfig
	MaxFileSize int64 // in bytes
	Logger      LoggerConfig
	Cache       CacheConfig
	Block       BlockConfig
	Metrics     MetricsConfig
	Progress    bool
}

type AppConfig struct {
	Name        string
	Host        string
	Port        string
	Environment string
}

type LoggerConfig struct {
	Level      string
	Pretty     bool
	TimeFormat string
}

type CacheConfig struct {
	Enabled    bool
	LifeWindow time.Duration
	SizeMB     int
	Shards     int
}

type BlockConfig struct {
	Size    int
	Workers int
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

var defaults = map[string]any{
	"app.name":          "huffpack",
	"app.host":          "0.0.0.0",
	"app.port":          "8080",
	"app.env":           "development",
	"limits.filesize":   int64(50 * 1024 * 1024), // 50MB default
	"logger.level":      "info",
	"logger.pretty":     true,
	"logger.timeformat": time.RFC3339,
	"cache.enabled":     true,
	"cache.ttl":         10 * time.Minute,
	"cache.size":        64,
	"cache.shards":      64,
	"block.size":        1 << 20,
	"block.workers":     0,
	"metrics.enabled":   true,
	"metrics.path":      "/metrics",
	"progress.enabled":  false,
}

// Conf wraps koanf with getters that fall back to a default when a key is unset.
type Conf struct {
	*koanf.Koanf
}

// NewConf layers built-in defaults, an optional YAML file and HUFFPACK_*
// environment variables, in that order. PORT and GO_ENV are honoured too.
func NewConf(path string) (*Conf, error) {
	conf := &Conf{Koanf: koanf.New(".")}
	if err := conf.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := conf.Load(file.Provider(path), kYaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := conf.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	if port := os.Getenv("PORT"); port != "" {
		conf.Set("app.port", port)
	}
	if environment := os.Getenv("GO_ENV"); environment != "" {
		conf.Set("app.env", environment)
	}
	return conf, nil
}

// Load reads the layered configuration into a Config.
func Load(path string) (*Config, error) {
	conf, err := NewConf(path)
	if err != nil {
		return nil, err
	}
	return conf.Config(), nil
}

func (c *Conf) Config() *Config {
	return &Config{
		App: AppConfig{
			Name:        c.String("app.name", "huffpack"),
			Host:        c.String("app.host", "0.0.0.0"),
			Port:        c.String("app.port", "8080"),
			Environment: c.String("app.env", "development"),
		},
		MaxFileSize: c.Int64("limits.filesize", 50*1024*1024),
		Logger: LoggerConfig{
			Level:      c.String("logger.level", "info"),
			Pretty:     c.Bool("logger.pretty", true),
			TimeFormat: c.String("logger.timeformat", time.RFC3339),
		},
		Cache: CacheConfig{
			Enabled:    c.Bool("cache.enabled", true),
			LifeWindow: c.Duration("cache.ttl", 10*time.Minute),
			SizeMB:     c.Int("cache.size", 64),
			Shards:     c.Int("cache.shards", 64),
		},
		Block: BlockConfig{
			Size:    c.Int("block.size", 1<<20),
			Workers: c.Int("block.workers", 0),
		},
		Metrics: MetricsConfig{
			Enabled: c.Bool("metrics.enabled", true),
			Path:    c.String("metrics.path", "/metrics"),
		},
		Progress: c.Bool("progress.enabled", false),
	}
}

// Addr is the listen address of the HTTP server.
func (cfg *Config) Addr() string {
	return cfg.App.Host + ":" + cfg.App.Port
}

func (cfg *Config) IsProduction() bool {
	return cfg.App.Environment == "production"
}

func (c *Conf) Bool(path string, defaultValues ...bool) bool {
	if !c.Koanf.Exists(path) && len(defaultValues) > 0 {
		return defaultValues[0]
	}

	return c.Koanf.Bool(path)
}

func (c *Conf) String(path string, defaultValues ...string) string {
	if !c.Koanf.Exists(path) && len(defaultValues) > 0 {
		return defaultValues[0]
	}

	return c.Koanf.String(path)
}

func (c *Conf) Int(path string, defaultValues ...int) int {
	if !c.Koanf.Exists(path) && len(defaultValues) > 0 {
		return defaultValues[0]
	}

	return c.Koanf.Int(path)
}

func (c *Conf) Int64(path string, defaultValues ...int64) int64 {
	if !c.Koanf.Exists(path) && len(defaultValues) > 0 {
		return defaultValues[0]
	}

	return c.Koanf.Int64(path)
}

func (c *Conf) Duration(path string, defaultValues ...time.Duration) time.Duration {
	if !c.Koanf.Exists(path) && len(defaultValues) > 0 {
		return defaultValues[0]
	}

	return c.Koanf.Duration(path)
}
