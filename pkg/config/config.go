// Package config loads the optional compgraph TOML configuration.
//
// The file lives at $XDG_CONFIG_HOME/compgraph/config.toml unless --config
// names another path. Every key is optional; missing keys keep the values
// of [Default]:
//
//	[layout]
//	depth_gap = 180
//
//	[render]
//	formats = ["svg", "png"]
//	edge_labels = true
//
//	[cache]
//	backend = "redis"
//	redis_addr = "cache.internal:6379"
//
//	[server]
//	addr = ":8080"
//	request_timeout = "20s"
//
// Environment variables COMPGRAPH_CACHE_BACKEND, COMPGRAPH_REDIS_URL,
// COMPGRAPH_MONGO_URI and COMPGRAPH_ADDR override the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/compgraph/pkg/cache"
	cgerrors "github.com/matzehuels/compgraph/pkg/errors"
)

// Config holds all configuration sections.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`

	// undecoded collects keys present in the file but unknown to Config.
	undecoded []string
}

// LayoutConfig overrides the tree transform spacing.
type LayoutConfig struct {
	DepthGap float64 `toml:"depth_gap"`
	RowGap   float64 `toml:"row_gap"`
	BaseY    float64 `toml:"base_y"`
	Margin   float64 `toml:"margin"`
}

// RenderConfig holds defaults for the render commands and endpoint.
type RenderConfig struct {
	Formats    []string `toml:"formats"`
	EdgeLabels bool     `toml:"edge_labels"`
	Headers    bool     `toml:"headers"`
	Scale      float64  `toml:"scale"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend         string `toml:"backend"`
	Dir             string `toml:"dir"`
	Prefix          string `toml:"prefix"`
	RedisURL        string `toml:"redis_url"`
	RedisAddr       string `toml:"redis_addr"`
	RedisPassword   string `toml:"redis_password"`
	RedisDB         int    `toml:"redis_db"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// ServerConfig configures `compgraph serve`.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	RequestTimeout  time.Duration `toml:"request_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	// MaxBodyBytes bounds request bodies.
	MaxBodyBytes int64 `toml:"max_body_bytes"`
}

var knownFormats = []string{"svg", "png", "dot", "graphviz", "json"}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{DepthGap: 160, RowGap: 40, BaseY: 80, Margin: 40},
		Render: RenderConfig{Formats: []string{"svg"}, Headers: true, Scale: 2},
		Cache: CacheConfig{
			Backend:         cache.BackendFile,
			MongoDatabase:   cache.DefaultMongoDatabase,
			MongoCollection: cache.DefaultMongoCollection,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			RequestTimeout:  20 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    4 << 20,
		},
	}
}

// DefaultPath returns the location searched when no --config is given.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "compgraph", "config.toml"), nil
}

// Load reads path on top of Default and applies environment overrides.
// An empty path reads DefaultPath, which may be absent; an explicit path
// must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			cfg.applyEnv()
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, cfg)
	switch {
	case err == nil:
		for _, k := range md.Undecoded() {
			cfg.undecoded = append(cfg.undecoded, k.String())
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	case errors.Is(err, os.ErrNotExist):
		return nil, cgerrors.Wrap(cgerrors.ErrCodeFileNotFound, err, "config file %s", path)
	default:
		return nil, cgerrors.Wrap(cgerrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	for env, dst := range map[string]*string{
		"COMPGRAPH_CACHE_BACKEND": &c.Cache.Backend,
		"COMPGRAPH_REDIS_URL":     &c.Cache.RedisURL,
		"COMPGRAPH_MONGO_URI":     &c.Cache.MongoURI,
		"COMPGRAPH_ADDR":          &c.Server.Addr,
	} {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			*dst = v
		}
	}
}

// Validate checks the configuration and returns human-readable warnings.
// Nothing here is fatal; consumers fall back to defaults.
func (c *Config) Validate() []string {
	var warnings []string

	for _, k := range c.undecoded {
		warnings = append(warnings, fmt.Sprintf("unknown key %q", k))
	}

	for name, v := range map[string]float64{
		"depth_gap": c.Layout.DepthGap,
		"row_gap":   c.Layout.RowGap,
	} {
		if v <= 0 {
			warnings = append(warnings, fmt.Sprintf("layout.%s %.0f is not positive, using default", name, v))
		}
	}
	if c.Layout.BaseY < 0 || c.Layout.Margin < 0 {
		warnings = append(warnings, "layout.base_y and layout.margin must not be negative, using defaults")
	}

	for _, f := range c.Render.Formats {
		if !slices.Contains(knownFormats, f) {
			warnings = append(warnings, fmt.Sprintf("render.formats: unknown format %q", f))
		}
	}
	if c.Render.Scale <= 0 || c.Render.Scale > 8 {
		warnings = append(warnings, fmt.Sprintf("render.scale %.2f is outside (0, 8]", c.Render.Scale))
	}

	switch c.Cache.Backend {
	case "", cache.BackendFile, cache.BackendNone:
	case cache.BackendRedis:
		if c.Cache.RedisURL == "" && c.Cache.RedisAddr == "" {
			warnings = append(warnings, "cache backend redis has no redis_url or redis_addr, using localhost:6379")
		}
	case cache.BackendMongo:
		if c.Cache.MongoURI == "" {
			warnings = append(warnings, "cache backend mongo has no mongo_uri, using mongodb://localhost:27017")
		}
	default:
		warnings = append(warnings, fmt.Sprintf("cache.backend %q is not one of file, redis, mongo, none", c.Cache.Backend))
	}

	if c.Server.RequestTimeout <= 0 {
		warnings = append(warnings, "server.request_timeout is not positive, requests never time out")
	}
	if c.Server.WriteTimeout > 0 && c.Server.RequestTimeout > c.Server.WriteTimeout {
		warnings = append(warnings, "server.request_timeout exceeds server.write_timeout")
	}

	slices.Sort(warnings)
	return warnings
}

// CacheOptions converts the [cache] section for cache.Open.
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend: c.Cache.Backend,
		Dir:     c.Cache.Dir,
		Redis: cache.RedisOptions{
			URL:      c.Cache.RedisURL,
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
			Prefix:   c.Cache.Prefix,
		},
		Mongo: cache.MongoOptions{
			URI:        c.Cache.MongoURI,
			Database:   c.Cache.MongoDatabase,
			Collection: c.Cache.MongoCollection,
		},
	}
}
