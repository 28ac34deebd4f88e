// Package config loads pipeline settings from an optional TOML file,
// layered over built-in defaults.
//
// Commands construct a Config once and pass it down explicitly; nothing
// reads configuration from globals. Secrets (API tokens) never live in
// the file, only in the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"

	"github.com/nodedex/nodedex/pkg/errors"
)

// DefaultFileName is the config file looked up in the working directory
// when no explicit path is given.
const DefaultFileName = "nodedex.toml"

// Duration wraps time.Duration for TOML decoding from strings like "30s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds every tunable of the pipeline. Fields map 1:1 to the
// TOML file; zero values are replaced by defaults in Load.
type Config struct {
	// Sources
	UpstreamURL    string `toml:"upstream_url"`
	RegistryURL    string `toml:"registry_url"`
	GraphQLURL     string `toml:"graphql_url"`
	ModelsEndpoint string `toml:"models_endpoint"`
	Model          string `toml:"model"`

	// Paths
	DataDir  string `toml:"data_dir"`
	CacheDir string `toml:"cache_dir"`

	// HTTP response cache
	CacheBackend  string   `toml:"cache_backend"` // "file" or "redis"
	CacheTTL      Duration `toml:"cache_ttl"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`

	// Pipeline tuning
	RequestsPerMinute int      `toml:"requests_per_minute"`
	ReadmeMaxChars    int      `toml:"readme_max_chars"`
	BatchDelay        Duration `toml:"batch_delay"`
	PageDelay         Duration `toml:"page_delay"`
	FlushEvery        int      `toml:"flush_every"` // README cache flush cadence, in batches

	// Preview server
	ListenAddr string `toml:"listen_addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		UpstreamURL:    "https://raw.githubusercontent.com/ltdrdata/ComfyUI-Manager/main/custom-node-list.json",
		RegistryURL:    "https://api.comfy.org/nodes",
		GraphQLURL:     "https://api.github.com/graphql",
		ModelsEndpoint: "https://models.inference.ai.azure.com/chat/completions",
		Model:          "gpt-4o-mini",

		DataDir:  filepath.Join(xdg.DataHome, "nodedex"),
		CacheDir: filepath.Join(xdg.CacheHome, "nodedex"),

		CacheBackend: "file",
		CacheTTL:     Duration(time.Hour),

		RequestsPerMinute: 10,
		ReadmeMaxChars:    2000,
		BatchDelay:        Duration(500 * time.Millisecond),
		PageDelay:         Duration(100 * time.Millisecond),
		FlushEvery:        10,

		ListenAddr: "localhost:8787",
	}
}

// Load reads the config file at path, layered over defaults. An empty
// path looks for nodedex.toml in the working directory; a missing file
// is not an error and yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "cannot read config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q in %s", undecoded[0].String(), path)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	for name, url := range map[string]string{
		"upstream_url":    c.UpstreamURL,
		"registry_url":    c.RegistryURL,
		"graphql_url":     c.GraphQLURL,
		"models_endpoint": c.ModelsEndpoint,
	} {
		if err := errors.ValidateURL(url); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid %s", name)
		}
	}
	switch c.CacheBackend {
	case "file", "redis":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache_backend must be file or redis, got %q", c.CacheBackend)
	}
	if c.RequestsPerMinute <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "requests_per_minute must be positive")
	}
	if c.ReadmeMaxChars <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "readme_max_chars must be positive")
	}
	if c.FlushEvery <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "flush_every must be positive")
	}
	return nil
}

// EnsureDataDir creates the data directory if needed.
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return nil
}

// Paths derived from DataDir. All pipeline artifacts live side by side
// so the bundle and its caches travel together.

func (c *Config) BundleJSONPath() string   { return filepath.Join(c.DataDir, "nodes.json") }
func (c *Config) BundleJSPath() string     { return filepath.Join(c.DataDir, "nodes.js") }
func (c *Config) FallbackListPath() string { return filepath.Join(c.DataDir, "custom-node-list.json") }
func (c *Config) ReadmeCachePath() string  { return filepath.Join(c.DataDir, "readmes_cache.json") }
func (c *Config) SummaryCachePath() string { return filepath.Join(c.DataDir, "summaries_cache.json") }
func (c *Config) CategoriesPath() string   { return filepath.Join(c.DataDir, "categories.txt") }
