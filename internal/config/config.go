// Package config loads archrip settings from defaults, a TOML file and
// ARCHRIP_* environment variables, in increasing order of precedence.
//
// The file is the first of:
//
//   - the path given with --config
//   - archrip.toml in the working directory
//   - $XDG_CONFIG_HOME/archrip/config.toml
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/archrip/archrip/pkg/errors"
	"github.com/archrip/archrip/pkg/layout"
)

const (
	AppName        = "archrip"
	LocalFileName  = "archrip.toml"
	GlobalFileName = "config.toml"
	EnvPrefix      = "ARCHRIP"
)

// DefaultServeAddr is where "archrip serve" listens by default.
const DefaultServeAddr = ":4173"

// DefaultCacheTTL is how long cached layouts live.
const DefaultCacheTTL = 7 * 24 * time.Hour

// Config is the merged configuration.
type Config struct {
	Layout layout.Params `mapstructure:"layout" toml:"layout"`
	Cache  CacheConfig   `mapstructure:"cache" toml:"cache"`
	Serve  ServeConfig   `mapstructure:"serve" toml:"serve"`
}

// CacheConfig selects and tunes the layout cache. RedisURL takes precedence
// over Dir when set.
type CacheConfig struct {
	Dir      string `mapstructure:"dir" toml:"dir"`
	RedisURL string `mapstructure:"redis_url" toml:"redis_url"`
	TTL      string `mapstructure:"ttl" toml:"ttl"`
}

// ServeConfig configures the HTTP server.
type ServeConfig struct {
	Addr string `mapstructure:"addr" toml:"addr"`
}

// TTLDuration parses TTL, falling back to [DefaultCacheTTL].
func (c CacheConfig) TTLDuration() time.Duration {
	d, err := time.ParseDuration(c.TTL)
	if err != nil || d <= 0 {
		return DefaultCacheTTL
	}
	return d
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Layout: layout.DefaultParams(),
		Cache:  CacheConfig{TTL: DefaultCacheTTL.String()},
		Serve:  ServeConfig{Addr: DefaultServeAddr},
	}
}

// LoadOptions controls where [Load] looks.
type LoadOptions struct {
	// File is an explicit config path. It must exist.
	File string
	// WorkDir is searched for archrip.toml. Empty means the current directory.
	WorkDir string
	// ConfigDir replaces the global config directory, for tests.
	ConfigDir string
}

// Load merges defaults, the config file and the environment. It returns the
// path of the file used, or "" when none was found.
func Load(opts LoadOptions) (*Config, string, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := resolveFile(opts)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config")
	}
	cfg.Layout = cfg.Layout.WithDefaults()
	return &cfg, path, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	p := d.Layout
	for key, val := range map[string]any{
		"layout.node_width":       p.NodeWidth,
		"layout.node_height":      p.NodeHeight,
		"layout.group_width":      p.GroupWidth,
		"layout.group_height":     p.GroupHeight,
		"layout.rank_sep":         p.RankSep,
		"layout.node_sep":         p.NodeSep,
		"layout.edge_sep":         p.EdgeSep,
		"layout.margin_x":         p.MarginX,
		"layout.margin_y":         p.MarginY,
		"layout.ring_spacing":     p.RingSpacing,
		"layout.min_arc":          p.MinArc,
		"layout.ordering_sweeps":  p.OrderingSweeps,
		"layout.placement_passes": p.PlacementPasses,
		"cache.dir":               d.Cache.Dir,
		"cache.redis_url":         d.Cache.RedisURL,
		"cache.ttl":               d.Cache.TTL,
		"serve.addr":              d.Serve.Addr,
	} {
		v.SetDefault(key, val)
	}
}

func resolveFile(opts LoadOptions) (string, error) {
	if opts.File != "" {
		if !fileExists(opts.File) {
			return "", errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", opts.File)
		}
		return opts.File, nil
	}

	local := filepath.Join(opts.WorkDir, LocalFileName)
	if fileExists(local) {
		return local, nil
	}

	dir := opts.ConfigDir
	if dir == "" {
		d, err := Dir()
		if err != nil {
			return "", nil
		}
		dir = d
	}
	if global := filepath.Join(dir, GlobalFileName); fileExists(global) {
		return global, nil
	}
	return "", nil
}

// Dir returns $XDG_CONFIG_HOME/archrip, or ~/.config/archrip.
func Dir() (string, error) {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// CacheDir returns the configured cache directory, or
// $XDG_CACHE_HOME/archrip, or ~/.cache/archrip.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if d := os.Getenv("XDG_CACHE_HOME"); d != "" {
		return filepath.Join(d, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Encode writes c as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// WriteFile writes c to path, creating parent directories. An existing file
// is only replaced when force is set.
func (c *Config) WriteFile(path string, force bool) error {
	if !force && fileExists(path) {
		return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
