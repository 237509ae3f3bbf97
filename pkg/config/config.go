// Package config loads msaview settings from a TOML file.
//
// Every field has a default, so a missing file is equivalent to an empty
// one. Command-line flags override file values after loading.
//
//	[viewer]
//	tile_size = 1024
//	initial_cell_size = 24.0
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	msaerrors "github.com/matzehuels/msaview/pkg/errors"
	"github.com/matzehuels/msaview/pkg/session"
	"github.com/matzehuels/msaview/pkg/viewport"
)

// AppName names the per-user config and cache directories.
const AppName = "msaview"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Defaults not already defined by the session and viewport packages.
const (
	DefaultCacheTTL       = 7 * 24 * time.Hour
	DefaultRedisAddr      = "localhost:6379"
	DefaultAddr           = ":8080"
	DefaultSessionTTL     = time.Hour
	DefaultMaxUploadBytes = 256 << 20
)

// Config is the root of the configuration file.
type Config struct {
	Viewer Viewer `toml:"viewer"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
}

// Viewer holds session and camera settings.
type Viewer struct {
	TileSize        int     `toml:"tile_size"`
	InitialCellSize float64 `toml:"initial_cell_size"`
	LabelCharWidth  float64 `toml:"label_char_width"`
	MinZoom         float64 `toml:"min_zoom"`
	MaxZoom         float64 `toml:"max_zoom"`
}

// Cache selects and configures the tile cache backend.
type Cache struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	Prefix        string        `toml:"prefix"`
	TTL           time.Duration `toml:"ttl"`
}

// Server configures the HTTP API.
type Server struct {
	Addr           string        `toml:"addr"`
	SessionTTL     time.Duration `toml:"session_ttl"`
	MaxUploadBytes int64         `toml:"max_upload_bytes"`
}

// Default returns a Config with every default applied.
func Default() Config {
	var c Config
	c.SetDefaults()
	return c
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	v := &c.Viewer
	if v.TileSize == 0 {
		v.TileSize = session.DefaultTileSize
	}
	if v.InitialCellSize == 0 {
		v.InitialCellSize = session.DefaultInitialCellSize
	}
	if v.LabelCharWidth == 0 {
		v.LabelCharWidth = session.DefaultLabelCharWidth
	}
	if v.MinZoom == 0 {
		v.MinZoom = viewport.DefaultMinZoom
	}
	if v.MaxZoom == 0 {
		v.MaxZoom = viewport.DefaultMaxZoom
	}

	if c.Cache.Backend == "" {
		c.Cache.Backend = BackendFile
	}
	if c.Cache.Dir == "" {
		if dir, err := CacheDir(); err == nil {
			c.Cache.Dir = dir
		}
	}
	if c.Cache.RedisAddr == "" {
		c.Cache.RedisAddr = DefaultRedisAddr
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = DefaultCacheTTL
	}

	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.SessionTTL == 0 {
		c.Server.SessionTTL = DefaultSessionTTL
	}
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = DefaultMaxUploadBytes
	}
}

// Validate checks the configuration for values the viewer cannot use.
func (c *Config) Validate() error {
	if err := msaerrors.ValidateDimension("tile size", c.Viewer.TileSize); err != nil {
		return err
	}
	if c.Viewer.InitialCellSize <= 0 {
		return msaerrors.New(msaerrors.ErrCodeInvalidConfig, "initial cell size must be positive, got %g", c.Viewer.InitialCellSize)
	}
	if c.Viewer.LabelCharWidth <= 0 {
		return msaerrors.New(msaerrors.ErrCodeInvalidConfig, "label char width must be positive, got %g", c.Viewer.LabelCharWidth)
	}
	if err := msaerrors.ValidateZoomRange(c.Viewer.MinZoom, c.Viewer.MaxZoom); err != nil {
		return err
	}

	switch c.Cache.Backend {
	case BackendFile:
		if c.Cache.Dir == "" {
			return msaerrors.New(msaerrors.ErrCodeInvalidConfig, "file cache requires a directory")
		}
	case BackendRedis:
		if err := msaerrors.ValidateAddr(c.Cache.RedisAddr); err != nil {
			return err
		}
	case BackendNone:
	default:
		return msaerrors.New(msaerrors.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return msaerrors.New(msaerrors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}

	if err := msaerrors.ValidateAddr(c.Server.Addr); err != nil {
		return err
	}
	if c.Server.MaxUploadBytes < 0 {
		return msaerrors.New(msaerrors.ErrCodeInvalidConfig, "max upload bytes must not be negative")
	}
	return nil
}

// SessionOptions converts the viewer section into session options for a
// canvas of the given size.
func (c *Config) SessionOptions(canvasWidth, canvasHeight float64) session.Options {
	return session.Options{
		TileSize:        c.Viewer.TileSize,
		InitialCellSize: c.Viewer.InitialCellSize,
		LabelCharWidth:  c.Viewer.LabelCharWidth,
		MinZoom:         c.Viewer.MinZoom,
		MaxZoom:         c.Viewer.MaxZoom,
		CanvasWidth:     canvasWidth,
		CanvasHeight:    canvasHeight,
	}
}

// Load reads the TOML file at path, applies defaults and validates the
// result. Unknown keys are rejected.
func Load(path string) (Config, error) {
	var c Config
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return Config{}, msaerrors.Wrap(msaerrors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, msaerrors.New(msaerrors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(path string) (Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		c := Default()
		return c, c.Validate()
	}
	return Load(path)
}

// CacheDir returns the cache directory using XDG standard (~/.cache/msaview/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// DefaultPath returns the config file location (~/.config/msaview/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}
