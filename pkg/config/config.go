// Package config loads pedigree settings from TOML or YAML files.
//
// A missing file is not an error when no path was asked for: [Load] with
// an empty path returns [Default]. Values are layered in this order, later
// winning: defaults, file, environment (see [ApplyEnv]), command-line flags
// (applied by the CLI).
//
//	[layout]
//	max_depth = 64
//	strict = false
//
//	[chart]
//	margin = 50
//	h_spacing = 40
//	v_spacing = 100
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "12h"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	perrors "github.com/matzehuels/pedigree/pkg/errors"
)

// Annotation store backends.
const (
	AnnotationsFile   = "file"
	AnnotationsSQLite = "sqlite"
	AnnotationsMongo  = "mongo"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the complete configuration.
type Config struct {
	Layout      Layout      `toml:"layout" yaml:"layout" json:"layout"`
	Chart       Chart       `toml:"chart" yaml:"chart" json:"chart"`
	Data        Data        `toml:"data" yaml:"data" json:"data"`
	Annotations Annotations `toml:"annotations" yaml:"annotations" json:"annotations"`
	Cache       Cache       `toml:"cache" yaml:"cache" json:"cache"`
	Server      Server      `toml:"server" yaml:"server" json:"server"`
}

// Layout configures layout passes.
type Layout struct {
	MaxDepth       int  `toml:"max_depth" yaml:"max_depth" json:"max_depth"`
	Strict         bool `toml:"strict" yaml:"strict" json:"strict"`
	SkipSeparation bool `toml:"skip_separation" yaml:"skip_separation" json:"skip_separation"`
}

// Chart is the chart geometry in pixels.
type Chart struct {
	Margin   int `toml:"margin" yaml:"margin" json:"margin"`
	HSpacing int `toml:"h_spacing" yaml:"h_spacing" json:"h_spacing"`
	VSpacing int `toml:"v_spacing" yaml:"v_spacing" json:"v_spacing"`
	Size     int `toml:"size" yaml:"size" json:"size"`
	VPadding int `toml:"v_padding" yaml:"v_padding" json:"v_padding"`
}

// Data locates family datasets. Family "10001" is read from
// "<dir>/10001.json".
type Data struct {
	Dir string `toml:"dir" yaml:"dir" json:"dir"`
}

// Annotations selects where saved positions are kept.
type Annotations struct {
	Backend       string `toml:"backend" yaml:"backend" json:"backend"`
	Dir           string `toml:"dir" yaml:"dir" json:"dir"`
	SQLitePath    string `toml:"sqlite_path" yaml:"sqlite_path" json:"sqlite_path"`
	MongoURI      string `toml:"mongo_uri" yaml:"mongo_uri" json:"-"`
	MongoDatabase string `toml:"mongo_database" yaml:"mongo_database" json:"mongo_database"`
}

// Cache selects the pipeline cache.
type Cache struct {
	Backend     string   `toml:"backend" yaml:"backend" json:"backend"`
	Dir         string   `toml:"dir" yaml:"dir" json:"dir"`
	RedisAddr   string   `toml:"redis_addr" yaml:"redis_addr" json:"redis_addr"`
	RedisPrefix string   `toml:"redis_prefix" yaml:"redis_prefix" json:"redis_prefix"`
	TTL         Duration `toml:"ttl" yaml:"ttl" json:"ttl"`
}

// Server configures the HTTP service.
type Server struct {
	Addr    string `toml:"addr" yaml:"addr" json:"addr"`
	Metrics bool   `toml:"metrics" yaml:"metrics" json:"metrics"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: Layout{MaxDepth: 64},
		Chart: Chart{
			Margin:   50,
			HSpacing: 40,
			VSpacing: 100,
			Size:     30,
			VPadding: 15,
		},
		Data: Data{Dir: "processed"},
		Annotations: Annotations{
			Backend:       AnnotationsFile,
			Dir:           "annotations",
			SQLitePath:    "annotations.db",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "pedigree",
		},
		Cache: Cache{
			Backend:     CacheFile,
			RedisAddr:   "localhost:6379",
			RedisPrefix: "pedigree:",
			TTL:         Duration{24 * time.Hour},
		},
		Server: Server{Addr: ":8080", Metrics: true},
	}
}

// Load reads the file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
// Files ending in .yaml or .yml are YAML; anything else is TOML.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "read config %s", path)
		}
		if err := decode(path, data, &cfg); err != nil {
			return cfg, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "parse config %s", path)
		}
	}
	ApplyEnv(&cfg, os.Getenv)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return toml.Unmarshal(data, cfg)
	}
}

// ApplyEnv overrides cfg from PEDIGREE_* environment variables, read
// through getenv. Unparsable numbers are ignored.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("PEDIGREE_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := getenv("PEDIGREE_MAX_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Layout.MaxDepth = n
		}
	}
	if v := getenv("PEDIGREE_CACHE"); v != "" {
		cfg.Cache.Backend = v
	}
	if v := getenv("PEDIGREE_REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := getenv("PEDIGREE_ANNOTATIONS"); v != "" {
		cfg.Annotations.Backend = v
	}
	if v := getenv("PEDIGREE_MONGO_URI"); v != "" {
		cfg.Annotations.MongoURI = v
	}
	if v := getenv("PEDIGREE_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
}

// Validate reports the first invalid setting as an INVALID_CONFIG error.
func (c Config) Validate() error {
	switch {
	case c.Layout.MaxDepth < 0:
		return invalid("layout.max_depth must not be negative, got %d", c.Layout.MaxDepth)
	case c.Chart.Margin < 0:
		return invalid("chart.margin must not be negative, got %d", c.Chart.Margin)
	case c.Chart.HSpacing <= 0 || c.Chart.VSpacing <= 0:
		return invalid("chart spacing must be positive, got %d x %d", c.Chart.HSpacing, c.Chart.VSpacing)
	case c.Chart.Size <= 0:
		return invalid("chart.size must be positive, got %d", c.Chart.Size)
	case c.Cache.TTL.Duration < 0:
		return invalid("cache.ttl must not be negative, got %s", c.Cache.TTL)
	}

	switch c.Annotations.Backend {
	case AnnotationsFile, AnnotationsSQLite, AnnotationsMongo:
	default:
		return invalid("annotations.backend must be file, sqlite or mongo, got %q", c.Annotations.Backend)
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return invalid("cache.redis_addr is required for the redis backend")
		}
	default:
		return invalid("cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return perrors.New(perrors.ErrCodeInvalidConfig, format, args...)
}

// FamilyPath returns the dataset path for a family id.
func (c Config) FamilyPath(familyID string) string {
	return filepath.Join(c.Data.Dir, familyID+".json")
}

// Duration is a time.Duration written as a string ("24h", "90m") in
// config files.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}
