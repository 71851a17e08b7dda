package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	perrors "github.com/matzehuels/pedigree/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.Chart.HSpacing != 40 || cfg.Chart.VSpacing != 100 || cfg.Chart.Margin != 50 {
		t.Errorf("chart = %+v, want defaults", cfg.Chart)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "pedigree.toml", `
[layout]
max_depth = 32
strict = true

[chart]
h_spacing = 60

[cache]
backend = "redis"
redis_addr = "cache:6379"
ttl = "90m"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Layout.MaxDepth != 32 || !cfg.Layout.Strict {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Chart.HSpacing != 60 || cfg.Chart.VSpacing != 100 {
		t.Errorf("chart = %+v, want h_spacing 60 and default v_spacing", cfg.Chart)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.RedisAddr != "cache:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Cache.TTL.Duration != 90*time.Minute {
		t.Errorf("ttl = %v, want 90m", cfg.Cache.TTL)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "pedigree.yaml", `
data:
  dir: /srv/families
annotations:
  backend: sqlite
  sqlite_path: /srv/ann.db
cache:
  ttl: 2h
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Data.Dir != "/srv/families" {
		t.Errorf("data.dir = %q", cfg.Data.Dir)
	}
	if cfg.Annotations.Backend != AnnotationsSQLite || cfg.Annotations.SQLitePath != "/srv/ann.db" {
		t.Errorf("annotations = %+v", cfg.Annotations)
	}
	if cfg.Cache.TTL.Duration != 2*time.Hour {
		t.Errorf("ttl = %v, want 2h", cfg.Cache.TTL)
	}
	if got := cfg.FamilyPath("10001"); got != filepath.Join("/srv/families", "10001.json") {
		t.Errorf("FamilyPath = %q", got)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"bad toml", "c.toml", "[layout\nmax_depth = 1"},
		{"bad duration", "c.toml", "[cache]\nttl = \"soon\""},
		{"bad backend", "c.toml", "[cache]\nbackend = \"memcached\""},
		{"negative depth", "c.yaml", "layout:\n  max_depth: -1"},
		{"zero spacing", "c.toml", "[chart]\nv_spacing = 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			if !perrors.Is(err, perrors.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want %s", err, perrors.ErrCodeInvalidConfig)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load(missing) should fail when a path is given")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PEDIGREE_DATA_DIR":   "/data",
		"PEDIGREE_MAX_DEPTH":  "12",
		"PEDIGREE_CACHE":      "none",
		"PEDIGREE_ADDR":       ":9090",
		"PEDIGREE_MONGO_URI":  "mongodb://db:27017",
		"PEDIGREE_REDIS_ADDR": "",
	}
	cfg := Default()
	ApplyEnv(&cfg, func(k string) string { return env[k] })

	if cfg.Data.Dir != "/data" || cfg.Layout.MaxDepth != 12 || cfg.Cache.Backend != CacheNone {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Server.Addr != ":9090" || cfg.Annotations.MongoURI != "mongodb://db:27017" {
		t.Errorf("server/annotations not overridden: %+v %+v", cfg.Server, cfg.Annotations)
	}
	if cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("empty env value should not override: %q", cfg.Cache.RedisAddr)
	}
}
