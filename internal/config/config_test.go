package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Makepad-fr/tada/internal/store"
)

// chdir moves into a fresh directory so a stray .env cannot leak in.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_DefaultsWhenNothingConfigured(t *testing.T) {
	chdir(t)
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != store.BackendFile || cfg.Key != "TODOS" || cfg.LogLevel != "warn" {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
	if cfg.DataDir != filepath.Join("/tmp/xdg", "tada") {
		t.Fatalf("unexpected data dir %q", cfg.DataDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	chdir(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	body := strings.Join([]string{
		`data_dir = "/from/file"`,
		`backend = "sqlite"`,
		`key = "WORK"`,
		`log_level = "debug"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TADA_KEY", "FROM_ENV")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "/from/file" || cfg.Backend != "sqlite" || cfg.LogLevel != "debug" {
		t.Fatalf("file values not applied: %#v", cfg)
	}
	if cfg.Key != "FROM_ENV" {
		t.Fatalf("env should override file, got key %q", cfg.Key)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdir(t)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("TADA_BACKEND=memory\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv sets process env; make sure it is restored.
	t.Setenv("TADA_BACKEND", "")
	os.Unsetenv("TADA_BACKEND")

	cfg, err := Load(filepath.Join(dir, "none.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != store.BackendMemory {
		t.Fatalf("expected backend from .env, got %q", cfg.Backend)
	}
}

func TestLoad_BadTOML(t *testing.T) {
	chdir(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("backend = "), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestValidate(t *testing.T) {
	good := Default()
	good.DataDir = "/data"

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"sqlite", func(c *Config) { c.Backend = "sqlite" }, false},
		{"unknown backend", func(c *Config) { c.Backend = "redis" }, true},
		{"blank key", func(c *Config) { c.Key = "  " }, true},
		{"no data dir", func(c *Config) { c.DataDir = "" }, true},
		{"memory without dir", func(c *Config) { c.Backend = "memory"; c.DataDir = "" }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := good
			tc.mutate(&c)
			err := c.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() err=%v, wantErr=%v", err, tc.wantErr)
			}
		})
	}
}

func TestLoad_NoColorAnyValue(t *testing.T) {
	chdir(t)
	t.Setenv("NO_COLOR", "yes please")
	cfg, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.NoColor {
		t.Fatalf("expected NoColor from NO_COLOR")
	}
}
