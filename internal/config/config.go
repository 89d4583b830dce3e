// Package config resolves tada's settings.
//
// Sources, lowest priority first: defaults, the TOML config file, a .env
// file in the working directory, environment variables, then CLI flags
// (applied by the caller).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
)

const (
	appName        = "tada"
	configFileName = "config.toml"
	logFileName    = "todo.log"
)

// Config holds every tunable.
type Config struct {
	DataDir   string `toml:"data_dir" env:"TADA_DATA_DIR"`
	Backend   string `toml:"backend" env:"TADA_BACKEND"`
	Key       string `toml:"key" env:"TADA_KEY"`
	LogLevel  string `toml:"log_level" env:"TADA_LOG_LEVEL"`
	LogFormat string `toml:"log_format" env:"TADA_LOG_FORMAT"`
	NoColor   bool   `toml:"no_color"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DataDir:   defaultDataDir(),
		Backend:   store.BackendFile,
		Key:       jsonstore.DefaultKey,
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

func defaultDataDir() string {
	if x := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); x != "" {
		return filepath.Join(x, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + appName
	}
	return filepath.Join(home, ".local", "share", appName)
}

// DefaultFile is the TOML file Load reads when path is empty.
func DefaultFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, configFileName)
}

// Load layers the config file (path, or DefaultFile when empty), an
// optional .env and the environment over Default. A missing file is fine.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultFile()
	}
	if path != "" {
		if err := loadFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	// https://no-color.org: any non-empty value disables color.
	if os.Getenv("NO_COLOR") != "" {
		cfg.NoColor = true
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat config %s: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings no backend can run with.
func (c Config) Validate() error {
	switch c.Backend {
	case store.BackendFile, store.BackendSQLite, store.BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q (want file, sqlite or memory)", c.Backend)
	}
	if strings.TrimSpace(c.Key) == "" {
		return errors.New("storage key is empty")
	}
	if c.Backend != store.BackendMemory && strings.TrimSpace(c.DataDir) == "" {
		return errors.New("data dir is empty")
	}
	return nil
}

// LogFile is where the TUI sends log lines.
func (c Config) LogFile() string {
	return filepath.Join(c.DataDir, logFileName)
}
