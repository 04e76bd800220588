// Package config loads tada settings from TOML files and the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/idilsaglam/todo/internal/store/jsonstore"
)

const (
	// ProjectFileName is looked up in the working directory.
	ProjectFileName = ".tada.toml"
	// UserFileName is looked up under the user config dir.
	UserFileName = "config.toml"

	DefaultTheme     = "classic"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Config is the effective configuration for one invocation.
type Config struct {
	File  string `toml:"file" env:"TODO_FILE" env-default:"todos.json" env-description:"path of the task list file"`
	Theme string `toml:"theme" env:"TODO_THEME" env-default:"classic" env-description:"output theme: classic, neon or mono"`
	Group bool   `toml:"group" env:"TODO_GROUP" env-description:"group list output by pending/done"`
	Log   Log    `toml:"log"`

	// Sources lists the config files that were applied, in order.
	Sources []string `toml:"-"`
}

// Log configures diagnostic logging.
type Log struct {
	Level  string `toml:"level" env:"TODO_LOG_LEVEL" env-default:"warn" env-description:"log level: debug, info, warn or error"`
	Format string `toml:"format" env:"TODO_LOG_FORMAT" env-default:"text" env-description:"log format: text, json or logfmt"`
	File   string `toml:"file" env:"TODO_LOG_FILE" env-description:"write logs to this rotating file instead of stderr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		File:  jsonstore.DefaultFile,
		Theme: DefaultTheme,
		Log: Log{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Paths returns the config files consulted by Load, lowest priority first.
// Files that do not exist are skipped by Load.
func Paths() []string {
	var paths []string
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "tada", UserFileName))
	}
	return append(paths, ProjectFileName)
}

// Load builds the configuration from defaults, the given TOML files (later
// files override earlier ones) and finally TODO_* environment variables.
func Load(paths ...string) (Config, error) {
	cfg := Default()
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("stat config file %s: %w", p, err)
		}
		if _, err := toml.DecodeFile(p, &cfg); err != nil {
			return Config{}, fmt.Errorf("loading config file %s: %w", p, err)
		}
		cfg.Sources = append(cfg.Sources, p)
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read config env: %w", err)
	}
	return cfg, nil
}

// LoadFile loads an explicitly named config file, which must exist.
func LoadFile(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	}
	return Load(path)
}

// Write encodes cfg as TOML.
func Write(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// EnvHelp describes the environment variables Load understands.
func EnvHelp() (string, error) {
	var cfg Config
	return cleanenv.GetDescription(&cfg, nil)
}
