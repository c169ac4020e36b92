package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

const (
	AppName   = "taskminder"
	EnvPrefix = "TASKMINDER_"

	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

type Config struct {
	StorePath        string `toml:"store_path" env:"STORE_PATH"`
	Backend          string `toml:"backend" env:"BACKEND"`
	StorageKey       string `toml:"storage_key" env:"STORAGE_KEY"`
	Fallback         string `toml:"fallback" env:"FALLBACK"`
	ReminderInterval string `toml:"reminder_interval" env:"REMINDER_INTERVAL"`
	NotifyCommand    string `toml:"notify_command" env:"NOTIFY_COMMAND"`
	WebEnabled       bool   `toml:"web_enabled" env:"WEB_ENABLED"`
	WebPort          int    `toml:"web_port" env:"WEB_PORT"`
	LogLevel         string `toml:"log_level" env:"LOG_LEVEL"`
	LogFormat        string `toml:"log_format" env:"LOG_FORMAT"`
	LogFile          string `toml:"log_file" env:"LOG_FILE"`
}

func Default() Config {
	return Config{
		Backend:          BackendSQLite,
		StorageKey:       "tasks",
		Fallback:         "seed",
		ReminderInterval: "30s",
		NotifyCommand:    "notify-send",
		WebPort:          8080,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

func Dir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, AppName), nil
}

func DefaultConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultStorePath returns the data file used when store_path is unset.
func DefaultStorePath(backend string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if backend == BackendBolt {
		return filepath.Join(dir, "tasks.bolt"), nil
	}
	return filepath.Join(dir, "tasks.db"), nil
}

func DefaultLogPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName+".log"), nil
}

func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

// Load reads the TOML file at path over the defaults. A missing file is not
// an error.
func Load(path string) (Config, error) {
	config := Default()

	if _, err := toml.DecodeFile(path, &config); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return config, nil
}

// ApplyEnv overlays TASKMINDER_* environment variables.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func Save(path string, cfg Config) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// ReminderEvery parses reminder_interval, falling back to 30s when unset.
func (c Config) ReminderEvery() (time.Duration, error) {
	value := strings.TrimSpace(c.ReminderInterval)
	if value == "" {
		return 30 * time.Second, nil
	}
	interval, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid reminder_interval %q: %w", c.ReminderInterval, err)
	}
	if interval <= 0 {
		return 0, fmt.Errorf("invalid reminder_interval %q: must be positive", c.ReminderInterval)
	}
	return interval, nil
}

func (c Config) Validate() error {
	var errs []error
	switch c.Backend {
	case BackendSQLite, BackendBolt:
	default:
		errs = append(errs, fmt.Errorf("invalid backend %q: expected sqlite or bolt", c.Backend))
	}
	switch strings.ToLower(c.Fallback) {
	case "", "seed", "empty":
	default:
		errs = append(errs, fmt.Errorf("invalid fallback %q: expected seed or empty", c.Fallback))
	}
	switch c.LogFormat {
	case "", "text", "json", "logfmt":
	default:
		errs = append(errs, fmt.Errorf("invalid log_format %q: expected text, json or logfmt", c.LogFormat))
	}
	if c.WebPort <= 0 || c.WebPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid web_port %d", c.WebPort))
	}
	if _, err := c.ReminderEvery(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
