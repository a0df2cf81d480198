// Package config loads the cardbinder config file, creating a default one
// on first run. Environment variables override the file so scripts and CI
// can point at a different server without editing it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

const defaultAPIURL = "https://api.cardbinder.app"

// Config is the on-disk configuration.
type Config struct {
	APIURL     string `toml:"api_url"`
	DebounceMs int    `toml:"debounce_ms"`
}

// Debounce returns the sync debounce window, falling back to the default
// when the configured value is zero or negative.
func (c Config) Debounce() time.Duration {
	if c.DebounceMs <= 0 {
		return 750 * time.Millisecond
	}
	return time.Duration(c.DebounceMs) * time.Millisecond
}

func xdgConfigHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config")
}

// FilePath returns the path to the config file.
func FilePath() string {
	return filepath.Join(xdgConfigHome(), "cardbinder", "config.toml")
}

// Load reads the config file, writing a default one if it does not exist,
// then applies environment overrides (CARDBINDER_API_URL,
// CARDBINDER_DEBOUNCE_MS).
func Load() (Config, error) {
	cfg, err := loadFile(FilePath())
	if err != nil {
		return Config{}, err
	}
	return applyEnv(cfg), nil
}

func loadFile(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: decode %s: %w", path, err)
	}
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	return cfg, nil
}

func createDefault(path string) (Config, error) {
	cfg := Config{APIURL: defaultAPIURL, DebounceMs: 750}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Config{}, fmt.Errorf("config.Load: create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return Config{}, fmt.Errorf("config.Load: create %s: %w", path, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: encode default config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg Config) Config {
	if u := os.Getenv("CARDBINDER_API_URL"); u != "" {
		cfg.APIURL = u
	}
	if ms := os.Getenv("CARDBINDER_DEBOUNCE_MS"); ms != "" {
		if n, err := strconv.Atoi(ms); err == nil && n > 0 {
			cfg.DebounceMs = n
		}
	}
	return cfg
}
