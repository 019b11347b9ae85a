package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the client configuration, read from a YAML file with
// TRACKDESK_* environment overrides.
type Config struct {
	ServerURL    string `mapstructure:"server_url"`
	SessionCache string `mapstructure:"session_cache"`
	LogFile      string `mapstructure:"log_file"`
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "trackdesk")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "trackdesk")
}

func defaultConfigPath() string { return filepath.Join(cfgDir(), "config.yaml") }

// loadConfig reads the file at path. A missing file is not an error:
// defaults apply, and environment variables still override them.
func loadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("server_url", "http://localhost:8080")
	v.SetDefault("session_cache", filepath.Join(cfgDir(), "session.json"))
	v.SetDefault("log_file", filepath.Join(cfgDir(), "trackdesk.log"))

	v.SetEnvPrefix("TRACKDESK")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
