package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the optional YAML config file. Every field can be
// overridden by environment variables; a missing file is not an error.
type fileConfig struct {
	APIBaseURL   string         `yaml:"api_url"`
	APIToken     string         `yaml:"api_token"`
	HTTPTimeout  string         `yaml:"http_timeout"`
	HistoryCount int            `yaml:"history_count"`
	Language     string         `yaml:"language"`
	LogLevel     string         `yaml:"log_level"`
	LogFormat    string         `yaml:"log_format"`
	Metrics      *MetricsConfig `yaml:"metrics,omitempty"`
}

// DefaultConfigPath returns the XDG location of the config file.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "mlbcast", "config.yaml")
}

func loadFile(path string) (fileConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileConfig{}, nil
		}
		return fileConfig{}, fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fileConfig{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return fc, nil
}
