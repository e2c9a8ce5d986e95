package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default policy file name.
const DefaultConfigFile = ".fetchaudit"

// ErrConfigNotFound is returned when the policy file does not exist.
var ErrConfigNotFound = errors.New("policy file not found")

// LoadConfigFile loads source policies from a YAML file. A missing file
// yields ErrConfigNotFound; whether that is fatal depends on whether the
// user named the path explicitly, so the caller decides.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	if cf.Sources == nil {
		cf.Sources = make(map[string]Policy)
	}
	return &cf, nil
}

// FindConfigFile resolves the policy file location. An explicit
// configPath wins when it exists; otherwise .fetchaudit is looked up in
// the current directory, then the home directory. Returns "" when no
// file is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if fileExists(configPath) {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		if p := filepath.Join(cwd, DefaultConfigFile); fileExists(p) {
			return p
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		if p := filepath.Join(home, DefaultConfigFile); fileExists(p) {
			return p
		}
	}
	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
