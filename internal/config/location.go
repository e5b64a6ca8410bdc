package config

import (
	"os"
	"path/filepath"
)

// ConfigPathEnv overrides the configuration file location.
const ConfigPathEnv = "CODEPAD_CONFIG"

// GetConfigPath returns the configuration file path. The CODEPAD_CONFIG
// environment variable wins, otherwise ~/.codepad/config is used.
func GetConfigPath() (string, error) {
	if configPath := os.Getenv(ConfigPathEnv); configPath != "" {
		return configPath, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".codepad", "config"), nil
}

// EnsureConfigDir ensures that the configuration directory exists.
func EnsureConfigDir() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	return os.MkdirAll(filepath.Dir(configPath), 0755)
}
