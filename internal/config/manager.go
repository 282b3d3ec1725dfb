package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileConfig holds the persistent preferences saved by `atlasq config`.
// Values set here take precedence over environment variables, so a
// saved setup survives stale shell exports.
type FileConfig struct {
	APIURL         string `json:"api_url,omitempty"`         // Backend base URL
	TopK           int    `json:"top_k,omitempty"`           // Retrieval depth per ask
	HistoryBackend string `json:"history_backend,omitempty"` // "file" or "sqlite"
	HistoryPath    string `json:"history_path,omitempty"`    // Override for the history store location
	LogLevel       string `json:"log_level,omitempty"`       // zap level name
	LogFile        string `json:"log_file,omitempty"`        // Optional rotating log file
}

// Manager handles loading and saving the configuration file.
type Manager struct {
	configDir string
}

// NewManager creates a manager rooted at the user config directory.
func NewManager() (*Manager, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user config dir: %w", err)
	}
	return NewManagerAt(filepath.Join(configDir, "atlasq")), nil
}

// NewManagerAt creates a manager rooted at dir. Used by tests.
func NewManagerAt(dir string) *Manager {
	return &Manager{configDir: dir}
}

// GetConfigPath returns the absolute path to the config.json file.
func (m *Manager) GetConfigPath() string {
	return filepath.Join(m.configDir, "config.json")
}

// Dir returns the config directory, which also hosts the default
// history store.
func (m *Manager) Dir() string { return m.configDir }

// Load reads the configuration from disk.
// If the file does not exist, it returns an empty FileConfig and no error.
func (m *Manager) Load() (*FileConfig, error) {
	path := m.GetConfigPath()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &FileConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config json: %w", err)
	}

	return &cfg, nil
}

// Save writes the configuration to disk with restricted permissions (0600).
func (m *Manager) Save(cfg *FileConfig) error {
	if err := os.MkdirAll(m.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.GetConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Exists checks if the configuration file has been created.
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.GetConfigPath())
	return !os.IsNotExist(err)
}
