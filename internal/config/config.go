package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds user preferences
type Config struct {
	ServerURL string `yaml:"server_url" json:"server_url"` // Sync server base URL

	// AI suggestion settings
	SuggestAPIKey string `yaml:"suggest_api_key" json:"suggest_api_key"` // API key for the suggestion service
	SuggestModel  string `yaml:"suggest_model" json:"suggest_model"`     // Model name sent to the suggestion service

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	logPath := ""
	if home != "" {
		logPath = filepath.Join(home, ".daygrid", "logs", "daygrid.log")
	}

	return &Config{
		ServerURL:     getEnv("DAYGRID_SERVER_URL", "http://localhost:8080"),
		SuggestAPIKey: getEnv("DAYGRID_SUGGEST_API_KEY", ""),
		SuggestModel:  getEnv("DAYGRID_SUGGEST_MODEL", "gemini-2.0-flash"),
		LogLevel:      getEnv("DAYGRID_LOG_LEVEL", "INFO"),
		LogFile:       getEnv("DAYGRID_LOG_FILE", logPath),
		LogConsole:    getEnv("DAYGRID_LOG_CONSOLE", "false") == "true",
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Dir returns the application data directory (~/.daygrid)
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".daygrid"), nil
}

// Load loads config from ~/.daygrid/config.yaml
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(dir, "config.yaml")

	// Check if exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Return defaults if no config
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save saves config to ~/.daygrid/config.yaml
func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(dir, "config.yaml")
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
