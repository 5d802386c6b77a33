package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration structure. It covers
// both roles of the binary: the page server and the reader.
type Config struct {
	Server struct {
		Address   string `yaml:"address"`    // Listen address for the page server
		AssetsDir string `yaml:"assets_dir"` // Directory holding manga.json, cover.jpg, images/
	} `yaml:"server"`
	Reader struct {
		ServerURL   string `yaml:"server_url"`   // Websocket URL of the page server
		WindowSize  int    `yaml:"window_size"`  // Pages kept in memory, odd, >= 3
		PageHeight  int    `yaml:"page_height"`  // Display height of one page in terminal rows
		CallTimeout int    `yaml:"call_timeout"` // Per-RPC timeout in seconds
	} `yaml:"reader"`
	Settings struct {
		Debug bool `yaml:"debug"` // Enable debug logging
	} `yaml:"settings"`
}

// LoadConfig loads configuration from the default location
// (~/.config/mangaread/config.yaml).
func LoadConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(home, ".config", "mangaread", "config.yaml")
	return LoadConfigFile(configPath)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	// Start with default configuration
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if file doesn't exist
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if tempCfg.Server.Address != "" {
		cfg.Server.Address = tempCfg.Server.Address
	}
	if tempCfg.Server.AssetsDir != "" {
		cfg.Server.AssetsDir = tempCfg.Server.AssetsDir
	}
	if tempCfg.Reader.ServerURL != "" {
		cfg.Reader.ServerURL = tempCfg.Reader.ServerURL
	}
	if tempCfg.Reader.WindowSize != 0 {
		cfg.Reader.WindowSize = tempCfg.Reader.WindowSize
	}
	if tempCfg.Reader.PageHeight != 0 {
		cfg.Reader.PageHeight = tempCfg.Reader.PageHeight
	}
	if tempCfg.Reader.CallTimeout != 0 {
		cfg.Reader.CallTimeout = tempCfg.Reader.CallTimeout
	}
	cfg.Settings.Debug = tempCfg.Settings.Debug

	// Validate the final configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Server.Address = "localhost:8080"
	cfg.Server.AssetsDir = "assets"

	cfg.Reader.ServerURL = "ws://localhost:8080/ws"
	cfg.Reader.WindowSize = 3  // Reference window size
	cfg.Reader.PageHeight = 12 // Rows per page in the reading view
	cfg.Reader.CallTimeout = 10

	cfg.Settings.Debug = false

	return cfg
}

// Validate checks if the configuration is valid.
// Returns error if any settings are invalid.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}

	if c.Server.Address == "" {
		return fmt.Errorf("server address is required")
	}
	if c.Reader.ServerURL == "" {
		return fmt.Errorf("reader server_url is required")
	}

	// The window must have a center page with equal headroom on each side
	if c.Reader.WindowSize < 3 || c.Reader.WindowSize%2 == 0 {
		return fmt.Errorf("window_size must be an odd number >= 3, got %d", c.Reader.WindowSize)
	}

	if c.Reader.PageHeight < 2 {
		return fmt.Errorf("page_height must be >= 2 rows, got %d", c.Reader.PageHeight)
	}

	if c.Reader.CallTimeout < 1 {
		return fmt.Errorf("call_timeout must be >= 1 second, got %d", c.Reader.CallTimeout)
	}

	return nil
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}
