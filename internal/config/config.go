package config

import (
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Log               LogConfig         `yaml:"log"`
	Database          DatabaseConfig    `yaml:"database"`
	Content           ContentConfig     `yaml:"content"`
	EventBus          EventBusConfig    `yaml:"eventbus"`
	Script            string            `yaml:"script"`
	InfoFormat        map[string]string `yaml:"info_format"`         // option id -> detail format
	PrimaryInfoFormat map[string]string `yaml:"primary_info_format"` // option id -> summary format
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Colors bool   `yaml:"colors"`
	JSON   bool   `yaml:"json"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ContentConfig points at the part and resource definitions
type ContentConfig struct {
	Dir string `yaml:"dir"`
}

// EventBusConfig contains event bus settings
type EventBusConfig struct {
	Workers   int `yaml:"workers"`    // 0 = deliver on the caller (default)
	QueueSize int `yaml:"queue_size"` // Event queue size when pooled (default: 100)
}

// GetQueueSize returns queue size with default
func (c *EventBusConfig) GetQueueSize() int {
	if c.QueueSize <= 0 {
		return 100
	}
	return c.QueueSize
}

// GetLevel returns the log level with default
func (c *LogConfig) GetLevel() string {
	if c.Level == "" {
		return "info"
	}
	return strings.ToLower(c.Level)
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses configuration from YAML, expanding environment variables first.
func Parse(data []byte) (*Config, error) {
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./fuelswitch.sqlite"
	}
	if cfg.Content.Dir == "" {
		cfg.Content.Dir = "./content"
	}
	if cfg.Script == "" {
		cfg.Script = "session.lua"
	}
	if cfg.InfoFormat == nil {
		cfg.InfoFormat = map[string]string{}
	}
	if cfg.PrimaryInfoFormat == nil {
		cfg.PrimaryInfoFormat = map[string]string{}
	}

	return &cfg, nil
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	re := regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

	return re.ReplaceAllStringFunc(input, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}
