package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ImportSheet points at a Google Sheet tab that can be imported from the CLI
// as an alternative to file upload.
type ImportSheet struct {
	SpreadsheetID string `yaml:"spreadsheetID" validate:"required"`
	Tab           string `yaml:"tab" validate:"required"`
}

// Config represents the application configuration
type Config struct {
	ListenAddr            string       `yaml:"listenAddr" validate:"required"`
	DatabaseURL           string       `yaml:"databaseURL" validate:"required"`
	JWTSecret             string       `yaml:"jwtSecret" validate:"required,min=16"`
	SessionTTLHours       int          `yaml:"sessionTTLHours" validate:"required,min=1"`
	GoogleCredentialsFile string       `yaml:"googleCredentialsFile,omitempty"`
	ImportSheet           *ImportSheet `yaml:"importSheet,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from sewa_config.yaml.
// It looks for the config file in the current directory first, then in the
// user's home directory. A .env file in the current directory, when present,
// is loaded first so ${VAR} references in the YAML can resolve.
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	// Secrets stay out of the YAML file; .env is optional
	godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// findConfigFile searches for sewa_config.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "sewa_config.yaml"

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
