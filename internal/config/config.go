package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerURL string
	Username  string
	Password  string
	Insecure  bool
}

// Load loads configuration from environment variables only.
func Load() (*Config, error) {
	return LoadWithFile("")
}

// LoadWithFile loads configuration from an optional .env file and environment variables.
func LoadWithFile(envFile string) (*Config, error) {
	// Attempt to load .env file if provided, but don't fail if it doesn't exist.
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		ServerURL: os.Getenv("LABDESKS_URL"),
		Username:  os.Getenv("LABDESKS_USERNAME"),
		Password:  os.Getenv("LABDESKS_PASSWORD"),
		Insecure:  parseInsecure(os.Getenv("LABDESKS_INSECURE")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required fields are set. Credentials are optional:
// without them the client can only reach the unauthenticated endpoints.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("LABDESKS_URL is required")
	}
	if c.Username == "" && c.Password != "" {
		return fmt.Errorf("LABDESKS_USERNAME is required when LABDESKS_PASSWORD is set")
	}
	if c.Username != "" && c.Password == "" {
		return fmt.Errorf("LABDESKS_PASSWORD is required when LABDESKS_USERNAME is set")
	}
	return nil
}

// HasCredentials reports whether a username/password pair was configured.
func (c *Config) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}

// parseInsecure converts a string to a boolean, defaulting to false.
func parseInsecure(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}
