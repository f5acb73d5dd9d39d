package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadTestConfig loads the configuration from the .env file or environment variables for integration tests
// If .env file doesn't exist or environment variables are not set, returns a Config with empty values
// which allows tests to skip database-backed cases
func LoadTestConfig() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist - it's optional)
	_ = godotenv.Load("./../../.env")
	_ = godotenv.Load()

	cfg := &Config{}
	dbHost := os.Getenv("TEST_DB_HOST")
	if dbHost == "" {
		return cfg, nil
	}
	cfg.Database.Host = dbHost

	dbPortStr := os.Getenv("TEST_DB_PORT")
	if dbPortStr == "" {
		return cfg, nil
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid TEST_DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort

	cfg.Database.User = os.Getenv("TEST_DB_USER")
	cfg.Database.Password = os.Getenv("TEST_DB_PASSWORD")
	cfg.Database.DBName = os.Getenv("TEST_DB_NAME")
	if cfg.Database.User == "" || cfg.Database.DBName == "" {
		return &Config{}, nil
	}

	return cfg, nil
}

// HasDatabase reports whether database settings were provided
func (c *Config) HasDatabase() bool {
	return c.Database.Host != "" && c.Database.DBName != ""
}
