// Package config provides configuration for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Database   DatabaseConfig
	Server     ServerConfig
	Logging    LoggingConfig
	CORS       CORSConfig
	JWT        JWTConfig
	SMTP       SMTPConfig
	Drive      DriveConfig
	Metadata   MetadataConfig
	AppBaseURL string
	// VerificationTTL is how long an email verification link stays valid
	VerificationTTL time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// JWTConfig holds JWT token configuration
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

// SMTPConfig holds SMTP server configuration
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// DriveConfig holds Google Drive service account settings.
// Drive access granting is disabled when ServiceAccountFile is empty.
type DriveConfig struct {
	ServiceAccountFile string
	APIBaseURL         string
	Timeout            time.Duration
}

// MetadataConfig holds the endpoints of the public metadata APIs
type MetadataConfig struct {
	ITunesBaseURL      string
	ITunesCountry      string
	MusicBrainzBaseURL string
	CoverArtBaseURL    string
	WikidataBaseURL    string
	UserAgent          string
	Timeout            time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	godotenv.Load()

	cfg := &Config{}

	// Database configuration
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return nil, fmt.Errorf("DB_HOST is required")
	}
	cfg.Database.Host = dbHost

	dbPortStr := os.Getenv("DB_PORT")
	if dbPortStr == "" {
		return nil, fmt.Errorf("DB_PORT is required")
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort

	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	cfg.Database.User = dbUser

	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	cfg.Database.Password = dbPassword

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}
	cfg.Database.DBName = dbName

	// Server configuration
	serverPort, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.Server.Port = serverPort

	// Logging configuration
	cfg.Logging.Level = stringEnv("LOG_LEVEL", "info")

	// CORS configuration
	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	cfg.JWT.Secret = jwtSecret

	accessExpiry, err := durationEnv("JWT_ACCESS_TOKEN_EXPIRY", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.JWT.AccessTokenExpiry = accessExpiry

	// SMTP configuration
	cfg.SMTP.Host = stringEnv("SMTP_HOST", "localhost")
	smtpPort, err := intEnv("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}
	cfg.SMTP.Port = smtpPort
	cfg.SMTP.Username = os.Getenv("SMTP_USERNAME") // optional
	cfg.SMTP.Password = os.Getenv("SMTP_PASSWORD") // optional
	cfg.SMTP.From = stringEnv("SMTP_FROM", "noreply@karaoke.local")

	// Drive configuration (optional)
	cfg.Drive.ServiceAccountFile = os.Getenv("DRIVE_SERVICE_ACCOUNT_FILE")
	cfg.Drive.APIBaseURL = stringEnv("DRIVE_API_BASE_URL", "https://www.googleapis.com")
	driveTimeout, err := durationEnv("DRIVE_TIMEOUT", 20*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.Drive.Timeout = driveTimeout

	// Metadata lookup configuration
	cfg.Metadata.ITunesBaseURL = stringEnv("ITUNES_BASE_URL", "https://itunes.apple.com")
	cfg.Metadata.ITunesCountry = stringEnv("ITUNES_COUNTRY", "US")
	cfg.Metadata.MusicBrainzBaseURL = stringEnv("MUSICBRAINZ_BASE_URL", "https://musicbrainz.org")
	cfg.Metadata.CoverArtBaseURL = stringEnv("COVERART_BASE_URL", "https://coverartarchive.org")
	cfg.Metadata.WikidataBaseURL = stringEnv("WIKIDATA_BASE_URL", "https://www.wikidata.org")
	cfg.Metadata.UserAgent = stringEnv("METADATA_USER_AGENT", "KaraokeCatalog/1.0 (+https://github.com/karaokeos/backend)")
	metadataTimeout, err := durationEnv("METADATA_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.Metadata.Timeout = metadataTimeout

	cfg.AppBaseURL = strings.TrimRight(stringEnv("APP_BASE_URL", fmt.Sprintf("http://localhost:%d", cfg.Server.Port)), "/")

	verificationTTL, err := durationEnv("EMAIL_VERIFICATION_TTL", 48*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.VerificationTTL = verificationTTL

	return cfg, nil
}

// DSN returns the database connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&multiStatements=true&clientFoundRows=true",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
	)
}

// DriveEnabled reports whether a service account was configured
func (c *Config) DriveEnabled() bool {
	return c.Drive.ServiceAccountFile != ""
}

func stringEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

// parseOrigins splits a comma-separated origin list, defaulting to allow all
func parseOrigins(raw string) []string {
	if raw == "" {
		// Default to allow all origins if not specified (for development)
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, origin := range parts {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
