package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the site
type Config struct {
	// Server configuration
	Server ServerConfig

	// Backend REST API configuration
	API APIConfig

	// Admin session configuration
	Session SessionConfig

	// Lead journal database configuration (optional)
	Database DatabaseConfig

	// CORS configuration for the public JSON endpoints
	CORS CORSConfig

	// Rate limiting for lead forms and login
	RateLimit RateLimitConfig

	// Site content configuration
	Site SiteConfig

	// Admin upload configuration
	Uploads UploadConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// APIConfig points at the external booking backend
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig holds the admin cookie settings
type SessionConfig struct {
	Secret     string
	Expiry     time.Duration
	CookieName string
	Secure     bool
}

// DatabaseConfig holds database-related configuration.
// An empty URL disables the lead journal.
type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// RateLimitConfig limits form submissions per client IP
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// SiteConfig holds content settings shared by the pages
type SiteConfig struct {
	WhatsAppNumber     string
	StaticDir          string
	DefaultBackgrounds map[string]string // page name -> bundled image path
}

// UploadConfig controls how staged admin photos are normalised
type UploadConfig struct {
	MaxPhotoWidth int
	MaxUploadMB   int
}

// DefaultBackground is used for pages without their own bundled image.
const DefaultBackground = "/static/img/mekkahfullscreen.jpg"

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(getEnv("API_BASE_URL", ""), "/"),
			Timeout: time.Duration(getEnvAsInt("API_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", ""),
			Expiry:     time.Duration(getEnvAsInt("SESSION_EXPIRY", 43200)) * time.Second,
			CookieName: getEnv("SESSION_COOKIE_NAME", "session"),
			Secure:     getEnvAsBool("SESSION_COOKIE_SECURE", false),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 5),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 2),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type"}),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 10),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 3),
		},
		Site: SiteConfig{
			WhatsAppNumber: getEnv("WHATSAPP_NUMBER", "+32465349779"),
			StaticDir:      getEnv("STATIC_DIR", "./static"),
			DefaultBackgrounds: map[string]string{
				"home":           getEnv("BACKGROUND_HOME", "/static/img/hero.jpg"),
				"umrah":          getEnv("BACKGROUND_UMRAH", DefaultBackground),
				"services":       getEnv("BACKGROUND_SERVICES", DefaultBackground),
				"contact":        getEnv("BACKGROUND_CONTACT", DefaultBackground),
				"aboutus":        getEnv("BACKGROUND_ABOUTUS", DefaultBackground),
				"custom-package": getEnv("BACKGROUND_CUSTOM_PACKAGE", DefaultBackground),
			},
		},
		Uploads: UploadConfig{
			MaxPhotoWidth: getEnvAsInt("UPLOAD_MAX_PHOTO_WIDTH", 1920),
			MaxUploadMB:   getEnvAsInt("UPLOAD_MAX_MB", 32),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}

	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("API_BASE_URL must start with http:// or https://")
	}

	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}

	return nil
}

// JournalEnabled reports whether lead submissions are recorded locally
func (c *Config) JournalEnabled() bool {
	return c.Database.URL != ""
}

// BackgroundFor returns the bundled image for a page name
func (s SiteConfig) BackgroundFor(pageName string) string {
	if path, ok := s.DefaultBackgrounds[pageName]; ok && path != "" {
		return path
	}
	return DefaultBackground
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid boolean value for %s, using default: %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
