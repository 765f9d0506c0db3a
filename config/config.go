package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"windfall/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds all application configuration
type Config struct {
	// HTTP server configuration
	ListenAddr    string // Address the HTTP server binds to
	CanonicalHost string // Host to redirect to when non-empty (e.g. "win.example.com")
	SessionSecret string // Key for the session cookie store

	// Admin panel configuration
	AdminUsername     string
	AdminPasswordHash string // bcrypt hash of the panel password

	// Window configuration
	DefaultWindowSeconds int64  // Window length used when an opening gives none
	WindowCron           string // Cron spec for scheduled openings, empty disables

	// Captcha configuration
	CaptchaSecret    string // Shared secret for the verification API, empty disables
	CaptchaVerifyURL string

	// Discord configuration
	DiscordToken     string // Bot token, empty disables announcements
	DiscordChannelID string // Channel announcements are posted to

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Environment
	Environment string // "development", "production" or "test"
	Debug       bool
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables
func load() (*Config, error) {
	// A local .env file supplements the environment when present
	_ = godotenv.Load()

	config := &Config{
		// HTTP server
		ListenAddr:    getEnvWithDefault("HTTP_LISTEN_ADDR", ":8080"),
		CanonicalHost: os.Getenv("CANONICAL_HOST"),
		SessionSecret: os.Getenv("SESSION_SECRET"),

		// Admin panel
		AdminUsername:     getEnvWithDefault("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		// Window settings with defaults
		DefaultWindowSeconds: 60,
		WindowCron:           os.Getenv("WINDOW_CRON"),

		// Captcha
		CaptchaSecret:    os.Getenv("CAPTCHA_SECRET"),
		CaptchaVerifyURL: getEnvWithDefault("CAPTCHA_VERIFY_URL", "https://api.hcaptcha.com/siteverify"),

		// Discord
		DiscordToken:     os.Getenv("DISCORD_TOKEN"),
		DiscordChannelID: os.Getenv("DISCORD_CHANNEL_ID"),

		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
		Debug:       os.Getenv("DEBUG") == "true",
	}

	// Override defaults if environment variables are set
	if seconds := os.Getenv("DEFAULT_WINDOW_SECONDS"); seconds != "" {
		if parsedSeconds, err := strconv.ParseInt(seconds, 10, 64); err == nil && parsedSeconds > 0 {
			config.DefaultWindowSeconds = parsedSeconds
		}
	}

	// A plain ADMIN_PASSWORD is hashed at load so the rest of the process only
	// ever sees the hash
	if config.AdminPasswordHash == "" {
		if password := os.Getenv("ADMIN_PASSWORD"); password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("failed to hash ADMIN_PASSWORD: %w", err)
			}
			config.AdminPasswordHash = string(hash)
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.SessionSecret == "" {
			return nil, fmt.Errorf("SESSION_SECRET is required")
		}
		if config.AdminPasswordHash == "" {
			return nil, fmt.Errorf("ADMIN_PASSWORD_HASH or ADMIN_PASSWORD is required")
		}
		// If DatabaseName is provided, ensure it's not empty
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		ListenAddr:           ":8080",
		SessionSecret:        "test-session-secret",
		AdminUsername:        "admin",
		DefaultWindowSeconds: 60,
		CaptchaVerifyURL:     "https://api.hcaptcha.com/siteverify",
		Environment:          "test",
	}
}
