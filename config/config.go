package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"prode-app-go/logging"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Logging  LoggingConfig  `json:"logging"`
	Auth     AuthConfig     `json:"auth"`
	App      AppConfig      `json:"app"`
	Cache    CacheConfig    `json:"cache"`
	Events   EventsConfig   `json:"events"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string `json:"port"`
	Host        string `json:"host"`
	UseTLS      bool   `json:"use_tls"`
	BehindProxy bool   `json:"behind_proxy"`
	CertFile    string `json:"cert_file"`
	KeyFile     string `json:"key_file"`
	Environment string `json:"environment"`
}

// DatabaseConfig holds MongoDB configuration
type DatabaseConfig struct {
	Host     string        `json:"host"`
	Port     string        `json:"port"`
	Username string        `json:"username"`
	Password string        `json:"password"`
	Database string        `json:"database"`
	Timeout  time.Duration `json:"timeout"`

	// WatchChanges follows MongoDB change streams to keep cached standings
	// fresh across replicas; needs a replica set
	WatchChanges bool `json:"watch_changes"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string `json:"level"`
	Prefix      string `json:"prefix"`
	EnableColor bool   `json:"enable_color"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret   string        `json:"jwt_secret"`
	TokenExpiry time.Duration `json:"token_expiry"`

	// AdminEmails get admin rights when they register
	AdminEmails []string `json:"admin_emails"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	IsDevelopment bool `json:"is_development"`

	// AllowDemoStore lets the server fall back to the in-memory store when MongoDB is unreachable
	AllowDemoStore bool `json:"allow_demo_store"`

	// StatusSyncInterval is how often competition statuses are re-derived
	StatusSyncInterval time.Duration `json:"status_sync_interval"`
}

// CacheConfig sizes the standings cache
type CacheConfig struct {
	StandingsSize int           `json:"standings_size"`
	StandingsTTL  time.Duration `json:"standings_ttl"`
}

// EventsConfig configures winner-change publishing. Empty brokers disables Kafka.
type EventsConfig struct {
	KafkaBrokers string `json:"kafka_brokers"`
	WinnerTopic  string `json:"winner_topic"`
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logging.Warnf("Could not load .env file: %v", err)
	}

	environment := getEnv("ENVIRONMENT", "development")
	isDevelopment := strings.ToLower(environment) == "development"

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			UseTLS:      getBoolEnv("USE_TLS", false),
			BehindProxy: getBoolEnv("BEHIND_PROXY", false),
			CertFile:    getEnv("TLS_CERT_FILE", "server.crt"),
			KeyFile:     getEnv("TLS_KEY_FILE", "server.key"),
			Environment: environment,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "27017"),
			Username: getEnv("DB_USERNAME", ""),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "prode"),
			Timeout:  getDurationEnv("DB_TIMEOUT", 10*time.Second),

			WatchChanges: getBoolEnv("DB_WATCH_CHANGES", false),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Prefix:      getEnv("LOG_PREFIX", "prode"),
			EnableColor: getBoolEnv("LOG_COLOR", true),
		},
		Auth: AuthConfig{
			JWTSecret:   getEnv("JWT_SECRET", defaultJWTSecret),
			TokenExpiry: getDurationEnv("JWT_TOKEN_EXPIRY", 30*24*time.Hour),
			AdminEmails: getListEnv("ADMIN_EMAILS"),
		},
		App: AppConfig{
			IsDevelopment:  isDevelopment,
			AllowDemoStore: getBoolEnv("ALLOW_DEMO_STORE", isDevelopment),

			StatusSyncInterval: getDurationEnv("STATUS_SYNC_INTERVAL", time.Minute),
		},
		Cache: CacheConfig{
			StandingsSize: getIntEnv("STANDINGS_CACHE_SIZE", 256),
			StandingsTTL:  getDurationEnv("STANDINGS_CACHE_TTL", time.Minute),
		},
		Events: EventsConfig{
			KafkaBrokers: getEnv("KAFKA_BROKERS", ""),
			WinnerTopic:  getEnv("KAFKA_WINNER_TOPIC", "competition.winner-changed"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration for required fields and sensible values
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if c.Server.UseTLS && !c.Server.BehindProxy {
		if c.Server.CertFile == "" || c.Server.KeyFile == "" {
			return fmt.Errorf("TLS certificate and key files are required when USE_TLS=true")
		}
		if _, err := os.Stat(c.Server.CertFile); os.IsNotExist(err) {
			return fmt.Errorf("TLS certificate file not found: %s", c.Server.CertFile)
		}
		if _, err := os.Stat(c.Server.KeyFile); os.IsNotExist(err) {
			return fmt.Errorf("TLS key file not found: %s", c.Server.KeyFile)
		}
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.Port == "" {
		return fmt.Errorf("database port is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if c.Auth.JWTSecret == defaultJWTSecret && !c.App.IsDevelopment {
		return fmt.Errorf("JWT secret must be changed in production")
	}
	if c.Auth.TokenExpiry <= 0 {
		return fmt.Errorf("JWT token expiry must be positive, got: %s", c.Auth.TokenExpiry)
	}

	if c.App.StatusSyncInterval <= 0 {
		return fmt.Errorf("status sync interval must be positive, got: %s", c.App.StatusSyncInterval)
	}

	if c.Cache.StandingsSize <= 0 {
		return fmt.Errorf("standings cache size must be positive, got: %d", c.Cache.StandingsSize)
	}
	if c.Events.KafkaBrokers != "" && c.Events.WinnerTopic == "" {
		return fmt.Errorf("winner topic is required when KAFKA_BROKERS is set")
	}

	return nil
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

// EventsEnabled reports whether winner changes are published to Kafka
func (c *Config) EventsEnabled() bool {
	return c.Events.KafkaBrokers != ""
}

// LogConfiguration logs the current configuration (without sensitive data)
func (c *Config) LogConfiguration() {
	logging.Info("=== Application Configuration ===")
	logging.Infof("Server: %s (TLS: %t, Behind Proxy: %t, Environment: %s)",
		c.GetServerAddress(), c.Server.UseTLS, c.Server.BehindProxy, c.Server.Environment)
	logging.Infof("Database: %s:%s/%s (Username: %s, Auth: %t, WatchChanges: %t)",
		c.Database.Host, c.Database.Port, c.Database.Database,
		c.Database.Username, c.Database.Password != "", c.Database.WatchChanges)
	logging.Infof("Logging: Level=%s, Prefix=%s, Color=%t",
		c.Logging.Level, c.Logging.Prefix, c.Logging.EnableColor)
	logging.Infof("Auth: TokenExpiry=%s, Admins=%d", c.Auth.TokenExpiry, len(c.Auth.AdminEmails))
	logging.Infof("App: Development=%t, DemoStore=%t, StatusSync=%s",
		c.App.IsDevelopment, c.App.AllowDemoStore, c.App.StatusSyncInterval)
	logging.Infof("Cache: StandingsSize=%d, StandingsTTL=%s", c.Cache.StandingsSize, c.Cache.StandingsTTL)
	logging.Infof("Events: Enabled=%t, Brokers=%s, Topic=%s",
		c.EventsEnabled(), c.Events.KafkaBrokers, c.Events.WinnerTopic)
	logging.Info("================================")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getListEnv(key string) []string {
	var values []string
	for _, value := range strings.Split(os.Getenv(key), ",") {
		if value = strings.TrimSpace(value); value != "" {
			values = append(values, value)
		}
	}
	return values
}
