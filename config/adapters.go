package config

import (
	"os"

	"prode-app-go/database"
	"prode-app-go/logging"
	"prode-app-go/services"
)

// ToDatabaseConfig converts Config to database.Config
func (c *Config) ToDatabaseConfig() database.Config {
	return database.Config{
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		Username: c.Database.Username,
		Password: c.Database.Password,
		Database: c.Database.Database,
		Timeout:  c.Database.Timeout,
	}
}

// ToLoggingConfig converts Config to logging.Config
func (c *Config) ToLoggingConfig() logging.Config {
	return logging.Config{
		Level:       c.Logging.Level,
		Output:      os.Stdout,
		Prefix:      c.Logging.Prefix,
		EnableColor: c.Logging.EnableColor,
	}
}

// ToStandingsCacheConfig converts Config to services.StandingsCacheConfig
func (c *Config) ToStandingsCacheConfig() services.StandingsCacheConfig {
	return services.StandingsCacheConfig{
		Size: c.Cache.StandingsSize,
		TTL:  c.Cache.StandingsTTL,
	}
}
