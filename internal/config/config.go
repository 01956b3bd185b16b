package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Log       LogConfig
	Analytics AnalyticsConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port            string `envconfig:"SERVER_PORT" default:"3000"`
	ShutdownTimeout int    `envconfig:"SHUTDOWN_TIMEOUT" default:"30"` // seconds
}

// DBConfig holds database-related configuration.
// WARNING: Default password is for local development only.
// In production, always set DB_PASSWORD via environment variable.
type DBConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        int    `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"` // CHANGE IN PRODUCTION
	Name        string `envconfig:"DB_NAME" default:"coupon_directory"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

// DSN returns the PostgreSQL connection string.
// Pool sizing parameters are only appended when set.
func (c DBConfig) DSN() string {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.sslMode())
	if c.MaxConns > 0 {
		dsn += fmt.Sprintf("&pool_max_conns=%d", c.MaxConns)
	}
	if c.MinConns > 0 {
		dsn += fmt.Sprintf("&pool_min_conns=%d", c.MinConns)
	}
	return dsn
}

func (c DBConfig) sslMode() string {
	if c.SSLMode == "" {
		return "disable"
	}
	return c.SSLMode
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// AnalyticsConfig holds tracking and reporting configuration.
type AnalyticsConfig struct {
	ChartWindowDays int `envconfig:"ANALYTICS_CHART_WINDOW_DAYS" default:"90"`
	TrackTimeout    int `envconfig:"ANALYTICS_TRACK_TIMEOUT" default:"5"`     // seconds
	DrainTimeout    int `envconfig:"ANALYTICS_DRAIN_TIMEOUT" default:"10"`    // seconds
	TrackRateLimit  int `envconfig:"ANALYTICS_TRACK_RATE_LIMIT" default:"200"` // requests per minute per IP
}

// TrackTimeoutDuration returns the per-event write budget for detached tracking.
func (c AnalyticsConfig) TrackTimeoutDuration() time.Duration {
	return time.Duration(c.TrackTimeout) * time.Second
}

// DrainTimeoutDuration returns how long shutdown waits for in-flight tracking writes.
func (c AnalyticsConfig) DrainTimeoutDuration() time.Duration {
	return time.Duration(c.DrainTimeout) * time.Second
}

// Load parses environment variables into the Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Analytics.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects non-positive analytics settings.
// fiber's limiter treats a zero max as "use the default".
func (c AnalyticsConfig) validate() error {
	checks := []struct {
		name  string
		value int
	}{
		{"ANALYTICS_CHART_WINDOW_DAYS", c.ChartWindowDays},
		{"ANALYTICS_TRACK_TIMEOUT", c.TrackTimeout},
		{"ANALYTICS_DRAIN_TIMEOUT", c.DrainTimeout},
		{"ANALYTICS_TRACK_RATE_LIMIT", c.TrackRateLimit},
	}
	for _, chk := range checks {
		if chk.value < 1 {
			return fmt.Errorf("%s must be at least 1, got %d", chk.name, chk.value)
		}
	}
	return nil
}
