package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yigit/labmatch/internal/pkg/matching"
	"gopkg.in/yaml.v3"
)

// Store drivers
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port            string   `yaml:"port" env:"SERVER_PORT"`
		Mode            string   `yaml:"mode" env:"SERVER_MODE"`
		ShutdownTimeout string   `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
		AllowedOrigins  []string `yaml:"allowed_origins" env:"SERVER_ALLOWED_ORIGINS"`
	} `yaml:"server"`

	Store struct {
		Driver string `yaml:"driver" env:"STORE_DRIVER"`
	} `yaml:"store"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		QueryTimeout    string `yaml:"query_timeout" env:"DB_QUERY_TIMEOUT"`
		AutoMigrate     bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Matching matching.Weights `yaml:"matching"`

	Notifications struct {
		Timeout   string `yaml:"timeout" env:"NOTIFY_TIMEOUT"`
		Websocket struct {
			Enabled bool `yaml:"enabled" env:"NOTIFY_WS_ENABLED"`
		} `yaml:"websocket"`
		Redis struct {
			Enabled  bool   `yaml:"enabled" env:"NOTIFY_REDIS_ENABLED"`
			Addr     string `yaml:"addr" env:"REDIS_ADDR"`
			Password string `yaml:"password" env:"REDIS_PASSWORD"`
			DB       int    `yaml:"db" env:"REDIS_DB"`
			Channel  string `yaml:"channel" env:"NOTIFY_REDIS_CHANNEL"`
		} `yaml:"redis"`
		NATS struct {
			Enabled       bool   `yaml:"enabled" env:"NOTIFY_NATS_ENABLED"`
			URL           string `yaml:"url" env:"NATS_URL"`
			SubjectPrefix string `yaml:"subject_prefix" env:"NOTIFY_NATS_SUBJECT_PREFIX"`
		} `yaml:"nats"`
	} `yaml:"notifications"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED"`
		Path    string `yaml:"path" env:"METRICS_PATH"`
	} `yaml:"metrics"`

	Seed struct {
		Departments []DepartmentSeed `yaml:"departments"`
	} `yaml:"seed"`
}

// DepartmentSeed is a department ensured at startup
type DepartmentSeed struct {
	Name string `yaml:"name"`
	Code string `yaml:"code"`
}

// LoadConfig loads configuration from a file, a .env file next to the working
// directory and environment variables, in increasing precedence.
func LoadConfig(configPath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.ShutdownTimeout = "10s"
	config.Server.AllowedOrigins = []string{"*"}

	config.Store.Driver = StoreDriverPostgres

	// Database defaults
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "labmatch"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.QueryTimeout = "5s"
	config.Database.AutoMigrate = true

	// JWT defaults
	config.JWT.AccessTokenExpiration = "24h"
	config.JWT.Issuer = "labmatch.app"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Matching = matching.DefaultWeights()

	config.Notifications.Timeout = "3s"
	config.Notifications.Websocket.Enabled = true
	config.Notifications.Redis.Addr = "localhost:6379"
	config.Notifications.Redis.Channel = "labmatch.notifications"
	config.Notifications.NATS.URL = "nats://127.0.0.1:4222"
	config.Notifications.NATS.SubjectPrefix = "labmatch.notifications"

	config.Metrics.Enabled = true
	config.Metrics.Path = "/metrics"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Store.Driver {
	case StoreDriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", config.Store.Driver)
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	durations := map[string]string{
		"JWT access token expiration": config.JWT.AccessTokenExpiration,
		"database query timeout":      config.Database.QueryTimeout,
		"notification timeout":        config.Notifications.Timeout,
		"server shutdown timeout":     config.Server.ShutdownTimeout,
	}
	for name, value := range durations {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}

	if config.Matching.Base < 0 || config.Matching.FacultyMatch < 0 || config.Matching.ProjectMatch < 0 {
		return fmt.Errorf("matching weights must not be negative")
	}

	if config.Notifications.Redis.Enabled && config.Notifications.Redis.Addr == "" {
		return fmt.Errorf("redis address is required when the redis sink is enabled")
	}
	if config.Notifications.NATS.Enabled && config.Notifications.NATS.URL == "" {
		return fmt.Errorf("nats url is required when the nats sink is enabled")
	}

	for _, d := range config.Seed.Departments {
		if strings.TrimSpace(d.Name) == "" || strings.TrimSpace(d.Code) == "" {
			return fmt.Errorf("seed departments need both name and code")
		}
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// Duration parses a duration field, returning fallback when it is unset or invalid
func Duration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
