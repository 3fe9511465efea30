package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Database  DatabaseConfig
	Redis     RedisConfig
	Server    ServerConfig
	Slack     SlackConfig
	Session   SessionConfig
	Log       LogConfig
	RateLimit RateLimitConfig

	// CatalogPath replaces the built-in emote catalog when set.
	CatalogPath string
	SelfHosted  bool
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings. An empty Addr keeps session
// routing in process, which only works with a single replica.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// Enabled reports whether interactions are routed through Redis.
func (c *RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

// SlackConfig holds Slack integration settings.
type SlackConfig struct {
	BotToken      string
	SigningSecret string
}

// Validate checks the settings needed to serve Slack traffic.
func (c *SlackConfig) Validate() error {
	if c.BotToken == "" {
		return errors.New("EMOTEBOT_SLACK_BOT_TOKEN is required")
	}
	if c.SigningSecret == "" {
		return errors.New("EMOTEBOT_SLACK_SIGNING_SECRET is required")
	}
	return nil
}

// SessionConfig bounds interactive selection sessions.
type SessionConfig struct {
	Timeout   time.Duration
	MaxEvents int
}

// LogConfig selects the log level and output format ("json" or "text").
type LogConfig struct {
	Level  string
	Format string
}

// RateLimitConfig limits Slack webhook traffic per workspace.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only. In production,
// the DB password and SSL mode must be set explicitly.
func Load() (*Config, error) {
	dbPort, err := getEnvInt("EMOTEBOT_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("EMOTEBOT_DB_MAX_CONNS", 10)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("EMOTEBOT_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("EMOTEBOT_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("EMOTEBOT_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	shutdownTimeout, err := getEnvDuration("EMOTEBOT_SERVER_SHUTDOWN_TIMEOUT", 90*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	sessionTimeout, err := getEnvDuration("EMOTEBOT_SESSION_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	maxEvents, err := getEnvInt("EMOTEBOT_SESSION_MAX_EVENTS", 20)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rps, err := getEnvFloat("EMOTEBOT_RATE_LIMIT_RPS", 10)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	burst, err := getEnvInt("EMOTEBOT_RATE_LIMIT_BURST", 20)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	selfHosted, err := getEnvBool("EMOTEBOT_SELF_HOSTED", false)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	corsOrigins := getEnvList("EMOTEBOT_CORS_ORIGINS", []string{"http://localhost:5173"})

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("EMOTEBOT_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("EMOTEBOT_DB_USER", "emotebot"),
			Password: getEnv("EMOTEBOT_DB_PASSWORD", ""),
			DBName:   getEnv("EMOTEBOT_DB_NAME", "emotebot_dev"),
			SSLMode:  getEnv("EMOTEBOT_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("EMOTEBOT_REDIS_ADDR", ""),
			Password: getEnv("EMOTEBOT_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Server: ServerConfig{
			Addr:            getEnv("EMOTEBOT_SERVER_ADDR", ":8080"),
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			ShutdownTimeout: shutdownTimeout,
			CORSOrigins:     corsOrigins,
		},
		Slack: SlackConfig{
			BotToken:      getEnv("EMOTEBOT_SLACK_BOT_TOKEN", ""),
			SigningSecret: getEnv("EMOTEBOT_SLACK_SIGNING_SECRET", ""),
		},
		Session: SessionConfig{
			Timeout:   sessionTimeout,
			MaxEvents: maxEvents,
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("EMOTEBOT_LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("EMOTEBOT_LOG_FORMAT", "json")),
		},
		RateLimit: RateLimitConfig{
			RPS:   rps,
			Burst: burst,
		},
		CatalogPath: getEnv("EMOTEBOT_CATALOG_PATH", ""),
		SelfHosted:  selfHosted,
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	// DB SSL mode warning for non-self-hosted deployments.
	if c.Database.SSLMode == "disable" && !c.SelfHosted {
		log.Warn().Msg("EMOTEBOT_DB_SSLMODE=disable is insecure for production; set to 'require' or 'verify-full'")
	}

	// Bounds checks.
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("EMOTEBOT_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("EMOTEBOT_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("EMOTEBOT_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("EMOTEBOT_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("EMOTEBOT_SERVER_SHUTDOWN_TIMEOUT must be positive, got %s", c.Server.ShutdownTimeout)
	}
	if c.Session.Timeout <= 0 {
		return fmt.Errorf("EMOTEBOT_SESSION_TIMEOUT must be positive, got %s", c.Session.Timeout)
	}
	if c.Session.MaxEvents < 1 {
		return fmt.Errorf("EMOTEBOT_SESSION_MAX_EVENTS must be >= 1, got %d", c.Session.MaxEvents)
	}
	if c.RateLimit.RPS <= 0 {
		return fmt.Errorf("EMOTEBOT_RATE_LIMIT_RPS must be positive, got %g", c.RateLimit.RPS)
	}
	if c.RateLimit.Burst < 1 {
		return fmt.Errorf("EMOTEBOT_RATE_LIMIT_BURST must be >= 1, got %d", c.RateLimit.Burst)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("EMOTEBOT_LOG_LEVEL: %w", err)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("EMOTEBOT_LOG_FORMAT must be json or text, got %q", c.Log.Format)
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as float: %w", key, v, err)
	}
	return f, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
