package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

var validEnvs = map[string]bool{
	"local": true,
	"alpha": true,
	"beta":  true,
	"prod":  true,
}

type Config struct {
	ServerPort string
	AppEnv     string
	LogLevel   string
	DB         DBConfig
	Session    SessionConfig
	Redis      RedisConfig
}

func (c Config) ParseLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q: %w", c.ServerPort, err)
	}
	if !validEnvs[c.AppEnv] {
		return fmt.Errorf("invalid APP_ENV %q: must be one of local, alpha, beta, prod", c.AppEnv)
	}
	if c.Session.Secret == "" && c.AppEnv != "local" {
		return fmt.Errorf("SESSION_SECRET is required in %s environment", c.AppEnv)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("invalid SESSION_TTL: must be positive")
	}
	return nil
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     d.Name,
		RawQuery: fmt.Sprintf("sslmode=%s", url.QueryEscape(d.SSLMode)),
	}
	return u.String()
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
	// CrossOrigin relaxes SameSite to None for a frontend served from a
	// different origin; that only works over HTTPS, so it also forces the
	// Secure cookie attribute.
	CrossOrigin bool
}

type RedisConfig struct {
	// Addr empty means session revocation falls back to the in-memory store.
	Addr     string
	Password string
	DB       int
}

func Load() Config {
	ttl := 24 * time.Hour
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			ttl = d
		}
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	appEnv := envOrDefault("APP_ENV", "local")

	return Config{
		ServerPort: envOrDefault("SERVER_PORT", "8080"),
		AppEnv:     appEnv,
		LogLevel:   envOrDefault("LOG_LEVEL", "info"),
		DB: DBConfig{
			Host:     envOrDefault("DB_HOST", "localhost"),
			Port:     envOrDefault("DB_PORT", "5432"),
			User:     envOrDefault("DB_USER", "taskboard"),
			Password: envOrDefault("DB_PASSWORD", "taskboard"),
			Name:     envOrDefault("DB_NAME", "taskboard"),
			SSLMode:  envOrDefault("DB_SSLMODE", "disable"),
		},
		Session: SessionConfig{
			Secret:      envOrDefault("SESSION_SECRET", localDevSecret(appEnv)),
			TTL:         ttl,
			CrossOrigin: strings.EqualFold(os.Getenv("SESSION_CROSS_ORIGIN"), "true"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
	}
}

// localDevSecret supplies a fixed secret for local runs only; Validate
// rejects an empty secret in every other environment.
func localDevSecret(appEnv string) string {
	if appEnv == "local" {
		return "taskboard-local-dev-secret"
	}
	return ""
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
