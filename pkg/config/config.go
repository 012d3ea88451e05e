package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	SessionBackendCookie = "cookie"
	SessionBackendRedis  = "redis"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string

	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Only enable behind a proxy that overwrites those headers.
	TrustProxy bool
}

type DatabaseConfig struct {
	Driver         string
	SQLiteLocation string
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	SSLMode        string
	AutoMigrate    bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
}

type SessionConfig struct {
	SecretKey   string
	Name        string
	Backend     string
	MaxAgeHours int
	Secure      bool
}

type RateLimitConfig struct {
	Requests      int
	WindowSeconds int
}

type CORSConfig struct {
	AllowedOrigins []string
}

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func (s *SessionConfig) MaxAge() time.Duration {
	return time.Duration(s.MaxAgeHours) * time.Hour
}

func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s *ServerConfig) IsDevelopment() bool {
	return s.Env == "development"
}

func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 5000)
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("TRUST_PROXY", false)
	v.SetDefault("DATABASE_DRIVER", DriverSQLite)
	v.SetDefault("SQLITE_LOCATION", ".")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "raidfinder")
	v.SetDefault("DATABASE_PASSWORD", "raidfinder_secret")
	v.SetDefault("DATABASE_NAME", "raidfinder")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_AUTO_MIGRATE", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("SECRET_KEY", "change-me-in-production")
	v.SetDefault("SESSION_NAME", "raidfinder_session")
	v.SetDefault("SESSION_BACKEND", SessionBackendCookie)
	v.SetDefault("SESSION_MAX_AGE_HOURS", 24*7)
	v.SetDefault("SESSION_SECURE", false)
	v.SetDefault("RATE_LIMIT_REQUESTS", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")

	// Load from .env file if present
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Override with environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
			Env:  v.GetString("SERVER_ENV"),

			TrustProxy: v.GetBool("TRUST_PROXY"),
		},
		Database: DatabaseConfig{
			Driver:         strings.ToLower(v.GetString("DATABASE_DRIVER")),
			SQLiteLocation: v.GetString("SQLITE_LOCATION"),
			Host:           v.GetString("DATABASE_HOST"),
			Port:           v.GetInt("DATABASE_PORT"),
			User:           v.GetString("DATABASE_USER"),
			Password:       v.GetString("DATABASE_PASSWORD"),
			Name:           v.GetString("DATABASE_NAME"),
			SSLMode:        v.GetString("DATABASE_SSLMODE"),
			AutoMigrate:    v.GetBool("DATABASE_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		Session: SessionConfig{
			SecretKey:   v.GetString("SECRET_KEY"),
			Name:        v.GetString("SESSION_NAME"),
			Backend:     strings.ToLower(v.GetString("SESSION_BACKEND")),
			MaxAgeHours: v.GetInt("SESSION_MAX_AGE_HOURS"),
			Secure:      v.GetBool("SESSION_SECURE"),
		},
		RateLimit: RateLimitConfig{
			Requests:      v.GetInt("RATE_LIMIT_REQUESTS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.Database.Driver)
	}
	switch c.Session.Backend {
	case SessionBackendCookie, SessionBackendRedis:
	default:
		return fmt.Errorf("SESSION_BACKEND must be %q or %q, got %q", SessionBackendCookie, SessionBackendRedis, c.Session.Backend)
	}
	if c.Session.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is required")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
