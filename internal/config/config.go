package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Covers
		Auth
		Log
	}

	HTTP struct {
		Host           string
		Port           int
		ReadTimeout    time.Duration
		WriteTimeout   time.Duration
		AllowedOrigins []string
	}
	Global struct {
		Environment     string
		ShutdownTimeout time.Duration
	}
	Database struct {
		Driver          string // postgres or sqlite
		URL             string // DSN for postgres, file path for sqlite
		MaxOpenConns    int
		MaxIdleConns    int
		ConnMaxLifetime time.Duration
		LogLevel        string
	}
	Covers struct {
		BaseURL string
		Timeout time.Duration
	}
	Auth struct {
		// HashPasswords stores bcrypt hashes instead of plaintext passwords.
		// Off by default: existing member rows hold plaintext.
		HashPasswords bool
		BcryptCost    int
	}
	Log struct {
		Level  string
		Format string // json or text
	}
)

func NewConfig() *Config {
	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8080)
	v.SetDefault("read_timeout", "15s")
	v.SetDefault("write_timeout", "15s")
	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("environment", "development")
	v.SetDefault("shutdown_timeout", "10s")

	v.SetDefault("database_driver", DriverPostgres)
	v.SetDefault("database_url", "")
	v.SetDefault("database_max_open_conns", 20)
	v.SetDefault("database_max_idle_conns", 10)
	v.SetDefault("database_conn_max_lifetime", "1h")
	v.SetDefault("database_log_level", "warn")

	v.SetDefault("book_cover_base_url", "")
	v.SetDefault("book_cover_timeout", "5s")

	v.SetDefault("auth_hash_passwords", false)
	v.SetDefault("auth_bcrypt_cost", 12)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	// A local .env file is optional; real environment variables win over it.
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	return v
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		HTTP: HTTP{
			Host:           v.GetString("HOST"),
			Port:           v.GetInt("PORT"),
			ReadTimeout:    v.GetDuration("READ_TIMEOUT"),
			WriteTimeout:   v.GetDuration("WRITE_TIMEOUT"),
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Global: Global{
			Environment:     v.GetString("ENVIRONMENT"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Database: Database{
			Driver:          strings.ToLower(v.GetString("DATABASE_DRIVER")),
			URL:             v.GetString("DATABASE_URL"),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DATABASE_CONN_MAX_LIFETIME"),
			LogLevel:        v.GetString("DATABASE_LOG_LEVEL"),
		},
		Covers: Covers{
			BaseURL: v.GetString("BOOK_COVER_BASE_URL"),
			Timeout: v.GetDuration("BOOK_COVER_TIMEOUT"),
		},
		Auth: Auth{
			HashPasswords: v.GetBool("AUTH_HASH_PASSWORDS"),
			BcryptCost:    v.GetInt("AUTH_BCRYPT_COST"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}

// Validate reports configuration that would keep the server from starting.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" {
			return errors.New("DATABASE_URL environment variable is required")
		}
	case DriverSQLite:
		if c.Database.URL == "" {
			return errors.New("DATABASE_URL must point to the sqlite database file")
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}
	if c.HTTP.Port <= 0 {
		return fmt.Errorf("invalid PORT %d", c.HTTP.Port)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
