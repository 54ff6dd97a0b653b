package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Config holds application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Repository RepositoryConfig `mapstructure:"repository"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Notifier   NotifierConfig   `mapstructure:"notifier"`
}

// Validate ensures required fields are present and reports every problem at once.
func (c Config) Validate() error {
	var errs *multierror.Error
	if c.Server.Port == 0 {
		errs = multierror.Append(errs, errors.New("server.port is required"))
	}
	switch c.Repository.Backend {
	case "memory":
	case "postgres":
		if c.Postgres.User == "" || c.Postgres.Password == "" || c.Postgres.DBName == "" {
			errs = multierror.Append(errs, errors.New("postgres credentials are required"))
		}
		if c.Postgres.Host == "" {
			errs = multierror.Append(errs, errors.New("postgres.host is required"))
		}
	default:
		errs = multierror.Append(errs, fmt.Errorf("repository.backend %q is not supported", c.Repository.Backend))
	}
	if len(c.Auth.JWTSecret) < 16 {
		errs = multierror.Append(errs, errors.New("auth.jwt_secret must be at least 16 bytes"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = multierror.Append(errs, errors.New("auth.token_ttl must be positive"))
	}
	if c.Notifier.BufferSize < 0 || c.Notifier.Workers <= 0 {
		errs = multierror.Append(errs, errors.New("notifier.buffer_size must be >= 0 and notifier.workers > 0"))
	}
	return errs.ErrorOrNil()
}

// ServerAddr returns host:port for HTTP server binding.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ServerConfig contains HTTP server options.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RepositoryConfig selects the storage backend.
type RepositoryConfig struct {
	Backend string `mapstructure:"backend"`
}

// HTTPConfig contains transport settings.
type HTTPConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LoggingConfig contains logger preferences.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// AuthConfig contains bearer token settings.
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// NotifierConfig sizes the asynchronous notification dispatcher.
type NotifierConfig struct {
	BufferSize int `mapstructure:"buffer_size"`
	Workers    int `mapstructure:"workers"`
}

// PostgresConfig describes database connection parameters.
type PostgresConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	DBName         string        `mapstructure:"db_name"`
	SSLMode        string        `mapstructure:"ssl_mode"`
	MigrationsDir  string        `mapstructure:"migrations_dir"`
	MigrateTimeout time.Duration `mapstructure:"migrate_timeout"`
	QueryTimeout   time.Duration `mapstructure:"query_timeout"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	MaxConns       int32         `mapstructure:"max_conns"`
	MinConns       int32         `mapstructure:"min_conns"`
}

// DSN returns a Postgres connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode,
	)
}
