// Package config manages environment variables.
//
// It reads variables from the process environment (and from a `.env`
// file when one exists), loads them into structured Go types, and
// validates that required values are present so they can be reused
// across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (e.g. observability).
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before any of the providers below read it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

/*
	Two env sources are layered with koanf:

	1. Legacy, unprefixed variables kept for compatibility with existing
	   deployments: PORT, DB_USER, DB_PASSWORD, DB_SERVER, DB_NAME, DB_PORT.
	2. Prefixed variables: ROWBOARD_<SECTION>__<KEY>. A double underscore
	   separates nesting levels, single underscores stay inside the key.
	   e.g. ROWBOARD_DATABASE__MAX_OPEN_CONNS -> database.max_open_conns

	The prefixed source is loaded last and wins over the legacy one.
*/

// EnvPrefix is the prefix of the application's own environment variables.
const EnvPrefix = "ROWBOARD_"

// legacyKeys maps the unprefixed variables onto koanf key paths.
var legacyKeys = map[string]string{
	"PORT":        "server.port",
	"DB_USER":     "database.user",
	"DB_PASSWORD": "database.password",
	"DB_SERVER":   "database.host",
	"DB_NAME":     "database.name",
	"DB_PORT":     "database.port",
}

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf maps values from.
// The `validate:"..."` tags are enforced by go-playground/validator.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at runtime.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required,min=1"`

	// RateLimit is the number of requests per second allowed per client IP.
	// Zero disables rate limiting.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
//
// SSLMode defaults to "require": the connection is encrypted but the
// server certificate is not verified.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required,min=1,max=65535"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required,oneof=disable allow prefer require verify-ca verify-full"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required,min=1"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required,min=1"`

	// AutoMigrate applies the embedded schema migrations during startup.
	AutoMigrate bool `koanf:"auto_migrate"`
}

// DSN builds the postgres URL for this configuration.
// The user and password are URL-escaped so special characters can't break it.
func (d DatabaseConfig) DSN() string {
	hostPort := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))

	return fmt.Sprintf("postgres://%s@%s/%s?sslmode=%s",
		url.UserPassword(d.User, d.Password).String(),
		hostPort,
		url.PathEscape(d.Name),
		d.SSLMode,
	)
}

// RedisConfig contains Redis connection details.
// An empty Address disables the leaderboard cache.
type RedisConfig struct {
	Address        string        `koanf:"address"`
	Password       string        `koanf:"password"`
	DB             int           `koanf:"db" validate:"min=0"`
	LeaderboardTTL time.Duration `koanf:"leaderboard_ttl" validate:"min=0"`
}

// Enabled reports whether a Redis address has been configured.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// DefaultConfig returns the configuration used for every key the
// environment does not set.
func DefaultConfig() *Config {
	return &Config{
		Primary: Primary{
			Env: "development",
		},
		Server: ServerConfig{
			Port:               "5001",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			Name:            "rowboard",
			SSLMode:         "require",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			ConnMaxIdleTime: 60,
		},
		Redis: RedisConfig{
			LeaderboardTTL: 5 * time.Minute,
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// legacyKey maps an unprefixed env var name onto its koanf key.
// Unknown names map to "" which makes the env provider skip them.
func legacyKey(s string) string {
	return legacyKeys[s]
}

// listKeys are decoded from comma separated values.
var listKeys = map[string]bool{
	"server.cors_allowed_origins": true,
}

// prefixedKey turns ROWBOARD_DATABASE__MAX_OPEN_CONNS into database.max_open_conns.
func prefixedKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// prefixedValue maps a prefixed env var onto its key and splits list values.
func prefixedValue(s, v string) (string, any) {
	key := prefixedKey(s)
	if !listKeys[key] {
		return key, v
	}

	var items []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

// Load reads the environment into a Config, applies defaults and validates the result.
//
// Unlike LoadConfig it never exits the process, which keeps it usable from tests.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(env.Provider("", ".", legacyKey), nil); err != nil {
		return nil, fmt.Errorf("loading legacy env variables: %w", err)
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", prefixedValue), nil); err != nil {
		return nil, fmt.Errorf("loading %s env variables: %w", EnvPrefix, err)
	}

	// Unmarshal on top of the defaults. Keys that are not present in koanf
	// leave the default values untouched.
	mainConfig := DefaultConfig()
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment always follow the primary config so
	// logs and traces are labelled consistently.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// LoadConfig loads the configuration and logs fatally on any error.
//
// It is meant for process startup only: a service with a broken config
// should never begin serving requests.
func LoadConfig() *Config {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("could not load config")
	}

	return cfg
}
