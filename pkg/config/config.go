package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "EVENTSEARCH"

const redacted = "[REDACTED]"

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	APIs     APIConfig      `mapstructure:"apis" yaml:"apis"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics" yaml:"metrics"`
}

type ServerConfig struct {
	Port            string `mapstructure:"port" yaml:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout_seconds" yaml:"read_timeout_seconds"`
	WriteTimeout    int    `mapstructure:"write_timeout_seconds" yaml:"write_timeout_seconds"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout_seconds" yaml:"shutdown_timeout_seconds"`
}

// DatabaseConfig selects the favorites backend. Only the fields for the
// chosen driver are read.
type DatabaseConfig struct {
	Driver        string `mapstructure:"driver" yaml:"driver"`
	SQLitePath    string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	PostgresURL   string `mapstructure:"postgres_url" yaml:"postgres_url"`
	RedisURL      string `mapstructure:"redis_url" yaml:"redis_url"`
	RedisPrefix   string `mapstructure:"redis_prefix" yaml:"redis_prefix"`
	MongoURI      string `mapstructure:"mongo_uri" yaml:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database" yaml:"mongo_database"`
}

type APIConfig struct {
	Ticketmaster TicketmasterConfig `mapstructure:"ticketmaster" yaml:"ticketmaster"`
	Spotify      SpotifyConfig      `mapstructure:"spotify" yaml:"spotify"`
}

// TicketmasterConfig for Ticketmaster Discovery API
type TicketmasterConfig struct {
	APIKey  string `mapstructure:"api_key" yaml:"api_key"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// SpotifyConfig for Spotify Web API client credentials
type SpotifyConfig struct {
	ClientID     string `mapstructure:"client_id" yaml:"client_id"`
	ClientSecret string `mapstructure:"client_secret" yaml:"client_secret"`
	BaseURL      string `mapstructure:"base_url" yaml:"base_url"`
	TokenURL     string `mapstructure:"token_url" yaml:"token_url"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// Unprefixed variables honored for compatibility with common deployments.
var envAliases = map[string]string{
	"server.port":                "PORT",
	"database.mongo_uri":         "MONGO_URI",
	"apis.ticketmaster.api_key":  "TICKETMASTER_API_KEY",
	"apis.spotify.client_id":     "SPOTIFY_CLIENT_ID",
	"apis.spotify.client_secret": "SPOTIFY_CLIENT_SECRET",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout_seconds", 30)
	v.SetDefault("server.write_timeout_seconds", 30)
	v.SetDefault("server.shutdown_timeout_seconds", 30)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.sqlite_path", "favorites.db")
	v.SetDefault("database.postgres_url", "")
	v.SetDefault("database.redis_url", "")
	v.SetDefault("database.redis_prefix", "eventsearch")
	v.SetDefault("database.mongo_uri", "")
	v.SetDefault("database.mongo_database", "eventsearch")

	v.SetDefault("apis.ticketmaster.api_key", "")
	v.SetDefault("apis.ticketmaster.base_url", "https://app.ticketmaster.com/discovery/v2")
	v.SetDefault("apis.spotify.client_id", "")
	v.SetDefault("apis.spotify.client_secret", "")
	v.SetDefault("apis.spotify.base_url", "https://api.spotify.com/v1")
	v.SetDefault("apis.spotify.token_url", "https://accounts.spotify.com/api/token")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// New returns a viper instance with defaults and environment bindings.
// Environment variables override file values using the pattern
// EVENTSEARCH_SECTION_KEY.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, alias := range envAliases {
		v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), alias)
	}

	return v
}

// Load reads configuration from file and environment variables. An empty
// configPath searches ./eventsearch.yaml and tolerates its absence; an
// explicit path must exist.
func Load(configPath string) (*Config, error) {
	return LoadWith(New(), configPath)
}

func LoadWith(v *viper.Viper, configPath string) (*Config, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("eventsearch")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.Database.Driver = strings.ToLower(strings.TrimSpace(config.Database.Driver))
	return config, nil
}

// Validate checks that the selected storage driver has what it needs.
// Provider credentials are optional; the matching routes report 502 when
// they are missing.
func (c *Config) Validate() error {
	var missing []string

	if c.Server.Port == "" {
		missing = append(missing, "server.port")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.SQLitePath == "" {
			missing = append(missing, "database.sqlite_path")
		}
	case "postgres":
		if c.Database.PostgresURL == "" {
			missing = append(missing, "database.postgres_url")
		}
	case "redis":
		if c.Database.RedisURL == "" {
			missing = append(missing, "database.redis_url")
		}
	case "mongo":
		if c.Database.MongoURI == "" {
			missing = append(missing, "database.mongo_uri")
		}
		if c.Database.MongoDatabase == "" {
			missing = append(missing, "database.mongo_database")
		}
	case "", "none":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return nil
}

// HasTicketmaster reports whether event search can be served.
func (c *Config) HasTicketmaster() bool {
	return c.APIs.Ticketmaster.APIKey != ""
}

// HasSpotify reports whether artist enrichment can be served.
func (c *Config) HasSpotify() bool {
	return c.APIs.Spotify.ClientID != "" && c.APIs.Spotify.ClientSecret != ""
}

// Redacted returns a copy with secrets and credential-bearing URLs masked.
func (c Config) Redacted() Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return redacted
	}

	c.APIs.Ticketmaster.APIKey = mask(c.APIs.Ticketmaster.APIKey)
	c.APIs.Spotify.ClientSecret = mask(c.APIs.Spotify.ClientSecret)
	c.Database.PostgresURL = mask(c.Database.PostgresURL)
	c.Database.RedisURL = mask(c.Database.RedisURL)
	c.Database.MongoURI = mask(c.Database.MongoURI)
	return c
}

// YAML renders the redacted configuration.
func (c *Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c.Redacted())
	if err != nil {
		return nil, fmt.Errorf("failed to render config: %w", err)
	}
	return out, nil
}
