package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pilab-dev/osm-auth/internal/osm"
	"github.com/spf13/viper"
)

// State store backends accepted by STATE_STORE.
const (
	StateStoreMemory = "memory"
	StateStoreRedis  = "redis"
)

var ErrInvalidStateStore = errors.New("STATE_STORE must be memory or redis")

// ServerConfig holds all configuration for the server.
// Tags use mapstructure for Viper unmarshalling.
type ServerConfig struct {
	HTTPPort    string `mapstructure:"HTTP_PORT"`
	MongoURI    string `mapstructure:"MONGO_URI"`
	MongoDBName string `mapstructure:"MONGO_DB_NAME"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	StateStore    string `mapstructure:"STATE_STORE"`

	LogLevel        string `mapstructure:"LOG_LEVEL"`
	LogPretty       bool   `mapstructure:"LOG_PRETTY"`
	OtelServiceName string `mapstructure:"OTEL_SERVICE_NAME"`
	// OTLP/HTTP collector URL. Empty exports spans to stdout.
	OtelExporterEndpoint string `mapstructure:"OTEL_EXPORTER_ENDPOINT"`

	// OSM OAuth2 client
	OSMServerURL       string        `mapstructure:"OSM_SERVER_URL"`
	OAuthClientID      string        `mapstructure:"OAUTH_CLIENT_ID"`
	OAuthClientSecret  string        `mapstructure:"OAUTH_CLIENT_SECRET"`
	OAuthRedirectURI   string        `mapstructure:"OAUTH_REDIRECT_URI"`
	OAuthScope         string        `mapstructure:"OAUTH_SCOPE"`
	OAuthAuthorizePath string        `mapstructure:"OAUTH_AUTHORIZE_PATH"`
	OAuthTokenPath     string        `mapstructure:"OAUTH_TOKEN_PATH"`
	OSMUserDetailsPath string        `mapstructure:"OSM_USER_DETAILS_PATH"`
	OSMRequestTimeout  time.Duration `mapstructure:"OSM_REQUEST_TIMEOUT"`
	OAuthStateTTL      time.Duration `mapstructure:"OAUTH_STATE_TTL"`
	OAuthRequireState  bool          `mapstructure:"OAUTH_REQUIRE_STATE"`

	// Session tokens are only issued when a secret is configured.
	SessionSecretKey string        `mapstructure:"SESSION_SECRET_KEY"`
	SessionTokenTTL  time.Duration `mapstructure:"SESSION_TOKEN_TTL"`
}

// LoadConfig reads configuration from file, environment variables, and defaults.
func LoadConfig() (*ServerConfig, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("/etc/osm-auth/")
	v.AddConfigPath("$HOME/.osm-auth")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine, env vars and defaults still apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017/osm_auth_dev")
	v.SetDefault("MONGO_DB_NAME", "osm_auth_dev")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("STATE_STORE", StateStoreMemory)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", true)
	v.SetDefault("OTEL_SERVICE_NAME", "osm-auth-server")
	v.SetDefault("OTEL_EXPORTER_ENDPOINT", "")

	v.SetDefault("OSM_SERVER_URL", "https://www.openstreetmap.org")
	v.SetDefault("OAUTH_CLIENT_ID", "")
	v.SetDefault("OAUTH_CLIENT_SECRET", "")
	v.SetDefault("OAUTH_REDIRECT_URI", "http://127.0.0.1:3000/authorized")
	v.SetDefault("OAUTH_SCOPE", "read_prefs")
	v.SetDefault("OAUTH_AUTHORIZE_PATH", osm.DefaultAuthorizePath)
	v.SetDefault("OAUTH_TOKEN_PATH", osm.DefaultTokenPath)
	v.SetDefault("OSM_USER_DETAILS_PATH", osm.DefaultUserDetailsPath)
	v.SetDefault("OSM_REQUEST_TIMEOUT", 10*time.Second)
	v.SetDefault("OAUTH_STATE_TTL", 10*time.Minute)
	v.SetDefault("OAUTH_REQUIRE_STATE", false)

	v.SetDefault("SESSION_SECRET_KEY", "")
	v.SetDefault("SESSION_TOKEN_TTL", 24*time.Hour)
}

// Validate checks the values that cannot be defaulted sensibly.
func (c *ServerConfig) Validate() error {
	switch c.StateStore {
	case StateStoreMemory, StateStoreRedis:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidStateStore, c.StateStore)
	}
	return nil
}

// OSMConfig returns the provider settings used by the login flow.
func (c *ServerConfig) OSMConfig() osm.Config {
	return osm.Config{
		ServerURL:       c.OSMServerURL,
		ClientID:        c.OAuthClientID,
		ClientSecret:    c.OAuthClientSecret,
		RedirectURI:     c.OAuthRedirectURI,
		Scopes:          osm.ParseScopes(c.OAuthScope),
		AuthorizePath:   c.OAuthAuthorizePath,
		TokenPath:       c.OAuthTokenPath,
		UserDetailsPath: c.OSMUserDetailsPath,
		RequestTimeout:  c.OSMRequestTimeout,
	}
}
