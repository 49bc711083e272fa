// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config is the process-wide configuration. It is read once at startup and
// never reloaded.
type Config struct {
	// Database server shared by every instance.
	Driver           string        `koanf:"db_driver"`
	Host             string        `koanf:"db_host"`
	User             string        `koanf:"db_user"`
	Password         string        `koanf:"db_password"`
	SSLMode          string        `koanf:"db_sslmode"`
	ConnectTimeout   time.Duration `koanf:"db_connect_timeout"`
	MaxConnections   int           `koanf:"db_max_connections"`
	AllowedInstances string        `koanf:"db_allowed_instances"`

	// HTTP listener and front-end bundle.
	Port      string `koanf:"port"`
	StaticDir string `koanf:"static_dir"`

	// Optional object storage for the front-end bundle.
	AssetsBucket    string `koanf:"assets_bucket"`
	AssetsEndpoint  string `koanf:"assets_s3_endpoint"`
	AssetsAccessKey string `koanf:"assets_s3_access_key"`
	AssetsSecretKey string `koanf:"assets_s3_secret_key"`

	LogFormat string `koanf:"log_format"`
	LogLevel  string `koanf:"log_level"`
}

// defaults mirrors the behaviour of the service when nothing is set.
var defaults = map[string]interface{}{
	"db_driver":          "mysql",
	"db_sslmode":         "disable",
	"db_connect_timeout": "10s",
	"db_max_connections": 50,
	"port":               "3000",
	"static_dir":         "public",
	"log_format":         "text",
	"log_level":          "info",
}

// Load reads defaults and then environment variables. Only the variables
// listed in Keys are consulted; everything else in the environment is ignored.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

// Keys lists the environment variables the service understands.
var Keys = []string{
	"DB_DRIVER", "DB_HOST", "DB_USER", "DB_PASSWORD", "DB_SSLMODE",
	"DB_CONNECT_TIMEOUT", "DB_MAX_CONNECTIONS", "DB_ALLOWED_INSTANCES",
	"PORT", "STATIC_DIR",
	"ASSETS_BUCKET", "ASSETS_S3_ENDPOINT", "ASSETS_S3_ACCESS_KEY", "ASSETS_S3_SECRET_KEY",
	"LOG_FORMAT", "LOG_LEVEL",
}

// envKey maps DB_HOST to db_host and drops unknown variables.
func envKey(s string) string {
	for _, key := range Keys {
		if s == key {
			return strings.ToLower(s)
		}
	}
	return ""
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

// Instances returns the configured instance allow-list. An empty result
// means every instance is accepted.
func (c *Config) Instances() []string {
	var out []string
	for _, name := range strings.Split(c.AllowedInstances, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// AssetsFromBucket reports whether the front-end bundle is read from object storage.
func (c *Config) AssetsFromBucket() bool {
	return c.AssetsBucket != ""
}
