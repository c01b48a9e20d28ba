// Package config resolves settings from flags, HOMELEDGER_* environment
// variables and an optional config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "HOMELEDGER"

const (
	KeyConfig        = "config"
	KeyDB            = "db"
	KeyAddr          = "addr"
	KeyServer        = "server"
	KeyToken         = "token"
	KeyJWTSecret     = "jwt-secret"
	KeyTokenTTL      = "token-ttl"
	KeyRedisURL      = "redis-url"
	KeyQuoteCacheTTL = "quote-cache-ttl"
	KeyCORSOrigins   = "cors-origins"
	KeyLogLevel      = "log-level"
	KeyLogFormat     = "log-format"
	KeyLogFile       = "log-file"
)

type Config struct {
	DB            string
	Addr          string
	Server        string
	Token         string
	JWTSecret     string
	TokenTTL      time.Duration
	RedisURL      string
	QuoteCacheTTL time.Duration
	CORSOrigins   []string
	LogLevel      string
	LogFormat     string
	LogFile       string
}

// RegisterFlags adds every setting as a flag on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(KeyConfig, "", "Config file (yaml, toml or json)")
	fs.String(KeyDB, "homeledger.db", "SQLite database path")
	fs.String(KeyAddr, ":8888", "Listen address for serve")
	fs.String(KeyServer, "http://localhost:8888", "Server address for client commands")
	fs.String(KeyToken, "", "Bearer token for client commands")
	fs.String(KeyJWTSecret, "", "Secret used to sign and verify session tokens")
	fs.Duration(KeyTokenTTL, 30*24*time.Hour, "Lifetime of tokens minted by the token command")
	fs.String(KeyRedisURL, "", "Redis URL for the quote cache (disabled when empty)")
	fs.Duration(KeyQuoteCacheTTL, 5*time.Minute, "How long a cached latest quote stays valid")
	fs.StringSlice(KeyCORSOrigins, []string{"*"}, "Allowed CORS origins")
	fs.String(KeyLogLevel, "info", "Log level (debug, info, warn, error)")
	fs.String(KeyLogFormat, "console", "Log format (console or json)")
	fs.String(KeyLogFile, "", "Append logs to this file instead of stderr")
}

// Load resolves the configuration for fs. Flags that were set explicitly win
// over the environment, which wins over the config file and flag defaults.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if file := v.GetString(KeyConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := &Config{
		DB:            v.GetString(KeyDB),
		Addr:          v.GetString(KeyAddr),
		Server:        strings.TrimRight(v.GetString(KeyServer), "/"),
		Token:         v.GetString(KeyToken),
		JWTSecret:     v.GetString(KeyJWTSecret),
		TokenTTL:      v.GetDuration(KeyTokenTTL),
		RedisURL:      v.GetString(KeyRedisURL),
		QuoteCacheTTL: v.GetDuration(KeyQuoteCacheTTL),
		CORSOrigins:   v.GetStringSlice(KeyCORSOrigins),
		LogLevel:      v.GetString(KeyLogLevel),
		LogFormat:     v.GetString(KeyLogFormat),
		LogFile:       v.GetString(KeyLogFile),
	}
	return cfg, cfg.Validate()
}

var ErrInvalidConfig = errors.New("invalid config")

func (c *Config) Validate() error {
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("%w: token ttl must be positive", ErrInvalidConfig)
	}
	return nil
}

// RequireSecret is called by commands that sign or verify tokens.
func (c *Config) RequireSecret() ([]byte, error) {
	if c.JWTSecret == "" {
		return nil, fmt.Errorf("%w: set --%s or %s_JWT_SECRET", ErrInvalidConfig, KeyJWTSecret, EnvPrefix)
	}
	return []byte(c.JWTSecret), nil
}
