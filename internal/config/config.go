// Package config loads the session tool's configuration from the environment and an optional .env file using Viper.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"

	"github.com/Ryan-Har/vibesession/pkg/session"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// APIBaseURL is the backend root the /auth/me call is made against.
	APIBaseURL string `mapstructure:"VIBE_API_BASE_URL"`
	// DBPath is the SQLite file holding the persisted token and cached profiles. ":memory:" keeps nothing.
	DBPath string `mapstructure:"VIBE_DB_PATH"`
	// SessionTimeout is the inactivity budget (e.g. "30m").
	SessionTimeout time.Duration `mapstructure:"VIBE_SESSION_TIMEOUT"`
	// CheckInterval is how often expiry is evaluated while logged in.
	CheckInterval time.Duration `mapstructure:"VIBE_CHECK_INTERVAL"`
	// CacheTTL is how long a fetched profile is served from storage.
	CacheTTL time.Duration `mapstructure:"VIBE_CACHE_TTL"`
	// RefreshInterval re-fetches the profile in the background; "0" disables it.
	RefreshInterval time.Duration `mapstructure:"VIBE_REFRESH_INTERVAL"`
	// RefreshThreshold refreshes this long before a JWT token's exp claim; "0" disables it.
	RefreshThreshold time.Duration `mapstructure:"VIBE_REFRESH_THRESHOLD"`
	// HTTPTimeout bounds each call to the backend.
	HTTPTimeout time.Duration `mapstructure:"VIBE_HTTP_TIMEOUT"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"VIBE_LOG_LEVEL"`
}

// Load reads .env (if present), then builds and validates Config from the environment.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit env file. A missing file is ignored; env vars override it.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore missing file

	v.AutomaticEnv()

	v.SetDefault("VIBE_API_BASE_URL", "http://localhost:8000")
	v.SetDefault("VIBE_DB_PATH", "./vibe-session.db")
	v.SetDefault("VIBE_SESSION_TIMEOUT", "30m")
	v.SetDefault("VIBE_CHECK_INTERVAL", "1m")
	v.SetDefault("VIBE_CACHE_TTL", "5m")
	v.SetDefault("VIBE_REFRESH_INTERVAL", "0")
	v.SetDefault("VIBE_REFRESH_THRESHOLD", "5m")
	v.SetDefault("VIBE_HTTP_TIMEOUT", "10s")
	v.SetDefault("VIBE_LOG_LEVEL", "info")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.APIBaseURL == "" {
		return nil, errors.New("config: VIBE_API_BASE_URL must be set")
	}
	if cfg.DBPath == "" {
		return nil, errors.New("config: VIBE_DB_PATH must be set")
	}
	if cfg.SessionTimeout <= 0 || cfg.CheckInterval <= 0 || cfg.CacheTTL <= 0 || cfg.HTTPTimeout <= 0 {
		return nil, errors.New("config: timeouts and intervals must be positive")
	}
	if cfg.CheckInterval > cfg.SessionTimeout {
		return nil, errors.New("config: VIBE_CHECK_INTERVAL must not exceed VIBE_SESSION_TIMEOUT")
	}
	if cfg.RefreshInterval < 0 || cfg.RefreshThreshold < 0 {
		return nil, errors.New("config: refresh settings must not be negative")
	}

	return &cfg, nil
}

// Session converts the timing settings into a session.Config.
func (c *Config) Session() session.Config {
	cfg := session.DefaultConfig()
	cfg.Timeout = c.SessionTimeout
	cfg.CheckInterval = c.CheckInterval
	cfg.CacheTTL = c.CacheTTL
	cfg.RefreshInterval = c.RefreshInterval
	cfg.RefreshThreshold = c.RefreshThreshold
	return cfg
}
