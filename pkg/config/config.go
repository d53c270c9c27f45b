package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App       AppConfig
	Upstream  UpstreamConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Sessions  SessionConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Upstream.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"HANSBEAUTY_APP_ENV" default:"development"`
	Port         string `envconfig:"HANSBEAUTY_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"HANSBEAUTY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"HANSBEAUTY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// UpstreamConfig points at the order/product REST API the dashboard proxies.
// A single shared base URL keeps the three proxy endpoints from diverging.
type UpstreamConfig struct {
	BaseURL      string        `envconfig:"HANSBEAUTY_UPSTREAM_BASE_URL" default:"https://orghans.pythonanywhere.com"`
	Timeout      time.Duration `envconfig:"HANSBEAUTY_UPSTREAM_TIMEOUT" default:"30s"`
	PreviewBytes int           `envconfig:"HANSBEAUTY_UPSTREAM_PREVIEW_BYTES" default:"500"`
}

func (u UpstreamConfig) validate() error {
	parsed, err := url.Parse(u.BaseURL)
	if err != nil {
		return fmt.Errorf("parsing upstream base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("upstream base url %q must be absolute", u.BaseURL)
	}
	if u.PreviewBytes <= 0 {
		return fmt.Errorf("upstream preview bytes must be positive")
	}
	return nil
}

// RedisConfig is optional; rate limiting is skipped when neither a URL nor an
// address is configured.
type RedisConfig struct {
	URL          string        `envconfig:"HANSBEAUTY_REDIS_URL"`
	Address      string        `envconfig:"HANSBEAUTY_REDIS_ADDR"`
	Password     string        `envconfig:"HANSBEAUTY_REDIS_PASSWORD"`
	DB           int           `envconfig:"HANSBEAUTY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HANSBEAUTY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HANSBEAUTY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HANSBEAUTY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HANSBEAUTY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HANSBEAUTY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Configured() bool {
	return r.URL != "" || r.Address != ""
}

type RateLimitConfig struct {
	Window  time.Duration `envconfig:"HANSBEAUTY_RATE_LIMIT_WINDOW" default:"1m"`
	IPLimit int           `envconfig:"HANSBEAUTY_RATE_LIMIT_IP_LIMIT" default:"120"`
}

// SessionConfig bounds the in-memory order view-state kept per dashboard session.
type SessionConfig struct {
	TTL time.Duration `envconfig:"HANSBEAUTY_SESSION_TTL" default:"30m"`
}
