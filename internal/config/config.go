package config

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port              string        `mapstructure:"PORT"`
	Env               string        `mapstructure:"ENV"`
	APIBaseURL        string        `mapstructure:"API_BASE_URL"`
	APITimeout        time.Duration `mapstructure:"API_TIMEOUT"`
	RequestTimeout    time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	SessionStore      string        `mapstructure:"SESSION_STORE"`
	RedisURL          string        `mapstructure:"REDIS_URL"`
	SessionTTL        time.Duration `mapstructure:"SESSION_TTL"`
	SessionCookieName string        `mapstructure:"SESSION_COOKIE_NAME"`
	AccessCookieName  string        `mapstructure:"ACCESS_COOKIE_NAME"`
	RefreshCookieName string        `mapstructure:"REFRESH_COOKIE_NAME"`
	CookieSecure      bool          `mapstructure:"COOKIE_SECURE"`
	RateLimitRPS      float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst    int           `mapstructure:"RATE_LIMIT_BURST"`
	MetricsEnabled    bool          `mapstructure:"METRICS_ENABLED"`
}

var keys = []string{
	"PORT",
	"ENV",
	"API_BASE_URL",
	"API_TIMEOUT",
	"REQUEST_TIMEOUT",
	"SESSION_STORE",
	"REDIS_URL",
	"SESSION_TTL",
	"SESSION_COOKIE_NAME",
	"ACCESS_COOKIE_NAME",
	"REFRESH_COOKIE_NAME",
	"COOKIE_SECURE",
	"RATE_LIMIT_RPS",
	"RATE_LIMIT_BURST",
	"METRICS_ENABLED",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("API_BASE_URL", "http://localhost:8000/api")
	v.SetDefault("API_TIMEOUT", "15s")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("SESSION_STORE", "memory")
	v.SetDefault("SESSION_TTL", "30m")
	v.SetDefault("SESSION_COOKIE_NAME", "genosentinel_session")
	v.SetDefault("ACCESS_COOKIE_NAME", "access_token")
	v.SetDefault("REFRESH_COOKIE_NAME", "refresh_token")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)
	v.SetDefault("METRICS_ENABLED", true)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	if cfg.IsDev() && cfg.CookieSecure {
		log.Println("WARNING: COOKIE_SECURE=true in development; the session cookie will not be sent over plain http")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the console is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is usable. The backend URL must be
// absolute, a Redis session store needs REDIS_URL, and production requires
// secure cookies.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute http(s) URL, got %q", c.APIBaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API_BASE_URL scheme must be http or https, got %q", u.Scheme)
	}

	switch c.SessionStore {
	case "memory":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when SESSION_STORE is \"redis\"")
		}
	default:
		return fmt.Errorf("SESSION_STORE must be \"memory\" or \"redis\", got %q", c.SessionStore)
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive, got %s", c.APITimeout)
	}
	if c.SessionCookieName == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME must not be empty")
	}

	if c.IsProduction() && !c.CookieSecure {
		return fmt.Errorf("COOKIE_SECURE must be true in production")
	}

	return nil
}
