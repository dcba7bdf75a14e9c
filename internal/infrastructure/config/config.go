package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the portal configuration, read once from the environment.
type Config struct {
	Port        string `env:"PORT,         default=8080"`
	Env         string `env:"ENV,          default=development"`
	LogLevel    string `env:"LOG_LEVEL,    default=info"`
	DefaultLang string `env:"DEFAULT_LANG, default=en"`

	Upstream UpstreamConfig
	Session  SessionConfig
	Login    LoginConfig
	Redis    RedisConfig
	Audit    AuditConfig
}

// UpstreamConfig points at the remote EDI API.
type UpstreamConfig struct {
	BaseURL string        `env:"API_BASE_URL, required"`
	Timeout time.Duration `env:"UPSTREAM_TIMEOUT, default=15s"`
}

type SessionConfig struct {
	CookieSecure bool          `env:"COOKIE_SECURE, default=true"`
	CookieTTL    time.Duration `env:"COOKIE_TTL,    default=24h"`
	// RefreshWait bounds how long a page request waits for the profile
	// before rendering the loading view.
	RefreshWait time.Duration `env:"REFRESH_WAIT, default=10s"`
}

type LoginConfig struct {
	RateRPS      int           `env:"LOGIN_RATE_RPS,   default=5"`
	RateBurst    int           `env:"LOGIN_RATE_BURST, default=10"`
	ChallengeTTL time.Duration `env:"LOGIN_CHALLENGE_TTL, default=15m"`
}

// RedisConfig enables the redis notice store. An empty Addr keeps notices
// in memory.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// AuditConfig enables the MongoDB login audit trail. An empty MongoURI
// disables it.
type AuditConfig struct {
	MongoURI  string        `env:"AUDIT_MONGO_URI"`
	Database  string        `env:"AUDIT_MONGO_DB,  default=edi_portal"`
	Workers   int           `env:"AUDIT_WORKERS,   default=4"`
	Retention time.Duration `env:"AUDIT_RETENTION, default=2160h"`
}

// MockConfig configures the development mock of the EDI API.
type MockConfig struct {
	Port      string        `env:"MOCK_PORT,       default=9090"`
	LogLevel  string        `env:"LOG_LEVEL,       default=debug"`
	JWTSecret string        `env:"MOCK_JWT_SECRET, default=dev-secret"`
	TokenTTL  time.Duration `env:"MOCK_TOKEN_TTL,  default=24h"`
	// OTPCode fixes the one-time code; empty issues a random one per login.
	OTPCode string `env:"MOCK_OTP_CODE"`
}

// IsProduction reports whether the portal runs in production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Upstream.BaseURL = strings.TrimRight(cfg.Upstream.BaseURL, "/")
	return &cfg, nil
}

// LoadMock reads the mock API configuration.
func LoadMock(ctx context.Context) (*MockConfig, error) {
	var cfg MockConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
