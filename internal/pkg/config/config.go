package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	AuthProviderFirebase = "firebase"
	AuthProviderJWT      = "jwt"
)

type Config struct {
	Port     string `env:"PORT,         default=8080"`
	Env      string `env:"ENV,          default=development"`
	LogLevel string `env:"LOG_LEVEL,    default=info"`
	Timezone string `env:"APP_TIMEZONE, default=Asia/Manila"`
	// RateLimit is requests per second per client IP on /v1. 0 disables it.
	RateLimit float64 `env:"HTTP_RATE_LIMIT, default=20"`

	Mongo      MongoConfig
	Redis      RedisConfig
	Auth       AuthConfig
	Firebase   FirebaseConfig
	Alerts     AlertsConfig
	Attendance AttendanceConfig
	Reports    ReportsConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=tanod_system"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type AuthConfig struct {
	Provider  string `env:"AUTH_PROVIDER, default=firebase"`
	JWTSecret string `env:"JWT_SECRET"`
}

type FirebaseConfig struct {
	ProjectID       string `env:"FIREBASE_PROJECT_ID"`
	CredentialsFile string `env:"FIREBASE_CREDENTIALS_FILE"`
}

type AlertsConfig struct {
	// Topic is the FCM topic admins subscribe to. Empty means log-only alerts.
	Topic   string `env:"ALERTS_TOPIC"`
	Workers int    `env:"ALERT_WORKERS, default=4"`
}

type AttendanceConfig struct {
	LockTTL time.Duration `env:"ATTENDANCE_LOCK_TTL, default=10s"`
}

// ReportsConfig accepts any occurred_at by default. Setting
// REPORTS_ALLOW_FUTURE=false rejects times beyond FutureSkew.
type ReportsConfig struct {
	AllowFuture bool          `env:"REPORTS_ALLOW_FUTURE, default=true"`
	FutureSkew  time.Duration `env:"REPORTS_FUTURE_SKEW,  default=5m"`
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through l and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Auth.Provider {
	case AuthProviderJWT:
		if c.Auth.JWTSecret == "" {
			return errors.New("JWT_SECRET is required when AUTH_PROVIDER=jwt")
		}
	case AuthProviderFirebase:
	default:
		return fmt.Errorf("unknown AUTH_PROVIDER %q", c.Auth.Provider)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// IsDevelopment reports whether ENV selects developer-friendly defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// UsesFirebase reports whether any component needs the Firebase app.
func (c *Config) UsesFirebase() bool {
	return c.Auth.Provider == AuthProviderFirebase || c.Alerts.Topic != ""
}

// Location is the default calendar timezone for day windows.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("APP_TIMEZONE: %w", err)
	}
	return loc, nil
}
