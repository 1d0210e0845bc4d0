package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the Inkwell backend.
// Values come from the environment, optionally seeded from a .env file.
type Config struct {
	Port        string `env:"PORT" envDefault:"8787"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE" envDefault:"server.log"`

	Database DatabaseConfig
	Auth     AuthConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Tracing  TracingConfig

	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"100"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`

	TrendingCacheTTL time.Duration `env:"TRENDING_CACHE_TTL" envDefault:"30s"`

	// Demo behaviour: synthesize a random view count for quiet days in the
	// daily-views chart. Set to false to report true values.
	DashboardPlaceholderViews bool `env:"DASHBOARD_PLACEHOLDER_VIEWS" envDefault:"true"`
}

// DatabaseConfig selects and configures the SQL store
type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite"
	Driver   string `env:"DB_DRIVER" envDefault:"postgres"`
	URL      string `env:"DATABASE_URL"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME" envDefault:"inkwell"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	// SQLitePath is used when Driver is sqlite
	SQLitePath string `env:"DB_SQLITE_PATH" envDefault:"inkwell.db"`
}

// AuthConfig configures verification of identity tokens issued by the auth provider
type AuthConfig struct {
	JWTSecret string `env:"AUTH_JWT_SECRET"`
	Issuer    string `env:"AUTH_ISSUER"`
}

// RedisConfig configures the optional Redis instance. Redis is disabled when Host is empty.
type RedisConfig struct {
	Host     string `env:"REDIS_HOST"`
	Port     string `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
}

// StorageConfig configures the S3-compatible image store
type StorageConfig struct {
	Region     string `env:"AWS_REGION" envDefault:"us-east-1"`
	Bucket     string `env:"AWS_BUCKET"`
	CDNBaseURL string `env:"CDN_BASE_URL"`
	Folder     string `env:"IMAGE_FOLDER" envDefault:"blog_images"`
}

// TracingConfig configures OpenTelemetry export
type TracingConfig struct {
	Enabled      bool    `env:"OTEL_ENABLED" envDefault:"false"`
	ServiceName  string  `env:"OTEL_SERVICE_NAME" envDefault:"inkwell-backend"`
	OTLPEndpoint string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	SamplingRate float64 `env:"OTEL_SAMPLING_RATE" envDefault:"1.0"`
}

// Load reads an optional .env file and parses the environment into a Config.
// A missing .env file is not an error; the process environment is used as-is.
func Load(files ...string) (*Config, error) {
	_ = godotenv.Load(files...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// Validate checks settings the server cannot start without
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET environment variable is required")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	return nil
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// DSN builds the PostgreSQL connection string, preferring DATABASE_URL
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	dsn := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Name, d.SSLMode)
	if d.Password != "" {
		dsn += " password=" + d.Password
	}
	return dsn
}
