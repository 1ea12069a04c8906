package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string `env:"APP_ENV" envDefault:"dev"`
	HTTPAddr       string `env:"HTTP_ADDR"`
	MigrationsPath string `env:"MIGRATIONS_PATH"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`

	// DATABASE_URL is the runtime connection, DIRECT_URL the one used for migrations.
	// Both empty and DB_HOST unset means the audit trail is disabled.
	DatabaseURL string `env:"DATABASE_URL"`
	DirectURL   string `env:"DIRECT_URL"`

	DB DBConfig `envPrefix:"DB_"`

	VendorAPI VendorAPIConfig `envPrefix:"VENDOR_API_"`

	// PaymentCancelReloadDelay is how long the dashboard waits after a successful
	// payment cancellation before re-querying, so backend side effects settle.
	PaymentCancelReloadDelay time.Duration `env:"PAYMENT_CANCEL_RELOAD_DELAY" envDefault:"1500ms"`

	// NATSURL enables publishing reload/refresh signals to other dashboards.
	NATSURL           string `env:"NATS_URL"`
	NATSSubjectPrefix string `env:"NATS_SUBJECT_PREFIX" envDefault:"vendordesk"`

	// DashboardAllowedOrigins is the CORS allowlist for the browser dashboard.
	DashboardAllowedOrigins []string `env:"DASHBOARD_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:4173"`
}

type DBConfig struct {
	Host     string `env:"HOST"`
	Port     string `env:"PORT" envDefault:"5432"`
	Name     string `env:"NAME" envDefault:"vendordesk"`
	User     string `env:"USER" envDefault:"vendordesk"`
	Password string `env:"PASSWORD" envDefault:"vendordesk"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
}

type VendorAPIConfig struct {
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:9090"`
	Prefix  string `env:"PREFIX" envDefault:"/api/vendor"`

	// VendorID is the subject of the service token sent to the vendor API.
	VendorID string `env:"VENDOR_ID"`

	// SigningSecret enables HS256 bearer tokens on every vendor API request.
	SigningSecret string `env:"SIGNING_SECRET"`
	Audience      string `env:"AUDIENCE" envDefault:"vendor-api"`

	// RequestTimeout bounds each request. Zero leaves requests to the transport.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"20s"`
}

// Enabled reports whether any database configuration is present.
func (c DBConfig) Enabled() bool {
	return strings.TrimSpace(c.Host) != ""
}

func Load() (Config, error) {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	// Cloud Run sets PORT. Prefer it when HTTP_ADDR isn't explicitly set.
	if cfg.HTTPAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			cfg.HTTPAddr = ":" + port
		} else {
			cfg.HTTPAddr = ":8081"
		}
	}
	cfg.VendorAPI.BaseURL = strings.TrimSuffix(strings.TrimSpace(cfg.VendorAPI.BaseURL), "/")
	if cfg.PaymentCancelReloadDelay < 0 {
		return Config{}, fmt.Errorf("PAYMENT_CANCEL_RELOAD_DELAY must not be negative")
	}
	return cfg, nil
}

// DatabaseEnabled reports whether the audit trail has somewhere to write.
func (c Config) DatabaseEnabled() bool {
	return strings.TrimSpace(c.DatabaseURL) != "" || c.DB.Enabled()
}
