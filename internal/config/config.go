package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig
	Graph   GraphConfig
	Stripe  StripeConfig
	Admin   AdminConfig
	Logging LoggingConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port              int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout       time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout      time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout       time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout   time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	AllowedOriginsCSV string        `env:"SERVER_ALLOWED_ORIGINS"`
}

// GraphConfig describes connectivity to the graph database.
type GraphConfig struct {
	URI            string `env:"GRAPH_URI"`
	Database       string `env:"GRAPH_DATABASE"`
	Username       string `env:"GRAPH_USERNAME"`
	Password       string `env:"GRAPH_PASSWORD"`
	MaxConnections int    `env:"GRAPH_MAX_CONNECTIONS" envDefault:"10"`
}

// StripeConfig describes the checkout product sold through the payment
// gateway. UnitAmount is in the currency's minor units.
type StripeConfig struct {
	APIKey      string `env:"STRIPE_API_KEY"`
	Currency    string `env:"STRIPE_CURRENCY" envDefault:"gbp"`
	UnitAmount  int64  `env:"STRIPE_SHARE_PRICE" envDefault:"999"`
	ProductName string `env:"STRIPE_PRODUCT_NAME" envDefault:"Snag list share"`
	SuccessURL  string `env:"STRIPE_SUCCESS_URL" envDefault:"http://localhost:3000/share/complete"`
	CancelURL   string `env:"STRIPE_CANCEL_URL" envDefault:"http://localhost:3000/share"`
}

// AdminConfig holds the server-side credential guarding privileged endpoints.
type AdminConfig struct {
	Token string `env:"ADMIN_API_TOKEN"`
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string `env:"LOG_LEVEL" envDefault:"info"`
	Format        string `env:"LOG_FORMAT" envDefault:"text"`
	IncludeCaller bool   `env:"LOG_INCLUDE_CALLER" envDefault:"false"`
}

// Load reads configuration from environment variables, applying defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return Config{}, fmt.Errorf("port %d is out of range", cfg.HTTP.Port)
	}

	return cfg, nil
}
