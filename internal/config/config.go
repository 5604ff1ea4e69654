package config

import (
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config holds the settings shared by the server and the CLI
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"./outreach.db"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	APIBaseURL  string        `env:"API_BASE_URL" envDefault:"http://localhost:8080"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`

	PageSize        int `env:"PAGE_SIZE" envDefault:"50"`
	DeleteBatchSize int `env:"DELETE_BATCH_SIZE" envDefault:"50"`

	TunnelAPIURL       string        `env:"TUNNEL_API_URL" envDefault:"http://127.0.0.1:4040/api/tunnels"`
	TunnelProbeTimeout time.Duration `env:"TUNNEL_PROBE_TIMEOUT" envDefault:"2s"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	MetricsPath    string `env:"METRICS_PATH" envDefault:"/metrics"`
}

// LoadEnv loads the env files that exist and returns how many were loaded
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return 0, errors.Wrap(err, "load env files")
	}
	return len(existing), nil
}

// Load reads .env files then the process environment
func Load() (*Config, error) {
	if _, err := LoadEnv([]string{".env", ".env.local"}); err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if c.PageSize <= 0 {
		return errors.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.DeleteBatchSize <= 0 {
		return errors.Errorf("DELETE_BATCH_SIZE must be positive, got %d", c.DeleteBatchSize)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return errors.Errorf("LOG_FORMAT must be 'text' or 'json', got '%s'", c.LogFormat)
	}
	if !strings.HasPrefix(c.MetricsPath, "/") {
		return errors.Errorf("METRICS_PATH must start with '/', got '%s'", c.MetricsPath)
	}
	return nil
}

// Addr is the listen address of the server
func (c *Config) Addr() string {
	return ":" + c.Port
}
