// Package config loads the runtime settings once at startup. Nothing here is
// global: the resulting Config is handed to every component that needs it.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"rebalancer/pkg/allocation"
	"rebalancer/pkg/models"
	"rebalancer/pkg/orders"
)

const (
	LiveBaseURL  = "https://api.alpaca.markets"
	PaperBaseURL = "https://paper-api.alpaca.markets"

	DefaultModelsPath = "models.json"
)

// Credentials is one Alpaca key pair.
type Credentials struct {
	APIKey    string
	APISecret string
}

// Config is the resolved runtime configuration for one invocation.
type Config struct {
	Paper            bool
	LiveCredentials  Credentials
	PaperCredentials Credentials
	// BaseURL overrides the trading endpoint derived from Paper.
	BaseURL string

	ModelsPath  string
	Policy      allocation.Policy
	TimeInForce orders.TimeInForce

	LogLevel string
	LogEnv   string
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		LiveCredentials: Credentials{
			APIKey:    getenv("ALPACA_KEY"),
			APISecret: getenv("ALPACA_SECRET"),
		},
		PaperCredentials: Credentials{
			APIKey:    getenv("PAPER_ALPACA_KEY"),
			APISecret: getenv("PAPER_ALPACA_SECRET"),
		},
		BaseURL:    getenv("ALPACA_BASE_URL"),
		ModelsPath: getenv("MODELS_PATH"),
		LogLevel:   getenv("LOG_LEVEL"),
		LogEnv:     getenv("LOG_ENV"),
		Paper:      true,
	}

	if cfg.ModelsPath == "" {
		cfg.ModelsPath = DefaultModelsPath
	}

	if v := getenv("ALPACA_PAPER"); v != "" {
		paper, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ALPACA_PAPER %q: %w", v, err)
		}
		cfg.Paper = paper
	}

	policy, err := allocation.ParsePolicy(getenv("ALLOCATION_POLICY"))
	if err != nil {
		return nil, err
	}
	cfg.Policy = policy

	tif, err := ParseTimeInForce(getenv("TIME_IN_FORCE"))
	if err != nil {
		return nil, err
	}
	cfg.TimeInForce = tif

	return cfg, nil
}

// ParseTimeInForce accepts day (the default) or gtc.
func ParseTimeInForce(s string) (orders.TimeInForce, error) {
	switch orders.TimeInForce(strings.ToLower(strings.TrimSpace(s))) {
	case "", orders.Day:
		return orders.Day, nil
	case orders.GTC:
		return orders.GTC, nil
	default:
		return "", fmt.Errorf("unsupported time in force %q", s)
	}
}

// WithDocument applies the trading mode carried by a model document.
func (c Config) WithDocument(doc *models.Document) *Config {
	if doc != nil && doc.Paper != nil {
		c.Paper = *doc.Paper
	}
	return &c
}

// ActiveCredentials returns the key pair for the active trading mode.
func (c *Config) ActiveCredentials() Credentials {
	if c.Paper {
		return c.PaperCredentials
	}
	return c.LiveCredentials
}

// TradingURL returns the Alpaca trading endpoint for the active mode.
func (c *Config) TradingURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	if c.Paper {
		return PaperBaseURL
	}
	return LiveBaseURL
}

// Mode names the active trading mode for display.
func (c *Config) Mode() string {
	if c.Paper {
		return "paper"
	}
	return "live"
}

// Validate checks that the active key pair is present.
func (c *Config) Validate() error {
	creds := c.ActiveCredentials()
	if creds.APIKey == "" || creds.APISecret == "" {
		if c.Paper {
			return fmt.Errorf("PAPER_ALPACA_KEY and PAPER_ALPACA_SECRET must be set for paper trading")
		}
		return fmt.Errorf("ALPACA_KEY and ALPACA_SECRET must be set for live trading")
	}
	return nil
}
