package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port            string        `yaml:"port"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

const (
	_portDefault            = "8080"
	_requestTimeoutDefault  = 10 * time.Second
	_shutdownTimeoutDefault = 15 * time.Second
)

func (c *ServerConfig) Setup() error {
	if c.Port == "" {
		c.Port = _portDefault
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("%w: invalid port %q", err, c.Port)
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = _requestTimeoutDefault
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = _shutdownTimeoutDefault
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	return nil
}

// QuoteSource selects where instruments without a stored bar are quoted from.
type QuoteSource string

const (
	NoFallback     QuoteSource = "none"
	InvestFallback QuoteSource = "invest"
	HTTPFallback   QuoteSource = "http"
)

type QuotesAPIConfig struct {
	Address       string        `yaml:"address"`
	Timeout       time.Duration `yaml:"timeout"`
	RatePerMinute int           `yaml:"rate_per_minute"`
}

type MarketDataConfig struct {
	Fallback            QuoteSource     `yaml:"fallback"`
	InvestConfigPath    string          `yaml:"invest_config_path"`
	InvestRatePerMinute int             `yaml:"invest_rate_per_minute"`
	QuotesAPI           QuotesAPIConfig `yaml:"quotes_api"`
}

const (
	_investConfigPathDefault = "./configs/invest.yaml"
	_investRateDefault       = 500 // 600 T/M allowed by the broker
	_quotesRateDefault       = 120
	_quotesTimeoutDefault    = 5 * time.Second
)

func (c *MarketDataConfig) Setup() error {
	switch c.Fallback {
	case "":
		c.Fallback = NoFallback
	case NoFallback:
	case InvestFallback:
		if c.InvestConfigPath == "" {
			c.InvestConfigPath = _investConfigPathDefault
		}
		if c.InvestRatePerMinute <= 0 {
			c.InvestRatePerMinute = _investRateDefault
		}
	case HTTPFallback:
		if c.QuotesAPI.Address == "" {
			return fmt.Errorf("quotes api address is required for http fallback")
		}
		if _, err := url.Parse(c.QuotesAPI.Address); err != nil {
			return err
		}
		if c.QuotesAPI.RatePerMinute <= 0 {
			c.QuotesAPI.RatePerMinute = _quotesRateDefault
		}
		if c.QuotesAPI.Timeout <= 0 {
			c.QuotesAPI.Timeout = _quotesTimeoutDefault
		}
	default:
		return fmt.Errorf("unknown market data fallback %q", c.Fallback)
	}
	return nil
}

type APIConfig struct {
	LogLevel   string           `yaml:"log_level"`
	Server     ServerConfig     `yaml:"server"`
	MarketData MarketDataConfig `yaml:"market_data"`
}

func (c *APIConfig) ValidateAndSetup() error {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if err := c.Server.Setup(); err != nil {
		return fmt.Errorf("%w: can't setup server", err)
	}
	if err := c.MarketData.Setup(); err != nil {
		return fmt.Errorf("%w: can't setup market data", err)
	}
	return nil
}

func LoadAPIConfig(filename string) (APIConfig, error) {
	var cfg APIConfig
	input, err := os.ReadFile(filename)
	if err != nil {
		return cfg, fmt.Errorf("%w: can't read file", err)
	}

	if err := yaml.Unmarshal(input, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: can't unmarshal config", err)
	}

	if err := cfg.ValidateAndSetup(); err != nil {
		return cfg, fmt.Errorf("%w: can't setup cfg", err)
	}

	return cfg, nil
}
