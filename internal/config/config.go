// Package config содержит логику чтения конфигурации сервиса Ready-to-Eat.
package config

import (
	"flag"
	"fmt"
	"time"
	// Встроенная база часовых поясов для контейнеров без tzdata.
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации сервиса Ready-to-Eat.
type Config struct {
	RunAddress     string        `env:"RUN_ADDRESS"`
	DatabaseURI    string        `env:"DATABASE_URI"`
	APIBaseURL     string        `env:"API_BASE_URL"`
	SecretKey      string        `env:"SECRET_KEY"`
	RewardsFile    string        `env:"REWARDS_FILE"`
	Timezone       string        `env:"TIMEZONE"`
	UpstreamCookie string        `env:"UPSTREAM_COOKIE"`
	SyncInterval   time.Duration `env:"SYNC_INTERVAL"`
	SessionTTL     time.Duration `env:"SESSION_TTL"`
	CheckoutRate   float64       `env:"CHECKOUT_RATE"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Непустые переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	envCfg := Config{}
	if err := env.Parse(&envCfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg := &Config{}

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI, empty keeps sessions in memory")
	flag.StringVar(&cfg.APIBaseURL, "r", "http://localhost:5000", "Ready-to-Eat API base URL")
	flag.StringVar(&cfg.SecretKey, "k", "", "secret key for session cookies")
	flag.StringVar(&cfg.RewardsFile, "t", "", "YAML file with reward tiers")
	flag.StringVar(&cfg.Timezone, "z", "Local", "cafeteria time zone")
	flag.StringVar(&cfg.UpstreamCookie, "c", "session", "session cookie name of the remote API")
	flag.DurationVar(&cfg.SyncInterval, "s", 30*time.Second, "menu and points sync interval")
	flag.DurationVar(&cfg.SessionTTL, "session-ttl", 24*time.Hour, "idle session lifetime")
	flag.Float64Var(&cfg.CheckoutRate, "l", 30, "checkout requests per minute per client")

	flag.Parse()

	if envCfg.RunAddress != "" {
		cfg.RunAddress = envCfg.RunAddress
	}
	if envCfg.DatabaseURI != "" {
		cfg.DatabaseURI = envCfg.DatabaseURI
	}
	if envCfg.APIBaseURL != "" {
		cfg.APIBaseURL = envCfg.APIBaseURL
	}
	if envCfg.SecretKey != "" {
		cfg.SecretKey = envCfg.SecretKey
	}
	if envCfg.RewardsFile != "" {
		cfg.RewardsFile = envCfg.RewardsFile
	}
	if envCfg.Timezone != "" {
		cfg.Timezone = envCfg.Timezone
	}
	if envCfg.UpstreamCookie != "" {
		cfg.UpstreamCookie = envCfg.UpstreamCookie
	}
	if envCfg.SyncInterval != 0 {
		cfg.SyncInterval = envCfg.SyncInterval
	}
	if envCfg.SessionTTL != 0 {
		cfg.SessionTTL = envCfg.SessionTTL
	}
	if envCfg.CheckoutRate != 0 {
		cfg.CheckoutRate = envCfg.CheckoutRate
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Location возвращает часовой пояс кафетерия.
func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
