package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

type Config struct {
	AppName string `mapstructure:"APP_NAME"`
	Port    string `mapstructure:"PORT"`
	Env     string `mapstructure:"APP_ENV"`
	Debug   bool   `mapstructure:"DEBUG"`

	AuthType string `mapstructure:"AUTH_TYPE"`
	APIUser  string `mapstructure:"API_USER"`
	APIPass  string `mapstructure:"API_PASS"`
	APIKey   string `mapstructure:"API_KEY"`

	// Low-stock alerting
	LowStockSchedule string        `mapstructure:"LOW_STOCK_SCHEDULE"`
	LowStockGroup    string        `mapstructure:"LOW_STOCK_GROUP"`
	CronTimezone     string        `mapstructure:"CRON_TZ"`
	AlertConcurrency int           `mapstructure:"ALERT_CONCURRENCY"`
	LowStockCacheTTL time.Duration `mapstructure:"LOW_STOCK_CACHE_TTL"`

	MailConfig `mapstructure:",squash"`
}

// MailConfig selects the notification transport.
type MailConfig struct {
	Backend  string `mapstructure:"MAIL_BACKEND"`
	From     string `mapstructure:"MAIL_FROM"`
	SMTPHost string `mapstructure:"SMTP_HOST"`
	SMTPPort int    `mapstructure:"SMTP_PORT"`
	SMTPUser string `mapstructure:"SMTP_USER"`
	SMTPPass string `mapstructure:"SMTP_PASS"`
}

var defaults = map[string]interface{}{
	"APP_NAME":            "inventory",
	"PORT":                "8080",
	"APP_ENV":             "development",
	"DEBUG":               "false",
	"AUTH_TYPE":           "basic",
	"LOW_STOCK_SCHEDULE":  "0 0 * * *",
	"LOW_STOCK_GROUP":     "Warehouse Manager",
	"CRON_TZ":             "UTC",
	"ALERT_CONCURRENCY":   "4",
	"LOW_STOCK_CACHE_TTL": "30s",
	"MAIL_BACKEND":        "console",
	"MAIL_FROM":           "noreply@inventory.com",
	"SMTP_PORT":           "587",
}

var envKeys = []string{
	"APP_NAME", "PORT", "APP_ENV", "DEBUG",
	"AUTH_TYPE", "API_USER", "API_PASS", "API_KEY",
	"LOW_STOCK_SCHEDULE", "LOW_STOCK_GROUP", "CRON_TZ", "ALERT_CONCURRENCY", "LOW_STOCK_CACHE_TTL",
	"MAIL_BACKEND", "MAIL_FROM", "SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS",
}

// Load decodes the process environment over the defaults.
func Load() (*Config, error) {
	input := make(map[string]interface{}, len(envKeys))
	for k, v := range defaults {
		input[k] = v
	}
	for _, k := range envKeys {
		if v, ok := os.LookupEnv(k); ok && v != "" {
			input[k] = v
		}
	}

	cfg := &Config{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(input); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.AlertConcurrency <= 0 {
		cfg.AlertConcurrency = 1
	}
	return cfg, nil
}

// Location resolves CronTimezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.CronTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadAppConfig initializes the global AppConfig variable
func LoadAppConfig() {
	once.Do(func() {
		cfg, err := Load()
		if err != nil {
			panic(err)
		}
		AppConfig = cfg
	})
}
