// Package config loads application configuration once at process start.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds every runtime setting. It is loaded once in main and never
// reloaded.
type Config struct {
	Port        string `mapstructure:"port"`
	Env         string `mapstructure:"app_env"`
	DatabaseURL string `mapstructure:"database_url"`
	BaseURL     string `mapstructure:"base_url"`
	Domain      string `mapstructure:"domain"`

	ClientURL    string `mapstructure:"client_url"`
	ExtraOrigins string `mapstructure:"allowed_origins"`

	AuthSecret string `mapstructure:"auth_secret"`

	StripeSecretKey     string `mapstructure:"stripe_secret_key"`
	StripeWebhookSecret string `mapstructure:"stripe_webhook_secret"`
}

// App is the process-wide configuration, populated by Load.
var App Config

func Load() error {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "3000")
	v.SetDefault("app_env", "development")
	v.SetDefault("base_url", "http://localhost:3000")
	v.SetDefault("domain", "")

	keys := []string{
		"port",
		"app_env",
		"database_url",
		"base_url",
		"domain",
		"client_url",
		"allowed_origins",
		"auth_secret",
		"stripe_secret_key",
		"stripe_webhook_secret",
	}

	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	App = cfg

	return nil
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.AuthSecret == "" {
		return errors.New("AUTH_SECRET is required")
	}
	return nil
}

// IsProduction reports whether the app runs with production settings.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// AllowedOrigins lists the origins permitted for CORS and websocket
// upgrades: the local development defaults plus whatever the environment
// adds via CLIENT_URL and ALLOWED_ORIGINS.
func (c Config) AllowedOrigins() []string {
	origins := []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	if c.ClientURL != "" {
		origins = append(origins, c.ClientURL)
	}

	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return origins
}
