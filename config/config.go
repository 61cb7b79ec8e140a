// Package config reads service configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config carries every setting the service reads. The gateway, database and
// JWT settings are mandatory; vendor integrations (SMS OTP, store feed, Redis)
// switch themselves off when left unset.
type Config struct {
	Env  string `env:"ENV" envDefault:"development"`
	Port string `env:"PORT" envDefault:"8080"`

	DatabaseURL string `env:"DATABASE_URL"`
	JWTSecret   string `env:"JWT_SECRET"`

	RazorpayKeyID         string `env:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret     string `env:"RAZORPAY_KEY_SECRET"`
	RazorpayWebhookSecret string `env:"RAZORPAY_WEBHOOK_SECRET"`

	MSG91AuthKey    string `env:"MSG91_AUTH_KEY"`
	MSG91TemplateID string `env:"MSG91_TEMPLATE_ID"`

	WooCommerceURL            string `env:"WOOCOMMERCE_URL"`
	WooCommerceConsumerKey    string `env:"WOOCOMMERCE_CONSUMER_KEY"`
	WooCommerceConsumerSecret string `env:"WOOCOMMERCE_CONSUMER_SECRET"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASS"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS"`
	TrustedProxies     string `env:"TRUSTED_PROXIES"`
	MaxBodyBytes       int64  `env:"MAX_BODY_BYTES" envDefault:"1048576"`
}

// Parse reads the environment and validates required settings.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	required := map[string]string{
		"DATABASE_URL":        cfg.DatabaseURL,
		"JWT_SECRET":          cfg.JWTSecret,
		"RAZORPAY_KEY_ID":     cfg.RazorpayKeyID,
		"RAZORPAY_KEY_SECRET": cfg.RazorpayKeySecret,
	}
	for name, value := range required {
		if value == "" {
			return nil, fmt.Errorf("required environment variable %s is not set", name)
		}
	}

	return cfg, nil
}
