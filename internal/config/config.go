// Package config loads application settings from environment variables.
package config

import (
	"encoding/hex"
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime settings. Every variable is prefixed with
// CLUBHOUSE_, so CLUBHOUSE_ADDR sets Addr.
type Config struct {
	Addr   string `envconfig:"ADDR" default:":8080"`
	Env    string `envconfig:"ENV" default:"development"`
	DBPath string `envconfig:"DB_PATH" default:"clubhouse.db"`

	// CSRFKey is 32 bytes hex encoded. A fixed development key is used
	// when unset so local sessions survive restarts.
	CSRFKey string `envconfig:"CSRF_KEY" default:"6368616e676520746869732070617373776f726420746f206120736563726574"`

	AdminEmail       string `envconfig:"ADMIN_EMAIL" default:"admin@clubhouse.local"`
	AdminPassword    string `envconfig:"ADMIN_PASSWORD" default:"change me please"`
	OrganizationName string `envconfig:"ORG_NAME" default:"Clubhouse"`

	ResendKey  string `envconfig:"RESEND_KEY"`
	ResendFrom string `envconfig:"RESEND_FROM" default:"Clubhouse <noreply@clubhouse.local>"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("clubhouse", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if _, err := hex.DecodeString(cfg.CSRFKey); err != nil || len(cfg.CSRFKey) != 64 {
		return Config{}, fmt.Errorf("CLUBHOUSE_CSRF_KEY must be 32 bytes hex encoded")
	}
	return cfg, nil
}

// CSRFKeyBytes returns the decoded CSRF key. Load validates the encoding,
// so this cannot fail afterwards.
func (c Config) CSRFKeyBytes() []byte {
	key, _ := hex.DecodeString(c.CSRFKey)
	return key
}

// Production reports whether the app runs in production mode.
func (c Config) Production() bool {
	return c.Env == "production"
}
