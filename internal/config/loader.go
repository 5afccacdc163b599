package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConfigFileEnv names the variable pointing at an optional YAML config file.
const ConfigFileEnv = "CONFIG_FILE"

var envKeys = map[string]bool{
	"port":                true,
	"env":                 true,
	"base_url":            true,
	"mongo_uri":           true,
	"mongo_database":      true,
	"store_timeout":       true,
	"app_secret_key":      true,
	"session_expiry":      true,
	"auth0_domain":        true,
	"auth0_client_id":     true,
	"auth0_client_secret": true,
	"oidc_issuer":         true,
	"oidc_redirect_url":   true,
}

// Load builds a Config by layering, lowest precedence first:
//  1. defaults (New)
//  2. YAML file named by CONFIG_FILE
//  3. environment, after a .env file in the working directory is applied
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	envProvider := env.Provider("", ".", func(s string) string {
		key := strings.ToLower(s)
		if !envKeys[key] {
			return ""
		}
		return key
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return ErrEmptyPort
	}
	if c.MongoURI == "" {
		return ErrEmptyMongoURI
	}
	if c.SessionSecret == "" {
		return ErrMissingSecret
	}
	if c.StoreTimeout <= 0 || c.SessionExpiry <= 0 {
		return ErrInvalidDuration
	}
	return nil
}
