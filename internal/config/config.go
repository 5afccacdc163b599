package config

import (
	"strings"
	"time"
)

type Config struct {
	Port    string `koanf:"port"`
	Env     string `koanf:"env"`
	BaseURL string `koanf:"base_url"`

	MongoURI      string        `koanf:"mongo_uri"`
	MongoDatabase string        `koanf:"mongo_database"`
	StoreTimeout  time.Duration `koanf:"store_timeout"`

	SessionSecret string        `koanf:"app_secret_key"`
	SessionExpiry time.Duration `koanf:"session_expiry"`

	OAuth OAuthConfig `koanf:",squash"`
}

// OAuthConfig describes the Auth0 (or any OIDC) application. Issuer is derived
// from Domain unless set explicitly.
type OAuthConfig struct {
	Domain       string `koanf:"auth0_domain"`
	ClientID     string `koanf:"auth0_client_id"`
	ClientSecret string `koanf:"auth0_client_secret"`
	Issuer       string `koanf:"oidc_issuer"`
	RedirectURL  string `koanf:"oidc_redirect_url"`
}

// New returns the defaults every other source is layered over.
func New() *Config {
	return &Config{
		Port:          "5000",
		Env:           "development",
		BaseURL:       "http://localhost:5000",
		MongoURI:      "mongodb://localhost:27017",
		MongoDatabase: "leaderboards",
		StoreTimeout:  10 * time.Second,
		SessionExpiry: 24 * time.Hour,
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) IssuerURL() string {
	if c.OAuth.Issuer != "" {
		return c.OAuth.Issuer
	}
	if c.OAuth.Domain == "" {
		return ""
	}
	return "https://" + c.OAuth.Domain + "/"
}

func (c *Config) CallbackURL() string {
	if c.OAuth.RedirectURL != "" {
		return c.OAuth.RedirectURL
	}
	return strings.TrimSuffix(c.BaseURL, "/") + "/callback"
}

// LogoutURL is the Auth0 logout endpoint, empty when no domain is configured.
func (c *Config) LogoutURL() string {
	if c.OAuth.Domain == "" {
		return ""
	}
	return "https://" + c.OAuth.Domain + "/v2/logout"
}

func (c *Config) OAuthEnabled() bool {
	return c.IssuerURL() != "" && c.OAuth.ClientID != ""
}
