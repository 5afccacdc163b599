package config_test

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/dimitrije/leaderboard-api/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"CONFIG_FILE", "PORT", "ENV", "BASE_URL", "MONGO_URI", "MONGO_DATABASE",
	"STORE_TIMEOUT", "APP_SECRET_KEY", "SESSION_EXPIRY", "AUTH0_DOMAIN",
	"AUTH0_CLIENT_ID", "AUTH0_CLIENT_SECRET", "OIDC_ISSUER", "OIDC_REDIRECT_URL",
}

func clearConfigEnvVars() {
	for _, name := range configEnvVars {
		_ = os.Unsetenv(name)
	}
}

func createTempConfigFile(content string) string {
	f, err := os.CreateTemp("", "leaderboard-config-*.yaml")
	if err != nil {
		panic(err)
	}
	defer func() { _ = f.Close() }()
	if _, err := f.WriteString(content); err != nil {
		panic(err)
	}
	return f.Name()
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When only the secret is set", func() {
			_ = os.Setenv("APP_SECRET_KEY", "s3cret")

			cfg, err := config.Load()

			convey.Convey("Then defaults fill everything else", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, "5000")
				convey.So(cfg.Env, convey.ShouldEqual, "development")
				convey.So(cfg.MongoURI, convey.ShouldEqual, "mongodb://localhost:27017")
				convey.So(cfg.MongoDatabase, convey.ShouldEqual, "leaderboards")
				convey.So(cfg.StoreTimeout, convey.ShouldEqual, 10*time.Second)
				convey.So(cfg.SessionExpiry, convey.ShouldEqual, 24*time.Hour)
				convey.So(cfg.SessionSecret, convey.ShouldEqual, "s3cret")
				convey.So(cfg.OAuthEnabled(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the secret is missing", func() {
			_, err := config.Load()

			convey.Convey("Then loading fails", func() {
				convey.So(err, convey.ShouldEqual, config.ErrMissingSecret)
			})
		})

		convey.Convey("When environment variables are set", func() {
			_ = os.Setenv("APP_SECRET_KEY", "s3cret")
			_ = os.Setenv("PORT", "8080")
			_ = os.Setenv("ENV", "production")
			_ = os.Setenv("STORE_TIMEOUT", "3s")
			_ = os.Setenv("AUTH0_DOMAIN", "example.eu.auth0.com")
			_ = os.Setenv("AUTH0_CLIENT_ID", "client-123")

			cfg, err := config.Load()

			convey.Convey("Then they override the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, "8080")
				convey.So(cfg.IsProduction(), convey.ShouldBeTrue)
				convey.So(cfg.StoreTimeout, convey.ShouldEqual, 3*time.Second)
				convey.So(cfg.OAuth.ClientID, convey.ShouldEqual, "client-123")
				convey.So(cfg.IssuerURL(), convey.ShouldEqual, "https://example.eu.auth0.com/")
				convey.So(cfg.LogoutURL(), convey.ShouldEqual, "https://example.eu.auth0.com/v2/logout")
				convey.So(cfg.OAuthEnabled(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a YAML file is provided", func() {
			path := createTempConfigFile(strings.Join([]string{
				`port: "9090"`,
				`base_url: "https://boards.example.com"`,
				`mongo_database: "boards"`,
				`app_secret_key: "from-file"`,
				`session_expiry: "1h"`,
			}, "\n"))
			defer func() { _ = os.Remove(path) }()
			_ = os.Setenv("CONFIG_FILE", path)

			convey.Convey("Then file values are used", func() {
				cfg, err := config.Load()

				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, "9090")
				convey.So(cfg.MongoDatabase, convey.ShouldEqual, "boards")
				convey.So(cfg.SessionSecret, convey.ShouldEqual, "from-file")
				convey.So(cfg.SessionExpiry, convey.ShouldEqual, time.Hour)
				convey.So(cfg.CallbackURL(), convey.ShouldEqual, "https://boards.example.com/callback")
			})

			convey.Convey("Then environment variables still win", func() {
				_ = os.Setenv("PORT", "7070")

				cfg, err := config.Load()

				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, "7070")
			})
		})

		convey.Convey("When the YAML file does not exist", func() {
			_ = os.Setenv("CONFIG_FILE", "/nonexistent/leaderboard.yaml")

			_, err := config.Load()

			convey.Convey("Then loading fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When a timeout is not positive", func() {
			_ = os.Setenv("APP_SECRET_KEY", "s3cret")
			_ = os.Setenv("STORE_TIMEOUT", "0s")

			_, err := config.Load()

			convey.Convey("Then validation rejects it", func() {
				convey.So(err, convey.ShouldEqual, config.ErrInvalidDuration)
			})
		})
	})
}

func TestConfig_IssuerOverride(t *testing.T) {
	convey.Convey("Given an explicit issuer", t, func() {
		cfg := config.New()
		cfg.OAuth.Domain = "tenant.auth0.com"
		cfg.OAuth.Issuer = "http://127.0.0.1:9999/oidc"

		convey.So(cfg.IssuerURL(), convey.ShouldEqual, "http://127.0.0.1:9999/oidc")
		convey.So(cfg.LogoutURL(), convey.ShouldEqual, "https://tenant.auth0.com/v2/logout")
	})
}
