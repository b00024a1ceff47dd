package config

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Port          string `mapstructure:"PORT"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	SessionSecret string `mapstructure:"SESSION_SECRET"`
	SiteURL       string `mapstructure:"SITE_URL"`

	// Identity provider (Auth0-style OIDC domain)
	OIDCDomain       string `mapstructure:"OIDC_DOMAIN"`
	OIDCClientID     string `mapstructure:"OIDC_CLIENT_ID"`
	OIDCClientSecret string `mapstructure:"OIDC_CLIENT_SECRET"`

	// Upstream story API
	NewsAPIBaseURL string `mapstructure:"NEWS_API_BASE_URL"`

	// When set, /get_admin requires ?code= to match. Left empty the route
	// stays open, demo-style.
	AdminInviteCode string `mapstructure:"ADMIN_INVITE_CODE"`

	ErrorLogFile string `mapstructure:"ERROR_LOG_FILE"`
}

// Load reads config.yml if present and falls back to environment variables.
func Load() *Config {
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logrus.Info("config file not found; using environment variables and defaults")
		} else {
			logrus.Fatalf("error reading config file: %s", err)
		}
	}

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("SESSION_SECRET", "secret_key_change_me")
	viper.SetDefault("SITE_URL", "http://localhost:8080")
	viper.SetDefault("NEWS_API_BASE_URL", "https://hacker-news.firebaseio.com")
	viper.SetDefault("ERROR_LOG_FILE", "errors.log")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logrus.Fatalf("unable to decode config: %v", err)
	}

	return &cfg
}
