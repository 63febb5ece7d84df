package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Clinic settings.
	Timezone   string `mapstructure:"TIMEZONE"`
	ClinicName string `mapstructure:"CLINIC_NAME"`
	ClinicMail string `mapstructure:"CLINIC_MAIL"`

	// Google Calendar / Gmail (server-brokered OAuth2).
	CalendarID         string `mapstructure:"CALENDAR_ID"`
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRefreshToken string `mapstructure:"GOOGLE_REFRESH_TOKEN"`
	MailFrom           string `mapstructure:"MAIL_FROM"`

	// Availability engine.
	WindowMonths     int           `mapstructure:"WINDOW_MONTHS"`
	FetchTimeout     time.Duration `mapstructure:"FETCH_TIMEOUT"`
	FormTokenSecret  string        `mapstructure:"FORM_TOKEN_SECRET"`
	FormTokenExpires time.Duration `mapstructure:"FORM_TOKEN_EXPIRES"`
}

// Load reads config.yaml (current dir or ./config) plus the
// environment, with environment taking precedence.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("TIMEZONE", "Australia/Sydney")
	viper.SetDefault("CLINIC_NAME", "DK Dental Studio")
	viper.SetDefault("CALENDAR_ID", "primary")
	viper.SetDefault("WINDOW_MONTHS", 3)
	viper.SetDefault("FETCH_TIMEOUT", 30*time.Second)
	viper.SetDefault("FORM_TOKEN_EXPIRES", 30*time.Minute)

	// Keys without a sensible default still need registering so that
	// AutomaticEnv feeds them into Unmarshal.
	for _, key := range []string{
		"CLINIC_MAIL", "GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET",
		"GOOGLE_REFRESH_TOKEN", "MAIL_FROM", "FORM_TOKEN_SECRET",
	} {
		viper.SetDefault(key, "")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}

// HasGoogleCredentials reports whether the server-brokered OAuth2
// credential is fully configured.
func (c *Config) HasGoogleCredentials() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRefreshToken != ""
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
