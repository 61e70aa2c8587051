package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported outbound providers
const (
	ProviderSES    = "ses"
	ProviderResend = "resend"
	ProviderSMTP   = "smtp"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Email   EmailConfig   `mapstructure:"email"`
	AWS     AWSConfig     `mapstructure:"aws"`
	Resend  ResendConfig  `mapstructure:"resend"`
	SMTP    SMTPConfig    `mapstructure:"smtp"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

type LogConfig struct {
	Env   string `mapstructure:"env"`
	Level string `mapstructure:"level"`
}

// EmailConfig holds sender identity and brand settings used by the templates.
type EmailConfig struct {
	Provider       string `mapstructure:"provider"`
	VerifiedDomain string `mapstructure:"verified_domain"`
	FromAddress    string `mapstructure:"from_address"`
	FromName       string `mapstructure:"from_name"`
	SiteURL        string `mapstructure:"site_url"`
	SupportAddress string `mapstructure:"support_address"`
	Tagline        string `mapstructure:"tagline"`
}

type AWSConfig struct {
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	SessionToken    string `mapstructure:"session_token"`
	Endpoint        string `mapstructure:"ses_endpoint"`
}

type ResendConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// envBindings maps config keys onto the environment variables that set them.
var envBindings = map[string]string{
	"server.port":             "PORT",
	"server.shutdown_timeout": "SHUTDOWN_TIMEOUT",
	"server.max_body_bytes":   "MAX_BODY_BYTES",
	"log.env":                 "APP_ENV",
	"log.level":               "LOG_LEVEL",
	"email.provider":          "EMAIL_PROVIDER",
	"email.verified_domain":   "EMAIL_VERIFIED_DOMAIN",
	"email.from_address":      "EMAIL_FROM_ADDRESS",
	"email.from_name":         "EMAIL_FROM_NAME",
	"email.site_url":          "EMAIL_SITE_URL",
	"email.support_address":   "EMAIL_SUPPORT_ADDRESS",
	"email.tagline":           "EMAIL_TAGLINE",
	"aws.region":              "AWS_REGION",
	"aws.access_key_id":       "AWS_ACCESS_KEY_ID",
	"aws.secret_access_key":   "AWS_SECRET_ACCESS_KEY",
	"aws.session_token":       "AWS_SESSION_TOKEN",
	"aws.ses_endpoint":        "AWS_SES_ENDPOINT",
	"resend.api_key":          "RESEND_API_KEY",
	"smtp.host":               "SMTP_HOST",
	"smtp.port":               "SMTP_PORT",
	"smtp.username":           "SMTP_USERNAME",
	"smtp.password":           "SMTP_PASSWORD",
	"cors.allowed_origins":    "CORS_ALLOWED_ORIGINS",
	"metrics.enabled":         "METRICS_ENABLED",
	"metrics.path":            "METRICS_PATH",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5001)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("log.env", "production")
	v.SetDefault("log.level", "info")
	v.SetDefault("email.provider", ProviderSES)
	v.SetDefault("email.verified_domain", "adiology.online")
	v.SetDefault("email.from_name", "Adiology")
	v.SetDefault("email.tagline", "Google Ads Made Easy")
	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("smtp.port", 1025)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// LoadConfig reads configuration from the environment and, when present,
// a config.yml in the working directory or ./config. Environment wins.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDerived()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDerived fills values that default off other values.
func (c *Config) applyDerived() {
	c.Email.Provider = strings.ToLower(strings.TrimSpace(c.Email.Provider))
	domain := c.Email.VerifiedDomain
	if c.Email.FromAddress == "" {
		c.Email.FromAddress = "noreply@" + domain
	}
	if c.Email.SupportAddress == "" {
		c.Email.SupportAddress = "support@" + domain
	}
	if c.Email.SiteURL == "" {
		c.Email.SiteURL = "https://" + domain
	}
	c.Email.SiteURL = strings.TrimRight(c.Email.SiteURL, "/")
}

// Validate rejects settings the process cannot start with. Missing provider
// credentials are not an error: the service runs and reports itself unconfigured.
func (c *Config) Validate() error {
	switch c.Email.Provider {
	case ProviderSES, ProviderResend, ProviderSMTP:
	default:
		return fmt.Errorf("unsupported email provider %q", c.Email.Provider)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Email.VerifiedDomain == "" {
		return fmt.Errorf("email verified domain is required")
	}
	return nil
}
