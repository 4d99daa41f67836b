package config

import (
	"fmt"
	"regexp"

	"github.com/spf13/viper"
)

type Config struct {
	Port             string `mapstructure:"PORT"`
	Env              string `mapstructure:"ENV"`
	SpineBaseURL     string `mapstructure:"SPINE_BASE_URL"`
	SandboxMode      bool   `mapstructure:"SANDBOX_MODE"`
	SenderASID       string `mapstructure:"SENDER_ASID"`
	ReceiverASID     string `mapstructure:"RECEIVER_ASID"`
	SenderPartyKey   string `mapstructure:"SENDER_PARTY_KEY"`
	ReceiverPartyKey string `mapstructure:"RECEIVER_PARTY_KEY"`
	LogLevel         string `mapstructure:"LOG_LEVEL"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "9000")
	v.SetDefault("ENV", "development")
	v.SetDefault("SANDBOX_MODE", true)
	v.SetDefault("SENDER_ASID", "200000001285")
	v.SetDefault("RECEIVER_ASID", "567456789789")
	v.SetDefault("SENDER_PARTY_KEY", "T141D-822234")
	v.SetDefault("RECEIVER_PARTY_KEY", "T100000009")
	v.SetDefault("LOG_LEVEL", "info")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("SPINE_BASE_URL")
	v.BindEnv("SANDBOX_MODE")
	v.BindEnv("SENDER_ASID")
	v.BindEnv("RECEIVER_ASID")
	v.BindEnv("SENDER_PARTY_KEY")
	v.BindEnv("RECEIVER_PARTY_KEY")
	v.BindEnv("LOG_LEVEL")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

var asidPattern = regexp.MustCompile(`^\d{12}$`)

// Validate checks that the configuration is safe to run. Outside sandbox mode
// a backbone endpoint must be configured, and the accredited system ids must
// look like real ASIDs (twelve digits) so misrouted traffic is caught before
// the first submission.
func (c *Config) Validate() error {
	if !c.SandboxMode && c.SpineBaseURL == "" {
		return fmt.Errorf("SPINE_BASE_URL is required when SANDBOX_MODE is false. " +
			"Refusing to start without a backbone endpoint. " +
			"Use SANDBOX_MODE=true to run against the built-in sandbox")
	}
	if !asidPattern.MatchString(c.SenderASID) {
		return fmt.Errorf("SENDER_ASID must be a 12-digit accredited system id, got %q", c.SenderASID)
	}
	if !asidPattern.MatchString(c.ReceiverASID) {
		return fmt.Errorf("RECEIVER_ASID must be a 12-digit accredited system id, got %q", c.ReceiverASID)
	}
	if c.SenderPartyKey == "" {
		return fmt.Errorf("SENDER_PARTY_KEY is required")
	}
	if c.ReceiverPartyKey == "" {
		return fmt.Errorf("RECEIVER_PARTY_KEY is required")
	}
	return nil
}
