package internal

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the full runtime configuration. Every knob has an explicit
// default below; environment variables (optionally from a .env file)
// override them.
type Config struct {
	Env       string
	LogLevel  string
	LogFormat string
	Port      uint16

	// DatabaseURL selects the postgres store when set; the in-memory
	// seeded store is used otherwise.
	DatabaseURL string

	// Currency is the issuer currency code used until a company profile
	// is saved.
	Currency string

	OpenAI OpenAIConfig
	Import ImportDefaults
}

// OpenAIConfig configures the AI summary collaborator. An empty APIKey
// disables it; the summary endpoint then reports the collaborator as
// unconfigured instead of failing invoicing operations.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// ImportDefaults is the documented fallback table applied to CSV rows with
// missing optional fields.
type ImportDefaults struct {
	// TaxID is the generic fiscal id assigned when a client row carries
	// none (the SAT public-at-large RFC).
	TaxID string

	// Country is assigned when a client row carries none.
	Country string

	// Unit is the unit-of-measure code assigned when a product row
	// carries none.
	Unit string
}

// NewConfig loads configuration from the environment, reading a .env file
// first when one exists.
func NewConfig() (*Config, error) {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("PORT", 8080)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("CURRENCY", "MXN")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("SUMMARY_TIMEOUT", "30s")
	v.SetDefault("IMPORT_DEFAULT_TAX_ID", "XAXX010101000")
	v.SetDefault("IMPORT_DEFAULT_COUNTRY", "México")
	v.SetDefault("IMPORT_DEFAULT_UNIT", "E48")
	v.AutomaticEnv()

	port := v.GetUint16("PORT")
	if port == 0 {
		return nil, fmt.Errorf("invalid PORT: %q", v.GetString("PORT"))
	}

	timeout := v.GetDuration("SUMMARY_TIMEOUT")
	if timeout <= 0 {
		return nil, fmt.Errorf("invalid SUMMARY_TIMEOUT: %q", v.GetString("SUMMARY_TIMEOUT"))
	}

	return &Config{
		Env:         v.GetString("ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		LogFormat:   v.GetString("LOG_FORMAT"),
		Port:        port,
		DatabaseURL: v.GetString("DATABASE_URL"),
		Currency:    v.GetString("CURRENCY"),
		OpenAI: OpenAIConfig{
			APIKey:  v.GetString("OPENAI_API_KEY"),
			Model:   v.GetString("OPENAI_MODEL"),
			Timeout: timeout,
		},
		Import: ImportDefaults{
			TaxID:   v.GetString("IMPORT_DEFAULT_TAX_ID"),
			Country: v.GetString("IMPORT_DEFAULT_COUNTRY"),
			Unit:    v.GetString("IMPORT_DEFAULT_UNIT"),
		},
	}, nil
}
