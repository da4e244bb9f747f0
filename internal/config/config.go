package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Summary verbosity modes.
const (
	SummaryNone     = "none"
	SummaryBrief    = "brief"
	SummaryDetailed = "detailed"
)

// Error surfacing modes. In "error" mode a failed generation produces an HTTP
// error status; in "payload" mode it produces a 200 response whose body is an
// error-shaped result carrying the raw upstream text for debugging.
const (
	ErrorModeError   = "error"
	ErrorModePayload = "payload"
)

// Summary failure policies. "fail" makes a failed summary call fail the whole
// request; "degrade" returns the validated trajectory with an empty summary.
const (
	SummaryFailureFail    = "fail"
	SummaryFailureDegrade = "degrade"
)

type Config struct {
	Port             string   `mapstructure:"PORT"`
	Env              string   `mapstructure:"ENV"`
	HFToken          string   `mapstructure:"HF_TOKEN"`
	ModelID          string   `mapstructure:"MODEL_ID"`
	InferenceBaseURL string   `mapstructure:"INFERENCE_BASE_URL"`
	InferenceTimeout int      `mapstructure:"INFERENCE_TIMEOUT_SECONDS"`
	SummaryMode      string   `mapstructure:"SUMMARY_MODE"`
	ErrorMode        string   `mapstructure:"ERROR_MODE"`
	SummaryFailure   string   `mapstructure:"SUMMARY_FAILURE"`
	AgeMin           int      `mapstructure:"AGE_MIN"`
	AgeMax           int      `mapstructure:"AGE_MAX"`
	CORSOrigins      []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS     float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst   int      `mapstructure:"RATE_LIMIT_BURST"`
	RequestTimeout   int      `mapstructure:"REQUEST_TIMEOUT_SECONDS"`
	BodyLimit        string   `mapstructure:"BODY_LIMIT"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "10000")
	v.SetDefault("ENV", "development")
	v.SetDefault("MODEL_ID", "meta-llama/Meta-Llama-3-8B-Instruct")
	v.SetDefault("INFERENCE_BASE_URL", "https://router.huggingface.co/v1")
	v.SetDefault("INFERENCE_TIMEOUT_SECONDS", 60)
	v.SetDefault("SUMMARY_MODE", SummaryDetailed)
	v.SetDefault("ERROR_MODE", ErrorModeError)
	v.SetDefault("SUMMARY_FAILURE", SummaryFailureFail)
	v.SetDefault("AGE_MIN", 18)
	v.SetDefault("AGE_MAX", 100)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", 150)
	v.SetDefault("BODY_LIMIT", "64K")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("HF_TOKEN")
	v.BindEnv("MODEL_ID")
	v.BindEnv("INFERENCE_BASE_URL")
	v.BindEnv("INFERENCE_TIMEOUT_SECONDS")
	v.BindEnv("SUMMARY_MODE")
	v.BindEnv("ERROR_MODE")
	v.BindEnv("SUMMARY_FAILURE")
	v.BindEnv("AGE_MIN")
	v.BindEnv("AGE_MAX")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("REQUEST_TIMEOUT_SECONDS")
	v.BindEnv("BODY_LIMIT")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is internally consistent. HF_TOKEN is
// deliberately not required here: a missing credential surfaces as a
// configuration error on the first generation attempt, so the server can still
// boot and render the form without one.
func (c *Config) Validate() error {
	switch c.SummaryMode {
	case SummaryNone, SummaryBrief, SummaryDetailed:
	default:
		return fmt.Errorf("SUMMARY_MODE must be %q, %q, or %q, got %q",
			SummaryNone, SummaryBrief, SummaryDetailed, c.SummaryMode)
	}

	switch c.ErrorMode {
	case ErrorModeError, ErrorModePayload:
	default:
		return fmt.Errorf("ERROR_MODE must be %q or %q, got %q",
			ErrorModeError, ErrorModePayload, c.ErrorMode)
	}

	switch c.SummaryFailure {
	case SummaryFailureFail, SummaryFailureDegrade:
	default:
		return fmt.Errorf("SUMMARY_FAILURE must be %q or %q, got %q",
			SummaryFailureFail, SummaryFailureDegrade, c.SummaryFailure)
	}

	if c.AgeMin < 0 || c.AgeMax <= c.AgeMin {
		return fmt.Errorf("invalid age bounds: AGE_MIN=%d AGE_MAX=%d", c.AgeMin, c.AgeMax)
	}

	if c.InferenceTimeout <= 0 {
		return fmt.Errorf("INFERENCE_TIMEOUT_SECONDS must be positive, got %d", c.InferenceTimeout)
	}

	return nil
}

// InferenceTimeoutDuration returns the per-call upstream timeout.
func (c *Config) InferenceTimeoutDuration() time.Duration {
	return time.Duration(c.InferenceTimeout) * time.Second
}

// RequestTimeoutDuration returns the inbound request deadline. It must exceed
// the combined budget of the two sequential upstream calls or every generation
// would be cut off by the server itself.
func (c *Config) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}
