package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/afex/hystrix-go/hystrix"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"github.com/NewtTheWolf/sendblue"
)

// ErrMissingCredentials is returned by Validate when no API key pair is set.
var ErrMissingCredentials = errors.New("SENDBLUE_API_KEY and SENDBLUE_API_SECRET are required")

type Config struct {
	App struct {
		Name string `envconfig:"NAME" default:"sendblue"`
		Env  string `envconfig:"ENV" default:"development"`
	} `envconfig:"APP"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	Sendblue struct {
		APIKey    string `envconfig:"API_KEY"`
		APISecret string `envconfig:"API_SECRET"`
		BaseURL   string `envconfig:"BASE_URL" default:"https://api.sendblue.co/api"`

		Breaker struct {
			Enabled         bool          `envconfig:"ENABLED" default:"false"`
			Name            string        `envconfig:"NAME" default:"sendblue"`
			Timeout         time.Duration `envconfig:"TIMEOUT" default:"10s"`
			MaxConcurrent   int           `envconfig:"MAX_CONCURRENT" default:"10"`
			VolumeThreshold int           `envconfig:"VOLUME_THRESHOLD" default:"20"`
			ErrorPercent    int           `envconfig:"ERROR_PERCENT" default:"50"`
			SleepWindow     time.Duration `envconfig:"SLEEP_WINDOW" default:"5s"`
		} `envconfig:"BREAKER"`
	} `envconfig:"SENDBLUE"`

	Sandbox struct {
		Host            string        `envconfig:"HOST" default:"0.0.0.0"`
		Port            string        `envconfig:"PORT" default:"8080"`
		FromNumber      string        `envconfig:"FROM_NUMBER" default:"+16468528190"`
		AccountEmail    string        `envconfig:"ACCOUNT_EMAIL" default:"sandbox@sendblue.local"`
		TickInterval    time.Duration `envconfig:"TICK_INTERVAL" default:"2s"`
		BatchTimeout    time.Duration `envconfig:"BATCH_TIMEOUT" default:"10s"`
		BatchSize       int           `envconfig:"BATCH_SIZE" default:"100"`
		MaxWorkers      int           `envconfig:"MAX_WORKERS" default:"4"`
		CallbackTimeout time.Duration `envconfig:"CALLBACK_TIMEOUT" default:"5s"`
		SMSOnlyRegions  []string      `envconfig:"SMS_ONLY_REGIONS"`
		CacheTTL        time.Duration `envconfig:"CACHE_TTL" default:"1h"`

		// Redis backs the evaluate-service cache when Addr is set.
		Redis struct {
			Addr     string `envconfig:"ADDR"`
			Password string `envconfig:"PASSWORD"`
			DB       int    `envconfig:"DB" default:"0"`
		} `envconfig:"REDIS"`
	} `envconfig:"SANDBOX"`

	Seed struct {
		Count       int `envconfig:"COUNT" default:"20"`
		Concurrency int `envconfig:"CONCURRENCY" default:"4"`
	} `envconfig:"SEED"`

	CLI struct {
		Concurrency int `envconfig:"CONCURRENCY" default:"4"`
	} `envconfig:"CLI"`
}

// Load reads an optional .env file and decodes the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	for i, r := range cfg.Sandbox.SMSOnlyRegions {
		cfg.Sandbox.SMSOnlyRegions[i] = strings.ToUpper(strings.TrimSpace(r))
	}
	return cfg, nil
}

// Validate checks the settings every Sendblue API caller needs.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Sendblue.APIKey) == "" || strings.TrimSpace(c.Sendblue.APISecret) == "" {
		return ErrMissingCredentials
	}
	if c.Sendblue.Breaker.Enabled && c.Sendblue.Breaker.Timeout <= 0 {
		return fmt.Errorf("SENDBLUE_BREAKER_TIMEOUT must be positive, got %s", c.Sendblue.Breaker.Timeout)
	}
	return nil
}

// BreakerConfig converts the breaker settings into a hystrix command config.
func (c *Config) BreakerConfig() hystrix.CommandConfig {
	b := c.Sendblue.Breaker
	return hystrix.CommandConfig{
		Timeout:                int(b.Timeout / time.Millisecond),
		MaxConcurrentRequests:  b.MaxConcurrent,
		RequestVolumeThreshold: b.VolumeThreshold,
		ErrorPercentThreshold:  b.ErrorPercent,
		SleepWindow:            int(b.SleepWindow / time.Millisecond),
	}
}

// ClientOptions returns the sendblue.Client options implied by the config.
func (c *Config) ClientOptions(logger zerolog.Logger) []sendblue.Option {
	opts := []sendblue.Option{
		sendblue.WithBaseURL(c.Sendblue.BaseURL),
		sendblue.WithLogger(logger),
		sendblue.WithUserAgent(c.App.Name),
	}
	if c.Sendblue.Breaker.Enabled {
		opts = append(opts, sendblue.WithCircuitBreaker(c.Sendblue.Breaker.Name, c.BreakerConfig()))
	}
	return opts
}

// SandboxAddr is the listen address of the sandbox server.
func (c *Config) SandboxAddr() string {
	return fmt.Sprintf("%s:%s", c.Sandbox.Host, c.Sandbox.Port)
}
