package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// APIKeyEnv is the environment variable the primary source's key is read
// from. Its absence is not fatal: the primary call simply fails provider
// validation and the chain falls back.
const APIKeyEnv = "TOKENWATCH_API_KEY"

// Config is the complete tokenwatch configuration.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	HTTP    HTTPConfig    `yaml:"http"`
	Refresh RefreshConfig `yaml:"refresh"`
	Sources SourcesConfig `yaml:"sources"`
	History HistoryConfig `yaml:"history"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type HTTPConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	ReadTimeout  int    `yaml:"read_timeout_secs"`
	WriteTimeout int    `yaml:"write_timeout_secs"`
}

type RefreshConfig struct {
	IntervalSecs int `yaml:"interval_secs"`
	TickSecs     int `yaml:"tick_secs"`
}

type SourcesConfig struct {
	Primary   SourceConfig `yaml:"primary"`
	Secondary SourceConfig `yaml:"secondary"`
}

type SourceConfig struct {
	BaseURL   string  `yaml:"base_url"`
	RPS       float64 `yaml:"rps"`
	Burst     int     `yaml:"burst"`
	TimeoutMS int     `yaml:"timeout_ms"`

	// APIKey comes from the environment, never from the file.
	APIKey string `yaml:"-"`
}

type HistoryConfig struct {
	BaseURL        string `yaml:"base_url"`
	Points         int    `yaml:"points"`
	LookbackDays   int    `yaml:"lookback_days"`
	MaxConcurrency int    `yaml:"max_concurrency"`
	TimeoutMS      int    `yaml:"timeout_ms"`
}

// Default returns the compiled-in configuration. Every field is usable
// without a config file so the pipeline degrades instead of crashing.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		HTTP: HTTPConfig{
			Host:         "127.0.0.1",
			Port:         8080,
			ReadTimeout:  10,
			WriteTimeout: 10,
		},
		Refresh: RefreshConfig{IntervalSecs: 10, TickSecs: 0},
		Sources: SourcesConfig{
			Primary: SourceConfig{
				BaseURL:   "https://freecryptoapi.com/api/v1",
				RPS:       2,
				Burst:     2,
				TimeoutMS: 8000,
			},
			Secondary: SourceConfig{
				BaseURL:   "https://api.coingecko.com/api/v3",
				RPS:       1,
				Burst:     2,
				TimeoutMS: 8000,
			},
		},
		History: HistoryConfig{
			BaseURL:        "https://api.coingecko.com/api/v3",
			Points:         30,
			LookbackDays:   1,
			MaxConcurrency: 8,
			TimeoutMS:      8000,
		},
	}
}

// Load reads the YAML config at path, layered over defaults, then applies
// environment overrides. A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to defaults
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.Sources.Primary.APIKey = os.Getenv(APIKeyEnv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate ensures the configuration is internally consistent.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be one of trace|debug|info|warn|error, got %q", c.Log.Level)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http port must be in 1-65535, got %d", c.HTTP.Port)
	}
	if c.Refresh.IntervalSecs <= 0 {
		return fmt.Errorf("refresh interval_secs must be positive, got %d", c.Refresh.IntervalSecs)
	}
	if c.Refresh.TickSecs < 0 {
		return fmt.Errorf("refresh tick_secs cannot be negative, got %d", c.Refresh.TickSecs)
	}
	if err := c.Sources.Primary.validate("primary"); err != nil {
		return err
	}
	if err := c.Sources.Secondary.validate("secondary"); err != nil {
		return err
	}
	if c.History.BaseURL == "" {
		return fmt.Errorf("history base_url cannot be empty")
	}
	if c.History.Points <= 0 {
		return fmt.Errorf("history points must be positive, got %d", c.History.Points)
	}
	if c.History.LookbackDays <= 0 {
		return fmt.Errorf("history lookback_days must be positive, got %d", c.History.LookbackDays)
	}
	return nil
}

func (s *SourceConfig) validate(name string) error {
	if s.BaseURL == "" {
		return fmt.Errorf("source %s: base_url cannot be empty", name)
	}
	if s.RPS <= 0 {
		return fmt.Errorf("source %s: rps must be positive, got %f", name, s.RPS)
	}
	if s.Burst <= 0 {
		return fmt.Errorf("source %s: burst must be positive, got %d", name, s.Burst)
	}
	if s.TimeoutMS <= 0 {
		return fmt.Errorf("source %s: timeout_ms must be positive, got %d", name, s.TimeoutMS)
	}
	return nil
}

// GetRequestTimeout returns the request timeout as a time.Duration.
func (s *SourceConfig) GetRequestTimeout() time.Duration {
	return time.Duration(s.TimeoutMS) * time.Millisecond
}

// GetRequestTimeout returns the history request timeout as a time.Duration.
func (h *HistoryConfig) GetRequestTimeout() time.Duration {
	return time.Duration(h.TimeoutMS) * time.Millisecond
}

// GetRefreshInterval returns the refresh period as a time.Duration.
func (r *RefreshConfig) GetRefreshInterval() time.Duration {
	return time.Duration(r.IntervalSecs) * time.Second
}

// GetTickInterval returns the simulated tick period, zero when disabled.
func (r *RefreshConfig) GetTickInterval() time.Duration {
	return time.Duration(r.TickSecs) * time.Second
}
