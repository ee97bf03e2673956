// Package config loads newsdash settings from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrInvalidMaxResults        = errors.New("query.max_results must be at least 1")
	ErrInvalidMaxPerFeed        = errors.New("providers.max_per_feed must be at least 1")
	ErrInvalidWorkers           = errors.New("pipeline.workers must be at least 1")
	ErrInvalidSummarySentences  = errors.New("pipeline.summary_sentences must be at least 1")
	ErrInvalidKeywordCount      = errors.New("pipeline.keywords must be non-negative")
	ErrInvalidMinBodyChars      = errors.New("pipeline.min_body_chars must be non-negative")
	ErrInvalidTimezone          = errors.New("pipeline.timezone is not a known location")
	ErrInvalidTimeout           = errors.New("fetcher.timeout_sec must be at least 1")
	ErrInvalidMaxBody           = errors.New("fetcher.max_body_kb must be at least 1")
	ErrInvalidRate              = errors.New("fetcher.requests_per_second must be positive")
	ErrInvalidBurst             = errors.New("fetcher.burst must be at least 1")
	ErrInvalidMaxAttempts       = errors.New("fetcher.retry.max_attempts must be at least 1")
	ErrInvalidBackoffMultiplier = errors.New("fetcher.retry.backoff_multiplier must be >= 1.0")
	ErrWatchMissingKeyword      = errors.New("watch keyword is required")
	ErrWatchMissingSchedule     = errors.New("watch schedule is required")
	ErrKafkaMissingTopic        = errors.New("sinks.kafka.topic is required when brokers are set")
	ErrInvalidLogLevel          = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat         = errors.New("logging.format must be 'console' or 'json'")
)

// Config represents the complete newsdash configuration.
type Config struct {
	Query     QueryConfig     `yaml:"query"`
	Providers ProvidersConfig `yaml:"providers"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Fetcher   FetcherConfig   `yaml:"fetcher"`
	Server    ServerConfig    `yaml:"server"`
	Sinks     SinksConfig     `yaml:"sinks"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// QueryConfig holds defaults applied to every search.
type QueryConfig struct {
	Language   string `yaml:"language"`
	Region     string `yaml:"region"`
	MaxResults int    `yaml:"max_results"`
}

// ProvidersConfig selects which search/news providers are queried.
type ProvidersConfig struct {
	GoogleNews bool     `yaml:"google_news"`
	NewsAPIKey string   `yaml:"newsapi_key"`
	SerpAPIKey string   `yaml:"serpapi_key"`
	Feeds      []string `yaml:"feeds"`
	FeedsFile  string   `yaml:"feeds_file"`
	MaxPerFeed int      `yaml:"max_per_feed"`
}

// PipelineConfig holds stage flags and tuning.
type PipelineConfig struct {
	Fetch            bool     `yaml:"fetch"`
	Summarize        bool     `yaml:"summarize"`
	Workers          int      `yaml:"workers"`
	SummarySentences int      `yaml:"summary_sentences"`
	Keywords         int      `yaml:"keywords"`
	MinBodyChars     int      `yaml:"min_body_chars"`
	SortNewest       bool     `yaml:"sort_newest"`
	Timezone         string   `yaml:"timezone"`
	Domains          []string `yaml:"domains"`
}

// Location resolves the configured timezone.
func (p PipelineConfig) Location() (*time.Location, error) {
	if p.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, p.Timezone)
	}
	return loc, nil
}

// FetcherConfig controls page fetching.
type FetcherConfig struct {
	UserAgent         string      `yaml:"user_agent"`
	TimeoutSec        int         `yaml:"timeout_sec"`
	MaxBodyKB         int         `yaml:"max_body_kb"`
	RequestsPerSecond float64     `yaml:"requests_per_second"`
	Burst             int         `yaml:"burst"`
	Retry             RetryPolicy `yaml:"retry"`
}

// Timeout returns the request timeout as a duration.
func (f FetcherConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSec) * time.Second
}

// RetryPolicy defines retry behavior for page fetches.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
}

// GetRetryDelay returns the wait before the given attempt (1-based).
// The first attempt has no delay.
func (r RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}
	delay := float64(r.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delay *= r.BackoffMultiplier
	}
	if r.MaxDelayMs > 0 && delay > float64(r.MaxDelayMs) {
		delay = float64(r.MaxDelayMs)
	}
	return time.Duration(delay) * time.Millisecond
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	RateLimitRPS   float64       `yaml:"rate_limit_rps"`
	RateLimitBurst int           `yaml:"rate_limit_burst"`
	Watches        []WatchConfig `yaml:"watches"`
}

// WatchConfig is a query rerun on a cron schedule and pushed to the sinks.
type WatchConfig struct {
	Name     string   `yaml:"name"`
	Keyword  string   `yaml:"keyword"`
	Schedule string   `yaml:"schedule"`
	Days     int      `yaml:"days"`
	Domains  []string `yaml:"domains"`
}

// SinksConfig configures optional result destinations.
type SinksConfig struct {
	S3    S3SinkConfig    `yaml:"s3"`
	Kafka KafkaSinkConfig `yaml:"kafka"`
}

// S3SinkConfig is enabled when Bucket is set.
type S3SinkConfig struct {
	Bucket       string `yaml:"bucket"`
	Prefix       string `yaml:"prefix"`
	Region       string `yaml:"region"`
	Profile      string `yaml:"profile"`
	UsePathStyle bool   `yaml:"use_path_style"`
}

// Enabled reports whether an S3 bucket is configured.
func (s S3SinkConfig) Enabled() bool {
	return s.Bucket != ""
}

// KafkaSinkConfig is enabled when Brokers is non-empty.
type KafkaSinkConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Enabled reports whether Kafka brokers are configured.
func (k KafkaSinkConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	return &Config{
		Query: QueryConfig{
			Language:   DefaultLanguage,
			Region:     DefaultRegion,
			MaxResults: DefaultMaxResults,
		},
		Providers: ProvidersConfig{
			GoogleNews: true,
			MaxPerFeed: MaxPerFeed,
		},
		Pipeline: PipelineConfig{
			Fetch:            false,
			Summarize:        true,
			Workers:          DefaultWorkers,
			SummarySentences: DefaultSummarySentences,
			Keywords:         DefaultKeywordCount,
			MinBodyChars:     DefaultMinBodyChars,
			Timezone:         DefaultTimezone,
		},
		Fetcher: FetcherConfig{
			UserAgent:         DefaultUserAgent,
			TimeoutSec:        int(DefaultFetchTimeout / time.Second),
			MaxBodyKB:         DefaultMaxBodyKB,
			RequestsPerSecond: DefaultFetchRPS,
			Burst:             DefaultFetchBurst,
			Retry: RetryPolicy{
				MaxAttempts:       1,
				InitialDelayMs:    500,
				MaxDelayMs:        4000,
				BackoffMultiplier: 2.0,
			},
		},
		Server: ServerConfig{
			Addr:           DefaultAddr,
			RateLimitRPS:   DefaultRateLimitRPS,
			RateLimitBurst: DefaultRateLimitBurst,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file (if path is non-empty),
// then .env and process environment overrides. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables on top of the current values.
func (c *Config) ApplyEnv() {
	c.Providers.NewsAPIKey = getEnvOrDefault("NEWSAPI_KEY", c.Providers.NewsAPIKey)
	c.Providers.SerpAPIKey = getEnvOrDefault("SERPAPI_KEY", c.Providers.SerpAPIKey)
	c.Providers.FeedsFile = getEnvOrDefault("NEWSDASH_FEEDS_FILE", c.Providers.FeedsFile)

	c.Pipeline.Timezone = getEnvOrDefault("NEWSDASH_TIMEZONE", c.Pipeline.Timezone)
	c.Pipeline.Fetch = getEnvBool("NEWSDASH_FETCH", c.Pipeline.Fetch)
	c.Pipeline.Summarize = getEnvBool("NEWSDASH_SUMMARIZE", c.Pipeline.Summarize)

	if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}

	c.Sinks.S3.Bucket = getEnvOrDefault("S3_BUCKET", c.Sinks.S3.Bucket)
	c.Sinks.S3.Region = getEnvOrDefault("S3_REGION", c.Sinks.S3.Region)
	c.Sinks.S3.Profile = getEnvOrDefault("S3_PROFILE", c.Sinks.S3.Profile)
	c.Sinks.S3.Prefix = getEnvOrDefault("S3_PREFIX", c.Sinks.S3.Prefix)
	c.Sinks.S3.UsePathStyle = getEnvBool("S3_USE_PATH_STYLE", c.Sinks.S3.UsePathStyle)

	if v := strings.TrimSpace(os.Getenv("KAFKA_BOOTSTRAP_SERVERS")); v != "" {
		c.Sinks.Kafka.Brokers = splitList(v)
	}
	c.Sinks.Kafka.Topic = getEnvOrDefault("KAFKA_TOPIC", c.Sinks.Kafka.Topic)

	c.Logging.Level = getEnvOrDefault("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnvOrDefault("LOG_FORMAT", c.Logging.Format)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Query.MaxResults < 1 {
		return ErrInvalidMaxResults
	}
	if c.Providers.MaxPerFeed < 1 {
		return ErrInvalidMaxPerFeed
	}

	// Check pipeline config
	if c.Pipeline.Workers < 1 {
		return ErrInvalidWorkers
	}
	if c.Pipeline.SummarySentences < 1 {
		return ErrInvalidSummarySentences
	}
	if c.Pipeline.Keywords < 0 {
		return ErrInvalidKeywordCount
	}
	if c.Pipeline.MinBodyChars < 0 {
		return ErrInvalidMinBodyChars
	}
	if _, err := c.Pipeline.Location(); err != nil {
		return err
	}

	// Check fetcher config
	if c.Fetcher.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}
	if c.Fetcher.MaxBodyKB < 1 {
		return ErrInvalidMaxBody
	}
	if c.Fetcher.RequestsPerSecond <= 0 {
		return ErrInvalidRate
	}
	if c.Fetcher.Burst < 1 {
		return ErrInvalidBurst
	}
	if c.Fetcher.Retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}
	if c.Fetcher.Retry.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	for i, w := range c.Server.Watches {
		if strings.TrimSpace(w.Keyword) == "" {
			return fmt.Errorf("%w: watch[%d]", ErrWatchMissingKeyword, i)
		}
		if strings.TrimSpace(w.Schedule) == "" {
			return fmt.Errorf("%w: watch[%d]", ErrWatchMissingSchedule, i)
		}
	}

	if c.Sinks.Kafka.Enabled() && c.Sinks.Kafka.Topic == "" {
		return ErrKafkaMissingTopic
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return ErrInvalidLogFormat
	}

	return nil
}

// getEnvOrDefault returns the trimmed env value or def when unset.
func getEnvOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
