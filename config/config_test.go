package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v; want nil", err)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "newsdash.yaml")
	yamlData := `
query:
  max_results: 30
providers:
  google_news: false
  feeds: [hankyung, "https://example.com/rss"]
pipeline:
  fetch: true
  workers: 3
  timezone: UTC
  domains: [example.com]
server:
  watches:
    - name: morning
      keyword: 반도체
      schedule: "0 8 * * *"
      days: 1
`
	if err := os.WriteFile(path, []byte(yamlData), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("NEWSAPI_KEY", "news-key")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Query.MaxResults != 30 {
		t.Errorf("MaxResults = %d; want 30", cfg.Query.MaxResults)
	}
	if cfg.Query.Language != DefaultLanguage {
		t.Errorf("Language = %q; want default %q", cfg.Query.Language, DefaultLanguage)
	}
	if cfg.Providers.GoogleNews {
		t.Errorf("GoogleNews = true; want false")
	}
	if len(cfg.Providers.Feeds) != 2 {
		t.Errorf("Feeds = %v; want 2 entries", cfg.Providers.Feeds)
	}
	if !cfg.Pipeline.Fetch || cfg.Pipeline.Workers != 3 {
		t.Errorf("Pipeline = %+v; want fetch on with 3 workers", cfg.Pipeline)
	}
	if cfg.Providers.NewsAPIKey != "news-key" {
		t.Errorf("NewsAPIKey = %q; want env value", cfg.Providers.NewsAPIKey)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %q; want :9090", cfg.Server.Addr)
	}
	if len(cfg.Server.Watches) != 1 || cfg.Server.Watches[0].Keyword != "반도체" {
		t.Errorf("Watches = %+v", cfg.Server.Watches)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("Load of missing file returned nil error")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
		want   error
	}{
		{"max results", func(c *Config) { c.Query.MaxResults = 0 }, ErrInvalidMaxResults},
		{"max per feed", func(c *Config) { c.Providers.MaxPerFeed = 0 }, ErrInvalidMaxPerFeed},
		{"workers", func(c *Config) { c.Pipeline.Workers = 0 }, ErrInvalidWorkers},
		{"summary sentences", func(c *Config) { c.Pipeline.SummarySentences = 0 }, ErrInvalidSummarySentences},
		{"keywords", func(c *Config) { c.Pipeline.Keywords = -1 }, ErrInvalidKeywordCount},
		{"timezone", func(c *Config) { c.Pipeline.Timezone = "Mars/Olympus" }, ErrInvalidTimezone},
		{"timeout", func(c *Config) { c.Fetcher.TimeoutSec = 0 }, ErrInvalidTimeout},
		{"rate", func(c *Config) { c.Fetcher.RequestsPerSecond = 0 }, ErrInvalidRate},
		{"attempts", func(c *Config) { c.Fetcher.Retry.MaxAttempts = 0 }, ErrInvalidMaxAttempts},
		{"backoff", func(c *Config) { c.Fetcher.Retry.BackoffMultiplier = 0.5 }, ErrInvalidBackoffMultiplier},
		{"watch keyword", func(c *Config) {
			c.Server.Watches = []WatchConfig{{Schedule: "@hourly"}}
		}, ErrWatchMissingKeyword},
		{"watch schedule", func(c *Config) {
			c.Server.Watches = []WatchConfig{{Keyword: "ai"}}
		}, ErrWatchMissingSchedule},
		{"kafka topic", func(c *Config) { c.Sinks.Kafka.Brokers = []string{"localhost:9092"} }, ErrKafkaMissingTopic},
		{"log level", func(c *Config) { c.Logging.Level = "trace" }, ErrInvalidLogLevel},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, ErrInvalidLogFormat},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := Default()
			c.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, c.want) {
				t.Fatalf("Validate() = %v; want %v", err, c.want)
			}
		})
	}
}

func TestRetryPolicy_GetRetryDelay(t *testing.T) {
	rp := RetryPolicy{
		InitialDelayMs:    100,
		MaxDelayMs:        1000,
		BackoffMultiplier: 2.0,
	}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 0},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
		{5, 1000 * time.Millisecond},
	}

	for _, tt := range tests {
		if got := rp.GetRetryDelay(tt.attempt); got != tt.expected {
			t.Errorf("GetRetryDelay(%d) = %v; want %v", tt.attempt, got, tt.expected)
		}
	}
}

func TestLocation(t *testing.T) {
	loc, err := PipelineConfig{Timezone: "Asia/Seoul"}.Location()
	if err != nil {
		t.Fatalf("Location error: %v", err)
	}
	if loc.String() != "Asia/Seoul" {
		t.Fatalf("Location = %s", loc)
	}
	loc, err = PipelineConfig{}.Location()
	if err != nil || loc != time.UTC {
		t.Fatalf("empty timezone = %v, %v; want UTC", loc, err)
	}
}
