package config

import "time"

// Collection Constants
const (
	// DefaultMaxResults caps the raw items gathered across all providers for one query
	DefaultMaxResults = 50

	// MaxPerFeed caps keyword matches taken from a single user RSS feed
	MaxPerFeed = 20

	// NewsAPIMaxPageSize is the largest page NewsAPI accepts
	NewsAPIMaxPageSize = 100

	// DefaultLanguage and DefaultRegion shape Google News and NewsAPI requests
	DefaultLanguage = "ko"
	DefaultRegion   = "KR"

	// ProviderTimeout bounds a single provider call
	ProviderTimeout = 20 * time.Second
)

// Fetcher Constants
const (
	// DefaultUserAgent is sent with every page fetch; some outlets reject bare clients
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	// DefaultFetchTimeout is the per-request timeout for page fetches
	DefaultFetchTimeout = 12 * time.Second

	// DefaultMaxBodyKB limits how much of a page body is read
	DefaultMaxBodyKB = 4096

	// MinReadableChars is the shortest readability output accepted before falling back to raw HTML text
	MinReadableChars = 120

	// MaxFallbackChars caps body text taken from the HTML fallback
	MaxFallbackChars = 5000

	// DefaultFetchRPS and DefaultFetchBurst shape the shared fetch rate limiter
	DefaultFetchRPS   = 4.0
	DefaultFetchBurst = 4
)

// Summarizer Constants
const (
	// DefaultSummarySentences is the number of sentences kept in an extractive summary
	DefaultSummarySentences = 3

	// DefaultKeywordCount is the number of keywords kept per record
	DefaultKeywordCount = 20

	// MinSentenceRunes drops sentence fragments shorter than this
	MinSentenceRunes = 10

	// DefaultMinBodyChars is the shortest body the summarizer will accept
	DefaultMinBodyChars = 40
)

// Pipeline Constants
const (
	// DefaultWorkers is the number of records enriched concurrently
	DefaultWorkers = 5

	// DefaultTimezone decides calendar-day boundaries for the date filter
	DefaultTimezone = "Asia/Seoul"
)

// Server Constants
const (
	// DefaultAddr is the HTTP listen address
	DefaultAddr = ":8080"

	// DefaultRateLimitRPS and DefaultRateLimitBurst apply per client IP
	DefaultRateLimitRPS   = 2.0
	DefaultRateLimitBurst = 5

	// SinkTimeout bounds a single S3 upload or Kafka publish
	SinkTimeout = 30 * time.Second
)
