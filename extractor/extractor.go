// Package extractor fetches article pages and extracts their body text.
package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"newsdash/config"
	"newsdash/logger"
	"newsdash/types"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/time/rate"
)

var (
	errEmptyURL    = errors.New("url is empty")
	errEmptyText   = errors.New("no text extracted")
	errContentType = errors.New("unsupported content type")
)

// statusError is a non-2xx response
type statusError struct {
	code int
}

func (e statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

// Fetcher returns the body text of the page at url.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) (string, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// Config configures an Extractor. Zero values select defaults.
type Config struct {
	UserAgent         string
	Timeout           time.Duration
	MaxBodyBytes      int64
	RequestsPerSecond float64
	Burst             int
	Retry             config.RetryPolicy
	// HTTPClient overrides the client built from Timeout
	HTTPClient *http.Client
}

// ConfigFrom maps the fetcher section of the application config.
func ConfigFrom(fc config.FetcherConfig) Config {
	return Config{
		UserAgent:         fc.UserAgent,
		Timeout:           fc.Timeout(),
		MaxBodyBytes:      int64(fc.MaxBodyKB) * 1024,
		RequestsPerSecond: fc.RequestsPerSecond,
		Burst:             fc.Burst,
		Retry:             fc.Retry,
	}
}

// Extractor fetches pages over HTTP and extracts readable text: readability
// first, then the page's main content or paragraphs.
type Extractor struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	maxBody   int64
	retry     config.RetryPolicy
}

// New creates an Extractor. One rate limiter is shared by all fetches.
func New(cfg Config) *Extractor {
	if cfg.UserAgent == "" {
		cfg.UserAgent = config.DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultFetchTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = config.DefaultMaxBodyKB * 1024
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = config.DefaultFetchRPS
	}
	if cfg.Burst <= 0 {
		cfg.Burst = config.DefaultFetchBurst
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry.MaxAttempts = 1
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Extractor{
		client:    client,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		userAgent: cfg.UserAgent,
		maxBody:   cfg.MaxBodyBytes,
		retry:     cfg.Retry,
	}
}

// Fetch returns the page body text. Every failure wraps ErrFetchFailed.
func (e *Extractor) Fetch(ctx context.Context, rawURL string) (string, error) {
	if strings.TrimSpace(rawURL) == "" {
		return "", fmt.Errorf("%w: %v", types.ErrFetchFailed, errEmptyURL)
	}

	var lastErr error
	for attempt := 1; attempt <= e.retry.MaxAttempts; attempt++ {
		if delay := e.retry.GetRetryDelay(attempt); delay > 0 {
			lg := logger.Component("extractor")
			lg.Debug().Str("url", rawURL).Int("attempt", attempt).Dur("delay", delay).Msg("retrying fetch")
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", types.ErrFetchFailed, ctx.Err())
			case <-time.After(delay):
			}
		}

		text, err := e.fetchOnce(ctx, rawURL)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !isTransient(err) || ctx.Err() != nil {
			break
		}
	}
	return "", fmt.Errorf("%w: %v", types.ErrFetchFailed, lastErr)
}

func (e *Extractor) fetchOnce(ctx context.Context, rawURL string) (string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,text/plain;q=0.8,*/*;q=0.5")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", statusError{code: resp.StatusCode}
	}

	mediaType := "text/html"
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil {
			mediaType = mt
		}
	}
	if !isSupportedMediaType(mediaType) {
		return "", fmt.Errorf("%w: %s", errContentType, mediaType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBody))
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}

	if mediaType == "text/plain" {
		text := truncateRunes(collapse(string(body)), config.MaxFallbackChars)
		if text == "" {
			return "", errEmptyText
		}
		return text, nil
	}

	pageURL := resp.Request.URL
	text := extractReadable(body, pageURL)
	if utf8.RuneCountInString(text) >= config.MinReadableChars {
		return text, nil
	}

	fallback, err := ExtractHTMLText(bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	if fallback == "" {
		fallback = text
	}
	if fallback == "" {
		return "", errEmptyText
	}
	return fallback, nil
}

func extractReadable(body []byte, pageURL *url.URL) string {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return ""
	}
	return collapse(article.TextContent)
}

// mainContentSelectors are tried in order before falling back to all paragraphs
var mainContentSelectors = []string{
	"article",
	"[itemprop=articleBody]",
	"#articleBody",
	"#article-body",
	".article-body",
	"#articleBodyContents",
	"#newsct_article",
	"main",
}

// ExtractHTMLText pulls visible text from HTML without readability scoring:
// the first substantial main-content block, else all paragraphs, else the
// whole body. The result is capped at MaxFallbackChars runes.
func ExtractHTMLText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}
	doc.Find("script, style, noscript, nav, header, footer, aside, form, iframe").Remove()

	for _, sel := range mainContentSelectors {
		text := collapse(doc.Find(sel).First().Text())
		if utf8.RuneCountInString(text) >= config.MinReadableChars {
			return truncateRunes(text, config.MaxFallbackChars), nil
		}
	}

	var paras []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if t := collapse(s.Text()); t != "" {
			paras = append(paras, t)
		}
	})
	if len(paras) > 0 {
		return truncateRunes(strings.Join(paras, " "), config.MaxFallbackChars), nil
	}

	return truncateRunes(collapse(doc.Find("body").Text()), config.MaxFallbackChars), nil
}

func isSupportedMediaType(mt string) bool {
	switch mt {
	case "text/html", "application/xhtml+xml", "text/plain":
		return true
	}
	return false
}

// isTransient reports whether another attempt may succeed
func isTransient(err error) bool {
	var se statusError
	if errors.As(err, &se) {
		switch se.code {
		case http.StatusRequestTimeout, http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
