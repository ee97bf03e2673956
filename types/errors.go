package types

import "errors"

// Stage errors. Each is handled inside the stage that raises it.
var (
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrFetchFailed         = errors.New("fetch failed")
	ErrSummarizeFailed     = errors.New("summarize failed")
	ErrMalformedItem       = errors.New("malformed item")
	ErrEmptyQuery          = errors.New("keyword is required")
)
