package normalizer

import (
	"errors"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

var (
	errEmptyURL          = errors.New("empty url")
	errMissingHost       = errors.New("url has no host")
	errUnsupportedScheme = errors.New("url scheme must be http or https")
)

// opaqueScheme matches non-web links that would otherwise be read as host names
var opaqueScheme = regexp.MustCompile(`(?i)^(mailto|javascript|tel|data|about|urn):`)

// trackingParams are dropped from query strings; matching is by key prefix
var trackingParams = []string{"utm_", "fbclid", "gclid", "icid"}

// NormalizeURL canonicalizes an article URL so equal articles compare equal:
// lowercase scheme and host, https when no scheme is given, no fragment,
// no tracking parameters, no trailing slash, remaining query sorted by key.
// Kept query pairs are not re-encoded.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errEmptyURL
	}
	if opaqueScheme.MatchString(raw) {
		return "", errUnsupportedScheme
	}
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	} else if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", errUnsupportedScheme
	}
	u.Host = strings.ToLower(u.Host)
	if u.Hostname() == "" {
		return "", errMissingHost
	}

	u.Fragment = ""
	u.RawFragment = ""
	u.User = nil

	u.RawQuery = cleanQuery(u.RawQuery)
	u.ForceQuery = false

	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = strings.TrimRight(u.RawPath, "/")

	return u.String(), nil
}

// cleanQuery drops tracking pairs and sorts the rest by key, working on the raw
// pairs so ones url.ParseQuery rejects (";" separators, bad escapes) survive unchanged.
func cleanQuery(raw string) string {
	if raw == "" {
		return ""
	}
	pairs := strings.Split(raw, "&")
	kept := pairs[:0]
	for _, pair := range pairs {
		if pair == "" {
			continue
		}
		key, _, _ := strings.Cut(pair, "=")
		if k, err := url.QueryUnescape(key); err == nil {
			key = k
		}
		if isTrackingParam(key) {
			continue
		}
		kept = append(kept, pair)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return queryKey(kept[i]) < queryKey(kept[j])
	})
	return strings.Join(kept, "&")
}

func queryKey(pair string) string {
	key, _, _ := strings.Cut(pair, "=")
	return key
}

func isTrackingParam(key string) bool {
	lk := strings.ToLower(key)
	for _, p := range trackingParams {
		if strings.HasPrefix(lk, p) {
			return true
		}
	}
	return false
}

// Domain returns the lowercased host of rawURL without port or a leading "www.".
// It returns "" when the URL cannot be parsed.
func Domain(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}
