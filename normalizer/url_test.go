package normalizer

import "testing"

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{"simple", "https://example.com/path", "https://example.com/path"},
		{"utm and fragment", "https://example.com/path?utm_source=feed#section", "https://example.com/path"},
		{"uppercase host", "HTTP://Example.COM/", "http://example.com"},
		{"tracking params", "https://example.com/?fbclid=XYZ&gclid=ABC&utm_medium=1&icid=top", "https://example.com"},
		{"kept params sorted", "https://example.com/a?b=2&a=1&utm_campaign=x", "https://example.com/a?a=1&b=2"},
		{"trailing slashes", "https://x.com/a///", "https://x.com/a"},
		{"no scheme", "news.example.com/story/1", "https://news.example.com/story/1"},
		{"protocol relative", "//cdn.example.com/a", "https://cdn.example.com/a"},
		{"surrounding space", "  https://x.com/a  ", "https://x.com/a"},
		{"semicolon pairs kept", "https://x.com/a?c=1;d=2", "https://x.com/a?c=1;d=2"},
		{"bad escape kept", "https://x.com/a?q=100%&utm_source=x", "https://x.com/a?q=100%"},
		{"repeated key order kept", "https://x.com/a?t=2&s=1&t=1", "https://x.com/a?s=1&t=2&t=1"},
		{"empty pairs dropped", "https://x.com/a?&b=1&&", "https://x.com/a?b=1"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := NormalizeURL(c.url)
			if err != nil {
				t.Fatalf("NormalizeURL(%q) error: %v", c.url, err)
			}
			if got != c.want {
				t.Fatalf("NormalizeURL(%q) = %q; want %q", c.url, got, c.want)
			}
		})
	}
}

func TestNormalizeURLDistinctQueries(t *testing.T) {
	a, err := NormalizeURL("https://x.com/view?id=1;sec=2")
	if err != nil {
		t.Fatal(err)
	}
	b, err := NormalizeURL("https://x.com/view?id=2;sec=2")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatalf("distinct queries normalized to the same URL %q", a)
	}
}

func TestNormalizeURLRejects(t *testing.T) {
	for _, raw := range []string{"", "   ", "mailto:someone@example.com", "ftp://example.com/file", "https://"} {
		if got, err := NormalizeURL(raw); err == nil {
			t.Errorf("NormalizeURL(%q) = %q; want error", raw, got)
		}
	}
}

func TestDomain(t *testing.T) {
	cases := map[string]string{
		"https://www.Example.com/a":      "example.com",
		"https://news.example.com:8443/": "news.example.com",
		"http://other.com":               "other.com",
		"::not a url":                    "",
	}
	for in, want := range cases {
		if got := Domain(in); got != want {
			t.Errorf("Domain(%q) = %q; want %q", in, got, want)
		}
	}
}
