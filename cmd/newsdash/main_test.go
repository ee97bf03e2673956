package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with a config that disables every network provider.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("NEWSAPI_KEY", "")
	t.Setenv("SERPAPI_KEY", "")
	t.Setenv("NEWSDASH_FEEDS_FILE", "")
	t.Setenv("KAFKA_BOOTSTRAP_SERVERS", "")

	path := filepath.Join(t.TempDir(), "newsdash.yaml")
	require.NoError(t, os.WriteFile(path, []byte("providers:\n  google_news: false\n"), 0o644))

	searchFormat = "table"
	searchOutput = ""
	t.Cleanup(func() {
		searchFormat = "table"
		searchOutput = ""
	})

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--config", path}, args...))
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"search", "serve", "tui", "feeds", "tail"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestSearchCmd_RequiresKeyword(t *testing.T) {
	_, _, err := execute(t, "search")
	assert.Error(t, err)
}

func TestSearchCmd_UnknownFormat(t *testing.T) {
	_, _, err := execute(t, "search", "반도체", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestSearchCmd_NoProvidersReportsEmpty(t *testing.T) {
	stdout, stderr, err := execute(t, "search", "반도체", "--start", "2024-03-01", "--end", "2024-03-05")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "No results found")
	assert.Contains(t, stderr, "no provider returned results")
}

func TestFeedsCmd_ListsPresets(t *testing.T) {
	stdout, _, err := execute(t, "feeds")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Available feed presets:")
	assert.Contains(t, stdout, "hankyung")
	assert.Contains(t, stdout, "No user feeds configured")
}

func TestTailCmd_RequiresBrokers(t *testing.T) {
	_, _, err := execute(t, "tail")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kafka brokers")
}

func TestDateRange(t *testing.T) {
	now := time.Date(2024, 3, 5, 22, 0, 0, 0, time.UTC)
	day := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return d
	}

	tests := []struct {
		name       string
		start, end string
		days       int
		wantStart  string
		wantEnd    string
	}{
		{name: "explicit", start: "2024-03-01", end: "20240303", wantStart: "2024-03-01", wantEnd: "2024-03-03"},
		{name: "swapped", start: "2024-03-03", end: "2024-03-01", wantStart: "2024-03-01", wantEnd: "2024-03-03"},
		{name: "last days", days: 3, wantStart: "2024-03-03", wantEnd: "2024-03-05"},
		{name: "days before end", end: "2024-02-29", days: 2, wantStart: "2024-02-28", wantEnd: "2024-02-29"},
		{name: "start wins over days", start: "2024-03-04", days: 7, wantStart: "2024-03-04"},
		{name: "open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := dateRange(tt.start, tt.end, tt.days, now)
			require.NoError(t, err)
			if tt.wantStart == "" {
				assert.Nil(t, start)
			} else {
				require.NotNil(t, start)
				assert.Equal(t, day(tt.wantStart), *start)
			}
			if tt.wantEnd == "" {
				assert.Nil(t, end)
			} else {
				require.NotNil(t, end)
				assert.Equal(t, day(tt.wantEnd), *end)
			}
		})
	}
}

func TestDateRange_Invalid(t *testing.T) {
	_, _, err := dateRange("March", "", 0, time.Now())
	assert.Error(t, err)
}
