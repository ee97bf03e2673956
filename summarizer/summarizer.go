// Package summarizer reduces article text to an extractive summary and keywords.
package summarizer

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"newsdash/config"
	"newsdash/types"
)

var (
	errEmptyBody    = errors.New("body is empty")
	errBodyTooShort = errors.New("body is too short")
	errNoSentences  = errors.New("no usable sentences")
)

// Summary is the output of a successful summarization
type Summary struct {
	Text     string   `json:"summary"`
	Keywords []string `json:"keywords"`
}

// Config tunes the summarizer. Zero values select defaults; a negative Keywords
// or MinBodyChars disables that limit.
type Config struct {
	Sentences    int
	Keywords     int
	MinBodyChars int
}

// Summarizer builds deterministic extractive summaries
type Summarizer struct {
	analyzer     Analyzer
	sentences    int
	keywords     int
	minBodyChars int
}

// New creates a summarizer. A nil analyzer selects TF-IDF.
func New(analyzer Analyzer, cfg Config) *Summarizer {
	if analyzer == nil {
		analyzer = NewTFIDF()
	}
	if cfg.Sentences <= 0 {
		cfg.Sentences = config.DefaultSummarySentences
	}
	if cfg.Keywords < 0 {
		cfg.Keywords = 0
	} else if cfg.Keywords == 0 {
		cfg.Keywords = config.DefaultKeywordCount
	}
	if cfg.MinBodyChars < 0 {
		cfg.MinBodyChars = 0
	} else if cfg.MinBodyChars == 0 {
		cfg.MinBodyChars = config.DefaultMinBodyChars
	}
	return &Summarizer{
		analyzer:     analyzer,
		sentences:    cfg.Sentences,
		keywords:     cfg.Keywords,
		minBodyChars: cfg.MinBodyChars,
	}
}

// Summarize returns the top-scoring sentences in their original order, joined by
// a space, plus the most frequent keywords. Failures wrap ErrSummarizeFailed.
func (s *Summarizer) Summarize(body string) (Summary, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return Summary{}, fmt.Errorf("%w: %v", types.ErrSummarizeFailed, errEmptyBody)
	}
	if utf8.RuneCountInString(body) < s.minBodyChars {
		return Summary{}, fmt.Errorf("%w: %v", types.ErrSummarizeFailed, errBodyTooShort)
	}

	sentences := s.analyzer.SplitSentences(body)
	if len(sentences) == 0 {
		return Summary{}, fmt.Errorf("%w: %v", types.ErrSummarizeFailed, errNoSentences)
	}
	scores, err := s.analyzer.ScoreSentences(sentences)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %v", types.ErrSummarizeFailed, err)
	}
	if len(scores) != len(sentences) {
		return Summary{}, fmt.Errorf("%w: got %d scores for %d sentences", types.ErrSummarizeFailed, len(scores), len(sentences))
	}

	picked := topIndices(scores, s.sentences)
	parts := make([]string, len(picked))
	for i, idx := range picked {
		parts[i] = sentences[idx]
	}

	return Summary{
		Text:     strings.Join(parts, " "),
		Keywords: TopKeywords(s.analyzer.TermFrequencies(body), s.keywords),
	}, nil
}

// topIndices returns the indices of the n highest scores in ascending index order.
// Equal scores prefer the earlier sentence.
func topIndices(scores []float64, n int) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})
	if n < len(idx) {
		idx = idx[:n]
	}
	sort.Ints(idx)
	return idx
}

// TopKeywords orders terms by descending frequency, then alphabetically, and keeps k
func TopKeywords(freq map[string]int, k int) []string {
	if k <= 0 || len(freq) == 0 {
		return nil
	}
	words := make([]string, 0, len(freq))
	for w := range freq {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})
	if k < len(words) {
		words = words[:k]
	}
	return words
}
