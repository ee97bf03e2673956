package summarizer

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"newsdash/config"
)

var errEmptyVocabulary = errors.New("empty vocabulary")

var (
	// scoreToken mirrors the default word pattern of common TF-IDF vectorizers: two or more word characters
	scoreToken = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]{2,}`)
	// keywordToken excludes underscores so identifiers do not leak into keywords
	keywordToken = regexp.MustCompile(`[\p{L}\p{M}\p{N}]{2,}`)
)

// Analyzer is the text-analysis collaborator behind the summarizer
type Analyzer interface {
	// SplitSentences breaks text into candidate sentences
	SplitSentences(text string) []string
	// ScoreSentences returns one salience score per sentence
	ScoreSentences(sentences []string) ([]float64, error)
	// TermFrequencies counts keyword candidates in text
	TermFrequencies(text string) map[string]int
}

// TFIDF scores sentences by the sum of their L2-normalized TF-IDF weights
type TFIDF struct {
	minSentenceRunes int
	stopwords        map[string]struct{}
}

// NewTFIDF creates the default analyzer
func NewTFIDF() *TFIDF {
	return &TFIDF{
		minSentenceRunes: config.MinSentenceRunes,
		stopwords:        DefaultStopwords(),
	}
}

// SplitSentences collapses whitespace and cuts after '.', '!' or '?' when
// followed by whitespace. Fragments shorter than the minimum length are dropped.
func (a *TFIDF) SplitSentences(text string) []string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil
	}

	var (
		sentences []string
		start     int
	)
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if i+1 < len(text) && text[i+1] == ' ' {
				sentences = a.appendSentence(sentences, text[start:i+1])
				start = i + 2
				i++
			}
		}
	}
	if start < len(text) {
		sentences = a.appendSentence(sentences, text[start:])
	}
	return sentences
}

func (a *TFIDF) appendSentence(dst []string, s string) []string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) < a.minSentenceRunes {
		return dst
	}
	return append(dst, s)
}

// ScoreSentences computes smooth-idf TF-IDF rows, L2-normalizes each row and
// returns the row sums. It fails when no sentence contains a usable token.
func (a *TFIDF) ScoreSentences(sentences []string) ([]float64, error) {
	counts := make([]map[string]int, len(sentences))
	df := make(map[string]int)
	for i, s := range sentences {
		counts[i] = make(map[string]int)
		for _, tok := range scoreToken.FindAllString(strings.ToLower(s), -1) {
			counts[i][tok]++
		}
		for tok := range counts[i] {
			df[tok]++
		}
	}
	if len(df) == 0 {
		return nil, errEmptyVocabulary
	}

	n := float64(len(sentences))
	idf := make(map[string]float64, len(df))
	for tok, d := range df {
		idf[tok] = math.Log((1+n)/(1+float64(d))) + 1
	}

	// tokens are visited in sorted order so float sums are reproducible
	scores := make([]float64, len(sentences))
	for i, row := range counts {
		toks := make([]string, 0, len(row))
		for tok := range row {
			toks = append(toks, tok)
		}
		sort.Strings(toks)

		var sum, sq float64
		for _, tok := range toks {
			w := float64(row[tok]) * idf[tok]
			sum += w
			sq += w * w
		}
		if sq > 0 {
			scores[i] = sum / math.Sqrt(sq)
		}
	}
	return scores, nil
}

// TermFrequencies counts lowercased tokens of two or more letters or digits, minus stopwords
func (a *TFIDF) TermFrequencies(text string) map[string]int {
	freq := make(map[string]int)
	for _, tok := range keywordToken.FindAllString(strings.ToLower(text), -1) {
		if _, stop := a.stopwords[tok]; stop {
			continue
		}
		freq[tok]++
	}
	return freq
}
