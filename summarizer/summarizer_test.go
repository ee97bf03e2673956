package summarizer

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"newsdash/types"
)

const sampleBody = "alpha beta gamma delta epsilon. alpha alpha. zeta eta theta iota. kappa lambda mu."

func TestSummarizePicksTopSentencesInOrder(t *testing.T) {
	s := New(nil, Config{Sentences: 3, Keywords: 3})

	got, err := s.Summarize(sampleBody)
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}

	wantText := "alpha beta gamma delta epsilon. zeta eta theta iota. kappa lambda mu."
	if got.Text != wantText {
		t.Errorf("Text = %q; want %q", got.Text, wantText)
	}
	wantKeywords := []string{"alpha", "beta", "delta"}
	if !reflect.DeepEqual(got.Keywords, wantKeywords) {
		t.Errorf("Keywords = %v; want %v", got.Keywords, wantKeywords)
	}
}

func TestSummarizeIsDeterministic(t *testing.T) {
	s := New(nil, Config{})
	body := strings.Repeat("Semiconductor exports rose sharply this quarter. ", 2) +
		"Analysts expect memory prices to stabilize next year. " +
		"The central bank held rates steady on Thursday. " +
		"Exports of memory chips drove most of the gain."

	first, err := s.Summarize(body)
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := s.Summarize(body)
		if err != nil {
			t.Fatalf("Summarize error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %+v vs %+v", i, first, again)
		}
	}
}

func TestSummarizeFewerSentencesThanLimit(t *testing.T) {
	s := New(nil, Config{Sentences: 5})
	body := "Only one sentence is available in this body text"
	got, err := s.Summarize(body)
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}
	if got.Text != body {
		t.Fatalf("Text = %q; want whole body", got.Text)
	}
}

func TestSummarizeUnavailable(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"whitespace", "   \n\t "},
		{"too short", "tiny body."},
		{"no sentences", strings.Repeat("Hi there. ", 6)},
		{"empty vocabulary", "a b c d e f g h i j. k l m n o p q r s t."},
	}

	s := New(nil, Config{})
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := s.Summarize(c.body)
			if !errors.Is(err, types.ErrSummarizeFailed) {
				t.Fatalf("Summarize error = %v; want ErrSummarizeFailed", err)
			}
			if got.Text != "" || got.Keywords != nil {
				t.Fatalf("partial summary on failure: %+v", got)
			}
		})
	}
}

func TestNewAppliesMinBodyDefault(t *testing.T) {
	short := strings.Repeat("x", 10)
	body := fakeAnalyzer{sentences: []string{"s0"}, scores: []float64{1}}

	if _, err := New(body, Config{}).Summarize(short); !errors.Is(err, types.ErrSummarizeFailed) {
		t.Errorf("zero MinBodyChars = %v; want ErrSummarizeFailed", err)
	}
	if _, err := New(body, Config{MinBodyChars: -1}).Summarize(short); err != nil {
		t.Errorf("negative MinBodyChars = %v; want no length check", err)
	}
}

type fakeAnalyzer struct {
	sentences []string
	scores    []float64
	err       error
}

func (f fakeAnalyzer) SplitSentences(string) []string { return f.sentences }
func (f fakeAnalyzer) ScoreSentences([]string) ([]float64, error) {
	return f.scores, f.err
}
func (f fakeAnalyzer) TermFrequencies(string) map[string]int {
	return map[string]int{"b": 2, "a": 2, "c": 1}
}

func TestSummarizeWithCustomAnalyzer(t *testing.T) {
	body := strings.Repeat("x", 100)

	s := New(fakeAnalyzer{sentences: []string{"s0", "s1", "s2", "s3"}, scores: []float64{1, 2, 2, 1}}, Config{Sentences: 2})
	got, err := s.Summarize(body)
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}
	if got.Text != "s1 s2" {
		t.Errorf("Text = %q; want %q", got.Text, "s1 s2")
	}
	if !reflect.DeepEqual(got.Keywords, []string{"a", "b", "c"}) {
		t.Errorf("Keywords = %v", got.Keywords)
	}

	failing := New(fakeAnalyzer{sentences: []string{"s0"}, err: errors.New("boom")}, Config{})
	if _, err := failing.Summarize(body); !errors.Is(err, types.ErrSummarizeFailed) {
		t.Errorf("analyzer failure = %v; want ErrSummarizeFailed", err)
	}

	mismatched := New(fakeAnalyzer{sentences: []string{"s0", "s1"}, scores: []float64{1}}, Config{})
	if _, err := mismatched.Summarize(body); !errors.Is(err, types.ErrSummarizeFailed) {
		t.Errorf("score mismatch = %v; want ErrSummarizeFailed", err)
	}
}

func TestTopIndicesTieBreak(t *testing.T) {
	cases := []struct {
		scores []float64
		n      int
		want   []int
	}{
		{[]float64{1, 2, 2, 1}, 2, []int{1, 2}},
		{[]float64{3, 3, 3}, 2, []int{0, 1}},
		{[]float64{0.5, 0.1, 0.9}, 5, []int{0, 1, 2}},
	}
	for _, c := range cases {
		if got := topIndices(c.scores, c.n); !reflect.DeepEqual(got, c.want) {
			t.Errorf("topIndices(%v, %d) = %v; want %v", c.scores, c.n, got, c.want)
		}
	}
}

func TestTopKeywords(t *testing.T) {
	freq := map[string]int{"zeta": 3, "alpha": 1, "beta": 3, "gamma": 2}
	if got := TopKeywords(freq, 3); !reflect.DeepEqual(got, []string{"beta", "zeta", "gamma"}) {
		t.Errorf("TopKeywords = %v", got)
	}
	if got := TopKeywords(freq, 0); got != nil {
		t.Errorf("TopKeywords(k=0) = %v; want nil", got)
	}
}
