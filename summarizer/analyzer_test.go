package summarizer

import (
	"math"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "english with short fragment",
			text: "  First sentence here.   Second one is here!  short. Third sentence without end",
			want: []string{"First sentence here.", "Second one is here!", "Third sentence without end"},
		},
		{
			name: "korean",
			text: "오늘 날씨가 매우 좋았다. 내일은 비가 올 예정이다. 끝.",
			want: []string{"오늘 날씨가 매우 좋았다.", "내일은 비가 올 예정이다."},
		},
		{
			name: "decimal point does not split",
			text: "The rate rose to 3.5 percent today. Markets reacted calmly overall.",
			want: []string{"The rate rose to 3.5 percent today.", "Markets reacted calmly overall."},
		},
		{
			name: "newlines are whitespace",
			text: "Line one is long enough?\n\nLine two is long enough.",
			want: []string{"Line one is long enough?", "Line two is long enough."},
		},
		{name: "empty", text: "   ", want: nil},
	}

	a := NewTFIDF()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := a.SplitSentences(c.text)
			if len(got) != len(c.want) {
				t.Fatalf("SplitSentences = %q; want %q", got, c.want)
			}
			for i := range got {
				if got[i] != c.want[i] {
					t.Fatalf("SplitSentences = %q; want %q", got, c.want)
				}
			}
		})
	}
}

func TestScoreSentences(t *testing.T) {
	a := NewTFIDF()

	scores, err := a.ScoreSentences([]string{
		"alpha beta gamma delta epsilon.",
		"alpha alpha.",
		"zeta eta theta iota.",
	})
	if err != nil {
		t.Fatalf("ScoreSentences error: %v", err)
	}

	// a row of one distinct token always normalizes to 1
	if math.Abs(scores[1]-1) > 1e-9 {
		t.Errorf("single-token row score = %v; want 1", scores[1])
	}
	// k distinct tokens with equal idf score sqrt(k)
	if math.Abs(scores[2]-2) > 1e-9 {
		t.Errorf("four-token row score = %v; want 2", scores[2])
	}
	if !(scores[0] > scores[2]) {
		t.Errorf("scores = %v; want the five-token row highest", scores)
	}
}

func TestScoreSentencesEmptyVocabulary(t *testing.T) {
	if _, err := NewTFIDF().ScoreSentences([]string{"a b c d e f g.", "1 2 3 4 5 6 7."}); err == nil {
		t.Fatalf("ScoreSentences returned nil error for empty vocabulary")
	}
}

func TestTermFrequencies(t *testing.T) {
	freq := NewTFIDF().TermFrequencies("The AI chip, the AI boom. 그리고 반도체 반도체 x")
	want := map[string]int{"ai": 2, "chip": 1, "boom": 1, "반도체": 2}
	if len(freq) != len(want) {
		t.Fatalf("TermFrequencies = %v; want %v", freq, want)
	}
	for k, v := range want {
		if freq[k] != v {
			t.Errorf("freq[%q] = %d; want %d", k, freq[k], v)
		}
	}
}
