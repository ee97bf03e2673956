package normalizer

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var (
	// year only, year-month, or Korean year/month with no day
	partialNumericDate = regexp.MustCompile(`^(\d{4})(\s*(?:[-./]|년)\s*(\d{1,2})\s*월?)?\s*\.?$`)
	// "March 2024", "Mar. 2024"
	partialMonthYear = regexp.MustCompile(`(?i)^[a-z]{3,9}\.?,?\s+\d{4}$`)
	// "2024년 3월 5일" with optional time "오후 3:04"
	koreanDate = regexp.MustCompile(`^(\d{4})년\s*(\d{1,2})월\s*(\d{1,2})일`)
	// a full year somewhere in the text; "Mar 5" and "12/03" have none
	fourDigitYear = regexp.MustCompile(`\d{4}`)
)

// IsPartialDate reports whether text names a year or a month without a day.
func IsPartialDate(text string) bool {
	text = strings.TrimSpace(text)
	return partialNumericDate.MatchString(text) || partialMonthYear.MatchString(text)
}

// ParseDate parses free-form provider date text. Zone-less text is read in loc.
// Empty, unparseable and partial dates all return nil, as does text without a year
// and a day that does not exist in its month.
func ParseDate(text string, loc *time.Location) *time.Time {
	text = strings.TrimSpace(text)
	if text == "" || IsPartialDate(text) || !fourDigitYear.MatchString(text) {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}

	if m := koreanDate.FindStringSubmatch(text); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		if mo < 1 || mo > 12 || d < 1 || d > 31 {
			return nil
		}
		t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, loc)
		if t.Day() != d {
			return nil
		}
		return &t
	}

	t, err := dateparse.ParseIn(text, loc)
	if err != nil || t.Year() == 0 {
		return nil
	}
	return &t
}
