package search

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"job-research/pkg/models"
)

var (
	relativeCountPattern = regexp.MustCompile(`(?i)(\d+)\s*\+?\s*(minute|min|hour|hr|day|week|wk|month|mo|year|yr)s?\s+ago`)
	relativeOnePattern   = regexp.MustCompile(`(?i)\b(?:a|an|one)\s+(minute|hour|day|week|month|year)\s+ago`)
	postedPrefixPattern  = regexp.MustCompile(`(?i)^(?:posted|published|date posted)\s*(?:on|:)?\s*`)
)

var absoluteLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"01/02/2006",
}

// ParsePostedDate turns a provider's posted text into a calendar date relative to ref.
// Relative phrases ("3 days ago", "30+ days ago", "yesterday") are resolved against ref;
// absolute dates are parsed from a small set of layouts. ok is false when the text is not understood.
func ParsePostedDate(text string, ref time.Time) (models.Date, bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return models.Date{}, false
	}

	switch {
	case strings.Contains(s, "just posted"), strings.Contains(s, "just now"),
		strings.Contains(s, "today"), strings.Contains(s, "moments ago"):
		return models.NewDate(ref), true
	case strings.Contains(s, "yesterday"):
		return models.NewDate(ref.AddDate(0, 0, -1)), true
	}

	if m := relativeCountPattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return models.NewDate(subtractUnit(ref, n, m[2])), true
		}
	}

	if m := relativeOnePattern.FindStringSubmatch(s); m != nil {
		return models.NewDate(subtractUnit(ref, 1, m[1])), true
	}

	raw := postedPrefixPattern.ReplaceAllString(strings.TrimSpace(text), "")
	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return models.NewDate(t), true
		}
	}

	return models.Date{}, false
}

func subtractUnit(ref time.Time, n int, unit string) time.Time {
	switch unit {
	case "minute", "min":
		return ref.Add(-time.Duration(n) * time.Minute)
	case "hour", "hr":
		return ref.Add(-time.Duration(n) * time.Hour)
	case "day":
		return ref.AddDate(0, 0, -n)
	case "week", "wk":
		return ref.AddDate(0, 0, -7*n)
	case "month", "mo":
		return ref.AddDate(0, 0, -30*n)
	case "year", "yr":
		return ref.AddDate(0, 0, -365*n)
	default:
		return ref
	}
}

// FilterRecent keeps postings whose posted date lies within window of fetchTime, comparing
// calendar days. Postings without a known date are kept. A non-positive window disables filtering.
func FilterRecent(postings []models.JobPosting, fetchTime time.Time, window time.Duration) ([]models.JobPosting, int) {
	if window <= 0 {
		return postings, 0
	}

	fetchDay := models.NewDate(fetchTime)
	maxAge := int(window / (24 * time.Hour))

	kept := make([]models.JobPosting, 0, len(postings))
	removed := 0
	for _, p := range postings {
		if p.PostedDate != nil && p.PostedDate.DaysUntil(fetchDay) > maxAge {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	return kept, removed
}
