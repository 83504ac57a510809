package search

import (
	"regexp"
	"strconv"
	"strings"

	"job-research/pkg/models"
)

var (
	salaryPattern = regexp.MustCompile(`(?i)(?:[$€£₹]|\b(?:usd|eur|gbp|inr)\s?)\s?\d[\d,]*(?:\.\d+)?\s?(?:[km]\b)?` +
		`(?:\s*(?:-|–|—|to)\s*(?:[$€£₹]|(?:usd|eur|gbp|inr)\s?)?\s?\d[\d,]*(?:\.\d+)?\s?(?:[km]\b)?)?` +
		`(?:\s*(?:/|per|an?)\s*(?:year|yr|annum|hour|hr|month|mo|week|wk)\b)?`)

	experienceYearsPattern = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(?:\+|plus)?\s*(?:(?:-|–|to)\s*\d{1,2}\s*\+?)?\s*(?:years?|yrs?)\b`)

	executivePattern = regexp.MustCompile(`(?i)\b(?:director|vp|vice president|head of|chief|cto|cio|cfo|ceo)\b`)
	seniorPattern    = regexp.MustCompile(`(?i)\b(?:senior|sr\.?|lead|principal|staff)\b`)
	entryPattern     = regexp.MustCompile(`(?i)\b(?:junior|jr\.?|entry[- ]level|entry|graduate|intern|internship|trainee)\b`)
	midPattern       = regexp.MustCompile(`(?i)\b(?:mid[- ]level|mid|intermediate)\b`)
)

// ExtractSalary scans free text for the first currency amount or range, keeping any
// period qualifier. It returns "" when nothing salary-like is present.
func ExtractSalary(text string) string {
	match := salaryPattern.FindString(text)
	return strings.TrimSpace(match)
}

// ExtractExperienceYears returns the lower bound of the first "N years" style mention
func ExtractExperienceYears(text string) (int, bool) {
	m := experienceYearsPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	years, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return years, true
}

// ClassifyExperienceLevel guesses seniority from a posting title
func ClassifyExperienceLevel(title string) models.ExperienceLevel {
	switch {
	case executivePattern.MatchString(title):
		return models.ExperienceExecutive
	case seniorPattern.MatchString(title):
		return models.ExperienceSenior
	case entryPattern.MatchString(title):
		return models.ExperienceEntry
	case midPattern.MatchString(title):
		return models.ExperienceMid
	default:
		return ""
	}
}

// ClassifyJobType maps a provider schedule label such as "Full-time" or "Contractor"
func ClassifyJobType(label string) models.JobType {
	l := strings.ToLower(label)
	switch {
	case l == "":
		return ""
	case strings.Contains(l, "intern"):
		return models.JobTypeInternship
	case strings.Contains(l, "part"):
		return models.JobTypePartTime
	case strings.Contains(l, "contract"), strings.Contains(l, "temporary"), strings.Contains(l, "freelance"):
		return models.JobTypeContract
	case strings.Contains(l, "hybrid"):
		return models.JobTypeHybrid
	case strings.Contains(l, "full"):
		return models.JobTypeFullTime
	case strings.Contains(l, "remote"):
		return models.JobTypeRemote
	default:
		return ""
	}
}
