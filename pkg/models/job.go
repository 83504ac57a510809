package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// Date is a calendar date (UTC midnight) encoded as YYYY-MM-DD
type Date struct {
	time.Time
}

// NewDate truncates t to its UTC calendar date
func NewDate(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// DaysUntil returns the number of whole days from d to other (negative when other is earlier)
func (d Date) DaysUntil(other Date) int {
	return int(other.Sub(d.Time).Hours() / 24)
}

// String returns the YYYY-MM-DD form
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON encodes the date as "YYYY-MM-DD"
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string
func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", raw, err)
	}
	d.Time = t
	return nil
}

// JobPosting is a single job opening normalized from a search provider result
type JobPosting struct {
	Title           string          `json:"title"`
	Company         string          `json:"company"`
	Location        string          `json:"location"`
	Description     string          `json:"description"`
	Salary          string          `json:"salary,omitempty"`
	JobType         JobType         `json:"job_type,omitempty"`
	ExperienceLevel ExperienceLevel `json:"experience_level,omitempty"`
	Requirements    []string        `json:"requirements"`
	Benefits        []string        `json:"benefits"`
	PostedDate      *Date           `json:"posted_date,omitempty"`
	PostedText      string          `json:"posted_text,omitempty"`
	ApplyURL        string          `json:"apply_url,omitempty"`
	CompanyRating   *float64        `json:"company_rating,omitempty"`
	ExperienceYears *int            `json:"experience_years,omitempty"`
	Remote          bool            `json:"remote"`
	Source          string          `json:"source"`
}

// CompanyInsight summarizes what the postings reveal about one hiring company
type CompanyInsight struct {
	Name            string   `json:"company_name"`
	Industry        string   `json:"industry"`
	Size            string   `json:"size,omitempty"`
	Rating          *float64 `json:"rating,omitempty"`
	KeyBenefits     []string `json:"key_benefits"`
	KeyRequirements []string `json:"key_requirements"`
	OpenPositions   int      `json:"open_positions"`
}

// RecommendationMode tells how the recommendation list was recovered from the LLM reply
type RecommendationMode string

const (
	RecommendationModeStructured RecommendationMode = "structured"
	RecommendationModeFallback   RecommendationMode = "fallback"
)

// RecommendationSet is the ordered list of recommendations produced for a research task
type RecommendationSet struct {
	Items []string           `json:"items"`
	Mode  RecommendationMode `json:"mode"`
}
