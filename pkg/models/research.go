package models

import (
	"strings"
	"time"
)

// ExperienceLevel is the seniority a query or posting targets
type ExperienceLevel string

const (
	ExperienceEntry     ExperienceLevel = "entry"
	ExperienceMid       ExperienceLevel = "mid"
	ExperienceSenior    ExperienceLevel = "senior"
	ExperienceExecutive ExperienceLevel = "executive"
)

// JobType is the employment arrangement of a query or posting
type JobType string

const (
	JobTypeFullTime   JobType = "full_time"
	JobTypePartTime   JobType = "part_time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
	JobTypeRemote     JobType = "remote"
	JobTypeHybrid     JobType = "hybrid"
)

// ResearchQuery is the caller's description of the job search to research
type ResearchQuery struct {
	JobTitle        string          `json:"job_title" validate:"required,notblank,max=200"`
	Skills          []string        `json:"skills,omitempty" validate:"max=50,dive,max=100"`
	Location        string          `json:"location,omitempty" validate:"max=200"`
	ExperienceLevel ExperienceLevel `json:"experience_level,omitempty" validate:"omitempty,oneof=entry mid senior executive"`
	JobType         JobType         `json:"job_type,omitempty" validate:"omitempty,oneof=full_time part_time contract internship remote hybrid"`
	SalaryMin       *int            `json:"salary_min,omitempty" validate:"omitempty,gte=0"`
	SalaryMax       *int            `json:"salary_max,omitempty" validate:"omitempty,gte=0"`
	RemoteFriendly  bool            `json:"remote_friendly"`
	CompanySize     string          `json:"company_size,omitempty" validate:"max=100"`
	MaxResults      int             `json:"max_results,omitempty" validate:"gte=0"`
}

// Normalized returns a copy with trimmed text, blank skills removed and max results bounded
func (q ResearchQuery) Normalized(defaultMax, maxCap int) ResearchQuery {
	q.JobTitle = strings.TrimSpace(q.JobTitle)
	q.Location = strings.TrimSpace(q.Location)
	q.CompanySize = strings.TrimSpace(q.CompanySize)

	skills := make([]string, 0, len(q.Skills))
	for _, skill := range q.Skills {
		if s := strings.TrimSpace(skill); s != "" {
			skills = append(skills, s)
		}
	}
	q.Skills = skills

	if q.MaxResults <= 0 {
		q.MaxResults = defaultMax
	}
	if maxCap > 0 && q.MaxResults > maxCap {
		q.MaxResults = maxCap
	}
	return q
}

// ResearchStatus is the lifecycle state of a research task
type ResearchStatus string

const (
	ResearchStatusStarted   ResearchStatus = "started"
	ResearchStatusRunning   ResearchStatus = "running"
	ResearchStatusCompleted ResearchStatus = "completed"
	ResearchStatusFailed    ResearchStatus = "failed"
)

// IsTerminal reports whether no further transitions are possible
func (s ResearchStatus) IsTerminal() bool {
	return s == ResearchStatusCompleted || s == ResearchStatusFailed
}

// SearchSummary records how many provider items survived normalization
type SearchSummary struct {
	Provider     string `json:"provider"`
	RawResults   int    `json:"raw_results"`
	Skipped      int    `json:"skipped"`
	StaleRemoved int    `json:"stale_removed"`
}

// ResearchResponse is the assembled result of a completed research task
type ResearchResponse struct {
	ResearchID            string            `json:"research_id"`
	Query                 ResearchQuery     `json:"query"`
	JobPostings           []JobPosting      `json:"job_postings"`
	CompanyInsights       []CompanyInsight  `json:"company_insights"`
	Recommendations       RecommendationSet `json:"recommendations"`
	TotalPostings         int               `json:"total_postings"`
	Search                SearchSummary     `json:"search"`
	CreatedAt             time.Time         `json:"created_at"`
	CompletedAt           time.Time         `json:"completed_at"`
	ProcessingTimeSeconds float64           `json:"processing_time_seconds"`
}

// ResearchSnapshot is a point-in-time view of a research task's progress
type ResearchSnapshot struct {
	ResearchID          string         `json:"research_id"`
	JobTitle            string         `json:"job_title"`
	Location            string         `json:"location,omitempty"`
	Status              ResearchStatus `json:"status"`
	Progress            int            `json:"progress"`
	CurrentStep         string         `json:"current_step"`
	Error               string         `json:"error,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	CompletedAt         *time.Time     `json:"completed_at,omitempty"`
	EstimatedCompletion *time.Time     `json:"estimated_completion,omitempty"`
}

// IsCompleted checks if the research task finished successfully
func (s *ResearchSnapshot) IsCompleted() bool {
	return s.Status == ResearchStatusCompleted
}

// IsFailed checks if the research task failed
func (s *ResearchSnapshot) IsFailed() bool {
	return s.Status == ResearchStatusFailed
}
