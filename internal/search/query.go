package search

import (
	"fmt"
	"strings"

	"job-research/pkg/models"
)

// BuildSearchQuery composes the provider query string: title, the first skillTerms skills
// and a salary phrase. Location and remote preference are sent as separate parameters.
func BuildSearchQuery(q models.ResearchQuery, skillTerms int) string {
	parts := []string{strings.TrimSpace(q.JobTitle)}

	added := 0
	for _, skill := range q.Skills {
		if added >= skillTerms {
			break
		}
		if s := strings.TrimSpace(skill); s != "" {
			parts = append(parts, s)
			added++
		}
	}

	if phrase := salaryPhrase(q.SalaryMin, q.SalaryMax); phrase != "" {
		parts = append(parts, phrase)
	}

	return strings.Join(parts, " ")
}

// BuildSearchRequest maps a research query onto provider parameters
func BuildSearchRequest(q models.ResearchQuery, skillTerms int) SearchRequest {
	return SearchRequest{
		Query:      BuildSearchQuery(q, skillTerms),
		Location:   strings.TrimSpace(q.Location),
		RemoteOnly: q.RemoteFriendly || q.JobType == models.JobTypeRemote,
		MaxResults: q.MaxResults,
	}
}

func salaryPhrase(floor, ceiling *int) string {
	switch {
	case floor != nil && ceiling != nil:
		return fmt.Sprintf("%s-%s", formatAmount(*floor), formatAmount(*ceiling))
	case floor != nil:
		return formatAmount(*floor) + "+"
	case ceiling != nil:
		return "up to " + formatAmount(*ceiling)
	default:
		return ""
	}
}

func formatAmount(v int) string {
	if v >= 1000 && v%1000 == 0 {
		return fmt.Sprintf("$%dk", v/1000)
	}
	return fmt.Sprintf("$%d", v)
}
