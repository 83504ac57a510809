package recommend

import (
	"fmt"
	"sort"
	"strings"

	"job-research/pkg/models"
	"job-research/pkg/utils"
)

const topSkillCount = 10

// BuildPrompt renders the recommendation prompt from the query and a sample of postings
func BuildPrompt(postings []models.JobPosting, q models.ResearchQuery, sampleSize, count int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a career advisor analyzing the job market for the role %q.\n\n", strings.TrimSpace(q.JobTitle))

	b.WriteString("Job seeker profile:\n")
	fmt.Fprintf(&b, "- Location: %s\n", utils.GetStringOrDefault(strings.TrimSpace(q.Location), "Any"))
	if len(q.Skills) > 0 {
		fmt.Fprintf(&b, "- Skills: %s\n", strings.Join(q.Skills, ", "))
	}
	if q.ExperienceLevel != "" {
		fmt.Fprintf(&b, "- Experience level: %s\n", q.ExperienceLevel)
	}
	if q.JobType != "" {
		fmt.Fprintf(&b, "- Job type: %s\n", q.JobType)
	}
	if q.SalaryMin != nil || q.SalaryMax != nil {
		fmt.Fprintf(&b, "- Salary expectation: %s\n", salaryRange(q.SalaryMin, q.SalaryMax))
	}
	if q.RemoteFriendly {
		b.WriteString("- Open to remote work\n")
	}

	fmt.Fprintf(&b, "\nMarket findings:\n- %d recent postings found\n", len(postings))
	if skills := topRequirements(postings, topSkillCount); len(skills) > 0 {
		fmt.Fprintf(&b, "- Most requested skills: %s\n", strings.Join(skills, ", "))
	}

	sample := postings
	if len(sample) > sampleSize {
		sample = sample[:sampleSize]
	}
	if len(sample) > 0 {
		b.WriteString("\nSample postings:\n")
		for i, p := range sample {
			fmt.Fprintf(&b, "%d. %s at %s", i+1, p.Title, p.Company)
			if p.Salary != "" {
				fmt.Fprintf(&b, " (%s)", p.Salary)
			}
			if len(p.Requirements) > 0 {
				reqs := p.Requirements
				if len(reqs) > 5 {
					reqs = reqs[:5]
				}
				fmt.Fprintf(&b, ", requires %s", strings.Join(reqs, ", "))
			}
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "\nProvide exactly %d actionable recommendations for this job seeker, focused on skills to develop, application strategy and market positioning.\n", count)
	b.WriteString("Reply with a JSON array of strings ONLY, no markdown formatting or extra text, for example:\n")
	b.WriteString(`["recommendation 1", "recommendation 2"]`)
	b.WriteString("\n")

	return b.String()
}

// topRequirements ranks requirement phrases by how many postings mention them
func topRequirements(postings []models.JobPosting, n int) []string {
	counts := make(map[string]int)
	first := make(map[string]int)
	for _, p := range postings {
		for _, r := range p.Requirements {
			if _, ok := counts[r]; !ok {
				first[r] = len(first)
			}
			counts[r]++
		}
	}

	skills := make([]string, 0, len(counts))
	for s := range counts {
		skills = append(skills, s)
	}
	sort.Slice(skills, func(i, j int) bool {
		if counts[skills[i]] != counts[skills[j]] {
			return counts[skills[i]] > counts[skills[j]]
		}
		return first[skills[i]] < first[skills[j]]
	})

	if len(skills) > n {
		skills = skills[:n]
	}
	return skills
}

func salaryRange(floor, ceiling *int) string {
	switch {
	case floor != nil && ceiling != nil:
		return fmt.Sprintf("%d - %d", *floor, *ceiling)
	case floor != nil:
		return fmt.Sprintf("at least %d", *floor)
	default:
		return fmt.Sprintf("up to %d", *ceiling)
	}
}
