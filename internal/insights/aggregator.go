// Package insights derives per-company summaries from normalized job postings.
package insights

import (
	"regexp"
	"strings"

	"job-research/pkg/models"
)

const notSpecified = "Not specified"

// DefaultDisplayCount caps the benefit and requirement lists of each insight
const DefaultDisplayCount = 5

type category struct {
	label   string
	pattern *regexp.Regexp
}

func mustCategory(label string, words ...string) category {
	return category{
		label:   label,
		pattern: regexp.MustCompile(`(?i)\b(?:` + strings.Join(words, "|") + `)\b`),
	}
}

var industries = []category{
	mustCategory("Healthcare", "healthcare", "hospital", "clinical", "patient", "medical", "pharma", "pharmaceutical", "biotech"),
	mustCategory("Finance", "fintech", "bank", "banking", "financial", "finance", "insurance", "trading", "investment", "payments"),
	mustCategory("Education", "education", "edtech", "university", "school", "learning platform", "students"),
	mustCategory("Retail", "retail", "e-commerce", "ecommerce", "marketplace", "shopping", "consumer goods"),
	mustCategory("Manufacturing", "manufacturing", "factory", "industrial", "automotive", "supply chain"),
	mustCategory("Media", "media", "entertainment", "publishing", "streaming", "gaming", "advertising"),
	mustCategory("Consulting", "consulting", "consultancy", "advisory", "professional services"),
	mustCategory("Government", "government", "public sector", "federal", "municipal", "defense"),
	mustCategory("Technology", "software", "saas", "cloud", "platform", "tech", "technology", "startup", "developer", "engineering"),
}

var sizes = []category{
	mustCategory("Startup", "startup", "start-up", "seed", "series a", "early-stage", "early stage"),
	mustCategory("Enterprise", "fortune 500", "fortune 100", "enterprise", "global leader", "multinational", "publicly traded"),
	mustCategory("Small", "small team", "small company", "family-owned", "boutique"),
	mustCategory("Mid-size", "mid-size", "midsize", "growing company", "scale-up", "scaleup"),
}

type accumulator struct {
	insight models.CompanyInsight
	corpus  strings.Builder
}

// NormalizeCompany folds case and collapses whitespace so spellings of one company group together
func NormalizeCompany(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Aggregate groups postings by company in first-seen order. displayCount bounds the benefit
// and requirement lists; values below 1 fall back to DefaultDisplayCount.
func Aggregate(postings []models.JobPosting, displayCount int) []models.CompanyInsight {
	if displayCount < 1 {
		displayCount = DefaultDisplayCount
	}

	order := make([]string, 0)
	byCompany := make(map[string]*accumulator)

	for _, p := range postings {
		key := NormalizeCompany(p.Company)
		acc, ok := byCompany[key]
		if !ok {
			acc = &accumulator{insight: models.CompanyInsight{
				Name:            strings.Join(strings.Fields(p.Company), " "),
				KeyBenefits:     make([]string, 0),
				KeyRequirements: make([]string, 0),
			}}
			byCompany[key] = acc
			order = append(order, key)
		}

		acc.insight.OpenPositions++
		acc.insight.KeyBenefits = mergeCapped(acc.insight.KeyBenefits, p.Benefits, displayCount)
		acc.insight.KeyRequirements = mergeCapped(acc.insight.KeyRequirements, p.Requirements, displayCount)
		if acc.insight.Rating == nil && p.CompanyRating != nil {
			rating := *p.CompanyRating
			acc.insight.Rating = &rating
		}

		acc.corpus.WriteString(p.Title)
		acc.corpus.WriteString("\n")
		acc.corpus.WriteString(p.Description)
		acc.corpus.WriteString("\n")
	}

	out := make([]models.CompanyInsight, 0, len(order))
	for _, key := range order {
		acc := byCompany[key]
		corpus := acc.corpus.String()
		acc.insight.Industry = classify(corpus, industries, notSpecified)
		acc.insight.Size = classify(corpus, sizes, "")
		out = append(out, acc.insight)
	}
	return out
}

// classify returns the label of the category with the most keyword hits, ties going to the
// earlier table entry
func classify(text string, table []category, def string) string {
	best, bestHits := def, 0
	for _, c := range table {
		hits := len(c.pattern.FindAllStringIndex(text, -1))
		if hits > bestHits {
			best, bestHits = c.label, hits
		}
	}
	return best
}

func mergeCapped(list, extra []string, limit int) []string {
	for _, v := range extra {
		if len(list) >= limit {
			break
		}
		v = strings.TrimSpace(v)
		if v == "" || containsFold(list, v) {
			continue
		}
		list = append(list, v)
	}
	return list
}

func containsFold(list []string, v string) bool {
	for _, existing := range list {
		if strings.EqualFold(existing, v) {
			return true
		}
	}
	return false
}
