package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"job-research/internal/logging/types"
	"job-research/pkg/models"
)

const (
	unknownCompany  = "Unknown Company"
	unknownLocation = "Not specified"
)

var errMissingTitle = errors.New("item has no title")

// Options tunes a Normalizer
type Options struct {
	Timeout       time.Duration
	RecencyWindow time.Duration
	SkillTerms    int
	Now           func() time.Time
}

// Outcome is the normalized result of one provider search
type Outcome struct {
	Postings []models.JobPosting
	Summary  models.SearchSummary
}

// Normalizer queries a Provider and turns its heterogeneous items into JobPostings
type Normalizer struct {
	provider Provider
	opts     Options
	logger   types.Logger
}

// NewNormalizer creates a normalizer around provider
func NewNormalizer(provider Provider, opts Options, logger types.Logger) *Normalizer {
	if opts.SkillTerms <= 0 {
		opts.SkillTerms = 3
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Normalizer{provider: provider, opts: opts, logger: logger}
}

// Search runs the query against the provider under the configured timeout, normalizes every
// parseable item and drops postings older than the recency window.
func (n *Normalizer) Search(ctx context.Context, q models.ResearchQuery) (*Outcome, error) {
	req := BuildSearchRequest(q, n.opts.SkillTerms)

	if n.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.opts.Timeout)
		defer cancel()
	}

	fetchTime := n.opts.Now()
	items, err := n.provider.Query(ctx, req)
	if err != nil {
		return nil, &SearchError{Provider: n.provider.Name(), Err: err}
	}

	postings := make([]models.JobPosting, 0, len(items))
	skipped := 0
	for i, raw := range items {
		posting, err := ParseItem(raw, fetchTime, n.provider.Name())
		if err != nil {
			skipped++
			n.logger.Debug("Skipping unparseable search result", map[string]interface{}{
				"provider": n.provider.Name(),
				"index":    i,
				"error":    err.Error(),
			})
			continue
		}
		postings = append(postings, posting)
	}

	if req.MaxResults > 0 && len(postings) > req.MaxResults {
		postings = postings[:req.MaxResults]
	}

	recent, stale := FilterRecent(postings, fetchTime, n.opts.RecencyWindow)

	n.logger.Info("Search results normalized", map[string]interface{}{
		"provider":      n.provider.Name(),
		"query":         req.Query,
		"raw_results":   len(items),
		"skipped":       skipped,
		"stale_removed": stale,
		"postings":      len(recent),
	})

	return &Outcome{
		Postings: recent,
		Summary: models.SearchSummary{
			Provider:     n.provider.Name(),
			RawResults:   len(items),
			Skipped:      skipped,
			StaleRemoved: stale,
		},
	}, nil
}

// ParseItem normalizes one raw provider item. fetchTime anchors relative posted dates.
func ParseItem(raw json.RawMessage, fetchTime time.Time, source string) (models.JobPosting, error) {
	if !gjson.ValidBytes(raw) {
		return models.JobPosting{}, fmt.Errorf("invalid json")
	}
	item := gjson.ParseBytes(raw)
	if !item.IsObject() {
		return models.JobPosting{}, fmt.Errorf("expected object, got %s", item.Type)
	}

	titleField := item.Get("title")
	if titleField.Type != gjson.String || strings.TrimSpace(titleField.String()) == "" {
		return models.JobPosting{}, errMissingTitle
	}
	title := strings.TrimSpace(titleField.String())

	description := HTMLToText(item.Get("description").String())
	corpus := scanCorpus(description, item)

	posting := models.JobPosting{
		Title:           title,
		Company:         firstString(item, unknownCompany, "company_name", "company", "employer"),
		Location:        firstString(item, unknownLocation, "location"),
		Description:     description,
		JobType:         ClassifyJobType(firstString(item, "", "detected_extensions.schedule_type", "schedule_type", "job_type")),
		ExperienceLevel: ClassifyExperienceLevel(title),
		Requirements:    ExtractRequirements(corpus),
		Benefits:        ExtractBenefits(corpus),
		ApplyURL:        ResolveApplyURL(item),
		Source:          source,
	}

	posting.Salary = firstString(item, "", "detected_extensions.salary", "salary_info.text", "salary")
	if posting.Salary == "" {
		posting.Salary = ExtractSalary(corpus)
	}

	posting.Benefits = appendUnique(posting.Benefits, structuredBenefits(item)...)

	posting.Remote = item.Get("detected_extensions.work_from_home").Bool() ||
		posting.JobType == models.JobTypeRemote ||
		strings.Contains(strings.ToLower(posting.Location), "remote") ||
		strings.EqualFold(posting.Location, "anywhere")

	if years, ok := ExtractExperienceYears(corpus); ok {
		posting.ExperienceYears = &years
	}

	if rating, ok := parseRating(item); ok {
		posting.CompanyRating = &rating
	}

	posting.PostedText = postedText(item)
	if date, ok := ParsePostedDate(posting.PostedText, fetchTime); ok {
		posting.PostedDate = &date
	}

	return posting, nil
}

// scanCorpus joins the description with highlight bullets so keyword scans see both
func scanCorpus(description string, item gjson.Result) string {
	var b strings.Builder
	b.WriteString(description)
	item.Get("job_highlights").ForEach(func(_, section gjson.Result) bool {
		section.Get("items").ForEach(func(_, line gjson.Result) bool {
			b.WriteString("\n")
			b.WriteString(line.String())
			return true
		})
		return true
	})
	return b.String()
}

func structuredBenefits(item gjson.Result) []string {
	var out []string
	ext := item.Get("detected_extensions")
	if ext.Get("health_insurance").Bool() {
		out = append(out, "Health insurance")
	}
	if ext.Get("dental_coverage").Bool() {
		out = append(out, "Dental insurance")
	}
	if ext.Get("paid_time_off").Bool() {
		out = append(out, "Paid time off")
	}
	return out
}

func postedText(item gjson.Result) string {
	if s := firstString(item, "", "detected_extensions.posted_at", "posted_at", "date_posted"); s != "" {
		return s
	}
	for _, ext := range item.Get("extensions").Array() {
		s := strings.ToLower(ext.String())
		if strings.Contains(s, "ago") || strings.Contains(s, "posted") ||
			strings.Contains(s, "today") || strings.Contains(s, "yesterday") {
			return ext.String()
		}
	}
	return ""
}

// parseRating accepts numeric or numeric-string ratings within 0..5
func parseRating(item gjson.Result) (float64, bool) {
	for _, path := range []string{"company_rating", "rating", "detected_extensions.rating"} {
		v := item.Get(path)
		var rating float64
		switch v.Type {
		case gjson.Number:
			rating = v.Float()
		case gjson.String:
			f, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
			if err != nil {
				continue
			}
			rating = f
		default:
			continue
		}
		if rating >= 0 && rating <= 5 {
			return rating, true
		}
	}
	return 0, false
}

// firstString returns the first non-blank string found at paths, else def
func firstString(item gjson.Result, def string, paths ...string) string {
	for _, path := range paths {
		v := item.Get(path)
		if v.Type != gjson.String {
			continue
		}
		if s := strings.TrimSpace(v.String()); s != "" {
			return s
		}
	}
	return def
}
