package search

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-research/internal/logging"
	"job-research/pkg/models"
)

type stubProvider struct {
	items    []json.RawMessage
	err      error
	block    bool
	lastReq  SearchRequest
	numCalls int
}

func (s *stubProvider) Query(ctx context.Context, req SearchRequest) ([]json.RawMessage, error) {
	s.numCalls++
	s.lastReq = req
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.items, s.err
}

func (s *stubProvider) Name() string { return "stub" }

const serpItem = `{
	"title": "Senior Go Engineer",
	"company_name": "Acme Corp",
	"location": "Austin, TX",
	"via": "LinkedIn",
	"description": "<p>We need 5+ years of experience with Golang and Kubernetes.</p><p>Salary: $150,000 - $180,000 a year</p>",
	"job_highlights": [{"title": "Benefits", "items": ["Health insurance", "401(k) matching"]}],
	"extensions": ["3 days ago", "Full-time"],
	"detected_extensions": {"posted_at": "3 days ago", "schedule_type": "Full-time", "paid_time_off": true},
	"apply_options": [{"title": "LinkedIn", "link": "https://www.linkedin.com/jobs/view/1"}],
	"share_link": "https://www.google.com/search?q=share",
	"company_rating": 4.3
}`

func TestParseItem(t *testing.T) {
	posting, err := ParseItem(json.RawMessage(serpItem), refTime, "stub")
	require.NoError(t, err)

	assert.Equal(t, "Senior Go Engineer", posting.Title)
	assert.Equal(t, "Acme Corp", posting.Company)
	assert.Equal(t, "Austin, TX", posting.Location)
	assert.Equal(t, models.JobTypeFullTime, posting.JobType)
	assert.Equal(t, models.ExperienceSenior, posting.ExperienceLevel)
	assert.Equal(t, []string{"Go", "Kubernetes"}, posting.Requirements)
	assert.Equal(t, []string{"Health insurance", "401(k)", "Paid time off"}, posting.Benefits)
	assert.Equal(t, "$150,000 - $180,000 a year", posting.Salary)
	assert.Equal(t, "https://www.linkedin.com/jobs/view/1", posting.ApplyURL)
	assert.Equal(t, "stub", posting.Source)
	assert.False(t, posting.Remote)

	require.NotNil(t, posting.ExperienceYears)
	assert.Equal(t, 5, *posting.ExperienceYears)
	require.NotNil(t, posting.CompanyRating)
	assert.InDelta(t, 4.3, *posting.CompanyRating, 0.001)
	require.NotNil(t, posting.PostedDate)
	assert.Equal(t, "2026-10-15", posting.PostedDate.String())
	assert.Equal(t, "3 days ago", posting.PostedText)
	assert.NotContains(t, posting.Description, "<p>")
}

func TestParseItem_Defaults(t *testing.T) {
	posting, err := ParseItem(json.RawMessage(`{"title":"Analyst","location":"Remote","company_rating":"9.5","detected_extensions":{"salary":"80K–100K a year"}}`), refTime, "stub")
	require.NoError(t, err)

	assert.Equal(t, unknownCompany, posting.Company)
	assert.Equal(t, "80K–100K a year", posting.Salary)
	assert.True(t, posting.Remote)
	assert.Nil(t, posting.CompanyRating)
	assert.Nil(t, posting.PostedDate)
	assert.Nil(t, posting.ExperienceYears)
	assert.NotNil(t, posting.Requirements)
	assert.NotNil(t, posting.Benefits)
}

func TestParseItem_Unparseable(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"invalid json", `not json`},
		{"array", `[1,2]`},
		{"numeric title", `{"title": 42}`},
		{"missing title", `{"company_name": "X"}`},
		{"blank title", `{"title": "   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseItem(json.RawMessage(tt.raw), refTime, "stub")
			assert.Error(t, err)
		})
	}
}

func newTestNormalizer(p Provider, timeout time.Duration) *Normalizer {
	return NewNormalizer(p, Options{
		Timeout:       timeout,
		RecencyWindow: 15 * 24 * time.Hour,
		SkillTerms:    3,
		Now:           func() time.Time { return refTime },
	}, logging.NewNopLogger())
}

func TestNormalizer_Search(t *testing.T) {
	provider := &stubProvider{items: []json.RawMessage{
		json.RawMessage(`{"title":"Go Developer","company_name":"Acme","detected_extensions":{"posted_at":"2 days ago"}}`),
		json.RawMessage(`{"title":"Old Go Role","company_name":"Globex","detected_extensions":{"posted_at":"40 days ago"}}`),
		json.RawMessage(`{"title":"Undated Go Role","company_name":"Initech"}`),
		json.RawMessage(`{"company_name":"No title"}`),
		json.RawMessage(`garbage`),
	}}

	n := newTestNormalizer(provider, time.Second)
	outcome, err := n.Search(context.Background(), models.ResearchQuery{
		JobTitle:       "Go Developer",
		Skills:         []string{"Go", "gRPC"},
		Location:       "Remote",
		RemoteFriendly: true,
		MaxResults:     10,
	})
	require.NoError(t, err)

	assert.Equal(t, "Go Developer Go gRPC", provider.lastReq.Query)
	assert.Equal(t, "Remote", provider.lastReq.Location)
	assert.True(t, provider.lastReq.RemoteOnly)

	require.Len(t, outcome.Postings, 2)
	assert.Equal(t, "Go Developer", outcome.Postings[0].Title)
	assert.Equal(t, "Undated Go Role", outcome.Postings[1].Title)
	assert.Equal(t, models.SearchSummary{Provider: "stub", RawResults: 5, Skipped: 2, StaleRemoved: 1}, outcome.Summary)
}

func TestNormalizer_MaxResultsBound(t *testing.T) {
	items := make([]json.RawMessage, 0, 5)
	for i := 0; i < 5; i++ {
		items = append(items, json.RawMessage(`{"title":"Role","company_name":"Acme"}`))
	}

	n := newTestNormalizer(&stubProvider{items: items}, time.Second)
	outcome, err := n.Search(context.Background(), models.ResearchQuery{JobTitle: "Role", MaxResults: 3})
	require.NoError(t, err)
	assert.Len(t, outcome.Postings, 3)
}

func TestNormalizer_ProviderFailure(t *testing.T) {
	cause := errors.New("connection refused")
	n := newTestNormalizer(&stubProvider{err: cause}, time.Second)

	_, err := n.Search(context.Background(), models.ResearchQuery{JobTitle: "Role"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSearchFailed)
	assert.ErrorIs(t, err, cause)

	var searchErr *SearchError
	require.ErrorAs(t, err, &searchErr)
	assert.Equal(t, "stub", searchErr.Provider)
}

func TestNormalizer_Timeout(t *testing.T) {
	n := newTestNormalizer(&stubProvider{block: true}, 20*time.Millisecond)

	_, err := n.Search(context.Background(), models.ResearchQuery{JobTitle: "Role"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSearchFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
