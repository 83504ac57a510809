package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"job-research/pkg/models"
)

func intPtr(v int) *int { return &v }

func TestBuildSearchQuery(t *testing.T) {
	base := models.ResearchQuery{
		JobTitle: "Backend Engineer",
		Skills:   []string{"Go", " ", "Kubernetes", "AWS", "Terraform"},
	}

	tests := []struct {
		name  string
		min   *int
		max   *int
		want  string
		terms int
	}{
		{"range", intPtr(80000), intPtr(120000), "Backend Engineer Go Kubernetes AWS $80k-$120k", 3},
		{"floor only", intPtr(80000), nil, "Backend Engineer Go Kubernetes AWS $80k+", 3},
		{"ceiling only", nil, intPtr(95500), "Backend Engineer Go Kubernetes AWS up to $95500", 3},
		{"no salary", nil, nil, "Backend Engineer Go Kubernetes AWS", 3},
		{"single skill term", nil, nil, "Backend Engineer Go", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := base
			q.SalaryMin = tt.min
			q.SalaryMax = tt.max
			assert.Equal(t, tt.want, BuildSearchQuery(q, tt.terms))
		})
	}
}

func TestBuildSearchRequest(t *testing.T) {
	req := BuildSearchRequest(models.ResearchQuery{
		JobTitle:   "Data Scientist",
		Location:   "  Berlin ",
		JobType:    models.JobTypeRemote,
		MaxResults: 20,
	}, 3)

	assert.Equal(t, "Data Scientist", req.Query)
	assert.Equal(t, "Berlin", req.Location)
	assert.True(t, req.RemoteOnly)
	assert.Equal(t, 20, req.MaxResults)
}

func TestHTMLToText(t *testing.T) {
	t.Run("markup", func(t *testing.T) {
		got := HTMLToText(`<p>Build <b>APIs</b></p><ul><li>Go</li><li>SQL</li></ul><script>track()</script>`)
		assert.Equal(t, "Build APIs\nGo\nSQL", got)
	})

	t.Run("entities", func(t *testing.T) {
		assert.Equal(t, "Salary & benefits", HTMLToText("Salary &amp; benefits"))
	})

	t.Run("plain text whitespace", func(t *testing.T) {
		assert.Equal(t, "a b\nc", HTMLToText("  a   b \n\n c "))
	})
}
