package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"job-research/pkg/models"
)

func TestExtractSalary(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"annual range", "Salary: $120,000 - $150,000 per year. Great team", "$120,000 - $150,000 per year"},
		{"hourly", "Pay: $45/hr depending on experience", "$45/hr"},
		{"k suffix range with words", "Band is €50k to €60k a year", "€50k to €60k a year"},
		{"currency code", "Compensation: USD 90,000 annually", "USD 90,000"},
		{"rupees", "CTC ₹12,00,000 per annum", "₹12,00,000 per annum"},
		{"nothing", "Competitive compensation", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSalary(tt.text))
		})
	}
}

func TestExtractExperienceYears(t *testing.T) {
	tests := []struct {
		text   string
		want   int
		wantOK bool
	}{
		{"Requires 5+ years of experience", 5, true},
		{"3-5 years building APIs", 3, true},
		{"at least 3 to 5 yrs in backend", 3, true},
		{"10 years in industry", 10, true},
		{"Founded 2024, years of growth ahead", 0, false},
		{"No experience needed", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ExtractExperienceYears(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyExperienceLevel(t *testing.T) {
	tests := []struct {
		title string
		want  models.ExperienceLevel
	}{
		{"Senior Backend Engineer", models.ExperienceSenior},
		{"Sr. Data Analyst", models.ExperienceSenior},
		{"Staff Engineer", models.ExperienceSenior},
		{"Senior Director of Engineering", models.ExperienceExecutive},
		{"Head of Platform", models.ExperienceExecutive},
		{"Junior Developer", models.ExperienceEntry},
		{"Software Engineering Intern", models.ExperienceEntry},
		{"Mid-level Developer", models.ExperienceMid},
		{"Software Engineer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyExperienceLevel(tt.title))
		})
	}
}

func TestClassifyJobType(t *testing.T) {
	tests := []struct {
		label string
		want  models.JobType
	}{
		{"Full-time", models.JobTypeFullTime},
		{"Part-time", models.JobTypePartTime},
		{"Contractor", models.JobTypeContract},
		{"Temporary", models.JobTypeContract},
		{"Internship", models.JobTypeInternship},
		{"Remote", models.JobTypeRemote},
		{"Hybrid", models.JobTypeHybrid},
		{"", ""},
		{"Per diem", ""},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyJobType(tt.label))
		})
	}
}

func TestExtractRequirements(t *testing.T) {
	t.Run("word boundaries", func(t *testing.T) {
		got := ExtractRequirements("We use Java and JavaScript; knowledge of Git is a plus. Not digital, we trust you.")
		assert.Equal(t, []string{"Java", "JavaScript", "Git"}, got)
	})

	t.Run("symbols in names", func(t *testing.T) {
		got := ExtractRequirements("C++ and C# developers")
		assert.Equal(t, []string{"C++", "C#"}, got)
	})

	t.Run("aliases collapse to one phrase", func(t *testing.T) {
		got := ExtractRequirements("Kubernetes (k8s) experience, PostgreSQL or MySQL")
		assert.Equal(t, []string{"SQL", "Kubernetes"}, got)
	})

	t.Run("empty text", func(t *testing.T) {
		got := ExtractRequirements("   ")
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestExtractBenefits(t *testing.T) {
	got := ExtractBenefits("Comprehensive health insurance, 401k matching, and flexible hours. Health insurance again.")
	assert.Equal(t, []string{"Health insurance", "401(k)", "Flexible hours"}, got)
}

func TestAppendUnique(t *testing.T) {
	got := appendUnique([]string{"Health insurance"}, "health insurance", "Paid time off", "Paid time off")
	assert.Equal(t, []string{"Health insurance", "Paid time off"}, got)
}
