package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"job-research/pkg/models"
)

func TestParseRecommendations(t *testing.T) {
	tests := []struct {
		name   string
		reply  string
		count  int
		want   []string
		mode   models.RecommendationMode
		wantOK bool
	}{
		{
			name:   "plain array",
			reply:  `["Learn Kubernetes", "Contribute to open source", "Tailor your resume"]`,
			count:  5,
			want:   []string{"Learn Kubernetes", "Contribute to open source", "Tailor your resume"},
			mode:   models.RecommendationModeStructured,
			wantOK: true,
		},
		{
			name:   "fenced block",
			reply:  "Sure!\n```json\n[\"Build a portfolio\", \"Network\"]\n```",
			count:  5,
			want:   []string{"Build a portfolio", "Network"},
			mode:   models.RecommendationModeStructured,
			wantOK: true,
		},
		{
			name:   "embedded array",
			reply:  `Here you go: ["Apply early", "Practice system design"] Good luck.`,
			count:  5,
			want:   []string{"Apply early", "Practice system design"},
			mode:   models.RecommendationModeStructured,
			wantOK: true,
		},
		{
			name:   "object wrapper with object elements",
			reply:  `{"recommendations": [{"recommendation": "Get AWS certified"}, {"text": "Mentor juniors"}, {"score": 3}, "Write a blog"]}`,
			count:  5,
			want:   []string{"Get AWS certified", "Mentor juniors", "Write a blog"},
			mode:   models.RecommendationModeStructured,
			wantOK: true,
		},
		{
			name:   "caps structured results",
			reply:  `["a", "b", "c", "d"]`,
			count:  2,
			want:   []string{"a", "b"},
			mode:   models.RecommendationModeStructured,
			wantOK: true,
		},
		{
			name:   "numbered prose falls back",
			reply:  "1. Learn Kubernetes\n2) Build a portfolio\n\n- \"Network with recruiters\"\n• Keep your resume short",
			count:  5,
			want:   []string{"Learn Kubernetes", "Build a portfolio", "Network with recruiters", "Keep your resume short"},
			mode:   models.RecommendationModeFallback,
			wantOK: true,
		},
		{
			name:   "fallback skips bracket lines and caps",
			reply:  "[\n\"First\",\n\"Second\",\n\"Third\"\n",
			count:  2,
			want:   []string{"First", "Second"},
			mode:   models.RecommendationModeFallback,
			wantOK: true,
		},
		{
			name:   "empty reply",
			reply:  "   \n ",
			count:  5,
			wantOK: false,
		},
		{
			name:   "only brackets",
			reply:  "[\n]",
			count:  5,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, ok := ParseRecommendations(tt.reply, tt.count)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.want, set.Items)
			assert.Equal(t, tt.mode, set.Mode)
		})
	}
}
