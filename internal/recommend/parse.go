package recommend

import (
	"encoding/json"
	"regexp"
	"strings"

	"job-research/pkg/models"
)

var (
	fencePattern     = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)```")
	listPrefixPattern = regexp.MustCompile(`^(?:[0-9]+[.)]?|[-*•–]|\s)+`)
)

// ParseRecommendations extracts up to count recommendations from an LLM reply. Structured
// JSON is tried first, then a line-based fallback. ok is false when nothing usable remains.
func ParseRecommendations(reply string, count int) (models.RecommendationSet, bool) {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return models.RecommendationSet{}, false
	}

	if items := parseStructured(reply); len(items) > 0 {
		return models.RecommendationSet{Items: capItems(items, count), Mode: models.RecommendationModeStructured}, true
	}

	items := parseLines(reply)
	if len(items) == 0 {
		return models.RecommendationSet{}, false
	}
	return models.RecommendationSet{Items: capItems(items, count), Mode: models.RecommendationModeFallback}, true
}

func parseStructured(reply string) []string {
	candidates := []string{reply}
	if m := fencePattern.FindStringSubmatch(reply); m != nil {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	if start, end := strings.Index(reply, "["), strings.LastIndex(reply, "]"); start >= 0 && end > start {
		candidates = append(candidates, reply[start:end+1])
	}
	if start, end := strings.Index(reply, "{"), strings.LastIndex(reply, "}"); start >= 0 && end > start {
		candidates = append(candidates, reply[start:end+1])
	}

	for _, c := range candidates {
		if items := decodeCandidate(c); len(items) > 0 {
			return items
		}
	}
	return nil
}

func decodeCandidate(s string) []string {
	var arr []json.RawMessage
	if err := json.Unmarshal([]byte(s), &arr); err == nil {
		return elementsToStrings(arr)
	}

	var obj struct {
		Recommendations []json.RawMessage `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(s), &obj); err == nil {
		return elementsToStrings(obj.Recommendations)
	}
	return nil
}

// elementsToStrings accepts plain strings and objects carrying a recommendation, text or title
func elementsToStrings(elems []json.RawMessage) []string {
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		var s string
		if err := json.Unmarshal(e, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
			continue
		}

		var obj map[string]interface{}
		if err := json.Unmarshal(e, &obj); err != nil {
			continue
		}
		for _, key := range []string{"recommendation", "text", "title"} {
			if v, ok := obj[key].(string); ok && strings.TrimSpace(v) != "" {
				out = append(out, strings.TrimSpace(v))
				break
			}
		}
	}
	return out
}

func parseLines(reply string) []string {
	out := make([]string, 0)
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") ||
			strings.HasPrefix(line, "[") || strings.HasPrefix(line, "]") {
			continue
		}
		line = listPrefixPattern.ReplaceAllString(line, "")
		line = strings.Trim(line, "\"'`, ")
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func capItems(items []string, count int) []string {
	if count > 0 && len(items) > count {
		return items[:count]
	}
	return items
}
