package adapters

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"job-research/internal/logging/types"
)

// encodeEntry renders an entry in the requested format. Unknown formats fall back to json.
func encodeEntry(entry *types.LogEntry, format string, colorize func(string) string) (string, error) {
	if strings.ToLower(format) == "text" {
		return encodeText(entry, colorize), nil
	}
	return encodeJSON(entry)
}

func encodeJSON(entry *types.LogEntry) (string, error) {
	logData := make(map[string]interface{}, len(entry.Fields)+3)
	for k, v := range entry.Fields {
		logData[k] = normalizeValue(v)
	}

	// reserved keys win over fields
	logData["level"] = entry.Level.String()
	logData["message"] = entry.Message
	logData["time"] = entry.Timestamp.Format(time.RFC3339)

	data, err := json.Marshal(logData)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func encodeText(entry *types.LogEntry, colorize func(string) string) string {
	level := strings.ToUpper(entry.Level.String())
	if colorize != nil {
		level = colorize(level)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s", entry.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"), level, entry.Message)

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, normalizeValue(entry.Fields[k]))
		}
	}

	return b.String()
}

// normalizeValue keeps errors and durations readable once encoded.
func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case error:
		return val.Error()
	case time.Duration:
		return val.String()
	default:
		return v
	}
}
