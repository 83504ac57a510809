package research

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-research/internal/logging"
	"job-research/internal/logging/adapters"
	"job-research/pkg/models"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestTaskCompletionLogger_StampsResearchID(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logging.NewMultiLogger()
	logger.SetLevel(logging.DebugLevel)
	require.NoError(t, logger.AddAdapter(adapters.NewWriterAdapter("buf", adapters.StdoutConfig{Format: "json"}, buf)))

	publisher := &recordingPublisher{err: errors.New("redis down")}
	l := NewTaskCompletionLogger(logger, publisher, time.Second)

	created := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	done := created.Add(3 * time.Second)
	task := &ResearchTask{
		ID:          "6f1c2d3e-0000-4000-8000-000000000001",
		Query:       models.ResearchQuery{JobTitle: "Go Developer"},
		Status:      models.ResearchStatusFailed,
		CurrentStep: StepFailed,
		Error:       "search failed",
		CreatedAt:   created,
		UpdatedAt:   done,
		CompletedAt: &done,
	}

	l.LogTaskAccepted(task)
	l.LogTaskProgress(task)
	l.LogTaskCompletion(task)

	entries := decodeLines(t, buf)
	require.Len(t, entries, 4)

	messages := make([]string, 0, len(entries))
	for _, e := range entries {
		assert.Equal(t, task.ID, e["research_id"], e["message"])
		messages = append(messages, e["message"].(string))
	}
	assert.Equal(t, []string{
		"Research task accepted",
		"Research task progress",
		"Research task failed",
		"Failed to publish research completion",
	}, messages)
	assert.Equal(t, "search failed", entries[2]["error"])

	records := publisher.snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, "3s", records[0].ProcessingTime)
}

func TestOrchestrator_PipelineLogsCarryResearchID(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logging.NewMultiLogger()
	require.NoError(t, logger.AddAdapter(adapters.NewWriterAdapter("buf", adapters.StdoutConfig{Format: "json"}, buf)))

	cfg := testConfig()
	o, err := NewOrchestrator(cfg, newPipeline(cfg, &stubProvider{items: threePostings}, &stubLLM{reply: `["x"]`}), logger)
	require.NoError(t, err)

	id, err := o.Start(context.Background(), models.ResearchQuery{JobTitle: "Go Developer"})
	require.NoError(t, err)
	waitTerminal(t, o, id)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, o.Stop(ctx))

	var sawCompletion bool
	for _, e := range decodeLines(t, buf) {
		if e["message"] == "Research task completed" {
			sawCompletion = true
			assert.Equal(t, id, e["research_id"])
		}
	}
	assert.True(t, sawCompletion)
}
