package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/photo-pipeline/internal/domain/model"
	"github.com/target/photo-pipeline/internal/observability/statsd"
)

func TestEmitJobLifecycle(t *testing.T) {
	rec := &statsd.Recorder{}
	EmitJobLifecycle(rec, JobMetric{
		JobName:    "ai-processing",
		Transition: TransitionRetried,
		Result:     ResultError,
		Duration:   2 * time.Second,
		Err:        errors.New("boom"),
	})

	counts := rec.Named("job.transition")
	require.Len(t, counts, 1)
	assert.Equal(t, map[string]string{
		"job_name":    "legacy",
		"transition":  "retried",
		"result":      "error",
		"error_class": "errors_errorstring",
	}, counts[0].Tags)

	timings := rec.Named("job.duration")
	require.Len(t, timings, 1)
	assert.InDelta(t, 2000, timings[0].Value, 0.001)

	EmitJobLifecycle(nil, JobMetric{})
}

func TestEmitJobLifecycle_NoDuration(t *testing.T) {
	rec := &statsd.Recorder{}
	EmitJobLifecycle(rec, JobMetric{JobName: string(model.JobNameProcessPhoto), Transition: TransitionCompleted, Result: ResultSuccess})
	assert.Len(t, rec.Named("job.transition"), 1)
	assert.Empty(t, rec.Named("job.duration"))
	assert.Equal(t, "process-photo-ai", rec.Named("job.transition")[0].Tags["job_name"])
}

func TestEmitQueueDepth(t *testing.T) {
	rec := &statsd.Recorder{}
	EmitQueueDepth(rec, "photo-ai", &model.JobCounts{Waiting: 3, Failed: 1})

	gauges := rec.Named("queue.depth")
	require.Len(t, gauges, 5)
	for _, g := range gauges {
		switch g.Tags["state"] {
		case "waiting":
			assert.InDelta(t, 3, g.Value, 0)
		case "failed":
			assert.InDelta(t, 1, g.Value, 0)
		}
		assert.Equal(t, "photo-ai", g.Tags["queue"])
	}
}

func TestEmitStatusPublish(t *testing.T) {
	rec := &statsd.Recorder{}
	EmitStatusPublish(rec, "failed", ResultNoop, "missing_userId")
	got := rec.Named("status.publish")
	require.Len(t, got, 1)
	assert.Equal(t, "missing_userId", got[0].Tags["reason"])
}
