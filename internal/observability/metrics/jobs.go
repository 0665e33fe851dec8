// Package metrics emits the pipeline's standard metric shapes.
// Tags are low cardinality: never job ids, photo ids or user ids.
package metrics

import (
	"time"

	"github.com/target/photo-pipeline/internal/domain/model"
	obserrors "github.com/target/photo-pipeline/internal/observability/errors"
	"github.com/target/photo-pipeline/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

// Transition names used with EmitJobLifecycle.
const (
	TransitionCompleted = "completed"
	TransitionRetried   = "retried"
	TransitionFailed    = "failed"
	TransitionStalled   = "stalled"
	TransitionPromoted  = "promoted"
)

// JobMetric captures details about a job lifecycle event for metric emission.
type JobMetric struct {
	JobName    string
	Transition string
	Result     string
	Duration   time.Duration
	Err        error
}

// EmitJobLifecycle emits job.transition and, when a duration is known, job.duration.
func EmitJobLifecycle(sink statsd.Sink, in JobMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"job_name":   JobNameTag(in.JobName),
		"transition": in.Transition,
		"result":     in.Result,
	}
	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("job.transition", 1, tags)
	if in.Duration > 0 {
		sink.Timing("job.duration", in.Duration, CloneTags(tags))
	}
}

// JobNameTag folds unknown job names into "legacy" so producers cannot blow up tag cardinality.
func JobNameTag(name string) string {
	n := model.JobName(name)
	if n.Known() {
		return name
	}
	return "legacy"
}

// EmitQueueDepth reports per-state job counts as gauges.
func EmitQueueDepth(sink statsd.Sink, queue string, counts *model.JobCounts) {
	if sink == nil || counts == nil {
		return
	}
	for state, n := range map[model.JobState]int64{
		model.JobStateWaiting:   counts.Waiting,
		model.JobStateActive:    counts.Active,
		model.JobStateDelayed:   counts.Delayed,
		model.JobStateCompleted: counts.Completed,
		model.JobStateFailed:    counts.Failed,
	} {
		sink.Gauge("queue.depth", float64(n), map[string]string{"queue": queue, "state": string(state)})
	}
}

// EmitStatusPublish counts status events by outcome.
func EmitStatusPublish(sink statsd.Sink, status, result, reason string) {
	if sink == nil {
		return
	}
	tags := map[string]string{"status": status, "result": result}
	if reason != "" {
		tags["reason"] = reason
	}
	sink.Count("status.publish", 1, tags)
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
