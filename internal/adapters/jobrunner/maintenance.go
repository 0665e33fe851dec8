package jobrunner

import (
	"context"
	"time"

	"github.com/target/photo-pipeline/internal/domain/job"
	"github.com/target/photo-pipeline/internal/domain/model"
	"github.com/target/photo-pipeline/internal/observability/metrics"
)

// ErrJobStalled is reported to listeners for jobs the stalled checker failed.
var ErrJobStalled = job.ErrStalled

// stalledLoop runs stalled-job recovery immediately and then every stalled interval.
func (r *Runner) stalledLoop(ctx context.Context) error {
	ticker := time.NewTicker(r.lockPolicy.StalledInterval())
	defer ticker.Stop()

	for {
		r.checkStalled(ctx)
		r.reportDepth(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (r *Runner) checkStalled(ctx context.Context) {
	res, err := r.queue.RecoverStalled(ctx)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.ErrorContext(ctx, "stalled job check failed", "error", err)
		}
		return
	}

	for _, id := range res.Requeued {
		r.logger.WarnContext(ctx, "job stalled; moved back to wait", "job_id", id)
	}
	r.countTransition(metrics.TransitionStalled, metrics.ResultNoop, int64(len(res.Requeued)))
	for _, id := range res.Failed {
		j, err := r.queue.GetJob(ctx, id)
		if err != nil {
			r.logger.ErrorContext(ctx, "load stalled job", "job_id", id, "error", err)
			continue
		}
		attrs := jobLogAttrs(j)
		r.logger.ErrorContext(ctx, "job failed after stalling", attrs...)
		r.emitNamed(string(j.Name), metrics.TransitionStalled, metrics.ResultError)
		r.markStalledPhoto(ctx, j)
		r.notifyFailed(ctx, j, ErrJobStalled)
	}
}

// markStalledPhoto moves the photo of a stalled-failed job to error. No
// attempt ran to completion, so Process never got the chance to.
func (r *Runner) markStalledPhoto(ctx context.Context, j *model.Job) {
	data, ok := model.PhotoDataOf(j)
	if !ok || data.PhotoID == "" {
		return
	}
	if err := r.photos.MarkFailed(ctx, data); err != nil {
		r.logger.ErrorContext(ctx, "failed to mark stalled photo error",
			"job_id", j.ID, "photo_id", data.PhotoID, "error", err)
	}
}

func (r *Runner) reportDepth(ctx context.Context) {
	if r.metrics == nil {
		return
	}
	counts, err := r.queue.Counts(ctx)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.WarnContext(ctx, "queue counts failed", "error", err)
		}
		return
	}
	metrics.EmitQueueDepth(r.metrics, r.queueName, counts)
}

// promoteLoop moves delayed retries whose backoff elapsed back to the wait list.
func (r *Runner) promoteLoop(ctx context.Context) error {
	ticker := time.NewTicker(r.promoteInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		n, err := r.queue.PromoteDelayed(ctx, time.Now())
		if err != nil {
			if ctx.Err() == nil {
				r.logger.WarnContext(ctx, "promote delayed jobs failed", "error", err)
			}
			continue
		}
		if n > 0 {
			r.logger.DebugContext(ctx, "promoted delayed jobs", "count", n)
			r.countTransition(metrics.TransitionPromoted, metrics.ResultSuccess, n)
		}
	}
}

// countTransition counts bulk transitions whose job names are not loaded.
func (r *Runner) countTransition(transition, result string, n int64) {
	if r.metrics == nil || n <= 0 {
		return
	}
	r.metrics.Count("job.transition", n, map[string]string{
		"job_name":   "all",
		"transition": transition,
		"result":     result,
	})
}

func (r *Runner) emitNamed(name, transition, result string) {
	metrics.EmitJobLifecycle(r.metrics, metrics.JobMetric{
		JobName:    name,
		Transition: transition,
		Result:     result,
	})
}
