// Package jobrunner consumes the photo queue: it reserves jobs, dispatches them
// to their handlers and reports the outcome back to the broker.
package jobrunner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/target/photo-pipeline/internal/core"
	"github.com/target/photo-pipeline/internal/domain/job"
	"github.com/target/photo-pipeline/internal/domain/model"
	"github.com/target/photo-pipeline/internal/observability/metrics"
	"github.com/target/photo-pipeline/internal/observability/statsd"
	"github.com/target/photo-pipeline/internal/observability/tracing"
)

const (
	defaultConcurrency     = 2
	defaultBlockTimeout    = 5 * time.Second
	defaultPromoteInterval = time.Second
	ackTimeout             = 10 * time.Second
	reserveErrorBackoff    = time.Second
)

// Listener receives job lifecycle events after the broker acknowledged them.
// The job passed to OnFailed still carries its pre-attempt AttemptsMade.
type Listener interface {
	OnCompleted(ctx context.Context, job *model.Job)
	OnFailed(ctx context.Context, job *model.Job, err error)
}

// RunnerOptions configures the job runner adapter.
type RunnerOptions struct {
	Queue       core.QueueRepository
	Photos      core.PhotoProcessor
	Assessments core.AssessmentRunner
	Listeners   []Listener

	Logger  *slog.Logger
	Metrics statsd.Sink
	Tracer  *tracing.Tracer

	// QueueName tags queue depth gauges.
	QueueName string
	// Concurrency is the number of worker goroutines; defaults to 2.
	Concurrency int
	// BlockTimeout bounds each blocking reserve; defaults to 5s.
	BlockTimeout time.Duration
	// PromoteInterval is how often delayed retries are moved back to wait; defaults to 1s.
	PromoteInterval time.Duration
	// LockPolicy defaults to job.DefaultLockPolicy().
	LockPolicy *job.LockPolicy
}

// Runner pulls jobs and executes them using the registered handlers.
type Runner struct {
	queue       core.QueueRepository
	photos      core.PhotoProcessor
	assessments core.AssessmentRunner
	listeners   []Listener
	logger      *slog.Logger
	metrics     statsd.Sink
	tracer      *tracing.Tracer
	queueName   string

	workers         int
	block           time.Duration
	promoteInterval time.Duration
	lockPolicy      *job.LockPolicy
}

// NewRunner validates options and constructs a Runner.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Queue == nil {
		return nil, errors.New("queue repository is required")
	}
	if opts.Photos == nil {
		return nil, errors.New("photo processor is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = tracing.Disabled()
	}
	workers := opts.Concurrency
	if workers <= 0 {
		workers = defaultConcurrency
	}
	block := opts.BlockTimeout
	if block <= 0 {
		block = defaultBlockTimeout
	}
	promote := opts.PromoteInterval
	if promote <= 0 {
		promote = defaultPromoteInterval
	}
	policy := opts.LockPolicy
	if policy == nil {
		policy = job.DefaultLockPolicy()
	}

	return &Runner{
		queue:           opts.Queue,
		photos:          opts.Photos,
		assessments:     opts.Assessments,
		listeners:       opts.Listeners,
		logger:          logger.With("component", "job_runner"),
		metrics:         opts.Metrics,
		tracer:          tracer,
		queueName:       opts.QueueName,
		workers:         workers,
		block:           block,
		promoteInterval: promote,
		lockPolicy:      policy,
	}, nil
}

// Run starts the worker goroutines and the maintenance loops and blocks until
// ctx is cancelled. Jobs already running when ctx is cancelled finish their
// attempt before Run returns.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting job runner",
		"workers", r.workers,
		"lock_duration", r.lockPolicy.LockDuration(),
		"stalled_interval", r.lockPolicy.StalledInterval(),
	)

	g, gctx := errgroup.WithContext(ctx)
	for i := range r.workers {
		g.Go(func() error { return r.workerLoop(gctx, i) })
	}
	g.Go(func() error { return r.stalledLoop(gctx) })
	g.Go(func() error { return r.promoteLoop(gctx) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return ctx.Err()
}

func (r *Runner) workerLoop(ctx context.Context, worker int) error {
	for ctx.Err() == nil {
		token := uuid.NewString()
		j, err := r.queue.Reserve(ctx, token, r.block)
		switch {
		case err == nil:
			r.processJob(ctx, j, token)
		case errors.Is(err, model.ErrNoJobsAvailable):
		case ctx.Err() != nil:
			return nil
		default:
			r.logger.ErrorContext(ctx, "reserve job failed", "worker", worker, "error", err)
			if !sleepCtx(ctx, reserveErrorBackoff) {
				return nil
			}
		}
	}
	return nil
}

// processJob runs one attempt. The attempt is detached from ctx so shutdown
// lets it finish instead of burning an attempt.
func (r *Runner) processJob(ctx context.Context, j *model.Job, token string) {
	jobCtx := context.WithoutCancel(ctx)
	start := time.Now()
	attrs := jobLogAttrs(j)

	stopHeartbeat := r.startHeartbeat(jobCtx, j.ID, token)
	err := r.execute(jobCtx, j)
	stopHeartbeat()

	ackCtx, cancel := context.WithTimeout(jobCtx, ackTimeout)
	defer cancel()

	if err == nil {
		r.complete(ackCtx, jobCtx, j, token, start, attrs)
		return
	}
	r.fail(ackCtx, jobCtx, j, token, err, start, attrs)
}

func (r *Runner) complete(ackCtx, jobCtx context.Context, j *model.Job, token string, start time.Time, attrs []any) {
	if cerr := r.queue.Complete(ackCtx, j, token); cerr != nil {
		r.logger.ErrorContext(jobCtx, "complete job error", append(attrs, "error", cerr)...)
		r.emit(j, metrics.TransitionCompleted, metrics.ResultError, time.Since(start), cerr)
		return
	}
	r.logger.InfoContext(jobCtx, "job completed", append(attrs, "duration", time.Since(start))...)
	r.emit(j, metrics.TransitionCompleted, metrics.ResultSuccess, time.Since(start), nil)
	r.notifyCompleted(jobCtx, j)
}

func (r *Runner) fail(ackCtx, jobCtx context.Context, j *model.Job, token string, err error, start time.Time, attrs []any) {
	outcome, ferr := r.queue.Fail(ackCtx, core.FailJobParams{Job: j, Token: token, Reason: err.Error()})
	if ferr != nil {
		r.logger.ErrorContext(jobCtx, "fail job error", append(attrs, "error", ferr, "original_error", err)...)
		r.emit(j, metrics.TransitionFailed, metrics.ResultError, time.Since(start), ferr)
		return
	}

	transition := metrics.TransitionFailed
	if outcome.Retried {
		transition = metrics.TransitionRetried
		r.logger.WarnContext(jobCtx, "job attempt failed; retry scheduled",
			append(attrs, "error", err, "attempt", outcome.AttemptsMade, "retry_in", outcome.Delay)...)
	} else {
		r.logger.ErrorContext(jobCtx, "job failed",
			append(attrs, "error", err, "attempt", outcome.AttemptsMade)...)
	}
	r.emit(j, transition, metrics.ResultError, time.Since(start), err)
	r.notifyFailed(jobCtx, j, err)
}

// execute decodes the payload and runs the matching handler inside a job span.
func (r *Runner) execute(ctx context.Context, j *model.Job) (err error) {
	payload, err := model.DecodePayload(j)
	if err != nil {
		return err
	}

	spanCtx, span := r.tracer.StartJobSpan(ctx, payload.Carrier(),
		attribute.String("job.id", j.ID),
		attribute.String("job.name", metrics.JobNameTag(string(j.Name))),
		attribute.Int("job.attempts_made", j.AttemptsMade),
	)
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("job handler panic: %v", rec)
		}
		tracing.End(span, err)
	}()

	switch p := payload.(type) {
	case *model.AssessmentPayload:
		if r.assessments == nil {
			return errors.New("assessment runner not configured")
		}
		return r.assessments.RunAssessment(spanCtx, p.Data.AssessmentID)
	case *model.PhotoPayload:
		return r.photos.Process(spanCtx, j, &p.Data)
	case *model.LegacyPayload:
		r.logger.DebugContext(ctx, "routing legacy job to photo processor", "job_id", j.ID, "job_name", string(p.Name))
		return r.photos.Process(spanCtx, j, &p.Data)
	default:
		return fmt.Errorf("no handler for job %s", j.Name)
	}
}

// startHeartbeat renews the job lock every half lock duration until the
// returned stop function is called.
func (r *Runner) startHeartbeat(ctx context.Context, jobID, token string) func() {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(r.lockPolicy.RenewInterval())
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				ok, err := r.queue.ExtendLock(ctx, jobID, token)
				if err != nil {
					if ctx.Err() == nil {
						r.logger.WarnContext(ctx, "extend job lock failed", "job_id", jobID, "error", err)
					}
					continue
				}
				if !ok {
					r.logger.WarnContext(ctx, "job lock lost", "job_id", jobID)
					return
				}
			}
		}
	}()
	return func() {
		cancel()
		wg.Wait()
	}
}

func (r *Runner) notifyCompleted(ctx context.Context, j *model.Job) {
	for _, l := range r.listeners {
		r.safeNotify(ctx, j, func() { l.OnCompleted(ctx, j) })
	}
}

func (r *Runner) notifyFailed(ctx context.Context, j *model.Job, err error) {
	for _, l := range r.listeners {
		r.safeNotify(ctx, j, func() { l.OnFailed(ctx, j, err) })
	}
}

func (r *Runner) safeNotify(ctx context.Context, j *model.Job, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.ErrorContext(ctx, "job listener panic", "job_id", j.ID, "panic", rec)
		}
	}()
	fn()
}

func (r *Runner) emit(j *model.Job, transition, result string, d time.Duration, err error) {
	metrics.EmitJobLifecycle(r.metrics, metrics.JobMetric{
		JobName:    string(j.Name),
		Transition: transition,
		Result:     result,
		Duration:   d,
		Err:        err,
	})
}

// jobLogAttrs returns the log attributes identifying a job. The request id is
// sanitized again since jobs may come from other producers.
func jobLogAttrs(j *model.Job) []any {
	attrs := []any{"job_id", j.ID, "job_name", string(j.Name), "attempts_made", j.AttemptsMade}
	if data, ok := model.PhotoDataOf(j); ok {
		attrs = append(attrs, "photo_id", data.PhotoID)
		if rid := job.SanitizeRequestID(data.RequestID); rid != "" {
			attrs = append(attrs, "request_id", rid)
		}
	}
	return attrs
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
