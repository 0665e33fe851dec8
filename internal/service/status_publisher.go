package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/target/photo-pipeline/internal/core"
	"github.com/target/photo-pipeline/internal/domain/job"
	"github.com/target/photo-pipeline/internal/domain/model"
	"github.com/target/photo-pipeline/internal/observability/metrics"
	"github.com/target/photo-pipeline/internal/observability/statsd"
)

// Reasons reported in PublishOutcome when nothing was published.
const (
	ReasonMissingUserID  = "missing_userId"
	ReasonNoPhoto        = "no_photo"
	ReasonNotTerminal    = "not_terminal"
	ReasonDuplicate      = "duplicate"
	ReasonLookupFailed   = "lookup_failed"
	ReasonPublishFailed  = "publish_failed"
	ReasonPublisherPanic = "panic"
)

// PublishOutcome reports whether a status event went out.
type PublishOutcome struct {
	OK      bool
	Reason  string
	EventID string
}

// StatusPublisherOptions groups dependencies for StatusPublisher.
type StatusPublisherOptions struct {
	Owners  core.PhotoRepository // Required: owner lookup by photo id
	Channel core.StatusChannel   // Required: realtime fan-out
	Logger  *slog.Logger         // Optional: structured logger
	Metrics statsd.Sink          // Optional: metrics sink
	Now     func() time.Time     // Optional: clock, defaults to time.Now
}

// StatusPublisher turns job lifecycle events into status events for the
// photo's owner. It never returns errors to the caller; failures are logged.
type StatusPublisher struct {
	owners  core.PhotoRepository
	channel core.StatusChannel
	logger  *slog.Logger
	metrics statsd.Sink
	now     func() time.Time
}

// NewStatusPublisher constructs a StatusPublisher.
func NewStatusPublisher(opts StatusPublisherOptions) (*StatusPublisher, error) {
	if opts.Owners == nil {
		return nil, errors.New("PhotoRepository is required")
	}
	if opts.Channel == nil {
		return nil, errors.New("StatusChannel is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &StatusPublisher{
		owners:  opts.Owners,
		channel: opts.Channel,
		logger:  logger.With("component", "status_publisher"),
		metrics: opts.Metrics,
		now:     now,
	}, nil
}

// OnCompleted publishes "finished" for a completed job.
func (p *StatusPublisher) OnCompleted(ctx context.Context, j *model.Job) {
	p.HandleCompleted(ctx, j)
}

// OnFailed publishes "failed" when the failed attempt was the job's last one.
func (p *StatusPublisher) OnFailed(ctx context.Context, j *model.Job, err error) {
	p.HandleFailed(ctx, j, err)
}

// HandleCompleted publishes "finished" unconditionally for photo jobs.
func (p *StatusPublisher) HandleCompleted(ctx context.Context, j *model.Job) PublishOutcome {
	photoID, ok := photoIDOf(j)
	if !ok {
		return p.skipped(model.PhotoStatusFinished, ReasonNoPhoto)
	}
	return p.publish(ctx, photoID, model.PhotoStatusFinished)
}

// HandleFailed publishes "failed" at most once per job object, and only for
// terminal failures. A stalled-failed job is always terminal.
func (p *StatusPublisher) HandleFailed(ctx context.Context, j *model.Job, cause error) PublishOutcome {
	if j == nil {
		return p.skipped(model.PhotoStatusFailed, ReasonNoPhoto)
	}
	if !errors.Is(cause, job.ErrStalled) && !job.IsTerminalFailure(j.Opts.Attempts, j.AttemptsMade) {
		return PublishOutcome{Reason: ReasonNotTerminal}
	}
	photoID, ok := photoIDOf(j)
	if !ok {
		return p.skipped(model.PhotoStatusFailed, ReasonNoPhoto)
	}
	if !j.MarkTerminalPublished() {
		p.logger.DebugContext(ctx, "terminal failure already published", "job_id", j.ID, "photo_id", photoID)
		return p.skipped(model.PhotoStatusFailed, ReasonDuplicate)
	}
	p.logger.InfoContext(ctx, "job failed terminally", "job_id", j.ID, "photo_id", photoID, "error", cause)
	return p.publish(ctx, photoID, model.PhotoStatusFailed)
}

// Publish sends a status event for photoID to its owner.
func (p *StatusPublisher) Publish(ctx context.Context, photoID string, status model.PhotoStatus) PublishOutcome {
	return p.publish(ctx, photoID, status)
}

func (p *StatusPublisher) publish(ctx context.Context, photoID string, status model.PhotoStatus) (out PublishOutcome) {
	log := p.logger.With("photo_id", photoID, "status", status)
	defer func() {
		if rec := recover(); rec != nil {
			log.ErrorContext(ctx, "status publish panic", "panic", rec)
			out = p.skipped(status, ReasonPublisherPanic)
		}
	}()

	userID, err := p.owners.GetOwner(ctx, photoID)
	if err != nil {
		log.ErrorContext(ctx, "status publish: owner lookup failed", "error", err)
		return p.skipped(status, ReasonLookupFailed)
	}
	if userID == "" {
		log.WarnContext(ctx, "status publish skipped: photo has no owner")
		return p.skipped(status, ReasonMissingUserID)
	}

	event := model.StatusEvent{
		UserID:    userID,
		EventID:   uuid.NewString(),
		PhotoID:   photoID,
		Status:    status,
		UpdatedAt: p.now().UTC(),
	}
	if err := p.channel.Publish(ctx, event); err != nil {
		log.ErrorContext(ctx, "status publish failed", "error", fmt.Errorf("publish %s: %w", status, err))
		return p.skipped(status, ReasonPublishFailed)
	}

	metrics.EmitStatusPublish(p.metrics, string(status), metrics.ResultSuccess, "")
	log.DebugContext(ctx, "status published", "event_id", event.EventID)
	return PublishOutcome{OK: true, EventID: event.EventID}
}

func (p *StatusPublisher) skipped(status model.PhotoStatus, reason string) PublishOutcome {
	result := metrics.ResultNoop
	if reason == ReasonLookupFailed || reason == ReasonPublishFailed || reason == ReasonPublisherPanic {
		result = metrics.ResultError
	}
	metrics.EmitStatusPublish(p.metrics, string(status), result, reason)
	return PublishOutcome{Reason: reason}
}

func photoIDOf(j *model.Job) (string, bool) {
	data, ok := model.PhotoDataOf(j)
	if !ok || data.PhotoID == "" {
		return "", false
	}
	return data.PhotoID, true
}
