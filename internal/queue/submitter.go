package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/target/photo-pipeline/internal/core"
	"github.com/target/photo-pipeline/internal/domain/job"
	"github.com/target/photo-pipeline/internal/domain/model"
	apperrors "github.com/target/photo-pipeline/internal/errors"
	"github.com/target/photo-pipeline/internal/observability/tracing"
)

// ErrQueueUnavailable is returned when a job is submitted while the broker is not connected.
var ErrQueueUnavailable = apperrors.Unavailable("queue unavailable")

// Broker is the part of Connection the submitter needs.
type Broker interface {
	EnsureConnected(ctx context.Context) bool
	Available() bool
	Queue() core.QueueRepository
}

// PhotoJobOptions are the caller-controlled fields of a photo job. Anything
// else in a request body is dropped. Models is the legacy name of ModelOverrides.
type PhotoJobOptions struct {
	RequestID           string          `json:"requestId,omitempty"`
	ModelOverrides      json.RawMessage `json:"modelOverrides,omitempty"`
	Models              json.RawMessage `json:"models,omitempty"`
	ProcessMetadata     *bool           `json:"processMetadata,omitempty"`
	GenerateThumbnail   *bool           `json:"generateThumbnail,omitempty"`
	GenerateDisplay     *bool           `json:"generateDisplay,omitempty"`
	RunAIAnalysis       *bool           `json:"runAiAnalysis,omitempty"`
	CollectibleOverride json.RawMessage `json:"collectibleOverride,omitempty"`
}

// ParsePhotoJobOptions decodes request options. An empty body yields zero options.
func ParsePhotoJobOptions(body []byte) (PhotoJobOptions, error) {
	var opts PhotoJobOptions
	if len(strings.TrimSpace(string(body))) == 0 {
		return opts, nil
	}
	if err := json.Unmarshal(body, &opts); err != nil {
		return PhotoJobOptions{}, apperrors.ValidationField("body", "options must be a JSON object")
	}
	return opts, nil
}

// SubmitterOptions configures a Submitter.
type SubmitterOptions struct {
	Broker Broker
	Tracer *tracing.Tracer
	Logger *slog.Logger
}

// Submitter enqueues typed jobs with the fixed retry policy. It does not
// deduplicate; delivery is at-least-once.
type Submitter struct {
	broker Broker
	tracer *tracing.Tracer
	logger *slog.Logger
}

// NewSubmitter creates a Submitter.
func NewSubmitter(opts SubmitterOptions) (*Submitter, error) {
	if opts.Broker == nil {
		return nil, errors.New("broker is required")
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = tracing.Disabled()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Submitter{
		broker: opts.Broker,
		tracer: tracer,
		logger: logger.With("component", "job_submitter"),
	}, nil
}

// IsQueueAvailable reports broker availability without triggering a connection attempt.
func (s *Submitter) IsQueueAvailable() bool {
	return s.broker.Available()
}

func (s *Submitter) queue(ctx context.Context) (core.QueueRepository, error) {
	if !s.broker.EnsureConnected(ctx) {
		return nil, ErrQueueUnavailable
	}
	repo := s.broker.Queue()
	if repo == nil {
		return nil, ErrQueueUnavailable
	}
	return repo, nil
}

// BuildPhotoJobData copies the allow-listed options into a job payload.
func BuildPhotoJobData(photoID string, opts PhotoJobOptions) model.PhotoJobData {
	overrides := opts.ModelOverrides
	if len(overrides) == 0 {
		overrides = opts.Models
	}
	return model.PhotoJobData{
		PhotoID:             photoID,
		RequestID:           job.SanitizeRequestID(opts.RequestID),
		ModelOverrides:      overrides,
		ProcessMetadata:     opts.ProcessMetadata,
		GenerateThumbnail:   opts.GenerateThumbnail,
		GenerateDisplay:     opts.GenerateDisplay,
		RunAIAnalysis:       opts.RunAIAnalysis,
		CollectibleOverride: opts.CollectibleOverride,
	}
}

// EnqueuePhotoJob submits a process-photo-ai job: 5 attempts, exponential backoff from 60s.
func (s *Submitter) EnqueuePhotoJob(ctx context.Context, photoID string, opts PhotoJobOptions) (*model.Job, error) {
	photoID = strings.TrimSpace(photoID)
	if photoID == "" {
		return nil, apperrors.ValidationField("photoId", "photoId is required")
	}
	repo, err := s.queue(ctx)
	if err != nil {
		return nil, fmt.Errorf("enqueue photo job: %w", err)
	}

	data := BuildPhotoJobData(photoID, opts)
	data.TraceContext = s.tracer.Inject(ctx)

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal photo job data: %w", err)
	}
	queued, err := repo.Add(ctx, &model.AddJobRequest{
		Name: model.JobNameProcessPhoto,
		Data: raw,
		Opts: job.PhotoJobOptions(),
	})
	if err != nil {
		return nil, fmt.Errorf("enqueue photo job: %w", err)
	}

	s.logger.InfoContext(ctx, "photo job enqueued",
		"job_id", queued.ID,
		"photo_id", photoID,
		"request_id", data.RequestID,
	)
	return queued, nil
}

// EnqueueAssessmentJob submits a run-app-assessment job with default options.
func (s *Submitter) EnqueueAssessmentJob(ctx context.Context, assessmentID string) (*model.Job, error) {
	assessmentID = strings.TrimSpace(assessmentID)
	if assessmentID == "" {
		return nil, apperrors.ValidationField("assessmentId", "assessmentId is required")
	}
	repo, err := s.queue(ctx)
	if err != nil {
		return nil, fmt.Errorf("enqueue assessment job: %w", err)
	}

	raw, err := json.Marshal(model.AssessmentJobData{
		AssessmentID: assessmentID,
		TraceContext: s.tracer.Inject(ctx),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal assessment job data: %w", err)
	}
	queued, err := repo.Add(ctx, &model.AddJobRequest{
		Name: model.JobNameRunAssessment,
		Data: raw,
		Opts: job.AssessmentJobOptions(),
	})
	if err != nil {
		return nil, fmt.Errorf("enqueue assessment job: %w", err)
	}

	s.logger.InfoContext(ctx, "assessment job enqueued", "job_id", queued.ID, "assessment_id", assessmentID)
	return queued, nil
}
