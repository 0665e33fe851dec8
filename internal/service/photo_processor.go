package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/target/photo-pipeline/internal/core"
	"github.com/target/photo-pipeline/internal/domain/job"
	"github.com/target/photo-pipeline/internal/domain/model"
	"github.com/target/photo-pipeline/internal/observability/tracing"
)

// ErrNoAnalysisResult is returned when AI analysis was inconclusive and the
// photo still has AI retry budget left.
var ErrNoAnalysisResult = errors.New("ai analysis returned no result")

// PhotoCollaborators are the services a photo job calls out to.
type PhotoCollaborators struct {
	Derivatives core.DerivativeGenerator     // Required
	Analyzer    core.AIAnalyzer              // Required when AI is enabled
	Auxiliary   core.AuxiliaryAssetGenerator // Optional
}

// PhotoProcessorConfig holds processing switches.
type PhotoProcessorConfig struct {
	// AIEnabled is the global AI switch; a job can only opt out, never in.
	AIEnabled bool
}

// PhotoProcessorOptions groups dependencies for PhotoProcessor.
type PhotoProcessorOptions struct {
	Photos        core.PhotoRepository // Required
	Collaborators PhotoCollaborators   // Required
	Transitioner  *StorageTransitioner // Required
	Config        PhotoProcessorConfig
	Logger        *slog.Logger
	Tracer        *tracing.Tracer
}

// PhotoProcessor runs one attempt of a process-photo-ai job:
// derivatives, AI analysis, state finalization, then auxiliary assets.
type PhotoProcessor struct {
	photos       core.PhotoRepository
	collab       PhotoCollaborators
	transitioner *StorageTransitioner
	aiEnabled    bool
	logger       *slog.Logger
	tracer       *tracing.Tracer
}

var _ core.PhotoProcessor = (*PhotoProcessor)(nil)

// NewPhotoProcessor constructs a PhotoProcessor.
func NewPhotoProcessor(opts PhotoProcessorOptions) (*PhotoProcessor, error) {
	if opts.Photos == nil {
		return nil, errors.New("PhotoRepository is required")
	}
	if opts.Collaborators.Derivatives == nil {
		return nil, errors.New("DerivativeGenerator is required")
	}
	if opts.Config.AIEnabled && opts.Collaborators.Analyzer == nil {
		return nil, errors.New("AIAnalyzer is required when AI analysis is enabled")
	}
	if opts.Transitioner == nil {
		return nil, errors.New("StorageTransitioner is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = tracing.Disabled()
	}
	return &PhotoProcessor{
		photos:       opts.Photos,
		collab:       opts.Collaborators,
		transitioner: opts.Transitioner,
		aiEnabled:    opts.Config.AIEnabled,
		logger:       logger.With("component", "photo_processor"),
		tracer:       tracer,
	}, nil
}

// Process executes one attempt. A returned error makes the broker retry the
// job; when this was the last attempt the photo is first marked error.
func (p *PhotoProcessor) Process(ctx context.Context, j *model.Job, data *model.PhotoJobData) error {
	if data == nil || data.PhotoID == "" {
		return errors.New("photo job without photoId")
	}
	log := p.logger.With("photo_id", data.PhotoID)
	if j != nil {
		log = log.With("job_id", j.ID, "attempts_made", j.AttemptsMade)
	}
	if rid := job.SanitizeRequestID(data.RequestID); rid != "" {
		log = log.With("request_id", rid)
	}

	err := p.process(ctx, log, data)
	if err != nil && job.IsLastAttempt(j) {
		if serr := p.photos.UpdateState(ctx, data.PhotoID, model.PhotoStateError); serr != nil {
			log.ErrorContext(ctx, "failed to mark photo error after final attempt", "error", serr)
		} else {
			log.WarnContext(ctx, "final attempt failed; photo marked error", "error", err)
		}
	}
	return err
}

// MarkFailed moves the photo to error. The stalled checker uses it for jobs
// that failed without a final attempt reaching Process.
func (p *PhotoProcessor) MarkFailed(ctx context.Context, data *model.PhotoJobData) error {
	if data == nil || data.PhotoID == "" {
		return errors.New("photo job without photoId")
	}
	if err := p.photos.UpdateState(ctx, data.PhotoID, model.PhotoStateError); err != nil {
		return fmt.Errorf("mark photo error: %w", err)
	}
	p.logger.WarnContext(ctx, "photo marked error after job stalled", "photo_id", data.PhotoID)
	return nil
}

func (p *PhotoProcessor) process(ctx context.Context, log *slog.Logger, data *model.PhotoJobData) error {
	if err := p.step(ctx, "photo.derivatives", func(ctx context.Context) error {
		return p.collab.Derivatives.GenerateDerivatives(ctx, model.NewDerivativeRequest(data))
	}); err != nil {
		return fmt.Errorf("generate derivatives: %w", err)
	}

	if p.aiEnabled && data.AIRequested() {
		handled, err := p.analyze(ctx, log, data)
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	} else {
		log.DebugContext(ctx, "ai analysis skipped", "global_enabled", p.aiEnabled)
	}

	if err := p.step(ctx, "photo.finalize", func(ctx context.Context) error {
		return p.finalize(ctx, log, data.PhotoID)
	}); err != nil {
		return fmt.Errorf("finalize photo state: %w", err)
	}

	p.generateAuxiliary(ctx, log, model.NewAuxiliaryAssetRequest(data))
	return nil
}

// analyze runs AI analysis. handled reports that the AI retry budget is
// exhausted and the photo was moved to error; the job is then done.
func (p *PhotoProcessor) analyze(ctx context.Context, log *slog.Logger, data *model.PhotoJobData) (bool, error) {
	var result *model.AnalysisResult
	aerr := p.step(ctx, "photo.ai_analysis", func(ctx context.Context) error {
		var err error
		result, err = p.collab.Analyzer.Analyze(ctx, model.NewAnalysisRequest(data))
		return err
	})
	if aerr == nil && result != nil {
		return false, nil
	}

	count, err := p.photos.IncrementAIRetryCount(ctx, data.PhotoID)
	if err != nil {
		return false, fmt.Errorf("record ai retry: %w", err)
	}

	if count >= job.AIRetryCap {
		if err := p.photos.UpdateState(ctx, data.PhotoID, model.PhotoStateError); err != nil {
			return false, fmt.Errorf("mark photo error after ai retry cap: %w", err)
		}
		log.WarnContext(ctx, "ai retry cap reached; photo marked error",
			"ai_retry_count", count,
			"cap", job.AIRetryCap,
			"error", aerr,
		)
		return true, nil
	}

	if aerr != nil {
		return false, fmt.Errorf("%w (ai retry %d of %d): %w", ErrNoAnalysisResult, count, job.AIRetryCap, aerr)
	}
	return false, fmt.Errorf("%w (ai retry %d of %d)", ErrNoAnalysisResult, count, job.AIRetryCap)
}

// finalize moves a photo that is not yet finished to finished.
func (p *PhotoProcessor) finalize(ctx context.Context, log *slog.Logger, photoID string) error {
	photo, err := p.photos.GetByID(ctx, photoID)
	if err != nil {
		return fmt.Errorf("load photo: %w", err)
	}
	if photo.State == model.PhotoStateFinished {
		log.DebugContext(ctx, "photo already finished")
		return nil
	}

	if photo.IsPinnedOriginal() {
		return p.photos.UpdateState(ctx, photoID, model.PhotoStateFinished)
	}

	res := p.transitioner.Transition(ctx, TransitionRequest{
		PhotoID:     photoID,
		UserID:      photo.UserID,
		FromState:   photo.State,
		ToState:     model.PhotoStateFinished,
		Filename:    photo.Filename,
		StoragePath: photo.Path(),
	})
	if res.Success {
		return nil
	}

	log.WarnContext(ctx, "storage transition failed; writing finished state only", "error", res.Err)
	return p.photos.UpdateState(ctx, photoID, model.PhotoStateFinished)
}

// generateAuxiliary runs auxiliary asset generation in its own goroutine and
// waits for it so the job lock still covers the work. Errors are logged only.
func (p *PhotoProcessor) generateAuxiliary(ctx context.Context, log *slog.Logger, req model.AuxiliaryAssetRequest) {
	if p.collab.Auxiliary == nil {
		return
	}
	done := make(chan error, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- fmt.Errorf("auxiliary asset generation panic: %v", rec)
			}
		}()
		done <- p.step(ctx, "photo.auxiliary_assets", func(ctx context.Context) error {
			return p.collab.Auxiliary.GenerateAuxiliaryAssets(ctx, req)
		})
	}()
	if err := <-done; err != nil {
		log.WarnContext(ctx, "auxiliary asset generation failed", "error", err)
	}
}

func (p *PhotoProcessor) step(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := p.tracer.StartSpan(ctx, name, attribute.String("step", name))
	err := fn(ctx)
	tracing.End(span, err)
	return err
}
