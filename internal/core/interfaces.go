package core

import (
	"context"
	"time"

	"github.com/target/photo-pipeline/internal/domain/model"
)

// This file contains the ports between the pipeline services and their collaborators.
// Services depend on these interfaces; adapters in internal/data and internal/adapters implement them.

// QueueRepository is the durable broker behind the photo job queue.
type QueueRepository interface {
	Add(ctx context.Context, req *model.AddJobRequest) (*model.Job, error)
	Reserve(ctx context.Context, token string, block time.Duration) (*model.Job, error)
	ExtendLock(ctx context.Context, jobID, token string) (bool, error)
	Complete(ctx context.Context, job *model.Job, token string) error
	Fail(ctx context.Context, params FailJobParams) (*model.FailOutcome, error)
	PromoteDelayed(ctx context.Context, now time.Time) (int64, error)
	RecoverStalled(ctx context.Context) (*model.StalledResult, error)
	GetJob(ctx context.Context, id string) (*model.Job, error)
	Counts(ctx context.Context) (*model.JobCounts, error)
	TrimFinished(ctx context.Context, params TrimFinishedParams) (*model.TrimResult, error)
}

// FailJobParams groups parameters for QueueRepository.Fail.
type FailJobParams struct {
	Job    *model.Job
	Token  string
	Reason string
}

// TrimFinishedParams groups parameters for QueueRepository.TrimFinished.
type TrimFinishedParams struct {
	CompletedBefore time.Time
	FailedBefore    time.Time
	BatchSize       int
}

// PhotoRepository reads and updates photo rows.
type PhotoRepository interface {
	GetByID(ctx context.Context, id string) (*model.Photo, error)
	// GetOwner returns the owning user id, or an empty string when the photo has no owner.
	GetOwner(ctx context.Context, photoID string) (string, error)
	SetTransitionStatus(ctx context.Context, photoID string, status model.TransitionStatus) error
	CompleteTransition(ctx context.Context, params CompleteTransitionParams) error
	UpdateState(ctx context.Context, photoID string, state model.PhotoState) error
	// IncrementAIRetryCount records a failed AI attempt and returns the persisted counter.
	IncrementAIRetryCount(ctx context.Context, photoID string) (int, error)
}

// CompleteTransitionParams groups parameters for PhotoRepository.CompleteTransition.
type CompleteTransitionParams struct {
	PhotoID     string
	State       model.PhotoState
	StoragePath string
}

// ObjectStorage moves photo bytes between storage paths.
type ObjectStorage interface {
	// Move relocates an object. It fails with a conflict error when the
	// destination exists and a not-found error when the source is missing.
	Move(ctx context.Context, from, to string) error
	Download(ctx context.Context, path string) ([]byte, error)
	Upload(ctx context.Context, path string, body []byte) error
	Delete(ctx context.Context, path string) error
}

// DerivativeGenerator produces thumbnails, display assets and metadata.
type DerivativeGenerator interface {
	GenerateDerivatives(ctx context.Context, req model.DerivativeRequest) error
}

// AIAnalyzer runs AI analysis. A nil result with a nil error is an inconclusive analysis.
type AIAnalyzer interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResult, error)
}

// AuxiliaryAssetGenerator builds secondary assets. Implementations must be idempotent.
type AuxiliaryAssetGenerator interface {
	GenerateAuxiliaryAssets(ctx context.Context, req model.AuxiliaryAssetRequest) error
}

// AssessmentRunner executes application assessments.
type AssessmentRunner interface {
	RunAssessment(ctx context.Context, assessmentID string) error
}

// StatusChannel fans status events out to realtime subscribers.
type StatusChannel interface {
	Publish(ctx context.Context, event model.StatusEvent) error
}

// PhotoProcessor executes one attempt of a photo job.
type PhotoProcessor interface {
	Process(ctx context.Context, job *model.Job, data *model.PhotoJobData) error
	// MarkFailed moves the photo to error for a job that failed outside Process.
	MarkFailed(ctx context.Context, data *model.PhotoJobData) error
}
