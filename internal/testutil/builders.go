package testutil

import (
	"encoding/json"
	"time"

	"github.com/target/photo-pipeline/internal/domain/job"
	"github.com/target/photo-pipeline/internal/domain/model"
)

// PhotoJobBuilder provides a fluent interface for building photo jobs in tests.
type PhotoJobBuilder struct {
	job  *model.Job
	data model.PhotoJobData
}

// NewPhotoJob creates a builder for a first-attempt process-photo-ai job.
func NewPhotoJob(photoID string) *PhotoJobBuilder {
	return &PhotoJobBuilder{
		job: &model.Job{
			ID:        "1",
			Name:      model.JobNameProcessPhoto,
			Opts:      job.PhotoJobOptions(),
			Timestamp: TestTime(),
		},
		data: model.PhotoJobData{PhotoID: photoID},
	}
}

// WithID sets the broker job id.
func (b *PhotoJobBuilder) WithID(id string) *PhotoJobBuilder {
	b.job.ID = id
	return b
}

// WithName overrides the job name, e.g. to build a legacy job.
func (b *PhotoJobBuilder) WithName(name model.JobName) *PhotoJobBuilder {
	b.job.Name = name
	return b
}

// WithAttempts sets the configured attempts and the attempts already made.
func (b *PhotoJobBuilder) WithAttempts(attempts, attemptsMade int) *PhotoJobBuilder {
	b.job.Opts.Attempts = attempts
	b.job.AttemptsMade = attemptsMade
	return b
}

// WithRequestID sets the request id.
func (b *PhotoJobBuilder) WithRequestID(id string) *PhotoJobBuilder {
	b.data.RequestID = id
	return b
}

// WithAI sets the runAiAnalysis flag.
func (b *PhotoJobBuilder) WithAI(enabled bool) *PhotoJobBuilder {
	b.data.RunAIAnalysis = BoolPtr(enabled)
	return b
}

// WithTraceContext sets the propagated trace context.
func (b *PhotoJobBuilder) WithTraceContext(carrier map[string]string) *PhotoJobBuilder {
	b.data.TraceContext = carrier
	return b
}

// Data returns the payload built so far.
func (b *PhotoJobBuilder) Data() *model.PhotoJobData {
	d := b.data
	return &d
}

// Build encodes the payload and returns the job.
func (b *PhotoJobBuilder) Build() *model.Job {
	raw, err := json.Marshal(b.data)
	if err != nil {
		panic(err)
	}
	b.job.Data = raw
	return b.job
}

// NewPhoto returns a photo row in the inprogress state with a legacy state path.
func NewPhoto(id, userID string) *model.Photo {
	path := model.StatePath(userID, model.PhotoStateInProgress, "IMG_0001.heic")
	return &model.Photo{
		ID:               id,
		UserID:           userID,
		Filename:         "IMG_0001.heic",
		State:            model.PhotoStateInProgress,
		StoragePath:      &path,
		TransitionStatus: model.TransitionIdle,
		CreatedAt:        TestTime(),
		UpdatedAt:        TestTime(),
	}
}

// TestTime returns a fixed timestamp for deterministic tests.
func TestTime() time.Time {
	return time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
}

// StringPtr returns a pointer to the given string value.
func StringPtr(s string) *string {
	return &s
}

// BoolPtr returns a pointer to the given bool value.
func BoolPtr(b bool) *bool {
	return &b
}
