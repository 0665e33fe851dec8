// Package httpx exposes the job submission API of the photo pipeline.
package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/target/photo-pipeline/internal/domain/model"
	"github.com/target/photo-pipeline/internal/queue"
)

// JobSubmitter is the part of queue.Submitter the handlers depend on.
type JobSubmitter interface {
	IsQueueAvailable() bool
	EnqueuePhotoJob(ctx context.Context, photoID string, opts queue.PhotoJobOptions) (*model.Job, error)
	EnqueueAssessmentJob(ctx context.Context, assessmentID string) (*model.Job, error)
}

// JobHandlers provides HTTP handlers for job submission.
type JobHandlers struct {
	Jobs         JobSubmitter
	MaxBodyBytes int64
	Logger       *slog.Logger
}

type enqueueResponse struct {
	JobID string `json:"jobId"`
}

type queueStatusResponse struct {
	Available bool `json:"available"`
}

// ProcessPhoto enqueues a process-photo-ai job for the photo in the path.
// The optional JSON body carries the allow-listed job options.
func (h *JobHandlers) ProcessPhoto(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, h.MaxBodyBytes)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	opts, err := queue.ParsePhotoJobOptions(body)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if opts.RequestID == "" {
		opts.RequestID = r.Header.Get(RequestIDHeader)
	}

	j, err := h.Jobs.EnqueuePhotoJob(r.Context(), r.PathValue("id"), opts)
	if err != nil {
		h.logFailure(r, "enqueue photo job failed", err)
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusAccepted, enqueueResponse{JobID: j.ID})
}

// RunAssessment enqueues a run-app-assessment job.
func (h *JobHandlers) RunAssessment(w http.ResponseWriter, r *http.Request) {
	j, err := h.Jobs.EnqueueAssessmentJob(r.Context(), r.PathValue("id"))
	if err != nil {
		h.logFailure(r, "enqueue assessment job failed", err)
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusAccepted, enqueueResponse{JobID: j.ID})
}

// QueueStatus reports whether the broker is connected. It never dials.
func (h *JobHandlers) QueueStatus(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, queueStatusResponse{Available: h.Jobs.IsQueueAvailable()})
}

func (h *JobHandlers) logFailure(r *http.Request, msg string, err error) {
	if h.Logger == nil {
		return
	}
	h.Logger.WarnContext(r.Context(), msg, "path", r.URL.Path, "error", err)
}
