// Package model defines the core data types shared by the photo processing pipeline.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// JobName tags the kind of work a queued job carries.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Known needs value receiver
type JobName string

const (
	// JobNameProcessPhoto turns an uploaded photo into its derivatives and AI metadata.
	JobNameProcessPhoto JobName = "process-photo-ai"
	// JobNameRunAssessment runs an application assessment.
	JobNameRunAssessment JobName = "run-app-assessment"
)

// Known reports whether the name maps to a dedicated handler.
// Unknown and empty names are treated as legacy photo jobs.
func (n JobName) Known() bool {
	return n == JobNameProcessPhoto || n == JobNameRunAssessment
}

// UnmarshalText implements encoding.TextUnmarshaler for JobName to allow env parsing.
func (n *JobName) UnmarshalText(text []byte) error {
	v := JobName(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Known() {
		return fmt.Errorf("invalid JobName: %q", v)
	}
	*n = v
	return nil
}

// JobState is the broker-side state of a job.
type JobState string

const (
	// JobStateWaiting indicates the job is queued and ready to be claimed.
	JobStateWaiting JobState = "waiting"
	// JobStateActive indicates a worker holds the job lock.
	JobStateActive JobState = "active"
	// JobStateDelayed indicates the job waits for its backoff delay to elapse.
	JobStateDelayed JobState = "delayed"
	// JobStateCompleted indicates the job finished successfully.
	JobStateCompleted JobState = "completed"
	// JobStateFailed indicates the job exhausted its attempts.
	JobStateFailed JobState = "failed"
)

// BackoffType selects how retry delays grow.
type BackoffType string

const (
	// BackoffExponential doubles the delay after every failed attempt.
	BackoffExponential BackoffType = "exponential"
	// BackoffFixed reuses the same delay for every retry.
	BackoffFixed BackoffType = "fixed"
)

// Backoff is the retry delay policy attached to a job. Delay is in milliseconds.
type Backoff struct {
	Type  BackoffType `json:"type"`
	Delay int64       `json:"delay"`
}

// JobOptions is fixed at submission time.
type JobOptions struct {
	Attempts int      `json:"attempts,omitempty"`
	Backoff  *Backoff `json:"backoff,omitempty"`
}

// ErrNoJobsAvailable is returned when no jobs are available for reservation.
var ErrNoJobsAvailable = errors.New("no jobs available")

// Job is the unit of queued work.
//
// Jobs are always handled by pointer: the terminal publish flag lives on the
// in-memory object so duplicate lifecycle events for the same object can be
// detected.
type Job struct {
	ID           string          `json:"id"`
	Name         JobName         `json:"name"`
	Data         json.RawMessage `json:"data"`
	Opts         JobOptions      `json:"opts"`
	AttemptsMade int             `json:"attemptsMade"`
	StalledCount int             `json:"stalledCounter"`
	Timestamp    time.Time       `json:"timestamp"`
	ProcessedOn  *time.Time      `json:"processedOn,omitempty"`
	FinishedOn   *time.Time      `json:"finishedOn,omitempty"`
	FailedReason string          `json:"failedReason,omitempty"`

	terminalPublished atomic.Bool
}

// MarkTerminalPublished flags the job as having had its terminal-failure
// status published. It returns false when the flag was already set.
func (j *Job) MarkTerminalPublished() bool {
	if j == nil {
		return false
	}
	return j.terminalPublished.CompareAndSwap(false, true)
}

// TerminalPublished reports whether a terminal-failure status was already published for this object.
func (j *Job) TerminalPublished() bool {
	if j == nil {
		return false
	}
	return j.terminalPublished.Load()
}

// AddJobRequest represents a request to enqueue a job.
type AddJobRequest struct {
	Name JobName
	Data json.RawMessage
	Opts JobOptions
}

// Validate validates the AddJobRequest fields.
func (r *AddJobRequest) Validate() error {
	if r.Name == "" {
		return errors.New("job name is required")
	}
	if len(r.Data) == 0 {
		return errors.New("job data is required")
	}
	if r.Opts.Attempts < 0 {
		return errors.New("attempts must be >= 0")
	}
	if r.Opts.Backoff != nil && r.Opts.Backoff.Delay < 0 {
		return errors.New("backoff delay must be >= 0")
	}
	return nil
}

// JobCounts reports how many jobs sit in each broker state.
type JobCounts struct {
	Waiting   int64 `json:"waiting"`
	Active    int64 `json:"active"`
	Delayed   int64 `json:"delayed"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}
