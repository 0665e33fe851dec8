// Package job holds the queue policies shared by the submitter, the broker and the worker.
package job

import (
	"time"

	"github.com/target/photo-pipeline/internal/domain/model"
)

// Fixed queue policy. These are deliberately not configurable: every photo job
// gets the same retry budget and every worker the same lock semantics.
const (
	// PhotoJobAttempts is the broker-level attempt budget of a photo job.
	PhotoJobAttempts = 5
	// PhotoJobBackoffDelay is the base delay of the exponential retry backoff.
	PhotoJobBackoffDelay = 60 * time.Second

	// LockDuration is how long a worker owns a job without renewing its lock.
	LockDuration = 60 * time.Second
	// StalledInterval is how often active jobs are checked for lost locks.
	StalledInterval = 30 * time.Second
	// MaxStalledCount is how many times a job may stall before it is failed.
	MaxStalledCount = 1

	// AIRetryCap is the domain-level AI retry budget stored on the photo row.
	// It is independent of PhotoJobAttempts.
	AIRetryCap = 5
)

// PhotoJobOptions returns the options every photo job is submitted with.
func PhotoJobOptions() model.JobOptions {
	return model.JobOptions{
		Attempts: PhotoJobAttempts,
		Backoff: &model.Backoff{
			Type:  model.BackoffExponential,
			Delay: PhotoJobBackoffDelay.Milliseconds(),
		},
	}
}

// AssessmentJobOptions returns the default options for assessment jobs.
func AssessmentJobOptions() model.JobOptions {
	return model.JobOptions{Attempts: 1}
}

// IsTerminalFailure reports whether a failed attempt was the last one allowed.
// attemptsMade counts attempts before the one that just failed, hence the +1.
// Unset or invalid values default to attempts=1 and attemptsMade=0.
func IsTerminalFailure(attempts, attemptsMade int) bool {
	if attempts < 1 {
		attempts = 1
	}
	if attemptsMade < 0 {
		attemptsMade = 0
	}
	return attemptsMade+1 >= attempts
}

// IsLastAttempt reports whether the job's current attempt is its last.
func IsLastAttempt(j *model.Job) bool {
	if j == nil {
		return true
	}
	return IsTerminalFailure(j.Opts.Attempts, j.AttemptsMade)
}
