package model

import "time"

// FailOutcome reports what the broker did with a failed attempt.
type FailOutcome struct {
	// Retried is true when the job was scheduled for another attempt.
	Retried bool
	// Delay is the backoff before the retry becomes eligible.
	Delay time.Duration
	// AttemptsMade is the attempt count after this failure was recorded.
	AttemptsMade int
}

// StalledResult lists jobs reclaimed from workers that lost their lock.
type StalledResult struct {
	// Requeued jobs went back to the wait list.
	Requeued []string
	// Failed jobs exceeded the stalled limit and were moved to failed.
	Failed []string
}

// Total returns the number of jobs touched by stalled recovery.
func (r *StalledResult) Total() int {
	if r == nil {
		return 0
	}
	return len(r.Requeued) + len(r.Failed)
}

// TrimResult reports how many finished jobs retention removed.
type TrimResult struct {
	Completed int64
	Failed    int64
}
