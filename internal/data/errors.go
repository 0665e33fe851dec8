package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// ErrPhotoNotFound is returned when no photo row matches the id.
	ErrPhotoNotFound = errors.New("photo not found")
	// ErrJobNotFound is returned when the broker has no record of a job.
	ErrJobNotFound = errors.New("job not found")
	// ErrLockMismatch is returned when a worker acts on a job whose lock it no longer holds.
	ErrLockMismatch = errors.New("job lock is missing or owned by another worker")
	// ErrQueueNameRequired is returned when a queue repository is built without a queue name.
	ErrQueueNameRequired = errors.New("queue name is required")
)
