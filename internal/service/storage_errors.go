package service

import (
	"regexp"

	apperrors "github.com/target/photo-pipeline/internal/errors"
)

// moveFailure is the recovery branch chosen for a failed storage move.
type moveFailure int

const (
	moveFailureOther moveFailure = iota
	moveFailureDestinationExists
	moveFailureSourceMissing
)

func (k moveFailure) String() string {
	switch k {
	case moveFailureDestinationExists:
		return "destination_exists"
	case moveFailureSourceMissing:
		return "source_missing"
	default:
		return "other"
	}
}

var (
	alreadyExistsPattern = regexp.MustCompile(`(?i)already exists`)
	notFoundPattern      = regexp.MustCompile(`(?i)not found`)
)

// classifyMoveError maps a storage move error to its recovery branch.
// Structured AppError codes win; message matching is the fallback for
// backends that only report free text.
func classifyMoveError(err error) moveFailure {
	if err == nil {
		return moveFailureOther
	}
	switch apperrors.CodeOf(err) {
	case apperrors.ErrCodeConflict:
		return moveFailureDestinationExists
	case apperrors.ErrCodeNotFound:
		return moveFailureSourceMissing
	case "":
	default:
		return moveFailureOther
	}

	msg := err.Error()
	switch {
	case alreadyExistsPattern.MatchString(msg):
		return moveFailureDestinationExists
	case notFoundPattern.MatchString(msg):
		return moveFailureSourceMissing
	default:
		return moveFailureOther
	}
}
