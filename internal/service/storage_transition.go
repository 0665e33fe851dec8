package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/photo-pipeline/internal/core"
	"github.com/target/photo-pipeline/internal/domain/model"
)

// StorageTransitionerOptions groups dependencies for StorageTransitioner.
type StorageTransitionerOptions struct {
	Photos  core.PhotoRepository // Required: state and breadcrumb writes
	Storage core.ObjectStorage   // Required: object moves
	Logger  *slog.Logger         // Optional: structured logger
}

// StorageTransitioner relocates a photo object between state-prefixed folders
// and records the new state. A PENDING_MOVE breadcrumb is held on the row for
// the duration of the move.
type StorageTransitioner struct {
	photos  core.PhotoRepository
	storage core.ObjectStorage
	logger  *slog.Logger
}

// NewStorageTransitioner constructs a StorageTransitioner.
func NewStorageTransitioner(opts StorageTransitionerOptions) (*StorageTransitioner, error) {
	if opts.Photos == nil {
		return nil, errors.New("PhotoRepository is required")
	}
	if opts.Storage == nil {
		return nil, errors.New("ObjectStorage is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &StorageTransitioner{
		photos:  opts.Photos,
		storage: opts.Storage,
		logger:  logger.With("component", "storage_transition"),
	}, nil
}

// TransitionRequest describes one state move. StoragePath, when set, is the
// object's current path; otherwise it is derived from FromState.
type TransitionRequest struct {
	PhotoID     string
	UserID      string
	FromState   model.PhotoState
	ToState     model.PhotoState
	Filename    string
	StoragePath string
}

// CurrentPath returns where the object is expected to live now.
func (r TransitionRequest) CurrentPath() string {
	if r.StoragePath != "" {
		return r.StoragePath
	}
	return model.StatePath(r.UserID, r.FromState, r.Filename)
}

// NewPath returns the destination path.
func (r TransitionRequest) NewPath() string {
	return model.StatePath(r.UserID, r.ToState, r.Filename)
}

// TransitionResult reports the outcome of Transition. Err is set when Success is false.
type TransitionResult struct {
	Success bool
	Err     error
}

// Transition moves the object and records the new state. It never leaves the
// row in PENDING_MOVE: every failure resets the breadcrumb to IDLE.
func (s *StorageTransitioner) Transition(ctx context.Context, req TransitionRequest) TransitionResult {
	from, to := req.CurrentPath(), req.NewPath()
	log := s.logger.With("photo_id", req.PhotoID, "from_state", req.FromState, "to_state", req.ToState)

	if err := s.photos.SetTransitionStatus(ctx, req.PhotoID, model.TransitionPendingMove); err != nil {
		return s.failed(ctx, log, req.PhotoID, fmt.Errorf("mark pending move: %w", err))
	}

	if err := s.move(ctx, log, from, to); err != nil {
		return s.failed(ctx, log, req.PhotoID, err)
	}

	if err := s.photos.CompleteTransition(ctx, core.CompleteTransitionParams{
		PhotoID:     req.PhotoID,
		State:       req.ToState,
		StoragePath: to,
	}); err != nil {
		return s.failed(ctx, log, req.PhotoID, fmt.Errorf("record transition: %w", err))
	}

	log.DebugContext(ctx, "storage transition complete", "path", to)
	return TransitionResult{Success: true}
}

func (s *StorageTransitioner) move(ctx context.Context, log *slog.Logger, from, to string) error {
	err := s.storage.Move(ctx, from, to)
	if err == nil {
		return nil
	}

	switch kind := classifyMoveError(err); kind {
	case moveFailureDestinationExists:
		// A previous attempt already moved the object; drop the stale source.
		log.InfoContext(ctx, "destination already exists; removing stale source", "error", err)
		if derr := s.storage.Delete(ctx, from); derr != nil {
			log.WarnContext(ctx, "failed to delete stale source", "error", derr)
		}
		return nil
	case moveFailureSourceMissing:
		log.InfoContext(ctx, "move reported missing source; copying instead", "error", err)
		return s.copyThenDelete(ctx, log, from, to)
	default:
		return fmt.Errorf("move %s: %w", kind, err)
	}
}

func (s *StorageTransitioner) copyThenDelete(ctx context.Context, log *slog.Logger, from, to string) error {
	body, err := s.storage.Download(ctx, from)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	if err := s.storage.Upload(ctx, to, body); err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	if err := s.storage.Delete(ctx, from); err != nil {
		log.WarnContext(ctx, "failed to delete source after copy", "error", err)
	}
	return nil
}

func (s *StorageTransitioner) failed(ctx context.Context, log *slog.Logger, photoID string, err error) TransitionResult {
	if rerr := s.photos.SetTransitionStatus(ctx, photoID, model.TransitionIdle); rerr != nil {
		log.ErrorContext(ctx, "failed to reset transition status", "error", rerr)
	}
	log.WarnContext(ctx, "storage transition failed", "error", err)
	return TransitionResult{Err: err}
}
