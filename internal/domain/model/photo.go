package model

import (
	"strings"
	"time"
)

// PhotoState is the UI-facing processing state of a photo.
type PhotoState string

const (
	// PhotoStateWorking indicates the photo was uploaded and awaits processing.
	PhotoStateWorking PhotoState = "working"
	// PhotoStateInProgress indicates processing has started.
	PhotoStateInProgress PhotoState = "inprogress"
	// PhotoStateFinished indicates processing completed.
	PhotoStateFinished PhotoState = "finished"
	// PhotoStateError indicates processing ended permanently in failure.
	PhotoStateError PhotoState = "error"
)

// Valid returns true if the PhotoState is valid.
func (s PhotoState) Valid() bool {
	return s == PhotoStateWorking || s == PhotoStateInProgress || s == PhotoStateFinished || s == PhotoStateError
}

// Terminal reports whether the state is one the UI treats as done.
func (s PhotoState) Terminal() bool {
	return s == PhotoStateFinished || s == PhotoStateError
}

// TransitionStatus is the crash-recovery breadcrumb for storage moves.
type TransitionStatus string

const (
	// TransitionIdle means no storage move is in flight.
	TransitionIdle TransitionStatus = "IDLE"
	// TransitionPendingMove means a storage move started and has not been resolved.
	TransitionPendingMove TransitionStatus = "PENDING_MOVE"
)

// PinnedOriginalPrefix marks storage paths that are not organised by state.
const PinnedOriginalPrefix = "original/"

// Photo is the persisted photo record. The pipeline references it, never owns it.
type Photo struct {
	ID               string           `json:"id"                      db:"id"`
	UserID           string           `json:"user_id"                 db:"user_id"`
	Filename         string           `json:"filename"                db:"filename"`
	State            PhotoState       `json:"state"                   db:"state"`
	StoragePath      *string          `json:"storage_path,omitempty"  db:"storage_path"`
	TransitionStatus TransitionStatus `json:"state_transition_status" db:"state_transition_status"`
	AIRetryCount     int              `json:"ai_retry_count"          db:"ai_retry_count"`
	CreatedAt        time.Time        `json:"created_at"              db:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"              db:"updated_at"`
}

// Path returns the storage path or an empty string.
func (p *Photo) Path() string {
	if p == nil || p.StoragePath == nil {
		return ""
	}
	return *p.StoragePath
}

// IsPinnedOriginal reports whether the object lives under the pinned original layout.
func (p *Photo) IsPinnedOriginal() bool {
	return strings.HasPrefix(p.Path(), PinnedOriginalPrefix)
}

// StatePath builds the legacy state-prefixed object path.
func StatePath(userID string, state PhotoState, filename string) string {
	return userID + "/" + string(state) + "/" + filename
}
