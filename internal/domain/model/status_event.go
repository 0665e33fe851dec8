package model

import "time"

// StatusChannel is the pub/sub channel realtime clients listen on.
const StatusChannel = "photo:status:v1"

// PhotoStatus is the terminal outcome carried by a status event.
type PhotoStatus string

const (
	// PhotoStatusFinished is published when a job completes.
	PhotoStatusFinished PhotoStatus = "finished"
	// PhotoStatusFailed is published when a job fails terminally.
	PhotoStatusFailed PhotoStatus = "failed"
)

// StatusEvent is the ephemeral message fanned out to connected clients.
// EventID is unique per publish so subscribers can deduplicate.
type StatusEvent struct {
	UserID    string      `json:"userId"`
	EventID   string      `json:"eventId"`
	PhotoID   string      `json:"photoId"`
	Status    PhotoStatus `json:"status"`
	UpdatedAt time.Time   `json:"updatedAt"`
}
