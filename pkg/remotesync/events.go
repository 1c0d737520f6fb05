package remotesync

import (
	"fmt"
	"time"
)

// EventType names a sync lifecycle event.
type EventType string

const (
	EventSyncPending   EventType = "sync_pending"
	EventSyncUploading EventType = "sync_uploading"
	EventSyncSucceeded EventType = "sync_succeeded"
	EventSyncFailed    EventType = "sync_failed"
	EventPullStarted   EventType = "pull_started"
	EventPullSucceeded EventType = "pull_succeeded"
	EventPullFailed    EventType = "pull_failed"
)

// Event is emitted to the Reporter on every sync state change.
type Event struct {
	Type EventType
	// Reason is set on failures.
	Reason Reason
	// Message is the user-facing text for failures.
	Message   string
	Timestamp time.Time
}

// String implements lifecycle.Event.
func (e Event) String() string {
	switch {
	case e.Reason != "":
		return fmt.Sprintf("%s(%s)", e.Type, e.Reason)
	case e.Type == EventSyncSucceeded:
		return fmt.Sprintf("%s(%s)", e.Type, e.Timestamp.Format(time.RFC3339))
	default:
		return string(e.Type)
	}
}

// Failed reports whether the event marks a failed push or pull.
func (e Event) Failed() bool {
	return e.Type == EventSyncFailed || e.Type == EventPullFailed
}
