package remotesync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/NUMNIMx/noteflow/pkg/core"
)

// Reason classifies a failed remote operation.
type Reason string

const (
	ReasonTimeout          Reason = "TIMEOUT"
	ReasonPermissionDenied Reason = "PERMISSION_DENIED"
	ReasonNotFound         Reason = "NOT_FOUND"
	ReasonUnknown          Reason = "UNKNOWN"
)

// Op names the remote operation that failed.
type Op string

const (
	OpPush Op = "push"
	OpPull Op = "pull"
)

// Engine errors.
var (
	ErrNoSession      = errors.New("no authenticated session")
	ErrClosed         = errors.New("sync engine is closed")
	ErrSessionChanged = errors.New("session changed while pulling")
)

// SyncError is a failed push or pull with its reason code.
type SyncError struct {
	Op     Op
	Reason Reason
	Err    error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("%s failed (%s): %v", e.Op, e.Reason, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// Classify maps a remote error to its reason code. Typed sentinels win; the
// message is checked as a fallback for stores that only report text.
func Classify(err error) Reason {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, core.ErrRemoteTimeout), errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, core.ErrPermissionDenied):
		return ReasonPermissionDenied
	case errors.Is(err, core.ErrNotProvisioned):
		return ReasonNotFound
	}

	msg := err.Error()
	switch {
	case msg == string(ReasonTimeout):
		return ReasonTimeout
	case strings.Contains(msg, string(ReasonPermissionDenied)):
		return ReasonPermissionDenied
	case strings.Contains(msg, string(ReasonNotFound)):
		return ReasonNotFound
	}
	return ReasonUnknown
}

// MessageFor returns the user-facing text for a failure.
func MessageFor(op Op, reason Reason) string {
	if op == OpPull {
		if reason == ReasonTimeout {
			return "remote store not responding; please provision the database"
		}
		return "could not sync data from the cloud"
	}
	switch reason {
	case ReasonTimeout:
		return "remote store not responding (database not provisioned?)"
	case ReasonPermissionDenied:
		return "no permission to write to the remote store"
	case ReasonNotFound:
		return "remote store database has not been created"
	default:
		return "sync failed"
	}
}
