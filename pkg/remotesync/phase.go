package remotesync

// Phase is the push side of the engine's state machine. At most one write is
// in flight in any of the uploading phases, and none in the others.
type Phase int

const (
	// PhaseIdle has nothing scheduled.
	PhaseIdle Phase = iota
	// PhasePending has the debounce timer armed.
	PhasePending
	// PhaseUploading has one write in flight.
	PhaseUploading
	// PhaseUploadingPending has a write in flight and newer edits debouncing.
	PhaseUploadingPending
	// PhaseUploadingQueued has a write in flight and a push due as soon as it settles.
	PhaseUploadingQueued
	// PhaseQueued has a push due as soon as the running pull settles.
	PhaseQueued
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePending:
		return "pending"
	case PhaseUploading:
		return "uploading"
	case PhaseUploadingPending:
		return "uploading+pending"
	case PhaseUploadingQueued:
		return "uploading+queued"
	case PhaseQueued:
		return "queued"
	default:
		return "unknown"
	}
}

// Uploading reports whether a write is in flight.
func (p Phase) Uploading() bool {
	return p == PhaseUploading || p == PhaseUploadingPending || p == PhaseUploadingQueued
}
