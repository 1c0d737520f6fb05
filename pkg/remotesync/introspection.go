package remotesync

import (
	"fmt"
	"time"

	"github.com/aretw0/introspection"
)

// EngineState is the introspection view of the engine.
type EngineState struct {
	Phase       string     `json:"phase"`
	User        string     `json:"user,omitempty"`
	Pulling     bool       `json:"pulling"`
	Pushes      int        `json:"pushes"`
	Failures    int        `json:"failures"`
	LastSuccess *time.Time `json:"last_success,omitempty"`
	LastReason  string     `json:"last_reason,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
	RemoteType  string     `json:"remote_type"`
	Debounce    string     `json:"debounce"`
}

// State implements introspection.Introspectable.
func (e *Engine) State() any {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := EngineState{
		Phase:      e.phase.String(),
		Pulling:    e.pulling,
		Pushes:     e.pushes,
		Failures:   e.failures,
		LastReason: string(e.lastReason),
		RemoteType: fmt.Sprintf("%T", e.remote),
		Debounce:   e.cfg.Debounce.String(),
	}
	if e.session != nil {
		st.User = e.session.UserID
	}
	if !e.lastSuccess.IsZero() {
		at := e.lastSuccess
		st.LastSuccess = &at
	}
	if e.lastErr != nil {
		st.LastError = e.lastErr.Error()
	}
	return st
}

// ComponentType implements introspection.Introspectable.
func (e *Engine) ComponentType() string {
	return "remote-sync"
}

var _ introspection.Introspectable = (*Engine)(nil)
