package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Notes         int    `json:"notes"`
	Notebooks     int    `json:"notebooks"`
	Saves         int    `json:"saves"`
	LastSaveError string `json:"last_save_error,omitempty"`
	StoreType     string `json:"store_type"`
	Notifier      bool   `json:"notifier"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	storeType := "none"
	if s.store != nil {
		storeType = "store"
		if comp, ok := s.store.(introspection.Component); ok {
			storeType = comp.ComponentType()
		}
	}

	st := ServiceState{
		Notes:     len(s.doc.Notes),
		Notebooks: len(s.doc.Notebooks),
		Saves:     s.saves,
		StoreType: storeType,
		Notifier:  s.notifier != nil,
	}
	if s.lastSaveErr != nil {
		st.LastSaveError = s.lastSaveErr.Error()
	}
	return st
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
