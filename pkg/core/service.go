package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Service owns the single in-memory Document. Every mutation is persisted to
// the LocalStore before it returns, then the Notifier is told about it.
type Service struct {
	mu       sync.RWMutex
	doc      *Document
	store    LocalStore
	notifier Notifier
	clock    clockwork.Clock
	logger   *slog.Logger
	newID    func() string

	lastSaveErr error
	saves       int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock sets the clock used for timestamps.
func WithClock(c clockwork.Clock) ServiceOption {
	return func(s *Service) {
		s.clock = c
	}
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithIDGenerator overrides how note and notebook ids are generated.
func WithIDGenerator(fn func() string) ServiceOption {
	return func(s *Service) {
		s.newID = fn
	}
}

// NewService loads the document from store, or starts from the default
// document when nothing usable is stored.
func NewService(store LocalStore, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		clock:  clockwork.NewRealClock(),
		logger: slog.Default(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.doc = s.load()
	return s
}

func (s *Service) load() *Document {
	if s.store == nil {
		return DefaultDocument()
	}
	data, err := s.store.Load()
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("local load failed, starting fresh", "error", &LocalPersistenceError{Op: "load", Err: err})
		}
		return DefaultDocument()
	}
	doc, err := DecodeDocument(data)
	if err != nil {
		s.logger.Warn("stored document is unreadable, starting fresh", "error", err)
		return DefaultDocument()
	}
	return doc
}

// SetNotifier attaches the component told about syncable mutations.
func (s *Service) SetNotifier(n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
}

// Document returns a deep copy of the current document.
func (s *Service) Document() *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Snapshot serializes the latest document.
func (s *Service) Snapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.Marshal(s.doc)
}

// MergeRemote shallow-merges a remote blob: every top-level key it carries
// replaces the local one, absent keys are kept. The result is persisted but
// not pushed back.
func (s *Service) MergeRemote(data []byte) error {
	return s.apply(true, func(d *Document) error {
		merged := d.Clone()
		if err := merged.overlay(data); err != nil {
			return err
		}
		merged.normalize()
		*d = *merged
		return nil
	})
}

// Reload replaces the document with what the local store currently holds.
// It is used when another process edited the store; the change is pushed like
// any local edit.
func (s *Service) Reload() error {
	data, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	doc, err := DecodeDocument(data)
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}

	s.mu.Lock()
	s.doc = doc
	n := s.notifier
	s.mu.Unlock()

	if n != nil {
		n.Notify()
	}
	return nil
}

func (s *Service) now() int64 {
	return s.clock.Now().UnixMilli()
}

// mutate applies fn, persists and notifies.
func (s *Service) mutate(fn func(d *Document) error) error {
	return s.apply(false, fn)
}

// errNoChange tells apply that fn left the document as it was.
var errNoChange = errors.New("no change")

func (s *Service) apply(localOnly bool, fn func(d *Document) error) error {
	s.mu.Lock()
	if err := fn(s.doc); err != nil {
		s.mu.Unlock()
		if errors.Is(err, errNoChange) {
			return nil
		}
		return err
	}
	s.persistLocked()
	n := s.notifier
	s.mu.Unlock()

	// Notify outside the lock: the engine snapshots through this service.
	if !localOnly && n != nil {
		n.Notify()
	}
	return nil
}

func (s *Service) persistLocked() {
	if s.store == nil {
		return
	}
	data, err := json.Marshal(s.doc)
	if err == nil {
		err = s.store.Save(data)
	}
	if err != nil {
		perr := &LocalPersistenceError{Op: "save", Err: err}
		s.lastSaveErr = perr
		s.logger.Warn("local save failed, keeping in-memory state", "error", perr)
		return
	}
	s.lastSaveErr = nil
	s.saves++
}

// touch bumps updatedAt, never letting it fall behind createdAt.
func (s *Service) touch(n *Note) {
	n.UpdatedAt = s.now()
	if n.UpdatedAt < n.CreatedAt {
		n.UpdatedAt = n.CreatedAt
	}
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}
