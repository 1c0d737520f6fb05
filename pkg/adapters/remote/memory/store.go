// Package memory provides an in-process core.RemoteStore with fault injection.
package memory

import (
	"context"
	"sync"

	"github.com/NUMNIMx/noteflow/pkg/core"
)

// Store keeps records in a map. It can be told to hang or fail, which makes it
// the remote of choice for exercising the sync engine.
type Store struct {
	mu       sync.Mutex
	records  map[string]core.Record
	failWith error
	hang     chan struct{}

	writes        int
	reads         int
	inFlight      int
	maxConcurrent int
}

// New creates an empty store.
func New() *Store {
	return &Store{records: make(map[string]core.Record)}
}

// Seed stores rec under key without counting it as a write.
func (s *Store) Seed(key string, rec core.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = copyRecord(rec)
}

// Get returns what is stored under key.
func (s *Store) Get(key string) (core.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	return copyRecord(rec), ok
}

// FailWith makes every later call return err. A nil err restores normal behaviour.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

// Hang blocks every later call until Release or until its context is done.
func (s *Store) Hang() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hang == nil {
		s.hang = make(chan struct{})
	}
}

// Release unblocks calls held by Hang.
func (s *Store) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hang != nil {
		close(s.hang)
		s.hang = nil
	}
}

// Writes returns the number of Write calls that reached the store.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Reads returns the number of Read calls that reached the store.
func (s *Store) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// MaxConcurrent returns the highest number of calls ever in flight together.
func (s *Store) MaxConcurrent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxConcurrent
}

// InFlight returns the number of calls currently in progress.
func (s *Store) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

func (s *Store) enter() (hang chan struct{}, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight++
	if s.inFlight > s.maxConcurrent {
		s.maxConcurrent = s.inFlight
	}
	return s.hang, s.failWith
}

func (s *Store) leave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--
}

func wait(ctx context.Context, hang chan struct{}) error {
	if hang == nil {
		return nil
	}
	select {
	case <-hang:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Write implements core.RemoteStore.
func (s *Store) Write(ctx context.Context, key string, rec core.Record) error {
	hang, failWith := s.enter()
	defer s.leave()

	s.mu.Lock()
	s.writes++
	s.mu.Unlock()

	if err := wait(ctx, hang); err != nil {
		return err
	}
	if failWith != nil {
		return failWith
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = copyRecord(rec)
	return nil
}

// Read implements core.RemoteStore.
func (s *Store) Read(ctx context.Context, key string) (core.Record, bool, error) {
	hang, failWith := s.enter()
	defer s.leave()

	s.mu.Lock()
	s.reads++
	s.mu.Unlock()

	if err := wait(ctx, hang); err != nil {
		return core.Record{}, false, err
	}
	if failWith != nil {
		return core.Record{}, false, failWith
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	return copyRecord(rec), ok, nil
}

func copyRecord(rec core.Record) core.Record {
	rec.Payload = append([]byte(nil), rec.Payload...)
	return rec
}

var _ core.RemoteStore = (*Store)(nil)
