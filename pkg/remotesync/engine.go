// Package remotesync pushes the local document to a remote store and pulls it
// back when a session begins.
//
// Mutations are debounced: every Notify re-arms a timer and only the last one
// in a burst produces a write. At most one write is in flight at a time; edits
// that arrive while it runs are coalesced into a single follow-up push that
// carries the state as of its own start.
package remotesync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/jonboulle/clockwork"

	"github.com/NUMNIMx/noteflow/pkg/core"
)

// Session identifies the signed-in user.
type Session struct {
	UserID string
}

// Key returns the remote key of the session's document.
func (s Session) Key() string {
	return core.UserKey(s.UserID)
}

// Source is the local side of the sync. *core.Service implements it.
type Source interface {
	Snapshot() ([]byte, error)
	MergeRemote(data []byte) error
}

// Engine drives debounced pushes and session-start pulls.
type Engine struct {
	remote   core.RemoteStore
	source   Source
	clock    clockwork.Clock
	logger   *slog.Logger
	reporter Reporter
	cfg      Config

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	phase     Phase
	session   *Session
	gen       uint64
	timer     clockwork.Timer
	stopTimer chan struct{}
	settled   chan struct{}
	pulling   bool
	pullDone  chan struct{}
	closed    bool

	pushes      int
	failures    int
	lastSuccess time.Time
	lastReason  Reason
	lastErr     error
}

// New creates an engine that pushes snapshots of source to remote.
func New(remote core.RemoteStore, source Source, opts ...Option) *Engine {
	e := &Engine{
		remote: remote,
		source: source,
		clock:  clockwork.NewRealClock(),
		logger: slog.Default(),
		cfg:    DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.reporter == nil {
		e.reporter = LogReporter{Logger: e.logger}
	}
	e.ctx, e.cancel = context.WithCancel(context.Background())
	return e
}

// Phase returns the current push phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Session returns the active session, if any.
func (e *Engine) Session() (Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return Session{}, false
	}
	return *e.session, true
}

// LastError returns the error of the most recent push, or nil if it succeeded.
func (e *Engine) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Notify implements core.Notifier. It (re)arms the debounce timer; without a
// session it does nothing.
func (e *Engine) Notify() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.session == nil {
		return
	}
	e.armLocked()
	if e.phase.Uploading() {
		e.phase = PhaseUploadingPending
	} else {
		e.phase = PhasePending
	}
	e.emitLocked(Event{Type: EventSyncPending})
}

func (e *Engine) armLocked() {
	e.disarmLocked()
	e.gen++
	gen := e.gen
	stop := make(chan struct{})
	timer := e.clock.NewTimer(e.cfg.Debounce)
	e.timer, e.stopTimer = timer, stop
	go func() {
		select {
		case <-timer.Chan():
			e.fire(gen)
		case <-stop:
		case <-e.ctx.Done():
		}
	}()
}

func (e *Engine) disarmLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	if e.stopTimer != nil {
		close(e.stopTimer)
		e.stopTimer = nil
	}
}

// fire runs when the debounce window of generation gen elapses.
func (e *Engine) fire(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen || e.closed {
		return
	}
	e.timer, e.stopTimer = nil, nil

	switch e.phase {
	case PhaseUploadingPending:
		e.phase = PhaseUploadingQueued
		return
	case PhasePending:
	default:
		return
	}

	switch {
	case e.session == nil:
		e.phase = PhaseIdle
	case e.pulling:
		e.phase = PhaseQueued
	default:
		e.startPushLocked()
	}
}

// startPushLocked moves to PhaseUploading and launches one write of the
// current snapshot.
func (e *Engine) startPushLocked() {
	session := *e.session
	settled := make(chan struct{})
	e.phase = PhaseUploading
	e.settled = settled
	e.pushes++
	e.emitLocked(Event{Type: EventSyncUploading})

	payload, snapErr := e.source.Snapshot()
	rec := core.Record{Payload: payload, UpdatedAt: e.clock.Now().UnixMilli()}

	lifecycle.Go(e.ctx, func(ctx context.Context) error {
		if snapErr != nil {
			e.settlePush(settled, fmt.Errorf("snapshot: %w", snapErr))
			return nil
		}
		_, err := race(ctx, e.clock, e.cfg.PushTimeout, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, e.remote.Write(ctx, session.Key(), rec)
		})
		e.settlePush(settled, err)
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		e.settlePush(settled, fmt.Errorf("push panicked: %w", err))
	}))
}

func (e *Engine) settlePush(settled chan struct{}, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.settled != settled {
		return
	}
	e.settled = nil
	defer close(settled)

	if err != nil {
		reason := Classify(err)
		e.failures++
		e.lastReason = reason
		e.lastErr = &SyncError{Op: OpPush, Reason: reason, Err: err}
		e.logger.Warn("push failed", "reason", string(reason), "error", err)
		e.emitLocked(Event{Type: EventSyncFailed, Reason: reason, Message: MessageFor(OpPush, reason)})
	} else {
		e.lastSuccess = e.clock.Now()
		e.lastReason = ""
		e.lastErr = nil
		e.emitLocked(Event{Type: EventSyncSucceeded, Timestamp: e.lastSuccess})
	}

	switch e.phase {
	case PhaseUploading:
		e.phase = PhaseIdle
	case PhaseUploadingPending:
		e.phase = PhasePending
	case PhaseUploadingQueued:
		switch {
		case e.closed || e.session == nil:
			e.phase = PhaseIdle
		case e.pulling:
			e.phase = PhaseQueued
		default:
			e.startPushLocked()
		}
	}
}

// BeginSession activates s and pulls its remote document. An absent or empty
// remote document is bootstrapped from local state; a present one is merged
// into it. A failed pull leaves local state untouched and returns a *SyncError.
func (e *Engine) BeginSession(ctx context.Context, s Session) error {
	if s.UserID == "" {
		return ErrNoSession
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	session := &s
	done := make(chan struct{})
	e.session = session
	e.pulling = true
	e.pullDone = done
	e.emitLocked(Event{Type: EventPullStarted})
	e.mu.Unlock()

	type result struct {
		rec   core.Record
		found bool
	}
	res, err := race(ctx, e.clock, e.cfg.PullTimeout, func(ctx context.Context) (result, error) {
		rec, found, err := e.remote.Read(ctx, s.Key())
		return result{rec: rec, found: found}, err
	})

	bootstrap := err == nil && (!res.found || len(res.rec.Payload) == 0)
	mergeFailed := false
	if err == nil && !bootstrap && e.current(session) {
		if mergeErr := e.source.MergeRemote(res.rec.Payload); mergeErr != nil {
			err = fmt.Errorf("merge: %w", mergeErr)
			mergeFailed = true
		}
	}

	e.mu.Lock()
	close(done)
	if e.pullDone == done {
		e.pulling = false
		e.pullDone = nil
	}
	if e.session != session {
		e.resumeQueuedLocked()
		e.mu.Unlock()
		return ErrSessionChanged
	}

	var serr error
	if err != nil {
		reason := Classify(err)
		if mergeFailed {
			reason = ReasonUnknown
		}
		serr = &SyncError{Op: OpPull, Reason: reason, Err: err}
		e.logger.Warn("pull failed", "user", s.UserID, "reason", string(reason), "error", err)
		e.emitLocked(Event{Type: EventPullFailed, Reason: reason, Message: MessageFor(OpPull, reason)})
		bootstrap = false
	} else {
		e.logger.Debug("pull succeeded", "user", s.UserID, "bootstrap", bootstrap)
		e.emitLocked(Event{Type: EventPullSucceeded})
	}
	e.resumeQueuedLocked()
	e.mu.Unlock()

	if bootstrap {
		e.Notify()
	}
	return serr
}

func (e *Engine) current(session *Session) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session == session
}

func (e *Engine) resumeQueuedLocked() {
	if e.phase != PhaseQueued || e.pulling {
		return
	}
	if e.session == nil || e.closed {
		e.phase = PhaseIdle
		return
	}
	e.startPushLocked()
}

// EndSession drops the session. Scheduled pushes are cancelled; a write
// already in flight settles without a follow-up.
func (e *Engine) EndSession() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session = nil
	e.disarmLocked()
	e.gen++
	switch e.phase {
	case PhasePending, PhaseQueued:
		e.phase = PhaseIdle
	case PhaseUploadingPending, PhaseUploadingQueued:
		e.phase = PhaseUploading
	}
}

// Flush pushes any scheduled change now and waits until nothing is pending or
// in flight. It returns the error of the last push it waited for.
func (e *Engine) Flush(ctx context.Context) error {
	waited := false
	for {
		e.mu.Lock()
		var wait <-chan struct{}
		switch e.phase {
		case PhaseIdle:
			err := e.lastErr
			e.mu.Unlock()
			if waited {
				return err
			}
			return nil
		case PhasePending:
			e.disarmLocked()
			e.gen++
			switch {
			case e.session == nil:
				e.phase = PhaseIdle
			case e.pulling:
				e.phase = PhaseQueued
				wait = e.pullDone
			default:
				e.startPushLocked()
				wait = e.settled
			}
		case PhaseUploadingPending:
			e.disarmLocked()
			e.gen++
			e.phase = PhaseUploadingQueued
			wait = e.settled
		case PhaseUploading, PhaseUploadingQueued:
			wait = e.settled
		case PhaseQueued:
			wait = e.pullDone
		}
		e.mu.Unlock()

		if wait == nil {
			continue
		}
		waited = true
		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close flushes outstanding pushes and stops the engine. Later Notify calls
// are ignored.
func (e *Engine) Close(ctx context.Context) error {
	err := e.Flush(ctx)

	e.mu.Lock()
	e.closed = true
	e.session = nil
	e.disarmLocked()
	e.gen++
	e.mu.Unlock()

	e.cancel()
	return err
}

func (e *Engine) emitLocked(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = e.clock.Now()
	}
	e.reporter.Report(ev)
}

// race runs op and returns its result, or core.ErrRemoteTimeout if it takes
// longer than timeout. The op's context is cancelled either way.
func race[T any](parent context.Context, clock clockwork.Clock, timeout time.Duration, op func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	type outcome struct {
		val T
		err error
	}
	done := make(chan outcome, 1)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		val, err := op(ctx)
		done <- outcome{val: val, err: err}
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		select {
		case done <- outcome{err: fmt.Errorf("remote call panicked: %w", err)}:
		default:
		}
	}))

	timer := clock.NewTimer(timeout)
	defer timer.Stop()

	var zero T
	select {
	case out := <-done:
		return out.val, out.err
	case <-timer.Chan():
		return zero, core.ErrRemoteTimeout
	case <-parent.Done():
		return zero, parent.Err()
	}
}
