package remotesync

import (
	"log/slog"
	"sync/atomic"
)

// Reporter receives sync status events. Report is called with the engine's
// lock held: it must return quickly and must not call back into the engine.
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Event)

// Report calls f.
func (f ReporterFunc) Report(e Event) { f(e) }

// MultiReporter fans an event out to several reporters in order.
type MultiReporter []Reporter

// Report implements Reporter.
func (m MultiReporter) Report(e Event) {
	for _, r := range m {
		if r != nil {
			r.Report(e)
		}
	}
}

// LogReporter writes events to a structured logger.
type LogReporter struct {
	Logger *slog.Logger
}

// Report implements Reporter.
func (r LogReporter) Report(e Event) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if e.Failed() {
		logger.Warn("sync status", "event", string(e.Type), "reason", string(e.Reason), "message", e.Message)
		return
	}
	logger.Debug("sync status", "event", string(e.Type), "at", e.Timestamp)
}

// ChannelReporter buffers events on a channel. When the buffer is full new
// events are dropped and counted rather than blocking the engine.
type ChannelReporter struct {
	ch      chan Event
	dropped atomic.Int64
}

// NewChannelReporter creates a reporter with the given buffer size.
func NewChannelReporter(size int) *ChannelReporter {
	return &ChannelReporter{ch: make(chan Event, size)}
}

// Report implements Reporter.
func (r *ChannelReporter) Report(e Event) {
	select {
	case r.ch <- e:
	default:
		r.dropped.Add(1)
	}
}

// Events returns the receive side of the buffer.
func (r *ChannelReporter) Events() <-chan Event {
	return r.ch
}

// Dropped returns how many events did not fit in the buffer.
func (r *ChannelReporter) Dropped() int64 {
	return r.dropped.Load()
}
