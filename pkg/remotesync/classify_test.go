package remotesync_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/NUMNIMx/noteflow/pkg/core"
	"github.com/NUMNIMx/noteflow/pkg/remotesync"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want remotesync.Reason
	}{
		{"timeout sentinel", core.ErrRemoteTimeout, remotesync.ReasonTimeout},
		{"wrapped deadline", fmt.Errorf("write: %w", context.DeadlineExceeded), remotesync.ReasonTimeout},
		{"bare timeout text", errors.New("TIMEOUT"), remotesync.ReasonTimeout},
		{"permission sentinel", fmt.Errorf("put: %w", core.ErrPermissionDenied), remotesync.ReasonPermissionDenied},
		{"permission text", errors.New("rpc error: PERMISSION_DENIED"), remotesync.ReasonPermissionDenied},
		{"not provisioned", core.ErrNotProvisioned, remotesync.ReasonNotFound},
		{"not found text", errors.New("5 NOT_FOUND: database (default) does not exist"), remotesync.ReasonNotFound},
		{"anything else", errors.New("connection reset"), remotesync.ReasonUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, remotesync.Classify(tt.err))
		})
	}
	assert.Equal(t, remotesync.Reason(""), remotesync.Classify(nil))
}

func TestMessageFor(t *testing.T) {
	assert.Equal(t, "no permission to write to the remote store",
		remotesync.MessageFor(remotesync.OpPush, remotesync.ReasonPermissionDenied))
	assert.Equal(t, "sync failed", remotesync.MessageFor(remotesync.OpPush, remotesync.ReasonUnknown))
	assert.Equal(t, "could not sync data from the cloud",
		remotesync.MessageFor(remotesync.OpPull, remotesync.ReasonNotFound))
}

func TestSyncErrorUnwraps(t *testing.T) {
	err := &remotesync.SyncError{Op: remotesync.OpPush, Reason: remotesync.ReasonTimeout, Err: core.ErrRemoteTimeout}
	assert.ErrorIs(t, err, core.ErrRemoteTimeout)
	assert.Contains(t, err.Error(), "push failed (TIMEOUT)")
}

func TestEventString(t *testing.T) {
	at := time.Date(2026, 3, 10, 9, 0, 2, 0, time.UTC)
	assert.Equal(t, "sync_pending", remotesync.Event{Type: remotesync.EventSyncPending}.String())
	assert.Equal(t, "sync_succeeded(2026-03-10T09:00:02Z)",
		remotesync.Event{Type: remotesync.EventSyncSucceeded, Timestamp: at}.String())
	assert.Equal(t, "pull_failed(NOT_FOUND)",
		remotesync.Event{Type: remotesync.EventPullFailed, Reason: remotesync.ReasonNotFound}.String())
}

func TestChannelReporterDropsWhenFull(t *testing.T) {
	r := remotesync.NewChannelReporter(1)
	r.Report(remotesync.Event{Type: remotesync.EventSyncPending})
	r.Report(remotesync.Event{Type: remotesync.EventSyncUploading})

	assert.Equal(t, int64(1), r.Dropped())
	assert.Equal(t, remotesync.EventSyncPending, (<-r.Events()).Type)
}

func TestMultiReporter(t *testing.T) {
	var got []remotesync.EventType
	fn := remotesync.ReporterFunc(func(e remotesync.Event) { got = append(got, e.Type) })
	m := remotesync.MultiReporter{fn, nil, fn}
	m.Report(remotesync.Event{Type: remotesync.EventPullStarted})
	assert.Equal(t, []remotesync.EventType{remotesync.EventPullStarted, remotesync.EventPullStarted}, got)
}
