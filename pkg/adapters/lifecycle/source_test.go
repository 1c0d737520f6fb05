package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NUMNIMx/noteflow/pkg/adapters/lifecycle"
	"github.com/NUMNIMx/noteflow/pkg/remotesync"
)

func TestSourceForwardsEvents(t *testing.T) {
	reporter := remotesync.NewChannelReporter(4)
	src := lifecycle.NewSource(reporter.Events())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, src.Start(ctx))

	reporter.Report(remotesync.Event{Type: remotesync.EventSyncFailed, Reason: remotesync.ReasonTimeout})

	select {
	case e := <-src.Events():
		require.NotNil(t, e)
		assert.Equal(t, "sync_failed(TIMEOUT)", e.String())
	case <-time.After(2 * time.Second):
		t.Fatal("no event forwarded")
	}
}

func TestSourceClosesWithInput(t *testing.T) {
	in := make(chan remotesync.Event)
	src := lifecycle.NewSource(in)
	require.NoError(t, src.Start(context.Background()))
	close(in)

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("output not closed")
	}
}

func TestSourceStopsWithContext(t *testing.T) {
	src := lifecycle.NewSource(make(chan remotesync.Event))
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, src.Start(ctx))
	cancel()

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("output not closed")
	}
}
