package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NUMNIMx/noteflow/pkg/adapters/remote/memory"
	"github.com/NUMNIMx/noteflow/pkg/core"
)

func TestStore_ReadWrite(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	_, ok, err := s.Read(ctx, "users/a")
	require.NoError(t, err)
	assert.False(t, ok)

	payload := []byte(`{"notes":[]}`)
	require.NoError(t, s.Write(ctx, "users/a", core.Record{Payload: payload, UpdatedAt: 7}))
	payload[0] = 'X'

	rec, ok, err := s.Read(ctx, "users/a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"notes":[]}`, string(rec.Payload), "stored bytes are copied")
	assert.Equal(t, int64(7), rec.UpdatedAt)
	assert.Equal(t, 1, s.Writes())
	assert.Equal(t, 2, s.Reads())

	s.Seed("users/b", core.Record{Payload: []byte("{}")})
	assert.Equal(t, 1, s.Writes(), "seeding is not a write")
}

func TestStore_FailWith(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	boom := errors.New("boom")

	s.FailWith(boom)
	assert.ErrorIs(t, s.Write(ctx, "k", core.Record{}), boom)
	_, ok := s.Get("k")
	assert.False(t, ok)

	s.FailWith(nil)
	assert.NoError(t, s.Write(ctx, "k", core.Record{}))
}

func TestStore_HangUntilReleaseOrDeadline(t *testing.T) {
	s := memory.New()
	s.Hang()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, _, err := s.Read(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, s.InFlight())

	done := make(chan error, 1)
	go func() { done <- s.Write(context.Background(), "k", core.Record{UpdatedAt: 1}) }()
	require.Eventually(t, func() bool { return s.InFlight() == 1 }, time.Second, time.Millisecond)

	s.Release()
	require.NoError(t, <-done)
	rec, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, int64(1), rec.UpdatedAt)
	assert.Equal(t, 1, s.MaxConcurrent())
}
