package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	cutoff  int64
	deleted int64
	err     error
}

func (f *fakePurger) PurgeTodos(_ context.Context, cutoffTs int64) (int64, error) {
	f.cutoff = cutoffTs
	return f.deleted, f.err
}

type fakeRecorder struct{ total int64 }

func (f *fakeRecorder) RecordTodosPurged(count int64) { f.total += count }

func TestRunOnce(t *testing.T) {
	purger := &fakePurger{deleted: 4}
	rec := &fakeRecorder{}
	r := NewTodoReset(purger, "@daily", 24*time.Hour, rec)
	now := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	n, err := r.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.Equal(t, now.Add(-24*time.Hour).Unix(), purger.cutoff)
	assert.Equal(t, int64(4), rec.total)
}

func TestRunOnce_Error(t *testing.T) {
	r := NewTodoReset(&fakePurger{err: errors.New("db closed")}, "@daily", time.Hour, nil)
	_, err := r.RunOnce(context.Background())
	assert.EqualError(t, err, "db closed")
}

func TestStart(t *testing.T) {
	t.Run("empty schedule disables", func(t *testing.T) {
		r := NewTodoReset(&fakePurger{}, "", time.Hour, nil)
		require.NoError(t, r.Start(context.Background()))
		assert.False(t, r.IsRunning())
		assert.Nil(t, r.NextRun())
		r.Stop()
	})

	t.Run("invalid schedule", func(t *testing.T) {
		r := NewTodoReset(&fakePurger{}, "every tuesday", time.Hour, nil)
		assert.Error(t, r.Start(context.Background()))
		assert.False(t, r.IsRunning())
	})

	t.Run("non-positive retention", func(t *testing.T) {
		r := NewTodoReset(&fakePurger{}, "@daily", 0, nil)
		assert.Error(t, r.Start(context.Background()))
	})

	t.Run("start and stop", func(t *testing.T) {
		r := NewTodoReset(&fakePurger{}, "@hourly", time.Hour, nil)
		require.NoError(t, r.Start(context.Background()))
		assert.True(t, r.IsRunning())
		next := r.NextRun()
		require.NotNil(t, next)
		assert.True(t, next.After(time.Now()))

		r.Stop()
		assert.False(t, r.IsRunning())
	})
}
