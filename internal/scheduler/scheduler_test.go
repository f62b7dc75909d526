package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunJobNow(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop() })

	var runs atomic.Int32
	require.NoError(t, s.AddCronJob("digest", "Pending digest", "0 8 * * *", func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}, true))

	s.Start()
	require.NoError(t, s.RunJobNow("digest"))

	assert.Eventually(t, func() bool {
		info, ok := s.GetJob("digest")
		return ok && info.Status == JobStatusCompleted
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())

	info, ok := s.GetJob("digest")
	require.True(t, ok)
	assert.Equal(t, 1, info.RunCount)
	assert.Equal(t, "0 8 * * *", info.Schedule)
}

func TestScheduler_FailedJob(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop() })

	require.NoError(t, s.AddCronJob("broken", "Broken", "0 8 * * *", func(ctx context.Context) error {
		return errors.New("smtp unreachable")
	}, false))

	s.Start()
	require.NoError(t, s.RunJobNow("broken"))

	assert.Eventually(t, func() bool {
		info, _ := s.GetJob("broken")
		return info.Status == JobStatusFailed
	}, 5*time.Second, 10*time.Millisecond)

	info, _ := s.GetJob("broken")
	assert.Equal(t, 1, info.ErrorCount)
	assert.Equal(t, "smtp unreachable", info.LastError)
}

func TestScheduler_Errors(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop() })

	assert.Error(t, s.RunJobNow("missing"))
	assert.Error(t, s.AddCronJob("bad", "Bad", "not a cron", func(ctx context.Context) error { return nil }, false))

	_, ok := s.GetJob("bad")
	assert.False(t, ok)
}
