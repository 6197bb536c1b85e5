package tasks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"walkin_queue/internal/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMaintainer struct {
	cleanups  atomic.Int32
	refreshes atomic.Int32
	err       error
}

func (f *fakeMaintainer) CleanupActiveEntries(context.Context) (queue.CleanupResult, error) {
	f.cleanups.Add(1)
	return queue.CleanupResult{Closed: 2}, f.err
}

func (f *fakeMaintainer) RefreshAllWaitTimes(context.Context) error {
	f.refreshes.Add(1)
	return f.err
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestNewSchedulerRejectsBadCron(t *testing.T) {
	_, err := NewScheduler(&fakeMaintainer{}, "not a cron", "", quiet())
	assert.Error(t, err)
}

func TestSchedulerRegistersJobs(t *testing.T) {
	s, err := NewScheduler(&fakeMaintainer{}, "0 0 3 * * *", "0 */1 * * * *", quiet())
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 2)

	s, err = NewScheduler(&fakeMaintainer{}, "0 0 3 * * *", "", quiet())
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 1)
}

func TestSchedulerRunsJobs(t *testing.T) {
	m := &fakeMaintainer{}
	s, err := NewScheduler(m, "* * * * * *", "* * * * * *", quiet())
	require.NoError(t, err)
	s.Start()
	defer s.Stop(context.Background())

	assert.Eventually(t, func() bool {
		return m.cleanups.Load() > 0 && m.refreshes.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)
}

func TestJobErrorsAreLogged(t *testing.T) {
	m := &fakeMaintainer{err: errors.New("db down")}
	s, err := NewScheduler(m, "", "", quiet())
	require.NoError(t, err)
	s.Cleanup()
	s.Refresh()
	assert.Equal(t, int32(1), m.cleanups.Load())
	assert.Equal(t, int32(1), m.refreshes.Load())
}
