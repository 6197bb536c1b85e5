package queue

import (
	"context"
	"errors"
	"testing"

	"walkin_queue/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var statuses = []models.QueueStatus{
	models.StatusWaiting, models.StatusCalled, models.StatusSeated,
	models.StatusCompleted, models.StatusNoShow, models.StatusCancelled,
}

func TestOnlyGraphEdgesSucceed(t *testing.T) {
	for _, from := range statuses {
		for _, to := range statuses {
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				f := newFixture(t)
				e := models.QueueEntry{
					ID: uuid.New(), Code: "EDGE01", OutletID: f.outlet.ID, CustomerName: "Ana",
					CustomerPhone: "+628123456789", PartySize: 2, Status: from, QueuePosition: 1,
					QueuedAt: f.clock.Now(),
				}
				f.store.Put(e)

				got, err := f.svc.ChangeStatus(context.Background(), e.ID, to, "test", nil)
				if CanTransition(from, to) {
					require.NoError(t, err)
					assert.Equal(t, to, got.Status)
					return
				}
				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, from, f.reload(t, e.ID).Status)
			})
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, st := range statuses {
		if st.IsTerminal() {
			assert.Empty(t, AllowedTransitions(st), st)
		}
	}
	assert.False(t, CanTransition(models.StatusWaiting, models.StatusSeated))
	assert.False(t, CanTransition(models.StatusWaiting, models.StatusWaiting))
}

func TestLifecycleToCompleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	staff := "staff-7"
	e := f.join(t, "Ana", 2)

	_, err := f.svc.MarkSeated(ctx, e.ID, staff)
	assert.ErrorIs(t, err, ErrInvalidTransition, "waiting entries must be called first")

	called, err := f.svc.ChangeStatus(ctx, e.ID, models.StatusCalled, "table ready", &staff)
	require.NoError(t, err)
	require.NotNil(t, called.CalledAt)
	assert.Zero(t, called.EstimatedWaitMinutes)

	seated, err := f.svc.MarkSeated(ctx, e.ID, staff)
	require.NoError(t, err)
	require.NotNil(t, seated.SeatedAt)

	done, err := f.svc.MarkCompleted(ctx, e.ID, staff)
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, models.StatusCompleted, done.Status)

	_, err = f.svc.ChangeStatus(ctx, e.ID, models.StatusWaiting, "reopen", &staff)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	history, err := f.svc.GetStatusHistory(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, models.StatusWaiting, history[0].OldStatus)
	assert.Equal(t, models.StatusCalled, history[0].NewStatus)
	assert.Equal(t, "table ready", history[0].Reason)
	assert.Equal(t, staff, *history[0].ActorID)
	assert.Equal(t, models.StatusCompleted, history[2].NewStatus)
}

func TestCancelClosedEntryReturnsFalse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.join(t, "Ana", 2)

	ok, err := f.svc.CancelEntry(ctx, e.ID, "", nil)
	require.NoError(t, err)
	assert.True(t, ok)

	staff := "staff-1"
	ok, err = f.svc.CancelEntry(ctx, e.ID, "", &staff)
	require.NoError(t, err)
	assert.False(t, ok)

	history, err := f.svc.GetStatusHistory(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Nil(t, history[0].ActorID)
	assert.Equal(t, "cancelled by customer", history[0].Reason)
}

func TestCancelByCodeNotifiesCustomer(t *testing.T) {
	f := newFixture(t)
	e := f.join(t, "Ana", 2)

	got, err := f.svc.CancelByCode(context.Background(), e.Code, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)
	assert.Contains(t, f.notifier.Calls(), "cancellation:"+e.Code)
	assert.ElementsMatch(t,
		[]string{OutletTopic(f.outlet.ID), EntryTopic(e.Code)},
		f.bus.topics(EventStatusChanged))
}

func TestChangeStatusUnknownEntry(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ChangeStatus(context.Background(), uuid.New(), models.StatusCalled, "", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotificationFailureKeepsTransition(t *testing.T) {
	f := newFixture(t)
	e := f.join(t, "Ana", 2)
	f.notifier.err = errors.New("gateway down")

	ok, err := f.svc.CancelEntry(context.Background(), e.ID, "changed plans", nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.StatusCancelled, f.reload(t, e.ID).Status)
}

func TestNoShowFromCalled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.join(t, "Ana", 2)
	_, err := f.svc.ChangeStatus(ctx, e.ID, models.StatusCalled, "", nil)
	require.NoError(t, err)

	got, err := f.svc.MarkNoShow(ctx, e.ID, "staff-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusNoShow, got.Status)
	assert.NotNil(t, got.CompletedAt)
	assert.Contains(t, f.notifier.Calls(), "update:"+e.Code)
}

func TestCancelSeatedEntryIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.join(t, "Ana", 2)
	_, err := f.svc.ChangeStatus(ctx, e.ID, models.StatusCalled, "", nil)
	require.NoError(t, err)
	_, err = f.svc.MarkSeated(ctx, e.ID, "staff-1")
	require.NoError(t, err)

	ok, err := f.svc.CancelEntry(ctx, e.ID, "", nil)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.CancelEntry(ctx, uuid.New(), "", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}
