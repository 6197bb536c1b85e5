package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"walkin_queue/internal/models"
	"walkin_queue/internal/storage/memstore"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	mu    sync.Mutex
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

type fakeSender struct {
	err  error
	sent []models.QueueNotification
}

func (f *fakeSender) Send(_ context.Context, n *models.QueueNotification) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, *n)
	return nil
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func entry() *models.QueueEntry {
	return &models.QueueEntry{
		ID:            uuid.New(),
		Code:          "ABC234",
		CustomerName:  "Ирина",
		CustomerPhone: "+628120000001",
		PartySize:     2,
		QueuePosition: 3,
		Status:        models.StatusWaiting,
	}
}

func TestDispatcherStoresAndEnqueues(t *testing.T) {
	store := memstore.New()
	enq := &fakeEnqueuer{}
	d := NewDispatcher(store, enq, models.ChannelWhatsApp, discard())
	e := entry()

	require.NoError(t, d.SendTableReady(context.Background(), e, "T4"))
	require.Len(t, enq.tasks, 1)
	assert.Equal(t, TypeDeliverNotification, enq.tasks[0].Type())

	var p DeliverPayload
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &p))
	n, err := store.GetNotification(context.Background(), p.NotificationID)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationTableReady, n.Type)
	assert.Equal(t, models.NotificationPending, n.Status)
	assert.Equal(t, e.CustomerPhone, n.Recipient)
	assert.Contains(t, n.Content, "T4")
	assert.Contains(t, string(n.Metadata), `"table_number":"T4"`)
}

func TestDispatcherMarksFailedWhenEnqueueFails(t *testing.T) {
	store := memstore.New()
	enq := &fakeEnqueuer{err: errors.New("redis down")}
	d := NewDispatcher(store, enq, models.ChannelSMS, discard())
	e := entry()

	err := d.SendConfirmation(context.Background(), e)
	require.Error(t, err)

	list, err := store.ListNotifications(context.Background(), e.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.NotificationFailed, list[0].Status)
	assert.Equal(t, "redis down", list[0].LastError)
}

func deliverTask(t *testing.T, id uuid.UUID) *asynq.Task {
	payload, err := json.Marshal(DeliverPayload{NotificationID: id})
	require.NoError(t, err)
	return asynq.NewTask(TypeDeliverNotification, payload)
}

func TestWorkerDelivers(t *testing.T) {
	store := memstore.New()
	enq := &fakeEnqueuer{}
	e := entry()
	require.NoError(t, NewDispatcher(store, enq, models.ChannelSMS, discard()).SendCancellation(context.Background(), e, "staff"))

	sender := &fakeSender{}
	w := NewWorker(store, sender, discard())
	require.NoError(t, w.HandleDeliver(context.Background(), enq.tasks[0]))
	require.Len(t, sender.sent, 1)

	// повторная доставка не отправляет второй раз
	require.NoError(t, w.HandleDeliver(context.Background(), enq.tasks[0]))
	assert.Len(t, sender.sent, 1)

	list, _ := store.ListNotifications(context.Background(), e.ID)
	require.Len(t, list, 1)
	assert.Equal(t, models.NotificationSent, list[0].Status)
	assert.NotNil(t, list[0].SentAt)
}

func TestWorkerRecordsSendFailure(t *testing.T) {
	store := memstore.New()
	n := &models.QueueNotification{ID: uuid.New(), QueueEntryID: uuid.New(), Status: models.NotificationPending}
	require.NoError(t, store.InsertNotification(context.Background(), n))

	w := NewWorker(store, &fakeSender{err: errors.New("gateway 500")}, discard())
	err := w.HandleDeliver(context.Background(), deliverTask(t, n.ID))
	require.Error(t, err)

	got, _ := store.GetNotification(context.Background(), n.ID)
	assert.Equal(t, models.NotificationFailed, got.Status)
	assert.Equal(t, 1, got.Attempts)
}

func TestWorkerSkipsBadPayload(t *testing.T) {
	w := NewWorker(memstore.New(), &fakeSender{}, discard())
	err := w.HandleDeliver(context.Background(), asynq.NewTask(TypeDeliverNotification, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestInlineEnqueuerDeliversImmediately(t *testing.T) {
	store := memstore.New()
	sender := &fakeSender{}
	w := NewWorker(store, sender, discard())
	d := NewDispatcher(store, InlineEnqueuer{Worker: w}, models.ChannelSMS, discard())
	e := entry()

	require.NoError(t, d.SendUpdate(context.Background(), e, "очередь сдвинулась"))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Content, "очередь сдвинулась")

	list, _ := store.ListNotifications(context.Background(), e.ID)
	require.Len(t, list, 1)
	assert.Equal(t, models.NotificationSent, list[0].Status)
}
