package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"walkin_queue/internal/metrics"
	"walkin_queue/internal/models"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"gorm.io/datatypes"
)

const TypeDeliverNotification = "notify:deliver"

type DeliverPayload struct {
	NotificationID uuid.UUID `json:"notification_id"`
}

// Store: где хранятся уведомления и статус их доставки.
type Store interface {
	InsertNotification(ctx context.Context, n *models.QueueNotification) error
	GetNotification(ctx context.Context, id uuid.UUID) (*models.QueueNotification, error)
	MarkNotification(ctx context.Context, id uuid.UUID, status models.NotificationStatus, lastErr string, at time.Time) error
}

// Enqueuer ставит задачу доставки. Реализуется *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Dispatcher записывает уведомление и отдаёт его доставку воркеру.
type Dispatcher struct {
	store    Store
	enqueuer Enqueuer
	channel  models.NotificationChannel
	log      *slog.Logger
	now      func() time.Time
}

func NewDispatcher(store Store, enqueuer Enqueuer, channel models.NotificationChannel, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		store:    store,
		enqueuer: enqueuer,
		channel:  channel,
		log:      log.With("component", "notify"),
		now:      time.Now,
	}
}

func (d *Dispatcher) SendConfirmation(ctx context.Context, e *models.QueueEntry) error {
	return d.dispatch(ctx, e, models.NotificationConfirmation, confirmationText(e), nil)
}

func (d *Dispatcher) SendTableReady(ctx context.Context, e *models.QueueEntry, tableNumber string) error {
	return d.dispatch(ctx, e, models.NotificationTableReady, tableReadyText(e, tableNumber), map[string]any{"table_number": tableNumber})
}

func (d *Dispatcher) SendUpdate(ctx context.Context, e *models.QueueEntry, message string) error {
	return d.dispatch(ctx, e, models.NotificationUpdate, updateText(e, message), nil)
}

func (d *Dispatcher) SendCancellation(ctx context.Context, e *models.QueueEntry, reason string) error {
	return d.dispatch(ctx, e, models.NotificationCancellation, cancellationText(e), map[string]any{"reason": reason})
}

func (d *Dispatcher) dispatch(ctx context.Context, e *models.QueueEntry, typ models.NotificationType, content string, extra map[string]any) error {
	meta := map[string]any{"code": e.Code, "queue_position": e.QueuePosition}
	for k, v := range extra {
		meta[k] = v
	}
	rawMeta, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	n := &models.QueueNotification{
		ID:           uuid.New(),
		QueueEntryID: e.ID,
		Type:         typ,
		Channel:      d.channel,
		Recipient:    e.CustomerPhone,
		Content:      content,
		Status:       models.NotificationPending,
		Metadata:     datatypes.JSON(rawMeta),
		CreatedAt:    d.now(),
	}
	if err := d.store.InsertNotification(ctx, n); err != nil {
		return fmt.Errorf("save notification: %w", err)
	}

	payload, err := json.Marshal(DeliverPayload{NotificationID: n.ID})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeDeliverNotification, payload, asynq.MaxRetry(5), asynq.Timeout(30*time.Second))
	if _, err := d.enqueuer.EnqueueContext(ctx, task); err != nil {
		metrics.NotificationsFailed.Inc()
		if merr := d.store.MarkNotification(ctx, n.ID, models.NotificationFailed, err.Error(), d.now()); merr != nil {
			d.log.Error("не удалось отметить уведомление", "notification_id", n.ID, "err", merr)
		}
		return fmt.Errorf("enqueue notification: %w", err)
	}
	d.log.Debug("уведомление поставлено в очередь", "notification_id", n.ID, "type", typ, "code", e.Code)
	return nil
}
