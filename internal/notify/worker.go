package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"walkin_queue/internal/metrics"
	"walkin_queue/internal/models"

	"github.com/hibiken/asynq"
)

// Sender доставляет уведомление во внешний канал (SMS, WhatsApp).
type Sender interface {
	Send(ctx context.Context, n *models.QueueNotification) error
}

// LogSender только пишет уведомление в лог. Используется, пока шлюз не подключён.
type LogSender struct {
	Log *slog.Logger
}

func (s LogSender) Send(_ context.Context, n *models.QueueNotification) error {
	s.Log.Info("уведомление", "channel", n.Channel, "recipient", n.Recipient, "type", n.Type, "content", n.Content)
	return nil
}

type Worker struct {
	store  Store
	sender Sender
	log    *slog.Logger
	now    func() time.Time
}

func NewWorker(store Store, sender Sender, log *slog.Logger) *Worker {
	if log == nil {
		log = slog.Default()
	}
	return &Worker{store: store, sender: sender, log: log.With("component", "notify-worker"), now: time.Now}
}

// HandleDeliver: обработчик задачи notify:deliver.
func (w *Worker) HandleDeliver(ctx context.Context, t *asynq.Task) error {
	var p DeliverPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	n, err := w.store.GetNotification(ctx, p.NotificationID)
	if err != nil {
		return err
	}
	if n.Status == models.NotificationSent {
		return nil
	}

	if err := w.sender.Send(ctx, n); err != nil {
		metrics.NotificationsFailed.Inc()
		if merr := w.store.MarkNotification(ctx, n.ID, models.NotificationFailed, err.Error(), w.now()); merr != nil {
			w.log.Error("не удалось отметить уведомление", "notification_id", n.ID, "err", merr)
		}
		return err
	}
	return w.store.MarkNotification(ctx, n.ID, models.NotificationSent, "", w.now())
}

// NewServer собирает сервер asynq с обработчиком доставки.
func NewServer(redisOpt asynq.RedisClientOpt, concurrency int, w *Worker) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			"critical": 6,
			"default":  3,
		},
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeDeliverNotification, w.HandleDeliver)
	return srv, mux
}
