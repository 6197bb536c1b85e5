package queue

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"walkin_queue/internal/config"
	"walkin_queue/internal/models"

	"github.com/google/uuid"
)

type Config = config.Engine

func DefaultConfig() Config { return config.DefaultEngine() }

// Service: движок живой очереди: позиции, статусы, удержание, подбор столов и ожидание.
type Service struct {
	store       Store
	directory   Directory
	notifier    Notifier
	broadcaster Broadcaster
	cfg         Config
	log         *slog.Logger
	now         func() time.Time

	bg             sync.WaitGroup
	refreshTimeout time.Duration
}

type Option func(*Service)

func WithNotifier(n Notifier) Option { return func(s *Service) { s.notifier = n } }

func WithBroadcaster(b Broadcaster) Option { return func(s *Service) { s.broadcaster = b } }

func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.log = l } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func WithConfig(cfg Config) Option { return func(s *Service) { s.cfg = cfg } }

func NewService(store Store, directory Directory, opts ...Option) *Service {
	s := &Service{
		store:          store,
		directory:      directory,
		notifier:       nopNotifier{},
		broadcaster:    nopBroadcaster{},
		cfg:            DefaultConfig(),
		log:            slog.Default(),
		now:            time.Now,
		refreshTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "queue")
	return s
}

// Wait дожидается фоновых пересчётов времени ожидания.
func (s *Service) Wait() {
	s.bg.Wait()
}

// refreshLater пересчитывает ожидание точки в фоне, не задерживая запрос.
func (s *Service) refreshLater(outletID uuid.UUID) {
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.refreshTimeout)
		defer cancel()
		if _, err := s.UpdateWaitTimes(ctx, outletID); err != nil {
			s.log.Warn("не удалось пересчитать время ожидания", "outlet_id", outletID, "err", err)
		}
	}()
}

// emit публикует событие в топик точки и в топик записи.
func (s *Service) emit(ctx context.Context, eventType string, e *models.QueueEntry, data map[string]any) {
	evt := Event{
		EventType:            eventType,
		OutletID:             e.OutletID,
		EntryID:              e.ID,
		Code:                 e.Code,
		Status:               e.Status,
		QueuePosition:        e.QueuePosition,
		EstimatedWaitMinutes: e.EstimatedWaitMinutes,
		Data:                 data,
		OccurredAt:           s.now(),
	}
	for _, topic := range []string{OutletTopic(e.OutletID), EntryTopic(e.Code)} {
		if err := s.broadcaster.Broadcast(ctx, topic, evt); err != nil {
			s.log.Warn("не удалось отправить событие", "topic", topic, "event", eventType, "err", err)
		}
	}
}
