package tasks

import (
	"context"
	"log/slog"
	"time"

	"walkin_queue/internal/queue"

	"github.com/robfig/cron/v3"
)

// Maintainer: фоновые операции движка очереди.
type Maintainer interface {
	CleanupActiveEntries(ctx context.Context) (queue.CleanupResult, error)
	RefreshAllWaitTimes(ctx context.Context) error
}

type Scheduler struct {
	cron    *cron.Cron
	svc     Maintainer
	log     *slog.Logger
	timeout time.Duration
}

// NewScheduler регистрирует задачи очистки и пересчёта ожидания.
// Пустое расписание отключает задачу.
func NewScheduler(svc Maintainer, cleanupCron, refreshCron string, log *slog.Logger) (*Scheduler, error) {
	if log == nil {
		log = slog.Default()
	}
	s := &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		svc:     svc,
		log:     log.With("component", "scheduler"),
		timeout: 5 * time.Minute,
	}
	if cleanupCron != "" {
		if _, err := s.cron.AddFunc(cleanupCron, s.Cleanup); err != nil {
			return nil, err
		}
	}
	if refreshCron != "" {
		if _, err := s.cron.AddFunc(refreshCron, s.Refresh); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("cron-планировщик запущен", "jobs", len(s.cron.Entries()))
}

// Stop останавливает планировщик и ждёт завершения запущенных задач.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("задачи планировщика не успели завершиться")
	}
}

// Cleanup закрывает зависшие записи.
func (s *Scheduler) Cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	res, err := s.svc.CleanupActiveEntries(ctx)
	if err != nil {
		s.log.Error("ошибка очистки очереди", "err", err)
		return
	}
	s.log.Info("зависшие записи закрыты", "closed", res.Closed, "failed", res.Failed)
}

// Refresh пересчитывает ожидание во всех активных точках.
func (s *Scheduler) Refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.svc.RefreshAllWaitTimes(ctx); err != nil {
		s.log.Error("ошибка пересчёта ожидания", "err", err)
	}
}
