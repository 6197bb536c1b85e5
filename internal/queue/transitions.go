package queue

import (
	"context"
	"errors"
	"fmt"

	"walkin_queue/internal/metrics"
	"walkin_queue/internal/models"
	"walkin_queue/internal/storage"

	"github.com/google/uuid"
)

var transitions = map[models.QueueStatus][]models.QueueStatus{
	models.StatusWaiting: {models.StatusCalled, models.StatusCancelled, models.StatusNoShow},
	models.StatusCalled:  {models.StatusSeated, models.StatusNoShow, models.StatusCancelled},
	models.StatusSeated:  {models.StatusCompleted},
}

// CanTransition сообщает, есть ли ребро from → to в графе статусов.
func CanTransition(from, to models.QueueStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedTransitions: куда можно перейти из статуса from.
func AllowedTransitions(from models.QueueStatus) []models.QueueStatus {
	return append([]models.QueueStatus(nil), transitions[from]...)
}

type transitionOpts struct {
	notify  bool
	refresh bool
	system  bool // Закрытие очисткой: не попадает в историю длительности посадки
}

var defaultTransition = transitionOpts{notify: true, refresh: true}

// ChangeStatus переводит запись в новый статус.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, to models.QueueStatus, reason string, actorID *string) (*models.QueueEntry, error) {
	e, err := s.store.GetEntry(ctx, id, storage.ReadPrimary)
	if err != nil {
		return nil, storeErr("get entry", err)
	}
	if err := s.applyTransition(ctx, e, to, reason, actorID, defaultTransition); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) applyTransition(ctx context.Context, e *models.QueueEntry, to models.QueueStatus, reason string, actorID *string, opts transitionOpts) error {
	from := e.Status
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	now := s.now()
	next := *e
	next.Status = to
	switch {
	case to == models.StatusCalled:
		next.CalledAt = &now
	case to == models.StatusSeated:
		next.SeatedAt = &now
	case to.IsTerminal():
		next.CompletedAt = &now
		next.ClosedBySystem = opts.system
	}
	if from == models.StatusWaiting {
		clearHold(&next)
		next.PrioritizedAt = nil
		next.PrioritizedBy = nil
	}
	next.EstimatedWaitMinutes = 0
	next.UpdatedAt = now

	change := &models.QueueStatusChange{
		ID:           uuid.New(),
		QueueEntryID: e.ID,
		OldStatus:    from,
		NewStatus:    to,
		ActorID:      actorID,
		Reason:       reason,
		ChangedAt:    now,
	}
	if err := s.store.TransitionEntry(ctx, &next, from, change); err != nil {
		return storeErr("transition", err)
	}
	*e = next

	metrics.Transitions.WithLabelValues(string(to)).Inc()
	s.log.Info("статус записи изменён", "entry_id", e.ID, "code", e.Code, "from", from, "to", to, "reason", reason)
	s.emit(ctx, EventStatusChanged, e, map[string]any{"old_status": from, "reason": reason})

	if opts.notify {
		s.notifyStatus(ctx, e, reason)
	}
	if opts.refresh {
		s.refreshLater(e.OutletID)
	}
	return nil
}

func (s *Service) notifyStatus(ctx context.Context, e *models.QueueEntry, reason string) {
	var err error
	switch e.Status {
	case models.StatusCalled:
		tableNumber := ""
		if a, aerr := s.store.ActiveAssignment(ctx, e.ID); aerr == nil {
			tableNumber = a.TableNumber
		}
		err = s.notifier.SendTableReady(ctx, e, tableNumber)
	case models.StatusCancelled:
		err = s.notifier.SendCancellation(ctx, e, reason)
	case models.StatusNoShow:
		err = s.notifier.SendUpdate(ctx, e, "Ваша запись закрыта: гость не подошёл к столу")
	default:
		return
	}
	if err != nil {
		metrics.NotificationsFailed.Inc()
		s.log.Warn("уведомление не отправлено", "entry_id", e.ID, "status", e.Status, "err", err)
	}
}

// MarkSeated: гость сел за стол.
func (s *Service) MarkSeated(ctx context.Context, id uuid.UUID, staffID string) (*models.QueueEntry, error) {
	return s.ChangeStatus(ctx, id, models.StatusSeated, "seated by staff", &staffID)
}

// MarkCompleted: гость освободил стол.
func (s *Service) MarkCompleted(ctx context.Context, id uuid.UUID, staffID string) (*models.QueueEntry, error) {
	return s.ChangeStatus(ctx, id, models.StatusCompleted, "completed", &staffID)
}

func (s *Service) MarkNoShow(ctx context.Context, id uuid.UUID, staffID string) (*models.QueueEntry, error) {
	return s.ChangeStatus(ctx, id, models.StatusNoShow, "customer did not show up", &staffID)
}

// CancelEntry отменяет запись. actorID nil: отмена самим гостем.
// Для уже закрытой записи возвращает false без ошибки.
func (s *Service) CancelEntry(ctx context.Context, id uuid.UUID, reason string, actorID *string) (bool, error) {
	if reason == "" {
		reason = "cancelled by customer"
		if actorID != nil {
			reason = "cancelled by staff"
		}
	}
	e, err := s.store.GetEntry(ctx, id, storage.ReadPrimary)
	if err != nil {
		return false, storeErr("get entry", err)
	}
	if e.Status.IsTerminal() {
		return false, nil
	}
	if err := s.applyTransition(ctx, e, models.StatusCancelled, reason, actorID, defaultTransition); err != nil {
		if errors.Is(err, ErrInvalidTransition) && s.closedMeanwhile(ctx, id) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// closedMeanwhile: запись закрыл кто-то другой между чтением и записью.
func (s *Service) closedMeanwhile(ctx context.Context, id uuid.UUID) bool {
	e, err := s.store.GetEntry(ctx, id, storage.ReadPrimary)
	return err == nil && e.Status.IsTerminal()
}

// CancelByCode: отмена гостем по коду записи.
func (s *Service) CancelByCode(ctx context.Context, code, reason string) (*models.QueueEntry, error) {
	e, err := s.store.GetEntryByCode(ctx, code)
	if err != nil {
		return nil, storeErr("get entry by code", err)
	}
	if reason == "" {
		reason = "cancelled by customer"
	}
	return s.ChangeStatus(ctx, e.ID, models.StatusCancelled, reason, nil)
}
