package queue

import (
	"context"
	"fmt"

	"walkin_queue/internal/models"
	"walkin_queue/internal/storage"

	"github.com/google/uuid"
)

// Удержание: флаг на ожидающей записи: позиция и статус не меняются,
// но запись пропускается при автоматическом вызове следующего гостя.

func clearHold(e *models.QueueEntry) {
	e.IsHeld = false
	e.HeldSince = nil
}

// HoldEntry откладывает ожидающую запись. Повторный вызов ничего не меняет.
func (s *Service) HoldEntry(ctx context.Context, id uuid.UUID, actorID string) (*models.QueueEntry, error) {
	e, err := s.waitingEntry(ctx, id, "hold")
	if err != nil {
		return nil, err
	}
	if e.IsHeld {
		return e, nil
	}
	prev := storage.HoldStateOf(e)
	now := s.now()
	e.IsHeld = true
	e.HeldSince = &now
	if err := s.saveWaiting(ctx, e, prev, "held", actorID); err != nil {
		return nil, err
	}
	s.emit(ctx, EventEntryHeld, e, nil)
	s.refreshLater(e.OutletID)
	return e, nil
}

// ReleaseHold снимает удержание, не трогая приоритет.
func (s *Service) ReleaseHold(ctx context.Context, id uuid.UUID, actorID string) (*models.QueueEntry, error) {
	e, err := s.waitingEntry(ctx, id, "release")
	if err != nil {
		return nil, err
	}
	if !e.IsHeld {
		return e, nil
	}
	prev := storage.HoldStateOf(e)
	clearHold(e)
	if err := s.saveWaiting(ctx, e, prev, "hold released", actorID); err != nil {
		return nil, err
	}
	s.emit(ctx, EventEntryReleased, e, nil)
	s.refreshLater(e.OutletID)
	return e, nil
}

// PrioritizeHeldEntry снимает удержание и ставит запись первой на вызов.
// Позиция в очереди остаётся прежней.
func (s *Service) PrioritizeHeldEntry(ctx context.Context, id uuid.UUID, actorID string) (*models.QueueEntry, error) {
	e, err := s.waitingEntry(ctx, id, "prioritize")
	if err != nil {
		return nil, err
	}
	prev := storage.HoldStateOf(e)
	now := s.now()
	clearHold(e)
	e.PrioritizedAt = &now
	e.PrioritizedBy = &actorID
	if err := s.saveWaiting(ctx, e, prev, "prioritized", actorID); err != nil {
		return nil, err
	}
	s.emit(ctx, EventEntryPrioritized, e, map[string]any{"prioritized_by": actorID})
	s.refreshLater(e.OutletID)
	return e, nil
}

// GetHeldEntries: удержанные записи точки по возрастанию позиции.
func (s *Service) GetHeldEntries(ctx context.Context, outletID uuid.UUID) ([]models.QueueEntry, error) {
	entries, _, err := s.store.ListEntries(ctx, storage.EntryFilter{
		OutletID: outletID,
		Statuses: []models.QueueStatus{models.StatusWaiting},
		HeldOnly: true,
	})
	if err != nil {
		return nil, storeErr("list held entries", err)
	}
	return entries, nil
}

func (s *Service) waitingEntry(ctx context.Context, id uuid.UUID, op string) (*models.QueueEntry, error) {
	e, err := s.store.GetEntry(ctx, id, storage.ReadPrimary)
	if err != nil {
		return nil, storeErr("get entry", err)
	}
	if e.Status != models.StatusWaiting {
		return nil, fmt.Errorf("%w: cannot %s entry in status %s", ErrInvalidTransition, op, e.Status)
	}
	return e, nil
}

// saveWaiting пишет удержание и приоритет, если их никто не изменил после
// чтения prev. Иначе ErrInvalidTransition: действие нужно повторить.
func (s *Service) saveWaiting(ctx context.Context, e *models.QueueEntry, prev storage.HoldState, reason, actorID string) error {
	now := s.now()
	e.UpdatedAt = now
	change := &models.QueueStatusChange{
		ID:           uuid.New(),
		QueueEntryID: e.ID,
		OldStatus:    models.StatusWaiting,
		NewStatus:    models.StatusWaiting,
		ActorID:      &actorID,
		Reason:       reason,
		ChangedAt:    now,
	}
	if err := s.store.UpdateHold(ctx, e, prev, change); err != nil {
		return storeErr(reason, err)
	}
	s.log.Info("запись обновлена", "entry_id", e.ID, "code", e.Code, "action", reason, "actor", actorID)
	return nil
}
