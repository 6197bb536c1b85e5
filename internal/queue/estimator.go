package queue

import (
	"context"
	"errors"
	"math"
	"sort"

	"walkin_queue/internal/metrics"
	"walkin_queue/internal/models"
	"walkin_queue/internal/storage"

	"github.com/google/uuid"
)

// averageSeating: средняя длительность посадки для групп близкого размера, в минутах.
func (s *Service) averageSeating(ctx context.Context, outletID uuid.UUID, partySize int) (float64, error) {
	minParty := partySize - s.cfg.PartySizeWindow
	if minParty < 1 {
		minParty = 1
	}
	since := s.now().Add(-s.cfg.SeatingHistoryWindow)
	avg, n, err := s.store.AverageSeatingMinutes(ctx, outletID, minParty, partySize+s.cfg.PartySizeWindow, since)
	if err != nil {
		return 0, storeErr("average seating", err)
	}
	if n == 0 || avg <= 0 {
		return float64(s.cfg.DefaultSeatingMinutes), nil
	}
	return avg, nil
}

// turnover: сколько минут в среднем проходит до освобождения какого-нибудь стола.
func (s *Service) turnover(ctx context.Context, outletID uuid.UUID, partySize int) (float64, error) {
	avg, err := s.averageSeating(ctx, outletID, partySize)
	if err != nil {
		return 0, err
	}
	tables, err := s.directory.CountActiveTables(ctx, outletID)
	if err != nil {
		return 0, storeErr("count tables", err)
	}
	if tables < 1 {
		tables = 1
	}
	return avg / float64(tables), nil
}

func estimateMinutes(ahead int, turnover float64) int {
	return int(math.Ceil(float64(ahead) * turnover))
}

// waitingAhead считает, сколько записей будет обслужено раньше target:
// все вызванные и неудержанные ожидающие, стоящие раньше в порядке вызова.
func waitingAhead(active []models.QueueEntry, target *models.QueueEntry) int {
	ahead := 0
	for i := range active {
		e := &active[i]
		if e.ID == target.ID {
			continue
		}
		switch {
		case e.Status == models.StatusCalled:
			ahead++
		case e.Status == models.StatusWaiting && !e.IsHeld && callOrderLess(e, target):
			ahead++
		}
	}
	return ahead
}

// EstimateWaitTime: сколько ждать группе, если встать в очередь сейчас.
func (s *Service) EstimateWaitTime(ctx context.Context, outletID uuid.UUID, partySize int) (int, error) {
	if partySize < 1 || partySize > s.cfg.MaxPartySize {
		return 0, validationf("party size must be between 1 and %d", s.cfg.MaxPartySize)
	}
	if _, err := s.directory.GetOutlet(ctx, outletID); err != nil {
		return 0, storeErr("get outlet", err)
	}
	active, _, err := s.store.ListEntries(ctx, storage.EntryFilter{OutletID: outletID, Statuses: models.ActiveStatuses()})
	if err != nil {
		return 0, storeErr("list active entries", err)
	}
	ahead := 0
	for _, e := range active {
		if e.Status == models.StatusCalled || !e.IsHeld {
			ahead++
		}
	}
	t, err := s.turnover(ctx, outletID, partySize)
	if err != nil {
		return 0, err
	}
	return estimateMinutes(ahead, t), nil
}

func (s *Service) estimateFor(ctx context.Context, e *models.QueueEntry) (int, error) {
	active, _, err := s.store.ListEntries(ctx, storage.EntryFilter{
		OutletID: e.OutletID,
		Statuses: models.ActiveStatuses(),
		Mode:     storage.ReadPrimary,
	})
	if err != nil {
		return 0, storeErr("list active entries", err)
	}
	t, err := s.turnover(ctx, e.OutletID, e.PartySize)
	if err != nil {
		return 0, err
	}
	return estimateMinutes(waitingAhead(active, e), t), nil
}

// UpdateWaitTimes пересчитывает ожидание всех активных записей точки.
// Возвращает количество обновлённых записей.
func (s *Service) UpdateWaitTimes(ctx context.Context, outletID uuid.UUID) (int, error) {
	active, _, err := s.store.ListEntries(ctx, storage.EntryFilter{
		OutletID: outletID,
		Statuses: models.ActiveStatuses(),
		Mode:     storage.ReadPrimary,
	})
	if err != nil {
		return 0, storeErr("list active entries", err)
	}
	metrics.ActiveEntries.WithLabelValues(outletID.String()).Set(float64(len(active)))
	if len(active) == 0 {
		return 0, nil
	}

	var (
		called  int
		waiting []*models.QueueEntry
	)
	estimates := make(map[uuid.UUID]int, len(active))
	for i := range active {
		e := &active[i]
		if e.Status == models.StatusCalled {
			called++
			estimates[e.ID] = 0
			continue
		}
		waiting = append(waiting, e)
	}
	sort.SliceStable(waiting, func(i, j int) bool { return callOrderLess(waiting[i], waiting[j]) })

	perParty := make(map[int]float64)
	ahead := called
	for _, e := range waiting {
		t, ok := perParty[e.PartySize]
		if !ok {
			if t, err = s.turnover(ctx, outletID, e.PartySize); err != nil {
				return 0, err
			}
			perParty[e.PartySize] = t
		}
		estimates[e.ID] = estimateMinutes(ahead, t)
		if !e.IsHeld {
			ahead++
		}
	}

	if err := s.store.UpdateWaitEstimates(ctx, estimates); err != nil {
		return 0, storeErr("update wait estimates", err)
	}

	for _, e := range waiting {
		if e.EstimatedWaitMinutes == estimates[e.ID] {
			continue
		}
		e.EstimatedWaitMinutes = estimates[e.ID]
		evt := Event{
			EventType:            EventWaitTimesUpdated,
			OutletID:             outletID,
			EntryID:              e.ID,
			Code:                 e.Code,
			Status:               e.Status,
			QueuePosition:        e.QueuePosition,
			EstimatedWaitMinutes: e.EstimatedWaitMinutes,
			OccurredAt:           s.now(),
		}
		if err := s.broadcaster.Broadcast(ctx, EntryTopic(e.Code), evt); err != nil {
			s.log.Warn("не удалось отправить событие", "code", e.Code, "err", err)
		}
	}
	if err := s.broadcaster.Broadcast(ctx, OutletTopic(outletID), Event{
		EventType:  EventWaitTimesUpdated,
		OutletID:   outletID,
		Data:       map[string]any{"active": len(active), "called": called},
		OccurredAt: s.now(),
	}); err != nil {
		s.log.Warn("не удалось отправить событие", "outlet_id", outletID, "err", err)
	}
	return len(estimates), nil
}

// RefreshAllWaitTimes пересчитывает ожидание во всех точках с активной очередью.
func (s *Service) RefreshAllWaitTimes(ctx context.Context) error {
	ids, err := s.store.ActiveOutletIDs(ctx)
	if err != nil {
		return storeErr("active outlets", err)
	}
	var errs []error
	for _, id := range ids {
		if _, err := s.UpdateWaitTimes(ctx, id); err != nil {
			s.log.Warn("пересчёт ожидания не удался", "outlet_id", id, "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
