package queue

import (
	"context"

	"walkin_queue/internal/metrics"
	"walkin_queue/internal/models"
	"walkin_queue/internal/storage"
)

const maintenanceReason = "closed by maintenance"

type CleanupResult struct {
	Closed int `json:"closed"`
	Failed int `json:"failed"`
}

// staleTarget: куда закрывается зависшая запись.
func staleTarget(st models.QueueStatus) models.QueueStatus {
	switch st {
	case models.StatusCalled:
		return models.StatusNoShow
	case models.StatusSeated:
		return models.StatusCompleted
	}
	return models.StatusCancelled
}

// CleanupActiveEntries закрывает записи, которые висят дольше StaleAfter.
// Ошибка по одной записи не останавливает проход.
func (s *Service) CleanupActiveEntries(ctx context.Context) (CleanupResult, error) {
	var res CleanupResult
	cutoff := s.now().Add(-s.cfg.StaleAfter)
	entries, _, err := s.store.ListEntries(ctx, storage.EntryFilter{
		Statuses:     models.OpenStatuses(),
		QueuedBefore: cutoff,
		Mode:         storage.ReadPrimary,
	})
	if err != nil {
		return res, storeErr("list stale entries", err)
	}

	for i := range entries {
		e := &entries[i]
		if err := s.applyTransition(ctx, e, staleTarget(e.Status), maintenanceReason, nil, transitionOpts{system: true}); err != nil {
			res.Failed++
			s.log.Warn("не удалось закрыть зависшую запись", "entry_id", e.ID, "status", e.Status, "err", err)
			continue
		}
		res.Closed++
	}
	metrics.MaintenanceClosed.Add(float64(res.Closed))
	s.log.Info("очистка очереди завершена", "closed", res.Closed, "failed", res.Failed, "cutoff", cutoff)
	return res, nil
}
