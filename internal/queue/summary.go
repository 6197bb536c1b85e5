package queue

import (
	"context"
	"time"

	"walkin_queue/internal/models"
	"walkin_queue/internal/storage"

	"github.com/google/uuid"
)

type Summary struct {
	OutletID           uuid.UUID `json:"outlet_id"`
	TotalWaiting       int       `json:"total_waiting"`
	TotalCalled        int       `json:"total_called"`
	TotalSeated        int       `json:"total_seated"`
	TotalHeld          int       `json:"total_held"`
	AverageWaitMinutes int       `json:"average_wait_minutes"`
	LongestWaitMinutes int       `json:"longest_wait_minutes"`
	GeneratedAt        time.Time `json:"generated_at"`
}

// GetSummary считает сводку по незакрытым записям. Время ожидания -
// сколько уже ждут гости в статусе waiting.
func (s *Service) GetSummary(ctx context.Context, outletID uuid.UUID) (*Summary, error) {
	entries, _, err := s.store.ListEntries(ctx, storage.EntryFilter{
		OutletID: outletID,
		Statuses: models.OpenStatuses(),
	})
	if err != nil {
		return nil, storeErr("summary", err)
	}

	now := s.now()
	sum := &Summary{OutletID: outletID, GeneratedAt: now}
	var total time.Duration
	for _, e := range entries {
		switch e.Status {
		case models.StatusCalled:
			sum.TotalCalled++
		case models.StatusSeated:
			sum.TotalSeated++
		case models.StatusWaiting:
			sum.TotalWaiting++
			if e.IsHeld {
				sum.TotalHeld++
			}
			waited := now.Sub(e.QueuedAt)
			total += waited
			if m := int(waited.Minutes()); m > sum.LongestWaitMinutes {
				sum.LongestWaitMinutes = m
			}
		}
	}
	if sum.TotalWaiting > 0 {
		sum.AverageWaitMinutes = int((total / time.Duration(sum.TotalWaiting)).Minutes())
	}
	return sum, nil
}
