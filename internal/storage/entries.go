package storage

import (
	"context"
	"strings"
	"time"

	"walkin_queue/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EntryFilter: условия выборки записей очереди.
type EntryFilter struct {
	OutletID     uuid.UUID
	Statuses     []models.QueueStatus
	Phone        string
	Search       string // Имя, телефон или код, без учёта регистра
	HeldOnly     bool
	QueuedBefore time.Time
	Limit        int
	Offset       int
	Mode         ReadMode
}

// InsertEntry присваивает позицию max(активные)+1 и сохраняет запись.
// Вставки в одну точку сериализуются advisory-блокировкой по outlet_id,
// под ней же проверяется, что у телефона нет другой активной записи.
func (s *Store) InsertEntry(ctx context.Context, e *models.QueueEntry) error {
	return s.tx(ctx, "insert entry", func(tx *gorm.DB) error {
		if err := lock(tx, "outlet:"+e.OutletID.String()); err != nil {
			return err
		}
		var same int64
		if err := tx.Model(&models.QueueEntry{}).
			Where("outlet_id = ? AND customer_phone = ? AND status IN ?", e.OutletID, e.CustomerPhone, models.ActiveStatuses()).
			Count(&same).Error; err != nil {
			return err
		}
		if same > 0 {
			return ErrActivePhone
		}
		var maxPos int
		if err := tx.Model(&models.QueueEntry{}).
			Where("outlet_id = ? AND status IN ?", e.OutletID, models.ActiveStatuses()).
			Select("COALESCE(MAX(queue_position),0)").
			Row().Scan(&maxPos); err != nil {
			return err
		}
		e.QueuePosition = maxPos + 1
		return tx.Create(e).Error
	})
}

// UpdateEntry сохраняет данные гостя, если статус записи не изменился с момента чтения.
// Флаги удержания и приоритета не трогает: их пишет UpdateHold.
func (s *Store) UpdateEntry(ctx context.Context, e *models.QueueEntry) error {
	return s.tx(ctx, "update entry", func(tx *gorm.DB) error {
		res := tx.Model(&models.QueueEntry{}).
			Where("id = ? AND status = ?", e.ID, e.Status).
			Updates(map[string]any{
				"customer_name":    e.CustomerName,
				"customer_phone":   e.CustomerPhone,
				"party_size":       e.PartySize,
				"special_requests": e.SpecialRequests,
				"updated_at":       e.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}
		return nil
	})
}

// HoldState: удержание и приоритет записи в момент чтения.
type HoldState struct {
	IsHeld        bool
	PrioritizedAt *time.Time
}

func HoldStateOf(e *models.QueueEntry) HoldState {
	return HoldState{IsHeld: e.IsHeld, PrioritizedAt: e.PrioritizedAt}
}

// UpdateHold сохраняет удержание и приоритет ожидающей записи и пишет журнал,
// если они не изменились с момента чтения (prev). Данные гостя не трогает.
func (s *Store) UpdateHold(ctx context.Context, e *models.QueueEntry, prev HoldState, change *models.QueueStatusChange) error {
	return s.tx(ctx, "update hold", func(tx *gorm.DB) error {
		res := tx.Model(&models.QueueEntry{}).
			Where("id = ? AND status = ? AND is_held = ?", e.ID, models.StatusWaiting, prev.IsHeld).
			Where("prioritized_at IS NOT DISTINCT FROM ?::timestamptz", prev.PrioritizedAt).
			Updates(map[string]any{
				"is_held":        e.IsHeld,
				"held_since":     e.HeldSince,
				"prioritized_at": e.PrioritizedAt,
				"prioritized_by": e.PrioritizedBy,
				"updated_at":     e.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}
		return tx.Create(change).Error
	})
}

// TransitionEntry меняет статус по принципу compare-and-set (from → e.Status),
// пишет журнал и переводит активную привязку к столу.
func (s *Store) TransitionEntry(ctx context.Context, e *models.QueueEntry, from models.QueueStatus, change *models.QueueStatusChange) error {
	return s.tx(ctx, "transition entry", func(tx *gorm.DB) error {
		res := tx.Model(&models.QueueEntry{}).
			Where("id = ? AND status = ?", e.ID, from).
			Updates(map[string]any{
				"status":                 e.Status,
				"is_held":                e.IsHeld,
				"held_since":             e.HeldSince,
				"prioritized_at":         e.PrioritizedAt,
				"prioritized_by":         e.PrioritizedBy,
				"called_at":              e.CalledAt,
				"seated_at":              e.SeatedAt,
				"completed_at":           e.CompletedAt,
				"closed_by_system":       e.ClosedBySystem,
				"estimated_wait_minutes": e.EstimatedWaitMinutes,
				"updated_at":             e.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}
		if err := tx.Create(change).Error; err != nil {
			return err
		}
		return followAssignment(tx, e)
	})
}

func followAssignment(tx *gorm.DB, e *models.QueueEntry) error {
	next, ok := models.AssignmentStatusFor(e.Status)
	if !ok {
		return nil
	}
	updates := map[string]any{"status": next}
	from := models.ActiveAssignmentStatuses()
	switch next {
	case models.AssignmentSeated:
		updates["seated_at"] = e.SeatedAt
		from = []models.AssignmentStatus{models.AssignmentAssigned}
	default:
		updates["completed_at"] = e.CompletedAt
	}
	return tx.Model(&models.QueueTableAssignment{}).
		Where("queue_entry_id = ? AND status IN ?", e.ID, from).
		Updates(updates).Error
}

// UpdateWaitEstimates записывает пересчитанное время ожидания активным записям.
func (s *Store) UpdateWaitEstimates(ctx context.Context, estimates map[uuid.UUID]int) error {
	if len(estimates) == 0 {
		return nil
	}
	return s.tx(ctx, "update wait estimates", func(tx *gorm.DB) error {
		for id, minutes := range estimates {
			if err := tx.Model(&models.QueueEntry{}).
				Where("id = ? AND status IN ?", id, models.ActiveStatuses()).
				Update("estimated_wait_minutes", minutes).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) GetEntry(ctx context.Context, id uuid.UUID, mode ReadMode) (*models.QueueEntry, error) {
	var e models.QueueEntry
	err := s.do(ctx, "get entry", func(ctx context.Context) error {
		return s.reader(mode).WithContext(ctx).First(&e, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) GetEntryByCode(ctx context.Context, code string) (*models.QueueEntry, error) {
	var e models.QueueEntry
	err := s.do(ctx, "get entry by code", func(ctx context.Context) error {
		return s.replica.WithContext(ctx).First(&e, "code = ?", strings.ToUpper(code)).Error
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListEntries возвращает страницу записей по возрастанию позиции и общее количество.
func (s *Store) ListEntries(ctx context.Context, f EntryFilter) ([]models.QueueEntry, int64, error) {
	var (
		entries []models.QueueEntry
		total   int64
	)
	err := s.do(ctx, "list entries", func(ctx context.Context) error {
		db := s.reader(f.Mode).WithContext(ctx)
		if err := applyFilter(db.Model(&models.QueueEntry{}), f).Count(&total).Error; err != nil {
			return err
		}
		q := applyFilter(db, f).Order("queue_position ASC, queued_at ASC")
		if f.Limit > 0 {
			q = q.Limit(f.Limit).Offset(f.Offset)
		}
		return q.Find(&entries).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func applyFilter(q *gorm.DB, f EntryFilter) *gorm.DB {
	if f.OutletID != uuid.Nil {
		q = q.Where("outlet_id = ?", f.OutletID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.Phone != "" {
		q = q.Where("customer_phone = ?", f.Phone)
	}
	if f.Search != "" {
		like := "%" + escapeLike(f.Search) + "%"
		q = q.Where("(customer_name ILIKE ? OR customer_phone ILIKE ? OR code ILIKE ?)", like, like, like)
	}
	if f.HeldOnly {
		q = q.Where("is_held = ?", true)
	}
	if !f.QueuedBefore.IsZero() {
		q = q.Where("queued_at < ?", f.QueuedBefore)
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(strings.TrimSpace(s))
}

func (s *Store) StatusHistory(ctx context.Context, entryID uuid.UUID) ([]models.QueueStatusChange, error) {
	var changes []models.QueueStatusChange
	err := s.do(ctx, "status history", func(ctx context.Context) error {
		return s.replica.WithContext(ctx).
			Where("queue_entry_id = ?", entryID).
			Order("changed_at ASC").
			Find(&changes).Error
	})
	return changes, err
}

// AverageSeatingMinutes: средняя длительность посадки (seated → completed)
// для завершённых записей с размером группы в [minParty, maxParty].
// Записи, закрытые очисткой, не учитываются.
func (s *Store) AverageSeatingMinutes(ctx context.Context, outletID uuid.UUID, minParty, maxParty int, since time.Time) (float64, int64, error) {
	var (
		avg   float64
		count int64
	)
	err := s.do(ctx, "average seating", func(ctx context.Context) error {
		return s.replica.WithContext(ctx).Raw(`
			SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (completed_at - seated_at)) / 60), 0), COUNT(*)
			FROM queue_entries
			WHERE outlet_id = ? AND status = ? AND NOT closed_by_system
			  AND seated_at IS NOT NULL AND completed_at IS NOT NULL
			  AND party_size BETWEEN ? AND ?
			  AND completed_at >= ?`,
			outletID, models.StatusCompleted, minParty, maxParty, since).
			Row().Scan(&avg, &count)
	})
	return avg, count, err
}

// ActiveOutletIDs: точки, где есть активные записи.
func (s *Store) ActiveOutletIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.do(ctx, "active outlets", func(ctx context.Context) error {
		return s.replica.WithContext(ctx).Model(&models.QueueEntry{}).
			Where("status IN ?", models.ActiveStatuses()).
			Distinct().
			Pluck("outlet_id", &ids).Error
	})
	return ids, err
}
