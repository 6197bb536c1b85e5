package storage

import (
	"context"
	"time"

	"walkin_queue/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InsertAssignment проверяет отсутствие активной привязки у стола и у записи
// и вставляет новую в одной транзакции под блокировкой стола.
func (s *Store) InsertAssignment(ctx context.Context, a *models.QueueTableAssignment) error {
	return s.tx(ctx, "insert assignment", func(tx *gorm.DB) error {
		if err := lock(tx, "table:"+a.TableID.String()); err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&models.QueueTableAssignment{}).
			Where("table_id = ? AND status IN ?", a.TableID, models.ActiveAssignmentStatuses()).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrTableConflict
		}
		if err := tx.Model(&models.QueueTableAssignment{}).
			Where("queue_entry_id = ? AND status IN ?", a.QueueEntryID, models.ActiveAssignmentStatuses()).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrEntryAssigned
		}
		return tx.Create(a).Error
	})
}

// ActiveAssignment: текущая привязка записи к столу, если есть.
func (s *Store) ActiveAssignment(ctx context.Context, entryID uuid.UUID) (*models.QueueTableAssignment, error) {
	var a models.QueueTableAssignment
	err := s.do(ctx, "active assignment", func(ctx context.Context) error {
		return s.primary.WithContext(ctx).
			Where("queue_entry_id = ? AND status IN ?", entryID, models.ActiveAssignmentStatuses()).
			First(&a).Error
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ReleaseAssignment отменяет активную привязку, освобождая стол.
func (s *Store) ReleaseAssignment(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.do(ctx, "release assignment", func(ctx context.Context) error {
		return s.primary.WithContext(ctx).Model(&models.QueueTableAssignment{}).
			Where("id = ? AND status IN ?", id, models.ActiveAssignmentStatuses()).
			Updates(map[string]any{"status": models.AssignmentCancelled, "completed_at": at}).Error
	})
}
