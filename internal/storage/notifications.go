package storage

import (
	"context"
	"time"

	"walkin_queue/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *Store) InsertNotification(ctx context.Context, n *models.QueueNotification) error {
	return s.do(ctx, "insert notification", func(ctx context.Context) error {
		return s.primary.WithContext(ctx).Create(n).Error
	})
}

func (s *Store) GetNotification(ctx context.Context, id uuid.UUID) (*models.QueueNotification, error) {
	var n models.QueueNotification
	err := s.do(ctx, "get notification", func(ctx context.Context) error {
		return s.primary.WithContext(ctx).First(&n, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// MarkNotification фиксирует результат попытки доставки.
func (s *Store) MarkNotification(ctx context.Context, id uuid.UUID, status models.NotificationStatus, lastErr string, at time.Time) error {
	updates := map[string]any{
		"status":     status,
		"last_error": lastErr,
		"attempts":   gorm.Expr("attempts + 1"),
	}
	if status == models.NotificationSent {
		updates["sent_at"] = at
	}
	return s.do(ctx, "mark notification", func(ctx context.Context) error {
		res := s.primary.WithContext(ctx).Model(&models.QueueNotification{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *Store) ListNotifications(ctx context.Context, entryID uuid.UUID) ([]models.QueueNotification, error) {
	var list []models.QueueNotification
	err := s.do(ctx, "list notifications", func(ctx context.Context) error {
		return s.replica.WithContext(ctx).Where("queue_entry_id = ?", entryID).Order("created_at ASC").Find(&list).Error
	})
	return list, err
}
