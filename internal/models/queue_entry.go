package models

import (
	"time"

	"github.com/google/uuid"
)

type QueueEntry struct {
	ID                   uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Code                 string      `gorm:"size:16;uniqueIndex;not null" json:"code"` // Код, который видит гость
	OutletID             uuid.UUID   `gorm:"type:uuid;index:idx_queue_entries_outlet_status;not null" json:"outlet_id"`
	CustomerName         string      `gorm:"size:100;not null" json:"customer_name"`
	CustomerPhone        string      `gorm:"size:20;index;not null" json:"customer_phone"`
	PartySize            int         `gorm:"not null" json:"party_size"`
	SpecialRequests      string      `gorm:"size:500" json:"special_requests,omitempty"`
	Status               QueueStatus `gorm:"type:varchar(20);index:idx_queue_entries_outlet_status;not null" json:"status"`
	QueuePosition        int         `gorm:"not null" json:"queue_position"` // Не пересчитывается после выхода соседей
	IsHeld               bool        `gorm:"default:false" json:"is_held"`
	HeldSince            *time.Time  `json:"held_since,omitempty"`
	PrioritizedAt        *time.Time  `json:"prioritized_at,omitempty"`
	PrioritizedBy        *string     `gorm:"size:64" json:"prioritized_by,omitempty"`
	QueuedAt             time.Time   `gorm:"index;not null" json:"queued_at"`
	CalledAt             *time.Time  `json:"called_at,omitempty"`
	SeatedAt             *time.Time  `json:"seated_at,omitempty"`
	CompletedAt          *time.Time  `json:"completed_at,omitempty"`
	EstimatedWaitMinutes int         `gorm:"default:0" json:"estimated_wait_minutes"`
	ClosedBySystem       bool        `gorm:"default:false" json:"closed_by_system"` // Закрыта очисткой, а не персоналом
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

// IsPrioritized: запись поднята персоналом вперёд остальных.
func (e *QueueEntry) IsPrioritized() bool {
	return e.PrioritizedAt != nil
}

// QueueStatusChange: строка журнала, только добавляется.
type QueueStatusChange struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	QueueEntryID uuid.UUID   `gorm:"type:uuid;index;not null" json:"queue_entry_id"`
	OldStatus    QueueStatus `gorm:"type:varchar(20);not null" json:"old_status"`
	NewStatus    QueueStatus `gorm:"type:varchar(20);not null" json:"new_status"`
	ActorID      *string     `gorm:"size:64" json:"actor_id,omitempty"` // nil: системное действие
	Reason       string      `gorm:"size:255" json:"reason,omitempty"`
	ChangedAt    time.Time   `gorm:"not null" json:"changed_at"`
}
