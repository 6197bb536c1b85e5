package models

import (
	"time"

	"github.com/google/uuid"
)

// QueueTableAssignment связывает запись очереди со столом.
// Активной (assigned/seated) может быть только одна привязка на стол и на запись.
type QueueTableAssignment struct {
	ID                       uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	QueueEntryID             uuid.UUID        `gorm:"type:uuid;index;not null" json:"queue_entry_id"`
	TableID                  uuid.UUID        `gorm:"type:uuid;index;not null" json:"table_id"`
	TableNumber              string           `gorm:"size:20" json:"table_number"`
	TableCapacity            int              `json:"table_capacity"`
	Status                   AssignmentStatus `gorm:"type:varchar(20);index;not null" json:"status"`
	AssignedBy               string           `gorm:"size:64" json:"assigned_by"`
	CombineWithExistingTable bool             `json:"combine_with_existing_table"`
	StaffConfirmedOverflow   bool             `json:"staff_confirmed_overflow"`
	AssignedAt               time.Time        `gorm:"not null" json:"assigned_at"`
	SeatedAt                 *time.Time       `json:"seated_at,omitempty"`
	CompletedAt              *time.Time       `json:"completed_at,omitempty"`
}
