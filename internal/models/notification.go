package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotificationConfirmation NotificationType = "confirmation"
	NotificationTableReady   NotificationType = "table_ready"
	NotificationUpdate       NotificationType = "update"
	NotificationCancellation NotificationType = "cancellation"
)

type NotificationChannel string

const (
	ChannelSMS      NotificationChannel = "sms"
	ChannelWhatsApp NotificationChannel = "whatsapp"
)

type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

type QueueNotification struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	QueueEntryID uuid.UUID           `gorm:"type:uuid;index;not null" json:"queue_entry_id"`
	Type         NotificationType    `gorm:"type:varchar(20);not null" json:"type"`
	Channel      NotificationChannel `gorm:"type:varchar(20);not null" json:"channel"`
	Recipient    string              `gorm:"size:20;not null" json:"recipient"`
	Content      string              `gorm:"type:text" json:"content"`
	Status       NotificationStatus  `gorm:"type:varchar(20);index;not null" json:"status"`
	Attempts     int                 `gorm:"default:0" json:"attempts"`
	LastError    string              `gorm:"type:text" json:"last_error,omitempty"`
	Metadata     datatypes.JSON      `json:"metadata,omitempty"` // Код записи, номер стола и т.п.
	CreatedAt    time.Time           `json:"created_at"`
	SentAt       *time.Time          `json:"sent_at,omitempty"`
}
