package queue

import (
	"time"

	"walkin_queue/internal/models"

	"github.com/google/uuid"
)

const (
	EventEntryCreated     = "entry_created"
	EventEntryUpdated     = "entry_updated"
	EventStatusChanged    = "status_changed"
	EventEntryHeld        = "entry_held"
	EventEntryReleased    = "entry_released"
	EventEntryPrioritized = "entry_prioritized"
	EventTableAssigned    = "table_assigned"
	EventWaitTimesUpdated = "wait_times_updated"
)

// Event: сообщение, которое получают подписчики топиков точки и записи.
type Event struct {
	EventType            string             `json:"event_type"`
	OutletID             uuid.UUID          `json:"outlet_id"`
	EntryID              uuid.UUID          `json:"entry_id,omitempty"`
	Code                 string             `json:"code,omitempty"`
	Status               models.QueueStatus `json:"status,omitempty"`
	QueuePosition        int                `json:"queue_position,omitempty"`
	EstimatedWaitMinutes int                `json:"estimated_wait_minutes"`
	Data                 map[string]any     `json:"data,omitempty"`
	OccurredAt           time.Time          `json:"occurred_at"`
}

func OutletTopic(outletID uuid.UUID) string { return "outlet:" + outletID.String() }

func EntryTopic(code string) string { return "entry:" + code }
