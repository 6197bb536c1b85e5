package queue

import (
	"context"
	"time"

	"walkin_queue/internal/models"
	"walkin_queue/internal/storage"

	"github.com/google/uuid"
)

// Store: хранилище записей очереди. Реализации: storage.Store и memstore.Store.
type Store interface {
	InsertEntry(ctx context.Context, e *models.QueueEntry) error
	UpdateEntry(ctx context.Context, e *models.QueueEntry) error
	UpdateHold(ctx context.Context, e *models.QueueEntry, prev storage.HoldState, change *models.QueueStatusChange) error
	TransitionEntry(ctx context.Context, e *models.QueueEntry, from models.QueueStatus, change *models.QueueStatusChange) error
	UpdateWaitEstimates(ctx context.Context, estimates map[uuid.UUID]int) error
	InsertAssignment(ctx context.Context, a *models.QueueTableAssignment) error
	ReleaseAssignment(ctx context.Context, id uuid.UUID, at time.Time) error

	GetEntry(ctx context.Context, id uuid.UUID, mode storage.ReadMode) (*models.QueueEntry, error)
	GetEntryByCode(ctx context.Context, code string) (*models.QueueEntry, error)
	ListEntries(ctx context.Context, f storage.EntryFilter) ([]models.QueueEntry, int64, error)
	ActiveAssignment(ctx context.Context, entryID uuid.UUID) (*models.QueueTableAssignment, error)
	StatusHistory(ctx context.Context, entryID uuid.UUID) ([]models.QueueStatusChange, error)
	AverageSeatingMinutes(ctx context.Context, outletID uuid.UUID, minParty, maxParty int, since time.Time) (float64, int64, error)
	ActiveOutletIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Directory: справочник точек и столов.
type Directory interface {
	GetOutlet(ctx context.Context, id uuid.UUID) (*models.Outlet, error)
	GetTable(ctx context.Context, id uuid.UUID) (*models.Table, error)
	CountActiveTables(ctx context.Context, outletID uuid.UUID) (int, error)
}

// Notifier отправляет уведомления гостю. Ошибки только логируются.
type Notifier interface {
	SendConfirmation(ctx context.Context, e *models.QueueEntry) error
	SendTableReady(ctx context.Context, e *models.QueueEntry, tableNumber string) error
	SendUpdate(ctx context.Context, e *models.QueueEntry, message string) error
	SendCancellation(ctx context.Context, e *models.QueueEntry, reason string) error
}

// Broadcaster публикует событие в топик реального времени.
type Broadcaster interface {
	Broadcast(ctx context.Context, topic string, payload any) error
}

type nopNotifier struct{}

func (nopNotifier) SendConfirmation(context.Context, *models.QueueEntry) error { return nil }
func (nopNotifier) SendTableReady(context.Context, *models.QueueEntry, string) error {
	return nil
}
func (nopNotifier) SendUpdate(context.Context, *models.QueueEntry, string) error { return nil }
func (nopNotifier) SendCancellation(context.Context, *models.QueueEntry, string) error {
	return nil
}

type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(context.Context, string, any) error { return nil }
