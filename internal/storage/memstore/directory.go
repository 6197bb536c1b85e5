package memstore

import (
	"context"
	"time"

	"walkin_queue/internal/models"
	"walkin_queue/internal/storage"

	"github.com/google/uuid"
)

func (s *Store) AddOutlet(o models.Outlet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outlets[o.ID] = o
}

func (s *Store) AddTable(t models.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[t.ID] = t
}

func (s *Store) GetOutlet(_ context.Context, id uuid.UUID) (*models.Outlet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.outlets[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &o, nil
}

func (s *Store) GetTable(_ context.Context, id uuid.UUID) (*models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &t, nil
}

func (s *Store) CountActiveTables(_ context.Context, outletID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tables {
		if t.OutletID == outletID && t.IsActive {
			n++
		}
	}
	return n, nil
}

func (s *Store) InsertNotification(_ context.Context, n *models.QueueNotification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[n.ID] = *n
	return nil
}

func (s *Store) GetNotification(_ context.Context, id uuid.UUID) (*models.QueueNotification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &n, nil
}

func (s *Store) MarkNotification(_ context.Context, id uuid.UUID, status models.NotificationStatus, lastErr string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return storage.ErrNotFound
	}
	n.Status = status
	n.LastError = lastErr
	n.Attempts++
	if status == models.NotificationSent {
		n.SentAt = &at
	}
	s.notifications[id] = n
	return nil
}

func (s *Store) ListNotifications(_ context.Context, entryID uuid.UUID) ([]models.QueueNotification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.QueueNotification
	for _, n := range s.notifications {
		if n.QueueEntryID == entryID {
			out = append(out, n)
		}
	}
	return out, nil
}
