// Package memstore хранит очередь в памяти процесса: для тестов и STORE=memory.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"walkin_queue/internal/models"
	"walkin_queue/internal/storage"

	"github.com/google/uuid"
)

type Store struct {
	mu            sync.Mutex
	entries       map[uuid.UUID]models.QueueEntry
	changes       []models.QueueStatusChange
	assignments   []models.QueueTableAssignment
	notifications map[uuid.UUID]models.QueueNotification
	outlets       map[uuid.UUID]models.Outlet
	tables        map[uuid.UUID]models.Table

	failNext error
}

func New() *Store {
	return &Store{
		entries:       make(map[uuid.UUID]models.QueueEntry),
		notifications: make(map[uuid.UUID]models.QueueNotification),
		outlets:       make(map[uuid.UUID]models.Outlet),
		tables:        make(map[uuid.UUID]models.Table),
	}
}

// FailNextWrite заставляет следующую операцию записи вернуть err.
func (s *Store) FailNextWrite(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

func (s *Store) failed() error {
	err := s.failNext
	s.failNext = nil
	return err
}

func (s *Store) InsertEntry(_ context.Context, e *models.QueueEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failed(); err != nil {
		return err
	}
	maxPos := 0
	for _, other := range s.entries {
		if other.Code == e.Code {
			return storage.ErrDuplicate
		}
		if samePhone(other, e) {
			return storage.ErrActivePhone
		}
		if other.OutletID == e.OutletID && other.Status.IsActive() && other.QueuePosition > maxPos {
			maxPos = other.QueuePosition
		}
	}
	e.QueuePosition = maxPos + 1
	s.entries[e.ID] = *e
	return nil
}

// samePhone: other активна в той же точке с тем же телефоном, что и e.
func samePhone(other models.QueueEntry, e *models.QueueEntry) bool {
	return other.ID != e.ID && other.OutletID == e.OutletID &&
		other.CustomerPhone == e.CustomerPhone && other.Status.IsActive()
}

func (s *Store) UpdateEntry(_ context.Context, e *models.QueueEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failed(); err != nil {
		return err
	}
	cur, ok := s.entries[e.ID]
	if !ok || cur.Status != e.Status {
		return storage.ErrStaleStatus
	}
	if cur.Status.IsActive() && e.CustomerPhone != cur.CustomerPhone {
		for _, other := range s.entries {
			if samePhone(other, e) {
				return storage.ErrActivePhone
			}
		}
	}
	cur.CustomerName = e.CustomerName
	cur.CustomerPhone = e.CustomerPhone
	cur.PartySize = e.PartySize
	cur.SpecialRequests = e.SpecialRequests
	cur.UpdatedAt = e.UpdatedAt
	s.entries[e.ID] = cur
	return nil
}

func (s *Store) UpdateHold(_ context.Context, e *models.QueueEntry, prev storage.HoldState, change *models.QueueStatusChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failed(); err != nil {
		return err
	}
	cur, ok := s.entries[e.ID]
	if !ok || cur.Status != models.StatusWaiting || !sameHold(storage.HoldStateOf(&cur), prev) {
		return storage.ErrStaleStatus
	}
	cur.IsHeld = e.IsHeld
	cur.HeldSince = e.HeldSince
	cur.PrioritizedAt = e.PrioritizedAt
	cur.PrioritizedBy = e.PrioritizedBy
	cur.UpdatedAt = e.UpdatedAt
	s.entries[e.ID] = cur
	s.changes = append(s.changes, *change)
	return nil
}

func (s *Store) TransitionEntry(_ context.Context, e *models.QueueEntry, from models.QueueStatus, change *models.QueueStatusChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failed(); err != nil {
		return err
	}
	cur, ok := s.entries[e.ID]
	if !ok || cur.Status != from {
		return storage.ErrStaleStatus
	}
	s.entries[e.ID] = *e
	s.changes = append(s.changes, *change)

	next, ok := models.AssignmentStatusFor(e.Status)
	if !ok {
		return nil
	}
	for i := range s.assignments {
		a := &s.assignments[i]
		if a.QueueEntryID != e.ID || !a.Status.IsActive() {
			continue
		}
		if next == models.AssignmentSeated {
			if a.Status != models.AssignmentAssigned {
				continue
			}
			a.SeatedAt = e.SeatedAt
		} else {
			a.CompletedAt = e.CompletedAt
		}
		a.Status = next
	}
	return nil
}

func sameHold(a, b storage.HoldState) bool {
	if a.IsHeld != b.IsHeld || (a.PrioritizedAt == nil) != (b.PrioritizedAt == nil) {
		return false
	}
	return a.PrioritizedAt == nil || a.PrioritizedAt.Equal(*b.PrioritizedAt)
}

func (s *Store) UpdateWaitEstimates(_ context.Context, estimates map[uuid.UUID]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failed(); err != nil {
		return err
	}
	for id, minutes := range estimates {
		e, ok := s.entries[id]
		if !ok || !e.Status.IsActive() {
			continue
		}
		e.EstimatedWaitMinutes = minutes
		s.entries[id] = e
	}
	return nil
}

func (s *Store) GetEntry(_ context.Context, id uuid.UUID, _ storage.ReadMode) (*models.QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &e, nil
}

func (s *Store) GetEntryByCode(_ context.Context, code string) (*models.QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code = strings.ToUpper(code)
	for _, e := range s.entries {
		if e.Code == code {
			return &e, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) ListEntries(_ context.Context, f storage.EntryFilter) ([]models.QueueEntry, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.QueueEntry
	for _, e := range s.entries {
		if matches(e, f) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].QueuePosition != out[j].QueuePosition {
			return out[i].QueuePosition < out[j].QueuePosition
		}
		return out[i].QueuedAt.Before(out[j].QueuedAt)
	})
	total := int64(len(out))
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			out = nil
		} else {
			out = out[f.Offset:]
		}
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func matches(e models.QueueEntry, f storage.EntryFilter) bool {
	if f.OutletID != uuid.Nil && e.OutletID != f.OutletID {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, st := range f.Statuses {
			if e.Status == st {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Phone != "" && e.CustomerPhone != f.Phone {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(e.CustomerName), q) &&
			!strings.Contains(e.CustomerPhone, q) &&
			!strings.Contains(strings.ToLower(e.Code), q) {
			return false
		}
	}
	if f.HeldOnly && !e.IsHeld {
		return false
	}
	if !f.QueuedBefore.IsZero() && !e.QueuedAt.Before(f.QueuedBefore) {
		return false
	}
	return true
}

func (s *Store) StatusHistory(_ context.Context, entryID uuid.UUID) ([]models.QueueStatusChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.QueueStatusChange
	for _, c := range s.changes {
		if c.QueueEntryID == entryID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) AverageSeatingMinutes(_ context.Context, outletID uuid.UUID, minParty, maxParty int, since time.Time) (float64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		sum   float64
		count int64
	)
	for _, e := range s.entries {
		if e.OutletID != outletID || e.Status != models.StatusCompleted || e.ClosedBySystem {
			continue
		}
		if e.SeatedAt == nil || e.CompletedAt == nil {
			continue
		}
		if e.PartySize < minParty || e.PartySize > maxParty || e.CompletedAt.Before(since) {
			continue
		}
		sum += e.CompletedAt.Sub(*e.SeatedAt).Minutes()
		count++
	}
	if count == 0 {
		return 0, 0, nil
	}
	return sum / float64(count), count, nil
}

func (s *Store) ActiveOutletIDs(_ context.Context) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[uuid.UUID]bool)
	var out []uuid.UUID
	for _, e := range s.entries {
		if e.Status.IsActive() && !seen[e.OutletID] {
			seen[e.OutletID] = true
			out = append(out, e.OutletID)
		}
	}
	return out, nil
}

func (s *Store) InsertAssignment(_ context.Context, a *models.QueueTableAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failed(); err != nil {
		return err
	}
	for _, other := range s.assignments {
		if !other.Status.IsActive() {
			continue
		}
		if other.TableID == a.TableID {
			return storage.ErrTableConflict
		}
		if other.QueueEntryID == a.QueueEntryID {
			return storage.ErrEntryAssigned
		}
	}
	s.assignments = append(s.assignments, *a)
	return nil
}

func (s *Store) ActiveAssignment(_ context.Context, entryID uuid.UUID) (*models.QueueTableAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.assignments {
		if a.QueueEntryID == entryID && a.Status.IsActive() {
			return &a, nil
		}
	}
	return nil, storage.ErrNotFound
}

// Assignments: все привязки к столу, для проверок в тестах.
func (s *Store) Assignments(tableID uuid.UUID) []models.QueueTableAssignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.QueueTableAssignment
	for _, a := range s.assignments {
		if a.TableID == tableID {
			out = append(out, a)
		}
	}
	return out
}

// Put сохраняет запись как есть, минуя присвоение позиции. Для подготовки данных.
func (s *Store) Put(e models.QueueEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.ID] = e
}

func (s *Store) ReleaseAssignment(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.assignments {
		a := &s.assignments[i]
		if a.ID == id && a.Status.IsActive() {
			a.Status = models.AssignmentCancelled
			a.CompletedAt = &at
		}
	}
	return nil
}
