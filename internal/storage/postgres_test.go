package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"walkin_queue/internal/config"
	"walkin_queue/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB подключается к базе из TEST_DB_*; без TEST_DB_HOST тест пропускается.
func openTestDB(t *testing.T) *Store {
	t.Helper()
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST не задан")
	}
	cfg := config.Database{
		Host:     host,
		Port:     envOr("TEST_DB_PORT", "5432"),
		User:     envOr("TEST_DB_USER", "postgres"),
		Password: os.Getenv("TEST_DB_PASSWORD"),
		Name:     envOr("TEST_DB_NAME", "walkin_test"),
	}
	s, err := Connect(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, Migrate(context.Background(), s.Primary()))
	return s
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newEntry(outletID uuid.UUID, n int) *models.QueueEntry {
	now := time.Now()
	return &models.QueueEntry{
		ID:            uuid.New(),
		Code:          fmt.Sprintf("T%05d", n) + uuid.NewString()[:4],
		OutletID:      outletID,
		CustomerName:  "Гость",
		CustomerPhone: fmt.Sprintf("+62812%07d", n),
		PartySize:     2,
		Status:        models.StatusWaiting,
		QueuedAt:      now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestPostgresConcurrentInsertPositions(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()
	outletID := uuid.New()

	const n = 20
	var wg sync.WaitGroup
	positions := make([]int, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e := newEntry(outletID, i)
			errs[i] = s.InsertEntry(ctx, e)
			positions[i] = e.QueuePosition
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}
	sort.Ints(positions)
	for i, p := range positions {
		assert.Equal(t, i+1, p)
	}
}

func TestPostgresAssignmentConflict(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()
	outletID, tableID := uuid.New(), uuid.New()

	first, second := newEntry(outletID, 1), newEntry(outletID, 2)
	require.NoError(t, s.InsertEntry(ctx, first))
	require.NoError(t, s.InsertEntry(ctx, second))

	assign := func(e *models.QueueEntry) error {
		return s.InsertAssignment(ctx, &models.QueueTableAssignment{
			ID: uuid.New(), QueueEntryID: e.ID, TableID: tableID, TableNumber: "T1", TableCapacity: 2,
			Status: models.AssignmentAssigned, AssignedAt: time.Now(),
		})
	}
	require.NoError(t, assign(first))
	assert.ErrorIs(t, assign(second), ErrTableConflict)
}

func TestPostgresTransitionIsCompareAndSet(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()
	e := newEntry(uuid.New(), 1)
	require.NoError(t, s.InsertEntry(ctx, e))

	now := time.Now()
	e.Status, e.CalledAt = models.StatusCalled, &now
	change := &models.QueueStatusChange{ID: uuid.New(), QueueEntryID: e.ID, OldStatus: models.StatusWaiting, NewStatus: models.StatusCalled, ChangedAt: now}
	require.NoError(t, s.TransitionEntry(ctx, e, models.StatusWaiting, change))

	change.ID = uuid.New()
	assert.ErrorIs(t, s.TransitionEntry(ctx, e, models.StatusWaiting, change), ErrStaleStatus)

	history, err := s.StatusHistory(ctx, e.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestPostgresConcurrentInsertSamePhone(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()
	outletID := uuid.New()

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e := newEntry(outletID, i)
			e.CustomerPhone = "+628111222333"
			errs[i] = s.InsertEntry(ctx, e)
		}(i)
	}
	wg.Wait()

	inserted := 0
	for _, err := range errs {
		if err == nil {
			inserted++
			continue
		}
		assert.ErrorIs(t, err, ErrActivePhone)
	}
	assert.Equal(t, 1, inserted)
}

func TestPostgresWritesDoNotOverlap(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()
	e := newEntry(uuid.New(), 1)
	require.NoError(t, s.InsertEntry(ctx, e))

	guest, hold := *e, *e
	guest.PartySize = 4
	now := time.Now()
	hold.IsHeld, hold.HeldSince = true, &now
	change := &models.QueueStatusChange{ID: uuid.New(), QueueEntryID: e.ID, OldStatus: models.StatusWaiting, NewStatus: models.StatusWaiting, Reason: "held", ChangedAt: now}

	require.NoError(t, s.UpdateHold(ctx, &hold, HoldStateOf(e), change))
	require.NoError(t, s.UpdateEntry(ctx, &guest))

	stale := *e
	stale.IsHeld, stale.HeldSince = true, &now
	change.ID = uuid.New()
	assert.ErrorIs(t, s.UpdateHold(ctx, &stale, HoldStateOf(e), change), ErrStaleStatus)

	got, err := s.GetEntry(ctx, e.ID, ReadPrimary)
	require.NoError(t, err)
	assert.Equal(t, 4, got.PartySize)
	assert.True(t, got.IsHeld)

	other := newEntry(e.OutletID, 2)
	require.NoError(t, s.InsertEntry(ctx, other))
	other.CustomerPhone = e.CustomerPhone
	assert.ErrorIs(t, s.UpdateEntry(ctx, other), ErrActivePhone)
}

func TestPostgresAverageSkipsMaintenanceClosures(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()
	outletID := uuid.New()

	complete := func(n int, seating time.Duration, system bool) {
		e := newEntry(outletID, n)
		require.NoError(t, s.InsertEntry(ctx, e))
		seated := time.Now().Add(-seating)
		done := time.Now()
		e.Status, e.SeatedAt, e.CompletedAt, e.ClosedBySystem = models.StatusCompleted, &seated, &done, system
		change := &models.QueueStatusChange{ID: uuid.New(), QueueEntryID: e.ID, OldStatus: models.StatusWaiting, NewStatus: models.StatusCompleted, ChangedAt: done}
		require.NoError(t, s.TransitionEntry(ctx, e, models.StatusWaiting, change))
	}
	complete(1, 30*time.Minute, false)
	complete(2, 13*time.Hour, true)

	avg, count, err := s.AverageSeatingMinutes(ctx, outletID, 1, 4, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	assert.InDelta(t, 30, avg, 0.5)
}
