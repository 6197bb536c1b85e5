package queue

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"walkin_queue/internal/models"
	"walkin_queue/internal/storage"
	"walkin_queue/internal/storage/memstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateQueueEntryOnEmptyQueue(t *testing.T) {
	f := newFixture(t)

	e := f.join(t, "Ana", 2)

	assert.Equal(t, 1, e.QueuePosition)
	assert.Equal(t, models.StatusWaiting, e.Status)
	assert.Len(t, e.Code, codeLength)
	assert.GreaterOrEqual(t, e.EstimatedWaitMinutes, 0)
	assert.False(t, e.IsHeld)
	assert.Equal(t, []string{"confirmation:" + e.Code}, f.notifier.Calls())
	assert.ElementsMatch(t,
		[]string{OutletTopic(f.outlet.ID), EntryTopic(e.Code)},
		f.bus.topics(EventEntryCreated))
}

func TestCreateQueueEntryValidation(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		req  CreateEntryRequest
	}{
		{"empty name", CreateEntryRequest{CustomerName: " ", CustomerPhone: "+628123456789", PartySize: 2}},
		{"bad phone", CreateEntryRequest{CustomerName: "Ana", CustomerPhone: "call me", PartySize: 2}},
		{"short phone", CreateEntryRequest{CustomerName: "Ana", CustomerPhone: "12345", PartySize: 2}},
		{"zero party", CreateEntryRequest{CustomerName: "Ana", CustomerPhone: "+628123456789", PartySize: 0}},
		{"huge party", CreateEntryRequest{CustomerName: "Ana", CustomerPhone: "+628123456789", PartySize: 21}},
		{"long requests", CreateEntryRequest{CustomerName: "Ana", CustomerPhone: "+628123456789", PartySize: 2, SpecialRequests: strings.Repeat("x", 501)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.OutletID = f.outlet.ID
			_, err := f.svc.CreateQueueEntry(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateQueueEntryNormalizesPhone(t *testing.T) {
	f := newFixture(t)
	e, err := f.svc.CreateQueueEntry(context.Background(), CreateEntryRequest{
		OutletID: f.outlet.ID, CustomerName: " Ana ", CustomerPhone: "+62 (812) 345-6789", PartySize: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", e.CustomerName)
	assert.Equal(t, "+628123456789", e.CustomerPhone)
}

func TestCreateQueueEntryOutletChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateQueueEntry(ctx, CreateEntryRequest{
		OutletID: uuid.New(), CustomerName: "Ana", CustomerPhone: "+628123456789", PartySize: 2,
	})
	assert.ErrorIs(t, err, ErrNotFound)

	closed := models.Outlet{ID: uuid.New(), Name: "Closed", QueueEnabled: false}
	f.store.AddOutlet(closed)
	_, err = f.svc.CreateQueueEntry(ctx, CreateEntryRequest{
		OutletID: closed.ID, CustomerName: "Ana", CustomerPhone: "+628123456789", PartySize: 2,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateQueueEntryRejectsDuplicatePhone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := CreateEntryRequest{OutletID: f.outlet.ID, CustomerName: "Ana", CustomerPhone: "+628123456789", PartySize: 2}

	first, err := f.svc.CreateQueueEntry(ctx, req)
	require.NoError(t, err)
	_, err = f.svc.CreateQueueEntry(ctx, req)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.CancelEntry(ctx, first.ID, "", nil)
	require.NoError(t, err)
	_, err = f.svc.CreateQueueEntry(ctx, req)
	assert.NoError(t, err)
}

func TestPositionsAreNotRenumbered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.join(t, "A", 2)
	b := f.join(t, "B", 2)
	c := f.join(t, "C", 2)
	assert.Equal(t, []int{1, 2, 3}, []int{a.QueuePosition, b.QueuePosition, c.QueuePosition})

	_, err := f.svc.CancelEntry(ctx, b.ID, "", nil)
	require.NoError(t, err)

	d := f.join(t, "D", 2)
	assert.Equal(t, 4, d.QueuePosition)
	assert.Equal(t, 3, f.reload(t, c.ID).QueuePosition)

	_, err = f.svc.CancelEntry(ctx, d.ID, "", nil)
	require.NoError(t, err)
	e := f.join(t, "E", 2)
	assert.Equal(t, 4, e.QueuePosition, "next position is max active + 1")
}

func TestConcurrentJoinsGetDistinctPositions(t *testing.T) {
	f := newFixture(t)
	const n = 40

	var wg sync.WaitGroup
	positions := make([]int, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, err := f.svc.CreateQueueEntry(context.Background(), CreateEntryRequest{
				OutletID:      f.outlet.ID,
				CustomerName:  fmt.Sprintf("Guest %d", i),
				CustomerPhone: fmt.Sprintf("+62899%07d", i),
				PartySize:     2,
			})
			errs[i] = err
			if err == nil {
				positions[i] = e.QueuePosition
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[int]bool)
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.False(t, seen[positions[i]], "duplicate position %d", positions[i])
		seen[positions[i]] = true
	}
	for p := 1; p <= n; p++ {
		assert.True(t, seen[p], "missing position %d", p)
	}
}

func TestConcurrentJoinsWithOnePhoneGetOneEntry(t *testing.T) {
	f := newFixture(t)
	const n = 20

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.CreateQueueEntry(context.Background(), CreateEntryRequest{
				OutletID:      f.outlet.ID,
				CustomerName:  fmt.Sprintf("Guest %d", i),
				CustomerPhone: "+628111222333",
				PartySize:     2,
			})
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, ErrValidation)
	}
	assert.Equal(t, 1, created)

	active, err := f.svc.ListQueueEntries(context.Background(), f.outlet.ID, models.ActiveStatuses())
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

// phoneCheckSkipped прячет активные записи от предварительной проверки телефона,
// как будто параллельная постановка ещё не была видна.
type phoneCheckSkipped struct {
	*memstore.Store
}

func (s phoneCheckSkipped) ListEntries(ctx context.Context, f storage.EntryFilter) ([]models.QueueEntry, int64, error) {
	if f.Phone != "" {
		return nil, 0, nil
	}
	return s.Store.ListEntries(ctx, f)
}

func TestActivePhoneIsEnforcedOnWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.serviceOver(t, phoneCheckSkipped{Store: f.store})
	ana := f.join(t, "Ana", 2)
	budi := f.join(t, "Budi", 2)

	_, err := svc.CreateQueueEntry(ctx, CreateEntryRequest{
		OutletID: f.outlet.ID, CustomerName: "Copy", CustomerPhone: ana.CustomerPhone, PartySize: 2,
	})
	assert.ErrorIs(t, err, ErrValidation)

	phone := ana.CustomerPhone
	_, err = svc.UpdateQueueEntry(ctx, budi.ID, UpdateEntryRequest{CustomerPhone: &phone})
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotEqual(t, phone, f.reload(t, budi.ID).CustomerPhone)
}

func TestGetQueueEntryByCodeRoundTrip(t *testing.T) {
	f := newFixture(t)
	e := f.join(t, "Ana", 3)

	got, err := f.svc.GetQueueEntryByCode(context.Background(), strings.ToLower(e.Code))
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, e.QueuePosition, got.QueuePosition)

	_, err = f.svc.GetQueueEntryByCode(context.Background(), "ZZZZZZ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListAndSearchQueueEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		f.join(t, fmt.Sprintf("Guest %d", i), 2)
	}
	budi := f.join(t, "Budi Santoso", 4)
	_, err := f.svc.CancelEntry(ctx, budi.ID, "", nil)
	require.NoError(t, err)

	open, err := f.svc.ListQueueEntries(ctx, f.outlet.ID, nil)
	require.NoError(t, err)
	assert.Len(t, open, 5)
	for i := 1; i < len(open); i++ {
		assert.Less(t, open[i-1].QueuePosition, open[i].QueuePosition)
	}

	page, err := f.svc.SearchQueueEntries(ctx, SearchParams{OutletID: f.outlet.ID, Query: "guest", Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.Items[0].QueuePosition)

	page, err = f.svc.SearchQueueEntries(ctx, SearchParams{
		OutletID: f.outlet.ID, Query: "santoso", Statuses: []models.QueueStatus{models.StatusCancelled},
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, budi.ID, page.Items[0].ID)
	assert.Equal(t, defaultPageSize, page.PageSize)
}

func TestUpdateQueueEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.join(t, "Ana", 2)

	party := 5
	updated, err := f.svc.UpdateQueueEntry(ctx, e.ID, UpdateEntryRequest{PartySize: &party})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.PartySize)
	assert.Equal(t, "Ana", updated.CustomerName)
	assert.Equal(t, e.QueuePosition, updated.QueuePosition)

	_, err = f.svc.UpdateQueueEntry(ctx, e.ID, UpdateEntryRequest{})
	assert.ErrorIs(t, err, ErrValidation)

	bad := 0
	_, err = f.svc.UpdateQueueEntry(ctx, e.ID, UpdateEntryRequest{PartySize: &bad})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.CancelEntry(ctx, e.ID, "", nil)
	require.NoError(t, err)
	name := "Other"
	_, err = f.svc.UpdateQueueEntry(ctx, e.ID, UpdateEntryRequest{CustomerName: &name})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTransientStorageErrorSurfaces(t *testing.T) {
	f := newFixture(t)
	f.store.FailNextWrite(fmt.Errorf("%w: connection reset", storage.ErrTransient))

	_, err := f.svc.CreateQueueEntry(context.Background(), CreateEntryRequest{
		OutletID: f.outlet.ID, CustomerName: "Ana", CustomerPhone: "+628123456789", PartySize: 2,
	})
	assert.ErrorIs(t, err, ErrTransientStorage)
}

func TestGetSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.join(t, "A", 2)
	b := f.join(t, "B", 2)
	f.join(t, "C", 2)
	f.clock.Advance(10 * time.Minute)

	_, err := f.svc.ChangeStatus(ctx, a.ID, models.StatusCalled, "", nil)
	require.NoError(t, err)
	_, err = f.svc.HoldEntry(ctx, b.ID, "staff-1")
	require.NoError(t, err)

	sum, err := f.svc.GetSummary(ctx, f.outlet.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.TotalWaiting)
	assert.Equal(t, 1, sum.TotalCalled)
	assert.Equal(t, 0, sum.TotalSeated)
	assert.Equal(t, 1, sum.TotalHeld)
	assert.Equal(t, 12, sum.LongestWaitMinutes)
	assert.Equal(t, 11, sum.AverageWaitMinutes)
}
