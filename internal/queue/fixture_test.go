package queue

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"walkin_queue/internal/models"
	"walkin_queue/internal/storage/memstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type published struct {
	Topic string
	Event Event
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []published
}

func (b *recordingBroadcaster) Broadcast(_ context.Context, topic string, payload any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, published{Topic: topic, Event: payload.(Event)})
	return nil
}

// on: события типа eventType, отправленные в topic.
func (b *recordingBroadcaster) on(topic, eventType string) []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Event
	for _, p := range b.events {
		if p.Topic == topic && p.Event.EventType == eventType {
			out = append(out, p.Event)
		}
	}
	return out
}

func (b *recordingBroadcaster) count(eventType string) int {
	return len(b.topics(eventType))
}

func (b *recordingBroadcaster) topics(eventType string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, p := range b.events {
		if p.Event.EventType == eventType {
			out = append(out, p.Topic)
		}
	}
	return out
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (n *recordingNotifier) record(call string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, call)
	return n.err
}

func (n *recordingNotifier) SendConfirmation(_ context.Context, e *models.QueueEntry) error {
	return n.record("confirmation:" + e.Code)
}

func (n *recordingNotifier) SendTableReady(_ context.Context, e *models.QueueEntry, table string) error {
	return n.record("table_ready:" + e.Code + ":" + table)
}

func (n *recordingNotifier) SendUpdate(_ context.Context, e *models.QueueEntry, _ string) error {
	return n.record("update:" + e.Code)
}

func (n *recordingNotifier) SendCancellation(_ context.Context, e *models.QueueEntry, _ string) error {
	return n.record("cancellation:" + e.Code)
}

func (n *recordingNotifier) Calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.calls...)
}

type fixture struct {
	svc      *Service
	store    *memstore.Store
	clock    *fakeClock
	bus      *recordingBroadcaster
	notifier *recordingNotifier
	outlet   models.Outlet
	table2   models.Table
	table4   models.Table
	table8   models.Table
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    memstore.New(),
		clock:    &fakeClock{t: time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)},
		bus:      &recordingBroadcaster{},
		notifier: &recordingNotifier{},
		outlet:   models.Outlet{ID: uuid.New(), Name: "Central", QueueEnabled: true},
	}
	f.store.AddOutlet(f.outlet)
	f.table2 = f.addTable("T2", 2)
	f.table4 = f.addTable("T4", 4)
	f.table8 = f.addTable("T8", 8)

	f.svc = f.serviceOver(t, f.store)
	return f
}

// serviceOver: сервис с часами и получателями фикстуры поверх другого хранилища.
func (f *fixture) serviceOver(t *testing.T, store Store) *Service {
	svc := NewService(store, f.store,
		WithClock(f.clock.Now),
		WithBroadcaster(f.bus),
		WithNotifier(f.notifier),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	t.Cleanup(svc.Wait)
	return svc
}

func (f *fixture) addTable(number string, capacity int) models.Table {
	tbl := models.Table{ID: uuid.New(), OutletID: f.outlet.ID, TableNumber: number, Capacity: capacity, IsActive: true}
	f.store.AddTable(tbl)
	return tbl
}

var phoneSeq int

func (f *fixture) join(t *testing.T, name string, party int) *models.QueueEntry {
	t.Helper()
	phoneSeq++
	e, err := f.svc.CreateQueueEntry(context.Background(), CreateEntryRequest{
		OutletID:      f.outlet.ID,
		CustomerName:  name,
		CustomerPhone: fmt.Sprintf("+62812%07d", phoneSeq),
		PartySize:     party,
	})
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	return e
}

func (f *fixture) reload(t *testing.T, id uuid.UUID) *models.QueueEntry {
	t.Helper()
	e, err := f.svc.GetQueueEntry(context.Background(), id)
	require.NoError(t, err)
	return e
}
