package facade

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/salesapp/client/internal/domain/offline"
	"github.com/salesapp/client/internal/domain/trade"
)

// memStore is an in-memory offline.SnapshotStore
type memStore struct {
	mu        sync.Mutex
	snapshots map[offline.EntityType][]byte
	lastSync  time.Time
}

func newMemStore() *memStore {
	return &memStore{snapshots: make(map[offline.EntityType][]byte)}
}

func (s *memStore) SaveSnapshot(_ context.Context, entityType offline.EntityType, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[entityType] = payload
	return nil
}

func (s *memStore) LoadSnapshot(_ context.Context, entityType offline.EntityType) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshots[entityType], nil
}

func (s *memStore) SetLastSync(_ context.Context, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSync = at
	return nil
}

func (s *memStore) LastSync(_ context.Context) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSync, nil
}

func (s *memStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = make(map[offline.EntityType][]byte)
	s.lastSync = time.Time{}
	return nil
}

// memQueue is an in-memory offline.PendingQueue
type memQueue struct {
	mu      sync.Mutex
	entries []trade.PendingOrder
}

func (q *memQueue) Enqueue(_ context.Context, pending trade.PendingOrder) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = append(q.entries, pending)
	return nil
}

func (q *memQueue) ListPending(_ context.Context) ([]trade.PendingOrder, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]trade.PendingOrder(nil), q.entries...), nil
}

func (q *memQueue) Remove(_ context.Context, tempID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, e := range q.entries {
		if e.TempID == tempID {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (q *memQueue) Clear(_ context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = nil
	return nil
}

func (q *memQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// stubMonitor is a settable offline.Monitor
type stubMonitor struct {
	mu          sync.Mutex
	online      bool
	subscribers []func(online bool)
}

func (m *stubMonitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

func (m *stubMonitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	subscribers := append(make([]func(online bool), 0, len(m.subscribers)), m.subscribers...)
	m.mu.Unlock()

	for _, fn := range subscribers {
		fn(online)
	}
}

func (m *stubMonitor) Subscribe(fn func(online bool)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
	return func() {}
}

// stubLaunches is a fixed offline.LaunchTracker
type stubLaunches struct{ first bool }

func (l stubLaunches) FirstLaunchOfDay(context.Context, time.Time) (bool, error) {
	return l.first, nil
}

// stubRemote is a scriptable offline.RemoteService. CreateOrder assigns
// sequential server IDs and fails for customers listed in failFor.
type stubRemote struct {
	mu         sync.Mutex
	pages      map[offline.EntityType][]offline.Page
	created    []trade.Order
	failFor    map[string]bool
	nextSerial int
	orders     map[string]*trade.Order
}

func newStubRemote() *stubRemote {
	return &stubRemote{
		pages:   make(map[offline.EntityType][]offline.Page),
		failFor: make(map[string]bool),
		orders:  make(map[string]*trade.Order),
	}
}

func (r *stubRemote) List(_ context.Context, entityType offline.EntityType, cursor string, _ int) (*offline.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pages := r.pages[entityType]
	if len(pages) == 0 {
		return &offline.Page{IsDone: true}, nil
	}
	index := 0
	if cursor != "" {
		fmt.Sscanf(cursor, "cursor-%d", &index)
	}
	if index >= len(pages) {
		return &offline.Page{IsDone: true}, nil
	}
	page := pages[index]
	page.ContinueCursor = fmt.Sprintf("cursor-%d", index+1)
	page.IsDone = index == len(pages)-1
	return &page, nil
}

func (r *stubRemote) CreateOrder(_ context.Context, draft trade.OrderDraft) (*trade.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFor[draft.CustomerName] {
		return nil, errors.New("write conflict")
	}
	r.nextSerial++
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC).Add(time.Duration(r.nextSerial) * time.Minute)
	order := trade.Order{
		OrderCore: trade.OrderCore{
			ID:              fmt.Sprintf("order-%d", r.nextSerial),
			OrderNumber:     fmt.Sprintf("ORD-2025-%04d", r.nextSerial),
			SalesRepID:      draft.SalesRepID,
			SalesRepName:    draft.SalesRepName,
			CustomerName:    draft.CustomerName,
			CustomerPhone:   draft.CustomerPhone,
			CustomerEmail:   draft.CustomerEmail,
			CustomerAddress: draft.CustomerAddress,
			Items:           draft.Items,
			Subtotal:        draft.Subtotal,
			Tax:             draft.Tax,
			Discount:        draft.Discount,
			Total:           draft.Total,
			Status:          draft.Status,
			Notes:           draft.Notes,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
	}
	r.created = append(r.created, order)
	r.orders[order.ID] = &order
	return &order, nil
}

func (r *stubRemote) UpdateOrder(_ context.Context, orderID string, update trade.OrderUpdate, meta trade.EditMeta) (*trade.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return nil, errors.New("order not found")
	}
	if err := order.ApplyEdit(update, meta, time.Now()); err != nil {
		return nil, err
	}
	clone := *order
	return &clone, nil
}

func (r *stubRemote) UpdateOrderStatus(ctx context.Context, orderID string, status trade.OrderStatus) (*trade.Order, error) {
	return r.UpdateOrder(ctx, orderID, trade.OrderUpdate{Status: &status}, trade.EditMeta{ChangeDescription: "Status changed"})
}

func (r *stubRemote) UndoOrderEdit(_ context.Context, orderID string) (*trade.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return nil, errors.New("order not found")
	}
	if err := order.UndoEdit(time.Now()); err != nil {
		return nil, err
	}
	clone := *order
	return &clone, nil
}

func (r *stubRemote) CreateRecord(_ context.Context, _ offline.EntityType, doc json.RawMessage) (json.RawMessage, error) {
	return doc, nil
}

func (r *stubRemote) UpdateRecord(_ context.Context, _ offline.EntityType, _ string, doc json.RawMessage) (json.RawMessage, error) {
	return doc, nil
}

func (r *stubRemote) RemoveRecord(context.Context, offline.EntityType, string) error {
	return nil
}

func (r *stubRemote) createdCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.created)
}

func draftFor(customer string) trade.OrderDraft {
	return trade.OrderDraft{
		SalesRepID:   "rep-1",
		SalesRepName: "Dana Reyes",
		CustomerName: customer,
		Items: []trade.OrderItem{{
			ID:         "item-1",
			ProductID:  "prod-1",
			Quantity:   1,
			UnitPrice:  decimal.NewFromInt(25),
			TotalPrice: decimal.NewFromInt(25),
		}},
		Subtotal: decimal.NewFromInt(25),
		Total:    decimal.NewFromInt(25),
		Status:   trade.OrderStatusPending,
	}
}

func newTestFacade(remote *stubRemote, monitor *stubMonitor) (*Facade, *memStore, *memQueue) {
	store := newMemStore()
	queue := &memQueue{}
	f := New(store, queue, remote, monitor, stubLaunches{}, Options{PageSize: 200, MaxPages: 20}, zap.NewNop())
	return f, store, queue
}

func TestFacade_StartLoadsCachedViews(t *testing.T) {
	remote := newStubRemote()
	monitor := &stubMonitor{online: false}
	f, store, queue := newTestFacade(remote, monitor)
	ctx := context.Background()

	require.NoError(t, store.SaveSnapshot(ctx, offline.EntityProducts,
		[]byte(`[{"id":"p1","name":"Drill","isActive":true},{"id":"p2","name":"Sander","isActive":false}]`)))
	pending := trade.NewPendingOrder(draftFor("Queued Co"), time.Now())
	require.NoError(t, queue.Enqueue(ctx, pending))

	require.NoError(t, f.Start(ctx))

	assert.Len(t, f.Products(), 2)
	assert.Len(t, f.ActiveProducts(), 1, "soft-deleted products stay out of active views")
	require.Len(t, f.PendingOrders(), 1)
	assert.Equal(t, pending.TempID, f.PendingOrders()[0].TempID)
	assert.Equal(t, 1, f.SyncStatus(ctx).PendingCount)
}

func TestFacade_ClearCache(t *testing.T) {
	remote := newStubRemote()
	monitor := &stubMonitor{online: false}
	f, store, _ := newTestFacade(remote, monitor)
	ctx := context.Background()

	_, queued, err := f.AddOrder(ctx, draftFor("Acme"))
	require.NoError(t, err)
	require.True(t, queued)

	require.NoError(t, f.ClearCache(ctx))

	assert.Empty(t, f.Orders())
	assert.Empty(t, f.PendingOrders())
	payload, err := store.LoadSnapshot(ctx, offline.EntityOrders)
	require.NoError(t, err)
	assert.Nil(t, payload)
}
