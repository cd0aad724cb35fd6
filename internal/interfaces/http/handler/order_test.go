package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/salesapp/client/internal/application/facade"
	"github.com/salesapp/client/internal/domain/offline"
	"github.com/salesapp/client/internal/domain/trade"
	"github.com/salesapp/client/internal/interfaces/http/router"
)

type stubStore struct {
	mu        sync.Mutex
	snapshots map[offline.EntityType][]byte
	lastSync  time.Time
}

func (s *stubStore) SaveSnapshot(_ context.Context, entityType offline.EntityType, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[entityType] = payload
	return nil
}

func (s *stubStore) LoadSnapshot(_ context.Context, entityType offline.EntityType) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshots[entityType], nil
}

func (s *stubStore) SetLastSync(_ context.Context, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSync = at
	return nil
}

func (s *stubStore) LastSync(_ context.Context) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSync, nil
}

func (s *stubStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = make(map[offline.EntityType][]byte)
	return nil
}

type stubQueue struct {
	mu      sync.Mutex
	entries []trade.PendingOrder
}

func (q *stubQueue) Enqueue(_ context.Context, pending trade.PendingOrder) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = append(q.entries, pending)
	return nil
}

func (q *stubQueue) ListPending(_ context.Context) ([]trade.PendingOrder, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]trade.PendingOrder(nil), q.entries...), nil
}

func (q *stubQueue) Remove(_ context.Context, tempID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, e := range q.entries {
		if e.TempID == tempID {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			break
		}
	}
	return nil
}

func (q *stubQueue) Clear(_ context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = nil
	return nil
}

type stubMonitor struct{ online bool }

func (m *stubMonitor) IsOnline() bool                     { return m.online }
func (m *stubMonitor) Subscribe(func(online bool)) func() { return func() {} }

type stubLaunches struct{}

func (stubLaunches) FirstLaunchOfDay(context.Context, time.Time) (bool, error) { return false, nil }

type stubRemote struct{ serial int }

func (r *stubRemote) List(context.Context, offline.EntityType, string, int) (*offline.Page, error) {
	return &offline.Page{IsDone: true}, nil
}

func (r *stubRemote) CreateOrder(_ context.Context, draft trade.OrderDraft) (*trade.Order, error) {
	r.serial++
	now := time.Now()
	return &trade.Order{OrderCore: trade.OrderCore{
		ID:           "order-1",
		OrderNumber:  "ORD-2025-0001",
		SalesRepID:   draft.SalesRepID,
		CustomerName: draft.CustomerName,
		Items:        draft.Items,
		Total:        draft.Total,
		Status:       draft.Status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}}, nil
}

func (r *stubRemote) UpdateOrder(context.Context, string, trade.OrderUpdate, trade.EditMeta) (*trade.Order, error) {
	return nil, nil
}
func (r *stubRemote) UpdateOrderStatus(context.Context, string, trade.OrderStatus) (*trade.Order, error) {
	return nil, nil
}
func (r *stubRemote) UndoOrderEdit(context.Context, string) (*trade.Order, error) { return nil, nil }
func (r *stubRemote) CreateRecord(_ context.Context, _ offline.EntityType, doc json.RawMessage) (json.RawMessage, error) {
	return doc, nil
}
func (r *stubRemote) UpdateRecord(_ context.Context, _ offline.EntityType, _ string, doc json.RawMessage) (json.RawMessage, error) {
	return doc, nil
}
func (r *stubRemote) RemoveRecord(context.Context, offline.EntityType, string) error { return nil }

func newTestServer(t *testing.T, online bool) (*gin.Engine, *stubQueue) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	RegisterValidators()

	store := &stubStore{snapshots: make(map[offline.EntityType][]byte)}
	queue := &stubQueue{}
	f := facade.New(store, queue, &stubRemote{}, &stubMonitor{online: online}, stubLaunches{},
		facade.Options{PageSize: 200, MaxPages: 20}, zap.NewNop())

	engine := gin.New()
	router.NewRouter(engine).
		Register(NewOrderHandler(f)).
		Register(NewSyncHandler(f)).
		Setup()
	return engine, queue
}

const orderBody = `{
	"salesRepId": "rep-1",
	"salesRepName": "Dana Reyes",
	"customerName": "Acme Hardware",
	"items": [{"productId": "prod-1", "quantity": 2, "unitPrice": "120", "totalPrice": "240"}],
	"subtotal": "240",
	"total": "240",
	"status": "pending"
}`

func TestOrderHandler_Create_Online(t *testing.T) {
	engine, queue := newTestServer(t, true)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(orderBody))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Success bool        `json:"success"`
		Data    trade.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "ORD-2025-0001", resp.Data.OrderNumber)
	assert.Empty(t, queue.entries)
}

func TestOrderHandler_Create_OfflineQueues(t *testing.T) {
	engine, queue := newTestServer(t, false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(orderBody))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var resp struct {
		Data trade.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, trade.IsTempID(resp.Data.ID))
	assert.Equal(t, trade.PendingOrderNumber, resp.Data.OrderNumber)
	assert.Len(t, queue.entries, 1)
}

func TestOrderHandler_Create_RejectsUnknownStatus(t *testing.T) {
	engine, _ := newTestServer(t, true)

	body := strings.Replace(orderBody, `"pending"`, `"archived"`, 1)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSyncHandler_SyncWhileOffline(t *testing.T) {
	engine, _ := newTestServer(t, false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sync", nil)
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSyncHandler_Status(t *testing.T) {
	engine, _ := newTestServer(t, false)

	// queue one order so pendingCount is visible
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(orderBody))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sync/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data facade.Status `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Online)
	assert.Equal(t, 1, resp.Data.PendingCount)
	assert.Nil(t, resp.Data.LastSyncAt)
}
