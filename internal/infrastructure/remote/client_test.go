package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesapp/client/internal/domain/offline"
	"github.com/salesapp/client/internal/domain/trade"
)

func TestClient_List(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/data/products", r.URL.Path)
		assert.Equal(t, "200", r.URL.Query().Get("pageSize"))
		assert.Equal(t, "cursor-1", r.URL.Query().Get("cursor"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"page":[{"_id":"p1"},{"_id":"p2"}],"continueCursor":"cursor-2","isDone":false}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)

	page, err := client.List(context.Background(), offline.EntityProducts, "cursor-1", 200)
	require.NoError(t, err)
	assert.Len(t, page.Documents, 2)
	assert.Equal(t, "cursor-2", page.ContinueCursor)
	assert.False(t, page.IsDone)
}

func TestClient_CreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/orders", r.URL.Path)

		var draft map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&draft))
		assert.Equal(t, "Acme Hardware", draft["customerName"])

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"_id": "order-1",
			"orderNumber": "ORD-2025-0042",
			"customerName": "Acme Hardware",
			"total": "264",
			"status": "pending",
			"createdAt": "2025-03-10T09:00:00Z",
			"updatedAt": "2025-03-10T09:00:00Z"
		}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)

	order, err := client.CreateOrder(context.Background(), trade.OrderDraft{
		SalesRepID:   "rep-1",
		CustomerName: "Acme Hardware",
		Items:        []trade.OrderItem{{ID: "item-1", Quantity: 2}},
		Total:        decimal.NewFromInt(264),
		Status:       trade.OrderStatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, "ORD-2025-0042", order.OrderNumber)
}

func TestClient_UpdateOrder_SendsEditMeta(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/orders/order-1", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "New Name", req["customerName"])
		assert.Equal(t, "rep-1", req["editedBy"])
		assert.Equal(t, "Renamed customer", req["changeDescription"])

		io.WriteString(w, `{"_id":"order-1","orderNumber":"ORD-2025-0042","customerName":"New Name","status":"pending"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	name := "New Name"

	order, err := client.UpdateOrder(context.Background(), "order-1",
		trade.OrderUpdate{CustomerName: &name},
		trade.EditMeta{EditedBy: "rep-1", EditedByName: "Dana", ChangeDescription: "Renamed customer"})
	require.NoError(t, err)
	assert.Equal(t, "New Name", order.CustomerName)
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	t.Run("unreachable backend maps to ErrUnavailable", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", 100*time.Millisecond)

		_, err := client.List(context.Background(), offline.EntityProducts, "", 200)
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("HTTP 404 maps to ErrNotFound", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := NewClient(server.URL, time.Second).UndoOrderEdit(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("HTTP 500 maps to ErrRequestFailed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := NewClient(server.URL, time.Second).List(context.Background(), offline.EntityOrders, "", 200)
		assert.ErrorIs(t, err, ErrRequestFailed)
		assert.NotErrorIs(t, err, ErrUnavailable)
	})
}

func TestClient_RemoveRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/data/customers/cust-1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := NewClient(server.URL, time.Second).RemoveRecord(context.Background(), offline.EntityCustomers, "cust-1")
	require.NoError(t, err)
}
