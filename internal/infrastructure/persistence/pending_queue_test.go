package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesapp/client/internal/domain/trade"
)

func queuedDraft(customer string) trade.OrderDraft {
	return trade.OrderDraft{
		SalesRepID:   "rep-1",
		CustomerName: customer,
		Items:        []trade.OrderItem{{ID: "item-1", ProductID: "prod-1", Quantity: 1}},
		Status:       trade.OrderStatusPending,
	}
}

func TestPendingQueue_FIFO(t *testing.T) {
	queue := NewPendingQueue(setupTestDB(t))
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	first := trade.NewPendingOrder(queuedDraft("First Customer"), now)
	second := trade.NewPendingOrder(queuedDraft("Second Customer"), now.Add(time.Minute))
	require.NoError(t, queue.Enqueue(ctx, first))
	require.NoError(t, queue.Enqueue(ctx, second))

	pending, err := queue.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.TempID, pending[0].TempID)
	assert.Equal(t, second.TempID, pending[1].TempID)
	assert.Equal(t, "First Customer", pending[0].Draft.CustomerName)
}

func TestPendingQueue_Remove(t *testing.T) {
	queue := NewPendingQueue(setupTestDB(t))
	ctx := context.Background()
	now := time.Now()

	first := trade.NewPendingOrder(queuedDraft("A"), now)
	second := trade.NewPendingOrder(queuedDraft("B"), now)
	require.NoError(t, queue.Enqueue(ctx, first))
	require.NoError(t, queue.Enqueue(ctx, second))

	require.NoError(t, queue.Remove(ctx, first.TempID))

	pending, err := queue.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.TempID, pending[0].TempID)

	// removing an ID that is not queued is not an error
	require.NoError(t, queue.Remove(ctx, "TEMP-0-missing"))
}

func TestPendingQueue_Clear(t *testing.T) {
	queue := NewPendingQueue(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, queue.Enqueue(ctx, trade.NewPendingOrder(queuedDraft("A"), time.Now())))
	require.NoError(t, queue.Clear(ctx))

	pending, err := queue.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestPendingQueue_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	database, err := NewDatabase(path, nil)
	require.NoError(t, err)
	pending := trade.NewPendingOrder(queuedDraft("Durable Customer"), time.Now())
	require.NoError(t, NewPendingQueue(database).Enqueue(ctx, pending))
	require.NoError(t, database.Close())

	reopened, err := NewDatabase(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	queued, err := NewPendingQueue(reopened).ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, queued, 1)
	assert.Equal(t, pending.TempID, queued[0].TempID)
	assert.Equal(t, "Durable Customer", queued[0].Draft.CustomerName)
}
