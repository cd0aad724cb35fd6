package trade

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDraft() OrderDraft {
	return OrderDraft{
		SalesRepID:   "rep-1",
		SalesRepName: "Dana Reyes",
		CustomerName: "Acme Hardware",
		Items: []OrderItem{
			{
				ID:         "item-1",
				ProductID:  "prod-1",
				Quantity:   1,
				UnitPrice:  decimal.NewFromInt(50),
				TotalPrice: decimal.NewFromInt(50),
			},
		},
		Subtotal: decimal.NewFromInt(50),
		Total:    decimal.NewFromInt(50),
		Status:   OrderStatusPending,
	}
}

func TestNewTempID(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	id := NewTempID(now)

	assert.True(t, strings.HasPrefix(id, TempIDPrefix))
	assert.Contains(t, id, "1741597200000")
	assert.NotEqual(t, id, NewTempID(now), "IDs generated in the same millisecond must differ")
}

func TestIsTempID(t *testing.T) {
	assert.True(t, IsTempID(NewTempID(time.Now())))
	assert.False(t, IsTempID("jd7abc123"), "server document IDs are outside the temp namespace")
	assert.False(t, IsTempID(""))
}

func TestPendingOrder_AsOrder(t *testing.T) {
	queuedAt := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	pending := NewPendingOrder(testDraft(), queuedAt)

	order := pending.AsOrder()

	assert.Equal(t, pending.TempID, order.ID)
	assert.Equal(t, PendingOrderNumber, order.OrderNumber)
	assert.Equal(t, "Acme Hardware", order.CustomerName)
	assert.Equal(t, queuedAt, order.CreatedAt)
	assert.Equal(t, queuedAt, order.UpdatedAt)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(50)))
	assert.Empty(t, order.EditLog)
	assert.Nil(t, order.PreviousVersion)
}

func TestOrderDraft_Validate(t *testing.T) {
	t.Run("valid draft passes", func(t *testing.T) {
		require.NoError(t, testDraft().Validate())
	})

	t.Run("missing customer name", func(t *testing.T) {
		draft := testDraft()
		draft.CustomerName = ""
		assert.Error(t, draft.Validate())
	})

	t.Run("empty items", func(t *testing.T) {
		draft := testDraft()
		draft.Items = nil
		assert.Error(t, draft.Validate())
	})

	t.Run("zero quantity", func(t *testing.T) {
		draft := testDraft()
		draft.Items[0].Quantity = 0
		assert.Error(t, draft.Validate())
	})

	t.Run("invalid status", func(t *testing.T) {
		draft := testDraft()
		draft.Status = "archived"
		assert.Error(t, draft.Validate())
	})
}
