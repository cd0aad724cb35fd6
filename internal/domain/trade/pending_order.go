package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TempIDPrefix marks client-generated temporary order IDs. The prefix keeps
// the temporary namespace disjoint from server-assigned document IDs, which
// never start with it.
const TempIDPrefix = "TEMP-"

// PendingOrderNumber is the sentinel order number shown for queued orders
// until the server assigns a real one.
const PendingOrderNumber = "PENDING-SYNC"

// PendingOrder is an order captured while offline and not yet acknowledged
// by the remote store. It lives in the pending-write queue until the remote
// createOrder mutation succeeds, at which point the authoritative Order
// (with a server ID and order number) supersedes it.
type PendingOrder struct {
	TempID   string     `json:"tempId"`
	Draft    OrderDraft `json:"draft"`
	QueuedAt time.Time  `json:"queuedAt"`
}

// NewPendingOrder wraps a draft with a fresh temporary ID and queue timestamp
func NewPendingOrder(draft OrderDraft, now time.Time) PendingOrder {
	return PendingOrder{
		TempID:   NewTempID(now),
		Draft:    draft,
		QueuedAt: now,
	}
}

// NewTempID generates a temporary order ID of the form TEMP-<unix-ms>-<random>
func NewTempID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s%d-%s", TempIDPrefix, now.UnixMilli(), suffix)
}

// IsTempID reports whether an ID belongs to the temporary namespace
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// AsOrder renders the pending order in the Order shape so callers can display
// it without special-casing. The temporary ID and the PENDING-SYNC order
// number must never be treated as durable identifiers.
func (p PendingOrder) AsOrder() Order {
	return Order{
		OrderCore: OrderCore{
			ID:              p.TempID,
			OrderNumber:     PendingOrderNumber,
			SalesRepID:      p.Draft.SalesRepID,
			SalesRepName:    p.Draft.SalesRepName,
			CustomerName:    p.Draft.CustomerName,
			CustomerPhone:   p.Draft.CustomerPhone,
			CustomerEmail:   p.Draft.CustomerEmail,
			CustomerAddress: p.Draft.CustomerAddress,
			Latitude:        p.Draft.Latitude,
			Longitude:       p.Draft.Longitude,
			Items:           p.Draft.Items,
			Subtotal:        p.Draft.Subtotal,
			Tax:             p.Draft.Tax,
			Discount:        p.Draft.Discount,
			Total:           p.Draft.Total,
			Status:          p.Draft.Status,
			Notes:           p.Draft.Notes,
			CreatedAt:       p.QueuedAt,
			UpdatedAt:       p.QueuedAt,
		},
	}
}
