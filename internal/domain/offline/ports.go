package offline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/salesapp/client/internal/domain/trade"
)

// Keyed is implemented by every cached record type. Key returns the
// server-assigned identifier used for last-write-wins merging.
type Keyed interface {
	Key() string
}

// Page is one page of raw documents returned by the remote service.
// Documents stay as raw JSON until the caller maps them to domain records.
type Page struct {
	Documents      []json.RawMessage
	ContinueCursor string
	IsDone         bool
}

// SnapshotStore persists whole-collection snapshots and sync bookkeeping.
// Saving a snapshot replaces the previous one for that entity type.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, entityType EntityType, payload []byte) error
	// LoadSnapshot returns nil payload and nil error when no snapshot exists.
	LoadSnapshot(ctx context.Context, entityType EntityType) ([]byte, error)
	SetLastSync(ctx context.Context, at time.Time) error
	// LastSync returns the zero time when no sync has completed yet.
	LastSync(ctx context.Context) (time.Time, error)
	Clear(ctx context.Context) error
}

// PendingQueue is the durable FIFO of orders created while offline.
type PendingQueue interface {
	Enqueue(ctx context.Context, pending trade.PendingOrder) error
	// ListPending returns queued orders oldest first.
	ListPending(ctx context.Context) ([]trade.PendingOrder, error)
	// Remove deletes the entry with the given temp ID. Removing an ID that is
	// not queued is not an error.
	Remove(ctx context.Context, tempID string) error
	Clear(ctx context.Context) error
}

// LaunchTracker remembers the last calendar day the app was opened so the
// first launch of a new day can force a refresh.
type LaunchTracker interface {
	// FirstLaunchOfDay reports whether now falls on a later day than the last
	// recorded launch, and records now as the latest launch.
	FirstLaunchOfDay(ctx context.Context, now time.Time) (bool, error)
}

// Monitor exposes the current connectivity state and transition events.
type Monitor interface {
	IsOnline() bool
	// Subscribe registers a callback invoked on every connectivity transition.
	// The returned function unsubscribes the callback.
	Subscribe(fn func(online bool)) (unsubscribe func())
}

// RemoteService is the client side of the backend API. List is paginated;
// order mutations return the authoritative server copy of the order.
type RemoteService interface {
	List(ctx context.Context, entityType EntityType, cursor string, pageSize int) (*Page, error)

	CreateOrder(ctx context.Context, draft trade.OrderDraft) (*trade.Order, error)
	UpdateOrder(ctx context.Context, orderID string, update trade.OrderUpdate, meta trade.EditMeta) (*trade.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status trade.OrderStatus) (*trade.Order, error)
	UndoOrderEdit(ctx context.Context, orderID string) (*trade.Order, error)

	CreateRecord(ctx context.Context, entityType EntityType, doc json.RawMessage) (json.RawMessage, error)
	UpdateRecord(ctx context.Context, entityType EntityType, id string, doc json.RawMessage) (json.RawMessage, error)
	RemoveRecord(ctx context.Context, entityType EntityType, id string) error
}
