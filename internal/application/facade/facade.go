package facade

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	syncapp "github.com/salesapp/client/internal/application/sync"
	"github.com/salesapp/client/internal/domain/catalog"
	"github.com/salesapp/client/internal/domain/offline"
	"github.com/salesapp/client/internal/domain/partner"
	"github.com/salesapp/client/internal/domain/shared"
	"github.com/salesapp/client/internal/domain/trade"
)

// Facade is the single data access layer for the app. Reads are always served
// from the in-memory views backed by the cached snapshots; writes go remote
// when online and into the pending queue when offline (orders only).
type Facade struct {
	store    offline.SnapshotStore
	queue    offline.PendingQueue
	remote   offline.RemoteService
	monitor  offline.Monitor
	launches offline.LaunchTracker
	logger   *zap.Logger
	clock    func() time.Time

	coordinator *syncapp.Coordinator

	mu         sync.RWMutex
	products   []catalog.Product
	categories []catalog.Category
	customers  []partner.Customer
	orders     []trade.Order
	pending    []trade.PendingOrder

	draining atomic.Bool
}

// Options carries the sync tuning knobs for the facade's coordinator
type Options struct {
	PageSize int
	MaxPages int
}

// New creates the data facade. The facade owns its sync coordinator and acts
// as its snapshot sink, so a finished sync is immediately visible to readers.
func New(store offline.SnapshotStore, queue offline.PendingQueue, remote offline.RemoteService,
	monitor offline.Monitor, launches offline.LaunchTracker, opts Options, logger *zap.Logger) *Facade {

	f := &Facade{
		store:    store,
		queue:    queue,
		remote:   remote,
		monitor:  monitor,
		launches: launches,
		logger:   logger.Named("facade"),
		clock:    time.Now,
	}
	f.coordinator = syncapp.NewCoordinator(remote, store, f, opts.PageSize, opts.MaxPages, logger)
	return f
}

// Start loads the cached snapshots, begins watching connectivity and kicks
// off the initial sync when online. It returns once the views are populated;
// the initial sync and drain run in the background.
func (f *Facade) Start(ctx context.Context) error {
	if err := f.loadCached(ctx); err != nil {
		return err
	}

	firstToday, err := f.launches.FirstLaunchOfDay(ctx, f.clock())
	if err != nil {
		f.logger.Warn("Failed to check launch day", zap.Error(err))
	}

	f.monitor.Subscribe(func(online bool) {
		if !online {
			return
		}
		go f.onReconnect(ctx)
	})

	if f.monitor.IsOnline() {
		go f.onReconnect(ctx)
	} else if firstToday {
		f.logger.Warn("Starting offline on a new day, cached data may be stale")
	}
	return nil
}

// loadCached hydrates the in-memory views from the persisted snapshots and
// the pending queue. A corrupt snapshot is logged and skipped so one bad
// entity type cannot take the whole app down.
func (f *Facade) loadCached(ctx context.Context) error {
	products, err := loadView[catalog.Product](ctx, f, offline.EntityProducts)
	if err != nil {
		f.logger.Warn("Failed to load cached products", zap.Error(err))
	}
	categories, err := loadView[catalog.Category](ctx, f, offline.EntityCategories)
	if err != nil {
		f.logger.Warn("Failed to load cached categories", zap.Error(err))
	}
	customers, err := loadView[partner.Customer](ctx, f, offline.EntityCustomers)
	if err != nil {
		f.logger.Warn("Failed to load cached customers", zap.Error(err))
	}
	orders, err := loadView[trade.Order](ctx, f, offline.EntityOrders)
	if err != nil {
		f.logger.Warn("Failed to load cached orders", zap.Error(err))
	}

	pending, err := f.queue.ListPending(ctx)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.products = products
	f.categories = categories
	f.customers = customers
	f.orders = orders
	f.pending = pending
	f.mu.Unlock()

	f.logger.Info("Cache loaded",
		zap.Int("products", len(products)),
		zap.Int("categories", len(categories)),
		zap.Int("customers", len(customers)),
		zap.Int("orders", len(orders)),
		zap.Int("pending_orders", len(pending)),
	)
	return nil
}

func loadView[T offline.Keyed](ctx context.Context, f *Facade, entityType offline.EntityType) ([]T, error) {
	payload, err := f.store.LoadSnapshot(ctx, entityType)
	if err != nil {
		return nil, err
	}
	return offline.DecodeRecords[T](payload)
}

// onReconnect drains the pending queue and refreshes the cache. Both steps
// are best-effort; failures are logged and retried on the next transition.
func (f *Facade) onReconnect(ctx context.Context) {
	if synced, remaining, err := f.DrainQueue(ctx); err != nil {
		f.logger.Warn("Queue drain incomplete",
			zap.Int("synced", synced),
			zap.Int("remaining", remaining),
			zap.Error(err),
		)
	}
	if _, err := f.SyncNow(ctx); err != nil {
		f.logger.Warn("Reconnect sync failed", zap.Error(err))
	}
}

// ApplySnapshot implements syncapp.SnapshotSink: a freshly synced snapshot
// replaces the matching in-memory view.
func (f *Facade) ApplySnapshot(entityType offline.EntityType, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch entityType {
	case offline.EntityProducts:
		products, err := offline.DecodeRecords[catalog.Product](payload)
		if err != nil {
			return err
		}
		f.products = products
	case offline.EntityCategories:
		categories, err := offline.DecodeRecords[catalog.Category](payload)
		if err != nil {
			return err
		}
		f.categories = categories
	case offline.EntityCustomers:
		customers, err := offline.DecodeRecords[partner.Customer](payload)
		if err != nil {
			return err
		}
		f.customers = customers
	case offline.EntityOrders:
		orders, err := offline.DecodeRecords[trade.Order](payload)
		if err != nil {
			return err
		}
		f.orders = orders
	}
	return nil
}

// SyncNow refreshes all cached entity types from the remote store
func (f *Facade) SyncNow(ctx context.Context) (*syncapp.Result, error) {
	if !f.monitor.IsOnline() {
		return nil, shared.ErrOffline
	}
	return f.coordinator.Sync(ctx)
}

// Status reports the current sync state
type Status struct {
	Online       bool       `json:"isOnline"`
	Syncing      bool       `json:"isSyncing"`
	PendingCount int        `json:"pendingCount"`
	LastSyncAt   *time.Time `json:"lastSyncAt"`
}

// SyncStatus returns the current connectivity and sync state
func (f *Facade) SyncStatus(ctx context.Context) Status {
	f.mu.RLock()
	pendingCount := len(f.pending)
	f.mu.RUnlock()

	status := Status{
		Online:       f.monitor.IsOnline(),
		Syncing:      f.coordinator.IsSyncing() || f.draining.Load(),
		PendingCount: pendingCount,
	}
	if last, err := f.store.LastSync(ctx); err == nil && !last.IsZero() {
		status.LastSyncAt = &last
	}
	return status
}

// ClearCache wipes the persisted snapshots, the pending queue and the
// in-memory views. Used on logout.
func (f *Facade) ClearCache(ctx context.Context) error {
	if err := f.store.Clear(ctx); err != nil {
		return err
	}
	if err := f.queue.Clear(ctx); err != nil {
		return err
	}

	f.mu.Lock()
	f.products = nil
	f.categories = nil
	f.customers = nil
	f.orders = nil
	f.pending = nil
	f.mu.Unlock()

	f.logger.Info("Cache cleared")
	return nil
}
