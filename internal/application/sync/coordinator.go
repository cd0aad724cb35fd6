package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/salesapp/client/internal/domain/catalog"
	"github.com/salesapp/client/internal/domain/offline"
	"github.com/salesapp/client/internal/domain/partner"
	"github.com/salesapp/client/internal/domain/shared"
	"github.com/salesapp/client/internal/domain/trade"
)

// SnapshotSink receives the freshly persisted snapshot for an entity type so
// in-memory views can be refreshed in the same pass.
type SnapshotSink interface {
	ApplySnapshot(entityType offline.EntityType, payload []byte) error
}

// Result summarizes one sync run
type Result struct {
	Counts   map[offline.EntityType]int
	Failed   map[offline.EntityType]error
	Duration time.Duration
}

// Synced reports how many records were refreshed across all entity types
func (r Result) Synced() int {
	total := 0
	for _, n := range r.Counts {
		total += n
	}
	return total
}

// Coordinator downloads remote collections page by page, merges them into the
// cached snapshots and republishes the result. Runs are single-flight: a call
// while another run is active fails with ErrSyncInProgress.
type Coordinator struct {
	remote   offline.RemoteService
	store    offline.SnapshotStore
	sink     SnapshotSink
	logger   *zap.Logger
	pageSize int
	maxPages int

	running atomic.Bool
}

// NewCoordinator creates a sync coordinator
func NewCoordinator(remote offline.RemoteService, store offline.SnapshotStore, sink SnapshotSink, pageSize, maxPages int, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		remote:   remote,
		store:    store,
		sink:     sink,
		logger:   logger.Named("sync"),
		pageSize: pageSize,
		maxPages: maxPages,
	}
}

// IsSyncing reports whether a sync run is currently active
func (c *Coordinator) IsSyncing() bool {
	return c.running.Load()
}

// Sync refreshes all entity types from the remote store. A failure in one
// entity type abandons that type without touching its cached snapshot; the
// remaining types still sync. The last-sync marker advances only when at
// least one type refreshed successfully.
func (c *Coordinator) Sync(ctx context.Context) (*Result, error) {
	if !c.running.CompareAndSwap(false, true) {
		return nil, shared.ErrSyncInProgress
	}
	defer c.running.Store(false)

	start := time.Now()
	result := &Result{
		Counts: make(map[offline.EntityType]int),
		Failed: make(map[offline.EntityType]error),
	}

	for _, entityType := range offline.AllEntityTypes() {
		count, err := c.syncOne(ctx, entityType)
		if err != nil {
			c.logger.Warn("Entity sync failed",
				zap.String("entity_type", entityType.String()),
				zap.Error(err),
			)
			result.Failed[entityType] = err
			continue
		}
		result.Counts[entityType] = count
	}

	result.Duration = time.Since(start)

	if len(result.Counts) > 0 {
		if err := c.store.SetLastSync(ctx, time.Now()); err != nil {
			c.logger.Warn("Failed to record last sync time", zap.Error(err))
		}
	}

	c.logger.Info("Sync finished",
		zap.Int("synced", result.Synced()),
		zap.Int("failed_types", len(result.Failed)),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

func (c *Coordinator) syncOne(ctx context.Context, entityType offline.EntityType) (int, error) {
	switch entityType {
	case offline.EntityProducts:
		return syncEntity(ctx, c, entityType, catalog.ProductFromDocument)
	case offline.EntityCategories:
		return syncEntity(ctx, c, entityType, catalog.CategoryFromDocument)
	case offline.EntityCustomers:
		return syncEntity(ctx, c, entityType, partner.CustomerFromDocument)
	case offline.EntityOrders:
		return syncEntity(ctx, c, entityType, trade.OrderFromDocument)
	default:
		return 0, fmt.Errorf("sync: unknown entity type %q", entityType)
	}
}

// syncEntity runs the paginated download for one entity type. Nothing is
// persisted until every page decoded, so a mid-run failure leaves the cached
// snapshot exactly as it was.
func syncEntity[T offline.Keyed](ctx context.Context, c *Coordinator, entityType offline.EntityType, decode func(json.RawMessage) (T, error)) (int, error) {
	cached, err := c.store.LoadSnapshot(ctx, entityType)
	if err != nil {
		return 0, fmt.Errorf("load cached snapshot: %w", err)
	}
	records, err := offline.DecodeRecords[T](cached)
	if err != nil {
		return 0, fmt.Errorf("decode cached snapshot: %w", err)
	}

	fetched := 0
	cursor := ""
	for page := 0; ; page++ {
		if page >= c.maxPages {
			c.logger.Warn("Page ceiling reached, keeping partial refresh",
				zap.String("entity_type", entityType.String()),
				zap.Int("max_pages", c.maxPages),
			)
			break
		}

		result, err := c.remote.List(ctx, entityType, cursor, c.pageSize)
		if err != nil {
			return 0, fmt.Errorf("fetch page %d: %w", page, err)
		}

		incoming := make([]T, 0, len(result.Documents))
		for _, doc := range result.Documents {
			record, err := decode(doc)
			if err != nil {
				return 0, fmt.Errorf("page %d: %w", page, err)
			}
			incoming = append(incoming, record)
		}
		records = offline.MergeByKey(records, incoming)
		fetched += len(incoming)

		if result.IsDone {
			break
		}
		cursor = result.ContinueCursor
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Key() < records[j].Key() })

	payload, err := offline.EncodeRecords(records)
	if err != nil {
		return 0, err
	}
	if err := c.store.SaveSnapshot(ctx, entityType, payload); err != nil {
		return 0, fmt.Errorf("persist snapshot: %w", err)
	}
	if err := c.sink.ApplySnapshot(entityType, payload); err != nil {
		return 0, fmt.Errorf("publish snapshot: %w", err)
	}

	c.logger.Debug("Entity refreshed",
		zap.String("entity_type", entityType.String()),
		zap.Int("fetched", fetched),
		zap.Int("cached", len(records)),
	)
	return fetched, nil
}
