package facade

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/salesapp/client/internal/domain/catalog"
	"github.com/salesapp/client/internal/domain/offline"
	"github.com/salesapp/client/internal/domain/partner"
	"github.com/salesapp/client/internal/domain/shared"
	"github.com/salesapp/client/internal/domain/trade"
)

// AddOrder submits an order. Online, the draft goes straight to the remote
// store and the server-acknowledged order is returned; a remote failure while
// online surfaces to the caller and is never queued. Offline, the draft is
// queued durably and a placeholder order with a temporary ID and the
// PENDING-SYNC order number is returned, with queued=true.
func (f *Facade) AddOrder(ctx context.Context, draft trade.OrderDraft) (trade.Order, bool, error) {
	if err := draft.Validate(); err != nil {
		return trade.Order{}, false, err
	}

	if f.monitor.IsOnline() {
		order, err := f.remote.CreateOrder(ctx, draft)
		if err != nil {
			return trade.Order{}, false, err
		}
		f.mergeOrder(ctx, *order)
		f.logger.Info("Order created",
			zap.String("order_id", order.ID),
			zap.String("order_number", order.OrderNumber),
		)
		return *order, false, nil
	}

	pending := trade.NewPendingOrder(draft, f.clock())
	if err := f.queue.Enqueue(ctx, pending); err != nil {
		return trade.Order{}, false, fmt.Errorf("queue order: %w", err)
	}

	f.mu.Lock()
	f.pending = append(f.pending, pending)
	f.mu.Unlock()

	f.logger.Info("Order queued offline", zap.String("temp_id", pending.TempID))
	return pending.AsOrder(), true, nil
}

// UpdateOrder applies a partial edit to a synced order. Requires connectivity;
// queued offline orders cannot be edited until they sync.
func (f *Facade) UpdateOrder(ctx context.Context, orderID string, update trade.OrderUpdate, meta trade.EditMeta) (trade.Order, error) {
	if trade.IsTempID(orderID) {
		return trade.Order{}, shared.ErrInvalidState
	}
	if !f.monitor.IsOnline() {
		return trade.Order{}, shared.ErrOffline
	}
	if err := update.Validate(); err != nil {
		return trade.Order{}, err
	}

	order, err := f.remote.UpdateOrder(ctx, orderID, update, meta)
	if err != nil {
		return trade.Order{}, err
	}
	f.mergeOrder(ctx, *order)
	return *order, nil
}

// UpdateOrderStatus transitions a synced order to a new status
func (f *Facade) UpdateOrderStatus(ctx context.Context, orderID string, status trade.OrderStatus) (trade.Order, error) {
	if trade.IsTempID(orderID) {
		return trade.Order{}, shared.ErrInvalidState
	}
	if !status.IsValid() {
		return trade.Order{}, shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+status.String())
	}
	if !f.monitor.IsOnline() {
		return trade.Order{}, shared.ErrOffline
	}

	order, err := f.remote.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		return trade.Order{}, err
	}
	f.mergeOrder(ctx, *order)
	return *order, nil
}

// UndoOrderEdit reverts the latest edit of a synced order
func (f *Facade) UndoOrderEdit(ctx context.Context, orderID string) (trade.Order, error) {
	if trade.IsTempID(orderID) {
		return trade.Order{}, shared.ErrInvalidState
	}
	if !f.monitor.IsOnline() {
		return trade.Order{}, shared.ErrOffline
	}

	order, err := f.remote.UndoOrderEdit(ctx, orderID)
	if err != nil {
		return trade.Order{}, err
	}
	f.mergeOrder(ctx, *order)
	return *order, nil
}

// DrainQueue replays queued offline orders against the remote store, oldest
// first. Each success removes that entry before the next is attempted, so an
// entry is never submitted twice; the first failure stops the drain and
// leaves the failed entry and everything behind it queued. Drains are
// single-flight.
func (f *Facade) DrainQueue(ctx context.Context) (synced, remaining int, err error) {
	if !f.monitor.IsOnline() {
		f.mu.RLock()
		remaining = len(f.pending)
		f.mu.RUnlock()
		return 0, remaining, shared.ErrOffline
	}
	if !f.draining.CompareAndSwap(false, true) {
		return 0, 0, shared.ErrDrainInProgress
	}
	defer f.draining.Store(false)

	queued, err := f.queue.ListPending(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list pending orders: %w", err)
	}
	if len(queued) == 0 {
		return 0, 0, nil
	}

	for _, pending := range queued {
		order, createErr := f.remote.CreateOrder(ctx, pending.Draft)
		if createErr != nil {
			err = fmt.Errorf("submit queued order %s: %w", pending.TempID, createErr)
			break
		}
		if removeErr := f.queue.Remove(ctx, pending.TempID); removeErr != nil {
			// the order reached the server; keeping the entry would replay it
			err = fmt.Errorf("dequeue order %s: %w", pending.TempID, removeErr)
			f.dropPending(pending.TempID)
			f.mergeOrder(ctx, *order)
			synced++
			break
		}
		f.dropPending(pending.TempID)
		f.mergeOrder(ctx, *order)
		synced++
		f.logger.Info("Queued order synced",
			zap.String("temp_id", pending.TempID),
			zap.String("order_id", order.ID),
			zap.String("order_number", order.OrderNumber),
		)
	}

	remaining = len(queued) - synced
	if synced > 0 {
		if markErr := f.store.SetLastSync(ctx, f.clock()); markErr != nil {
			f.logger.Warn("Failed to record last sync time", zap.Error(markErr))
		}
	}
	return synced, remaining, err
}

// dropPending removes one entry from the in-memory pending view
func (f *Facade) dropPending(tempID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.pending {
		if p.TempID == tempID {
			f.pending = append(f.pending[:i], f.pending[i+1:]...)
			return
		}
	}
}

// mergeOrder folds a server-acknowledged order into the orders view and
// re-persists the orders snapshot. Cache write failures are logged, not
// surfaced: the write already succeeded remotely.
func (f *Facade) mergeOrder(ctx context.Context, order trade.Order) {
	f.mu.Lock()
	f.orders = offline.MergeByKey(f.orders, []trade.Order{order})
	payload, err := offline.EncodeRecords(f.orders)
	f.mu.Unlock()

	if err != nil {
		f.logger.Warn("Failed to encode orders snapshot", zap.Error(err))
		return
	}
	if err := f.store.SaveSnapshot(ctx, offline.EntityOrders, payload); err != nil {
		f.logger.Warn("Failed to persist orders snapshot", zap.Error(err))
	}
}

// CreateRecord creates a product, category or customer remotely and folds the
// server copy into the cache. Requires connectivity; only orders can be
// written offline.
func (f *Facade) CreateRecord(ctx context.Context, entityType offline.EntityType, doc json.RawMessage) (json.RawMessage, error) {
	if err := f.checkRecordWrite(entityType); err != nil {
		return nil, err
	}

	created, err := f.remote.CreateRecord(ctx, entityType, doc)
	if err != nil {
		return nil, err
	}
	f.mergeRecord(ctx, entityType, created)
	return created, nil
}

// UpdateRecord updates a product, category or customer remotely and folds the
// server copy into the cache. Soft deletes arrive here as isActive=false.
func (f *Facade) UpdateRecord(ctx context.Context, entityType offline.EntityType, id string, doc json.RawMessage) (json.RawMessage, error) {
	if err := f.checkRecordWrite(entityType); err != nil {
		return nil, err
	}

	updated, err := f.remote.UpdateRecord(ctx, entityType, id, doc)
	if err != nil {
		return nil, err
	}
	f.mergeRecord(ctx, entityType, updated)
	return updated, nil
}

// DeleteRecord removes a product, category or customer remotely and from the
// cache
func (f *Facade) DeleteRecord(ctx context.Context, entityType offline.EntityType, id string) error {
	if err := f.checkRecordWrite(entityType); err != nil {
		return err
	}

	if err := f.remote.RemoveRecord(ctx, entityType, id); err != nil {
		return err
	}

	f.mu.Lock()
	switch entityType {
	case offline.EntityProducts:
		f.products = removeByKey(f.products, id)
	case offline.EntityCategories:
		f.categories = removeByKey(f.categories, id)
	case offline.EntityCustomers:
		f.customers = removeByKey(f.customers, id)
	}
	f.mu.Unlock()

	f.persistView(ctx, entityType)
	return nil
}

// AddProduct creates a product remotely and returns the server copy
func (f *Facade) AddProduct(ctx context.Context, doc json.RawMessage) (catalog.Product, error) {
	created, err := f.CreateRecord(ctx, offline.EntityProducts, doc)
	if err != nil {
		return catalog.Product{}, err
	}
	return catalog.ProductFromDocument(created)
}

// UpdateProduct updates a product remotely and returns the server copy
func (f *Facade) UpdateProduct(ctx context.Context, id string, doc json.RawMessage) (catalog.Product, error) {
	updated, err := f.UpdateRecord(ctx, offline.EntityProducts, id, doc)
	if err != nil {
		return catalog.Product{}, err
	}
	return catalog.ProductFromDocument(updated)
}

// DeleteProduct soft-deletes a product
func (f *Facade) DeleteProduct(ctx context.Context, id string) error {
	return f.DeleteRecord(ctx, offline.EntityProducts, id)
}

// AddCategory creates a category remotely and returns the server copy
func (f *Facade) AddCategory(ctx context.Context, doc json.RawMessage) (catalog.Category, error) {
	created, err := f.CreateRecord(ctx, offline.EntityCategories, doc)
	if err != nil {
		return catalog.Category{}, err
	}
	return catalog.CategoryFromDocument(created)
}

// UpdateCategory updates a category remotely and returns the server copy
func (f *Facade) UpdateCategory(ctx context.Context, id string, doc json.RawMessage) (catalog.Category, error) {
	updated, err := f.UpdateRecord(ctx, offline.EntityCategories, id, doc)
	if err != nil {
		return catalog.Category{}, err
	}
	return catalog.CategoryFromDocument(updated)
}

// AddCustomer creates a customer remotely and returns the server copy
func (f *Facade) AddCustomer(ctx context.Context, doc json.RawMessage) (partner.Customer, error) {
	created, err := f.CreateRecord(ctx, offline.EntityCustomers, doc)
	if err != nil {
		return partner.Customer{}, err
	}
	return partner.CustomerFromDocument(created)
}

// UpdateCustomer updates a customer remotely and returns the server copy
func (f *Facade) UpdateCustomer(ctx context.Context, id string, doc json.RawMessage) (partner.Customer, error) {
	updated, err := f.UpdateRecord(ctx, offline.EntityCustomers, id, doc)
	if err != nil {
		return partner.Customer{}, err
	}
	return partner.CustomerFromDocument(updated)
}

// DeleteCustomer soft-deletes a customer
func (f *Facade) DeleteCustomer(ctx context.Context, id string) error {
	return f.DeleteRecord(ctx, offline.EntityCustomers, id)
}

func (f *Facade) checkRecordWrite(entityType offline.EntityType) error {
	if !entityType.IsValid() || entityType == offline.EntityOrders {
		return shared.ErrInvalidInput
	}
	if !f.monitor.IsOnline() {
		return shared.ErrOffline
	}
	return nil
}

// mergeRecord decodes a server document and folds it into the matching view
func (f *Facade) mergeRecord(ctx context.Context, entityType offline.EntityType, doc json.RawMessage) {
	f.mu.Lock()
	var err error
	switch entityType {
	case offline.EntityProducts:
		var product catalog.Product
		if product, err = catalog.ProductFromDocument(doc); err == nil {
			f.products = offline.MergeByKey(f.products, []catalog.Product{product})
		}
	case offline.EntityCategories:
		var category catalog.Category
		if category, err = catalog.CategoryFromDocument(doc); err == nil {
			f.categories = offline.MergeByKey(f.categories, []catalog.Category{category})
		}
	case offline.EntityCustomers:
		var customer partner.Customer
		if customer, err = partner.CustomerFromDocument(doc); err == nil {
			f.customers = offline.MergeByKey(f.customers, []partner.Customer{customer})
		}
	}
	f.mu.Unlock()

	if err != nil {
		f.logger.Warn("Failed to decode server document",
			zap.String("entity_type", entityType.String()),
			zap.Error(err),
		)
		return
	}
	f.persistView(ctx, entityType)
}

// persistView re-persists the snapshot for one entity type from the current
// in-memory view. Failures are logged, not surfaced.
func (f *Facade) persistView(ctx context.Context, entityType offline.EntityType) {
	f.mu.RLock()
	var payload []byte
	var err error
	switch entityType {
	case offline.EntityProducts:
		payload, err = offline.EncodeRecords(f.products)
	case offline.EntityCategories:
		payload, err = offline.EncodeRecords(f.categories)
	case offline.EntityCustomers:
		payload, err = offline.EncodeRecords(f.customers)
	case offline.EntityOrders:
		payload, err = offline.EncodeRecords(f.orders)
	}
	f.mu.RUnlock()

	if err != nil {
		f.logger.Warn("Failed to encode snapshot", zap.String("entity_type", entityType.String()), zap.Error(err))
		return
	}
	if err := f.store.SaveSnapshot(ctx, entityType, payload); err != nil {
		f.logger.Warn("Failed to persist snapshot", zap.String("entity_type", entityType.String()), zap.Error(err))
	}
}

func removeByKey[T offline.Keyed](records []T, key string) []T {
	for i, record := range records {
		if record.Key() == key {
			return append(records[:i], records[i+1:]...)
		}
	}
	return records
}
