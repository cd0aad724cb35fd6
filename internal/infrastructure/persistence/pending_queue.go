package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/salesapp/client/internal/domain/offline"
	"github.com/salesapp/client/internal/domain/trade"
)

// PendingOrderModel is the GORM model for the offline pending-order queue.
// Seq preserves enqueue order so the drain replays oldest first.
type PendingOrderModel struct {
	Seq      uint      `gorm:"primaryKey;autoIncrement"`
	TempID   string    `gorm:"uniqueIndex;type:varchar(64);not null"`
	Payload  []byte    `gorm:"type:blob;not null"`
	QueuedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the model
func (PendingOrderModel) TableName() string {
	return "pending_orders"
}

// PendingQueue implements offline.PendingQueue on the cache database
type PendingQueue struct {
	db *gorm.DB
}

// NewPendingQueue creates a pending-order queue backed by the cache database
func NewPendingQueue(database *Database) *PendingQueue {
	return &PendingQueue{db: database.DB}
}

var _ offline.PendingQueue = (*PendingQueue)(nil)

// Enqueue appends a pending order to the queue
func (q *PendingQueue) Enqueue(ctx context.Context, pending trade.PendingOrder) error {
	payload, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("failed to encode pending order: %w", err)
	}
	model := PendingOrderModel{
		TempID:   pending.TempID,
		Payload:  payload,
		QueuedAt: pending.QueuedAt,
	}
	return q.db.WithContext(ctx).Create(&model).Error
}

// ListPending returns all queued orders, oldest first
func (q *PendingQueue) ListPending(ctx context.Context) ([]trade.PendingOrder, error) {
	var models []PendingOrderModel
	if err := q.db.WithContext(ctx).Order("seq ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	pending := make([]trade.PendingOrder, 0, len(models))
	for _, model := range models {
		var p trade.PendingOrder
		if err := json.Unmarshal(model.Payload, &p); err != nil {
			return nil, fmt.Errorf("failed to decode pending order %s: %w", model.TempID, err)
		}
		pending = append(pending, p)
	}
	return pending, nil
}

// Remove deletes the queue entry with the given temp ID, if present
func (q *PendingQueue) Remove(ctx context.Context, tempID string) error {
	return q.db.WithContext(ctx).Where("temp_id = ?", tempID).Delete(&PendingOrderModel{}).Error
}

// Clear removes all queued orders
func (q *PendingQueue) Clear(ctx context.Context) error {
	return q.db.WithContext(ctx).Where("1 = 1").Delete(&PendingOrderModel{}).Error
}
