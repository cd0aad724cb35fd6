package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/salesapp/client/internal/domain/offline"
)

// SnapshotModel is the GORM model for cached collection snapshots.
// One row per entity type; saving replaces the whole payload.
type SnapshotModel struct {
	EntityType string    `gorm:"primaryKey;type:varchar(32)"`
	Payload    []byte    `gorm:"type:blob;not null"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for the model
func (SnapshotModel) TableName() string {
	return "snapshots"
}

// SnapshotStore implements offline.SnapshotStore on the cache database
type SnapshotStore struct {
	db *gorm.DB
}

// NewSnapshotStore creates a snapshot store backed by the cache database
func NewSnapshotStore(database *Database) *SnapshotStore {
	return &SnapshotStore{db: database.DB}
}

var _ offline.SnapshotStore = (*SnapshotStore)(nil)

// SaveSnapshot replaces the stored snapshot for the entity type
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, entityType offline.EntityType, payload []byte) error {
	model := SnapshotModel{EntityType: entityType.String(), Payload: payload}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entity_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&model).Error
}

// LoadSnapshot returns the stored snapshot payload, or nil when none exists
func (s *SnapshotStore) LoadSnapshot(ctx context.Context, entityType offline.EntityType) ([]byte, error) {
	var model SnapshotModel
	err := s.db.WithContext(ctx).First(&model, "entity_type = ?", entityType.String()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.Payload, nil
}

// SetLastSync records the completion time of the latest successful sync
func (s *SnapshotStore) SetLastSync(ctx context.Context, at time.Time) error {
	return setStateValue(ctx, s.db, stateKeyLastSync, at.UTC().Format(time.RFC3339Nano))
}

// LastSync returns the completion time of the latest successful sync, or the
// zero time when no sync has completed yet
func (s *SnapshotStore) LastSync(ctx context.Context) (time.Time, error) {
	value, err := stateValue(ctx, s.db, stateKeyLastSync)
	if err != nil || value == "" {
		return time.Time{}, err
	}
	at, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, err
	}
	return at, nil
}

// Clear removes all snapshots and sync bookkeeping
func (s *SnapshotStore) Clear(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Where("1 = 1").Delete(&SnapshotModel{}).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Where("1 = 1").Delete(&SyncStateModel{}).Error
}
