package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SyncStateModel is the GORM model for sync bookkeeping key-value pairs
type SyncStateModel struct {
	Key       string    `gorm:"primaryKey;type:varchar(64)"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for the model
func (SyncStateModel) TableName() string {
	return "sync_state"
}

const (
	stateKeyLastSync      = "last_sync_at"
	stateKeyLastLaunchDay = "last_launch_day"
)

func setStateValue(ctx context.Context, db *gorm.DB, key, value string) error {
	model := SyncStateModel{Key: key, Value: value}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&model).Error
}

func stateValue(ctx context.Context, db *gorm.DB, key string) (string, error) {
	var model SyncStateModel
	err := db.WithContext(ctx).First(&model, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return model.Value, nil
}

// LaunchTracker records the last calendar day the app was launched
type LaunchTracker struct {
	db *gorm.DB
}

// NewLaunchTracker creates a launch tracker backed by the cache database
func NewLaunchTracker(database *Database) *LaunchTracker {
	return &LaunchTracker{db: database.DB}
}

// FirstLaunchOfDay reports whether now falls on a new calendar day and records
// it as the latest launch. The very first launch ever counts as a new day.
func (t *LaunchTracker) FirstLaunchOfDay(ctx context.Context, now time.Time) (bool, error) {
	day := now.Format("2006-01-02")

	last, err := stateValue(ctx, t.db, stateKeyLastLaunchDay)
	if err != nil {
		return false, err
	}
	if last == day {
		return false, nil
	}
	if err := setStateValue(ctx, t.db, stateKeyLastLaunchDay, day); err != nil {
		return false, err
	}
	return true, nil
}
