package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"entity-store/core/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TableName is the cache table.
const TableName = "entity_cache"

// Entry is one cached snapshot row.
type Entry struct {
	CacheKey  string    `gorm:"column:cache_key;primaryKey;size:191"`
	Value     string    `gorm:"column:value;type:text"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName implements gorm's Tabler.
func (Entry) TableName() string {
	return TableName
}

// DatabaseStorage keeps snapshots in a SQL table.
type DatabaseStorage struct {
	db *gorm.DB
}

// NewDatabaseStorage wraps db. Call Migrate before first use on a fresh database.
func NewDatabaseStorage(db *gorm.DB) *DatabaseStorage {
	return &DatabaseStorage{db: db}
}

// Migrate creates or updates the cache table and verifies its columns.
func (s *DatabaseStorage) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&Entry{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", TableName, err)
	}
	return database.RequireColumns(s.db.WithContext(ctx), TableName, "cache_key", "value", "updated_at")
}

func (s *DatabaseStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	var e Entry
	err := s.db.WithContext(ctx).Where("cache_key = ?", key).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	return e.Value, true, nil
}

func (s *DatabaseStorage) SetItem(ctx context.Context, key, value string) error {
	e := Entry{CacheKey: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

func (s *DatabaseStorage) RemoveItem(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("cache_key = ?", key).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("failed to remove cache key %s: %w", key, err)
	}
	return nil
}

func (s *DatabaseStorage) Purge(ctx context.Context, prefix string) (int, error) {
	res := s.db.WithContext(ctx).Where("cache_key LIKE ?", prefix+"-%").Delete(&Entry{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to purge cache prefix %s: %w", prefix, res.Error)
	}
	return int(res.RowsAffected), nil
}
