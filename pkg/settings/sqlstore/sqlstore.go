// Package sqlstore keeps option documents in an SQL options table via gorm.
package sqlstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"quantwp/internal/models"
	"quantwp/pkg/settings"
)

var (
	ErrOpen    = errors.New("failed to open options database")
	ErrMigrate = errors.New("failed to migrate options table")
)

type Store struct {
	db *gorm.DB
}

// Open connects to the sqlite database at dsn and ensures the options table.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	return New(db)
}

// New wraps an existing gorm connection.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&models.Option{}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMigrate, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, name string) (map[string]interface{}, error) {
	var opt models.Option
	err := s.db.WithContext(ctx).Where("name = ?", name).Take(&opt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return map[string]interface{}{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read option %s: %w", name, err)
	}

	values := map[string]interface{}{}
	if len(opt.Value) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(opt.Value, &values); err != nil {
		return nil, fmt.Errorf("option %s: %w: %v", name, settings.ErrDecodeRecord, err)
	}
	return values, nil
}

// Put upserts the option row in one statement.
func (s *Store) Put(ctx context.Context, name string, value map[string]interface{}) error {
	if name == "" {
		return settings.ErrOptionNameEmpty
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode option %s: %w", name, err)
	}

	opt := models.Option{
		Name:      name,
		Value:     datatypes.JSON(raw),
		Autoload:  true,
		UpdatedAt: time.Now(),
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&opt).Error
	if err != nil {
		return fmt.Errorf("write option %s: %w", name, err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
