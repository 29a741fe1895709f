package kvstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sqlEntry struct {
	Key       string    `gorm:"column:state_key;primaryKey"`
	Value     string    `gorm:"column:state_value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (sqlEntry) TableName() string { return "storefront_kv" }

// SQL stores shopper state in the storefront_kv table (see pkg/migrate).
type SQL struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSQL(db *gorm.DB) *SQL {
	return &SQL{db: db, now: time.Now}
}

func (s *SQL) Get(ctx context.Context, key string) (string, bool, error) {
	var row sqlEntry
	err := s.db.WithContext(ctx).
		Where("state_key = ?", key).
		Take(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return row.Value, true, nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	row := sqlEntry{Key: key, Value: value, UpdatedAt: s.now().UTC()}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "state_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"state_value", "updated_at"}),
		}).
		Create(&row).
		Error
}

func (s *SQL) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).
		Where("state_key = ?", key).
		Delete(&sqlEntry{}).
		Error
}

func (s *SQL) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
