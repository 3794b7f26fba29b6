package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rl1809/pos-journal/internal/core/domain"
)

type stateRecord struct {
	Key       string `gorm:"column:state_key;primaryKey"`
	Payload   []byte `gorm:"column:payload;not null"`
	UpdatedAt time.Time
}

func (stateRecord) TableName() string {
	return "pos_state"
}

// SQLiteAdapter stores the journal blob in a local SQLite file.
type SQLiteAdapter struct {
	db  *gorm.DB
	key string
}

// OpenSQLite opens (creating if needed) the database at path and migrates
// the state table.
func OpenSQLite(path, key string) (*SQLiteAdapter, error) {
	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	return NewSQLiteAdapter(db, key)
}

func NewSQLiteAdapter(db *gorm.DB, key string) (*SQLiteAdapter, error) {
	if key == "" {
		key = DefaultStateKey
	}
	if err := db.AutoMigrate(&stateRecord{}); err != nil {
		return nil, fmt.Errorf("migrate pos_state: %w", err)
	}
	return &SQLiteAdapter{db: db, key: key}, nil
}

func (s *SQLiteAdapter) Load(ctx context.Context) (domain.State, error) {
	var rec stateRecord
	err := s.db.WithContext(ctx).Where("state_key = ?", s.key).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.EmptyState(), nil
	}
	if err != nil {
		return domain.EmptyState(), fmt.Errorf("query state: %w", err)
	}

	return decodeState(rec.Payload)
}

func (s *SQLiteAdapter) Save(ctx context.Context, state domain.State) error {
	payload, err := encodeState(state)
	if err != nil {
		return err
	}

	rec := stateRecord{Key: s.key, Payload: payload, UpdatedAt: time.Now()}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "state_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("upsert state: %w", err)
	}
	return nil
}

func (s *SQLiteAdapter) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
