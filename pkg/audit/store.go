package audit

import (
	"context"
	"fmt"
	"time"

	"umsshop/pkg/logger"
	"umsshop/pkg/metrics"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const defaultListLimit = 100

// Filter параметры выборки истории для админки
type Filter struct {
	ActionType ActionType
	Manager    string
	Limit      int
}

// Store хранилище истории
type Store interface {
	Append(ctx context.Context, entry *Entry) error
	List(ctx context.Context, filter Filter) ([]Entry, error)
}

type gormStore struct {
	db      *gorm.DB
	service string
}

// NewStore создает хранилище истории в PostgreSQL через GORM
func NewStore(db *gorm.DB, service string) Store {
	return &gormStore{db: db, service: service}
}

// Append вставляет запись, история только дописывается
func (s *gormStore) Append(ctx context.Context, entry *Entry) error {
	timer := metrics.NewDbTimer(s.service, metrics.DbOpInsert, "history")
	defer timer.ObserveDuration()

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		metrics.RecordDbError(s.service, metrics.DbOpInsert)
		return fmt.Errorf("failed to append history entry: %w", err)
	}

	return nil
}

// List возвращает последние записи, новые сверху
func (s *gormStore) List(ctx context.Context, filter Filter) ([]Entry, error) {
	timer := metrics.NewDbTimer(s.service, metrics.DbOpSelect, "history")
	defer timer.ObserveDuration()

	limit := filter.Limit
	if limit <= 0 || limit > 1000 {
		limit = defaultListLimit
	}

	query := s.db.WithContext(ctx).Model(&Entry{})
	if filter.ActionType != "" {
		query = query.Where("action_type = ?", filter.ActionType)
	}
	if filter.Manager != "" {
		query = query.Where("manager = ?", filter.Manager)
	}

	var entries []Entry
	if err := query.Order("timestamp DESC").Limit(limit).Find(&entries).Error; err != nil {
		metrics.RecordDbError(s.service, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	return entries, nil
}

// Connect открывает PostgreSQL для истории с повторными попытками
// (в Docker база может подняться позже сервиса) и мигрирует таблицу history
func Connect(dsn string) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
		if err == nil {
			sqlDB, sqlErr := db.DB()
			if sqlErr != nil {
				err = sqlErr
			} else if err = sqlDB.Ping(); err == nil {
				sqlDB.SetMaxOpenConns(10)
				sqlDB.SetMaxIdleConns(2)
				sqlDB.SetConnMaxLifetime(5 * time.Minute)

				if err = db.AutoMigrate(&Entry{}); err != nil {
					return nil, fmt.Errorf("failed to migrate history table: %w", err)
				}
				return db, nil
			}
		}
		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to history database, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}
