package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/liuran001/tunebot/bot"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const sendCountKey = "send_count"

// Repository provides access to the delivery cache database.
type Repository struct {
	db *gorm.DB
}

// NewSQLiteRepository creates a repository backed by SQLite.
func NewSQLiteRepository(dsn string, gormLogger logger.Interface) (*Repository, error) {
	if dsn == "" {
		return nil, fmt.Errorf("dsn required")
	}

	if gormLogger == nil {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	dbDir := filepath.Dir(dsn)
	if dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 gormLogger,
	})
	if err != nil {
		return nil, err
	}

	if err := applySQLitePragmas(db); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&DeliveryModel{}, &UserSettingsModel{}, &BotStatModel{}); err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Repository{db: db}, nil
}

// FindByURL returns the cached delivery for url, or nil when there is none.
func (r *Repository) FindByURL(ctx context.Context, url string) (*bot.Delivery, error) {
	var model DeliveryModel
	err := r.db.WithContext(ctx).Where("url = ?", url).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toInternal(model), nil
}

// Create inserts a delivery, replacing any previous one for the same URL.
func (r *Repository) Create(ctx context.Context, delivery *bot.Delivery) error {
	if delivery == nil {
		return errors.New("nil delivery")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := toModel(delivery)
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "url"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"deleted_at",
				"updated_at",
				"platform",
				"title",
				"artist",
				"genre",
				"featuring",
				"file_id",
				"file_size",
				"from_user_id",
				"from_chat_id",
				"display_name",
			}),
		}).Create(model).Error; err != nil {
			return err
		}
		if err := tx.Where("url = ?", model.URL).First(model).Error; err != nil {
			return err
		}
		delivery.ID = model.ID
		delivery.CreatedAt = model.CreatedAt
		delivery.UpdatedAt = model.UpdatedAt
		return nil
	})
}

// DeleteByURL forgets the cached delivery for url.
func (r *Repository) DeleteByURL(ctx context.Context, url string) error {
	return r.db.WithContext(ctx).Unscoped().Where("url = ?", url).Delete(&DeliveryModel{}).Error
}

// Count returns the number of cached deliveries.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DeliveryModel{}).Count(&count).Error
	return count, err
}

// CountByUserID returns cached count by user ID.
func (r *Repository) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DeliveryModel{}).Where("from_user_id = ?", userID).Count(&count).Error
	return count, err
}

// Last returns the most recent delivery, or nil when the cache is empty.
func (r *Repository) Last(ctx context.Context) (*bot.Delivery, error) {
	var model DeliveryModel
	err := r.db.WithContext(ctx).Last(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toInternal(model), nil
}

// GetSendCount returns total successful send count.
func (r *Repository) GetSendCount(ctx context.Context) (int64, error) {
	if r == nil || r.db == nil {
		return 0, errors.New("repository not configured")
	}
	var stat BotStatModel
	err := r.db.WithContext(ctx).Where("key = ?", sendCountKey).First(&stat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return stat.Value, nil
}

// IncrementSendCount increments total successful send count.
func (r *Repository) IncrementSendCount(ctx context.Context) error {
	if r == nil || r.db == nil {
		return errors.New("repository not configured")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&BotStatModel{}).Where("key = ?", sendCountKey).UpdateColumn("value", gorm.Expr("value + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		return tx.Create(&BotStatModel{Key: sendCountKey, Value: 1}).Error
	})
}

// GetUserSettings returns the user's stored settings, or nil when none exist.
func (r *Repository) GetUserSettings(ctx context.Context, userID int64) (*bot.UserSettings, error) {
	var settings UserSettingsModel
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return userSettingsToInternal(settings), nil
}

// UpdateUserSettings creates or updates the settings keyed by UserID.
func (r *Repository) UpdateUserSettings(ctx context.Context, settings *bot.UserSettings) error {
	if settings == nil {
		return errors.New("nil settings")
	}
	model := UserSettingsModel{UserID: settings.UserID, Language: settings.Language}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"updated_at", "language"}),
	}).Create(&model).Error
}

// Close closes the underlying database connection.
func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	return sqlDB.Close()
}

func applySQLitePragmas(db *gorm.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA cache_size=-64000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, stmt := range pragmas {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
