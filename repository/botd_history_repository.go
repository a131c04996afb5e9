// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/DavidIrvine-TW/tombola/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

// BotdHistoryRepositoryImpl implements BotdHistoryRepository interface
type BotdHistoryRepositoryImpl struct {
	*BaseRepository[models.BotdHistory, models.BotdHistoryFilter]
}

// NewBotdHistoryRepository creates a new bean-of-the-day history repository
func NewBotdHistoryRepository(db *gorm.DB) BotdHistoryRepository {
	return &BotdHistoryRepositoryImpl{
		BaseRepository: NewBaseRepository[models.BotdHistory, models.BotdHistoryFilter](db),
	}
}

// ByDate retrieves the history entry for the given YYYY-MM-DD date, or nil
// when no selection has been recorded for that day.
func (r *BotdHistoryRepositoryImpl) ByDate(ctx context.Context, date string) (*models.BotdHistory, error) {
	db := r.getDB(ctx)

	var entry models.BotdHistory
	err := db.Where("date = ?", date).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find botd history for %s: %w", date, err)
	}
	return &entry, nil
}

// ByFilter retrieves history entries based on filter criteria
func (r *BotdHistoryRepositoryImpl) ByFilter(ctx context.Context, filter models.BotdHistoryFilter, orderBy string, limit, offset int) ([]*models.BotdHistory, error) {
	db := r.getDB(ctx)

	query := r.applyFilter(db.Model(&models.BotdHistory{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var entries []*models.BotdHistory
	if err := query.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to find botd history by filter: %w", err)
	}
	return entries, nil
}

// Count returns the number of history entries matching the filter
func (r *BotdHistoryRepositoryImpl) Count(ctx context.Context, filter models.BotdHistoryFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := r.applyFilter(db.Model(&models.BotdHistory{}), filter).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count botd history: %w", err)
	}
	return count, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *BotdHistoryRepositoryImpl) applyFilter(query *gorm.DB, filter models.BotdHistoryFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.BeanID != nil {
		query = query.Where("bean_id = ?", *filter.BeanID)
	}
	if filter.Date != nil {
		query = query.Where("date = ?", *filter.Date)
	}
	return query
}

// IsUniqueViolation reports whether err is a unique-constraint failure. The
// botd_history date constraint relies on this to detect when a concurrent
// caller has already persisted today's selection.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}
	return false
}
