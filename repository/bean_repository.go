// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/DavidIrvine-TW/tombola/models"
	"gorm.io/gorm"
)

// BeanRepositoryImpl implements BeanRepository interface
type BeanRepositoryImpl struct {
	*BaseRepository[models.Bean, models.BeanFilter]
}

// NewBeanRepository creates a new bean repository
func NewBeanRepository(db *gorm.DB) BeanRepository {
	return &BeanRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Bean, models.BeanFilter](db),
	}
}

// ByFilter retrieves beans based on filter criteria
func (r *BeanRepositoryImpl) ByFilter(ctx context.Context, filter models.BeanFilter, orderBy string, limit, offset int) ([]*models.Bean, error) {
	db := r.getDB(ctx)

	query := r.applyFilter(db.Model(&models.Bean{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var beans []*models.Bean
	if err := query.Find(&beans).Error; err != nil {
		return nil, fmt.Errorf("failed to find beans by filter: %w", err)
	}
	return beans, nil
}

// Count returns the number of beans matching the filter
func (r *BeanRepositoryImpl) Count(ctx context.Context, filter models.BeanFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := r.applyFilter(db.Model(&models.Bean{}), filter).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count beans: %w", err)
	}
	return count, nil
}

// DistinctColours returns the distinct roast types across the catalog, sorted ascending
func (r *BeanRepositoryImpl) DistinctColours(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, "colour")
}

// DistinctCountries returns the distinct origin countries across the catalog, sorted ascending
func (r *BeanRepositoryImpl) DistinctCountries(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, "country")
}

func (r *BeanRepositoryImpl) distinctColumn(ctx context.Context, column string) ([]string, error) {
	db := r.getDB(ctx)

	var values []string
	err := db.Model(&models.Bean{}).
		Distinct(column).
		Order(column + " ASC").
		Pluck(column, &values).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct %s values: %w", column, err)
	}
	return values, nil
}

// SetBotd clears the bean-of-the-day flag on every bean and sets it on the
// given one. Callers run this inside the same transaction as the history
// insert so the flag and the log never diverge.
func (r *BeanRepositoryImpl) SetBotd(ctx context.Context, beanID uint) error {
	db := r.getDB(ctx)

	if err := db.Model(&models.Bean{}).Where("is_botd = ?", true).Update("is_botd", false).Error; err != nil {
		return fmt.Errorf("failed to clear botd flags: %w", err)
	}
	res := db.Model(&models.Bean{}).Where("id = ?", beanID).Update("is_botd", true)
	if res.Error != nil {
		return fmt.Errorf("failed to set botd flag on bean %d: %w", beanID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("bean %d not found while setting botd flag", beanID)
	}
	return nil
}

// applyFilter applies filter criteria to a GORM query
func (r *BeanRepositoryImpl) applyFilter(query *gorm.DB, filter models.BeanFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Search != nil && *filter.Search != "" {
		pattern := "%" + strings.ToLower(*filter.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(country) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filter.Country != nil && *filter.Country != "" {
		query = query.Where("country = ?", *filter.Country)
	}
	if filter.Colour != nil && *filter.Colour != "" {
		query = query.Where("colour = ?", *filter.Colour)
	}
	if filter.IsBotd != nil {
		query = query.Where("is_botd = ?", *filter.IsBotd)
	}
	return query
}
