// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/DavidIrvine-TW/tombola/models"
	"gorm.io/gorm"
)

// OrderRepositoryImpl implements OrderRepository interface
type OrderRepositoryImpl struct {
	*BaseRepository[models.Order, models.OrderFilter]
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &OrderRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Order, models.OrderFilter](db),
	}
}

// ByFilter retrieves orders based on filter criteria
func (r *OrderRepositoryImpl) ByFilter(ctx context.Context, filter models.OrderFilter, orderBy string, limit, offset int) ([]*models.Order, error) {
	db := r.getDB(ctx)

	query := r.applyFilter(db.Model(&models.Order{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var orders []*models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to find orders by filter: %w", err)
	}
	return orders, nil
}

// Count returns the number of orders matching the filter
func (r *OrderRepositoryImpl) Count(ctx context.Context, filter models.OrderFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := r.applyFilter(db.Model(&models.Order{}), filter).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

// ListWithBeanName returns all orders newest-first, joined with the ordered bean's name
func (r *OrderRepositoryImpl) ListWithBeanName(ctx context.Context) ([]*models.OrderWithBean, error) {
	db := r.getDB(ctx)

	var rows []*models.OrderWithBean
	err := db.Model(&models.Order{}).
		Select("orders.id, orders.uuid, orders.bean_id, beans.name AS bean_name, orders.customer_name, orders.email, orders.quantity, orders.total_cost, orders.created_at").
		Joins("INNER JOIN beans ON beans.id = orders.bean_id").
		Order("orders.created_at DESC, orders.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders with bean names: %w", err)
	}
	return rows, nil
}

// DeleteAll removes every order row
func (r *OrderRepositoryImpl) DeleteAll(ctx context.Context) error {
	db := r.getDB(ctx)

	if err := db.Where("1 = 1").Delete(&models.Order{}).Error; err != nil {
		return fmt.Errorf("failed to delete orders: %w", err)
	}
	return nil
}

// applyFilter applies filter criteria to a GORM query
func (r *OrderRepositoryImpl) applyFilter(query *gorm.DB, filter models.OrderFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.BeanID != nil {
		query = query.Where("bean_id = ?", *filter.BeanID)
	}
	if filter.Email != nil {
		query = query.Where("email = ?", *filter.Email)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return query
}
