// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/DavidIrvine-TW/tombola/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
}

// BeanRepository defines operations for catalog beans
type BeanRepository interface {
	Repository[models.Bean, models.BeanFilter]
	DistinctColours(ctx context.Context) ([]string, error)
	DistinctCountries(ctx context.Context) ([]string, error)
	SetBotd(ctx context.Context, beanID uint) error
}

// OrderRepository defines operations for customer orders
type OrderRepository interface {
	Repository[models.Order, models.OrderFilter]
	ListWithBeanName(ctx context.Context) ([]*models.OrderWithBean, error)
	DeleteAll(ctx context.Context) error
}

// BotdHistoryRepository defines operations for the bean-of-the-day history log
type BotdHistoryRepository interface {
	Repository[models.BotdHistory, models.BotdHistoryFilter]
	ByDate(ctx context.Context, date string) (*models.BotdHistory, error)
}
