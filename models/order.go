package models

import (
	"time"

	"github.com/google/uuid"
)

// Order represents a placed customer order for a bean.
// Table: orders
// TotalCost is computed server-side from the bean's unit price and the
// ordered quantity, stored in the same currency-string representation as
// Bean.Cost. CreatedAt is server-assigned.
type Order struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_orders_uuid" json:"uuid"`

	BeanID       uint   `gorm:"not null;index:idx_orders_bean_id" json:"bean_id"`
	Bean         Bean   `gorm:"foreignKey:BeanID" json:"-"`
	CustomerName string `gorm:"size:255;not null" json:"customer_name"`
	Email        string `gorm:"size:255;not null" json:"email"`
	Quantity     int    `gorm:"not null" json:"quantity"`
	TotalCost    string `gorm:"size:32;not null" json:"total_cost"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_orders_created_at" json:"created_at"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderWithBean is the read model for order listings joined with the
// ordered bean's display name.
type OrderWithBean struct {
	ID           uint      `json:"id"`
	UUID         uuid.UUID `json:"uuid"`
	BeanID       uint      `json:"bean_id"`
	BeanName     string    `json:"bean_name"`
	CustomerName string    `json:"customer_name"`
	Email        string    `json:"email"`
	Quantity     int       `json:"quantity"`
	TotalCost    string    `json:"total_cost"`
	CreatedAt    time.Time `json:"created_at"`
}

// OrderFilter represents filter criteria for order queries
type OrderFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	BeanID        *uint
	Email         *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
