// Package testing provides test utilities and database setup for testing the catalog and ordering system
package testing

import (
	"fmt"
	"math/rand"

	"github.com/DavidIrvine-TW/tombola/models"
	"github.com/DavidIrvine-TW/tombola/utils"
	"github.com/google/uuid"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestBean creates a catalog bean with sensible defaults
func (tf *TestFixtures) CreateTestBean(index int, name string) (*models.Bean, error) {
	bean := &models.Bean{
		UUID:        uuid.New(),
		Index:       index,
		IsBotd:      false,
		Cost:        fmt.Sprintf("£%d.%02d", rand.Intn(40)+10, rand.Intn(100)),
		Image:       "https://images.example.com/beans/placeholder.jpg",
		Colour:      "dark roast",
		Name:        name,
		Description: fmt.Sprintf("Test bean %s with notes of chocolate and citrus", name),
		Country:     "Colombia",
		CreatedAt:   utils.UTCNow(),
		UpdatedAt:   utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(bean).Error; err != nil {
		return nil, fmt.Errorf("failed to create test bean: %w", err)
	}

	return bean, nil
}

// CreateTestBeanFull creates a catalog bean with explicit attributes
func (tf *TestFixtures) CreateTestBeanFull(index int, name, cost, colour, country string) (*models.Bean, error) {
	bean := &models.Bean{
		UUID:        uuid.New(),
		Index:       index,
		IsBotd:      false,
		Cost:        cost,
		Image:       "https://images.example.com/beans/placeholder.jpg",
		Colour:      colour,
		Name:        name,
		Description: fmt.Sprintf("Test bean %s", name),
		Country:     country,
		CreatedAt:   utils.UTCNow(),
		UpdatedAt:   utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(bean).Error; err != nil {
		return nil, fmt.Errorf("failed to create test bean: %w", err)
	}

	return bean, nil
}

// CreateTestOrder creates an order for the given bean
func (tf *TestFixtures) CreateTestOrder(beanID uint, quantity int, totalCost string) (*models.Order, error) {
	order := &models.Order{
		UUID:         uuid.New(),
		BeanID:       beanID,
		CustomerName: "Jane Doe",
		Email:        fmt.Sprintf("jane.doe.%d@example.com", rand.Intn(1000000)),
		Quantity:     quantity,
		TotalCost:    totalCost,
		CreatedAt:    utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(order).Error; err != nil {
		return nil, fmt.Errorf("failed to create test order: %w", err)
	}

	return order, nil
}

// CreateTestHistory records a bean of the day selection for the given date
func (tf *TestFixtures) CreateTestHistory(beanID uint, date utils.Day) (*models.BotdHistory, error) {
	history := &models.BotdHistory{
		BeanID: beanID,
		Date:   date.String(),
	}

	if err := tf.DB.DB.Create(history).Error; err != nil {
		return nil, fmt.Errorf("failed to create test history: %w", err)
	}

	return history, nil
}
