package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DavidIrvine-TW/tombola/models"
	testingutil "github.com/DavidIrvine-TW/tombola/testing"
	"github.com/DavidIrvine-TW/tombola/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createBean(t *testing.T, testDB *testingutil.TestDB, index int, name, colour, country string) *models.Bean {
	t.Helper()
	bean := &models.Bean{
		UUID:        uuid.New(),
		Index:       index,
		Cost:        "£20.00",
		Colour:      colour,
		Name:        name,
		Description: "A bean called " + name,
		Country:     country,
		CreatedAt:   utils.UTCNow(),
		UpdatedAt:   utils.UTCNow(),
	}
	require.NoError(t, testDB.DB.Create(bean).Error)
	return bean
}

func TestBeanRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := NewBeanRepository(testDB.DB)

		t.Run("ByIDMissingReturnsNil", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			bean, err := repo.ByID(context.Background(), 12345)
			require.NoError(t, err)
			assert.Nil(t, bean)
		})

		t.Run("SetBotdClearsOtherFlags", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			a := createBean(t, testDB, 0, "Klugo", "dark roast", "Colombia")
			b := createBean(t, testDB, 1, "Zylar", "light roast", "Peru")

			require.NoError(t, repo.SetBotd(context.Background(), a.ID))
			require.NoError(t, repo.SetBotd(context.Background(), b.ID))

			var flagged []models.Bean
			require.NoError(t, testDB.DB.Where("is_botd = TRUE").Find(&flagged).Error)
			require.Len(t, flagged, 1)
			assert.Equal(t, b.ID, flagged[0].ID)
		})

		t.Run("SetBotdUnknownBean", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			err := repo.SetBotd(context.Background(), 99999)
			assert.Error(t, err)
		})

		t.Run("DistinctFacets", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			createBean(t, testDB, 0, "Klugo", "dark roast", "Colombia")
			createBean(t, testDB, 1, "Zylar", "dark roast", "Peru")
			createBean(t, testDB, 2, "Borado", "light roast", "Colombia")

			colours, err := repo.DistinctColours(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []string{"dark roast", "light roast"}, colours)

			countries, err := repo.DistinctCountries(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []string{"Colombia", "Peru"}, countries)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestBotdHistoryRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := NewBotdHistoryRepository(testDB.DB)

		t.Run("ByDateMissingReturnsNil", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			entry, err := repo.ByDate(context.Background(), "2026-06-10")
			require.NoError(t, err)
			assert.Nil(t, entry)
		})

		t.Run("DuplicateDateIsUniqueViolation", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			bean := createBean(t, testDB, 0, "Klugo", "dark roast", "Colombia")

			first := &models.BotdHistory{BeanID: bean.ID, Date: "2026-06-10"}
			require.NoError(t, repo.Save(context.Background(), first))

			second := &models.BotdHistory{BeanID: bean.ID, Date: "2026-06-10"}
			err := repo.Save(context.Background(), second)
			require.Error(t, err)
			assert.True(t, IsUniqueViolation(err))
		})

		t.Run("OtherErrorsAreNotUniqueViolations", func(t *testing.T) {
			assert.False(t, IsUniqueViolation(nil))
			assert.False(t, IsUniqueViolation(errors.New("connection refused")))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestOrderRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := NewOrderRepository(testDB.DB)

		t.Run("ListWithBeanNameJoins", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			bean := createBean(t, testDB, 0, "Klugo", "dark roast", "Colombia")

			order := &models.Order{
				UUID:         uuid.New(),
				BeanID:       bean.ID,
				CustomerName: "Jane Doe",
				Email:        "jane@example.com",
				Quantity:     2,
				TotalCost:    "£40.00",
				CreatedAt:    utils.UTCNow(),
			}
			require.NoError(t, repo.Save(context.Background(), order))

			rows, err := repo.ListWithBeanName(context.Background())
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, "Klugo", rows[0].BeanName)
			assert.Equal(t, "£40.00", rows[0].TotalCost)
		})

		t.Run("DeleteAll", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			bean := createBean(t, testDB, 0, "Klugo", "dark roast", "Colombia")

			for i := 0; i < 3; i++ {
				order := &models.Order{
					UUID:         uuid.New(),
					BeanID:       bean.ID,
					CustomerName: "Jane Doe",
					Email:        "jane@example.com",
					Quantity:     1,
					TotalCost:    "£20.00",
					CreatedAt:    utils.UTCNow(),
				}
				require.NoError(t, repo.Save(context.Background(), order))
			}

			require.NoError(t, repo.DeleteAll(context.Background()))

			count, err := repo.Count(context.Background(), models.OrderFilter{})
			require.NoError(t, err)
			assert.Equal(t, int64(0), count)
		})

		return nil
	})
	require.NoError(t, err)
}
