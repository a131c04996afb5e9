package businessflow

import (
	"bytes"
	"context"
	"testing"

	"github.com/DavidIrvine-TW/tombola/app/dto"
	"github.com/DavidIrvine-TW/tombola/models"
	"github.com/DavidIrvine-TW/tombola/repository"
	testingutil "github.com/DavidIrvine-TW/tombola/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestOrderFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		orderRepo := repository.NewOrderRepository(testDB.DB)
		beanRepo := repository.NewBeanRepository(testDB.DB)
		flow := NewOrderFlow(orderRepo, beanRepo)

		t.Run("PlaceOrderComputesTotal", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			bean, err := fixtures.CreateTestBeanFull(0, "Klugo", "£39.26", "dark roast", "Colombia")
			require.NoError(t, err)

			resp, err := flow.PlaceOrder(context.Background(), &dto.CreateOrderRequest{
				BeanID:       bean.ID,
				CustomerName: "Jane Doe",
				Email:        "jane@example.com",
				Quantity:     2,
			}, testMetadata())
			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, "£78.52", resp.Order.TotalCost)
			assert.Equal(t, "Klugo", resp.Order.BeanName)
			assert.NotEmpty(t, resp.Order.UUID)
			assert.NotEmpty(t, resp.Order.CreatedAt)

			// Persisted row carries the derived total, not a client-supplied one
			orders, err := orderRepo.ByFilter(context.Background(), models.OrderFilter{}, "", 0, 0)
			require.NoError(t, err)
			require.Len(t, orders, 1)
			assert.Equal(t, "£78.52", orders[0].TotalCost)
			assert.Equal(t, bean.ID, orders[0].BeanID)
		})

		t.Run("PlaceOrderUnknownBean", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			_, err := flow.PlaceOrder(context.Background(), &dto.CreateOrderRequest{
				BeanID:       99999,
				CustomerName: "Jane Doe",
				Email:        "jane@example.com",
				Quantity:     1,
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, IsBeanNotFound(err))
		})

		t.Run("PlaceOrderZeroQuantity", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			bean, err := fixtures.CreateTestBean(0, "Klugo")
			require.NoError(t, err)

			_, err = flow.PlaceOrder(context.Background(), &dto.CreateOrderRequest{
				BeanID:       bean.ID,
				CustomerName: "Jane Doe",
				Email:        "jane@example.com",
				Quantity:     0,
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, IsQuantityTooLow(err))
		})

		t.Run("PlaceOrderMalformedPrice", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			bean, err := fixtures.CreateTestBeanFull(0, "Broken", "priceless", "dark roast", "Peru")
			require.NoError(t, err)

			_, err = flow.PlaceOrder(context.Background(), &dto.CreateOrderRequest{
				BeanID:       bean.ID,
				CustomerName: "Jane Doe",
				Email:        "jane@example.com",
				Quantity:     1,
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, IsMalformedBeanPrice(err))
		})

		t.Run("ListOrdersNewestFirst", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			bean, err := fixtures.CreateTestBeanFull(0, "Klugo", "£10.00", "dark roast", "Colombia")
			require.NoError(t, err)

			for i := 1; i <= 3; i++ {
				_, err := flow.PlaceOrder(context.Background(), &dto.CreateOrderRequest{
					BeanID:       bean.ID,
					CustomerName: "Jane Doe",
					Email:        "jane@example.com",
					Quantity:     i,
				}, testMetadata())
				require.NoError(t, err)
			}

			resp, err := flow.ListOrders(context.Background(), testMetadata())
			require.NoError(t, err)
			require.Len(t, resp.Items, 3)
			// Same-timestamp rows fall back to id ordering, so the last insert leads
			assert.Equal(t, 3, resp.Items[0].Quantity)
			assert.Equal(t, 1, resp.Items[2].Quantity)
			assert.Equal(t, "Klugo", resp.Items[0].BeanName)
		})

		t.Run("ClearOrders", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			bean, err := fixtures.CreateTestBeanFull(0, "Klugo", "£10.00", "dark roast", "Colombia")
			require.NoError(t, err)
			_, err = fixtures.CreateTestOrder(bean.ID, 1, "£10.00")
			require.NoError(t, err)
			_, err = fixtures.CreateTestOrder(bean.ID, 2, "£20.00")
			require.NoError(t, err)

			resp, err := flow.ClearOrders(context.Background(), testMetadata())
			require.NoError(t, err)
			assert.Equal(t, int64(2), resp.Cleared)

			count, err := orderRepo.Count(context.Background(), models.OrderFilter{})
			require.NoError(t, err)
			assert.Equal(t, int64(0), count)
		})

		t.Run("ExportOrders", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			bean, err := fixtures.CreateTestBeanFull(0, "Klugo", "£10.00", "dark roast", "Colombia")
			require.NoError(t, err)
			_, err = fixtures.CreateTestOrder(bean.ID, 2, "£20.00")
			require.NoError(t, err)

			filename, content, err := flow.ExportOrders(context.Background(), testMetadata())
			require.NoError(t, err)
			assert.Contains(t, filename, "orders_")
			assert.Contains(t, filename, ".xlsx")
			require.NotEmpty(t, content)

			xl, err := excelize.OpenReader(bytes.NewReader(content))
			require.NoError(t, err)
			defer xl.Close()

			rows, err := xl.GetRows("orders")
			require.NoError(t, err)
			require.Len(t, rows, 2) // header + one order
			assert.Equal(t, "customer_name", rows[0][4])
			assert.Equal(t, "Klugo", rows[1][3])
			assert.Equal(t, "£20.00", rows[1][7])
		})

		return nil
	})
	require.NoError(t, err)
}
