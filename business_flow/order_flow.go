// Package businessflow contains use cases for placing and managing orders
package businessflow

import (
	"context"
	"strconv"
	"time"

	"github.com/DavidIrvine-TW/tombola/app/dto"
	"github.com/DavidIrvine-TW/tombola/models"
	"github.com/DavidIrvine-TW/tombola/repository"
	"github.com/DavidIrvine-TW/tombola/utils"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// OrderFlow defines operations for customer orders
type OrderFlow interface {
	PlaceOrder(ctx context.Context, req *dto.CreateOrderRequest, metadata *ClientMetadata) (*dto.CreateOrderResponse, error)
	ListOrders(ctx context.Context, metadata *ClientMetadata) (*dto.ListOrdersResponse, error)
	ClearOrders(ctx context.Context, metadata *ClientMetadata) (*dto.ClearOrdersResponse, error)
	ExportOrders(ctx context.Context, metadata *ClientMetadata) (string, []byte, error)
}

type OrderFlowImpl struct {
	orderRepo repository.OrderRepository
	beanRepo  repository.BeanRepository
}

// NewOrderFlow creates the order flow
func NewOrderFlow(orderRepo repository.OrderRepository, beanRepo repository.BeanRepository) OrderFlow {
	return &OrderFlowImpl{
		orderRepo: orderRepo,
		beanRepo:  beanRepo,
	}
}

// PlaceOrder validates the request against the catalog, derives the total
// from the bean's unit price, and persists the order with a server-assigned
// creation timestamp.
func (f *OrderFlowImpl) PlaceOrder(ctx context.Context, req *dto.CreateOrderRequest, metadata *ClientMetadata) (*dto.CreateOrderResponse, error) {
	if req.Quantity < 1 {
		return nil, ErrQuantityTooLow
	}

	bean, err := f.beanRepo.ByID(ctx, req.BeanID)
	if err != nil {
		return nil, NewBusinessError("ORDER_BEAN_LOOKUP_FAILED", "Failed to look up ordered bean", err)
	}
	if bean == nil {
		return nil, ErrBeanNotFound
	}

	unitPrice, prefix, suffix, err := utils.ParsePrice(bean.Cost)
	if err != nil {
		// A stored price without a numeric amount is internal data corruption,
		// not a user problem.
		return nil, NewBusinessError("MALFORMED_BEAN_PRICE", "Stored bean price is malformed", ErrMalformedBeanPrice)
	}
	totalCost := utils.FormatPrice(unitPrice*float64(req.Quantity), prefix, suffix)

	order := &models.Order{
		UUID:         uuid.New(),
		BeanID:       bean.ID,
		CustomerName: req.CustomerName,
		Email:        req.Email,
		Quantity:     req.Quantity,
		TotalCost:    totalCost,
		CreatedAt:    utils.UTCNow(),
	}
	if err := f.orderRepo.Save(ctx, order); err != nil {
		return nil, NewBusinessError("ORDER_SAVE_FAILED", "Failed to save order", err)
	}

	return &dto.CreateOrderResponse{
		Message: "Order created successfully",
		Order: ToOrderDTO(models.OrderWithBean{
			ID:           order.ID,
			UUID:         order.UUID,
			BeanID:       order.BeanID,
			BeanName:     bean.Name,
			CustomerName: order.CustomerName,
			Email:        order.Email,
			Quantity:     order.Quantity,
			TotalCost:    order.TotalCost,
			CreatedAt:    order.CreatedAt,
		}),
	}, nil
}

// ListOrders returns all orders newest-first, joined with bean names
func (f *OrderFlowImpl) ListOrders(ctx context.Context, metadata *ClientMetadata) (*dto.ListOrdersResponse, error) {
	rows, err := f.orderRepo.ListWithBeanName(ctx)
	if err != nil {
		return nil, NewBusinessError("LIST_ORDERS_FAILED", "Failed to list orders", err)
	}

	items := make([]dto.OrderDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToOrderDTO(*row))
	}

	return &dto.ListOrdersResponse{
		Message: "Orders retrieved successfully",
		Items:   items,
	}, nil
}

// ClearOrders removes all orders
func (f *OrderFlowImpl) ClearOrders(ctx context.Context, metadata *ClientMetadata) (*dto.ClearOrdersResponse, error) {
	count, err := f.orderRepo.Count(ctx, models.OrderFilter{})
	if err != nil {
		return nil, NewBusinessError("CLEAR_ORDERS_FAILED", "Failed to count orders", err)
	}
	if err := f.orderRepo.DeleteAll(ctx); err != nil {
		return nil, NewBusinessError("CLEAR_ORDERS_FAILED", "Failed to clear orders", err)
	}

	return &dto.ClearOrdersResponse{
		Message: "All orders cleared",
		Cleared: count,
	}, nil
}

// ExportOrders builds an XLSX workbook of all orders, newest-first
func (f *OrderFlowImpl) ExportOrders(ctx context.Context, metadata *ClientMetadata) (string, []byte, error) {
	rows, err := f.orderRepo.ListWithBeanName(ctx)
	if err != nil {
		return "", nil, NewBusinessError("EXPORT_ORDERS_FAILED", "Failed to load orders for export", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := "orders"
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := []string{"id", "uuid", "bean_id", "bean_name", "customer_name", "email", "quantity", "total_cost", "created_at"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for ri, row := range rows {
		record := []string{
			strconv.FormatUint(uint64(row.ID), 10),
			row.UUID.String(),
			strconv.FormatUint(uint64(row.BeanID), 10),
			row.BeanName,
			row.CustomerName,
			row.Email,
			strconv.Itoa(row.Quantity),
			row.TotalCost,
			row.CreatedAt.UTC().Format(time.RFC3339),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	filename := "orders_" + utils.UTCNowFormat("2006-01-02") + ".xlsx"
	return filename, buf.Bytes(), nil
}
