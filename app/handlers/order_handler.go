package handlers

import (
	"context"
	"log"
	"regexp"
	"time"

	"github.com/DavidIrvine-TW/tombola/app/dto"
	businessflow "github.com/DavidIrvine-TW/tombola/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// emailShapePattern accepts the basic local@domain.tld shape
var emailShapePattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type OrderHandlerInterface interface {
	Create(c fiber.Ctx) error
	List(c fiber.Ctx) error
	Clear(c fiber.Ctx) error
	Export(c fiber.Ctx) error
}

type OrderHandler struct {
	flow      businessflow.OrderFlow
	validator *validator.Validate
}

func NewOrderHandler(flow businessflow.OrderFlow) OrderHandlerInterface {
	handler := &OrderHandler{
		flow:      flow,
		validator: validator.New(),
	}
	handler.setupCustomValidations()
	return handler
}

func (h *OrderHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error:   dto.ErrorDetail{Code: errorCode, Details: details},
	})
}

func (h *OrderHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{Success: true, Message: message, Data: data})
}

// Create places a new order for a bean
func (h *OrderHandler) Create(c fiber.Ctx) error {
	var req dto.CreateOrderRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	res, err := h.flow.PlaceOrder(h.createRequestContext(c, "/api/v1/orders"), &req, metadata)
	if err != nil {
		if businessflow.IsBeanNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Bean not found", "BEAN_NOT_FOUND", nil)
		}
		if businessflow.IsQuantityTooLow(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Quantity must be a positive number", "INVALID_QUANTITY", nil)
		}
		if businessflow.IsMalformedBeanPrice(err) {
			log.Println("Order rejected: stored bean price is malformed", err)
			return h.ErrorResponse(c, fiber.StatusInternalServerError, "Invalid bean price format", "MALFORMED_BEAN_PRICE", nil)
		}
		log.Println("Create order failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create order", "CREATE_ORDER_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusCreated, res.Message, res.Order)
}

// List returns all orders newest-first with bean names
func (h *OrderHandler) List(c fiber.Ctx) error {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	res, err := h.flow.ListOrders(h.createRequestContext(c, "/api/v1/orders"), metadata)
	if err != nil {
		log.Println("List orders failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list orders", "LIST_ORDERS_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res.Items)
}

// Clear deletes all orders
func (h *OrderHandler) Clear(c fiber.Ctx) error {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	res, err := h.flow.ClearOrders(h.createRequestContext(c, "/api/v1/orders"), metadata)
	if err != nil {
		log.Println("Clear orders failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to clear orders", "CLEAR_ORDERS_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res)
}

// Export streams all orders as an XLSX workbook
func (h *OrderHandler) Export(c fiber.Ctx) error {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	filename, payload, err := h.flow.ExportOrders(h.createRequestContext(c, "/api/v1/orders/export"), metadata)
	if err != nil {
		log.Println("Export orders failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export orders", "EXPORT_ORDERS_FAILED", nil)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(payload)
}

func (h *OrderHandler) setupCustomValidations() {
	_ = h.validator.RegisterValidation("email_shape", func(fl validator.FieldLevel) bool {
		return emailShapePattern.MatchString(fl.Field().String())
	})
}

func (h *OrderHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}
