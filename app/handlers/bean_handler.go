package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/DavidIrvine-TW/tombola/app/dto"
	businessflow "github.com/DavidIrvine-TW/tombola/business_flow"
	"github.com/DavidIrvine-TW/tombola/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type BeanHandlerInterface interface {
	List(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	ListColours(c fiber.Ctx) error
	ListCountries(c fiber.Ctx) error
	BeanOfTheDay(c fiber.Ctx) error
}

type BeanHandler struct {
	catalogFlow businessflow.CatalogFlow
	botdFlow    businessflow.BotdFlow
	validator   *validator.Validate
}

func NewBeanHandler(catalogFlow businessflow.CatalogFlow, botdFlow businessflow.BotdFlow) BeanHandlerInterface {
	return &BeanHandler{
		catalogFlow: catalogFlow,
		botdFlow:    botdFlow,
		validator:   validator.New(),
	}
}

func (h *BeanHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error:   dto.ErrorDetail{Code: errorCode, Details: details},
	})
}

func (h *BeanHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{Success: true, Message: message, Data: data})
}

// List returns the catalog ordered by seed index, with optional search,
// country, and colour filters ANDed together
func (h *BeanHandler) List(c fiber.Ctx) error {
	req := dto.ListBeansRequest{
		Search:  c.Query("search"),
		Country: c.Query("country"),
		Colour:  c.Query("colour"),
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	res, err := h.catalogFlow.ListBeans(h.createRequestContext(c, "/api/v1/beans"), &req, metadata)
	if err != nil {
		log.Println("List beans failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list beans", "LIST_BEANS_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res.Items)
}

// Get returns a single bean by id
func (h *BeanHandler) Get(c fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid bean ID", "INVALID_BEAN_ID", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	res, err := h.catalogFlow.GetBean(h.createRequestContext(c, "/api/v1/beans/:id"), uint(id), metadata)
	if err != nil {
		if businessflow.IsBeanNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Bean not found", "BEAN_NOT_FOUND", nil)
		}
		log.Println("Get bean failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load bean", "GET_BEAN_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Bean retrieved successfully", res)
}

// ListColours returns the sorted distinct roast types
func (h *BeanHandler) ListColours(c fiber.Ctx) error {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	res, err := h.catalogFlow.ListColours(h.createRequestContext(c, "/api/v1/beans/colours"), metadata)
	if err != nil {
		log.Println("List colours failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list colours", "LIST_COLOURS_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res.Items)
}

// ListCountries returns the sorted distinct origin countries
func (h *BeanHandler) ListCountries(c fiber.Ctx) error {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	res, err := h.catalogFlow.ListCountries(h.createRequestContext(c, "/api/v1/beans/countries"), metadata)
	if err != nil {
		log.Println("List countries failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list countries", "LIST_COUNTRIES_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res.Items)
}

// BeanOfTheDay resolves today's featured bean. The response is never cached
// at the transport layer; the history table is the only cache.
func (h *BeanHandler) BeanOfTheDay(c fiber.Ctx) error {
	c.Set("Cache-Control", "no-store")

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get("X-Request-ID"))

	res, err := h.botdFlow.BeanOfTheDay(h.createRequestContext(c, "/api/v1/beans/botd"), metadata)
	if err != nil {
		if businessflow.IsNoBeansAvailable(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "No beans available", "NO_BEANS_AVAILABLE", nil)
		}
		log.Println("Bean of the day failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to resolve bean of the day", "BOTD_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res)
}

func (h *BeanHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
