package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"umsshop/orders-service/internal/app/orders/entity"
	"umsshop/orders-service/internal/app/orders/service"
	"umsshop/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// OrderHandler обрабатывает HTTP запросы для заказов
type OrderHandler struct {
	orderService service.OrderServiceInterface
	validator    *validator.Validate
}

// NewOrderHandler создает новый обработчик заказов
func NewOrderHandler(orderService service.OrderServiceInterface) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		validator:    validator.New(),
	}
}

// CreateOrder обрабатывает POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req entity.CreateOrderRequest
	if !h.bind(c, &req) {
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), callerFromContext(c), &req)
	if err != nil {
		h.respondServiceError(c, err, "Failed to create order")
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetOrder обрабатывает GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, ok := orderIDFromPath(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), callerFromContext(c), orderID)
	if err != nil {
		h.respondServiceError(c, err, "Failed to get order")
		return
	}

	c.JSON(http.StatusOK, order)
}

// ListOrders обрабатывает GET /orders (только back-office)
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err, "Failed to list orders")
		return
	}

	c.JSON(http.StatusOK, entity.OrderListResponse{Orders: orders, Total: len(orders)})
}

// ListMyOrders обрабатывает GET /my-orders
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	orders, err := h.orderService.ListMyOrders(c.Request.Context(), callerFromContext(c))
	if err != nil {
		h.respondServiceError(c, err, "Failed to list orders")
		return
	}

	c.JSON(http.StatusOK, entity.OrderListResponse{Orders: orders, Total: len(orders)})
}

// RecordPayment обрабатывает POST /orders/:id/payment
func (h *OrderHandler) RecordPayment(c *gin.Context) {
	orderID, ok := orderIDFromPath(c)
	if !ok {
		return
	}
	var req entity.PaymentRequest
	if !h.bind(c, &req) {
		return
	}

	order, err := h.orderService.RecordPayment(c.Request.Context(), actorFromContext(c), callerFromContext(c), orderID, &req)
	if err != nil {
		h.respondServiceError(c, err, "Failed to record payment")
		return
	}

	c.JSON(http.StatusOK, order)
}

// UpdateDelivery обрабатывает PUT /orders/:id/delivery
func (h *OrderHandler) UpdateDelivery(c *gin.Context) {
	orderID, ok := orderIDFromPath(c)
	if !ok {
		return
	}
	var req entity.DeliveryRequest
	if !h.bind(c, &req) {
		return
	}

	order, err := h.orderService.UpdateDelivery(c.Request.Context(), actorFromContext(c), orderID, &req)
	if err != nil {
		h.respondServiceError(c, err, "Failed to update delivery")
		return
	}

	c.JSON(http.StatusOK, order)
}

// UpdatePacking обрабатывает PUT /orders/:id/packing
func (h *OrderHandler) UpdatePacking(c *gin.Context) {
	orderID, ok := orderIDFromPath(c)
	if !ok {
		return
	}
	var req entity.PackingRequest
	if !h.bind(c, &req) {
		return
	}

	order, err := h.orderService.UpdatePacking(c.Request.Context(), actorFromContext(c), orderID, &req)
	if err != nil {
		h.respondServiceError(c, err, "Failed to update packing")
		return
	}

	c.JSON(http.StatusOK, order)
}

// AddMessage обрабатывает POST /orders/:id/messages
func (h *OrderHandler) AddMessage(c *gin.Context) {
	orderID, ok := orderIDFromPath(c)
	if !ok {
		return
	}
	var req entity.MessageRequest
	if !h.bind(c, &req) {
		return
	}

	order, err := h.orderService.AddMessage(c.Request.Context(), actorFromContext(c), callerFromContext(c), orderID, req.Text)
	if err != nil {
		h.respondServiceError(c, err, "Failed to add message")
		return
	}

	c.JSON(http.StatusCreated, order)
}

// DeleteOrder обрабатывает DELETE /orders/:id
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	orderID, ok := orderIDFromPath(c)
	if !ok {
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), actorFromContext(c), orderID); err != nil {
		h.respondServiceError(c, err, "Failed to delete order")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Order deleted successfully"})
}

// bind декодирует JSON и валидирует структуру, при ошибке сам пишет ответ
func (h *OrderHandler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, "Validation failed", errors.New(formatValidationError(err)))
		return false
	}
	return true
}

func orderIDFromPath(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, http.StatusBadRequest, "Order ID is required", nil)
		return "", false
	}
	return id, true
}

// respondServiceError переводит ошибки сервиса в HTTP статусы
func (h *OrderHandler) respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrInvalidOrder), errors.Is(err, service.ErrInvalidOrderStatus):
		respondError(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrOrderNotFound):
		respondError(c, http.StatusNotFound, "Order not found", nil)
	case errors.Is(err, service.ErrIndexUnavailable):
		c.Header("Retry-After", "30")
		respondError(c, http.StatusServiceUnavailable, "Order index is not ready, retry later", nil)
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
		respondError(c, http.StatusInternalServerError, fallback, nil)
	}
}

func respondError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		message += ": " + err.Error()
	}
	c.JSON(status, errorBody(status, message))
}

func errorBody(status int, message string) entity.ErrorResponse {
	return entity.ErrorResponse{Error: http.StatusText(status), Message: message}
}

// formatValidationError форматирует ошибки валидации в читаемый вид
func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Validation failed"
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param()))
		case "gt", "gte":
			messages = append(messages, fmt.Sprintf("%s must be %s %s", e.Field(), e.Tag(), e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}

	return strings.Join(messages, "; ")
}
