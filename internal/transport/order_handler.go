package transport

import (
	"net/http"

	"furniq/internal/domain"
	"furniq/internal/middleware"
	"furniq/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderLineRequest is one (product, quantity) pair in an order request.
// Prices are intentionally absent: the server prices every line from the
// current catalog.
type OrderLineRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// AddressRequest carries address fields for an order.
type AddressRequest struct {
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	Phone      string `json:"phone"`
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

// CreateOrderRequest is the payload for POST /api/orders.
type CreateOrderRequest struct {
	UserID          string             `json:"userId" validate:"required,uuid"`
	CartItems       []OrderLineRequest `json:"cartItems" validate:"required,min=1,dive"`
	ShippingAddress *AddressRequest    `json:"shippingAddress" validate:"required"`
	BillingAddress  *AddressRequest    `json:"billingAddress" validate:"omitempty"`
	PaymentMethod   string             `json:"paymentMethod"`
}

// UpdateOrderRequest is the payload for PUT /api/orders/{id}. At least one
// field must be supplied.
type UpdateOrderRequest struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
}

// OrderHandler handles HTTP requests for order operations.
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Post("/", h.CreateOrder)
		r.Get("/{id}", h.GetOrder)
		r.Put("/{id}", h.UpdateOrder)
		r.Delete("/{id}", h.CancelOrder)
	})
}

// ListOrders handles GET /api/orders?userId&status=.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.URL.Query().Get("userId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	orders, err := h.orderService.ListOrders(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"orders":  orders,
	})
}

// CreateOrder handles POST /api/orders: the order placement transaction.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Create order validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.PlaceOrderInput{
		UserID:          uuid.MustParse(req.UserID),
		ShippingAddress: toAddressInput(req.ShippingAddress),
		BillingAddress:  toAddressInput(req.BillingAddress),
		PaymentMethod:   req.PaymentMethod,
	}
	for _, line := range req.CartItems {
		input.Lines = append(input.Lines, service.OrderLine{
			ProductID: uuid.MustParse(line.ProductID),
			Quantity:  line.Quantity,
		})
	}

	order, err := h.orderService.PlaceOrder(r.Context(), input)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total_amount", order.TotalAmount),
	)

	middleware.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "order created successfully",
		"order":   order,
	})
}

// GetOrder handles GET /api/orders/{id}.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"order":   order,
	})
}

// UpdateOrder handles PUT /api/orders/{id}: a partial status / payment
// status update.
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req UpdateOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orderService.UpdateOrder(r.Context(), id,
		domain.OrderStatus(req.Status), domain.PaymentStatus(req.PaymentStatus))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "order updated successfully",
		"order":   order,
	})
}

// CancelOrder handles DELETE /api/orders/{id}: restores stock and marks the
// order cancelled. Shipped and delivered orders answer 409.
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	if err := h.orderService.CancelOrder(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Order cancelled", zap.String("order_id", id.String()))

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "order cancelled successfully",
	})
}

func toAddressInput(req *AddressRequest) *service.AddressInput {
	if req == nil {
		return nil
	}
	return &service.AddressInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Street:     req.Street,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	}
}
