package transport

import (
	"net/http"

	"furniq/internal/middleware"
	"furniq/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddCartItemRequest is the payload for adding a product to the cart.
type AddCartItemRequest struct {
	UserID    string `json:"userId" validate:"required,uuid"`
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"omitempty,gt=0"`
}

// UpdateCartItemRequest is the payload for changing one line's quantity.
// Quantity zero removes the line.
type UpdateCartItemRequest struct {
	CartItemID string `json:"cartItemId" validate:"required,uuid"`
	Quantity   int    `json:"quantity" validate:"gte=0"`
}

// CartHandler handles HTTP requests for cart operations.
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// RegisterRoutes registers all cart routes.
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Post("/", h.AddItem)
		r.Put("/", h.UpdateItem)
		r.Delete("/", h.DeleteItem)
	})
}

// GetCart handles GET /api/cart?userId=.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.URL.Query().Get("userId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	cart, err := h.cartService.GetCart(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"cartItems":  cart.Items,
		"totalItems": cart.TotalItems,
		"totalPrice": cart.TotalPrice,
	})
}

// AddItem handles POST /api/cart. Adding a product already in the cart
// merges quantities; a brand-new line answers 201.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddCartItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Add to cart validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	item, created, err := h.cartService.AddItem(r.Context(),
		uuid.MustParse(req.UserID), uuid.MustParse(req.ProductID), quantity)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	status := http.StatusOK
	message := "cart item updated"
	if created {
		status = http.StatusCreated
		message = "item added to cart"
	}

	middleware.RespondWithJSON(w, status, map[string]interface{}{
		"success":  true,
		"message":  message,
		"cartItem": item,
	})
}

// UpdateItem handles PUT /api/cart.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateCartItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Update cart validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.cartService.UpdateItem(r.Context(), uuid.MustParse(req.CartItemID), req.Quantity)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	if item == nil {
		middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "item removed from cart",
		})
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "cart item updated",
		"cartItem": item,
	})
}

// DeleteItem handles DELETE /api/cart?cartItemId=|userId=: one line or the
// whole cart.
func (h *CartHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if raw := query.Get("cartItemId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid cart item ID")
			return
		}
		if err := h.cartService.RemoveItem(r.Context(), id); err != nil {
			respondServiceError(w, h.logger, err)
			return
		}
		middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "item removed from cart",
		})
		return
	}

	if raw := query.Get("userId"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid user ID")
			return
		}
		if err := h.cartService.ClearCart(r.Context(), userID); err != nil {
			respondServiceError(w, h.logger, err)
			return
		}
		middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "cart cleared",
		})
		return
	}

	middleware.RespondWithError(w, http.StatusBadRequest, "cart item ID or user ID is required")
}
