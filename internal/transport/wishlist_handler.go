package transport

import (
	"net/http"

	"furniq/internal/middleware"
	"furniq/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddWishlistItemRequest is the payload for adding a product to the
// wishlist.
type AddWishlistItemRequest struct {
	UserID    string `json:"userId" validate:"required,uuid"`
	ProductID string `json:"productId" validate:"required,uuid"`
}

// WishlistHandler handles HTTP requests for wishlist operations.
type WishlistHandler struct {
	wishlistService service.WishlistService
	logger          *zap.Logger
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(wishlistService service.WishlistService, logger *zap.Logger) *WishlistHandler {
	return &WishlistHandler{
		wishlistService: wishlistService,
		logger:          logger,
	}
}

// RegisterRoutes registers all wishlist routes.
func (h *WishlistHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/wishlist", func(r chi.Router) {
		r.Get("/", h.GetWishlist)
		r.Post("/", h.AddItem)
		r.Delete("/", h.DeleteItem)
	})
}

// GetWishlist handles GET /api/wishlist?userId=.
func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.URL.Query().Get("userId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	items, err := h.wishlistService.GetWishlist(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"wishlistItems": items,
		"totalItems":    len(items),
	})
}

// AddItem handles POST /api/wishlist. A duplicate (user, product) pair
// answers 409.
func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddWishlistItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Add to wishlist validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.wishlistService.AddItem(r.Context(),
		uuid.MustParse(req.UserID), uuid.MustParse(req.ProductID))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success":      true,
		"message":      "item added to wishlist",
		"wishlistItem": item,
	})
}

// DeleteItem handles DELETE /api/wishlist with three selector forms:
// wishlistItemId, userId+productId, or bare userId to clear everything.
func (h *WishlistHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if raw := query.Get("wishlistItemId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid wishlist item ID")
			return
		}
		if err := h.wishlistService.RemoveItem(r.Context(), id); err != nil {
			respondServiceError(w, h.logger, err)
			return
		}
		middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "item removed from wishlist",
		})
		return
	}

	rawUser := query.Get("userId")
	if rawUser == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "valid parameters are required")
		return
	}
	userID, err := uuid.Parse(rawUser)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	if rawProduct := query.Get("productId"); rawProduct != "" {
		productID, err := uuid.Parse(rawProduct)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
			return
		}
		if err := h.wishlistService.RemoveByProduct(r.Context(), userID, productID); err != nil {
			respondServiceError(w, h.logger, err)
			return
		}
		middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "item removed from wishlist",
		})
		return
	}

	if err := h.wishlistService.ClearWishlist(r.Context(), userID); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "wishlist cleared",
	})
}
