package transport

import (
	"errors"
	"net/http"

	"furniq/internal/middleware"
	"furniq/internal/repository"
	"furniq/internal/service"

	"go.uber.org/zap"
)

// respondServiceError converts service and repository errors into the HTTP
// error taxonomy: InvalidRequest 400, NotFound 404, Conflict 409,
// OutOfStock 400, everything else 500 with the detail logged, not exposed.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var outOfStock *repository.OutOfStockError
	var productMissing *repository.ProductMissingError
	var categoryNotFound *service.CategoryNotFoundError

	switch {
	case errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrMissingAddress),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrNoUpdateFields),
		errors.Is(err, service.ErrInvalidStatus):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())

	case errors.As(err, &outOfStock):
		middleware.RespondWithError(w, http.StatusBadRequest, outOfStock.Error())

	case errors.As(err, &productMissing):
		middleware.RespondWithError(w, http.StatusNotFound, productMissing.Error())

	case errors.As(err, &categoryNotFound):
		middleware.RespondWithErrorDetails(w, http.StatusNotFound, "category not found", map[string]interface{}{
			"requestedCategory":   categoryNotFound.Requested,
			"availableCategories": categoryNotFound.Available,
		})

	case errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrCartItemNotFound),
		errors.Is(err, repository.ErrWishlistItemNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, repository.ErrWishlistDuplicate),
		errors.Is(err, repository.ErrOrderNotCancellable):
		middleware.RespondWithError(w, http.StatusConflict, err.Error())

	default:
		logger.Error("Unexpected service error", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
