package transport

import (
	"errors"
	"net/http"
	"strings"

	"furniq/internal/catalog"
	"furniq/internal/middleware"
	"furniq/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// paginationInfo mirrors the pagination block of the catalog responses.
type paginationInfo struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// CatalogHandler handles HTTP requests for catalog browsing and search.
type CatalogHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers all catalog routes.
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/category/{category}", h.GetCategory)
	r.Get("/api/search", h.Search)
	r.Get("/api/categories", h.ListCategories)
	r.Get("/api/products", h.FilterProducts)
}

// GetCategory handles GET /api/category/{category}: the full query engine
// over one category, with pagination metadata and facets.
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	spec := catalog.ParseSpec(r.URL.Query())

	result, err := h.catalogService.QueryCategory(r.Context(), category, spec)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"category":      category,
		"products":      result.Products,
		"totalProducts": result.Total,
		"pagination": paginationInfo{
			CurrentPage: result.CurrentPage,
			TotalPages:  result.TotalPages,
			HasNextPage: result.HasNextPage,
			HasPrevPage: result.HasPrevPage,
		},
		"filters": result.Facets,
	})
}

// Search handles GET /api/search: free-text search over one category or the
// whole catalog.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	category := query.Get("category")
	spec := catalog.ParseSpec(query)

	result, err := h.catalogService.Search(r.Context(), category, spec)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	searchedCategory := category
	if searchedCategory == "" {
		searchedCategory = "all"
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"products": result.Products,
		"pagination": map[string]interface{}{
			"currentPage":   result.CurrentPage,
			"totalPages":    result.TotalPages,
			"totalProducts": result.Total,
			"hasNextPage":   result.HasNextPage,
			"hasPrevPage":   result.HasPrevPage,
		},
		"filters": result.Facets,
		"searchInfo": map[string]interface{}{
			"query":    spec.SearchTerm,
			"category": searchedCategory,
		},
	})
}

// ListCategories handles GET /api/categories: a per-category summary with
// counts, price range and distinct attribute values.
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.catalogService.Categories(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"categories": summaries,
	})
}

// FilterProducts handles GET /api/products: a plain filtered list for one
// category with CSV multi-value attribute filters (material=Fabric,Leather).
func (h *CatalogHandler) FilterProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	category := query.Get("category")
	if category == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid or missing category")
		return
	}

	spec := catalog.ParseSpec(query)

	attrs := map[string][]string{}
	for _, key := range []string{"material", "color", "style", "seats", "size", "pieces", "type"} {
		if value := query.Get(key); value != "" {
			attrs[key] = strings.Split(value, ",")
		}
	}

	products, err := h.catalogService.FilterCategory(r.Context(), category, spec.PriceMin, spec.PriceMax, attrs)
	if err != nil {
		var notFound *service.CategoryNotFoundError
		if errors.As(err, &notFound) {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid or missing category")
			return
		}
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"products": products,
	})
}
