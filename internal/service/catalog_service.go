package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"furniq/internal/catalog"
	"furniq/internal/domain"
	"furniq/internal/repository"
)

// CategoryNotFoundError reports an unknown category key along with the keys
// that do exist, so the caller can surface them.
type CategoryNotFoundError struct {
	Requested string
	Available []string
}

func (e *CategoryNotFoundError) Error() string {
	return fmt.Sprintf("category %q not found", e.Requested)
}

// CatalogService resolves product collections from the store and runs the
// query engine over them.
type CatalogService interface {
	QueryCategory(ctx context.Context, category string, spec catalog.QuerySpec) (*catalog.Result, error)
	Search(ctx context.Context, category string, spec catalog.QuerySpec) (*catalog.Result, error)
	FilterCategory(ctx context.Context, category string, minPrice, maxPrice float64, attrs map[string][]string) ([]domain.Product, error)
	Categories(ctx context.Context) ([]domain.CategorySummary, error)
}

type catalogService struct {
	products repository.ProductRepository
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(products repository.ProductRepository) CatalogService {
	return &catalogService{products: products}
}

// QueryCategory runs the query engine over one category's collection.
// Unknown categories yield a CategoryNotFoundError listing the valid keys.
func (s *catalogService) QueryCategory(ctx context.Context, category string, spec catalog.QuerySpec) (*catalog.Result, error) {
	collection, err := s.resolveCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	result := catalog.Query(collection, spec)
	return &result, nil
}

// Search runs the query engine over one category or, when the category is
// absent or unknown, over the whole catalog.
func (s *catalogService) Search(ctx context.Context, category string, spec catalog.QuerySpec) (*catalog.Result, error) {
	var collection []domain.Product
	var err error

	if category != "" {
		collection, err = s.products.ListByCategory(ctx, category)
		if err != nil {
			return nil, fmt.Errorf("failed to load category: %w", err)
		}
	}
	if len(collection) == 0 {
		collection, err = s.products.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
	}

	result := catalog.Query(collection, spec)
	return &result, nil
}

// FilterCategory applies price bounds and exact-match multi-value attribute
// filters (CSV style: material=Fabric,Leather) without sorting, paginating
// or facet extraction.
func (s *catalogService) FilterCategory(ctx context.Context, category string, minPrice, maxPrice float64, attrs map[string][]string) ([]domain.Product, error) {
	collection, err := s.resolveCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	if maxPrice == 0 {
		maxPrice = math.MaxFloat64
	}

	filtered := []domain.Product{}
	for _, p := range collection {
		if p.Price < minPrice || p.Price > maxPrice {
			continue
		}
		if matchesAttrs(p, attrs) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// Categories summarizes every category: counts, price range and the
// distinct materials, colors and styles available.
func (s *catalogService) Categories(ctx context.Context) ([]domain.CategorySummary, error) {
	all, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	byCategory := map[string][]domain.Product{}
	order := []string{}
	for _, p := range all {
		if _, seen := byCategory[p.Category]; !seen {
			order = append(order, p.Category)
		}
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}

	summaries := make([]domain.CategorySummary, 0, len(order))
	for _, name := range order {
		products := byCategory[name]

		summary := domain.CategorySummary{
			Name:          name,
			DisplayName:   displayName(name),
			TotalProducts: len(products),
			Image:         products[0].ImageURL,
		}
		summary.PriceRange = domain.PriceRange{Min: products[0].Price, Max: products[0].Price}

		seen := map[string]map[string]bool{"material": {}, "color": {}, "style": {}}
		for _, p := range products {
			if p.InStock() {
				summary.InStockProducts++
			}
			if p.Price < summary.PriceRange.Min {
				summary.PriceRange.Min = p.Price
			}
			if p.Price > summary.PriceRange.Max {
				summary.PriceRange.Max = p.Price
			}
			if !seen["material"][p.Material] {
				seen["material"][p.Material] = true
				summary.Filters.Materials = append(summary.Filters.Materials, p.Material)
			}
			if !seen["color"][p.Color] {
				seen["color"][p.Color] = true
				summary.Filters.Colors = append(summary.Filters.Colors, p.Color)
			}
			if !seen["style"][p.Style] {
				seen["style"][p.Style] = true
				summary.Filters.Styles = append(summary.Filters.Styles, p.Style)
			}
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

func (s *catalogService) resolveCategory(ctx context.Context, category string) ([]domain.Product, error) {
	collection, err := s.products.ListByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to load category: %w", err)
	}

	if len(collection) == 0 {
		available, err := s.products.Categories(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list categories: %w", err)
		}
		return nil, &CategoryNotFoundError{Requested: category, Available: available}
	}

	return collection, nil
}

// matchesAttrs checks exact equality of each attribute against any of the
// supplied values, with integer attributes compared via their string form.
func matchesAttrs(p domain.Product, attrs map[string][]string) bool {
	fields := map[string]string{
		"material": p.Material,
		"color":    p.Color,
		"style":    p.Style,
		"size":     p.Size,
		"type":     p.Type,
		"seats":    strconv.Itoa(p.Seats),
		"pieces":   strconv.Itoa(p.Pieces),
	}

	for key, values := range attrs {
		field, known := fields[key]
		if !known {
			continue
		}
		matched := false
		for _, v := range values {
			if v == field {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// displayName turns a category key like "new-arrival" into "New arrival".
func displayName(category string) string {
	name := strings.ReplaceAll(category, "-", " ")
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
