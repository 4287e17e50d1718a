// Package catalog implements the in-memory query engine for the product
// catalog: filtering, sorting, pagination and facet extraction over a
// product collection. It is a pure function of (collection, spec) and never
// touches the data store.
package catalog

import (
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"furniq/internal/domain"
)

// Sort keys accepted by the engine. Anything else falls back to SortByName.
const (
	SortByName     = "name"
	SortByPrice    = "price"
	SortByRating   = "rating"
	SortByDiscount = "discount"
)

// Sort directions. Anything other than "desc" sorts ascending.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// DefaultPageSize is the number of products per page when the request does
// not specify a limit.
const DefaultPageSize = 12

// QuerySpec describes one catalog query. String filters match
// case-insensitively as substrings; Seats and Pieces match exactly when
// non-zero; a zero value means the filter is not applied.
type QuerySpec struct {
	PriceMin   float64
	PriceMax   float64
	Material   string
	Color      string
	Style      string
	Size       string
	Type       string
	Seats      int
	Pieces     int
	SearchTerm string
	SortBy     string
	SortOrder  string
	Page       int
	Limit      int
}

// Facets holds the distinct attribute values among the filtered
// (pre-pagination) result set, in first-seen order.
type Facets struct {
	Materials []string `json:"materials"`
	Colors    []string `json:"colors"`
	Styles    []string `json:"styles"`
	Sizes     []string `json:"sizes,omitempty"`
	Seats     []int    `json:"seats,omitempty"`
	Pieces    []int    `json:"pieces,omitempty"`
	Types     []string `json:"types,omitempty"`
}

// Result is the outcome of one query: the requested page plus pagination
// metadata and facets computed over all matches.
type Result struct {
	Products    []domain.Product `json:"products"`
	Total       int              `json:"total_products"`
	CurrentPage int              `json:"current_page"`
	TotalPages  int              `json:"total_pages"`
	HasNextPage bool             `json:"has_next_page"`
	HasPrevPage bool             `json:"has_prev_page"`
	Facets      Facets           `json:"filters"`
}

// ParseSpec builds a QuerySpec from URL query parameters. Missing or
// malformed numeric parameters silently fall back to their defaults rather
// than producing an error.
func ParseSpec(values url.Values) QuerySpec {
	return QuerySpec{
		PriceMin:   parseFloat(values.Get("minPrice"), 0),
		PriceMax:   parseFloat(values.Get("maxPrice"), math.MaxFloat64),
		Material:   values.Get("material"),
		Color:      values.Get("color"),
		Style:      values.Get("style"),
		Size:       values.Get("size"),
		Type:       values.Get("type"),
		Seats:      parseInt(values.Get("seats"), 0),
		Pieces:     parseInt(values.Get("pieces"), 0),
		SearchTerm: values.Get("q"),
		SortBy:     defaultString(values.Get("sortBy"), SortByName),
		SortOrder:  defaultString(values.Get("sortOrder"), SortAsc),
		Page:       parseInt(values.Get("page"), 1),
		Limit:      parseInt(values.Get("limit"), DefaultPageSize),
	}
}

// Query filters, sorts and paginates the collection according to spec. The
// input slice is not modified.
func Query(products []domain.Product, spec QuerySpec) Result {
	spec = normalize(spec)

	matched := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if Matches(p, spec) {
			matched = append(matched, p)
		}
	}

	sortProducts(matched, spec.SortBy, spec.SortOrder)

	total := len(matched)
	totalPages := (total + spec.Limit - 1) / spec.Limit

	start := (spec.Page - 1) * spec.Limit
	if start > total {
		start = total
	}
	end := start + spec.Limit
	if end > total {
		end = total
	}

	return Result{
		Products:    matched[start:end],
		Total:       total,
		CurrentPage: spec.Page,
		TotalPages:  totalPages,
		HasNextPage: spec.Page < totalPages,
		HasPrevPage: spec.Page > 1,
		Facets:      collectFacets(matched),
	}
}

// Matches reports whether the product satisfies every supplied predicate of
// the query spec. A product missing an optional attribute fails only the filters
// that were actually supplied.
func Matches(p domain.Product, spec QuerySpec) bool {
	if p.Price < spec.PriceMin || p.Price > spec.PriceMax {
		return false
	}
	if !containsFold(p.Material, spec.Material) {
		return false
	}
	if !containsFold(p.Color, spec.Color) {
		return false
	}
	if !containsFold(p.Style, spec.Style) {
		return false
	}
	if spec.Size != "" && !strings.Contains(strings.ToLower(p.Size), strings.ToLower(spec.Size)) {
		return false
	}
	if spec.Type != "" && !strings.Contains(strings.ToLower(p.Type), strings.ToLower(spec.Type)) {
		return false
	}
	if spec.Seats != 0 && p.Seats != spec.Seats {
		return false
	}
	if spec.Pieces != 0 && p.Pieces != spec.Pieces {
		return false
	}
	if spec.SearchTerm != "" && !matchesSearch(p, spec.SearchTerm) {
		return false
	}
	return true
}

// matchesSearch checks the free-text term against name, description,
// material, color and style (logical OR).
func matchesSearch(p domain.Product, term string) bool {
	term = strings.ToLower(term)
	for _, field := range []string{p.Name, p.Description, p.Material, p.Color, p.Style} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// sortProducts orders the slice by the given key. The sort is stable:
// products with equal keys retain their relative input order.
func sortProducts(products []domain.Product, sortBy, sortOrder string) {
	var less func(a, b domain.Product) bool

	switch sortBy {
	case SortByPrice:
		less = func(a, b domain.Product) bool { return a.Price < b.Price }
	case SortByRating:
		less = func(a, b domain.Product) bool { return a.Rating < b.Rating }
	case SortByDiscount:
		less = func(a, b domain.Product) bool { return a.Discount < b.Discount }
	default:
		less = func(a, b domain.Product) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	}

	sort.SliceStable(products, func(i, j int) bool {
		if sortOrder == SortDesc {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})
}

// collectFacets gathers distinct attribute values over the matched set.
// Empty strings and zero counts mean "attribute absent" and are skipped for
// the optional attributes.
func collectFacets(products []domain.Product) Facets {
	var f Facets
	seenStr := map[string]map[string]bool{}
	seenInt := map[string]map[int]bool{}

	addStr := func(key, value string, out *[]string) {
		if value == "" {
			return
		}
		if seenStr[key] == nil {
			seenStr[key] = map[string]bool{}
		}
		if !seenStr[key][value] {
			seenStr[key][value] = true
			*out = append(*out, value)
		}
	}
	addInt := func(key string, value int, out *[]int) {
		if value == 0 {
			return
		}
		if seenInt[key] == nil {
			seenInt[key] = map[int]bool{}
		}
		if !seenInt[key][value] {
			seenInt[key][value] = true
			*out = append(*out, value)
		}
	}

	for _, p := range products {
		addStr("material", p.Material, &f.Materials)
		addStr("color", p.Color, &f.Colors)
		addStr("style", p.Style, &f.Styles)
		addStr("size", p.Size, &f.Sizes)
		addStr("type", p.Type, &f.Types)
		addInt("seats", p.Seats, &f.Seats)
		addInt("pieces", p.Pieces, &f.Pieces)
	}
	return f
}

// normalize clamps nonsense paging values and unknown sort keys to their
// defaults so Query never has to fail.
func normalize(spec QuerySpec) QuerySpec {
	if spec.Page < 1 {
		spec.Page = 1
	}
	if spec.Limit < 1 {
		spec.Limit = DefaultPageSize
	}
	if spec.PriceMax == 0 {
		spec.PriceMax = math.MaxFloat64
	}
	switch spec.SortBy {
	case SortByName, SortByPrice, SortByRating, SortByDiscount:
	default:
		spec.SortBy = SortByName
	}
	if spec.SortOrder != SortDesc {
		spec.SortOrder = SortAsc
	}
	return spec
}

// containsFold matches filter as a case-insensitive substring of value. An
// empty filter always matches.
func containsFold(value, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(filter))
}

func parseFloat(s string, fallback float64) float64 {
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

func parseInt(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
