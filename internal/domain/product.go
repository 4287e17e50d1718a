package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a single item in the furniture catalog. Optional
// attributes (Size, Type, Seats, Pieces, Rating, Discount) use their zero
// value when a product does not carry them.
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Category    string    `json:"category" db:"category"`
	Material    string    `json:"material" db:"material"`
	Color       string    `json:"color" db:"color"`
	Style       string    `json:"style" db:"style"`
	Size        string    `json:"size,omitempty" db:"size"`
	Type        string    `json:"type,omitempty" db:"type"`
	Seats       int       `json:"seats,omitempty" db:"seats"`
	Pieces      int       `json:"pieces,omitempty" db:"pieces"`
	Rating      float64   `json:"rating,omitempty" db:"rating"`
	Discount    int       `json:"discount,omitempty" db:"discount"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	StockCount  int       `json:"stock_count" db:"stock_count"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// InStock reports whether the product can currently be ordered. The stock
// count is the single source of truth; no separate flag is stored.
func (p Product) InStock() bool {
	return p.StockCount > 0
}

// CategorySummary describes one catalog category for the category listing
// endpoint.
type CategorySummary struct {
	Name            string       `json:"name"`
	DisplayName     string       `json:"display_name"`
	TotalProducts   int          `json:"total_products"`
	InStockProducts int          `json:"in_stock_products"`
	PriceRange      PriceRange   `json:"price_range"`
	Filters         FacetSummary `json:"filters"`
	Image           string       `json:"image"`
}

// PriceRange is the minimum and maximum price among a set of products.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FacetSummary lists the distinct attribute values among a set of products.
type FacetSummary struct {
	Materials []string `json:"materials"`
	Colors    []string `json:"colors"`
	Styles    []string `json:"styles"`
}
