package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"furniq/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// productColumns is the canonical select list for products. Optional
// attributes are stored as NULL and coalesced to their zero values on read.
const productColumns = `
	id, name, description, price, category, material, color, style,
	COALESCE(size, ''), COALESCE(type, ''), COALESCE(seats, 0),
	COALESCE(pieces, 0), COALESCE(rating, 0), COALESCE(discount, 0),
	image_url, stock_count, created_at, updated_at`

// ProductRepository defines the interface for catalog data access.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
	ListAll(ctx context.Context) ([]domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a new product into the catalog using parameterized queries.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, category, material, color, style,
		                      size, type, seats, pieces, rating, discount, image_url, stock_count,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
		        NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, 0),
		        NULLIF($12, 0), NULLIF($13, 0.0), NULLIF($14, 0), $15, $16, $17, $18)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Category,
		product.Material,
		product.Color,
		product.Style,
		product.Size,
		product.Type,
		product.Seats,
		product.Pieces,
		product.Rating,
		product.Discount,
		product.ImageURL,
		product.StockCount,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// FindByID retrieves a product by ID.
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// ListByCategory retrieves the full collection for one category, in
// insertion order. The query engine does all filtering and sorting in
// memory.
func (r *productRepository) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE category = $1
		ORDER BY created_at ASC, id ASC
	`, productColumns)

	rows, err := r.db.QueryContext(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list products by category: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// ListAll retrieves the entire catalog across all categories.
func (r *productRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		ORDER BY category ASC, created_at ASC, id ASC
	`, productColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// Categories returns the distinct category keys present in the catalog.
func (r *productRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT category FROM products ORDER BY category ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Category,
		&product.Material,
		&product.Color,
		&product.Style,
		&product.Size,
		&product.Type,
		&product.Seats,
		&product.Pieces,
		&product.Rating,
		&product.Discount,
		&product.ImageURL,
		&product.StockCount,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func scanProducts(rows *sql.Rows) ([]domain.Product, error) {
	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
