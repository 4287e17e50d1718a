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
	ErrCartItemNotFound = errors.New("cart item not found")
)

// CartRepository defines the interface for cart data access. The
// (user_id, product_id) pair is unique; Upsert relies on that constraint so
// concurrent adds for the same pair merge instead of duplicating rows.
type CartRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.CartItem, error)
	Upsert(ctx context.Context, item *domain.CartItem) (created bool, err error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) (*domain.CartItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ClearByUser(ctx context.Context, userID uuid.UUID) error
}

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new instance of CartRepository.
func NewCartRepository(db *sql.DB) CartRepository {
	return &cartRepository{db: db}
}

// ListByUser retrieves the user's cart lines together with their products,
// newest first.
func (r *cartRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.CartItem, error) {
	query := fmt.Sprintf(`
		SELECT c.id, c.user_id, c.product_id, c.quantity, c.created_at, c.updated_at, %s
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC
	`, prefixedProductColumns("p"))

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		item := domain.CartItem{Product: &domain.Product{}}
		p := item.Product
		err := rows.Scan(
			&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Material, &p.Color, &p.Style,
			&p.Size, &p.Type, &p.Seats, &p.Pieces, &p.Rating, &p.Discount,
			&p.ImageURL, &p.StockCount, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// Upsert inserts the cart line or, when the (user, product) pair already
// exists, adds the quantity onto the existing row. The merge happens inside
// the database so concurrent adds serialize on the unique constraint.
func (r *cartRepository) Upsert(ctx context.Context, item *domain.CartItem) (bool, error) {
	query := `
		INSERT INTO cart_items (id, user_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
		RETURNING id, quantity, created_at, updated_at, (created_at = updated_at)
	`

	var created bool
	err := r.db.QueryRowContext(ctx, query, item.ID, item.UserID, item.ProductID, item.Quantity, item.CreatedAt).
		Scan(&item.ID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt, &created)
	if err != nil {
		return false, fmt.Errorf("failed to upsert cart item: %w", err)
	}

	return created, nil
}

// UpdateQuantity sets the quantity for an existing cart line.
func (r *cartRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) (*domain.CartItem, error) {
	query := `
		UPDATE cart_items
		SET quantity = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, user_id, product_id, quantity, created_at, updated_at
	`

	item := &domain.CartItem{}
	err := r.db.QueryRowContext(ctx, query, id, quantity).Scan(
		&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	return item, nil
}

// Delete removes a single cart line.
func (r *cartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

// ClearByUser removes every cart line for the user. Clearing an already
// empty cart is not an error.
func (r *cartRepository) ClearByUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// prefixedProductColumns qualifies the product select list with a table
// alias for joins.
func prefixedProductColumns(alias string) string {
	return fmt.Sprintf(`
		%[1]s.id, %[1]s.name, %[1]s.description, %[1]s.price, %[1]s.category, %[1]s.material,
		%[1]s.color, %[1]s.style, COALESCE(%[1]s.size, ''), COALESCE(%[1]s.type, ''),
		COALESCE(%[1]s.seats, 0), COALESCE(%[1]s.pieces, 0), COALESCE(%[1]s.rating, 0),
		COALESCE(%[1]s.discount, 0), %[1]s.image_url, %[1]s.stock_count, %[1]s.created_at, %[1]s.updated_at`, alias)
}
