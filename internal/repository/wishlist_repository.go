package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"furniq/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrWishlistItemNotFound = errors.New("wishlist item not found")
	ErrWishlistDuplicate    = errors.New("item already in wishlist")
)

// WishlistRepository defines the interface for wishlist data access.
// Duplicate (user, product) pairs are rejected via the unique constraint.
type WishlistRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.WishlistItem, error)
	Add(ctx context.Context, item *domain.WishlistItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserProduct(ctx context.Context, userID, productID uuid.UUID) error
	ClearByUser(ctx context.Context, userID uuid.UUID) error
}

type wishlistRepository struct {
	db *sql.DB
}

// NewWishlistRepository creates a new instance of WishlistRepository.
func NewWishlistRepository(db *sql.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

// ListByUser retrieves the user's wishlist with products, newest first.
func (r *wishlistRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.WishlistItem, error) {
	query := fmt.Sprintf(`
		SELECT w.id, w.user_id, w.product_id, w.created_at, %s
		FROM wishlist_items w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC
	`, prefixedProductColumns("p"))

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist items: %w", err)
	}
	defer rows.Close()

	items := []domain.WishlistItem{}
	for rows.Next() {
		item := domain.WishlistItem{Product: &domain.Product{}}
		p := item.Product
		err := rows.Scan(
			&item.ID, &item.UserID, &item.ProductID, &item.CreatedAt,
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Material, &p.Color, &p.Style,
			&p.Size, &p.Type, &p.Seats, &p.Pieces, &p.Rating, &p.Discount,
			&p.ImageURL, &p.StockCount, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wishlist items: %w", err)
	}

	return items, nil
}

// Add inserts a wishlist entry. Returns ErrWishlistDuplicate when the
// (user, product) pair already exists.
func (r *wishlistRepository) Add(ctx context.Context, item *domain.WishlistItem) error {
	query := `
		INSERT INTO wishlist_items (id, user_id, product_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query, item.ID, item.UserID, item.ProductID, item.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrWishlistDuplicate
		}
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}

	return nil
}

// Delete removes a single wishlist entry by ID.
func (r *wishlistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM wishlist_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete wishlist item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrWishlistItemNotFound
	}

	return nil
}

// DeleteByUserProduct removes the entry for one (user, product) pair.
// Removing an absent pair is not an error.
func (r *wishlistRepository) DeleteByUserProduct(ctx context.Context, userID, productID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return fmt.Errorf("failed to delete wishlist item: %w", err)
	}
	return nil
}

// ClearByUser removes all wishlist entries for the user.
func (r *wishlistRepository) ClearByUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM wishlist_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear wishlist: %w", err)
	}
	return nil
}

// isUniqueViolation reports a Postgres unique constraint violation
// (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
