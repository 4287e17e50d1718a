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
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderNumberTaken    = errors.New("order number already taken")
	ErrOrderNotCancellable = errors.New("order has been shipped or delivered")
)

// OutOfStockError reports a line whose requested quantity exceeds the
// available stock at commit time.
type OutOfStockError struct {
	ProductName string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("product %s is out of stock", e.ProductName)
}

// ProductMissingError reports an order line referencing a product that does
// not exist.
type ProductMissingError struct {
	ProductID uuid.UUID
}

func (e *ProductMissingError) Error() string {
	return fmt.Sprintf("product with ID %s not found", e.ProductID)
}

// OrderRepository defines the interface for order data access. Create and
// Cancel run multi-entity writes inside a single transaction so a
// mid-sequence failure leaves no partial state.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status string) ([]domain.Order, error)
	Update(ctx context.Context, id uuid.UUID, status domain.OrderStatus, paymentStatus domain.PaymentStatus) (*domain.Order, error)
	Cancel(ctx context.Context, id uuid.UUID) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create persists the whole order aggregate in one transaction: it locks and
// re-validates stock for every line, snapshots current catalog prices onto
// the items, writes addresses, order and items, decrements inventory with a
// stock guard, and clears the user's cart. On any failure the transaction
// rolls back and nothing persists.
//
// The caller supplies order lines carrying only ProductID and Quantity;
// item IDs, unit prices and the order total are filled in here from the
// locked product rows so client-supplied prices are never trusted.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock every product up front, in input order, and snapshot prices.
	order.TotalAmount = 0
	names := make(map[uuid.UUID]string, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]

		var name string
		var price float64
		var stock int
		err := tx.QueryRowContext(ctx,
			`SELECT name, price, stock_count FROM products WHERE id = $1 FOR UPDATE`,
			item.ProductID,
		).Scan(&name, &price, &stock)
		if err != nil {
			if err == sql.ErrNoRows {
				return &ProductMissingError{ProductID: item.ProductID}
			}
			return fmt.Errorf("failed to lock product: %w", err)
		}

		if stock < item.Quantity {
			return &OutOfStockError{ProductName: name}
		}

		names[item.ProductID] = name
		item.ID = uuid.New()
		item.OrderID = order.ID
		item.Price = price
		order.TotalAmount += price * float64(item.Quantity)
	}

	if err := insertAddress(ctx, tx, order.ShippingAddress); err != nil {
		return err
	}
	var billingID interface{}
	if order.BillingAddress != nil {
		if err := insertAddress(ctx, tx, order.BillingAddress); err != nil {
			return err
		}
		billingID = order.BillingAddress.ID
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, order_number, user_id, total_amount, status, payment_method,
		                    payment_status, shipping_address_id, billing_address_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
	`, order.ID, order.OrderNumber, order.UserID, order.TotalAmount, order.Status,
		order.PaymentMethod, order.PaymentStatus, order.ShippingAddress.ID, billingID, order.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrOrderNumberTaken
		}
		return fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range order.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4, $5)
		`, item.ID, item.OrderID, item.ProductID, item.Quantity, item.Price)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	// Decrement inventory with the stock guard repeated in the WHERE clause.
	// The rows are already locked, but the guard keeps the invariant local
	// to the statement: stock never goes below zero.
	for _, item := range order.Items {
		result, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock_count = stock_count - $2, updated_at = NOW()
			WHERE id = $1 AND stock_count >= $2
		`, item.ProductID, item.Quantity)
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return &OutOfStockError{ProductName: names[item.ProductID]}
		}
	}

	// Checkout clears the whole cart, including lines not part of this
	// order.
	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, order.UserID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

// FindByID retrieves an order with its items, products and addresses.
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, shippingID, billingID, err := r.scanOrderRow(r.db.QueryRowContext(ctx, `
		SELECT id, order_number, user_id, total_amount, status, payment_method,
		       payment_status, shipping_address_id, billing_address_id, created_at, updated_at
		FROM orders WHERE id = $1
	`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	if err := r.loadAddresses(ctx, order, shippingID, billingID); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// ListByUser retrieves the user's orders, optionally filtered by status,
// newest first, each with items and addresses populated.
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID, status string) ([]domain.Order, error) {
	query := `
		SELECT id, order_number, user_id, total_amount, status, payment_method,
		       payment_status, shipping_address_id, billing_address_id, created_at, updated_at
		FROM orders WHERE user_id = $1
	`
	args := []interface{}{userID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	type addressRef struct {
		shipping uuid.UUID
		billing  *uuid.UUID
	}

	orders := []domain.Order{}
	refs := []addressRef{}
	for rows.Next() {
		order, shippingID, billingID, err := r.scanOrderRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
		refs = append(refs, addressRef{shipping: shippingID, billing: billingID})
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	for i := range orders {
		if err := r.loadAddresses(ctx, &orders[i], refs[i].shipping, refs[i].billing); err != nil {
			return nil, err
		}
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

// Update applies a partial status / payment status update. Empty values
// leave the corresponding column untouched.
func (r *orderRepository) Update(ctx context.Context, id uuid.UUID, status domain.OrderStatus, paymentStatus domain.PaymentStatus) (*domain.Order, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = COALESCE(NULLIF($2, ''), status),
		    payment_status = COALESCE(NULLIF($3, ''), payment_status),
		    updated_at = NOW()
		WHERE id = $1
	`, id, string(status), string(paymentStatus))
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrOrderNotFound
	}

	return r.FindByID(ctx, id)
}

// Cancel restores stock for every line and marks the order CANCELLED with
// payment status REFUNDED, all in one transaction. Orders already shipped
// or delivered cannot be cancelled.
func (r *orderRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var status domain.OrderStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to lock order: %w", err)
	}

	// Shipped or delivered orders are out of reach; an order already
	// cancelled must not restock twice.
	if status == domain.OrderStatusShipped || status == domain.OrderStatusDelivered ||
		status == domain.OrderStatusCancelled {
		return ErrOrderNotCancellable
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE products p
		SET stock_count = p.stock_count + i.quantity, updated_at = NOW()
		FROM order_items i
		WHERE i.order_id = $1 AND i.product_id = p.id
	`, id)
	if err != nil {
		return fmt.Errorf("failed to restore stock: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $2, payment_status = $3, updated_at = NOW()
		WHERE id = $1
	`, id, domain.OrderStatusCancelled, domain.PaymentStatusRefunded)
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cancellation: %w", err)
	}

	return nil
}

func (r *orderRepository) scanOrderRow(row rowScanner) (*domain.Order, uuid.UUID, *uuid.UUID, error) {
	order := &domain.Order{}
	var shippingID uuid.UUID
	var billingID *uuid.UUID
	err := row.Scan(
		&order.ID, &order.OrderNumber, &order.UserID, &order.TotalAmount, &order.Status,
		&order.PaymentMethod, &order.PaymentStatus, &shippingID, &billingID,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, uuid.Nil, nil, err
	}
	return order, shippingID, billingID, nil
}

func (r *orderRepository) loadAddresses(ctx context.Context, order *domain.Order, shippingID uuid.UUID, billingID *uuid.UUID) error {
	var err error
	order.ShippingAddress, err = r.findAddress(ctx, shippingID)
	if err != nil {
		return err
	}
	if billingID != nil {
		order.BillingAddress, err = r.findAddress(ctx, *billingID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *orderRepository) loadItems(ctx context.Context, order *domain.Order) error {
	query := fmt.Sprintf(`
		SELECT i.id, i.order_id, i.product_id, i.quantity, i.price, %s
		FROM order_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.order_id = $1
		ORDER BY i.id
	`, prefixedProductColumns("p"))

	rows, err := r.db.QueryContext(ctx, query, order.ID)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		item := domain.OrderItem{Product: &domain.Product{}}
		p := item.Product
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price,
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Material, &p.Color, &p.Style,
			&p.Size, &p.Type, &p.Seats, &p.Pieces, &p.Rating, &p.Discount,
			&p.ImageURL, &p.StockCount, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating order items: %w", err)
	}

	order.Items = items
	return nil
}

func (r *orderRepository) findAddress(ctx context.Context, id uuid.UUID) (*domain.Address, error) {
	addr := &domain.Address{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, type, first_name, last_name, phone, street, city, state,
		       postal_code, country, created_at
		FROM addresses WHERE id = $1
	`, id).Scan(
		&addr.ID, &addr.UserID, &addr.Type, &addr.FirstName, &addr.LastName, &addr.Phone,
		&addr.Street, &addr.City, &addr.State, &addr.PostalCode, &addr.Country, &addr.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load address: %w", err)
	}
	return addr, nil
}

func insertAddress(ctx context.Context, tx *sql.Tx, addr *domain.Address) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO addresses (id, user_id, type, first_name, last_name, phone, street,
		                       city, state, postal_code, country, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, addr.ID, addr.UserID, addr.Type, addr.FirstName, addr.LastName, addr.Phone,
		addr.Street, addr.City, addr.State, addr.PostalCode, addr.Country, addr.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}
	return nil
}
