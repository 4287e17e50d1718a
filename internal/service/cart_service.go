package service

import (
	"context"
	"fmt"
	"time"

	"furniq/internal/domain"
	"furniq/internal/repository"

	"github.com/google/uuid"
)

// Cart is a user's cart with the totals computed server-side.
type Cart struct {
	Items      []domain.CartItem `json:"cart_items"`
	TotalItems int               `json:"total_items"`
	TotalPrice float64           `json:"total_price"`
}

// CartService implements cart reads and writes. Adding an existing product
// merges quantities under the (user, product) unique constraint.
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*Cart, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (item *domain.CartItem, created bool, err error)
	UpdateItem(ctx context.Context, cartItemID uuid.UUID, quantity int) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, cartItemID uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type cartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
}

// NewCartService creates a new instance of CartService.
func NewCartService(carts repository.CartRepository, products repository.ProductRepository) CartService {
	return &cartService{carts: carts, products: products}
}

// GetCart returns the user's cart lines with item and price totals.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	items, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart := &Cart{Items: items}
	for _, item := range items {
		cart.TotalItems += item.Quantity
		cart.TotalPrice += item.Product.Price * float64(item.Quantity)
	}
	return cart, nil
}

// AddItem checks the product exists and has stock for the requested
// quantity, then inserts or merges the cart line. The returned flag reports
// whether a new line was created.
func (s *cartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.CartItem, bool, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, false, err
	}

	if !product.InStock() || product.StockCount < quantity {
		return nil, false, &repository.OutOfStockError{ProductName: product.Name}
	}

	item := &domain.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: time.Now(),
	}

	created, err := s.carts.Upsert(ctx, item)
	if err != nil {
		return nil, false, fmt.Errorf("failed to add cart item: %w", err)
	}

	item.Product = product
	return item, created, nil
}

// UpdateItem sets a line's quantity; zero removes the line.
func (s *cartService) UpdateItem(ctx context.Context, cartItemID uuid.UUID, quantity int) (*domain.CartItem, error) {
	if quantity == 0 {
		if err := s.carts.Delete(ctx, cartItemID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	item, err := s.carts.UpdateQuantity(ctx, cartItemID, quantity)
	if err != nil {
		return nil, err
	}

	item.Product, err = s.products.FindByID(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem deletes one cart line.
func (s *cartService) RemoveItem(ctx context.Context, cartItemID uuid.UUID) error {
	return s.carts.Delete(ctx, cartItemID)
}

// ClearCart deletes every line in the user's cart.
func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return s.carts.ClearByUser(ctx, userID)
}
