package service

import (
	"context"
	"time"

	"furniq/internal/domain"
	"furniq/internal/repository"

	"github.com/google/uuid"
)

// WishlistService implements wishlist reads and writes. Duplicate
// (user, product) pairs are rejected with a conflict.
type WishlistService interface {
	GetWishlist(ctx context.Context, userID uuid.UUID) ([]domain.WishlistItem, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID) (*domain.WishlistItem, error)
	RemoveItem(ctx context.Context, wishlistItemID uuid.UUID) error
	RemoveByProduct(ctx context.Context, userID, productID uuid.UUID) error
	ClearWishlist(ctx context.Context, userID uuid.UUID) error
}

type wishlistService struct {
	wishlists repository.WishlistRepository
	products  repository.ProductRepository
}

// NewWishlistService creates a new instance of WishlistService.
func NewWishlistService(wishlists repository.WishlistRepository, products repository.ProductRepository) WishlistService {
	return &wishlistService{wishlists: wishlists, products: products}
}

// GetWishlist returns the user's wishlist entries with products.
func (s *wishlistService) GetWishlist(ctx context.Context, userID uuid.UUID) ([]domain.WishlistItem, error) {
	return s.wishlists.ListByUser(ctx, userID)
}

// AddItem verifies the product exists and inserts the wishlist entry.
// Returns repository.ErrWishlistDuplicate when the pair already exists.
func (s *wishlistService) AddItem(ctx context.Context, userID, productID uuid.UUID) (*domain.WishlistItem, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	item := &domain.WishlistItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now(),
	}

	if err := s.wishlists.Add(ctx, item); err != nil {
		return nil, err
	}

	item.Product = product
	return item, nil
}

// RemoveItem deletes one wishlist entry by ID.
func (s *wishlistService) RemoveItem(ctx context.Context, wishlistItemID uuid.UUID) error {
	return s.wishlists.Delete(ctx, wishlistItemID)
}

// RemoveByProduct deletes the entry for one (user, product) pair.
func (s *wishlistService) RemoveByProduct(ctx context.Context, userID, productID uuid.UUID) error {
	return s.wishlists.DeleteByUserProduct(ctx, userID, productID)
}

// ClearWishlist deletes every entry in the user's wishlist.
func (s *wishlistService) ClearWishlist(ctx context.Context, userID uuid.UUID) error {
	return s.wishlists.ClearByUser(ctx, userID)
}
