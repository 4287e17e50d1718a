package transport

import (
	"context"
	"time"

	"furniq/internal/domain"
	"furniq/internal/repository"

	"github.com/google/uuid"
)

// In-memory repositories backing the real services in handler tests.

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[uuid.UUID]*domain.Product)}
}

func (m *mockProductRepository) add(p domain.Product) uuid.UUID {
	p.ID = uuid.New()
	m.products[p.ID] = &p
	return p.ID
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

func (m *mockProductRepository) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	products := []domain.Product{}
	for _, p := range m.products {
		if p.Category == category {
			products = append(products, *p)
		}
	}
	return products, nil
}

func (m *mockProductRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	products := []domain.Product{}
	for _, p := range m.products {
		products = append(products, *p)
	}
	return products, nil
}

func (m *mockProductRepository) Categories(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	categories := []string{}
	for _, p := range m.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	return categories, nil
}

type mockCartRepository struct {
	items    map[uuid.UUID]*domain.CartItem
	products *mockProductRepository
}

func newMockCartRepository(products *mockProductRepository) *mockCartRepository {
	return &mockCartRepository{items: make(map[uuid.UUID]*domain.CartItem), products: products}
}

func (m *mockCartRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.CartItem, error) {
	items := []domain.CartItem{}
	for _, item := range m.items {
		if item.UserID == userID {
			withProduct := *item
			withProduct.Product = m.products.products[item.ProductID]
			items = append(items, withProduct)
		}
	}
	return items, nil
}

func (m *mockCartRepository) Upsert(ctx context.Context, item *domain.CartItem) (bool, error) {
	for _, existing := range m.items {
		if existing.UserID == item.UserID && existing.ProductID == item.ProductID {
			existing.Quantity += item.Quantity
			existing.UpdatedAt = time.Now()
			item.ID = existing.ID
			item.Quantity = existing.Quantity
			return false, nil
		}
	}
	item.UpdatedAt = item.CreatedAt
	saved := *item
	m.items[item.ID] = &saved
	return true, nil
}

func (m *mockCartRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) (*domain.CartItem, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, repository.ErrCartItemNotFound
	}
	item.Quantity = quantity
	updated := *item
	return &updated, nil
}

func (m *mockCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return repository.ErrCartItemNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockCartRepository) ClearByUser(ctx context.Context, userID uuid.UUID) error {
	for id, item := range m.items {
		if item.UserID == userID {
			delete(m.items, id)
		}
	}
	return nil
}

type mockWishlistRepository struct {
	items map[uuid.UUID]*domain.WishlistItem
}

func newMockWishlistRepository() *mockWishlistRepository {
	return &mockWishlistRepository{items: make(map[uuid.UUID]*domain.WishlistItem)}
}

func (m *mockWishlistRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.WishlistItem, error) {
	items := []domain.WishlistItem{}
	for _, item := range m.items {
		if item.UserID == userID {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (m *mockWishlistRepository) Add(ctx context.Context, item *domain.WishlistItem) error {
	for _, existing := range m.items {
		if existing.UserID == item.UserID && existing.ProductID == item.ProductID {
			return repository.ErrWishlistDuplicate
		}
	}
	saved := *item
	m.items[item.ID] = &saved
	return nil
}

func (m *mockWishlistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return repository.ErrWishlistItemNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockWishlistRepository) DeleteByUserProduct(ctx context.Context, userID, productID uuid.UUID) error {
	for id, item := range m.items {
		if item.UserID == userID && item.ProductID == productID {
			delete(m.items, id)
		}
	}
	return nil
}

func (m *mockWishlistRepository) ClearByUser(ctx context.Context, userID uuid.UUID) error {
	for id, item := range m.items {
		if item.UserID == userID {
			delete(m.items, id)
		}
	}
	return nil
}

type mockOrderRepository struct {
	products *mockProductRepository
	carts    *mockCartRepository
	orders   map[uuid.UUID]*domain.Order
	numbers  map[string]bool
}

func newMockOrderRepository(products *mockProductRepository, carts *mockCartRepository) *mockOrderRepository {
	return &mockOrderRepository{
		products: products,
		carts:    carts,
		orders:   make(map[uuid.UUID]*domain.Order),
		numbers:  make(map[string]bool),
	}
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if m.numbers[order.OrderNumber] {
		return repository.ErrOrderNumberTaken
	}

	for _, item := range order.Items {
		product, ok := m.products.products[item.ProductID]
		if !ok {
			return &repository.ProductMissingError{ProductID: item.ProductID}
		}
		if product.StockCount < item.Quantity {
			return &repository.OutOfStockError{ProductName: product.Name}
		}
	}

	order.TotalAmount = 0
	for i := range order.Items {
		item := &order.Items[i]
		product := m.products.products[item.ProductID]
		item.ID = uuid.New()
		item.OrderID = order.ID
		item.Price = product.Price
		order.TotalAmount += product.Price * float64(item.Quantity)
		product.StockCount -= item.Quantity
	}

	if m.carts != nil {
		m.carts.ClearByUser(ctx, order.UserID)
	}

	m.numbers[order.OrderNumber] = true
	saved := *order
	m.orders[order.ID] = &saved
	return nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

func (m *mockOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID, status string) ([]domain.Order, error) {
	orders := []domain.Order{}
	for _, order := range m.orders {
		if order.UserID != userID {
			continue
		}
		if status != "" && string(order.Status) != status {
			continue
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

func (m *mockOrderRepository) Update(ctx context.Context, id uuid.UUID, status domain.OrderStatus, paymentStatus domain.PaymentStatus) (*domain.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	if status != "" {
		order.Status = status
	}
	if paymentStatus != "" {
		order.PaymentStatus = paymentStatus
	}
	return order, nil
}

func (m *mockOrderRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	order, ok := m.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	if order.Status == domain.OrderStatusShipped || order.Status == domain.OrderStatusDelivered ||
		order.Status == domain.OrderStatusCancelled {
		return repository.ErrOrderNotCancellable
	}
	for _, item := range order.Items {
		if product, ok := m.products.products[item.ProductID]; ok {
			product.StockCount += item.Quantity
		}
	}
	order.Status = domain.OrderStatusCancelled
	order.PaymentStatus = domain.PaymentStatusRefunded
	return nil
}
