package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"furniq/internal/domain"
	"furniq/internal/repository"

	"github.com/google/uuid"
)

const (
	// orderNumberPrefix identifies orders from this store.
	orderNumberPrefix = "FURNIQ"

	// orderNumberAttempts bounds regeneration when a generated number
	// collides with an existing one. The database unique constraint is the
	// actual guarantee; the timestamp+random scheme alone is only
	// probabilistic.
	orderNumberAttempts = 3

	// DefaultPaymentMethod is used when the client does not specify one.
	DefaultPaymentMethod = "COD"
)

var (
	ErrEmptyOrder       = errors.New("order must contain at least one item")
	ErrMissingAddress   = errors.New("shipping address is required")
	ErrInvalidQuantity  = errors.New("item quantity must be positive")
	ErrNoUpdateFields   = errors.New("status or payment status is required")
	ErrInvalidStatus    = errors.New("unknown order status")
	ErrOrderNumberRetry = errors.New("could not generate a unique order number")
)

// OrderLine is one requested (product, quantity) pair. The unit price is
// never taken from the client.
type OrderLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// AddressInput carries the address fields snapshotted onto an order.
type AddressInput struct {
	FirstName  string
	LastName   string
	Phone      string
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
}

// PlaceOrderInput is the full request for order placement.
type PlaceOrderInput struct {
	UserID          uuid.UUID
	Lines           []OrderLine
	ShippingAddress *AddressInput
	BillingAddress  *AddressInput
	PaymentMethod   string
}

// OrderService coordinates order placement, cancellation and updates. All
// multi-entity writes happen inside a single repository transaction, so a
// failure at any step persists nothing.
type OrderService interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID, status string) ([]domain.Order, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, status domain.OrderStatus, paymentStatus domain.PaymentStatus) (*domain.Order, error)
	CancelOrder(ctx context.Context, id uuid.UUID) error
}

type orderService struct {
	orders repository.OrderRepository
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(orders repository.OrderRepository) OrderService {
	return &orderService{orders: orders}
}

// PlaceOrder validates the request, builds the order aggregate and hands it
// to the repository for transactional persistence: stock re-validation,
// price snapshotting, inventory decrement and cart clearing all succeed or
// fail together.
func (s *orderService) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error) {
	if len(input.Lines) == 0 {
		return nil, ErrEmptyOrder
	}
	if input.ShippingAddress == nil {
		return nil, ErrMissingAddress
	}
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}

	now := time.Now()
	items := make([]domain.OrderItem, len(input.Lines))
	for i, line := range input.Lines {
		items[i] = domain.OrderItem{ProductID: line.ProductID, Quantity: line.Quantity}
	}

	order := &domain.Order{
		ID:              uuid.New(),
		UserID:          input.UserID,
		Status:          domain.OrderStatusPending,
		PaymentMethod:   paymentMethod,
		PaymentStatus:   domain.PaymentStatusPending,
		Items:           items,
		ShippingAddress: buildAddress(input.UserID, domain.AddressTypeShipping, input.ShippingAddress, now),
		CreatedAt:       now,
	}
	if input.BillingAddress != nil {
		order.BillingAddress = buildAddress(input.UserID, domain.AddressTypeBilling, input.BillingAddress, now)
	}

	// The generated number is timestamp + random suffix; practically
	// collision-free, but the unique constraint backs it and we regenerate
	// on conflict.
	var err error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order.OrderNumber = generateOrderNumber()
		err = s.orders.Create(ctx, order)
		if !errors.Is(err, repository.ErrOrderNumberTaken) {
			break
		}
	}
	if err != nil {
		if errors.Is(err, repository.ErrOrderNumberTaken) {
			return nil, ErrOrderNumberRetry
		}
		return nil, err
	}

	return s.orders.FindByID(ctx, order.ID)
}

// GetOrder retrieves an order aggregate by ID.
func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orders.FindByID(ctx, id)
}

// ListOrders retrieves a user's orders, optionally filtered by status.
func (s *orderService) ListOrders(ctx context.Context, userID uuid.UUID, status string) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID, status)
}

// UpdateOrder applies a partial status / payment status update. At least one
// field must be supplied. Transitions are not checked for direction.
func (s *orderService) UpdateOrder(ctx context.Context, id uuid.UUID, status domain.OrderStatus, paymentStatus domain.PaymentStatus) (*domain.Order, error) {
	if status == "" && paymentStatus == "" {
		return nil, ErrNoUpdateFields
	}
	if status != "" && !validOrderStatus(status) {
		return nil, ErrInvalidStatus
	}
	if paymentStatus != "" && !validPaymentStatus(paymentStatus) {
		return nil, ErrInvalidStatus
	}
	return s.orders.Update(ctx, id, status, paymentStatus)
}

// CancelOrder restores stock and marks the order cancelled and refunded.
// Fails once the order has shipped.
func (s *orderService) CancelOrder(ctx context.Context, id uuid.UUID) error {
	return s.orders.Cancel(ctx, id)
}

func buildAddress(userID uuid.UUID, addrType domain.AddressType, in *AddressInput, now time.Time) *domain.Address {
	return &domain.Address{
		ID:         uuid.New(),
		UserID:     userID,
		Type:       addrType,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Phone:      in.Phone,
		Street:     in.Street,
		City:       in.City,
		State:      in.State,
		PostalCode: in.PostalCode,
		Country:    in.Country,
		CreatedAt:  now,
	}
}

// generateOrderNumber builds a human-readable number: prefix, millisecond
// timestamp, and a 9-character random suffix.
func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:9]
	return fmt.Sprintf("%s-%d-%s", orderNumberPrefix, time.Now().UnixMilli(), suffix)
}

func validOrderStatus(s domain.OrderStatus) bool {
	switch s {
	case domain.OrderStatusPending, domain.OrderStatusProcessing, domain.OrderStatusShipped,
		domain.OrderStatusDelivered, domain.OrderStatusCancelled:
		return true
	}
	return false
}

func validPaymentStatus(s domain.PaymentStatus) bool {
	switch s {
	case domain.PaymentStatusPending, domain.PaymentStatusPaid, domain.PaymentStatusRefunded:
		return true
	}
	return false
}
