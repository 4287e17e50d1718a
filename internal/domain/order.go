package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus enumerates the order lifecycle. Transitions are monotonic
// except cancellation, which is only legal before shipment.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// PaymentStatus enumerates payment states. It is a label only; no payment
// provider integration sits behind it.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// AddressType distinguishes shipping from billing addresses.
type AddressType string

const (
	AddressTypeShipping AddressType = "SHIPPING"
	AddressTypeBilling  AddressType = "BILLING"
)

// Order is the aggregate root for a placed order. TotalAmount always equals
// the sum of item price times quantity at creation time.
type Order struct {
	ID              uuid.UUID     `json:"id" db:"id"`
	OrderNumber     string        `json:"order_number" db:"order_number"`
	UserID          uuid.UUID     `json:"user_id" db:"user_id"`
	TotalAmount     float64       `json:"total_amount" db:"total_amount"`
	Status          OrderStatus   `json:"status" db:"status"`
	PaymentMethod   string        `json:"payment_method" db:"payment_method"`
	PaymentStatus   PaymentStatus `json:"payment_status" db:"payment_status"`
	Items           []OrderItem   `json:"order_items"`
	ShippingAddress *Address      `json:"shipping_address"`
	BillingAddress  *Address      `json:"billing_address,omitempty"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
}

// OrderItem is an immutable line-item snapshot. Price is captured from the
// catalog when the order is created and never recomputed.
type OrderItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"order_id" db:"order_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Price     float64   `json:"price" db:"price"`
	Product   *Product  `json:"product,omitempty"`
}

// Address is snapshotted onto an order so later edits to a user's saved
// addresses never alter past orders.
type Address struct {
	ID         uuid.UUID   `json:"id" db:"id"`
	UserID     uuid.UUID   `json:"user_id" db:"user_id"`
	Type       AddressType `json:"type" db:"type"`
	FirstName  string      `json:"first_name" db:"first_name"`
	LastName   string      `json:"last_name" db:"last_name"`
	Phone      string      `json:"phone" db:"phone"`
	Street     string      `json:"street" db:"street"`
	City       string      `json:"city" db:"city"`
	State      string      `json:"state" db:"state"`
	PostalCode string      `json:"postal_code" db:"postal_code"`
	Country    string      `json:"country" db:"country"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
}

// CanCancel reports whether the order may still be cancelled. Shipped and
// delivered orders are out of reach; cancelling twice would restock twice.
func (o Order) CanCancel() bool {
	return o.Status != OrderStatusShipped &&
		o.Status != OrderStatusDelivered &&
		o.Status != OrderStatusCancelled
}
