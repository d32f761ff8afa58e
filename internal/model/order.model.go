package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNegativeTotal      = errors.New("order total cannot be negative")
	ErrInvalidTransition  = errors.New("invalid order status transition")
	ErrOrderNotCancelable = errors.New("order can no longer be cancelled")
)

// OrderStatus is the lifecycle state of an order.
//
//	pending -> confirmed -> processing -> shipped -> delivered
//	   |          |             |
//	   +----------+-------------+--> cancelled
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Order is a purchase made by a customer. Monetary values are stored in
// cents to keep arithmetic exact.
type Order struct {
	ID         string      `json:"id"`
	CustomerID string      `json:"customer_id"`
	Status     OrderStatus `json:"status"`
	TotalCents int64       `json:"total_cents"`
	ProductIDs []string    `json:"product_ids,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

func NewOrder(customerID string, totalCents int64, productIDs []string) (*Order, error) {
	if totalCents < 0 {
		return nil, ErrNegativeTotal
	}
	now := time.Now()
	return &Order{
		ID:         uuid.New().String(),
		CustomerID: customerID,
		Status:     OrderStatusPending,
		TotalCents: totalCents,
		ProductIDs: productIDs,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (o *Order) Confirm() error {
	return o.advance(OrderStatusPending, OrderStatusConfirmed)
}

func (o *Order) Process() error {
	return o.advance(OrderStatusConfirmed, OrderStatusProcessing)
}

func (o *Order) Ship() error {
	return o.advance(OrderStatusProcessing, OrderStatusShipped)
}

func (o *Order) Deliver() error {
	return o.advance(OrderStatusShipped, OrderStatusDelivered)
}

// Cancel is legal from any status that has not yet shipped.
func (o *Order) Cancel() error {
	if !o.CanBeCancelled() {
		return fmt.Errorf("%w: status is %s", ErrOrderNotCancelable, o.Status)
	}
	o.Status = OrderStatusCancelled
	o.UpdatedAt = time.Now()
	return nil
}

func (o *Order) advance(from, to OrderStatus) error {
	if o.Status != from {
		return fmt.Errorf("%w: %s -> %s (current status %s)", ErrInvalidTransition, from, to, o.Status)
	}
	o.Status = to
	o.UpdatedAt = time.Now()
	return nil
}

func (o *Order) IsActive() bool {
	return o.Status != OrderStatusCancelled && o.Status != OrderStatusDelivered
}

func (o *Order) CanBeCancelled() bool {
	return o.Status != OrderStatusShipped && o.Status != OrderStatusDelivered
}
