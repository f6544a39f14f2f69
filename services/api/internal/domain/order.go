package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusCancelled OrderStatus = "Cancelled"
	OrderStatusShipped   OrderStatus = "Shipped"
)

// Order represents a checked-out purchase awaiting payment.
type Order struct {
	ID          string
	CustomerID  string
	TotalAmount decimal.Decimal
	Status      OrderStatus
	PaymentID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CanBePaid reports whether a capture may run against the order, returning
// the specific rejection for terminal states.
func (o Order) CanBePaid() error {
	switch o.Status {
	case OrderStatusCompleted:
		return ErrOrderAlreadyPaid
	case OrderStatusCancelled:
		return ErrOrderCancelled
	default:
		return nil
	}
}

// OrderItem is one product+quantity line within an order. Rows are created at
// checkout and never change afterwards.
type OrderItem struct {
	OrderID   string
	ProductID string
	Quantity  int
}
