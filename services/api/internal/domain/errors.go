package domain

import (
	"errors"
	"fmt"
)

var (
	ErrOrderIDRequired    = errors.New("Order ID is required")
	ErrCardNumberRequired = errors.New("Credit Card number is required")
	ErrCardNumberLength   = errors.New("Credit card number must be exactly 16 characters")
	ErrOrderNotFound      = errors.New("Order not found")
	ErrNotOrderOwner      = errors.New("You are not allowed to pay for this order")
	ErrOrderAlreadyPaid   = errors.New("Order is already paid")
	ErrOrderCancelled     = errors.New("Order is cancelled and cannot be paid")
	ErrCardInvalid        = errors.New("Credit card is invalid, payment failed")
	ErrCardExpired        = errors.New("Credit card has expired, payment failed")
	ErrInsufficientFunds  = errors.New("Insufficient funds in credit card, payment failed")
	ErrNoOrderItems       = errors.New("No products found in the order")
	ErrProductNotFound    = errors.New("Product not found")

	ErrPaymentIDRequired = errors.New("Payment ID is required")
	ErrUserNotAuthorized = errors.New("User not found or unauthorized")
	ErrPaymentNotFound   = errors.New("Payment not found")
	ErrPaymentNotHeld    = errors.New("Payment is not held in escrow")
	ErrCustomerNotFound  = errors.New("Customer not found")
	ErrInvalidCardExpiry = errors.New("Credit card expiry must be in MM/YY format")
	ErrInvalidID         = errors.New("invalid id")
)

// InsufficientStockError reports a line item asking for more units than the
// product has on hand. Capture aborts before any mutation when this is raised.
type InsufficientStockError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf(
		"Insufficient stock for product %s: requested %d, available %d",
		e.ProductName, e.Requested, e.Available,
	)
}
