package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentConfirmation describes a successful escrow hold for the customer.
type PaymentConfirmation struct {
	Email            string
	CustomerName     string
	OrderID          string
	Amount           decimal.Decimal
	Currency         string
	EstimatedRelease time.Time
}

// Notifier delivers payment confirmations. Delivery is best effort: capture
// never fails or blocks on it.
type Notifier interface {
	SendPaymentConfirmation(ctx context.Context, msg PaymentConfirmation) error
}
