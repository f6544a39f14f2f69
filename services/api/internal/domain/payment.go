package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusHeldInEscrow PaymentStatus = "held_in_escrow"
	PaymentStatusReleased     PaymentStatus = "released"
	PaymentStatusFailed       PaymentStatus = "failed"
)

type TransactionType string

const (
	TransactionTypePayment TransactionType = "payment"
	TransactionTypeRefund  TransactionType = "refund"
)

// Payment is one authorization/settlement record. Failed capture attempts
// also leave a row behind (amount zero) as an audit trail.
type Payment struct {
	ID               string
	OrderID          string
	CustomerID       string
	Amount           decimal.Decimal
	PaymentReference string
	Status           PaymentStatus
	TransactionType  TransactionType
	Currency         string
	PaymentDate      time.Time
	ReleasedAt       *time.Time
}

// CanTransition reports whether moving the payment to the given status is a
// legal edge. The only one is held_in_escrow -> released; failed and released
// are terminal.
func (p Payment) CanTransition(to PaymentStatus) error {
	if p.Status == PaymentStatusHeldInEscrow && to == PaymentStatusReleased {
		return nil
	}
	return &InvalidTransitionError{From: p.Status, To: to}
}

// InvalidTransitionError reports an attempt to move a payment along an edge
// the escrow state machine does not allow.
type InvalidTransitionError struct {
	From PaymentStatus
	To   PaymentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("payment cannot transition from %s to %s", e.From, e.To)
}
