package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Artist accumulates revenue from settled payments. Sales only ever grows.
type Artist struct {
	ID    string
	Name  string
	Sales decimal.Decimal
}

// SalesEntry is an append-only ledger row documenting one artist's share of
// one settled payment. It reconciles against Artist.Sales.
type SalesEntry struct {
	ID          string
	ArtistID    string
	PaymentID   string
	SalesAmount decimal.Decimal
	SaleDate    time.Time
}
