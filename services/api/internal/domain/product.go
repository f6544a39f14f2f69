package domain

import "github.com/shopspring/decimal"

// Product is a catalog item with shared mutable stock. Quantity is decremented
// by capture; SellingNumber records the quantity sold in the last settled
// order (overwritten per settlement, not accumulated).
type Product struct {
	ID            string
	ArtistID      string
	Name          string
	Price         decimal.Decimal
	Quantity      int
	SellingNumber int
}

// OrderLine is an order item joined to its product, as settlement reads it
// for revenue attribution.
type OrderLine struct {
	ProductID string
	ArtistID  string
	Price     decimal.Decimal
	Quantity  int
}
