package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const CardNumberLength = 16

// CreditCard is a stored payment instrument. Amount is the available balance;
// capture debits it by the order total.
type CreditCard struct {
	Number     string
	CustomerID string
	ExpiryDate string
	Amount     decimal.Decimal
}

// CardExpiry is a parsed MM/YY expiry.
type CardExpiry struct {
	Month int
	Year  int
}

// ParseCardExpiry parses an expiry in MM/YY form. Years are taken in the
// 2000s, matching how issuers print them.
func ParseCardExpiry(s string) (CardExpiry, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return CardExpiry{}, ErrInvalidCardExpiry
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return CardExpiry{}, ErrInvalidCardExpiry
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 || year < 0 {
		return CardExpiry{}, ErrInvalidCardExpiry
	}
	return CardExpiry{Month: month, Year: 2000 + year}, nil
}

// ExpiredAt reports whether the card is past its stated month. A card
// expiring in the current month stays valid through the end of that month;
// only a strictly earlier (year, month) pair counts as expired.
func (e CardExpiry) ExpiredAt(now time.Time) bool {
	if e.Year != now.Year() {
		return e.Year < now.Year()
	}
	return e.Month < int(now.Month())
}
