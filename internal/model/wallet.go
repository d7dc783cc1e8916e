package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is an owned account holding a running balance in one currency.
// CurrentBalance is derived state: it always equals InitialBalance plus the
// signed deltas of every posted transaction in the wallet.
type Wallet struct {
	CreatedAt      time.Time
	UpdatedAt      time.Time
	OwnerID        string
	Name           string
	Description    string
	Currency       string
	InitialBalance decimal.Decimal
	CurrentBalance decimal.Decimal
	ID             int64
}
