package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single monetary event affecting a wallet's balance. The
// transaction type always matches the type of the referenced category; when
// omitted at creation it is inherited from the category.
type Transaction struct {
	OccurredAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ID         string
	Note       string
	Type       TransactionType
	Metadata   map[string]any
	Amount     decimal.Decimal
	WalletID   int64
	CategoryID int64
}

// Delta returns the signed balance effect of the transaction in minor units.
func (t *Transaction) Delta() (int64, error) {
	sign, err := t.Type.Sign()
	if err != nil {
		return 0, err
	}
	return sign * ToMinorUnits(t.Amount), nil
}
