// Package model defines the core domain types for soquy.
package model

import (
	"fmt"

	"soquy/internal/common"
)

// TransactionType is the closed set of monetary event kinds.
type TransactionType string

const (
	// TypeIncome increases the wallet balance.
	TypeIncome TransactionType = "INCOME"
	// TypeExpense decreases the wallet balance.
	TypeExpense TransactionType = "EXPENSE"
	// TypeLend decreases the wallet balance (money handed out).
	TypeLend TransactionType = "LEND"
	// TypeBorrow increases the wallet balance (money taken in).
	TypeBorrow TransactionType = "BORROW"
)

// TransactionTypes lists every valid type in display order.
var TransactionTypes = []TransactionType{TypeIncome, TypeExpense, TypeLend, TypeBorrow}

// Valid reports whether t is one of the four known types.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeLend, TypeBorrow:
		return true
	default:
		return false
	}
}

// Sign returns the balance effect multiplier for the type: +1 for the
// increase class (INCOME, BORROW), -1 for the decrease class (EXPENSE,
// LEND). Any other value is a data error.
func (t TransactionType) Sign() (int64, error) {
	switch t {
	case TypeIncome, TypeBorrow:
		return 1, nil
	case TypeExpense, TypeLend:
		return -1, nil
	default:
		return 0, fmt.Errorf("%w: %q", common.ErrUnsupportedType, string(t))
	}
}

// ParseTransactionType converts a string into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", common.ErrUnsupportedType, s)
	}
	return t, nil
}
