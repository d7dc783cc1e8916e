package model

import "time"

// Category is a classification bucket for transactions, scoped to one wallet
// and one transaction type. Categories form a tree via ParentID; a parent
// must belong to the same wallet and carry the same transaction type.
type Category struct {
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string
	Description string
	Icon        string
	Type        TransactionType
	ParentID    *int64
	TemplateID  *int64
	ID          int64
	WalletID    int64
	IsActive    bool
}
