package model

// CategoryTemplate is a global, wallet-independent category definition used
// to seed new wallets. Templates form the same parent/child tree shape as
// categories and are ordered by (transaction type, position, name).
type CategoryTemplate struct {
	Name        string
	Description string
	Type        TransactionType
	ParentID    *int64
	ID          int64
	Position    int
}
