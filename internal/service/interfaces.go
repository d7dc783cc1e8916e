// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"soquy/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Wallet operations
	CreateWallet(ctx context.Context, wallet *model.Wallet) error
	GetWallet(ctx context.Context, id int64) (*model.Wallet, error)
	ListWallets(ctx context.Context, ownerID string) ([]model.Wallet, error)
	UpdateWallet(ctx context.Context, wallet *model.Wallet) error
	// ApplyBalanceDelta adds deltaMinor (signed, minor units) to the wallet's
	// current balance as a single storage-evaluated increment. This is the
	// only permitted way to mutate a balance.
	ApplyBalanceDelta(ctx context.Context, walletID int64, deltaMinor int64) error

	// Category operations
	CreateCategory(ctx context.Context, category *model.Category) error
	GetCategory(ctx context.Context, id int64) (*model.Category, error)
	ListCategories(ctx context.Context, walletID int64) ([]model.Category, error)
	ListActiveCategories(ctx context.Context, walletID int64) ([]model.Category, error)
	UpdateCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, id int64) error
	CountCategories(ctx context.Context, walletID int64) (int, error)

	// Category template operations
	CreateTemplate(ctx context.Context, template *model.CategoryTemplate) error
	ListTemplates(ctx context.Context) ([]model.CategoryTemplate, error)

	// Transaction operations
	CreateTransaction(ctx context.Context, txn *model.Transaction) error
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)
	ListTransactions(ctx context.Context, walletID int64) ([]model.Transaction, error)
	UpdateTransaction(ctx context.Context, txn *model.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	CountTransactionsByCategory(ctx context.Context, categoryID int64) (int, error)

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction. Every method operates
// within the transaction; nothing is visible to other readers until Commit.
type Transaction interface {
	Commit() error
	Rollback() error
	// Include all Storage methods for use within transaction
	Storage
}
