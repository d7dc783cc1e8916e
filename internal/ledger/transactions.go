package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"soquy/internal/common"
	"soquy/internal/model"
	"soquy/internal/service"
)

// TransactionParams describes a transaction to post. Type may be empty, in
// which case it is inherited from the category. OccurredAt defaults to now.
type TransactionParams struct {
	WalletID   int64
	CategoryID int64
	Amount     decimal.Decimal
	Type       model.TransactionType
	Note       string
	OccurredAt time.Time
	Metadata   map[string]any
}

// CreateTransaction posts a monetary event against a wallet. The record
// insert and the signed balance delta commit in one atomic unit.
func (l *Ledger) CreateTransaction(ctx context.Context, params TransactionParams) (*model.Transaction, error) {
	tx, err := l.storage.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.GetWallet(ctx, params.WalletID); err != nil {
		return nil, err
	}

	effectiveType, err := l.resolveType(ctx, tx, params.WalletID, params.CategoryID, params.Type)
	if err != nil {
		return nil, err
	}

	occurredAt := params.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	txn := &model.Transaction{
		ID:         uuid.NewString(),
		WalletID:   params.WalletID,
		CategoryID: params.CategoryID,
		Type:       effectiveType,
		Amount:     params.Amount,
		Note:       params.Note,
		OccurredAt: occurredAt,
		Metadata:   params.Metadata,
	}

	delta, err := txn.Delta()
	if err != nil {
		return nil, err
	}

	if err := tx.CreateTransaction(ctx, txn); err != nil {
		return nil, err
	}
	if err := tx.ApplyBalanceDelta(ctx, txn.WalletID, delta); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction posting: %w", err)
	}
	return txn, nil
}

// TransactionUpdate carries the optional fields of a transaction update;
// nil fields are left unchanged.
type TransactionUpdate struct {
	CategoryID *int64
	Amount     *decimal.Decimal
	Type       *model.TransactionType
	Note       *string
	OccurredAt *time.Time
	Metadata   map[string]any
}

// UpdateTransaction rewrites a posted transaction and reconciles the wallet
// balance: the original contribution is reversed and the new one applied as
// a single combined delta, in the same atomic unit as the record update.
func (l *Ledger) UpdateTransaction(ctx context.Context, id string, update TransactionUpdate) (*model.Transaction, error) {
	tx, err := l.storage.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	txn, err := tx.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	originalDelta, err := txn.Delta()
	if err != nil {
		return nil, err
	}

	if update.CategoryID != nil {
		txn.CategoryID = *update.CategoryID
	}
	if update.Type != nil {
		txn.Type = *update.Type
	}
	if update.Amount != nil {
		txn.Amount = *update.Amount
	}
	if update.Note != nil {
		txn.Note = *update.Note
	}
	if update.OccurredAt != nil {
		txn.OccurredAt = *update.OccurredAt
	}
	if update.Metadata != nil {
		txn.Metadata = update.Metadata
	}

	// The updated record must still agree with its category on wallet and
	// type, whether the category, the type, or neither changed.
	if _, err := l.resolveType(ctx, tx, txn.WalletID, txn.CategoryID, txn.Type); err != nil {
		return nil, err
	}

	updatedDelta, err := txn.Delta()
	if err != nil {
		return nil, err
	}

	if err := tx.UpdateTransaction(ctx, txn); err != nil {
		return nil, err
	}
	if err := tx.ApplyBalanceDelta(ctx, txn.WalletID, updatedDelta-originalDelta); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction update: %w", err)
	}
	return txn, nil
}

// DeleteTransaction removes a posted transaction and reverses its balance
// contribution, both in one atomic unit.
func (l *Ledger) DeleteTransaction(ctx context.Context, id string) error {
	tx, err := l.storage.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	txn, err := tx.GetTransaction(ctx, id)
	if err != nil {
		return err
	}

	delta, err := txn.Delta()
	if err != nil {
		return err
	}

	if err := tx.ApplyBalanceDelta(ctx, txn.WalletID, -delta); err != nil {
		return err
	}
	if err := tx.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction delete: %w", err)
	}
	return nil
}

// Transaction returns a posted transaction by ID.
func (l *Ledger) Transaction(ctx context.Context, id string) (*model.Transaction, error) {
	return l.storage.GetTransaction(ctx, id)
}

// Transactions returns a wallet's transactions, newest first.
func (l *Ledger) Transactions(ctx context.Context, walletID int64) ([]model.Transaction, error) {
	return l.storage.ListTransactions(ctx, walletID)
}

// resolveType loads the category and returns the effective transaction
// type: the explicit type when given, otherwise the category's. The
// category must belong to the wallet, and an explicit type must match the
// category's type.
func (l *Ledger) resolveType(ctx context.Context, tx service.Transaction, walletID, categoryID int64, explicit model.TransactionType) (model.TransactionType, error) {
	category, err := tx.GetCategory(ctx, categoryID)
	if err != nil {
		return "", err
	}
	if category.WalletID != walletID {
		return "", fmt.Errorf("%w: category %d belongs to wallet %d, not %d",
			common.ErrValidation, categoryID, category.WalletID, walletID)
	}
	if explicit == "" {
		return category.Type, nil
	}
	if !explicit.Valid() {
		return "", fmt.Errorf("%w: %q", common.ErrUnsupportedType, string(explicit))
	}
	if explicit != category.Type {
		return "", fmt.Errorf("%w: transaction type %s does not match category type %s",
			common.ErrValidation, explicit, category.Type)
	}
	return explicit, nil
}
