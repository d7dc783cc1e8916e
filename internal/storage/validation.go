// Package storage provides the data persistence layer for the soquy ledger.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"soquy/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidWallet      = errors.New("invalid wallet")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidTemplate    = errors.New("invalid category template")
	ErrInvalidTransaction = errors.New("invalid transaction")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateWallet validates a wallet record.
func validateWallet(wallet *model.Wallet) error {
	if wallet == nil {
		return fmt.Errorf("%w: wallet", ErrNilParameter)
	}
	if strings.TrimSpace(wallet.OwnerID) == "" {
		return fmt.Errorf("%w: missing owner", ErrInvalidWallet)
	}
	if strings.TrimSpace(wallet.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidWallet)
	}
	if strings.TrimSpace(wallet.Currency) == "" {
		return fmt.Errorf("%w: missing currency", ErrInvalidWallet)
	}
	return nil
}

// validateCategory validates a category record.
func validateCategory(category *model.Category) error {
	if category == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}
	if strings.TrimSpace(category.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidCategory)
	}
	if category.WalletID == 0 {
		return fmt.Errorf("%w: missing wallet", ErrInvalidCategory)
	}
	if !category.Type.Valid() {
		return fmt.Errorf("%w: bad transaction type %q", ErrInvalidCategory, category.Type)
	}
	return nil
}

// validateTemplate validates a category template record. A child template may
// omit its type and inherit the parent's at bootstrap; a root cannot.
func validateTemplate(template *model.CategoryTemplate) error {
	if template == nil {
		return fmt.Errorf("%w: template", ErrNilParameter)
	}
	if strings.TrimSpace(template.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidTemplate)
	}
	if template.Type == "" && template.ParentID == nil {
		return fmt.Errorf("%w: root template needs a transaction type", ErrInvalidTemplate)
	}
	if template.Type != "" && !template.Type.Valid() {
		return fmt.Errorf("%w: bad transaction type %q", ErrInvalidTemplate, template.Type)
	}
	return nil
}

// validateTransaction validates a single transaction record. Amount sign is
// deliberately not checked here; the ledger stores what it is given.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if txn.WalletID == 0 {
		return fmt.Errorf("%w: missing wallet", ErrInvalidTransaction)
	}
	if txn.CategoryID == 0 {
		return fmt.Errorf("%w: missing category", ErrInvalidTransaction)
	}
	if !txn.Type.Valid() {
		return fmt.Errorf("%w: bad transaction type %q", ErrInvalidTransaction, txn.Type)
	}
	if txn.OccurredAt.IsZero() {
		return fmt.Errorf("%w: missing occurred_at", ErrInvalidTransaction)
	}
	return nil
}
