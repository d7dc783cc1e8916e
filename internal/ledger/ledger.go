// Package ledger implements the bookkeeping core: wallet creation with
// category bootstrap, the category tree, and transaction posting with
// atomic balance reconciliation.
//
// Every mutating operation is one atomic unit: the record change and the
// wallet balance delta commit together or not at all. Balance mutations are
// always expressed as storage-evaluated increments, never read-modify-write.
package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"soquy/internal/model"
	"soquy/internal/service"
)

// DefaultCurrency is used when a wallet is created without an explicit
// currency code.
const DefaultCurrency = "VND"

// Ledger coordinates wallet, category, and transaction operations on top of
// the storage layer. Callers are expected to have verified ownership of the
// wallets they pass in; the ledger performs no authorization.
type Ledger struct {
	storage service.Storage
}

// New creates a ledger backed by the given storage.
func New(storage service.Storage) *Ledger {
	return &Ledger{storage: storage}
}

// WalletParams describes a wallet to create.
type WalletParams struct {
	OwnerID             string
	Name                string
	Description         string
	Currency            string
	InitialBalance      decimal.Decimal
	BootstrapCategories bool
}

// CreateWallet creates a wallet for an owner. The current balance starts at
// the initial balance. When BootstrapCategories is set, the shared template
// catalog is materialized into the new wallet within the same atomic unit;
// a bootstrap failure rolls the wallet back too.
func (l *Ledger) CreateWallet(ctx context.Context, params WalletParams) (*model.Wallet, error) {
	currency := params.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	wallet := &model.Wallet{
		OwnerID:        params.OwnerID,
		Name:           params.Name,
		Description:    params.Description,
		Currency:       currency,
		InitialBalance: params.InitialBalance,
		CurrentBalance: params.InitialBalance,
	}

	tx, err := l.storage.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.CreateWallet(ctx, wallet); err != nil {
		return nil, err
	}

	if params.BootstrapCategories {
		if _, err := l.bootstrapCategoriesTx(ctx, tx, wallet.ID); err != nil {
			return nil, fmt.Errorf("failed to bootstrap categories for wallet %d: %w", wallet.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit wallet creation: %w", err)
	}
	return wallet, nil
}

// Wallet returns a wallet by ID.
func (l *Ledger) Wallet(ctx context.Context, id int64) (*model.Wallet, error) {
	return l.storage.GetWallet(ctx, id)
}

// Wallets returns all wallets belonging to an owner.
func (l *Ledger) Wallets(ctx context.Context, ownerID string) ([]model.Wallet, error) {
	return l.storage.ListWallets(ctx, ownerID)
}

// WalletUpdate carries the optional fields of a wallet update; nil fields
// are left unchanged.
type WalletUpdate struct {
	Name        *string
	Description *string
	Currency    *string
}

// UpdateWallet updates a wallet's descriptive attributes. Balances cannot be
// edited directly; they only move through transaction postings.
func (l *Ledger) UpdateWallet(ctx context.Context, id int64, update WalletUpdate) (*model.Wallet, error) {
	wallet, err := l.storage.GetWallet(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		wallet.Name = *update.Name
	}
	if update.Description != nil {
		wallet.Description = *update.Description
	}
	if update.Currency != nil {
		wallet.Currency = *update.Currency
	}

	if err := l.storage.UpdateWallet(ctx, wallet); err != nil {
		return nil, err
	}
	return wallet, nil
}
