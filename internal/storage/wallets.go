package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"soquy/internal/common"
	"soquy/internal/model"
)

// CreateWallet inserts a new wallet and assigns its ID. The caller is
// responsible for initializing CurrentBalance (normally to InitialBalance).
func (s *SQLiteStorage) CreateWallet(ctx context.Context, wallet *model.Wallet) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateWallet(wallet); err != nil {
		return err
	}
	return s.createWalletTx(ctx, s.db, wallet)
}

func (s *SQLiteStorage) createWalletTx(ctx context.Context, q dbtx, wallet *model.Wallet) error {
	now := time.Now()

	result, err := q.ExecContext(ctx, `
		INSERT INTO wallets (owner_id, name, description, currency, initial_balance, current_balance, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		wallet.OwnerID,
		wallet.Name,
		wallet.Description,
		wallet.Currency,
		model.ToMinorUnits(wallet.InitialBalance),
		model.ToMinorUnits(wallet.CurrentBalance),
		now,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: wallet %q for owner %q", common.ErrDuplicate, wallet.Name, wallet.OwnerID)
		}
		return fmt.Errorf("failed to create wallet: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get wallet ID: %w", err)
	}

	wallet.ID = id
	wallet.CreatedAt = now
	wallet.UpdatedAt = now

	slog.Info("created wallet", "id", id, "name", wallet.Name, "owner", wallet.OwnerID)
	return nil
}

// GetWallet returns a wallet by ID.
func (s *SQLiteStorage) GetWallet(ctx context.Context, id int64) (*model.Wallet, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getWalletTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getWalletTx(ctx context.Context, q dbtx, id int64) (*model.Wallet, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, owner_id, name, description, currency, initial_balance, current_balance, created_at, updated_at
		FROM wallets
		WHERE id = ?`, id)

	wallet, err := scanWallet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("wallet", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query wallet: %w", err)
	}
	return wallet, nil
}

// ListWallets returns all wallets for an owner, ordered by name.
func (s *SQLiteStorage) ListWallets(ctx context.Context, ownerID string) ([]model.Wallet, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return nil, err
	}
	return s.listWalletsTx(ctx, s.db, ownerID)
}

func (s *SQLiteStorage) listWalletsTx(ctx context.Context, q dbtx, ownerID string) ([]model.Wallet, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, owner_id, name, description, currency, initial_balance, current_balance, created_at, updated_at
		FROM wallets
		WHERE owner_id = ?
		ORDER BY name`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var wallets []model.Wallet
	for rows.Next() {
		wallet, scanErr := scanWallet(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan wallet: %w", scanErr)
		}
		wallets = append(wallets, *wallet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallets: %w", err)
	}

	slog.Debug("retrieved wallets", "owner", ownerID, "count", len(wallets))
	return wallets, nil
}

// UpdateWallet updates a wallet's mutable attributes. CurrentBalance is
// never written here; use ApplyBalanceDelta.
func (s *SQLiteStorage) UpdateWallet(ctx context.Context, wallet *model.Wallet) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateWallet(wallet); err != nil {
		return err
	}
	return s.updateWalletTx(ctx, s.db, wallet)
}

func (s *SQLiteStorage) updateWalletTx(ctx context.Context, q dbtx, wallet *model.Wallet) error {
	result, err := q.ExecContext(ctx, `
		UPDATE wallets
		SET name = ?, description = ?, currency = ?, updated_at = ?
		WHERE id = ?`,
		wallet.Name,
		wallet.Description,
		wallet.Currency,
		time.Now(),
		wallet.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: wallet %q for owner %q", common.ErrDuplicate, wallet.Name, wallet.OwnerID)
		}
		return fmt.Errorf("failed to update wallet: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return notFound("wallet", wallet.ID)
	}
	return nil
}

// ApplyBalanceDelta adds deltaMinor to the wallet's current balance. The
// increment is evaluated by SQLite against the stored value, so concurrent
// postings against the same wallet cannot lose updates.
func (s *SQLiteStorage) ApplyBalanceDelta(ctx context.Context, walletID int64, deltaMinor int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.applyBalanceDeltaTx(ctx, s.db, walletID, deltaMinor)
}

func (s *SQLiteStorage) applyBalanceDeltaTx(ctx context.Context, q dbtx, walletID int64, deltaMinor int64) error {
	result, err := q.ExecContext(ctx, `
		UPDATE wallets
		SET current_balance = current_balance + ?, updated_at = ?
		WHERE id = ?`,
		deltaMinor,
		time.Now(),
		walletID,
	)
	if err != nil {
		return fmt.Errorf("failed to apply balance delta: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check balance update result: %w", err)
	}
	if affected == 0 {
		return notFound("wallet", walletID)
	}

	slog.Debug("applied balance delta", "wallet_id", walletID, "delta_minor", deltaMinor)
	return nil
}

// scanner abstracts sql.Row and sql.Rows for shared scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanWallet(row scanner) (*model.Wallet, error) {
	var (
		wallet       model.Wallet
		initialMinor int64
		currentMinor int64
	)
	if err := row.Scan(
		&wallet.ID,
		&wallet.OwnerID,
		&wallet.Name,
		&wallet.Description,
		&wallet.Currency,
		&initialMinor,
		&currentMinor,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	); err != nil {
		return nil, err
	}
	wallet.InitialBalance = model.FromMinorUnits(initialMinor)
	wallet.CurrentBalance = model.FromMinorUnits(currentMinor)
	return &wallet, nil
}
