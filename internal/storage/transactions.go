package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"soquy/internal/model"
)

// CreateTransaction inserts a transaction record. Balance effects are not
// applied here; the ledger pairs this with ApplyBalanceDelta inside one
// database transaction.
func (s *SQLiteStorage) CreateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}
	return s.createTransactionTx(ctx, s.db, txn)
}

func (s *SQLiteStorage) createTransactionTx(ctx context.Context, q dbtx, txn *model.Transaction) error {
	metadataJSON, err := marshalMetadata(txn.Metadata)
	if err != nil {
		return err
	}

	now := time.Now()
	_, err = q.ExecContext(ctx, `
		INSERT INTO transactions (id, wallet_id, category_id, transaction_type, amount, note, occurred_at, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID,
		txn.WalletID,
		txn.CategoryID,
		string(txn.Type),
		model.ToMinorUnits(txn.Amount),
		txn.Note,
		txn.OccurredAt,
		metadataJSON,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
	}

	txn.CreatedAt = now
	txn.UpdatedAt = now

	slog.Debug("created transaction",
		"id", txn.ID,
		"wallet_id", txn.WalletID,
		"type", txn.Type,
		"amount", txn.Amount.String())
	return nil
}

// GetTransaction returns a transaction by ID.
func (s *SQLiteStorage) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return s.getTransactionTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getTransactionTx(ctx context.Context, q dbtx, id string) (*model.Transaction, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, wallet_id, category_id, transaction_type, amount, note, occurred_at, metadata, created_at, updated_at
		FROM transactions
		WHERE id = ?`, id)

	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("transaction", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}
	return txn, nil
}

// ListTransactions returns a wallet's transactions, newest first.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, walletID int64) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listTransactionsTx(ctx, s.db, walletID)
}

func (s *SQLiteStorage) listTransactionsTx(ctx context.Context, q dbtx, walletID int64) ([]model.Transaction, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, wallet_id, category_id, transaction_type, amount, note, occurred_at, metadata, created_at, updated_at
		FROM transactions
		WHERE wallet_id = ?
		ORDER BY occurred_at DESC, created_at DESC`, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []model.Transaction
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", scanErr)
		}
		txns = append(txns, *txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	slog.Debug("retrieved transactions", "wallet_id", walletID, "count", len(txns))
	return txns, nil
}

// UpdateTransaction rewrites a transaction's mutable fields. As with create,
// balance reconciliation is the ledger's job.
func (s *SQLiteStorage) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}
	return s.updateTransactionTx(ctx, s.db, txn)
}

func (s *SQLiteStorage) updateTransactionTx(ctx context.Context, q dbtx, txn *model.Transaction) error {
	metadataJSON, err := marshalMetadata(txn.Metadata)
	if err != nil {
		return err
	}

	result, err := q.ExecContext(ctx, `
		UPDATE transactions
		SET category_id = ?, transaction_type = ?, amount = ?, note = ?, occurred_at = ?, metadata = ?, updated_at = ?
		WHERE id = ?`,
		txn.CategoryID,
		string(txn.Type),
		model.ToMinorUnits(txn.Amount),
		txn.Note,
		txn.OccurredAt,
		metadataJSON,
		time.Now(),
		txn.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", txn.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return notFound("transaction", txn.ID)
	}
	return nil
}

// DeleteTransaction removes a transaction record.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return s.deleteTransactionTx(ctx, s.db, id)
}

func (s *SQLiteStorage) deleteTransactionTx(ctx context.Context, q dbtx, id string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return notFound("transaction", id)
	}

	slog.Debug("deleted transaction", "id", id)
	return nil
}

// CountTransactionsByCategory returns how many transactions reference a
// category. Used to enforce deletion protection.
func (s *SQLiteStorage) CountTransactionsByCategory(ctx context.Context, categoryID int64) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return s.countTransactionsByCategoryTx(ctx, s.db, categoryID)
}

func (s *SQLiteStorage) countTransactionsByCategoryTx(ctx context.Context, q dbtx, categoryID int64) (int, error) {
	var count int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE category_id = ?`, categoryID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

func marshalMetadata(metadata map[string]any) (string, error) {
	if len(metadata) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("failed to marshal transaction metadata: %w", err)
	}
	return string(data), nil
}

func scanTransaction(row scanner) (*model.Transaction, error) {
	var (
		txn          model.Transaction
		typeStr      string
		amountMinor  int64
		metadataJSON string
	)
	if err := row.Scan(
		&txn.ID,
		&txn.WalletID,
		&txn.CategoryID,
		&typeStr,
		&amountMinor,
		&txn.Note,
		&txn.OccurredAt,
		&metadataJSON,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	); err != nil {
		return nil, err
	}
	txn.Type = model.TransactionType(typeStr)
	txn.Amount = model.FromMinorUnits(amountMinor)
	if metadataJSON != "" && metadataJSON != "{}" {
		if err := json.Unmarshal([]byte(metadataJSON), &txn.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transaction metadata: %w", err)
		}
	}
	return &txn, nil
}
