package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"soquy/internal/common"
	"soquy/internal/model"
	"soquy/internal/service"

	"github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	// Validate input
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite doesn't benefit from multiple connections
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new database transaction.
func (s *SQLiteStorage) BeginTx(ctx context.Context) (service.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &sqliteTx{
		tx:      tx,
		storage: s,
	}, nil
}

// dbtx is the subset of database/sql methods shared by *sql.DB and *sql.Tx,
// letting each query run either standalone or inside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// isUniqueViolation reports whether err is a SQLite unique constraint error.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// sqliteTx wraps sql.Tx to implement service.Transaction.
type sqliteTx struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

// Transaction methods delegate to the main storage with the transaction.

func (t *sqliteTx) CreateWallet(ctx context.Context, wallet *model.Wallet) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateWallet(wallet); err != nil {
		return err
	}
	return t.storage.createWalletTx(ctx, t.tx, wallet)
}

func (t *sqliteTx) GetWallet(ctx context.Context, id int64) (*model.Wallet, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getWalletTx(ctx, t.tx, id)
}

func (t *sqliteTx) ListWallets(ctx context.Context, ownerID string) ([]model.Wallet, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return nil, err
	}
	return t.storage.listWalletsTx(ctx, t.tx, ownerID)
}

func (t *sqliteTx) UpdateWallet(ctx context.Context, wallet *model.Wallet) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateWallet(wallet); err != nil {
		return err
	}
	return t.storage.updateWalletTx(ctx, t.tx, wallet)
}

func (t *sqliteTx) ApplyBalanceDelta(ctx context.Context, walletID int64, deltaMinor int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return t.storage.applyBalanceDeltaTx(ctx, t.tx, walletID, deltaMinor)
}

func (t *sqliteTx) CreateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}
	return t.storage.createCategoryTx(ctx, t.tx, category)
}

func (t *sqliteTx) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getCategoryTx(ctx, t.tx, id)
}

func (t *sqliteTx) ListCategories(ctx context.Context, walletID int64) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.listCategoriesTx(ctx, t.tx, walletID, false)
}

func (t *sqliteTx) ListActiveCategories(ctx context.Context, walletID int64) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.listCategoriesTx(ctx, t.tx, walletID, true)
}

func (t *sqliteTx) UpdateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}
	return t.storage.updateCategoryTx(ctx, t.tx, category)
}

func (t *sqliteTx) DeleteCategory(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return t.storage.deleteCategoryTx(ctx, t.tx, id)
}

func (t *sqliteTx) CountCategories(ctx context.Context, walletID int64) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return t.storage.countCategoriesTx(ctx, t.tx, walletID)
}

func (t *sqliteTx) CreateTemplate(ctx context.Context, template *model.CategoryTemplate) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTemplate(template); err != nil {
		return err
	}
	return t.storage.createTemplateTx(ctx, t.tx, template)
}

func (t *sqliteTx) ListTemplates(ctx context.Context) ([]model.CategoryTemplate, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.listTemplatesTx(ctx, t.tx)
}

func (t *sqliteTx) CreateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}
	return t.storage.createTransactionTx(ctx, t.tx, txn)
}

func (t *sqliteTx) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return t.storage.getTransactionTx(ctx, t.tx, id)
}

func (t *sqliteTx) ListTransactions(ctx context.Context, walletID int64) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.listTransactionsTx(ctx, t.tx, walletID)
}

func (t *sqliteTx) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}
	return t.storage.updateTransactionTx(ctx, t.tx, txn)
}

func (t *sqliteTx) DeleteTransaction(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return t.storage.deleteTransactionTx(ctx, t.tx, id)
}

func (t *sqliteTx) CountTransactionsByCategory(ctx context.Context, categoryID int64) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return t.storage.countTransactionsByCategoryTx(ctx, t.tx, categoryID)
}

func (t *sqliteTx) Migrate(_ context.Context) error {
	// Migrations should not be run within a transaction
	return fmt.Errorf("migrations cannot be run within a transaction")
}

func (t *sqliteTx) BeginTx(_ context.Context) (service.Transaction, error) {
	// Nested transactions not supported
	return nil, fmt.Errorf("nested transactions not supported")
}

func (t *sqliteTx) Close() error {
	// Transactions should be committed or rolled back, not closed
	return fmt.Errorf("transactions must be committed or rolled back, not closed")
}

// notFound decorates common.ErrNotFound with the entity and key.
func notFound(entity string, key any) error {
	return fmt.Errorf("%w: %s %v", common.ErrNotFound, entity, key)
}
