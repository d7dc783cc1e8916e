package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"soquy/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

// Helper function to create a persisted test wallet.
func createTestWallet(t *testing.T, store *SQLiteStorage, owner, name string, initial int64) *model.Wallet {
	t.Helper()
	wallet := &model.Wallet{
		OwnerID:        owner,
		Name:           name,
		Currency:       "VND",
		InitialBalance: decimal.NewFromInt(initial),
		CurrentBalance: decimal.NewFromInt(initial),
	}
	if err := store.CreateWallet(context.Background(), wallet); err != nil {
		t.Fatalf("Failed to create wallet: %v", err)
	}
	return wallet
}

// Helper function to create a persisted test category.
func createTestCategory(t *testing.T, store *SQLiteStorage, walletID int64, name string, txType model.TransactionType) *model.Category {
	t.Helper()
	category := &model.Category{
		WalletID: walletID,
		Name:     name,
		Type:     txType,
		IsActive: true,
	}
	if err := store.CreateCategory(context.Background(), category); err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}
	return category
}

func TestSQLiteStorage_Migrate(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	// Migrating an up-to-date database is a no-op.
	if err := store.Migrate(context.Background()); err != nil {
		t.Errorf("Re-running migrations failed: %v", err)
	}
}

func TestSQLiteStorage_NilContext(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	//nolint:staticcheck // Deliberately passing nil context.
	if _, err := store.GetWallet(nil, 1); err == nil {
		t.Error("Expected error for nil context, got nil")
	}
}
