package storage

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soquy/internal/common"
	"soquy/internal/model"
)

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("create and read back", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		wallet := createTestWallet(t, store, "user-1", "Cash", 0)
		category := createTestCategory(t, store, wallet.ID, "Ăn uống", model.TypeExpense)

		got, err := store.GetCategory(ctx, category.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ăn uống", got.Name)
		assert.Equal(t, model.TypeExpense, got.Type)
		assert.True(t, got.IsActive)
		assert.Nil(t, got.ParentID)
	})

	t.Run("duplicate (wallet, name, type) rejected", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		wallet := createTestWallet(t, store, "user-1", "Cash", 0)
		createTestCategory(t, store, wallet.ID, "Groceries", model.TypeExpense)

		dup := &model.Category{WalletID: wallet.ID, Name: "Groceries", Type: model.TypeExpense}
		err := store.CreateCategory(ctx, dup)
		assert.ErrorIs(t, err, common.ErrDuplicate)
	})

	t.Run("same name with different type allowed", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		wallet := createTestWallet(t, store, "user-1", "Cash", 0)
		createTestCategory(t, store, wallet.ID, "Misc", model.TypeExpense)
		createTestCategory(t, store, wallet.ID, "Misc", model.TypeIncome)

		categories, err := store.ListCategories(ctx, wallet.ID)
		require.NoError(t, err)
		assert.Len(t, categories, 2)
	})
}

func TestListCategories(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	wallet := createTestWallet(t, store, "user-1", "Cash", 0)
	active := createTestCategory(t, store, wallet.ID, "Active", model.TypeExpense)
	inactive := createTestCategory(t, store, wallet.ID, "Dormant", model.TypeExpense)

	inactive.IsActive = false
	require.NoError(t, store.UpdateCategory(ctx, inactive))

	all, err := store.ListCategories(ctx, wallet.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	activeOnly, err := store.ListActiveCategories(ctx, wallet.ID)
	require.NoError(t, err)
	require.Len(t, activeOnly, 1)
	assert.Equal(t, active.ID, activeOnly[0].ID)
}

func TestDeleteCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("unreferenced category deletes", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		wallet := createTestWallet(t, store, "user-1", "Cash", 0)
		category := createTestCategory(t, store, wallet.ID, "Transient", model.TypeExpense)

		require.NoError(t, store.DeleteCategory(ctx, category.ID))

		_, err := store.GetCategory(ctx, category.ID)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("referenced category is protected", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		wallet := createTestWallet(t, store, "user-1", "Cash", 0)
		category := createTestCategory(t, store, wallet.ID, "Groceries", model.TypeExpense)

		txn := &model.Transaction{
			ID:         "txn-1",
			WalletID:   wallet.ID,
			CategoryID: category.ID,
			Type:       model.TypeExpense,
			Amount:     decimal.NewFromInt(100),
			OccurredAt: time.Now(),
		}
		require.NoError(t, store.CreateTransaction(ctx, txn))

		err := store.DeleteCategory(ctx, category.ID)
		assert.ErrorIs(t, err, common.ErrReferenced)

		// Category still present.
		_, err = store.GetCategory(ctx, category.ID)
		assert.NoError(t, err)
	})

	t.Run("missing category is not found", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		err := store.DeleteCategory(ctx, 404)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestTemplates(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	parent := &model.CategoryTemplate{Name: "Thu nhập cố định", Type: model.TypeIncome, Position: 0}
	require.NoError(t, store.CreateTemplate(ctx, parent))

	child := &model.CategoryTemplate{Name: "Lương", Type: model.TypeIncome, ParentID: &parent.ID, Position: 0}
	require.NoError(t, store.CreateTemplate(ctx, child))

	other := &model.CategoryTemplate{Name: "Ăn uống", Type: model.TypeExpense, Position: 1}
	require.NoError(t, store.CreateTemplate(ctx, other))

	templates, err := store.ListTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, templates, 3)

	// Ordered by type, then position, then name; EXPENSE sorts before INCOME,
	// and within INCOME "Lương" sorts before "Thu nhập cố định".
	assert.Equal(t, "Ăn uống", templates[0].Name)
	assert.Equal(t, "Lương", templates[1].Name)
	assert.Equal(t, "Thu nhập cố định", templates[2].Name)
	require.NotNil(t, templates[1].ParentID)
	assert.Equal(t, parent.ID, *templates[1].ParentID)
}
