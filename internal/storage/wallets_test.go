package storage

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soquy/internal/common"
	"soquy/internal/model"
)

func TestCreateWallet(t *testing.T) {
	ctx := context.Background()

	t.Run("create and read back", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		wallet := createTestWallet(t, store, "user-1", "Cash", 5_000_000)
		require.NotZero(t, wallet.ID)

		got, err := store.GetWallet(ctx, wallet.ID)
		require.NoError(t, err)
		assert.Equal(t, "Cash", got.Name)
		assert.Equal(t, "user-1", got.OwnerID)
		assert.True(t, got.InitialBalance.Equal(decimal.NewFromInt(5_000_000)))
		assert.True(t, got.CurrentBalance.Equal(decimal.NewFromInt(5_000_000)))
	})

	t.Run("duplicate name for same owner rejected", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		createTestWallet(t, store, "user-1", "Cash", 0)

		dup := &model.Wallet{OwnerID: "user-1", Name: "Cash", Currency: "VND"}
		err := store.CreateWallet(ctx, dup)
		assert.ErrorIs(t, err, common.ErrDuplicate)
	})

	t.Run("same name allowed for different owners", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		createTestWallet(t, store, "user-1", "Cash", 0)
		createTestWallet(t, store, "user-2", "Cash", 0)

		wallets, err := store.ListWallets(ctx, "user-2")
		require.NoError(t, err)
		assert.Len(t, wallets, 1)
	})

	t.Run("missing wallet is not found", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		_, err := store.GetWallet(ctx, 404)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestListWallets(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	createTestWallet(t, store, "user-1", "Savings", 0)
	createTestWallet(t, store, "user-1", "Cash", 0)

	wallets, err := store.ListWallets(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, wallets, 2)
	// Ordered by name.
	assert.Equal(t, "Cash", wallets[0].Name)
	assert.Equal(t, "Savings", wallets[1].Name)
}

func TestApplyBalanceDelta(t *testing.T) {
	ctx := context.Background()

	t.Run("increments and decrements stack", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		wallet := createTestWallet(t, store, "user-1", "Cash", 1_000)

		require.NoError(t, store.ApplyBalanceDelta(ctx, wallet.ID, 50_000))   // +500.00
		require.NoError(t, store.ApplyBalanceDelta(ctx, wallet.ID, -20_000)) // -200.00

		got, err := store.GetWallet(ctx, wallet.ID)
		require.NoError(t, err)
		assert.True(t, got.CurrentBalance.Equal(decimal.NewFromInt(1_300)),
			"got balance %s", got.CurrentBalance)
	})

	t.Run("missing wallet is not found", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		err := store.ApplyBalanceDelta(ctx, 404, 100)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("does not touch other wallets", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		w1 := createTestWallet(t, store, "user-1", "Cash", 100)
		w2 := createTestWallet(t, store, "user-1", "Savings", 100)

		require.NoError(t, store.ApplyBalanceDelta(ctx, w1.ID, 10_000))

		got, err := store.GetWallet(ctx, w2.ID)
		require.NoError(t, err)
		assert.True(t, got.CurrentBalance.Equal(decimal.NewFromInt(100)))
	})
}

func TestUpdateWallet(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	wallet := createTestWallet(t, store, "user-1", "Cash", 500)
	wallet.Name = "Everyday Cash"
	wallet.Description = "day to day spending"

	require.NoError(t, store.UpdateWallet(ctx, wallet))

	got, err := store.GetWallet(ctx, wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, "Everyday Cash", got.Name)
	assert.Equal(t, "day to day spending", got.Description)
	// Balance untouched by attribute updates.
	assert.True(t, got.CurrentBalance.Equal(decimal.NewFromInt(500)))
}
