package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soquy/internal/ledger"
	"soquy/internal/model"
	"soquy/internal/service"
	"soquy/internal/storage"
)

func newTestStorage(t *testing.T) service.Storage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func catalogSize(specs []templateSpec) int {
	total := 0
	for _, spec := range specs {
		total += 1 + catalogSize(spec.Children)
	}
	return total
}

func TestTemplates(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	require.NoError(t, Templates(ctx, store))

	templates, err := store.ListTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, templates, catalogSize(masterCatalog))

	byName := make(map[string]model.CategoryTemplate, len(templates))
	for _, tmpl := range templates {
		byName[tmpl.Name] = tmpl
	}

	// Children carry their parent's type and ID.
	root := byName["Chi tiêu thiết yếu"]
	assert.Nil(t, root.ParentID)
	assert.Equal(t, model.TypeExpense, root.Type)

	food := byName["Ăn uống"]
	require.NotNil(t, food.ParentID)
	assert.Equal(t, root.ID, *food.ParentID)
	assert.Equal(t, model.TypeExpense, food.Type)

	market := byName["Đi chợ"]
	require.NotNil(t, market.ParentID)
	assert.Equal(t, food.ID, *market.ParentID)
	assert.Equal(t, model.TypeExpense, market.Type)

	assert.Equal(t, model.TypeIncome, byName["Lương"].Type)
	assert.Equal(t, model.TypeLend, byName["Cho bạn bè vay"].Type)
	assert.Equal(t, model.TypeBorrow, byName["Vay ngân hàng"].Type)

	t.Run("idempotent", func(t *testing.T) {
		require.NoError(t, Templates(ctx, store))

		again, err := store.ListTemplates(ctx)
		require.NoError(t, err)
		assert.Len(t, again, len(templates))
	})
}

func TestDemo(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)
	led := ledger.New(store)

	require.NoError(t, Templates(ctx, store))

	wallet, err := Demo(ctx, store, led)
	require.NoError(t, err)
	assert.Equal(t, DemoOwner, wallet.OwnerID)

	// 5,000,000 initial, minus 85,000 breakfast, plus 15,000,000 salary.
	assert.True(t, wallet.CurrentBalance.Equal(decimal.NewFromInt(19_915_000)),
		"demo balance is %s", wallet.CurrentBalance)

	categories, err := led.Categories(ctx, wallet.ID)
	require.NoError(t, err)
	assert.Len(t, categories, catalogSize(masterCatalog))

	txns, err := led.Transactions(ctx, wallet.ID)
	require.NoError(t, err)
	require.Len(t, txns, 2)

	t.Run("idempotent", func(t *testing.T) {
		again, err := Demo(ctx, store, led)
		require.NoError(t, err)
		assert.Equal(t, wallet.ID, again.ID)

		txns, err := led.Transactions(ctx, wallet.ID)
		require.NoError(t, err)
		assert.Len(t, txns, 2)
	})
}
