package ledger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soquy/internal/common"
	"soquy/internal/model"
	"soquy/internal/service"
	"soquy/internal/storage"
)

// newTestLedger builds a ledger over a fresh migrated SQLite database.
func newTestLedger(t *testing.T) (*Ledger, service.Storage) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return New(store), store
}

func mustWallet(t *testing.T, led *Ledger, name string, initial int64) *model.Wallet {
	t.Helper()
	wallet, err := led.CreateWallet(context.Background(), WalletParams{
		OwnerID:        "user-1",
		Name:           name,
		InitialBalance: decimal.NewFromInt(initial),
	})
	require.NoError(t, err)
	return wallet
}

func mustCategory(t *testing.T, led *Ledger, walletID int64, name string, txType model.TransactionType) *model.Category {
	t.Helper()
	category, err := led.CreateCategory(context.Background(), CategoryParams{
		WalletID: walletID,
		Name:     name,
		Type:     txType,
	})
	require.NoError(t, err)
	return category
}

func balanceOf(t *testing.T, led *Ledger, walletID int64) decimal.Decimal {
	t.Helper()
	wallet, err := led.Wallet(context.Background(), walletID)
	require.NoError(t, err)
	return wallet.CurrentBalance
}

func assertBalance(t *testing.T, led *Ledger, walletID int64, want int64) {
	t.Helper()
	got := balanceOf(t, led, walletID)
	assert.True(t, got.Equal(decimal.NewFromInt(want)), "balance is %s, want %d", got, want)
}

func TestCreateWallet(t *testing.T) {
	ctx := context.Background()

	t.Run("current balance starts at initial balance", func(t *testing.T) {
		led, _ := newTestLedger(t)
		wallet := mustWallet(t, led, "Cash", 5_000_000)
		assert.True(t, wallet.CurrentBalance.Equal(wallet.InitialBalance))
		assert.Equal(t, DefaultCurrency, wallet.Currency)
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		led, _ := newTestLedger(t)
		mustWallet(t, led, "Cash", 0)

		_, err := led.CreateWallet(ctx, WalletParams{OwnerID: "user-1", Name: "Cash"})
		assert.ErrorIs(t, err, common.ErrDuplicate)
	})
}

func TestLedgerScenario(t *testing.T) {
	// Wallet with 5,000,000; expense of 85,000; income of 15,000,000;
	// deleting the expense restores its contribution.
	ctx := context.Background()
	led, _ := newTestLedger(t)

	wallet := mustWallet(t, led, "Ví Tiền Mặt", 5_000_000)
	food := mustCategory(t, led, wallet.ID, "Ăn uống", model.TypeExpense)
	salary := mustCategory(t, led, wallet.ID, "Lương", model.TypeIncome)

	t1, err := led.CreateTransaction(ctx, TransactionParams{
		WalletID:   wallet.ID,
		CategoryID: food.ID,
		Amount:     decimal.NewFromInt(85_000),
		Note:       "Ăn sáng",
	})
	require.NoError(t, err)
	assertBalance(t, led, wallet.ID, 4_915_000)

	_, err = led.CreateTransaction(ctx, TransactionParams{
		WalletID:   wallet.ID,
		CategoryID: salary.ID,
		Amount:     decimal.NewFromInt(15_000_000),
		Note:       "Nhận lương tháng",
	})
	require.NoError(t, err)
	assertBalance(t, led, wallet.ID, 19_915_000)

	require.NoError(t, led.DeleteTransaction(ctx, t1.ID))
	assertBalance(t, led, wallet.ID, 20_000_000)
}

func TestCreateTransactionInheritsCategoryType(t *testing.T) {
	ctx := context.Background()
	led, _ := newTestLedger(t)

	wallet := mustWallet(t, led, "Cash", 0)
	borrow := mustCategory(t, led, wallet.ID, "Vay ngân hàng", model.TypeBorrow)

	txn, err := led.CreateTransaction(ctx, TransactionParams{
		WalletID:   wallet.ID,
		CategoryID: borrow.ID,
		Amount:     decimal.NewFromInt(1_000),
	})
	require.NoError(t, err)
	assert.Equal(t, model.TypeBorrow, txn.Type)
	assertBalance(t, led, wallet.ID, 1_000) // BORROW increases
}

func TestCreateTransactionTypeMismatch(t *testing.T) {
	ctx := context.Background()
	led, _ := newTestLedger(t)

	wallet := mustWallet(t, led, "Cash", 500)
	expense := mustCategory(t, led, wallet.ID, "Groceries", model.TypeExpense)

	_, err := led.CreateTransaction(ctx, TransactionParams{
		WalletID:   wallet.ID,
		CategoryID: expense.ID,
		Amount:     decimal.NewFromInt(100),
		Type:       model.TypeIncome,
	})
	require.ErrorIs(t, err, common.ErrValidation)

	// Failed posting must not move the balance.
	assertBalance(t, led, wallet.ID, 500)

	txns, err := led.Transactions(ctx, wallet.ID)
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestCreateTransactionCrossWallet(t *testing.T) {
	ctx := context.Background()
	led, _ := newTestLedger(t)

	w1 := mustWallet(t, led, "Cash", 500)
	w2 := mustWallet(t, led, "Savings", 700)
	foreign := mustCategory(t, led, w2.ID, "Groceries", model.TypeExpense)

	_, err := led.CreateTransaction(ctx, TransactionParams{
		WalletID:   w1.ID,
		CategoryID: foreign.ID,
		Amount:     decimal.NewFromInt(100),
	})
	require.ErrorIs(t, err, common.ErrValidation)

	// Both wallets untouched.
	assertBalance(t, led, w1.ID, 500)
	assertBalance(t, led, w2.ID, 700)
}

func TestUpdateTransactionReconciliation(t *testing.T) {
	// EXPENSE 100 updated to INCOME 60 moves the balance by +160: the
	// -100 contribution is reversed and +60 applied.
	ctx := context.Background()
	led, _ := newTestLedger(t)

	wallet := mustWallet(t, led, "Cash", 1_000)
	expense := mustCategory(t, led, wallet.ID, "Groceries", model.TypeExpense)
	income := mustCategory(t, led, wallet.ID, "Salary", model.TypeIncome)

	txn, err := led.CreateTransaction(ctx, TransactionParams{
		WalletID:   wallet.ID,
		CategoryID: expense.ID,
		Amount:     decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assertBalance(t, led, wallet.ID, 900)

	newType := model.TypeIncome
	newAmount := decimal.NewFromInt(60)
	updated, err := led.UpdateTransaction(ctx, txn.ID, TransactionUpdate{
		CategoryID: &income.ID,
		Type:       &newType,
		Amount:     &newAmount,
	})
	require.NoError(t, err)
	assert.Equal(t, model.TypeIncome, updated.Type)

	assertBalance(t, led, wallet.ID, 1_060)
}

func TestUpdateTransactionAmountOnly(t *testing.T) {
	ctx := context.Background()
	led, _ := newTestLedger(t)

	wallet := mustWallet(t, led, "Cash", 1_000)
	expense := mustCategory(t, led, wallet.ID, "Groceries", model.TypeExpense)

	txn, err := led.CreateTransaction(ctx, TransactionParams{
		WalletID:   wallet.ID,
		CategoryID: expense.ID,
		Amount:     decimal.NewFromInt(300),
	})
	require.NoError(t, err)
	assertBalance(t, led, wallet.ID, 700)

	newAmount := decimal.NewFromInt(50)
	_, err = led.UpdateTransaction(ctx, txn.ID, TransactionUpdate{Amount: &newAmount})
	require.NoError(t, err)
	assertBalance(t, led, wallet.ID, 950)
}

func TestUpdateTransactionTypeMismatchLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	led, _ := newTestLedger(t)

	wallet := mustWallet(t, led, "Cash", 1_000)
	expense := mustCategory(t, led, wallet.ID, "Groceries", model.TypeExpense)

	txn, err := led.CreateTransaction(ctx, TransactionParams{
		WalletID:   wallet.ID,
		CategoryID: expense.ID,
		Amount:     decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	newType := model.TypeIncome
	_, err = led.UpdateTransaction(ctx, txn.ID, TransactionUpdate{Type: &newType})
	require.ErrorIs(t, err, common.ErrValidation)

	assertBalance(t, led, wallet.ID, 900)

	got, err := led.Transaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TypeExpense, got.Type)
}

func TestDeleteTransactionReversal(t *testing.T) {
	ctx := context.Background()
	led, _ := newTestLedger(t)

	wallet := mustWallet(t, led, "Cash", 2_000)
	income := mustCategory(t, led, wallet.ID, "Salary", model.TypeIncome)

	txn, err := led.CreateTransaction(ctx, TransactionParams{
		WalletID:   wallet.ID,
		CategoryID: income.ID,
		Amount:     decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	assertBalance(t, led, wallet.ID, 2_500)

	require.NoError(t, led.DeleteTransaction(ctx, txn.ID))
	assertBalance(t, led, wallet.ID, 2_000)

	_, err = led.Transaction(ctx, txn.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestBalanceInvariant(t *testing.T) {
	// After an arbitrary mix of creates, updates, and deletes, the balance
	// equals the initial balance plus the signed sum of posted transactions.
	ctx := context.Background()
	led, _ := newTestLedger(t)

	wallet := mustWallet(t, led, "Cash", 10_000)
	expense := mustCategory(t, led, wallet.ID, "Groceries", model.TypeExpense)
	income := mustCategory(t, led, wallet.ID, "Salary", model.TypeIncome)
	lend := mustCategory(t, led, wallet.ID, "Cho vay", model.TypeLend)

	post := func(categoryID int64, amount int64) *model.Transaction {
		txn, err := led.CreateTransaction(ctx, TransactionParams{
			WalletID:   wallet.ID,
			CategoryID: categoryID,
			Amount:     decimal.NewFromInt(amount),
		})
		require.NoError(t, err)
		return txn
	}

	t1 := post(expense.ID, 1_000)
	post(income.ID, 3_000)
	t3 := post(lend.ID, 500)
	post(expense.ID, 250)

	newAmount := decimal.NewFromInt(2_000)
	_, err := led.UpdateTransaction(ctx, t1.ID, TransactionUpdate{Amount: &newAmount})
	require.NoError(t, err)

	require.NoError(t, led.DeleteTransaction(ctx, t3.ID))

	// Recompute the expected balance from what is still posted.
	txns, err := led.Transactions(ctx, wallet.ID)
	require.NoError(t, err)

	expected := decimal.NewFromInt(10_000)
	for i := range txns {
		sign, signErr := txns[i].Type.Sign()
		require.NoError(t, signErr)
		expected = expected.Add(txns[i].Amount.Mul(decimal.NewFromInt(sign)))
	}

	got := balanceOf(t, led, wallet.ID)
	assert.True(t, got.Equal(expected), "balance %s, recomputed %s", got, expected)
	assertBalance(t, led, wallet.ID, 10_000-2_000+3_000-250)
}

func TestZeroAmountPermitted(t *testing.T) {
	// The ledger stores what it is given; positivity checks belong to the
	// input boundary.
	ctx := context.Background()
	led, _ := newTestLedger(t)

	wallet := mustWallet(t, led, "Cash", 100)
	expense := mustCategory(t, led, wallet.ID, "Groceries", model.TypeExpense)

	_, err := led.CreateTransaction(ctx, TransactionParams{
		WalletID:   wallet.ID,
		CategoryID: expense.ID,
		Amount:     decimal.Zero,
	})
	require.NoError(t, err)
	assertBalance(t, led, wallet.ID, 100)
}
