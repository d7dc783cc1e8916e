// Package seed loads the master category template catalog and optional demo
// data into a soquy database.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"soquy/internal/ledger"
	"soquy/internal/model"
	"soquy/internal/service"
)

// templateSpec is one node of the built-in catalog tree. Children without a
// type inherit their parent's.
type templateSpec struct {
	Name     string
	Type     model.TransactionType
	Children []templateSpec
}

// masterCatalog is the suggested category tree copied into new wallets.
var masterCatalog = []templateSpec{
	{
		Name: "Chi tiêu thiết yếu",
		Type: model.TypeExpense,
		Children: []templateSpec{
			{Name: "Ăn uống", Children: []templateSpec{
				{Name: "Đi chợ"},
				{Name: "Ăn nhà hàng"},
			}},
			{Name: "Học hành"},
			{Name: "Đi lại"},
		},
	},
	{
		Name: "Chi tiêu giải trí",
		Type: model.TypeExpense,
		Children: []templateSpec{
			{Name: "Mua sắm"},
			{Name: "Du lịch"},
		},
	},
	{
		Name: "Thu nhập cố định",
		Type: model.TypeIncome,
		Children: []templateSpec{
			{Name: "Lương"},
			{Name: "Thưởng"},
		},
	},
	{
		Name: "Quan hệ vay mượn",
		Type: model.TypeLend,
		Children: []templateSpec{
			{Name: "Cho bạn bè vay"},
			{Name: "Cho gia đình vay"},
		},
	},
	{
		Name: "Vay nợ",
		Type: model.TypeBorrow,
		Children: []templateSpec{
			{Name: "Vay ngân hàng"},
			{Name: "Mượn bạn bè"},
		},
	},
}

// Templates loads the master catalog into storage. It is idempotent: when
// any template already exists, nothing is written.
func Templates(ctx context.Context, storage service.Storage) error {
	existing, err := storage.ListTemplates(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		slog.Debug("template catalog already seeded", "count", len(existing))
		return nil
	}

	created, err := createTemplates(ctx, storage, masterCatalog, nil)
	if err != nil {
		return err
	}

	slog.Info("seeded master category templates", "created", created)
	return nil
}

func createTemplates(ctx context.Context, storage service.Storage, specs []templateSpec, parent *model.CategoryTemplate) (int, error) {
	created := 0
	for idx, spec := range specs {
		templateType := spec.Type
		if templateType == "" && parent != nil {
			templateType = parent.Type
		}
		if templateType == "" {
			templateType = model.TypeExpense
		}

		template := &model.CategoryTemplate{
			Name:     spec.Name,
			Type:     templateType,
			Position: idx,
		}
		if parent != nil {
			template.ParentID = &parent.ID
		}

		if err := storage.CreateTemplate(ctx, template); err != nil {
			return created, fmt.Errorf("failed to seed template %q: %w", spec.Name, err)
		}
		created++

		childCount, err := createTemplates(ctx, storage, spec.Children, template)
		if err != nil {
			return created, err
		}
		created += childCount
	}
	return created, nil
}

// DemoOwner is the owner ID used for seeded demo data.
const DemoOwner = "demo"

// demoWalletName matches the wallet the demo data lives in.
const demoWalletName = "Ví Tiền Mặt"

// Demo creates a demo wallet with bootstrapped categories and two sample
// transactions. It is idempotent: an existing demo wallet is left alone.
func Demo(ctx context.Context, storage service.Storage, led *ledger.Ledger) (*model.Wallet, error) {
	wallets, err := led.Wallets(ctx, DemoOwner)
	if err != nil {
		return nil, err
	}
	for i := range wallets {
		if wallets[i].Name == demoWalletName {
			slog.Debug("demo wallet already exists", "wallet_id", wallets[i].ID)
			return &wallets[i], nil
		}
	}

	wallet, err := led.CreateWallet(ctx, ledger.WalletParams{
		OwnerID:             DemoOwner,
		Name:                demoWalletName,
		Description:         "Ví mặc định để quản lý thu chi hàng ngày",
		Currency:            "VND",
		InitialBalance:      decimal.NewFromInt(5_000_000),
		BootstrapCategories: true,
	})
	if err != nil {
		return nil, err
	}

	categories, err := led.Categories(ctx, wallet.ID)
	if err != nil {
		return nil, err
	}
	var foodID, salaryID int64
	for _, cat := range categories {
		switch cat.Name {
		case "Ăn uống":
			foodID = cat.ID
		case "Lương":
			salaryID = cat.ID
		}
	}
	if foodID == 0 || salaryID == 0 {
		slog.Warn("demo categories not found, skipping sample transactions", "wallet_id", wallet.ID)
		return wallet, nil
	}

	if _, err := led.CreateTransaction(ctx, ledger.TransactionParams{
		WalletID:   wallet.ID,
		CategoryID: foodID,
		Amount:     decimal.NewFromInt(85_000),
		Note:       "Ăn sáng",
		OccurredAt: time.Now().Add(-2 * time.Hour),
	}); err != nil {
		return nil, err
	}
	if _, err := led.CreateTransaction(ctx, ledger.TransactionParams{
		WalletID:   wallet.ID,
		CategoryID: salaryID,
		Amount:     decimal.NewFromInt(15_000_000),
		Note:       "Nhận lương tháng",
		OccurredAt: time.Now().Add(-24 * time.Hour),
	}); err != nil {
		return nil, err
	}

	// Re-read so the returned wallet carries the posted balance.
	return led.Wallet(ctx, wallet.ID)
}
