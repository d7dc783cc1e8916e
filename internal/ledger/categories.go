package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"soquy/internal/common"
	"soquy/internal/model"
	"soquy/internal/service"
)

// CategoryParams describes a category to create.
type CategoryParams struct {
	WalletID    int64
	Name        string
	Type        model.TransactionType
	ParentID    *int64
	Description string
	Icon        string
}

// CreateCategory creates a category in a wallet. A parent category, when
// given, must belong to the same wallet and carry the same transaction type.
func (l *Ledger) CreateCategory(ctx context.Context, params CategoryParams) (*model.Category, error) {
	tx, err := l.storage.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.GetWallet(ctx, params.WalletID); err != nil {
		return nil, err
	}

	if params.ParentID != nil {
		if err := l.checkParent(ctx, tx, params.WalletID, params.Type, *params.ParentID); err != nil {
			return nil, err
		}
	}

	category := &model.Category{
		WalletID:    params.WalletID,
		Name:        params.Name,
		Type:        params.Type,
		ParentID:    params.ParentID,
		Description: params.Description,
		Icon:        params.Icon,
		IsActive:    true,
	}

	if err := tx.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit category creation: %w", err)
	}
	return category, nil
}

// CategoryUpdate carries the optional fields of a category update; nil
// fields are left unchanged. Re-parenting re-validates wallet and type
// consistency; ClearParent detaches the category from its parent.
type CategoryUpdate struct {
	Name        *string
	Description *string
	Icon        *string
	IsActive    *bool
	ParentID    *int64
	ClearParent bool
}

// UpdateCategory updates a category's mutable attributes. The transaction
// type is fixed at creation and cannot be changed.
func (l *Ledger) UpdateCategory(ctx context.Context, id int64, update CategoryUpdate) (*model.Category, error) {
	tx, err := l.storage.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	category, err := tx.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		category.Name = *update.Name
	}
	if update.Description != nil {
		category.Description = *update.Description
	}
	if update.Icon != nil {
		category.Icon = *update.Icon
	}
	if update.IsActive != nil {
		category.IsActive = *update.IsActive
	}
	switch {
	case update.ClearParent:
		category.ParentID = nil
	case update.ParentID != nil:
		if err := l.checkParent(ctx, tx, category.WalletID, category.Type, *update.ParentID); err != nil {
			return nil, err
		}
		if err := l.checkNoCycle(ctx, tx, id, *update.ParentID); err != nil {
			return nil, err
		}
		category.ParentID = update.ParentID
	}

	if err := tx.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit category update: %w", err)
	}
	return category, nil
}

// DeleteCategory removes a category. It fails while any transaction still
// references the category; transactions are never cascaded away.
func (l *Ledger) DeleteCategory(ctx context.Context, id int64) error {
	return l.storage.DeleteCategory(ctx, id)
}

// Categories returns all of a wallet's categories.
func (l *Ledger) Categories(ctx context.Context, walletID int64) ([]model.Category, error) {
	return l.storage.ListCategories(ctx, walletID)
}

// ActiveCategories returns the wallet's active categories only.
func (l *Ledger) ActiveCategories(ctx context.Context, walletID int64) ([]model.Category, error) {
	return l.storage.ListActiveCategories(ctx, walletID)
}

// Templates returns the shared category template catalog.
func (l *Ledger) Templates(ctx context.Context) ([]model.CategoryTemplate, error) {
	return l.storage.ListTemplates(ctx)
}

// BootstrapCategories materializes the template catalog into a wallet that
// has no categories yet. Calling it on a wallet that already has any
// category is a no-op: existing trees are never duplicated or overwritten.
// It returns the number of categories created.
func (l *Ledger) BootstrapCategories(ctx context.Context, walletID int64) (int, error) {
	tx, err := l.storage.BeginTx(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.GetWallet(ctx, walletID); err != nil {
		return 0, err
	}

	created, err := l.bootstrapCategoriesTx(ctx, tx, walletID)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit category bootstrap: %w", err)
	}
	return created, nil
}

// bootstrapCategoriesTx walks the template catalog breadth-first from the
// roots so a template's parent is always materialized before the template
// itself, carrying a template-id to category map for parent resolution.
func (l *Ledger) bootstrapCategoriesTx(ctx context.Context, tx service.Transaction, walletID int64) (int, error) {
	count, err := tx.CountCategories(ctx, walletID)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		slog.Debug("wallet already has categories, skipping bootstrap", "wallet_id", walletID, "count", count)
		return 0, nil
	}

	templates, err := tx.ListTemplates(ctx)
	if err != nil {
		return 0, err
	}

	// Catalog order (type, position, name) is preserved within each level.
	children := make(map[int64][]model.CategoryTemplate)
	var queue []model.CategoryTemplate
	for _, tmpl := range templates {
		if tmpl.ParentID == nil {
			queue = append(queue, tmpl)
		} else {
			children[*tmpl.ParentID] = append(children[*tmpl.ParentID], tmpl)
		}
	}

	materialized := make(map[int64]*model.Category, len(templates))
	created := 0

	for len(queue) > 0 {
		tmpl := queue[0]
		queue = queue[1:]

		var parent *model.Category
		if tmpl.ParentID != nil {
			parent = materialized[*tmpl.ParentID]
			if parent == nil {
				return 0, fmt.Errorf("template %d references unknown parent %d", tmpl.ID, *tmpl.ParentID)
			}
		}

		categoryType := tmpl.Type
		if !categoryType.Valid() && parent != nil {
			// Child templates without a type inherit from their ancestor.
			categoryType = parent.Type
		}

		templateID := tmpl.ID
		category := &model.Category{
			WalletID:    walletID,
			Name:        tmpl.Name,
			Type:        categoryType,
			TemplateID:  &templateID,
			Description: tmpl.Description,
			IsActive:    true,
		}
		if parent != nil {
			category.ParentID = &parent.ID
		}

		if err := tx.CreateCategory(ctx, category); err != nil {
			return 0, err
		}
		materialized[tmpl.ID] = category
		created++

		queue = append(queue, children[tmpl.ID]...)
	}

	slog.Info("bootstrapped categories from templates", "wallet_id", walletID, "created", created)
	return created, nil
}

// checkParent validates that a prospective parent belongs to the same wallet
// and carries the same transaction type as the child.
func (l *Ledger) checkParent(ctx context.Context, tx service.Transaction, walletID int64, categoryType model.TransactionType, parentID int64) error {
	parent, err := tx.GetCategory(ctx, parentID)
	if err != nil {
		return err
	}
	if parent.WalletID != walletID {
		return fmt.Errorf("%w: parent category %d belongs to wallet %d, not %d",
			common.ErrValidation, parentID, parent.WalletID, walletID)
	}
	if parent.Type != categoryType {
		return fmt.Errorf("%w: parent category %d has type %s, not %s",
			common.ErrValidation, parentID, parent.Type, categoryType)
	}
	return nil
}

// checkNoCycle rejects a re-parenting that would make a category its own
// ancestor.
func (l *Ledger) checkNoCycle(ctx context.Context, tx service.Transaction, id, parentID int64) error {
	current := parentID
	for {
		if current == id {
			return fmt.Errorf("%w: category %d cannot be its own ancestor", common.ErrValidation, id)
		}
		ancestor, err := tx.GetCategory(ctx, current)
		if err != nil {
			return err
		}
		if ancestor.ParentID == nil {
			return nil
		}
		current = *ancestor.ParentID
	}
}
