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

// CreateCategory inserts a new category and assigns its ID. Parent/wallet
// and parent/type consistency is the ledger's responsibility; the storage
// layer only enforces the (wallet, name, type) uniqueness constraint.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}
	return s.createCategoryTx(ctx, s.db, category)
}

func (s *SQLiteStorage) createCategoryTx(ctx context.Context, q dbtx, category *model.Category) error {
	now := time.Now()

	result, err := q.ExecContext(ctx, `
		INSERT INTO categories (wallet_id, name, transaction_type, parent_id, template_id, description, icon, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		category.WalletID,
		category.Name,
		string(category.Type),
		category.ParentID,
		category.TemplateID,
		category.Description,
		category.Icon,
		category.IsActive,
		now,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: category %q (%s) in wallet %d", common.ErrDuplicate, category.Name, category.Type, category.WalletID)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get category ID: %w", err)
	}

	category.ID = id
	category.CreatedAt = now
	category.UpdatedAt = now

	slog.Debug("created category", "id", id, "name", category.Name, "wallet_id", category.WalletID, "type", category.Type)
	return nil
}

// GetCategory returns a category by ID.
func (s *SQLiteStorage) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getCategoryTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getCategoryTx(ctx context.Context, q dbtx, id int64) (*model.Category, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, wallet_id, name, transaction_type, parent_id, template_id, description, icon, is_active, created_at, updated_at
		FROM categories
		WHERE id = ?`, id)

	category, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("category", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return category, nil
}

// ListCategories returns a wallet's categories ordered by type then name.
func (s *SQLiteStorage) ListCategories(ctx context.Context, walletID int64) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listCategoriesTx(ctx, s.db, walletID, false)
}

// ListActiveCategories returns only the wallet's active categories.
func (s *SQLiteStorage) ListActiveCategories(ctx context.Context, walletID int64) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listCategoriesTx(ctx, s.db, walletID, true)
}

func (s *SQLiteStorage) listCategoriesTx(ctx context.Context, q dbtx, walletID int64, activeOnly bool) ([]model.Category, error) {
	query := `
		SELECT id, wallet_id, name, transaction_type, parent_id, template_id, description, icon, is_active, created_at, updated_at
		FROM categories
		WHERE wallet_id = ?`
	if activeOnly {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY transaction_type, name`

	rows, err := q.QueryContext(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		category, scanErr := scanCategory(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan category: %w", scanErr)
		}
		categories = append(categories, *category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "wallet_id", walletID, "count", len(categories))
	return categories, nil
}

// UpdateCategory updates a category's mutable attributes.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}
	return s.updateCategoryTx(ctx, s.db, category)
}

func (s *SQLiteStorage) updateCategoryTx(ctx context.Context, q dbtx, category *model.Category) error {
	result, err := q.ExecContext(ctx, `
		UPDATE categories
		SET name = ?, description = ?, icon = ?, parent_id = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		category.Name,
		category.Description,
		category.Icon,
		category.ParentID,
		category.IsActive,
		time.Now(),
		category.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: category %q (%s) in wallet %d", common.ErrDuplicate, category.Name, category.Type, category.WalletID)
		}
		return fmt.Errorf("failed to update category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return notFound("category", category.ID)
	}
	return nil
}

// DeleteCategory removes a category. Deletion is protected: it fails when
// any transaction still references the category.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.deleteCategoryTx(ctx, s.db, id)
}

func (s *SQLiteStorage) deleteCategoryTx(ctx context.Context, q dbtx, id int64) error {
	count, err := s.countTransactionsByCategoryTx(ctx, q, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: category %d has %d transactions", common.ErrReferenced, id, count)
	}

	result, err := q.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return notFound("category", id)
	}

	slog.Info("deleted category", "id", id)
	return nil
}

// CountCategories returns the number of categories in a wallet.
func (s *SQLiteStorage) CountCategories(ctx context.Context, walletID int64) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return s.countCategoriesTx(ctx, s.db, walletID)
}

func (s *SQLiteStorage) countCategoriesTx(ctx context.Context, q dbtx, walletID int64) (int, error) {
	var count int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE wallet_id = ?`, walletID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return count, nil
}

func scanCategory(row scanner) (*model.Category, error) {
	var (
		category model.Category
		typeStr  string
		parentID sql.NullInt64
		tmplID   sql.NullInt64
	)
	if err := row.Scan(
		&category.ID,
		&category.WalletID,
		&category.Name,
		&typeStr,
		&parentID,
		&tmplID,
		&category.Description,
		&category.Icon,
		&category.IsActive,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		return nil, err
	}
	category.Type = model.TransactionType(typeStr)
	if parentID.Valid {
		category.ParentID = &parentID.Int64
	}
	if tmplID.Valid {
		category.TemplateID = &tmplID.Int64
	}
	return &category, nil
}
