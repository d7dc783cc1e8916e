package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"soquy/internal/model"
)

// CreateTemplate inserts a new category template and assigns its ID.
func (s *SQLiteStorage) CreateTemplate(ctx context.Context, template *model.CategoryTemplate) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTemplate(template); err != nil {
		return err
	}
	return s.createTemplateTx(ctx, s.db, template)
}

func (s *SQLiteStorage) createTemplateTx(ctx context.Context, q dbtx, template *model.CategoryTemplate) error {
	result, err := q.ExecContext(ctx, `
		INSERT INTO category_templates (name, transaction_type, parent_id, description, position)
		VALUES (?, ?, ?, ?, ?)`,
		template.Name,
		string(template.Type),
		template.ParentID,
		template.Description,
		template.Position,
	)
	if err != nil {
		return fmt.Errorf("failed to create category template: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get template ID: %w", err)
	}

	template.ID = id
	slog.Debug("created category template", "id", id, "name", template.Name, "type", template.Type)
	return nil
}

// ListTemplates returns the full template catalog ordered by transaction
// type, position, then name. Parent-before-child traversal order is the
// bootstrap walk's concern, not the catalog's.
func (s *SQLiteStorage) ListTemplates(ctx context.Context) ([]model.CategoryTemplate, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listTemplatesTx(ctx, s.db)
}

func (s *SQLiteStorage) listTemplatesTx(ctx context.Context, q dbtx) ([]model.CategoryTemplate, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, transaction_type, parent_id, description, position
		FROM category_templates
		ORDER BY transaction_type, position, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query category templates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var templates []model.CategoryTemplate
	for rows.Next() {
		var (
			template model.CategoryTemplate
			typeStr  string
			parentID sql.NullInt64
		)
		if err := rows.Scan(&template.ID, &template.Name, &typeStr, &parentID, &template.Description, &template.Position); err != nil {
			return nil, fmt.Errorf("failed to scan category template: %w", err)
		}
		template.Type = model.TransactionType(typeStr)
		if parentID.Valid {
			template.ParentID = &parentID.Int64
		}
		templates = append(templates, template)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category templates: %w", err)
	}

	slog.Debug("retrieved category templates", "count", len(templates))
	return templates, nil
}
