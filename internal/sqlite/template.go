package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/template"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/repository"
)

// TemplateRepository implements template.Repository for SQLite
type TemplateRepository struct {
	db *DB
}

// NewTemplateRepository creates a new TemplateRepository
func NewTemplateRepository(db *DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

const templateColumns = `
	id, tenant_id, name, slug, status, version, parent_id, content,
	variables, required_fields, defaults, billing, usage_count, last_used_at,
	success_rate, requires_approval, next_review_at, created_at, modified_at
`

// Create inserts a new template. A duplicate slug within the tenant returns
// repository.ErrConflict.
func (r *TemplateRepository) Create(ctx context.Context, tenantID string, tpl *template.Template) error {
	variables, err := marshalJSON(tpl.Variables, "[]")
	if err != nil {
		return err
	}
	required, err := marshalJSON(tpl.RequiredFields, "[]")
	if err != nil {
		return err
	}
	defaults, err := marshalJSON(tpl.Defaults, "{}")
	if err != nil {
		return err
	}
	billing, err := marshalJSON(tpl.Billing, "{}")
	if err != nil {
		return err
	}

	query := `
		INSERT INTO templates (` + templateColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		tpl.ID, tenantID, tpl.Name, tpl.Slug, tpl.Status, tpl.Version,
		tpl.ParentID, tpl.Content, variables, required, defaults, billing,
		tpl.UsageCount, nullTime(tpl.LastUsedAt), tpl.SuccessRate,
		tpl.RequiresApproval, nullTime(tpl.NextReviewAt), tpl.CreatedAt, tpl.ModifiedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

// Get retrieves a template by ID
func (r *TemplateRepository) Get(ctx context.Context, tenantID, id string) (*template.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE id = ? AND tenant_id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id, tenantID))
}

// GetBySlug retrieves a template by its slug
func (r *TemplateRepository) GetBySlug(ctx context.Context, tenantID, slug string) (*template.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE slug = ? AND tenant_id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, slug, tenantID))
}

func (r *TemplateRepository) scanOne(row *sql.Row) (*template.Template, error) {
	var tpl template.Template
	var variables, required, defaults, billing string
	var lastUsed, nextReview sql.NullTime

	err := row.Scan(
		&tpl.ID, &tpl.TenantID, &tpl.Name, &tpl.Slug, &tpl.Status, &tpl.Version,
		&tpl.ParentID, &tpl.Content, &variables, &required, &defaults, &billing,
		&tpl.UsageCount, &lastUsed, &tpl.SuccessRate, &tpl.RequiresApproval,
		&nextReview, &tpl.CreatedAt, &tpl.ModifiedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	if err := unmarshalJSON(variables, &tpl.Variables); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(required, &tpl.RequiredFields); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(defaults, &tpl.Defaults); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(billing, &tpl.Billing); err != nil {
		return nil, err
	}
	tpl.LastUsedAt = timePtr(lastUsed)
	tpl.NextReviewAt = timePtr(nextReview)
	return &tpl, nil
}

// Update persists template changes
func (r *TemplateRepository) Update(ctx context.Context, tenantID string, tpl *template.Template) error {
	variables, err := marshalJSON(tpl.Variables, "[]")
	if err != nil {
		return err
	}
	required, err := marshalJSON(tpl.RequiredFields, "[]")
	if err != nil {
		return err
	}
	defaults, err := marshalJSON(tpl.Defaults, "{}")
	if err != nil {
		return err
	}
	billing, err := marshalJSON(tpl.Billing, "{}")
	if err != nil {
		return err
	}

	query := `
		UPDATE templates
		SET name = ?, slug = ?, status = ?, version = ?, content = ?,
		    variables = ?, required_fields = ?, defaults = ?, billing = ?,
		    success_rate = ?, requires_approval = ?, next_review_at = ?, modified_at = ?
		WHERE id = ? AND tenant_id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		tpl.Name, tpl.Slug, tpl.Status, tpl.Version, tpl.Content,
		variables, required, defaults, billing,
		tpl.SuccessRate, tpl.RequiresApproval, nullTime(tpl.NextReviewAt), tpl.ModifiedAt,
		tpl.ID, tenantID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to update template: %w", err)
	}
	return requireRow(result)
}

// Delete removes a template
func (r *TemplateRepository) Delete(ctx context.Context, tenantID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ? AND tenant_id = ?`, id, tenantID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return requireRow(result)
}

// RecordUsage increments the usage counter and stamps last_used_at
func (r *TemplateRepository) RecordUsage(ctx context.Context, tenantID, id string, usedAt time.Time) error {
	query := `
		UPDATE templates
		SET usage_count = usage_count + 1, last_used_at = ?, modified_at = ?
		WHERE id = ? AND tenant_id = ?
	`
	result, err := r.db.ExecContext(ctx, query, usedAt, usedAt, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to record template usage: %w", err)
	}
	return requireRow(result)
}

// List returns templates matching the given options as lightweight summaries
func (r *TemplateRepository) List(ctx context.Context, tenantID string, opts template.ListOptions) ([]template.TemplateSummary, error) {
	query := `
		SELECT id, name, slug, status, version,
		       json_extract(billing, '$.model') AS billing_model,
		       usage_count, last_used_at
		FROM templates
		WHERE tenant_id = ?
	`
	args := []any{tenantID}

	if len(opts.Statuses) > 0 {
		placeholders := make([]string, len(opts.Statuses))
		for i, status := range opts.Statuses {
			placeholders[i] = "?"
			args = append(args, status)
		}
		query += fmt.Sprintf(" AND status IN (%s)", strings.Join(placeholders, ","))
	}
	if len(opts.Models) > 0 {
		placeholders := make([]string, len(opts.Models))
		for i, model := range opts.Models {
			placeholders[i] = "?"
			args = append(args, model)
		}
		query += fmt.Sprintf(" AND json_extract(billing, '$.model') IN (%s)", strings.Join(placeholders, ","))
	}

	query += " ORDER BY created_at DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}
	if opts.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var summaries []template.TemplateSummary
	for rows.Next() {
		var s template.TemplateSummary
		var model sql.NullString
		var lastUsed sql.NullTime
		if err := rows.Scan(&s.ID, &s.Name, &s.Slug, &s.Status, &s.Version, &model, &s.UsageCount, &lastUsed); err != nil {
			return nil, fmt.Errorf("failed to scan template summary: %w", err)
		}
		s.Billing = template.BillingModel(model.String)
		s.LastUsedAt = timePtr(lastUsed)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating template rows: %w", err)
	}
	return summaries, nil
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
