package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/comment"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/repository"
)

// CommentRepository implements comment.Repository for SQLite
type CommentRepository struct {
	db *DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *DB) *CommentRepository {
	return &CommentRepository{db: db}
}

const commentColumns = `
	id, tenant_id, contract_id, negotiation_id, version_id, parent_id,
	author_id, author_kind, body, type, priority, section_ref, mentions,
	attachments, is_internal, is_resolved, requires_response, response_due,
	resolved_by, resolved_at, thread_position, created_at, modified_at
`

// Create inserts a new comment, assigning its thread position inside the
// insert transaction. Two writers racing for the same sibling position hit
// the unique index and the loser gets repository.ErrConflict.
func (r *CommentRepository) Create(ctx context.Context, tenantID string, c *comment.Comment) error {
	mentions, err := marshalJSON(c.Mentions, "[]")
	if err != nil {
		return err
	}
	attachments, err := marshalJSON(c.Attachments, "[]")
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var position int
	if c.ParentID != nil {
		err = tx.QueryRowContext(ctx, `
			SELECT COALESCE(MAX(thread_position), 0) + 1 FROM comments
			WHERE tenant_id = ? AND contract_id = ? AND parent_id = ?
		`, tenantID, c.ContractID, *c.ParentID).Scan(&position)
	} else {
		err = tx.QueryRowContext(ctx, `
			SELECT COALESCE(MAX(thread_position), 0) + 1 FROM comments
			WHERE tenant_id = ? AND contract_id = ? AND parent_id IS NULL
		`, tenantID, c.ContractID).Scan(&position)
	}
	if err != nil {
		return fmt.Errorf("failed to compute thread position: %w", err)
	}
	c.ThreadPosition = position

	query := `
		INSERT INTO comments (` + commentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		c.ID, tenantID, c.ContractID, c.NegotiationID, c.VersionID, c.ParentID,
		c.AuthorID, c.AuthorKind, c.Body, c.Type, c.Priority, c.SectionRef,
		mentions, attachments, c.IsInternal, c.IsResolved, c.RequiresResponse,
		nullTime(c.ResponseDue), c.ResolvedBy, nullTime(c.ResolvedAt),
		c.ThreadPosition, c.CreatedAt, c.ModifiedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create comment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to commit comment: %w", err)
	}
	return nil
}

// Get retrieves a comment by ID
func (r *CommentRepository) Get(ctx context.Context, tenantID, id string) (*comment.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = ? AND tenant_id = ?`
	row := r.db.QueryRowContext(ctx, query, id, tenantID)

	c, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return c, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComment(row rowScanner) (*comment.Comment, error) {
	var c comment.Comment
	var mentions, attachments string
	var responseDue, resolvedAt sql.NullTime

	err := row.Scan(
		&c.ID, &c.TenantID, &c.ContractID, &c.NegotiationID, &c.VersionID,
		&c.ParentID, &c.AuthorID, &c.AuthorKind, &c.Body, &c.Type, &c.Priority,
		&c.SectionRef, &mentions, &attachments, &c.IsInternal, &c.IsResolved,
		&c.RequiresResponse, &responseDue, &c.ResolvedBy, &resolvedAt,
		&c.ThreadPosition, &c.CreatedAt, &c.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalJSON(mentions, &c.Mentions); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(attachments, &c.Attachments); err != nil {
		return nil, err
	}
	c.ResponseDue = timePtr(responseDue)
	c.ResolvedAt = timePtr(resolvedAt)
	return &c, nil
}

// Update persists comment changes
func (r *CommentRepository) Update(ctx context.Context, tenantID string, c *comment.Comment) error {
	mentions, err := marshalJSON(c.Mentions, "[]")
	if err != nil {
		return err
	}
	attachments, err := marshalJSON(c.Attachments, "[]")
	if err != nil {
		return err
	}

	query := `
		UPDATE comments
		SET body = ?, type = ?, priority = ?, section_ref = ?, mentions = ?,
		    attachments = ?, is_resolved = ?, requires_response = ?,
		    response_due = ?, resolved_by = ?, resolved_at = ?, modified_at = ?
		WHERE id = ? AND tenant_id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		c.Body, c.Type, c.Priority, c.SectionRef, mentions, attachments,
		c.IsResolved, c.RequiresResponse, nullTime(c.ResponseDue),
		c.ResolvedBy, nullTime(c.ResolvedAt), c.ModifiedAt,
		c.ID, tenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return requireRow(result)
}

// List returns comments matching the given options
func (r *CommentRepository) List(ctx context.Context, tenantID string, opts comment.ListOptions) ([]comment.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE tenant_id = ?`
	args := []any{tenantID}

	if opts.ContractID != "" {
		query += " AND contract_id = ?"
		args = append(args, opts.ContractID)
	}
	if opts.NegotiationID != nil {
		query += " AND negotiation_id = ?"
		args = append(args, *opts.NegotiationID)
	}
	if opts.VersionID != nil {
		query += " AND version_id = ?"
		args = append(args, *opts.VersionID)
	}
	if opts.ParentID != nil {
		query += " AND parent_id = ?"
		args = append(args, *opts.ParentID)
	}
	if opts.RootsOnly {
		query += " AND parent_id IS NULL"
	}
	if len(opts.Types) > 0 {
		placeholders := make([]string, len(opts.Types))
		for i, t := range opts.Types {
			placeholders[i] = "?"
			args = append(args, t)
		}
		query += fmt.Sprintf(" AND type IN (%s)", strings.Join(placeholders, ","))
	}
	if len(opts.Priorities) > 0 {
		placeholders := make([]string, len(opts.Priorities))
		for i, p := range opts.Priorities {
			placeholders[i] = "?"
			args = append(args, p)
		}
		query += fmt.Sprintf(" AND priority IN (%s)", strings.Join(placeholders, ","))
	}
	if opts.Unresolved {
		query += " AND is_resolved = 0"
	}
	if opts.RequiresResponse {
		query += " AND requires_response = 1"
	}
	if opts.ExcludeInternal {
		query += " AND is_internal = 0"
	}

	query += " ORDER BY created_at ASC, thread_position ASC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}
	if opts.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	return r.queryComments(ctx, query, args...)
}

// ListByContract returns every comment on a contract in creation order
func (r *CommentRepository) ListByContract(ctx context.Context, tenantID, contractID string) ([]comment.Comment, error) {
	query := `
		SELECT ` + commentColumns + ` FROM comments
		WHERE tenant_id = ? AND contract_id = ?
		ORDER BY created_at ASC, thread_position ASC
	`
	return r.queryComments(ctx, query, tenantID, contractID)
}

func (r *CommentRepository) queryComments(ctx context.Context, query string, args ...any) ([]comment.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []comment.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}
	return comments, nil
}
