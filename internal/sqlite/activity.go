package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/activity"
)

// ActivityRepository implements activity.Repository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Log appends an entry to the audit trail
func (r *ActivityRepository) Log(ctx context.Context, tenantID string, entry *activity.Entry) error {
	query := `
		INSERT INTO activity_log (tenant_id, contract_id, entity_kind, entity_id,
		                          activity_type, actor, summary, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		tenantID, entry.ContractID, entry.EntityKind, entry.EntityID,
		entry.Type, entry.Actor, entry.Summary, entry.Details, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}
	if id, err := result.LastInsertId(); err == nil {
		entry.ID = id
	}
	return nil
}

// List returns audit entries matching the given options, newest first
func (r *ActivityRepository) List(ctx context.Context, tenantID string, opts activity.ListOptions) ([]activity.Entry, error) {
	query := `
		SELECT id, tenant_id, contract_id, entity_kind, entity_id,
		       activity_type, actor, summary, details, created_at
		FROM activity_log
		WHERE tenant_id = ?
	`
	args := []any{tenantID}

	if opts.ContractID != "" {
		query += " AND contract_id = ?"
		args = append(args, opts.ContractID)
	}
	if opts.EntityKind != nil {
		query += " AND entity_kind = ?"
		args = append(args, *opts.EntityKind)
	}
	if opts.EntityID != nil {
		query += " AND entity_id = ?"
		args = append(args, *opts.EntityID)
	}
	if len(opts.Types) > 0 {
		placeholders := make([]string, len(opts.Types))
		for i, t := range opts.Types {
			placeholders[i] = "?"
			args = append(args, t)
		}
		query += fmt.Sprintf(" AND activity_type IN (%s)", strings.Join(placeholders, ","))
	}

	query += " ORDER BY created_at DESC, id DESC"
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
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var entries []activity.Entry
	for rows.Next() {
		var e activity.Entry
		if err := rows.Scan(&e.ID, &e.TenantID, &e.ContractID, &e.EntityKind,
			&e.EntityID, &e.Type, &e.Actor, &e.Summary, &e.Details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}
	return entries, nil
}

// APIKeyStore resolves API keys to tenants for transport auth
type APIKeyStore struct {
	db *DB
}

// NewAPIKeyStore creates a new APIKeyStore
func NewAPIKeyStore(db *DB) *APIKeyStore {
	return &APIKeyStore{db: db}
}

// TenantForKey returns the tenant a hashed API key belongs to, or "" when
// the key is unknown.
func (s *APIKeyStore) TenantForKey(ctx context.Context, keyHash string) (string, error) {
	var tenantID string
	err := s.db.QueryRowContext(ctx, `SELECT tenant_id FROM api_keys WHERE key_hash = ?`, keyHash).Scan(&tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve api key: %w", err)
	}
	return tenantID, nil
}

// StoreKey registers a hashed API key for a tenant
func (s *APIKeyStore) StoreKey(ctx context.Context, keyHash, tenantID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO api_keys (key_hash, tenant_id) VALUES (?, ?)`,
		keyHash, tenantID)
	if err != nil {
		return fmt.Errorf("failed to store api key: %w", err)
	}
	return nil
}
