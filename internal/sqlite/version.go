package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/version"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/repository"
)

// VersionRepository implements version.Repository for SQLite
type VersionRepository struct {
	db *DB
}

// NewVersionRepository creates a new VersionRepository
func NewVersionRepository(db *DB) *VersionRepository {
	return &VersionRepository{db: db}
}

const versionColumns = `
	id, tenant_id, contract_id, negotiation_id, version_number, type, status,
	approval_status, title, value, start_date, end_date, data, components,
	pricing, changes, approval_log, is_client_visible, is_final, created_by,
	created_at, modified_at
`

// Create inserts a new version snapshot. A duplicate version number within
// the contract returns repository.ErrConflict.
func (r *VersionRepository) Create(ctx context.Context, tenantID string, ver *version.ContractVersion) error {
	data, err := marshalJSON(ver.Data, "{}")
	if err != nil {
		return err
	}
	components, err := marshalJSON(ver.Components, "[]")
	if err != nil {
		return err
	}
	pricing, err := marshalJSON(ver.Pricing, "{}")
	if err != nil {
		return err
	}
	changes, err := marshalJSON(ver.Changes, "[]")
	if err != nil {
		return err
	}
	approvalLog, err := marshalJSON(ver.ApprovalLog, "[]")
	if err != nil {
		return err
	}

	query := `
		INSERT INTO contract_versions (` + versionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		ver.ID, tenantID, ver.ContractID, ver.NegotiationID, ver.VersionNumber,
		ver.Type, ver.Status, ver.ApprovalStatus, ver.Title, ver.Value,
		nullTime(ver.StartDate), nullTime(ver.EndDate), data, components,
		pricing, changes, approvalLog, ver.IsClientVisible, ver.IsFinal,
		ver.CreatedBy, ver.CreatedAt, ver.ModifiedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create version: %w", err)
	}
	return nil
}

// Get retrieves a version by ID
func (r *VersionRepository) Get(ctx context.Context, tenantID, id string) (*version.ContractVersion, error) {
	query := `SELECT ` + versionColumns + ` FROM contract_versions WHERE id = ? AND tenant_id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id, tenantID))
}

// Latest returns the most recently created version of a contract, or
// repository.ErrNotFound when the contract has no versions yet. Snapshots are
// append-only so creation order matches version-number order.
func (r *VersionRepository) Latest(ctx context.Context, tenantID, contractID string) (*version.ContractVersion, error) {
	query := `
		SELECT ` + versionColumns + `
		FROM contract_versions
		WHERE tenant_id = ? AND contract_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, tenantID, contractID))
}

func (r *VersionRepository) scanOne(row *sql.Row) (*version.ContractVersion, error) {
	var ver version.ContractVersion
	var data, components, pricing, changes, approvalLog string
	var startDate, endDate sql.NullTime

	err := row.Scan(
		&ver.ID, &ver.TenantID, &ver.ContractID, &ver.NegotiationID,
		&ver.VersionNumber, &ver.Type, &ver.Status, &ver.ApprovalStatus,
		&ver.Title, &ver.Value, &startDate, &endDate, &data, &components,
		&pricing, &changes, &approvalLog, &ver.IsClientVisible, &ver.IsFinal,
		&ver.CreatedBy, &ver.CreatedAt, &ver.ModifiedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get version: %w", err)
	}

	if err := unmarshalJSON(data, &ver.Data); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(components, &ver.Components); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(pricing, &ver.Pricing); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(changes, &ver.Changes); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(approvalLog, &ver.ApprovalLog); err != nil {
		return nil, err
	}
	ver.StartDate = timePtr(startDate)
	ver.EndDate = timePtr(endDate)
	return &ver, nil
}

// Update persists version changes. The write is guarded on is_final so a
// version finalized by a concurrent writer surfaces repository.ErrImmutable
// rather than being silently overwritten. Promoting a second version to final
// for the same contract surfaces repository.ErrConflict.
func (r *VersionRepository) Update(ctx context.Context, tenantID string, ver *version.ContractVersion) error {
	changes, err := marshalJSON(ver.Changes, "[]")
	if err != nil {
		return err
	}
	approvalLog, err := marshalJSON(ver.ApprovalLog, "[]")
	if err != nil {
		return err
	}

	query := `
		UPDATE contract_versions
		SET status = ?, approval_status = ?, changes = ?, approval_log = ?,
		    is_client_visible = ?, is_final = ?, modified_at = ?
		WHERE id = ? AND tenant_id = ? AND is_final = 0
	`
	result, err := r.db.ExecContext(ctx, query,
		ver.Status, ver.ApprovalStatus, changes, approvalLog,
		ver.IsClientVisible, ver.IsFinal, ver.ModifiedAt,
		ver.ID, tenantID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to update version: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return r.zeroRowReason(ctx, tenantID, ver.ID)
	}
	return nil
}

// zeroRowReason distinguishes a missing version from one already final.
func (r *VersionRepository) zeroRowReason(ctx context.Context, tenantID, id string) error {
	var isFinal bool
	query := `SELECT is_final FROM contract_versions WHERE id = ? AND tenant_id = ?`
	err := r.db.QueryRowContext(ctx, query, id, tenantID).Scan(&isFinal)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check version state: %w", err)
	}
	if isFinal {
		return repository.ErrImmutable
	}
	return repository.ErrNotFound
}

// List returns version summaries matching the given options
func (r *VersionRepository) List(ctx context.Context, tenantID string, opts version.ListOptions) ([]version.VersionSummary, error) {
	query := `
		SELECT id, contract_id, version_number, type, status, approval_status,
		       value, is_final, created_at
		FROM contract_versions
		WHERE tenant_id = ?
	`
	args := []any{tenantID}

	if opts.ContractID != "" {
		query += " AND contract_id = ?"
		args = append(args, opts.ContractID)
	}
	if opts.NegotiationID != nil {
		query += " AND negotiation_id = ?"
		args = append(args, *opts.NegotiationID)
	}
	if len(opts.Statuses) > 0 {
		placeholders := make([]string, len(opts.Statuses))
		for i, status := range opts.Statuses {
			placeholders[i] = "?"
			args = append(args, status)
		}
		query += fmt.Sprintf(" AND status IN (%s)", strings.Join(placeholders, ","))
	}
	if opts.ClientVisible != nil {
		query += " AND is_client_visible = ?"
		args = append(args, *opts.ClientVisible)
	}

	query += " ORDER BY created_at DESC, rowid DESC"
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
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	var summaries []version.VersionSummary
	for rows.Next() {
		var s version.VersionSummary
		if err := rows.Scan(&s.ID, &s.ContractID, &s.VersionNumber, &s.Type,
			&s.Status, &s.ApprovalStatus, &s.TotalValue, &s.IsFinal, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan version summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating version rows: %w", err)
	}
	return summaries, nil
}
