package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/version"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/repository"
)

// ContractRepository holds the contract state the owning application syncs
// in. It implements version.ContractSource for the snapshot path.
type ContractRepository struct {
	db *DB
}

// NewContractRepository creates a new ContractRepository
func NewContractRepository(db *DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// Put upserts the contract state for a tenant.
func (r *ContractRepository) Put(ctx context.Context, tenantID string, data *version.ContractData) error {
	components, err := marshalJSON(data.Components, "[]")
	if err != nil {
		return err
	}
	extra, err := marshalJSON(data.Data, "{}")
	if err != nil {
		return err
	}

	query := `
		INSERT INTO contracts (id, tenant_id, title, value, start_date, end_date, components, data, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (tenant_id, id) DO UPDATE SET
			title = excluded.title,
			value = excluded.value,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			components = excluded.components,
			data = excluded.data,
			synced_at = excluded.synced_at
	`
	_, err = r.db.ExecContext(ctx, query,
		data.ContractID, tenantID, data.Title, data.Value,
		nullTime(data.StartDate), nullTime(data.EndDate),
		components, extra, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert contract: %w", err)
	}
	return nil
}

// Get retrieves the synced contract state by ID.
func (r *ContractRepository) Get(ctx context.Context, tenantID, contractID string) (*version.ContractData, error) {
	query := `
		SELECT id, title, value, start_date, end_date, components, data
		FROM contracts WHERE id = ? AND tenant_id = ?
	`
	var (
		data               version.ContractData
		startDate, endDate sql.NullTime
		components, extra  string
	)
	err := r.db.QueryRowContext(ctx, query, contractID, tenantID).Scan(
		&data.ContractID, &data.Title, &data.Value,
		&startDate, &endDate, &components, &extra,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	if err := unmarshalJSON(components, &data.Components); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(extra, &data.Data); err != nil {
		return nil, err
	}
	data.StartDate = timePtr(startDate)
	data.EndDate = timePtr(endDate)
	return &data, nil
}

// Delete removes the synced contract state.
func (r *ContractRepository) Delete(ctx context.Context, tenantID, contractID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM contracts WHERE id = ? AND tenant_id = ?`, contractID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete contract: %w", err)
	}
	return requireRow(result)
}
