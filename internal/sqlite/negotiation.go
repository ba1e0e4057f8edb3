package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/negotiation"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/repository"
)

// NegotiationRepository implements negotiation.Repository for SQLite
type NegotiationRepository struct {
	db *DB
}

// NewNegotiationRepository creates a new NegotiationRepository
func NewNegotiationRepository(db *DB) *NegotiationRepository {
	return &NegotiationRepository{db: db}
}

const negotiationColumns = `
	id, tenant_id, contract_id, quote_id, number, title, description, status,
	phase, round, internal_participants, external_participants, target_value,
	minimum_value, final_value, pricing_history, started_at, deadline,
	completed_at, last_activity_at, won, outcome_notes
`

// Create inserts a new negotiation. A duplicate number within the tenant
// returns repository.ErrConflict.
func (r *NegotiationRepository) Create(ctx context.Context, tenantID string, neg *negotiation.Negotiation) error {
	internal, err := marshalJSON(neg.Internal, "[]")
	if err != nil {
		return err
	}
	external, err := marshalJSON(neg.External, "[]")
	if err != nil {
		return err
	}
	pricing, err := marshalJSON(neg.PricingHistory, "[]")
	if err != nil {
		return err
	}

	query := `
		INSERT INTO negotiations (` + negotiationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		neg.ID, tenantID, neg.ContractID, neg.QuoteID, neg.Number, neg.Title,
		neg.Description, neg.Status, neg.Phase, neg.Round, internal, external,
		neg.TargetValue, neg.MinimumValue, neg.FinalValue, pricing,
		neg.StartedAt, nullTime(neg.Deadline), nullTime(neg.CompletedAt),
		neg.LastActivityAt, neg.Won, neg.OutcomeNotes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create negotiation: %w", err)
	}
	return nil
}

// Get retrieves a negotiation by ID
func (r *NegotiationRepository) Get(ctx context.Context, tenantID, id string) (*negotiation.Negotiation, error) {
	query := `SELECT ` + negotiationColumns + ` FROM negotiations WHERE id = ? AND tenant_id = ?`
	row := r.db.QueryRowContext(ctx, query, id, tenantID)

	var neg negotiation.Negotiation
	var internal, external, pricing string
	var deadline, completedAt sql.NullTime

	err := row.Scan(
		&neg.ID, &neg.TenantID, &neg.ContractID, &neg.QuoteID, &neg.Number,
		&neg.Title, &neg.Description, &neg.Status, &neg.Phase, &neg.Round,
		&internal, &external, &neg.TargetValue, &neg.MinimumValue,
		&neg.FinalValue, &pricing, &neg.StartedAt, &deadline, &completedAt,
		&neg.LastActivityAt, &neg.Won, &neg.OutcomeNotes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get negotiation: %w", err)
	}

	if err := unmarshalJSON(internal, &neg.Internal); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(external, &neg.External); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(pricing, &neg.PricingHistory); err != nil {
		return nil, err
	}
	neg.Deadline = timePtr(deadline)
	neg.CompletedAt = timePtr(completedAt)
	return &neg, nil
}

// Update persists negotiation changes
func (r *NegotiationRepository) Update(ctx context.Context, tenantID string, neg *negotiation.Negotiation) error {
	internal, err := marshalJSON(neg.Internal, "[]")
	if err != nil {
		return err
	}
	external, err := marshalJSON(neg.External, "[]")
	if err != nil {
		return err
	}
	pricing, err := marshalJSON(neg.PricingHistory, "[]")
	if err != nil {
		return err
	}

	query := `
		UPDATE negotiations
		SET title = ?, description = ?, status = ?, phase = ?, round = ?,
		    internal_participants = ?, external_participants = ?,
		    target_value = ?, minimum_value = ?, final_value = ?,
		    pricing_history = ?, deadline = ?, completed_at = ?,
		    last_activity_at = ?, won = ?, outcome_notes = ?
		WHERE id = ? AND tenant_id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		neg.Title, neg.Description, neg.Status, neg.Phase, neg.Round,
		internal, external, neg.TargetValue, neg.MinimumValue, neg.FinalValue,
		pricing, nullTime(neg.Deadline), nullTime(neg.CompletedAt),
		neg.LastActivityAt, neg.Won, neg.OutcomeNotes,
		neg.ID, tenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update negotiation: %w", err)
	}
	return requireRow(result)
}

// MaxSequence returns the highest sequence already allocated under the given
// number prefix, or 0 when none exists. Sequences are fixed-width so the
// lexicographic maximum is the numeric maximum.
func (r *NegotiationRepository) MaxSequence(ctx context.Context, tenantID, prefix string) (int, error) {
	var number string
	query := `
		SELECT number FROM negotiations
		WHERE tenant_id = ? AND number LIKE ? || '%'
		ORDER BY number DESC
		LIMIT 1
	`
	err := r.db.QueryRowContext(ctx, query, tenantID, prefix).Scan(&number)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read max negotiation sequence: %w", err)
	}

	var seq int
	if _, err := fmt.Sscanf(strings.TrimPrefix(number, prefix), "%d", &seq); err != nil {
		return 0, fmt.Errorf("malformed negotiation number %q: %w", number, err)
	}
	return seq, nil
}

// List returns negotiation summaries matching the given options
func (r *NegotiationRepository) List(ctx context.Context, tenantID string, opts negotiation.ListOptions) ([]negotiation.NegotiationSummary, error) {
	query := `
		SELECT id, contract_id, number, title, status, phase, round, deadline,
		       last_activity_at
		FROM negotiations
		WHERE tenant_id = ?
	`
	args := []any{tenantID}

	if opts.ContractID != "" {
		query += " AND contract_id = ?"
		args = append(args, opts.ContractID)
	}
	if len(opts.Statuses) > 0 {
		placeholders := make([]string, len(opts.Statuses))
		for i, status := range opts.Statuses {
			placeholders[i] = "?"
			args = append(args, status)
		}
		query += fmt.Sprintf(" AND status IN (%s)", strings.Join(placeholders, ","))
	}
	if len(opts.Phases) > 0 {
		placeholders := make([]string, len(opts.Phases))
		for i, phase := range opts.Phases {
			placeholders[i] = "?"
			args = append(args, phase)
		}
		query += fmt.Sprintf(" AND phase IN (%s)", strings.Join(placeholders, ","))
	}
	if opts.Overdue {
		query += " AND deadline IS NOT NULL AND deadline < CURRENT_TIMESTAMP AND status != 'completed'"
	}

	query += " ORDER BY last_activity_at DESC"
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
		return nil, fmt.Errorf("failed to list negotiations: %w", err)
	}
	defer rows.Close()

	var summaries []negotiation.NegotiationSummary
	for rows.Next() {
		var s negotiation.NegotiationSummary
		var deadline sql.NullTime
		if err := rows.Scan(&s.ID, &s.ContractID, &s.Number, &s.Title,
			&s.Status, &s.Phase, &s.Round, &deadline, &s.LastActivityAt); err != nil {
			return nil, fmt.Errorf("failed to scan negotiation summary: %w", err)
		}
		s.Deadline = timePtr(deadline)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating negotiation rows: %w", err)
	}
	return summaries, nil
}
