package negotiation

import (
	"context"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/activity"
)

// Repository provides persistence for negotiations. Create must enforce
// uniqueness of (tenant_id, number); MaxSequence reads the highest existing
// sequence for a number prefix so the service can allocate the next one under
// retry-on-conflict.
type Repository interface {
	Create(ctx context.Context, tenantID string, neg *Negotiation) error
	Get(ctx context.Context, tenantID, id string) (*Negotiation, error)
	Update(ctx context.Context, tenantID string, neg *Negotiation) error
	List(ctx context.Context, tenantID string, opts ListOptions) ([]NegotiationSummary, error)
	MaxSequence(ctx context.Context, tenantID, prefix string) (int, error)
}

// VersionSource reads the current version's pricing total for a contract,
// used to set the final agreed value on a won completion.
type VersionSource interface {
	CurrentTotal(ctx context.Context, tenantID, contractID string) (total float64, exists bool, err error)
}

// ActivityRepository logs negotiation activities.
type ActivityRepository interface {
	Log(ctx context.Context, tenantID string, entry *activity.Entry) error
}

// ListOptions provides filtering options for listing negotiations.
type ListOptions struct {
	ContractID string
	Statuses   []Status
	Phases     []Phase
	Overdue    bool
	Limit      int
	Offset     int
}
