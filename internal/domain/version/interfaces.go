package version

import (
	"context"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/activity"
)

// Repository provides persistence for contract versions. Create must enforce
// uniqueness of (contract_id, version_number) and Update must reject writes to
// versions already marked final under the same transaction that performs the
// write.
type Repository interface {
	Create(ctx context.Context, tenantID string, ver *ContractVersion) error
	Get(ctx context.Context, tenantID, id string) (*ContractVersion, error)
	Update(ctx context.Context, tenantID string, ver *ContractVersion) error
	Latest(ctx context.Context, tenantID, contractID string) (*ContractVersion, error)
	List(ctx context.Context, tenantID string, opts ListOptions) ([]VersionSummary, error)
}

// ContractSource reads the contract's current state from the owning
// application's persistence.
type ContractSource interface {
	Get(ctx context.Context, tenantID, contractID string) (*ContractData, error)
}

// ActivityRepository logs version activities.
type ActivityRepository interface {
	Log(ctx context.Context, tenantID string, entry *activity.Entry) error
}

// ListOptions provides filtering options for listing versions.
type ListOptions struct {
	ContractID    string
	NegotiationID *string
	Statuses      []Status
	ClientVisible *bool
	Limit         int
	Offset        int
}
