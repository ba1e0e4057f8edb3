package comment

import (
	"context"
	"io"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/activity"
)

// Repository provides persistence for comments. Create assigns the comment's
// thread position inside the same transaction that inserts the row, so
// sibling positions stay gapless under concurrent writers; a duplicate
// position surfaces repository.ErrConflict.
type Repository interface {
	Create(ctx context.Context, tenantID string, c *Comment) error
	Get(ctx context.Context, tenantID, id string) (*Comment, error)
	Update(ctx context.Context, tenantID string, c *Comment) error
	List(ctx context.Context, tenantID string, opts ListOptions) ([]Comment, error)
	ListByContract(ctx context.Context, tenantID, contractID string) ([]Comment, error)
}

// BlobStore uploads attachment bytes and returns a retrievable path. The
// engine never stores bytes itself.
type BlobStore interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
}

// ActivityRepository logs comment activities.
type ActivityRepository interface {
	Log(ctx context.Context, tenantID string, entry *activity.Entry) error
}

// ListOptions provides filtering options for listing comments.
type ListOptions struct {
	ContractID       string
	NegotiationID    *string
	VersionID        *string
	ParentID         *string
	Types            []Type
	Priorities       []Priority
	Unresolved       bool
	RequiresResponse bool
	ExcludeInternal  bool
	RootsOnly        bool
	Limit            int
	Offset           int
}
