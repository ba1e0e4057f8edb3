package activity

import (
	"context"
	"errors"
)

// ErrInvalidInput indicates invalid input for activity operations.
var ErrInvalidInput = errors.New("invalid activity input")

// ListOptions provides filtering options for listing audit entries.
type ListOptions struct {
	ContractID string
	EntityKind *EntityKind
	EntityID   *string
	Types      []Type
	Limit      int
	Offset     int
}

// Repository manages audit-trail persistence.
type Repository interface {
	Log(ctx context.Context, tenantID string, entry *Entry) error
	List(ctx context.Context, tenantID string, opts ListOptions) ([]Entry, error)
}
