package template

import (
	"context"
	"encoding/json"
	"time"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/activity"
)

// Repository provides persistence for templates.
type Repository interface {
	Create(ctx context.Context, tenantID string, tpl *Template) error
	Get(ctx context.Context, tenantID, id string) (*Template, error)
	GetBySlug(ctx context.Context, tenantID, slug string) (*Template, error)
	Update(ctx context.Context, tenantID string, tpl *Template) error
	Delete(ctx context.Context, tenantID, id string) error
	List(ctx context.Context, tenantID string, opts ListOptions) ([]TemplateSummary, error)
	RecordUsage(ctx context.Context, tenantID, id string, usedAt time.Time) error
}

// ActivityRepository logs template activities.
type ActivityRepository interface {
	Log(ctx context.Context, tenantID string, entry *activity.Entry) error
}

// FormulaEvaluator applies an opaque calculation-formula payload to seed the
// billing breakdown before the deterministic rate-based charges run. The
// payload schema is intentionally pluggable.
type FormulaEvaluator interface {
	Apply(ctx context.Context, formula json.RawMessage, usage UsageData, bd *Breakdown) error
}
