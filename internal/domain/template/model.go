package template

import (
	"encoding/json"
	"time"
)

// Status represents the lifecycle state of a template
type Status string

const (
	StatusDraft    Status = "draft"
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// BillingModel selects which charge categories a template computes
type BillingModel string

const (
	BillingFixed      BillingModel = "fixed"
	BillingPerAsset   BillingModel = "per_asset"
	BillingPerContact BillingModel = "per_contact"
	BillingTiered     BillingModel = "tiered"
	BillingHybrid     BillingModel = "hybrid"
)

// ValidStatus reports whether s is a known template status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusActive, StatusArchived:
		return true
	}
	return false
}

// ValidBillingModel reports whether m is a known billing model.
func ValidBillingModel(m BillingModel) bool {
	switch m {
	case BillingFixed, BillingPerAsset, BillingPerContact, BillingTiered, BillingHybrid:
		return true
	}
	return false
}

// BillingConfig holds a template's pricing rules. Formula is an opaque
// payload handed to a pluggable FormulaEvaluator before rate-based charges.
type BillingConfig struct {
	Model              BillingModel       `json:"model"`
	BasePrice          float64            `json:"base_price"`
	AssetRates         map[string]float64 `json:"asset_rates,omitempty"`
	ContactRates       map[string]float64 `json:"contact_rates,omitempty"`
	DefaultAssetRate   float64            `json:"default_asset_rate"`
	DefaultContactRate float64            `json:"default_contact_rate"`
	Formula            json.RawMessage    `json:"formula,omitempty"`
}

// Template is a reusable contract definition with placeholders and billing rules
type Template struct {
	ID               string            `json:"id"`
	TenantID         string            `json:"tenant_id"`
	Name             string            `json:"name"`
	Slug             string            `json:"slug"`
	Status           Status            `json:"status"`
	Version          string            `json:"version"`
	ParentID         *string           `json:"parent_id,omitempty"`
	Content          string            `json:"content"`
	Variables        []string          `json:"variables,omitempty"`
	RequiredFields   []string          `json:"required_fields,omitempty"`
	Defaults         map[string]string `json:"defaults,omitempty"`
	Billing          BillingConfig     `json:"billing"`
	UsageCount       int64             `json:"usage_count"`
	LastUsedAt       *time.Time        `json:"last_used_at,omitempty"`
	SuccessRate      float64           `json:"success_rate"`
	RequiresApproval bool              `json:"requires_approval"`
	NextReviewAt     *time.Time        `json:"next_review_at,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	ModifiedAt       time.Time         `json:"modified_at"`
}

// TemplateSummary is a lightweight representation for listing
type TemplateSummary struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Slug       string       `json:"slug"`
	Status     Status       `json:"status"`
	Version    string       `json:"version"`
	Billing    BillingModel `json:"billing_model"`
	UsageCount int64        `json:"usage_count"`
	LastUsedAt *time.Time   `json:"last_used_at,omitempty"`
}

// UsageData is the billing-calculation input: asset counts by type, contact
// counts by tier, and free-form model-specific fields for formula payloads.
type UsageData struct {
	Assets   map[string]int `json:"assets,omitempty"`
	Contacts map[string]int `json:"contacts,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// Breakdown is the structured billing-calculation output. Warnings document
// asset types or contact tiers that had no configured rate and priced at zero.
type Breakdown struct {
	Base           float64  `json:"base"`
	AssetCharges   float64  `json:"asset_charges"`
	ContactCharges float64  `json:"contact_charges"`
	UsageCharges   float64  `json:"usage_charges"`
	Total          float64  `json:"total"`
	Warnings       []string `json:"warnings,omitempty"`
}
