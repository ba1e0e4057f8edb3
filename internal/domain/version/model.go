package version

import "time"

// Type classifies why a version snapshot was taken
type Type string

const (
	TypeInitial   Type = "initial"
	TypeRevision  Type = "revision"
	TypeAmendment Type = "amendment"
	TypeRenewal   Type = "renewal"
)

// Status represents the workflow state of a version
type Status string

const (
	StatusDraft    Status = "draft"
	StatusReview   Status = "review"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusFinal    Status = "final"
)

// ApprovalStatus represents the approval sub-state of a version
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// ComponentAssignment is a contract component with its calculated price at
// snapshot time.
type ComponentAssignment struct {
	ComponentID     string  `json:"component_id"`
	Name            string  `json:"name"`
	Quantity        int     `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
	CalculatedPrice float64 `json:"calculated_price"`
}

// PricingSnapshot captures the contract's computed total at snapshot time.
// It is never recomputed after creation.
type PricingSnapshot struct {
	TotalValue     float64   `json:"total_value"`
	ComponentCount int       `json:"component_count"`
	CapturedAt     time.Time `json:"captured_at"`
}

// ApprovalEntry is one append-only record in a version's approval log.
type ApprovalEntry struct {
	Actor  string         `json:"actor"`
	Action ApprovalStatus `json:"action"`
	Note   string         `json:"note,omitempty"`
	Reason string         `json:"reason,omitempty"`
	At     time.Time      `json:"at"`
}

// ContractVersion is an immutable point-in-time capture of a contract's
// content, components and computed price. Once IsFinal is set no further
// mutation is accepted.
type ContractVersion struct {
	ID              string                `json:"id"`
	TenantID        string                `json:"tenant_id"`
	ContractID      string                `json:"contract_id"`
	NegotiationID   *string               `json:"negotiation_id,omitempty"`
	VersionNumber   string                `json:"version_number"` // vMAJOR.MINOR
	Type            Type                  `json:"type"`
	Status          Status                `json:"status"`
	ApprovalStatus  ApprovalStatus        `json:"approval_status"`
	Title           string                `json:"title"`
	Value           float64               `json:"value"`
	StartDate       *time.Time            `json:"start_date,omitempty"`
	EndDate         *time.Time            `json:"end_date,omitempty"`
	Data            map[string]any        `json:"data,omitempty"`
	Components      []ComponentAssignment `json:"components,omitempty"`
	Pricing         PricingSnapshot       `json:"pricing"`
	Changes         []ChangeRecord        `json:"changes,omitempty"`
	ApprovalLog     []ApprovalEntry       `json:"approval_log,omitempty"`
	IsClientVisible bool                  `json:"is_client_visible"`
	IsFinal         bool                  `json:"is_final"`
	CreatedBy       string                `json:"created_by,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	ModifiedAt      time.Time             `json:"modified_at"`
}

// ContractData is the contract state read from the owning application's
// persistence when a snapshot is taken.
type ContractData struct {
	ContractID string                `json:"contract_id"`
	Title      string                `json:"title"`
	Value      float64               `json:"value"`
	StartDate  *time.Time            `json:"start_date,omitempty"`
	EndDate    *time.Time            `json:"end_date,omitempty"`
	Components []ComponentAssignment `json:"components,omitempty"`
	Data       map[string]any        `json:"data,omitempty"`
}

// VersionSummary is a lightweight representation for listing.
type VersionSummary struct {
	ID             string         `json:"id"`
	ContractID     string         `json:"contract_id"`
	VersionNumber  string         `json:"version_number"`
	Type           Type           `json:"type"`
	Status         Status         `json:"status"`
	ApprovalStatus ApprovalStatus `json:"approval_status"`
	TotalValue     float64        `json:"total_value"`
	IsFinal        bool           `json:"is_final"`
	CreatedAt      time.Time      `json:"created_at"`
}
