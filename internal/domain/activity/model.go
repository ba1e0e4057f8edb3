package activity

import "time"

// Type represents the kind of engine mutation recorded in the trail
type Type string

const (
	TypeTemplateCreated      Type = "template_created"
	TypeTemplateGenerated    Type = "template_generated"
	TypeVersionCreated       Type = "version_created"
	TypeVersionApproved      Type = "version_approved"
	TypeVersionRejected      Type = "version_rejected"
	TypeVersionFinalized     Type = "version_finalized"
	TypeNegotiationCreated   Type = "negotiation_created"
	TypePhaseAdvanced        Type = "phase_advanced"
	TypePricingRecorded      Type = "pricing_recorded"
	TypeNegotiationCompleted Type = "negotiation_completed"
	TypeNegotiationPaused    Type = "negotiation_paused"
	TypeNegotiationResumed   Type = "negotiation_resumed"
	TypeCommentCreated       Type = "comment_created"
	TypeCommentResolved      Type = "comment_resolved"
)

// EntityKind names the entity an activity entry refers to
type EntityKind string

const (
	EntityTemplate    EntityKind = "template"
	EntityVersion     EntityKind = "version"
	EntityNegotiation EntityKind = "negotiation"
	EntityComment     EntityKind = "comment"
)

// Entry represents an event in the engine's audit trail
type Entry struct {
	ID         int64      `json:"id"`
	TenantID   string     `json:"tenant_id"`
	ContractID string     `json:"contract_id,omitempty"`
	EntityKind EntityKind `json:"entity_kind"`
	EntityID   *string    `json:"entity_id,omitempty"`
	Type       Type       `json:"type"`
	Actor      string     `json:"actor,omitempty"`
	Summary    string     `json:"summary"`
	Details    string     `json:"details,omitempty"` // JSON string
	CreatedAt  time.Time  `json:"created_at"`
}
