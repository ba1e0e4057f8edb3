package negotiation

import "time"

// Status represents the lifecycle state of a negotiation
type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Phase represents the high-level stage of a negotiation. Phases advance
// strictly forward, never backward.
type Phase string

const (
	PhasePreparation  Phase = "preparation"
	PhaseProposal     Phase = "proposal"
	PhaseNegotiation  Phase = "negotiation"
	PhaseApproval     Phase = "approval"
	PhaseFinalization Phase = "finalization"
)

// Roster selects which participant roster an operation targets
type Roster string

const (
	RosterInternal Roster = "internal"
	RosterExternal Roster = "external"
)

// Participant is one roster entry.
type Participant struct {
	ActorID     string    `json:"actor_id"`
	DisplayName string    `json:"display_name,omitempty"`
	JoinedAt    time.Time `json:"joined_at"`
	Permissions []string  `json:"permissions,omitempty"`
}

// PricingEntry is one append-only record in the pricing history.
type PricingEntry struct {
	Value  float64   `json:"value"`
	Reason string    `json:"reason"`
	Round  int       `json:"round"`
	Actor  string    `json:"actor,omitempty"`
	At     time.Time `json:"at"`
}

// Negotiation is the stateful process of reaching agreement on a contract's
// terms and price.
type Negotiation struct {
	ID          string  `json:"id"`
	TenantID    string  `json:"tenant_id"`
	ContractID  string  `json:"contract_id"`
	QuoteID     *string `json:"quote_id,omitempty"`
	Number      string  `json:"number"` // NEG-YYYYMM-####
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`

	Status Status `json:"status"`
	Phase  Phase  `json:"phase"`
	Round  int    `json:"round"`

	Internal []Participant `json:"internal_participants,omitempty"`
	External []Participant `json:"external_participants,omitempty"`

	TargetValue    *float64       `json:"target_value,omitempty"`
	MinimumValue   *float64       `json:"minimum_value,omitempty"`
	FinalValue     *float64       `json:"final_value,omitempty"`
	PricingHistory []PricingEntry `json:"pricing_history,omitempty"`

	StartedAt      time.Time  `json:"started_at"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	LastActivityAt time.Time  `json:"last_activity_at"`

	Won          bool   `json:"won"`
	OutcomeNotes string `json:"outcome_notes,omitempty"`
	DurationDays int    `json:"duration_days"`
}

// IsOverdue reports whether the deadline has passed without completion. The
// deadline is advisory, never enforced by the engine.
func (n *Negotiation) IsOverdue(now time.Time) bool {
	if n.Deadline == nil || n.Status == StatusCompleted {
		return false
	}
	return now.After(*n.Deadline)
}

// Duration returns elapsed whole days from start to completion, or to now
// while the negotiation is still open.
func (n *Negotiation) Duration(now time.Time) int {
	end := now
	if n.CompletedAt != nil {
		end = *n.CompletedAt
	}
	days := int(end.Sub(n.StartedAt).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// roster returns a pointer to the requested participant roster.
func (n *Negotiation) roster(r Roster) *[]Participant {
	if r == RosterExternal {
		return &n.External
	}
	return &n.Internal
}

// NegotiationSummary is a lightweight representation for listing.
type NegotiationSummary struct {
	ID             string     `json:"id"`
	ContractID     string     `json:"contract_id"`
	Number         string     `json:"number"`
	Title          string     `json:"title"`
	Status         Status     `json:"status"`
	Phase          Phase      `json:"phase"`
	Round          int        `json:"round"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	LastActivityAt time.Time  `json:"last_activity_at"`
}
