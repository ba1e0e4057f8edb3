package comment

import "time"

// AuthorKind is a closed set of comment author kinds. Call sites branching on
// it handle every variant.
type AuthorKind string

const (
	AuthorInternal AuthorKind = "internal"
	AuthorClient   AuthorKind = "client"
	AuthorSystem   AuthorKind = "system"
)

// ValidAuthorKind reports whether k is a known author kind.
func ValidAuthorKind(k AuthorKind) bool {
	switch k {
	case AuthorInternal, AuthorClient, AuthorSystem:
		return true
	}
	return false
}

// Type classifies the intent of a comment
type Type string

const (
	TypeGeneral    Type = "general"
	TypeSuggestion Type = "suggestion"
	TypeObjection  Type = "objection"
	TypeApproval   Type = "approval"
	TypeQuestion   Type = "question"
)

// ValidType reports whether t is a known comment type.
func ValidType(t Type) bool {
	switch t {
	case TypeGeneral, TypeSuggestion, TypeObjection, TypeApproval, TypeQuestion:
		return true
	}
	return false
}

// Priority orders comments for triage
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ValidPriority reports whether p is a known priority.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Attachment describes an uploaded file. The engine stores only the
// descriptor; bytes live in the blob store.
type Attachment struct {
	FileName   string    `json:"file_name"`
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// EditWindow is how long after creation the author may still edit a comment.
const EditWindow = 15 * time.Minute

// Comment is a threaded discussion entry scoped to a contract and optionally
// a negotiation and/or version. Parent references are stored as IDs; thread
// traversal walks an arena of comments keyed by ID.
type Comment struct {
	ID            string  `json:"id"`
	TenantID      string  `json:"tenant_id"`
	ContractID    string  `json:"contract_id"`
	NegotiationID *string `json:"negotiation_id,omitempty"`
	VersionID     *string `json:"version_id,omitempty"`
	ParentID      *string `json:"parent_id,omitempty"`

	AuthorID   string     `json:"author_id"`
	AuthorKind AuthorKind `json:"author_kind"`
	Body       string     `json:"body"`
	Type       Type       `json:"type"`
	Priority   Priority   `json:"priority"`
	SectionRef string     `json:"section_ref,omitempty"`

	Mentions    []string     `json:"mentions,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`

	IsInternal       bool       `json:"is_internal"`
	IsResolved       bool       `json:"is_resolved"`
	RequiresResponse bool       `json:"requires_response"`
	ResponseDue      *time.Time `json:"response_due,omitempty"`

	ResolvedBy *string    `json:"resolved_by,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`

	ThreadPosition int       `json:"thread_position"`
	CreatedAt      time.Time `json:"created_at"`
	ModifiedAt     time.Time `json:"modified_at"`
}

// IsOverdue reports whether a required response is past its deadline.
func (c *Comment) IsOverdue(now time.Time) bool {
	return c.RequiresResponse && !c.IsResolved && c.ResponseDue != nil && now.After(*c.ResponseDue)
}

// CanEdit reports whether actor may edit the comment: author only, within
// the edit window of creation. Advisory, enforced by the calling layer.
func (c *Comment) CanEdit(actorID string, now time.Time) bool {
	return c.AuthorID == actorID && now.Sub(c.CreatedAt) <= EditWindow
}

// CanResolve reports whether actor may resolve the comment: the author
// unconditionally, or anyone with edit rights on the owning negotiation.
func (c *Comment) CanResolve(actorID string, hasNegotiationEditRights bool) bool {
	return c.AuthorID == actorID || hasNegotiationEditRights
}
