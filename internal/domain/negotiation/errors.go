package negotiation

import "errors"

var (
	// ErrNegotiationNotFound indicates the negotiation doesn't exist.
	ErrNegotiationNotFound = errors.New("negotiation not found")
	// ErrDuplicateParticipant indicates the identity is already on the target roster.
	ErrDuplicateParticipant = errors.New("participant already on roster")
	// ErrParticipantNotFound indicates the identity is not on the target roster.
	ErrParticipantNotFound = errors.New("participant not on roster")
	// ErrNoFurtherPhase indicates the negotiation is already in its last phase.
	ErrNoFurtherPhase = errors.New("no further phase exists")
	// ErrInvalidStatus indicates a disallowed status transition.
	ErrInvalidStatus = errors.New("invalid negotiation status transition")
	// ErrNumberingConflict indicates the negotiation numbering race was lost
	// after exhausting retries.
	ErrNumberingConflict = errors.New("negotiation numbering conflict")
	// ErrInvalidInput indicates invalid input for negotiation operations.
	ErrInvalidInput = errors.New("invalid negotiation input")
)
