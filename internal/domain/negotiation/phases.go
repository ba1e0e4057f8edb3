package negotiation

// phaseOrder is the fixed forward-only phase transition table.
var phaseOrder = map[Phase]Phase{
	PhasePreparation: PhaseProposal,
	PhaseProposal:    PhaseNegotiation,
	PhaseNegotiation: PhaseApproval,
	PhaseApproval:    PhaseFinalization,
}

// NextPhase returns the phase following p. The bool result is false when p is
// the last phase (or unknown); there is never a backward transition.
func NextPhase(p Phase) (Phase, bool) {
	next, ok := phaseOrder[p]
	return next, ok
}

// ValidStatusTransition reports whether a status change is allowed.
// active -> paused -> active, and active/paused -> completed | cancelled.
// Completed and cancelled are terminal, except that completing an already
// completed negotiation re-applies the terminal fields.
func ValidStatusTransition(from, to Status) bool {
	switch from {
	case StatusActive:
		return to == StatusPaused || to == StatusCompleted || to == StatusCancelled
	case StatusPaused:
		return to == StatusActive || to == StatusCompleted || to == StatusCancelled
	case StatusCompleted:
		return to == StatusCompleted
	}
	return false
}
