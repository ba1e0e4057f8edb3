package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/comment"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/negotiation"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/template"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/validation"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/version"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/repository"
)

// ErrorResponse is the wire shape of every error reply.
type ErrorResponse struct {
	Kind       string   `json:"kind"`
	Message    string   `json:"message"`
	Violations []string `json:"violations,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, message string, violations []string) {
	writeJSON(w, status, ErrorResponse{Kind: kind, Message: message, Violations: violations})
}

// respondError maps domain errors to HTTP statuses and error kinds.
func respondError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		writeError(w, http.StatusUnprocessableEntity, "validation", "input failed validation", verr.Violations)
		return
	}

	switch {
	case errors.Is(err, template.ErrTemplateNotFound),
		errors.Is(err, version.ErrVersionNotFound),
		errors.Is(err, negotiation.ErrNegotiationNotFound),
		errors.Is(err, comment.ErrCommentNotFound),
		errors.Is(err, negotiation.ErrParticipantNotFound),
		errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error(), nil)

	case errors.Is(err, version.ErrVersionFinal),
		errors.Is(err, repository.ErrImmutable):
		writeError(w, http.StatusConflict, "immutable", err.Error(), nil)

	case errors.Is(err, version.ErrFinalExists),
		errors.Is(err, version.ErrNumberingConflict),
		errors.Is(err, negotiation.ErrNumberingConflict),
		errors.Is(err, negotiation.ErrDuplicateParticipant),
		errors.Is(err, negotiation.ErrNoFurtherPhase),
		errors.Is(err, negotiation.ErrInvalidStatus),
		errors.Is(err, template.ErrTemplateInUse),
		errors.Is(err, template.ErrTemplateArchived),
		errors.Is(err, comment.ErrPositionConflict),
		errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", err.Error(), nil)

	case errors.Is(err, comment.ErrNotPermitted):
		writeError(w, http.StatusForbidden, "forbidden", err.Error(), nil)

	case errors.Is(err, version.ErrReasonRequired),
		errors.Is(err, template.ErrInvalidInput),
		errors.Is(err, version.ErrInvalidInput),
		errors.Is(err, negotiation.ErrInvalidInput),
		errors.Is(err, comment.ErrInvalidInput),
		errors.Is(err, repository.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)

	default:
		writeError(w, http.StatusInternalServerError, "internal", "internal error", nil)
	}
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
