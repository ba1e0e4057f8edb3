package transport

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/activity"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/comment"
)

// maxAttachmentBytes caps a single attachment upload.
const maxAttachmentBytes = 25 << 20

type createCommentRequest struct {
	ContractID       string             `json:"contract_id"`
	NegotiationID    *string            `json:"negotiation_id,omitempty"`
	VersionID        *string            `json:"version_id,omitempty"`
	AuthorID         string             `json:"author_id"`
	AuthorKind       comment.AuthorKind `json:"author_kind"`
	Body             string             `json:"body"`
	Type             comment.Type       `json:"type,omitempty"`
	Priority         comment.Priority   `json:"priority,omitempty"`
	SectionRef       string             `json:"section_ref,omitempty"`
	Mentions         []string           `json:"mentions,omitempty"`
	IsInternal       bool               `json:"is_internal,omitempty"`
	RequiresResponse bool               `json:"requires_response,omitempty"`
	ResponseDue      *time.Time         `json:"response_due,omitempty"`
}

func (req createCommentRequest) toDomain() comment.CreateRequest {
	return comment.CreateRequest{
		ContractID:       req.ContractID,
		NegotiationID:    req.NegotiationID,
		VersionID:        req.VersionID,
		AuthorID:         req.AuthorID,
		AuthorKind:       req.AuthorKind,
		Body:             req.Body,
		Type:             req.Type,
		Priority:         req.Priority,
		SectionRef:       req.SectionRef,
		Mentions:         req.Mentions,
		IsInternal:       req.IsInternal,
		RequiresResponse: req.RequiresResponse,
		ResponseDue:      req.ResponseDue,
	}
}

func (a *API) createComment(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body", nil)
		return
	}

	c, err := a.svc.Comments.Create(r.Context(), TenantID(r.Context()), req.toDomain())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (a *API) replyToComment(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body", nil)
		return
	}

	c, err := a.svc.Comments.Reply(r.Context(), TenantID(r.Context()), chi.URLParam(r, "id"), req.toDomain())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (a *API) getComment(w http.ResponseWriter, r *http.Request) {
	c, err := a.svc.Comments.Get(r.Context(), TenantID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func commentListOptions(r *http.Request) comment.ListOptions {
	opts := comment.ListOptions{
		ContractID:       r.URL.Query().Get("contract_id"),
		RequiresResponse: r.URL.Query().Get("requires_response") == "true",
		ExcludeInternal:  r.URL.Query().Get("exclude_internal") == "true",
		RootsOnly:        r.URL.Query().Get("roots_only") == "true",
		Limit:            queryInt(r, "limit"),
		Offset:           queryInt(r, "offset"),
	}
	if negID := r.URL.Query().Get("negotiation_id"); negID != "" {
		opts.NegotiationID = &negID
	}
	if verID := r.URL.Query().Get("version_id"); verID != "" {
		opts.VersionID = &verID
	}
	for _, t := range r.URL.Query()["type"] {
		opts.Types = append(opts.Types, comment.Type(t))
	}
	for _, p := range r.URL.Query()["priority"] {
		opts.Priorities = append(opts.Priorities, comment.Priority(p))
	}
	return opts
}

func (a *API) listComments(w http.ResponseWriter, r *http.Request) {
	comments, err := a.svc.Comments.List(r.Context(), TenantID(r.Context()), commentListOptions(r))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (a *API) listUnresolvedComments(w http.ResponseWriter, r *http.Request) {
	comments, err := a.svc.Comments.Unresolved(r.Context(), TenantID(r.Context()), commentListOptions(r))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (a *API) listOverdueComments(w http.ResponseWriter, r *http.Request) {
	comments, err := a.svc.Comments.Overdue(r.Context(), TenantID(r.Context()), commentListOptions(r))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (a *API) getThread(w http.ResponseWriter, r *http.Request) {
	thread, err := a.svc.Comments.Thread(r.Context(), TenantID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, thread)
}

type resolveRequest struct {
	Notes                string `json:"notes,omitempty"`
	CanEditOnNegotiation bool   `json:"can_edit_on_negotiation,omitempty"`
}

func (a *API) resolveComment(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body", nil)
		return
	}

	c, err := a.svc.Comments.Resolve(r.Context(), TenantID(r.Context()), chi.URLParam(r, "id"), ActorID(r.Context()), req.Notes, req.CanEditOnNegotiation)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type mentionRequest struct {
	ActorIDs []string `json:"actor_ids"`
}

func (a *API) mentionActors(w http.ResponseWriter, r *http.Request) {
	var req mentionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body", nil)
		return
	}

	c, err := a.svc.Comments.Mention(r.Context(), TenantID(r.Context()), chi.URLParam(r, "id"), req.ActorIDs)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (a *API) addAttachment(w http.ResponseWriter, r *http.Request) {
	fileName := r.URL.Query().Get("file_name")
	if fileName == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "file_name query parameter is required", nil)
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxAttachmentBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "failed to read attachment body", nil)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c, err := a.svc.Comments.AddAttachment(r.Context(), TenantID(r.Context()), chi.URLParam(r, "id"), fileName, data, contentType)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (a *API) listActivity(w http.ResponseWriter, r *http.Request) {
	opts := activity.ListOptions{
		ContractID: r.URL.Query().Get("contract_id"),
		Limit:      queryInt(r, "limit"),
		Offset:     queryInt(r, "offset"),
	}
	if kind := r.URL.Query().Get("entity_kind"); kind != "" {
		k := activity.EntityKind(kind)
		opts.EntityKind = &k
	}

	entries, err := a.svc.Activity.Recent(r.Context(), TenantID(r.Context()), opts)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
