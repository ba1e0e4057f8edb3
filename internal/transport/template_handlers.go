package transport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/template"
)

type createTemplateRequest struct {
	Name             string                 `json:"name"`
	Slug             string                 `json:"slug,omitempty"`
	Content          string                 `json:"content"`
	Variables        []string               `json:"variables,omitempty"`
	RequiredFields   []string               `json:"required_fields,omitempty"`
	Defaults         map[string]string      `json:"defaults,omitempty"`
	Billing          template.BillingConfig `json:"billing"`
	ParentID         *string                `json:"parent_id,omitempty"`
	RequiresApproval bool                   `json:"requires_approval,omitempty"`
	NextReviewAt     *time.Time             `json:"next_review_at,omitempty"`
}

func (a *API) createTemplate(w http.ResponseWriter, r *http.Request) {
	var req createTemplateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body", nil)
		return
	}

	tpl, err := a.svc.Templates.Create(r.Context(), TenantID(r.Context()), template.CreateRequest{
		Name:             req.Name,
		Slug:             req.Slug,
		Content:          req.Content,
		Variables:        req.Variables,
		RequiredFields:   req.RequiredFields,
		Defaults:         req.Defaults,
		Billing:          req.Billing,
		ParentID:         req.ParentID,
		RequiresApproval: req.RequiresApproval,
		NextReviewAt:     req.NextReviewAt,
		CreatedBy:        ActorID(r.Context()),
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tpl)
}

func (a *API) getTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var tpl *template.Template
	var err error
	if r.URL.Query().Get("by") == "slug" {
		tpl, err = a.svc.Templates.GetBySlug(r.Context(), TenantID(r.Context()), id)
	} else {
		tpl, err = a.svc.Templates.Get(r.Context(), TenantID(r.Context()), id)
	}
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (a *API) listTemplates(w http.ResponseWriter, r *http.Request) {
	opts := template.ListOptions{
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	}
	for _, s := range r.URL.Query()["status"] {
		opts.Statuses = append(opts.Statuses, template.Status(s))
	}
	for _, m := range r.URL.Query()["model"] {
		opts.Models = append(opts.Models, template.BillingModel(m))
	}

	summaries, err := a.svc.Templates.List(r.Context(), TenantID(r.Context()), opts)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

type updateTemplateRequest struct {
	Name           *string                 `json:"name,omitempty"`
	Status         *template.Status        `json:"status,omitempty"`
	Content        *string                 `json:"content,omitempty"`
	Variables      []string                `json:"variables,omitempty"`
	RequiredFields []string                `json:"required_fields,omitempty"`
	Defaults       map[string]string       `json:"defaults,omitempty"`
	Billing        *template.BillingConfig `json:"billing,omitempty"`
	NextReviewAt   *time.Time              `json:"next_review_at,omitempty"`
}

func (a *API) updateTemplate(w http.ResponseWriter, r *http.Request) {
	var req updateTemplateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body", nil)
		return
	}

	tpl, err := a.svc.Templates.Update(r.Context(), TenantID(r.Context()), template.UpdateRequest{
		ID:             chi.URLParam(r, "id"),
		Name:           req.Name,
		Status:         req.Status,
		Content:        req.Content,
		Variables:      req.Variables,
		RequiredFields: req.RequiredFields,
		Defaults:       req.Defaults,
		Billing:        req.Billing,
		NextReviewAt:   req.NextReviewAt,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (a *API) archiveTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := a.svc.Templates.Archive(r.Context(), TenantID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (a *API) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.Templates.Delete(r.Context(), TenantID(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type generateRequest struct {
	Variables map[string]string `json:"variables"`
}

type generateResponse struct {
	Content string `json:"content"`
}

func (a *API) generateContract(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body", nil)
		return
	}

	content, err := a.svc.Templates.Generate(r.Context(), TenantID(r.Context()), chi.URLParam(r, "id"), req.Variables)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{Content: content})
}

func (a *API) calculateBilling(w http.ResponseWriter, r *http.Request) {
	var usage template.UsageData
	if err := decode(r, &usage); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body", nil)
		return
	}

	breakdown, err := a.svc.Templates.CalculateBilling(r.Context(), TenantID(r.Context()), chi.URLParam(r, "id"), usage)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}
