package transport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/negotiation"
)

type createNegotiationRequest struct {
	ContractID   string     `json:"contract_id"`
	QuoteID      *string    `json:"quote_id,omitempty"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	TargetValue  *float64   `json:"target_value,omitempty"`
	MinimumValue *float64   `json:"minimum_value,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`
}

func (a *API) createNegotiation(w http.ResponseWriter, r *http.Request) {
	var req createNegotiationRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body", nil)
		return
	}

	neg, err := a.svc.Negotiations.Create(r.Context(), TenantID(r.Context()), negotiation.CreateRequest{
		ContractID:   req.ContractID,
		QuoteID:      req.QuoteID,
		Title:        req.Title,
		Description:  req.Description,
		TargetValue:  req.TargetValue,
		MinimumValue: req.MinimumValue,
		Deadline:     req.Deadline,
		CreatedBy:    ActorID(r.Context()),
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, neg)
}

func (a *API) getNegotiation(w http.ResponseWriter, r *http.Request) {
	neg, err := a.svc.Negotiations.Get(r.Context(), TenantID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, neg)
}

func (a *API) listNegotiations(w http.ResponseWriter, r *http.Request) {
	opts := negotiation.ListOptions{
		ContractID: r.URL.Query().Get("contract_id"),
		Overdue:    r.URL.Query().Get("overdue") == "true",
		Limit:      queryInt(r, "limit"),
		Offset:     queryInt(r, "offset"),
	}
	for _, s := range r.URL.Query()["status"] {
		opts.Statuses = append(opts.Statuses, negotiation.Status(s))
	}
	for _, p := range r.URL.Query()["phase"] {
		opts.Phases = append(opts.Phases, negotiation.Phase(p))
	}

	summaries, err := a.svc.Negotiations.List(r.Context(), TenantID(r.Context()), opts)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (a *API) advancePhase(w http.ResponseWriter, r *http.Request) {
	neg, err := a.svc.Negotiations.AdvancePhase(r.Context(), TenantID(r.Context()), chi.URLParam(r, "id"), ActorID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, neg)
}

type participantRequest struct {
	Roster      negotiation.Roster `json:"roster"`
	ActorID     string             `json:"actor_id"`
	Permissions []string           `json:"permissions,omitempty"`
}

func (a *API) addParticipant(w http.ResponseWriter, r *http.Request) {
	var req participantRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body", nil)
		return
	}

	neg, err := a.svc.Negotiations.AddParticipant(r.Context(), TenantID(r.Context()), chi.URLParam(r, "id"), req.Roster, req.ActorID, req.Permissions)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, neg)
}

func (a *API) removeParticipant(w http.ResponseWriter, r *http.Request) {
	var req participantRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body", nil)
		return
	}

	neg, err := a.svc.Negotiations.RemoveParticipant(r.Context(), TenantID(r.Context()), chi.URLParam(r, "id"), req.Roster, req.ActorID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, neg)
}

type pricingRequest struct {
	Value  float64 `json:"value"`
	Reason string  `json:"reason"`
}

func (a *API) recordPricing(w http.ResponseWriter, r *http.Request) {
	var req pricingRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body", nil)
		return
	}

	neg, err := a.svc.Negotiations.RecordPricingChange(r.Context(), TenantID(r.Context()), chi.URLParam(r, "id"), req.Value, req.Reason, ActorID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, neg)
}

func (a *API) incrementRound(w http.ResponseWriter, r *http.Request) {
	neg, err := a.svc.Negotiations.IncrementRound(r.Context(), TenantID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, neg)
}

type targetsRequest struct {
	TargetValue  *float64 `json:"target_value,omitempty"`
	MinimumValue *float64 `json:"minimum_value,omitempty"`
}

func (a *API) setTargets(w http.ResponseWriter, r *http.Request) {
	var req targetsRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body", nil)
		return
	}

	neg, err := a.svc.Negotiations.SetTargets(r.Context(), TenantID(r.Context()), chi.URLParam(r, "id"), req.TargetValue, req.MinimumValue)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, neg)
}

type completeRequest struct {
	Won   bool   `json:"won"`
	Notes string `json:"notes,omitempty"`
}

func (a *API) completeNegotiation(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body", nil)
		return
	}

	neg, err := a.svc.Negotiations.Complete(r.Context(), TenantID(r.Context()), chi.URLParam(r, "id"), req.Won, req.Notes, ActorID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, neg)
}

type reasonRequest struct {
	Reason string `json:"reason,omitempty"`
}

func (a *API) pauseNegotiation(w http.ResponseWriter, r *http.Request) {
	var req reasonRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body", nil)
		return
	}

	neg, err := a.svc.Negotiations.Pause(r.Context(), TenantID(r.Context()), chi.URLParam(r, "id"), req.Reason, ActorID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, neg)
}

func (a *API) resumeNegotiation(w http.ResponseWriter, r *http.Request) {
	neg, err := a.svc.Negotiations.Resume(r.Context(), TenantID(r.Context()), chi.URLParam(r, "id"), ActorID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, neg)
}

func (a *API) cancelNegotiation(w http.ResponseWriter, r *http.Request) {
	var req reasonRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body", nil)
		return
	}

	neg, err := a.svc.Negotiations.Cancel(r.Context(), TenantID(r.Context()), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, neg)
}
