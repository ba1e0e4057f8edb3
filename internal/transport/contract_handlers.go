package transport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/version"
)

type syncContractRequest struct {
	Title      string                        `json:"title"`
	Value      float64                       `json:"value"`
	StartDate  *time.Time                    `json:"start_date,omitempty"`
	EndDate    *time.Time                    `json:"end_date,omitempty"`
	Components []version.ComponentAssignment `json:"components,omitempty"`
	Data       map[string]any                `json:"data,omitempty"`
}

func (a *API) syncContract(w http.ResponseWriter, r *http.Request) {
	var req syncContractRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body", nil)
		return
	}

	data := &version.ContractData{
		ContractID: chi.URLParam(r, "id"),
		Title:      req.Title,
		Value:      req.Value,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Components: req.Components,
		Data:       req.Data,
	}
	if err := a.svc.Contracts.Put(r.Context(), TenantID(r.Context()), data); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (a *API) getContract(w http.ResponseWriter, r *http.Request) {
	data, err := a.svc.Contracts.Get(r.Context(), TenantID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (a *API) deleteContract(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.Contracts.Delete(r.Context(), TenantID(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
