package transport

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/version"
)

type snapshotRequest struct {
	ContractID    string       `json:"contract_id"`
	NegotiationID *string      `json:"negotiation_id,omitempty"`
	Type          version.Type `json:"type,omitempty"`
	ClientVisible bool         `json:"client_visible,omitempty"`
}

func (a *API) createSnapshot(w http.ResponseWriter, r *http.Request) {
	var req snapshotRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body", nil)
		return
	}

	ver, err := a.svc.Versions.CreateSnapshot(r.Context(), TenantID(r.Context()), version.SnapshotRequest{
		ContractID:    req.ContractID,
		NegotiationID: req.NegotiationID,
		Type:          req.Type,
		ClientVisible: req.ClientVisible,
		CreatedBy:     ActorID(r.Context()),
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ver)
}

func (a *API) getVersion(w http.ResponseWriter, r *http.Request) {
	ver, err := a.svc.Versions.Get(r.Context(), TenantID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ver)
}

func (a *API) listVersions(w http.ResponseWriter, r *http.Request) {
	opts := version.ListOptions{
		ContractID: r.URL.Query().Get("contract_id"),
		Limit:      queryInt(r, "limit"),
		Offset:     queryInt(r, "offset"),
	}
	if negID := r.URL.Query().Get("negotiation_id"); negID != "" {
		opts.NegotiationID = &negID
	}
	for _, s := range r.URL.Query()["status"] {
		opts.Statuses = append(opts.Statuses, version.Status(s))
	}
	if visible := r.URL.Query().Get("client_visible"); visible != "" {
		v, err := strconv.ParseBool(visible)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid client_visible filter", nil)
			return
		}
		opts.ClientVisible = &v
	}

	summaries, err := a.svc.Versions.List(r.Context(), TenantID(r.Context()), opts)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

type approvalRequest struct {
	Note   string `json:"note,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func (a *API) approveVersion(w http.ResponseWriter, r *http.Request) {
	var req approvalRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body", nil)
		return
	}

	ver, err := a.svc.Versions.Approve(r.Context(), TenantID(r.Context()), chi.URLParam(r, "id"), ActorID(r.Context()), req.Note)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ver)
}

func (a *API) rejectVersion(w http.ResponseWriter, r *http.Request) {
	var req approvalRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body", nil)
		return
	}

	ver, err := a.svc.Versions.Reject(r.Context(), TenantID(r.Context()), chi.URLParam(r, "id"), ActorID(r.Context()), req.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ver)
}

func (a *API) finalizeVersion(w http.ResponseWriter, r *http.Request) {
	ver, err := a.svc.Versions.MarkFinal(r.Context(), TenantID(r.Context()), chi.URLParam(r, "id"), ActorID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ver)
}

type visibilityRequest struct {
	ClientVisible bool `json:"client_visible"`
}

func (a *API) setVersionVisibility(w http.ResponseWriter, r *http.Request) {
	var req visibilityRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body", nil)
		return
	}

	ver, err := a.svc.Versions.SetClientVisible(r.Context(), TenantID(r.Context()), chi.URLParam(r, "id"), req.ClientVisible)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ver)
}

func (a *API) compareVersions(w http.ResponseWriter, r *http.Request) {
	baseID := r.URL.Query().Get("base")
	targetID := r.URL.Query().Get("target")
	if baseID == "" || targetID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "base and target query parameters are required", nil)
		return
	}

	changes, err := a.svc.Versions.Compare(r.Context(), TenantID(r.Context()), baseID, targetID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, changes)
}

func queryInt(r *http.Request, name string) int {
	v, _ := strconv.Atoi(r.URL.Query().Get(name))
	return v
}
