package web

import (
	"net/http"

	"invoicedesk/internal/app"
)

// listClients handles GET /api/clients.
func (h *Handler) listClients(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListClients(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// getClient handles GET /api/clients/{id}.
func (h *Handler) getClient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	client, err := h.svc.GetClient(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, client)
}

// createClient handles POST /api/clients.
func (h *Handler) createClient(w http.ResponseWriter, r *http.Request) {
	var req app.ClientRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	client, err := h.svc.CreateClient(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeCreated(w, client)
}

// updateClient handles PUT /api/clients/{id}.
func (h *Handler) updateClient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req app.ClientRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	client, err := h.svc.UpdateClient(r.Context(), id, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, client)
}

// deleteClient handles DELETE /api/clients/{id}.
func (h *Handler) deleteClient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteClient(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
