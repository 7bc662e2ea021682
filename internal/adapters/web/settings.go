package web

import (
	"net/http"

	"invoicedesk/internal/core"
)

// listBankAccounts handles GET /api/bank-accounts.
func (h *Handler) listBankAccounts(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListBankAccounts(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// createBankAccount handles POST /api/bank-accounts.
func (h *Handler) createBankAccount(w http.ResponseWriter, r *http.Request) {
	var req core.BankAccount
	if !decodeJSON(w, r, &req) {
		return
	}
	account, err := h.svc.CreateBankAccount(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeCreated(w, account)
}

// updateBankAccount handles PUT /api/bank-accounts/{id}.
func (h *Handler) updateBankAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req core.BankAccount
	if !decodeJSON(w, r, &req) {
		return
	}
	account, err := h.svc.UpdateBankAccount(r.Context(), id, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, account)
}

// deleteBankAccount handles DELETE /api/bank-accounts/{id}.
func (h *Handler) deleteBankAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteBankAccount(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// getOrganizationSettings handles GET /api/settings/organization.
func (h *Handler) getOrganizationSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.GetOrganizationSettings(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, s)
}

// updateOrganizationSettings handles PUT /api/settings/organization.
func (h *Handler) updateOrganizationSettings(w http.ResponseWriter, r *http.Request) {
	var req core.OrganizationSettings
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.UpdateOrganizationSettings(r.Context(), req); err != nil {
		writeDomainError(w, r, err)
		return
	}
	s, err := h.svc.GetOrganizationSettings(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, s)
}

// getTaxSettings handles GET /api/settings/tax.
func (h *Handler) getTaxSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.GetTaxSettings(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, s)
}

// updateTaxSettings handles PUT /api/settings/tax. Changes apply only to
// documents computed after the update; existing documents keep the tax
// snapshot they were created with.
func (h *Handler) updateTaxSettings(w http.ResponseWriter, r *http.Request) {
	var req core.TaxSettings
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.UpdateTaxSettings(r.Context(), req); err != nil {
		writeDomainError(w, r, err)
		return
	}
	s, err := h.svc.GetTaxSettings(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, s)
}

// getGeneralSettings handles GET /api/settings/general.
func (h *Handler) getGeneralSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.GetGeneralSettings(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, s)
}

// updateGeneralSettings handles PUT /api/settings/general.
func (h *Handler) updateGeneralSettings(w http.ResponseWriter, r *http.Request) {
	var req core.GeneralSettings
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.UpdateGeneralSettings(r.Context(), req); err != nil {
		writeDomainError(w, r, err)
		return
	}
	s, err := h.svc.GetGeneralSettings(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, s)
}
