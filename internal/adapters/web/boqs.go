package web

import (
	"context"
	"net/http"

	"invoicedesk/internal/app"
	"invoicedesk/internal/core"
)

// listBOQs handles GET /api/boqs. An optional ?status= query filters by
// lifecycle status.
func (h *Handler) listBOQs(w http.ResponseWriter, r *http.Request) {
	var status *core.BOQStatus
	if s := r.URL.Query().Get("status"); s != "" {
		bs := core.BOQStatus(s)
		switch bs {
		case core.BOQStatusDraft, core.BOQStatusSent, core.BOQStatusApproved, core.BOQStatusRejected:
			status = &bs
		default:
			writeError(w, r, "unknown BOQ status: "+s, "BAD_REQUEST", http.StatusBadRequest)
			return
		}
	}

	result, err := h.svc.ListBOQs(r.Context(), status)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// getBOQ handles GET /api/boqs/{id}.
func (h *Handler) getBOQ(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	b, err := h.svc.GetBOQ(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, b)
}

// createBOQ handles POST /api/boqs.
func (h *Handler) createBOQ(w http.ResponseWriter, r *http.Request) {
	var req app.CreateBOQRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := h.svc.CreateBOQ(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeCreated(w, b)
}

// updateBOQ handles PUT /api/boqs/{id}.
func (h *Handler) updateBOQ(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req app.UpdateBOQRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := h.svc.UpdateBOQ(r.Context(), id, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, b)
}

// deleteBOQ handles DELETE /api/boqs/{id}.
func (h *Handler) deleteBOQ(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteBOQ(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sendBOQ handles POST /api/boqs/{id}/send.
func (h *Handler) sendBOQ(w http.ResponseWriter, r *http.Request) {
	h.transitionBOQ(w, r, h.svc.SendBOQ)
}

// approveBOQ handles POST /api/boqs/{id}/approve.
func (h *Handler) approveBOQ(w http.ResponseWriter, r *http.Request) {
	h.transitionBOQ(w, r, h.svc.ApproveBOQ)
}

// rejectBOQ handles POST /api/boqs/{id}/reject.
func (h *Handler) rejectBOQ(w http.ResponseWriter, r *http.Request) {
	h.transitionBOQ(w, r, h.svc.RejectBOQ)
}

// transitionBOQ is the shared id-parse-then-call path for the three status
// transition endpoints.
func (h *Handler) transitionBOQ(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id int) (*core.BOQ, error)) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	b, err := fn(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, b)
}
