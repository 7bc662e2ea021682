package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"invoicedesk/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	router    chi.Router
	jwtSecret string
	adminUser string
	adminPass string
}

// Config carries the environment-derived settings the handler needs.
type Config struct {
	AllowedOrigins string
	JWTSecret      string
	AdminUser      string
	AdminPass      string
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, cfg Config) http.Handler {
	h := &Handler{
		svc:       svc,
		jwtSecret: cfg.JWTSecret,
		adminUser: cfg.AdminUser,
		adminPass: cfg.AdminPass,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(cfg.AllowedOrigins))

	// Health and auth are public.
	r.Get("/api/health", h.health)
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// Everything else returns 401 JSON when unauthenticated.
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/api/auth/me", h.me)

		// Clients
		r.Get("/api/clients", h.listClients)
		r.Post("/api/clients", h.createClient)
		r.Get("/api/clients/{id}", h.getClient)
		r.Put("/api/clients/{id}", h.updateClient)
		r.Delete("/api/clients/{id}", h.deleteClient)

		// Quotations
		r.Get("/api/quotations", h.listQuotations)
		r.Post("/api/quotations", h.createQuotation)
		r.Get("/api/quotations/{id}", h.getQuotation)
		r.Put("/api/quotations/{id}", h.updateQuotation)
		r.Delete("/api/quotations/{id}", h.deleteQuotation)
		r.Post("/api/quotations/{id}/payments", h.recordPayment)
		r.Post("/api/quotations/{id}/fully-pay", h.fullyPayQuotation)
		r.Get("/api/quotations/{id}/payments", h.listQuotationPayments)
		r.Get("/api/quotations/{id}/invoices", h.listQuotationInvoices)

		// Invoices
		r.Get("/api/invoices", h.listInvoices)
		r.Post("/api/invoices", h.createStandaloneInvoice)
		r.Get("/api/invoices/{id}", h.getInvoice)

		// BOQs
		r.Get("/api/boqs", h.listBOQs)
		r.Post("/api/boqs", h.createBOQ)
		r.Get("/api/boqs/{id}", h.getBOQ)
		r.Put("/api/boqs/{id}", h.updateBOQ)
		r.Delete("/api/boqs/{id}", h.deleteBOQ)
		r.Post("/api/boqs/{id}/send", h.sendBOQ)
		r.Post("/api/boqs/{id}/approve", h.approveBOQ)
		r.Post("/api/boqs/{id}/reject", h.rejectBOQ)

		// Bank accounts
		r.Get("/api/bank-accounts", h.listBankAccounts)
		r.Post("/api/bank-accounts", h.createBankAccount)
		r.Put("/api/bank-accounts/{id}", h.updateBankAccount)
		r.Delete("/api/bank-accounts/{id}", h.deleteBankAccount)

		// Settings
		r.Get("/api/settings/organization", h.getOrganizationSettings)
		r.Put("/api/settings/organization", h.updateOrganizationSettings)
		r.Get("/api/settings/tax", h.getTaxSettings)
		r.Put("/api/settings/tax", h.updateTaxSettings)
		r.Get("/api/settings/general", h.getGeneralSettings)
		r.Put("/api/settings/general", h.updateGeneralSettings)

		// Reports
		r.Get("/api/reports/revenue", h.revenueByMonth)
		r.Get("/api/reports/outstanding", h.outstandingBalances)
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// idParam extracts the {id} URL parameter as an int. Writes a 400 response
// and returns false when the parameter is not a valid integer.
func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, r, "invalid id parameter", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// decodeJSON decodes the request body into v. On failure it writes the
// appropriate error response and returns false: HTTP 413 when the body
// exceeds the RequestBodyLimit, HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
