package app

import (
	"context"

	"invoicedesk/internal/core"
)

type appService struct {
	clients    core.ClientService
	quotations core.QuotationService
	invoices   core.InvoiceService
	boqs       core.BOQService
	settings   core.SettingsService
	reporting  core.ReportingService
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	clients core.ClientService,
	quotations core.QuotationService,
	invoices core.InvoiceService,
	boqs core.BOQService,
	settings core.SettingsService,
	reporting core.ReportingService,
) ApplicationService {
	return &appService{
		clients:    clients,
		quotations: quotations,
		invoices:   invoices,
		boqs:       boqs,
		settings:   settings,
		reporting:  reporting,
	}
}

// ListClients returns all clients.
func (s *appService) ListClients(ctx context.Context) (*ClientListResult, error) {
	clients, err := s.clients.GetClients(ctx)
	if err != nil {
		return nil, err
	}
	return &ClientListResult{Clients: clients}, nil
}

func (s *appService) GetClient(ctx context.Context, id int) (*core.Client, error) {
	return s.clients.GetClient(ctx, id)
}

func (s *appService) CreateClient(ctx context.Context, req ClientRequest) (*core.Client, error) {
	return s.clients.CreateClient(ctx, core.Client{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		GSTIN:   req.GSTIN,
	})
}

func (s *appService) UpdateClient(ctx context.Context, id int, req ClientRequest) (*core.Client, error) {
	return s.clients.UpdateClient(ctx, id, core.Client{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		GSTIN:   req.GSTIN,
	})
}

func (s *appService) DeleteClient(ctx context.Context, id int) error {
	return s.clients.DeleteClient(ctx, id)
}

// ListQuotations returns quotations, optionally filtered by status.
func (s *appService) ListQuotations(ctx context.Context, status *core.QuotationStatus) (*QuotationListResult, error) {
	quotations, err := s.quotations.GetQuotations(ctx, status)
	if err != nil {
		return nil, err
	}
	return &QuotationListResult{Quotations: quotations}, nil
}

func (s *appService) GetQuotation(ctx context.Context, id int) (*core.Quotation, error) {
	return s.quotations.GetQuotation(ctx, id)
}

func (s *appService) CreateQuotation(ctx context.Context, req CreateQuotationRequest) (*core.Quotation, error) {
	return s.quotations.CreateQuotation(ctx, req.ClientID, req.Date, quotationItems(req.Items), req.Notes)
}

func (s *appService) UpdateQuotation(ctx context.Context, id int, req UpdateQuotationRequest) (*core.Quotation, error) {
	return s.quotations.UpdateQuotation(ctx, id, quotationItems(req.Items), req.Notes)
}

func (s *appService) DeleteQuotation(ctx context.Context, id int) error {
	return s.quotations.DeleteQuotation(ctx, id)
}

// RecordPayment applies a payment to a quotation and returns the updated
// quotation with the generated invoice.
func (s *appService) RecordPayment(ctx context.Context, quotationID int, req RecordPaymentRequest) (*PaymentResult, error) {
	q, inv, err := s.quotations.RecordPayment(ctx, quotationID, paymentInput(req))
	if err != nil {
		return nil, err
	}
	return &PaymentResult{Quotation: q, Invoice: inv}, nil
}

// FullyPayQuotation settles the quotation's remaining balance.
func (s *appService) FullyPayQuotation(ctx context.Context, quotationID int, req RecordPaymentRequest) (*PaymentResult, error) {
	q, inv, err := s.quotations.FullyPay(ctx, quotationID, paymentInput(req))
	if err != nil {
		return nil, err
	}
	return &PaymentResult{Quotation: q, Invoice: inv}, nil
}

func (s *appService) ListQuotationPayments(ctx context.Context, quotationID int) (*PaymentListResult, error) {
	payments, err := s.quotations.ListPayments(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	return &PaymentListResult{Payments: payments}, nil
}

// ListInvoices returns all invoices, newest first.
func (s *appService) ListInvoices(ctx context.Context) (*InvoiceListResult, error) {
	invoices, err := s.invoices.GetInvoices(ctx)
	if err != nil {
		return nil, err
	}
	return &InvoiceListResult{Invoices: invoices}, nil
}

func (s *appService) GetInvoice(ctx context.Context, id int) (*core.Invoice, error) {
	return s.invoices.GetInvoice(ctx, id)
}

func (s *appService) ListInvoicesForQuotation(ctx context.Context, quotationID int) (*InvoiceListResult, error) {
	invoices, err := s.invoices.GetInvoicesForQuotation(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	return &InvoiceListResult{Invoices: invoices}, nil
}

func (s *appService) CreateStandaloneInvoice(ctx context.Context, req CreateInvoiceRequest) (*core.Invoice, error) {
	items := make([]core.InvoiceItem, 0, len(req.Items))
	for _, in := range req.Items {
		items = append(items, core.InvoiceItem{
			Description: in.Description,
			Amount:      in.Amount,
		})
	}
	return s.invoices.CreateStandaloneInvoice(ctx, req.ClientID, req.Date, items, req.PaymentMethod, req.Notes)
}

// ListBOQs returns BOQs, optionally filtered by status.
func (s *appService) ListBOQs(ctx context.Context, status *core.BOQStatus) (*BOQListResult, error) {
	boqs, err := s.boqs.GetBOQs(ctx, status)
	if err != nil {
		return nil, err
	}
	return &BOQListResult{BOQs: boqs}, nil
}

func (s *appService) GetBOQ(ctx context.Context, id int) (*core.BOQ, error) {
	return s.boqs.GetBOQ(ctx, id)
}

func (s *appService) CreateBOQ(ctx context.Context, req CreateBOQRequest) (*core.BOQ, error) {
	return s.boqs.CreateBOQ(ctx, req.ClientID, req.Date, boqItems(req.Items), req.Notes)
}

func (s *appService) UpdateBOQ(ctx context.Context, id int, req UpdateBOQRequest) (*core.BOQ, error) {
	return s.boqs.UpdateBOQ(ctx, id, boqItems(req.Items), req.Notes)
}

func (s *appService) DeleteBOQ(ctx context.Context, id int) error {
	return s.boqs.DeleteBOQ(ctx, id)
}

func (s *appService) SendBOQ(ctx context.Context, id int) (*core.BOQ, error) {
	return s.boqs.SendBOQ(ctx, id)
}

func (s *appService) ApproveBOQ(ctx context.Context, id int) (*core.BOQ, error) {
	return s.boqs.ApproveBOQ(ctx, id)
}

func (s *appService) RejectBOQ(ctx context.Context, id int) (*core.BOQ, error) {
	return s.boqs.RejectBOQ(ctx, id)
}

// ListBankAccounts returns all configured bank accounts.
func (s *appService) ListBankAccounts(ctx context.Context) (*BankAccountListResult, error) {
	accounts, err := s.settings.ListBankAccounts(ctx)
	if err != nil {
		return nil, err
	}
	return &BankAccountListResult{BankAccounts: accounts}, nil
}

func (s *appService) CreateBankAccount(ctx context.Context, b core.BankAccount) (*core.BankAccount, error) {
	return s.settings.CreateBankAccount(ctx, b)
}

func (s *appService) UpdateBankAccount(ctx context.Context, id int, b core.BankAccount) (*core.BankAccount, error) {
	return s.settings.UpdateBankAccount(ctx, id, b)
}

func (s *appService) DeleteBankAccount(ctx context.Context, id int) error {
	return s.settings.DeleteBankAccount(ctx, id)
}

func (s *appService) GetOrganizationSettings(ctx context.Context) (*core.OrganizationSettings, error) {
	return s.settings.GetOrganizationSettings(ctx)
}

func (s *appService) UpdateOrganizationSettings(ctx context.Context, set core.OrganizationSettings) error {
	return s.settings.UpdateOrganizationSettings(ctx, set)
}

func (s *appService) GetTaxSettings(ctx context.Context) (*core.TaxSettings, error) {
	return s.settings.GetTaxSettings(ctx)
}

func (s *appService) UpdateTaxSettings(ctx context.Context, set core.TaxSettings) error {
	return s.settings.UpdateTaxSettings(ctx, set)
}

func (s *appService) GetGeneralSettings(ctx context.Context) (*core.GeneralSettings, error) {
	return s.settings.GetGeneralSettings(ctx)
}

func (s *appService) UpdateGeneralSettings(ctx context.Context, set core.GeneralSettings) error {
	return s.settings.UpdateGeneralSettings(ctx, set)
}

// GetRevenueByMonth returns invoiced revenue grouped by month for a year.
func (s *appService) GetRevenueByMonth(ctx context.Context, year int) (*RevenueReportResult, error) {
	lines, err := s.reporting.GetRevenueByMonth(ctx, year)
	if err != nil {
		return nil, err
	}
	return &RevenueReportResult{Year: year, Lines: lines}, nil
}

// GetOutstandingBalances returns per-client open quotation balances.
func (s *appService) GetOutstandingBalances(ctx context.Context) (*OutstandingReportResult, error) {
	lines, err := s.reporting.GetOutstandingBalances(ctx)
	if err != nil {
		return nil, err
	}
	return &OutstandingReportResult{Lines: lines}, nil
}

func quotationItems(inputs []QuotationItemInput) []core.QuotationItem {
	items := make([]core.QuotationItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, core.QuotationItem{
			Description: in.Description,
			Amount:      in.Amount,
		})
	}
	return items
}

func boqItems(inputs []BOQItemInput) []core.BOQItem {
	items := make([]core.BOQItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, core.BOQItem{
			Category:        in.Category,
			Area:            in.Area,
			Description:     in.Description,
			UnitPrice:       in.UnitPrice,
			Quantity:        in.Quantity,
			DiscountPercent: in.DiscountPercent,
		})
	}
	return items
}

func paymentInput(req RecordPaymentRequest) core.PaymentInput {
	return core.PaymentInput{
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		PaymentDate:   req.PaymentDate,
		Notes:         req.Notes,
	}
}
