package app

import (
	"context"

	"invoicedesk/internal/core"
)

// ApplicationService is the single interface the web adapter calls. It
// decouples presentation from business logic. Implementations must contain
// no display logic of any kind.
type ApplicationService interface {
	// Clients
	ListClients(ctx context.Context) (*ClientListResult, error)
	GetClient(ctx context.Context, id int) (*core.Client, error)
	CreateClient(ctx context.Context, req ClientRequest) (*core.Client, error)
	UpdateClient(ctx context.Context, id int, req ClientRequest) (*core.Client, error)
	DeleteClient(ctx context.Context, id int) error

	// Quotations
	ListQuotations(ctx context.Context, status *core.QuotationStatus) (*QuotationListResult, error)
	GetQuotation(ctx context.Context, id int) (*core.Quotation, error)
	CreateQuotation(ctx context.Context, req CreateQuotationRequest) (*core.Quotation, error)
	UpdateQuotation(ctx context.Context, id int, req UpdateQuotationRequest) (*core.Quotation, error)
	DeleteQuotation(ctx context.Context, id int) error

	// RecordPayment applies a payment to a quotation and returns the updated
	// quotation together with the generated invoice.
	RecordPayment(ctx context.Context, quotationID int, req RecordPaymentRequest) (*PaymentResult, error)

	// FullyPayQuotation is the pay-the-remaining-balance shortcut.
	FullyPayQuotation(ctx context.Context, quotationID int, req RecordPaymentRequest) (*PaymentResult, error)

	ListQuotationPayments(ctx context.Context, quotationID int) (*PaymentListResult, error)

	// Invoices
	ListInvoices(ctx context.Context) (*InvoiceListResult, error)
	GetInvoice(ctx context.Context, id int) (*core.Invoice, error)
	ListInvoicesForQuotation(ctx context.Context, quotationID int) (*InvoiceListResult, error)
	CreateStandaloneInvoice(ctx context.Context, req CreateInvoiceRequest) (*core.Invoice, error)

	// BOQs
	ListBOQs(ctx context.Context, status *core.BOQStatus) (*BOQListResult, error)
	GetBOQ(ctx context.Context, id int) (*core.BOQ, error)
	CreateBOQ(ctx context.Context, req CreateBOQRequest) (*core.BOQ, error)
	UpdateBOQ(ctx context.Context, id int, req UpdateBOQRequest) (*core.BOQ, error)
	DeleteBOQ(ctx context.Context, id int) error
	SendBOQ(ctx context.Context, id int) (*core.BOQ, error)
	ApproveBOQ(ctx context.Context, id int) (*core.BOQ, error)
	RejectBOQ(ctx context.Context, id int) (*core.BOQ, error)

	// Bank accounts
	ListBankAccounts(ctx context.Context) (*BankAccountListResult, error)
	CreateBankAccount(ctx context.Context, b core.BankAccount) (*core.BankAccount, error)
	UpdateBankAccount(ctx context.Context, id int, b core.BankAccount) (*core.BankAccount, error)
	DeleteBankAccount(ctx context.Context, id int) error

	// Settings
	GetOrganizationSettings(ctx context.Context) (*core.OrganizationSettings, error)
	UpdateOrganizationSettings(ctx context.Context, s core.OrganizationSettings) error
	GetTaxSettings(ctx context.Context) (*core.TaxSettings, error)
	UpdateTaxSettings(ctx context.Context, s core.TaxSettings) error
	GetGeneralSettings(ctx context.Context) (*core.GeneralSettings, error)
	UpdateGeneralSettings(ctx context.Context, s core.GeneralSettings) error

	// Reports
	GetRevenueByMonth(ctx context.Context, year int) (*RevenueReportResult, error)
	GetOutstandingBalances(ctx context.Context) (*OutstandingReportResult, error)
}
