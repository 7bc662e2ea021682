package app

import "invoicedesk/internal/core"

// ClientListResult is returned by ListClients.
type ClientListResult struct {
	Clients []core.Client `json:"clients"`
}

// QuotationListResult is returned by ListQuotations.
type QuotationListResult struct {
	Quotations []core.Quotation `json:"quotations"`
}

// PaymentResult is returned by payment operations: the updated quotation
// together with the invoice the payment generated.
type PaymentResult struct {
	Quotation *core.Quotation `json:"quotation"`
	Invoice   *core.Invoice   `json:"invoice"`
}

// PaymentListResult is returned by ListQuotationPayments.
type PaymentListResult struct {
	Payments []core.Payment `json:"payments"`
}

// InvoiceListResult is returned by invoice listing operations.
type InvoiceListResult struct {
	Invoices []core.Invoice `json:"invoices"`
}

// BOQListResult is returned by ListBOQs.
type BOQListResult struct {
	BOQs []core.BOQ `json:"boqs"`
}

// BankAccountListResult is returned by ListBankAccounts.
type BankAccountListResult struct {
	BankAccounts []core.BankAccount `json:"bank_accounts"`
}

// RevenueReportResult is returned by GetRevenueByMonth.
type RevenueReportResult struct {
	Year  int                `json:"year"`
	Lines []core.RevenueLine `json:"lines"`
}

// OutstandingReportResult is returned by GetOutstandingBalances.
type OutstandingReportResult struct {
	Lines []core.OutstandingLine `json:"lines"`
}
