package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type QuotationStatus string

const (
	QuotationStatusPerforma      QuotationStatus = "PERFORMA"
	QuotationStatusPartiallyPaid QuotationStatus = "PARTIALLY_PAID"
	QuotationStatusFullyPaid     QuotationStatus = "FULLY_PAID"
)

type BOQStatus string

const (
	BOQStatusDraft    BOQStatus = "DRAFT"
	BOQStatusSent     BOQStatus = "SENT"
	BOQStatusApproved BOQStatus = "APPROVED"
	BOQStatusRejected BOQStatus = "REJECTED"
)

// Document classes used for sequential numbering.
const (
	DocClassQuotation = "quotation"
	DocClassInvoice   = "invoice"
	DocClassBOQ       = "boq"
)

type Client struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	GSTIN     string    `json:"gstin"`
	CreatedAt time.Time `json:"created_at"`
}

// TaxConfig is the immutable tax snapshot taken at calculation time.
// Later edits to the tax settings singleton never alter documents that
// were computed against an earlier snapshot.
type TaxConfig struct {
	TaxLabel          string          `json:"tax_label"`
	TaxPercent        decimal.Decimal `json:"tax_percent"`
	ServiceTaxEnabled bool            `json:"service_tax_enabled"`
	ServiceTaxLabel   string          `json:"service_tax_label"`
	ServiceTaxPercent decimal.Decimal `json:"service_tax_percent"`
}

// FinancialTotals is the derived money breakdown stored alongside its
// source document. Invariant: TotalAmount = Subtotal - TotalDiscount +
// TaxAmount + ServiceTaxAmount.
type FinancialTotals struct {
	Subtotal          decimal.Decimal `json:"subtotal"`
	TotalDiscount     decimal.Decimal `json:"total_discount"`
	TaxLabel          string          `json:"tax_label"`
	TaxPercent        decimal.Decimal `json:"tax_percent"`
	TaxAmount         decimal.Decimal `json:"tax_amount"`
	ServiceTaxLabel   string          `json:"service_tax_label,omitempty"`
	ServiceTaxPercent decimal.Decimal `json:"service_tax_percent"`
	ServiceTaxAmount  decimal.Decimal `json:"service_tax_amount"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
}

// QuotationItem is a flat-amount line: quotations price work as lump sums,
// not as quantity × unit price.
type QuotationItem struct {
	ID          int             `json:"id"`
	QuotationID int             `json:"quotation_id"`
	LineNumber  int             `json:"line_number"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

type Payment struct {
	ID            int             `json:"id"`
	QuotationID   int             `json:"quotation_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	PaymentDate   string          `json:"payment_date"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Quotation is the Performa invoice: a proposed bill converted into final
// invoices as payments arrive. Payments are append-only; financial fields
// are edit-locked once the first payment exists.
type Quotation struct {
	ID              int             `json:"id"`
	QuotationNumber string          `json:"quotation_number"`
	ClientID        int             `json:"client_id"`
	ClientName      string          `json:"client_name,omitempty"`
	Date            string          `json:"date"`
	ValidUntil      string          `json:"valid_until,omitempty"`
	Status          QuotationStatus `json:"status"`
	Currency        string          `json:"currency"`
	Items           []QuotationItem `json:"items"`
	Totals          FinancialTotals `json:"totals"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	Payments        []Payment       `json:"payments,omitempty"`
	Notes           string          `json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OutstandingBalance returns TotalAmount - PaidAmount.
func (q *Quotation) OutstandingBalance() decimal.Decimal {
	return q.Totals.TotalAmount.Sub(q.PaidAmount)
}

type InvoiceItem struct {
	ID          int             `json:"id"`
	InvoiceID   int             `json:"invoice_id"`
	LineNumber  int             `json:"line_number"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// Invoice records money actually received. It is created exactly once per
// payment event (or standalone) and never mutated afterwards; PaidAmount
// always equals TotalAmount by construction.
type Invoice struct {
	ID            int             `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	QuotationID   *int            `json:"quotation_id,omitempty"`
	ClientID      int             `json:"client_id"`
	ClientName    string          `json:"client_name,omitempty"`
	Date          string          `json:"date"`
	Currency      string          `json:"currency"`
	Items         []InvoiceItem   `json:"items"`
	Totals        FinancialTotals `json:"totals"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PaymentMethod string          `json:"payment_method"`
	PaymentDate   string          `json:"payment_date"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
}

// BOQItem carries the quantity × unit-price breakdown with an optional
// per-line discount, unlike quotation items which are flat amounts.
type BOQItem struct {
	ID              int             `json:"id"`
	BOQID           int             `json:"boq_id"`
	LineNumber      int             `json:"line_number"`
	Category        string          `json:"category"`
	Area            string          `json:"area"`
	Description     string          `json:"description"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Quantity        decimal.Decimal `json:"quantity"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// BOQ is a categorized, area-tagged cost estimate with its own lifecycle,
// independent of quotations. Approved BOQs are immutable.
type BOQ struct {
	ID         int             `json:"id"`
	BOQNumber  string          `json:"boq_number"`
	ClientID   int             `json:"client_id"`
	ClientName string          `json:"client_name,omitempty"`
	Date       string          `json:"date"`
	Status     BOQStatus       `json:"status"`
	Currency   string          `json:"currency"`
	Items      []BOQItem       `json:"items"`
	Totals     FinancialTotals `json:"totals"`
	Notes      string          `json:"notes"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type BankAccount struct {
	ID            int    `json:"id"`
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc"`
	Branch        string `json:"branch"`
	IsDefault     bool   `json:"is_default"`
}

type OrganizationSettings struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Website string `json:"website"`
	LogoURL string `json:"logo_url"`
}

type TaxSettings struct {
	TaxLabel          string          `json:"tax_label"`
	TaxPercent        decimal.Decimal `json:"tax_percent"`
	TaxID             string          `json:"tax_id"`
	ServiceTaxLabel   string          `json:"service_tax_label"`
	ServiceTaxPercent decimal.Decimal `json:"service_tax_percent"`
	ServiceTaxEnabled bool            `json:"service_tax_enabled"`
}

// TaxConfig converts the settings row into the immutable snapshot the
// calculator consumes.
func (t *TaxSettings) TaxConfig() *TaxConfig {
	if t == nil {
		return nil
	}
	return &TaxConfig{
		TaxLabel:          t.TaxLabel,
		TaxPercent:        t.TaxPercent,
		ServiceTaxEnabled: t.ServiceTaxEnabled,
		ServiceTaxLabel:   t.ServiceTaxLabel,
		ServiceTaxPercent: t.ServiceTaxPercent,
	}
}

type GeneralSettings struct {
	Currency             string `json:"currency"`
	QuotationPrefix      string `json:"quotation_prefix"`
	InvoicePrefix        string `json:"invoice_prefix"`
	BOQPrefix            string `json:"boq_prefix"`
	QuotationValidDays   int    `json:"quotation_valid_days"`
	DefaultPaymentMethod string `json:"default_payment_method"`
	PaymentTermsNote     string `json:"payment_terms_note"`
}

// DocumentSequence is one row of the per-class, per-year atomic counter
// behind document numbering.
type DocumentSequence struct {
	DocClass   string `json:"doc_class"`
	Year       int    `json:"year"`
	LastNumber int64  `json:"last_number"`
}
