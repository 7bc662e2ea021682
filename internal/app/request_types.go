package app

import "github.com/shopspring/decimal"

// ClientRequest is the input for creating or updating a client.
type ClientRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	GSTIN   string `json:"gstin"`
}

// CreateQuotationRequest is the input for creating a new quotation.
type CreateQuotationRequest struct {
	ClientID int                  `json:"client_id"`
	Date     string               `json:"date"` // YYYY-MM-DD, empty means today
	Notes    string               `json:"notes"`
	Items    []QuotationItemInput `json:"items"`
}

// UpdateQuotationRequest replaces a quotation's line items and notes.
type UpdateQuotationRequest struct {
	Notes string               `json:"notes"`
	Items []QuotationItemInput `json:"items"`
}

// QuotationItemInput is a single line within a quotation request.
type QuotationItemInput struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// RecordPaymentRequest is the input for recording a payment against a
// quotation. For the fully-pay shortcut a zero amount means "the whole
// outstanding balance".
type RecordPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	PaymentDate   string          `json:"payment_date"` // YYYY-MM-DD, empty means today
	Notes         string          `json:"notes"`
}

// CreateInvoiceRequest is the input for creating a standalone invoice.
type CreateInvoiceRequest struct {
	ClientID      int                `json:"client_id"`
	Date          string             `json:"date"`
	PaymentMethod string             `json:"payment_method"`
	Notes         string             `json:"notes"`
	Items         []InvoiceItemInput `json:"items"`
}

// InvoiceItemInput is a single line within a CreateInvoiceRequest.
type InvoiceItemInput struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// CreateBOQRequest is the input for creating a new bill of quantities.
type CreateBOQRequest struct {
	ClientID int            `json:"client_id"`
	Date     string         `json:"date"`
	Notes    string         `json:"notes"`
	Items    []BOQItemInput `json:"items"`
}

// UpdateBOQRequest replaces a BOQ's line items and notes.
type UpdateBOQRequest struct {
	Notes string         `json:"notes"`
	Items []BOQItemInput `json:"items"`
}

// BOQItemInput is a single line within a BOQ request. A zero quantity
// defaults to one.
type BOQItemInput struct {
	Category        string          `json:"category"`
	Area            string          `json:"area"`
	Description     string          `json:"description"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Quantity        decimal.Decimal `json:"quantity"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}
