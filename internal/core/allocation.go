package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentInput is the caller-supplied data for recording a payment against
// a quotation. A zero Amount on the fully-pay path means "the remaining
// balance".
type PaymentInput struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	PaymentDate   string          `json:"payment_date"`
	Notes         string          `json:"notes"`
}

// Normalize trims free-text fields and defaults the payment date to today.
func (p *PaymentInput) Normalize() {
	p.PaymentMethod = strings.TrimSpace(p.PaymentMethod)
	p.Notes = strings.TrimSpace(p.Notes)
	p.PaymentDate = strings.TrimSpace(p.PaymentDate)
	if p.PaymentDate == "" {
		p.PaymentDate = time.Now().Format("2006-01-02")
	}
}

// AllocatedComponents is what previous payment events already carved out of
// a quotation: the sums of subtotal, tax, and service tax across the
// invoices generated so far. The final allocation takes exact remainders
// against these so the invoices always sum back to the parent.
type AllocatedComponents struct {
	Subtotal         decimal.Decimal
	TaxAmount        decimal.Decimal
	ServiceTaxAmount decimal.Decimal
}

// Allocation is the outcome of applying one payment to a quotation: the new
// paid amount and status for the parent, and the proportionally scaled
// invoice representing the money received.
type Allocation struct {
	NewPaidAmount decimal.Decimal
	NewStatus     QuotationStatus
	FullyPaid     bool
	Payment       Payment
	Invoice       Invoice
}

// AllocatePayment validates a payment against the quotation's outstanding
// balance and computes the resulting paid amount, status, and generated
// invoice. Invoice line items and totals are scaled by the payment ratio
// (amount / total); the payment that settles the quotation instead takes the
// exact remainder of each component, so that across all generated invoices
// subtotal, tax, service tax, and total reconcile exactly with the parent.
//
// Pure: the quotation is not mutated and nothing is persisted. The service
// layer wraps this in a transaction holding the row lock.
func AllocatePayment(q *Quotation, in PaymentInput, prior AllocatedComponents) (*Allocation, error) {
	if !in.Amount.IsPositive() {
		return nil, newValidationError("amount", "must be greater than zero, got %s", in.Amount)
	}

	outstanding := q.OutstandingBalance()
	if in.Amount.GreaterThan(outstanding) {
		return nil, newValidationError("amount", "payment %s exceeds outstanding balance %s", in.Amount, outstanding)
	}

	newPaid := q.PaidAmount.Add(in.Amount)
	fullyPaid := newPaid.GreaterThanOrEqual(q.Totals.TotalAmount)

	newStatus, err := NextQuotationStatus(q, fullyPaid)
	if err != nil {
		return nil, err
	}

	ratio := in.Amount.Div(q.Totals.TotalAmount)

	items := make([]InvoiceItem, len(q.Items))
	for i, item := range q.Items {
		items[i] = InvoiceItem{
			LineNumber:  item.LineNumber,
			Description: item.Description,
			Amount:      item.Amount.Mul(ratio).Round(2),
		}
	}

	var subtotal, taxAmount, serviceTaxAmount decimal.Decimal
	if fullyPaid {
		// Last split takes the exact remainder of each component.
		subtotal = q.Totals.Subtotal.Sub(prior.Subtotal)
		taxAmount = q.Totals.TaxAmount.Sub(prior.TaxAmount)
		serviceTaxAmount = q.Totals.ServiceTaxAmount.Sub(prior.ServiceTaxAmount)
	} else {
		subtotal = q.Totals.Subtotal.Mul(ratio).Round(2)
		taxAmount = q.Totals.TaxAmount.Mul(ratio).Round(2)
		serviceTaxAmount = q.Totals.ServiceTaxAmount.Mul(ratio).Round(2)
	}

	quotationID := q.ID
	invoice := Invoice{
		QuotationID: &quotationID,
		ClientID:    q.ClientID,
		Date:        in.PaymentDate,
		Currency:    q.Currency,
		Items:       items,
		Totals: FinancialTotals{
			Subtotal:          subtotal,
			TaxLabel:          q.Totals.TaxLabel,
			TaxPercent:        q.Totals.TaxPercent,
			TaxAmount:         taxAmount,
			ServiceTaxLabel:   q.Totals.ServiceTaxLabel,
			ServiceTaxPercent: q.Totals.ServiceTaxPercent,
			ServiceTaxAmount:  serviceTaxAmount,
			TotalAmount:       in.Amount,
		},
		PaidAmount:    in.Amount,
		PaymentMethod: in.PaymentMethod,
		PaymentDate:   in.PaymentDate,
	}

	return &Allocation{
		NewPaidAmount: newPaid,
		NewStatus:     newStatus,
		FullyPaid:     fullyPaid,
		Payment: Payment{
			QuotationID:   q.ID,
			Amount:        in.Amount,
			PaymentMethod: in.PaymentMethod,
			PaymentDate:   in.PaymentDate,
			Notes:         in.Notes,
		},
		Invoice: invoice,
	}, nil
}
