package core_test

import (
	"errors"
	"testing"

	"invoicedesk/internal/core"

	"github.com/shopspring/decimal"
)

// testQuotation builds the worked example: subtotal 934.58, 5% tax, 2%
// service tax, total 1000.00.
func testQuotation() *core.Quotation {
	return &core.Quotation{
		ID:       7,
		ClientID: 1,
		Status:   core.QuotationStatusPerforma,
		Currency: "INR",
		Items: []core.QuotationItem{
			{LineNumber: 1, Description: "Modular kitchen", Amount: d("600.50")},
			{LineNumber: 2, Description: "False ceiling", Amount: d("334.08")},
		},
		Totals: core.FinancialTotals{
			Subtotal:          d("934.58"),
			TaxLabel:          "GST",
			TaxPercent:        d("5"),
			TaxAmount:         d("46.73"),
			ServiceTaxLabel:   "Service Tax",
			ServiceTaxPercent: d("2"),
			ServiceTaxAmount:  d("18.69"),
			TotalAmount:       d("1000.00"),
		},
		PaidAmount: decimal.Zero,
	}
}

// applyAllocation folds an allocation back into the quotation the way the
// service's UPDATE does, so sequential allocations can be tested in memory.
func applyAllocation(q *core.Quotation, a *core.Allocation) {
	q.PaidAmount = a.NewPaidAmount
	q.Status = a.NewStatus
	q.Payments = append(q.Payments, a.Payment)
}

func accumulate(prior *core.AllocatedComponents, inv *core.Invoice) {
	prior.Subtotal = prior.Subtotal.Add(inv.Totals.Subtotal)
	prior.TaxAmount = prior.TaxAmount.Add(inv.Totals.TaxAmount)
	prior.ServiceTaxAmount = prior.ServiceTaxAmount.Add(inv.Totals.ServiceTaxAmount)
}

func TestAllocatePayment_PartialPayment(t *testing.T) {
	q := testQuotation()

	alloc, err := core.AllocatePayment(q, core.PaymentInput{
		Amount: d("400"), PaymentMethod: "UPI", PaymentDate: "2026-03-01",
	}, core.AllocatedComponents{})
	if err != nil {
		t.Fatalf("AllocatePayment failed: %v", err)
	}

	if !alloc.NewPaidAmount.Equal(d("400")) {
		t.Errorf("expected paid 400, got %s", alloc.NewPaidAmount)
	}
	if alloc.NewStatus != core.QuotationStatusPartiallyPaid {
		t.Errorf("expected PARTIALLY_PAID, got %s", alloc.NewStatus)
	}
	if alloc.FullyPaid {
		t.Errorf("expected not fully paid")
	}

	inv := alloc.Invoice
	if !inv.Totals.TotalAmount.Equal(d("400")) {
		t.Errorf("invoice total: expected 400, got %s", inv.Totals.TotalAmount)
	}
	if !inv.PaidAmount.Equal(d("400")) {
		t.Errorf("invoice paid: expected 400, got %s", inv.PaidAmount)
	}
	// Ratio 0.4 applied to each parent component, rounded to 2dp.
	if !inv.Totals.Subtotal.Equal(d("373.83")) {
		t.Errorf("invoice subtotal: expected 373.83, got %s", inv.Totals.Subtotal)
	}
	if !inv.Totals.TaxAmount.Equal(d("18.69")) {
		t.Errorf("invoice tax: expected 18.69, got %s", inv.Totals.TaxAmount)
	}
	if !inv.Totals.ServiceTaxAmount.Equal(d("7.48")) {
		t.Errorf("invoice service tax: expected 7.48, got %s", inv.Totals.ServiceTaxAmount)
	}
	if inv.QuotationID == nil || *inv.QuotationID != q.ID {
		t.Errorf("invoice must back-reference quotation %d", q.ID)
	}
	if len(inv.Items) != 2 {
		t.Fatalf("expected 2 invoice items, got %d", len(inv.Items))
	}
	if !inv.Items[0].Amount.Equal(d("240.20")) {
		t.Errorf("item 1: expected 240.20, got %s", inv.Items[0].Amount)
	}
}

func TestAllocatePayment_FullPaymentSkipsPartial(t *testing.T) {
	q := testQuotation()

	alloc, err := core.AllocatePayment(q, core.PaymentInput{Amount: d("1000"), PaymentDate: "2026-03-01"}, core.AllocatedComponents{})
	if err != nil {
		t.Fatalf("AllocatePayment failed: %v", err)
	}
	if alloc.NewStatus != core.QuotationStatusFullyPaid {
		t.Errorf("expected FULLY_PAID, got %s", alloc.NewStatus)
	}
	// Single full payment: invoice components equal the parent's exactly.
	if !alloc.Invoice.Totals.Subtotal.Equal(q.Totals.Subtotal) {
		t.Errorf("expected subtotal %s, got %s", q.Totals.Subtotal, alloc.Invoice.Totals.Subtotal)
	}
	if !alloc.Invoice.Totals.TaxAmount.Equal(q.Totals.TaxAmount) {
		t.Errorf("expected tax %s, got %s", q.Totals.TaxAmount, alloc.Invoice.Totals.TaxAmount)
	}
}

func TestAllocatePayment_InvoicesSumBackToParent(t *testing.T) {
	q := testQuotation()
	var prior core.AllocatedComponents

	// Awkward amounts chosen to force rounding drift in naive scaling.
	amounts := []string{"333.33", "333.33", "333.34"}
	var invoices []core.Invoice

	for _, amt := range amounts {
		alloc, err := core.AllocatePayment(q, core.PaymentInput{Amount: d(amt), PaymentDate: "2026-03-01"}, prior)
		if err != nil {
			t.Fatalf("AllocatePayment(%s) failed: %v", amt, err)
		}
		applyAllocation(q, alloc)
		accumulate(&prior, &alloc.Invoice)
		invoices = append(invoices, alloc.Invoice)
	}

	if q.Status != core.QuotationStatusFullyPaid {
		t.Fatalf("expected FULLY_PAID after final payment, got %s", q.Status)
	}

	var sumTotal, sumSubtotal, sumTax, sumServiceTax decimal.Decimal
	for _, inv := range invoices {
		sumTotal = sumTotal.Add(inv.Totals.TotalAmount)
		sumSubtotal = sumSubtotal.Add(inv.Totals.Subtotal)
		sumTax = sumTax.Add(inv.Totals.TaxAmount)
		sumServiceTax = sumServiceTax.Add(inv.Totals.ServiceTaxAmount)
	}

	if !sumTotal.Equal(q.Totals.TotalAmount) {
		t.Errorf("invoice totals sum %s != parent total %s", sumTotal, q.Totals.TotalAmount)
	}
	if !sumSubtotal.Equal(q.Totals.Subtotal) {
		t.Errorf("invoice subtotals sum %s != parent subtotal %s", sumSubtotal, q.Totals.Subtotal)
	}
	if !sumTax.Equal(q.Totals.TaxAmount) {
		t.Errorf("invoice tax sum %s != parent tax %s", sumTax, q.Totals.TaxAmount)
	}
	if !sumServiceTax.Equal(q.Totals.ServiceTaxAmount) {
		t.Errorf("invoice service tax sum %s != parent service tax %s", sumServiceTax, q.Totals.ServiceTaxAmount)
	}
}

func TestAllocatePayment_PaymentConservation(t *testing.T) {
	q := testQuotation()
	var prior core.AllocatedComponents

	for _, amt := range []string{"250", "150", "600"} {
		alloc, err := core.AllocatePayment(q, core.PaymentInput{Amount: d(amt), PaymentDate: "2026-03-01"}, prior)
		if err != nil {
			t.Fatalf("AllocatePayment(%s) failed: %v", amt, err)
		}
		applyAllocation(q, alloc)
		accumulate(&prior, &alloc.Invoice)

		sum := decimal.Zero
		for _, p := range q.Payments {
			sum = sum.Add(p.Amount)
		}
		if !sum.Equal(q.PaidAmount) {
			t.Errorf("payments sum %s != paid amount %s", sum, q.PaidAmount)
		}
	}
}

func TestAllocatePayment_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		setup  func() *core.Quotation
		amount string
	}{
		{"zero amount", testQuotation, "0"},
		{"negative amount", testQuotation, "-10"},
		{"amount exceeds balance", testQuotation, "1000.01"},
		{
			"amount exceeds remaining balance",
			func() *core.Quotation {
				q := testQuotation()
				q.PaidAmount = d("700")
				q.Status = core.QuotationStatusPartiallyPaid
				return q
			},
			"300.01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.setup()
			before := *q

			_, err := core.AllocatePayment(q, core.PaymentInput{Amount: d(tt.amount), PaymentDate: "2026-03-01"}, core.AllocatedComponents{})
			if err == nil {
				t.Fatalf("expected error, got nil")
			}
			var verr *core.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected ValidationError, got %T: %v", err, err)
			}
			// No state change on rejection.
			if !q.PaidAmount.Equal(before.PaidAmount) || q.Status != before.Status {
				t.Errorf("quotation mutated on rejected payment")
			}
		})
	}
}

func TestAllocatePayment_FullyPaidIsTerminal(t *testing.T) {
	q := testQuotation()
	q.PaidAmount = d("1000.00")
	q.Status = core.QuotationStatusFullyPaid

	_, err := core.AllocatePayment(q, core.PaymentInput{Amount: d("1"), PaymentDate: "2026-03-01"}, core.AllocatedComponents{})
	if err == nil {
		t.Fatalf("expected error paying a fully paid quotation, got nil")
	}
	// The zero balance trips the amount check before the status guard.
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError, got %T: %v", err, err)
	}
}
