package core_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"invoicedesk/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE invoice_items, invoices, payments, quotation_items, quotations,
			boq_items, boqs, bank_accounts, clients, document_sequences,
			organization_settings, tax_settings, general_settings CASCADE;

		INSERT INTO clients (id, name, email, phone, address, gstin) VALUES
		(1, 'Meera Interiors Pvt Ltd', 'accounts@meera.in', '+91-9800000001', 'Bengaluru', '29ABCDE1234F1Z5'),
		(2, 'Lakeview Residences',     'owner@lakeview.in', '+91-9800000002', 'Mysuru',    '');
		SELECT setval(pg_get_serial_sequence('clients', 'id'), 2, true);

		INSERT INTO tax_settings (id, tax_label, tax_percent, tax_id, service_tax_label, service_tax_percent, service_tax_enabled)
		VALUES (1, 'GST', 5, 'GSTIN-TEST', 'Service Tax', 2, true);
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}

func newTestServices(pool *pgxpool.Pool) (core.QuotationService, core.InvoiceService, core.SettingsService) {
	settings := core.NewSettingsService(pool, core.NewSettingsCache())
	numbering := core.NewNumberingService()
	return core.NewQuotationService(pool, settings, numbering),
		core.NewInvoiceService(pool, settings, numbering),
		settings
}

func TestQuotationService_PaymentCycle(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	quotations, invoiceSvc, _ := newTestServices(pool)
	ctx := context.Background()

	// Subtotal 934.58 + 5% GST + 2% service tax = 1000.00
	q, err := quotations.CreateQuotation(ctx, 1, "2026-03-01", []core.QuotationItem{
		{Description: "Modular kitchen", Amount: d("600.50")},
		{Description: "False ceiling", Amount: d("334.08")},
	}, "Phase 1 works")
	if err != nil {
		t.Fatalf("CreateQuotation failed: %v", err)
	}
	if q.Status != core.QuotationStatusPerforma {
		t.Errorf("expected PERFORMA, got %s", q.Status)
	}
	if !q.Totals.TotalAmount.Equal(d("1000.00")) {
		t.Errorf("expected total 1000.00, got %s", q.Totals.TotalAmount)
	}
	if q.QuotationNumber == "" {
		t.Errorf("expected a quotation number to be assigned")
	}

	// Partial payment of 400 generates a 0.4-scaled invoice.
	q, inv, err := quotations.RecordPayment(ctx, q.ID, core.PaymentInput{
		Amount: d("400"), PaymentMethod: "UPI", PaymentDate: "2026-03-05",
	})
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if q.Status != core.QuotationStatusPartiallyPaid {
		t.Errorf("expected PARTIALLY_PAID, got %s", q.Status)
	}
	if !q.PaidAmount.Equal(d("400")) {
		t.Errorf("expected paid 400, got %s", q.PaidAmount)
	}
	if !inv.Totals.TotalAmount.Equal(d("400")) || !inv.PaidAmount.Equal(d("400")) {
		t.Errorf("invoice must equal money received, got total %s paid %s", inv.Totals.TotalAmount, inv.PaidAmount)
	}
	if !inv.Totals.Subtotal.Equal(d("373.83")) {
		t.Errorf("expected invoice subtotal 373.83, got %s", inv.Totals.Subtotal)
	}

	// Editing a quotation with payments must be rejected.
	if _, err := quotations.UpdateQuotation(ctx, q.ID, q.Items, "edited"); err == nil {
		t.Errorf("expected edit of paid quotation to fail")
	} else {
		var terr *core.IllegalTransitionError
		if !errors.As(err, &terr) {
			t.Errorf("expected IllegalTransitionError, got %T: %v", err, err)
		}
	}
	if err := quotations.DeleteQuotation(ctx, q.ID); err == nil {
		t.Errorf("expected delete of paid quotation to fail")
	}

	// Overpayment must be rejected with no state change.
	if _, _, err := quotations.RecordPayment(ctx, q.ID, core.PaymentInput{Amount: d("600.01")}); err == nil {
		t.Fatalf("expected overpayment to fail")
	}
	q, err = quotations.GetQuotation(ctx, q.ID)
	if err != nil {
		t.Fatalf("GetQuotation failed: %v", err)
	}
	if !q.PaidAmount.Equal(d("400")) || len(q.Payments) != 1 {
		t.Errorf("rejected payment must not change state: paid %s, %d payments", q.PaidAmount, len(q.Payments))
	}

	// Fully-pay shortcut with no amount pays the remaining 600.
	q, inv2, err := quotations.FullyPay(ctx, q.ID, core.PaymentInput{PaymentMethod: "Bank Transfer"})
	if err != nil {
		t.Fatalf("FullyPay failed: %v", err)
	}
	if q.Status != core.QuotationStatusFullyPaid {
		t.Errorf("expected FULLY_PAID, got %s", q.Status)
	}
	if !inv2.Totals.TotalAmount.Equal(d("600")) {
		t.Errorf("expected final invoice of 600, got %s", inv2.Totals.TotalAmount)
	}
	if len(q.Payments) != 2 {
		t.Errorf("shortfall must be recorded as one payment entry, got %d", len(q.Payments))
	}

	// All generated invoices reconcile exactly with the parent.
	invoices, err := invoiceSvc.GetInvoicesForQuotation(ctx, q.ID)
	if err != nil {
		t.Fatalf("GetInvoicesForQuotation failed: %v", err)
	}
	if len(invoices) != 2 {
		t.Fatalf("expected 2 invoices, got %d", len(invoices))
	}
	var sumTotal, sumSubtotal, sumTax, sumServiceTax decimal.Decimal
	for _, i := range invoices {
		sumTotal = sumTotal.Add(i.Totals.TotalAmount)
		sumSubtotal = sumSubtotal.Add(i.Totals.Subtotal)
		sumTax = sumTax.Add(i.Totals.TaxAmount)
		sumServiceTax = sumServiceTax.Add(i.Totals.ServiceTaxAmount)
	}
	if !sumTotal.Equal(q.Totals.TotalAmount) {
		t.Errorf("invoice totals %s != quotation total %s", sumTotal, q.Totals.TotalAmount)
	}
	if !sumSubtotal.Equal(q.Totals.Subtotal) || !sumTax.Equal(q.Totals.TaxAmount) || !sumServiceTax.Equal(q.Totals.ServiceTaxAmount) {
		t.Errorf("invoice components do not reconcile: subtotal %s tax %s service %s", sumSubtotal, sumTax, sumServiceTax)
	}

	// Nothing leaves FULLY_PAID.
	if _, _, err := quotations.RecordPayment(ctx, q.ID, core.PaymentInput{Amount: d("1")}); err == nil {
		t.Errorf("expected payment on fully paid quotation to fail")
	}
}

func TestQuotationService_SequentialNumbering(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	quotations, _, _ := newTestServices(pool)
	ctx := context.Background()

	items := []core.QuotationItem{{Description: "Site survey", Amount: d("2500")}}

	first, err := quotations.CreateQuotation(ctx, 1, "2026-03-01", items, "")
	if err != nil {
		t.Fatalf("CreateQuotation failed: %v", err)
	}
	second, err := quotations.CreateQuotation(ctx, 2, "2026-03-02", items, "")
	if err != nil {
		t.Fatalf("CreateQuotation failed: %v", err)
	}

	if first.QuotationNumber == second.QuotationNumber {
		t.Errorf("numbers must be unique, both got %s", first.QuotationNumber)
	}

	// Deleting a quotation must not free its number for reuse.
	if err := quotations.DeleteQuotation(ctx, second.ID); err != nil {
		t.Fatalf("DeleteQuotation failed: %v", err)
	}
	third, err := quotations.CreateQuotation(ctx, 1, "2026-03-03", items, "")
	if err != nil {
		t.Fatalf("CreateQuotation failed: %v", err)
	}
	if third.QuotationNumber == second.QuotationNumber {
		t.Errorf("number %s reused after deletion", second.QuotationNumber)
	}
}

func TestInvoiceService_Standalone(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	_, invoiceSvc, _ := newTestServices(pool)
	ctx := context.Background()

	inv, err := invoiceSvc.CreateStandaloneInvoice(ctx, 1, "2026-03-10", []core.InvoiceItem{
		{Description: "Consultation visit", Amount: d("3000")},
	}, "Cash", "walk-in billing")
	if err != nil {
		t.Fatalf("CreateStandaloneInvoice failed: %v", err)
	}
	if inv.QuotationID != nil {
		t.Errorf("standalone invoice must have no parent quotation")
	}
	if !inv.PaidAmount.Equal(inv.Totals.TotalAmount) {
		t.Errorf("invoice paid %s must equal total %s", inv.PaidAmount, inv.Totals.TotalAmount)
	}
	// 3000 + 5% + 2% = 3210.00
	if !inv.Totals.TotalAmount.Equal(d("3210.00")) {
		t.Errorf("expected total 3210.00, got %s", inv.Totals.TotalAmount)
	}
}
