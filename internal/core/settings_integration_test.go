package core_test

import (
	"context"
	"testing"

	"invoicedesk/internal/core"
)

func TestSettingsService_Defaults(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	settings := core.NewSettingsService(pool, core.NewSettingsCache())
	ctx := context.Background()

	g, err := settings.GetGeneralSettings(ctx)
	if err != nil {
		t.Fatalf("GetGeneralSettings failed: %v", err)
	}
	if g.QuotationPrefix != "QT" || g.InvoicePrefix != "INV" || g.BOQPrefix != "BOQ" {
		t.Errorf("expected default prefixes QT/INV/BOQ, got %s/%s/%s", g.QuotationPrefix, g.InvoicePrefix, g.BOQPrefix)
	}
	if g.Currency != "INR" {
		t.Errorf("expected default currency INR, got %s", g.Currency)
	}
}

func TestSettingsService_WriteInvalidatesCache(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	settings := core.NewSettingsService(pool, core.NewSettingsCache())
	ctx := context.Background()

	// Prime the cache.
	before, err := settings.GetTaxSettings(ctx)
	if err != nil {
		t.Fatalf("GetTaxSettings failed: %v", err)
	}
	if !before.TaxPercent.Equal(d("5")) {
		t.Fatalf("expected seeded tax 5%%, got %s", before.TaxPercent)
	}

	updated := *before
	updated.TaxPercent = d("18")
	if err := settings.UpdateTaxSettings(ctx, updated); err != nil {
		t.Fatalf("UpdateTaxSettings failed: %v", err)
	}

	// The very next read must see the new rate, not the cached one.
	after, err := settings.GetTaxSettings(ctx)
	if err != nil {
		t.Fatalf("GetTaxSettings failed: %v", err)
	}
	if !after.TaxPercent.Equal(d("18")) {
		t.Errorf("stale cache: expected 18 after update, got %s", after.TaxPercent)
	}
}

func TestSettingsService_TaxSnapshotIsImmutable(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	settings := core.NewSettingsService(pool, core.NewSettingsCache())
	numbering := core.NewNumberingService()
	quotations := core.NewQuotationService(pool, settings, numbering)
	ctx := context.Background()

	q, err := quotations.CreateQuotation(ctx, 1, "2026-03-01", []core.QuotationItem{
		{Description: "Site survey", Amount: d("1000")},
	}, "")
	if err != nil {
		t.Fatalf("CreateQuotation failed: %v", err)
	}
	if !q.Totals.TaxAmount.Equal(d("50")) {
		t.Fatalf("expected 5%% tax of 50, got %s", q.Totals.TaxAmount)
	}

	tax, err := settings.GetTaxSettings(ctx)
	if err != nil {
		t.Fatalf("GetTaxSettings failed: %v", err)
	}
	changed := *tax
	changed.TaxPercent = d("18")
	if err := settings.UpdateTaxSettings(ctx, changed); err != nil {
		t.Fatalf("UpdateTaxSettings failed: %v", err)
	}

	// The stored snapshot is untouched by the settings change.
	q, err = quotations.GetQuotation(ctx, q.ID)
	if err != nil {
		t.Fatalf("GetQuotation failed: %v", err)
	}
	if !q.Totals.TaxAmount.Equal(d("50")) || !q.Totals.TaxPercent.Equal(d("5")) {
		t.Errorf("tax snapshot changed retroactively: %s at %s%%", q.Totals.TaxAmount, q.Totals.TaxPercent)
	}

	// New documents pick up the new rate.
	q2, err := quotations.CreateQuotation(ctx, 1, "2026-03-02", []core.QuotationItem{
		{Description: "Site survey", Amount: d("1000")},
	}, "")
	if err != nil {
		t.Fatalf("CreateQuotation failed: %v", err)
	}
	if !q2.Totals.TaxAmount.Equal(d("180")) {
		t.Errorf("expected new quotation at 18%% tax, got %s", q2.Totals.TaxAmount)
	}
}
