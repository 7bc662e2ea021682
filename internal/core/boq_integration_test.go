package core_test

import (
	"context"
	"errors"
	"testing"

	"invoicedesk/internal/core"
)

func newBOQService(t *testing.T) (core.BOQService, context.Context, func()) {
	t.Helper()
	pool := setupTestDB(t)
	settings := core.NewSettingsService(pool, core.NewSettingsCache())
	svc := core.NewBOQService(pool, settings, core.NewNumberingService())
	return svc, context.Background(), pool.Close
}

func TestBOQService_Lifecycle(t *testing.T) {
	svc, ctx, closePool := newBOQService(t)
	defer closePool()

	b, err := svc.CreateBOQ(ctx, 1, "2026-03-01", []core.BOQItem{
		{Category: "Carpentry", Area: "Master Bedroom", Description: "Wardrobe", UnitPrice: d("100"), Quantity: d("2"), DiscountPercent: d("10")},
		{Category: "Carpentry", Area: "Living Room", Description: "Shelf", UnitPrice: d("50"), Quantity: d("1")},
	}, "")
	if err != nil {
		t.Fatalf("CreateBOQ failed: %v", err)
	}
	if b.Status != core.BOQStatusDraft {
		t.Errorf("expected DRAFT, got %s", b.Status)
	}
	if !b.Totals.Subtotal.Equal(d("250")) || !b.Totals.TotalDiscount.Equal(d("20")) {
		t.Errorf("expected subtotal 250 discount 20, got %s / %s", b.Totals.Subtotal, b.Totals.TotalDiscount)
	}
	// 230 net + 5% + 2% = 246.10
	if !b.Totals.TotalAmount.Equal(d("246.10")) {
		t.Errorf("expected total 246.10, got %s", b.Totals.TotalAmount)
	}

	// DRAFT cannot be approved directly.
	if _, err := svc.ApproveBOQ(ctx, b.ID); err == nil {
		t.Errorf("expected DRAFT -> APPROVED to fail")
	}

	if b, err = svc.SendBOQ(ctx, b.ID); err != nil {
		t.Fatalf("SendBOQ failed: %v", err)
	}
	if b.Status != core.BOQStatusSent {
		t.Errorf("expected SENT, got %s", b.Status)
	}

	if b, err = svc.ApproveBOQ(ctx, b.ID); err != nil {
		t.Fatalf("ApproveBOQ failed: %v", err)
	}
	if b.Status != core.BOQStatusApproved {
		t.Errorf("expected APPROVED, got %s", b.Status)
	}

	// APPROVED is terminal: no edits, no deletion, no further transitions.
	if _, err := svc.UpdateBOQ(ctx, b.ID, b.Items, "edited"); err == nil {
		t.Errorf("expected edit of approved BOQ to fail")
	}
	if err := svc.DeleteBOQ(ctx, b.ID); err == nil {
		t.Errorf("expected delete of approved BOQ to fail")
	} else {
		var terr *core.IllegalTransitionError
		if !errors.As(err, &terr) {
			t.Errorf("expected IllegalTransitionError, got %T: %v", err, err)
		}
	}
	if _, err := svc.RejectBOQ(ctx, b.ID); err == nil {
		t.Errorf("expected APPROVED -> REJECTED to fail")
	}
}

func TestBOQService_RejectedBOQRemainsDeletable(t *testing.T) {
	svc, ctx, closePool := newBOQService(t)
	defer closePool()

	b, err := svc.CreateBOQ(ctx, 2, "2026-03-01", []core.BOQItem{
		{Category: "Painting", Area: "Hall", Description: "Emulsion", UnitPrice: d("80"), Quantity: d("10")},
	}, "")
	if err != nil {
		t.Fatalf("CreateBOQ failed: %v", err)
	}

	if b, err = svc.RejectBOQ(ctx, b.ID); err != nil {
		t.Fatalf("RejectBOQ failed: %v", err)
	}
	if b.Status != core.BOQStatusRejected {
		t.Errorf("expected REJECTED, got %s", b.Status)
	}

	if err := svc.DeleteBOQ(ctx, b.ID); err != nil {
		t.Errorf("rejected BOQ should be deletable, got %v", err)
	}
}
