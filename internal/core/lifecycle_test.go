package core_test

import (
	"errors"
	"testing"

	"invoicedesk/internal/core"
)

func TestCheckBOQTransition(t *testing.T) {
	tests := []struct {
		from  core.BOQStatus
		to    core.BOQStatus
		legal bool
	}{
		{core.BOQStatusDraft, core.BOQStatusSent, true},
		{core.BOQStatusSent, core.BOQStatusApproved, true},
		{core.BOQStatusDraft, core.BOQStatusRejected, true},
		{core.BOQStatusSent, core.BOQStatusRejected, true},
		{core.BOQStatusDraft, core.BOQStatusApproved, false},
		{core.BOQStatusApproved, core.BOQStatusSent, false},
		{core.BOQStatusApproved, core.BOQStatusRejected, false},
		{core.BOQStatusRejected, core.BOQStatusSent, false},
		{core.BOQStatusRejected, core.BOQStatusApproved, false},
		{core.BOQStatusSent, core.BOQStatusSent, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			b := &core.BOQ{ID: 1, Status: tt.from}
			err := core.CheckBOQTransition(b, tt.to)
			if tt.legal && err != nil {
				t.Errorf("expected legal transition, got %v", err)
			}
			if !tt.legal {
				var terr *core.IllegalTransitionError
				if !errors.As(err, &terr) {
					t.Errorf("expected IllegalTransitionError, got %T: %v", err, err)
				}
			}
		})
	}
}

func TestBOQEditAndDeleteGuards(t *testing.T) {
	for _, status := range []core.BOQStatus{core.BOQStatusDraft, core.BOQStatusSent, core.BOQStatusRejected} {
		b := &core.BOQ{ID: 1, Status: status}
		if err := core.CheckBOQEditable(b); err != nil {
			t.Errorf("%s: expected editable, got %v", status, err)
		}
		if err := core.CheckBOQDeletable(b); err != nil {
			t.Errorf("%s: expected deletable, got %v", status, err)
		}
	}

	approved := &core.BOQ{ID: 1, Status: core.BOQStatusApproved}
	if err := core.CheckBOQEditable(approved); err == nil {
		t.Errorf("expected approved BOQ to be edit-locked")
	}
	if err := core.CheckBOQDeletable(approved); err == nil {
		t.Errorf("expected approved BOQ to be delete-locked")
	}
}

func TestQuotationGuards(t *testing.T) {
	fresh := testQuotation()
	if err := core.CheckQuotationEditable(fresh); err != nil {
		t.Errorf("expected fresh quotation editable, got %v", err)
	}
	if err := core.CheckQuotationDeletable(fresh); err != nil {
		t.Errorf("expected fresh quotation deletable, got %v", err)
	}

	partiallyPaid := testQuotation()
	partiallyPaid.PaidAmount = d("400")
	partiallyPaid.Status = core.QuotationStatusPartiallyPaid
	if err := core.CheckQuotationEditable(partiallyPaid); err == nil {
		t.Errorf("expected partially paid quotation edit-locked")
	}
	if err := core.CheckQuotationDeletable(partiallyPaid); err == nil {
		t.Errorf("expected partially paid quotation delete-locked")
	}

	fullyPaid := testQuotation()
	fullyPaid.PaidAmount = d("1000.00")
	fullyPaid.Status = core.QuotationStatusFullyPaid
	if err := core.CheckQuotationDeletable(fullyPaid); err == nil {
		t.Errorf("expected fully paid quotation delete-locked")
	}

	if _, err := core.NextQuotationStatus(fullyPaid, true); err == nil {
		t.Errorf("expected no transition out of FULLY_PAID")
	}
}
