package core

// Lifecycle rules for quotations and BOQs. Services call these guards while
// holding the row lock, before any mutation, so an illegal request never
// touches the document.

// NextQuotationStatus returns the status a quotation moves to after a
// payment. Payment recording is the only legal mutation out of PERFORMA and
// PARTIALLY_PAID; nothing leaves FULLY_PAID.
func NextQuotationStatus(q *Quotation, fullyPaid bool) (QuotationStatus, error) {
	switch q.Status {
	case QuotationStatusPerforma, QuotationStatusPartiallyPaid:
		if fullyPaid {
			return QuotationStatusFullyPaid, nil
		}
		return QuotationStatusPartiallyPaid, nil
	default:
		return "", &IllegalTransitionError{Entity: "quotation", ID: q.ID, From: string(q.Status), Action: "paid against"}
	}
}

// CheckQuotationEditable rejects financial edits once any payment exists.
func CheckQuotationEditable(q *Quotation) error {
	if q.Status != QuotationStatusPerforma || q.PaidAmount.IsPositive() {
		return &IllegalTransitionError{Entity: "quotation", ID: q.ID, From: string(q.Status), Action: "edited"}
	}
	return nil
}

// CheckQuotationDeletable rejects deletion once any payment exists.
func CheckQuotationDeletable(q *Quotation) error {
	if q.Status != QuotationStatusPerforma || q.PaidAmount.IsPositive() {
		return &IllegalTransitionError{Entity: "quotation", ID: q.ID, From: string(q.Status), Action: "deleted"}
	}
	return nil
}

// CheckBOQTransition validates a requested BOQ status change:
// DRAFT → SENT → APPROVED, and DRAFT|SENT → REJECTED. APPROVED is terminal.
func CheckBOQTransition(b *BOQ, to BOQStatus) error {
	legal := false
	switch to {
	case BOQStatusSent:
		legal = b.Status == BOQStatusDraft
	case BOQStatusApproved:
		legal = b.Status == BOQStatusSent
	case BOQStatusRejected:
		legal = b.Status == BOQStatusDraft || b.Status == BOQStatusSent
	}
	if !legal {
		return &IllegalTransitionError{Entity: "boq", ID: b.ID, From: string(b.Status), Action: "moved to " + string(to)}
	}
	return nil
}

// CheckBOQEditable blocks edits to approved BOQs.
func CheckBOQEditable(b *BOQ) error {
	if b.Status == BOQStatusApproved {
		return &IllegalTransitionError{Entity: "boq", ID: b.ID, From: string(b.Status), Action: "edited"}
	}
	return nil
}

// CheckBOQDeletable blocks deletion of approved BOQs only.
func CheckBOQDeletable(b *BOQ) error {
	if b.Status == BOQStatusApproved {
		return &IllegalTransitionError{Entity: "boq", ID: b.ID, From: string(b.Status), Action: "deleted"}
	}
	return nil
}
