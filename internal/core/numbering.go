package core

import (
	"context"
	"fmt"
	"time"
)

// FormatDocumentNumber renders a document identifier as
// "{prefix}-{year}-{seq zero-padded to 4 digits}", e.g. "QT-2024-0008".
func FormatDocumentNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq)
}

// NumberingService hands out unique, monotonically increasing document
// numbers per document class and calendar year.
type NumberingService interface {
	// NextNumberTx reserves the next sequence value inside the caller's
	// transaction, so the number allocation commits or rolls back together
	// with the document it identifies.
	NextNumberTx(ctx context.Context, tx pgxQuerier, docClass, prefix string) (string, error)
}

type numberingService struct {
	now func() time.Time
}

// NewNumberingService constructs a NumberingService backed by the
// document_sequences table.
func NewNumberingService() NumberingService {
	return &numberingService{now: time.Now}
}

// NextNumberTx bumps the per-(class, year) counter atomically. The upsert
// runs under the caller's transaction: two concurrent creations serialize on
// the sequence row and can never observe the same value, unlike counting
// existing documents.
func (s *numberingService) NextNumberTx(ctx context.Context, tx pgxQuerier, docClass, prefix string) (string, error) {
	year := s.now().Year()

	var lastNumber int64
	err := tx.QueryRow(ctx, `
		INSERT INTO document_sequences (doc_class, year, last_number)
		VALUES ($1, $2, 1)
		ON CONFLICT (doc_class, year)
		DO UPDATE SET last_number = document_sequences.last_number + 1
		RETURNING last_number
	`, docClass, year).Scan(&lastNumber)
	if err != nil {
		return "", fmt.Errorf("failed to advance %s sequence for %d: %w", docClass, year, err)
	}

	return FormatDocumentNumber(prefix, year, lastNumber), nil
}
