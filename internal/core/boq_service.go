package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BOQService manages Bills of Quantities: categorized, area-tagged cost
// estimates with per-line discounts and a DRAFT → SENT → APPROVED/REJECTED
// lifecycle independent of quotations.
type BOQService interface {
	CreateBOQ(ctx context.Context, clientID int, date string, items []BOQItem, notes string) (*BOQ, error)
	GetBOQ(ctx context.Context, id int) (*BOQ, error)
	GetBOQs(ctx context.Context, status *BOQStatus) ([]BOQ, error)
	// UpdateBOQ replaces items and notes. Blocked once the BOQ is APPROVED.
	UpdateBOQ(ctx context.Context, id int, items []BOQItem, notes string) (*BOQ, error)
	// DeleteBOQ removes a BOQ. Blocked only in APPROVED.
	DeleteBOQ(ctx context.Context, id int) error

	// SendBOQ transitions DRAFT → SENT.
	SendBOQ(ctx context.Context, id int) (*BOQ, error)
	// ApproveBOQ transitions SENT → APPROVED. APPROVED is terminal.
	ApproveBOQ(ctx context.Context, id int) (*BOQ, error)
	// RejectBOQ transitions DRAFT|SENT → REJECTED.
	RejectBOQ(ctx context.Context, id int) (*BOQ, error)
}

type boqService struct {
	pool      *pgxpool.Pool
	settings  SettingsService
	numbering NumberingService
}

// NewBOQService constructs a BOQService backed by PostgreSQL.
func NewBOQService(pool *pgxpool.Pool, settings SettingsService, numbering NumberingService) BOQService {
	return &boqService{pool: pool, settings: settings, numbering: numbering}
}

// boqTotals computes the discounted subtotal from items and runs the tax
// calculator on it, snapshotting the current tax settings.
func (s *boqService) boqTotals(ctx context.Context, items []BOQItem) (FinancialTotals, error) {
	subtotal, totalDiscount, err := BOQItemTotals(items)
	if err != nil {
		return FinancialTotals{}, err
	}

	taxSettings, err := s.settings.GetTaxSettings(ctx)
	if err != nil {
		return FinancialTotals{}, err
	}
	totals, err := ComputeTotals(subtotal.Sub(totalDiscount), taxSettings.TaxConfig())
	if err != nil {
		return FinancialTotals{}, err
	}

	// The snapshot keeps the pre-discount subtotal so the document shows
	// gross, discount, and net consistently.
	totals.Subtotal = subtotal
	totals.TotalDiscount = totalDiscount
	return totals, nil
}

func (s *boqService) CreateBOQ(ctx context.Context, clientID int, date string, items []BOQItem, notes string) (*BOQ, error) {
	if len(items) == 0 {
		return nil, newValidationError("items", "boq must have at least one line item")
	}
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, newValidationError("date", "invalid date format: %v", err)
	}

	totals, err := s.boqTotals(ctx, items)
	if err != nil {
		return nil, err
	}

	general, err := s.settings.GetGeneralSettings(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := checkClientExists(ctx, tx, clientID); err != nil {
		return nil, err
	}

	number, err := s.numbering.NextNumberTx(ctx, tx, DocClassBOQ, general.BOQPrefix)
	if err != nil {
		return nil, err
	}

	var boqID int
	err = tx.QueryRow(ctx, `
		INSERT INTO boqs (boq_number, client_id, date, status, currency,
			subtotal, total_discount, tax_label, tax_percent, tax_amount,
			service_tax_label, service_tax_percent, service_tax_amount, total_amount, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`, number, clientID, date, string(BOQStatusDraft), general.Currency,
		totals.Subtotal, totals.TotalDiscount, totals.TaxLabel, totals.TaxPercent, totals.TaxAmount,
		totals.ServiceTaxLabel, totals.ServiceTaxPercent, totals.ServiceTaxAmount, totals.TotalAmount,
		notes).Scan(&boqID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert boq: %w", err)
	}

	if err := insertBOQItems(ctx, tx, boqID, items); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit boq creation: %w", err)
	}

	return s.GetBOQ(ctx, boqID)
}

func (s *boqService) GetBOQ(ctx context.Context, id int) (*BOQ, error) {
	b, err := fetchBOQ(ctx, s.pool, id, false)
	if err != nil {
		return nil, err
	}
	b.Items, err = fetchBOQItems(ctx, s.pool, id)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *boqService) GetBOQs(ctx context.Context, status *BOQStatus) ([]BOQ, error) {
	query := boqSelect
	args := []any{}
	if status != nil {
		query += " WHERE b.status = $1"
		args = append(args, string(*status))
	}
	query += " ORDER BY b.id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query boqs: %w", err)
	}
	defer rows.Close()

	var boqs []BOQ
	for rows.Next() {
		var b BOQ
		if err := scanBOQ(rows, &b); err != nil {
			return nil, err
		}
		boqs = append(boqs, b)
	}
	return boqs, nil
}

func (s *boqService) UpdateBOQ(ctx context.Context, id int, items []BOQItem, notes string) (*BOQ, error) {
	if len(items) == 0 {
		return nil, newValidationError("items", "boq must have at least one line item")
	}

	totals, err := s.boqTotals(ctx, items)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	b, err := fetchBOQ(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}
	if err := CheckBOQEditable(b); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE boqs
		SET subtotal = $1, total_discount = $2, tax_label = $3, tax_percent = $4, tax_amount = $5,
		    service_tax_label = $6, service_tax_percent = $7, service_tax_amount = $8,
		    total_amount = $9, notes = $10, updated_at = NOW()
		WHERE id = $11
	`, totals.Subtotal, totals.TotalDiscount, totals.TaxLabel, totals.TaxPercent, totals.TaxAmount,
		totals.ServiceTaxLabel, totals.ServiceTaxPercent, totals.ServiceTaxAmount,
		totals.TotalAmount, notes, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update boq %d: %w", id, err)
	}

	if _, err = tx.Exec(ctx, "DELETE FROM boq_items WHERE boq_id = $1", id); err != nil {
		return nil, fmt.Errorf("failed to replace boq items: %w", err)
	}
	if err := insertBOQItems(ctx, tx, id, items); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit boq update: %w", err)
	}
	return s.GetBOQ(ctx, id)
}

func (s *boqService) DeleteBOQ(ctx context.Context, id int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	b, err := fetchBOQ(ctx, tx, id, true)
	if err != nil {
		return err
	}
	if err := CheckBOQDeletable(b); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, "DELETE FROM boqs WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete boq %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit boq deletion: %w", err)
	}
	return nil
}

func (s *boqService) SendBOQ(ctx context.Context, id int) (*BOQ, error) {
	return s.transition(ctx, id, BOQStatusSent)
}

func (s *boqService) ApproveBOQ(ctx context.Context, id int) (*BOQ, error) {
	return s.transition(ctx, id, BOQStatusApproved)
}

func (s *boqService) RejectBOQ(ctx context.Context, id int) (*BOQ, error) {
	return s.transition(ctx, id, BOQStatusRejected)
}

// transition locks the BOQ row, validates the requested status change, and
// applies it. An illegal transition leaves the row untouched.
func (s *boqService) transition(ctx context.Context, id int, to BOQStatus) (*BOQ, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	b, err := fetchBOQ(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}
	if err := CheckBOQTransition(b, to); err != nil {
		return nil, err
	}

	if _, err = tx.Exec(ctx,
		"UPDATE boqs SET status = $1, updated_at = NOW() WHERE id = $2",
		string(to), id,
	); err != nil {
		return nil, fmt.Errorf("failed to move boq %d to %s: %w", id, to, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit boq transition: %w", err)
	}
	return s.GetBOQ(ctx, id)
}

// ── Query helpers ────────────────────────────────────────────────────────────

const boqSelect = `
	SELECT b.id, b.boq_number, b.client_id, c.name, b.date::text, b.status, b.currency,
	       b.subtotal, b.total_discount, b.tax_label, b.tax_percent, b.tax_amount,
	       b.service_tax_label, b.service_tax_percent, b.service_tax_amount, b.total_amount,
	       b.notes, b.created_at, b.updated_at
	FROM boqs b
	JOIN clients c ON c.id = b.client_id
`

func scanBOQ(row quotationScanner, b *BOQ) error {
	err := row.Scan(
		&b.ID, &b.BOQNumber, &b.ClientID, &b.ClientName, &b.Date, &b.Status, &b.Currency,
		&b.Totals.Subtotal, &b.Totals.TotalDiscount, &b.Totals.TaxLabel, &b.Totals.TaxPercent, &b.Totals.TaxAmount,
		&b.Totals.ServiceTaxLabel, &b.Totals.ServiceTaxPercent, &b.Totals.ServiceTaxAmount, &b.Totals.TotalAmount,
		&b.Notes, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to scan boq: %w", err)
	}
	return nil
}

func fetchBOQ(ctx context.Context, db pgxQuerier, id int, forUpdate bool) (*BOQ, error) {
	query := boqSelect + " WHERE b.id = $1"
	if forUpdate {
		query += " FOR UPDATE OF b"
	}

	var b BOQ
	err := scanBOQ(db.QueryRow(ctx, query, id), &b)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("boq", id)
		}
		return nil, err
	}
	return &b, nil
}

func fetchBOQItems(ctx context.Context, db pgxRowQuerier, boqID int) ([]BOQItem, error) {
	rows, err := db.Query(ctx, `
		SELECT id, boq_id, line_number, category, area, description,
		       unit_price, quantity, discount_percent, line_total
		FROM boq_items
		WHERE boq_id = $1
		ORDER BY line_number
	`, boqID)
	if err != nil {
		return nil, fmt.Errorf("failed to query boq items: %w", err)
	}
	defer rows.Close()

	var items []BOQItem
	for rows.Next() {
		var it BOQItem
		if err := rows.Scan(&it.ID, &it.BOQID, &it.LineNumber, &it.Category, &it.Area, &it.Description,
			&it.UnitPrice, &it.Quantity, &it.DiscountPercent, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan boq item: %w", err)
		}
		items = append(items, it)
	}
	return items, nil
}

func insertBOQItems(ctx context.Context, tx pgx.Tx, boqID int, items []BOQItem) error {
	for i, item := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO boq_items (boq_id, line_number, category, area, description,
				unit_price, quantity, discount_percent, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, boqID, i+1, item.Category, item.Area, item.Description,
			item.UnitPrice, item.Quantity, item.DiscountPercent, item.LineTotal)
		if err != nil {
			return fmt.Errorf("failed to insert boq item %d: %w", i+1, err)
		}
	}
	return nil
}
