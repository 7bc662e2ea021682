package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuotationService manages the Performa quotation lifecycle: creation with a
// totals snapshot, lifecycle-guarded edits, and payment recording with
// proportional invoice generation.
type QuotationService interface {
	CreateQuotation(ctx context.Context, clientID int, date string, items []QuotationItem, notes string) (*Quotation, error)
	GetQuotation(ctx context.Context, id int) (*Quotation, error)
	GetQuotations(ctx context.Context, status *QuotationStatus) ([]Quotation, error)
	// UpdateQuotation replaces line items and notes. Legal only while the
	// quotation is in PERFORMA with no payments recorded.
	UpdateQuotation(ctx context.Context, id int, items []QuotationItem, notes string) (*Quotation, error)
	// DeleteQuotation removes a quotation. Legal only in PERFORMA with no
	// payments recorded.
	DeleteQuotation(ctx context.Context, id int) error

	// RecordPayment applies a payment to the quotation and generates exactly
	// one invoice for the amount received, atomically.
	RecordPayment(ctx context.Context, id int, in PaymentInput) (*Quotation, *Invoice, error)
	// FullyPay is the pay-the-remaining-balance shortcut: a zero amount is
	// replaced with the outstanding balance, then the payment proceeds
	// through the same path as RecordPayment.
	FullyPay(ctx context.Context, id int, in PaymentInput) (*Quotation, *Invoice, error)

	ListPayments(ctx context.Context, id int) ([]Payment, error)
}

type quotationService struct {
	pool      *pgxpool.Pool
	settings  SettingsService
	numbering NumberingService
}

// NewQuotationService constructs a QuotationService backed by PostgreSQL.
func NewQuotationService(pool *pgxpool.Pool, settings SettingsService, numbering NumberingService) QuotationService {
	return &quotationService{pool: pool, settings: settings, numbering: numbering}
}

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, enabling shared query helpers.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgxRowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx (for Query).
type pgxRowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (s *quotationService) CreateQuotation(ctx context.Context, clientID int, date string, items []QuotationItem, notes string) (*Quotation, error) {
	if len(items) == 0 {
		return nil, newValidationError("items", "quotation must have at least one line item")
	}
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, newValidationError("date", "invalid date format: %v", err)
	}

	subtotal, err := QuotationItemTotals(items)
	if err != nil {
		return nil, err
	}

	// Snapshot the tax configuration at creation time. Later changes to the
	// tax settings never touch this quotation.
	taxSettings, err := s.settings.GetTaxSettings(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := ComputeTotals(subtotal, taxSettings.TaxConfig())
	if err != nil {
		return nil, err
	}

	general, err := s.settings.GetGeneralSettings(ctx)
	if err != nil {
		return nil, err
	}

	docDate, _ := time.Parse("2006-01-02", date)
	validUntil := docDate.AddDate(0, 0, general.QuotationValidDays).Format("2006-01-02")

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := checkClientExists(ctx, tx, clientID); err != nil {
		return nil, err
	}

	number, err := s.numbering.NextNumberTx(ctx, tx, DocClassQuotation, general.QuotationPrefix)
	if err != nil {
		return nil, err
	}

	var quotationID int
	err = tx.QueryRow(ctx, `
		INSERT INTO quotations (quotation_number, client_id, date, valid_until, status, currency,
			subtotal, total_discount, tax_label, tax_percent, tax_amount,
			service_tax_label, service_tax_percent, service_tax_amount, total_amount,
			paid_amount, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9, $10, $11, $12, $13, $14, 0, $15)
		RETURNING id
	`, number, clientID, date, validUntil, string(QuotationStatusPerforma), general.Currency,
		totals.Subtotal, totals.TaxLabel, totals.TaxPercent, totals.TaxAmount,
		totals.ServiceTaxLabel, totals.ServiceTaxPercent, totals.ServiceTaxAmount, totals.TotalAmount,
		notes).Scan(&quotationID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert quotation: %w", err)
	}

	if err := insertQuotationItems(ctx, tx, quotationID, items); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit quotation creation: %w", err)
	}

	return s.GetQuotation(ctx, quotationID)
}

func (s *quotationService) GetQuotation(ctx context.Context, id int) (*Quotation, error) {
	q, err := fetchQuotation(ctx, s.pool, id, false)
	if err != nil {
		return nil, err
	}

	q.Items, err = fetchQuotationItems(ctx, s.pool, id)
	if err != nil {
		return nil, err
	}
	q.Payments, err = fetchPayments(ctx, s.pool, id)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (s *quotationService) GetQuotations(ctx context.Context, status *QuotationStatus) ([]Quotation, error) {
	query := `
		SELECT q.id, q.quotation_number, q.client_id, c.name, q.date::text, q.valid_until::text,
		       q.status, q.currency,
		       q.subtotal, q.total_discount, q.tax_label, q.tax_percent, q.tax_amount,
		       q.service_tax_label, q.service_tax_percent, q.service_tax_amount, q.total_amount,
		       q.paid_amount, q.notes, q.created_at, q.updated_at
		FROM quotations q
		JOIN clients c ON c.id = q.client_id
	`
	args := []any{}
	if status != nil {
		query += " WHERE q.status = $1"
		args = append(args, string(*status))
	}
	query += " ORDER BY q.id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotations: %w", err)
	}
	defer rows.Close()

	var quotations []Quotation
	for rows.Next() {
		var q Quotation
		if err := scanQuotation(rows, &q); err != nil {
			return nil, err
		}
		quotations = append(quotations, q)
	}
	return quotations, nil
}

func (s *quotationService) UpdateQuotation(ctx context.Context, id int, items []QuotationItem, notes string) (*Quotation, error) {
	if len(items) == 0 {
		return nil, newValidationError("items", "quotation must have at least one line item")
	}

	subtotal, err := QuotationItemTotals(items)
	if err != nil {
		return nil, err
	}
	taxSettings, err := s.settings.GetTaxSettings(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := ComputeTotals(subtotal, taxSettings.TaxConfig())
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	q, err := fetchQuotation(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}
	if err := CheckQuotationEditable(q); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE quotations
		SET subtotal = $1, tax_label = $2, tax_percent = $3, tax_amount = $4,
		    service_tax_label = $5, service_tax_percent = $6, service_tax_amount = $7,
		    total_amount = $8, notes = $9, updated_at = NOW()
		WHERE id = $10
	`, totals.Subtotal, totals.TaxLabel, totals.TaxPercent, totals.TaxAmount,
		totals.ServiceTaxLabel, totals.ServiceTaxPercent, totals.ServiceTaxAmount,
		totals.TotalAmount, notes, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update quotation %d: %w", id, err)
	}

	if _, err = tx.Exec(ctx, "DELETE FROM quotation_items WHERE quotation_id = $1", id); err != nil {
		return nil, fmt.Errorf("failed to replace quotation items: %w", err)
	}
	if err := insertQuotationItems(ctx, tx, id, items); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit quotation update: %w", err)
	}
	return s.GetQuotation(ctx, id)
}

func (s *quotationService) DeleteQuotation(ctx context.Context, id int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	q, err := fetchQuotation(ctx, tx, id, true)
	if err != nil {
		return err
	}
	if err := CheckQuotationDeletable(q); err != nil {
		return err
	}

	// Items and payments cascade via FK; generated invoices are independent
	// artifacts, but a deletable quotation has none (no payments recorded).
	if _, err := tx.Exec(ctx, "DELETE FROM quotations WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete quotation %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit quotation deletion: %w", err)
	}
	return nil
}

// RecordPayment executes as a single transaction: lock the quotation,
// validate the amount against the outstanding balance, append the payment,
// update paid amount and status, and persist the generated invoice. Two
// concurrent payments serialize on the row lock, so both can never pass the
// balance check and jointly overpay.
func (s *quotationService) RecordPayment(ctx context.Context, id int, in PaymentInput) (*Quotation, *Invoice, error) {
	in.Normalize()

	general, err := s.settings.GetGeneralSettings(ctx)
	if err != nil {
		return nil, nil, err
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = general.DefaultPaymentMethod
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	q, err := fetchQuotation(ctx, tx, id, true)
	if err != nil {
		return nil, nil, err
	}
	q.Items, err = fetchQuotationItems(ctx, tx, id)
	if err != nil {
		return nil, nil, err
	}

	prior, err := fetchAllocatedComponents(ctx, tx, id)
	if err != nil {
		return nil, nil, err
	}

	alloc, err := AllocatePayment(q, in, prior)
	if err != nil {
		return nil, nil, err
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO payments (quotation_id, amount, payment_method, payment_date, notes)
		VALUES ($1, $2, $3, $4, $5)
	`, id, alloc.Payment.Amount, alloc.Payment.PaymentMethod, alloc.Payment.PaymentDate, alloc.Payment.Notes); err != nil {
		return nil, nil, fmt.Errorf("failed to insert payment: %w", err)
	}

	if _, err = tx.Exec(ctx, `
		UPDATE quotations
		SET paid_amount = $1, status = $2, updated_at = NOW()
		WHERE id = $3
	`, alloc.NewPaidAmount, string(alloc.NewStatus), id); err != nil {
		return nil, nil, fmt.Errorf("failed to update quotation %d: %w", id, err)
	}

	invoiceNumber, err := s.numbering.NextNumberTx(ctx, tx, DocClassInvoice, general.InvoicePrefix)
	if err != nil {
		return nil, nil, err
	}
	alloc.Invoice.InvoiceNumber = invoiceNumber

	invoiceID, err := insertInvoice(ctx, tx, &alloc.Invoice)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit payment recording: %w", err)
	}

	updated, err := s.GetQuotation(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	invoice, err := fetchInvoice(ctx, s.pool, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	return updated, invoice, nil
}

func (s *quotationService) FullyPay(ctx context.Context, id int, in PaymentInput) (*Quotation, *Invoice, error) {
	if in.Amount.IsZero() {
		q, err := fetchQuotation(ctx, s.pool, id, false)
		if err != nil {
			return nil, nil, err
		}
		// Recorded as one Payment entry for the shortfall; RecordPayment
		// re-validates under the row lock.
		in.Amount = q.OutstandingBalance()
	}
	return s.RecordPayment(ctx, id, in)
}

func (s *quotationService) ListPayments(ctx context.Context, id int) ([]Payment, error) {
	if _, err := fetchQuotation(ctx, s.pool, id, false); err != nil {
		return nil, err
	}
	return fetchPayments(ctx, s.pool, id)
}

// ── Query helpers ────────────────────────────────────────────────────────────

// quotationScanner abstracts pgx.Row and pgx.Rows for scanQuotation.
type quotationScanner interface {
	Scan(dest ...any) error
}

func scanQuotation(row quotationScanner, q *Quotation) error {
	err := row.Scan(
		&q.ID, &q.QuotationNumber, &q.ClientID, &q.ClientName, &q.Date, &q.ValidUntil,
		&q.Status, &q.Currency,
		&q.Totals.Subtotal, &q.Totals.TotalDiscount, &q.Totals.TaxLabel, &q.Totals.TaxPercent, &q.Totals.TaxAmount,
		&q.Totals.ServiceTaxLabel, &q.Totals.ServiceTaxPercent, &q.Totals.ServiceTaxAmount, &q.Totals.TotalAmount,
		&q.PaidAmount, &q.Notes, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to scan quotation: %w", err)
	}
	return nil
}

func fetchQuotation(ctx context.Context, db pgxQuerier, id int, forUpdate bool) (*Quotation, error) {
	query := `
		SELECT q.id, q.quotation_number, q.client_id, c.name, q.date::text, q.valid_until::text,
		       q.status, q.currency,
		       q.subtotal, q.total_discount, q.tax_label, q.tax_percent, q.tax_amount,
		       q.service_tax_label, q.service_tax_percent, q.service_tax_amount, q.total_amount,
		       q.paid_amount, q.notes, q.created_at, q.updated_at
		FROM quotations q
		JOIN clients c ON c.id = q.client_id
		WHERE q.id = $1
	`
	if forUpdate {
		query += " FOR UPDATE OF q"
	}

	var q Quotation
	err := scanQuotation(db.QueryRow(ctx, query, id), &q)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("quotation", id)
		}
		return nil, err
	}
	return &q, nil
}

func fetchQuotationItems(ctx context.Context, db pgxRowQuerier, quotationID int) ([]QuotationItem, error) {
	rows, err := db.Query(ctx, `
		SELECT id, quotation_id, line_number, description, amount
		FROM quotation_items
		WHERE quotation_id = $1
		ORDER BY line_number
	`, quotationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotation items: %w", err)
	}
	defer rows.Close()

	var items []QuotationItem
	for rows.Next() {
		var it QuotationItem
		if err := rows.Scan(&it.ID, &it.QuotationID, &it.LineNumber, &it.Description, &it.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan quotation item: %w", err)
		}
		items = append(items, it)
	}
	return items, nil
}

func fetchPayments(ctx context.Context, db pgxRowQuerier, quotationID int) ([]Payment, error) {
	rows, err := db.Query(ctx, `
		SELECT id, quotation_id, amount, payment_method, payment_date::text, notes, created_at
		FROM payments
		WHERE quotation_id = $1
		ORDER BY id
	`, quotationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.QuotationID, &p.Amount, &p.PaymentMethod, &p.PaymentDate, &p.Notes, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, nil
}

// fetchAllocatedComponents sums the components already invoiced against a
// quotation, for exact-remainder allocation on the settling payment.
func fetchAllocatedComponents(ctx context.Context, db pgxQuerier, quotationID int) (AllocatedComponents, error) {
	var prior AllocatedComponents
	err := db.QueryRow(ctx, `
		SELECT COALESCE(SUM(subtotal), 0), COALESCE(SUM(tax_amount), 0), COALESCE(SUM(service_tax_amount), 0)
		FROM invoices
		WHERE quotation_id = $1
	`, quotationID).Scan(&prior.Subtotal, &prior.TaxAmount, &prior.ServiceTaxAmount)
	if err != nil {
		return AllocatedComponents{}, fmt.Errorf("failed to sum invoiced components: %w", err)
	}
	return prior, nil
}

func insertQuotationItems(ctx context.Context, tx pgx.Tx, quotationID int, items []QuotationItem) error {
	for i, item := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO quotation_items (quotation_id, line_number, description, amount)
			VALUES ($1, $2, $3, $4)
		`, quotationID, i+1, item.Description, item.Amount)
		if err != nil {
			return fmt.Errorf("failed to insert quotation item %d: %w", i+1, err)
		}
	}
	return nil
}

func checkClientExists(ctx context.Context, db pgxQuerier, clientID int) error {
	var id int
	err := db.QueryRow(ctx, "SELECT id FROM clients WHERE id = $1", clientID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound("client", clientID)
		}
		return fmt.Errorf("failed to verify client %d: %w", clientID, err)
	}
	return nil
}
