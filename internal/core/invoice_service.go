package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// InvoiceService reads invoices and creates standalone ones. Invoices are
// immutable artifacts with no update or delete: payment-generated invoices
// belong to their payment event, and a wrong invoice is corrected by
// issuing a fresh document, never by editing history.
type InvoiceService interface {
	GetInvoice(ctx context.Context, id int) (*Invoice, error)
	GetInvoices(ctx context.Context) ([]Invoice, error)
	GetInvoicesForQuotation(ctx context.Context, quotationID int) ([]Invoice, error)
	// CreateStandaloneInvoice issues an invoice with no parent quotation,
	// for work billed and paid directly. Paid in full by construction.
	CreateStandaloneInvoice(ctx context.Context, clientID int, date string, items []InvoiceItem, paymentMethod, notes string) (*Invoice, error)
}

type invoiceService struct {
	pool      *pgxpool.Pool
	settings  SettingsService
	numbering NumberingService
}

// NewInvoiceService constructs an InvoiceService backed by PostgreSQL.
func NewInvoiceService(pool *pgxpool.Pool, settings SettingsService, numbering NumberingService) InvoiceService {
	return &invoiceService{pool: pool, settings: settings, numbering: numbering}
}

func (s *invoiceService) GetInvoice(ctx context.Context, id int) (*Invoice, error) {
	return fetchInvoice(ctx, s.pool, id)
}

func (s *invoiceService) GetInvoices(ctx context.Context) ([]Invoice, error) {
	return fetchInvoices(ctx, s.pool, "", nil)
}

func (s *invoiceService) GetInvoicesForQuotation(ctx context.Context, quotationID int) ([]Invoice, error) {
	return fetchInvoices(ctx, s.pool, "WHERE i.quotation_id = $1", []any{quotationID})
}

func (s *invoiceService) CreateStandaloneInvoice(ctx context.Context, clientID int, date string, items []InvoiceItem, paymentMethod, notes string) (*Invoice, error) {
	if len(items) == 0 {
		return nil, newValidationError("items", "invoice must have at least one line item")
	}
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, newValidationError("date", "invalid date format: %v", err)
	}

	subtotal, err := invoiceItemTotals(items)
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

	general, err := s.settings.GetGeneralSettings(ctx)
	if err != nil {
		return nil, err
	}
	if paymentMethod == "" {
		paymentMethod = general.DefaultPaymentMethod
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := checkClientExists(ctx, tx, clientID); err != nil {
		return nil, err
	}

	number, err := s.numbering.NextNumberTx(ctx, tx, DocClassInvoice, general.InvoicePrefix)
	if err != nil {
		return nil, err
	}

	inv := Invoice{
		InvoiceNumber: number,
		ClientID:      clientID,
		Date:          date,
		Currency:      general.Currency,
		Items:         items,
		Totals:        totals,
		PaidAmount:    totals.TotalAmount,
		PaymentMethod: paymentMethod,
		PaymentDate:   date,
		Notes:         notes,
	}

	invoiceID, err := insertInvoice(ctx, tx, &inv)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit invoice creation: %w", err)
	}

	return fetchInvoice(ctx, s.pool, invoiceID)
}

func invoiceItemTotals(items []InvoiceItem) (decimal.Decimal, error) {
	subtotal := decimal.Zero
	for i, item := range items {
		if item.Amount.IsNegative() {
			return decimal.Zero, newValidationError("items", "line %d: amount must not be negative", i+1)
		}
		subtotal = subtotal.Add(item.Amount)
	}
	return subtotal.Round(2), nil
}

// ── Shared persistence helpers (also used by QuotationService) ───────────────

func insertInvoice(ctx context.Context, tx pgx.Tx, inv *Invoice) (int, error) {
	var invoiceID int
	err := tx.QueryRow(ctx, `
		INSERT INTO invoices (invoice_number, quotation_id, client_id, date, currency,
			subtotal, total_discount, tax_label, tax_percent, tax_amount,
			service_tax_label, service_tax_percent, service_tax_amount, total_amount,
			paid_amount, payment_method, payment_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id
	`, inv.InvoiceNumber, inv.QuotationID, inv.ClientID, inv.Date, inv.Currency,
		inv.Totals.Subtotal, inv.Totals.TotalDiscount, inv.Totals.TaxLabel, inv.Totals.TaxPercent, inv.Totals.TaxAmount,
		inv.Totals.ServiceTaxLabel, inv.Totals.ServiceTaxPercent, inv.Totals.ServiceTaxAmount, inv.Totals.TotalAmount,
		inv.PaidAmount, inv.PaymentMethod, inv.PaymentDate, inv.Notes).Scan(&invoiceID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert invoice: %w", err)
	}

	for i, item := range inv.Items {
		_, err := tx.Exec(ctx, `
			INSERT INTO invoice_items (invoice_id, line_number, description, amount)
			VALUES ($1, $2, $3, $4)
		`, invoiceID, i+1, item.Description, item.Amount)
		if err != nil {
			return 0, fmt.Errorf("failed to insert invoice item %d: %w", i+1, err)
		}
	}
	return invoiceID, nil
}

const invoiceSelect = `
	SELECT i.id, i.invoice_number, i.quotation_id, i.client_id, c.name, i.date::text, i.currency,
	       i.subtotal, i.total_discount, i.tax_label, i.tax_percent, i.tax_amount,
	       i.service_tax_label, i.service_tax_percent, i.service_tax_amount, i.total_amount,
	       i.paid_amount, i.payment_method, i.payment_date::text, i.notes, i.created_at
	FROM invoices i
	JOIN clients c ON c.id = i.client_id
`

func scanInvoice(row quotationScanner, inv *Invoice) error {
	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.QuotationID, &inv.ClientID, &inv.ClientName, &inv.Date, &inv.Currency,
		&inv.Totals.Subtotal, &inv.Totals.TotalDiscount, &inv.Totals.TaxLabel, &inv.Totals.TaxPercent, &inv.Totals.TaxAmount,
		&inv.Totals.ServiceTaxLabel, &inv.Totals.ServiceTaxPercent, &inv.Totals.ServiceTaxAmount, &inv.Totals.TotalAmount,
		&inv.PaidAmount, &inv.PaymentMethod, &inv.PaymentDate, &inv.Notes, &inv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to scan invoice: %w", err)
	}
	return nil
}

// pgxDB is satisfied by both *pgxpool.Pool and pgx.Tx.
type pgxDB interface {
	pgxQuerier
	pgxRowQuerier
}

func fetchInvoice(ctx context.Context, db pgxDB, id int) (*Invoice, error) {
	var inv Invoice
	err := scanInvoice(db.QueryRow(ctx, invoiceSelect+" WHERE i.id = $1", id), &inv)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("invoice", id)
		}
		return nil, err
	}

	items, err := fetchInvoiceItems(ctx, db, id)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return &inv, nil
}

func fetchInvoices(ctx context.Context, db pgxRowQuerier, where string, args []any) ([]Invoice, error) {
	query := invoiceSelect
	if where != "" {
		query += " " + where
	}
	query += " ORDER BY i.id DESC"

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		var inv Invoice
		if err := scanInvoice(rows, &inv); err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, nil
}

func fetchInvoiceItems(ctx context.Context, db pgxRowQuerier, invoiceID int) ([]InvoiceItem, error) {
	rows, err := db.Query(ctx, `
		SELECT id, invoice_id, line_number, description, amount
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY line_number
	`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice items: %w", err)
	}
	defer rows.Close()

	var items []InvoiceItem
	for rows.Next() {
		var it InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.LineNumber, &it.Description, &it.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan invoice item: %w", err)
		}
		items = append(items, it)
	}
	return items, nil
}
