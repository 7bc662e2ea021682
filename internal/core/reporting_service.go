package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// RevenueLine is one month of invoiced revenue.
type RevenueLine struct {
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	InvoiceCount     int             `json:"invoice_count"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	TaxAmount        decimal.Decimal `json:"tax_amount"`
	ServiceTaxAmount decimal.Decimal `json:"service_tax_amount"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
}

// OutstandingLine is one client's open quotation balance.
type OutstandingLine struct {
	ClientID    int             `json:"client_id"`
	ClientName  string          `json:"client_name"`
	Quotations  int             `json:"quotations"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// ReportingService provides read-only aggregates over invoices and
// quotations. Invoices represent money received, so summing them is a
// cash-revenue view, not accrual accounting.
type ReportingService interface {
	GetRevenueByMonth(ctx context.Context, year int) ([]RevenueLine, error)
	GetOutstandingBalances(ctx context.Context) ([]OutstandingLine, error)
}

type reportingService struct {
	pool *pgxpool.Pool
}

// NewReportingService constructs a ReportingService backed by PostgreSQL.
func NewReportingService(pool *pgxpool.Pool) ReportingService {
	return &reportingService{pool: pool}
}

func (s *reportingService) GetRevenueByMonth(ctx context.Context, year int) ([]RevenueLine, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT EXTRACT(YEAR FROM date)::int, EXTRACT(MONTH FROM date)::int, COUNT(*),
		       COALESCE(SUM(subtotal), 0), COALESCE(SUM(tax_amount), 0),
		       COALESCE(SUM(service_tax_amount), 0), COALESCE(SUM(total_amount), 0)
		FROM invoices
		WHERE EXTRACT(YEAR FROM date) = $1
		GROUP BY 1, 2
		ORDER BY 1, 2
	`, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue by month: %w", err)
	}
	defer rows.Close()

	var lines []RevenueLine
	for rows.Next() {
		var l RevenueLine
		if err := rows.Scan(&l.Year, &l.Month, &l.InvoiceCount,
			&l.Subtotal, &l.TaxAmount, &l.ServiceTaxAmount, &l.TotalAmount); err != nil {
			return nil, fmt.Errorf("failed to scan revenue line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, nil
}

func (s *reportingService) GetOutstandingBalances(ctx context.Context) ([]OutstandingLine, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.name, COUNT(q.id),
		       COALESCE(SUM(q.total_amount), 0), COALESCE(SUM(q.paid_amount), 0),
		       COALESCE(SUM(q.total_amount - q.paid_amount), 0)
		FROM quotations q
		JOIN clients c ON c.id = q.client_id
		WHERE q.status <> $1
		GROUP BY c.id, c.name
		HAVING SUM(q.total_amount - q.paid_amount) > 0
		ORDER BY 6 DESC
	`, string(QuotationStatusFullyPaid))
	if err != nil {
		return nil, fmt.Errorf("failed to query outstanding balances: %w", err)
	}
	defer rows.Close()

	var lines []OutstandingLine
	for rows.Next() {
		var l OutstandingLine
		if err := rows.Scan(&l.ClientID, &l.ClientName, &l.Quotations,
			&l.TotalAmount, &l.PaidAmount, &l.Outstanding); err != nil {
			return nil, fmt.Errorf("failed to scan outstanding line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, nil
}
