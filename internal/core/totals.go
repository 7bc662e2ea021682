package core

import (
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// ComputeTotals turns a net subtotal and a tax configuration into the full
// money breakdown. cfg == nil means no tax is configured: zero tax and
// TotalAmount == subtotal. Deterministic, no side effects; all amounts are
// rounded to 2 decimal places.
func ComputeTotals(subtotal decimal.Decimal, cfg *TaxConfig) (FinancialTotals, error) {
	if subtotal.IsNegative() {
		return FinancialTotals{}, newValidationError("subtotal", "must not be negative, got %s", subtotal)
	}

	subtotal = subtotal.Round(2)

	if cfg == nil {
		return FinancialTotals{
			Subtotal:    subtotal,
			TaxLabel:    "Tax",
			TotalAmount: subtotal,
		}, nil
	}

	if err := validatePercent("tax_percent", cfg.TaxPercent); err != nil {
		return FinancialTotals{}, err
	}
	if cfg.ServiceTaxEnabled {
		if err := validatePercent("service_tax_percent", cfg.ServiceTaxPercent); err != nil {
			return FinancialTotals{}, err
		}
	}

	taxAmount := subtotal.Mul(cfg.TaxPercent).Div(oneHundred).Round(2)

	serviceTaxAmount := decimal.Zero
	serviceTaxPercent := decimal.Zero
	if cfg.ServiceTaxEnabled {
		serviceTaxPercent = cfg.ServiceTaxPercent
		serviceTaxAmount = subtotal.Mul(cfg.ServiceTaxPercent).Div(oneHundred).Round(2)
	}

	taxLabel := cfg.TaxLabel
	if taxLabel == "" {
		taxLabel = "Tax"
	}

	return FinancialTotals{
		Subtotal:          subtotal,
		TaxLabel:          taxLabel,
		TaxPercent:        cfg.TaxPercent,
		TaxAmount:         taxAmount,
		ServiceTaxLabel:   cfg.ServiceTaxLabel,
		ServiceTaxPercent: serviceTaxPercent,
		ServiceTaxAmount:  serviceTaxAmount,
		TotalAmount:       subtotal.Add(taxAmount).Add(serviceTaxAmount),
	}, nil
}

func validatePercent(field string, p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(oneHundred) {
		return newValidationError(field, "must be between 0 and 100, got %s", p)
	}
	return nil
}

// QuotationItemTotals sums the flat line amounts of a quotation. Rejects
// negative line amounts.
func QuotationItemTotals(items []QuotationItem) (decimal.Decimal, error) {
	subtotal := decimal.Zero
	for i, item := range items {
		if item.Amount.IsNegative() {
			return decimal.Zero, newValidationError("items", "line %d: amount must not be negative", i+1)
		}
		subtotal = subtotal.Add(item.Amount)
	}
	return subtotal.Round(2), nil
}

// BOQItemTotals computes the gross subtotal Σ(unitPrice×qty) and the total
// discount Σ(unitPrice×qty×discountPercent/100) across BOQ items, filling in
// each item's LineTotal. The calculator is then invoked on gross − discount.
func BOQItemTotals(items []BOQItem) (subtotal, totalDiscount decimal.Decimal, err error) {
	subtotal = decimal.Zero
	totalDiscount = decimal.Zero
	for i := range items {
		item := &items[i]
		if item.UnitPrice.IsNegative() {
			return decimal.Zero, decimal.Zero, newValidationError("items", "line %d: unit price must not be negative", i+1)
		}
		if item.Quantity.IsNegative() {
			return decimal.Zero, decimal.Zero, newValidationError("items", "line %d: quantity must not be negative", i+1)
		}
		if err := validatePercent("discount_percent", item.DiscountPercent); err != nil {
			return decimal.Zero, decimal.Zero, newValidationError("items", "line %d: %s", i+1, err)
		}

		// Quantity defaults to 1 when omitted.
		qty := item.Quantity
		if qty.IsZero() {
			qty = decimal.NewFromInt(1)
		}

		gross := item.UnitPrice.Mul(qty)
		discount := gross.Mul(item.DiscountPercent).Div(oneHundred)
		item.LineTotal = gross.Sub(discount).Round(2)

		subtotal = subtotal.Add(gross)
		totalDiscount = totalDiscount.Add(discount)
	}
	return subtotal.Round(2), totalDiscount.Round(2), nil
}
