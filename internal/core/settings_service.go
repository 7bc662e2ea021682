package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/patrickmn/go-cache"
)

// Settings rows are singletons keyed by id = 1.
const settingsSingletonID = 1

// Cache keys for the settings singletons.
const (
	ckOrganizationSettings = "organization_settings"
	ckTaxSettings          = "tax_settings"
	ckGeneralSettings      = "general_settings"

	// Calculations may read settings up to this much after a write made
	// elsewhere; writes through this service invalidate synchronously.
	SettingsCacheTTL     = 5 * time.Minute
	settingsCacheCleanup = 10 * time.Minute
)

// SettingsService supplies the organization profile, tax configuration, and
// general settings, with a bounded-staleness read cache. Every update
// removes the cached entry before returning, so a calculation that follows a
// settings write always sees the new rates.
type SettingsService interface {
	GetOrganizationSettings(ctx context.Context) (*OrganizationSettings, error)
	UpdateOrganizationSettings(ctx context.Context, s OrganizationSettings) error
	GetTaxSettings(ctx context.Context) (*TaxSettings, error)
	UpdateTaxSettings(ctx context.Context, s TaxSettings) error
	GetGeneralSettings(ctx context.Context) (*GeneralSettings, error)
	UpdateGeneralSettings(ctx context.Context, s GeneralSettings) error

	ListBankAccounts(ctx context.Context) ([]BankAccount, error)
	CreateBankAccount(ctx context.Context, b BankAccount) (*BankAccount, error)
	UpdateBankAccount(ctx context.Context, id int, b BankAccount) (*BankAccount, error)
	DeleteBankAccount(ctx context.Context, id int) error
}

type settingsService struct {
	pool  *pgxpool.Pool
	cache *cache.Cache
}

// NewSettingsCache constructs the TTL cache shared by settings reads.
func NewSettingsCache() *cache.Cache {
	return cache.New(SettingsCacheTTL, settingsCacheCleanup)
}

// NewSettingsService constructs a SettingsService backed by PostgreSQL with
// the given read cache. The cache is injected rather than package-global so
// tests and callers control its lifecycle.
func NewSettingsService(pool *pgxpool.Pool, c *cache.Cache) SettingsService {
	return &settingsService{pool: pool, cache: c}
}

func (s *settingsService) GetOrganizationSettings(ctx context.Context) (*OrganizationSettings, error) {
	if v, ok := s.cache.Get(ckOrganizationSettings); ok {
		cached := v.(OrganizationSettings)
		return &cached, nil
	}

	var o OrganizationSettings
	err := s.pool.QueryRow(ctx, `
		SELECT name, email, phone, address, website, logo_url
		FROM organization_settings
		WHERE id = $1
	`, settingsSingletonID).Scan(&o.Name, &o.Email, &o.Phone, &o.Address, &o.Website, &o.LogoURL)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to read organization settings: %w", err)
	}

	s.cache.Set(ckOrganizationSettings, o, cache.DefaultExpiration)
	return &o, nil
}

func (s *settingsService) UpdateOrganizationSettings(ctx context.Context, o OrganizationSettings) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO organization_settings (id, name, email, phone, address, website, logo_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, email = EXCLUDED.email, phone = EXCLUDED.phone,
			address = EXCLUDED.address, website = EXCLUDED.website, logo_url = EXCLUDED.logo_url
	`, settingsSingletonID, o.Name, o.Email, o.Phone, o.Address, o.Website, o.LogoURL)
	if err != nil {
		return fmt.Errorf("failed to update organization settings: %w", err)
	}
	s.cache.Delete(ckOrganizationSettings)
	return nil
}

func (s *settingsService) GetTaxSettings(ctx context.Context) (*TaxSettings, error) {
	if v, ok := s.cache.Get(ckTaxSettings); ok {
		cached := v.(TaxSettings)
		return &cached, nil
	}

	t := TaxSettings{TaxLabel: "Tax"}
	err := s.pool.QueryRow(ctx, `
		SELECT tax_label, tax_percent, tax_id, service_tax_label, service_tax_percent, service_tax_enabled
		FROM tax_settings
		WHERE id = $1
	`, settingsSingletonID).Scan(
		&t.TaxLabel, &t.TaxPercent, &t.TaxID,
		&t.ServiceTaxLabel, &t.ServiceTaxPercent, &t.ServiceTaxEnabled,
	)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to read tax settings: %w", err)
	}

	s.cache.Set(ckTaxSettings, t, cache.DefaultExpiration)
	return &t, nil
}

func (s *settingsService) UpdateTaxSettings(ctx context.Context, t TaxSettings) error {
	if err := validatePercent("tax_percent", t.TaxPercent); err != nil {
		return err
	}
	if err := validatePercent("service_tax_percent", t.ServiceTaxPercent); err != nil {
		return err
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO tax_settings (id, tax_label, tax_percent, tax_id, service_tax_label, service_tax_percent, service_tax_enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			tax_label = EXCLUDED.tax_label, tax_percent = EXCLUDED.tax_percent, tax_id = EXCLUDED.tax_id,
			service_tax_label = EXCLUDED.service_tax_label, service_tax_percent = EXCLUDED.service_tax_percent,
			service_tax_enabled = EXCLUDED.service_tax_enabled
	`, settingsSingletonID, t.TaxLabel, t.TaxPercent, t.TaxID, t.ServiceTaxLabel, t.ServiceTaxPercent, t.ServiceTaxEnabled)
	if err != nil {
		return fmt.Errorf("failed to update tax settings: %w", err)
	}
	s.cache.Delete(ckTaxSettings)
	return nil
}

func (s *settingsService) GetGeneralSettings(ctx context.Context) (*GeneralSettings, error) {
	if v, ok := s.cache.Get(ckGeneralSettings); ok {
		cached := v.(GeneralSettings)
		return &cached, nil
	}

	g := defaultGeneralSettings()
	err := s.pool.QueryRow(ctx, `
		SELECT currency, quotation_prefix, invoice_prefix, boq_prefix,
		       quotation_valid_days, default_payment_method, payment_terms_note
		FROM general_settings
		WHERE id = $1
	`, settingsSingletonID).Scan(
		&g.Currency, &g.QuotationPrefix, &g.InvoicePrefix, &g.BOQPrefix,
		&g.QuotationValidDays, &g.DefaultPaymentMethod, &g.PaymentTermsNote,
	)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to read general settings: %w", err)
	}

	s.cache.Set(ckGeneralSettings, g, cache.DefaultExpiration)
	return &g, nil
}

func (s *settingsService) UpdateGeneralSettings(ctx context.Context, g GeneralSettings) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO general_settings (id, currency, quotation_prefix, invoice_prefix, boq_prefix,
			quotation_valid_days, default_payment_method, payment_terms_note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			currency = EXCLUDED.currency, quotation_prefix = EXCLUDED.quotation_prefix,
			invoice_prefix = EXCLUDED.invoice_prefix, boq_prefix = EXCLUDED.boq_prefix,
			quotation_valid_days = EXCLUDED.quotation_valid_days,
			default_payment_method = EXCLUDED.default_payment_method,
			payment_terms_note = EXCLUDED.payment_terms_note
	`, settingsSingletonID, g.Currency, g.QuotationPrefix, g.InvoicePrefix, g.BOQPrefix,
		g.QuotationValidDays, g.DefaultPaymentMethod, g.PaymentTermsNote)
	if err != nil {
		return fmt.Errorf("failed to update general settings: %w", err)
	}
	s.cache.Delete(ckGeneralSettings)
	return nil
}

func defaultGeneralSettings() GeneralSettings {
	return GeneralSettings{
		Currency:             "INR",
		QuotationPrefix:      "QT",
		InvoicePrefix:        "INV",
		BOQPrefix:            "BOQ",
		QuotationValidDays:   15,
		DefaultPaymentMethod: "Bank Transfer",
	}
}

// ── Bank accounts ────────────────────────────────────────────────────────────

func (s *settingsService) ListBankAccounts(ctx context.Context) ([]BankAccount, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, bank_name, account_name, account_number, ifsc, branch, is_default
		FROM bank_accounts
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank accounts: %w", err)
	}
	defer rows.Close()

	var accounts []BankAccount
	for rows.Next() {
		var b BankAccount
		if err := rows.Scan(&b.ID, &b.BankName, &b.AccountName, &b.AccountNumber, &b.IFSC, &b.Branch, &b.IsDefault); err != nil {
			return nil, fmt.Errorf("failed to scan bank account: %w", err)
		}
		accounts = append(accounts, b)
	}
	return accounts, nil
}

func (s *settingsService) CreateBankAccount(ctx context.Context, b BankAccount) (*BankAccount, error) {
	if b.BankName == "" || b.AccountNumber == "" {
		return nil, newValidationError("bank_account", "bank name and account number are required")
	}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO bank_accounts (bank_name, account_name, account_number, ifsc, branch, is_default)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, b.BankName, b.AccountName, b.AccountNumber, b.IFSC, b.Branch, b.IsDefault).Scan(&b.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create bank account: %w", err)
	}
	return &b, nil
}

func (s *settingsService) UpdateBankAccount(ctx context.Context, id int, b BankAccount) (*BankAccount, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE bank_accounts
		SET bank_name = $1, account_name = $2, account_number = $3, ifsc = $4, branch = $5, is_default = $6
		WHERE id = $7
	`, b.BankName, b.AccountName, b.AccountNumber, b.IFSC, b.Branch, b.IsDefault, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update bank account %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, notFound("bank account", id)
	}
	b.ID = id
	return &b, nil
}

func (s *settingsService) DeleteBankAccount(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM bank_accounts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete bank account %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("bank account", id)
	}
	return nil
}
