package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClientService manages the client master data.
type ClientService interface {
	CreateClient(ctx context.Context, c Client) (*Client, error)
	GetClient(ctx context.Context, id int) (*Client, error)
	GetClients(ctx context.Context) ([]Client, error)
	UpdateClient(ctx context.Context, id int, c Client) (*Client, error)
	// DeleteClient removes a client. Blocked while any quotation, invoice,
	// or BOQ still references it.
	DeleteClient(ctx context.Context, id int) error
}

type clientService struct {
	pool *pgxpool.Pool
}

// NewClientService constructs a ClientService backed by PostgreSQL.
func NewClientService(pool *pgxpool.Pool) ClientService {
	return &clientService{pool: pool}
}

func (s *clientService) CreateClient(ctx context.Context, c Client) (*Client, error) {
	if c.Name == "" {
		return nil, newValidationError("name", "client name is required")
	}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO clients (name, email, phone, address, gstin)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, c.Name, c.Email, c.Phone, c.Address, c.GSTIN).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &c, nil
}

func (s *clientService) GetClient(ctx context.Context, id int) (*Client, error) {
	var c Client
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, email, phone, address, gstin, created_at
		FROM clients
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.GSTIN, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("client", id)
		}
		return nil, fmt.Errorf("failed to fetch client %d: %w", id, err)
	}
	return &c, nil
}

func (s *clientService) GetClients(ctx context.Context) ([]Client, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, email, phone, address, gstin, created_at
		FROM clients
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.GSTIN, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, nil
}

func (s *clientService) UpdateClient(ctx context.Context, id int, c Client) (*Client, error) {
	if c.Name == "" {
		return nil, newValidationError("name", "client name is required")
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE clients
		SET name = $1, email = $2, phone = $3, address = $4, gstin = $5
		WHERE id = $6
	`, c.Name, c.Email, c.Phone, c.Address, c.GSTIN, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update client %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, notFound("client", id)
	}
	return s.GetClient(ctx, id)
}

func (s *clientService) DeleteClient(ctx context.Context, id int) error {
	var refs int
	err := s.pool.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM quotations WHERE client_id = $1)
		     + (SELECT COUNT(*) FROM invoices WHERE client_id = $1)
		     + (SELECT COUNT(*) FROM boqs WHERE client_id = $1)
	`, id).Scan(&refs)
	if err != nil {
		return fmt.Errorf("failed to count client references: %w", err)
	}
	if refs > 0 {
		return newValidationError("client", "client %d has %d documents and cannot be deleted", id, refs)
	}

	tag, err := s.pool.Exec(ctx, "DELETE FROM clients WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete client %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("client", id)
	}
	return nil
}
