// internal/repository/postgres/client_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"worklink-service/internal/domain/client"
	xerrors "worklink-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ClientRepository struct {
	db *pgxpool.Pool
}

func NewClientRepository(db *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientColumns = `id, company_name, business_no, contact_name, contact_phone, contact_email,
	manager_employee_id, status, memo, created_at, updated_at`

func scanClient(row pgx.Row) (*client.Client, error) {
	var c client.Client
	err := row.Scan(
		&c.ID, &c.CompanyName, &c.BusinessNo, &c.ContactName, &c.ContactPhone,
		&c.ContactEmail, &c.ManagerEmployeeID, &c.Status, &c.Memo,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan client: %w", err)
	}
	return &c, nil
}

// Create inserts a new vendor company.
func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	query := `
		INSERT INTO clients (
			company_name, business_no, contact_name, contact_phone, contact_email,
			manager_employee_id, status, memo
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		c.CompanyName, c.BusinessNo, c.ContactName, c.ContactPhone, c.ContactEmail,
		c.ManagerEmployeeID, c.Status, c.Memo,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

// FindByID retrieves a client by ID.
func (r *ClientRepository) FindByID(ctx context.Context, id int64) (*client.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE id = $1`, clientColumns)
	return scanClient(r.db.QueryRow(ctx, query, id))
}

// Update applies partial changes to a client.
func (r *ClientRepository) Update(ctx context.Context, id int64, req *client.UpdateClientRequest) (*client.Client, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id}
	argPos := 2

	addSet := func(col string, v interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, argPos))
		args = append(args, v)
		argPos++
	}

	if req.CompanyName != nil {
		addSet("company_name", *req.CompanyName)
	}
	if req.BusinessNo != nil {
		addSet("business_no", *req.BusinessNo)
	}
	if req.ContactName != nil {
		addSet("contact_name", *req.ContactName)
	}
	if req.ContactPhone != nil {
		addSet("contact_phone", *req.ContactPhone)
	}
	if req.ContactEmail != nil {
		addSet("contact_email", *req.ContactEmail)
	}
	if req.ManagerEmployeeID != nil {
		addSet("manager_employee_id", *req.ManagerEmployeeID)
	}
	if req.Status != nil {
		addSet("status", *req.Status)
	}
	if req.Memo != nil {
		addSet("memo", *req.Memo)
	}

	query := fmt.Sprintf(`
		UPDATE clients SET %s WHERE id = $1
		RETURNING %s
	`, strings.Join(sets, ", "), clientColumns)

	return scanClient(r.db.QueryRow(ctx, query, args...))
}

// List retrieves clients with filters and paging.
func (r *ClientRepository) List(ctx context.Context, filters *client.ClientListFilters) ([]client.Client, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filters.Status)
		argPos++
	}
	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(company_name ILIKE $%d OR contact_name ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM clients WHERE %s`, whereClause)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count clients: %w", err)
	}

	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	offset := (filters.Page - 1) * filters.PageSize

	query := fmt.Sprintf(`
		SELECT %s FROM clients
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, clientColumns, whereClause, argPos, argPos+1)
	args = append(args, filters.PageSize, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []client.Client{}
	for rows.Next() {
		var c client.Client
		if err := rows.Scan(
			&c.ID, &c.CompanyName, &c.BusinessNo, &c.ContactName, &c.ContactPhone,
			&c.ContactEmail, &c.ManagerEmployeeID, &c.Status, &c.Memo,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}

	return clients, total, rows.Err()
}
