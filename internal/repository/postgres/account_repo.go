// internal/repository/postgres/account_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"worklink-service/internal/domain/account"
	xerrors "worklink-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, email, password_hash, name, role, client_id, status, created_at, updated_at`

func scanAccount(row pgx.Row) (*account.Account, error) {
	var a account.Account
	err := row.Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.Role,
		&a.ClientID, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	return &a, nil
}

// Create inserts a new account.
func (r *AccountRepository) Create(ctx context.Context, a *account.Account) error {
	query := `
		INSERT INTO accounts (email, password_hash, name, role, client_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		a.Email, a.PasswordHash, a.Name, a.Role, a.ClientID, a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return xerrors.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// FindByEmail retrieves an account by email.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE email = $1`, accountColumns)
	return scanAccount(r.db.QueryRow(ctx, query, email))
}

// FindByID retrieves an account by ID.
func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*account.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id = $1`, accountColumns)
	return scanAccount(r.db.QueryRow(ctx, query, id))
}

// UpdatePassword replaces an account's password hash.
func (r *AccountRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	query := `UPDATE accounts SET password_hash = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, hash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// ListByClientRole lists active vendor-side accounts of a client company.
// Used to fan notifications out to everyone who can act on a request.
func (r *AccountRepository) ListByClientRole(ctx context.Context, clientID int64) ([]account.Account, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM accounts
		WHERE role = 'client' AND client_id = $1 AND status = 'active'
		ORDER BY id
	`, accountColumns)

	rows, err := r.db.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list client accounts: %w", err)
	}
	defer rows.Close()

	accounts := []account.Account{}
	for rows.Next() {
		var a account.Account
		if err := rows.Scan(
			&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.Role,
			&a.ClientID, &a.Status, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}

	return accounts, rows.Err()
}

// CountByRole counts accounts holding a role; used for admin bootstrap.
func (r *AccountRepository) CountByRole(ctx context.Context, role account.Role) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE role = $1`, role).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return n, nil
}
