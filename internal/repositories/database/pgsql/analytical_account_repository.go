package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anayki/biz_erp_app/internal/apperrors"
	"github.com/anayki/biz_erp_app/internal/core/domain"
	portsrepo "github.com/anayki/biz_erp_app/internal/core/ports/repositories"
	"github.com/anayki/biz_erp_app/internal/models"
	"github.com/anayki/biz_erp_app/internal/utils/mapping"
)

type PgxAnalyticalAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxAnalyticalAccountRepository creates a new repository for cost center data.
func newPgxAnalyticalAccountRepository(pool *pgxpool.Pool) portsrepo.AnalyticalAccountRepositoryFacade {
	return &PgxAnalyticalAccountRepository{pool: pool}
}

var _ portsrepo.AnalyticalAccountRepositoryFacade = (*PgxAnalyticalAccountRepository)(nil)

const analyticalAccountColumns = `analytical_account_id, code, name, parent_account_id, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanAnalyticalAccount(row pgx.Row) (models.AnalyticalAccount, error) {
	var m models.AnalyticalAccount
	var parentID sql.NullString
	err := row.Scan(
		&m.AnalyticalAccountID,
		&m.Code,
		&m.Name,
		&parentID,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return m, err
	}
	m.ParentAccountID = parentID.String
	return m, nil
}

// SaveAnalyticalAccount inserts a new cost center.
func (r *PgxAnalyticalAccountRepository) SaveAnalyticalAccount(ctx context.Context, account domain.AnalyticalAccount) error {
	m := mapping.ToModelAnalyticalAccount(account)

	query := `
		INSERT INTO analytical_accounts (` + analyticalAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	var parentID sql.NullString
	if m.ParentAccountID != "" {
		parentID = sql.NullString{String: m.ParentAccountID, Valid: true}
	}

	_, err := r.pool.Exec(ctx, query,
		m.AnalyticalAccountID,
		m.Code,
		m.Name,
		parentID,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: analytical account with code %s already exists", apperrors.ErrDuplicate, m.Code)
		}
		return fmt.Errorf("failed to save analytical account %s: %w", m.AnalyticalAccountID, err)
	}
	return nil
}

// UpdateAnalyticalAccount updates name, parent and active flag.
func (r *PgxAnalyticalAccountRepository) UpdateAnalyticalAccount(ctx context.Context, account domain.AnalyticalAccount) error {
	m := mapping.ToModelAnalyticalAccount(account)

	var parentID sql.NullString
	if m.ParentAccountID != "" {
		parentID = sql.NullString{String: m.ParentAccountID, Valid: true}
	}

	query := `
		UPDATE analytical_accounts
		SET name = $2, parent_account_id = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
		WHERE analytical_account_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		m.AnalyticalAccountID,
		m.Name,
		parentID,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update analytical account %s: %w", m.AnalyticalAccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateAnalyticalAccount marks the account inactive.
func (r *PgxAnalyticalAccountRepository) DeactivateAnalyticalAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	query := `
		UPDATE analytical_accounts
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE analytical_account_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, accountID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate analytical account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindAnalyticalAccountByID retrieves an account by its ID.
func (r *PgxAnalyticalAccountRepository) FindAnalyticalAccountByID(ctx context.Context, accountID string) (*domain.AnalyticalAccount, error) {
	query := `SELECT ` + analyticalAccountColumns + ` FROM analytical_accounts WHERE analytical_account_id = $1;`

	m, err := scanAnalyticalAccount(r.pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find analytical account %s: %w", accountID, err)
	}
	d := mapping.ToDomainAnalyticalAccount(m)
	return &d, nil
}

// FindAnalyticalAccountsByIDs retrieves several accounts keyed by ID.
func (r *PgxAnalyticalAccountRepository) FindAnalyticalAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.AnalyticalAccount, error) {
	result := make(map[string]domain.AnalyticalAccount, len(accountIDs))
	if len(accountIDs) == 0 {
		return result, nil
	}

	query := `SELECT ` + analyticalAccountColumns + ` FROM analytical_accounts WHERE analytical_account_id = ANY($1);`
	rows, err := r.pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query analytical accounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanAnalyticalAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analytical account: %w", err)
		}
		result[m.AnalyticalAccountID] = mapping.ToDomainAnalyticalAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analytical accounts: %w", err)
	}
	return result, nil
}

// ListAnalyticalAccounts retrieves all accounts, ordered by code.
func (r *PgxAnalyticalAccountRepository) ListAnalyticalAccounts(ctx context.Context, includeInactive bool) ([]domain.AnalyticalAccount, error) {
	query := `SELECT ` + analyticalAccountColumns + ` FROM analytical_accounts`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY code;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list analytical accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.AnalyticalAccount
	for rows.Next() {
		m, err := scanAnalyticalAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analytical account: %w", err)
		}
		accounts = append(accounts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analytical accounts: %w", err)
	}
	return mapping.ToDomainAnalyticalAccountSlice(accounts), nil
}
