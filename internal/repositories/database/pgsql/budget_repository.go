package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/anayki/biz_erp_app/internal/apperrors"
	"github.com/anayki/biz_erp_app/internal/core/domain"
	portsrepo "github.com/anayki/biz_erp_app/internal/core/ports/repositories"
	"github.com/anayki/biz_erp_app/internal/models"
	"github.com/anayki/biz_erp_app/internal/utils/mapping"
)

type PgxBudgetRepository struct {
	pool *pgxpool.Pool
}

// newPgxBudgetRepository creates a new repository for budget data.
func newPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepositoryFacade {
	return &PgxBudgetRepository{pool: pool}
}

var _ portsrepo.BudgetRepositoryFacade = (*PgxBudgetRepository)(nil)

const budgetColumns = `budget_id, analytical_account_id, year, month, budgeted_amount, created_at, created_by, last_updated_at, last_updated_by`

func scanBudget(row pgx.Row) (models.Budget, error) {
	var m models.Budget
	err := row.Scan(
		&m.BudgetID,
		&m.AnalyticalAccountID,
		&m.Year,
		&m.Month,
		&m.BudgetedAmount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveBudget inserts a new budget. The unique index on
// (analytical_account_id, year, month) enforces one budget per period.
func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	m := mapping.ToModelBudget(budget)

	query := `
		INSERT INTO budgets (` + budgetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		m.BudgetID,
		m.AnalyticalAccountID,
		m.Year,
		m.Month,
		m.BudgetedAmount,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: a budget for account %s in this period already exists", apperrors.ErrDuplicate, m.AnalyticalAccountID)
		}
		return fmt.Errorf("failed to save budget %s: %w", m.BudgetID, err)
	}
	return nil
}

// UpdateBudget replaces the budgeted amount.
func (r *PgxBudgetRepository) UpdateBudget(ctx context.Context, budget domain.Budget) error {
	m := mapping.ToModelBudget(budget)

	query := `
		UPDATE budgets
		SET budgeted_amount = $2, last_updated_at = $3, last_updated_by = $4
		WHERE budget_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, m.BudgetID, m.BudgetedAmount, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update budget %s: %w", m.BudgetID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindBudgetByID retrieves one budget.
func (r *PgxBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE budget_id = $1;`

	m, err := scanBudget(r.pool.QueryRow(ctx, query, budgetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find budget %s: %w", budgetID, err)
	}
	d := mapping.ToDomainBudget(m)
	return &d, nil
}

// ListBudgets retrieves budgets, optionally restricted to one year.
func (r *PgxBudgetRepository) ListBudgets(ctx context.Context, year *int) ([]domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets`
	args := []any{}
	if year != nil {
		query += ` WHERE year = $1`
		args = append(args, *year)
	}
	query += ` ORDER BY year, month NULLS FIRST, analytical_account_id;`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var result []models.Budget
	for rows.Next() {
		m, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budgets: %w", err)
	}
	return mapping.ToDomainBudgetSlice(result), nil
}

// DeleteBudget removes a budget row.
func (r *PgxBudgetRepository) DeleteBudget(ctx context.Context, budgetID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM budgets WHERE budget_id = $1;`, budgetID)
	if err != nil {
		return fmt.Errorf("failed to delete budget %s: %w", budgetID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindBudgetFor returns the most specific budget covering the given month:
// the monthly row if one exists, else the annual row, else nil.
func (r *PgxBudgetRepository) FindBudgetFor(ctx context.Context, accountID string, year int, month int) (*domain.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE analytical_account_id = $1 AND year = $2 AND (month = $3 OR month IS NULL)
		ORDER BY month NULLS LAST
		LIMIT 1;
	`
	m, err := scanBudget(r.pool.QueryRow(ctx, query, accountID, year, month))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find budget for account %s: %w", accountID, err)
	}
	d := mapping.ToDomainBudget(m)
	return &d, nil
}

// GetActualAmount sums confirmed spend for an account. A nil month covers
// the whole year.
func (r *PgxBudgetRepository) GetActualAmount(ctx context.Context, accountID string, year int, month *int) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(actual_amount), 0)
		FROM budget_actuals
		WHERE analytical_account_id = $1 AND year = $2
	`
	args := []any{accountID, year}
	if month != nil {
		query += ` AND month = $3`
		args = append(args, *month)
	}

	var actual decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&actual); err != nil {
		return decimal.Zero, fmt.Errorf("failed to read actuals for account %s: %w", accountID, err)
	}
	return actual, nil
}

// GetActualsByAccountForYear returns actuals keyed by account ID then month.
func (r *PgxBudgetRepository) GetActualsByAccountForYear(ctx context.Context, year int) (map[string]map[int]decimal.Decimal, error) {
	query := `
		SELECT analytical_account_id, month, actual_amount
		FROM budget_actuals
		WHERE year = $1;
	`
	rows, err := r.pool.Query(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query actuals for year %d: %w", year, err)
	}
	defer rows.Close()

	result := make(map[string]map[int]decimal.Decimal)
	for rows.Next() {
		var accountID string
		var month int
		var amount decimal.Decimal
		if err := rows.Scan(&accountID, &month, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan actual row: %w", err)
		}
		if result[accountID] == nil {
			result[accountID] = make(map[int]decimal.Decimal)
		}
		result[accountID][month] = amount
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate actual rows: %w", err)
	}
	return result, nil
}
