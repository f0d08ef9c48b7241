package repositories

import (
	"context"

	"github.com/anayki/biz_erp_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BudgetRepositoryFacade persists budgets and reads the materialized
// actuals ledger. Actual amounts are written only by the transaction
// repository, inside the confirm/cancel database transaction.
type BudgetRepositoryFacade interface {
	SaveBudget(ctx context.Context, budget domain.Budget) error
	UpdateBudget(ctx context.Context, budget domain.Budget) error
	FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)

	// ListBudgets retrieves budgets, optionally restricted to one year.
	ListBudgets(ctx context.Context, year *int) ([]domain.Budget, error)

	// DeleteBudget removes a budget row. The service refuses deletion while
	// actuals exist for the budget's period.
	DeleteBudget(ctx context.Context, budgetID string) error

	// FindBudgetFor returns the most specific budget covering the given
	// month: the monthly row if one exists, else the annual row, else nil.
	FindBudgetFor(ctx context.Context, accountID string, year int, month int) (*domain.Budget, error)

	// GetActualAmount sums confirmed spend for an account. A nil month
	// covers the whole year.
	GetActualAmount(ctx context.Context, accountID string, year int, month *int) (decimal.Decimal, error)

	// GetActualsByAccountForYear returns actuals keyed by account ID then
	// month (1-12), for the cockpit and the yearly trend.
	GetActualsByAccountForYear(ctx context.Context, year int) (map[string]map[int]decimal.Decimal, error)
}
