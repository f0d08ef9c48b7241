package services

import (
	"context"
	"time"

	"github.com/anayki/biz_erp_app/internal/core/domain"
	"github.com/anayki/biz_erp_app/internal/dto"
)

// BudgetSvcFacade is the budget ledger contract: allocations, utilization
// and the confirm-time overage check.
type BudgetSvcFacade interface {
	CreateBudget(ctx context.Context, req dto.CreateBudgetRequest, creatorUserID string) (*domain.Budget, error)
	UpdateBudget(ctx context.Context, budgetID string, req dto.UpdateBudgetRequest, userID string) (*domain.Budget, error)
	ListBudgets(ctx context.Context, year *int) ([]domain.Budget, error)

	// DeleteBudget removes a budget; refused while actuals exist for the
	// budget's period.
	DeleteBudget(ctx context.Context, budgetID string) error

	// GetUtilization reports budgeted vs actual for one account and month.
	GetUtilization(ctx context.Context, accountID string, year int, month int) (*domain.BudgetUtilization, error)

	// GetCockpit reports per-account utilization rows with grand totals for
	// a month, or the whole year when month is nil.
	GetCockpit(ctx context.Context, year int, month *int) (*domain.BudgetCockpit, error)

	// GetYearlyTrend reports 12 monthly budgeted/actual pairs.
	GetYearlyTrend(ctx context.Context, year int) ([]domain.MonthlyBudgetPoint, error)

	// CheckOverage previews, line by line, whether posting the given lines
	// on the given date would push any analytical account past its budget.
	// Warnings are advisory; confirmation proceeds regardless.
	CheckOverage(ctx context.Context, lines []domain.TransactionLine, date time.Time) ([]domain.OverageWarning, error)
}
