package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anayki/biz_erp_app/internal/apperrors"
	"github.com/anayki/biz_erp_app/internal/core/domain"
	portsrepo "github.com/anayki/biz_erp_app/internal/core/ports/repositories"
	portssvc "github.com/anayki/biz_erp_app/internal/core/ports/services"
	"github.com/anayki/biz_erp_app/internal/dto"
	"github.com/anayki/biz_erp_app/internal/utils"
)

var hundred = decimal.NewFromInt(100)

// budgetService implements the budget ledger: allocations, utilization
// reporting and the confirm-time overage preview.
type budgetService struct {
	BaseService
	budgetRepo  portsrepo.BudgetRepositoryFacade
	accountRepo portsrepo.AnalyticalAccountRepositoryFacade
}

// NewBudgetService creates a new BudgetService.
func NewBudgetService(budgetRepo portsrepo.BudgetRepositoryFacade, accountRepo portsrepo.AnalyticalAccountRepositoryFacade) portssvc.BudgetSvcFacade {
	return &budgetService{budgetRepo: budgetRepo, accountRepo: accountRepo}
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

// CreateBudget allocates an amount to an analytical account for a year or
// a specific month. The repository enforces one budget per (account, year,
// month) through a unique index.
func (s *budgetService) CreateBudget(ctx context.Context, req dto.CreateBudgetRequest, creatorUserID string) (*domain.Budget, error) {
	if req.BudgetedAmount.IsNegative() {
		return nil, fmt.Errorf("%w: budgeted amount must not be negative", apperrors.ErrValidation)
	}
	account, err := s.accountRepo.FindAnalyticalAccountByID(ctx, req.AnalyticalAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: analytical account %s", apperrors.ErrReferential, req.AnalyticalAccountID)
		}
		return nil, fmt.Errorf("failed to fetch analytical account: %w", err)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: analytical account %s is inactive", apperrors.ErrReferential, req.AnalyticalAccountID)
	}

	now := time.Now().UTC()
	budget := domain.Budget{
		BudgetID:            uuid.NewString(),
		AnalyticalAccountID: req.AnalyticalAccountID,
		Year:                req.Year,
		Month:               req.Month,
		BudgetedAmount:      req.BudgetedAmount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.budgetRepo.SaveBudget(ctx, budget); err != nil {
		s.LogError(ctx, err, "Failed to save budget", slog.String("account_id", req.AnalyticalAccountID), slog.Int("year", req.Year))
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}
	return &budget, nil
}

// UpdateBudget replaces the budgeted amount. Period and account are fixed
// at creation.
func (s *budgetService) UpdateBudget(ctx context.Context, budgetID string, req dto.UpdateBudgetRequest, userID string) (*domain.Budget, error) {
	if req.BudgetedAmount.IsNegative() {
		return nil, fmt.Errorf("%w: budgeted amount must not be negative", apperrors.ErrValidation)
	}
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to find budget %s: %w", budgetID, err)
	}

	budget.BudgetedAmount = req.BudgetedAmount
	budget.LastUpdatedAt = time.Now().UTC()
	budget.LastUpdatedBy = userID

	if err := s.budgetRepo.UpdateBudget(ctx, *budget); err != nil {
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}
	return budget, nil
}

// ListBudgets retrieves budgets, optionally restricted to one year.
func (s *budgetService) ListBudgets(ctx context.Context, year *int) ([]domain.Budget, error) {
	budgets, err := s.budgetRepo.ListBudgets(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return budgets, nil
}

// DeleteBudget removes a budget, refused while confirmed spend exists for
// the budget's period.
func (s *budgetService) DeleteBudget(ctx context.Context, budgetID string) error {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return fmt.Errorf("failed to find budget %s: %w", budgetID, err)
	}

	actual, err := s.budgetRepo.GetActualAmount(ctx, budget.AnalyticalAccountID, budget.Year, budget.Month)
	if err != nil {
		return fmt.Errorf("failed to read actuals for budget %s: %w", budgetID, err)
	}
	if !actual.IsZero() {
		return fmt.Errorf("%w: budget %s has %s of confirmed spend recorded against it", apperrors.ErrConflict, budgetID, utils.FormatINR(actual))
	}

	if err := s.budgetRepo.DeleteBudget(ctx, budgetID); err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	s.LogInfo(ctx, "Budget deleted", slog.String("budget_id", budgetID))
	return nil
}

// GetUtilization reports budgeted vs actual for one account and month.
func (s *budgetService) GetUtilization(ctx context.Context, accountID string, year int, month int) (*domain.BudgetUtilization, error) {
	account, err := s.accountRepo.FindAnalyticalAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch analytical account %s: %w", accountID, err)
	}

	budget, err := s.budgetRepo.FindBudgetFor(ctx, accountID, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch budget for account %s: %w", accountID, err)
	}
	actual, err := s.budgetRepo.GetActualAmount(ctx, accountID, year, &month)
	if err != nil {
		return nil, fmt.Errorf("failed to read actuals for account %s: %w", accountID, err)
	}

	row := buildUtilizationRow(*account, budget, actual)
	return &row, nil
}

// GetCockpit reports per-account utilization with grand totals for a
// month, or the whole year when month is nil. Accounts with spend but no
// budget still appear, flagged NoBudgetSet.
func (s *budgetService) GetCockpit(ctx context.Context, year int, month *int) (*domain.BudgetCockpit, error) {
	accounts, err := s.accountRepo.ListAnalyticalAccounts(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list analytical accounts: %w", err)
	}
	actuals, err := s.budgetRepo.GetActualsByAccountForYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to read actuals for year %d: %w", year, err)
	}
	budgets, err := s.budgetRepo.ListBudgets(ctx, &year)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets for year %d: %w", year, err)
	}

	cockpit := domain.BudgetCockpit{Year: year, Month: month}
	for _, account := range accounts {
		budgeted, hasBudget := periodBudget(budgets, account.AnalyticalAccountID, month)
		actual := periodActual(actuals[account.AnalyticalAccountID], month)

		if !hasBudget && actual.IsZero() {
			continue
		}

		var budgetRef *domain.Budget
		if hasBudget {
			budgetRef = &domain.Budget{BudgetedAmount: budgeted}
		}
		row := buildUtilizationRow(account, budgetRef, actual)
		cockpit.Rows = append(cockpit.Rows, row)
		cockpit.TotalBudgeted = cockpit.TotalBudgeted.Add(row.Budgeted)
		cockpit.TotalActual = cockpit.TotalActual.Add(row.Actual)
	}
	cockpit.TotalRemaining = cockpit.TotalBudgeted.Sub(cockpit.TotalActual)

	sort.Slice(cockpit.Rows, func(i, j int) bool {
		return cockpit.Rows[i].AccountCode < cockpit.Rows[j].AccountCode
	})
	return &cockpit, nil
}

// GetYearlyTrend reports 12 monthly budgeted/actual pairs across all
// accounts. Annual budgets are excluded; the trend tracks monthly
// allocations only.
func (s *budgetService) GetYearlyTrend(ctx context.Context, year int) ([]domain.MonthlyBudgetPoint, error) {
	budgets, err := s.budgetRepo.ListBudgets(ctx, &year)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets for year %d: %w", year, err)
	}
	actuals, err := s.budgetRepo.GetActualsByAccountForYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to read actuals for year %d: %w", year, err)
	}

	points := make([]domain.MonthlyBudgetPoint, 12)
	for m := 1; m <= 12; m++ {
		points[m-1] = domain.MonthlyBudgetPoint{Month: m, Budgeted: decimal.Zero, Actual: decimal.Zero}
	}
	for _, b := range budgets {
		if b.Month == nil {
			continue
		}
		points[*b.Month-1].Budgeted = points[*b.Month-1].Budgeted.Add(b.BudgetedAmount)
	}
	for _, byMonth := range actuals {
		for m, amount := range byMonth {
			if m < 1 || m > 12 {
				continue
			}
			points[m-1].Actual = points[m-1].Actual.Add(amount)
		}
	}
	return points, nil
}

// CheckOverage previews, line by line, whether posting the given lines on
// the given date would push any analytical account past its budget. Lines
// against the same account accumulate, so a later line can trip the
// warning even when each line alone fits. Warnings never block.
func (s *budgetService) CheckOverage(ctx context.Context, lines []domain.TransactionLine, date time.Time) ([]domain.OverageWarning, error) {
	year, month := date.Year(), int(date.Month())

	type budgetState struct {
		budget *domain.Budget
		spent  decimal.Decimal // confirmed actuals plus earlier lines of this batch
	}
	states := make(map[string]*budgetState)

	var warnings []domain.OverageWarning
	for _, line := range lines {
		if line.AnalyticalAccountID == nil {
			continue
		}
		accountID := *line.AnalyticalAccountID

		state, ok := states[accountID]
		if !ok {
			budget, err := s.budgetRepo.FindBudgetFor(ctx, accountID, year, month)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch budget for account %s: %w", accountID, err)
			}
			var actual decimal.Decimal
			if budget != nil {
				actualMonth := &month
				if budget.Month == nil {
					actualMonth = nil
				}
				actual, err = s.budgetRepo.GetActualAmount(ctx, accountID, year, actualMonth)
				if err != nil {
					return nil, fmt.Errorf("failed to read actuals for account %s: %w", accountID, err)
				}
			}
			state = &budgetState{budget: budget, spent: actual}
			states[accountID] = state
		}

		if state.budget == nil {
			// No budget on this account means nothing to exceed.
			continue
		}

		remaining := state.budget.BudgetedAmount.Sub(state.spent)
		state.spent = state.spent.Add(line.LineTotal)
		if state.spent.GreaterThan(state.budget.BudgetedAmount) {
			warnings = append(warnings, domain.OverageWarning{
				LineID:              line.LineID,
				AnalyticalAccountID: accountID,
				Year:                year,
				Month:               state.budget.Month,
				BudgetedAmount:      state.budget.BudgetedAmount,
				Remaining:           remaining,
				Message: fmt.Sprintf("line exceeds budget: %s remaining of %s, line amount %s",
					utils.FormatINR(remaining), utils.FormatINR(state.budget.BudgetedAmount), utils.FormatINR(line.LineTotal)),
			})
		}
	}
	return warnings, nil
}

// buildUtilizationRow fills one cockpit row from the account, its budget
// (nil when none is set) and the actual spend.
func buildUtilizationRow(account domain.AnalyticalAccount, budget *domain.Budget, actual decimal.Decimal) domain.BudgetUtilization {
	row := domain.BudgetUtilization{
		AnalyticalAccountID: account.AnalyticalAccountID,
		AccountCode:         account.Code,
		AccountName:         account.Name,
		Actual:              actual,
		Budgeted:            decimal.Zero,
		Remaining:           actual.Neg(),
		UtilizationPercent:  decimal.Zero,
		NoBudgetSet:         true,
	}
	if budget == nil {
		return row
	}
	row.NoBudgetSet = false
	row.Budgeted = budget.BudgetedAmount
	row.Remaining = budget.BudgetedAmount.Sub(actual)
	if budget.BudgetedAmount.IsPositive() {
		row.UtilizationPercent = actual.Div(budget.BudgetedAmount).Mul(hundred).Round(2)
	}
	return row
}

// periodBudget sums the year's budgets applicable to the period for one
// account. A monthly view prefers the monthly row and falls back to the
// annual one; a yearly view sums everything.
func periodBudget(budgets []domain.Budget, accountID string, month *int) (decimal.Decimal, bool) {
	total := decimal.Zero
	found := false
	var annual *domain.Budget
	for i, b := range budgets {
		if b.AnalyticalAccountID != accountID {
			continue
		}
		if month == nil {
			total = total.Add(b.BudgetedAmount)
			found = true
			continue
		}
		if b.Month != nil && *b.Month == *month {
			total = total.Add(b.BudgetedAmount)
			found = true
		} else if b.Month == nil {
			annual = &budgets[i]
		}
	}
	if month != nil && !found && annual != nil {
		return annual.BudgetedAmount, true
	}
	return total, found
}

// periodActual sums an account's monthly actuals over the period.
func periodActual(byMonth map[int]decimal.Decimal, month *int) decimal.Decimal {
	total := decimal.Zero
	for m, amount := range byMonth {
		if month != nil && m != *month {
			continue
		}
		total = total.Add(amount)
	}
	return total
}
