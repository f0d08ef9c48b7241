package dto

import (
	"github.com/anayki/biz_erp_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBudgetRequest allocates a budget to an analytical account for a
// year or a specific month.
type CreateBudgetRequest struct {
	AnalyticalAccountID string          `json:"analyticalAccountID" binding:"required"`
	Year                int             `json:"year" binding:"required"`
	Month               *int            `json:"month" binding:"omitempty,min=1,max=12"`
	BudgetedAmount      decimal.Decimal `json:"budgetedAmount" binding:"required"`
}

// UpdateBudgetRequest edits the budgeted amount. Period and account are
// fixed at creation.
type UpdateBudgetRequest struct {
	BudgetedAmount decimal.Decimal `json:"budgetedAmount" binding:"required"`
}

// BudgetResponse mirrors a persisted budget.
type BudgetResponse struct {
	BudgetID            string          `json:"budgetID"`
	AnalyticalAccountID string          `json:"analyticalAccountID"`
	Year                int             `json:"year"`
	Month               *int            `json:"month,omitempty"`
	BudgetedAmount      decimal.Decimal `json:"budgetedAmount"`
}

// ToBudgetResponse converts a domain budget to its response DTO.
func ToBudgetResponse(b *domain.Budget) BudgetResponse {
	return BudgetResponse{
		BudgetID:            b.BudgetID,
		AnalyticalAccountID: b.AnalyticalAccountID,
		Year:                b.Year,
		Month:               b.Month,
		BudgetedAmount:      b.BudgetedAmount,
	}
}

// ToBudgetResponses converts a slice of domain budgets.
func ToBudgetResponses(budgets []domain.Budget) []BudgetResponse {
	responses := make([]BudgetResponse, len(budgets))
	for i := range budgets {
		responses[i] = ToBudgetResponse(&budgets[i])
	}
	return responses
}
