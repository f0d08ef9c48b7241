package domain

import "github.com/shopspring/decimal"

// Budget allocates an amount to an analytical account for a period.
// Month is nil for an annual budget.
type Budget struct {
	BudgetID            string          `json:"budgetID"` // Primary Key (UUID)
	AnalyticalAccountID string          `json:"analyticalAccountID"`
	Year                int             `json:"year"`
	Month               *int            `json:"month"` // 1-12, nil = whole year
	BudgetedAmount      decimal.Decimal `json:"budgetedAmount"`
	AuditFields
}

// BudgetUtilization is one row of the budget cockpit: budgeted vs actual
// for a single analytical account in a period.
type BudgetUtilization struct {
	AnalyticalAccountID string          `json:"analyticalAccountID"`
	AccountCode         string          `json:"accountCode"`
	AccountName         string          `json:"accountName"`
	Budgeted            decimal.Decimal `json:"budgeted"`
	Actual              decimal.Decimal `json:"actual"`
	Remaining           decimal.Decimal `json:"remaining"`
	UtilizationPercent  decimal.Decimal `json:"utilizationPercent"`
	// NoBudgetSet distinguishes "no budget allocated" from a true 0% usage.
	NoBudgetSet bool `json:"noBudgetSet"`
}

// BudgetCockpit aggregates utilization rows with grand totals.
type BudgetCockpit struct {
	Year           int                 `json:"year"`
	Month          *int                `json:"month"`
	Rows           []BudgetUtilization `json:"rows"`
	TotalBudgeted  decimal.Decimal     `json:"totalBudgeted"`
	TotalActual    decimal.Decimal     `json:"totalActual"`
	TotalRemaining decimal.Decimal     `json:"totalRemaining"`
}

// MonthlyBudgetPoint is one month of the yearly trend.
type MonthlyBudgetPoint struct {
	Month    int             `json:"month"` // 1-12
	Budgeted decimal.Decimal `json:"budgeted"`
	Actual   decimal.Decimal `json:"actual"`
}

// OverageWarning is emitted at confirm time when a line would push the
// cumulative actual for its account past the budgeted amount. Warnings
// never block confirmation.
type OverageWarning struct {
	LineID              string          `json:"lineID"`
	AnalyticalAccountID string          `json:"analyticalAccountID"`
	Year                int             `json:"year"`
	Month               *int            `json:"month"`
	BudgetedAmount      decimal.Decimal `json:"budgetedAmount"`
	Remaining           decimal.Decimal `json:"remaining"` // Before this line is applied
	Message             string          `json:"message"`
}

// BudgetActualChange is a delta to the materialized actuals ledger,
// applied atomically with the status change that caused it.
type BudgetActualChange struct {
	AnalyticalAccountID string
	Year                int
	Month               int
	Delta               decimal.Decimal
}
