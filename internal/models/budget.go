package models

import "github.com/shopspring/decimal"

// Budget is a budget allocation row. Month is NULL for annual budgets.
type Budget struct {
	BudgetID            string          `db:"budget_id"`
	AnalyticalAccountID string          `db:"analytical_account_id"`
	Year                int             `db:"year"`
	Month               *int            `db:"month"` // Nullable
	BudgetedAmount      decimal.Decimal `db:"budgeted_amount"`
	AuditFields
}

// BudgetActual is one cell of the materialized actuals ledger, keyed by
// (account, year, month). Rows are upserted only inside the confirm/cancel
// database transaction.
type BudgetActual struct {
	AnalyticalAccountID string          `db:"analytical_account_id"`
	Year                int             `db:"year"`
	Month               int             `db:"month"`
	ActualAmount        decimal.Decimal `db:"actual_amount"`
}
