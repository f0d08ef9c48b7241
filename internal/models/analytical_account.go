package models

// AnalyticalAccount is a cost center row.
// Note: ParentAccountID uses string for nullable foreign key; empty means root.
type AnalyticalAccount struct {
	AnalyticalAccountID string `db:"analytical_account_id"`
	Code                string `db:"code"`
	Name                string `db:"name"`
	ParentAccountID     string `db:"parent_account_id"` // Nullable
	IsActive            bool   `db:"is_active"`
	AuditFields
}
