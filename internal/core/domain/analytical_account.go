package domain

// AnalyticalAccount is a cost center used to track budgeted spend.
// Accounts form a tree via ParentAccountID; the tree must stay acyclic.
// Accounts referenced by transaction lines or budgets are never hard-deleted,
// only deactivated.
type AnalyticalAccount struct {
	AnalyticalAccountID string `json:"analyticalAccountID"` // Primary Key (UUID)
	Code                string `json:"code"`                // Unique short code, e.g. "MKT"
	Name                string `json:"name"`
	ParentAccountID     string `json:"parentAccountID"` // Nullable self-reference; "" means root
	IsActive            bool   `json:"isActive"`
	AuditFields
}
