package models

// ModelStatus indicates the state of an auto-analytical rule.
type ModelStatus string

const (
	ModelDraft     ModelStatus = "DRAFT"
	ModelConfirmed ModelStatus = "CONFIRMED"
	ModelCancelled ModelStatus = "CANCELLED"
)

// AutoAnalyticalModel is a rule row. Matching columns are nullable; NULL is
// a wildcard.
type AutoAnalyticalModel struct {
	ModelID             string      `db:"model_id"`
	Name                string      `db:"name"`
	PartnerTag          *string     `db:"partner_tag"`
	PartnerID           *string     `db:"partner_id"`
	CategoryID          *string     `db:"category_id"`
	ProductID           *string     `db:"product_id"`
	AnalyticalAccountID string      `db:"analytical_account_id"`
	Status              ModelStatus `db:"status"`
	IsActive            bool        `db:"is_active"`
	AuditFields
}
