package domain

// ModelStatus is the lifecycle state of an auto-analytical rule.
type ModelStatus string

const (
	ModelDraft     ModelStatus = "DRAFT"
	ModelConfirmed ModelStatus = "CONFIRMED"
	ModelCancelled ModelStatus = "CANCELLED"
)

// AutoAnalyticalModel is a matching rule that assigns an analytical account
// to a transaction line. Each matching field is optional; a nil field is a
// wildcard that matches any value. Only CONFIRMED and active models take
// part in resolution.
type AutoAnalyticalModel struct {
	ModelID             string      `json:"modelID"` // Primary Key (UUID)
	Name                string      `json:"name"`
	PartnerTag          *string     `json:"partnerTag"`
	PartnerID           *string     `json:"partnerID"`
	CategoryID          *string     `json:"categoryID"`
	ProductID           *string     `json:"productID"`
	AnalyticalAccountID string      `json:"analyticalAccountID"` // Target account (required)
	Status              ModelStatus `json:"status"`
	IsActive            bool        `json:"isActive"`
	AuditFields
}

// LineMatchAttributes are the attributes of a transaction line that rules
// match against. An empty string means the attribute is absent.
type LineMatchAttributes struct {
	PartnerTag string
	PartnerID  string
	CategoryID string
	ProductID  string
}

// Specificity is the number of non-nil matching fields (0-4). A higher
// specificity rule wins over a lower one when both match.
func (m AutoAnalyticalModel) Specificity() int {
	n := 0
	for _, f := range []*string{m.PartnerTag, m.PartnerID, m.CategoryID, m.ProductID} {
		if f != nil {
			n++
		}
	}
	return n
}

// Matches reports whether every non-nil rule field equals the corresponding
// line attribute. Nil fields always match.
func (m AutoAnalyticalModel) Matches(attrs LineMatchAttributes) bool {
	if m.PartnerTag != nil && *m.PartnerTag != attrs.PartnerTag {
		return false
	}
	if m.PartnerID != nil && *m.PartnerID != attrs.PartnerID {
		return false
	}
	if m.CategoryID != nil && *m.CategoryID != attrs.CategoryID {
		return false
	}
	if m.ProductID != nil && *m.ProductID != attrs.ProductID {
		return false
	}
	return true
}
