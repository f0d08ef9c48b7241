package mapping

import (
	"github.com/anayki/biz_erp_app/internal/core/domain"
	"github.com/anayki/biz_erp_app/internal/models"
)

// ToModelAnalyticalAccount converts a domain AnalyticalAccount to a model AnalyticalAccount
func ToModelAnalyticalAccount(d domain.AnalyticalAccount) models.AnalyticalAccount {
	return models.AnalyticalAccount{
		AnalyticalAccountID: d.AnalyticalAccountID,
		Code:                d.Code,
		Name:                d.Name,
		ParentAccountID:     d.ParentAccountID,
		IsActive:            d.IsActive,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAnalyticalAccount converts a model AnalyticalAccount to a domain AnalyticalAccount
func ToDomainAnalyticalAccount(m models.AnalyticalAccount) domain.AnalyticalAccount {
	return domain.AnalyticalAccount{
		AnalyticalAccountID: m.AnalyticalAccountID,
		Code:                m.Code,
		Name:                m.Name,
		ParentAccountID:     m.ParentAccountID,
		IsActive:            m.IsActive,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAnalyticalAccountSlice converts a slice of model AnalyticalAccounts
func ToDomainAnalyticalAccountSlice(ms []models.AnalyticalAccount) []domain.AnalyticalAccount {
	ds := make([]domain.AnalyticalAccount, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAnalyticalAccount(m)
	}
	return ds
}
