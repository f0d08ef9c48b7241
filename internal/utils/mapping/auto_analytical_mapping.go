package mapping

import (
	"github.com/anayki/biz_erp_app/internal/core/domain"
	"github.com/anayki/biz_erp_app/internal/models"
)

// ToModelAutoAnalyticalModel converts a domain rule to its model
func ToModelAutoAnalyticalModel(d domain.AutoAnalyticalModel) models.AutoAnalyticalModel {
	return models.AutoAnalyticalModel{
		ModelID:             d.ModelID,
		Name:                d.Name,
		PartnerTag:          d.PartnerTag,
		PartnerID:           d.PartnerID,
		CategoryID:          d.CategoryID,
		ProductID:           d.ProductID,
		AnalyticalAccountID: d.AnalyticalAccountID,
		Status:              models.ModelStatus(d.Status),
		IsActive:            d.IsActive,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAutoAnalyticalModel converts a model rule to its domain form
func ToDomainAutoAnalyticalModel(m models.AutoAnalyticalModel) domain.AutoAnalyticalModel {
	return domain.AutoAnalyticalModel{
		ModelID:             m.ModelID,
		Name:                m.Name,
		PartnerTag:          m.PartnerTag,
		PartnerID:           m.PartnerID,
		CategoryID:          m.CategoryID,
		ProductID:           m.ProductID,
		AnalyticalAccountID: m.AnalyticalAccountID,
		Status:              domain.ModelStatus(m.Status),
		IsActive:            m.IsActive,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAutoAnalyticalModelSlice converts a slice of model rules
func ToDomainAutoAnalyticalModelSlice(ms []models.AutoAnalyticalModel) []domain.AutoAnalyticalModel {
	ds := make([]domain.AutoAnalyticalModel, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAutoAnalyticalModel(m)
	}
	return ds
}
