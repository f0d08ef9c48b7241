package mapping

import (
	"github.com/anayki/biz_erp_app/internal/core/domain"
	"github.com/anayki/biz_erp_app/internal/models"
)

// ToModelBudget converts a domain Budget to a model Budget
func ToModelBudget(d domain.Budget) models.Budget {
	return models.Budget{
		BudgetID:            d.BudgetID,
		AnalyticalAccountID: d.AnalyticalAccountID,
		Year:                d.Year,
		Month:               d.Month,
		BudgetedAmount:      d.BudgetedAmount,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBudget converts a model Budget to a domain Budget
func ToDomainBudget(m models.Budget) domain.Budget {
	return domain.Budget{
		BudgetID:            m.BudgetID,
		AnalyticalAccountID: m.AnalyticalAccountID,
		Year:                m.Year,
		Month:               m.Month,
		BudgetedAmount:      m.BudgetedAmount,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBudgetSlice converts a slice of model Budgets
func ToDomainBudgetSlice(ms []models.Budget) []domain.Budget {
	ds := make([]domain.Budget, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBudget(m)
	}
	return ds
}
