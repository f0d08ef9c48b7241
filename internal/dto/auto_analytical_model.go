package dto

import (
	"github.com/anayki/biz_erp_app/internal/core/domain"
)

// CreateAutoAnalyticalModelRequest creates a DRAFT rule. Every matching
// field is optional; a rule with none acts as a catch-all.
type CreateAutoAnalyticalModelRequest struct {
	Name                string  `json:"name" binding:"required"`
	PartnerTag          *string `json:"partnerTag"`
	PartnerID           *string `json:"partnerID"`
	CategoryID          *string `json:"categoryID"`
	ProductID           *string `json:"productID"`
	AnalyticalAccountID string  `json:"analyticalAccountID" binding:"required"`
}

// UpdateAutoAnalyticalModelRequest edits a rule. Matching fields and the
// target account are mutable only while the rule is DRAFT.
type UpdateAutoAnalyticalModelRequest struct {
	Name                *string `json:"name"`
	PartnerTag          *string `json:"partnerTag"`
	PartnerID           *string `json:"partnerID"`
	CategoryID          *string `json:"categoryID"`
	ProductID           *string `json:"productID"`
	AnalyticalAccountID *string `json:"analyticalAccountID"`
	IsActive            *bool   `json:"isActive"`
}

// ListModelsParams filters rule listings.
type ListModelsParams struct {
	Status   *domain.ModelStatus `form:"status"`
	IsActive *bool               `form:"active"`
}

// AutoAnalyticalModelResponse mirrors a persisted rule.
type AutoAnalyticalModelResponse struct {
	ModelID             string             `json:"modelID"`
	Name                string             `json:"name"`
	PartnerTag          *string            `json:"partnerTag,omitempty"`
	PartnerID           *string            `json:"partnerID,omitempty"`
	CategoryID          *string            `json:"categoryID,omitempty"`
	ProductID           *string            `json:"productID,omitempty"`
	AnalyticalAccountID string             `json:"analyticalAccountID"`
	Status              domain.ModelStatus `json:"status"`
	IsActive            bool               `json:"isActive"`
	Specificity         int                `json:"specificity"`
}

// ToAutoAnalyticalModelResponse converts a domain rule to its DTO.
func ToAutoAnalyticalModelResponse(m *domain.AutoAnalyticalModel) AutoAnalyticalModelResponse {
	return AutoAnalyticalModelResponse{
		ModelID:             m.ModelID,
		Name:                m.Name,
		PartnerTag:          m.PartnerTag,
		PartnerID:           m.PartnerID,
		CategoryID:          m.CategoryID,
		ProductID:           m.ProductID,
		AnalyticalAccountID: m.AnalyticalAccountID,
		Status:              m.Status,
		IsActive:            m.IsActive,
		Specificity:         m.Specificity(),
	}
}

// ToAutoAnalyticalModelResponses converts a slice of domain rules.
func ToAutoAnalyticalModelResponses(models []domain.AutoAnalyticalModel) []AutoAnalyticalModelResponse {
	responses := make([]AutoAnalyticalModelResponse, len(models))
	for i := range models {
		responses[i] = ToAutoAnalyticalModelResponse(&models[i])
	}
	return responses
}
