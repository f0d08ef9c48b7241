package dto

import (
	"github.com/anayki/biz_erp_app/internal/core/domain"
)

// CreateAnalyticalAccountRequest creates a cost center.
type CreateAnalyticalAccountRequest struct {
	Code            string `json:"code" binding:"required"`
	Name            string `json:"name" binding:"required"`
	ParentAccountID string `json:"parentAccountID"`
}

// UpdateAnalyticalAccountRequest edits a cost center. Nil fields are left
// unchanged; an empty-string parent detaches the account from its parent.
type UpdateAnalyticalAccountRequest struct {
	Name            *string `json:"name"`
	ParentAccountID *string `json:"parentAccountID"`
	IsActive        *bool   `json:"isActive"`
}

// AnalyticalAccountResponse mirrors a persisted cost center.
type AnalyticalAccountResponse struct {
	AnalyticalAccountID string `json:"analyticalAccountID"`
	Code                string `json:"code"`
	Name                string `json:"name"`
	ParentAccountID     string `json:"parentAccountID,omitempty"`
	IsActive            bool   `json:"isActive"`
}

// ToAnalyticalAccountResponse converts a domain account to its DTO.
func ToAnalyticalAccountResponse(a *domain.AnalyticalAccount) AnalyticalAccountResponse {
	return AnalyticalAccountResponse{
		AnalyticalAccountID: a.AnalyticalAccountID,
		Code:                a.Code,
		Name:                a.Name,
		ParentAccountID:     a.ParentAccountID,
		IsActive:            a.IsActive,
	}
}

// ToAnalyticalAccountResponses converts a slice of domain accounts.
func ToAnalyticalAccountResponses(accounts []domain.AnalyticalAccount) []AnalyticalAccountResponse {
	responses := make([]AnalyticalAccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAnalyticalAccountResponse(&accounts[i])
	}
	return responses
}
