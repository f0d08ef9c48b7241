package services

import (
	"context"

	"github.com/anayki/biz_erp_app/internal/core/domain"
	"github.com/anayki/biz_erp_app/internal/dto"
)

// AnalyticalAccountSvcFacade manages the cost-center tree.
type AnalyticalAccountSvcFacade interface {
	CreateAccount(ctx context.Context, req dto.CreateAnalyticalAccountRequest, creatorUserID string) (*domain.AnalyticalAccount, error)

	// UpdateAccount edits name/parent/active. Re-parenting is rejected when
	// the new parent is the account itself or one of its descendants.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAnalyticalAccountRequest, userID string) (*domain.AnalyticalAccount, error)

	GetAccountByID(ctx context.Context, accountID string) (*domain.AnalyticalAccount, error)
	ListAccounts(ctx context.Context, includeInactive bool) ([]domain.AnalyticalAccount, error)

	// DeactivateAccount soft-deletes; hard deletion is never offered.
	DeactivateAccount(ctx context.Context, accountID string, userID string) error
}
