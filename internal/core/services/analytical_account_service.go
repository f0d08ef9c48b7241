package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/anayki/biz_erp_app/internal/apperrors"
	"github.com/anayki/biz_erp_app/internal/core/domain"
	portsrepo "github.com/anayki/biz_erp_app/internal/core/ports/repositories"
	portssvc "github.com/anayki/biz_erp_app/internal/core/ports/services"
	"github.com/anayki/biz_erp_app/internal/dto"
)

// maxTreeDepth bounds the parent-chain walk as a safety net against
// corrupted data; legitimate trees are far shallower.
const maxTreeDepth = 64

// analyticalAccountService manages the cost-center tree.
type analyticalAccountService struct {
	BaseService
	accountRepo portsrepo.AnalyticalAccountRepositoryFacade
}

// NewAnalyticalAccountService creates a new AnalyticalAccountService.
func NewAnalyticalAccountService(accountRepo portsrepo.AnalyticalAccountRepositoryFacade) portssvc.AnalyticalAccountSvcFacade {
	return &analyticalAccountService{accountRepo: accountRepo}
}

var _ portssvc.AnalyticalAccountSvcFacade = (*analyticalAccountService)(nil)

// CreateAccount creates a new cost center, validating the parent reference.
func (s *analyticalAccountService) CreateAccount(ctx context.Context, req dto.CreateAnalyticalAccountRequest, creatorUserID string) (*domain.AnalyticalAccount, error) {
	if req.ParentAccountID != "" {
		parent, err := s.accountRepo.FindAnalyticalAccountByID(ctx, req.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent analytical account %s", apperrors.ErrReferential, req.ParentAccountID)
			}
			return nil, fmt.Errorf("failed to fetch parent account: %w", err)
		}
		if !parent.IsActive {
			return nil, fmt.Errorf("%w: parent analytical account %s is inactive", apperrors.ErrReferential, req.ParentAccountID)
		}
	}

	now := time.Now().UTC()
	account := domain.AnalyticalAccount{
		AnalyticalAccountID: uuid.NewString(),
		Code:                req.Code,
		Name:                req.Name,
		ParentAccountID:     req.ParentAccountID,
		IsActive:            true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAnalyticalAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save analytical account", slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save analytical account: %w", err)
	}

	s.LogInfo(ctx, "Analytical account created", slog.String("account_id", account.AnalyticalAccountID), slog.String("code", account.Code))
	return &account, nil
}

// UpdateAccount edits name/parent/active. Re-parenting onto the account
// itself or any of its descendants is rejected to keep the tree acyclic.
func (s *analyticalAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAnalyticalAccountRequest, userID string) (*domain.AnalyticalAccount, error) {
	account, err := s.accountRepo.FindAnalyticalAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find analytical account %s: %w", accountID, err)
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
		updated = true
	}
	if req.ParentAccountID != nil && *req.ParentAccountID != account.ParentAccountID {
		if *req.ParentAccountID != "" {
			if err := s.checkNoCycle(ctx, accountID, *req.ParentAccountID); err != nil {
				return nil, err
			}
		}
		account.ParentAccountID = *req.ParentAccountID
		updated = true
	}

	if !updated {
		return account, nil
	}

	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAnalyticalAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update analytical account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update analytical account: %w", err)
	}
	return account, nil
}

// checkNoCycle walks the parent chain upward from newParentID and rejects
// the update if it reaches accountID.
func (s *analyticalAccountService) checkNoCycle(ctx context.Context, accountID, newParentID string) error {
	current := newParentID
	for depth := 0; current != ""; depth++ {
		if depth >= maxTreeDepth {
			return fmt.Errorf("%w: analytical account tree too deep", apperrors.ErrValidation)
		}
		if current == accountID {
			return fmt.Errorf("%w: new parent %s would create a cycle through account %s", apperrors.ErrValidation, newParentID, accountID)
		}
		parent, err := s.accountRepo.FindAnalyticalAccountByID(ctx, current)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: parent analytical account %s", apperrors.ErrReferential, current)
			}
			return fmt.Errorf("failed to walk analytical account parents: %w", err)
		}
		current = parent.ParentAccountID
	}
	return nil
}

// GetAccountByID retrieves one cost center.
func (s *analyticalAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.AnalyticalAccount, error) {
	account, err := s.accountRepo.FindAnalyticalAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find analytical account %s: %w", accountID, err)
	}
	return account, nil
}

// ListAccounts retrieves the cost-center registry.
func (s *analyticalAccountService) ListAccounts(ctx context.Context, includeInactive bool) ([]domain.AnalyticalAccount, error) {
	accounts, err := s.accountRepo.ListAnalyticalAccounts(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list analytical accounts: %w", err)
	}
	return accounts, nil
}

// DeactivateAccount soft-deletes a cost center. Referenced accounts are
// never hard-deleted.
func (s *analyticalAccountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	if err := s.accountRepo.DeactivateAnalyticalAccount(ctx, accountID, userID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate analytical account", slog.String("account_id", accountID))
		return fmt.Errorf("failed to deactivate analytical account %s: %w", accountID, err)
	}
	s.LogInfo(ctx, "Analytical account deactivated", slog.String("account_id", accountID))
	return nil
}
