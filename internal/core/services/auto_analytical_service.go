package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/anayki/biz_erp_app/internal/apperrors"
	"github.com/anayki/biz_erp_app/internal/core/domain"
	portsrepo "github.com/anayki/biz_erp_app/internal/core/ports/repositories"
	portssvc "github.com/anayki/biz_erp_app/internal/core/ports/services"
	"github.com/anayki/biz_erp_app/internal/dto"
)

// autoAnalyticalService manages rules and resolves analytical accounts for
// transaction lines.
type autoAnalyticalService struct {
	BaseService
	modelRepo   portsrepo.AutoAnalyticalRepositoryFacade
	accountRepo portsrepo.AnalyticalAccountRepositoryFacade
}

// NewAutoAnalyticalService creates a new AutoAnalyticalService.
func NewAutoAnalyticalService(modelRepo portsrepo.AutoAnalyticalRepositoryFacade, accountRepo portsrepo.AnalyticalAccountRepositoryFacade) portssvc.AutoAnalyticalSvcFacade {
	return &autoAnalyticalService{modelRepo: modelRepo, accountRepo: accountRepo}
}

var _ portssvc.AutoAnalyticalSvcFacade = (*autoAnalyticalService)(nil)

func (s *autoAnalyticalService) validateTargetAccount(ctx context.Context, accountID string) error {
	account, err := s.accountRepo.FindAnalyticalAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: analytical account %s", apperrors.ErrReferential, accountID)
		}
		return fmt.Errorf("failed to fetch analytical account: %w", err)
	}
	if !account.IsActive {
		return fmt.Errorf("%w: analytical account %s is inactive", apperrors.ErrReferential, accountID)
	}
	return nil
}

// CreateModel creates a DRAFT rule after validating the target account.
func (s *autoAnalyticalService) CreateModel(ctx context.Context, req dto.CreateAutoAnalyticalModelRequest, creatorUserID string) (*domain.AutoAnalyticalModel, error) {
	if err := s.validateTargetAccount(ctx, req.AnalyticalAccountID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	model := domain.AutoAnalyticalModel{
		ModelID:             uuid.NewString(),
		Name:                req.Name,
		PartnerTag:          req.PartnerTag,
		PartnerID:           req.PartnerID,
		CategoryID:          req.CategoryID,
		ProductID:           req.ProductID,
		AnalyticalAccountID: req.AnalyticalAccountID,
		Status:              domain.ModelDraft,
		IsActive:            true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.modelRepo.SaveModel(ctx, model); err != nil {
		s.LogError(ctx, err, "Failed to save auto-analytical model", slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to save auto-analytical model: %w", err)
	}

	s.LogInfo(ctx, "Auto-analytical model created", slog.String("model_id", model.ModelID), slog.Int("specificity", model.Specificity()))
	return &model, nil
}

// UpdateModel edits a rule. Matching fields and the target account change
// only while DRAFT; the active flag may be toggled in any state but
// CANCELLED.
func (s *autoAnalyticalService) UpdateModel(ctx context.Context, modelID string, req dto.UpdateAutoAnalyticalModelRequest, userID string) (*domain.AutoAnalyticalModel, error) {
	model, err := s.modelRepo.FindModelByID(ctx, modelID)
	if err != nil {
		return nil, fmt.Errorf("failed to find auto-analytical model %s: %w", modelID, err)
	}
	if model.Status == domain.ModelCancelled {
		return nil, fmt.Errorf("%w: model %s is CANCELLED", apperrors.ErrConflict, modelID)
	}

	touchesMatching := req.PartnerTag != nil || req.PartnerID != nil || req.CategoryID != nil ||
		req.ProductID != nil || req.AnalyticalAccountID != nil
	if touchesMatching && model.Status != domain.ModelDraft {
		return nil, fmt.Errorf("%w: matching fields of model %s are frozen in status %s", apperrors.ErrConflict, modelID, model.Status)
	}

	if req.Name != nil {
		model.Name = *req.Name
	}
	if req.PartnerTag != nil {
		model.PartnerTag = nilIfEmpty(*req.PartnerTag)
	}
	if req.PartnerID != nil {
		model.PartnerID = nilIfEmpty(*req.PartnerID)
	}
	if req.CategoryID != nil {
		model.CategoryID = nilIfEmpty(*req.CategoryID)
	}
	if req.ProductID != nil {
		model.ProductID = nilIfEmpty(*req.ProductID)
	}
	if req.AnalyticalAccountID != nil {
		if err := s.validateTargetAccount(ctx, *req.AnalyticalAccountID); err != nil {
			return nil, err
		}
		model.AnalyticalAccountID = *req.AnalyticalAccountID
	}
	if req.IsActive != nil {
		model.IsActive = *req.IsActive
	}

	model.LastUpdatedAt = time.Now().UTC()
	model.LastUpdatedBy = userID

	if err := s.modelRepo.UpdateModel(ctx, *model); err != nil {
		s.LogError(ctx, err, "Failed to update auto-analytical model", slog.String("model_id", modelID))
		return nil, fmt.Errorf("failed to update auto-analytical model: %w", err)
	}
	return model, nil
}

// GetModelByID retrieves one rule.
func (s *autoAnalyticalService) GetModelByID(ctx context.Context, modelID string) (*domain.AutoAnalyticalModel, error) {
	model, err := s.modelRepo.FindModelByID(ctx, modelID)
	if err != nil {
		return nil, fmt.Errorf("failed to find auto-analytical model %s: %w", modelID, err)
	}
	return model, nil
}

// ListModels retrieves rules matching the filter.
func (s *autoAnalyticalService) ListModels(ctx context.Context, params dto.ListModelsParams) ([]domain.AutoAnalyticalModel, error) {
	models, err := s.modelRepo.ListModels(ctx, portsrepo.ListModelsFilter{
		Status:   params.Status,
		IsActive: params.IsActive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list auto-analytical models: %w", err)
	}
	return models, nil
}

// ConfirmModel moves a DRAFT rule to CONFIRMED, making it eligible for
// resolution.
func (s *autoAnalyticalService) ConfirmModel(ctx context.Context, modelID string, userID string) (*domain.AutoAnalyticalModel, error) {
	model, err := s.modelRepo.FindModelByID(ctx, modelID)
	if err != nil {
		return nil, fmt.Errorf("failed to find auto-analytical model %s: %w", modelID, err)
	}
	if model.Status != domain.ModelDraft {
		return nil, fmt.Errorf("%w: model %s status is %s, expected DRAFT", apperrors.ErrConflict, modelID, model.Status)
	}

	now := time.Now().UTC()
	if err := s.modelRepo.UpdateModelStatus(ctx, modelID, domain.ModelConfirmed, userID, now); err != nil {
		return nil, fmt.Errorf("failed to confirm auto-analytical model: %w", err)
	}
	model.Status = domain.ModelConfirmed
	model.LastUpdatedAt = now
	model.LastUpdatedBy = userID
	s.LogInfo(ctx, "Auto-analytical model confirmed", slog.String("model_id", modelID))
	return model, nil
}

// CancelModel retires a rule. CANCELLED is terminal.
func (s *autoAnalyticalService) CancelModel(ctx context.Context, modelID string, userID string) (*domain.AutoAnalyticalModel, error) {
	model, err := s.modelRepo.FindModelByID(ctx, modelID)
	if err != nil {
		return nil, fmt.Errorf("failed to find auto-analytical model %s: %w", modelID, err)
	}
	if model.Status == domain.ModelCancelled {
		return nil, fmt.Errorf("%w: model %s is already CANCELLED", apperrors.ErrConflict, modelID)
	}

	now := time.Now().UTC()
	if err := s.modelRepo.UpdateModelStatus(ctx, modelID, domain.ModelCancelled, userID, now); err != nil {
		return nil, fmt.Errorf("failed to cancel auto-analytical model: %w", err)
	}
	model.Status = domain.ModelCancelled
	model.LastUpdatedAt = now
	model.LastUpdatedBy = userID
	s.LogInfo(ctx, "Auto-analytical model cancelled", slog.String("model_id", modelID))
	return model, nil
}

// Resolve picks the analytical account for a line's attributes, or nil when
// no CONFIRMED active rule matches. Resolution runs once per line at save
// time; rule changes are never applied retroactively.
func (s *autoAnalyticalService) Resolve(ctx context.Context, attrs domain.LineMatchAttributes) (*string, error) {
	candidates, err := s.modelRepo.FindResolutionCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resolution candidates: %w", err)
	}

	best := pickBestModel(candidates, attrs)
	if best == nil {
		s.LogDebug(ctx, "No auto-analytical rule matched", slog.String("product_id", attrs.ProductID), slog.String("partner_id", attrs.PartnerID))
		return nil, nil
	}

	s.LogDebug(ctx, "Auto-analytical rule matched",
		slog.String("model_id", best.ModelID),
		slog.Int("specificity", best.Specificity()),
		slog.String("account_id", best.AnalyticalAccountID))
	accountID := best.AnalyticalAccountID
	return &accountID, nil
}

// pickBestModel ranks matching rules: highest specificity first, then most
// recently created, then smallest model ID so the choice is stable for
// identical input.
func pickBestModel(models []domain.AutoAnalyticalModel, attrs domain.LineMatchAttributes) *domain.AutoAnalyticalModel {
	matched := make([]domain.AutoAnalyticalModel, 0, len(models))
	for _, m := range models {
		if m.Matches(attrs) {
			matched = append(matched, m)
		}
	}
	if len(matched) == 0 {
		return nil
	}

	sort.Slice(matched, func(i, j int) bool {
		si, sj := matched[i].Specificity(), matched[j].Specificity()
		if si != sj {
			return si > sj
		}
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ModelID < matched[j].ModelID
	})
	return &matched[0]
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
