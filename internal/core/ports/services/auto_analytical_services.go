package services

import (
	"context"

	"github.com/anayki/biz_erp_app/internal/core/domain"
	"github.com/anayki/biz_erp_app/internal/dto"
)

// AutoAnalyticalSvcFacade manages auto-analytical rules and performs line
// resolution.
type AutoAnalyticalSvcFacade interface {
	CreateModel(ctx context.Context, req dto.CreateAutoAnalyticalModelRequest, creatorUserID string) (*domain.AutoAnalyticalModel, error)

	// UpdateModel edits a rule. Matching fields are mutable only while the
	// rule is DRAFT; the active flag may be toggled at any time.
	UpdateModel(ctx context.Context, modelID string, req dto.UpdateAutoAnalyticalModelRequest, userID string) (*domain.AutoAnalyticalModel, error)

	GetModelByID(ctx context.Context, modelID string) (*domain.AutoAnalyticalModel, error)
	ListModels(ctx context.Context, params dto.ListModelsParams) ([]domain.AutoAnalyticalModel, error)

	ConfirmModel(ctx context.Context, modelID string, userID string) (*domain.AutoAnalyticalModel, error)
	CancelModel(ctx context.Context, modelID string, userID string) (*domain.AutoAnalyticalModel, error)

	// Resolve picks the analytical account for a line's attributes among
	// CONFIRMED active rules: every non-nil rule field must equal the
	// attribute, the highest specificity wins, ties go to the most recently
	// created rule (then the smallest model ID). Returns nil when no rule
	// matches.
	Resolve(ctx context.Context, attrs domain.LineMatchAttributes) (*string, error)
}
