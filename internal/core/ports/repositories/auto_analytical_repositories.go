package repositories

import (
	"context"
	"time"

	"github.com/anayki/biz_erp_app/internal/core/domain"
)

// ListModelsFilter narrows ListModels results. Nil fields mean "any".
type ListModelsFilter struct {
	Status   *domain.ModelStatus
	IsActive *bool
}

// AutoAnalyticalRepositoryFacade persists auto-analytical rules.
type AutoAnalyticalRepositoryFacade interface {
	SaveModel(ctx context.Context, model domain.AutoAnalyticalModel) error
	UpdateModel(ctx context.Context, model domain.AutoAnalyticalModel) error
	FindModelByID(ctx context.Context, modelID string) (*domain.AutoAnalyticalModel, error)
	ListModels(ctx context.Context, filter ListModelsFilter) ([]domain.AutoAnalyticalModel, error)

	// UpdateModelStatus flips the rule lifecycle status.
	UpdateModelStatus(ctx context.Context, modelID string, status domain.ModelStatus, userID string, now time.Time) error

	// FindResolutionCandidates retrieves all CONFIRMED, active rules.
	// The resolver ranks them in memory.
	FindResolutionCandidates(ctx context.Context) ([]domain.AutoAnalyticalModel, error)
}
