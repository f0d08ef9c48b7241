package repositories

import (
	"context"

	"github.com/anayki/biz_erp_app/internal/core/domain"
)

// UserRepositoryFacade reads operator accounts for authentication.
type UserRepositoryFacade interface {
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
}
