package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anayki/biz_erp_app/internal/apperrors"
	portsrepo "github.com/anayki/biz_erp_app/internal/core/ports/repositories"
	portssvc "github.com/anayki/biz_erp_app/internal/core/ports/services"
	"github.com/anayki/biz_erp_app/internal/dto"
	"github.com/anayki/biz_erp_app/internal/utils"
)

// authService authenticates operators and issues bearer tokens. Failed
// lookups and bad passwords produce the same error so usernames cannot be
// probed.
type authService struct {
	BaseService
	userRepo  portsrepo.UserRepositoryFacade
	jwtSecret string
	jwtExpiry time.Duration
	jwtIssuer string
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo portsrepo.UserRepositoryFacade, jwtSecret string, jwtExpiry time.Duration, jwtIssuer string) portssvc.AuthSvcFacade {
	return &authService{userRepo: userRepo, jwtSecret: jwtSecret, jwtExpiry: jwtExpiry, jwtIssuer: jwtIssuer}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Login verifies credentials and issues a signed token whose subject is
// the operator's user ID.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.LogInfo(ctx, "Login rejected", slog.String("username", req.Username))
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	token, err := utils.GenerateJWT(user.UserID, s.jwtSecret, s.jwtExpiry, s.jwtIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign token", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &dto.LoginResponse{
		UserID:      user.UserID,
		Name:        user.Name,
		AccessToken: token,
		ExpiresAt:   time.Now().Add(s.jwtExpiry),
	}, nil
}
