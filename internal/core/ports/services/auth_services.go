package services

import (
	"context"

	"github.com/anayki/biz_erp_app/internal/dto"
)

// AuthSvcFacade authenticates operators and issues server-signed tokens.
// The engine never trusts a client-supplied identity; callers are
// identified only by the subject of a validated token.
type AuthSvcFacade interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}
