package services

import (
	"context"

	"github.com/anayki/biz_erp_app/internal/core/domain"
)

// MasterDataSvcFacade exposes the read-only master-data lookups consumed
// from external collaborators.
type MasterDataSvcFacade interface {
	ListContacts(ctx context.Context, contactType *domain.ContactType) ([]domain.Contact, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}
