package repositories

import (
	"context"

	"github.com/anayki/biz_erp_app/internal/core/domain"
)

// MasterDataRepositoryFacade is the read-only lookup contract for master
// data owned by external collaborators (contact/product/category CRUD is
// out of scope here).
type MasterDataRepositoryFacade interface {
	FindContactByID(ctx context.Context, contactID string) (*domain.Contact, error)
	ListContacts(ctx context.Context, contactType *domain.ContactType) ([]domain.Contact, error)

	// FindProductsByIDs retrieves products keyed by ID; missing IDs are
	// absent from the map.
	FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)

	ListCategories(ctx context.Context) ([]domain.Category, error)
}
