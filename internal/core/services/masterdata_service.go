package services

import (
	"context"
	"fmt"

	"github.com/anayki/biz_erp_app/internal/core/domain"
	portsrepo "github.com/anayki/biz_erp_app/internal/core/ports/repositories"
	portssvc "github.com/anayki/biz_erp_app/internal/core/ports/services"
)

// masterDataService exposes read-only master-data lookups. CRUD on
// contacts, products and categories is owned elsewhere.
type masterDataService struct {
	BaseService
	repo portsrepo.MasterDataRepositoryFacade
}

// NewMasterDataService creates a new MasterDataService.
func NewMasterDataService(repo portsrepo.MasterDataRepositoryFacade) portssvc.MasterDataSvcFacade {
	return &masterDataService{repo: repo}
}

var _ portssvc.MasterDataSvcFacade = (*masterDataService)(nil)

func (s *masterDataService) ListContacts(ctx context.Context, contactType *domain.ContactType) ([]domain.Contact, error) {
	contacts, err := s.repo.ListContacts(ctx, contactType)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

func (s *masterDataService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *masterDataService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
