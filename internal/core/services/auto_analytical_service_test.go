package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/anayki/biz_erp_app/internal/apperrors"
	"github.com/anayki/biz_erp_app/internal/core/domain"
	portsrepo "github.com/anayki/biz_erp_app/internal/core/ports/repositories"
	portssvc "github.com/anayki/biz_erp_app/internal/core/ports/services"
	"github.com/anayki/biz_erp_app/internal/core/services"
	"github.com/anayki/biz_erp_app/internal/dto"
)

// --- Mock AutoAnalyticalRepository ---
type MockAutoAnalyticalRepository struct {
	mock.Mock
}

var _ portsrepo.AutoAnalyticalRepositoryFacade = (*MockAutoAnalyticalRepository)(nil)

func (m *MockAutoAnalyticalRepository) SaveModel(ctx context.Context, model domain.AutoAnalyticalModel) error {
	args := m.Called(ctx, model)
	return args.Error(0)
}

func (m *MockAutoAnalyticalRepository) UpdateModel(ctx context.Context, model domain.AutoAnalyticalModel) error {
	args := m.Called(ctx, model)
	return args.Error(0)
}

func (m *MockAutoAnalyticalRepository) FindModelByID(ctx context.Context, modelID string) (*domain.AutoAnalyticalModel, error) {
	args := m.Called(ctx, modelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AutoAnalyticalModel), args.Error(1)
}

func (m *MockAutoAnalyticalRepository) ListModels(ctx context.Context, filter portsrepo.ListModelsFilter) ([]domain.AutoAnalyticalModel, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AutoAnalyticalModel), args.Error(1)
}

func (m *MockAutoAnalyticalRepository) UpdateModelStatus(ctx context.Context, modelID string, status domain.ModelStatus, userID string, now time.Time) error {
	args := m.Called(ctx, modelID, status, userID, now)
	return args.Error(0)
}

func (m *MockAutoAnalyticalRepository) FindResolutionCandidates(ctx context.Context) ([]domain.AutoAnalyticalModel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AutoAnalyticalModel), args.Error(1)
}

// --- Mock AnalyticalAccountRepository ---
type MockAnalyticalAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AnalyticalAccountRepositoryFacade = (*MockAnalyticalAccountRepository)(nil)

func (m *MockAnalyticalAccountRepository) FindAnalyticalAccountByID(ctx context.Context, accountID string) (*domain.AnalyticalAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalyticalAccount), args.Error(1)
}

func (m *MockAnalyticalAccountRepository) FindAnalyticalAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.AnalyticalAccount, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.AnalyticalAccount), args.Error(1)
}

func (m *MockAnalyticalAccountRepository) ListAnalyticalAccounts(ctx context.Context, includeInactive bool) ([]domain.AnalyticalAccount, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AnalyticalAccount), args.Error(1)
}

func (m *MockAnalyticalAccountRepository) SaveAnalyticalAccount(ctx context.Context, account domain.AnalyticalAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAnalyticalAccountRepository) UpdateAnalyticalAccount(ctx context.Context, account domain.AnalyticalAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAnalyticalAccountRepository) DeactivateAnalyticalAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

// --- Test Suite ---

type AutoAnalyticalServiceTestSuite struct {
	suite.Suite
	mockModelRepo   *MockAutoAnalyticalRepository
	mockAccountRepo *MockAnalyticalAccountRepository
	service         portssvc.AutoAnalyticalSvcFacade
	userID          string
	accountID       string
}

func (suite *AutoAnalyticalServiceTestSuite) SetupTest() {
	suite.mockModelRepo = new(MockAutoAnalyticalRepository)
	suite.mockAccountRepo = new(MockAnalyticalAccountRepository)
	suite.service = services.NewAutoAnalyticalService(suite.mockModelRepo, suite.mockAccountRepo)
	suite.userID = uuid.NewString()
	suite.accountID = uuid.NewString()
}

func (suite *AutoAnalyticalServiceTestSuite) activeAccount() *domain.AnalyticalAccount {
	return &domain.AnalyticalAccount{
		AnalyticalAccountID: suite.accountID,
		Code:                "MKT",
		Name:                "Marketing",
		IsActive:            true,
	}
}

// confirmedRule builds a CONFIRMED active rule with the given matching
// fields and creation time.
func confirmedRule(accountID string, createdAt time.Time, partnerTag, partnerID, categoryID, productID *string) domain.AutoAnalyticalModel {
	return domain.AutoAnalyticalModel{
		ModelID:             uuid.NewString(),
		Name:                "rule",
		PartnerTag:          partnerTag,
		PartnerID:           partnerID,
		CategoryID:          categoryID,
		ProductID:           productID,
		AnalyticalAccountID: accountID,
		Status:              domain.ModelConfirmed,
		IsActive:            true,
		AuditFields: domain.AuditFields{
			CreatedAt: createdAt,
		},
	}
}

func strPtr(s string) *string { return &s }

func (suite *AutoAnalyticalServiceTestSuite) TestCreateModel_Success() {
	ctx := context.Background()
	req := dto.CreateAutoAnalyticalModelRequest{
		Name:                "Office supplies to MKT",
		CategoryID:          strPtr(uuid.NewString()),
		AnalyticalAccountID: suite.accountID,
	}

	suite.mockAccountRepo.On("FindAnalyticalAccountByID", ctx, suite.accountID).Return(suite.activeAccount(), nil).Once()
	suite.mockModelRepo.On("SaveModel", ctx, mock.AnythingOfType("domain.AutoAnalyticalModel")).Return(nil).Once()

	model, err := suite.service.CreateModel(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(model)
	suite.Equal(domain.ModelDraft, model.Status)
	suite.True(model.IsActive)
	suite.Equal(1, model.Specificity())
	suite.mockModelRepo.AssertExpectations(suite.T())
}

func (suite *AutoAnalyticalServiceTestSuite) TestCreateModel_InactiveTargetAccount() {
	ctx := context.Background()
	inactive := suite.activeAccount()
	inactive.IsActive = false

	suite.mockAccountRepo.On("FindAnalyticalAccountByID", ctx, suite.accountID).Return(inactive, nil).Once()

	_, err := suite.service.CreateModel(ctx, dto.CreateAutoAnalyticalModelRequest{
		Name:                "bad rule",
		AnalyticalAccountID: suite.accountID,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrReferential)
	suite.mockModelRepo.AssertNotCalled(suite.T(), "SaveModel", mock.Anything, mock.Anything)
}

func (suite *AutoAnalyticalServiceTestSuite) TestUpdateModel_MatchingFieldsFrozenAfterConfirm() {
	ctx := context.Background()
	model := confirmedRule(suite.accountID, time.Now(), nil, nil, strPtr(uuid.NewString()), nil)

	suite.mockModelRepo.On("FindModelByID", ctx, model.ModelID).Return(&model, nil).Once()

	_, err := suite.service.UpdateModel(ctx, model.ModelID, dto.UpdateAutoAnalyticalModelRequest{
		ProductID: strPtr(uuid.NewString()),
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockModelRepo.AssertNotCalled(suite.T(), "UpdateModel", mock.Anything, mock.Anything)
}

func (suite *AutoAnalyticalServiceTestSuite) TestUpdateModel_ActiveFlagAllowedAfterConfirm() {
	ctx := context.Background()
	model := confirmedRule(suite.accountID, time.Now(), nil, nil, strPtr(uuid.NewString()), nil)
	inactive := false

	suite.mockModelRepo.On("FindModelByID", ctx, model.ModelID).Return(&model, nil).Once()
	suite.mockModelRepo.On("UpdateModel", ctx, mock.AnythingOfType("domain.AutoAnalyticalModel")).Return(nil).Once()

	updated, err := suite.service.UpdateModel(ctx, model.ModelID, dto.UpdateAutoAnalyticalModelRequest{
		IsActive: &inactive,
	}, suite.userID)

	suite.Require().NoError(err)
	suite.False(updated.IsActive)
	suite.Equal(domain.ModelConfirmed, updated.Status)
	suite.mockModelRepo.AssertExpectations(suite.T())
}

func (suite *AutoAnalyticalServiceTestSuite) TestConfirmModel_NotDraft() {
	ctx := context.Background()
	model := confirmedRule(suite.accountID, time.Now(), nil, nil, nil, nil)

	suite.mockModelRepo.On("FindModelByID", ctx, model.ModelID).Return(&model, nil).Once()

	_, err := suite.service.ConfirmModel(ctx, model.ModelID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockModelRepo.AssertNotCalled(suite.T(), "UpdateModelStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AutoAnalyticalServiceTestSuite) TestResolve_MoreSpecificRuleWins() {
	ctx := context.Background()
	categoryID := uuid.NewString()
	productID := uuid.NewString()
	categoryAccount := uuid.NewString()
	productAccount := uuid.NewString()

	categoryRule := confirmedRule(categoryAccount, time.Now().Add(-time.Hour), nil, nil, &categoryID, nil)
	categoryAndProductRule := confirmedRule(productAccount, time.Now().Add(-2*time.Hour), nil, nil, &categoryID, &productID)

	suite.mockModelRepo.On("FindResolutionCandidates", ctx).
		Return([]domain.AutoAnalyticalModel{categoryRule, categoryAndProductRule}, nil).Once()

	resolved, err := suite.service.Resolve(ctx, domain.LineMatchAttributes{
		CategoryID: categoryID,
		ProductID:  productID,
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(resolved)
	suite.Equal(productAccount, *resolved)
}

func (suite *AutoAnalyticalServiceTestSuite) TestResolve_NoMatchReturnsNil() {
	ctx := context.Background()
	rule := confirmedRule(suite.accountID, time.Now(), nil, nil, strPtr(uuid.NewString()), nil)

	suite.mockModelRepo.On("FindResolutionCandidates", ctx).
		Return([]domain.AutoAnalyticalModel{rule}, nil).Once()

	resolved, err := suite.service.Resolve(ctx, domain.LineMatchAttributes{
		CategoryID: uuid.NewString(),
		ProductID:  uuid.NewString(),
	})

	suite.Require().NoError(err)
	suite.Nil(resolved)
}

func (suite *AutoAnalyticalServiceTestSuite) TestResolve_TieGoesToNewestRule() {
	ctx := context.Background()
	categoryID := uuid.NewString()
	olderAccount := uuid.NewString()
	newerAccount := uuid.NewString()

	older := confirmedRule(olderAccount, time.Now().Add(-24*time.Hour), nil, nil, &categoryID, nil)
	newer := confirmedRule(newerAccount, time.Now(), nil, nil, &categoryID, nil)

	suite.mockModelRepo.On("FindResolutionCandidates", ctx).
		Return([]domain.AutoAnalyticalModel{older, newer}, nil).Once()

	resolved, err := suite.service.Resolve(ctx, domain.LineMatchAttributes{CategoryID: categoryID})

	suite.Require().NoError(err)
	suite.Require().NotNil(resolved)
	suite.Equal(newerAccount, *resolved)
}

func (suite *AutoAnalyticalServiceTestSuite) TestResolve_CatchAllMatchesEverything() {
	ctx := context.Background()
	catchAll := confirmedRule(suite.accountID, time.Now(), nil, nil, nil, nil)

	suite.mockModelRepo.On("FindResolutionCandidates", ctx).
		Return([]domain.AutoAnalyticalModel{catchAll}, nil).Once()

	resolved, err := suite.service.Resolve(ctx, domain.LineMatchAttributes{
		PartnerTag: "wholesale",
		ProductID:  uuid.NewString(),
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(resolved)
	suite.Equal(suite.accountID, *resolved)
}

func TestAutoAnalyticalService(t *testing.T) {
	suite.Run(t, new(AutoAnalyticalServiceTestSuite))
}
