package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/anayki/biz_erp_app/internal/apperrors"
	"github.com/anayki/biz_erp_app/internal/core/domain"
	portsrepo "github.com/anayki/biz_erp_app/internal/core/ports/repositories"
	portssvc "github.com/anayki/biz_erp_app/internal/core/ports/services"
	"github.com/anayki/biz_erp_app/internal/core/services"
	"github.com/anayki/biz_erp_app/internal/dto"
)

// --- Mock BudgetRepository ---
type MockBudgetRepository struct {
	mock.Mock
}

var _ portsrepo.BudgetRepositoryFacade = (*MockBudgetRepository)(nil)

func (m *MockBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

func (m *MockBudgetRepository) UpdateBudget(ctx context.Context, budget domain.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

func (m *MockBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	args := m.Called(ctx, budgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) ListBudgets(ctx context.Context, year *int) ([]domain.Budget, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) DeleteBudget(ctx context.Context, budgetID string) error {
	args := m.Called(ctx, budgetID)
	return args.Error(0)
}

func (m *MockBudgetRepository) FindBudgetFor(ctx context.Context, accountID string, year int, month int) (*domain.Budget, error) {
	args := m.Called(ctx, accountID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) GetActualAmount(ctx context.Context, accountID string, year int, month *int) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, year, month)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBudgetRepository) GetActualsByAccountForYear(ctx context.Context, year int) (map[string]map[int]decimal.Decimal, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]map[int]decimal.Decimal), args.Error(1)
}

// --- Test Suite ---

type BudgetServiceTestSuite struct {
	suite.Suite
	mockBudgetRepo  *MockBudgetRepository
	mockAccountRepo *MockAnalyticalAccountRepository
	service         portssvc.BudgetSvcFacade
	userID          string
	accountID       string
	year            int
	month           int
	date            time.Time
}

func (suite *BudgetServiceTestSuite) SetupTest() {
	suite.mockBudgetRepo = new(MockBudgetRepository)
	suite.mockAccountRepo = new(MockAnalyticalAccountRepository)
	suite.service = services.NewBudgetService(suite.mockBudgetRepo, suite.mockAccountRepo)
	suite.userID = uuid.NewString()
	suite.accountID = uuid.NewString()
	suite.date = time.Date(2025, time.July, 14, 0, 0, 0, 0, time.UTC)
	suite.year = suite.date.Year()
	suite.month = int(suite.date.Month())
}

func (suite *BudgetServiceTestSuite) monthlyBudget(amount int64) *domain.Budget {
	month := suite.month
	return &domain.Budget{
		BudgetID:            uuid.NewString(),
		AnalyticalAccountID: suite.accountID,
		Year:                suite.year,
		Month:               &month,
		BudgetedAmount:      decimal.NewFromInt(amount),
	}
}

func line(accountID string, total int64) domain.TransactionLine {
	return domain.TransactionLine{
		LineID:              uuid.NewString(),
		AnalyticalAccountID: &accountID,
		LineTotal:           decimal.NewFromInt(total),
	}
}

func (suite *BudgetServiceTestSuite) TestCreateBudget_NegativeAmount() {
	ctx := context.Background()

	_, err := suite.service.CreateBudget(ctx, dto.CreateBudgetRequest{
		AnalyticalAccountID: suite.accountID,
		Year:                suite.year,
		BudgetedAmount:      decimal.NewFromInt(-100),
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "SaveBudget", mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestCreateBudget_Success() {
	ctx := context.Background()
	account := &domain.AnalyticalAccount{AnalyticalAccountID: suite.accountID, Code: "MKT", Name: "Marketing", IsActive: true}

	suite.mockAccountRepo.On("FindAnalyticalAccountByID", ctx, suite.accountID).Return(account, nil).Once()
	suite.mockBudgetRepo.On("SaveBudget", ctx, mock.AnythingOfType("domain.Budget")).Return(nil).Once()

	budget, err := suite.service.CreateBudget(ctx, dto.CreateBudgetRequest{
		AnalyticalAccountID: suite.accountID,
		Year:                suite.year,
		BudgetedAmount:      decimal.NewFromInt(50000),
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(budget)
	suite.Nil(budget.Month)
	suite.True(budget.BudgetedAmount.Equal(decimal.NewFromInt(50000)))
	suite.mockBudgetRepo.AssertExpectations(suite.T())
}

func (suite *BudgetServiceTestSuite) TestDeleteBudget_RefusedWhileActualsExist() {
	ctx := context.Background()
	budget := suite.monthlyBudget(50000)

	suite.mockBudgetRepo.On("FindBudgetByID", ctx, budget.BudgetID).Return(budget, nil).Once()
	suite.mockBudgetRepo.On("GetActualAmount", ctx, suite.accountID, suite.year, budget.Month).
		Return(decimal.NewFromInt(12000), nil).Once()

	err := suite.service.DeleteBudget(ctx, budget.BudgetID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "DeleteBudget", mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestDeleteBudget_Success() {
	ctx := context.Background()
	budget := suite.monthlyBudget(50000)

	suite.mockBudgetRepo.On("FindBudgetByID", ctx, budget.BudgetID).Return(budget, nil).Once()
	suite.mockBudgetRepo.On("GetActualAmount", ctx, suite.accountID, suite.year, budget.Month).
		Return(decimal.Zero, nil).Once()
	suite.mockBudgetRepo.On("DeleteBudget", ctx, budget.BudgetID).Return(nil).Once()

	err := suite.service.DeleteBudget(ctx, budget.BudgetID)

	suite.Require().NoError(err)
	suite.mockBudgetRepo.AssertExpectations(suite.T())
}

func (suite *BudgetServiceTestSuite) TestGetUtilization_NoBudgetSet() {
	ctx := context.Background()
	account := &domain.AnalyticalAccount{AnalyticalAccountID: suite.accountID, Code: "OPS", Name: "Operations", IsActive: true}

	suite.mockAccountRepo.On("FindAnalyticalAccountByID", ctx, suite.accountID).Return(account, nil).Once()
	suite.mockBudgetRepo.On("FindBudgetFor", ctx, suite.accountID, suite.year, suite.month).Return(nil, nil).Once()
	suite.mockBudgetRepo.On("GetActualAmount", ctx, suite.accountID, suite.year, &suite.month).
		Return(decimal.NewFromInt(3000), nil).Once()

	row, err := suite.service.GetUtilization(ctx, suite.accountID, suite.year, suite.month)

	suite.Require().NoError(err)
	suite.True(row.NoBudgetSet)
	suite.True(row.Budgeted.IsZero())
	suite.True(row.Actual.Equal(decimal.NewFromInt(3000)))
	suite.True(row.UtilizationPercent.IsZero())
}

func (suite *BudgetServiceTestSuite) TestGetUtilization_WithBudget() {
	ctx := context.Background()
	account := &domain.AnalyticalAccount{AnalyticalAccountID: suite.accountID, Code: "MKT", Name: "Marketing", IsActive: true}

	suite.mockAccountRepo.On("FindAnalyticalAccountByID", ctx, suite.accountID).Return(account, nil).Once()
	suite.mockBudgetRepo.On("FindBudgetFor", ctx, suite.accountID, suite.year, suite.month).
		Return(suite.monthlyBudget(50000), nil).Once()
	suite.mockBudgetRepo.On("GetActualAmount", ctx, suite.accountID, suite.year, &suite.month).
		Return(decimal.NewFromInt(12500), nil).Once()

	row, err := suite.service.GetUtilization(ctx, suite.accountID, suite.year, suite.month)

	suite.Require().NoError(err)
	suite.False(row.NoBudgetSet)
	suite.True(row.Remaining.Equal(decimal.NewFromInt(37500)))
	suite.True(row.UtilizationPercent.Equal(decimal.NewFromInt(25)))
}

func (suite *BudgetServiceTestSuite) TestCheckOverage_WarnsWhenLinePushesPastBudget() {
	ctx := context.Background()

	// 48k of 50k already spent; a 5k line tips the account over.
	suite.mockBudgetRepo.On("FindBudgetFor", ctx, suite.accountID, suite.year, suite.month).
		Return(suite.monthlyBudget(50000), nil).Once()
	suite.mockBudgetRepo.On("GetActualAmount", ctx, suite.accountID, suite.year, &suite.month).
		Return(decimal.NewFromInt(48000), nil).Once()

	warnings, err := suite.service.CheckOverage(ctx, []domain.TransactionLine{line(suite.accountID, 5000)}, suite.date)

	suite.Require().NoError(err)
	suite.Require().Len(warnings, 1)
	suite.Equal(suite.accountID, warnings[0].AnalyticalAccountID)
	suite.True(warnings[0].BudgetedAmount.Equal(decimal.NewFromInt(50000)))
	suite.True(warnings[0].Remaining.Equal(decimal.NewFromInt(2000)))
}

func (suite *BudgetServiceTestSuite) TestCheckOverage_NoWarningWithinBudget() {
	ctx := context.Background()

	suite.mockBudgetRepo.On("FindBudgetFor", ctx, suite.accountID, suite.year, suite.month).
		Return(suite.monthlyBudget(50000), nil).Once()
	suite.mockBudgetRepo.On("GetActualAmount", ctx, suite.accountID, suite.year, &suite.month).
		Return(decimal.NewFromInt(10000), nil).Once()

	warnings, err := suite.service.CheckOverage(ctx, []domain.TransactionLine{line(suite.accountID, 5000)}, suite.date)

	suite.Require().NoError(err)
	suite.Empty(warnings)
}

func (suite *BudgetServiceTestSuite) TestCheckOverage_UnbudgetedAccountNeverWarns() {
	ctx := context.Background()

	suite.mockBudgetRepo.On("FindBudgetFor", ctx, suite.accountID, suite.year, suite.month).Return(nil, nil).Once()

	warnings, err := suite.service.CheckOverage(ctx, []domain.TransactionLine{line(suite.accountID, 999999)}, suite.date)

	suite.Require().NoError(err)
	suite.Empty(warnings)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "GetActualAmount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestCheckOverage_LinesAccumulate() {
	ctx := context.Background()

	// Each line alone fits the 10k budget but together they do not; only
	// the tipping line warns.
	suite.mockBudgetRepo.On("FindBudgetFor", ctx, suite.accountID, suite.year, suite.month).
		Return(suite.monthlyBudget(10000), nil).Once()
	suite.mockBudgetRepo.On("GetActualAmount", ctx, suite.accountID, suite.year, &suite.month).
		Return(decimal.Zero, nil).Once()

	first := line(suite.accountID, 6000)
	second := line(suite.accountID, 6000)
	warnings, err := suite.service.CheckOverage(ctx, []domain.TransactionLine{first, second}, suite.date)

	suite.Require().NoError(err)
	suite.Require().Len(warnings, 1)
	suite.Equal(second.LineID, warnings[0].LineID)
	suite.True(warnings[0].Remaining.Equal(decimal.NewFromInt(4000)))
}

func (suite *BudgetServiceTestSuite) TestCheckOverage_AnnualBudgetUsesYearlyActuals() {
	ctx := context.Background()
	annual := &domain.Budget{
		BudgetID:            uuid.NewString(),
		AnalyticalAccountID: suite.accountID,
		Year:                suite.year,
		Month:               nil,
		BudgetedAmount:      decimal.NewFromInt(100000),
	}

	suite.mockBudgetRepo.On("FindBudgetFor", ctx, suite.accountID, suite.year, suite.month).Return(annual, nil).Once()
	suite.mockBudgetRepo.On("GetActualAmount", ctx, suite.accountID, suite.year, (*int)(nil)).
		Return(decimal.NewFromInt(99000), nil).Once()

	warnings, err := suite.service.CheckOverage(ctx, []domain.TransactionLine{line(suite.accountID, 2000)}, suite.date)

	suite.Require().NoError(err)
	suite.Require().Len(warnings, 1)
	suite.Nil(warnings[0].Month)
}

func (suite *BudgetServiceTestSuite) TestGetYearlyTrend_MonthlyBudgetsOnly() {
	ctx := context.Background()
	march := 3
	budgets := []domain.Budget{
		{AnalyticalAccountID: suite.accountID, Year: suite.year, Month: &march, BudgetedAmount: decimal.NewFromInt(5000)},
		{AnalyticalAccountID: suite.accountID, Year: suite.year, Month: nil, BudgetedAmount: decimal.NewFromInt(90000)}, // annual, excluded
	}
	actuals := map[string]map[int]decimal.Decimal{
		suite.accountID: {3: decimal.NewFromInt(4200), 5: decimal.NewFromInt(100)},
	}

	suite.mockBudgetRepo.On("ListBudgets", ctx, &suite.year).Return(budgets, nil).Once()
	suite.mockBudgetRepo.On("GetActualsByAccountForYear", ctx, suite.year).Return(actuals, nil).Once()

	points, err := suite.service.GetYearlyTrend(ctx, suite.year)

	suite.Require().NoError(err)
	suite.Require().Len(points, 12)
	suite.True(points[2].Budgeted.Equal(decimal.NewFromInt(5000)))
	suite.True(points[2].Actual.Equal(decimal.NewFromInt(4200)))
	suite.True(points[4].Actual.Equal(decimal.NewFromInt(100)))
	suite.True(points[0].Budgeted.IsZero())
}

func TestBudgetService(t *testing.T) {
	suite.Run(t, new(BudgetServiceTestSuite))
}
