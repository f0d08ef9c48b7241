package services_test

import (
	"context"
	"fmt"
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

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, filter portsrepo.ListTransactionsFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Transaction), returnedNextToken, args.Error(2)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateDraftTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteDraftTransaction(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

func (m *MockTransactionRepository) ConfirmTransaction(ctx context.Context, transactionID string, expectedUpdatedAt time.Time, dueDate *time.Time, changes []domain.BudgetActualChange, userID string, now time.Time) error {
	args := m.Called(ctx, transactionID, expectedUpdatedAt, dueDate, changes, userID, now)
	return args.Error(0)
}

func (m *MockTransactionRepository) CancelTransaction(ctx context.Context, transactionID string, expectedStatus domain.TransactionStatus, changes []domain.BudgetActualChange, userID string, now time.Time) error {
	args := m.Called(ctx, transactionID, expectedStatus, changes, userID, now)
	return args.Error(0)
}

func (m *MockTransactionRepository) SaveDerivedTransaction(ctx context.Context, sourceID string, derived domain.Transaction) error {
	args := m.Called(ctx, sourceID, derived)
	return args.Error(0)
}

// --- Mock MasterDataRepository ---
type MockMasterDataRepository struct {
	mock.Mock
}

var _ portsrepo.MasterDataRepositoryFacade = (*MockMasterDataRepository)(nil)

func (m *MockMasterDataRepository) FindContactByID(ctx context.Context, contactID string) (*domain.Contact, error) {
	args := m.Called(ctx, contactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *MockMasterDataRepository) ListContacts(ctx context.Context, contactType *domain.ContactType) ([]domain.Contact, error) {
	args := m.Called(ctx, contactType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contact), args.Error(1)
}

func (m *MockMasterDataRepository) FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Product), args.Error(1)
}

func (m *MockMasterDataRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockMasterDataRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

// --- Mock AutoAnalyticalService (resolver as seen by the transaction engine) ---
type MockAutoAnalyticalService struct {
	mock.Mock
}

var _ portssvc.AutoAnalyticalSvcFacade = (*MockAutoAnalyticalService)(nil)

func (m *MockAutoAnalyticalService) CreateModel(ctx context.Context, req dto.CreateAutoAnalyticalModelRequest, creatorUserID string) (*domain.AutoAnalyticalModel, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AutoAnalyticalModel), args.Error(1)
}

func (m *MockAutoAnalyticalService) UpdateModel(ctx context.Context, modelID string, req dto.UpdateAutoAnalyticalModelRequest, userID string) (*domain.AutoAnalyticalModel, error) {
	args := m.Called(ctx, modelID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AutoAnalyticalModel), args.Error(1)
}

func (m *MockAutoAnalyticalService) GetModelByID(ctx context.Context, modelID string) (*domain.AutoAnalyticalModel, error) {
	args := m.Called(ctx, modelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AutoAnalyticalModel), args.Error(1)
}

func (m *MockAutoAnalyticalService) ListModels(ctx context.Context, params dto.ListModelsParams) ([]domain.AutoAnalyticalModel, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AutoAnalyticalModel), args.Error(1)
}

func (m *MockAutoAnalyticalService) ConfirmModel(ctx context.Context, modelID string, userID string) (*domain.AutoAnalyticalModel, error) {
	args := m.Called(ctx, modelID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AutoAnalyticalModel), args.Error(1)
}

func (m *MockAutoAnalyticalService) CancelModel(ctx context.Context, modelID string, userID string) (*domain.AutoAnalyticalModel, error) {
	args := m.Called(ctx, modelID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AutoAnalyticalModel), args.Error(1)
}

func (m *MockAutoAnalyticalService) Resolve(ctx context.Context, attrs domain.LineMatchAttributes) (*string, error) {
	args := m.Called(ctx, attrs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

// --- Mock BudgetService ---
type MockBudgetService struct {
	mock.Mock
}

var _ portssvc.BudgetSvcFacade = (*MockBudgetService)(nil)

func (m *MockBudgetService) CreateBudget(ctx context.Context, req dto.CreateBudgetRequest, creatorUserID string) (*domain.Budget, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetService) UpdateBudget(ctx context.Context, budgetID string, req dto.UpdateBudgetRequest, userID string) (*domain.Budget, error) {
	args := m.Called(ctx, budgetID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetService) ListBudgets(ctx context.Context, year *int) ([]domain.Budget, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Budget), args.Error(1)
}

func (m *MockBudgetService) DeleteBudget(ctx context.Context, budgetID string) error {
	args := m.Called(ctx, budgetID)
	return args.Error(0)
}

func (m *MockBudgetService) GetUtilization(ctx context.Context, accountID string, year int, month int) (*domain.BudgetUtilization, error) {
	args := m.Called(ctx, accountID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetUtilization), args.Error(1)
}

func (m *MockBudgetService) GetCockpit(ctx context.Context, year int, month *int) (*domain.BudgetCockpit, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetCockpit), args.Error(1)
}

func (m *MockBudgetService) GetYearlyTrend(ctx context.Context, year int) ([]domain.MonthlyBudgetPoint, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyBudgetPoint), args.Error(1)
}

func (m *MockBudgetService) CheckOverage(ctx context.Context, lines []domain.TransactionLine, date time.Time) ([]domain.OverageWarning, error) {
	args := m.Called(ctx, lines, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OverageWarning), args.Error(1)
}

// --- Mock PaymentReader ---
type MockPaymentReader struct {
	mock.Mock
}

var _ portsrepo.PaymentReader = (*MockPaymentReader)(nil)

func (m *MockPaymentReader) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentReader) ListPayments(ctx context.Context, filter portsrepo.ListPaymentsFilter, limit int, nextToken *string) ([]domain.Payment, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Payment), returnedNextToken, args.Error(2)
}

func (m *MockPaymentReader) FindAllocationsByTransactionID(ctx context.Context, transactionID string) ([]domain.PaymentAllocation, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentAllocation), args.Error(1)
}

// --- Test Suite ---

type TransactionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo        *MockTransactionRepository
	mockPaymentReader  *MockPaymentReader
	mockMasterDataRepo *MockMasterDataRepository
	mockAccountRepo    *MockAnalyticalAccountRepository
	mockResolver       *MockAutoAnalyticalService
	mockBudgetSvc      *MockBudgetService
	service            portssvc.TransactionSvcFacade
	userID             string
	vendor             domain.Contact
	product            domain.Product
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockPaymentReader = new(MockPaymentReader)
	suite.mockMasterDataRepo = new(MockMasterDataRepository)
	suite.mockAccountRepo = new(MockAnalyticalAccountRepository)
	suite.mockResolver = new(MockAutoAnalyticalService)
	suite.mockBudgetSvc = new(MockBudgetService)
	suite.service = services.NewTransactionService(
		suite.mockTxnRepo,
		suite.mockPaymentReader,
		suite.mockMasterDataRepo,
		suite.mockAccountRepo,
		suite.mockResolver,
		suite.mockBudgetSvc,
	)

	suite.userID = uuid.NewString()
	suite.vendor = domain.Contact{
		ContactID:   uuid.NewString(),
		Name:        "Acme Supplies",
		ContactType: domain.ContactVendor,
		Tag:         "wholesale",
		IsActive:    true,
	}
	suite.product = domain.Product{
		ProductID:  uuid.NewString(),
		Name:       "Printer paper",
		CategoryID: uuid.NewString(),
		IsActive:   true,
	}
}

func (suite *TransactionServiceTestSuite) draftBill(lines ...domain.TransactionLine) *domain.Transaction {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal)
	}
	return &domain.Transaction{
		TransactionID:   uuid.NewString(),
		TransactionType: domain.VendorBill,
		Status:          domain.TransactionDraft,
		ContactID:       suite.vendor.ContactID,
		TransactionDate: time.Date(2025, time.July, 14, 0, 0, 0, 0, time.UTC),
		TotalAmount:     total,
		PaidAmount:      decimal.Zero,
		PaymentStatus:   domain.NotPaid,
		Lines:           lines,
	}
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_ResolvesMissingAccount() {
	ctx := context.Background()
	resolvedAccountID := uuid.NewString()
	req := dto.CreateTransactionRequest{
		TransactionType: domain.PurchaseOrder,
		ContactID:       suite.vendor.ContactID,
		TransactionDate: time.Now(),
		Lines: []dto.TransactionLineRequest{
			{
				ProductID: suite.product.ProductID,
				Quantity:  decimal.NewFromInt(2),
				UnitPrice: decimal.NewFromInt(100),
				GSTRate:   decimal.NewFromInt(18),
			},
		},
	}

	suite.mockMasterDataRepo.On("FindContactByID", ctx, suite.vendor.ContactID).Return(&suite.vendor, nil).Once()
	suite.mockMasterDataRepo.On("FindProductsByIDs", ctx, []string{suite.product.ProductID}).
		Return(map[string]domain.Product{suite.product.ProductID: suite.product}, nil).Once()
	suite.mockResolver.On("Resolve", ctx, domain.LineMatchAttributes{
		PartnerTag: suite.vendor.Tag,
		PartnerID:  suite.vendor.ContactID,
		CategoryID: suite.product.CategoryID,
		ProductID:  suite.product.ProductID,
	}).Return(&resolvedAccountID, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.Equal(domain.TransactionDraft, txn.Status)
	suite.Equal(domain.NotPaid, txn.PaymentStatus)
	suite.Require().Len(txn.Lines, 1)
	suite.Require().NotNil(txn.Lines[0].AnalyticalAccountID)
	suite.Equal(resolvedAccountID, *txn.Lines[0].AnalyticalAccountID)
	suite.True(txn.SubTotal.Equal(decimal.NewFromInt(200)))
	suite.True(txn.TaxAmount.Equal(decimal.NewFromInt(36)))
	suite.True(txn.TotalAmount.Equal(decimal.NewFromInt(236)))
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_UnresolvedLineStaysNil() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		TransactionType: domain.PurchaseOrder,
		ContactID:       suite.vendor.ContactID,
		TransactionDate: time.Now(),
		Lines: []dto.TransactionLineRequest{
			{ProductID: suite.product.ProductID, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(50)},
		},
	}

	suite.mockMasterDataRepo.On("FindContactByID", ctx, suite.vendor.ContactID).Return(&suite.vendor, nil).Once()
	suite.mockMasterDataRepo.On("FindProductsByIDs", ctx, []string{suite.product.ProductID}).
		Return(map[string]domain.Product{suite.product.ProductID: suite.product}, nil).Once()
	suite.mockResolver.On("Resolve", ctx, mock.AnythingOfType("domain.LineMatchAttributes")).Return(nil, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Nil(txn.Lines[0].AnalyticalAccountID)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_WrongContactSide() {
	ctx := context.Background()
	customer := domain.Contact{
		ContactID:   uuid.NewString(),
		ContactType: domain.ContactCustomer,
		IsActive:    true,
	}
	req := dto.CreateTransactionRequest{
		TransactionType: domain.PurchaseOrder,
		ContactID:       customer.ContactID,
		TransactionDate: time.Now(),
		Lines: []dto.TransactionLineRequest{
			{ProductID: suite.product.ProductID, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)},
		},
	}

	suite.mockMasterDataRepo.On("FindContactByID", ctx, customer.ContactID).Return(&customer, nil).Once()

	_, err := suite.service.CreateTransaction(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrReferential)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestConfirmTransaction_DefaultsDueDateAndAppliesBudget() {
	ctx := context.Background()
	accountID := uuid.NewString()
	txn := suite.draftBill(domain.TransactionLine{
		LineID:              uuid.NewString(),
		AnalyticalAccountID: &accountID,
		LineTotal:           decimal.NewFromInt(5000),
	})

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()
	suite.mockBudgetSvc.On("CheckOverage", ctx, txn.Lines, txn.TransactionDate).Return([]domain.OverageWarning{}, nil).Once()
	suite.mockTxnRepo.On("ConfirmTransaction", ctx, txn.TransactionID, txn.LastUpdatedAt, mock.AnythingOfType("*time.Time"),
		mock.MatchedBy(func(changes []domain.BudgetActualChange) bool {
			return len(changes) == 1 &&
				changes[0].AnalyticalAccountID == accountID &&
				changes[0].Delta.Equal(decimal.NewFromInt(5000)) &&
				changes[0].Year == 2025 && changes[0].Month == 7
		}), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	confirmed, warnings, err := suite.service.ConfirmTransaction(ctx, txn.TransactionID, suite.userID)

	suite.Require().NoError(err)
	suite.Empty(warnings)
	suite.Equal(domain.TransactionConfirmed, confirmed.Status)
	suite.Require().NotNil(confirmed.DueDate)
	suite.Equal(txn.TransactionDate.AddDate(0, 0, 30), *confirmed.DueDate)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestConfirmTransaction_WarningsNeverBlock() {
	ctx := context.Background()
	accountID := uuid.NewString()
	txn := suite.draftBill(domain.TransactionLine{
		LineID:              uuid.NewString(),
		AnalyticalAccountID: &accountID,
		LineTotal:           decimal.NewFromInt(5000),
	})
	warning := domain.OverageWarning{
		LineID:              txn.Lines[0].LineID,
		AnalyticalAccountID: accountID,
		BudgetedAmount:      decimal.NewFromInt(50000),
		Remaining:           decimal.NewFromInt(2000),
		Message:             "line exceeds budget",
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()
	suite.mockBudgetSvc.On("CheckOverage", ctx, txn.Lines, txn.TransactionDate).Return([]domain.OverageWarning{warning}, nil).Once()
	suite.mockTxnRepo.On("ConfirmTransaction", ctx, txn.TransactionID, txn.LastUpdatedAt, mock.Anything, mock.Anything, suite.userID, mock.Anything).Return(nil).Once()

	confirmed, warnings, err := suite.service.ConfirmTransaction(ctx, txn.TransactionID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(warnings, 1)
	suite.Equal(domain.TransactionConfirmed, confirmed.Status)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestConfirmTransaction_NotDraft() {
	ctx := context.Background()
	txn := suite.draftBill()
	txn.Status = domain.TransactionConfirmed

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()

	_, _, err := suite.service.ConfirmTransaction(ctx, txn.TransactionID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "ConfirmTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestConfirmTransaction_ConcurrentEditConflictsUnderLock() {
	ctx := context.Background()
	accountID := uuid.NewString()
	txn := suite.draftBill(domain.TransactionLine{
		LineID:              uuid.NewString(),
		AnalyticalAccountID: &accountID,
		LineTotal:           decimal.NewFromInt(5000),
	})
	txn.LastUpdatedAt = time.Date(2025, time.July, 14, 10, 30, 0, 0, time.UTC)

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()
	suite.mockBudgetSvc.On("CheckOverage", ctx, txn.Lines, txn.TransactionDate).Return([]domain.OverageWarning{}, nil).Once()
	// The repository rejects the confirm when the row's last_updated_at no
	// longer matches the value the deltas were computed from.
	suite.mockTxnRepo.On("ConfirmTransaction", ctx, txn.TransactionID, txn.LastUpdatedAt, mock.Anything, mock.Anything, suite.userID, mock.Anything).
		Return(fmt.Errorf("%w: transaction %s was modified concurrently, re-read and retry", apperrors.ErrConflict, txn.TransactionID)).Once()

	_, _, err := suite.service.ConfirmTransaction(ctx, txn.TransactionID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCancelTransaction_BlockedByActiveAllocations() {
	ctx := context.Background()
	txn := suite.draftBill()
	txn.Status = domain.TransactionConfirmed

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()
	suite.mockPaymentReader.On("FindAllocationsByTransactionID", ctx, txn.TransactionID).
		Return([]domain.PaymentAllocation{{AllocationID: uuid.NewString(), IsReversed: false, PaymentState: domain.PaymentPosted}}, nil).Once()

	_, err := suite.service.CancelTransaction(ctx, txn.TransactionID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "CancelTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCancelTransaction_DraftPaymentAllocationsDoNotBlock() {
	ctx := context.Background()
	accountID := uuid.NewString()
	txn := suite.draftBill(domain.TransactionLine{
		LineID:              uuid.NewString(),
		AnalyticalAccountID: &accountID,
		LineTotal:           decimal.NewFromInt(1000),
	})
	txn.Status = domain.TransactionConfirmed

	// A DRAFT payment's allocation has not moved money and cannot be voided,
	// so it must not hold the document hostage.
	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()
	suite.mockPaymentReader.On("FindAllocationsByTransactionID", ctx, txn.TransactionID).
		Return([]domain.PaymentAllocation{{AllocationID: uuid.NewString(), IsReversed: false, PaymentState: domain.PaymentDraft}}, nil).Once()
	suite.mockTxnRepo.On("CancelTransaction", ctx, txn.TransactionID, domain.TransactionConfirmed,
		mock.MatchedBy(func(changes []domain.BudgetActualChange) bool {
			return len(changes) == 1 && changes[0].Delta.Equal(decimal.NewFromInt(-1000))
		}), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	cancelled, err := suite.service.CancelTransaction(ctx, txn.TransactionID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.TransactionCancelled, cancelled.Status)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCancelTransaction_ConcurrentConfirmConflictsUnderLock() {
	ctx := context.Background()
	accountID := uuid.NewString()
	txn := suite.draftBill(domain.TransactionLine{
		LineID:              uuid.NewString(),
		AnalyticalAccountID: &accountID,
		LineTotal:           decimal.NewFromInt(1000),
	})

	// Read as DRAFT, so no budget reversal is planned. If another request
	// confirms the document before the lock is taken, the repository must
	// reject the cancel instead of leaving the confirmed spend in place.
	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()
	suite.mockPaymentReader.On("FindAllocationsByTransactionID", ctx, txn.TransactionID).
		Return([]domain.PaymentAllocation{}, nil).Once()
	suite.mockTxnRepo.On("CancelTransaction", ctx, txn.TransactionID, domain.TransactionDraft,
		[]domain.BudgetActualChange(nil), suite.userID, mock.AnythingOfType("time.Time")).
		Return(fmt.Errorf("%w: transaction %s is CONFIRMED, expected DRAFT; re-read and retry", apperrors.ErrConflict, txn.TransactionID)).Once()

	_, err := suite.service.CancelTransaction(ctx, txn.TransactionID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCancelTransaction_ReversedAllocationsDoNotBlock() {
	ctx := context.Background()
	accountID := uuid.NewString()
	txn := suite.draftBill(domain.TransactionLine{
		LineID:              uuid.NewString(),
		AnalyticalAccountID: &accountID,
		LineTotal:           decimal.NewFromInt(1000),
	})
	txn.Status = domain.TransactionConfirmed

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()
	suite.mockPaymentReader.On("FindAllocationsByTransactionID", ctx, txn.TransactionID).
		Return([]domain.PaymentAllocation{{AllocationID: uuid.NewString(), IsReversed: true, PaymentState: domain.PaymentVoided}}, nil).Once()
	suite.mockTxnRepo.On("CancelTransaction", ctx, txn.TransactionID, domain.TransactionConfirmed,
		mock.MatchedBy(func(changes []domain.BudgetActualChange) bool {
			return len(changes) == 1 && changes[0].Delta.Equal(decimal.NewFromInt(-1000))
		}), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	cancelled, err := suite.service.CancelTransaction(ctx, txn.TransactionID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.TransactionCancelled, cancelled.Status)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCancelTransaction_DraftLeavesBudgetUntouched() {
	ctx := context.Background()
	accountID := uuid.NewString()
	txn := suite.draftBill(domain.TransactionLine{
		LineID:              uuid.NewString(),
		AnalyticalAccountID: &accountID,
		LineTotal:           decimal.NewFromInt(1000),
	})

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()
	suite.mockPaymentReader.On("FindAllocationsByTransactionID", ctx, txn.TransactionID).
		Return([]domain.PaymentAllocation{}, nil).Once()
	suite.mockTxnRepo.On("CancelTransaction", ctx, txn.TransactionID, domain.TransactionDraft,
		[]domain.BudgetActualChange(nil), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	cancelled, err := suite.service.CancelTransaction(ctx, txn.TransactionID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.TransactionCancelled, cancelled.Status)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_NotDraft() {
	ctx := context.Background()
	txn := suite.draftBill()
	txn.Status = domain.TransactionConfirmed

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()

	err := suite.service.DeleteTransaction(ctx, txn.TransactionID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "DeleteDraftTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateDerivedTransaction_CopiesResolvedLines() {
	ctx := context.Background()
	accountID := uuid.NewString()
	source := suite.draftBill(domain.TransactionLine{
		LineID:              uuid.NewString(),
		ProductID:           suite.product.ProductID,
		Quantity:            decimal.NewFromInt(2),
		UnitPrice:           decimal.NewFromInt(100),
		GSTRate:             decimal.NewFromInt(18),
		AnalyticalAccountID: &accountID,
		LineTotal:           decimal.NewFromInt(236),
	})
	source.TransactionType = domain.PurchaseOrder
	source.Status = domain.TransactionConfirmed

	suite.mockTxnRepo.On("FindTransactionByID", ctx, source.TransactionID).Return(source, nil).Once()
	suite.mockTxnRepo.On("SaveDerivedTransaction", ctx, source.TransactionID, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()

	derived, err := suite.service.CreateDerivedTransaction(ctx, source.TransactionID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.VendorBill, derived.TransactionType)
	suite.Equal(domain.TransactionDraft, derived.Status)
	suite.Require().NotNil(derived.SourceTransactionID)
	suite.Equal(source.TransactionID, *derived.SourceTransactionID)
	suite.Require().Len(derived.Lines, 1)
	suite.NotEqual(source.Lines[0].LineID, derived.Lines[0].LineID)
	suite.Require().NotNil(derived.Lines[0].AnalyticalAccountID)
	suite.Equal(accountID, *derived.Lines[0].AnalyticalAccountID)
	suite.True(derived.TotalAmount.Equal(source.TotalAmount))
}

func (suite *TransactionServiceTestSuite) TestCreateDerivedTransaction_BillHasNoDerivedType() {
	ctx := context.Background()
	source := suite.draftBill()
	source.Status = domain.TransactionConfirmed

	suite.mockTxnRepo.On("FindTransactionByID", ctx, source.TransactionID).Return(source, nil).Once()

	_, err := suite.service.CreateDerivedTransaction(ctx, source.TransactionID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestCreateDerivedTransaction_AlreadyDerived() {
	ctx := context.Background()
	derivedID := uuid.NewString()
	source := suite.draftBill()
	source.TransactionType = domain.PurchaseOrder
	source.Status = domain.TransactionConfirmed
	source.DerivedTransactionID = &derivedID

	suite.mockTxnRepo.On("FindTransactionByID", ctx, source.TransactionID).Return(source, nil).Once()

	_, err := suite.service.CreateDerivedTransaction(ctx, source.TransactionID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveDerivedTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func TestTransactionService(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
