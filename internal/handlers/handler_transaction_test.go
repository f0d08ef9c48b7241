package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/anayki/biz_erp_app/internal/apperrors"
	"github.com/anayki/biz_erp_app/internal/core/domain"
	portssvc "github.com/anayki/biz_erp_app/internal/core/ports/services"
	"github.com/anayki/biz_erp_app/internal/dto"
	"github.com/anayki/biz_erp_app/internal/handlers"
	"github.com/anayki/biz_erp_app/internal/middleware"
)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var nextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		nextToken = &tokenVal
	}
	return args.Get(0).([]domain.Transaction), nextToken, args.Error(2)
}

func (m *MockTransactionService) ConfirmTransaction(ctx context.Context, transactionID string, userID string) (*domain.Transaction, []domain.OverageWarning, error) {
	args := m.Called(ctx, transactionID, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var warnings []domain.OverageWarning
	if args.Get(1) != nil {
		warnings = args.Get(1).([]domain.OverageWarning)
	}
	return args.Get(0).(*domain.Transaction), warnings, args.Error(2)
}

func (m *MockTransactionService) CancelTransaction(ctx context.Context, transactionID string, userID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) DeleteTransaction(ctx context.Context, transactionID string, userID string) error {
	args := m.Called(ctx, transactionID, userID)
	return args.Error(0)
}

func (m *MockTransactionService) GetBudgetWarnings(ctx context.Context, transactionID string) ([]domain.OverageWarning, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OverageWarning), args.Error(1)
}

func (m *MockTransactionService) CreateDerivedTransaction(ctx context.Context, sourceTransactionID string, userID string) (*domain.Transaction, error) {
	args := m.Called(ctx, sourceTransactionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Test Suite ---
type TransactionHandlerTestSuite struct {
	suite.Suite
	router                 *gin.Engine
	mockTransactionService *MockTransactionService
	jwtSecret              string
}

func (suite *TransactionHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "erp-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *TransactionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockTransactionService = new(MockTransactionService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterTransactionRoutes(v1, suite.mockTransactionService)
}

// --- Test Cases ---

func (suite *TransactionHandlerTestSuite) TestConfirmTransaction_ReturnsWarnings() {
	transactionID := uuid.NewString()
	userID := uuid.NewString()
	accountID := uuid.NewString()
	month := 7

	dueDate := time.Date(2025, time.August, 13, 0, 0, 0, 0, time.UTC)
	confirmed := &domain.Transaction{
		TransactionID:   transactionID,
		TransactionType: domain.VendorBill,
		Status:          domain.TransactionConfirmed,
		ContactID:       uuid.NewString(),
		TransactionDate: time.Date(2025, time.July, 14, 0, 0, 0, 0, time.UTC),
		DueDate:         &dueDate,
		TotalAmount:     decimal.NewFromInt(5000),
		PaidAmount:      decimal.Zero,
		PaymentStatus:   domain.NotPaid,
	}
	warnings := []domain.OverageWarning{
		{
			LineID:              uuid.NewString(),
			AnalyticalAccountID: accountID,
			Year:                2025,
			Month:               &month,
			BudgetedAmount:      decimal.NewFromInt(50000),
			Remaining:           decimal.NewFromInt(2000),
			Message:             "line exceeds remaining budget",
		},
	}

	suite.mockTransactionService.On("ConfirmTransaction",
		mock.AnythingOfType("*context.valueCtx"),
		transactionID,
		userID,
	).Return(confirmed, warnings, nil).Once()

	url := fmt.Sprintf("/api/v1/transactions/%s/confirm", transactionID)
	req, _ := http.NewRequest(http.MethodPost, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	req.Header.Set("Accept", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code, "Expected status OK")

	var responseBody dto.ConfirmTransactionResponse
	err := json.Unmarshal(w.Body.Bytes(), &responseBody)
	suite.NoError(err, "Failed to unmarshal response body")
	suite.Equal(transactionID, responseBody.Transaction.TransactionID)
	suite.Equal(domain.TransactionConfirmed, responseBody.Transaction.Status)
	suite.Require().Len(responseBody.Warnings, 1)
	suite.Equal(accountID, responseBody.Warnings[0].AnalyticalAccountID)
	suite.True(responseBody.Warnings[0].Remaining.Equal(decimal.NewFromInt(2000)))

	suite.mockTransactionService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestConfirmTransaction_ConflictWhenNotDraft() {
	transactionID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockTransactionService.On("ConfirmTransaction",
		mock.AnythingOfType("*context.valueCtx"),
		transactionID,
		userID,
	).Return(nil, nil, fmt.Errorf("%w: transaction is CONFIRMED", apperrors.ErrConflict)).Once()

	url := fmt.Sprintf("/api/v1/transactions/%s/confirm", transactionID)
	req, _ := http.NewRequest(http.MethodPost, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockTransactionService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestConfirmTransaction_MissingToken() {
	url := fmt.Sprintf("/api/v1/transactions/%s/confirm", uuid.NewString())
	req, _ := http.NewRequest(http.MethodPost, url, nil)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockTransactionService.AssertNotCalled(suite.T(), "ConfirmTransaction", mock.Anything, mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestTransactionHandler(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}
