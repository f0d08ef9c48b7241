package services

import (
	"context"

	"github.com/anayki/biz_erp_app/internal/core/domain"
	"github.com/anayki/biz_erp_app/internal/dto"
)

// TransactionSvcFacade is the transaction engine contract: document
// lifecycle, derived totals and budget-warning surfacing.
type TransactionSvcFacade interface {
	// CreateTransaction validates lines, resolves missing analytical
	// accounts, computes totals and persists a DRAFT document.
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error)

	// UpdateTransaction replaces the lines and header of a DRAFT document,
	// running the same pipeline as create.
	UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error)

	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error)

	// ConfirmTransaction flips DRAFT to CONFIRMED. Overage warnings are
	// returned alongside the confirmed document; they never block.
	ConfirmTransaction(ctx context.Context, transactionID string, userID string) (*domain.Transaction, []domain.OverageWarning, error)

	// CancelTransaction flips a document to CANCELLED and removes its budget
	// contribution. Refused while non-reversed payment allocations exist.
	CancelTransaction(ctx context.Context, transactionID string, userID string) (*domain.Transaction, error)

	// DeleteTransaction removes a DRAFT document outright.
	DeleteTransaction(ctx context.Context, transactionID string, userID string) error

	// GetBudgetWarnings previews the overage warnings a confirm would emit.
	GetBudgetWarnings(ctx context.Context, transactionID string) ([]domain.OverageWarning, error)

	// CreateDerivedTransaction creates the bill for a confirmed PO (or the
	// invoice for a confirmed SO), copying lines with their resolved
	// analytical accounts and linking parent and child.
	CreateDerivedTransaction(ctx context.Context, sourceTransactionID string, userID string) (*domain.Transaction, error)
}
