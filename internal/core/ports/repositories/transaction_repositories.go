package repositories

import (
	"context"
	"time"

	"github.com/anayki/biz_erp_app/internal/core/domain"
)

// ListTransactionsFilter narrows ListTransactions results. Nil fields mean "any".
type ListTransactionsFilter struct {
	TransactionType *domain.TransactionType
	Status          *domain.TransactionStatus
	ContactID       *string
}

// TransactionReader defines read operations for transactions.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction with its lines.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a filtered, token-paginated page of
	// transactions (headers only, no lines).
	ListTransactions(ctx context.Context, filter ListTransactionsFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// TransactionWriter defines write operations for transactions.
type TransactionWriter interface {
	// SaveTransaction inserts a new DRAFT transaction with its lines.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdateDraftTransaction replaces the header fields and all lines of a
	// DRAFT transaction. Fails with a conflict if the row is no longer DRAFT.
	UpdateDraftTransaction(ctx context.Context, txn domain.Transaction) error

	// DeleteDraftTransaction removes a DRAFT transaction and its lines.
	DeleteDraftTransaction(ctx context.Context, transactionID string) error

	// ConfirmTransaction atomically flips a DRAFT transaction to CONFIRMED,
	// sets dueDate/paymentStatus for payable types and applies the budget
	// actual deltas, all inside one database transaction. The row is locked
	// and both its status and last_updated_at re-checked under the lock:
	// expectedUpdatedAt must match the value the caller read, so deltas
	// computed from stale lines are rejected rather than applied.
	ConfirmTransaction(ctx context.Context, transactionID string, expectedUpdatedAt time.Time, dueDate *time.Time, changes []domain.BudgetActualChange, userID string, now time.Time) error

	// CancelTransaction atomically flips a transaction to CANCELLED and
	// reverses its budget actual contribution. The row is locked and its
	// status compared to expectedStatus, the status the caller computed the
	// reversal deltas from; any difference (a concurrent confirm or cancel)
	// is a conflict. Also fails with a conflict while non-reversed
	// allocations of posted payments target the transaction.
	CancelTransaction(ctx context.Context, transactionID string, expectedStatus domain.TransactionStatus, changes []domain.BudgetActualChange, userID string, now time.Time) error

	// SaveDerivedTransaction inserts the derived DRAFT document and links
	// parent and child in one database transaction. Fails with a conflict if
	// the source already has a derived child or is not CONFIRMED.
	SaveDerivedTransaction(ctx context.Context, sourceID string, derived domain.Transaction) error
}

// TransactionRepositoryFacade combines reader and writer.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
