package repositories

import (
	"context"
	"time"

	"github.com/anayki/biz_erp_app/internal/core/domain"
)

// ListPaymentsFilter narrows ListPayments results. Nil fields mean "any".
type ListPaymentsFilter struct {
	PaymentType *domain.PaymentType
	Status      *domain.PaymentState
}

// PaymentReader defines read operations for payments.
type PaymentReader interface {
	// FindPaymentByID retrieves a payment with its allocations.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// ListPayments retrieves a filtered, token-paginated page of payments
	// (headers only).
	ListPayments(ctx context.Context, filter ListPaymentsFilter, limit int, nextToken *string) ([]domain.Payment, *string, error)

	// FindAllocationsByTransactionID retrieves every allocation (reversed
	// ones included) targeting a transaction, with each allocation's
	// PaymentState set to the owning payment's current state.
	FindAllocationsByTransactionID(ctx context.Context, transactionID string) ([]domain.PaymentAllocation, error)
}

// PaymentWriter defines write operations for payments.
type PaymentWriter interface {
	// SavePayment inserts a DRAFT payment with its allocation rows. Draft
	// allocations have no effect on transaction paid amounts.
	SavePayment(ctx context.Context, payment domain.Payment) error

	// DeleteDraftPayment removes a DRAFT payment and its allocations.
	DeleteDraftPayment(ctx context.Context, paymentID string) error

	// PostPayment atomically flips a DRAFT payment to POSTED, locks every
	// targeted transaction, revalidates each allocation against the
	// outstanding balance under the lock, increments paid amounts and
	// recomputes payment statuses. Partial application is impossible: the
	// whole set commits or rolls back.
	PostPayment(ctx context.Context, paymentID string, userID string, now time.Time) error

	// VoidPayment atomically reverses every non-reversed allocation of a
	// POSTED payment: decrements target paid amounts, recomputes statuses,
	// marks the allocations reversed and sets the payment VOIDED.
	// Allocations are kept for audit, never deleted.
	VoidPayment(ctx context.Context, paymentID string, userID string, now time.Time) error
}

// PaymentRepositoryFacade combines reader and writer.
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
