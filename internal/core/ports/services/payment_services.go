package services

import (
	"context"

	"github.com/anayki/biz_erp_app/internal/core/domain"
	"github.com/anayki/biz_erp_app/internal/dto"
)

// PaymentSvcFacade is the payment allocation engine contract.
type PaymentSvcFacade interface {
	// CreatePayment validates the payment and its allocations against the
	// targeted transactions and persists a DRAFT payment. When the request
	// asks for immediate posting the payment is posted in the same call.
	CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, creatorUserID string) (*domain.Payment, error)

	GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)
	ListPayments(ctx context.Context, params dto.ListPaymentsParams) ([]domain.Payment, *string, error)

	// ConfirmPayment posts a DRAFT payment, applying every allocation to its
	// target transaction atomically.
	ConfirmPayment(ctx context.Context, paymentID string, userID string) (*domain.Payment, error)

	// VoidPayment reverses every allocation of a POSTED payment atomically.
	VoidPayment(ctx context.Context, paymentID string, userID string) (*domain.Payment, error)

	// DeletePayment removes a DRAFT payment outright.
	DeletePayment(ctx context.Context, paymentID string, userID string) error
}
