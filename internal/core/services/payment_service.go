package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anayki/biz_erp_app/internal/apperrors"
	"github.com/anayki/biz_erp_app/internal/core/domain"
	portsrepo "github.com/anayki/biz_erp_app/internal/core/ports/repositories"
	portssvc "github.com/anayki/biz_erp_app/internal/core/ports/services"
	"github.com/anayki/biz_erp_app/internal/dto"
	"github.com/anayki/biz_erp_app/internal/utils"
)

const (
	defaultPaymentListLimit = 20
	maxPaymentListLimit     = 100
)

// paymentService is the payment allocation engine: it validates a payment
// against its target documents and drives the DRAFT -> POSTED -> VOIDED
// lifecycle.
type paymentService struct {
	BaseService
	paymentRepo    portsrepo.PaymentRepositoryFacade
	txnRepo        portsrepo.TransactionReader
	masterDataRepo portsrepo.MasterDataRepositoryFacade
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(paymentRepo portsrepo.PaymentRepositoryFacade, txnRepo portsrepo.TransactionReader, masterDataRepo portsrepo.MasterDataRepositoryFacade) portssvc.PaymentSvcFacade {
	return &paymentService{paymentRepo: paymentRepo, txnRepo: txnRepo, masterDataRepo: masterDataRepo}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// CreatePayment validates the payment and its allocations and persists a
// DRAFT payment. With PostImmediately the payment is posted in the same
// call; posting re-checks every allocation under row locks, so a
// concurrent payment cannot overpay a document.
func (s *paymentService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, creatorUserID string) (*domain.Payment, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	contact, err := s.masterDataRepo.FindContactByID(ctx, req.ContactID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: contact %s", apperrors.ErrReferential, req.ContactID)
		}
		return nil, fmt.Errorf("failed to fetch contact %s: %w", req.ContactID, err)
	}
	wantContactType := domain.ContactCustomer
	if req.PaymentType == domain.PaymentSend {
		wantContactType = domain.ContactVendor
	}
	if contact.ContactType != wantContactType {
		return nil, fmt.Errorf("%w: %s payments require a %s contact, %s is a %s",
			apperrors.ErrReferential, req.PaymentType, wantContactType, req.ContactID, contact.ContactType)
	}

	paymentID := uuid.NewString()
	now := time.Now().UTC()
	payment := domain.Payment{
		PaymentID:       paymentID,
		PaymentType:     req.PaymentType,
		ContactID:       req.ContactID,
		Amount:          req.Amount,
		PaymentDate:     req.PaymentDate,
		Status:          domain.PaymentDraft,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	allocations, err := s.buildAllocations(ctx, paymentID, req, now, creatorUserID)
	if err != nil {
		return nil, err
	}
	payment.Allocations = allocations

	if err := s.paymentRepo.SavePayment(ctx, payment); err != nil {
		s.LogError(ctx, err, "Failed to save payment", slog.String("contact_id", req.ContactID))
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}
	s.LogInfo(ctx, "Payment created",
		slog.String("payment_id", paymentID),
		slog.String("type", string(req.PaymentType)),
		slog.String("amount", req.Amount.String()),
		slog.Int("allocations", len(allocations)))

	if req.PostImmediately {
		return s.ConfirmPayment(ctx, paymentID, creatorUserID)
	}
	return &payment, nil
}

// GetPaymentByID retrieves a payment with its allocations.
func (s *paymentService) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	return payment, nil
}

// ListPayments retrieves a filtered page of payment headers.
func (s *paymentService) ListPayments(ctx context.Context, params dto.ListPaymentsParams) ([]domain.Payment, *string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultPaymentListLimit
	} else if limit > maxPaymentListLimit {
		limit = maxPaymentListLimit
	}

	payments, nextToken, err := s.paymentRepo.ListPayments(ctx, portsrepo.ListPaymentsFilter{
		PaymentType: params.PaymentType,
		Status:      params.Status,
	}, limit, params.NextToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nextToken, nil
}

// ConfirmPayment posts a DRAFT payment. The repository applies every
// allocation to its target transaction inside one database transaction,
// revalidating outstanding balances under row locks; the whole set commits
// or rolls back.
func (s *paymentService) ConfirmPayment(ctx context.Context, paymentID string, userID string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	if payment.Status != domain.PaymentDraft {
		return nil, fmt.Errorf("%w: payment %s status is %s, expected DRAFT", apperrors.ErrConflict, paymentID, payment.Status)
	}
	if len(payment.Allocations) == 0 {
		return nil, fmt.Errorf("%w: payment %s has no allocations to post", apperrors.ErrValidation, paymentID)
	}

	now := time.Now().UTC()
	if err := s.paymentRepo.PostPayment(ctx, paymentID, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to post payment", slog.String("payment_id", paymentID))
		return nil, fmt.Errorf("failed to post payment: %w", err)
	}

	payment.Status = domain.PaymentPosted
	payment.LastUpdatedAt = now
	payment.LastUpdatedBy = userID
	s.LogInfo(ctx, "Payment posted", slog.String("payment_id", paymentID))
	return payment, nil
}

// VoidPayment reverses a POSTED payment: every allocation is marked
// reversed and the target documents get their paid amounts and payment
// statuses restored, atomically.
func (s *paymentService) VoidPayment(ctx context.Context, paymentID string, userID string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	if payment.Status != domain.PaymentPosted {
		return nil, fmt.Errorf("%w: payment %s status is %s, only POSTED payments can be voided", apperrors.ErrConflict, paymentID, payment.Status)
	}

	now := time.Now().UTC()
	if err := s.paymentRepo.VoidPayment(ctx, paymentID, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to void payment", slog.String("payment_id", paymentID))
		return nil, fmt.Errorf("failed to void payment: %w", err)
	}

	payment.Status = domain.PaymentVoided
	for i := range payment.Allocations {
		payment.Allocations[i].IsReversed = true
	}
	payment.LastUpdatedAt = now
	payment.LastUpdatedBy = userID
	s.LogInfo(ctx, "Payment voided", slog.String("payment_id", paymentID))
	return payment, nil
}

// DeletePayment removes a DRAFT payment outright. POSTED payments are
// voided, never deleted.
func (s *paymentService) DeletePayment(ctx context.Context, paymentID string, userID string) error {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	if payment.Status != domain.PaymentDraft {
		return fmt.Errorf("%w: payment %s status is %s, only DRAFT can be deleted", apperrors.ErrConflict, paymentID, payment.Status)
	}
	if err := s.paymentRepo.DeleteDraftPayment(ctx, paymentID); err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	s.LogInfo(ctx, "Draft payment deleted", slog.String("payment_id", paymentID), slog.String("deleted_by", userID))
	return nil
}

// buildAllocations validates every allocation request against its target
// document and the payment envelope: targets must be CONFIRMED documents
// of the type this payment direction settles, belong to the same contact
// and appear at most once; each amount must be positive and within the
// target's outstanding balance; the allocation sum must fit the payment
// amount.
func (s *paymentService) buildAllocations(ctx context.Context, paymentID string, req dto.CreatePaymentRequest, now time.Time, userID string) ([]domain.PaymentAllocation, error) {
	settlesType := req.PaymentType.SettlesType()
	seen := make(map[string]bool, len(req.Allocations))
	allocated := decimal.Zero

	allocations := make([]domain.PaymentAllocation, 0, len(req.Allocations))
	for i, ar := range req.Allocations {
		if !ar.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: allocation %d amount must be positive", apperrors.ErrValidation, i+1)
		}
		if seen[ar.TransactionID] {
			return nil, fmt.Errorf("%w: transaction %s is targeted by more than one allocation", apperrors.ErrValidation, ar.TransactionID)
		}
		seen[ar.TransactionID] = true

		txn, err := s.txnRepo.FindTransactionByID(ctx, ar.TransactionID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrReferential, ar.TransactionID)
			}
			return nil, fmt.Errorf("failed to fetch transaction %s: %w", ar.TransactionID, err)
		}
		if txn.TransactionType != settlesType {
			return nil, fmt.Errorf("%w: %s payments settle %s documents, transaction %s is a %s",
				apperrors.ErrValidation, req.PaymentType, settlesType, ar.TransactionID, txn.TransactionType)
		}
		if txn.Status != domain.TransactionConfirmed {
			return nil, fmt.Errorf("%w: transaction %s status is %s, only CONFIRMED documents accept payments",
				apperrors.ErrConflict, ar.TransactionID, txn.Status)
		}
		if txn.ContactID != req.ContactID {
			return nil, fmt.Errorf("%w: transaction %s belongs to a different contact", apperrors.ErrValidation, ar.TransactionID)
		}

		outstanding := txn.Outstanding()
		if ar.Amount.GreaterThan(outstanding) {
			return nil, fmt.Errorf("%w: allocation of %s against transaction %s exceeds its outstanding %s",
				apperrors.ErrOverAllocation, utils.FormatINR(ar.Amount), ar.TransactionID, utils.FormatINR(outstanding))
		}

		allocated = allocated.Add(ar.Amount)
		allocations = append(allocations, domain.PaymentAllocation{
			AllocationID:    uuid.NewString(),
			PaymentID:       paymentID,
			TransactionID:   ar.TransactionID,
			AllocatedAmount: ar.Amount,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		})
	}

	if allocated.GreaterThan(req.Amount) {
		return nil, fmt.Errorf("%w: allocations total %s exceeds payment amount %s",
			apperrors.ErrOverAllocation, utils.FormatINR(allocated), utils.FormatINR(req.Amount))
	}
	return allocations, nil
}
