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
)

const (
	defaultTransactionListLimit = 20
	maxTransactionListLimit     = 100

	// defaultPaymentTermDays sets the due date when a bill/invoice is
	// confirmed without one.
	defaultPaymentTermDays = 30
)

// transactionService is the document engine: it owns the DRAFT ->
// CONFIRMED -> CANCELLED lifecycle, derived totals, budget integration and
// document chaining.
type transactionService struct {
	BaseService
	txnRepo        portsrepo.TransactionRepositoryFacade
	paymentRepo    portsrepo.PaymentReader
	masterDataRepo portsrepo.MasterDataRepositoryFacade
	accountRepo    portsrepo.AnalyticalAccountReader
	resolver       portssvc.AutoAnalyticalSvcFacade
	budgetSvc      portssvc.BudgetSvcFacade
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	paymentRepo portsrepo.PaymentReader,
	masterDataRepo portsrepo.MasterDataRepositoryFacade,
	accountRepo portsrepo.AnalyticalAccountReader,
	resolver portssvc.AutoAnalyticalSvcFacade,
	budgetSvc portssvc.BudgetSvcFacade,
) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:        txnRepo,
		paymentRepo:    paymentRepo,
		masterDataRepo: masterDataRepo,
		accountRepo:    accountRepo,
		resolver:       resolver,
		budgetSvc:      budgetSvc,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// CreateTransaction validates lines and the contact, resolves missing
// analytical accounts, computes totals and persists a DRAFT document.
func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error) {
	contact, err := s.validateContact(ctx, req.ContactID, req.TransactionType)
	if err != nil {
		return nil, err
	}

	transactionID := uuid.NewString()
	lines, subTotal, taxAmount, err := s.buildLines(ctx, transactionID, req.Lines, contact)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID:   transactionID,
		TransactionType: req.TransactionType,
		Status:          domain.TransactionDraft,
		ContactID:       req.ContactID,
		TransactionDate: req.TransactionDate,
		DueDate:         req.DueDate,
		SubTotal:        subTotal,
		TaxAmount:       taxAmount,
		TotalAmount:     subTotal.Add(taxAmount),
		PaidAmount:      decimal.Zero,
		PaymentStatus:   domain.NotPaid,
		Lines:           lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("type", string(req.TransactionType)))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("type", string(txn.TransactionType)),
		slog.String("total", txn.TotalAmount.String()))
	return &txn, nil
}

// UpdateTransaction replaces the header and lines of a DRAFT document,
// re-running resolution and totals. Confirmed and cancelled documents are
// immutable.
func (s *transactionService) UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error) {
	existing, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	if existing.Status != domain.TransactionDraft {
		return nil, fmt.Errorf("%w: transaction %s status is %s, only DRAFT is editable", apperrors.ErrConflict, transactionID, existing.Status)
	}

	contact, err := s.validateContact(ctx, req.ContactID, existing.TransactionType)
	if err != nil {
		return nil, err
	}
	lines, subTotal, taxAmount, err := s.buildLines(ctx, transactionID, req.Lines, contact)
	if err != nil {
		return nil, err
	}

	existing.ContactID = req.ContactID
	existing.TransactionDate = req.TransactionDate
	existing.DueDate = req.DueDate
	existing.SubTotal = subTotal
	existing.TaxAmount = taxAmount
	existing.TotalAmount = subTotal.Add(taxAmount)
	existing.Lines = lines
	existing.LastUpdatedAt = time.Now().UTC()
	existing.LastUpdatedBy = userID

	if err := s.txnRepo.UpdateDraftTransaction(ctx, *existing); err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return existing, nil
}

// GetTransactionByID retrieves a transaction with its lines.
func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

// ListTransactions retrieves a filtered page of transaction headers.
func (s *transactionService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultTransactionListLimit
	} else if limit > maxTransactionListLimit {
		limit = maxTransactionListLimit
	}

	txns, nextToken, err := s.txnRepo.ListTransactions(ctx, portsrepo.ListTransactionsFilter{
		TransactionType: params.TransactionType,
		Status:          params.Status,
		ContactID:       params.ContactID,
	}, limit, params.NextToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nextToken, nil
}

// ConfirmTransaction flips a DRAFT document to CONFIRMED: the budget
// ledger picks up the confirmed lines and payable types get a due date.
// Overage warnings are computed first and returned with the document;
// they never block the confirmation.
func (s *transactionService) ConfirmTransaction(ctx context.Context, transactionID string, userID string) (*domain.Transaction, []domain.OverageWarning, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	if txn.Status != domain.TransactionDraft {
		return nil, nil, fmt.Errorf("%w: transaction %s status is %s, expected DRAFT", apperrors.ErrConflict, transactionID, txn.Status)
	}

	warnings, err := s.budgetSvc.CheckOverage(ctx, txn.Lines, txn.TransactionDate)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check budget overage: %w", err)
	}

	var dueDate *time.Time
	if txn.TransactionType.IsPayable() {
		if txn.DueDate != nil {
			dueDate = txn.DueDate
		} else {
			d := txn.TransactionDate.AddDate(0, 0, defaultPaymentTermDays)
			dueDate = &d
		}
	}

	// The deltas describe the lines as read above; the repository re-checks
	// last_updated_at under its row lock so a concurrent edit conflicts
	// instead of confirming with stale deltas.
	now := time.Now().UTC()
	changes := budgetChanges(txn.Lines, txn.TransactionDate, false)
	if err := s.txnRepo.ConfirmTransaction(ctx, transactionID, txn.LastUpdatedAt, dueDate, changes, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to confirm transaction", slog.String("transaction_id", transactionID))
		return nil, nil, fmt.Errorf("failed to confirm transaction: %w", err)
	}

	txn.Status = domain.TransactionConfirmed
	txn.DueDate = dueDate
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = userID

	s.LogInfo(ctx, "Transaction confirmed",
		slog.String("transaction_id", transactionID),
		slog.Int("warnings", len(warnings)))
	return txn, warnings, nil
}

// CancelTransaction flips a document to CANCELLED and reverses its budget
// contribution. Refused while non-reversed payment allocations exist;
// those must be voided first.
func (s *transactionService) CancelTransaction(ctx context.Context, transactionID string, userID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	if txn.Status == domain.TransactionCancelled {
		return nil, fmt.Errorf("%w: transaction %s is already CANCELLED", apperrors.ErrConflict, transactionID)
	}

	allocations, err := s.paymentRepo.FindAllocationsByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check allocations for transaction %s: %w", transactionID, err)
	}
	for _, a := range allocations {
		if a.BlocksCancellation() {
			return nil, fmt.Errorf("%w: transaction %s has posted payment allocations, void the payments first", apperrors.ErrConflict, transactionID)
		}
	}

	// Only a confirmed document ever contributed to the budget ledger. The
	// repository compares the status we read here against the row under its
	// lock, so a concurrent confirm cannot slip through with nil deltas.
	var changes []domain.BudgetActualChange
	if txn.Status == domain.TransactionConfirmed {
		changes = budgetChanges(txn.Lines, txn.TransactionDate, true)
	}

	now := time.Now().UTC()
	if err := s.txnRepo.CancelTransaction(ctx, transactionID, txn.Status, changes, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to cancel transaction", slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to cancel transaction: %w", err)
	}

	txn.Status = domain.TransactionCancelled
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = userID
	s.LogInfo(ctx, "Transaction cancelled", slog.String("transaction_id", transactionID))
	return txn, nil
}

// DeleteTransaction removes a DRAFT document outright. Anything past
// DRAFT is cancelled, never deleted.
func (s *transactionService) DeleteTransaction(ctx context.Context, transactionID string, userID string) error {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	if txn.Status != domain.TransactionDraft {
		return fmt.Errorf("%w: transaction %s status is %s, only DRAFT can be deleted", apperrors.ErrConflict, transactionID, txn.Status)
	}
	if err := s.txnRepo.DeleteDraftTransaction(ctx, transactionID); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	s.LogInfo(ctx, "Draft transaction deleted", slog.String("transaction_id", transactionID), slog.String("deleted_by", userID))
	return nil
}

// GetBudgetWarnings previews the overage warnings a confirm would emit,
// without changing anything.
func (s *transactionService) GetBudgetWarnings(ctx context.Context, transactionID string) ([]domain.OverageWarning, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	warnings, err := s.budgetSvc.CheckOverage(ctx, txn.Lines, txn.TransactionDate)
	if err != nil {
		return nil, fmt.Errorf("failed to check budget overage: %w", err)
	}
	return warnings, nil
}

// CreateDerivedTransaction creates the bill for a confirmed PO (or the
// invoice for a confirmed SO). Lines are copied verbatim with their
// already-resolved analytical accounts; rule changes since the source was
// saved do not apply. Each source derives at most one child.
func (s *transactionService) CreateDerivedTransaction(ctx context.Context, sourceTransactionID string, userID string) (*domain.Transaction, error) {
	source, err := s.txnRepo.FindTransactionByID(ctx, sourceTransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", sourceTransactionID, err)
	}

	derivedType, ok := source.TransactionType.DerivedType()
	if !ok {
		return nil, fmt.Errorf("%w: transaction type %s has no derived document", apperrors.ErrValidation, source.TransactionType)
	}
	if source.Status != domain.TransactionConfirmed {
		return nil, fmt.Errorf("%w: transaction %s status is %s, only CONFIRMED documents derive", apperrors.ErrConflict, sourceTransactionID, source.Status)
	}
	if source.DerivedTransactionID != nil {
		return nil, fmt.Errorf("%w: transaction %s already derived %s", apperrors.ErrConflict, sourceTransactionID, *source.DerivedTransactionID)
	}

	now := time.Now().UTC()
	derivedID := uuid.NewString()
	derived := domain.Transaction{
		TransactionID:       derivedID,
		TransactionType:     derivedType,
		Status:              domain.TransactionDraft,
		ContactID:           source.ContactID,
		TransactionDate:     now,
		SubTotal:            source.SubTotal,
		TaxAmount:           source.TaxAmount,
		TotalAmount:         source.TotalAmount,
		PaidAmount:          decimal.Zero,
		PaymentStatus:       domain.NotPaid,
		SourceTransactionID: &source.TransactionID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	for _, l := range source.Lines {
		derived.Lines = append(derived.Lines, domain.TransactionLine{
			LineID:              uuid.NewString(),
			TransactionID:       derivedID,
			ProductID:           l.ProductID,
			Quantity:            l.Quantity,
			UnitPrice:           l.UnitPrice,
			GSTRate:             l.GSTRate,
			AnalyticalAccountID: l.AnalyticalAccountID,
			LineTotal:           l.LineTotal,
		})
	}

	if err := s.txnRepo.SaveDerivedTransaction(ctx, sourceTransactionID, derived); err != nil {
		s.LogError(ctx, err, "Failed to save derived transaction", slog.String("source_id", sourceTransactionID))
		return nil, fmt.Errorf("failed to save derived transaction: %w", err)
	}

	s.LogInfo(ctx, "Derived transaction created",
		slog.String("source_id", sourceTransactionID),
		slog.String("derived_id", derivedID),
		slog.String("type", string(derivedType)))
	return &derived, nil
}

// validateContact checks the contact exists, is active and sits on the
// right side for the document type (vendors for purchases, customers for
// sales).
func (s *transactionService) validateContact(ctx context.Context, contactID string, txnType domain.TransactionType) (*domain.Contact, error) {
	contact, err := s.masterDataRepo.FindContactByID(ctx, contactID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: contact %s", apperrors.ErrReferential, contactID)
		}
		return nil, fmt.Errorf("failed to fetch contact %s: %w", contactID, err)
	}
	if !contact.IsActive {
		return nil, fmt.Errorf("%w: contact %s is inactive", apperrors.ErrReferential, contactID)
	}

	wantType := domain.ContactCustomer
	if txnType.IsPurchaseSide() {
		wantType = domain.ContactVendor
	}
	if contact.ContactType != wantType {
		return nil, fmt.Errorf("%w: %s documents require a %s contact, %s is a %s",
			apperrors.ErrReferential, txnType, wantType, contactID, contact.ContactType)
	}
	return contact, nil
}

// buildLines validates line requests, resolves missing analytical accounts
// and computes per-line and document totals.
func (s *transactionService) buildLines(ctx context.Context, transactionID string, reqs []dto.TransactionLineRequest, contact *domain.Contact) ([]domain.TransactionLine, decimal.Decimal, decimal.Decimal, error) {
	productIDs := make([]string, 0, len(reqs))
	for i, lr := range reqs {
		if !lr.Quantity.IsPositive() {
			return nil, decimal.Zero, decimal.Zero, fmt.Errorf("%w: line %d quantity must be positive", apperrors.ErrValidation, i+1)
		}
		if lr.UnitPrice.IsNegative() {
			return nil, decimal.Zero, decimal.Zero, fmt.Errorf("%w: line %d unit price must not be negative", apperrors.ErrValidation, i+1)
		}
		if lr.GSTRate.IsNegative() {
			return nil, decimal.Zero, decimal.Zero, fmt.Errorf("%w: line %d GST rate must not be negative", apperrors.ErrValidation, i+1)
		}
		productIDs = append(productIDs, lr.ProductID)
	}

	products, err := s.masterDataRepo.FindProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, decimal.Zero, decimal.Zero, fmt.Errorf("failed to fetch products: %w", err)
	}

	// Explicit analytical accounts must exist and be active; resolved ones
	// come from confirmed rules and were validated at rule creation.
	explicitIDs := make([]string, 0)
	for _, lr := range reqs {
		if lr.AnalyticalAccountID != nil && *lr.AnalyticalAccountID != "" {
			explicitIDs = append(explicitIDs, *lr.AnalyticalAccountID)
		}
	}
	accounts := map[string]domain.AnalyticalAccount{}
	if len(explicitIDs) > 0 {
		accounts, err = s.accountRepo.FindAnalyticalAccountsByIDs(ctx, explicitIDs)
		if err != nil {
			return nil, decimal.Zero, decimal.Zero, fmt.Errorf("failed to fetch analytical accounts: %w", err)
		}
	}

	lines := make([]domain.TransactionLine, 0, len(reqs))
	subTotal, taxAmount := decimal.Zero, decimal.Zero
	for i, lr := range reqs {
		product, ok := products[lr.ProductID]
		if !ok {
			return nil, decimal.Zero, decimal.Zero, fmt.Errorf("%w: product %s on line %d", apperrors.ErrReferential, lr.ProductID, i+1)
		}
		if !product.IsActive {
			return nil, decimal.Zero, decimal.Zero, fmt.Errorf("%w: product %s on line %d is inactive", apperrors.ErrReferential, lr.ProductID, i+1)
		}

		line := domain.TransactionLine{
			LineID:        uuid.NewString(),
			TransactionID: transactionID,
			ProductID:     lr.ProductID,
			Quantity:      lr.Quantity,
			UnitPrice:     lr.UnitPrice,
			GSTRate:       lr.GSTRate,
		}

		if lr.AnalyticalAccountID != nil && *lr.AnalyticalAccountID != "" {
			account, ok := accounts[*lr.AnalyticalAccountID]
			if !ok {
				return nil, decimal.Zero, decimal.Zero, fmt.Errorf("%w: analytical account %s on line %d", apperrors.ErrReferential, *lr.AnalyticalAccountID, i+1)
			}
			if !account.IsActive {
				return nil, decimal.Zero, decimal.Zero, fmt.Errorf("%w: analytical account %s on line %d is inactive", apperrors.ErrReferential, *lr.AnalyticalAccountID, i+1)
			}
			line.AnalyticalAccountID = lr.AnalyticalAccountID
		} else {
			resolved, err := s.resolver.Resolve(ctx, domain.LineMatchAttributes{
				PartnerTag: contact.Tag,
				PartnerID:  contact.ContactID,
				CategoryID: product.CategoryID,
				ProductID:  product.ProductID,
			})
			if err != nil {
				return nil, decimal.Zero, decimal.Zero, fmt.Errorf("failed to resolve analytical account for line %d: %w", i+1, err)
			}
			line.AnalyticalAccountID = resolved
		}

		line.LineTotal = line.ComputeLineTotal()
		lines = append(lines, line)
		subTotal = subTotal.Add(line.NetAmount())
		taxAmount = taxAmount.Add(line.LineTotal.Sub(line.NetAmount()))
	}
	return lines, subTotal, taxAmount, nil
}

// budgetChanges turns a document's lines into actuals-ledger deltas,
// negated when reversing a cancellation.
func budgetChanges(lines []domain.TransactionLine, date time.Time, reverse bool) []domain.BudgetActualChange {
	var changes []domain.BudgetActualChange
	for _, l := range lines {
		if l.AnalyticalAccountID == nil {
			continue
		}
		delta := l.LineTotal
		if reverse {
			delta = delta.Neg()
		}
		changes = append(changes, domain.BudgetActualChange{
			AnalyticalAccountID: *l.AnalyticalAccountID,
			Year:                date.Year(),
			Month:               int(date.Month()),
			Delta:               delta,
		})
	}
	return changes
}
