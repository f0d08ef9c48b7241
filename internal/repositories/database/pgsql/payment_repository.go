package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/anayki/biz_erp_app/internal/apperrors"
	"github.com/anayki/biz_erp_app/internal/core/domain"
	portsrepo "github.com/anayki/biz_erp_app/internal/core/ports/repositories"
	"github.com/anayki/biz_erp_app/internal/models"
	"github.com/anayki/biz_erp_app/internal/utils/mapping"
	"github.com/anayki/biz_erp_app/internal/utils/pagination"
)

type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for payment data.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

const paymentColumns = `payment_id, payment_type, contact_id, amount, payment_date, status, reference_number, notes, created_at, created_by, last_updated_at, last_updated_by`

const allocationColumns = `allocation_id, payment_id, transaction_id, allocated_amount, is_reversed, created_at, created_by, last_updated_at, last_updated_by`

func scanPayment(row pgx.Row) (models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID,
		&m.PaymentType,
		&m.ContactID,
		&m.Amount,
		&m.PaymentDate,
		&m.Status,
		&m.ReferenceNumber,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanAllocation(row pgx.Row) (models.PaymentAllocation, error) {
	var m models.PaymentAllocation
	err := row.Scan(
		&m.AllocationID,
		&m.PaymentID,
		&m.TransactionID,
		&m.AllocatedAmount,
		&m.IsReversed,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxPaymentRepository) findAllocationsByPaymentID(ctx context.Context, paymentID string) ([]models.PaymentAllocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM payment_allocations WHERE payment_id = $1 ORDER BY allocation_id;`
	rows, err := r.Pool.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocations of payment %s: %w", paymentID, err)
	}
	defer rows.Close()

	var result []models.PaymentAllocation
	for rows.Next() {
		m, err := scanAllocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate allocations: %w", err)
	}
	return result, nil
}

// FindPaymentByID retrieves a payment with its allocations.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`

	m, err := scanPayment(r.Pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}

	allocations, err := r.findAllocationsByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	d := mapping.ToDomainPayment(m)
	d.Allocations = mapping.ToDomainPaymentAllocationSlice(allocations)
	return &d, nil
}

// ListPayments retrieves a filtered, token-paginated page of payment
// headers, newest first.
func (r *PgxPaymentRepository) ListPayments(ctx context.Context, filter portsrepo.ListPaymentsFilter, limit int, nextToken *string) ([]domain.Payment, *string, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE 1=1`
	args := []any{}
	argPos := 1

	if filter.PaymentType != nil {
		query += fmt.Sprintf(" AND payment_type = $%d", argPos)
		args = append(args, string(*filter.PaymentType))
		argPos++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, string(*filter.Status))
		argPos++
	}

	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += fmt.Sprintf(" AND (created_at, payment_id) < ($%d, $%d)", argPos, argPos+1)
		args = append(args, createdAt, id)
		argPos += 2
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC, payment_id DESC LIMIT $%d;", argPos)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var result []models.Payment
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	var token *string
	if len(result) > limit {
		result = result[:limit]
		last := result[len(result)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.PaymentID)
		token = &t
	}
	return mapping.ToDomainPaymentSlice(result), token, nil
}

// FindAllocationsByTransactionID retrieves every allocation targeting a
// transaction, reversed ones included, each carrying its payment's state.
func (r *PgxPaymentRepository) FindAllocationsByTransactionID(ctx context.Context, transactionID string) ([]domain.PaymentAllocation, error) {
	query := `
		SELECT a.allocation_id, a.payment_id, a.transaction_id, a.allocated_amount, a.is_reversed,
			a.created_at, a.created_by, a.last_updated_at, a.last_updated_by, p.status
		FROM payment_allocations a
		JOIN payments p ON p.payment_id = a.payment_id
		WHERE a.transaction_id = $1 ORDER BY a.allocation_id;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocations of transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	var result []domain.PaymentAllocation
	for rows.Next() {
		var m models.PaymentAllocation
		var paymentState models.PaymentState
		err := rows.Scan(
			&m.AllocationID,
			&m.PaymentID,
			&m.TransactionID,
			&m.AllocatedAmount,
			&m.IsReversed,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
			&paymentState,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}
		d := mapping.ToDomainPaymentAllocation(m)
		d.PaymentState = domain.PaymentState(paymentState)
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate allocations: %w", err)
	}
	return result, nil
}

// SavePayment inserts a DRAFT payment with its allocation rows.
func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelPayment(payment)
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, query,
		m.PaymentID,
		m.PaymentType,
		m.ContactID,
		m.Amount,
		m.PaymentDate,
		m.Status,
		m.ReferenceNumber,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment %s: %w", m.PaymentID, err)
	}

	if len(payment.Allocations) > 0 {
		batch := &pgx.Batch{}
		allocQuery := `
			INSERT INTO payment_allocations (` + allocationColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
		`
		for _, a := range payment.Allocations {
			am := mapping.ToModelPaymentAllocation(a)
			batch.Queue(allocQuery,
				am.AllocationID,
				am.PaymentID,
				am.TransactionID,
				am.AllocatedAmount,
				am.IsReversed,
				am.CreatedAt,
				am.CreatedBy,
				am.LastUpdatedAt,
				am.LastUpdatedBy,
			)
		}
		br := tx.SendBatch(ctx, batch)
		for range payment.Allocations {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("failed to insert payment allocation: %w", err)
			}
		}
		br.Close()
	}
	return r.Commit(ctx, tx)
}

// DeleteDraftPayment removes a DRAFT payment and its allocations.
func (r *PgxPaymentRepository) DeleteDraftPayment(ctx context.Context, paymentID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	status, err := lockPaymentTx(ctx, tx, paymentID)
	if err != nil {
		return err
	}
	if status != models.PaymentDraft {
		return fmt.Errorf("%w: payment %s is %s, only DRAFT can be deleted", apperrors.ErrConflict, paymentID, status)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM payment_allocations WHERE payment_id = $1;`, paymentID); err != nil {
		return fmt.Errorf("failed to delete allocations of payment %s: %w", paymentID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM payments WHERE payment_id = $1;`, paymentID); err != nil {
		return fmt.Errorf("failed to delete payment %s: %w", paymentID, err)
	}
	return r.Commit(ctx, tx)
}

// lockPaymentTx locks the payment header row and returns its status.
func lockPaymentTx(ctx context.Context, tx pgx.Tx, paymentID string) (models.PaymentState, error) {
	var status models.PaymentState
	err := tx.QueryRow(ctx, `SELECT status FROM payments WHERE payment_id = $1 FOR UPDATE;`, paymentID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to lock payment %s: %w", paymentID, err)
	}
	return status, nil
}

// PostPayment flips a DRAFT payment to POSTED and applies every allocation
// to its target document inside one database transaction. Each target is
// locked and its outstanding balance revalidated under the lock, so two
// payments racing for the same document cannot overpay it.
func (r *PgxPaymentRepository) PostPayment(ctx context.Context, paymentID string, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	status, err := lockPaymentTx(ctx, tx, paymentID)
	if err != nil {
		return err
	}
	if status != models.PaymentDraft {
		return fmt.Errorf("%w: payment %s is %s, expected DRAFT", apperrors.ErrConflict, paymentID, status)
	}

	allocations, err := r.findAllocationsByPaymentID(ctx, paymentID)
	if err != nil {
		return err
	}

	for _, a := range allocations {
		var txnStatus models.TransactionStatus
		var totalAmount, paidAmount decimal.Decimal
		err := tx.QueryRow(ctx, `
			SELECT status, total_amount, paid_amount
			FROM transactions WHERE transaction_id = $1 FOR UPDATE;
		`, a.TransactionID).Scan(&txnStatus, &totalAmount, &paidAmount)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, a.TransactionID)
			}
			return fmt.Errorf("failed to lock transaction %s: %w", a.TransactionID, err)
		}
		if txnStatus != models.TransactionConfirmed {
			return fmt.Errorf("%w: transaction %s is %s, only CONFIRMED documents accept payments", apperrors.ErrConflict, a.TransactionID, txnStatus)
		}

		newPaid, payStatus := domain.ApplyPaymentAmount(paidAmount, a.AllocatedAmount, totalAmount)
		if newPaid.GreaterThan(totalAmount) {
			return fmt.Errorf("%w: allocation against transaction %s exceeds its outstanding balance", apperrors.ErrOverAllocation, a.TransactionID)
		}
		if err := updatePaidAmountTx(ctx, tx, a.TransactionID, newPaid, payStatus, userID, now); err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE payments SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE payment_id = $1;
	`, paymentID, models.PaymentPosted, now, userID)
	if err != nil {
		return fmt.Errorf("failed to post payment %s: %w", paymentID, err)
	}
	return r.Commit(ctx, tx)
}

// VoidPayment reverses every non-reversed allocation of a POSTED payment:
// paid amounts are decremented, statuses recomputed, allocations flagged
// reversed and the payment set VOIDED, all in one database transaction.
func (r *PgxPaymentRepository) VoidPayment(ctx context.Context, paymentID string, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	status, err := lockPaymentTx(ctx, tx, paymentID)
	if err != nil {
		return err
	}
	if status != models.PaymentPosted {
		return fmt.Errorf("%w: payment %s is %s, only POSTED payments can be voided", apperrors.ErrConflict, paymentID, status)
	}

	allocations, err := r.findAllocationsByPaymentID(ctx, paymentID)
	if err != nil {
		return err
	}

	for _, a := range allocations {
		if a.IsReversed {
			continue
		}
		var totalAmount, paidAmount decimal.Decimal
		err := tx.QueryRow(ctx, `
			SELECT total_amount, paid_amount FROM transactions WHERE transaction_id = $1 FOR UPDATE;
		`, a.TransactionID).Scan(&totalAmount, &paidAmount)
		if err != nil {
			return fmt.Errorf("failed to lock transaction %s: %w", a.TransactionID, err)
		}

		newPaid, payStatus := domain.ApplyPaymentAmount(paidAmount, a.AllocatedAmount.Neg(), totalAmount)
		if err := updatePaidAmountTx(ctx, tx, a.TransactionID, newPaid, payStatus, userID, now); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE payment_allocations
			SET is_reversed = TRUE, last_updated_at = $2, last_updated_by = $3
			WHERE allocation_id = $1;
		`, a.AllocationID, now, userID)
		if err != nil {
			return fmt.Errorf("failed to reverse allocation %s: %w", a.AllocationID, err)
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE payments SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE payment_id = $1;
	`, paymentID, models.PaymentVoided, now, userID)
	if err != nil {
		return fmt.Errorf("failed to void payment %s: %w", paymentID, err)
	}
	return r.Commit(ctx, tx)
}
