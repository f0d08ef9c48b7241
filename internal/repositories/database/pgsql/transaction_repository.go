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

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transaction document data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, transaction_type, status, contact_id, transaction_date, due_date, sub_total, tax_amount, total_amount, paid_amount, payment_status, source_transaction_id, derived_transaction_id, created_at, created_by, last_updated_at, last_updated_by`

const transactionLineColumns = `line_id, transaction_id, product_id, quantity, unit_price, gst_rate, analytical_account_id, line_total`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.TransactionType,
		&m.Status,
		&m.ContactID,
		&m.TransactionDate,
		&m.DueDate,
		&m.SubTotal,
		&m.TaxAmount,
		&m.TotalAmount,
		&m.PaidAmount,
		&m.PaymentStatus,
		&m.SourceTransactionID,
		&m.DerivedTransactionID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanTransactionLine(row pgx.Row) (models.TransactionLine, error) {
	var m models.TransactionLine
	err := row.Scan(
		&m.LineID,
		&m.TransactionID,
		&m.ProductID,
		&m.Quantity,
		&m.UnitPrice,
		&m.GSTRate,
		&m.AnalyticalAccountID,
		&m.LineTotal,
	)
	return m, err
}

// insertTransactionTx inserts the header row inside an open transaction.
func insertTransactionTx(ctx context.Context, tx pgx.Tx, m models.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := tx.Exec(ctx, query,
		m.TransactionID,
		m.TransactionType,
		m.Status,
		m.ContactID,
		m.TransactionDate,
		m.DueDate,
		m.SubTotal,
		m.TaxAmount,
		m.TotalAmount,
		m.PaidAmount,
		m.PaymentStatus,
		m.SourceTransactionID,
		m.DerivedTransactionID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	return err
}

// insertLinesTx batch-inserts line rows inside an open transaction.
func insertLinesTx(ctx context.Context, tx pgx.Tx, lines []domain.TransactionLine) error {
	if len(lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO transaction_lines (` + transactionLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, l := range lines {
		m := mapping.ToModelTransactionLine(l)
		batch.Queue(query,
			m.LineID,
			m.TransactionID,
			m.ProductID,
			m.Quantity,
			m.UnitPrice,
			m.GSTRate,
			m.AnalyticalAccountID,
			m.LineTotal,
		)
	}
	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for range lines {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert transaction line: %w", err)
		}
	}
	return nil
}

// applyBudgetChangesTx upserts the materialized actuals ledger inside an
// open transaction. Deltas are signed; cancellation sends negatives.
func applyBudgetChangesTx(ctx context.Context, tx pgx.Tx, changes []domain.BudgetActualChange) error {
	if len(changes) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO budget_actuals (analytical_account_id, year, month, actual_amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (analytical_account_id, year, month)
		DO UPDATE SET actual_amount = budget_actuals.actual_amount + EXCLUDED.actual_amount;
	`
	for _, c := range changes {
		batch.Queue(query, c.AnalyticalAccountID, c.Year, c.Month, c.Delta)
	}
	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for range changes {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to apply budget actual change: %w", err)
		}
	}
	return nil
}

// lockTransactionTx locks the header row and returns its current status and
// last update time, the pair optimistic re-checks compare against.
func lockTransactionTx(ctx context.Context, tx pgx.Tx, transactionID string) (models.TransactionStatus, time.Time, error) {
	var status models.TransactionStatus
	var updatedAt time.Time
	err := tx.QueryRow(ctx,
		`SELECT status, last_updated_at FROM transactions WHERE transaction_id = $1 FOR UPDATE;`,
		transactionID,
	).Scan(&status, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, apperrors.ErrNotFound
		}
		return "", time.Time{}, fmt.Errorf("failed to lock transaction %s: %w", transactionID, err)
	}
	return status, updatedAt, nil
}

// SaveTransaction inserts a new DRAFT document with its lines.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertTransactionTx(ctx, tx, mapping.ToModelTransaction(txn)); err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", txn.TransactionID, err)
	}
	if err := insertLinesTx(ctx, tx, txn.Lines); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateDraftTransaction replaces the header fields and all lines of a
// DRAFT document. The row is locked first; a non-DRAFT status under the
// lock is a conflict.
func (r *PgxTransactionRepository) UpdateDraftTransaction(ctx context.Context, txn domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	status, _, err := lockTransactionTx(ctx, tx, txn.TransactionID)
	if err != nil {
		return err
	}
	if status != models.TransactionDraft {
		return fmt.Errorf("%w: transaction %s is %s, expected DRAFT", apperrors.ErrConflict, txn.TransactionID, status)
	}

	m := mapping.ToModelTransaction(txn)
	_, err = tx.Exec(ctx, `
		UPDATE transactions
		SET contact_id = $2, transaction_date = $3, due_date = $4, sub_total = $5, tax_amount = $6,
			total_amount = $7, last_updated_at = $8, last_updated_by = $9
		WHERE transaction_id = $1;
	`, m.TransactionID, m.ContactID, m.TransactionDate, m.DueDate, m.SubTotal, m.TaxAmount, m.TotalAmount, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", m.TransactionID, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM transaction_lines WHERE transaction_id = $1;`, m.TransactionID); err != nil {
		return fmt.Errorf("failed to clear lines of transaction %s: %w", m.TransactionID, err)
	}
	if err := insertLinesTx(ctx, tx, txn.Lines); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteDraftTransaction removes a DRAFT document and its lines.
func (r *PgxTransactionRepository) DeleteDraftTransaction(ctx context.Context, transactionID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	status, _, err := lockTransactionTx(ctx, tx, transactionID)
	if err != nil {
		return err
	}
	if status != models.TransactionDraft {
		return fmt.Errorf("%w: transaction %s is %s, only DRAFT can be deleted", apperrors.ErrConflict, transactionID, status)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM transaction_lines WHERE transaction_id = $1;`, transactionID); err != nil {
		return fmt.Errorf("failed to delete lines of transaction %s: %w", transactionID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID); err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	return r.Commit(ctx, tx)
}

// ConfirmTransaction flips DRAFT to CONFIRMED and applies the budget actual
// deltas in one database transaction. Both the status and last_updated_at
// are re-checked under the row lock: a concurrent confirm or cancel changes
// the status, a concurrent line edit bumps the timestamp, and either way the
// deltas the caller computed no longer describe the persisted lines.
func (r *PgxTransactionRepository) ConfirmTransaction(ctx context.Context, transactionID string, expectedUpdatedAt time.Time, dueDate *time.Time, changes []domain.BudgetActualChange, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	status, updatedAt, err := lockTransactionTx(ctx, tx, transactionID)
	if err != nil {
		return err
	}
	if status != models.TransactionDraft {
		return fmt.Errorf("%w: transaction %s is %s, expected DRAFT", apperrors.ErrConflict, transactionID, status)
	}
	if !updatedAt.Equal(expectedUpdatedAt) {
		return fmt.Errorf("%w: transaction %s was modified concurrently, re-read and retry", apperrors.ErrConflict, transactionID)
	}

	_, err = tx.Exec(ctx, `
		UPDATE transactions
		SET status = $2, due_date = COALESCE($3, due_date), last_updated_at = $4, last_updated_by = $5
		WHERE transaction_id = $1;
	`, transactionID, models.TransactionConfirmed, dueDate, now, userID)
	if err != nil {
		return fmt.Errorf("failed to confirm transaction %s: %w", transactionID, err)
	}

	if err := applyBudgetChangesTx(ctx, tx, changes); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// CancelTransaction flips a document to CANCELLED and reverses its budget
// contribution. The status is compared under the row lock to the status the
// caller computed its reversal deltas from, so a transaction confirmed
// concurrently cannot be cancelled with stale (or missing) deltas. The
// allocation check is also re-run under the lock; a payment posted
// concurrently blocks the cancel.
func (r *PgxTransactionRepository) CancelTransaction(ctx context.Context, transactionID string, expectedStatus domain.TransactionStatus, changes []domain.BudgetActualChange, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	status, _, err := lockTransactionTx(ctx, tx, transactionID)
	if err != nil {
		return err
	}
	if status == models.TransactionCancelled {
		return fmt.Errorf("%w: transaction %s is already CANCELLED", apperrors.ErrConflict, transactionID)
	}
	if status != models.TransactionStatus(expectedStatus) {
		return fmt.Errorf("%w: transaction %s is %s, expected %s; re-read and retry", apperrors.ErrConflict, transactionID, status, expectedStatus)
	}

	// Allocations of DRAFT payments have not moved money and do not block.
	var activeAllocations int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM payment_allocations a
		JOIN payments p ON p.payment_id = a.payment_id
		WHERE a.transaction_id = $1 AND a.is_reversed = FALSE AND p.status <> $2;
	`, transactionID, models.PaymentDraft).Scan(&activeAllocations)
	if err != nil {
		return fmt.Errorf("failed to count allocations of transaction %s: %w", transactionID, err)
	}
	if activeAllocations > 0 {
		return fmt.Errorf("%w: transaction %s has active payment allocations", apperrors.ErrConflict, transactionID)
	}

	_, err = tx.Exec(ctx, `
		UPDATE transactions
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1;
	`, transactionID, models.TransactionCancelled, now, userID)
	if err != nil {
		return fmt.Errorf("failed to cancel transaction %s: %w", transactionID, err)
	}

	if err := applyBudgetChangesTx(ctx, tx, changes); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SaveDerivedTransaction inserts the derived DRAFT document and links
// parent and child in one database transaction.
func (r *PgxTransactionRepository) SaveDerivedTransaction(ctx context.Context, sourceID string, derived domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// Lock the source and re-check its state: CONFIRMED and not yet derived.
	var status models.TransactionStatus
	var derivedID *string
	err = tx.QueryRow(ctx, `
		SELECT status, derived_transaction_id FROM transactions WHERE transaction_id = $1 FOR UPDATE;
	`, sourceID).Scan(&status, &derivedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to lock source transaction %s: %w", sourceID, err)
	}
	if status != models.TransactionConfirmed {
		return fmt.Errorf("%w: source transaction %s is %s, expected CONFIRMED", apperrors.ErrConflict, sourceID, status)
	}
	if derivedID != nil {
		return fmt.Errorf("%w: source transaction %s already derived %s", apperrors.ErrConflict, sourceID, *derivedID)
	}

	if err := insertTransactionTx(ctx, tx, mapping.ToModelTransaction(derived)); err != nil {
		return fmt.Errorf("failed to insert derived transaction %s: %w", derived.TransactionID, err)
	}
	if err := insertLinesTx(ctx, tx, derived.Lines); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE transactions
		SET derived_transaction_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1;
	`, sourceID, derived.TransactionID, derived.LastUpdatedAt, derived.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to link source transaction %s: %w", sourceID, err)
	}
	return r.Commit(ctx, tx)
}

// FindTransactionByID retrieves a document with its lines.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	lineQuery := `SELECT ` + transactionLineColumns + ` FROM transaction_lines WHERE transaction_id = $1 ORDER BY line_id;`
	rows, err := r.Pool.Query(ctx, lineQuery, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines of transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	var lines []models.TransactionLine
	for rows.Next() {
		l, err := scanTransactionLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction lines: %w", err)
	}

	d := mapping.ToDomainTransaction(m)
	d.Lines = mapping.ToDomainTransactionLineSlice(lines)
	return &d, nil
}

// ListTransactions retrieves a filtered, token-paginated page of document
// headers, newest first.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter portsrepo.ListTransactionsFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`
	args := []any{}
	argPos := 1

	if filter.TransactionType != nil {
		query += fmt.Sprintf(" AND transaction_type = $%d", argPos)
		args = append(args, string(*filter.TransactionType))
		argPos++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, string(*filter.Status))
		argPos++
	}
	if filter.ContactID != nil {
		query += fmt.Sprintf(" AND contact_id = $%d", argPos)
		args = append(args, *filter.ContactID)
		argPos++
	}

	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += fmt.Sprintf(" AND (created_at, transaction_id) < ($%d, $%d)", argPos, argPos+1)
		args = append(args, createdAt, id)
		argPos += 2
	}

	// Fetch one extra row to know whether another page exists.
	query += fmt.Sprintf(" ORDER BY created_at DESC, transaction_id DESC LIMIT $%d;", argPos)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var result []models.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	var token *string
	if len(result) > limit {
		result = result[:limit]
		last := result[len(result)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		token = &t
	}
	return mapping.ToDomainTransactionSlice(result), token, nil
}

// updatePaidAmountTx writes a document's paid amount and payment status
// inside an open transaction. The caller computes both through
// domain.ApplyPaymentAmount from values read under the row lock. Used by
// the payment repository while posting and voiding.
func updatePaidAmountTx(ctx context.Context, tx pgx.Tx, transactionID string, paid decimal.Decimal, status domain.PaymentStatus, userID string, now time.Time) error {
	_, err := tx.Exec(ctx, `
		UPDATE transactions
		SET paid_amount = $2, payment_status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE transaction_id = $1;
	`, transactionID, paid, models.PaymentStatus(status), now, userID)
	if err != nil {
		return fmt.Errorf("failed to update paid amount of transaction %s: %w", transactionID, err)
	}
	return nil
}
