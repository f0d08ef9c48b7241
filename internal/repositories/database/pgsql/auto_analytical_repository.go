package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anayki/biz_erp_app/internal/apperrors"
	"github.com/anayki/biz_erp_app/internal/core/domain"
	portsrepo "github.com/anayki/biz_erp_app/internal/core/ports/repositories"
	"github.com/anayki/biz_erp_app/internal/models"
	"github.com/anayki/biz_erp_app/internal/utils/mapping"
)

type PgxAutoAnalyticalRepository struct {
	pool *pgxpool.Pool
}

// newPgxAutoAnalyticalRepository creates a new repository for auto-analytical rules.
func newPgxAutoAnalyticalRepository(pool *pgxpool.Pool) portsrepo.AutoAnalyticalRepositoryFacade {
	return &PgxAutoAnalyticalRepository{pool: pool}
}

var _ portsrepo.AutoAnalyticalRepositoryFacade = (*PgxAutoAnalyticalRepository)(nil)

const autoModelColumns = `model_id, name, partner_tag, partner_id, category_id, product_id, analytical_account_id, status, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanAutoModel(row pgx.Row) (models.AutoAnalyticalModel, error) {
	var m models.AutoAnalyticalModel
	err := row.Scan(
		&m.ModelID,
		&m.Name,
		&m.PartnerTag,
		&m.PartnerID,
		&m.CategoryID,
		&m.ProductID,
		&m.AnalyticalAccountID,
		&m.Status,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveModel inserts a new rule.
func (r *PgxAutoAnalyticalRepository) SaveModel(ctx context.Context, model domain.AutoAnalyticalModel) error {
	m := mapping.ToModelAutoAnalyticalModel(model)

	query := `
		INSERT INTO auto_analytical_models (` + autoModelColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.pool.Exec(ctx, query,
		m.ModelID,
		m.Name,
		m.PartnerTag,
		m.PartnerID,
		m.CategoryID,
		m.ProductID,
		m.AnalyticalAccountID,
		m.Status,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: model with ID %s already exists", apperrors.ErrDuplicate, m.ModelID)
		}
		return fmt.Errorf("failed to save auto-analytical model %s: %w", m.ModelID, err)
	}
	return nil
}

// UpdateModel replaces the editable columns of a rule.
func (r *PgxAutoAnalyticalRepository) UpdateModel(ctx context.Context, model domain.AutoAnalyticalModel) error {
	m := mapping.ToModelAutoAnalyticalModel(model)

	query := `
		UPDATE auto_analytical_models
		SET name = $2, partner_tag = $3, partner_id = $4, category_id = $5, product_id = $6,
			analytical_account_id = $7, is_active = $8, last_updated_at = $9, last_updated_by = $10
		WHERE model_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		m.ModelID,
		m.Name,
		m.PartnerTag,
		m.PartnerID,
		m.CategoryID,
		m.ProductID,
		m.AnalyticalAccountID,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update auto-analytical model %s: %w", m.ModelID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindModelByID retrieves one rule.
func (r *PgxAutoAnalyticalRepository) FindModelByID(ctx context.Context, modelID string) (*domain.AutoAnalyticalModel, error) {
	query := `SELECT ` + autoModelColumns + ` FROM auto_analytical_models WHERE model_id = $1;`

	m, err := scanAutoModel(r.pool.QueryRow(ctx, query, modelID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find auto-analytical model %s: %w", modelID, err)
	}
	d := mapping.ToDomainAutoAnalyticalModel(m)
	return &d, nil
}

// ListModels retrieves rules matching the filter, newest first.
func (r *PgxAutoAnalyticalRepository) ListModels(ctx context.Context, filter portsrepo.ListModelsFilter) ([]domain.AutoAnalyticalModel, error) {
	query := `SELECT ` + autoModelColumns + ` FROM auto_analytical_models WHERE 1=1`
	args := []any{}
	argPos := 1
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, string(*filter.Status))
		argPos++
	}
	if filter.IsActive != nil {
		query += fmt.Sprintf(" AND is_active = $%d", argPos)
		args = append(args, *filter.IsActive)
		argPos++
	}
	query += " ORDER BY created_at DESC, model_id;"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list auto-analytical models: %w", err)
	}
	defer rows.Close()

	var result []models.AutoAnalyticalModel
	for rows.Next() {
		m, err := scanAutoModel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan auto-analytical model: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate auto-analytical models: %w", err)
	}
	return mapping.ToDomainAutoAnalyticalModelSlice(result), nil
}

// UpdateModelStatus flips the rule lifecycle status.
func (r *PgxAutoAnalyticalRepository) UpdateModelStatus(ctx context.Context, modelID string, status domain.ModelStatus, userID string, now time.Time) error {
	query := `
		UPDATE auto_analytical_models
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE model_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, modelID, string(status), now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status of auto-analytical model %s: %w", modelID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindResolutionCandidates retrieves all CONFIRMED, active rules.
func (r *PgxAutoAnalyticalRepository) FindResolutionCandidates(ctx context.Context) ([]domain.AutoAnalyticalModel, error) {
	query := `SELECT ` + autoModelColumns + ` FROM auto_analytical_models WHERE status = $1 AND is_active = TRUE;`

	rows, err := r.pool.Query(ctx, query, string(domain.ModelConfirmed))
	if err != nil {
		return nil, fmt.Errorf("failed to query resolution candidates: %w", err)
	}
	defer rows.Close()

	var result []models.AutoAnalyticalModel
	for rows.Next() {
		m, err := scanAutoModel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan auto-analytical model: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate resolution candidates: %w", err)
	}
	return mapping.ToDomainAutoAnalyticalModelSlice(result), nil
}
