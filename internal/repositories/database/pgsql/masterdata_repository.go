package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anayki/biz_erp_app/internal/apperrors"
	"github.com/anayki/biz_erp_app/internal/core/domain"
	portsrepo "github.com/anayki/biz_erp_app/internal/core/ports/repositories"
	"github.com/anayki/biz_erp_app/internal/models"
	"github.com/anayki/biz_erp_app/internal/utils/mapping"
)

type PgxMasterDataRepository struct {
	pool *pgxpool.Pool
}

// newPgxMasterDataRepository creates a new read-only repository for master data.
func newPgxMasterDataRepository(pool *pgxpool.Pool) portsrepo.MasterDataRepositoryFacade {
	return &PgxMasterDataRepository{pool: pool}
}

var _ portsrepo.MasterDataRepositoryFacade = (*PgxMasterDataRepository)(nil)

const contactColumns = `contact_id, name, contact_type, tag, is_active, created_at, created_by, last_updated_at, last_updated_by`

const productColumns = `product_id, name, category_id, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanContact(row pgx.Row) (models.Contact, error) {
	var m models.Contact
	var tag sql.NullString
	err := row.Scan(
		&m.ContactID,
		&m.Name,
		&m.ContactType,
		&tag,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return m, err
	}
	m.Tag = tag.String
	return m, nil
}

func scanProduct(row pgx.Row) (models.Product, error) {
	var m models.Product
	var categoryID sql.NullString
	err := row.Scan(
		&m.ProductID,
		&m.Name,
		&categoryID,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return m, err
	}
	m.CategoryID = categoryID.String
	return m, nil
}

// FindContactByID retrieves one contact.
func (r *PgxMasterDataRepository) FindContactByID(ctx context.Context, contactID string) (*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE contact_id = $1;`

	m, err := scanContact(r.pool.QueryRow(ctx, query, contactID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find contact %s: %w", contactID, err)
	}
	d := mapping.ToDomainContact(m)
	return &d, nil
}

// ListContacts retrieves active contacts, optionally of one type.
func (r *PgxMasterDataRepository) ListContacts(ctx context.Context, contactType *domain.ContactType) ([]domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE is_active = TRUE`
	args := []any{}
	if contactType != nil {
		query += ` AND contact_type = $1`
		args = append(args, string(*contactType))
	}
	query += ` ORDER BY name;`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var result []models.Contact
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}
	return mapping.ToDomainContactSlice(result), nil
}

// FindProductsByIDs retrieves products keyed by ID.
func (r *PgxMasterDataRepository) FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	result := make(map[string]domain.Product, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = ANY($1);`
	rows, err := r.pool.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		result[m.ProductID] = mapping.ToDomainProduct(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return result, nil
}

// ListProducts retrieves active products.
func (r *PgxMasterDataRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active = TRUE ORDER BY name;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var result []models.Product
	for rows.Next() {
		m, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return mapping.ToDomainProductSlice(result), nil
}

// ListCategories retrieves all categories.
func (r *PgxMasterDataRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT category_id, name, created_at, created_by, last_updated_at, last_updated_by FROM categories ORDER BY name;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var result []models.Category
	for rows.Next() {
		var m models.Category
		if err := rows.Scan(&m.CategoryID, &m.Name, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return mapping.ToDomainCategorySlice(result), nil
}
