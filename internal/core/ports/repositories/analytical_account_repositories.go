package repositories

import (
	"context"
	"time"

	"github.com/anayki/biz_erp_app/internal/core/domain"
)

// AnalyticalAccountReader defines read operations for analytical accounts.
type AnalyticalAccountReader interface {
	// FindAnalyticalAccountByID retrieves one account by its ID.
	FindAnalyticalAccountByID(ctx context.Context, accountID string) (*domain.AnalyticalAccount, error)

	// FindAnalyticalAccountsByIDs retrieves several accounts keyed by ID.
	// IDs without a matching account are simply absent from the map.
	FindAnalyticalAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.AnalyticalAccount, error)

	// ListAnalyticalAccounts retrieves all accounts, inactive ones included
	// only when includeInactive is set.
	ListAnalyticalAccounts(ctx context.Context, includeInactive bool) ([]domain.AnalyticalAccount, error)
}

// AnalyticalAccountWriter defines write operations for analytical accounts.
type AnalyticalAccountWriter interface {
	SaveAnalyticalAccount(ctx context.Context, account domain.AnalyticalAccount) error
	UpdateAnalyticalAccount(ctx context.Context, account domain.AnalyticalAccount) error

	// DeactivateAnalyticalAccount marks the account inactive. Accounts are
	// never hard-deleted while referenced by lines or budgets.
	DeactivateAnalyticalAccount(ctx context.Context, accountID string, userID string, now time.Time) error
}

// AnalyticalAccountRepositoryFacade combines reader and writer.
type AnalyticalAccountRepositoryFacade interface {
	AnalyticalAccountReader
	AnalyticalAccountWriter
}
