package pgsql

import (
	portsrepo "github.com/anayki/biz_erp_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AnalyticalAccountRepo: newPgxAnalyticalAccountRepository(dbPool),
		AutoAnalyticalRepo:    newPgxAutoAnalyticalRepository(dbPool),
		TransactionRepo:       newPgxTransactionRepository(dbPool),
		BudgetRepo:            newPgxBudgetRepository(dbPool),
		PaymentRepo:           newPgxPaymentRepository(dbPool),
		MasterDataRepo:        newPgxMasterDataRepository(dbPool),
		UserRepo:              newPgxUserRepository(dbPool),
	}
}
