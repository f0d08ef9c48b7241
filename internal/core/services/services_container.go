package services

import (
	portsrepo "github.com/anayki/biz_erp_app/internal/core/ports/repositories"
	portssvc "github.com/anayki/biz_erp_app/internal/core/ports/services"
	"github.com/anayki/biz_erp_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.AnalyticalAccount = NewAnalyticalAccountService(repos.AnalyticalAccountRepo)
	container.AutoAnalytical = NewAutoAnalyticalService(repos.AutoAnalyticalRepo, repos.AnalyticalAccountRepo)
	container.Budget = NewBudgetService(repos.BudgetRepo, repos.AnalyticalAccountRepo)

	// The transaction engine leans on the resolver and the budget ledger.
	container.Transaction = NewTransactionService(
		repos.TransactionRepo,
		repos.PaymentRepo,
		repos.MasterDataRepo,
		repos.AnalyticalAccountRepo,
		container.AutoAnalytical,
		container.Budget,
	)
	container.Payment = NewPaymentService(repos.PaymentRepo, repos.TransactionRepo, repos.MasterDataRepo)
	container.MasterData = NewMasterDataService(repos.MasterDataRepo)
	container.Auth = NewAuthService(repos.UserRepo, cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer)

	return container
}
