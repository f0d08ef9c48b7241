package repositories

// RepositoryProvider bundles every repository implementation for injection
// into the service container.
type RepositoryProvider struct {
	AnalyticalAccountRepo AnalyticalAccountRepositoryFacade
	AutoAnalyticalRepo    AutoAnalyticalRepositoryFacade
	TransactionRepo       TransactionRepositoryFacade
	BudgetRepo            BudgetRepositoryFacade
	PaymentRepo           PaymentRepositoryFacade
	MasterDataRepo        MasterDataRepositoryFacade
	UserRepo              UserRepositoryFacade
}
