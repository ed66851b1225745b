package services

// ServiceContainer holds instances of all the application services.
// This simplifies dependency injection into the handlers layer.
type ServiceContainer struct {
	User         UserSvcFacade
	Item         ItemSvcFacade
	Account      AccountSvcFacade
	Sync         SyncSvcFacade
	Review       ReviewSvcFacade
	Report       ReportSvcFacade
	Subscription SubscriptionSvcFacade
}
