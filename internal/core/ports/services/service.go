package services

// ServiceContainer holds instances of all the application services.
// It is built once in main and handed to the route registration.
type ServiceContainer struct {
	Disbursement DisbursementSvcFacade
}
