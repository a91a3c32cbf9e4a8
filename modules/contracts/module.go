package contracts

import (
	auditservices "github.com/tourhub-uz/tourhub/modules/audit/services"
	bookingpersistence "github.com/tourhub-uz/tourhub/modules/bookings/infrastructure/persistence"
	catalogpersistence "github.com/tourhub-uz/tourhub/modules/catalog/infrastructure/persistence"
	"github.com/tourhub-uz/tourhub/modules/contracts/infrastructure/persistence"
	"github.com/tourhub-uz/tourhub/modules/contracts/presentation/controllers"
	"github.com/tourhub-uz/tourhub/modules/contracts/services"
	supplierpersistence "github.com/tourhub-uz/tourhub/modules/suppliers/infrastructure/persistence"
	"github.com/tourhub-uz/tourhub/pkg/application"
)

type Module struct{}

func NewModule() application.Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "contracts"
}

func (m *Module) Register(app application.Application) error {
	audit := app.Service(auditservices.AuditService{}).(*auditservices.AuditService)

	contractRepo := persistence.NewContractRepository()
	allocationRepo := persistence.NewAllocationRepository()
	rateRepo := persistence.NewSupplierRateRepository()

	app.RegisterServices(
		services.NewContractService(contractRepo, audit, app.EventPublisher(), app.Invalidator()),
		services.NewAllocationService(allocationRepo, audit, app.Invalidator()),
		services.NewSupplierRateService(rateRepo, audit, app.Invalidator()),
		services.NewContractQueryService(
			contractRepo,
			supplierpersistence.NewSupplierRepository(),
			allocationRepo,
			rateRepo,
			bookingpersistence.NewBookingRepository(),
			catalogpersistence.NewProductRepository(),
			catalogpersistence.NewProductOptionRepository(),
			audit,
		),
	)
	app.RegisterControllers(
		controllers.NewContractController(app),
	)
	return nil
}
