package catalog

import (
	auditservices "github.com/tourhub-uz/tourhub/modules/audit/services"
	bookingpersistence "github.com/tourhub-uz/tourhub/modules/bookings/infrastructure/persistence"
	"github.com/tourhub-uz/tourhub/modules/catalog/infrastructure/persistence"
	"github.com/tourhub-uz/tourhub/modules/catalog/presentation/controllers"
	"github.com/tourhub-uz/tourhub/modules/catalog/services"
	contractpersistence "github.com/tourhub-uz/tourhub/modules/contracts/infrastructure/persistence"
	eventpersistence "github.com/tourhub-uz/tourhub/modules/events/infrastructure/persistence"
	"github.com/tourhub-uz/tourhub/pkg/application"
)

type Module struct{}

func NewModule() application.Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "catalog"
}

func (m *Module) Register(app application.Application) error {
	audit := app.Service(auditservices.AuditService{}).(*auditservices.AuditService)

	productRepo := persistence.NewProductRepository()
	typeRepo := persistence.NewProductTypeRepository()
	optionRepo := persistence.NewProductOptionRepository()
	sellingRateRepo := persistence.NewSellingRateRepository()

	// A nil store must stay a nil interface so the service's guard works.
	var media services.MediaRemover
	if ms := app.Media(); ms != nil {
		media = ms
	}

	app.RegisterServices(
		services.NewProductService(productRepo, typeRepo, media, audit, app.EventPublisher(), app.Invalidator()),
		services.NewProductOptionService(optionRepo, audit, app.Invalidator()),
		services.NewSellingRateService(sellingRateRepo, audit, app.Invalidator()),
		services.NewProductQueryService(
			productRepo,
			typeRepo,
			optionRepo,
			sellingRateRepo,
			contractpersistence.NewSupplierRateRepository(),
			contractpersistence.NewAllocationRepository(),
			bookingpersistence.NewBookingRepository(),
			eventpersistence.NewEventRepository(),
			audit,
		),
	)
	app.RegisterControllers(
		controllers.NewProductController(app),
	)
	return nil
}
