package events

import (
	auditservices "github.com/tourhub-uz/tourhub/modules/audit/services"
	bookingpersistence "github.com/tourhub-uz/tourhub/modules/bookings/infrastructure/persistence"
	catalogpersistence "github.com/tourhub-uz/tourhub/modules/catalog/infrastructure/persistence"
	contractpersistence "github.com/tourhub-uz/tourhub/modules/contracts/infrastructure/persistence"
	"github.com/tourhub-uz/tourhub/modules/events/infrastructure/persistence"
	"github.com/tourhub-uz/tourhub/modules/events/presentation/controllers"
	"github.com/tourhub-uz/tourhub/modules/events/services"
	"github.com/tourhub-uz/tourhub/pkg/application"
)

type Module struct{}

func NewModule() application.Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "events"
}

func (m *Module) Register(app application.Application) error {
	audit := app.Service(auditservices.AuditService{}).(*auditservices.AuditService)

	eventRepo := persistence.NewEventRepository()

	var media services.ImageRemover
	if ms := app.Media(); ms != nil {
		media = ms
	}

	app.RegisterServices(
		services.NewEventService(eventRepo, media, audit, app.EventPublisher(), app.Invalidator()),
		services.NewEventQueryService(
			eventRepo,
			catalogpersistence.NewProductRepository(),
			contractpersistence.NewContractRepository(),
			bookingpersistence.NewBookingRepository(),
		),
	)
	app.RegisterControllers(
		controllers.NewEventController(app),
	)
	return nil
}
