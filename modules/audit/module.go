package audit

import (
	"github.com/tourhub-uz/tourhub/modules/audit/infrastructure/persistence"
	"github.com/tourhub-uz/tourhub/modules/audit/presentation/controllers"
	"github.com/tourhub-uz/tourhub/modules/audit/services"
	"github.com/tourhub-uz/tourhub/pkg/application"
)

type Module struct{}

func NewModule() application.Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "audit"
}

func (m *Module) Register(app application.Application) error {
	app.RegisterServices(
		services.NewAuditService(persistence.NewAuditLogRepository()),
	)
	app.RegisterControllers(
		controllers.NewAuditController(app),
	)
	return nil
}
