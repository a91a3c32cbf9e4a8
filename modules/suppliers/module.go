package suppliers

import (
	auditservices "github.com/tourhub-uz/tourhub/modules/audit/services"
	contractservices "github.com/tourhub-uz/tourhub/modules/contracts/services"
	"github.com/tourhub-uz/tourhub/modules/suppliers/infrastructure/persistence"
	"github.com/tourhub-uz/tourhub/modules/suppliers/presentation/controllers"
	"github.com/tourhub-uz/tourhub/modules/suppliers/services"
	"github.com/tourhub-uz/tourhub/pkg/application"
)

type Module struct{}

func NewModule() application.Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "suppliers"
}

// Register wires the supplier service. The contracts module must be loaded
// first: its service backs the deletion guard.
func (m *Module) Register(app application.Application) error {
	audit := app.Service(auditservices.AuditService{}).(*auditservices.AuditService)
	contracts := app.Service(contractservices.ContractService{}).(*contractservices.ContractService)

	app.RegisterServices(
		services.NewSupplierService(
			persistence.NewSupplierRepository(),
			contracts,
			audit,
			app.EventPublisher(),
			app.Invalidator(),
		),
	)
	app.RegisterControllers(
		controllers.NewSupplierController(app),
	)
	return nil
}
