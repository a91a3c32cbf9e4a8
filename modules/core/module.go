package core

import (
	"github.com/tourhub-uz/tourhub/modules/core/infrastructure/persistence"
	"github.com/tourhub-uz/tourhub/modules/core/presentation/controllers"
	"github.com/tourhub-uz/tourhub/modules/core/services"
	"github.com/tourhub-uz/tourhub/pkg/application"
)

type Module struct{}

func NewModule() application.Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "core"
}

func (m *Module) Register(app application.Application) error {
	userRepo := persistence.NewUserRepository()
	app.RegisterServices(
		services.NewAuthContextService(userRepo),
	)
	app.RegisterControllers(
		controllers.NewUploadController(app),
	)
	return nil
}
