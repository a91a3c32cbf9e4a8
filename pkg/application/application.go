package application

import (
	"reflect"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/tourhub-uz/tourhub/pkg/eventbus"
	"github.com/tourhub-uz/tourhub/pkg/invalidation"
	"github.com/tourhub-uz/tourhub/pkg/storage"
)

// Controller registers its routes on the application router.
type Controller interface {
	Key() string
	Register(r *mux.Router)
}

// Module wires one bounded context's services and controllers into the app.
type Module interface {
	Name() string
	Register(app Application) error
}

type Application interface {
	DB() *pgxpool.Pool
	EventPublisher() eventbus.EventBus
	Logger() *logrus.Logger
	Invalidator() invalidation.Invalidator
	// Media returns the object store, or nil when none is configured.
	Media() *storage.MediaStorage

	RegisterServices(services ...interface{})
	// Service returns the registered instance matching the example's type.
	// Panics when the service is missing: a missing registration is a
	// programming error, not a runtime condition.
	Service(service interface{}) interface{}

	RegisterControllers(controllers ...Controller)
	Controllers() []Controller
}

type ApplicationOptions struct {
	Pool        *pgxpool.Pool
	EventBus    eventbus.EventBus
	Logger      *logrus.Logger
	Invalidator invalidation.Invalidator
	Media       *storage.MediaStorage
}

func New(opts *ApplicationOptions) Application {
	inv := opts.Invalidator
	if inv == nil {
		inv = invalidation.Noop()
	}
	return &application{
		pool:        opts.Pool,
		eventBus:    opts.EventBus,
		logger:      opts.Logger,
		invalidator: inv,
		media:       opts.Media,
		services:    map[reflect.Type]interface{}{},
	}
}

type application struct {
	pool        *pgxpool.Pool
	eventBus    eventbus.EventBus
	logger      *logrus.Logger
	invalidator invalidation.Invalidator
	media       *storage.MediaStorage
	services    map[reflect.Type]interface{}
	controllers []Controller
}

func (app *application) DB() *pgxpool.Pool {
	return app.pool
}

func (app *application) EventPublisher() eventbus.EventBus {
	return app.eventBus
}

func (app *application) Logger() *logrus.Logger {
	return app.logger
}

func (app *application) Invalidator() invalidation.Invalidator {
	return app.invalidator
}

func (app *application) Media() *storage.MediaStorage {
	return app.media
}

func (app *application) RegisterServices(services ...interface{}) {
	for _, service := range services {
		serviceType := reflect.TypeOf(service).Elem()
		app.services[serviceType] = service
	}
}

func (app *application) Service(service interface{}) interface{} {
	serviceType := reflect.TypeOf(service)
	svc, ok := app.services[serviceType]
	if !ok {
		panic("service not found: " + serviceType.String())
	}
	return svc
}

func (app *application) RegisterControllers(controllers ...Controller) {
	app.controllers = append(app.controllers, controllers...)
}

func (app *application) Controllers() []Controller {
	return app.controllers
}

// Load registers every module, failing fast on the first error.
func Load(app Application, modules ...Module) error {
	for _, module := range modules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
