package modules

import (
	"github.com/tourhub-uz/tourhub/modules/audit"
	"github.com/tourhub-uz/tourhub/modules/catalog"
	"github.com/tourhub-uz/tourhub/modules/contracts"
	"github.com/tourhub-uz/tourhub/modules/core"
	"github.com/tourhub-uz/tourhub/modules/events"
	"github.com/tourhub-uz/tourhub/modules/suppliers"
	"github.com/tourhub-uz/tourhub/pkg/application"
)

// BuiltInModules is the registration order. Audit must come before every
// module that records to it, and contracts before suppliers, which resolves
// the contract counter at registration time.
var BuiltInModules = []application.Module{
	core.NewModule(),
	audit.NewModule(),
	catalog.NewModule(),
	events.NewModule(),
	contracts.NewModule(),
	suppliers.NewModule(),
}

// Load registers every module, in order.
func Load(app application.Application, mods ...application.Module) error {
	if len(mods) == 0 {
		mods = BuiltInModules
	}
	for _, m := range mods {
		if err := m.Register(app); err != nil {
			return err
		}
	}
	return nil
}
