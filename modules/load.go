package modules

import (
	"github.com/glennajones/gummy-bear/modules/hrm"
	"github.com/glennajones/gummy-bear/modules/layup"
	"github.com/glennajones/gummy-bear/pkg/application"
)

// BuiltInModules lists the modules in registration order; layup depends on
// services registered by hrm.
func BuiltInModules() []application.Module {
	return []application.Module{
		hrm.NewModule(),
		layup.NewModule(nil),
	}
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
