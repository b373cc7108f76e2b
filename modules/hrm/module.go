package hrm

import (
	"embed"

	"github.com/glennajones/gummy-bear/modules/hrm/infrastructure/persistence"
	"github.com/glennajones/gummy-bear/modules/hrm/presentation/controllers"
	"github.com/glennajones/gummy-bear/modules/hrm/services"
	"github.com/glennajones/gummy-bear/pkg/application"
)

//go:embed infrastructure/persistence/schema/*.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(m.Name(), MigrationFiles, "infrastructure/persistence/schema")
	app.RegisterServices(
		services.NewLayupSettingService(persistence.NewLayupSettingRepository(), app.EventPublisher()),
	)
	app.RegisterControllers(
		controllers.NewLayupSettingController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "hrm"
}
