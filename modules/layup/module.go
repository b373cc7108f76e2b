package layup

import (
	"embed"

	"github.com/glennajones/gummy-bear/modules/hrm/domain/entities/layupsetting"
	hrmservices "github.com/glennajones/gummy-bear/modules/hrm/services"
	"github.com/glennajones/gummy-bear/modules/layup/infrastructure/persistence"
	"github.com/glennajones/gummy-bear/modules/layup/presentation/controllers"
	"github.com/glennajones/gummy-bear/modules/layup/services"
	"github.com/glennajones/gummy-bear/pkg/application"
	"github.com/glennajones/gummy-bear/pkg/configuration"
)

//go:embed infrastructure/persistence/schema/*.sql
var MigrationFiles embed.FS

const replanLockName = "layup.replanner"

type ModuleOptions struct {
	// Layup defaults to the process configuration.
	Layup *configuration.LayupOptions
}

func NewModule(opts *ModuleOptions) application.Module {
	if opts == nil {
		opts = &ModuleOptions{}
	}
	return &Module{options: opts}
}

type Module struct {
	options *ModuleOptions
}

// Register wires the layup scheduler. The hrm module must be registered
// first; it supplies staffing.
func (m *Module) Register(app application.Application) error {
	conf := m.options.Layup
	if conf == nil {
		conf = &configuration.Use().Layup
	}
	department := conf.Department
	if department == "" {
		department = layupsetting.DefaultDepartment
	}
	app.Migrations().RegisterSchema(m.Name(), MigrationFiles, "infrastructure/persistence/schema")

	moldRepo := persistence.NewMoldRepository()
	staff := app.Service(hrmservices.LayupSettingService{}).(*hrmservices.LayupSettingService)
	scheduleService := services.NewScheduleService(
		moldRepo,
		persistence.NewQueueRepository(department),
		persistence.NewScheduleRepository(),
		staff,
		app.EventPublisher(),
		services.ScheduleOptions{
			Policy:     PolicyFromOptions(*conf),
			Department: department,
			Timeout:    conf.RunTimeout,
			Logger:     app.Logger(),
		},
	)
	app.RegisterServices(
		scheduleService,
		services.NewMoldService(moldRepo, app.EventPublisher()),
	)
	app.RegisterControllers(
		controllers.NewScheduleController(app),
		controllers.NewLOPController(app),
		controllers.NewMoldController(app),
	)

	if conf.ReplanInterval > 0 {
		opts := services.ReplannerOptions{
			Interval: conf.ReplanInterval,
			Logger:   app.Logger(),
		}
		if conf.ReplanSingleActive && app.DB() != nil {
			opts.Lock = persistence.NewAdvisoryLock(app.DB(), replanLockName)
		}
		replanner := services.NewReplanner(scheduleService, opts)
		app.EventPublisher().Subscribe(replanner.OnMoldUpdated)
		app.EventPublisher().Subscribe(replanner.OnStaffUpdated)
		app.RegisterWorker(replanner)
	}
	return nil
}

func (m *Module) Name() string {
	return "layup"
}
