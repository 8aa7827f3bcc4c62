package bootstrap

import (
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	authinadapter "tempo/internal/modules/auth/adapter/in"
	authoutadapter "tempo/internal/modules/auth/adapter/out"
	authservice "tempo/internal/modules/auth/service"
	authusecase "tempo/internal/modules/auth/usecase"
	exportinadapter "tempo/internal/modules/export/adapter/in"
	exportoutadapter "tempo/internal/modules/export/adapter/out"
	exportservice "tempo/internal/modules/export/service"
	exportusecase "tempo/internal/modules/export/usecase"
	notesinadapter "tempo/internal/modules/notes/adapter/in"
	notesoutadapter "tempo/internal/modules/notes/adapter/out"
	notesservice "tempo/internal/modules/notes/service"
	notesusecase "tempo/internal/modules/notes/usecase"
	planninginadapter "tempo/internal/modules/planning/adapter/in"
	planningoutadapter "tempo/internal/modules/planning/adapter/out"
	planningin "tempo/internal/modules/planning/port/in"
	planningservice "tempo/internal/modules/planning/service"
	planningusecase "tempo/internal/modules/planning/usecase"
	scheduleinadapter "tempo/internal/modules/schedule/adapter/in"
	schedulein "tempo/internal/modules/schedule/port/in"
	scheduleservice "tempo/internal/modules/schedule/service"
	scheduleusecase "tempo/internal/modules/schedule/usecase"
	tasksinadapter "tempo/internal/modules/tasks/adapter/in"
	tasksoutadapter "tempo/internal/modules/tasks/adapter/out"
	tasksservice "tempo/internal/modules/tasks/service"
	tasksusecase "tempo/internal/modules/tasks/usecase"
	authin "tempo/internal/modules/auth/port/in"
	exportin "tempo/internal/modules/export/port/in"
	notesin "tempo/internal/modules/notes/port/in"
	tasksin "tempo/internal/modules/tasks/port/in"
	"tempo/internal/platform/api"
	"tempo/internal/platform/clock"
	"tempo/internal/platform/config"
	"tempo/internal/platform/session"
	uiapp "tempo/internal/ui/app"
)

// App holds the wired application graph. CLI handlers serve the cobra
// commands; the usecases behind them also feed the TUI's port interfaces.
type App struct {
	AuthCLI     authinadapter.CLIHandler
	TaskCLI     tasksinadapter.CLIHandler
	PlanCLI     planninginadapter.CLIHandler
	ScheduleCLI scheduleinadapter.CLIHandler
	NoteCLI     notesinadapter.CLIHandler
	ExportCLI   exportinadapter.CLIHandler

	auth     authin.Usecase
	planning planningin.Usecase
	schedule schedulein.Usecase
	tasks    tasksin.Usecase
	notes    notesin.Usecase
	export   exportin.Usecase

	mu        sync.Mutex
	onExpired func()
}

func New(cfg config.Config) (*App, error) {
	app := &App{}
	clk := clock.SystemClock{}
	holder := session.NewHolder()

	jar, err := api.NewFileJar(cfg.CookiePath)
	if err != nil {
		return nil, fmt.Errorf("open cookie jar: %w", err)
	}
	httpClient := api.NewHTTPClient(
		api.WithJar(jar),
		api.WithTimeout(cfg.RequestTimeout),
	)
	channel, err := api.NewChannel(cfg.ServerURL, holder,
		api.WithHTTPClient(httpClient),
		api.WithExpiredFunc(app.sessionExpired),
	)
	if err != nil {
		return nil, fmt.Errorf("new request channel: %w", err)
	}

	authSvc := authservice.NewAuthService(authoutadapter.NewHTTPAuthAPI(channel), holder, jar)
	app.auth = authusecase.NewInteractor(authSvc)

	planCache, err := planningoutadapter.NewSQLitePlanCache(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open plan cache: %w", err)
	}
	planSvc := planningservice.NewSynchronizer(
		planningoutadapter.NewHTTPPlanningAPI(channel), planCache, clk)
	app.planning = planningusecase.NewInteractor(planSvc)

	app.schedule = scheduleusecase.NewInteractor(
		scheduleservice.NewWeekComposer(app.planning))

	app.tasks = tasksusecase.NewInteractor(
		tasksservice.NewTaskService(tasksoutadapter.NewHTTPTaskAPI(channel)))

	app.notes = notesusecase.NewInteractor(
		notesservice.NewNoteService(notesoutadapter.NewHTTPNoteAPI(channel)))

	app.export = exportusecase.NewInteractor(exportservice.NewExporterService(
		exportoutadapter.NewFileManifestStore(cfg.ConfigDir),
		exportoutadapter.NewGRPCHost(),
		app.planning,
	))

	app.AuthCLI = authinadapter.NewCLIHandler(app.auth)
	app.TaskCLI = tasksinadapter.NewCLIHandler(app.tasks)
	app.PlanCLI = planninginadapter.NewCLIHandler(app.planning)
	app.ScheduleCLI = scheduleinadapter.NewCLIHandler(app.schedule)
	app.NoteCLI = notesinadapter.NewCLIHandler(app.notes)
	app.ExportCLI = exportinadapter.NewCLIHandler(app.export)

	return app, nil
}

// RunTUI starts the Bubble Tea program. The request channel's expiry
// callback is routed into the program so an unrecoverable credential
// failure drops the UI back to the login screen.
func RunTUI(app *App) error {
	model := uiapp.NewModel(app.auth, app.planning, app.schedule, app.tasks, app.notes, app.export)
	program := tea.NewProgram(model, tea.WithAltScreen())

	app.setExpiredFunc(func() {
		program.Send(uiapp.SessionExpiredMsg{})
	})
	defer app.setExpiredFunc(nil)

	_, err := program.Run()
	return err
}

func (a *App) setExpiredFunc(fn func()) {
	a.mu.Lock()
	a.onExpired = fn
	a.mu.Unlock()
}

// sessionExpired is installed on the request channel at construction time,
// before any UI exists, so it forwards through an updatable hook.
func (a *App) sessionExpired() {
	a.mu.Lock()
	fn := a.onExpired
	a.mu.Unlock()
	if fn != nil {
		fn()
	}
}
