package trainer

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lowaak/stamena-trainer/internal/config"
	"github.com/lowaak/stamena-trainer/internal/feedback"
	"github.com/lowaak/stamena-trainer/internal/go_func_utils"
	"github.com/lowaak/stamena-trainer/internal/notify"
	"github.com/lowaak/stamena-trainer/internal/progress"
	"github.com/lowaak/stamena-trainer/internal/session"
)

// App holds the long-lived collaborators shared by every command
type App struct {
	Config   *config.Config
	Store    *progress.Store
	History  *progress.History // nil when the database could not be opened
	Notifier *notify.LocalNotifier
	logger   *log.Logger
}

// OpenApp builds the store, notifier and history from cfg. deliver receives
// notifications when they fire; it may be nil.
func OpenApp(cfg *config.Config, logger *log.Logger, deliver func(notify.Notification)) (*App, error) {
	if cfg == nil {
		return nil, errors.New("OpenApp: config cannot be nil")
	}
	if logger == nil {
		panic("App: logger cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	notifier := notify.NewLocalNotifier(cfg.Permission(), deliver, nil, logger)
	store := progress.NewStore(
		progress.NewFilePersister(cfg.DataDir, logger),
		notifier,
		logger,
		progress.WithRiskWarning(cfg.RiskWarningAfter, cfg.RiskWarningMargin),
	)

	history, err := progress.OpenHistory(cfg.DataDir)
	if err != nil {
		logger.Printf("App: workout history unavailable: %v", err)
		history = nil
	}

	return &App{
		Config:   cfg,
		Store:    store,
		History:  history,
		Notifier: notifier,
		logger:   logger,
	}, nil
}

// historyLog returns History as the interface, keeping a nil History nil
func (a *App) historyLog() (WorkoutLog, HistoryReader) {
	if a.History == nil {
		return nil, nil
	}
	return a.History, a.History
}

// Close waits for pending reschedules, cancels in-process timers and
// closes the history database.
func (a *App) Close() error {
	a.Store.Close()
	var errs []error
	if err := a.Notifier.CancelAll(); err != nil {
		errs = append(errs, err)
	}
	if a.History != nil {
		if err := a.History.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RunTUI runs the interactive workout until the user quits. uiLogChan
// carries the lines the logger writes (see ChannelWriter).
func RunTUI(cfg *config.Config, logger *log.Logger, uiLogChan <-chan string) error {
	model := NewUIModel(cfg.DataDir, logger, uiLogChan)
	defer model.Shutdown()

	app, err := OpenApp(cfg, logger, func(n notify.Notification) {
		model.SetBanner(fmt.Sprintf("%s  %s", n.Title, n.Body))
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Printf("App: close: %v", err)
		}
	}()

	bell := feedback.NewBellBackend(feedback.NewLogBackend(logger))
	player := feedback.NewPlayer(bell, app.Store.Toggles, logger)

	scheduler := session.NewScheduler(app.Store.Level(), logger, session.WithCountdown(cfg.Countdown))
	workoutLog, historyReader := app.historyLog()

	// Scheduler events only happen once the user starts a workout, so the
	// coordinator can subscribe after the runner exists.
	runner := session.NewRunner(scheduler, cfg.TickInterval, nil, logger)
	coordinator := NewCoordinator(CoordinatorArgs{
		Events:  scheduler,
		Levels:  runner,
		Store:   app.Store,
		History: workoutLog,
		Player:  player,
		Logger:  logger,
	})
	defer coordinator.Shutdown()
	defer runner.Shutdown()

	model.FollowSession(runner)

	controller := NewUIController(NewUIControllerArg{
		Model:       model,
		Session:     runner,
		Store:       app.Store,
		History:     historyReader,
		Completions: coordinator,
		Logger:      logger,
	})
	defer controller.Shutdown()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating terminal screen: %w", err)
	}
	tviewApp := tview.NewApplication().SetScreen(screen)
	bell.Attach(screen)
	defer bell.Attach(nil)

	view := NewBaseUIView(NewBaseUIViewArg{
		UIViewImpl:   NewCursesUIView(logger, tviewApp),
		UIModel:      model,
		UIController: controller,
		Logger:       logger,
	})
	defer view.Shutdown()

	logger.Printf("App: started at level %d", app.Store.Level())
	return go_func_utils.SafeCall(logger, "App: run TUI", view.Run)
}

// RecentWorkouts reads the newest n history entries. Without a history
// database it returns nothing.
func (a *App) RecentWorkouts(n int) ([]progress.Entry, error) {
	if a.History == nil {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()
	return a.History.Recent(ctx, n)
}
