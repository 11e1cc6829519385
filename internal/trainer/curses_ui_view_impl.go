package trainer

import (
	"fmt"
	"log"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lowaak/stamena-trainer/internal/progress"
	"github.com/lowaak/stamena-trainer/internal/session"
)

// Page names for tview.Pages
const (
	pageWorkout  = "workout"
	pageProgress = "progress"
	pageSettings = "settings"
)

const modeHelp = "[yellow]1[white] Workout  |  [yellow]2[white] Progress  |  [yellow]3[white] Settings  |  [yellow]Esc[white]/[yellow]Q[white] Quit"

// CursesUIViewImpl implements UIViewImpl using tview (curses-based terminal UI)
type CursesUIViewImpl struct {
	logger      *log.Logger
	app         *tview.Application
	currentMode UIMode

	// Root container that holds all pages
	pages *tview.Pages

	// Shared components (visible in all modes)
	bannerView *tview.TextView
	logView    *tview.TextView
	mainFlex   *tview.Flex // Banner on top, mode content on left, logs on right

	// Workout mode components
	workoutFlex  *tview.Flex
	sessionPanel *tview.TextView
	planPanel    *tview.TextView

	// Progress mode components
	progressFlex *tview.Flex
	statsPanel   *tview.TextView
	historyPanel *tview.TextView

	// Settings mode components
	settingsFlex  *tview.Flex
	settingsPanel *tview.TextView

	// Latest values, needed to render the session with the text cue setting
	mu       sync.Mutex
	textCues bool
	session  session.State
}

func NewCursesUIView(logger *log.Logger, app *tview.Application) *CursesUIViewImpl {
	if logger == nil {
		panic("CursesUIViewImpl: logger cannot be nil")
	}
	if app == nil {
		panic("CursesUIViewImpl: app cannot be nil")
	}
	return &CursesUIViewImpl{
		logger:      logger,
		app:         app,
		currentMode: UIModeWorkout,
		textCues:    true,
	}
}

func newPanel(title string) *tview.TextView {
	panel := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	panel.SetBorder(true).SetTitle(title)
	return panel
}

func newHelp(text string) *tview.TextView {
	help := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	help.SetText(text)
	return help
}

// Initialize sets up the tview widgets
func (ui *CursesUIViewImpl) Initialize(controller *UIController) {
	// No SetChangedFunc with app.Draw(): it can hang during shutdown. The
	// BaseUIView listeners call Draw() after updating content.
	ui.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	ui.logView.SetBorder(true).SetTitle(" Logs ")

	ui.bannerView = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	ui.pages = tview.NewPages()

	ui.sessionPanel = newPanel(" Session ")
	ui.planPanel = newPanel(" Plan ")
	ui.workoutFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(newHelp(modeHelp), 1, 0, false).
		AddItem(tview.NewFlex().
			AddItem(ui.sessionPanel, 0, 1, true).
			AddItem(ui.planPanel, 0, 1, false), 0, 1, true)

	ui.statsPanel = newPanel(" Progress ")
	ui.historyPanel = newPanel(" Recent Workouts ")
	ui.progressFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(newHelp(modeHelp), 1, 0, false).
		AddItem(ui.statsPanel, 10, 0, true).
		AddItem(ui.historyPanel, 0, 1, false)

	ui.settingsPanel = newPanel(" Settings ")
	ui.settingsFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(newHelp(modeHelp), 1, 0, false).
		AddItem(ui.settingsPanel, 0, 1, true)

	ui.pages.AddPage(pageWorkout, ui.workoutFlex, true, true)
	ui.pages.AddPage(pageProgress, ui.progressFlex, true, false)
	ui.pages.AddPage(pageSettings, ui.settingsFlex, true, false)

	content := tview.NewFlex().
		AddItem(ui.pages, 0, 2, true).
		AddItem(ui.logView, 0, 1, false)

	ui.mainFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.bannerView, 1, 0, false).
		AddItem(content, 0, 1, true)
}

// SetMode switches the UI to the specified mode
func (ui *CursesUIViewImpl) SetMode(mode UIMode) {
	if ui.currentMode == mode {
		return
	}
	ui.currentMode = mode

	switch mode {
	case UIModeWorkout:
		ui.pages.SwitchToPage(pageWorkout)
	case UIModeProgress:
		ui.pages.SwitchToPage(pageProgress)
	case UIModeSettings:
		ui.pages.SwitchToPage(pageSettings)
	}
}

// GetCurrentMode returns the currently active UI mode
func (ui *CursesUIViewImpl) GetCurrentMode() UIMode {
	return ui.currentMode
}

// SetupKeyboardHandlers sets up keyboard event handlers
func (ui *CursesUIViewImpl) SetupKeyboardHandlers(controller *UIController) {
	ui.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			controller.OnEscapeKey()
			return nil
		}
		if event.Key() != tcell.KeyRune {
			return event
		}

		r := event.Rune()
		if mode, ok := GetUIModeByKey(r); ok {
			// The controller updates the model, which notifies us
			controller.OnModeChange(mode)
			return nil
		}
		if r == 'q' {
			controller.OnEscapeKey()
			return nil
		}

		switch ui.currentMode {
		case UIModeWorkout:
			switch r {
			case ' ':
				controller.ToggleWorkout()
			case 'r':
				controller.ResetWorkout()
			case '+', '=':
				controller.LevelUp()
			case '-':
				controller.LevelDown()
			default:
				return event
			}
			return nil
		case UIModeSettings:
			switch r {
			case 't':
				controller.ToggleTextCues()
			case 'a':
				controller.ToggleAudioCues()
			case 'v':
				controller.ToggleVibrationCues()
			case 'n':
				controller.ToggleWorkoutNotifications()
			case 'p':
				controller.TogglePointNotifications()
			case 'u':
				controller.ToggleUnlocked()
			default:
				return event
			}
			return nil
		}
		return event
	})
}

// GetLogViewHeight returns the visible height of the log view
func (ui *CursesUIViewImpl) GetLogViewHeight() int {
	_, _, _, height := ui.logView.GetInnerRect()
	return height
}

// ClearLogView clears the log view
func (ui *CursesUIViewImpl) ClearLogView() {
	ui.logView.Clear()
}

// WriteLogLine writes a line to the log view
func (ui *CursesUIViewImpl) WriteLogLine(line string) error {
	_, err := fmt.Fprint(ui.logView, tview.Escape(line))
	return err
}

// ShowBanner replaces the banner line
func (ui *CursesUIViewImpl) ShowBanner(text string) {
	if text == "" {
		ui.bannerView.SetText("")
		return
	}
	ui.bannerView.SetText(fmt.Sprintf("[black:green] %s [-:-]", tview.Escape(text)))
}

// UpdateSession redraws the session and plan panels
func (ui *CursesUIViewImpl) UpdateSession(st session.State) {
	ui.mu.Lock()
	ui.session = st
	textCues := ui.textCues
	ui.mu.Unlock()

	ui.sessionPanel.SetText(renderSession(st, textCues))
	ui.planPanel.SetText(renderPlan(st))
}

// UpdateRecord redraws the stats and settings panels
func (ui *CursesUIViewImpl) UpdateRecord(rec progress.Record) {
	ui.mu.Lock()
	changed := ui.textCues != rec.TextCues
	ui.textCues = rec.TextCues
	st := ui.session
	ui.mu.Unlock()

	ui.statsPanel.SetText(renderStats(rec))
	ui.settingsPanel.SetText(renderSettings(rec))
	if changed {
		ui.sessionPanel.SetText(renderSession(st, rec.TextCues))
	}
}

// UpdateHistory redraws the recent workouts panel
func (ui *CursesUIViewImpl) UpdateHistory(entries []progress.Entry) {
	ui.historyPanel.SetText(renderHistory(entries))
}

// Draw refreshes/redraws the UI
func (ui *CursesUIViewImpl) Draw() error {
	ui.app.Draw()
	return nil
}

// Run starts the UI and blocks until it exits
func (ui *CursesUIViewImpl) Run() error {
	// SetRoot must be called before setting focus, otherwise focus may be reset
	ui.app.SetRoot(ui.mainFlex, true)
	ui.app.SetFocus(ui.pages)
	return ui.app.Run()
}

// Stop stops the UI framework
func (ui *CursesUIViewImpl) Stop() {
	ui.app.Stop()
}
