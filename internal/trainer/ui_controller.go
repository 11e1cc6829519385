package trainer

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/lowaak/stamena-trainer/internal/go_func_utils"
	"github.com/lowaak/stamena-trainer/internal/progress"
	"github.com/lowaak/stamena-trainer/internal/session"
)

// SessionControl drives the workout session (a session.Runner)
type SessionControl interface {
	Toggle() session.State
	Reset() session.State
}

// HistoryReader lists recent workouts (a progress.History)
type HistoryReader interface {
	Recent(ctx context.Context, n int) ([]progress.Entry, error)
}

// CompletionSource publishes finished workouts (a Coordinator)
type CompletionSource interface {
	ListenToCompletion(ch chan<- Completion) func()
}

// NewUIControllerArg holds the arguments for creating a new UIController.
// History and Completions may be nil.
type NewUIControllerArg struct {
	Model       *UIModel
	Session     SessionControl
	Store       *progress.Store
	History     HistoryReader
	Completions CompletionSource
	Logger      *log.Logger
}

// UIController handles UI events and coordinates with the UIModel
type UIController struct {
	model   *UIModel
	session SessionControl
	store   *progress.Store
	history HistoryReader
	logger  *log.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	bannerMu    sync.Mutex
	bannerTimer *time.Timer
}

// NewUIController creates a new UIController with the given dependencies
func NewUIController(args NewUIControllerArg) *UIController {
	if args.Model == nil {
		panic("UIController: model cannot be nil")
	}
	if args.Session == nil {
		panic("UIController: session cannot be nil")
	}
	if args.Store == nil {
		panic("UIController: store cannot be nil")
	}
	if args.Logger == nil {
		panic("UIController: logger cannot be nil")
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &UIController{
		model:   args.Model,
		session: args.Session,
		store:   args.Store,
		history: args.History,
		logger:  args.Logger,
		ctx:     ctx,
		cancel:  cancel,
	}

	if args.Completions != nil {
		ch := make(chan Completion, 4)
		unregister := args.Completions.ListenToCompletion(ch)
		c.wg.Add(1)
		go_func_utils.SafeGo(c.logger, func() { c.listenToCompletion(ch, unregister) })
	}

	c.RefreshProgress()
	return c
}

func (c *UIController) listenToCompletion(ch <-chan Completion, unregister func()) {
	defer c.wg.Done()
	defer unregister()

	for {
		select {
		case <-c.ctx.Done():
			return
		case done, ok := <-ch:
			if !ok {
				return
			}
			if done.Announce {
				c.ShowBanner(done.Message())
			}
			c.RefreshProgress()
		}
	}
}

// ShowBanner puts text in the banner line and clears it after bannerDuration
// unless another banner replaced it.
func (c *UIController) ShowBanner(text string) {
	c.bannerMu.Lock()
	defer c.bannerMu.Unlock()

	if c.bannerTimer != nil {
		c.bannerTimer.Stop()
	}
	c.model.SetBanner(text)
	c.bannerTimer = time.AfterFunc(bannerDuration, func() {
		if c.model.GetBanner() == text {
			c.model.SetBanner("")
		}
	})
}

// OnEscapeKey handles when the Escape key is pressed
func (c *UIController) OnEscapeKey() {
	c.model.RequestCloseApplication()
}

// OnModeChange handles when the user requests a mode change
func (c *UIController) OnModeChange(mode UIMode) {
	if info, ok := GetUIModeInfo(mode); ok {
		c.logger.Printf("Switching to %s mode", info.DisplayName)
	}
	if mode == UIModeProgress {
		c.RefreshProgress()
	}
	c.model.SetMode(mode)
}

// --- Workout Methods ---

// ToggleWorkout starts, pauses, resumes or restarts the session
func (c *UIController) ToggleWorkout() {
	st := c.session.Toggle()
	c.model.SetSessionState(st)
}

// ResetWorkout abandons the current attempt
func (c *UIController) ResetWorkout() {
	st := c.session.Reset()
	c.model.SetSessionState(st)
}

// LevelUp selects the next level manually. Requires the override switch.
func (c *UIController) LevelUp() {
	c.setLevel(c.store.Level() + 1)
}

// LevelDown selects the previous level manually. Requires the override switch.
func (c *UIController) LevelDown() {
	c.setLevel(c.store.Level() - 1)
}

func (c *UIController) setLevel(level int) {
	err := c.store.SetLevel(level)
	switch {
	case errors.Is(err, progress.ErrLevelLocked):
		c.logger.Printf("Level selection is locked - enable the override in Settings (press 3, then u)")
	case errors.Is(err, progress.ErrLevelOutOfRange):
		c.logger.Printf("Level %d is out of range", level)
	case err != nil:
		c.logger.Printf("Failed to set level: %v", err)
	default:
		c.logger.Printf("Level set to %d", level)
	}
	c.RefreshProgress()
}

// --- Settings Methods ---

// ToggleUnlocked flips the manual level override
func (c *UIController) ToggleUnlocked() {
	c.store.SetUnlocked(!c.store.Record().Unlocked)
	c.RefreshProgress()
}

// ToggleTextCues flips the on-screen squeeze/relax text
func (c *UIController) ToggleTextCues() {
	c.store.SetTextCues(!c.store.Record().TextCues)
	c.RefreshProgress()
}

// ToggleAudioCues flips the sound cues
func (c *UIController) ToggleAudioCues() {
	c.store.SetAudioCues(!c.store.Record().AudioCues)
	c.RefreshProgress()
}

// ToggleVibrationCues flips the vibration cues
func (c *UIController) ToggleVibrationCues() {
	c.store.SetVibrationCues(!c.store.Record().VibrationCues)
	c.RefreshProgress()
}

// ToggleWorkoutNotifications flips the daily reminders and risk warning
func (c *UIController) ToggleWorkoutNotifications() {
	c.store.SetWorkoutNotifications(!c.store.Record().WorkoutNotifications)
	c.RefreshProgress()
}

// TogglePointNotifications flips the completion banner
func (c *UIController) TogglePointNotifications() {
	c.store.SetPointNotifications(!c.store.Record().PointNotifications)
	c.RefreshProgress()
}

// RefreshProgress reloads the record and the recent history into the model
func (c *UIController) RefreshProgress() {
	c.model.SetRecord(c.store.Record())

	if c.history == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.ctx, historyTimeout)
	defer cancel()
	entries, err := c.history.Recent(ctx, historyPageSize)
	if err != nil {
		c.logger.Printf("UIController: failed to read history: %v", err)
		return
	}
	c.model.SetHistory(entries)
}

// Shutdown stops the completion listener
func (c *UIController) Shutdown() {
	c.cancel()
	c.wg.Wait()

	c.bannerMu.Lock()
	if c.bannerTimer != nil {
		c.bannerTimer.Stop()
	}
	c.bannerMu.Unlock()
}
