package trainer

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/lowaak/stamena-trainer/internal/events"
	"github.com/lowaak/stamena-trainer/internal/feedback"
	"github.com/lowaak/stamena-trainer/internal/go_func_utils"
	"github.com/lowaak/stamena-trainer/internal/progress"
	"github.com/lowaak/stamena-trainer/internal/session"
)

// EventSource is where session events come from (a session.Scheduler)
type EventSource interface {
	Listen(callback func(session.Event)) func()
}

// LevelAware takes a new level directly (a session.Scheduler). An event
// source implementing it learns about a level earned by a workout before
// the finish event returns.
type LevelAware interface {
	OnLevelChanged(level int)
}

// LevelSink receives level changes (a session.Runner)
type LevelSink interface {
	LevelChanged(level int) session.State
}

// WorkoutLog stores completed workouts (a progress.History)
type WorkoutLog interface {
	Add(ctx context.Context, e progress.Entry) (progress.Entry, error)
}

// Completion describes a finished workout after progress was updated
type Completion struct {
	Points      int
	TotalPoints int
	Level       int
	Streak      int
	// False when the workout was the second one of the day and did not
	// count toward the streak
	Counted bool
	// Whether the user wants to be told about points
	Announce bool
	At       time.Time
}

// Message is the banner text for a completion
func (c Completion) Message() string {
	msg := fmt.Sprintf("Workout complete! +%d points (total %d), level %d", c.Points, c.TotalPoints, c.Level)
	if c.Counted {
		msg += fmt.Sprintf(", streak %d", c.Streak)
	}
	return msg
}

// CoordinatorArgs holds the collaborators of a Coordinator. History may be
// nil.
type CoordinatorArgs struct {
	Events  EventSource
	Levels  LevelSink
	Store   *progress.Store
	History WorkoutLog
	Player  *feedback.Player
	Logger  *log.Logger
	Now     func() time.Time
}

// Coordinator connects the session to everything around it: cues go to the
// feedback player, a finished workout updates the progress store and the
// history, and level changes in the store reach the runner.
type Coordinator struct {
	events  EventSource
	store   *progress.Store
	history WorkoutLog
	player  *feedback.Player
	levels  LevelSink
	logger  *log.Logger
	now     func() time.Time

	completionEvent *events.ChannelEvent[Completion]

	unlisten func()
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	once     sync.Once
}

func NewCoordinator(args CoordinatorArgs) *Coordinator {
	if args.Events == nil {
		panic("Coordinator: events cannot be nil")
	}
	if args.Levels == nil {
		panic("Coordinator: levels cannot be nil")
	}
	if args.Store == nil {
		panic("Coordinator: store cannot be nil")
	}
	if args.Player == nil {
		panic("Coordinator: player cannot be nil")
	}
	if args.Logger == nil {
		panic("Coordinator: logger cannot be nil")
	}
	if args.Now == nil {
		args.Now = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		events:          args.Events,
		store:           args.Store,
		history:         args.History,
		player:          args.Player,
		levels:          args.Levels,
		logger:          args.Logger,
		now:             args.Now,
		completionEvent: events.NewChannelEvent[Completion](false),
		ctx:             ctx,
		cancel:          cancel,
	}

	c.unlisten = args.Events.Listen(c.onEvent)

	c.wg.Add(1)
	go_func_utils.SafeGo(c.logger, func() { c.listenToLevel() })

	return c
}

// ListenToCompletion registers a channel for finished workouts
func (c *Coordinator) ListenToCompletion(ch chan<- Completion) func() {
	return c.completionEvent.Listen(ch)
}

// onEvent runs on the goroutine that drives the scheduler, so it must not
// call back into the runner.
func (c *Coordinator) onEvent(ev session.Event) {
	if ev.Audio != "" || len(ev.Vibration) > 0 {
		c.player.Emit(ev.Audio, ev.Vibration)
	}
	if ev.Kind == session.EventWorkoutFinished {
		c.completeWorkout(ev)
	}
}

func (c *Coordinator) completeWorkout(ev session.Event) {
	total := c.store.AwardPoints(ev.Points)
	level := c.store.AdvanceLevel()
	// We are on the goroutine driving the scheduler, so a restart right
	// after the finish already sees the new level.
	if aware, ok := c.events.(LevelAware); ok {
		aware.OnLevelChanged(level)
	}
	streak, counted := c.store.MarkWorkoutComplete()
	at := c.now()

	if c.history != nil {
		ctx, cancel := context.WithTimeout(c.ctx, historyTimeout)
		_ = go_func_utils.SafeCall(c.logger, "Coordinator: record workout", func() error {
			_, err := c.history.Add(ctx, progress.Entry{
				CompletedAt: at,
				Level:       ev.Level,
				Points:      ev.Points,
				Streak:      streak,
			})
			return err
		})
		cancel()
	}

	completion := Completion{
		Points:      ev.Points,
		TotalPoints: total,
		Level:       level,
		Streak:      streak,
		Counted:     counted,
		Announce:    c.store.Record().PointNotifications,
		At:          at,
	}
	c.logger.Printf("Coordinator: %s", completion.Message())
	c.completionEvent.Notify(completion)
}

// listenToLevel forwards store level changes to the runner. The channel
// holds one value; the store is re-read on wake so only the newest level
// matters.
func (c *Coordinator) listenToLevel() {
	defer c.wg.Done()

	ch := make(chan int, 1)
	unregister := c.store.ListenLevel(ch)
	defer unregister()

	for {
		select {
		case <-c.ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			level := c.store.Level()
			st := c.levels.LevelChanged(level)
			if st.Level == level && st.Phase == session.PhaseIdle {
				c.logger.Printf("Coordinator: plan regenerated for level %d", level)
			}
		}
	}
}

// Shutdown stops listening. Safe to call multiple times.
func (c *Coordinator) Shutdown() {
	c.once.Do(func() {
		c.unlisten()
		c.cancel()
		c.wg.Wait()
	})
}
