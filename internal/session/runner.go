package session

import (
	"log"
	"sync"
	"time"

	"github.com/lowaak/stamena-trainer/internal/events"
	"github.com/lowaak/stamena-trainer/internal/go_func_utils"
)

// DefaultTickInterval is how often the runner advances an active session
const DefaultTickInterval = 30 * time.Millisecond

// runnerCommand represents commands sent to the runner goroutine
type runnerCommand int

const (
	cmdStart runnerCommand = iota
	cmdPause
	cmdToggle
	cmdReset
	cmdLevelChanged
	cmdSnapshot
)

type commandRequest struct {
	cmd   runnerCommand
	level int
	reply chan State
}

// Runner drives a Scheduler from a ticker. Control calls and ticks are
// executed one at a time on a single goroutine, and every control call
// returns only after it has been applied, so no tick can observe (or
// overwrite) state from before a pause or reset.
type Runner struct {
	scheduler    *Scheduler
	logger       *log.Logger
	tickInterval time.Duration
	now          func() time.Time

	stateEvent *events.ChannelEvent[State]

	cmdChan      chan commandRequest
	doneChan     chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// NewRunner starts the runner goroutine. now may be nil to use time.Now.
func NewRunner(scheduler *Scheduler, tickInterval time.Duration, now func() time.Time, logger *log.Logger) *Runner {
	if scheduler == nil {
		panic("Runner: scheduler cannot be nil")
	}
	if logger == nil {
		panic("Runner: logger cannot be nil")
	}
	if tickInterval <= 0 {
		tickInterval = DefaultTickInterval
	}
	if now == nil {
		now = time.Now
	}

	r := &Runner{
		scheduler:    scheduler,
		logger:       logger,
		tickInterval: tickInterval,
		now:          now,
		stateEvent:   events.NewChannelEvent[State](true),
		cmdChan:      make(chan commandRequest),
		doneChan:     make(chan struct{}),
	}
	r.stateEvent.Notify(scheduler.State())

	r.wg.Add(1)
	go_func_utils.SafeGo(logger, func() { r.run() })

	return r
}

// ListenToState registers a channel for state snapshots. The last snapshot is
// replayed on registration.
func (r *Runner) ListenToState(ch chan<- State) func() {
	return r.stateEvent.Listen(ch)
}

// Start starts, resumes or restarts the workout
func (r *Runner) Start() State { return r.send(commandRequest{cmd: cmdStart}) }

// Pause pauses a running workout
func (r *Runner) Pause() State { return r.send(commandRequest{cmd: cmdPause}) }

// Toggle is the primary start/pause control
func (r *Runner) Toggle() State { return r.send(commandRequest{cmd: cmdToggle}) }

// Reset abandons the current attempt and returns to Idle
func (r *Runner) Reset() State { return r.send(commandRequest{cmd: cmdReset}) }

// LevelChanged forwards a level change to the scheduler
func (r *Runner) LevelChanged(level int) State {
	return r.send(commandRequest{cmd: cmdLevelChanged, level: level})
}

// State returns the current snapshot
func (r *Runner) State() State { return r.send(commandRequest{cmd: cmdSnapshot}) }

// Shutdown stops the runner goroutine. Safe to call multiple times.
func (r *Runner) Shutdown() {
	r.shutdownOnce.Do(func() {
		r.logger.Printf("Runner: Shutting down")
		close(r.doneChan)
		r.wg.Wait()
		r.logger.Printf("Runner: Shutdown complete")
	})
}

func (r *Runner) send(req commandRequest) State {
	req.reply = make(chan State, 1)
	select {
	case r.cmdChan <- req:
	case <-r.doneChan:
		return r.lastState()
	}
	select {
	case st := <-req.reply:
		return st
	case <-r.doneChan:
		return r.lastState()
	}
}

func (r *Runner) lastState() State {
	st, _ := r.stateEvent.Latest()
	return st
}

func (r *Runner) apply(req commandRequest) {
	switch req.cmd {
	case cmdStart:
		r.scheduler.Start()
	case cmdPause:
		r.scheduler.Pause()
	case cmdToggle:
		r.scheduler.Toggle()
	case cmdReset:
		r.scheduler.Reset()
	case cmdLevelChanged:
		r.scheduler.OnLevelChanged(req.level)
	case cmdSnapshot:
	}
}

// run is the goroutine that owns the scheduler.
func (r *Runner) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.tickInterval)
	ticker.Stop() // started once the session becomes active
	ticking := false
	var lastTick time.Time

	syncTicker := func() {
		active := r.scheduler.State().Phase.Ticking()
		switch {
		case active && !ticking:
			lastTick = r.now()
			ticker.Reset(r.tickInterval)
			ticking = true
		case !active && ticking:
			ticker.Stop()
			ticking = false
		}
	}

	for {
		select {
		case <-r.doneChan:
			ticker.Stop()
			return

		case req := <-r.cmdChan:
			before := r.scheduler.State().Phase
			r.apply(req)
			syncTicker()
			st := r.scheduler.State()
			if req.cmd != cmdSnapshot {
				r.stateEvent.Notify(st)
			}
			if st.Phase != before {
				r.logger.Printf("Runner: %s -> %s", before, st.Phase)
			}
			req.reply <- st

		case <-ticker.C:
			if !ticking {
				continue
			}
			t := r.now()
			dt := t.Sub(lastTick)
			lastTick = t
			r.scheduler.Advance(dt)
			syncTicker()
			r.stateEvent.Notify(r.scheduler.State())
		}
	}
}
