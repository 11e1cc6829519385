package session

import (
	"log"
	"math"
	"time"

	"github.com/lowaak/stamena-trainer/internal/events"
	"github.com/lowaak/stamena-trainer/internal/feedback"
	"github.com/lowaak/stamena-trainer/internal/plan"
)

// DefaultCountdown is the length of the 3-2-1 lead-in
const DefaultCountdown = 3 * time.Second

// Points awarded for a finished workout: base + per-level bonus
const (
	FinishBasePoints     = 100
	FinishPointsPerLevel = 10
)

// Option configures a Scheduler
type Option func(*Scheduler)

// WithCountdown overrides the lead-in length. Zero skips the countdown.
func WithCountdown(d time.Duration) Option {
	return func(s *Scheduler) {
		if d < 0 {
			d = 0
		}
		s.countdown = d
	}
}

// WithPlanFunc replaces plan.Generate, e.g. with a shorter plan in tests.
func WithPlanFunc(fn func(level int) plan.Plan) Option {
	return func(s *Scheduler) { s.planFunc = fn }
}

// Scheduler is the workout state machine. It has no timers of its own: time
// only moves when Advance is called, which keeps it deterministic under
// test. It is not safe for concurrent use; Runner serializes access.
type Scheduler struct {
	state         State
	countdown     time.Duration
	countdownLeft time.Duration
	planFunc      func(level int) plan.Plan

	events *events.CallbackEvent[Event]
	logger *log.Logger
}

// NewScheduler creates a scheduler in the Idle state with a plan for level.
func NewScheduler(level int, logger *log.Logger, opts ...Option) *Scheduler {
	if logger == nil {
		panic("Scheduler: logger cannot be nil")
	}
	s := &Scheduler{
		countdown: DefaultCountdown,
		planFunc:  plan.Generate,
		events:    events.NewCallbackEvent[Event](false),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.Level = plan.ClampLevel(level)
	s.Reset()
	return s
}

// Listen registers a callback for scheduler events. Callbacks run on the
// goroutine that drives the scheduler.
func (s *Scheduler) Listen(callback func(Event)) func() {
	return s.events.Listen(callback)
}

// State returns a snapshot of the current session
func (s *Scheduler) State() State {
	return s.state
}

// Start begins a countdown from Idle, resumes from Paused, or restarts a
// finished workout (reset followed by a new countdown). It is a no-op while
// the session is already running.
func (s *Scheduler) Start() {
	switch s.state.Phase {
	case PhaseFinished:
		s.logger.Printf("Scheduler: Restarting finished workout")
		s.Reset()
		s.beginCountdown()
	case PhaseIdle:
		s.beginCountdown()
	case PhasePaused:
		s.state.Phase = s.state.ResumePhase
		s.logger.Printf("Scheduler: Resumed %s (set %d, rep %d, %v left)",
			s.state.Phase, s.state.SetIndex+1, s.state.RepIndex, s.state.TimeRemainingInPhase)
	default:
		s.logger.Printf("Scheduler: Start ignored while %s", s.state.Phase)
	}
}

// Pause suspends a squeezing or relaxing phase. Time remaining and progress
// are kept exactly; Advance does nothing until Start resumes.
func (s *Scheduler) Pause() {
	if s.state.Phase != PhaseSqueezing && s.state.Phase != PhaseRelaxing {
		s.logger.Printf("Scheduler: Pause ignored while %s", s.state.Phase)
		return
	}
	s.state.ResumePhase = s.state.Phase
	s.state.Phase = PhasePaused
	s.logger.Printf("Scheduler: Paused (set %d, rep %d, %v left)",
		s.state.SetIndex+1, s.state.RepIndex, s.state.TimeRemainingInPhase)
}

// Toggle is the primary control: start, resume or restart when stopped and
// pause when running. It does nothing during the countdown.
func (s *Scheduler) Toggle() {
	switch s.state.Phase {
	case PhaseSqueezing, PhaseRelaxing:
		s.Pause()
	case PhaseCountdown:
		s.logger.Printf("Scheduler: Toggle ignored during countdown")
	default:
		s.Start()
	}
}

// Reset returns to Idle with a fresh plan for the current level
func (s *Scheduler) Reset() {
	p := s.planFunc(s.state.Level)
	s.state = State{
		Phase:          PhaseIdle,
		Level:          s.state.Level,
		Plan:           p,
		SetIndex:       0,
		RepIndex:       1,
		CountdownValue: countdownValue(s.countdown),
	}
	s.countdownLeft = 0
	if first := s.firstSetFrom(0); first < len(p) {
		s.state.SetIndex = first
		s.state.TimeRemainingInPhase = p[first].Squeeze
		s.recomputeTotal(true)
	}
	s.logger.Printf("Scheduler: Reset at level %d (%d sets, %v)", s.state.Level, len(p), s.state.TotalTimeRemaining)
}

// OnLevelChanged records a new level. The plan is regenerated immediately
// only if the session is Idle; otherwise the next Reset picks it up.
func (s *Scheduler) OnLevelChanged(level int) {
	level = plan.ClampLevel(level)
	if level == s.state.Level {
		return
	}
	s.state.Level = level
	if s.state.Phase == PhaseIdle {
		s.Reset()
		return
	}
	s.logger.Printf("Scheduler: Level %d takes effect after reset (currently %s)", level, s.state.Phase)
}

// Advance moves the clock forward by dt.
func (s *Scheduler) Advance(dt time.Duration) {
	if dt <= 0 {
		return
	}
	switch s.state.Phase {
	case PhaseCountdown:
		s.advanceCountdown(dt)
	case PhaseSqueezing, PhaseRelaxing:
		s.Tick(dt)
	}
}

// Tick advances an active squeeze or relax phase by dt. A phase boundary
// reached by this tick is handled before Tick returns.
func (s *Scheduler) Tick(dt time.Duration) {
	if s.state.Phase != PhaseSqueezing && s.state.Phase != PhaseRelaxing {
		return
	}
	s.state.TimeRemainingInPhase -= dt
	s.state.PhaseProgress = phaseProgress(s.currentPhaseDuration(), s.state.TimeRemainingInPhase)
	s.state.TotalTimeRemaining -= dt
	if s.state.TotalTimeRemaining < 0 {
		s.state.TotalTimeRemaining = 0
	}
	if s.state.TimeRemainingInPhase <= 0 {
		s.completePhase()
	}
}

func (s *Scheduler) beginCountdown() {
	if s.countdown <= 0 {
		s.beginWorkout()
		return
	}
	s.state.Phase = PhaseCountdown
	s.countdownLeft = s.countdown
	s.state.CountdownValue = countdownValue(s.countdown)
	s.logger.Printf("Scheduler: Countdown started")
	s.emit(Event{Kind: EventCountdownTick})
}

func (s *Scheduler) advanceCountdown(dt time.Duration) {
	s.countdownLeft -= dt
	if s.countdownLeft <= 0 {
		s.countdownLeft = 0
		s.state.CountdownValue = 0
		s.beginWorkout()
		return
	}
	if v := countdownValue(s.countdownLeft); v != s.state.CountdownValue {
		s.state.CountdownValue = v
		s.emit(Event{Kind: EventCountdownTick})
	}
}

func (s *Scheduler) beginWorkout() {
	first := s.firstSetFrom(0)
	if first >= len(s.state.Plan) {
		s.finish()
		return
	}
	s.enterSqueeze(first, 1)
	s.logger.Printf("Scheduler: Workout started at level %d", s.state.Level)
	s.emit(Event{Kind: EventReady, Audio: feedback.CueReady})
	s.skipEmptyPhases()
}

// completePhase handles the end of the current phase, then keeps going
// while the phase it landed in has no duration.
func (s *Scheduler) completePhase() {
	s.phaseEnded()
	s.skipEmptyPhases()
}

func (s *Scheduler) skipEmptyPhases() {
	for s.state.Phase.Ticking() && s.currentPhaseDuration() <= 0 {
		s.phaseEnded()
	}
}

func (s *Scheduler) phaseEnded() {
	set := s.state.CurrentSet()
	switch s.state.Phase {
	case PhaseSqueezing:
		s.state.Phase = PhaseRelaxing
		s.state.TimeRemainingInPhase = set.Relax
		s.state.PhaseProgress = 0
		s.recomputeTotal(false)

		ev := Event{Kind: EventPhaseChanged}
		if set.IsRapid() {
			ev.Vibration = feedback.PatternShort
		} else {
			ev.Vibration = feedback.PatternDoubleTap
			ev.Audio = feedback.CueRepetitionEnd
		}
		s.emit(ev)

	case PhaseRelaxing:
		if s.state.RepIndex < set.RepetitionCount {
			s.enterSqueeze(s.state.SetIndex, s.state.RepIndex+1)

			ev := Event{Kind: EventRepCompleted}
			if set.IsRapid() {
				ev.Vibration = feedback.PatternShort
			} else {
				ev.Vibration = feedback.PatternNextRep
				ev.Audio = feedback.CueRepetition
			}
			s.emit(ev)
			return
		}
		s.nextSetOrFinish()
	}
}

func (s *Scheduler) nextSetOrFinish() {
	next := s.firstSetFrom(s.state.SetIndex + 1)
	if next >= len(s.state.Plan) {
		s.finish()
		return
	}
	s.enterSqueeze(next, 1)
	s.logger.Printf("Scheduler: Set %d/%d: %s", next+1, len(s.state.Plan), s.state.CurrentSet().Label)
	// Set milestones reuse the finish cue
	s.emit(Event{Kind: EventSetCompleted, Audio: feedback.CueWorkoutFinish, Vibration: feedback.PatternSetComplete})
}

// firstSetFrom returns the first set at or after i that has repetitions,
// or len(Plan) when none is left.
func (s *Scheduler) firstSetFrom(i int) int {
	for i < len(s.state.Plan) && s.state.Plan[i].RepetitionCount <= 0 {
		i++
	}
	return i
}

func (s *Scheduler) finish() {
	s.state.Phase = PhaseFinished
	s.state.TimeRemainingInPhase = 0
	s.state.TotalTimeRemaining = 0
	points := FinishBasePoints + FinishPointsPerLevel*s.state.Level
	s.logger.Printf("Scheduler: Workout complete at level %d (+%d points)", s.state.Level, points)
	s.emit(Event{
		Kind:      EventWorkoutFinished,
		Audio:     feedback.CueWorkoutFinish,
		Vibration: feedback.PatternFinish,
		Points:    points,
		Level:     s.state.Level,
	})
}

func (s *Scheduler) enterSqueeze(setIndex, rep int) {
	s.state.Phase = PhaseSqueezing
	s.state.SetIndex = setIndex
	s.state.RepIndex = rep
	s.state.TimeRemainingInPhase = s.state.Plan[setIndex].Squeeze
	s.state.PhaseProgress = 0
	s.recomputeTotal(true)
}

func (s *Scheduler) currentPhaseDuration() time.Duration {
	set := s.state.CurrentSet()
	if s.state.EffectivePhase() == PhaseRelaxing {
		return set.Relax
	}
	return set.Squeeze
}

// recomputeTotal rebuilds TotalTimeRemaining from the current position:
// time left in this phase, the relax still owed if squeezing, the remaining
// reps of this set and every later set.
func (s *Scheduler) recomputeTotal(squeezing bool) {
	if len(s.state.Plan) == 0 {
		s.state.TotalTimeRemaining = 0
		return
	}
	set := s.state.CurrentSet()
	total := s.state.TimeRemainingInPhase
	if squeezing {
		total += set.Relax
	}
	if remainingReps := set.RepetitionCount - s.state.RepIndex; remainingReps > 0 {
		total += time.Duration(remainingReps) * set.RepDuration()
	}
	for _, later := range s.state.Plan[s.state.SetIndex+1:] {
		total += later.Duration()
	}
	if total < 0 {
		total = 0
	}
	s.state.TotalTimeRemaining = total
}

func (s *Scheduler) emit(ev Event) {
	ev.State = s.state
	s.events.Notify(ev)
}

func phaseProgress(duration, remaining time.Duration) float64 {
	if duration <= 0 {
		return 1
	}
	p := float64(duration-remaining) / float64(duration)
	return math.Max(0, math.Min(1, p))
}

func countdownValue(left time.Duration) int {
	return int(math.Ceil(left.Seconds()))
}
