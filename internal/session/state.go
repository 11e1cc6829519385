package session

import (
	"time"

	"github.com/lowaak/stamena-trainer/internal/feedback"
	"github.com/lowaak/stamena-trainer/internal/plan"
)

// PhaseKind is the state of the session state machine
type PhaseKind int

const (
	PhaseIdle      PhaseKind = iota // Fresh plan, nothing started
	PhaseCountdown                  // 3, 2, 1 before the first squeeze
	PhaseSqueezing                  // Contraction part of a repetition
	PhaseRelaxing                   // Relaxation part of a repetition
	PhasePaused                     // Clock suspended mid-repetition
	PhaseFinished                   // Whole plan done, terminal until reset
)

func (k PhaseKind) String() string {
	switch k {
	case PhaseIdle:
		return "idle"
	case PhaseCountdown:
		return "countdown"
	case PhaseSqueezing:
		return "squeezing"
	case PhaseRelaxing:
		return "relaxing"
	case PhasePaused:
		return "paused"
	case PhaseFinished:
		return "finished"
	}
	return "unknown"
}

// Ticking reports whether the clock advances the session in this phase.
func (k PhaseKind) Ticking() bool {
	return k == PhaseCountdown || k == PhaseSqueezing || k == PhaseRelaxing
}

// State is a snapshot of one workout attempt. The Plan slice is shared
// between snapshots and must not be modified.
type State struct {
	Phase PhaseKind
	// ResumePhase is the phase a paused session returns to
	ResumePhase PhaseKind

	Level int
	Plan  plan.Plan

	SetIndex int // 0-based
	RepIndex int // 1-based

	TimeRemainingInPhase time.Duration
	PhaseProgress        float64 // 0..1 of the current phase elapsed
	TotalTimeRemaining   time.Duration

	CountdownValue int
}

// CurrentSet returns the set the session is positioned on
func (s State) CurrentSet() plan.PhaseSpec {
	if s.SetIndex < 0 || s.SetIndex >= len(s.Plan) {
		return plan.PhaseSpec{}
	}
	return s.Plan[s.SetIndex]
}

// TotalSets returns the number of sets in the plan
func (s State) TotalSets() int {
	return len(s.Plan)
}

// EffectivePhase returns the squeeze/relax phase the session is in, looking
// through a pause.
func (s State) EffectivePhase() PhaseKind {
	if s.Phase == PhasePaused {
		return s.ResumePhase
	}
	return s.Phase
}

// EventKind identifies a discrete transition raised by the scheduler
type EventKind int

const (
	EventCountdownTick   EventKind = iota // Countdown value changed
	EventReady                            // Countdown done, first squeeze begins
	EventPhaseChanged                     // Squeeze finished, relax begins
	EventRepCompleted                     // Relax finished, next squeeze of the same set begins
	EventSetCompleted                     // Last rep of a set done, next set begins
	EventWorkoutFinished                  // Last rep of the last set done
)

func (k EventKind) String() string {
	switch k {
	case EventCountdownTick:
		return "countdown_tick"
	case EventReady:
		return "ready"
	case EventPhaseChanged:
		return "phase_changed"
	case EventRepCompleted:
		return "rep_completed"
	case EventSetCompleted:
		return "set_completed"
	case EventWorkoutFinished:
		return "workout_finished"
	}
	return "unknown"
}

// Event is raised synchronously from inside Start/Advance. Audio and
// Vibration describe the cue that belongs to the transition; they are empty
// when the transition has no cue of that kind.
type Event struct {
	Kind      EventKind
	State     State
	Audio     feedback.CueID
	Vibration feedback.Pattern

	// Set on EventWorkoutFinished
	Points int
	Level  int
}
