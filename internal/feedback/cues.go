package feedback

import (
	"fmt"
	"strings"
	"time"
)

// CueID names an audio cue
type CueID string

const (
	CueReady         CueID = "ready"
	CueRepetition    CueID = "repetition"
	CueRepetitionEnd CueID = "repetition_end"
	CueWorkoutFinish CueID = "workout_finish"
)

// Pattern is a vibration pattern: alternating pause and pulse durations,
// starting with a pause.
type Pattern []time.Duration

// Pulse is a single vibration of length d
func Pulse(d time.Duration) Pattern {
	return Pattern{0, d}
}

// Predefined patterns used by the workout
var (
	PatternShort       = Pulse(50 * time.Millisecond)
	PatternDoubleTap   = Pattern{0, 50 * time.Millisecond, 50 * time.Millisecond, 50 * time.Millisecond}
	PatternNextRep     = Pulse(100 * time.Millisecond)
	PatternSetComplete = Pulse(500 * time.Millisecond)
	PatternFinish      = Pulse(1000 * time.Millisecond)
)

// OnTime returns the total time the motor is on.
func (p Pattern) OnTime() time.Duration {
	var on time.Duration
	for i := 1; i < len(p); i += 2 {
		on += p[i]
	}
	return on
}

func (p Pattern) String() string {
	parts := make([]string, len(p))
	for i, d := range p {
		parts[i] = fmt.Sprintf("%dms", d.Milliseconds())
	}
	return "[" + strings.Join(parts, " ") + "]"
}
