package plan

import (
	"math"
	"strings"
	"time"
)

// Level bounds for the difficulty progression
const (
	MinLevel = 1
	MaxLevel = 20
)

// Set labels, in the order they appear in every plan
const (
	LabelRegularKegels = "Regular Kegels"
	LabelRapidFire     = "Rapid Fire"
	LabelLongHolds     = "Long Holds"
	LabelReverseKegels = "Reverse Kegels"
	LabelReverseRapid  = "Reverse Rapid"
	LabelReverseHolds  = "Reverse Holds"
)

const (
	rapidPhase        = 800 * time.Millisecond
	reverseRapidPhase = 1 * time.Second
	longHoldRelax     = 10 * time.Second
)

// PhaseSpec describes one set of a workout: an exercise kind repeated
// RepetitionCount times, each repetition being a squeeze followed by a relax.
type PhaseSpec struct {
	Label           string
	Squeeze         time.Duration
	Relax           time.Duration
	RepetitionCount int
}

// IsRapid reports whether the set is one of the rapid variants. Rapid sets
// get lighter feedback cues.
func (p PhaseSpec) IsRapid() bool {
	return strings.Contains(p.Label, "Rapid")
}

// IsReverse reports whether the set is a reverse (push out) variant.
func (p PhaseSpec) IsReverse() bool {
	return strings.Contains(p.Label, "Reverse")
}

// RepDuration is the length of one squeeze plus one relax.
func (p PhaseSpec) RepDuration() time.Duration {
	return p.Squeeze + p.Relax
}

// Duration is the length of the whole set.
func (p PhaseSpec) Duration() time.Duration {
	return time.Duration(p.RepetitionCount) * p.RepDuration()
}

// Plan is the ordered list of sets for one difficulty level.
type Plan []PhaseSpec

// TotalDuration returns the sum of every set's duration
func (p Plan) TotalDuration() time.Duration {
	var total time.Duration
	for _, set := range p {
		total += set.Duration()
	}
	return total
}

// ClampLevel forces a level into [MinLevel, MaxLevel].
func ClampLevel(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// Generate builds the workout plan for a difficulty level. It is pure and
// total: levels below 1 are treated as 1. Every formula is bounded so durations
// stay sane as the level grows.
func Generate(level int) Plan {
	if level < MinLevel {
		level = MinLevel
	}
	l := float64(level)

	squeezeBase := seconds(math.Min(10, 3+math.Floor(l/2.5)))
	relaxBase := seconds(math.Max(3, 5-math.Floor(l/10)))
	repsBase := min(15, 10+level/4)

	rapidReps := min(50, 10+2*level)

	longSqueeze := seconds(10 + 1.5*l)
	longReps := min(5, 2+level/5)

	return Plan{
		{Label: LabelRegularKegels, Squeeze: squeezeBase, Relax: relaxBase, RepetitionCount: repsBase},
		{Label: LabelRapidFire, Squeeze: rapidPhase, Relax: rapidPhase, RepetitionCount: rapidReps},
		{Label: LabelLongHolds, Squeeze: longSqueeze, Relax: longHoldRelax, RepetitionCount: longReps},
		{Label: LabelReverseKegels, Squeeze: squeezeBase, Relax: relaxBase, RepetitionCount: repsBase},
		{Label: LabelReverseRapid, Squeeze: reverseRapidPhase, Relax: reverseRapidPhase, RepetitionCount: rapidReps},
		{Label: LabelReverseHolds, Squeeze: longSqueeze, Relax: longHoldRelax, RepetitionCount: longReps},
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
