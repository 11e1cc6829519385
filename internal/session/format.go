package session

import (
	"fmt"
	"time"
)

// Text cues shown to the user
const (
	TextSqueeze = "SQUEEZE"
	TextPushOut = "PUSH OUT"
	TextRelax   = "RELAX"
)

// TextCue returns the instruction for the current phase. It is "" when text
// cues are disabled or the session is not in a squeeze or relax phase.
func TextCue(s State, enabled bool) string {
	if !enabled {
		return ""
	}
	switch s.EffectivePhase() {
	case PhaseSqueezing:
		if s.CurrentSet().IsReverse() {
			return TextPushOut
		}
		return TextSqueeze
	case PhaseRelaxing:
		return TextRelax
	}
	return ""
}

// FormatTime renders d as m:ss, truncating partial seconds
func FormatTime(d time.Duration) string {
	if d <= 0 {
		return "00:00"
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// PhaseSecondsLeft rounds the time left in the phase up to whole seconds,
// the way it is displayed.
func PhaseSecondsLeft(s State) int {
	if s.TimeRemainingInPhase <= 0 {
		return 0
	}
	return int((s.TimeRemainingInPhase + time.Second - 1) / time.Second)
}
