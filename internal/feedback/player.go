package feedback

import (
	"log"

	"github.com/lowaak/stamena-trainer/internal/go_func_utils"
)

// Backend is the device capability behind the cues.
type Backend interface {
	PlayCue(cue CueID) error
	Vibrate(pattern Pattern) error
}

// Toggles are the user's cue preferences
type Toggles struct {
	Text      bool
	Vibration bool
	Audio     bool
}

// Player gates cues by the current toggles and shields the caller from
// backend failures.
type Player struct {
	backend Backend
	toggles func() Toggles
	logger  *log.Logger
}

// NewPlayer creates a Player. toggles is consulted on every cue so changes
// made in settings apply to the running workout immediately.
func NewPlayer(backend Backend, toggles func() Toggles, logger *log.Logger) *Player {
	if backend == nil {
		panic("Player: backend cannot be nil")
	}
	if toggles == nil {
		panic("Player: toggles cannot be nil")
	}
	if logger == nil {
		panic("Player: logger cannot be nil")
	}
	return &Player{backend: backend, toggles: toggles, logger: logger}
}

// Emit plays the audio cue and vibration pattern if they are set and enabled.
// Failures are logged and swallowed.
func (p *Player) Emit(audio CueID, vibration Pattern) {
	t := p.toggles()
	if audio != "" && t.Audio {
		_ = go_func_utils.SafeCall(p.logger, "Player: play cue "+string(audio), func() error {
			return p.backend.PlayCue(audio)
		})
	}
	if len(vibration) > 0 && t.Vibration {
		_ = go_func_utils.SafeCall(p.logger, "Player: vibrate", func() error {
			return p.backend.Vibrate(vibration)
		})
	}
}
