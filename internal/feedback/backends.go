package feedback

import (
	"log"
	"sync"
)

// LogBackend writes cues to the log. It is the fallback on machines with no
// sound or haptics.
type LogBackend struct {
	logger *log.Logger
}

func NewLogBackend(logger *log.Logger) *LogBackend {
	return &LogBackend{logger: logger}
}

func (b *LogBackend) PlayCue(cue CueID) error {
	b.logger.Printf("Feedback: cue %s", cue)
	return nil
}

func (b *LogBackend) Vibrate(pattern Pattern) error {
	b.logger.Printf("Feedback: vibrate %s", pattern)
	return nil
}

// Beeper is satisfied by tcell.Screen
type Beeper interface {
	Beep() error
}

// BellBackend rings the terminal bell for audio cues and forwards vibration
// to next. The beeper is attached once the terminal screen exists.
type BellBackend struct {
	mu     sync.RWMutex
	beeper Beeper
	next   Backend
}

func NewBellBackend(next Backend) *BellBackend {
	return &BellBackend{next: next}
}

// Attach sets the screen used for beeping. nil detaches it.
func (b *BellBackend) Attach(beeper Beeper) {
	b.mu.Lock()
	b.beeper = beeper
	b.mu.Unlock()
}

func (b *BellBackend) PlayCue(cue CueID) error {
	b.mu.RLock()
	beeper := b.beeper
	b.mu.RUnlock()
	if beeper != nil {
		if err := beeper.Beep(); err != nil {
			return err
		}
	}
	if b.next != nil {
		return b.next.PlayCue(cue)
	}
	return nil
}

func (b *BellBackend) Vibrate(pattern Pattern) error {
	if b.next != nil {
		return b.next.Vibrate(pattern)
	}
	return nil
}

// Recorder is a Backend that remembers what it was asked to do.
type Recorder struct {
	mu         sync.Mutex
	Cues       []CueID
	Vibrations []Pattern
	Err        error
}

func (r *Recorder) PlayCue(cue CueID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Cues = append(r.Cues, cue)
	return r.Err
}

func (r *Recorder) Vibrate(pattern Pattern) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Vibrations = append(r.Vibrations, pattern)
	return r.Err
}

// Snapshot returns copies of the recorded cues and vibrations
func (r *Recorder) Snapshot() ([]CueID, []Pattern) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]CueID(nil), r.Cues...), append([]Pattern(nil), r.Vibrations...)
}
