package trainer

import "time"

// UIMode represents the current UI mode/screen
type UIMode int

const (
	UIModeWorkout  UIMode = iota // Session display and controls
	UIModeProgress               // Level, points, streak and history
	UIModeSettings               // Cue and notification toggles
)

// UIModeInfo contains display information for a UI mode
type UIModeInfo struct {
	Mode        UIMode
	DisplayName string
	KeyBinding  rune // The number key to activate this mode (1-9)
}

// AllUIModes defines all available UI modes in order
var AllUIModes = []UIModeInfo{
	{Mode: UIModeWorkout, DisplayName: "Workout", KeyBinding: '1'},
	{Mode: UIModeProgress, DisplayName: "Progress", KeyBinding: '2'},
	{Mode: UIModeSettings, DisplayName: "Settings", KeyBinding: '3'},
}

// GetUIModeByKey returns the mode for a given key binding
func GetUIModeByKey(key rune) (UIMode, bool) {
	for _, info := range AllUIModes {
		if info.KeyBinding == key {
			return info.Mode, true
		}
	}
	return 0, false
}

// GetUIModeInfo returns the info for a given mode
func GetUIModeInfo(mode UIMode) (UIModeInfo, bool) {
	for _, info := range AllUIModes {
		if info.Mode == mode {
			return info, true
		}
	}
	return UIModeInfo{}, false
}

const (
	// Entries shown on the progress page
	historyPageSize = 10
	// Timeout for a single history query or insert
	historyTimeout = 5 * time.Second
	// How long a banner stays up
	bannerDuration = 8 * time.Second
)
