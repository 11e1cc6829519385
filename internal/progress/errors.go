package progress

import "errors"

var (
	ErrLevelLocked     = errors.New("level can only be set in unlocked mode")
	ErrLevelOutOfRange = errors.New("level out of range")
	ErrReminderIndex   = errors.New("no reminder at that index")
	ErrInvalidReminder = errors.New("invalid reminder time")
)
