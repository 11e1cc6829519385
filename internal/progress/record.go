package progress

import (
	"fmt"
	"time"

	"github.com/lowaak/stamena-trainer/internal/plan"
)

// Notification text used when the user has not set their own
const (
	DefaultNotificationTitle = "Time to Grind! 💪"
	DefaultNotificationBody  = "Don't break the chain. Your daily workout is waiting."
)

// PointsPerLevelGoal scales the points goal shown for the next level
const PointsPerLevelGoal = 250

// DateLayout is the calendar date format used for streak bookkeeping
const DateLayout = "2006-01-02"

// ReminderTime is a daily reminder, hour and minute in local time
type ReminderTime struct {
	Hour   int
	Minute int
}

// ParseReminderTime parses "HH:MM" (24h)
func ParseReminderTime(s string) (ReminderTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ReminderTime{}, fmt.Errorf("%w: %q is not HH:MM", ErrInvalidReminder, s)
	}
	return ReminderTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (r ReminderTime) Valid() bool {
	return r.Hour >= 0 && r.Hour <= 23 && r.Minute >= 0 && r.Minute <= 59
}

func (r ReminderTime) String() string {
	return fmt.Sprintf("%02d:%02d", r.Hour, r.Minute)
}

// Record is everything that survives a restart
type Record struct {
	Level    int
	Unlocked bool

	TextCues      bool
	VibrationCues bool
	AudioCues     bool

	WorkoutNotifications bool
	PointNotifications   bool
	NotificationTitle    string
	NotificationBody     string

	TotalPoints          int
	StreakCount          int
	LastWorkoutDate      string // DateLayout, "" if never
	LastWorkoutTimestamp *time.Time
	CompletedWorkouts    int

	Reminders []ReminderTime
}

// DefaultRecord is the record of a fresh install
func DefaultRecord() Record {
	return Record{
		Level:                plan.MinLevel,
		TextCues:             true,
		VibrationCues:        true,
		AudioCues:            true,
		WorkoutNotifications: true,
		PointNotifications:   true,
		Reminders:            []ReminderTime{{Hour: 20, Minute: 0}},
	}
}

// NextLevelGoal is the points target displayed for the current level
func (r Record) NextLevelGoal() int {
	return r.Level * PointsPerLevelGoal
}

// Title returns the custom notification title or the default one
func (r Record) Title() string {
	if r.NotificationTitle == "" {
		return DefaultNotificationTitle
	}
	return r.NotificationTitle
}

// Body returns the custom notification body or the default one
func (r Record) Body() string {
	if r.NotificationBody == "" {
		return DefaultNotificationBody
	}
	return r.NotificationBody
}

// Clone returns a deep copy
func (r Record) Clone() Record {
	c := r
	c.Reminders = append([]ReminderTime(nil), r.Reminders...)
	if r.LastWorkoutTimestamp != nil {
		ts := *r.LastWorkoutTimestamp
		c.LastWorkoutTimestamp = &ts
	}
	return c
}
