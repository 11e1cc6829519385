package notify

import (
	"fmt"
	"strings"
	"time"
)

// Permission is the user's answer to the notification permission prompt
type Permission int

const (
	PermissionPrompt Permission = iota // Not asked yet
	PermissionGranted
	PermissionDenied
)

func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	}
	return "prompt"
}

// ParsePermission parses the config spelling of a Permission
func ParsePermission(s string) (Permission, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "granted":
		return PermissionGranted, nil
	case "denied":
		return PermissionDenied, nil
	case "prompt", "":
		return PermissionPrompt, nil
	}
	return PermissionPrompt, fmt.Errorf("unknown notification permission %q", s)
}

// Priority of a one-shot notification
type Priority int

const (
	PriorityDefault Priority = iota
	PriorityHigh
)

func (p Priority) String() string {
	if p == PriorityHigh {
		return "high"
	}
	return "default"
}

// Notifier schedules local reminders. Implementations must be safe for
// concurrent use.
type Notifier interface {
	CancelAll() error
	ScheduleDaily(hour, minute int, title, body string) error
	ScheduleOnce(delay time.Duration, title, body string, priority Priority) error
	PermissionStatus() Permission
	RequestPermission() Permission
}

// Notification is one scheduled reminder
type Notification struct {
	ID       string
	Title    string
	Body     string
	Daily    bool
	Hour     int
	Minute   int
	Priority Priority
	// Next delivery time
	At time.Time
}

// NextDaily returns the next instant at hour:minute local time strictly
// after now.
func NextDaily(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func validateTime(hour, minute int) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("invalid reminder time %02d:%02d", hour, minute)
	}
	return nil
}
