package notify

import (
	"sync"
	"time"
)

// Recorder is a Notifier that only remembers what it was asked to do
type Recorder struct {
	mu sync.Mutex

	Permission Permission
	// Permission returned by RequestPermission while the status is Prompt
	Answer Permission
	Err    error

	Daily     []Notification
	Once      []Notification
	Delays    []time.Duration
	Cancels   int
	Requests  int
	callOrder []string
}

// NewRecorder returns a Recorder with permission already granted
func NewRecorder() *Recorder {
	return &Recorder{Permission: PermissionGranted, Answer: PermissionGranted}
}

func (r *Recorder) CancelAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Cancels++
	r.Daily = nil
	r.Once = nil
	r.Delays = nil
	r.callOrder = append(r.callOrder, "cancel")
	return nil
}

func (r *Recorder) ScheduleDaily(hour, minute int, title, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callOrder = append(r.callOrder, "daily")
	if r.Err != nil {
		return r.Err
	}
	r.Daily = append(r.Daily, Notification{Title: title, Body: body, Daily: true, Hour: hour, Minute: minute})
	return nil
}

func (r *Recorder) ScheduleOnce(delay time.Duration, title, body string, priority Priority) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callOrder = append(r.callOrder, "once")
	if r.Err != nil {
		return r.Err
	}
	r.Once = append(r.Once, Notification{Title: title, Body: body, Priority: priority})
	r.Delays = append(r.Delays, delay)
	return nil
}

func (r *Recorder) PermissionStatus() Permission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Permission
}

func (r *Recorder) RequestPermission() Permission {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Requests++
	if r.Permission == PermissionPrompt {
		r.Permission = r.Answer
	}
	return r.Permission
}

// Snapshot returns copies of the currently scheduled notifications
func (r *Recorder) Snapshot() (daily, once []Notification, delays []time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.Daily...),
		append([]Notification(nil), r.Once...),
		append([]time.Duration(nil), r.Delays...)
}

// Calls returns the sequence of cancel/daily/once calls seen so far
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.callOrder...)
}
