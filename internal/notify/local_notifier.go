package notify

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LocalNotifier delivers notifications in-process using timers. Daily
// notifications re-arm themselves after each delivery. Nothing survives the
// process.
type LocalNotifier struct {
	mu         sync.Mutex
	permission Permission
	pending    map[string]*pendingNotification
	deliver    func(Notification)
	now        func() time.Time
	logger     *log.Logger
}

type pendingNotification struct {
	n     Notification
	timer *time.Timer
}

// NewLocalNotifier creates a notifier. deliver is called on a timer goroutine;
// now may be nil to use time.Now.
func NewLocalNotifier(permission Permission, deliver func(Notification), now func() time.Time, logger *log.Logger) *LocalNotifier {
	if logger == nil {
		panic("LocalNotifier: logger cannot be nil")
	}
	if deliver == nil {
		deliver = func(Notification) {}
	}
	if now == nil {
		now = time.Now
	}
	return &LocalNotifier{
		permission: permission,
		pending:    make(map[string]*pendingNotification),
		deliver:    deliver,
		now:        now,
		logger:     logger,
	}
}

func (l *LocalNotifier) PermissionStatus() Permission {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.permission
}

// RequestPermission grants permission unless it was already refused. A
// terminal has no system prompt to show.
func (l *LocalNotifier) RequestPermission() Permission {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.permission == PermissionPrompt {
		l.permission = PermissionGranted
		l.logger.Printf("LocalNotifier: Permission granted")
	}
	return l.permission
}

func (l *LocalNotifier) CancelAll() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, p := range l.pending {
		p.timer.Stop()
		delete(l.pending, id)
	}
	return nil
}

func (l *LocalNotifier) ScheduleDaily(hour, minute int, title, body string) error {
	if err := validateTime(hour, minute); err != nil {
		return err
	}
	n := Notification{
		ID:     uuid.NewString(),
		Title:  title,
		Body:   body,
		Daily:  true,
		Hour:   hour,
		Minute: minute,
	}
	return l.arm(n, NextDaily(l.now(), hour, minute))
}

func (l *LocalNotifier) ScheduleOnce(delay time.Duration, title, body string, priority Priority) error {
	if delay <= 0 {
		return fmt.Errorf("notification delay must be positive, got %v", delay)
	}
	n := Notification{
		ID:       uuid.NewString(),
		Title:    title,
		Body:     body,
		Priority: priority,
	}
	return l.arm(n, l.now().Add(delay))
}

// Pending returns the scheduled notifications ordered by delivery time
func (l *LocalNotifier) Pending() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Notification, 0, len(l.pending))
	for _, p := range l.pending {
		out = append(out, p.n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}

func (l *LocalNotifier) arm(n Notification, at time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.permission == PermissionDenied {
		return fmt.Errorf("notification permission denied")
	}
	n.At = at
	delay := at.Sub(l.now())
	p := &pendingNotification{n: n}
	p.timer = time.AfterFunc(delay, func() { l.fire(n.ID) })
	l.pending[n.ID] = p
	l.logger.Printf("LocalNotifier: Scheduled %q at %s (daily=%t)", n.Title, at.Format(time.RFC3339), n.Daily)
	return nil
}

func (l *LocalNotifier) fire(id string) {
	l.mu.Lock()
	p, ok := l.pending[id]
	if !ok {
		// cancelled after the timer had already fired
		l.mu.Unlock()
		return
	}
	n := p.n
	if n.Daily {
		// The timer may fire while the wall clock still reads just before
		// the slot; count from the slot so it is not delivered twice.
		now := l.now()
		from := now
		if from.Before(n.At) {
			from = n.At
		}
		next := NextDaily(from, n.Hour, n.Minute)
		p.n.At = next
		p.timer = time.AfterFunc(next.Sub(now), func() { l.fire(id) })
	} else {
		delete(l.pending, id)
	}
	l.mu.Unlock()

	l.logger.Printf("LocalNotifier: Delivering %q", n.Title)
	l.deliver(n)
}
