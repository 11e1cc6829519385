package progress

import (
	"fmt"
	"log"
	"sync"

	"github.com/lowaak/stamena-trainer/internal/go_func_utils"
	"github.com/lowaak/stamena-trainer/internal/notify"
)

// Streak-at-risk notification text
const (
	RiskWarningTitle = "Streak at risk! 🔥"
	RiskWarningBody  = "Your streak ends soon. One quick workout keeps it alive."
)

// reschedule replaces every scheduled notification with the set the
// current record calls for. Cancel always runs first.
func (s *Store) reschedule() {
	rec := s.Record()

	if err := go_func_utils.SafeCall(s.logger, "ProgressStore: cancel notifications", s.notifier.CancelAll); err != nil {
		return
	}
	if !rec.WorkoutNotifications {
		s.logger.Printf("ProgressStore: workout notifications disabled, nothing scheduled")
		return
	}
	if len(rec.Reminders) == 0 {
		s.logger.Printf("ProgressStore: no reminders, nothing scheduled")
		return
	}

	permission := s.notifier.PermissionStatus()
	if permission == notify.PermissionPrompt {
		permission = s.notifier.RequestPermission()
	}
	if permission != notify.PermissionGranted {
		s.logger.Printf("ProgressStore: notification permission %s, nothing scheduled", permission)
		return
	}

	for _, rem := range rec.Reminders {
		go_func_utils.SafeCall(s.logger, fmt.Sprintf("ProgressStore: schedule reminder %s", rem), func() error {
			return s.notifier.ScheduleDaily(rem.Hour, rem.Minute, rec.Title(), rec.Body())
		})
	}

	if rec.LastWorkoutTimestamp == nil {
		return
	}
	delay := rec.LastWorkoutTimestamp.Add(s.riskAfter).Sub(s.now())
	if delay <= s.riskMargin {
		s.logger.Printf("ProgressStore: streak warning would be in %v, skipped", delay)
		return
	}
	go_func_utils.SafeCall(s.logger, "ProgressStore: schedule streak warning", func() error {
		return s.notifier.ScheduleOnce(delay, RiskWarningTitle, RiskWarningBody, notify.PriorityHigh)
	})
}

// rescheduleWorker runs reschedules one at a time on its own goroutine.
// Triggers that arrive while a run is queued are merged into it; each run
// reads the record afresh so merged triggers lose nothing.
type rescheduleWorker struct {
	run    func()
	logger *log.Logger

	wake chan struct{}
	done chan struct{}
	wg   sync.WaitGroup

	mu        sync.Mutex
	cond      *sync.Cond
	requested uint64
	completed uint64
	closed    bool
	closeOnce sync.Once
}

func newRescheduleWorker(run func(), logger *log.Logger) *rescheduleWorker {
	w := &rescheduleWorker{
		run:    run,
		logger: logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	w.wg.Add(1)
	go_func_utils.SafeGo(logger, w.loop)
	return w
}

func (w *rescheduleWorker) trigger() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.requested++
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *rescheduleWorker) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.wake:
			w.runPending()
		case <-w.done:
			w.runPending()
			return
		}
	}
}

func (w *rescheduleWorker) runPending() {
	w.mu.Lock()
	target := w.requested
	pending := target > w.completed
	w.mu.Unlock()
	if !pending {
		return
	}

	w.run()

	w.mu.Lock()
	w.completed = target
	w.cond.Broadcast()
	w.mu.Unlock()
}

func (w *rescheduleWorker) waitIdle() {
	w.mu.Lock()
	defer w.mu.Unlock()
	target := w.requested
	for w.completed < target && !w.closed {
		w.cond.Wait()
	}
}

func (w *rescheduleWorker) close() {
	w.closeOnce.Do(func() {
		close(w.done)
		w.wg.Wait()

		w.mu.Lock()
		w.closed = true
		w.cond.Broadcast()
		w.mu.Unlock()
	})
}
