package progress

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/lowaak/stamena-trainer/internal/events"
	"github.com/lowaak/stamena-trainer/internal/feedback"
	"github.com/lowaak/stamena-trainer/internal/notify"
	"github.com/lowaak/stamena-trainer/internal/plan"
)

// Defaults for the streak-at-risk reminder
const (
	DefaultRiskWarningAfter  = 23 * time.Hour
	DefaultRiskWarningMargin = 30 * time.Second
)

// StoreOption configures a Store
type StoreOption func(*Store)

// WithClock replaces time.Now. Calendar dates are taken from the clock's
// location.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithRiskWarning sets how long after a workout the streak-at-risk
// notification fires and how far in the future it must still be to be
// scheduled at all.
func WithRiskWarning(after, margin time.Duration) StoreOption {
	return func(s *Store) {
		s.riskAfter = after
		s.riskMargin = margin
	}
}

// Store owns the progression record. Every mutation is saved immediately
// (failures are logged and swallowed) and changes that affect reminders
// queue a reschedule on a background worker.
type Store struct {
	mu        sync.Mutex
	record    Record
	persister Persister
	notifier  notify.Notifier
	logger    *log.Logger
	now       func() time.Time

	riskAfter  time.Duration
	riskMargin time.Duration

	levelEvent *events.ChannelEvent[int]
	worker     *rescheduleWorker
}

// NewStore loads the record, drops a stale streak and schedules reminders.
// A record that cannot be read is replaced by the defaults.
func NewStore(persister Persister, notifier notify.Notifier, logger *log.Logger, opts ...StoreOption) *Store {
	if persister == nil {
		panic("ProgressStore: persister cannot be nil")
	}
	if notifier == nil {
		panic("ProgressStore: notifier cannot be nil")
	}
	if logger == nil {
		panic("ProgressStore: logger cannot be nil")
	}
	s := &Store{
		persister:  persister,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
		riskAfter:  DefaultRiskWarningAfter,
		riskMargin: DefaultRiskWarningMargin,
		levelEvent: events.NewChannelEvent[int](true),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.record = s.load()
	if s.reconcileStreak() {
		s.save()
	}
	s.levelEvent.Notify(s.record.Level)

	s.worker = newRescheduleWorker(s.reschedule, logger)
	s.worker.trigger()
	return s
}

func (s *Store) load() Record {
	raw, err := s.persister.Load()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Printf("ProgressStore: load failed, using defaults: %v", err)
		}
		return DefaultRecord()
	}
	rec := decodeRecord(raw, s.logger)
	s.logger.Printf("ProgressStore: loaded level=%d points=%d streak=%d last=%q",
		rec.Level, rec.TotalPoints, rec.StreakCount, rec.LastWorkoutDate)
	return rec
}

// reconcileStreak zeroes a streak whose last workout is neither today nor
// yesterday. Reports whether the record changed.
func (s *Store) reconcileStreak() bool {
	if s.record.StreakCount == 0 {
		return false
	}
	today, yesterday := s.calendarDays()
	if s.record.LastWorkoutDate == today || s.record.LastWorkoutDate == yesterday {
		return false
	}
	s.logger.Printf("ProgressStore: streak of %d lapsed (last workout %q)", s.record.StreakCount, s.record.LastWorkoutDate)
	s.record.StreakCount = 0
	return true
}

func (s *Store) calendarDays() (today, yesterday string) {
	now := s.now()
	return now.Format(DateLayout), now.AddDate(0, 0, -1).Format(DateLayout)
}

// save must be called with mu held (or before the store is shared)
func (s *Store) save() {
	raw, err := encodeRecord(s.record, s.now())
	if err != nil {
		s.logger.Printf("ProgressStore: encode failed: %v", err)
		return
	}
	if err := s.persister.Save(raw); err != nil {
		s.logger.Printf("ProgressStore: save failed: %v", err)
	}
}

// update applies fn under the lock, saves, and reports the new record.
func (s *Store) update(fn func(r *Record)) Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.record)
	s.save()
	return s.record.Clone()
}

// Record returns a copy of the current record
func (s *Store) Record() Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Clone()
}

// Level returns the current difficulty level
func (s *Store) Level() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Level
}

// ListenLevel registers ch for level changes. The current level is
// replayed on registration.
func (s *Store) ListenLevel(ch chan<- int) func() {
	return s.levelEvent.Listen(ch)
}

// Toggles returns the cue toggles in the form the feedback player wants
func (s *Store) Toggles() feedback.Toggles {
	s.mu.Lock()
	defer s.mu.Unlock()
	return feedback.Toggles{
		Text:      s.record.TextCues,
		Vibration: s.record.VibrationCues,
		Audio:     s.record.AudioCues,
	}
}

// AwardPoints adds n points and returns the new total
func (s *Store) AwardPoints(n int) int {
	rec := s.update(func(r *Record) { r.TotalPoints += n })
	s.logger.Printf("ProgressStore: +%d points (total %d)", n, rec.TotalPoints)
	return rec.TotalPoints
}

// AdvanceLevel moves one level up, stopping at plan.MaxLevel
func (s *Store) AdvanceLevel() int {
	s.mu.Lock()
	if s.record.Level >= plan.MaxLevel {
		level := s.record.Level
		s.mu.Unlock()
		return level
	}
	s.record.Level++
	level := s.record.Level
	s.save()
	s.mu.Unlock()

	s.logger.Printf("ProgressStore: advanced to level %d", level)
	s.levelEvent.Notify(level)
	return level
}

// SetLevel overrides the level. Only allowed in unlocked mode.
func (s *Store) SetLevel(level int) error {
	s.mu.Lock()
	if !s.record.Unlocked {
		s.mu.Unlock()
		return ErrLevelLocked
	}
	if level < plan.MinLevel || level > plan.MaxLevel {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrLevelOutOfRange, level, plan.MinLevel, plan.MaxLevel)
	}
	changed := s.record.Level != level
	s.record.Level = level
	s.save()
	s.mu.Unlock()

	if changed {
		s.logger.Printf("ProgressStore: level set to %d", level)
		s.levelEvent.Notify(level)
	}
	return nil
}

// SetUnlocked toggles unlocked mode
func (s *Store) SetUnlocked(on bool) {
	s.update(func(r *Record) { r.Unlocked = on })
}

// MarkWorkoutComplete updates the streak for a workout finished now. A
// second call on the same calendar day changes nothing and reports false.
func (s *Store) MarkWorkoutComplete() (streak int, counted bool) {
	s.mu.Lock()
	today, yesterday := s.calendarDays()
	if s.record.LastWorkoutDate == today {
		streak = s.record.StreakCount
		s.mu.Unlock()
		s.logger.Printf("ProgressStore: workout already counted today (streak %d)", streak)
		return streak, false
	}

	if s.record.LastWorkoutDate == yesterday {
		s.record.StreakCount++
	} else {
		s.record.StreakCount = 1
	}
	now := s.now()
	s.record.LastWorkoutDate = today
	s.record.LastWorkoutTimestamp = &now
	s.record.CompletedWorkouts++
	streak = s.record.StreakCount
	s.save()
	s.mu.Unlock()

	s.logger.Printf("ProgressStore: workout complete, streak %d", streak)
	s.worker.trigger()
	return streak, true
}

func (s *Store) SetTextCues(on bool) {
	s.update(func(r *Record) { r.TextCues = on })
}

func (s *Store) SetVibrationCues(on bool) {
	s.update(func(r *Record) { r.VibrationCues = on })
}

func (s *Store) SetAudioCues(on bool) {
	s.update(func(r *Record) { r.AudioCues = on })
}

func (s *Store) SetPointNotifications(on bool) {
	s.update(func(r *Record) { r.PointNotifications = on })
}

// SetWorkoutNotifications turns the daily reminders on or off
func (s *Store) SetWorkoutNotifications(on bool) {
	s.update(func(r *Record) { r.WorkoutNotifications = on })
	s.worker.trigger()
}

// SetNotificationText sets the reminder title and body. Empty strings fall
// back to the defaults.
func (s *Store) SetNotificationText(title, body string) {
	s.update(func(r *Record) {
		r.NotificationTitle = title
		r.NotificationBody = body
	})
	s.worker.trigger()
}

func (s *Store) AddReminder(t ReminderTime) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidReminder, t)
	}
	s.update(func(r *Record) { r.Reminders = append(r.Reminders, t) })
	s.worker.trigger()
	return nil
}

func (s *Store) RemoveReminder(index int) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.record.Reminders) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrReminderIndex, index)
	}
	s.record.Reminders = append(s.record.Reminders[:index:index], s.record.Reminders[index+1:]...)
	s.save()
	s.mu.Unlock()

	s.worker.trigger()
	return nil
}

func (s *Store) UpdateReminder(index int, t ReminderTime) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidReminder, t)
	}
	s.mu.Lock()
	if index < 0 || index >= len(s.record.Reminders) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrReminderIndex, index)
	}
	s.record.Reminders[index] = t
	s.save()
	s.mu.Unlock()

	s.worker.trigger()
	return nil
}

// WaitIdle blocks until every reschedule queued so far has run
func (s *Store) WaitIdle() {
	s.worker.waitIdle()
}

// Close runs any queued reschedule and stops the worker
func (s *Store) Close() {
	s.worker.close()
}
