package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/stamena-trainer/internal/notify"
	"github.com/lowaak/stamena-trainer/internal/plan"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type fixture struct {
	clock     *fakeClock
	persister *MemoryPersister
	notifier  *notify.Recorder
	store     *Store
}

func newFixture(t *testing.T, saved string) *fixture {
	t.Helper()
	f := &fixture{
		clock:     newFakeClock(),
		persister: &MemoryPersister{},
		notifier:  notify.NewRecorder(),
	}
	if saved != "" {
		f.persister.Data = []byte(saved)
	}
	f.open(t)
	return f
}

func (f *fixture) open(t *testing.T) {
	t.Helper()
	f.store = NewStore(f.persister, f.notifier, discardLogger(), WithClock(f.clock.Now))
	t.Cleanup(f.store.Close)
	f.store.WaitIdle()
}

func (f *fixture) savedJSON(t *testing.T) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(f.persister.Data, &m))
	return m
}

func day(offset int) string {
	return newFakeClock().Now().AddDate(0, 0, offset).Format(DateLayout)
}

func TestStore_FreshRecordDefaults(t *testing.T) {
	f := newFixture(t, "")
	rec := f.store.Record()

	assert.Equal(t, 1, rec.Level)
	assert.False(t, rec.Unlocked)
	assert.True(t, rec.TextCues)
	assert.True(t, rec.VibrationCues)
	assert.True(t, rec.AudioCues)
	assert.True(t, rec.WorkoutNotifications)
	assert.True(t, rec.PointNotifications)
	assert.Equal(t, []ReminderTime{{Hour: 20, Minute: 0}}, rec.Reminders)
	assert.Equal(t, 250, rec.NextLevelGoal())
	assert.Nil(t, rec.LastWorkoutTimestamp)
}

func TestStore_StreakCountsConsecutiveDays(t *testing.T) {
	f := newFixture(t, "")

	for want := 1; want <= 4; want++ {
		streak, counted := f.store.MarkWorkoutComplete()
		require.True(t, counted)
		assert.Equal(t, want, streak)
		f.store.WaitIdle()
		f.clock.Advance(24 * time.Hour)
	}
	assert.Equal(t, 4, f.store.Record().CompletedWorkouts)
}

func TestStore_StreakGapRestartsAtOne(t *testing.T) {
	f := newFixture(t, "")

	f.store.MarkWorkoutComplete()
	f.store.WaitIdle()
	f.clock.Advance(24 * time.Hour)
	streak, _ := f.store.MarkWorkoutComplete()
	require.Equal(t, 2, streak)
	f.store.WaitIdle()

	f.clock.Advance(48 * time.Hour)
	streak, counted := f.store.MarkWorkoutComplete()
	assert.True(t, counted)
	assert.Equal(t, 1, streak)
}

func TestStore_SameDayCompletionIsNoOp(t *testing.T) {
	f := newFixture(t, "")

	f.store.MarkWorkoutComplete()
	first := f.store.Record()
	f.store.WaitIdle()

	f.clock.Advance(3 * time.Hour)
	streak, counted := f.store.MarkWorkoutComplete()
	second := f.store.Record()

	assert.False(t, counted)
	assert.Equal(t, 1, streak)
	assert.Equal(t, first.StreakCount, second.StreakCount)
	assert.Equal(t, first.LastWorkoutDate, second.LastWorkoutDate)
	assert.Equal(t, *first.LastWorkoutTimestamp, *second.LastWorkoutTimestamp)
	assert.Equal(t, 1, second.CompletedWorkouts)
}

func TestStore_ReloadDropsStaleStreak(t *testing.T) {
	f := newFixture(t, fmt.Sprintf(`{"streak_count": 5, "last_workout_date": %q}`, day(-2)))

	assert.Equal(t, 0, f.store.Record().StreakCount)
	assert.EqualValues(t, 0, f.savedJSON(t)["streak_count"])
}

func TestStore_ReloadKeepsRecentStreak(t *testing.T) {
	for _, offset := range []int{0, -1} {
		f := newFixture(t, fmt.Sprintf(`{"streak_count": 5, "last_workout_date": %q}`, day(offset)))
		assert.Equal(t, 5, f.store.Record().StreakCount, "offset %d", offset)
	}
}

func TestStore_RecordSurvivesReload(t *testing.T) {
	f := newFixture(t, "")
	f.store.SetUnlocked(true)
	require.NoError(t, f.store.SetLevel(7))
	f.store.AwardPoints(120)
	f.store.MarkWorkoutComplete()
	f.store.SetAudioCues(false)
	f.store.SetPointNotifications(false)
	f.store.SetNotificationText("Go", "Now")
	require.NoError(t, f.store.AddReminder(ReminderTime{Hour: 7, Minute: 45}))
	before := f.store.Record()
	f.store.Close()

	f.open(t)
	after := f.store.Record()

	assert.Equal(t, before.Level, after.Level)
	assert.True(t, after.Unlocked)
	assert.Equal(t, 120, after.TotalPoints)
	assert.Equal(t, 1, after.StreakCount)
	assert.Equal(t, before.LastWorkoutDate, after.LastWorkoutDate)
	require.NotNil(t, after.LastWorkoutTimestamp)
	assert.True(t, before.LastWorkoutTimestamp.Equal(*after.LastWorkoutTimestamp))
	assert.False(t, after.AudioCues)
	assert.False(t, after.PointNotifications)
	assert.Equal(t, "Go", after.Title())
	assert.Equal(t, "Now", after.Body())
	assert.Equal(t, []ReminderTime{{20, 0}, {7, 45}}, after.Reminders)
}

func TestStore_MalformedRecordFallsBackToDefaults(t *testing.T) {
	f := newFixture(t, `not json at all`)
	assert.Equal(t, DefaultRecord(), f.store.Record())
}

func TestStore_InvalidFieldsDefaultIndependently(t *testing.T) {
	f := newFixture(t, `{
		"level": "three",
		"total_points": 40,
		"streak_count": -2,
		"text_cues": false,
		"audio_cues": "yes",
		"last_workout_date": "yesterday-ish",
		"reminders": ["garbage", "2026-01-01T07:30:00Z", "21:15"]
	}`)
	rec := f.store.Record()

	assert.Equal(t, 1, rec.Level)
	assert.Equal(t, 40, rec.TotalPoints)
	assert.Equal(t, 0, rec.StreakCount)
	assert.False(t, rec.TextCues)
	assert.True(t, rec.AudioCues)
	assert.Equal(t, "", rec.LastWorkoutDate)
	assert.Equal(t, []ReminderTime{{7, 30}, {21, 15}}, rec.Reminders)
}

func TestStore_ReadsEarlierKeyNames(t *testing.T) {
	f := newFixture(t, fmt.Sprintf(`{
		"stamenaLevel": 4,
		"godMode": true,
		"textCues": false,
		"workoutNotifs": false,
		"totalPoints": 900,
		"streak": 2,
		"lastWorkoutDate": %q,
		"reminders": []
	}`, day(-1)))
	rec := f.store.Record()

	assert.Equal(t, 4, rec.Level)
	assert.True(t, rec.Unlocked)
	assert.False(t, rec.TextCues)
	assert.False(t, rec.WorkoutNotifications)
	assert.Equal(t, 900, rec.TotalPoints)
	assert.Equal(t, 2, rec.StreakCount)
	assert.Empty(t, rec.Reminders)
}

func TestStore_OutOfRangeLevelOnDiskIsIgnored(t *testing.T) {
	f := newFixture(t, `{"level": 42}`)
	assert.Equal(t, 1, f.store.Level())
}

func TestStore_LoadErrorUsesDefaults(t *testing.T) {
	persister := &MemoryPersister{LoadErr: errors.New("disk on fire")}
	s := NewStore(persister, notify.NewRecorder(), discardLogger())
	defer s.Close()
	assert.Equal(t, DefaultRecord(), s.Record())
}

func TestStore_WriteFailureIsSwallowed(t *testing.T) {
	f := newFixture(t, "")
	f.persister.SaveErr = errors.New("read-only filesystem")

	total := f.store.AwardPoints(110)
	level := f.store.AdvanceLevel()

	assert.Equal(t, 110, total)
	assert.Equal(t, 2, level)
	assert.Equal(t, 2, f.store.Record().Level)
	assert.Greater(t, f.persister.Saves, 1)
}

func TestStore_AdvanceLevelCapsAtMax(t *testing.T) {
	f := newFixture(t, fmt.Sprintf(`{"level": %d}`, plan.MaxLevel))
	assert.Equal(t, plan.MaxLevel, f.store.AdvanceLevel())
	assert.Equal(t, plan.MaxLevel, f.store.Level())
}

func TestStore_LevelOverrideRequiresUnlock(t *testing.T) {
	f := newFixture(t, "")
	levels := make(chan int, 1)
	f.store.ListenLevel(levels)
	assert.Equal(t, 1, <-levels)

	assert.ErrorIs(t, f.store.SetLevel(5), ErrLevelLocked)
	assert.Equal(t, 1, f.store.Level())

	f.store.SetUnlocked(true)
	assert.ErrorIs(t, f.store.SetLevel(0), ErrLevelOutOfRange)
	assert.ErrorIs(t, f.store.SetLevel(21), ErrLevelOutOfRange)

	require.NoError(t, f.store.SetLevel(5))
	assert.Equal(t, 5, f.store.Level())
	select {
	case got := <-levels:
		assert.Equal(t, 5, got)
	default:
		t.Fatal("no level change published")
	}
}

func TestStore_ReminderEditing(t *testing.T) {
	f := newFixture(t, "")

	assert.ErrorIs(t, f.store.AddReminder(ReminderTime{Hour: 24}), ErrInvalidReminder)
	require.NoError(t, f.store.AddReminder(ReminderTime{Hour: 8, Minute: 0}))
	require.NoError(t, f.store.UpdateReminder(0, ReminderTime{Hour: 21, Minute: 30}))
	assert.ErrorIs(t, f.store.UpdateReminder(5, ReminderTime{Hour: 1}), ErrReminderIndex)
	assert.ErrorIs(t, f.store.UpdateReminder(0, ReminderTime{Minute: 61}), ErrInvalidReminder)

	assert.Equal(t, []ReminderTime{{21, 30}, {8, 0}}, f.store.Record().Reminders)

	require.NoError(t, f.store.RemoveReminder(0))
	assert.ErrorIs(t, f.store.RemoveReminder(1), ErrReminderIndex)
	assert.ErrorIs(t, f.store.RemoveReminder(-1), ErrReminderIndex)
	assert.Equal(t, []ReminderTime{{8, 0}}, f.store.Record().Reminders)

	f.store.WaitIdle()
	daily, _, _ := f.notifier.Snapshot()
	require.Len(t, daily, 1)
	assert.Equal(t, 8, daily[0].Hour)
}

func TestParseReminderTime(t *testing.T) {
	rt, err := ParseReminderTime("07:05")
	require.NoError(t, err)
	assert.Equal(t, ReminderTime{Hour: 7, Minute: 5}, rt)
	assert.Equal(t, "07:05", rt.String())

	_, err = ParseReminderTime("25:00")
	assert.ErrorIs(t, err, ErrInvalidReminder)
}

func TestFilePersister_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := NewFilePersister(dir, discardLogger())

	_, err := p.Load()
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, p.Save([]byte(`{"level": 3}`)))
	raw, err := p.Load()
	require.NoError(t, err)
	assert.JSONEq(t, `{"level": 3}`, string(raw))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}
