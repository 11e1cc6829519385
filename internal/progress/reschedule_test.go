package progress

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/stamena-trainer/internal/notify"
)

func TestReschedule_DefaultReminder(t *testing.T) {
	f := newFixture(t, "")

	daily, once, _ := f.notifier.Snapshot()
	require.Len(t, daily, 1)
	assert.Equal(t, 20, daily[0].Hour)
	assert.Equal(t, 0, daily[0].Minute)
	assert.Equal(t, DefaultNotificationTitle, daily[0].Title)
	assert.Equal(t, DefaultNotificationBody, daily[0].Body)
	assert.Empty(t, once)
}

func TestReschedule_DisabledNotificationsScheduleNothing(t *testing.T) {
	f := newFixture(t, "")
	require.NoError(t, f.store.AddReminder(ReminderTime{Hour: 7, Minute: 0}))
	f.store.MarkWorkoutComplete()

	f.store.SetWorkoutNotifications(false)
	f.store.WaitIdle()

	daily, once, _ := f.notifier.Snapshot()
	assert.Empty(t, daily)
	assert.Empty(t, once)
	calls := f.notifier.Calls()
	assert.Equal(t, "cancel", calls[len(calls)-1])
}

func TestReschedule_NoRemindersScheduleNothing(t *testing.T) {
	f := newFixture(t, "")
	require.NoError(t, f.store.RemoveReminder(0))
	f.store.MarkWorkoutComplete()
	f.store.WaitIdle()

	daily, once, _ := f.notifier.Snapshot()
	assert.Empty(t, daily)
	assert.Empty(t, once)
}

func TestReschedule_CancelsBeforeScheduling(t *testing.T) {
	f := newFixture(t, "")
	f.store.SetNotificationText("Custom", "")
	f.store.WaitIdle()

	calls := f.notifier.Calls()
	require.GreaterOrEqual(t, len(calls), 4)
	assert.Equal(t, []string{"cancel", "daily", "cancel", "daily"}, calls)

	daily, _, _ := f.notifier.Snapshot()
	require.Len(t, daily, 1)
	assert.Equal(t, "Custom", daily[0].Title)
	assert.Equal(t, DefaultNotificationBody, daily[0].Body)
}

func TestReschedule_RiskWarningAfterWorkout(t *testing.T) {
	f := newFixture(t, "")
	f.store.MarkWorkoutComplete()
	f.store.WaitIdle()

	_, once, delays := f.notifier.Snapshot()
	require.Len(t, once, 1)
	assert.Equal(t, RiskWarningTitle, once[0].Title)
	assert.Equal(t, notify.PriorityHigh, once[0].Priority)
	assert.Equal(t, []time.Duration{23 * time.Hour}, delays)
}

func TestReschedule_RiskWarningFromStoredTimestamp(t *testing.T) {
	now := newFakeClock().Now()

	future := now.Add(-time.Hour).Format(time.RFC3339)
	f := newFixture(t, fmt.Sprintf(`{"last_workout_timestamp": %q}`, future))
	_, _, delays := f.notifier.Snapshot()
	assert.Equal(t, []time.Duration{22 * time.Hour}, delays)

	// only 10s left, inside the margin
	almost := now.Add(-23*time.Hour + 10*time.Second).Format(time.RFC3339)
	f = newFixture(t, fmt.Sprintf(`{"last_workout_timestamp": %q}`, almost))
	_, once, _ := f.notifier.Snapshot()
	assert.Empty(t, once)

	past := now.Add(-30 * time.Hour).Format(time.RFC3339)
	f = newFixture(t, fmt.Sprintf(`{"last_workout_timestamp": %q}`, past))
	daily, once, _ := f.notifier.Snapshot()
	assert.Empty(t, once)
	assert.Len(t, daily, 1)
}

func TestReschedule_PermissionDenied(t *testing.T) {
	f := &fixture{clock: newFakeClock(), persister: &MemoryPersister{}, notifier: notify.NewRecorder()}
	f.notifier.Permission = notify.PermissionDenied
	f.open(t)

	daily, once, _ := f.notifier.Snapshot()
	assert.Empty(t, daily)
	assert.Empty(t, once)
	assert.Equal(t, []string{"cancel"}, f.notifier.Calls())
}

func TestReschedule_PermissionRequestedWhenUnknown(t *testing.T) {
	f := &fixture{clock: newFakeClock(), persister: &MemoryPersister{}, notifier: notify.NewRecorder()}
	f.notifier.Permission = notify.PermissionPrompt
	f.notifier.Answer = notify.PermissionGranted
	f.open(t)

	daily, _, _ := f.notifier.Snapshot()
	assert.Len(t, daily, 1)
	assert.Equal(t, 1, f.notifier.Requests)
}

func TestReschedule_NotifierErrorsAreSwallowed(t *testing.T) {
	f := &fixture{clock: newFakeClock(), persister: &MemoryPersister{}, notifier: notify.NewRecorder()}
	f.notifier.Err = fmt.Errorf("notification service unavailable")
	f.open(t)

	streak, counted := f.store.MarkWorkoutComplete()
	f.store.WaitIdle()
	assert.True(t, counted)
	assert.Equal(t, 1, streak)
	assert.Contains(t, f.notifier.Calls(), "once")
}
