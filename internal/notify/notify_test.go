package notify

import (
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestNextDaily(t *testing.T) {
	now := time.Date(2026, 3, 10, 19, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC), NextDaily(now, 20, 0))
	assert.Equal(t, time.Date(2026, 3, 11, 8, 15, 0, 0, time.UTC), NextDaily(now, 8, 15))
	// exactly now rolls to tomorrow
	assert.Equal(t, time.Date(2026, 3, 11, 19, 30, 0, 0, time.UTC), NextDaily(now, 19, 30))
}

func TestParsePermission(t *testing.T) {
	for in, want := range map[string]Permission{
		"granted": PermissionGranted,
		"DENIED":  PermissionDenied,
		"prompt":  PermissionPrompt,
		"":        PermissionPrompt,
	} {
		got, err := ParsePermission(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
		if in != "" && in != "DENIED" {
			assert.Equal(t, in, got.String())
		}
	}

	_, err := ParsePermission("maybe")
	assert.Error(t, err)
}

func TestLocalNotifier_SchedulesAndCancels(t *testing.T) {
	now := time.Date(2026, 3, 10, 19, 30, 0, 0, time.UTC)
	n := NewLocalNotifier(PermissionGranted, nil, func() time.Time { return now }, discardLogger())

	require.NoError(t, n.ScheduleDaily(20, 0, "Daily", "body"))
	require.NoError(t, n.ScheduleOnce(5*time.Hour, "Once", "body", PriorityHigh))

	pending := n.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, "Daily", pending[0].Title)
	assert.True(t, pending[0].Daily)
	assert.Equal(t, now.Add(30*time.Minute), pending[0].At)
	assert.Equal(t, "Once", pending[1].Title)
	assert.Equal(t, PriorityHigh, pending[1].Priority)
	assert.NotEqual(t, pending[0].ID, pending[1].ID)

	require.NoError(t, n.CancelAll())
	assert.Empty(t, n.Pending())
}

func TestLocalNotifier_RejectsInvalidInput(t *testing.T) {
	n := NewLocalNotifier(PermissionGranted, nil, nil, discardLogger())
	defer n.CancelAll()

	assert.Error(t, n.ScheduleDaily(24, 0, "t", "b"))
	assert.Error(t, n.ScheduleDaily(8, 60, "t", "b"))
	assert.Error(t, n.ScheduleOnce(0, "t", "b", PriorityDefault))
	assert.Empty(t, n.Pending())
}

func TestLocalNotifier_Permission(t *testing.T) {
	n := NewLocalNotifier(PermissionPrompt, nil, nil, discardLogger())
	assert.Equal(t, PermissionPrompt, n.PermissionStatus())
	assert.Equal(t, PermissionGranted, n.RequestPermission())
	assert.Equal(t, PermissionGranted, n.PermissionStatus())

	denied := NewLocalNotifier(PermissionDenied, nil, nil, discardLogger())
	assert.Equal(t, PermissionDenied, denied.RequestPermission())
	assert.Error(t, denied.ScheduleOnce(time.Hour, "t", "b", PriorityDefault))
}

func TestLocalNotifier_DeliversOnce(t *testing.T) {
	var mu sync.Mutex
	var delivered []Notification
	n := NewLocalNotifier(PermissionGranted, func(x Notification) {
		mu.Lock()
		delivered = append(delivered, x)
		mu.Unlock()
	}, nil, discardLogger())

	require.NoError(t, n.ScheduleOnce(5*time.Millisecond, "Streak at risk", "body", PriorityHigh))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(delivered) == 1
	}, time.Second, time.Millisecond)
	assert.Empty(t, n.Pending())
}

func TestLocalNotifier_DailyRearmsForTomorrowWhenClockLags(t *testing.T) {
	// The wall clock never reaches 20:00 while the timer fires on time
	lagging := time.Date(2026, 3, 10, 19, 59, 59, 990_000_000, time.UTC)
	var mu sync.Mutex
	delivered := 0
	n := NewLocalNotifier(PermissionGranted, func(Notification) {
		mu.Lock()
		delivered++
		mu.Unlock()
	}, func() time.Time { return lagging }, discardLogger())
	t.Cleanup(func() { n.CancelAll() })

	require.NoError(t, n.ScheduleDaily(20, 0, "Time to Grind!", "body"))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return delivered == 1
	}, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	assert.Equal(t, 1, delivered)
	mu.Unlock()
	pending := n.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, time.Date(2026, 3, 11, 20, 0, 0, 0, time.UTC), pending[0].At)
}

func TestRecorder_TracksCalls(t *testing.T) {
	r := NewRecorder()
	require.NoError(t, r.ScheduleDaily(20, 0, "t", "b"))
	require.NoError(t, r.CancelAll())
	require.NoError(t, r.ScheduleOnce(time.Hour, "t", "b", PriorityHigh))

	daily, once, delays := r.Snapshot()
	assert.Empty(t, daily)
	require.Len(t, once, 1)
	assert.Equal(t, []time.Duration{time.Hour}, delays)
	assert.Equal(t, []string{"daily", "cancel", "once"}, r.Calls())

	r.Permission = PermissionPrompt
	r.Answer = PermissionDenied
	assert.Equal(t, PermissionDenied, r.RequestPermission())
	assert.Equal(t, 1, r.Requests)
}
