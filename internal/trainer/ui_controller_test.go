package trainer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/stamena-trainer/internal/events"
	"github.com/lowaak/stamena-trainer/internal/notify"
	"github.com/lowaak/stamena-trainer/internal/progress"
	"github.com/lowaak/stamena-trainer/internal/session"
)

type fakeSession struct {
	toggles int
	resets  int
}

func (f *fakeSession) Toggle() session.State {
	f.toggles++
	return session.State{Phase: session.PhaseCountdown, CountdownValue: 3}
}

func (f *fakeSession) Reset() session.State {
	f.resets++
	return session.State{Phase: session.PhaseIdle}
}

type fakeHistory struct {
	entries []progress.Entry
	err     error
}

func (f *fakeHistory) Recent(_ context.Context, n int) ([]progress.Entry, error) {
	if len(f.entries) > n {
		return f.entries[:n], f.err
	}
	return f.entries, f.err
}

type fakeCompletions struct {
	event *events.ChannelEvent[Completion]
}

func (f *fakeCompletions) ListenToCompletion(ch chan<- Completion) func() {
	return f.event.Listen(ch)
}

type controllerFixture struct {
	model       *UIModel
	session     *fakeSession
	store       *progress.Store
	history     *fakeHistory
	completions *fakeCompletions
	controller  *UIController
}

func newControllerFixture(t *testing.T) *controllerFixture {
	t.Helper()
	model, _ := newTestModel(t, t.TempDir())
	store := progress.NewStore(&progress.MemoryPersister{}, notify.NewRecorder(), discardLogger())
	store.WaitIdle()
	t.Cleanup(store.Close)

	f := &controllerFixture{
		model:       model,
		session:     &fakeSession{},
		store:       store,
		history:     &fakeHistory{entries: []progress.Entry{{ID: "a", Level: 1, Points: 110}}},
		completions: &fakeCompletions{event: events.NewChannelEvent[Completion](false)},
	}
	f.controller = NewUIController(NewUIControllerArg{
		Model:       model,
		Session:     f.session,
		Store:       store,
		History:     f.history,
		Completions: f.completions,
		Logger:      discardLogger(),
	})
	t.Cleanup(f.controller.Shutdown)
	return f
}

func TestUIControllerLoadsProgressOnStart(t *testing.T) {
	f := newControllerFixture(t)

	assert.Equal(t, 1, f.model.GetRecord().Level)
	assert.Len(t, f.model.GetHistory(), 1)
}

func TestUIControllerWorkoutControls(t *testing.T) {
	f := newControllerFixture(t)

	f.controller.ToggleWorkout()
	assert.Equal(t, 1, f.session.toggles)
	assert.Equal(t, session.PhaseCountdown, f.model.GetSessionState().Phase)

	f.controller.ResetWorkout()
	assert.Equal(t, 1, f.session.resets)
	assert.Equal(t, session.PhaseIdle, f.model.GetSessionState().Phase)
}

func TestUIControllerLevelSelectionNeedsUnlock(t *testing.T) {
	f := newControllerFixture(t)

	f.controller.LevelUp()
	assert.Equal(t, 1, f.store.Level())

	f.controller.ToggleUnlocked()
	f.controller.LevelUp()
	f.controller.LevelUp()
	assert.Equal(t, 3, f.store.Level())
	assert.Equal(t, 3, f.model.GetRecord().Level)

	f.controller.LevelDown()
	assert.Equal(t, 2, f.store.Level())
}

func TestUIControllerLevelDownStopsAtMinimum(t *testing.T) {
	f := newControllerFixture(t)
	f.controller.ToggleUnlocked()

	f.controller.LevelDown()

	assert.Equal(t, 1, f.store.Level())
}

func TestUIControllerSettingsToggles(t *testing.T) {
	f := newControllerFixture(t)

	f.controller.ToggleTextCues()
	f.controller.ToggleAudioCues()
	f.controller.ToggleVibrationCues()
	f.controller.ToggleWorkoutNotifications()
	f.controller.TogglePointNotifications()

	rec := f.model.GetRecord()
	assert.False(t, rec.TextCues)
	assert.False(t, rec.AudioCues)
	assert.False(t, rec.VibrationCues)
	assert.False(t, rec.WorkoutNotifications)
	assert.False(t, rec.PointNotifications)
	assert.Equal(t, rec, f.store.Record())
}

func TestUIControllerModeChange(t *testing.T) {
	f := newControllerFixture(t)
	f.history.entries = append(f.history.entries, progress.Entry{ID: "b"})

	f.controller.OnModeChange(UIModeProgress)

	assert.Equal(t, UIModeProgress, f.model.GetUIState().Mode)
	assert.Len(t, f.model.GetHistory(), 2)
}

func TestUIControllerHistoryErrorKeepsOldEntries(t *testing.T) {
	f := newControllerFixture(t)
	f.history.err = errors.New("disk gone")
	f.history.entries = nil

	f.controller.RefreshProgress()

	assert.Len(t, f.model.GetHistory(), 1)
}

func TestUIControllerAnnouncesCompletion(t *testing.T) {
	f := newControllerFixture(t)

	f.completions.event.Notify(Completion{Points: 110, TotalPoints: 110, Level: 2, Streak: 1, Counted: true, Announce: true})

	require.Eventually(t, func() bool { return f.model.GetBanner() != "" }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "Workout complete! +110 points (total 110), level 2, streak 1", f.model.GetBanner())
}

func TestUIControllerQuietCompletion(t *testing.T) {
	f := newControllerFixture(t)
	ch := make(chan []progress.Entry, 1)
	unregister := f.model.ListenToHistory(ch)
	defer unregister()
	<-ch // replayed

	f.completions.event.Notify(Completion{Points: 110, Announce: false})

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("progress not refreshed after completion")
	}
	assert.Empty(t, f.model.GetBanner())
}

func TestUIControllerEscapeRequestsClose(t *testing.T) {
	f := newControllerFixture(t)
	ch := make(chan struct{}, 1)
	unregister := f.model.ListenToCloseApplication(ch)
	defer unregister()

	f.controller.OnEscapeKey()

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("close not requested")
	}
}
