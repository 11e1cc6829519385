package trainer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/stamena-trainer/internal/progress"
	"github.com/lowaak/stamena-trainer/internal/session"
)

func newTestModel(t *testing.T, dir string) (*UIModel, chan string) {
	t.Helper()
	logChan := make(chan string, 16)
	m := NewUIModel(dir, discardLogger(), logChan)
	t.Cleanup(m.Shutdown)
	return m, logChan
}

func TestUIModelRemembersMode(t *testing.T) {
	dir := t.TempDir()
	m, _ := newTestModel(t, dir)
	assert.Equal(t, UIModeWorkout, m.GetUIState().Mode)

	m.SetMode(UIModeSettings)

	again, _ := newTestModel(t, dir)
	assert.Equal(t, UIModeSettings, again.GetUIState().Mode)
}

func TestUIModelSetModeNotifiesOnChange(t *testing.T) {
	m, _ := newTestModel(t, t.TempDir())
	ch := make(chan UIState, 4)
	unregister := m.ListenToUIState(ch)
	defer unregister()

	m.SetMode(UIModeWorkout)
	m.SetMode(UIModeProgress)

	select {
	case st := <-ch:
		assert.Equal(t, UIModeProgress, st.Mode)
	case <-time.After(time.Second):
		t.Fatal("no UI state published")
	}
	assert.Empty(t, ch)
}

func TestUIModelLogTail(t *testing.T) {
	m, logChan := newTestModel(t, t.TempDir())

	logChan <- "one\n"
	logChan <- "two\n"
	logChan <- "three\n"

	assert.Eventually(t, func() bool { return len(m.GetLogTail(10)) == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"two\n", "three\n"}, m.GetLogTail(2))
	assert.Empty(t, m.GetLogTail(0))
}

type fakeSessionSource struct {
	ch chan<- session.State
}

func (f *fakeSessionSource) ListenToState(ch chan<- session.State) func() {
	f.ch = ch
	return func() {}
}

func TestUIModelFollowSession(t *testing.T) {
	m, _ := newTestModel(t, t.TempDir())
	src := &fakeSessionSource{}

	m.FollowSession(src)
	require.NotNil(t, src.ch)
	src.ch <- session.State{Phase: session.PhaseRelaxing, Level: 4}

	assert.Eventually(t, func() bool { return m.GetSessionState().Phase == session.PhaseRelaxing }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 4, m.GetSessionState().Level)
}

func TestUIModelRecordIsCopied(t *testing.T) {
	m, _ := newTestModel(t, t.TempDir())
	rec := progress.DefaultRecord()

	m.SetRecord(rec)
	rec.Reminders[0].Hour = 6

	assert.Equal(t, 20, m.GetRecord().Reminders[0].Hour)
}

func TestChannelWriterSplitsLines(t *testing.T) {
	ch := make(chan string, 4)
	w := NewChannelWriter(ch)

	n, err := w.Write([]byte("first\nsec"))
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	_, err = w.Write([]byte("ond\n"))
	require.NoError(t, err)

	assert.Equal(t, "first\n", <-ch)
	assert.Equal(t, "second\n", <-ch)
	assert.Empty(t, ch)
}

func TestChannelWriterDropsWhenFull(t *testing.T) {
	ch := make(chan string, 1)
	w := NewChannelWriter(ch)

	_, err := w.Write([]byte("a\nb\n"))
	require.NoError(t, err)

	assert.Equal(t, "a\n", <-ch)
	assert.Empty(t, ch)
}
