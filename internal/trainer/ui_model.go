package trainer

import (
	"context"
	"log"
	"sync"

	"github.com/lowaak/stamena-trainer/internal/events"
	"github.com/lowaak/stamena-trainer/internal/go_func_utils"
	"github.com/lowaak/stamena-trainer/internal/progress"
	"github.com/lowaak/stamena-trainer/internal/session"
)

// UIState holds the current state of the UI that views need to render
type UIState struct {
	Mode UIMode
}

// SessionSource publishes session snapshots (a session.Runner)
type SessionSource interface {
	ListenToState(ch chan<- session.State) func()
}

type UIModel struct {
	logEvent              *events.ChannelEvent[string]
	closeApplicationEvent *events.ChannelEvent[struct{}]
	uiStateEvent          *events.ChannelEvent[UIState]
	uiState               UIState
	sessionEvent          *events.ChannelEvent[session.State]
	sessionState          session.State
	recordEvent           *events.ChannelEvent[progress.Record]
	record                progress.Record
	historyEvent          *events.ChannelEvent[[]progress.Entry]
	history               []progress.Entry
	bannerEvent           *events.ChannelEvent[string]
	banner                string
	persistence           *uiModelPersistence
	logLines              []string
	logMu                 sync.RWMutex
	mu                    sync.RWMutex
	ctx                   context.Context
	cancel                context.CancelFunc
	wg                    sync.WaitGroup
	logger                *log.Logger
}

const maxLogLines = 1000

// NewUIModel creates the model. The UI mode is restored from dataDir;
// uiLogChan carries log lines for the log pane.
func NewUIModel(dataDir string, logger *log.Logger, uiLogChan <-chan string) *UIModel {
	if logger == nil {
		panic("UIModel: logger cannot be nil")
	}
	if uiLogChan == nil {
		panic("UIModel: uiLogChan cannot be nil")
	}
	ctx, cancel := context.WithCancel(context.Background())
	persistence := newUIModelPersistence(dataDir, logger)
	model := &UIModel{
		logEvent:              events.NewChannelEvent[string](false),
		closeApplicationEvent: events.NewChannelEvent[struct{}](true),
		uiStateEvent:          events.NewChannelEvent[UIState](true),
		uiState:               UIState{Mode: persistence.getLastMode()},
		sessionEvent:          events.NewChannelEvent[session.State](true),
		recordEvent:           events.NewChannelEvent[progress.Record](true),
		historyEvent:          events.NewChannelEvent[[]progress.Entry](true),
		bannerEvent:           events.NewChannelEvent[string](true),
		persistence:           persistence,
		logLines:              make([]string, 0, maxLogLines),
		ctx:                   ctx,
		cancel:                cancel,
		logger:                logger,
	}

	// Read from the UI log channel and populate logLines
	model.wg.Add(1)
	go_func_utils.SafeGo(model.logger, func() { model.readFromLogChannel(ctx, uiLogChan) })

	return model
}

// FollowSession mirrors every snapshot published by source into the model
func (m *UIModel) FollowSession(source SessionSource) {
	ch := make(chan session.State, 1)
	unregister := source.ListenToState(ch)

	m.wg.Add(1)
	go_func_utils.SafeGo(m.logger, func() {
		defer m.wg.Done()
		defer unregister()
		for {
			select {
			case <-m.ctx.Done():
				return
			case st, ok := <-ch:
				if !ok {
					return
				}
				m.SetSessionState(st)
			}
		}
	})
}

// Shutdown stops all goroutines and waits for them to finish
func (m *UIModel) Shutdown() {
	m.logger.Println("UIModel: Shutting down")
	m.cancel()
	m.wg.Wait()
	m.logger.Println("UIModel: Shutdown complete")
}

// ListenToLog registers a channel to receive log messages
// Returns a deregistration function that can be called to remove the listener
func (m *UIModel) ListenToLog(ch chan<- string) func() {
	return m.logEvent.Listen(ch)
}

// ListenToCloseApplication registers a channel to receive close application signals
func (m *UIModel) ListenToCloseApplication(ch chan<- struct{}) func() {
	return m.closeApplicationEvent.Listen(ch)
}

// RequestCloseApplication signals that the application should close
func (m *UIModel) RequestCloseApplication() {
	m.closeApplicationEvent.Notify(struct{}{})
}

// ListenToUIState registers a channel to receive UI state changes
func (m *UIModel) ListenToUIState(ch chan<- UIState) func() {
	return m.uiStateEvent.Listen(ch)
}

// GetUIState returns the current UI state
func (m *UIModel) GetUIState() UIState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.uiState
}

// SetMode updates the current UI mode, remembers it for the next start and
// notifies listeners
func (m *UIModel) SetMode(mode UIMode) {
	m.mu.Lock()
	if m.uiState.Mode == mode {
		m.mu.Unlock()
		return
	}
	m.uiState.Mode = mode
	state := m.uiState
	m.mu.Unlock()

	m.persistence.setLastMode(mode)
	m.uiStateEvent.Notify(state)
}

// ListenToSession registers a channel to receive session snapshots
func (m *UIModel) ListenToSession(ch chan<- session.State) func() {
	return m.sessionEvent.Listen(ch)
}

// GetSessionState returns the latest session snapshot
func (m *UIModel) GetSessionState() session.State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessionState
}

// SetSessionState stores a session snapshot and notifies listeners
func (m *UIModel) SetSessionState(st session.State) {
	m.mu.Lock()
	m.sessionState = st
	m.mu.Unlock()

	m.sessionEvent.Notify(st)
}

// ListenToRecord registers a channel to receive progress record updates
func (m *UIModel) ListenToRecord(ch chan<- progress.Record) func() {
	return m.recordEvent.Listen(ch)
}

// GetRecord returns a copy of the last progress record
func (m *UIModel) GetRecord() progress.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.record.Clone()
}

// SetRecord stores the progress record and notifies listeners
func (m *UIModel) SetRecord(rec progress.Record) {
	m.mu.Lock()
	m.record = rec.Clone()
	m.mu.Unlock()

	m.recordEvent.Notify(rec.Clone())
}

// ListenToHistory registers a channel to receive recent workout history
func (m *UIModel) ListenToHistory(ch chan<- []progress.Entry) func() {
	return m.historyEvent.Listen(ch)
}

// GetHistory returns a copy of the recent workouts
func (m *UIModel) GetHistory() []progress.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]progress.Entry(nil), m.history...)
}

// SetHistory stores the recent workouts and notifies listeners
func (m *UIModel) SetHistory(entries []progress.Entry) {
	m.mu.Lock()
	m.history = append([]progress.Entry(nil), entries...)
	m.mu.Unlock()

	m.historyEvent.Notify(append([]progress.Entry(nil), entries...))
}

// ListenToBanner registers a channel to receive banner messages
func (m *UIModel) ListenToBanner(ch chan<- string) func() {
	return m.bannerEvent.Listen(ch)
}

// GetBanner returns the banner currently shown, "" if none
func (m *UIModel) GetBanner() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.banner
}

// SetBanner shows text in the banner line. "" clears it.
func (m *UIModel) SetBanner(text string) {
	m.mu.Lock()
	m.banner = text
	m.mu.Unlock()

	m.bannerEvent.Notify(text)
}

// readFromLogChannel reads log lines from the channel and populates logLines
func (m *UIModel) readFromLogChannel(ctx context.Context, logChan <-chan string) {
	defer m.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-logChan:
			if !ok {
				return
			}

			m.logMu.Lock()
			m.logLines = append(m.logLines, line)
			if len(m.logLines) > maxLogLines {
				m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
			}
			m.logMu.Unlock()

			m.logEvent.Notify(line)
		}
	}
}

// GetLogTail returns the last n lines of logs
func (m *UIModel) GetLogTail(n int) []string {
	m.logMu.RLock()
	defer m.logMu.RUnlock()

	if n <= 0 {
		return []string{}
	}
	if n >= len(m.logLines) {
		result := make([]string, len(m.logLines))
		copy(result, m.logLines)
		return result
	}
	result := make([]string, n)
	copy(result, m.logLines[len(m.logLines)-n:])
	return result
}
