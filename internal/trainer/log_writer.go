package trainer

import (
	"bytes"
	"sync"
)

// ChannelWriter is an io.Writer that sends each complete line to a channel
// for the log pane. Lines are dropped when the channel is full so logging
// never blocks on the UI.
type ChannelWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
	ch  chan<- string
}

func NewChannelWriter(ch chan<- string) *ChannelWriter {
	return &ChannelWriter{ch: ch}
}

func (w *ChannelWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Incomplete line, keep it for the next write
			w.buf.Reset()
			w.buf.WriteString(line)
			return len(p), nil
		}
		select {
		case w.ch <- line:
		default:
		}
	}
}
