package events

// ChannelEvent fans values out to registered channels. Sends never block: a
// listener whose buffer is full misses that value, so consumers that only
// care about the newest state should use a buffer of 1 and re-read on wake.
type ChannelEvent[T any] struct {
	reg *registry[T, chan<- T]
}

// NewChannelEvent creates a ChannelEvent. With replayLast set, a channel
// registered after at least one Notify immediately receives the most recent
// value (if it has room).
func NewChannelEvent[T any](replayLast bool) *ChannelEvent[T] {
	return &ChannelEvent[T]{reg: newRegistry[T, chan<- T](replayLast)}
}

// Listen registers ch and returns a function that removes it.
func (e *ChannelEvent[T]) Listen(ch chan<- T) func() {
	if ch == nil {
		panic("channel cannot be nil")
	}
	id, last, replay := e.reg.add(ch)
	if replay {
		trySend(ch, last)
	}
	return func() { e.reg.remove(id) }
}

// Notify offers value to every registered channel.
func (e *ChannelEvent[T]) Notify(value T) {
	for _, ch := range e.reg.publish(value) {
		trySend(ch, value)
	}
}

// Latest returns the last notified value when replay is enabled.
func (e *ChannelEvent[T]) Latest() (T, bool) {
	return e.reg.latest()
}

// ListenerCount returns the number of registered channels
func (e *ChannelEvent[T]) ListenerCount() int {
	return e.reg.count()
}

func trySend[T any](ch chan<- T, value T) {
	select {
	case ch <- value:
	default:
	}
}
