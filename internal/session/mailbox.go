package session

import "sync"

// Mailbox is a single-slot, most-recent-wins handoff between one producer
// and any number of consumers. Putting a value overwrites whatever is
// stored; nothing is ever queued. Gesture hold timers run on the wall
// clock, so a stale value is worse than a dropped one.
type Mailbox[T any] struct {
	mu    sync.Mutex
	value T
	seq   uint64
}

// NewMailbox creates an empty mailbox.
func NewMailbox[T any]() *Mailbox[T] {
	return &Mailbox[T]{}
}

// Put stores v, replacing any previous value.
func (m *Mailbox[T]) Put(v T) {
	m.mu.Lock()
	m.value = v
	m.seq++
	m.mu.Unlock()
}

// Take returns the freshest value and whether it is newer than the value
// returned by the previous Take. Consumers that share a mailbox should use
// Peek instead.
func (m *Mailbox[T]) Take(lastSeq uint64) (T, uint64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, m.seq, m.seq > lastSeq
}

// Peek returns the freshest value and whether anything has ever been put.
func (m *Mailbox[T]) Peek() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, m.seq > 0
}
