package notification

import (
	"context"
	"sync"
)

// MemorySender records messages instead of delivering them. Used in tests
// and as the default sender when no SES region is configured.
type MemorySender struct {
	mu   sync.Mutex
	sent []Message
	fail error
}

func NewMemorySender() *MemorySender {
	return &MemorySender{}
}

// FailWith makes every subsequent Send return err.
func (m *MemorySender) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

func (m *MemorySender) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, msg)
	return nil
}

// Sent returns a copy of everything delivered so far.
func (m *MemorySender) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.sent...)
}
