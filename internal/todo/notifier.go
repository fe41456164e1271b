package todo

import "sync"

// Notifier delivers user-facing messages about todo activity.
type Notifier interface {
	Notify(text string)
}

// MemoryNotifier records notifications in order. Useful in tests and demos
// where delivery means appending to a slice.
type MemoryNotifier struct {
	mu       sync.Mutex
	messages []string
}

// Notify appends text to the recorded messages.
func (n *MemoryNotifier) Notify(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, text)
}

// Messages returns a copy of everything delivered so far.
func (n *MemoryNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.messages))
	copy(out, n.messages)
	return out
}
