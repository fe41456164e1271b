package todo

import "sync"

// Analytics keeps in-memory completion stats. It lives for the lifetime of
// the application and is shared across scopes, so it guards its counter.
type Analytics struct {
	mu          sync.Mutex
	completions int
}

// RecordCompletion increments the completion counter.
func (a *Analytics) RecordCompletion() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.completions++
}

// Completions returns the number of completions recorded so far.
func (a *Analytics) Completions() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.completions
}
