package tui

import "sync"

// Mailbox collects navigations and notices raised off the UI goroutine, for
// example by a controller finishing a submit inside a tea.Cmd. The App drains
// it at the end of every Update.
type Mailbox struct {
	mu      sync.Mutex
	routes  []string
	notices []string
}

func NewMailbox() *Mailbox { return &Mailbox{} }

// Navigate queues a route change.
func (m *Mailbox) Navigate(path string) {
	m.mu.Lock()
	m.routes = append(m.routes, path)
	m.mu.Unlock()
}

// Notify queues a success toast.
func (m *Mailbox) Notify(message string) {
	m.mu.Lock()
	m.notices = append(m.notices, message)
	m.mu.Unlock()
}

// Drain returns and clears everything queued so far.
func (m *Mailbox) Drain() (routes, notices []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	routes, notices = m.routes, m.notices
	m.routes, m.notices = nil, nil
	return routes, notices
}
