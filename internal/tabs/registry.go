// Package tabs holds the workspace tab registry: the ordered set of open
// documents keyed by route, the active key, and close-with-succession.
package tabs

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrInvalidKey is returned when an operation references a key that is not
// registered, or would leave the active key pointing at nothing.
var ErrInvalidKey = errors.New("tabs: invalid key")

// Entry is one open document. Identity is Key (the route URI).
type Entry struct {
	Key          string
	Label        string
	LabelLocales map[string]string
	Breadcrumb   []string
}

// LabelFor returns the label for locale, falling back to Label.
func (e Entry) LabelFor(locale string) string {
	if v, ok := e.LabelLocales[locale]; ok && v != "" {
		return v
	}
	return e.Label
}

func (e Entry) clone() Entry {
	out := e
	if e.LabelLocales != nil {
		out.LabelLocales = make(map[string]string, len(e.LabelLocales))
		for k, v := range e.LabelLocales {
			out.LabelLocales[k] = v
		}
	}
	if e.Breadcrumb != nil {
		out.Breadcrumb = append([]string(nil), e.Breadcrumb...)
	}
	return out
}

// State is a point-in-time copy of the registry.
type State struct {
	Tabs      []Entry
	ActiveKey string
}

// Keys returns the tab keys in display order.
func (s State) Keys() []string {
	out := make([]string, 0, len(s.Tabs))
	for _, t := range s.Tabs {
		out = append(out, t.Key)
	}
	return out
}

// Navigator performs the route change that follows a close.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Registry is safe for concurrent use. Every operation is applied atomically;
// navigation runs after the lock is released so a Navigator may read the
// registry back.
type Registry struct {
	mu     sync.Mutex
	tabs   []Entry
	active string
	nav    Navigator
}

func NewRegistry(nav Navigator) *Registry {
	return &Registry{nav: nav}
}

// AddTab inserts entry, or replaces the entry with the same key in place.
// The active key is never changed.
func (r *Registry) AddTab(entry Entry) error {
	if strings.TrimSpace(entry.Key) == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	entry = entry.clone()

	r.mu.Lock()
	defer r.mu.Unlock()
	if idx := r.indexLocked(entry.Key); idx >= 0 {
		r.tabs[idx] = entry
		return nil
	}
	r.tabs = append(r.tabs, entry)
	return nil
}

// SetActiveKey activates key. An empty key is accepted only while the
// registry is empty.
func (r *Registry) SetActiveKey(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if key == "" {
		if len(r.tabs) > 0 {
			return fmt.Errorf("%w: cannot clear active key while %d tabs are open", ErrInvalidKey, len(r.tabs))
		}
		r.active = ""
		return nil
	}
	if r.indexLocked(key) < 0 {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	r.active = key
	return nil
}

// CloseTabGoNext removes key and activates its neighbour: the previous entry,
// else the next one. When nothing remains the active key is cleared and the
// navigator is sent to fallbackPath. It returns the path navigated to.
func (r *Registry) CloseTabGoNext(key, fallbackPath string) (string, error) {
	r.mu.Lock()
	idx := r.indexLocked(key)
	if idx < 0 {
		r.mu.Unlock()
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	r.tabs = append(r.tabs[:idx], r.tabs[idx+1:]...)

	next := fallbackPath
	switch {
	case len(r.tabs) == 0:
		r.active = ""
	case idx > 0:
		r.active = r.tabs[idx-1].Key
		next = r.active
	default:
		r.active = r.tabs[0].Key
		next = r.active
	}
	nav := r.nav
	r.mu.Unlock()

	if nav != nil && next != "" {
		nav.Navigate(next)
	}
	return next, nil
}

// Snapshot returns a deep copy of the current state.
func (r *Registry) Snapshot() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := State{ActiveKey: r.active, Tabs: make([]Entry, 0, len(r.tabs))}
	for _, t := range r.tabs {
		out.Tabs = append(out.Tabs, t.clone())
	}
	return out
}

func (r *Registry) Get(key string) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexLocked(key)
	if idx < 0 {
		return Entry{}, false
	}
	return r.tabs[idx].clone(), true
}

func (r *Registry) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

func (r *Registry) ActiveKey() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tabs)
}

// Neighbour returns the key delta positions away from key, wrapping around.
func (r *Registry) Neighbour(key string, delta int) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.tabs) == 0 {
		return "", false
	}
	idx := r.indexLocked(key)
	if idx < 0 {
		return r.tabs[0].Key, true
	}
	n := len(r.tabs)
	return r.tabs[((idx+delta)%n+n)%n].Key, true
}

func (r *Registry) indexLocked(key string) int {
	for i := range r.tabs {
		if r.tabs[i].Key == key {
			return i
		}
	}
	return -1
}
