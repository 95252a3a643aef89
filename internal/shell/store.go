// Package shell is the console-wide store: the tab registry plus the sidebar,
// breadcrumb and refresh state that views mutate through explicit operations.
package shell

import (
	"sync"

	"github.com/zombiebrand/adminconsole/internal/menu"
	"github.com/zombiebrand/adminconsole/internal/tabs"
)

// Store is shared by every mounted view. Tab operations delegate to the
// registry; the remaining fields are guarded by mu.
type Store struct {
	tabs *tabs.Registry

	mu         sync.Mutex
	menu       menu.State
	breadcrumb []string
	refresh    bool
}

func NewStore(nav tabs.Navigator) *Store {
	return &Store{tabs: tabs.NewRegistry(nav)}
}

// Tabs exposes the registry for read access and navigator wiring.
func (s *Store) Tabs() *tabs.Registry { return s.tabs }

func (s *Store) AddTab(entry tabs.Entry) error { return s.tabs.AddTab(entry) }

func (s *Store) SetActiveKey(key string) error { return s.tabs.SetActiveKey(key) }

func (s *Store) CloseTabGoNext(key, fallbackPath string) (string, error) {
	return s.tabs.CloseTabGoNext(key, fallbackPath)
}

func (s *Store) SetBreadcrumb(path []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.breadcrumb = append([]string(nil), path...)
}

func (s *Store) Breadcrumb() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.breadcrumb...)
}

func (s *Store) SetMenuOpenKeys(keys []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menu.OpenKeys = append([]string(nil), keys...)
}

func (s *Store) SetMenuSelectedKeys(keys []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menu.SelectedKeys = append([]string(nil), keys...)
}

func (s *Store) Menu() menu.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return menu.State{
		OpenKeys:     append([]string(nil), s.menu.OpenKeys...),
		SelectedKeys: append([]string(nil), s.menu.SelectedKeys...),
	}
}

// SetRefreshRequested marks that the next view shown should reload its data.
func (s *Store) SetRefreshRequested(flag bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = flag
}

func (s *Store) RefreshRequested() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh
}

// ConsumeRefresh returns the refresh flag and clears it.
func (s *Store) ConsumeRefresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.refresh
	s.refresh = false
	return v
}
