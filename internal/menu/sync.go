// Package menu derives sidebar open/selected state from the route of the
// visible view and holds the static navigation tree.
package menu

import "strings"

// State is the sidebar state derived from a parent path.
type State struct {
	OpenKeys     []string
	SelectedKeys []string
}

// Env carries the layout flags that suppress sidebar syncing.
type Env struct {
	NarrowViewport   bool
	SidebarCollapsed bool
}

// Skip reports whether sync must leave the sidebar untouched.
func (e Env) Skip() bool { return e.NarrowViewport || e.SidebarCollapsed }

// Setter receives derived state.
type Setter interface {
	SetMenuOpenKeys(keys []string)
	SetMenuSelectedKeys(keys []string)
}

// Ancestors returns the group keys that must be expanded to reveal path.
// The first segment is always included; deeper paths add every proper prefix.
//
//	/content/article       -> [/content]
//	/system/user/detail    -> [/system /system/user]
func Ancestors(path string) []string {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil
	}
	out := []string{"/" + parts[0]}
	prefix := "/" + parts[0]
	for i := 1; i < len(parts)-1; i++ {
		prefix += "/" + parts[i]
		out = append(out, prefix)
	}
	return out
}

// Derive computes the sidebar state for parentPath. ok is false when env
// says the sidebar must not be forced open.
func Derive(parentPath string, env Env) (State, bool) {
	if env.Skip() {
		return State{}, false
	}
	return State{
		OpenKeys:     Ancestors(parentPath),
		SelectedKeys: []string{parentPath},
	}, true
}

// Apply derives and writes the state through s. It returns whether anything
// was written.
func Apply(s Setter, parentPath string, env Env) bool {
	st, ok := Derive(parentPath, env)
	if !ok || s == nil {
		return false
	}
	s.SetMenuOpenKeys(st.OpenKeys)
	s.SetMenuSelectedKeys(st.SelectedKeys)
	return true
}

func splitPath(path string) []string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	raw := strings.Split(path, "/")
	out := raw[:0]
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
