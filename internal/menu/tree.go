package menu

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Item is a sidebar node. Label is a translation key.
type Item struct {
	Key      string
	Label    string
	Children []Item
}

// Tree is the navigation hierarchy shown in the sidebar.
type Tree []Item

// DefaultTree is the console navigation.
func DefaultTree() Tree {
	return Tree{
		{Key: "/dashboard", Label: "dashboard.title"},
		{Key: "/content", Label: "content.contentTitle", Children: []Item{
			{Key: "/content/article", Label: "content.articleTitle"},
		}},
	}
}

// Leaf is a navigable item with its resolved parent chain.
type Leaf struct {
	Item
	Parents []string
}

// Leaves returns navigable items depth first.
func (t Tree) Leaves() []Leaf {
	var out []Leaf
	var walk func(items []Item, parents []string)
	walk = func(items []Item, parents []string) {
		for _, it := range items {
			if len(it.Children) == 0 {
				out = append(out, Leaf{Item: it, Parents: append([]string(nil), parents...)})
				continue
			}
			walk(it.Children, append(parents, it.Key))
		}
	}
	walk(t, nil)
	return out
}

// Line is a rendered sidebar row.
type Line struct {
	Key      string
	Label    string
	Depth    int
	Group    bool
	Open     bool
	Selected bool
}

// Lines flattens the tree honouring st: children of closed groups are hidden.
func (t Tree) Lines(st State, translate func(string) string) []Line {
	open := toSet(st.OpenKeys)
	selected := toSet(st.SelectedKeys)
	var out []Line
	var walk func(items []Item, depth int)
	walk = func(items []Item, depth int) {
		for _, it := range items {
			l := Line{
				Key:      it.Key,
				Label:    translateOr(translate, it.Label),
				Depth:    depth,
				Group:    len(it.Children) > 0,
				Open:     open[it.Key],
				Selected: selected[it.Key],
			}
			out = append(out, l)
			if l.Group && l.Open {
				walk(it.Children, depth+1)
			}
		}
	}
	walk(t, 0)
	return out
}

// Find returns the leaf whose translated label or key best matches query.
// Prefix matches win; otherwise the smallest edit distance within half the
// query length is accepted.
func (t Tree) Find(query string, translate func(string) string) (Leaf, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Leaf{}, false
	}
	leaves := t.Leaves()
	for _, l := range leaves {
		label := strings.ToLower(translateOr(translate, l.Label))
		if strings.HasPrefix(label, q) || strings.HasPrefix(strings.ToLower(l.Key), q) {
			return l, true
		}
	}
	best := -1
	bestDist := len(q)/2 + 1
	for i, l := range leaves {
		label := strings.ToLower(translateOr(translate, l.Label))
		if d := levenshtein.ComputeDistance(q, label); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return Leaf{}, false
	}
	return leaves[best], true
}

func translateOr(translate func(string) string, key string) string {
	if translate == nil {
		return key
	}
	return translate(key)
}

func toSet(keys []string) map[string]bool {
	out := make(map[string]bool, len(keys))
	for _, k := range keys {
		out[k] = true
	}
	return out
}
