package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Quit       key.Binding
	CloseTab   key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	Sidebar    key.Binding
	Locale     key.Binding
	Goto       key.Binding
	NewArticle key.Binding
	Submit     key.Binding
	Back       key.Binding
	FocusNext  key.Binding
	Up         key.Binding
	Down       key.Binding
	Toggle     key.Binding
	Open       key.Binding
	Reload     key.Binding
	NextPage   key.Binding
	PrevPage   key.Binding
	Confirm    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		CloseTab:   key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "close tab")),
		NextTab:    key.NewBinding(key.WithKeys("ctrl+right"), key.WithHelp("ctrl+→", "next tab")),
		PrevTab:    key.NewBinding(key.WithKeys("ctrl+left"), key.WithHelp("ctrl+←", "prev tab")),
		Sidebar:    key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "sidebar")),
		Locale:     key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "language")),
		Goto:       key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "go to")),
		NewArticle: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new article")),
		Submit:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		FocusNext:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Open:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		NextPage:   key.NewBinding(key.WithKeys("pgdown", "right", "l"), key.WithHelp("→", "next page")),
		PrevPage:   key.NewBinding(key.WithKeys("pgup", "left", "h"), key.WithHelp("←", "prev page")),
		Confirm:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "go")),
	}
}

// renderHelp joins bindings into a one-line footer hint.
func renderHelp(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, keyStyle.Render(h.Key)+" "+helpDescStyle.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}
