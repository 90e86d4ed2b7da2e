package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Tab       key.Binding
	Enter     key.Binding
	Add       key.Binding
	Done      key.Binding
	Delete    key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	Tag       key.Binding
	NewTag    key.Binding
	Suggest   key.Binding
	PrevMonth key.Binding
	NextMonth key.Binding
	Today     key.Binding
	Help      key.Binding
	Quit      key.Binding
	Escape    key.Binding
	Logout    key.Binding
	Refresh   key.Binding
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select/toggle")),
	Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add todo")),
	Done:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "toggle done")),
	Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	MoveUp:    key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "move up")),
	MoveDown:  key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "move down")),
	Tag:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cycle tag")),
	NewTag:    key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "new tag")),
	Suggest:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "suggest")),
	PrevMonth: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev month")),
	NextMonth: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next month")),
	Today:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Logout:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
	Refresh:   key.NewBinding(key.WithKeys("R", "r"), key.WithHelp("R", "refresh")),
}
