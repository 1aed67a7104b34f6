package app

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit    key.Binding
	Refresh key.Binding
	Sort    key.Binding
	Order   key.Binding
	Add     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Open    key.Binding
	Yes     key.Binding
	No      key.Binding
	Next    key.Binding
	Prev    key.Binding
	Toggle  key.Binding
	Submit  key.Binding
	Cancel  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:    key.NewBinding(key.WithKeys("q", "Q", "ctrl+c"), key.WithHelp("q", "quit")),
		Refresh: key.NewBinding(key.WithKeys("r", "R", "f5"), key.WithHelp("r", "refresh")),
		Sort:    key.NewBinding(key.WithKeys("s", "S"), key.WithHelp("s", "sort")),
		Order:   key.NewBinding(key.WithKeys("o", "O"), key.WithHelp("o", "order")),
		Add:     key.NewBinding(key.WithKeys("a", "A"), key.WithHelp("a", "add")),
		Edit:    key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("⏎", "edit")),
		Delete:  key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Open:    key.NewBinding(key.WithKeys("x", "X"), key.WithHelp("x", "open")),
		Yes:     key.NewBinding(key.WithKeys("y", "Y")),
		No:      key.NewBinding(key.WithKeys("n", "N", "esc")),
		Next:    key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next")),
		Prev:    key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("S-tab", "prev")),
		Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("⏎", "save")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}
