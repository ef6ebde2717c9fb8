package connlist

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/oneword/internal/reveal"
)

type OpenThreadMsg struct {
	ConnectionID string
	Name         string
}

type ComposeMsg struct {
	ConnectionID string
	Name         string
}

// Entry is one connection with its current reveal status, resolved by the
// caller so the component stays presentation-only.
type Entry struct {
	ConnectionID string
	Name         string
	Timezone     string
	Status       reveal.Status
}

type Item struct {
	Entry Entry
}

func (i Item) Title() string       { return i.Entry.Name }
func (i Item) Description() string { return reveal.Label(i.Entry.Status) }
func (i Item) FilterValue() string { return i.Entry.Name }

type KeyMap struct {
	Open    key.Binding
	Compose key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open thread"),
		),
		Compose: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "send word"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(entries []Entry, width, height int) Model {
	l := list.New(toItems(entries), list.NewDefaultDelegate(), width, height)
	l.Title = "Connections"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // help is rendered globally

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Open, keys.Compose}
	}

	return Model{list: l, keys: keys}
}

func toItems(entries []Entry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = Item{Entry: e}
	}
	return items
}

func (m *Model) SetEntries(entries []Entry) {
	m.list.SetItems(toItems(entries))
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Open):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg {
					return OpenThreadMsg{ConnectionID: i.Entry.ConnectionID, Name: i.Entry.Name}
				}
			}
		case key.Matches(msg, m.keys.Compose):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg {
					return ComposeMsg{ConnectionID: i.Entry.ConnectionID, Name: i.Entry.Name}
				}
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No connections yet.\n  Add one with 'oneword friend add'."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
