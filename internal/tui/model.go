package tui

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/oneword/internal/exchange"
	"github.com/julianstephens/oneword/internal/storage"
	"github.com/julianstephens/oneword/internal/tui/components/connlist"
)

type SessionState int

const (
	StateConnections SessionState = iota
	StateThread
	StateCompose
)

type Model struct {
	store  storage.Provider
	engine *exchange.Engine
	meID   string

	state SessionState
	keys  KeyMap
	help  help.Model

	connList connlist.Model

	threadConn string
	threadWith string
	thread     []exchange.ThreadDay

	form          *huh.Form
	composeConn   string
	composeWith   string
	composeWord   string
	composePolicy string
	composeTime   string
	composeBurn   bool

	errMsg   string
	width    int
	height   int
	quitting bool
}

func NewModel(store storage.Provider, engine *exchange.Engine, meID string) Model {
	m := Model{
		store:  store,
		engine: engine,
		meID:   meID,
		state:  StateConnections,
		keys:   DefaultKeyMap(),
		help:   help.New(),
	}
	m.connList = connlist.New(m.loadEntries(), 0, 0)
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m *Model) loadEntries() []connlist.Entry {
	connections, err := m.store.GetConnectionsFor(m.meID)
	if err != nil {
		m.errMsg = err.Error()
		return nil
	}

	entries := make([]connlist.Entry, 0, len(connections))
	for _, conn := range connections {
		them, err := m.store.GetParticipant(conn.Other(m.meID))
		if err != nil {
			continue
		}
		status, err := m.engine.StatusForConnection(m.meID, conn.ID)
		if err != nil {
			m.errMsg = err.Error()
			continue
		}
		entries = append(entries, connlist.Entry{
			ConnectionID: conn.ID,
			Name:         them.Name,
			Timezone:     them.Zone(),
			Status:       status,
		})
	}
	return entries
}

func (m *Model) refresh() {
	m.errMsg = ""
	m.connList.SetEntries(m.loadEntries())
	if m.state == StateThread && m.threadConn != "" {
		m.loadThread(m.threadConn, m.threadWith)
	}
}

func (m *Model) loadThread(connectionID, name string) {
	days, err := m.engine.ThreadForConnection(m.meID, connectionID, exchange.DefaultThreadDays)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.threadConn = connectionID
	m.threadWith = name
	m.thread = days
}

func (m *Model) startCompose(connectionID, name string) {
	m.composeConn = connectionID
	m.composeWith = name
	m.composeWord = ""
	m.composePolicy = "instant"
	m.composeTime = ""
	m.composeBurn = false

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("word").
				Title("Word for "+name).
				Description("A single word: letters, hyphen, apostrophe.").
				Value(&m.composeWord),
			huh.NewSelect[string]().
				Key("policy").
				Title("Reveal policy").
				Options(
					huh.NewOption("Instant", "instant"),
					huh.NewOption("Mutual", "mutual"),
					huh.NewOption("Scheduled", "scheduled"),
				).
				Value(&m.composePolicy),
			huh.NewInput().
				Key("time").
				Title("Reveal time (HH:MM, scheduled only)").
				Placeholder("21:00").
				Value(&m.composeTime),
			huh.NewConfirm().
				Key("burn").
				Title("Burn if unread? (mutual only)").
				Value(&m.composeBurn),
		),
	)
}
