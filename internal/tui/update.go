package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/oneword/internal/exchange"
	"github.com/julianstephens/oneword/internal/models"
	"github.com/julianstephens/oneword/internal/tui/components/connlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.connList.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case connlist.OpenThreadMsg:
		m.loadThread(msg.ConnectionID, msg.Name)
		m.state = StateThread
		return m, nil

	case connlist.ComposeMsg:
		m.startCompose(msg.ConnectionID, msg.Name)
		m.state = StateCompose
		return m, m.form.Init()
	}

	if m.state == StateCompose {
		return m.updateCompose(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(keyMsg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(keyMsg, m.keys.Refresh):
			m.refresh()
			return m, nil
		case key.Matches(keyMsg, m.keys.Back):
			if m.state == StateThread {
				m.state = StateConnections
				return m, nil
			}
		case key.Matches(keyMsg, m.keys.Compose):
			if m.state == StateThread {
				m.startCompose(m.threadConn, m.threadWith)
				m.state = StateCompose
				return m, m.form.Init()
			}
		}
	}

	if m.state == StateConnections {
		var cmd tea.Cmd
		m.connList, cmd = m.connList.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) updateCompose(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.keys.Back) {
		m.state = StateConnections
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.submitCompose()
		m.state = StateConnections
		m.form = nil
		m.refresh()
		return m, nil
	}

	return m, cmd
}

func (m *Model) submitCompose() {
	policy, err := models.ParseRevealPolicy(m.composePolicy)
	if err != nil {
		m.errMsg = err.Error()
		return
	}

	_, err = m.engine.Send(context.Background(), m.meID, m.composeConn, m.composeWord, policy, exchange.SendOptions{
		Time: m.composeTime,
		Burn: m.composeBurn,
	})
	if err != nil {
		m.errMsg = err.Error()
	}
}
