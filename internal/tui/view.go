package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateConnections:
		content = m.connList.View()
	case StateThread:
		content = m.viewThread()
	case StateCompose:
		content = m.form.View()
	}

	sections := []string{
		titleStyle.Render("oneword"),
		docStyle.Render(content),
	}
	if m.errMsg != "" {
		sections = append(sections, errorStyle.Render("  "+m.errMsg))
	}
	sections = append(sections, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewThread() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Exchange with %s\n\n", m.threadWith)

	for _, day := range m.thread {
		mine := "—"
		if day.Mine != nil {
			mine = *day.Mine
		}
		theirs := "—"
		if day.Theirs != nil {
			theirs = *day.Theirs
		}

		line := fmt.Sprintf("%s  %-15s  %s", day.Date, mine, theirs)
		if day.Missed {
			line = missedStyle.Render(fmt.Sprintf("%s  %s", day.Date, "(missed)"))
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + dimStyle.Render("esc to go back, s to send"))
	return b.String()
}
