package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlit/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateToday:
		content = docStyle.Render(m.todayModel.View())
	case constants.StateHabits:
		content = docStyle.Render(m.habitsModel.View())
	case constants.StateInsights:
		content = docStyle.Render(m.insightsModel.View())
	case constants.StateAddHabit:
		content = m.viewForm("Add habit")
	case constants.StateEditNote:
		content = m.viewForm("Edit note")
	}

	var status string
	if m.status != "" {
		status = statusStyle.Render(m.status)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		status,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	// forms belong to the tab they were opened from
	switch m.state {
	case constants.StateAddHabit:
		active = constants.StateHabits
	case constants.StateEditNote:
		active = constants.StateToday
	}

	var tabs []string
	for i, title := range tabTitles {
		if active == constants.SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewForm(title string) string {
	parts := []string{formTitleStyle.Render(title)}
	if m.formError != "" {
		parts = append(parts, dangerStyle.Render(m.formError))
	}
	if m.form != nil {
		parts = append(parts, m.form.View())
	}
	parts = append(parts, inactiveTabStyle.Render("esc to cancel"))
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
