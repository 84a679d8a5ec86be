package insights

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlit/internal/coach"
)

const meterWidth = 20

var (
	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			MarginTop(1)

	filledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Model shows the rolling aggregates and the cached coach text in a
// scrollable viewport.
type Model struct {
	viewport viewport.Model
	data     coach.Insights
	coach    string
	insight  string
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m *Model) SetInsights(in coach.Insights) {
	m.data = in
	m.refresh()
}

// SetCoach sets the rendered coach and pattern texts. Empty texts are
// replaced by a hint.
func (m *Model) SetCoach(coachText, insightText string) {
	m.coach = coachText
	m.insight = insightText
	m.refresh()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.refresh()
}

func (m *Model) refresh() {
	m.viewport.SetContent(Render(m.data, m.coach, m.insight))
}

// Render draws the insights page.
func Render(in coach.Insights, coachText, insightText string) string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Last 7 days by habit"))
	b.WriteString("\n")
	if len(in.Week.Habits) == 0 {
		b.WriteString(mutedStyle.Render("  no logs yet"))
		b.WriteString("\n")
	}
	for _, h := range in.Week.Habits {
		fmt.Fprintf(&b, "  %-20s %s %3d%%\n", h.Name, meter(h.Rate), h.Rate)
	}

	b.WriteString(sectionStyle.Render("Last 30 days by weekday"))
	b.WriteString("\n")
	for _, w := range in.Month.Weekdays {
		fmt.Fprintf(&b, "  %s %s %3d%%\n", w.Weekday.String()[:3], meter(w.Rate), w.Rate)
	}

	b.WriteString(sectionStyle.Render("Coach"))
	b.WriteString("\n")
	b.WriteString(orHint(coachText, "Press c to ask the coach."))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Patterns"))
	b.WriteString("\n")
	b.WriteString(orHint(insightText, "Press p to analyse the last 30 days."))
	return b.String()
}

func orHint(text, hint string) string {
	if strings.TrimSpace(text) == "" {
		return mutedStyle.Render("  " + hint)
	}
	return text
}

func meter(rate int) string {
	filled := rate * meterWidth / 100
	if filled > meterWidth {
		filled = meterWidth
	}
	if filled < 0 {
		filled = 0
	}
	return filledStyle.Render(strings.Repeat("━", filled)) + emptyStyle.Render(strings.Repeat("━", meterWidth-filled))
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}
