package today

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlit/internal/coach"
)

// ToggleMsg asks for the done flag of a habit to be flipped.
type ToggleMsg struct {
	HabitID string
	Done    bool
	Note    string
}

// EditNoteMsg asks for the note editor of a habit.
type EditNoteMsg struct {
	HabitID string
	Name    string
	Done    bool
	Note    string
}

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	statStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	rewardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)
)

type Item struct {
	Entry coach.HabitItem
}

func (i Item) Title() string {
	if i.Entry.Log.Done {
		return "✓ " + i.Entry.Habit.Name
	}
	return "○ " + i.Entry.Habit.Name
}

func (i Item) Description() string {
	desc := i.Entry.Habit.Target()
	if i.Entry.Log.Note != "" {
		desc += " · " + i.Entry.Log.Note
	}
	return desc
}

func (i Item) FilterValue() string { return i.Entry.Habit.Name }

type KeyMap struct {
	Toggle key.Binding
	Note   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle done"),
		),
		Note: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "edit note"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
	view coach.TodayView
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Note}
	}
	return Model{list: l, keys: keys}
}

// SetView replaces the checklist and header, keeping the cursor position.
func (m *Model) SetView(v coach.TodayView) {
	m.view = v
	items := make([]list.Item, len(v.Items))
	for i, entry := range v.Items {
		items[i] = Item{Entry: entry}
	}
	m.list.SetItems(items)
}

func (m *Model) SetSize(width, height int) {
	// the stats header takes the first lines
	m.list.SetSize(width, max(height-6, 3))
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Toggle):
			if i, ok := m.list.SelectedItem().(Item); ok {
				toggle := ToggleMsg{HabitID: i.Entry.Habit.ID, Done: !i.Entry.Log.Done, Note: i.Entry.Log.Note}
				return m, func() tea.Msg { return toggle }
			}
			return m, nil
		case key.Matches(msg, m.keys.Note):
			if i, ok := m.list.SelectedItem().(Item); ok {
				edit := EditNoteMsg{HabitID: i.Entry.Habit.ID, Name: i.Entry.Habit.Name, Done: i.Entry.Log.Done, Note: i.Entry.Log.Note}
				return m, func() tea.Msg { return edit }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	v := m.view
	header := headerStyle.Render(v.Date)
	if v.Weather != nil {
		header += mutedStyle.Render(fmt.Sprintf("  %s, %s · %s", v.Weather.City, v.Weather.Description, v.Routine))
	}

	stats := lipgloss.JoinHorizontal(lipgloss.Top,
		statStyle.Render(fmt.Sprintf("Done %d/%d (%d%%)", v.Stats.Done, v.Stats.Total, v.Stats.Rate)),
		statStyle.Render(fmt.Sprintf("Streak %d · best %d", v.Streaks.Current, v.Streaks.Best)),
		statStyle.Render(fmt.Sprintf("Coach score %d", v.Score.Value)),
	)

	if len(v.Items) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, stats,
			"\n  No active habits.\n  Add one on the Habits tab.")
	}

	body := []string{header, stats, m.list.View()}
	if v.RewardEligible {
		body = append(body, rewardStyle.Render("Reward unlocked! Run 'habitlit reward' to claim it."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, body...)
}
