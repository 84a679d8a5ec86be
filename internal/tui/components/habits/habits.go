package habits

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitlit/internal/models"
)

type AddHabitMsg struct{}

// SetActiveMsg asks for a habit to be activated or deactivated.
type SetActiveMsg struct {
	ID     string
	Name   string
	Active bool
}

type Item struct {
	Habit models.Habit
}

func (i Item) Title() string {
	if !i.Habit.IsActive {
		return "[INACTIVE] " + i.Habit.Name
	}
	return i.Habit.Name
}

func (i Item) Description() string {
	freq := string(i.Habit.FrequencyType)
	if i.Habit.FrequencyType == models.FrequencyWeekly {
		freq = fmt.Sprintf("weekly x%d", i.Habit.FrequencyGoal)
	}
	return fmt.Sprintf("%s · %s · difficulty %d · %s", i.Habit.CategoryLabel(), i.Habit.Target(), i.Habit.Difficulty, freq)
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Add    key.Binding
	Active key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Active: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "toggle active"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(habits []models.Habit, width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Active}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Active}
	}

	m := Model{list: l, keys: keys}
	m.SetHabits(habits)
	return m
}

func (m *Model) SetHabits(habits []models.Habit) {
	items := make([]list.Item, len(habits))
	for i, h := range habits {
		items[i] = Item{Habit: h}
	}
	m.list.SetItems(items)
}

// Filtering reports whether the list is capturing keys for its filter.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Active):
			if i, ok := m.list.SelectedItem().(Item); ok {
				set := SetActiveMsg{ID: i.Habit.ID, Name: i.Habit.Name, Active: !i.Habit.IsActive}
				return m, func() tea.Msg { return set }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
