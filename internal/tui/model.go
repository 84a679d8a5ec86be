// Package tui is the bubbletea front end. Every key press goes through a
// coach.Service handler and the screen is redrawn from the returned view.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlit/internal/coach"
	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/tui/components/habits"
	"github.com/julianstephens/habitlit/internal/tui/components/insights"
	"github.com/julianstephens/habitlit/internal/tui/components/today"
)

var tabTitles = []string{"Today", "Habits", "Insights"}

type Model struct {
	svc  *coach.Service
	date string

	state         constants.SessionState
	keys          KeyMap
	help          help.Model
	todayModel    today.Model
	habitsModel   habits.Model
	insightsModel insights.Model

	form      *huh.Form
	habitForm *HabitFormModel
	noteForm  *NoteFormModel

	coachText   string
	insightText string
	generating  bool
	status      string
	formError   string

	quitting bool
	width    int
	height   int
}

// NewModel loads the dashboard for today in the configured timezone.
func NewModel(svc *coach.Service) (Model, error) {
	date, err := svc.CurrentDate()
	if err != nil {
		return Model{}, err
	}
	m := Model{
		svc:           svc,
		date:          date,
		state:         constants.StateToday,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		todayModel:    today.New(0, 0),
		habitsModel:   habits.New(nil, 0, 0),
		insightsModel: insights.New(0, 0),
	}
	if err := m.reload(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// reload refreshes every tab from the store.
func (m *Model) reload() error {
	ctx := context.Background()
	view, err := m.svc.Today(ctx, m.date)
	if err != nil {
		return err
	}
	m.setToday(view)
	if err := m.reloadHabits(); err != nil {
		return err
	}
	return m.reloadInsights()
}

func (m *Model) setToday(view coach.TodayView) {
	m.todayModel.SetView(view)
	if view.Coach != "" {
		m.coachText = view.Coach
		m.refreshCoach()
	}
}

func (m *Model) reloadHabits() error {
	list, err := m.svc.Habits(context.Background(), true)
	if err != nil {
		return err
	}
	m.habitsModel.SetHabits(list)
	return nil
}

func (m *Model) reloadInsights() error {
	ctx := context.Background()
	in, err := m.svc.GetInsights(ctx, m.date)
	if err != nil {
		return err
	}
	m.insightsModel.SetInsights(in)

	d, err := m.svc.Digest(ctx, m.date, models.DigestInsight)
	switch {
	case err == nil:
		m.insightText = d.Content
	case !errors.Is(err, storage.ErrNotFound):
		return err
	}
	m.refreshCoach()
	return nil
}

func (m *Model) refreshCoach() {
	width := m.width - 4
	m.insightsModel.SetCoach(RenderMarkdown(m.coachText, width), RenderMarkdown(m.insightText, width))
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateToday:
		tk := today.DefaultKeyMap()
		keys = append(keys, tk.Toggle, tk.Note, m.keys.Coach)
	case constants.StateHabits:
		hk := habits.DefaultKeyMap()
		keys = append(keys, hk.Add, hk.Active)
	case constants.StateInsights:
		keys = append(keys, m.keys.Coach, m.keys.Patterns)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	switch m.state {
	case constants.StateToday:
		tk := today.DefaultKeyMap()
		actions = []key.Binding{tk.Toggle, tk.Note, m.keys.Coach}
	case constants.StateHabits:
		hk := habits.DefaultKeyMap()
		actions = []key.Binding{hk.Add, hk.Active}
	case constants.StateInsights:
		actions = []key.Binding{m.keys.Coach, m.keys.Patterns}
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}
