package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/llm"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/tui/components/habits"
	"github.com/julianstephens/habitlit/internal/tui/components/today"
)

// digestMsg carries the result of a digest generation started by generate.
type digestMsg struct {
	kind models.DigestKind
	text string
	err  error
}

// tabCount is the number of SessionStates shown as tabs.
const tabCount = 3

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case digestMsg:
		m.handleDigest(msg)
		return m, nil
	}

	switch m.state {
	case constants.StateAddHabit:
		return m.updateAddHabit(msg)
	case constants.StateEditNote:
		return m.updateEditNote(msg)
	}

	switch msg := msg.(type) {
	case today.ToggleMsg:
		m.record(msg.HabitID, msg.Done, msg.Note)
		return m, nil

	case today.EditNoteMsg:
		m.noteForm = &NoteFormModel{HabitID: msg.HabitID, Name: msg.Name, Done: msg.Done, Note: msg.Note}
		m.form = NewNoteForm(m.noteForm)
		m.formError = ""
		m.state = constants.StateEditNote
		return m, m.form.Init()

	case habits.AddHabitMsg:
		m.habitForm = newHabitFormModel()
		m.form = NewHabitForm(m.habitForm)
		m.formError = ""
		m.state = constants.StateAddHabit
		return m, m.form.Init()

	case habits.SetActiveMsg:
		m.setActive(msg)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.state == constants.StateHabits && m.habitsModel.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state + tabCount - 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			if err := m.reload(); err != nil {
				m.fail("Refresh failed", err)
			} else {
				m.status = "Refreshed."
			}
			return m, nil
		case key.Matches(msg, m.keys.Coach) && m.state != constants.StateHabits:
			return m, m.generate(models.DigestCoach)
		case key.Matches(msg, m.keys.Patterns) && m.state == constants.StateInsights:
			return m, m.generate(models.DigestInsight)
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateToday:
		m.todayModel, cmd = m.todayModel.Update(msg)
	case constants.StateHabits:
		m.habitsModel, cmd = m.habitsModel.Update(msg)
	case constants.StateInsights:
		m.insightsModel, cmd = m.insightsModel.Update(msg)
	}
	return m, cmd
}

func (m *Model) resize() {
	// tabs, help and status line
	h := m.height - 6
	w := m.width - 4
	m.todayModel.SetSize(w, h)
	m.habitsModel.SetSize(w, h)
	m.insightsModel.SetSize(w, h)
	m.refreshCoach()
}

func (m *Model) fail(what string, err error) {
	logger.Warn(what, "error", err)
	m.status = fmt.Sprintf("%s: %v", what, err)
}

// record writes one log and redraws the dashboard from the returned view.
func (m *Model) record(habitID string, done bool, note string) {
	view, err := m.svc.RecordCompletion(context.Background(), m.date, habitID, done, note)
	if err != nil {
		m.fail("Failed to save", err)
		return
	}
	m.setToday(view)
	m.status = ""
	if err := m.reloadInsights(); err != nil {
		m.fail("Failed to refresh insights", err)
	}
}

func (m *Model) setActive(msg habits.SetActiveMsg) {
	if err := m.svc.SetHabitActive(context.Background(), msg.ID, msg.Active); err != nil {
		m.fail("Failed to update habit", err)
		return
	}
	if msg.Active {
		m.status = "Activated " + msg.Name
	} else {
		m.status = "Deactivated " + msg.Name + " (logs are kept)"
	}
	if err := m.reload(); err != nil {
		m.fail("Refresh failed", err)
	}
}

// generate starts a digest generation unless one is already running.
func (m *Model) generate(kind models.DigestKind) tea.Cmd {
	if m.generating {
		return nil
	}
	m.generating = true
	m.status = fmt.Sprintf("Generating %s...", kind)
	svc, date := m.svc, m.date
	return func() tea.Msg {
		text, err := svc.GenerateDigest(context.Background(), date, kind)
		return digestMsg{kind: kind, text: text, err: err}
	}
}

func (m *Model) handleDigest(msg digestMsg) {
	m.generating = false
	if msg.err != nil {
		if errors.Is(msg.err, llm.ErrUnavailable) {
			m.status = "Coach unavailable. Set an API key with 'habitlit keys set'."
			logger.Debug("Digest generation unavailable", "kind", msg.kind, "error", msg.err)
			return
		}
		m.fail("Generation failed", msg.err)
		return
	}
	switch msg.kind {
	case models.DigestInsight:
		m.insightText = msg.text
	default:
		m.coachText = msg.text
	}
	m.refreshCoach()
	m.status = fmt.Sprintf("New %s message ready on the Insights tab.", msg.kind)
}

func (m Model) updateForm(msg tea.Msg, back constants.SessionState, submit func(*Model) error) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = back
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := submit(&m); err != nil {
			// stay in the form so the user can fix the input or cancel
			m.formError = err.Error()
			m.form = m.rebuildForm()
			return m, m.form.Init()
		}
		m.state = back
		m.form = nil
		m.formError = ""
	case huh.StateAborted:
		m.state = back
		m.form = nil
	}
	return m, cmd
}

func (m Model) rebuildForm() *huh.Form {
	if m.state == constants.StateAddHabit {
		return NewHabitForm(m.habitForm)
	}
	return NewNoteForm(m.noteForm)
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.updateForm(msg, constants.StateHabits, (*Model).submitHabit)
}

func (m Model) updateEditNote(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.updateForm(msg, constants.StateToday, (*Model).submitNote)
}

func (m *Model) submitHabit() error {
	h, err := m.svc.CreateHabit(context.Background(), m.habitForm.Habit())
	if err != nil {
		return err
	}
	m.status = "Added " + h.Name
	if err := m.reload(); err != nil {
		m.fail("Refresh failed", err)
	}
	return nil
}

func (m *Model) submitNote() error {
	fm := m.noteForm
	view, err := m.svc.RecordCompletion(context.Background(), m.date, fm.HabitID, fm.Done, fm.Note)
	if err != nil {
		return err
	}
	m.setToday(view)
	m.status = "Saved note for " + fm.Name
	return nil
}
