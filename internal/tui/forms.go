package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlit/internal/models"
)

// HabitFormModel backs the add-habit form. Numbers are kept as strings for
// the text inputs.
type HabitFormModel struct {
	Name       string
	Category   string
	Target     string
	Unit       string
	Difficulty int
	Frequency  models.FrequencyType
	Goal       string
}

func newHabitFormModel() *HabitFormModel {
	return &HabitFormModel{Target: "1", Difficulty: 2, Frequency: models.FrequencyDaily}
}

// Habit converts the form values. The form validators already checked the
// numbers, so parse failures leave zero values for the service to reject.
func (fm *HabitFormModel) Habit() models.Habit {
	target, _ := strconv.Atoi(strings.TrimSpace(fm.Target))
	goal, _ := strconv.Atoi(strings.TrimSpace(fm.Goal))
	return models.Habit{
		Name:          fm.Name,
		Category:      fm.Category,
		TargetValue:   target,
		TargetUnit:    fm.Unit,
		Difficulty:    fm.Difficulty,
		FrequencyType: fm.Frequency,
		FrequencyGoal: goal,
	}
}

// NoteFormModel backs the note editor of one checklist entry.
type NoteFormModel struct {
	HabitID string
	Name    string
	Done    bool
	Note    string
}

func positive(field string, optional bool) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" && optional {
			return nil
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%s must be a number", field)
		}
		if i <= 0 {
			return fmt.Errorf("%s must be positive", field)
		}
		return nil
	}
}

// NewHabitForm creates the form for adding habits
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	difficulties := make([]huh.Option[int], 0, 5)
	for d := 1; d <= 5; d++ {
		difficulties = append(difficulties, huh.NewOption(strconv.Itoa(d), d))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Category").
				Placeholder("health, study, mind...").
				Value(&fm.Category),
			huh.NewInput().
				Title("Target").
				Value(&fm.Target).
				Validate(positive("target", false)),
			huh.NewInput().
				Title("Unit").
				Placeholder("minutes").
				Value(&fm.Unit),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Difficulty").
				Options(difficulties...).
				Value(&fm.Difficulty),
			huh.NewSelect[models.FrequencyType]().
				Title("Frequency").
				Options(
					huh.NewOption("Daily", models.FrequencyDaily),
					huh.NewOption("Weekly", models.FrequencyWeekly),
				).
				Value(&fm.Frequency),
			huh.NewInput().
				Title("Times per week").
				Description("For weekly habits").
				Value(&fm.Goal).
				Validate(positive("times per week", true)),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewNoteForm creates the note editor for a checklist entry
func NewNoteForm(fm *NoteFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Note for " + fm.Name).
				CharLimit(200).
				Value(&fm.Note),
		),
	).WithTheme(huh.ThemeDracula())
}
