package habits

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/models"
)

type HabitCmd struct {
	Add        HabitAddCmd        `cmd:"" help:"Add a new habit."`
	List       HabitListCmd       `cmd:"" help:"List habits."`
	Edit       HabitEditCmd       `cmd:"" help:"Edit a habit."`
	Deactivate HabitDeactivateCmd `cmd:"" help:"Stop tracking a habit. Its logs are kept."`
	Activate   HabitActivateCmd   `cmd:"" help:"Resume tracking a deactivated habit."`
	Seed       HabitSeedCmd       `cmd:"" help:"Create the starter habits when none exist."`
}

type HabitAddCmd struct {
	Name       string `arg:"" help:"Habit name."`
	Category   string `short:"c" help:"Category, e.g. health or study."`
	Target     int    `short:"t" help:"Target amount per session." default:"1"`
	Unit       string `short:"u" help:"Unit of the target, e.g. minutes."`
	Difficulty int    `short:"d" help:"Difficulty from 1 to 5." default:"2"`
	Frequency  string `short:"f" help:"daily or weekly." enum:"daily,weekly" default:"daily"`
	Goal       int    `short:"g" help:"Times per week for weekly habits."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	h, err := svc.CreateHabit(context.Background(), models.Habit{
		Name:          c.Name,
		Category:      c.Category,
		TargetValue:   c.Target,
		TargetUnit:    c.Unit,
		Difficulty:    c.Difficulty,
		FrequencyType: models.FrequencyType(c.Frequency),
		FrequencyGoal: c.Goal,
	})
	if err != nil {
		return err
	}
	ctx.Printf("Added habit: %s (%s)\n", h.Name, h.ID)
	return nil
}

type HabitListCmd struct {
	All     bool `short:"a" help:"Include deactivated habits."`
	ShowIDs bool `help:"Show habit IDs." name:"show-ids"`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	habits, err := svc.Habits(context.Background(), c.All)
	if err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}
	if len(habits) == 0 {
		ctx.Println("No habits found. Add one with 'habitlit habit add' or run 'habitlit habit seed'.")
		return nil
	}

	headers := []string{"Name", "Category", "Target", "Difficulty", "Frequency", "Status"}
	if c.ShowIDs {
		headers = append([]string{"ID"}, headers...)
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
	for _, h := range habits {
		row := []string{h.Name, h.CategoryLabel(), h.Target(), strconv.Itoa(h.Difficulty), frequency(h), status(h)}
		if c.ShowIDs {
			row = append([]string{h.ID}, row...)
		}
		t.Row(row...)
	}
	ctx.Println(t.Render())
	return nil
}

func frequency(h models.Habit) string {
	if h.FrequencyType == models.FrequencyWeekly {
		return fmt.Sprintf("weekly x%d", h.FrequencyGoal)
	}
	return string(h.FrequencyType)
}

func status(h models.Habit) string {
	if h.IsActive {
		return "active"
	}
	return "inactive"
}

type HabitEditCmd struct {
	Habit      string  `arg:"" help:"Habit name or ID."`
	Name       *string `help:"New name."`
	Category   *string `short:"c" help:"New category."`
	Target     *int    `short:"t" help:"New target amount."`
	Unit       *string `short:"u" help:"New target unit."`
	Difficulty *int    `short:"d" help:"New difficulty from 1 to 5."`
	Frequency  *string `short:"f" help:"daily or weekly."`
	Goal       *int    `short:"g" help:"Times per week for weekly habits."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	bg := context.Background()
	h, err := svc.FindHabit(bg, c.Habit)
	if err != nil {
		return err
	}

	updated := false
	if c.Name != nil {
		h.Name = *c.Name
		updated = true
	}
	if c.Category != nil {
		h.Category = *c.Category
		updated = true
	}
	if c.Target != nil {
		h.TargetValue = *c.Target
		updated = true
	}
	if c.Unit != nil {
		h.TargetUnit = *c.Unit
		updated = true
	}
	if c.Difficulty != nil {
		h.Difficulty = *c.Difficulty
		updated = true
	}
	if c.Frequency != nil {
		h.FrequencyType = models.FrequencyType(*c.Frequency)
		updated = true
	}
	if c.Goal != nil {
		h.FrequencyGoal = *c.Goal
		updated = true
	}
	if !updated {
		ctx.Println("No changes specified. Use flags such as --name or --target to edit the habit.")
		return nil
	}

	h, err = svc.EditHabit(bg, h)
	if err != nil {
		return err
	}
	ctx.Printf("Updated habit: %s\n", h.Name)
	return nil
}

type HabitDeactivateCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

func (c *HabitDeactivateCmd) Run(ctx *cli.Context) error {
	return setActive(ctx, c.Habit, false)
}

type HabitActivateCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

func (c *HabitActivateCmd) Run(ctx *cli.Context) error {
	return setActive(ctx, c.Habit, true)
}

func setActive(ctx *cli.Context, ref string, active bool) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	bg := context.Background()
	h, err := svc.FindHabit(bg, ref)
	if err != nil {
		return err
	}
	if err := svc.SetHabitActive(bg, h.ID, active); err != nil {
		return err
	}
	if active {
		ctx.Printf("Activated habit: %s\n", h.Name)
	} else {
		ctx.Printf("Deactivated habit: %s (logs are kept)\n", h.Name)
	}
	return nil
}

type HabitSeedCmd struct{}

func (c *HabitSeedCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	n, err := svc.SeedDefaults(context.Background())
	if err != nil {
		return err
	}
	if n == 0 {
		ctx.Println("Habits already exist, nothing to seed.")
		return nil
	}
	ctx.Printf("Added %d starter habits.\n", n)
	return nil
}
