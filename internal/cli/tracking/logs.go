package tracking

import (
	"context"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/utils"
	"github.com/julianstephens/habitlit/internal/validation"
)

type LogsCmd struct {
	Days int    `short:"d" help:"Number of days ending at --end." default:"7"`
	End  string `help:"Last day (YYYY-MM-DD). Defaults to today."`
}

func (c *LogsCmd) Run(ctx *cli.Context) error {
	if err := validation.ValidateWindow(c.Days); err != nil {
		return err
	}
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	end, err := ctx.ResolveDate(c.End)
	if err != nil {
		return err
	}
	start, err := utils.AddDays(end, -(c.Days - 1))
	if err != nil {
		return err
	}
	records, err := svc.Logs(context.Background(), start, end)
	if err != nil {
		return err
	}
	days, err := utils.DaysBetween(start, end)
	if err != nil {
		return err
	}

	byDate := make(map[string][]models.LogRecord)
	for _, r := range records {
		byDate[r.Date] = append(byDate[r.Date], r)
	}

	t := table.New().Border(lipgloss.NormalBorder()).Headers("Date", "Habit", "Done", "Note")
	logged := 0
	// newest first, matching the store's order within a day
	for i := len(days) - 1; i >= 0; i-- {
		day := days[i]
		rows := byDate[day]
		if len(rows) == 0 {
			t.Row(day, "-", "", "no logs")
			continue
		}
		logged++
		for _, r := range rows {
			done := "✗"
			if r.Done {
				done = "✓"
			}
			t.Row(day, r.HabitName, done, r.Note)
		}
	}

	ctx.Printf("%s to %s: %d records on %d of %d days\n", start, end, len(records), logged, len(days))
	ctx.Println(t.Render())
	return nil
}
