package tracking

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/coach"
	"github.com/julianstephens/habitlit/internal/stats"
	"github.com/julianstephens/habitlit/internal/utils"
)

type CheckCmd struct {
	Habit  string  `arg:"" help:"Habit name or ID."`
	Date   string  `help:"Date (YYYY-MM-DD). Defaults to today."`
	Undone bool    `help:"Record the habit as not done."`
	Note   *string `short:"n" help:"Note for the day. Omit to keep the current note, pass \"\" to clear it."`
}

func (c *CheckCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	bg := context.Background()
	h, err := svc.FindHabit(bg, c.Habit)
	if err != nil {
		return err
	}
	note, err := c.note(ctx, date, h.ID)
	if err != nil {
		return err
	}
	view, err := svc.RecordCompletion(bg, date, h.ID, !c.Undone, note)
	if err != nil {
		return err
	}

	mark := "✓"
	if c.Undone {
		mark = "✗"
	}
	ctx.Printf("%s %s on %s\n", mark, h.Name, date)
	ctx.Printf("Today: %d/%d done (%d%%), coach score %d\n",
		view.Stats.Done, view.Stats.Total, view.Stats.Rate, view.Score.Value)
	return nil
}

// note is the --note value, or the note already stored for the day.
func (c *CheckCmd) note(ctx *cli.Context, date, habitID string) (string, error) {
	if c.Note != nil {
		return *c.Note, nil
	}
	logs, err := ctx.Store.GetLogsForDate(date)
	if err != nil {
		return "", fmt.Errorf("failed to load logs for %s: %w", date, err)
	}
	return logs[habitID].Note, nil
}

type TodayCmd struct {
	Date string `help:"Date (YYYY-MM-DD). Defaults to today."`
}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	view, err := svc.Today(context.Background(), date)
	if err != nil {
		return err
	}
	printToday(ctx, view)
	return nil
}

func printToday(ctx *cli.Context, view coach.TodayView) {
	ctx.Printf("%s\n\n", view.Date)
	if len(view.Items) == 0 {
		ctx.Println("No active habits. Add one with 'habitlit habit add'.")
		return
	}
	for _, item := range view.Items {
		box := "[ ]"
		if item.Log.Done {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s (%s)", box, item.Habit.Name, item.Habit.Target())
		if item.Log.Note != "" {
			line += " - " + item.Log.Note
		}
		ctx.Println(line)
	}
	ctx.Println()
	ctx.Printf("Completion: %d/%d (%d%%)\n", view.Stats.Done, view.Stats.Total, view.Stats.Rate)
	ctx.Printf("Streak:     %d days (best %d in the last %d)\n", view.Streaks.Current, view.Streaks.Best, view.Streaks.Window)
	ctx.Printf("Score:      %d (rate %d + notes %d - weather %d)\n",
		view.Score.Value, view.Score.Rate, view.Score.NoteBonus, view.Score.Penalty)
	if view.Weather != nil {
		ctx.Printf("Weather:    %s, %s\n", view.Weather.City, view.Weather.Description)
	}
	ctx.Printf("Routine:    %s\n", view.Routine)
	if view.RewardEligible {
		ctx.Println("Reward unlocked! Run 'habitlit reward' to claim it.")
	}
	if view.Coach != "" {
		ctx.Printf("\nCoach:\n%s\n", view.Coach)
	}
}

type StreakCmd struct {
	Threshold *int `help:"Completion rate (%) a day needs to count. Defaults to the stored setting."`
	Window    *int `help:"Number of days to scan. Defaults to the stored setting."`
	History   bool `help:"Print the daily rates of the window."`
}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	settings := svc.Config().Settings
	threshold, window := settings.StreakThreshold, settings.StreakWindow
	if c.Threshold != nil {
		threshold = *c.Threshold
	}
	if c.Window != nil {
		window = *c.Window
	}

	s, err := svc.GetStreaks(context.Background(), threshold, window)
	if err != nil {
		return err
	}
	ctx.Printf("Current streak: %d days\n", s.Current)
	ctx.Printf("Best streak:    %d days\n", s.Best)
	ctx.Printf("(days at or above %d%% over the last %d days)\n", threshold, s.Window)

	if c.History {
		ctx.Println()
		for _, d := range s.Days {
			mark := " "
			if stats.Achieved(d.TodayStats, threshold) {
				mark = "●"
			}
			ctx.Printf("%s %s %3d%% (%d/%d)\n", mark, d.Date, d.Rate, d.Done, d.Total)
		}
	}
	return nil
}

type SummaryCmd struct {
	Days  int    `help:"Number of days ending today." default:"7"`
	Start string `help:"Start date (YYYY-MM-DD). Overrides --days together with --end."`
	End   string `help:"End date (YYYY-MM-DD). Defaults to today."`
}

func (c *SummaryCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	end, err := ctx.ResolveDate(c.End)
	if err != nil {
		return err
	}
	start := c.Start
	if start == "" {
		if c.Days < 1 {
			return fmt.Errorf("--days must be at least 1")
		}
		if start, err = utils.AddDays(end, -(c.Days - 1)); err != nil {
			return err
		}
	}

	summary, err := svc.GetRangeSummary(context.Background(), start, end)
	if err != nil {
		return err
	}
	printSummary(ctx, summary)
	return nil
}

func printSummary(ctx *cli.Context, s stats.RangeSummary) {
	ctx.Printf("%s to %s (%d records)\n", s.Start, s.End, s.Records)
	if s.Records == 0 {
		ctx.Println("No logs in this range.")
		return
	}

	habits := table.New().Border(lipgloss.NormalBorder()).Headers("Habit", "Rate", "Logged")
	for _, h := range s.Habits {
		habits.Row(h.Name, percent(h.Rate), strconv.Itoa(h.Logged))
	}
	ctx.Println(habits.Render())

	days := table.New().Border(lipgloss.NormalBorder()).Headers("Weekday", "Rate", "Logged")
	for _, w := range s.Weekdays {
		days.Row(w.Weekday.String()[:3], percent(w.Rate), strconv.Itoa(w.Logged))
	}
	ctx.Println(days.Render())
}

func percent(rate int) string {
	return strconv.Itoa(rate) + "%"
}

type InsightsCmd struct {
	Date string `help:"Last day of the windows (YYYY-MM-DD). Defaults to today."`
}

func (c *InsightsCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	in, err := svc.GetInsights(context.Background(), date)
	if err != nil {
		return err
	}

	ctx.Println("Last 7 days by habit")
	if len(in.Week.Habits) == 0 {
		ctx.Println("  no logs yet")
	}
	for _, h := range in.Week.Habits {
		ctx.Printf("  %-20s %s %3d%%\n", h.Name, bar(h.Rate), h.Rate)
	}

	ctx.Println()
	ctx.Println("Last 30 days by weekday")
	for _, w := range in.Month.Weekdays {
		ctx.Printf("  %s %s %3d%%\n", w.Weekday.String()[:3], bar(w.Rate), w.Rate)
	}
	return nil
}

// bar draws rate as ten cells.
func bar(rate int) string {
	filled := (rate + 5) / 10
	if filled > 10 {
		filled = 10
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}

type ScoreCmd struct {
	Date string `help:"Date (YYYY-MM-DD). Defaults to today."`
}

func (c *ScoreCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	sc, err := svc.GetCoachScore(context.Background(), date)
	if err != nil {
		return err
	}
	ctx.Printf("Coach score for %s: %d\n", date, sc.Value)
	ctx.Printf("  completion rate  %3d\n", sc.Rate)
	ctx.Printf("  note bonus      +%3d\n", sc.NoteBonus)
	ctx.Printf("  weather penalty -%3d\n", sc.Penalty)
	return nil
}
