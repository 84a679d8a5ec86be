package stats

import (
	"context"
	"fmt"

	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/utils"
	"github.com/julianstephens/habitlit/internal/validation"
)

// Source is the slice of the log store the engine reads from.
type Source interface {
	GetActiveHabits() ([]models.Habit, error)
	GetLogsForDate(date string) (map[string]models.DailyLog, error)
	GetLogsInRange(start, end string) ([]models.LogRecord, error)
}

// Engine computes stats from a Source. Every call reads fresh data; nothing
// is cached between calls.
type Engine struct {
	src Source
}

func NewEngine(src Source) *Engine {
	return &Engine{src: src}
}

// Streaks is the streak summary over a window of days ending today.
type Streaks struct {
	Current int        `json:"current"`
	Best    int        `json:"best"`
	Window  int        `json:"window"`
	Days    []DayStats `json:"days"` // oldest to newest
}

// Today computes the stats of date over the currently active habits.
func (e *Engine) Today(ctx context.Context, date string) (TodayStats, error) {
	if err := ctx.Err(); err != nil {
		return TodayStats{}, err
	}
	if err := validation.ValidateDate(date); err != nil {
		return TodayStats{}, err
	}
	habits, err := e.src.GetActiveHabits()
	if err != nil {
		return TodayStats{}, fmt.Errorf("failed to load habits: %w", err)
	}
	logs, err := e.src.GetLogsForDate(date)
	if err != nil {
		return TodayStats{}, fmt.Errorf("failed to load logs for %s: %w", date, err)
	}
	return ComputeToday(habits, logs), nil
}

// Series computes per-day stats for the n days ending at end over the
// currently active habits, using a single range read.
func (e *Engine) Series(ctx context.Context, end string, n int) ([]DayStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validation.ValidateDate(end); err != nil {
		return nil, err
	}
	if err := validation.ValidateWindow(n); err != nil {
		return nil, err
	}
	days, err := utils.LastNDays(end, n)
	if err != nil {
		return nil, err
	}
	habits, err := e.src.GetActiveHabits()
	if err != nil {
		return nil, fmt.Errorf("failed to load habits: %w", err)
	}
	records, err := e.src.GetLogsInRange(days[0], days[len(days)-1])
	if err != nil {
		return nil, fmt.Errorf("failed to load logs: %w", err)
	}
	return DailySeries(habits, GroupByDate(records), days), nil
}

// Streaks scans the windowDays days ending today. A day counts when it is
// Achieved at threshold.
func (e *Engine) Streaks(ctx context.Context, today string, threshold, windowDays int) (Streaks, error) {
	if err := validation.ValidateThreshold(threshold); err != nil {
		return Streaks{}, err
	}
	if err := validation.ValidateWindow(windowDays); err != nil {
		return Streaks{}, err
	}
	series, err := e.Series(ctx, today, windowDays)
	if err != nil {
		return Streaks{}, err
	}

	seq := make([]bool, len(series))
	for i, d := range series {
		seq[i] = Achieved(d.TodayStats, threshold)
	}
	return Streaks{
		Current: CurrentStreak(seq),
		Best:    BestStreak(seq),
		Window:  windowDays,
		Days:    series,
	}, nil
}

// RangeSummary aggregates logged records between start and end inclusive.
type RangeSummary struct {
	Start    string        `json:"start"`
	End      string        `json:"end"`
	Records  int           `json:"records"`
	Habits   []HabitRate   `json:"habits"`
	Weekdays []WeekdayRate `json:"weekdays"`
}

func (e *Engine) RangeSummary(ctx context.Context, start, end string) (RangeSummary, error) {
	if err := ctx.Err(); err != nil {
		return RangeSummary{}, err
	}
	records, err := e.src.GetLogsInRange(start, end)
	if err != nil {
		return RangeSummary{}, err
	}
	return Summarize(start, end, records), nil
}

// Summarize builds a RangeSummary from already loaded records.
func Summarize(start, end string, records []models.LogRecord) RangeSummary {
	return RangeSummary{
		Start:    start,
		End:      end,
		Records:  len(records),
		Habits:   HabitRates(records),
		Weekdays: WeekdayRates(records),
	}
}
