// Package stats derives completion rates, streaks, scores and rolling
// aggregates from habits and their daily logs.
package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/validation"
)

// TodayStats is the completion summary of one day over a habit set.
type TodayStats struct {
	Total int `json:"total"`
	Done  int `json:"done"`
	Rate  int `json:"rate"` // 0-100
}

// DayStats is TodayStats tagged with its date.
type DayStats struct {
	Date string `json:"date"`
	TodayStats
}

// Percent returns numer/denom as an integer percentage, rounding halves up.
// A non-positive denominator yields 0.
func Percent(numer, denom int) int {
	if denom <= 0 || numer <= 0 {
		return 0
	}
	return (200*numer + denom) / (2 * denom)
}

// ComputeToday counts how many of habits are done according to logs.
// Logs for habits outside the set are ignored; a missing log means not done.
func ComputeToday(habits []models.Habit, logs map[string]models.DailyLog) TodayStats {
	s := TodayStats{Total: len(habits)}
	for _, h := range habits {
		if l, ok := logs[h.ID]; ok && l.Done {
			s.Done++
		}
	}
	s.Rate = Percent(s.Done, s.Total)
	return s
}

// Achieved reports whether a day counts toward a streak. A day without any
// habits is never achieved.
func Achieved(s TodayStats, threshold int) bool {
	return s.Total > 0 && s.Rate >= threshold
}

// CurrentStreak counts consecutive achieved days ending at the newest element.
// seq is ordered oldest to newest.
func CurrentStreak(seq []bool) int {
	n := 0
	for i := len(seq) - 1; i >= 0 && seq[i]; i-- {
		n++
	}
	return n
}

// BestStreak returns the longest run of achieved days anywhere in seq.
func BestStreak(seq []bool) int {
	best, run := 0, 0
	for _, ok := range seq {
		if ok {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}

// NoteBonus rewards written notes on the given habits: 3 points per note,
// capped at 10.
func NoteBonus(habits []models.Habit, logs map[string]models.DailyLog) int {
	notes := 0
	for _, h := range habits {
		if l, ok := logs[h.ID]; ok && strings.TrimSpace(l.Note) != "" {
			notes++
		}
	}
	return min(notes*constants.NoteBonusPerNote, constants.MaxNoteBonus)
}

// CoachScore combines the completion rate with the note bonus and weather
// penalty, clamped to 0-100.
func CoachScore(rate, noteBonus, penalty int) (int, error) {
	if err := validation.ValidateRate(rate); err != nil {
		return 0, err
	}
	if err := validation.ValidateNoteBonus(noteBonus); err != nil {
		return 0, err
	}
	if err := validation.ValidatePenalty(penalty); err != nil {
		return 0, err
	}
	return max(0, min(100, rate+noteBonus-penalty)), nil
}

// DailySeries computes per-day stats for days, in the order given.
func DailySeries(habits []models.Habit, logsByDate map[string]map[string]models.DailyLog, days []string) []DayStats {
	series := make([]DayStats, 0, len(days))
	for _, d := range days {
		series = append(series, DayStats{Date: d, TodayStats: ComputeToday(habits, logsByDate[d])})
	}
	return series
}

// GroupByDate indexes joined records by date and habit id.
func GroupByDate(records []models.LogRecord) map[string]map[string]models.DailyLog {
	byDate := make(map[string]map[string]models.DailyLog)
	for _, r := range records {
		day, ok := byDate[r.Date]
		if !ok {
			day = make(map[string]models.DailyLog)
			byDate[r.Date] = day
		}
		day[r.HabitID] = r.DailyLog
	}
	return byDate
}

// HabitRate is the share of logged days on which a habit was done.
type HabitRate struct {
	HabitID string `json:"habit_id"`
	Name    string `json:"name"`
	Rate    int    `json:"rate"`
	Logged  int    `json:"logged"`
}

// HabitRates averages the done flag per habit over records, sorted by rate
// descending and then by name.
func HabitRates(records []models.LogRecord) []HabitRate {
	type acc struct {
		name       string
		done, seen int
	}
	byHabit := make(map[string]*acc)
	for _, r := range records {
		a, ok := byHabit[r.HabitID]
		if !ok {
			a = &acc{name: r.HabitName}
			byHabit[r.HabitID] = a
		}
		a.seen++
		if r.Done {
			a.done++
		}
	}

	rates := make([]HabitRate, 0, len(byHabit))
	for id, a := range byHabit {
		rates = append(rates, HabitRate{HabitID: id, Name: a.name, Rate: Percent(a.done, a.seen), Logged: a.seen})
	}
	sort.Slice(rates, func(i, j int) bool {
		if rates[i].Rate != rates[j].Rate {
			return rates[i].Rate > rates[j].Rate
		}
		if rates[i].Name != rates[j].Name {
			return rates[i].Name < rates[j].Name
		}
		return rates[i].HabitID < rates[j].HabitID
	})
	return rates
}

// WeekdayRate is the done share of all records falling on one weekday.
type WeekdayRate struct {
	Weekday time.Weekday `json:"weekday"`
	Rate    int          `json:"rate"`
	Logged  int          `json:"logged"`
}

// weekOrder lists weekdays Monday first.
var weekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// WeekdayRates averages the done flag per weekday, Monday through Sunday.
// Weekdays without records are omitted. Records with unparseable dates are skipped.
func WeekdayRates(records []models.LogRecord) []WeekdayRate {
	var done, seen [7]int
	for _, r := range records {
		t, err := time.Parse(constants.DateFormat, r.Date)
		if err != nil {
			continue
		}
		wd := t.Weekday()
		seen[wd]++
		if r.Done {
			done[wd]++
		}
	}

	rates := []WeekdayRate{}
	for _, wd := range weekOrder {
		if seen[wd] == 0 {
			continue
		}
		rates = append(rates, WeekdayRate{Weekday: wd, Rate: Percent(done[wd], seen[wd]), Logged: seen[wd]})
	}
	return rates
}
