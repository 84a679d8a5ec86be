// Package digest renders the plain-text context handed to a text generator.
// Every builder is deterministic and bounded by constants.MaxDigestRunes.
package digest

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/motivation"
	"github.com/julianstephens/habitlit/internal/stats"
	"github.com/julianstephens/habitlit/internal/weather"
)

const ellipsis = "\n…"

// CoachInput is everything the daily coach digest is built from.
type CoachInput struct {
	Date    string
	Habits  []models.Habit
	Logs    map[string]models.DailyLog
	Weather *weather.Summary // nil when unavailable
	Routine string
	Recent  []stats.DayStats // oldest to newest
}

func habitLine(h models.Habit) string {
	return fmt.Sprintf("%s (category: %s, target: %s, difficulty: %d/5)", h.Name, h.CategoryLabel(), h.Target(), h.Difficulty)
}

func bulletList(items []string, empty string) string {
	if len(items) == 0 {
		return "- " + empty
	}
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(item)
	}
	return b.String()
}

func weatherBlock(s *weather.Summary) string {
	if s == nil {
		return "No weather data (API key not set or lookup failed)."
	}
	temp := "unknown"
	if s.Temp != nil {
		temp = fmt.Sprintf("%.1f°C", *s.Temp)
	}
	return fmt.Sprintf("City: %s\nConditions: %s\nTemperature: %s / feels like %.1f°C\nHumidity: %d%% / wind: %.1fm/s",
		s.City, s.Description, temp, s.FeelsLike, s.Humidity, s.WindSpeed)
}

// RecentLines renders one "- date: done/total (rate%)" line per day.
func RecentLines(days []stats.DayStats) string {
	lines := make([]string, 0, len(days))
	for _, d := range days {
		lines = append(lines, fmt.Sprintf("- %s: %d/%d (%d%%)", d.Date, d.Done, d.Total, d.Rate))
	}
	return strings.Join(lines, "\n")
}

// BuildCoach renders the daily coaching digest.
func BuildCoach(in CoachInput) string {
	var done, todo, notes []string
	for _, h := range in.Habits {
		l, ok := in.Logs[h.ID]
		if ok && l.Done {
			done = append(done, habitLine(h))
		} else {
			todo = append(todo, habitLine(h))
		}
		if ok {
			if note := strings.TrimSpace(l.Note); note != "" {
				notes = append(notes, fmt.Sprintf("%s: %s", h.Name, note))
			}
		}
	}

	routine := in.Routine
	if routine == "" {
		routine = weather.RoutineRecommendation(in.Weather)
	}
	recent := RecentLines(in.Recent)
	if recent == "" {
		recent = "- (no history yet)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Today's date: %s\n\n", in.Date)
	fmt.Fprintf(&b, "[Habits completed today]\n%s\n\n", bulletList(done, "(none)"))
	fmt.Fprintf(&b, "[Habits not completed yet]\n%s\n\n", bulletList(todo, "(none)"))
	fmt.Fprintf(&b, "[User notes]\n%s\n\n", bulletList(notes, "(no notes)"))
	fmt.Fprintf(&b, "[Weather]\n%s\n\n", weatherBlock(in.Weather))
	fmt.Fprintf(&b, "[Suggested routine for the weather]\n%s\n\n", routine)
	fmt.Fprintf(&b, "[Last %d days]\n%s\n\n", len(in.Recent), recent)
	b.WriteString(`Request:
1) Acknowledge what was achieved today, then suggest a low-pressure "next action" for each unfinished habit.
2) Keep it short (at most 1200 characters).
3) Be concrete and practical: timing, scaled-down difficulty, alternative routines.
4) No guilt-tripping, and no exaggerated praise either.`)

	return truncate(b.String())
}

// BuildInsight renders the 30-day reflection digest.
func BuildInsight(rates []stats.HabitRate, weekdays []stats.WeekdayRate) string {
	var b strings.Builder
	b.WriteString("You are a habit coach and a data-driven mentor. Based on the summary below, suggest what the user should improve next week.\n\n")

	if len(rates) == 0 {
		fmt.Fprintf(&b, "There are almost no logs from the last %d days, so insights will be limited.\n\n", constants.InsightDays)
	} else {
		fmt.Fprintf(&b, "[Average completion rate per habit (last %d days)]\n", constants.InsightDays)
		for _, r := range rates {
			fmt.Fprintf(&b, "- %s: %d%%\n", r.Name, r.Rate)
		}
		b.WriteByte('\n')

		if len(weekdays) > 0 {
			b.WriteString("[Completion rate by weekday]\n")
			for _, w := range weekdays {
				fmt.Fprintf(&b, "- %s: %d%% (%d logs)\n", w.Weekday, w.Rate, w.Logged)
			}
			b.WriteByte('\n')
		}
	}

	b.WriteString(`Request:
- Three improvement points for this week (2-3 sentences each)
- An easy action plan, including something doable in about 10 minutes a day
- At most 1200 characters
- No blame and no guilt-tripping`)

	return truncate(b.String())
}

// BuildQuotePrompt formats the daily quote as `"text" - author`, the form
// stored in the quote digest.
func BuildQuotePrompt(q motivation.Quote) string {
	return truncate(q.String())
}

// SystemInstruction returns the fixed system prompt for kind.
func SystemInstruction(kind models.DigestKind) string {
	switch kind {
	case models.DigestCoach:
		return "You are a warm but level-headed habit coach. " +
			"Never make the user feel guilty; suggest small, concrete next actions. " +
			"Answer in at most 1200 characters."
	case models.DigestInsight:
		return "You are a habit coach who reads data carefully. " +
			"Base every suggestion on the numbers given, keep it encouraging and specific, " +
			"and answer in at most 1200 characters."
	default:
		return ""
	}
}

// Temperature returns the sampling temperature used for kind.
func Temperature(kind models.DigestKind) float64 {
	if kind == models.DigestInsight {
		return constants.InsightTemperature
	}
	return constants.CoachTemperature
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= constants.MaxDigestRunes {
		return s
	}
	keep := constants.MaxDigestRunes - len([]rune(ellipsis))
	return string(r[:keep]) + ellipsis
}
