package stats

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/validation"
)

func habit(id, name string) models.Habit {
	return models.Habit{ID: id, Name: name, IsActive: true, FrequencyType: models.FrequencyDaily}
}

func doneLog(date, id string, done bool, note string) models.DailyLog {
	return models.DailyLog{Date: date, HabitID: id, Done: done, Note: note}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		numer, denom, want int
	}{
		{0, 0, 0},
		{3, 0, 0},
		{1, -1, 0},
		{0, 4, 0},
		{1, 2, 50},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 rounds up
		{5, 8, 63}, // 62.5 rounds up
		{4, 4, 100},
	}
	for _, tt := range tests {
		if got := Percent(tt.numer, tt.denom); got != tt.want {
			t.Errorf("Percent(%d, %d) = %d, want %d", tt.numer, tt.denom, got, tt.want)
		}
	}
}

func TestComputeToday(t *testing.T) {
	a, b := habit("a", "water"), habit("b", "stretching")

	tests := []struct {
		name   string
		habits []models.Habit
		logs   map[string]models.DailyLog
		want   TodayStats
	}{
		{
			name:   "one of two done",
			habits: []models.Habit{a, b},
			logs: map[string]models.DailyLog{
				"a": doneLog("2025-03-01", "a", true, ""),
				"b": doneLog("2025-03-01", "b", false, ""),
			},
			want: TodayStats{Total: 2, Done: 1, Rate: 50},
		},
		{
			name:   "missing log counts as not done",
			habits: []models.Habit{a, b},
			logs:   map[string]models.DailyLog{"a": doneLog("2025-03-01", "a", true, "")},
			want:   TodayStats{Total: 2, Done: 1, Rate: 50},
		},
		{
			name:   "logs outside the habit set are ignored",
			habits: []models.Habit{a},
			logs: map[string]models.DailyLog{
				"a":     doneLog("2025-03-01", "a", false, ""),
				"ghost": doneLog("2025-03-01", "ghost", true, ""),
			},
			want: TodayStats{Total: 1, Done: 0, Rate: 0},
		},
		{
			name:   "no habits",
			habits: nil,
			logs:   map[string]models.DailyLog{"a": doneLog("2025-03-01", "a", true, "")},
			want:   TodayStats{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeToday(tt.habits, tt.logs)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ComputeToday() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAchievedEmptyDayNeverCounts(t *testing.T) {
	for _, threshold := range []int{0, 1, 50, 100} {
		if Achieved(TodayStats{}, threshold) {
			t.Errorf("Achieved(empty, %d) = true, want false", threshold)
		}
	}
	if !Achieved(TodayStats{Total: 3, Done: 2, Rate: 67}, 67) {
		t.Error("Achieved() at exactly the threshold = false, want true")
	}
	if Achieved(TodayStats{Total: 3, Done: 2, Rate: 67}, 70) {
		t.Error("Achieved() below threshold = true, want false")
	}
}

func TestStreaks(t *testing.T) {
	tests := []struct {
		name          string
		seq           []bool
		current, best int
	}{
		{"empty", nil, 0, 0},
		{"all misses", []bool{false, false}, 0, 0},
		{"ends with a run", []bool{true, true, false, true, true}, 2, 2},
		{"best run earlier", []bool{true, true, true, false, true}, 1, 3},
		{"ends with a miss", []bool{true, true, false}, 0, 2},
		{"all hits", []bool{true, true, true, true}, 4, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentStreak(tt.seq); got != tt.current {
				t.Errorf("CurrentStreak() = %d, want %d", got, tt.current)
			}
			if got := BestStreak(tt.seq); got != tt.best {
				t.Errorf("BestStreak() = %d, want %d", got, tt.best)
			}
		})
	}
}

func TestStreakProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		seq := make([]bool, rng.Intn(120))
		for j := range seq {
			seq[j] = rng.Intn(3) > 0
		}
		current, best := CurrentStreak(seq), BestStreak(seq)
		if current > len(seq) {
			t.Fatalf("seq %v: current %d exceeds window %d", seq, current, len(seq))
		}
		if best < current {
			t.Fatalf("seq %v: best %d below current %d", seq, best, current)
		}
		if best > len(seq) {
			t.Fatalf("seq %v: best %d exceeds window %d", seq, best, len(seq))
		}
	}
}

func TestNoteBonus(t *testing.T) {
	habits := []models.Habit{habit("a", "a"), habit("b", "b"), habit("c", "c"), habit("d", "d")}

	tests := []struct {
		name string
		logs map[string]models.DailyLog
		want int
	}{
		{"no notes", map[string]models.DailyLog{"a": doneLog("d", "a", true, "")}, 0},
		{"blank note ignored", map[string]models.DailyLog{"a": doneLog("d", "a", true, "  \n")}, 0},
		{"one note", map[string]models.DailyLog{"a": doneLog("d", "a", false, "tired")}, 3},
		{"three notes", map[string]models.DailyLog{
			"a": doneLog("d", "a", true, "x"),
			"b": doneLog("d", "b", true, "y"),
			"c": doneLog("d", "c", true, "z"),
		}, 9},
		{"capped at ten", map[string]models.DailyLog{
			"a": doneLog("d", "a", true, "x"),
			"b": doneLog("d", "b", true, "y"),
			"c": doneLog("d", "c", true, "z"),
			"d": doneLog("d", "d", true, "w"),
		}, 10},
		{"note on unknown habit ignored", map[string]models.DailyLog{"ghost": doneLog("d", "ghost", true, "x")}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NoteBonus(habits, tt.logs); got != tt.want {
				t.Errorf("NoteBonus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCoachScore(t *testing.T) {
	tests := []struct {
		rate, bonus, penalty, want int
	}{
		{50, 3, 10, 43},
		{100, 10, 0, 100},
		{0, 0, 15, 0},
		{95, 10, 2, 100},
		{5, 0, 12, 0},
	}
	for _, tt := range tests {
		got, err := CoachScore(tt.rate, tt.bonus, tt.penalty)
		if err != nil {
			t.Fatalf("CoachScore(%d, %d, %d) error: %v", tt.rate, tt.bonus, tt.penalty, err)
		}
		if got != tt.want {
			t.Errorf("CoachScore(%d, %d, %d) = %d, want %d", tt.rate, tt.bonus, tt.penalty, got, tt.want)
		}
	}

	invalid := [][3]int{{-1, 0, 0}, {101, 0, 0}, {50, 11, 0}, {50, -1, 0}, {50, 0, 16}, {50, 0, -3}}
	for _, in := range invalid {
		if _, err := CoachScore(in[0], in[1], in[2]); !errors.Is(err, validation.ErrInvalidInput) {
			t.Errorf("CoachScore(%v) error = %v, want %v", in, err, validation.ErrInvalidInput)
		}
	}
}

func TestCoachScoreAlwaysInRange(t *testing.T) {
	for rate := 0; rate <= 100; rate += 5 {
		for bonus := 0; bonus <= 10; bonus++ {
			for penalty := 0; penalty <= 15; penalty++ {
				got, err := CoachScore(rate, bonus, penalty)
				if err != nil {
					t.Fatalf("CoachScore(%d, %d, %d) error: %v", rate, bonus, penalty, err)
				}
				if got < 0 || got > 100 {
					t.Fatalf("CoachScore(%d, %d, %d) = %d, out of range", rate, bonus, penalty, got)
				}
			}
		}
	}
}

func record(date, id, name string, done bool) models.LogRecord {
	return models.LogRecord{DailyLog: doneLog(date, id, done, ""), HabitName: name}
}

func TestHabitRates(t *testing.T) {
	records := []models.LogRecord{
		record("2025-03-03", "a", "water", true),
		record("2025-03-02", "a", "water", true),
		record("2025-03-01", "a", "water", false),
		record("2025-03-03", "b", "stretching", true),
		record("2025-03-02", "b", "stretching", true),
		record("2025-03-01", "b", "stretching", false),
		record("2025-03-02", "c", "meditation", true),
	}

	want := []HabitRate{
		{HabitID: "c", Name: "meditation", Rate: 100, Logged: 1},
		{HabitID: "b", Name: "stretching", Rate: 67, Logged: 3},
		{HabitID: "a", Name: "water", Rate: 67, Logged: 3},
	}
	if diff := cmp.Diff(want, HabitRates(records)); diff != "" {
		t.Errorf("HabitRates() mismatch (-want +got):\n%s", diff)
	}

	if got := HabitRates(nil); len(got) != 0 {
		t.Errorf("HabitRates(nil) = %v, want empty", got)
	}
}

func TestWeekdayRates(t *testing.T) {
	// 2025-03-03 is a Monday, 2025-03-09 a Sunday
	records := []models.LogRecord{
		record("2025-03-09", "a", "water", true),
		record("2025-03-09", "b", "stretching", false),
		record("2025-03-03", "a", "water", true),
		record("2025-03-10", "a", "water", false),
		record("2025-03-05", "a", "water", true),
		record("bogus", "a", "water", true),
	}

	want := []WeekdayRate{
		{Weekday: time.Monday, Rate: 50, Logged: 2},
		{Weekday: time.Wednesday, Rate: 100, Logged: 1},
		{Weekday: time.Sunday, Rate: 50, Logged: 2},
	}
	if diff := cmp.Diff(want, WeekdayRates(records)); diff != "" {
		t.Errorf("WeekdayRates() mismatch (-want +got):\n%s", diff)
	}
}

func TestDailySeries(t *testing.T) {
	habits := []models.Habit{habit("a", "water"), habit("b", "stretching")}
	records := []models.LogRecord{
		record("2025-03-02", "a", "water", true),
		record("2025-03-02", "b", "stretching", true),
		record("2025-03-01", "a", "water", true),
	}
	days := []string{"2025-02-28", "2025-03-01", "2025-03-02"}

	want := []DayStats{
		{Date: "2025-02-28", TodayStats: TodayStats{Total: 2}},
		{Date: "2025-03-01", TodayStats: TodayStats{Total: 2, Done: 1, Rate: 50}},
		{Date: "2025-03-02", TodayStats: TodayStats{Total: 2, Done: 2, Rate: 100}},
	}
	if diff := cmp.Diff(want, DailySeries(habits, GroupByDate(records), days)); diff != "" {
		t.Errorf("DailySeries() mismatch (-want +got):\n%s", diff)
	}
}
