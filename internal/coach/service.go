package coach

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/llm"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/motivation"
	"github.com/julianstephens/habitlit/internal/stats"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/utils"
	"github.com/julianstephens/habitlit/internal/validation"
	"github.com/julianstephens/habitlit/internal/weather"
)

// WeatherSource looks up current conditions for a city.
type WeatherSource interface {
	Lookup(ctx context.Context, city string) (*weather.Summary, error)
}

// ImageSource returns a reward image URL.
type ImageSource interface {
	RandomImage(ctx context.Context) (string, error)
}

// QuoteSource returns the quote of the day.
type QuoteSource interface {
	Today(ctx context.Context) (motivation.Quote, error)
}

// Deps are the collaborators of a Service. Only Store is required; a nil
// collaborator behaves as permanently unavailable.
type Deps struct {
	Store     storage.Provider
	Generator llm.Generator
	Weather   WeatherSource
	Images    ImageSource
	Quotes    QuoteSource
}

type Service struct {
	cfg     Config
	store   storage.Provider
	engine  *stats.Engine
	gen     llm.Generator
	weather WeatherSource
	images  ImageSource
	quotes  QuoteSource

	// dates the auto coach already tried, so a failing provider is not
	// called again on every key press
	autoTried map[string]bool
}

func New(cfg Config, deps Deps) (*Service, error) {
	if deps.Store == nil {
		return nil, errors.New("coach service requires a store")
	}
	models.ApplyDefaultSettings(&cfg.Settings)
	return &Service{
		cfg:       cfg,
		store:     deps.Store,
		engine:    stats.NewEngine(deps.Store),
		gen:       deps.Generator,
		weather:   deps.Weather,
		images:    deps.Images,
		quotes:    deps.Quotes,
		autoTried: make(map[string]bool),
	}, nil
}

// Config returns the configuration the service was built with.
func (s *Service) Config() Config {
	return s.cfg
}

// CurrentDate is today's date in the configured timezone.
func (s *Service) CurrentDate() (string, error) {
	return s.cfg.Today()
}

// Score is the coach score and the parts it was computed from.
type Score struct {
	Value     int `json:"value"`
	Rate      int `json:"rate"`
	NoteBonus int `json:"note_bonus"`
	Penalty   int `json:"penalty"`
}

// HabitItem is one row of the daily checklist.
type HabitItem struct {
	Habit  models.Habit    `json:"habit"`
	Log    models.DailyLog `json:"log"`
	Logged bool            `json:"logged"`
}

// TodayView is everything the dashboard renders for a date.
type TodayView struct {
	Date           string           `json:"date"`
	Items          []HabitItem      `json:"items"`
	Stats          stats.TodayStats `json:"stats"`
	Streaks        stats.Streaks    `json:"streaks"`
	Score          Score            `json:"score"`
	Weather        *weather.Summary `json:"weather,omitempty"`
	Routine        string           `json:"routine"`
	RewardEligible bool             `json:"reward_eligible"`
	Coach          string           `json:"coach,omitempty"`
}

// RecordCompletion writes the log for (date, habitID) and returns the
// refreshed dashboard for that date.
func (s *Service) RecordCompletion(ctx context.Context, date, habitID string, done bool, note string) (TodayView, error) {
	if err := ctx.Err(); err != nil {
		return TodayView{}, err
	}
	if _, err := s.store.UpsertLog(date, habitID, done, note); err != nil {
		return TodayView{}, err
	}
	logger.Debug("Log recorded", "date", date, "habit", habitID, "done", done)
	return s.Today(ctx, date)
}

func (s *Service) GetTodayStats(ctx context.Context, date string) (stats.TodayStats, error) {
	return s.engine.Today(ctx, date)
}

// GetStreaks scans windowDays days ending today (in the configured timezone).
func (s *Service) GetStreaks(ctx context.Context, threshold, windowDays int) (stats.Streaks, error) {
	today, err := s.cfg.Today()
	if err != nil {
		return stats.Streaks{}, err
	}
	return s.engine.Streaks(ctx, today, threshold, windowDays)
}

func (s *Service) GetRangeSummary(ctx context.Context, start, end string) (stats.RangeSummary, error) {
	if err := validation.ValidateDateRange(start, end); err != nil {
		return stats.RangeSummary{}, err
	}
	return s.engine.RangeSummary(ctx, start, end)
}

// Logs returns the joined log records of a date range, newest first.
func (s *Service) Logs(ctx context.Context, start, end string) ([]models.LogRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validation.ValidateDateRange(start, end); err != nil {
		return nil, err
	}
	return s.store.GetLogsInRange(start, end)
}

// Insights holds the rolling aggregates shown on the insights screen.
type Insights struct {
	Week  stats.RangeSummary `json:"week"`
	Month stats.RangeSummary `json:"month"`
}

// GetInsights summarizes the last 7 and 30 days ending at date.
func (s *Service) GetInsights(ctx context.Context, date string) (Insights, error) {
	week, err := s.lastDays(ctx, date, constants.RecentSummaryDays)
	if err != nil {
		return Insights{}, err
	}
	month, err := s.lastDays(ctx, date, constants.InsightDays)
	if err != nil {
		return Insights{}, err
	}
	return Insights{Week: week, Month: month}, nil
}

func (s *Service) lastDays(ctx context.Context, end string, n int) (stats.RangeSummary, error) {
	if err := validation.ValidateDate(end); err != nil {
		return stats.RangeSummary{}, err
	}
	start, err := utils.AddDays(end, -(n - 1))
	if err != nil {
		return stats.RangeSummary{}, err
	}
	return s.engine.RangeSummary(ctx, start, end)
}

// lookupWeather returns nil when no source is configured or the lookup fails.
func (s *Service) lookupWeather(ctx context.Context) *weather.Summary {
	if s.weather == nil {
		return nil
	}
	summary, err := s.weather.Lookup(ctx, s.cfg.Settings.City)
	if err != nil {
		return nil
	}
	return summary
}

func score(habits []models.Habit, logs map[string]models.DailyLog, w *weather.Summary) (Score, error) {
	today := stats.ComputeToday(habits, logs)
	bonus := stats.NoteBonus(habits, logs)
	penalty := weather.Penalty(w)
	value, err := stats.CoachScore(today.Rate, bonus, penalty)
	if err != nil {
		return Score{}, err
	}
	return Score{Value: value, Rate: today.Rate, NoteBonus: bonus, Penalty: penalty}, nil
}

// GetCoachScore computes the coach score for date with the current weather.
func (s *Service) GetCoachScore(ctx context.Context, date string) (Score, error) {
	habits, logs, err := s.day(ctx, date)
	if err != nil {
		return Score{}, err
	}
	return score(habits, logs, s.lookupWeather(ctx))
}

func (s *Service) day(ctx context.Context, date string) ([]models.Habit, map[string]models.DailyLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if err := validation.ValidateDate(date); err != nil {
		return nil, nil, err
	}
	habits, err := s.store.GetActiveHabits()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load habits: %w", err)
	}
	logs, err := s.store.GetLogsForDate(date)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load logs for %s: %w", date, err)
	}
	return habits, logs, nil
}

// Today assembles the dashboard for date. Weather and the coach digest
// are optional; their absence never fails the view.
func (s *Service) Today(ctx context.Context, date string) (TodayView, error) {
	habits, logs, err := s.day(ctx, date)
	if err != nil {
		return TodayView{}, err
	}

	items := make([]HabitItem, 0, len(habits))
	for _, h := range habits {
		l, ok := logs[h.ID]
		items = append(items, HabitItem{Habit: h, Log: l, Logged: ok})
	}

	settings := s.cfg.Settings
	streaks, err := s.engine.Streaks(ctx, date, settings.StreakThreshold, settings.StreakWindow)
	if err != nil {
		return TodayView{}, err
	}

	w := s.lookupWeather(ctx)
	sc, err := score(habits, logs, w)
	if err != nil {
		return TodayView{}, err
	}
	todayStats := stats.ComputeToday(habits, logs)

	view := TodayView{
		Date:           date,
		Items:          items,
		Stats:          todayStats,
		Streaks:        streaks,
		Score:          sc,
		Weather:        w,
		Routine:        weather.RoutineRecommendation(w),
		RewardEligible: stats.Achieved(todayStats, settings.RewardThreshold),
	}

	cached, err := s.store.GetDigest(date, models.DigestCoach)
	switch {
	case err == nil:
		view.Coach = cached.Content
	case errors.Is(err, storage.ErrNotFound):
		view.Coach = s.autoCoach(ctx, date, todayStats)
	default:
		return TodayView{}, err
	}
	return view, nil
}

// autoCoach generates the coach digest for the current day only. Past days
// would be coached with today's weather.
func (s *Service) autoCoach(ctx context.Context, date string, day stats.TodayStats) string {
	if !s.cfg.Settings.AutoCoach || s.gen == nil || day.Total == 0 || s.autoTried[date] {
		return ""
	}
	if current, err := s.cfg.Today(); err != nil || date != current {
		return ""
	}
	s.autoTried[date] = true
	text, err := s.GenerateDigest(ctx, date, models.DigestCoach)
	if err != nil {
		logger.Warn("Automatic coach digest failed", "date", date, "error", err)
		return ""
	}
	return text
}

// Reward is the outcome of a reward request.
type Reward struct {
	Eligible  bool   `json:"eligible"`
	Rate      int    `json:"rate"`
	Threshold int    `json:"threshold"`
	ImageURL  string `json:"image_url,omitempty"`
}

// Reward returns a reward image when date reached the reward threshold.
// An ineligible day is not an error.
func (s *Service) Reward(ctx context.Context, date string) (Reward, error) {
	today, err := s.engine.Today(ctx, date)
	if err != nil {
		return Reward{}, err
	}
	r := Reward{Rate: today.Rate, Threshold: s.cfg.Settings.RewardThreshold}
	r.Eligible = stats.Achieved(today, r.Threshold)
	if !r.Eligible {
		return r, nil
	}
	if s.images == nil {
		return r, motivation.ErrUnavailable
	}
	url, err := s.images.RandomImage(ctx)
	if err != nil {
		return r, err
	}
	r.ImageURL = url
	return r, nil
}
