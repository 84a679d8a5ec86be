package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
)

// ErrInvalidInput is matched by every error this package returns
var ErrInvalidInput = errors.New("invalid input")

// Error describes a single rejected input value
type Error struct {
	Field  string
	Value  any
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *Error) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field string, value any, reason string) error {
	return &Error{Field: field, Value: value, Reason: reason}
}

// ParseDate parses a YYYY-MM-DD day string
func ParseDate(day string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return time.Time{}, invalid("date", fmt.Sprintf("%q", day), "expected YYYY-MM-DD")
	}
	return t, nil
}

// ValidateDate checks that day is a YYYY-MM-DD string
func ValidateDate(day string) error {
	_, err := ParseDate(day)
	return err
}

// ValidateDateRange checks both bounds and that start is not after end
func ValidateDateRange(start, end string) error {
	s, err := ParseDate(start)
	if err != nil {
		return err
	}
	e, err := ParseDate(end)
	if err != nil {
		return err
	}
	if s.After(e) {
		return invalid("date range", start+".."+end, "start is after end")
	}
	return nil
}

// ValidateRate checks that a completion rate is a percentage
func ValidateRate(rate int) error {
	if rate < 0 || rate > 100 {
		return invalid("rate", rate, "must be within [0, 100]")
	}
	return nil
}

// ValidateThreshold checks an achievement threshold percentage
func ValidateThreshold(threshold int) error {
	if threshold < 0 || threshold > 100 {
		return invalid("threshold", threshold, "must be within [0, 100]")
	}
	return nil
}

// ValidateWindow checks a streak lookback window in days
func ValidateWindow(days int) error {
	if days < 1 || days > constants.MaxStreakWindow {
		return invalid("window", days, fmt.Sprintf("must be within [1, %d]", constants.MaxStreakWindow))
	}
	return nil
}

// ValidateNoteBonus checks the note-writing bonus fed into the coach score
func ValidateNoteBonus(bonus int) error {
	if bonus < 0 || bonus > constants.MaxNoteBonus {
		return invalid("note bonus", bonus, fmt.Sprintf("must be within [0, %d]", constants.MaxNoteBonus))
	}
	return nil
}

// ValidatePenalty checks the weather penalty fed into the coach score
func ValidatePenalty(penalty int) error {
	if penalty < 0 || penalty > constants.MaxWeatherPenalty {
		return invalid("penalty", penalty, fmt.Sprintf("must be within [0, %d]", constants.MaxWeatherPenalty))
	}
	return nil
}

// ValidateDigestKind checks that kind is coach, insight or quote
func ValidateDigestKind(kind models.DigestKind) error {
	if !kind.Valid() {
		return invalid("digest kind", fmt.Sprintf("%q", kind), "must be coach, insight or quote")
	}
	return nil
}

// ValidateHabit checks the user-editable fields of a habit
func ValidateHabit(h models.Habit) error {
	if strings.TrimSpace(h.Name) == "" {
		return invalid("name", `""`, "habit name is required")
	}
	if h.TargetValue < 1 || h.TargetValue > 10000 {
		return invalid("target value", h.TargetValue, "must be within [1, 10000]")
	}
	if h.Difficulty < 1 || h.Difficulty > 5 {
		return invalid("difficulty", h.Difficulty, "must be within [1, 5]")
	}
	switch h.FrequencyType {
	case models.FrequencyDaily, models.FrequencyWeekly:
	default:
		return invalid("frequency type", fmt.Sprintf("%q", h.FrequencyType), "must be daily or weekly")
	}
	if h.FrequencyGoal < 0 || h.FrequencyGoal > 21 {
		return invalid("frequency goal", h.FrequencyGoal, "must be within [0, 21]")
	}
	return nil
}
