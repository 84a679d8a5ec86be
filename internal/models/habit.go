package models

import "time"

// FrequencyType describes how often a habit is expected to be done
type FrequencyType string

const (
	FrequencyDaily  FrequencyType = "daily"
	FrequencyWeekly FrequencyType = "weekly"
)

// Habit represents a recurring practice to track.
// Habits are never hard-deleted; IsActive=false keeps historical logs valid.
type Habit struct {
	ID            string        `json:"id" yaml:"-"`
	Name          string        `json:"name" yaml:"name"`
	Category      string        `json:"category" yaml:"category"`
	TargetValue   int           `json:"target_value" yaml:"target_value"`
	TargetUnit    string        `json:"target_unit" yaml:"target_unit"`
	Difficulty    int           `json:"difficulty" yaml:"difficulty"`         // 1-5
	FrequencyType FrequencyType `json:"frequency_type" yaml:"frequency_type"` // daily or weekly
	FrequencyGoal int           `json:"frequency_goal" yaml:"frequency_goal"` // times per week when weekly
	IsActive      bool          `json:"is_active" yaml:"-"`
	CreatedAt     time.Time     `json:"created_at" yaml:"-"`
}

// CategoryLabel returns the category, or a placeholder when none was given
func (h Habit) CategoryLabel() string {
	if h.Category == "" {
		return "other"
	}
	return h.Category
}

// Target formats the numeric target with its unit, e.g. "20 minutes"
func (h Habit) Target() string {
	return formatTarget(h.TargetValue, h.TargetUnit)
}
