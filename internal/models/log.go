package models

import (
	"strconv"
	"time"
)

// DailyLog is the completion record of one habit on one day.
// (Date, HabitID) is unique; writing an existing key overwrites it.
type DailyLog struct {
	Date      string    `json:"date"` // YYYY-MM-DD format
	HabitID   string    `json:"habit_id"`
	Done      bool      `json:"done"`
	Note      string    `json:"note"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LogRecord is a DailyLog joined with the metadata of its habit
type LogRecord struct {
	DailyLog
	HabitName string `json:"name"`
	Category  string `json:"category"`
}

func formatTarget(value int, unit string) string {
	if unit == "" {
		return strconv.Itoa(value)
	}
	return strconv.Itoa(value) + " " + unit
}
