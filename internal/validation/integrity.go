package validation

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitlit/internal/models"
)

// ConflictType represents the type of data integrity problem
type ConflictType string

const (
	ConflictDuplicateHabitName ConflictType = "duplicate_habit_name"
	ConflictInvalidHabit       ConflictType = "invalid_habit"
	ConflictOrphanLog          ConflictType = "orphan_log"
	ConflictInvalidDate        ConflictType = "invalid_date"
)

// Conflict represents a detected problem in stored habits or logs
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	HabitIDs    []string // IDs of habits involved
}

// Result contains all detected conflicts
type Result struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (r *Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (r *Result) FormatReport() string {
	if !r.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range r.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// CheckIntegrity looks for invalid habits, duplicate active names, logs
// pointing at unknown habits and malformed log dates.
func CheckIntegrity(habits []models.Habit, logs []models.DailyLog) Result {
	var result Result

	known := make(map[string]bool, len(habits))
	byName := make(map[string][]string)
	for _, h := range habits {
		known[h.ID] = true
		if err := ValidateHabit(h); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidHabit,
				Description: fmt.Sprintf("habit %q: %v", h.Name, err),
				HabitIDs:    []string{h.ID},
			})
		}
		if h.IsActive {
			key := strings.ToLower(strings.TrimSpace(h.Name))
			byName[key] = append(byName[key], h.ID)
		}
	}

	for name, ids := range byName {
		if len(ids) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateHabitName,
				Description: fmt.Sprintf("%d active habits share the name %q", len(ids), name),
				HabitIDs:    ids,
			})
		}
	}

	for _, l := range logs {
		if !known[l.HabitID] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictOrphanLog,
				Description: fmt.Sprintf("log on %s references unknown habit %s", l.Date, l.HabitID),
				Date:        l.Date,
				HabitIDs:    []string{l.HabitID},
			})
		}
		if err := ValidateDate(l.Date); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("log for habit %s: %v", l.HabitID, err),
				Date:        l.Date,
				HabitIDs:    []string{l.HabitID},
			})
		}
	}

	return result
}
