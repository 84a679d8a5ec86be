package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/storage"
)

const habitColumns = `id, name, category, target_value, target_unit, difficulty,
	frequency_type, frequency_goal, is_active, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var freq, createdAt string
	var active int

	err := row.Scan(&h.ID, &h.Name, &h.Category, &h.TargetValue, &h.TargetUnit, &h.Difficulty,
		&freq, &h.FrequencyGoal, &active, &createdAt)
	if err != nil {
		return models.Habit{}, err
	}

	h.FrequencyType = models.FrequencyType(freq)
	h.IsActive = active != 0
	h.CreatedAt, err = time.Parse(constants.TimestampFormat, createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at for habit %s: %w", h.ID, err)
	}
	return h, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *Store) AddHabit(habit models.Habit) error {
	if existing, err := s.GetHabitByName(habit.Name); err == nil && existing.ID != habit.ID {
		return fmt.Errorf("%w: %q", storage.ErrDuplicateHabit, habit.Name)
	}
	if habit.CreatedAt.IsZero() {
		habit.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		habit.ID, habit.Name, habit.Category, habit.TargetValue, habit.TargetUnit, habit.Difficulty,
		string(habit.FrequencyType), habit.FrequencyGoal, boolToInt(habit.IsActive),
		habit.CreatedAt.UTC().Format(constants.TimestampFormat))
	if err != nil {
		return fmt.Errorf("failed to add habit: %w", err)
	}
	return nil
}

// UpdateHabit overwrites every mutable field of an existing habit.
func (s *Store) UpdateHabit(habit models.Habit) error {
	if existing, err := s.GetHabitByName(habit.Name); err == nil && existing.ID != habit.ID {
		return fmt.Errorf("%w: %q", storage.ErrDuplicateHabit, habit.Name)
	}

	res, err := s.db.Exec(`
		UPDATE habits SET name = ?, category = ?, target_value = ?, target_unit = ?,
			difficulty = ?, frequency_type = ?, frequency_goal = ?, is_active = ?
		WHERE id = ?`,
		habit.Name, habit.Category, habit.TargetValue, habit.TargetUnit, habit.Difficulty,
		string(habit.FrequencyType), habit.FrequencyGoal, boolToInt(habit.IsActive), habit.ID)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	return expectOneRow(res, habit.ID)
}

func expectOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	h, err := scanHabit(s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
	}
	return h, err
}

func (s *Store) GetHabitByName(name string) (models.Habit, error) {
	h, err := scanHabit(s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE name = ?`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %q: %w", name, storage.ErrNotFound)
	}
	return h, err
}

func (s *Store) GetActiveHabits() ([]models.Habit, error) {
	return s.queryHabits(`SELECT ` + habitColumns + ` FROM habits WHERE is_active = 1 ORDER BY id`)
}

func (s *Store) GetAllHabits() ([]models.Habit, error) {
	return s.queryHabits(`SELECT ` + habitColumns + ` FROM habits ORDER BY is_active DESC, id`)
}

func (s *Store) queryHabits(query string, args ...any) ([]models.Habit, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) SetHabitActive(id string, active bool) error {
	res, err := s.db.Exec("UPDATE habits SET is_active = ? WHERE id = ?", boolToInt(active), id)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	return expectOneRow(res, id)
}

func (s *Store) CountHabits() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM habits").Scan(&n)
	return n, err
}
