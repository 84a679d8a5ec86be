package coach

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/validation"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type habitTemplate struct {
	Habits []models.Habit `yaml:"habits"`
}

// DefaultHabits parses the embedded starter habits.
func DefaultHabits() ([]models.Habit, error) {
	var tpl habitTemplate
	if err := yaml.Unmarshal(defaultsYAML, &tpl); err != nil {
		return nil, fmt.Errorf("failed to parse default habits: %w", err)
	}
	return tpl.Habits, nil
}

func normalizeHabit(h *models.Habit) {
	h.Name = strings.TrimSpace(h.Name)
	h.Category = strings.TrimSpace(h.Category)
	h.TargetUnit = strings.TrimSpace(h.TargetUnit)
	if h.FrequencyType == "" {
		h.FrequencyType = models.FrequencyDaily
	}
	if h.FrequencyType == models.FrequencyDaily {
		h.FrequencyGoal = 0
	}
}

// CreateHabit validates h, assigns a time-ordered id and stores it as active.
func (s *Service) CreateHabit(ctx context.Context, h models.Habit) (models.Habit, error) {
	if err := ctx.Err(); err != nil {
		return models.Habit{}, err
	}
	normalizeHabit(&h)
	if err := validation.ValidateHabit(h); err != nil {
		return models.Habit{}, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to generate habit id: %w", err)
	}
	h.ID = id.String()
	h.IsActive = true
	h.CreatedAt = s.cfg.now().UTC()
	if err := s.store.AddHabit(h); err != nil {
		return models.Habit{}, err
	}
	logger.Info("Habit created", "id", h.ID, "name", h.Name)
	return h, nil
}

// EditHabit overwrites the user-editable fields of an existing habit.
// Id, active flag and creation time are kept from the stored row.
func (s *Service) EditHabit(ctx context.Context, h models.Habit) (models.Habit, error) {
	if err := ctx.Err(); err != nil {
		return models.Habit{}, err
	}
	current, err := s.store.GetHabit(h.ID)
	if err != nil {
		return models.Habit{}, err
	}
	normalizeHabit(&h)
	if err := validation.ValidateHabit(h); err != nil {
		return models.Habit{}, err
	}
	h.IsActive = current.IsActive
	h.CreatedAt = current.CreatedAt
	if err := s.store.UpdateHabit(h); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

// SetHabitActive activates or deactivates a habit. Logs are kept either way.
func (s *Service) SetHabitActive(ctx context.Context, id string, active bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.SetHabitActive(id, active)
}

// Habits lists active habits, or every habit when includeInactive is set.
func (s *Service) Habits(ctx context.Context, includeInactive bool) ([]models.Habit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if includeInactive {
		return s.store.GetAllHabits()
	}
	return s.store.GetActiveHabits()
}

// FindHabit resolves ref as a habit id first, then as a name.
func (s *Service) FindHabit(ctx context.Context, ref string) (models.Habit, error) {
	if err := ctx.Err(); err != nil {
		return models.Habit{}, err
	}
	ref = strings.TrimSpace(ref)
	h, err := s.store.GetHabit(ref)
	if err == nil {
		return h, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.Habit{}, err
	}
	h, err = s.store.GetHabitByName(ref)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Habit{}, fmt.Errorf("habit %q: %w", ref, storage.ErrNotFound)
	}
	return h, err
}

// SeedDefaults creates the starter habits when the database has none.
// It returns how many habits were created.
func (s *Service) SeedDefaults(ctx context.Context) (int, error) {
	n, err := s.store.CountHabits()
	if err != nil {
		return 0, fmt.Errorf("failed to count habits: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	defaults, err := DefaultHabits()
	if err != nil {
		return 0, err
	}
	created := 0
	for _, h := range defaults {
		if _, err := s.CreateHabit(ctx, h); err != nil {
			return created, fmt.Errorf("failed to seed %q: %w", h.Name, err)
		}
		created++
	}
	return created, nil
}
