package habits

import (
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/habitlit/internal/cli/clitest"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/validation"
)

func TestHabitAddCmd(t *testing.T) {
	ctx, out := clitest.New(t)

	cmd := &HabitAddCmd{Name: "English study", Category: "study", Target: 20, Unit: "minutes", Difficulty: 3, Frequency: "daily"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}
	if !strings.Contains(out.String(), "Added habit: English study") {
		t.Errorf("unexpected output: %q", out.String())
	}

	h, err := ctx.Store.GetHabitByName("English study")
	if err != nil {
		t.Fatalf("habit was not stored: %v", err)
	}
	if h.TargetValue != 20 || h.TargetUnit != "minutes" || !h.IsActive {
		t.Errorf("stored habit = %+v", h)
	}
}

func TestHabitAddCmd_Rejects(t *testing.T) {
	tests := []struct {
		name string
		cmd  HabitAddCmd
	}{
		{"empty name", HabitAddCmd{Name: "  ", Target: 1, Difficulty: 2, Frequency: "daily"}},
		{"difficulty too high", HabitAddCmd{Name: "Run", Target: 1, Difficulty: 6, Frequency: "daily"}},
		{"zero target", HabitAddCmd{Name: "Run", Target: 0, Difficulty: 2, Frequency: "daily"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := clitest.New(t)
			err := tt.cmd.Run(ctx)
			if !errors.Is(err, validation.ErrInvalidInput) {
				t.Errorf("got %v, want a validation error", err)
			}
		})
	}
}

func TestHabitAddCmd_DuplicateName(t *testing.T) {
	ctx, _ := clitest.New(t)
	cmd := &HabitAddCmd{Name: "Meditation", Target: 5, Difficulty: 2, Frequency: "daily"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(ctx); !errors.Is(err, storage.ErrDuplicateHabit) {
		t.Errorf("got %v, want ErrDuplicateHabit", err)
	}
}

func TestHabitListCmd(t *testing.T) {
	ctx, out := clitest.New(t)
	if err := (&HabitSeedCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&HabitDeactivateCmd{Habit: "Meditation"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	out.Reset()

	if err := (&HabitListCmd{}).Run(ctx); err != nil {
		t.Fatalf("habit list failed: %v", err)
	}
	if strings.Contains(out.String(), "Meditation") {
		t.Errorf("inactive habit listed without --all:\n%s", out)
	}
	if !strings.Contains(out.String(), "Drink water") || !strings.Contains(out.String(), "8 cups") {
		t.Errorf("expected Drink water with its target:\n%s", out)
	}

	out.Reset()
	if err := (&HabitListCmd{All: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "inactive") {
		t.Errorf("expected the inactive habit with --all:\n%s", out)
	}
}

func TestHabitListCmd_Empty(t *testing.T) {
	ctx, out := clitest.New(t)
	if err := (&HabitListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No habits found") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestHabitEditCmd(t *testing.T) {
	ctx, _ := clitest.New(t)
	if err := (&HabitAddCmd{Name: "Reading", Target: 10, Unit: "pages", Difficulty: 2, Frequency: "daily"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	target := 3
	weekly := "weekly"
	goal := 3
	if err := (&HabitEditCmd{Habit: "Reading", Target: &target, Frequency: &weekly, Goal: &goal}).Run(ctx); err != nil {
		t.Fatalf("habit edit failed: %v", err)
	}

	h, err := ctx.Store.GetHabitByName("Reading")
	if err != nil {
		t.Fatal(err)
	}
	if h.TargetValue != 3 || h.FrequencyType != models.FrequencyWeekly || h.FrequencyGoal != 3 {
		t.Errorf("edited habit = %+v", h)
	}
	if h.TargetUnit != "pages" {
		t.Errorf("unchanged field was overwritten: unit %q", h.TargetUnit)
	}
}

func TestHabitEditCmd_UnknownHabit(t *testing.T) {
	ctx, _ := clitest.New(t)
	name := "x"
	if err := (&HabitEditCmd{Habit: "nope", Name: &name}).Run(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestHabitActivateCycle(t *testing.T) {
	ctx, _ := clitest.New(t)
	if err := (&HabitAddCmd{Name: "Stretching", Target: 10, Difficulty: 2, Frequency: "daily"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if err := (&HabitDeactivateCmd{Habit: "Stretching"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	active, err := ctx.Store.GetActiveHabits()
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 0 {
		t.Errorf("expected no active habits, got %d", len(active))
	}

	if err := (&HabitActivateCmd{Habit: "Stretching"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if active, _ = ctx.Store.GetActiveHabits(); len(active) != 1 {
		t.Errorf("expected the habit to be active again, got %d", len(active))
	}
}

func TestHabitSeedCmd(t *testing.T) {
	ctx, out := clitest.New(t)
	if err := (&HabitSeedCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Added 4 starter habits") {
		t.Errorf("unexpected output: %q", out.String())
	}

	out.Reset()
	if err := (&HabitSeedCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "nothing to seed") {
		t.Errorf("second seed should be a no-op: %q", out.String())
	}
}
