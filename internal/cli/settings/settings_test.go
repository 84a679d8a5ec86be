package settings

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/habitlit/internal/cli/clitest"
	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/validation"
)

func ptr[T any](v T) *T { return &v }

func TestSettingsShowCmd(t *testing.T) {
	ctx, out := clitest.New(t)
	if err := (&SettingsShowCmd{}).Run(ctx); err != nil {
		t.Fatalf("settings show failed: %v", err)
	}
	for _, want := range []string{"City:              Seoul", "Timezone:          UTC", "Streak window:     120 days", "Provider:          openai"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output is missing %q:\n%s", want, out)
		}
	}
}

func TestSettingsSetCmd(t *testing.T) {
	ctx, out := clitest.New(t)
	cmd := &SettingsSetCmd{
		City:            ptr("Busan"),
		Timezone:        ptr("Asia/Seoul"),
		RewardThreshold: ptr(80),
		StreakWindow:    ptr(30),
		Provider:        ptr("gemini"),
		AutoCoach:       ptr(true),
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("settings set failed: %v", err)
	}
	if !strings.Contains(out.String(), "Settings updated successfully.") {
		t.Errorf("unexpected output: %q", out.String())
	}

	got, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	want := models.Settings{
		City:            "Busan",
		Timezone:        "Asia/Seoul",
		RewardThreshold: 80,
		StreakThreshold: constants.DefaultStreakThreshold,
		StreakWindow:    30,
		LLMProvider:     "gemini",
		LLMModel:        constants.DefaultGeminiModel,
		AutoCoach:       true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestSettingsSetCmd_NoChanges(t *testing.T) {
	ctx, out := clitest.New(t)
	if err := (&SettingsSetCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No changes specified") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestSettingsSetCmd_Rejects(t *testing.T) {
	tests := []struct {
		name       string
		cmd        SettingsSetCmd
		validation bool
	}{
		{"threshold above 100", SettingsSetCmd{StreakThreshold: ptr(101)}, true},
		{"negative reward threshold", SettingsSetCmd{RewardThreshold: ptr(-1)}, true},
		{"zero window", SettingsSetCmd{StreakWindow: ptr(0)}, true},
		{"unknown timezone", SettingsSetCmd{Timezone: ptr("Mars/Olympus")}, false},
		{"unknown provider", SettingsSetCmd{Provider: ptr("claude")}, false},
		{"empty city", SettingsSetCmd{City: ptr(" ")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := clitest.New(t)
			before, err := ctx.Store.GetSettings()
			if err != nil {
				t.Fatal(err)
			}

			err = tt.cmd.Run(ctx)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.validation && !errors.Is(err, validation.ErrInvalidInput) {
				t.Errorf("got %v, want a validation error", err)
			}

			after, err := ctx.Store.GetSettings()
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(before, after); diff != "" {
				t.Errorf("rejected update changed settings (-before +after):\n%s", diff)
			}
		})
	}
}
