package settings

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/llm"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/utils"
	"github.com/julianstephens/habitlit/internal/validation"
)

type SettingsCmd struct {
	Show SettingsShowCmd `cmd:"" default:"1" help:"Show current settings."`
	Set  SettingsSetCmd  `cmd:"" help:"Change settings."`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *cli.Context) error {
	s, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	ctx.Println("Current Settings:")
	ctx.Printf("  City:              %s\n", s.City)
	ctx.Printf("  Timezone:          %s\n", s.Timezone)
	ctx.Printf("  Reward threshold:  %d%%\n", s.RewardThreshold)
	ctx.Printf("  Streak threshold:  %d%%\n", s.StreakThreshold)
	ctx.Printf("  Streak window:     %d days\n", s.StreakWindow)
	ctx.Println("\nCoach Settings:")
	ctx.Printf("  Provider:          %s\n", s.LLMProvider)
	ctx.Printf("  Model:             %s\n", s.LLMModel)
	ctx.Printf("  Auto coach:        %v\n", s.AutoCoach)
	return nil
}

type SettingsSetCmd struct {
	City            *string `help:"City used for the weather lookup."`
	Timezone        *string `help:"IANA timezone, or Local for the system timezone."`
	RewardThreshold *int    `help:"Completion rate (%) that unlocks the daily reward."`
	StreakThreshold *int    `help:"Completion rate (%) a day needs to count toward a streak."`
	StreakWindow    *int    `help:"Number of days scanned for streaks."`
	Provider        *string `help:"Text generation provider: openai or gemini."`
	Model           *string `help:"Model name passed to the provider."`
	AutoCoach       *bool   `help:"Generate the coach message automatically on the dashboard."`
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	s, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	updated, err := c.apply(&s)
	if err != nil {
		return err
	}
	if !updated {
		ctx.Println("No changes specified. Run 'habitlit settings set --help' to see the available flags.")
		return nil
	}
	if err := ctx.Store.SaveSettings(s); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Println("Settings updated successfully.")
	return nil
}

func (c *SettingsSetCmd) apply(s *models.Settings) (bool, error) {
	updated := false
	if c.City != nil {
		city := strings.TrimSpace(*c.City)
		if city == "" {
			return false, fmt.Errorf("city cannot be empty")
		}
		s.City = city
		updated = true
	}
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return false, fmt.Errorf("invalid timezone %q", *c.Timezone)
		}
		s.Timezone = *c.Timezone
		updated = true
	}
	if c.RewardThreshold != nil {
		if err := validation.ValidateThreshold(*c.RewardThreshold); err != nil {
			return false, err
		}
		s.RewardThreshold = *c.RewardThreshold
		updated = true
	}
	if c.StreakThreshold != nil {
		if err := validation.ValidateThreshold(*c.StreakThreshold); err != nil {
			return false, err
		}
		s.StreakThreshold = *c.StreakThreshold
		updated = true
	}
	if c.StreakWindow != nil {
		if err := validation.ValidateWindow(*c.StreakWindow); err != nil {
			return false, err
		}
		s.StreakWindow = *c.StreakWindow
		updated = true
	}
	if c.Provider != nil {
		provider := strings.ToLower(*c.Provider)
		if provider != llm.ProviderOpenAI && provider != llm.ProviderGemini {
			return false, fmt.Errorf("unknown provider %q (want %s or %s)", *c.Provider, llm.ProviderOpenAI, llm.ProviderGemini)
		}
		if provider != s.LLMProvider && c.Model == nil {
			// the old model name belongs to the old provider
			s.LLMModel = defaultModel(provider)
		}
		s.LLMProvider = provider
		updated = true
	}
	if c.Model != nil {
		s.LLMModel = strings.TrimSpace(*c.Model)
		if s.LLMModel == "" {
			s.LLMModel = defaultModel(s.LLMProvider)
		}
		updated = true
	}
	if c.AutoCoach != nil {
		s.AutoCoach = *c.AutoCoach
		updated = true
	}
	return updated, nil
}

func defaultModel(provider string) string {
	if provider == llm.ProviderGemini {
		return constants.DefaultGeminiModel
	}
	return constants.DefaultLLMModel
}
