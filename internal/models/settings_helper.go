package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/habitlit/internal/constants"
)

// DefaultSettings returns the settings a fresh database starts with.
func DefaultSettings() Settings {
	return Settings{
		City:            constants.DefaultCity,
		Timezone:        constants.DefaultTimezone,
		RewardThreshold: constants.DefaultRewardThreshold,
		StreakThreshold: constants.DefaultStreakThreshold,
		StreakWindow:    constants.DefaultStreakWindow,
		LLMProvider:     constants.DefaultLLMProvider,
		LLMModel:        constants.DefaultLLMModel,
		AutoCoach:       constants.DefaultAutoCoach,
	}
}

// MapToSettings converts a map of key-value pairs to a Settings struct.
// Keys missing from data keep their default value; unknown keys are ignored.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := DefaultSettings()

	for key, value := range data {
		switch key {
		case constants.SettingCity:
			settings.City = value
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingRewardThreshold:
			n, err := strconv.Atoi(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing reward_threshold: %w", err)
			}
			settings.RewardThreshold = n
		case constants.SettingStreakThreshold:
			n, err := strconv.Atoi(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing streak_threshold: %w", err)
			}
			settings.StreakThreshold = n
		case constants.SettingStreakWindow:
			n, err := strconv.Atoi(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing streak_window_days: %w", err)
			}
			settings.StreakWindow = n
		case constants.SettingLLMProvider:
			settings.LLMProvider = value
		case constants.SettingLLMModel:
			settings.LLMModel = value
		case constants.SettingAutoCoach:
			settings.AutoCoach = value == "true"
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingCity:            settings.City,
		constants.SettingTimezone:        settings.Timezone,
		constants.SettingRewardThreshold: strconv.Itoa(settings.RewardThreshold),
		constants.SettingStreakThreshold: strconv.Itoa(settings.StreakThreshold),
		constants.SettingStreakWindow:    strconv.Itoa(settings.StreakWindow),
		constants.SettingLLMProvider:     settings.LLMProvider,
		constants.SettingLLMModel:        settings.LLMModel,
		constants.SettingAutoCoach:       strconv.FormatBool(settings.AutoCoach),
	}
}

// ApplyDefaultSettings fills empty string settings and a non-positive window.
func ApplyDefaultSettings(settings *Settings) {
	if settings.City == "" {
		settings.City = constants.DefaultCity
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.StreakWindow <= 0 {
		settings.StreakWindow = constants.DefaultStreakWindow
	}
	if settings.LLMProvider == "" {
		settings.LLMProvider = constants.DefaultLLMProvider
	}
	if settings.LLMModel == "" {
		settings.LLMModel = constants.DefaultLLMModel
	}
}
