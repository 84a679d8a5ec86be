package constants

const (
	// General Settings
	SettingCity            = "city"
	SettingTimezone        = "timezone"
	SettingRewardThreshold = "reward_threshold"
	SettingStreakThreshold = "streak_threshold"
	SettingStreakWindow    = "streak_window_days"
	SettingLLMProvider     = "llm_provider"
	SettingLLMModel        = "llm_model"
	SettingAutoCoach       = "auto_coach"

	// Default Settings Values
	DefaultCity            = "Seoul"
	DefaultTimezone        = "Local" // Use system local timezone by default
	DefaultRewardThreshold = 70
	DefaultStreakThreshold = 70
	DefaultStreakWindow    = 120
	DefaultLLMProvider     = "openai"
	DefaultLLMModel        = "gpt-4o-mini"
	DefaultGeminiModel     = "gemini-2.5-flash"
	DefaultAutoCoach       = false

	// MaxStreakWindow caps the lookback so a single range read stays small
	MaxStreakWindow = 3650
)
