package models

// Settings represents application-wide settings
type Settings struct {
	City            string `json:"city"`               // city used for the weather lookup, e.g. "Seoul"
	Timezone        string `json:"timezone"`           // IANA timezone name, or "Local" for system timezone
	RewardThreshold int    `json:"reward_threshold"`   // completion rate (%) that unlocks the daily reward
	StreakThreshold int    `json:"streak_threshold"`   // completion rate (%) a day needs to count toward a streak
	StreakWindow    int    `json:"streak_window_days"` // number of days scanned for streaks
	LLMProvider     string `json:"llm_provider"`       // "openai" or "gemini"
	LLMModel        string `json:"llm_model"`          // model name passed to the provider
	AutoCoach       bool   `json:"auto_coach"`         // generate the coach digest automatically when missing
}
