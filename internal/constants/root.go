package constants

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "habitlit"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitlit/habitlit.db"
	Version            = "v0.3.0"

	// Log rotation
	LogDirName    = "logs"
	LogMaxSizeMB  = 10
	LogMaxBackups = 3
	LogMaxAgeDays = 28

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitlit-"
	BackupFileSuffix = ".db"

	// Keyring entries for provider API keys
	KeyringOpenAI  = "openai-api-key"
	KeyringGemini  = "gemini-api-key"
	KeyringWeather = "openweather-api-key"

	// Environment variables
	EnvDBConnection = "HABITLIT_DB_CONNECTION"
	EnvOpenAIKey    = "HABITLIT_OPENAI_API_KEY"
	EnvGeminiKey    = "HABITLIT_GEMINI_API_KEY"
	EnvWeatherKey   = "HABITLIT_WEATHER_API_KEY"
)

// Session States. The first three are tabs, in display order.
const (
	StateToday SessionState = iota
	StateHabits
	StateInsights
	StateAddHabit
	StateEditNote
)
