package constants

import "time"

const (
	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimestampFormat is used for updated_at / created_at columns
	TimestampFormat = time.RFC3339

	// ProviderTimeout bounds every outbound HTTP call made on behalf of a command
	ProviderTimeout = 10 * time.Second

	// LLMTimeout bounds a single text-generation request
	LLMTimeout = 30 * time.Second

	// WeatherCacheTTL is how long a weather lookup is reused within one process
	WeatherCacheTTL = 10 * time.Minute
)
