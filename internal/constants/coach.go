package constants

const (
	// Coach score heuristic. The score is today's rate plus a note-writing
	// bonus minus a weather penalty, clamped to [0, 100].
	NoteBonusPerNote  = 3
	MaxNoteBonus      = 10
	MaxWeatherPenalty = 15

	// Weather penalties
	PenaltyBadWeather  = 10
	PenaltyExtremeTemp = 12
	ExtremeHeatCelsius = 32.0
	ExtremeColdCelsius = -2.0
	HotRoutineCelsius  = 30.0
	ColdRoutineCelsius = 0.0
	DefaultTempCelsius = 20.0

	// Rolling aggregation windows
	RecentSummaryDays = 7
	InsightDays       = 30

	// MaxDigestRunes bounds the length of any digest handed to a generator
	MaxDigestRunes = 4000

	// Sampling temperatures per digest kind
	CoachTemperature   = 0.6
	InsightTemperature = 0.5
)
