package weather

import (
	"strings"

	"github.com/julianstephens/habitlit/internal/constants"
)

// DefaultRoutine is suggested when no weather data is available.
const DefaultRoutine = "Start with 5-10 minutes of light stretching today."

const (
	indoorRoutine  = "Rough weather outside. Indoor alternative: 10 minutes of stretching, 20 squats and 5 minutes of tidying up."
	hotRoutine     = "It's hot. Dial down the intensity: 10-15 minutes of indoor cardio such as walking in place, and drink plenty of water."
	coldRoutine    = "It's cold. Keep it short and certain: 8 minutes of indoor stretching plus 5 minutes of core work (3 sets of planks)."
	foggyRoutine   = "Visibility is low. Safety first: keep outdoor walks short and add 10 minutes of light movement indoors."
	windyRoutine   = "It's windy. Protect your energy: keep outdoor time short and focus on indoor strength and stretching."
	outdoorRoutine = "Mild weather. Good day to go outside: a 15-30 minute walk, an easy run or some outdoor stretching."
)

var (
	rainWords  = []string{"rain", "drizzle", "shower", "thunderstorm"}
	snowWords  = []string{"snow", "sleet"}
	fogWords   = []string{"mist", "fog", "haze"}
	windWords  = []string{"wind", "gale", "squall"}
	stormWords = []string{"rain", "snow", "thunderstorm"}
)

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func temperature(s *Summary) float64 {
	if s.Temp == nil {
		return constants.DefaultTempCelsius
	}
	return *s.Temp
}

// RoutineRecommendation suggests a routine that fits the conditions.
// Precipitation wins over temperature, which wins over fog and wind.
func RoutineRecommendation(s *Summary) string {
	if s == nil {
		return DefaultRoutine
	}
	desc := strings.ToLower(s.Description)
	t := temperature(s)

	switch {
	case containsAny(desc, rainWords) || containsAny(desc, snowWords):
		return indoorRoutine
	case t >= constants.HotRoutineCelsius:
		return hotRoutine
	case t <= constants.ColdRoutineCelsius:
		return coldRoutine
	case containsAny(desc, fogWords):
		return foggyRoutine
	case containsAny(desc, windWords):
		return windyRoutine
	default:
		return outdoorRoutine
	}
}

// Penalty is the coach-score deduction for bad weather: 10 for rain, snow or
// thunderstorms, at least 12 for extreme temperatures, 0 otherwise.
func Penalty(s *Summary) int {
	if s == nil {
		return 0
	}
	p := 0
	if containsAny(strings.ToLower(s.Description), stormWords) {
		p = constants.PenaltyBadWeather
	}
	if s.Temp != nil && (*s.Temp >= constants.ExtremeHeatCelsius || *s.Temp <= constants.ExtremeColdCelsius) {
		p = max(p, constants.PenaltyExtremeTemp)
	}
	return p
}
