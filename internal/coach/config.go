// Package coach is the application service behind every CLI command and TUI
// key press. Handlers read fresh data from the store, so the caller simply
// re-renders from the returned view model.
package coach

import (
	"strings"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/llm"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/utils"
)

// Config is resolved once per command and handed to the Service.
type Config struct {
	Settings   models.Settings
	OpenAIKey  string
	GeminiKey  string
	WeatherKey string
	// Now defaults to time.Now.
	Now func() time.Time
}

func (c Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Today is the current date in the configured timezone.
func (c Config) Today() (string, error) {
	now, err := utils.InTimezone(c.now(), c.Settings.Timezone)
	if err != nil {
		return "", err
	}
	return now.Format(constants.DateFormat), nil
}

// LLMKey returns the key for the configured provider.
func (c Config) LLMKey() string {
	if strings.EqualFold(c.Settings.LLMProvider, llm.ProviderGemini) {
		return c.GeminiKey
	}
	return c.OpenAIKey
}

// Generator builds the text generator for the configured provider.
// It returns llm.ErrUnavailable when no key is set.
func (c Config) Generator() (llm.Generator, error) {
	return llm.New(c.Settings.LLMProvider, c.LLMKey(), llm.Options{Model: c.Settings.LLMModel})
}
