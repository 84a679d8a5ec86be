package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/julianstephens/habitlit/internal/backup"
	"github.com/julianstephens/habitlit/internal/coach"
	"github.com/julianstephens/habitlit/internal/llm"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/motivation"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/validation"
	"github.com/julianstephens/habitlit/internal/weather"
)

// Keys holds the provider API keys resolved at startup.
type Keys struct {
	OpenAI  string
	Gemini  string
	Weather string
}

type Context struct {
	Store storage.Provider
	Keys  Keys

	// Out and In default to the process stdio.
	Out io.Writer
	In  io.Reader

	// Now overrides the clock, mostly for tests.
	Now func() time.Time
	// Providers builds the network collaborators of the coach service.
	// Nil means DefaultProviders.
	Providers func(coach.Config) coach.Deps

	svc *coach.Service
}

func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Stdin() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

// Terminal reports whether output goes to an interactive terminal.
func (c *Context) Terminal() bool {
	f, ok := c.Stdout().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Stdout(), args...)
}

// Confirm asks a yes/no question on stdin. Anything but y/yes is a no.
func (c *Context) Confirm(question string) (bool, error) {
	c.Printf("%s [y/N]: ", question)
	response, err := bufio.NewReader(c.Stdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Service builds the coach service from the stored settings. The store must
// already be loaded. The service is built once per command.
func (c *Context) Service() (*coach.Service, error) {
	if c.svc != nil {
		return c.svc, nil
	}
	settings, err := c.Store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	cfg := coach.Config{
		Settings:   settings,
		OpenAIKey:  c.Keys.OpenAI,
		GeminiKey:  c.Keys.Gemini,
		WeatherKey: c.Keys.Weather,
		Now:        c.Now,
	}
	providers := c.Providers
	if providers == nil {
		providers = DefaultProviders
	}
	deps := providers(cfg)
	deps.Store = c.Store

	svc, err := coach.New(cfg, deps)
	if err != nil {
		return nil, err
	}
	c.svc = svc
	return svc, nil
}

// DefaultProviders wires the real HTTP clients. Weather and text generation
// are left out when no key is configured.
func DefaultProviders(cfg coach.Config) coach.Deps {
	deps := coach.Deps{
		Images: motivation.NewDogClient(),
		Quotes: motivation.NewQuoteClient(),
	}
	if cfg.WeatherKey != "" {
		deps.Weather = weather.NewClient(cfg.WeatherKey)
	}
	gen, err := cfg.Generator()
	switch {
	case err == nil:
		deps.Generator = gen
	case errors.Is(err, llm.ErrUnavailable):
		logger.Debug("Text generation disabled", "reason", err)
	default:
		logger.Warn("Failed to create text generator", "error", err)
	}
	return deps
}

// ResolveDate returns date when given, otherwise today in the configured
// timezone.
func (c *Context) ResolveDate(date string) (string, error) {
	if date != "" {
		if err := validation.ValidateDate(date); err != nil {
			return "", err
		}
		return date, nil
	}
	svc, err := c.Service()
	if err != nil {
		return "", err
	}
	return svc.CurrentDate()
}
