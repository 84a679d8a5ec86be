// Package llm wraps the text-generation providers used for coach, insight
// and quote digests.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable wraps every generation failure: missing key, network, auth
// or an empty response.
var ErrUnavailable = errors.New("text generation unavailable")

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Generator turns a system instruction and a user digest into text.
type Generator interface {
	Generate(ctx context.Context, systemInstruction, userDigest string) (string, error)
}

// Options tune a generator. Zero values mean provider defaults.
type Options struct {
	Model       string
	BaseURL     string
	Temperature float64
}

// New returns the generator for provider. A blank key yields ErrUnavailable
// so callers can surface "not configured" without a network round trip.
func New(provider, key string, opts Options) (Generator, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("%w: no API key configured for %s", ErrUnavailable, provider)
	}
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderOpenAI, "":
		return NewOpenAI(key, opts), nil
	case ProviderGemini:
		return NewGemini(key, opts)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrUnavailable, provider)
	}
}

type temperatureKey struct{}

// WithTemperature overrides the sampling temperature for one request.
func WithTemperature(ctx context.Context, t float64) context.Context {
	return context.WithValue(ctx, temperatureKey{}, t)
}

func temperatureFrom(ctx context.Context, fallback float64) float64 {
	if t, ok := ctx.Value(temperatureKey{}).(float64); ok {
		return t
	}
	return fallback
}

func unavailable(provider string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, provider, err)
}
