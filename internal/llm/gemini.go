package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
)

// GeminiGenerator calls Models.GenerateContent on the Gemini API backend.
type GeminiGenerator struct {
	client      *genai.Client
	model       string
	temperature float64
}

func NewGemini(key string, opts Options) (*GeminiGenerator, error) {
	cfg := &genai.ClientConfig{
		APIKey:     key,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: constants.LLMTimeout},
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(context.Background(), cfg)
	if err != nil {
		return nil, unavailable(ProviderGemini, err)
	}
	model := opts.Model
	// An OpenAI model name left in settings means the user only switched provider.
	if model == "" || strings.HasPrefix(model, "gpt-") {
		model = constants.DefaultGeminiModel
	}
	return &GeminiGenerator{client: client, model: model, temperature: opts.Temperature}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, systemInstruction, userDigest string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	}
	if t := temperatureFrom(ctx, g.temperature); t > 0 {
		config.Temperature = genai.Ptr(float32(t))
	}
	contents := []*genai.Content{genai.NewContentFromText(userDigest, genai.RoleUser)}

	logger.Debug("llm: sending generate content", "provider", ProviderGemini, "model", g.model)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		logger.ProviderFailure(ProviderGemini, "generate content", err, "model", g.model)
		return "", unavailable(ProviderGemini, err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		err := errors.New("empty response")
		logger.ProviderFailure(ProviderGemini, "generate content", err, "model", g.model)
		return "", unavailable(ProviderGemini, err)
	}
	return text, nil
}
