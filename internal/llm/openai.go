package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
)

// OpenAIGenerator calls the chat completions endpoint.
type OpenAIGenerator struct {
	client      openai.Client
	model       string
	temperature float64
}

func NewOpenAI(key string, opts Options) *OpenAIGenerator {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(constants.LLMTimeout),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	model := opts.Model
	if model == "" {
		model = constants.DefaultLLMModel
	}
	return &OpenAIGenerator{
		client:      openai.NewClient(reqOpts...),
		model:       model,
		temperature: opts.Temperature,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, systemInstruction, userDigest string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemInstruction),
			openai.UserMessage(userDigest),
		},
	}
	if t := temperatureFrom(ctx, g.temperature); t > 0 {
		params.Temperature = openai.Float(t)
	}

	logger.Debug("llm: sending chat completion", "provider", ProviderOpenAI, "model", g.model)
	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		logger.ProviderFailure(ProviderOpenAI, "chat completion", err, "model", g.model)
		return "", unavailable(ProviderOpenAI, err)
	}
	if len(resp.Choices) == 0 {
		err := errors.New("no choices returned")
		logger.ProviderFailure(ProviderOpenAI, "chat completion", err, "model", g.model)
		return "", unavailable(ProviderOpenAI, err)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		err := errors.New("empty completion")
		logger.ProviderFailure(ProviderOpenAI, "chat completion", err, "model", g.model)
		return "", unavailable(ProviderOpenAI, err)
	}
	return text, nil
}
