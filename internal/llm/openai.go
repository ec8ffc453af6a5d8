package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	openaiModel = "gpt-4-turbo"
	grokModel   = "grok-2-latest"
	grokBaseURL = "https://api.x.ai/v1"
)

// openaiGenerator backs the "gpt" backend with the Chat Completions API.
// The "grok" backend reuses it against the x.ai endpoint, which speaks the
// same protocol.
type openaiGenerator struct {
	client openai.Client
	name   string
	model  string
}

func newOpenAIGenerator(apiKey string) *openaiGenerator {
	return &openaiGenerator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		name:   BackendGPT,
		model:  openaiModel,
	}
}

func newGrokGenerator(apiKey string) *openaiGenerator {
	return &openaiGenerator{
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(grokBaseURL),
		),
		name:  BackendGrok,
		model: grokModel,
	}
}

func (g *openaiGenerator) Name() string { return g.name }

func (g *openaiGenerator) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{}
	if opts.System != "" {
		messages = append(messages, openai.SystemMessage(opts.System))
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(g.model),
		Messages: messages,
	}
	if opts.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(opts.MaxTokens))
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.Float(opts.Temperature)
	}

	completion, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%s generate: %w", g.name, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%s generate: empty response", g.name)
	}
	return completion.Choices[0].Message.Content, nil
}
