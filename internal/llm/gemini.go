package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const geminiModel = "gemini-1.5-pro"

// geminiGenerator backs the "gemini" backend with the Google GenAI SDK.
// The client needs a context to construct, so it is built per call.
type geminiGenerator struct {
	apiKey string
}

func newGeminiGenerator(apiKey string) *geminiGenerator {
	return &geminiGenerator{apiKey: apiKey}
}

func (g *geminiGenerator) Name() string { return BackendGemini }

func (g *geminiGenerator) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}

	var config *genai.GenerateContentConfig
	if opts.System != "" || opts.Temperature > 0 || opts.MaxTokens > 0 {
		config = &genai.GenerateContentConfig{}
		if opts.System != "" {
			config.SystemInstruction = genai.NewContentFromText(opts.System, genai.RoleUser)
		}
		if opts.Temperature > 0 {
			temp := float32(opts.Temperature)
			config.Temperature = &temp
		}
		if opts.MaxTokens > 0 {
			config.MaxOutputTokens = int32(opts.MaxTokens)
		}
	}

	resp, err := client.Models.GenerateContent(ctx, geminiModel, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return resp.Text(), nil
}
