package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/ecospirit/greenmap/internal/core/model"
)

type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey string, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	return c.Chat(ctx, userPrompt(prompt), Options{})
}

func (c *GeminiClient) Chat(ctx context.Context, messages []model.ChatMessage, opts Options) (string, error) {
	system, history, last := splitGeminiMessages(messages)
	if last == "" {
		return "", fmt.Errorf("gemini: conversation must end with a user message")
	}

	gm := c.client.GenerativeModel(c.model)
	if opts.MaxTokens > 0 {
		gm.SetMaxOutputTokens(int32(opts.MaxTokens))
	}
	if opts.Temperature > 0 {
		gm.SetTemperature(opts.Temperature)
	}
	if system != "" {
		gm.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	cs := gm.StartChat()
	cs.History = history
	resp, err := cs.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		var sb strings.Builder
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
		if sb.Len() > 0 {
			return sb.String(), nil
		}
	}
	return "", fmt.Errorf("no response candidates or content")
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// splitGeminiMessages returns the joined system text, the prior turns and the
// final user message. Gemini names the assistant role "model" and wants the
// history to open with a user turn.
func splitGeminiMessages(messages []model.ChatMessage) (string, []*genai.Content, string) {
	system, turns := alternateTurns(messages)
	if len(turns) == 0 || turns[len(turns)-1].Role != model.RoleUser {
		return system, nil, ""
	}

	last := turns[len(turns)-1].Content
	history := make([]*genai.Content, 0, len(turns)-1)
	for _, m := range turns[:len(turns)-1] {
		role := "user"
		if m.Role == model.RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}
	return system, history, last
}
