package llm

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/ecospirit/greenmap/internal/core/model"
)

const claudeDefaultMaxTokens = 1000

type ClaudeClient struct {
	client *anthropic.Client
	model  string
}

func NewClaudeClient(apiKey string, model string, baseURL string) *ClaudeClient {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	return &ClaudeClient{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

func (c *ClaudeClient) Generate(ctx context.Context, prompt string) (string, error) {
	return c.Chat(ctx, userPrompt(prompt), Options{})
}

func (c *ClaudeClient) Chat(ctx context.Context, messages []model.ChatMessage, opts Options) (string, error) {
	system, turns := splitClaudeMessages(messages)
	if len(turns) == 0 {
		return "", fmt.Errorf("claude: conversation has no user or assistant turns")
	}

	req := anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		System:    system,
		Messages:  turns,
		MaxTokens: claudeDefaultMaxTokens,
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		t := opts.Temperature
		req.Temperature = &t
	}

	resp, err := c.client.CreateMessages(ctx, req)
	if err != nil {
		return "", fmt.Errorf("claude messages: %w", err)
	}
	for _, content := range resp.Content {
		if content.Text != nil {
			return *content.Text, nil
		}
	}
	return "", fmt.Errorf("no response content")
}

// splitClaudeMessages folds system messages into one system prompt, in order,
// and returns alternating turns that open with the user.
func splitClaudeMessages(messages []model.ChatMessage) (string, []anthropic.Message) {
	system, turns := alternateTurns(messages)
	out := make([]anthropic.Message, 0, len(turns))
	for _, m := range turns {
		role := anthropic.RoleUser
		if m.Role == model.RoleAssistant {
			role = anthropic.RoleAssistant
		}
		out = append(out, anthropic.Message{
			Role:    role,
			Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(m.Content)},
		})
	}
	return system, out
}
