package llm

import (
	"context"
	"strings"

	"github.com/ecospirit/greenmap/internal/core/model"
)

// Options tunes a single model call. Zero values leave the provider default.
type Options struct {
	MaxTokens   int
	Temperature float32
}

type LLMClient interface {
	// Generate sends a single user prompt.
	Generate(ctx context.Context, prompt string) (string, error)
	// Chat sends an ordered conversation. System messages may appear anywhere;
	// providers without inline system turns merge them into their system field.
	Chat(ctx context.Context, messages []model.ChatMessage, opts Options) (string, error)
}

func userPrompt(prompt string) []model.ChatMessage {
	return []model.ChatMessage{{Role: model.RoleUser, Content: prompt}}
}

// alternateTurns pulls system messages out of messages and returns their
// joined text along with the remaining turns. Consecutive turns of one role
// are merged and leading assistant turns are dropped, so the turns alternate
// and open with the user.
func alternateTurns(messages []model.ChatMessage) (string, []model.ChatMessage) {
	var system []string
	var turns []model.ChatMessage
	for _, m := range messages {
		if m.Role == model.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		role := model.RoleUser
		if m.Role == model.RoleAssistant {
			role = model.RoleAssistant
		}
		if len(turns) == 0 && role == model.RoleAssistant {
			continue
		}
		if n := len(turns); n > 0 && turns[n-1].Role == role {
			turns[n-1].Content += "\n\n" + m.Content
			continue
		}
		turns = append(turns, model.ChatMessage{Role: role, Content: m.Content})
	}
	return strings.Join(system, "\n\n"), turns
}
