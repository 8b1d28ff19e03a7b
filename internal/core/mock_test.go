package core

import (
	"context"

	"github.com/ecospirit/greenmap/internal/core/model"
	"github.com/ecospirit/greenmap/internal/llm"
)

type MockLLM struct {
	Response      string
	ResponseQueue []string
	Err           error

	Calls   [][]model.ChatMessage
	Options []llm.Options
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	return m.Chat(ctx, []model.ChatMessage{{Role: model.RoleUser, Content: prompt}}, llm.Options{})
}

func (m *MockLLM) Chat(ctx context.Context, messages []model.ChatMessage, opts llm.Options) (string, error) {
	m.Calls = append(m.Calls, messages)
	m.Options = append(m.Options, opts)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.ResponseQueue) > 0 {
		resp := m.ResponseQueue[0]
		m.ResponseQueue = m.ResponseQueue[1:]
		return resp, nil
	}
	return m.Response, nil
}
