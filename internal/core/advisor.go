package core

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ecospirit/greenmap/internal/apperr"
	"github.com/ecospirit/greenmap/internal/core/extraction"
	"github.com/ecospirit/greenmap/internal/core/model"
	"github.com/ecospirit/greenmap/internal/llm"
)

const (
	NotScoredReply = "I notice the buildings haven't been scored yet. Please run the /score endpoint first to calculate sustainability metrics."
	EmptyReply     = "I apologize, but I encountered an error processing your request."

	DefaultHistoryLimit = 10
	DefaultModelTimeout = 30 * time.Second
)

var (
	followUpOptions       = llm.Options{MaxTokens: 300, Temperature: 0.5}
	recommendationOptions = llm.Options{MaxTokens: 1000, Temperature: 0.7}
)

type ConversationStore interface {
	AppendMessage(ctx context.Context, sessionID, role, content string) error
	History(ctx context.Context, sessionID string, limit int) ([]model.ChatMessage, error)
	ReplaceRecommendations(ctx context.Context, sessionID string, recs []model.Recommendation) error
}

type BuildingStore interface {
	ReadAll(ctx context.Context) (*model.FeatureCollection, error)
	SetRecommendations(ctx context.Context, recs []model.Recommendation) error
}

// Advisor runs one chat turn: it consults the model about the scored
// buildings and records whatever it recommends.
type Advisor struct {
	Conversations ConversationStore
	Buildings     BuildingStore
	LLM           llm.LLMClient
	Classifier    IntentClassifier
	HistoryLimit  int
	Timeout       time.Duration
	Log           *zap.Logger
}

func NewAdvisor(conversations ConversationStore, buildings BuildingStore, llmClient llm.LLMClient, log *zap.Logger) *Advisor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Advisor{
		Conversations: conversations,
		Buildings:     buildings,
		LLM:           llmClient,
		Classifier:    NewKeywordClassifier(),
		HistoryLimit:  DefaultHistoryLimit,
		Timeout:       DefaultModelTimeout,
		Log:           log,
	}
}

func (a *Advisor) Chat(ctx context.Context, req model.ChatRequest) (*model.ChatResponse, error) {
	if req.SessionID == "" || strings.TrimSpace(req.Message) == "" {
		return nil, apperr.Validation("sessionId and message are required")
	}
	log := a.Log.With(zap.String("session_id", req.SessionID))

	if err := a.Conversations.AppendMessage(ctx, req.SessionID, model.RoleUser, req.Message); err != nil {
		return nil, apperr.Internal(err, "failed to save user message")
	}

	history, err := a.Conversations.History(ctx, req.SessionID, a.HistoryLimit)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load conversation history")
	}

	fc, err := a.Buildings.ReadAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load buildings")
	}
	scored := make([]model.Building, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f.Properties.IsScored() {
			scored = append(scored, f.Properties)
		}
	}

	if len(scored) == 0 {
		if err := a.Conversations.AppendMessage(ctx, req.SessionID, model.RoleAssistant, NotScoredReply); err != nil {
			return nil, apperr.Internal(err, "failed to save assistant message")
		}
		return &model.ChatResponse{SessionID: req.SessionID, Response: NotScoredReply}, nil
	}

	wantsRecs := a.Classifier.WantsRecommendations(req.Message)
	messages, opts := a.assemble(scored, history, req.Message, wantsRecs)
	log.Debug("invoking model",
		zap.Bool("recommendation_mode", wantsRecs),
		zap.Int("buildings", len(scored)),
		zap.Int("history", len(history)))

	reply, err := a.invoke(ctx, messages, opts)
	if err != nil {
		return nil, apperr.Internal(err, "model call failed")
	}
	if strings.TrimSpace(reply) == "" {
		reply = EmptyReply
	}

	parsed := extraction.Parse(reply)

	if err := a.Conversations.AppendMessage(ctx, req.SessionID, model.RoleAssistant, parsed.Text); err != nil {
		return nil, apperr.Internal(err, "failed to save assistant message")
	}

	resp := &model.ChatResponse{SessionID: req.SessionID, Response: parsed.Text}
	if len(parsed.Recommendations) == 0 {
		return resp, nil
	}

	if err := a.Conversations.ReplaceRecommendations(ctx, req.SessionID, parsed.Recommendations); err != nil {
		return nil, apperr.Internal(err, "failed to save session recommendations")
	}
	if err := a.Buildings.SetRecommendations(ctx, parsed.Recommendations); err != nil {
		return nil, apperr.Internal(err, "failed to flag recommended buildings")
	}

	resp.Recommendations = Enrich(parsed.Recommendations, scored)
	log.Info("recommendations saved", zap.Int("count", len(resp.Recommendations)))
	return resp, nil
}

// assemble orders the model input: system prompt, building context, prior
// turns, the follow-up instruction when applicable, then the user message.
func (a *Advisor) assemble(scored []model.Building, history []model.ChatMessage, message string, wantsRecs bool) ([]model.ChatMessage, llm.Options) {
	// History is read after the user message is stored; drop that copy.
	if n := len(history); n > 0 && history[n-1].Role == model.RoleUser && history[n-1].Content == message {
		history = history[:n-1]
	}
	// A window cut mid-exchange can open with an assistant turn.
	for len(history) > 0 && history[0].Role == model.RoleAssistant {
		history = history[1:]
	}

	messages := make([]model.ChatMessage, 0, len(history)+4)
	messages = append(messages,
		model.ChatMessage{Role: model.RoleSystem, Content: buildSystemPrompt(len(scored))},
		model.ChatMessage{Role: model.RoleSystem, Content: buildBuildingContext(scored)},
	)
	messages = append(messages, history...)

	opts := recommendationOptions
	if !wantsRecs {
		messages = append(messages, model.ChatMessage{Role: model.RoleSystem, Content: followUpInstruction})
		opts = followUpOptions
	}
	messages = append(messages, model.ChatMessage{Role: model.RoleUser, Content: message})
	return messages, opts
}

func (a *Advisor) invoke(ctx context.Context, messages []model.ChatMessage, opts llm.Options) (string, error) {
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}
	return a.LLM.Chat(ctx, messages, opts)
}

// Enrich attaches address and district from buildings; unknown ids get
// blank fields.
func Enrich(recs []model.Recommendation, buildings []model.Building) []model.EnrichedRecommendation {
	byID := make(map[int]model.Building, len(buildings))
	for _, b := range buildings {
		byID[b.ID] = b
	}
	out := make([]model.EnrichedRecommendation, len(recs))
	for i, r := range recs {
		b := byID[r.BuildingID]
		out[i] = model.EnrichedRecommendation{
			BuildingID: r.BuildingID,
			Score:      r.Score,
			Reason:     r.Reason,
			Address:    b.Address,
			District:   b.District,
		}
	}
	return out
}
